package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// Answer generators.
const (
	// GeneratorExtractive answers offline from the retrieved sentences.
	GeneratorExtractive = "extractive"
	// GeneratorChat answers through an OpenAI-compatible chat endpoint.
	GeneratorChat = "chat"
)

type Config struct {
	//===============
	// Storage
	//===============
	// Directory uploaded documents are copied into before ingestion
	uploadDir string
	// Directory holding the chunk store
	persistDir string
	// Append-only audit log of classified failures
	logPath string

	//===============
	// Ingestion
	//===============
	// Maximum characters per chunk
	chunkSize int
	// Characters shared between consecutive chunks
	chunkOverlap int
	// Upper bound of an accepted document, in megabytes
	maxFileSizeMB int
	// Accepted document extensions, lowercase with leading dot
	allowedExtensions []string
	// Number of documents processed concurrently within one batch
	concurrency int

	//===============
	// Retrieval / model
	//===============
	// Number of chunks handed to the generator
	topK int
	// GeneratorExtractive or GeneratorChat
	generator string
	// Sampling temperature passed to the model
	temperature float64
	// Chat model name
	model string
	// Base URL of the OpenAI-compatible chat endpoint
	modelBaseURL string
	// Environment variable holding the chat endpoint's API key
	apiKeyEnv string
	// External configuration values that must be present before model or
	// storage access
	requiredEnv []string
}

type configDTO struct {
	UploadDir         string   `json:"uploadDir,omitempty"`
	PersistDir        string   `json:"persistDir,omitempty"`
	LogPath           string   `json:"logPath,omitempty"`
	ChunkSize         int      `json:"chunkSize,omitempty"`
	ChunkOverlap      *int     `json:"chunkOverlap,omitempty"`
	MaxFileSizeMB     int      `json:"maxFileSizeMB,omitempty"`
	AllowedExtensions []string `json:"allowedExtensions,omitempty"`
	Concurrency       int      `json:"concurrency,omitempty"`
	TopK              int      `json:"topK,omitempty"`
	Generator         string   `json:"generator,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	Model             string   `json:"model,omitempty"`
	ModelBaseURL      string   `json:"modelBaseURL,omitempty"`
	APIKeyEnv         string   `json:"apiKeyEnv,omitempty"`
	RequiredEnv       []string `json:"requiredEnv,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	if dto.UploadDir != "" {
		cfg.uploadDir = dto.UploadDir
	}
	if dto.PersistDir != "" {
		cfg.persistDir = dto.PersistDir
	}
	if dto.LogPath != "" {
		cfg.logPath = dto.LogPath
	}
	if dto.ChunkSize != 0 {
		cfg.chunkSize = dto.ChunkSize
	}
	// zero overlap is meaningful, so only a missing key keeps the default
	if dto.ChunkOverlap != nil {
		cfg.chunkOverlap = *dto.ChunkOverlap
	}
	if dto.MaxFileSizeMB != 0 {
		cfg.maxFileSizeMB = dto.MaxFileSizeMB
	}
	if len(dto.AllowedExtensions) > 0 {
		cfg.WithAllowedExtensions(dto.AllowedExtensions)
	}
	if dto.Concurrency != 0 {
		cfg.concurrency = dto.Concurrency
	}
	if dto.TopK != 0 {
		cfg.topK = dto.TopK
	}
	if dto.Generator != "" {
		cfg.generator = dto.Generator
	}
	if dto.Temperature != nil {
		cfg.temperature = *dto.Temperature
	}
	if dto.Model != "" {
		cfg.model = dto.Model
	}
	if dto.ModelBaseURL != "" {
		cfg.modelBaseURL = dto.ModelBaseURL
	}
	if dto.APIKeyEnv != "" {
		cfg.apiKeyEnv = dto.APIKeyEnv
	}
	if dto.RequiredEnv != nil {
		cfg.requiredEnv = dto.RequiredEnv
	}

	return cfg.Build()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, configError(ErrFileDoesNotExist, "", "%s", err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configError(ErrReadConfigFail, "", "%s", err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, configError(ErrConfigParsingFail, "", "%s", err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config accepting PDFs only, chunking at
// 1000/200 runes, retrieving the top 3 chunks and answering offline.
func WithDefault() *Config {
	defaultConfig := Config{
		uploadDir:         "uploaded_files",
		persistDir:        "chroma_db",
		logPath:           "askpdf_errors.log",
		chunkSize:         1000,
		chunkOverlap:      200,
		maxFileSizeMB:     50,
		allowedExtensions: []string{".pdf"},
		concurrency:       1,
		topK:              3,
		generator:         GeneratorExtractive,
		temperature:       0,
		model:             "gemini-1.5-flash",
		modelBaseURL:      "https://generativelanguage.googleapis.com/v1beta/openai/",
		apiKeyEnv:         "GOOGLE_API_KEY",
		requiredEnv:       []string{"GOOGLE_API_KEY"},
	}
	return &defaultConfig
}

func (c *Config) WithUploadDir(dir string) *Config {
	c.uploadDir = dir
	return c
}

func (c *Config) WithPersistDir(dir string) *Config {
	c.persistDir = dir
	return c
}

func (c *Config) WithLogPath(path string) *Config {
	c.logPath = path
	return c
}

func (c *Config) WithChunkSize(size int) *Config {
	c.chunkSize = size
	return c
}

func (c *Config) WithChunkOverlap(overlap int) *Config {
	c.chunkOverlap = overlap
	return c
}

func (c *Config) WithMaxFileSizeMB(mb int) *Config {
	c.maxFileSizeMB = mb
	return c
}

func (c *Config) WithAllowedExtensions(exts []string) *Config {
	normalized := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		normalized = append(normalized, e)
	}
	c.allowedExtensions = normalized
	return c
}

func (c *Config) WithConcurrency(concurrency int) *Config {
	c.concurrency = concurrency
	return c
}

func (c *Config) WithTopK(k int) *Config {
	c.topK = k
	return c
}

func (c *Config) WithGenerator(generator string) *Config {
	c.generator = strings.ToLower(strings.TrimSpace(generator))
	return c
}

func (c *Config) WithTemperature(temperature float64) *Config {
	c.temperature = temperature
	return c
}

func (c *Config) WithModel(model string) *Config {
	c.model = model
	return c
}

func (c *Config) WithModelBaseURL(url string) *Config {
	c.modelBaseURL = url
	return c
}

func (c *Config) WithAPIKeyEnv(name string) *Config {
	c.apiKeyEnv = name
	return c
}

func (c *Config) WithRequiredEnv(names []string) *Config {
	c.requiredEnv = names
	return c
}

// ApplyEnv overlays the environment variables understood by the service.
// Malformed numbers are configuration errors.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	strs := []struct {
		name   string
		target *string
	}{
		{"UPLOAD_DIR", &c.uploadDir},
		{"PERSIST_DIR", &c.persistDir},
		{"ASKPDF_LOG_PATH", &c.logPath},
		{"GEMINI_MODEL", &c.model},
		{"MODEL_BASE_URL", &c.modelBaseURL},
	}
	for _, s := range strs {
		if v, ok := lookup(s.name); ok && v != "" {
			*s.target = v
		}
	}

	ints := []struct {
		name   string
		target *int
	}{
		{"CHUNK_SIZE", &c.chunkSize},
		{"CHUNK_OVERLAP", &c.chunkOverlap},
		{"TOP_K", &c.topK},
		{"MAX_FILE_SIZE_MB", &c.maxFileSizeMB},
		{"INGEST_CONCURRENCY", &c.concurrency},
	}
	for _, i := range ints {
		v, ok := lookup(i.name)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return configError(ErrInvalidConfig, i.name, "%s must be an integer, got %q", i.name, v)
		}
		*i.target = n
	}

	if v, ok := lookup("TEMPERATURE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return configError(ErrInvalidConfig, "TEMPERATURE", "TEMPERATURE must be a number, got %q", v)
		}
		c.temperature = f
	}

	if v, ok := lookup("ANSWER_GENERATOR"); ok && v != "" {
		c.WithGenerator(v)
	}

	if v, ok := lookup("ALLOWED_EXTENSIONS"); ok && v != "" {
		c.WithAllowedExtensions(strings.Split(v, ","))
	}
	return nil
}

func (c *Config) Build() (Config, error) {
	switch {
	case c.chunkSize <= 0:
		return Config{}, configError(ErrInvalidConfig, "chunkSize", "chunkSize must be positive")
	case c.chunkOverlap < 0 || c.chunkOverlap >= c.chunkSize:
		return Config{}, configError(ErrInvalidConfig, "chunkOverlap", "chunkOverlap must be in [0, chunkSize)")
	case c.maxFileSizeMB <= 0:
		return Config{}, configError(ErrInvalidConfig, "maxFileSizeMB", "maxFileSizeMB must be positive")
	case len(c.allowedExtensions) == 0:
		return Config{}, configError(ErrInvalidConfig, "allowedExtensions", "at least one extension must be allowed")
	case c.concurrency < 1:
		return Config{}, configError(ErrInvalidConfig, "concurrency", "concurrency must be at least 1")
	case c.topK < 1:
		return Config{}, configError(ErrInvalidConfig, "topK", "topK must be at least 1")
	case c.generator != GeneratorExtractive && c.generator != GeneratorChat:
		return Config{}, configError(ErrInvalidConfig, "generator", "generator must be %q or %q, got %q", GeneratorExtractive, GeneratorChat, c.generator)
	case c.temperature < 0 || c.temperature > 2:
		return Config{}, configError(ErrInvalidConfig, "temperature", "temperature must be in [0, 2]")
	case c.generator == GeneratorChat && (c.model == "" || c.modelBaseURL == "" || c.apiKeyEnv == ""):
		return Config{}, configError(ErrInvalidConfig, "model", "the chat generator needs model, modelBaseURL and apiKeyEnv")
	case c.uploadDir == "" || c.persistDir == "" || c.logPath == "":
		return Config{}, configError(ErrInvalidConfig, "", "uploadDir, persistDir and logPath cannot be empty")
	}

	return *c, nil
}

func (c Config) UploadDir() string {
	return c.uploadDir
}

func (c Config) PersistDir() string {
	return c.persistDir
}

func (c Config) LogPath() string {
	return c.logPath
}

func (c Config) ChunkSize() int {
	return c.chunkSize
}

func (c Config) ChunkOverlap() int {
	return c.chunkOverlap
}

func (c Config) MaxFileSizeMB() int {
	return c.maxFileSizeMB
}

func (c Config) AllowedExtensions() []string {
	exts := make([]string, len(c.allowedExtensions))
	copy(exts, c.allowedExtensions)
	return exts
}

func (c Config) Concurrency() int {
	return c.concurrency
}

func (c Config) TopK() int {
	return c.topK
}

func (c Config) Temperature() float64 {
	return c.temperature
}

func (c Config) Model() string {
	return c.model
}

func (c Config) Generator() string {
	return c.generator
}

func (c Config) ModelBaseURL() string {
	return c.modelBaseURL
}

func (c Config) APIKeyEnv() string {
	return c.apiKeyEnv
}

func (c Config) RequiredEnv() []string {
	names := make([]string, len(c.requiredEnv))
	copy(names, c.requiredEnv)
	return names
}
