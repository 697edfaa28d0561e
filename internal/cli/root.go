package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rohmanhakim/askpdf/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	envFiles      []string
	uploadDir     string
	persistDir    string
	logFile       string
	chunkSize     int
	chunkOverlap  int
	topK          int
	concurrency   int
	maxFileSizeMB int
	allowedExts   []string
	requiredEnv   []string
	generator     string
	model         string
	temperature   float64
)

// ErrCommandFailed is returned after a failure envelope has been printed.
var ErrCommandFailed = errors.New("command failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "askpdf",
	Short: "Ask questions about your documents.",
	Long: `askpdf ingests PDF (and optionally HTML, text and markdown) documents
into a local chunk store and answers questions from their content.

Every command prints a JSON envelope. Failures carry an error code from a
fixed taxonomy and are appended to the error log.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrCommandFailed) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/askpdf.json)")
	flags.StringArrayVar(&envFiles, "env-file", []string{}, ".env files loaded before checks (default .env)")
	flags.StringVar(&uploadDir, "upload-dir", "", "directory documents are copied into")
	flags.StringVar(&persistDir, "persist-dir", "", "directory of the chunk store")
	flags.StringVar(&logFile, "log-file", "", "append-only error log path")
	flags.IntVar(&chunkSize, "chunk-size", 0, "maximum characters per chunk")
	flags.IntVar(&chunkOverlap, "chunk-overlap", -1, "characters shared by consecutive chunks")
	flags.IntVar(&topK, "top-k", 0, "number of chunks used to answer")
	flags.IntVar(&concurrency, "concurrency", 0, "documents ingested in parallel")
	flags.IntVar(&maxFileSizeMB, "max-file-size", 0, "maximum document size in MB")
	flags.StringArrayVar(&allowedExts, "allowed-ext", []string{}, "accepted file extensions (can be repeated)")
	flags.StringArrayVar(&requiredEnv, "require-env", []string{}, "environment variables required before answering (can be repeated)")
	flags.StringVar(&generator, "generator", "", "answer generator: extractive or chat")
	flags.StringVar(&model, "model", "", "chat model name")
	flags.Float64Var(&temperature, "temperature", -1, "chat sampling temperature")

	rootCmd.AddCommand(
		newIngestCmd(),
		newAskCmd(),
		newListCmd(),
		newDeleteCmd(),
		newDeleteAllCmd(),
		newCheckEnvCmd(),
		newVersionCmd(),
	)
}

// InitConfigWithError builds the configuration from, in increasing
// precedence: defaults, environment variables, flags. A config file
// replaces all three.
func InitConfigWithError() (config.Config, error) {
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return config.Config{}, err
	}

	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	configBuilder := config.WithDefault()
	if err := configBuilder.ApplyEnv(nil); err != nil {
		return config.Config{}, err
	}

	if uploadDir != "" {
		configBuilder = configBuilder.WithUploadDir(uploadDir)
	}

	if persistDir != "" {
		configBuilder = configBuilder.WithPersistDir(persistDir)
	}

	if logFile != "" {
		configBuilder = configBuilder.WithLogPath(logFile)
	}

	if chunkSize > 0 {
		configBuilder = configBuilder.WithChunkSize(chunkSize)
	}

	if chunkOverlap >= 0 {
		configBuilder = configBuilder.WithChunkOverlap(chunkOverlap)
	}

	if topK > 0 {
		configBuilder = configBuilder.WithTopK(topK)
	}

	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}

	if maxFileSizeMB > 0 {
		configBuilder = configBuilder.WithMaxFileSizeMB(maxFileSizeMB)
	}

	if len(allowedExts) > 0 {
		configBuilder = configBuilder.WithAllowedExtensions(allowedExts)
	}

	if len(requiredEnv) > 0 {
		configBuilder = configBuilder.WithRequiredEnv(requiredEnv)
	}

	if generator != "" {
		configBuilder = configBuilder.WithGenerator(generator)
	}

	if model != "" {
		configBuilder = configBuilder.WithModel(model)
	}

	if temperature >= 0 {
		configBuilder = configBuilder.WithTemperature(temperature)
	}

	return configBuilder.Build()
}

func ResetFlags() {
	cfgFile = ""
	envFiles = []string{}
	uploadDir = ""
	persistDir = ""
	logFile = ""
	chunkSize = 0
	chunkOverlap = -1
	topK = 0
	concurrency = 0
	maxFileSizeMB = 0
	allowedExts = []string{}
	requiredEnv = []string{}
	generator = ""
	model = ""
	temperature = -1
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetEnvFilesForTest(paths []string) {
	envFiles = paths
}

func SetPersistDirForTest(dir string) {
	persistDir = dir
}

func SetChunkSizeForTest(size int) {
	chunkSize = size
}

func SetChunkOverlapForTest(overlap int) {
	chunkOverlap = overlap
}

func SetAllowedExtsForTest(exts []string) {
	allowedExts = exts
}

// RootForTest exposes the command tree so tests can run it with their own
// arguments and writers.
func RootForTest() *cobra.Command {
	return rootCmd
}
