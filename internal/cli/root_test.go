package cmd_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	cmd "github.com/rohmanhakim/askpdf/internal/cli"
	"github.com/rohmanhakim/askpdf/internal/config"
)

func TestInitConfigNoFlags(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	defaultCfg, err := config.WithDefault().Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}
	if cfg.ChunkSize() != defaultCfg.ChunkSize() {
		t.Errorf("Expected ChunkSize %d, got %d", defaultCfg.ChunkSize(), cfg.ChunkSize())
	}
	if cfg.ChunkOverlap() != defaultCfg.ChunkOverlap() {
		t.Errorf("Expected ChunkOverlap %d, got %d", defaultCfg.ChunkOverlap(), cfg.ChunkOverlap())
	}
	if cfg.TopK() != defaultCfg.TopK() {
		t.Errorf("Expected TopK %d, got %d", defaultCfg.TopK(), cfg.TopK())
	}
}

func TestInitConfigWithFlags(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetPersistDirForTest("/tmp/askpdf-db")
	cmd.SetChunkSizeForTest(300)
	cmd.SetChunkOverlapForTest(0)
	cmd.SetAllowedExtsForTest([]string{"txt"})

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.PersistDir() != "/tmp/askpdf-db" {
		t.Errorf("Expected PersistDir '/tmp/askpdf-db', got %q", cfg.PersistDir())
	}
	if cfg.ChunkSize() != 300 {
		t.Errorf("Expected ChunkSize 300, got %d", cfg.ChunkSize())
	}
	if cfg.ChunkOverlap() != 0 {
		t.Errorf("Expected ChunkOverlap 0, got %d", cfg.ChunkOverlap())
	}
	if exts := cfg.AllowedExtensions(); len(exts) != 1 || exts[0] != ".txt" {
		t.Errorf("Expected AllowedExtensions ['.txt'], got %v", exts)
	}
}

func TestInitConfigFlagsOverrideEnv(t *testing.T) {
	cmd.ResetFlags()
	t.Setenv("TOP_K", "9")
	t.Setenv("PERSIST_DIR", "/from/env")
	cmd.SetPersistDirForTest("/from/flag")

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.TopK() != 9 {
		t.Errorf("Expected TopK 9 from env, got %d", cfg.TopK())
	}
	if cfg.PersistDir() != "/from/flag" {
		t.Errorf("Expected flag to win, got %q", cfg.PersistDir())
	}
}

func TestInitConfigInvalid(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetChunkSizeForTest(10)
	cmd.SetChunkOverlapForTest(20)

	_, err := cmd.InitConfigWithError()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestInitConfigFromFile(t *testing.T) {
	cmd.ResetFlags()
	path := filepath.Join(t.TempDir(), "askpdf.json")
	if err := os.WriteFile(path, []byte(`{"topK": 4, "persistDir": "/srv/db"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cmd.SetConfigFileForTest(path)
	// file config ignores flags
	cmd.SetChunkSizeForTest(10)

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.TopK() != 4 || cfg.PersistDir() != "/srv/db" {
		t.Errorf("file values not applied: topK=%d persistDir=%q", cfg.TopK(), cfg.PersistDir())
	}
	if cfg.ChunkSize() != 1000 {
		t.Errorf("Expected default ChunkSize, got %d", cfg.ChunkSize())
	}
}

func TestInitConfigMissingFile(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetConfigFileForTest(filepath.Join(t.TempDir(), "nope.json"))

	_, err := cmd.InitConfigWithError()
	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("Expected ErrFileDoesNotExist, got %v", err)
	}
}

func TestInitConfigLoadsEnvFile(t *testing.T) {
	cmd.ResetFlags()
	os.Unsetenv("CHUNK_SIZE")
	t.Cleanup(func() { os.Unsetenv("CHUNK_SIZE") })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CHUNK_SIZE=640\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cmd.SetEnvFilesForTest([]string{path})

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.ChunkSize() != 640 {
		t.Errorf("Expected ChunkSize 640 from .env, got %d", cfg.ChunkSize())
	}
}
