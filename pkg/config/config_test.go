package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := &Config{}
	if got := c.GetLogLevel(); got != DefaultLogLevel {
		t.Errorf("GetLogLevel() = %q, want %q", got, DefaultLogLevel)
	}
	if got := c.GetNPUBackend(); got != DefaultNPUBackend {
		t.Errorf("GetNPUBackend() = %q, want %q", got, DefaultNPUBackend)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "aclcore-config-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "config.yaml")
	original := &Config{
		LogLevel:     "debug",
		NPUBackend:   "sim",
		DumpSinkAddr: "localhost:6379",
		DumpSinkDB:   2,
	}

	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() failed: %v", err)
	}
	if loaded.LogLevel != original.LogLevel {
		t.Errorf("LogLevel mismatch: got %q, want %q", loaded.LogLevel, original.LogLevel)
	}
	if loaded.NPUBackend != original.NPUBackend {
		t.Errorf("NPUBackend mismatch: got %q, want %q", loaded.NPUBackend, original.NPUBackend)
	}
	if loaded.DumpSinkAddr != original.DumpSinkAddr {
		t.Errorf("DumpSinkAddr mismatch: got %q, want %q", loaded.DumpSinkAddr, original.DumpSinkAddr)
	}
	if loaded.DumpSinkDB != original.DumpSinkDB {
		t.Errorf("DumpSinkDB mismatch: got %d, want %d", loaded.DumpSinkDB, original.DumpSinkDB)
	}
}

func TestLoadFromNonExistent(t *testing.T) {
	c, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadFrom() non-existent should not error: %v", err)
	}
	if c.LogLevel != "" {
		t.Error("LoadFrom() non-existent should return a zero-value Config")
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "aclcore-config-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: [unterminated"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() with invalid YAML should error")
	}
}

func TestSaveToCreatesDirectory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "aclcore-config-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "nested", "dir", "config.yaml")
	c := &Config{LogLevel: "warn"}
	if err := c.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() should create directories: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("SaveTo() should have created the file")
	}
}

func TestDefaultPath(t *testing.T) {
	originalHome := os.Getenv("HOME")
	defer os.Setenv("HOME", originalHome)

	tmpDir, err := os.MkdirTemp("", "aclcore-config-home-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	os.Setenv("HOME", tmpDir)

	want := filepath.Join(tmpDir, ".aclcore", "config.yaml")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
