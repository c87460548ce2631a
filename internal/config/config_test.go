package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Chat.AutosaveEvery = 6
	cfg.LogMode = "production"

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.Chat.AutosaveEvery != 6 {
		t.Errorf("Chat.AutosaveEvery: got %d, want 6", loaded.Chat.AutosaveEvery)
	}
	if loaded.LogMode != "production" {
		t.Errorf("LogMode: got %q, want %q", loaded.LogMode, "production")
	}
}

func TestDefaultConfigAutosaveEvery(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Chat.AutosaveEvery != 4 {
		t.Errorf("default Chat.AutosaveEvery: got %d, want 4", cfg.Chat.AutosaveEvery)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	partial := `version: 1
log_mode: production
`
	configPath := filepath.Join(tmpDir, ".bread")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on partial config: %v", err)
	}
	if cfg.Database != "bread.db" {
		t.Errorf("Database: got %q, want default bread.db", cfg.Database)
	}
	if cfg.Chat.AutosaveEvery != 4 {
		t.Errorf("Chat.AutosaveEvery: got %d, want default 4", cfg.Chat.AutosaveEvery)
	}
	if cfg.History.MaxAgeDays != 90 {
		t.Errorf("History.MaxAgeDays: got %d, want default 90", cfg.History.MaxAgeDays)
	}
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "bread.db" {
		t.Errorf("Database: got %q, want bread.db", cfg.Database)
	}
}

func TestLoadMalformedFails(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".bread")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte("chat: [oops"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(tmpDir); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	err := applyEnv(cfg, env.Options{Environment: map[string]string{
		"BREAD_DATABASE":       "other.db",
		"BREAD_AUTOSAVE_EVERY": "10",
	}})
	if err != nil {
		t.Fatalf("applyEnv failed: %v", err)
	}
	if cfg.Database != "other.db" {
		t.Errorf("Database: got %q, want other.db", cfg.Database)
	}
	if cfg.Chat.AutosaveEvery != 10 {
		t.Errorf("Chat.AutosaveEvery: got %d, want 10", cfg.Chat.AutosaveEvery)
	}
	if cfg.LogMode != "development" {
		t.Errorf("LogMode should keep its default, got %q", cfg.LogMode)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.DatabasePath("/home/ada")
	want := filepath.Join("/home/ada", ".bread", "data", "bread.db")
	if got != want {
		t.Errorf("DatabasePath: got %q, want %q", got, want)
	}

	cfg.DataDir = "/var/lib/bread"
	if got := cfg.DatabasePath("/home/ada"); got != filepath.Join("/var/lib/bread", "bread.db") {
		t.Errorf("absolute DataDir ignored: %q", got)
	}
}
