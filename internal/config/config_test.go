package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CRAFTDECK_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("CRAFTDECK_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("CRAFTDECK_SERVER_DIR", filepath.Join(dir, "server"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("unexpected listen addr %q", cfg.ListenAddr)
	}
	if cfg.MinMemory != "1024M" || cfg.MaxMemory != "2048M" {
		t.Fatalf("unexpected heap defaults %q/%q", cfg.MinMemory, cfg.MaxMemory)
	}
	if cfg.DatabasePath != filepath.Join(cfg.DataDir, "craftdeck.db") {
		t.Fatalf("unexpected db path %q", cfg.DatabasePath)
	}
	if _, err := os.Stat(cfg.DataDir); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "craftdeck.toml")
	content := `listen_addr = ":9090"
java_path = "/opt/java/bin/java"
min_memory = "2G"
data_dir = "` + filepath.Join(dir, "data") + `"
server_dir = "` + filepath.Join(dir, "srv") + `"
`
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CRAFTDECK_CONFIG", file)
	t.Setenv("CRAFTDECK_MIN_MEM", "4G") // env wins over file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("file value not applied: %q", cfg.ListenAddr)
	}
	if cfg.JavaPath != "/opt/java/bin/java" {
		t.Fatalf("file value not applied: %q", cfg.JavaPath)
	}
	if cfg.MinMemory != "4G" {
		t.Fatalf("env override not applied: %q", cfg.MinMemory)
	}
}
