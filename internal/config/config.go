package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	ListenAddr   string `toml:"listen_addr"`
	DatabasePath string `toml:"database_path"`
	DataDir      string `toml:"data_dir"`

	// Defaults seeded into the settings store on first run.
	ServerDir string `toml:"server_dir"`
	JavaPath  string `toml:"java_path"`
	MinMemory string `toml:"min_memory"`
	MaxMemory string `toml:"max_memory"`
	ServerJar string `toml:"server_jar"`
}

// Load reads the optional TOML config file, then applies environment
// overrides on top.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr: ":8080",
		DataDir:    "./data",
		ServerDir:  "./server",
		JavaPath:   "java",
		MinMemory:  "1024M",
		MaxMemory:  "2048M",
	}

	path := envOr("CRAFTDECK_CONFIG", "craftdeck.toml")
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.ListenAddr = envOr("CRAFTDECK_LISTEN", cfg.ListenAddr)
	cfg.DataDir = envOr("CRAFTDECK_DATA_DIR", cfg.DataDir)
	cfg.ServerDir = envOr("CRAFTDECK_SERVER_DIR", cfg.ServerDir)
	cfg.JavaPath = envOr("CRAFTDECK_JAVA", cfg.JavaPath)
	cfg.MinMemory = envOr("CRAFTDECK_MIN_MEM", cfg.MinMemory)
	cfg.MaxMemory = envOr("CRAFTDECK_MAX_MEM", cfg.MaxMemory)
	cfg.ServerJar = envOr("CRAFTDECK_JAR", cfg.ServerJar)

	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir

	serverDir, err := filepath.Abs(cfg.ServerDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(serverDir, 0755); err != nil {
		return nil, err
	}
	cfg.ServerDir = serverDir

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(dataDir, "craftdeck.db")
	}
	cfg.DatabasePath = envOr("CRAFTDECK_DB", cfg.DatabasePath)

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
