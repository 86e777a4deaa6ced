// Package settings persists the mutable launch settings the operator
// edits at runtime, as opposed to the process-level config that is fixed
// at startup.
package settings

import (
	"database/sql"
	"fmt"

	"github.com/craftdeck/craftdeck/internal/console"
)

// Settings are the launch parameters for the server process.
type Settings struct {
	JavaPath  string `json:"java_path"`
	MinMemory string `json:"min_mem"`
	MaxMemory string `json:"max_mem"`
	ServerDir string `json:"server_dir"`
	ServerJar string `json:"server_jar"`
}

// LaunchConfig builds the supervisor launch configuration from the
// current settings.
func (s Settings) LaunchConfig() console.LaunchConfig {
	return console.LaunchConfig{
		JavaPath:  s.JavaPath,
		MinMemory: s.MinMemory,
		MaxMemory: s.MaxMemory,
		ServerDir: s.ServerDir,
		JarPath:   s.ServerJar,
	}
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Seed writes defaults for any key not yet present, so first run starts
// from the configured values without clobbering operator edits.
func (s *Store) Seed(defaults Settings) error {
	for key, value := range toMap(defaults) {
		_, err := s.db.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) Get() (Settings, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	var out Settings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "java_path":
			out.JavaPath = value
		case "min_mem":
			out.MinMemory = value
		case "max_mem":
			out.MaxMemory = value
		case "server_dir":
			out.ServerDir = value
		case "server_jar":
			out.ServerJar = value
		}
	}
	return out, rows.Err()
}

func (s *Store) Put(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range toMap(settings) {
		_, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		if err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func toMap(s Settings) map[string]string {
	return map[string]string{
		"java_path":  s.JavaPath,
		"min_mem":    s.MinMemory,
		"max_mem":    s.MaxMemory,
		"server_dir": s.ServerDir,
		"server_jar": s.ServerJar,
	}
}

// LaunchConfig loads the stored settings and maps them to a launch
// configuration.
func (s *Store) LaunchConfig() (console.LaunchConfig, error) {
	current, err := s.Get()
	if err != nil {
		return console.LaunchConfig{}, err
	}
	return current.LaunchConfig(), nil
}
