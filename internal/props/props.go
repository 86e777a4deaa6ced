// Package props reads and writes server.properties files.
package props

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one key=value pair, in file order.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Load parses the properties file, keeping only key=value lines.
// Comments and blank lines are dropped, matching the editor's view of the
// file.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
			continue
		}
		key, value, _ := strings.Cut(line, "=")
		entries = append(entries, Entry{Key: key, Value: value})
	}
	return entries, nil
}

// Save rewrites the file from the given entries. Comments present in the
// original file are not preserved.
func Save(path string, entries []Entry) error {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("empty property key")
		}
		lines = append(lines, e.Key+"="+e.Value)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}
