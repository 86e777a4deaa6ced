// Package java probes the configured Java runtime.
package java

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Info describes a detected Java runtime.
type Info struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// Detect runs `<path> -version` and returns the reported version line.
// The JVM prints version output on stderr.
func Detect(ctx context.Context, path string) (*Info, error) {
	if path == "" {
		path = "java"
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "-version")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s -version: %w", path, err)
	}

	out := stderr.String()
	if strings.TrimSpace(out) == "" {
		out = stdout.String()
	}
	line, _, _ := strings.Cut(out, "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("%s -version produced no output", path)
	}
	return &Info{Path: path, Version: line}, nil
}
