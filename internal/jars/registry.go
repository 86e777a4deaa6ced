// Package jars discovers downloadable server jars from upstream version
// metadata, one source per server flavor.
package jars

import (
	"context"
	"net/http"
	"sort"
	"sync"
)

// Version is one downloadable server artifact.
type Version struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Source lists available server jars for one flavor.
type Source interface {
	// Flavor returns the source identifier (e.g. "vanilla", "forge").
	Flavor() string

	// Fetch returns the available versions, newest first as published
	// upstream.
	Fetch(ctx context.Context, client *http.Client) ([]Version, error)
}

var (
	mu      sync.RWMutex
	sources = map[string]Source{}
)

func Register(src Source) {
	mu.Lock()
	defer mu.Unlock()
	sources[src.Flavor()] = src
}

func Get(flavor string) Source {
	mu.RLock()
	defer mu.RUnlock()
	return sources[flavor]
}

func Flavors() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(sources))
	for k := range sources {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
