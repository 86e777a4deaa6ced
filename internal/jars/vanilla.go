package jars

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const mojangManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"

func init() {
	Register(&VanillaSource{ManifestURL: mojangManifestURL})
}

// VanillaSource lists official server jars from the Mojang version
// manifest. Each release entry points at a per-version document that
// carries the actual server download URL.
type VanillaSource struct {
	ManifestURL string
}

func (s *VanillaSource) Flavor() string { return "vanilla" }

func (s *VanillaSource) Fetch(ctx context.Context, client *http.Client) ([]Version, error) {
	var manifest struct {
		Versions []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"versions"`
	}
	if err := getJSON(ctx, client, s.ManifestURL, &manifest); err != nil {
		return nil, fmt.Errorf("fetch version manifest: %w", err)
	}

	var versions []Version
	for _, v := range manifest.Versions {
		if v.Type != "release" {
			continue
		}
		var info struct {
			Downloads struct {
				Server struct {
					URL string `json:"url"`
				} `json:"server"`
			} `json:"downloads"`
		}
		if err := getJSON(ctx, client, v.URL, &info); err != nil {
			return nil, fmt.Errorf("fetch version %s: %w", v.ID, err)
		}
		if info.Downloads.Server.URL == "" {
			continue
		}
		versions = append(versions, Version{Name: v.ID, URL: info.Downloads.Server.URL})
	}
	return versions, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "craftdeck")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
