package jars

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const arclightReleasesURL = "https://api.github.com/repos/IzzelAliz/Arclight/releases"

func init() {
	Register(&ArclightSource{ReleasesURL: arclightReleasesURL})
}

// ArclightSource lists Arclight server jars from GitHub release assets,
// one jar per release.
type ArclightSource struct {
	ReleasesURL string
}

func (s *ArclightSource) Flavor() string { return "arclight" }

func (s *ArclightSource) Fetch(ctx context.Context, client *http.Client) ([]Version, error) {
	var releases []struct {
		TagName string `json:"tag_name"`
		Assets  []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := getJSON(ctx, client, s.ReleasesURL, &releases); err != nil {
		return nil, fmt.Errorf("fetch arclight releases: %w", err)
	}

	var versions []Version
	for _, rel := range releases {
		for _, asset := range rel.Assets {
			if !strings.HasSuffix(asset.Name, ".jar") {
				continue
			}
			versions = append(versions, Version{
				Name: fmt.Sprintf("Arclight %s - %s", rel.TagName, asset.Name),
				URL:  asset.BrowserDownloadURL,
			})
			break
		}
	}
	return versions, nil
}
