package jars

import (
	"context"
	"fmt"
	"net/http"
)

const forgePromotionsURL = "https://files.minecraftforge.net/maven/net/minecraftforge/forge/promotions_slim.json"

func init() {
	Register(&ForgeSource{PromotionsURL: forgePromotionsURL})
}

// ForgeSource lists the recommended and latest Forge installer jars.
type ForgeSource struct {
	PromotionsURL string
}

func (s *ForgeSource) Flavor() string { return "forge" }

func (s *ForgeSource) Fetch(ctx context.Context, client *http.Client) ([]Version, error) {
	var promos struct {
		Recommended string `json:"recommended"`
		Latest      string `json:"latest"`
	}
	if err := getJSON(ctx, client, s.PromotionsURL, &promos); err != nil {
		return nil, fmt.Errorf("fetch forge promotions: %w", err)
	}

	var versions []Version
	for _, ver := range []string{promos.Recommended, promos.Latest} {
		if ver == "" {
			continue
		}
		versions = append(versions, Version{
			Name: "Forge " + ver,
			URL: fmt.Sprintf(
				"https://files.minecraftforge.net/maven/net/minecraftforge/forge/%s/forge-%s-installer.jar",
				ver, ver,
			),
		})
	}
	return versions, nil
}
