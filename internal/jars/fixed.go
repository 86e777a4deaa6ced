package jars

import (
	"context"
	"fmt"
	"net/http"
)

func init() {
	Register(&MohistSource{})
	Register(&FabricSource{})
}

// MohistSource lists the Mohist builds for the supported Minecraft
// versions. Mohist serves a redirecting download endpoint per version.
type MohistSource struct{}

func (s *MohistSource) Flavor() string { return "mohist" }

func (s *MohistSource) Fetch(ctx context.Context, client *http.Client) ([]Version, error) {
	supported := []string{"1.7.10", "1.16.5", "1.20.1"}
	versions := make([]Version, 0, len(supported))
	for _, ver := range supported {
		versions = append(versions, Version{
			Name: "Mohist " + ver,
			URL:  fmt.Sprintf("https://mohistmc.com/downloadSoftware?project=mohist&projectVersion=%s", ver),
		})
	}
	return versions, nil
}

// FabricSource lists the pinned Fabric installer.
type FabricSource struct{}

func (s *FabricSource) Flavor() string { return "fabric" }

func (s *FabricSource) Fetch(ctx context.Context, client *http.Client) ([]Version, error) {
	const ver = "0.14.21"
	return []Version{{
		Name: "Fabric " + ver,
		URL:  fmt.Sprintf("https://maven.fabricmc.net/net/fabricmc/fabric-installer/%s/fabric-installer-%s.jar", ver, ver),
	}}, nil
}
