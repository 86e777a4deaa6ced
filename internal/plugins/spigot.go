// Package plugins discovers server plugins from upstream listings.
package plugins

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const spigotListingURL = "https://www.spigotmc.org/resources/categories/spigot.4/"

// Plugin is one listed plugin resource.
type Plugin struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SpigotSource lists plugins from the Spigot resources category page.
// The listing is plain HTML: each resource is an <h3 class="resource-title">
// wrapping a link.
type SpigotSource struct {
	ListingURL string
}

func NewSpigotSource() *SpigotSource {
	return &SpigotSource{ListingURL: spigotListingURL}
}

func (s *SpigotSource) Fetch(ctx context.Context, client *http.Client) ([]Plugin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ListingURL, nil)
	if err != nil {
		return nil, err
	}
	// The listing blocks default Go user agents.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch plugin listing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.ListingURL)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse plugin listing: %w", err)
	}

	base, err := url.Parse(s.ListingURL)
	if err != nil {
		return nil, err
	}

	var plugins []Plugin
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "h3" && hasClass(n, "resource-title") {
			if p, ok := resourceFrom(n, base); ok {
				plugins = append(plugins, p)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return plugins, nil
}

// resourceFrom pulls the title text and link out of one resource heading.
func resourceFrom(n *html.Node, base *url.URL) (Plugin, bool) {
	var link *html.Node
	var find func(*html.Node)
	find = func(c *html.Node) {
		if link != nil {
			return
		}
		if c.Type == html.ElementNode && c.Data == "a" {
			link = c
			return
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			find(gc)
		}
	}
	find(n)
	if link == nil {
		return Plugin{}, false
	}

	name := strings.TrimSpace(text(link))
	href := attr(link, "href")
	if name == "" || href == "" {
		return Plugin{}, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return Plugin{}, false
	}
	return Plugin{Name: name, URL: base.ResolveReference(ref).String()}, true
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			walk(gc)
		}
	}
	walk(n)
	return b.String()
}
