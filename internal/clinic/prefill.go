package clinic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// PrefillResult carries appearance hints scraped from a clinic's
// public website.
type PrefillResult struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ThemeColor  string `json:"theme_color,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Prefiller fetches a clinic website and extracts appearance hints
// from its markup.
type Prefiller struct {
	client *http.Client
}

// NewPrefiller creates a prefiller. A nil client gets a default with a
// 10 second timeout.
func NewPrefiller(client *http.Client) *Prefiller {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Prefiller{client: client}
}

// Prefill fetches the given URL and extracts the page title, meta
// description, theme-color, and og:image.
func (p *Prefiller) Prefill(ctx context.Context, websiteURL string) (*PrefillResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, websiteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("clinic: prefill request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clinic: prefill fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clinic: prefill fetch: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("clinic: prefill parse: %w", err)
	}

	result := &PrefillResult{}
	walkHTML(doc, result)
	return result, nil
}

func walkHTML(n *html.Node, result *PrefillResult) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "title":
			if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				result.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			name, property, content := "", "", ""
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					name = strings.ToLower(attr.Val)
				case "property":
					property = strings.ToLower(attr.Val)
				case "content":
					content = attr.Val
				}
			}
			switch {
			case name == "theme-color" && result.ThemeColor == "":
				result.ThemeColor = content
			case name == "description" && result.Description == "":
				result.Description = strings.TrimSpace(content)
			case property == "og:image" && result.ImageURL == "":
				result.ImageURL = content
			case property == "og:title" && result.Title == "":
				result.Title = strings.TrimSpace(content)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, result)
	}
}
