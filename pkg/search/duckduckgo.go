// Package search wraps the DuckDuckGo HTML endpoint as a plain-text
// web search tool.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// NoResults is returned when the search succeeds but yields nothing.
const NoResults = "No relevant information found."

type Config struct {
	Endpoint   string  // defaults to the public DuckDuckGo HTML endpoint
	MaxResults int     // default 3
	RateLimit  float64 // requests per second, default 1
	Timeout    time.Duration
}

type Client struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
}

func NewWithConfig(config Config) *Client {
	if config.Endpoint == "" {
		config.Endpoint = "https://html.duckduckgo.com/html/"
	}
	if config.MaxResults == 0 {
		config.MaxResults = 3
	}
	if config.RateLimit == 0 {
		config.RateLimit = 1
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

func New() *Client {
	return NewWithConfig(Config{})
}

// Search runs a text search and renders each hit as a
// Title/Source/snippet block.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqURL := c.config.Endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; medqa/1.0)")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse search results: %w", err)
	}

	var results []string
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find(".result__a")
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())

		if title == "" && snippet == "" {
			return true
		}
		if title == "" {
			title = "No title"
		}
		if href == "" {
			href = "No source"
		}
		results = append(results, fmt.Sprintf("Title: %s\nSource: %s\n%s", title, href, snippet))
		return len(results) < c.config.MaxResults
	})

	if len(results) == 0 {
		return NoResults, nil
	}
	return strings.Join(results, "\n\n"), nil
}
