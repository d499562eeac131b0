package images

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/wallboard/wallboard/app/transport"
)

const (
	searchTimeout = 15 * time.Second
	maxAttempts   = 3
)

type fetcher interface {
	Fetch(ctx context.Context, r transport.Request) (*transport.Payload, error)
}

var _ fetcher = (*transport.Client)(nil)

// searchResponse mirrors the slice of the Custom Search answer we consume.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Link  string `json:"link"`
	Title string `json:"title"`
	Image *struct {
		Width         *int   `json:"width"`
		Height        *int   `json:"height"`
		ThumbnailLink string `json:"thumbnailLink"`
		ContextLink   string `json:"contextLink"`
	} `json:"image"`
}

// Client queries the image search API with bounded retries. The sleep
// function is injectable so tests can assert attempt counts without waiting.
type Client struct {
	transport      fetcher
	apiURL         string
	apiKey         string
	searchEngineID string
	sleep          func(time.Duration)
}

func NewClient(tc fetcher, apiKey, searchEngineID string) *Client {
	return &Client{
		transport:      tc,
		apiURL:         "https://www.googleapis.com/customsearch/v1",
		apiKey:         apiKey,
		searchEngineID: searchEngineID,
		sleep:          time.Sleep,
	}
}

// Search runs one upstream image search for query. It returns (nil, nil) when
// the search succeeded but produced no usable candidate, and an error only
// when all attempts failed.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	request := transport.Request{
		URL:     c.apiURL,
		Timeout: searchTimeout,
		Query: map[string]string{
			"key":          c.apiKey,
			"cx":           c.searchEngineID,
			"q":            buildSearchQuery(query),
			"searchType":   "image",
			"num":          "3",
			"safe":         "active",
			"imgType":      "photo",
			"imgSize":      "medium",
			"imgColorType": "color",
			"fileType":     "jpg,png",
			"rights":       "cc_publicdomain,cc_attribute,cc_sharealike,cc_noncommercial",
		},
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		payload, err := c.transport.Fetch(ctx, request)
		if err == nil {
			return c.extractBestImage(payload.Body, query)
		}

		lastErr = err
		if attempt == maxAttempts-1 {
			break
		}

		var transportErr *transport.Error
		if errors.As(err, &transportErr) && transportErr.IsRateLimited() {
			// Exponential backoff on rate limiting, per upstream guidance
			c.sleep(time.Duration(1<<uint(attempt)) * time.Second)
			continue
		}
		c.sleep(time.Second)
	}

	return nil, lastErr
}

// extractBestImage returns the first candidate with a well-formed link.
// Links without a recognizable image extension are still accepted; some
// upstreams serve images from extensionless URLs.
func (c *Client) extractBestImage(body []byte, originalQuery string) (*Result, error) {
	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, err
	}

	for _, item := range response.Items {
		if item.Link == "" || !isValidImageURL(item.Link) {
			continue
		}

		result := &Result{
			URL:      item.Link,
			Title:    item.Title,
			Query:    originalQuery,
			CachedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if item.Image != nil {
			result.Width = item.Image.Width
			result.Height = item.Image.Height
			if item.Image.ThumbnailLink != "" {
				result.Thumbnail = &item.Image.ThumbnailLink
			}
			result.SourcePage = item.Image.ContextLink
		}
		return result, nil
	}

	slog.Debug("No usable image candidate", "query", originalQuery, "candidates", len(response.Items))
	return nil, nil
}

func buildSearchQuery(query string) string {
	return strings.TrimSpace(query) + " food"
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

func isValidImageURL(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}

	if imageExtensions[strings.ToLower(path.Ext(parsed.Path))] {
		return true
	}

	// No recognizable extension: accept anyway, the front end copes
	return true
}
