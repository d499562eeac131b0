package nextcloud

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wallboard/wallboard/app/transport"
)

const webdavTimeout = 30 * time.Second

// Client fetches file content from a Nextcloud instance over WebDAV.
// The DAV base path is resolved once at construction; there is no lazy
// per-call identity lookup.
type Client struct {
	transport *transport.Client
	auth      transport.BasicAuth
	davBase   string
	rootURL   string
}

func NewClient(tc *transport.Client, baseURL, username, password string) *Client {
	base := strings.TrimRight(baseURL, "/")
	return &Client{
		transport: tc,
		auth:      transport.BasicAuth{Username: username, Password: password},
		davBase:   base + "/remote.php/dav/files/" + username,
		rootURL:   base,
	}
}

// FileContent fetches a file by its WebDAV path (e.g. "/Documents/proposals.csv").
func (c *Client) FileContent(ctx context.Context, filePath string) (*transport.Payload, error) {
	if !strings.HasPrefix(filePath, "/") {
		filePath = "/" + filePath
	}

	payload, err := c.transport.Fetch(ctx, transport.Request{
		URL:     c.davBase + filePath,
		Auth:    &c.auth,
		Timeout: webdavTimeout,
		Headers: map[string]string{"Accept": "*/*"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file from Nextcloud: %w", err)
	}

	slog.Debug("Fetched file from Nextcloud", "path", filePath, "size", len(payload.Body))

	payload.SourcePath = filePath
	return payload, nil
}

// Ping verifies connectivity with a Depth-0 PROPFIND against the DAV root.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.transport.Fetch(ctx, transport.Request{
		Method:  "PROPFIND",
		URL:     c.davBase + "/",
		Auth:    &c.auth,
		Timeout: webdavTimeout,
		Headers: map[string]string{
			"Depth":        "0",
			"Content-Type": "text/xml",
		},
	})
	if err != nil {
		return fmt.Errorf("nextcloud connection test failed: %w", err)
	}
	return nil
}

// BaseURL returns the instance root, used by the Deck API client.
func (c *Client) BaseURL() string {
	return c.rootURL
}
