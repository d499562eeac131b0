package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const DefaultTimeout = 15 * time.Second

// Client performs authenticated HTTP GET/PROPFIND requests against upstream
// services. It owns no retry policy; callers decide how to react to an *Error.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

func NewClient(userAgent string, insecureSkipVerify bool) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: insecureSkipVerify}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		userAgent:  userAgent,
	}
}

// Fetch performs the request and returns the raw payload. Connection
// failures, timeouts and non-2xx statuses are all surfaced as *Error.
func (c *Client) Fetch(ctx context.Context, r Request) (*Payload, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	requestURL := r.URL
	if len(r.Query) > 0 {
		parsed, err := url.Parse(r.URL)
		if err != nil {
			return nil, &Error{Message: fmt.Sprintf("invalid URL %q: %v", r.URL, err)}
		}
		query := parsed.Query()
		for k, v := range r.Query {
			query.Set(k, v)
		}
		parsed.RawQuery = query.Encode()
		requestURL = parsed.String()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, method, requestURL, nil)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to create request: %v", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Auth != nil {
		req.SetBasicAuth(r.Auth.Username, r.Auth.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("Upstream request failed", "method", method, "url", r.URL, "error", err)
		return nil, &Error{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read response body: %v", err)}
	}

	// PROPFIND answers with 207 Multi-Status, which is still a 2xx
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("HTTP error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	return &Payload{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		SourcePath:  r.URL,
		FetchedAt:   time.Now().UTC(),
	}, nil
}
