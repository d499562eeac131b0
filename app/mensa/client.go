package mensa

import (
	"context"
	"fmt"
	"time"

	"github.com/wallboard/wallboard/app/transport"
)

const feedTimeout = 30 * time.Second

// Client fetches the raw menu XML from the cafeteria feed. The feed ignores
// window sizes below a week, so a 7 day window is always requested and the
// relevant days are filtered client-side by the Normalizer.
type Client struct {
	transport  *transport.Client
	apiURL     string
	apiKey     string
	locationID string
}

func NewClient(tc *transport.Client, apiURL, apiKey, locationID string) *Client {
	return &Client{
		transport:  tc,
		apiURL:     apiURL,
		apiKey:     apiKey,
		locationID: locationID,
	}
}

func (c *Client) FetchXML(ctx context.Context) ([]byte, error) {
	payload, err := c.transport.Fetch(ctx, transport.Request{
		URL:     c.apiURL,
		Timeout: feedTimeout,
		Query: map[string]string{
			"type":                      "98",
			"tx_speiseplan_pi1[apiKey]": c.apiKey,
			"tx_speiseplan_pi1[tage]":   "7",
			"tx_speiseplan_pi1[ort]":    c.locationID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("menu feed request failed: %w", err)
	}

	if len(payload.Body) == 0 {
		return nil, fmt.Errorf("empty response from menu feed")
	}

	return payload.Body, nil
}
