package deck

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/wallboard/wallboard/app/transport"
)

const apiTimeout = 30 * time.Second

type fetcher interface {
	Fetch(ctx context.Context, r transport.Request) (*transport.Payload, error)
}

var _ fetcher = (*transport.Client)(nil)

// Client talks to the Deck REST API. Two card-retrieval shapes exist in the
// wild: the stack detail endpoint that embeds a cards field, and a direct
// cards collection below the stack. Callers fall back from one to the other.
type Client struct {
	transport fetcher
	apiBase   string
	auth      transport.BasicAuth
}

func NewClient(tc fetcher, baseURL, username, password string) *Client {
	return &Client{
		transport: tc,
		apiBase:   baseURL + "/index.php/apps/deck/api/v1.0",
		auth:      transport.BasicAuth{Username: username, Password: password},
	}
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	payload, err := c.transport.Fetch(ctx, transport.Request{
		URL:     url,
		Auth:    &c.auth,
		Timeout: apiTimeout,
		Headers: map[string]string{
			"Accept":         "application/json",
			"Content-Type":   "application/json",
			"OCS-APIRequest": "true",
		},
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(payload.Body, out); err != nil {
		return fmt.Errorf("failed to decode Deck response: %w", err)
	}
	return nil
}

// Boards lists all boards visible to the configured account.
func (c *Client) Boards(ctx context.Context) ([]upstreamBoard, error) {
	var boards []upstreamBoard
	if err := c.get(ctx, c.apiBase+"/boards", &boards); err != nil {
		return nil, fmt.Errorf("failed to fetch boards: %w", err)
	}
	return boards, nil
}

// Board fetches one board with stacks (and, depending on server version,
// cards) embedded.
func (c *Client) Board(ctx context.Context, boardID int64) (*upstreamBoard, error) {
	var board upstreamBoard
	if err := c.get(ctx, fmt.Sprintf("%s/boards/%d", c.apiBase, boardID), &board); err != nil {
		return nil, fmt.Errorf("failed to fetch board %d: %w", boardID, err)
	}
	return &board, nil
}

// Stacks lists the stacks of a board without cards.
func (c *Client) Stacks(ctx context.Context, boardID int64) ([]upstreamStack, error) {
	var stacks []upstreamStack
	if err := c.get(ctx, fmt.Sprintf("%s/boards/%d/stacks", c.apiBase, boardID), &stacks); err != nil {
		return nil, fmt.Errorf("failed to fetch stacks for board %d: %w", boardID, err)
	}
	return stacks, nil
}

// StackCards fetches a stack's cards via the stack detail shape.
func (c *Client) StackCards(ctx context.Context, boardID, stackID int64) ([]upstreamCard, error) {
	var stack upstreamStack
	if err := c.get(ctx, fmt.Sprintf("%s/boards/%d/stacks/%d", c.apiBase, boardID, stackID), &stack); err != nil {
		return nil, fmt.Errorf("failed to fetch stack %d of board %d: %w", stackID, boardID, err)
	}
	return stack.Cards, nil
}

// CardsDirect fetches a stack's cards via the direct collection shape.
func (c *Client) CardsDirect(ctx context.Context, boardID, stackID int64) ([]upstreamCard, error) {
	var cards []upstreamCard
	if err := c.get(ctx, fmt.Sprintf("%s/boards/%d/stacks/%d/cards", c.apiBase, boardID, stackID), &cards); err != nil {
		return nil, fmt.Errorf("failed to fetch cards for stack %d of board %d: %w", stackID, boardID, err)
	}
	return cards, nil
}
