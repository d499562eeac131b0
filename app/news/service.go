package news

import (
	"bytes"
	"cmp"
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/wallboard/wallboard/app/transport"
)

const feedTimeout = 15 * time.Second

// Headline is one normalized ticker entry.
type Headline struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at"`
}

// Service fetches the configured RSS/Atom feeds and flattens them into a
// single newest-first headline list for the dashboard ticker. A broken feed
// is skipped; the ticker degrades rather than fails.
type Service struct {
	transport *transport.Client
	parser    *gofeed.Parser
	feedURLs  []string
	maxItems  int
}

func NewService(tc *transport.Client, feedURLs []string, maxItems int) *Service {
	return &Service{
		transport: tc,
		parser:    gofeed.NewParser(),
		feedURLs:  feedURLs,
		maxItems:  maxItems,
	}
}

// Enabled reports whether any feed URLs are configured.
func (s *Service) Enabled() bool {
	return len(s.feedURLs) > 0
}

func (s *Service) Headlines(ctx context.Context) []Headline {
	var headlines []Headline

	for _, feedURL := range s.feedURLs {
		payload, err := s.transport.Fetch(ctx, transport.Request{
			URL:     feedURL,
			Timeout: feedTimeout,
		})
		if err != nil {
			slog.Warn("Failed to fetch news feed", "url", feedURL, "error", err)
			continue
		}

		feed, err := s.parser.Parse(bytes.NewReader(payload.Body))
		if err != nil {
			slog.Warn("Failed to parse news feed", "url", feedURL, "error", err)
			continue
		}

		for _, item := range feed.Items {
			if item == nil || item.Title == "" {
				continue
			}
			headlines = append(headlines, Headline{
				Title:       item.Title,
				Link:        cmp.Or(item.Link, item.GUID),
				Source:      feed.Title,
				PublishedAt: item.PublishedParsed,
			})
		}
	}

	sort.SliceStable(headlines, func(i, j int) bool {
		a, b := headlines[i].PublishedAt, headlines[j].PublishedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})

	if s.maxItems > 0 && len(headlines) > s.maxItems {
		headlines = headlines[:s.maxItems]
	}

	if headlines == nil {
		headlines = []Headline{}
	}
	return headlines
}
