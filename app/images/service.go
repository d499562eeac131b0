package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	// CacheTTL bounds how long both positive and negative results live.
	CacheTTL = 24 * time.Hour

	batchDelay = 100 * time.Millisecond
)

// Store is the persistence the service caches through. A hit with a nil
// value is a cached negative answer and short-circuits the upstream call.
type Store interface {
	Get(key string) (*string, bool, error)
	Put(key, query string, value *string, expiresAt time.Time) error
}

// Service is the read-through image cache. Lookup failures never propagate:
// a missing image degrades the dashboard gracefully, so every error path
// collapses to a nil result.
type Service struct {
	client *Client
	store  Store
	sleep  func(time.Duration)
}

func NewService(client *Client, store Store) *Service {
	return &Service{
		client: client,
		store:  store,
		sleep:  time.Sleep,
	}
}

// Search resolves an image for query, consulting the cache first.
func (s *Service) Search(ctx context.Context, query string, useCache bool) *Result {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	key := cacheKey(trimmed)

	if useCache {
		raw, hit, err := s.store.Get(key)
		if err != nil {
			slog.Warn("Image cache read failed", "query", trimmed, "error", err)
		} else if hit {
			return decodeCached(raw, trimmed)
		}
	}

	result, err := s.client.Search(ctx, trimmed)
	if err != nil {
		// Transient upstream failure: absorb, and never poison the cache
		slog.Warn("Image search failed", "query", trimmed, "error", err)
		return nil
	}

	// Cache found and not-found outcomes alike; negative entries stop
	// repeated failing queries from hammering the upstream API
	s.writeCache(key, trimmed, result)

	return result
}

// SearchBatch resolves images for several queries sequentially, pausing
// briefly between upstream-bound lookups to respect rate limits. Per-item
// failures leave a nil entry and do not abort the batch.
func (s *Service) SearchBatch(ctx context.Context, queries []string, useCache bool) map[string]*Result {
	results := make(map[string]*Result, len(queries))

	for i, query := range queries {
		if i > 0 && len(queries) > 1 {
			s.sleep(batchDelay)
		}
		results[query] = s.Search(ctx, query, useCache)
	}

	return results
}

func (s *Service) writeCache(key, query string, result *Result) {
	var raw *string
	if result != nil {
		encoded, err := json.Marshal(result)
		if err != nil {
			slog.Warn("Failed to encode image result for cache", "query", query, "error", err)
			return
		}
		encodedStr := string(encoded)
		raw = &encodedStr
	}

	if err := s.store.Put(key, query, raw, time.Now().UTC().Add(CacheTTL)); err != nil {
		slog.Warn("Image cache write failed", "query", query, "error", err)
	}
}

func decodeCached(raw *string, query string) *Result {
	if raw == nil {
		return nil
	}

	var result Result
	if err := json.Unmarshal([]byte(*raw), &result); err != nil {
		slog.Warn("Corrupt image cache entry", "query", query, "error", err)
		return nil
	}
	return &result
}

// cacheKey fingerprints a query case- and whitespace-insensitively.
func cacheKey(query string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return hex.EncodeToString(hash[:])
}
