package images

import (
	"context"
	"testing"
	"time"

	"github.com/wallboard/wallboard/app/transport"
)

func TestSearchBacksOffBetweenAttemptsOnly(t *testing.T) {
	rateLimited := &transport.Error{Status: 429, Message: "slow down"}
	fetcher := &fakeFetcher{
		payloads: []*transport.Payload{nil, nil, nil},
		errs:     []error{rateLimited, rateLimited, rateLimited},
	}

	client := NewClient(fetcher, "test-key", "test-engine")
	var sleeps []time.Duration
	client.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	_, err := client.Search(context.Background(), "Schnitzel")
	if err == nil {
		t.Fatal("Expected error after exhausted retries")
	}
	if fetcher.calls != 3 {
		t.Fatalf("Expected 3 attempts, got: %d", fetcher.calls)
	}
	if len(sleeps) != 2 {
		t.Fatalf("Expected no backoff after the final attempt, got %d sleeps", len(sleeps))
	}
	if sleeps[0] != time.Second || sleeps[1] != 2*time.Second {
		t.Errorf("Expected exponential backoff 1s then 2s, got: %v", sleeps)
	}
}

func TestSearchFixedDelayOnServerError(t *testing.T) {
	serverErr := &transport.Error{Status: 500, Message: "boom"}
	fetcher := &fakeFetcher{
		payloads: []*transport.Payload{nil, nil, nil},
		errs:     []error{serverErr, serverErr, serverErr},
	}

	client := NewClient(fetcher, "test-key", "test-engine")
	var sleeps []time.Duration
	client.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	if _, err := client.Search(context.Background(), "Schnitzel"); err == nil {
		t.Fatal("Expected error after exhausted retries")
	}
	if len(sleeps) != 2 {
		t.Fatalf("Expected 2 sleeps, got: %d", len(sleeps))
	}
	for _, d := range sleeps {
		if d != time.Second {
			t.Errorf("Expected fixed 1s delay for non-rate-limit failures, got: %v", d)
		}
	}
}
