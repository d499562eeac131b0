package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wallboard/wallboard/app/transport"
)

func rssFeed(title string, items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>%s</title>
    %s
  </channel>
</rss>`, title, items)
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHeadlinesNewestFirst(t *testing.T) {
	feed := serveFeed(t, rssFeed("Campus News", `
    <item>
      <title>Older</title>
      <link>https://example.com/older</link>
      <pubDate>Mon, 02 Jun 2025 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Newer</title>
      <link>https://example.com/newer</link>
      <pubDate>Tue, 03 Jun 2025 08:00:00 +0000</pubDate>
    </item>`))

	service := NewService(transport.NewClient("Test-Agent/1.0", false), []string{feed.URL}, 20)

	headlines := service.Headlines(context.Background())

	if len(headlines) != 2 {
		t.Fatalf("Expected 2 headlines, got: %d", len(headlines))
	}
	if headlines[0].Title != "Newer" {
		t.Errorf("Expected newest headline first, got: %s", headlines[0].Title)
	}
	if headlines[0].Source != "Campus News" {
		t.Errorf("Expected feed title as source, got: %s", headlines[0].Source)
	}
	if headlines[0].Link != "https://example.com/newer" {
		t.Errorf("Unexpected link: %s", headlines[0].Link)
	}
}

func TestHeadlinesBrokenFeedSkipped(t *testing.T) {
	good := serveFeed(t, rssFeed("Good", `
    <item><title>Works</title><link>https://example.com/works</link></item>`))
	broken := serveFeed(t, "this is not a feed")

	service := NewService(transport.NewClient("Test-Agent/1.0", false),
		[]string{broken.URL, good.URL}, 20)

	headlines := service.Headlines(context.Background())

	if len(headlines) != 1 {
		t.Fatalf("Expected the healthy feed to survive, got %d headlines", len(headlines))
	}
	if headlines[0].Title != "Works" {
		t.Errorf("Unexpected headline: %s", headlines[0].Title)
	}
}

func TestHeadlinesUnreachableFeedSkipped(t *testing.T) {
	service := NewService(transport.NewClient("Test-Agent/1.0", false),
		[]string{"http://127.0.0.1:1/feed"}, 20)

	headlines := service.Headlines(context.Background())

	if headlines == nil {
		t.Fatal("Expected empty list, got nil")
	}
	if len(headlines) != 0 {
		t.Errorf("Expected 0 headlines, got: %d", len(headlines))
	}
}

func TestHeadlinesCappedAtMaxItems(t *testing.T) {
	feed := serveFeed(t, rssFeed("Busy", `
    <item><title>One</title></item>
    <item><title>Two</title></item>
    <item><title>Three</title></item>`))

	service := NewService(transport.NewClient("Test-Agent/1.0", false), []string{feed.URL}, 2)

	headlines := service.Headlines(context.Background())

	if len(headlines) != 2 {
		t.Errorf("Expected the cap to apply, got %d headlines", len(headlines))
	}
}

func TestEnabled(t *testing.T) {
	tc := transport.NewClient("Test-Agent/1.0", false)

	if NewService(tc, nil, 20).Enabled() {
		t.Error("Expected service without feeds to be disabled")
	}
	if !NewService(tc, []string{"https://example.com/feed"}, 20).Enabled() {
		t.Error("Expected service with feeds to be enabled")
	}
}
