package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"AIMLWeekly/internal/httpx"
)

var testNow = time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)

type passthroughResolver struct{}

func (passthroughResolver) Resolve(_ context.Context, raw string) string { return raw }

type mapResolver map[string]string

func (m mapResolver) Resolve(_ context.Context, raw string) string {
	if canonical, ok := m[raw]; ok {
		return canonical
	}
	return raw
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAdapter(t *testing.T, apiKey string, res Resolver) *Adapter {
	t.Helper()
	a := NewAdapter(httpx.New(nil), res, apiKey, discardLogger())
	a.now = func() time.Time { return testNow }
	return a
}

func TestFetchAPIFiltersAndDeduplicates(t *testing.T) {
	t.Parallel()

	recent := testNow.Add(-3 * 24 * time.Hour).Format(time.RFC3339)
	truncated := testNow.Add(-2 * 24 * time.Hour).Format("2006-01-02T15:04:05")
	stale := testNow.Add(-10 * 24 * time.Hour).Format(time.RFC3339)

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_key") != "test-key" {
			t.Errorf("missing access_key: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("type") != "news" {
			t.Errorf("missing type=news: %s", r.URL.RawQuery)
		}
		fmt.Fprintf(w, `{"news_results":[
			{"title":"Fresh story","url":"https://example.com/fresh","source_name":"Example Wire","published":%q},
			{"title":"Stale story","url":"https://example.com/stale","source_name":"Example Wire","published":%q},
			{"title":"","url":"https://example.com/untitled","source_name":"Example Wire","published":%q},
			{"title":"Wrapped story","url":"https://agg.example.com/go?id=1","published":%q},
			{"title":"Fresh story","url":"https://example.com/fresh","source_name":"Example Wire","published":%q}
		]}`, recent, stale, recent, truncated, recent)
	}))
	defer apiServer.Close()

	var feedHits int32
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&feedHits, 1)
	}))
	defer feedServer.Close()

	res := mapResolver{"https://agg.example.com/go?id=1": "https://www.publisher.org/story"}
	a := newTestAdapter(t, "test-key", res)
	a.apiURL = apiServer.URL
	a.feedURL = feedServer.URL

	items, err := a.Fetch(context.Background(), "artificial intelligence", 6)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Title != "Fresh story" || items[0].Source != "Example Wire" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].URL != "https://www.publisher.org/story" {
		t.Fatalf("wrapped link was not resolved: %+v", items[1])
	}
	if items[1].Source != "publisher.org" {
		t.Fatalf("missing source must fall back to the link domain, got %q", items[1].Source)
	}
	if atomic.LoadInt32(&feedHits) != 0 {
		t.Fatalf("feed must not be touched when the API delivers")
	}
}

func TestFetchCapsResultsAtMax(t *testing.T) {
	t.Parallel()

	recent := testNow.Add(-24 * time.Hour).Format(time.RFC3339)
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"news_results":[`)
		for i := 0; i < 5; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"title":"Story %d","url":"https://example.com/%d","source_name":"Wire","published":%q}`, i, i, recent)
		}
		fmt.Fprint(w, `]}`)
	}))
	defer apiServer.Close()

	a := newTestAdapter(t, "test-key", passthroughResolver{})
	a.apiURL = apiServer.URL

	items, err := a.Fetch(context.Background(), "ai", 2)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected max=2 items, got %d", len(items))
	}
}

func TestFetchFallsBackToFeedOnAPIFailure(t *testing.T) {
	t.Parallel()

	var apiHits int32
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiHits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer apiServer.Close()

	var feedHits int32
	fresh := testNow.Add(-2 * 24 * time.Hour).Format(time.RFC1123)
	stale := testNow.Add(-11 * 24 * time.Hour).Format(time.RFC1123)
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&feedHits, 1)
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Search results</title>
<item><title>Fresh headline</title><link>https://example.com/fresh</link><pubDate>%s</pubDate></item>
<item><title>Stale headline</title><link>https://example.com/stale</link><pubDate>%s</pubDate></item>
<item><title>Undated headline</title><link>https://example.com/undated</link></item>
</channel></rss>`, fresh, stale)
	}))
	defer feedServer.Close()

	a := newTestAdapter(t, "test-key", passthroughResolver{})
	a.apiURL = apiServer.URL
	a.feedURL = feedServer.URL

	items, err := a.Fetch(context.Background(), "ai", 6)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(items) != 1 || items[0].Title != "Fresh headline" {
		t.Fatalf("expected the single fresh feed item, got %+v", items)
	}
	if items[0].Source != "example.com" {
		t.Fatalf("feed items derive their source from the link domain, got %q", items[0].Source)
	}
	if atomic.LoadInt32(&feedHits) != 1 {
		t.Fatalf("expected exactly one feed request, got %d", feedHits)
	}
	if atomic.LoadInt32(&apiHits) == 0 {
		t.Fatalf("API should have been attempted first")
	}
}

func TestFetchFallsBackWhenAPIIsDry(t *testing.T) {
	t.Parallel()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"news_results":[]}`)
	}))
	defer apiServer.Close()

	var feedHits int32
	fresh := testNow.Add(-24 * time.Hour).Format(time.RFC1123)
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&feedHits, 1)
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Search results</title>
<item><title>Feed headline</title><link>https://example.com/a</link><pubDate>%s</pubDate></item>
</channel></rss>`, fresh)
	}))
	defer feedServer.Close()

	a := newTestAdapter(t, "test-key", passthroughResolver{})
	a.apiURL = apiServer.URL
	a.feedURL = feedServer.URL

	items, err := a.Fetch(context.Background(), "ai", 6)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the feed item after a dry API response, got %+v", items)
	}
	if atomic.LoadInt32(&feedHits) != 1 {
		t.Fatalf("expected exactly one feed request, got %d", feedHits)
	}
}

func TestFetchWithoutKeySkipsAPI(t *testing.T) {
	t.Parallel()

	var apiHits int32
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&apiHits, 1)
	}))
	defer apiServer.Close()

	fresh := testNow.Add(-24 * time.Hour).Format(time.RFC1123)
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Search results</title>
<item><title>Feed headline</title><link>https://example.com/a</link><pubDate>%s</pubDate></item>
</channel></rss>`, fresh)
	}))
	defer feedServer.Close()

	a := newTestAdapter(t, "", passthroughResolver{})
	a.apiURL = apiServer.URL
	a.feedURL = feedServer.URL

	items, err := a.Fetch(context.Background(), "ai", 6)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected the feed item, got %+v", items)
	}
	if atomic.LoadInt32(&apiHits) != 0 {
		t.Fatalf("API must not be queried without a key")
	}
}

func TestParseAPIDate(t *testing.T) {
	t.Parallel()

	if _, ok := parseAPIDate("not a date"); ok {
		t.Fatalf("garbage must not parse")
	}
	if _, ok := parseAPIDate(""); ok {
		t.Fatalf("empty must not parse")
	}

	got, ok := parseAPIDate("2025-07-12T09:30:00+02:00")
	if !ok || !got.Equal(time.Date(2025, time.July, 12, 7, 30, 0, 0, time.UTC)) {
		t.Fatalf("RFC3339 offset form parsed wrong: %v %v", got, ok)
	}

	got, ok = parseAPIDate("2025-07-12T09:30:00.000Z extra")
	if !ok || !got.Equal(time.Date(2025, time.July, 12, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("truncated fallback parsed wrong: %v %v", got, ok)
	}
}
