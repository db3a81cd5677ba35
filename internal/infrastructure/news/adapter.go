package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"AIMLWeekly/internal/domain"
	"AIMLWeekly/internal/httpx"
	"AIMLWeekly/internal/ports"
	"AIMLWeekly/internal/recency"
)

const (
	defaultAPIURL  = "http://api.serpstack.com/search"
	defaultFeedURL = "https://news.google.com/rss/search?q=artificial+intelligence+machine+learning&hl=en-US&gl=US&ceid=US:en"

	apiTimeout  = 15 * time.Second
	feedTimeout = 15 * time.Second
)

// Resolver canonicalizes item links before deduplication.
type Resolver interface {
	Resolve(ctx context.Context, raw string) string
}

// Adapter fetches news through the Serpstack search API, falling back to the
// public Google News feed when the API is unconfigured, unavailable, or dry.
type Adapter struct {
	client   *httpx.Client
	resolver Resolver
	logger   *slog.Logger
	apiKey   string
	apiURL   string
	feedURL  string
	now      func() time.Time
}

var _ ports.NewsSource = (*Adapter)(nil)

// NewAdapter wires the shared HTTP client and link resolver.
func NewAdapter(client *httpx.Client, res Resolver, apiKey string, logger *slog.Logger) *Adapter {
	return &Adapter{
		client:   client,
		resolver: res,
		logger:   logger,
		apiKey:   apiKey,
		apiURL:   defaultAPIURL,
		feedURL:  defaultFeedURL,
		now:      time.Now,
	}
}

// Fetch returns up to max recent, deduplicated news items in source order.
// The recency cutoff is fixed once here so every item shares it.
func (a *Adapter) Fetch(ctx context.Context, query string, max int) ([]domain.Item, error) {
	window := recency.NewWindow(a.now(), recency.DefaultSpan)
	dedupe := recency.NewDeduper()

	if a.apiKey == "" {
		a.logger.Info("serpstack key not configured, using feed fallback")
	} else {
		items, err := a.fetchAPI(ctx, query, max, window, dedupe)
		if err != nil {
			a.logger.Warn("serpstack fetch failed", "error", err)
		} else if len(items) > 0 {
			return items, nil
		}
	}

	a.logger.Info("falling back to news feed")
	return a.fetchFeed(ctx, max, window, dedupe)
}

type apiResponse struct {
	NewsResults []apiResult `json:"news_results"`
}

type apiResult struct {
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
	URL        string `json:"url"`
	SourceName string `json:"source_name"`
	Published  string `json:"published"`
}

func (a *Adapter) fetchAPI(ctx context.Context, query string, max int, window recency.Window, dedupe *recency.Deduper) ([]domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("access_key", a.apiKey)
	params.Set("query", query)
	params.Set("type", "news")
	params.Set("num", strconv.Itoa(max))

	resp, err := a.client.Get(ctx, a.apiURL, params)
	if err != nil {
		return nil, fmt.Errorf("query serpstack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpstack returned %s", resp.Status)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode serpstack response: %w", err)
	}

	scan := payload.NewsResults
	if len(scan) > max*3 {
		scan = scan[:max*3]
	}

	items := make([]domain.Item, 0, max)
	for _, raw := range scan {
		title := strings.TrimSpace(raw.Title)
		link := strings.TrimSpace(raw.URL)
		if title == "" || link == "" {
			continue
		}
		publishedAt, ok := parseAPIDate(raw.Published)
		if !ok || !window.Contains(publishedAt) {
			continue
		}

		resolved := a.resolver.Resolve(ctx, link)
		source := strings.TrimSpace(raw.SourceName)
		if source == "" {
			source = domainOf(resolved)
		}

		item := domain.Item{
			Title:       title,
			URL:         resolved,
			Source:      source,
			PublishedAt: publishedAt,
		}
		if !dedupe.Admit(item) {
			continue
		}
		items = append(items, item)
		if len(items) >= max {
			break
		}
	}
	return items, nil
}

func (a *Adapter) fetchFeed(ctx context.Context, max int, window recency.Window, dedupe *recency.Deduper) ([]domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, feedTimeout)
	defer cancel()

	resp, err := a.client.Get(ctx, a.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch news feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news feed returned %s", resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse news feed: %w", err)
	}

	items := make([]domain.Item, 0, max)
	for _, entry := range feed.Items {
		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.Link)
		if title == "" || link == "" || strings.TrimSpace(entry.Published) == "" {
			continue
		}
		publishedAt, ok := parseFeedDate(entry)
		if !ok || !window.Contains(publishedAt) {
			continue
		}

		resolved := a.resolver.Resolve(ctx, link)
		item := domain.Item{
			Title:       title,
			URL:         resolved,
			Source:      domainOf(resolved),
			PublishedAt: publishedAt,
		}
		if !dedupe.Admit(item) {
			continue
		}
		items = append(items, item)
		if len(items) >= max {
			break
		}
	}
	return items, nil
}

// parseAPIDate tries strict RFC3339 first, then the truncated form Serpstack
// emits for some publishers. Unparsable dates disqualify the item.
func parseAPIDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if len(raw) >= 19 {
		if t, err := time.Parse("2006-01-02T15:04:05", raw[:19]); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseFeedDate prefers the structured date, then the leading day-month-year
// portion of the raw string form.
func parseFeedDate(entry *gofeed.Item) (time.Time, bool) {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC(), true
	}
	raw := strings.TrimSpace(entry.Published)
	if len(raw) >= 16 {
		if t, err := time.Parse("Mon, 02 Jan 2006", raw[:16]); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// domainOf derives a short attribution label from a link.
func domainOf(link string) string {
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return "source"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
