package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"AIMLWeekly/internal/domain"
	"AIMLWeekly/internal/httpx"
	"AIMLWeekly/internal/ports"
	"AIMLWeekly/internal/recency"
)

const (
	defaultAPIURL = "http://export.arxiv.org/api/query"
	searchQuery   = "cat:cs.AI+OR+cat:cs.LG"
	apiTimeout    = 20 * time.Second

	// Abstracts longer than the budget are cut to the keep length plus an
	// ellipsis so list rows stay readable.
	summaryBudget = 240
	summaryKeep   = 220
)

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
	ID      string `xml:"id"`
	Updated string `xml:"updated"`
}

// Adapter queries the arXiv export API for recently updated AI/ML preprints.
type Adapter struct {
	client *httpx.Client
	logger *slog.Logger
	apiURL string
	now    func() time.Time
}

var _ ports.ResearchSource = (*Adapter)(nil)

// NewAdapter wires the shared HTTP client.
func NewAdapter(client *httpx.Client, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: client,
		logger: logger,
		apiURL: defaultAPIURL,
		now:    time.Now,
	}
}

// Fetch scans the feed in last-updated-descending order and stops as soon as
// max qualifying entries are collected. Items are filtered against the
// updated timestamp, not the original publication date.
func (a *Adapter) Fetch(ctx context.Context, max int) ([]domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("search_query", searchQuery)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(max))
	params.Set("sortBy", "lastUpdatedDate")
	params.Set("sortOrder", "descending")

	resp, err := a.client.Get(ctx, a.apiURL, params)
	if err != nil {
		return nil, fmt.Errorf("query arxiv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse arxiv feed: %w", err)
	}

	window := recency.NewWindow(a.now(), recency.DefaultSpan)
	dedupe := recency.NewDeduper()

	items := make([]domain.Item, 0, max)
	for _, entry := range feed.Entries {
		title := strings.TrimSpace(entry.Title)
		link := strings.TrimSpace(entry.ID)
		updated := strings.TrimSpace(entry.Updated)
		if title == "" || link == "" || updated == "" {
			continue
		}
		updatedAt, ok := parseUpdated(updated)
		if !ok || !window.Contains(updatedAt) {
			continue
		}

		item := domain.Item{
			Title:       title,
			URL:         link,
			Source:      "arXiv",
			Summary:     truncateSummary(strings.TrimSpace(entry.Summary)),
			PublishedAt: updatedAt,
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

// parseUpdated reads the leading date-time portion of an Atom timestamp as UTC.
func parseUpdated(raw string) (time.Time, bool) {
	if len(raw) < 19 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02T15:04:05", raw[:19])
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func truncateSummary(summary string) string {
	runes := []rune(summary)
	if len(runes) <= summaryBudget {
		return summary
	}
	return strings.TrimRight(string(runes[:summaryKeep]), " ") + "…"
}
