package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"AIMLWeekly/internal/config"
	"AIMLWeekly/internal/httpx"
	"AIMLWeekly/internal/ports"
)

const (
	defaultBaseURL = "https://public-api.wordpress.com"
	publishTimeout = 25 * time.Second
)

// Publisher creates posts through the WordPress.com REST API. Unless the
// publish guardrail is enabled it runs dry and issues no request at all.
type Publisher struct {
	client  *httpx.Client
	baseURL string
	siteID  string
	token   string
	dryRun  bool
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher wires credentials and the dry-run guardrail from config.
func NewPublisher(client *httpx.Client, cfg config.WordPressConfig) *Publisher {
	return &Publisher{
		client:  client,
		baseURL: defaultBaseURL,
		siteID:  cfg.SiteID,
		token:   cfg.AccessToken,
		dryRun:  !cfg.Publish,
	}
}

// Publish creates the post and returns a human-readable receipt. Missing
// credentials are fatal here, at the point of use. WordPress.com may answer
// 200 with a JSON body instead of 201; both count as success.
func (p *Publisher) Publish(ctx context.Context, title, content string) (string, error) {
	if p.dryRun {
		return fmt.Sprintf("(dry-run) Would publish: %s", title), nil
	}

	var missing []string
	if p.token == "" {
		missing = append(missing, "WORDPRESS_ACCESS_TOKEN")
	}
	if p.siteID == "" {
		missing = append(missing, "WORDPRESS_SITE_ID")
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/rest/v1.1/sites/%s/posts/new", p.baseURL, p.siteID)
	payload := map[string]string{
		"title":   title,
		"content": content,
		"status":  "publish",
	}
	resp, err := p.client.PostJSON(ctx, endpoint, payload, map[string]string{
		"Authorization": "Bearer " + p.token,
	})
	if err != nil {
		return "", fmt.Errorf("publish post: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("publish failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	postURL := "<no-url>"
	var receipt struct {
		URL string `json:"URL"`
	}
	if err := json.Unmarshal(body, &receipt); err == nil && receipt.URL != "" {
		postURL = receipt.URL
	}
	return "Post published: " + postURL, nil
}
