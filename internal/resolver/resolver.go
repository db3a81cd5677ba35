package resolver

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// aliasKeys are query parameters aggregators use to carry the real article URL
// inside a redirect wrapper.
var aliasKeys = []string{"url", "u", "link"}

const resolveTimeout = 12 * time.Second

// Doer is the request-issuing facility the resolver follows redirects with.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolver canonicalizes redirect-wrapped links into stable publisher URLs so
// that deduplication by URL is meaningful and published links point at the
// original publisher.
type Resolver struct {
	client Doer
}

// New wires the shared HTTP client.
func New(client Doer) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the canonical form of raw. It is total: any internal
// failure, including a malformed input, yields the input unchanged.
func (r *Resolver) Resolve(ctx context.Context, raw string) string {
	if raw == "" {
		return raw
	}
	if nested := aliasTarget(raw); nested != "" {
		return nested
	}

	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return raw
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return raw
	}
	defer resp.Body.Close()

	if final := resp.Request.URL; final != nil {
		return final.String()
	}
	return raw
}

// aliasTarget extracts a nested URL carried in a known aliasing parameter,
// avoiding a network round-trip.
func aliasTarget(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	values := parsed.Query()
	for _, key := range aliasKeys {
		if v := values.Get(key); v != "" && looksLikeURL(v) {
			return v
		}
	}
	return ""
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
