package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "AIML-Newsletter/1.3 (+https://github.com/aimlweekly)"

const (
	maxAttempts   = 3
	backoffFactor = 600 * time.Millisecond
)

// retryableStatus lists the upstream statuses treated as transient.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client issues HTTP requests with bounded retry for transient upstream
// failures. Every outgoing request carries the pipeline user-agent.
type Client struct {
	base  *http.Client
	sleep func(time.Duration)
}

// New wraps an http.Client; nil gets a 30s-timeout default.
func New(client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{base: client, sleep: time.Sleep}
}

// Do executes the request, retrying transient statuses and transport errors
// with exponential backoff. Both GET and POST are retried here: every payload
// in this pipeline is either a read-only fetch or a single publish attempt.
// After the last attempt a non-2xx response is returned as-is; callers treat
// it as source-unavailable.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptReq := req
		if attempt > 1 {
			attemptReq = req.Clone(req.Context())
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, fmt.Errorf("rewind request body: %w", bodyErr)
				}
				attemptReq.Body = body
			}
		}

		resp, err = c.base.Do(attemptReq)
		if err == nil && !retryableStatus[resp.StatusCode] {
			return resp, nil
		}
		if attempt == maxAttempts {
			break
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		c.sleep(backoffFactor << (attempt - 1))
	}

	if err != nil {
		return nil, fmt.Errorf("request %s after %d attempts: %w", req.URL, maxAttempts, err)
	}
	return resp, nil
}

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) (*http.Response, error) {
	target := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		target = rawURL + sep + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.Do(req)
}

// PostJSON issues a POST with a JSON-encoded payload and extra headers.
func (c *Client) PostJSON(ctx context.Context, rawURL string, payload any, headers map[string]string) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return c.Do(req)
}
