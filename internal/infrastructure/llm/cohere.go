package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"AIMLWeekly/internal/httpx"
	"AIMLWeekly/internal/ports"
)

const (
	defaultCohereEndpoint = "https://api.cohere.ai/v1/chat"
	defaultCohereModel    = "command-r-plus"

	temperature    = 0.3
	maxTokens      = 1024
	requestTimeout = 60 * time.Second
)

// CohereClient implements ports.TextGenerator against the hosted Cohere chat
// API.
type CohereClient struct {
	client   *httpx.Client
	endpoint string
	model    string
	apiKey   string
}

var _ ports.TextGenerator = (*CohereClient)(nil)

// NewCohereClient requires an API key; its absence is a configuration error
// surfaced at startup rather than per call.
func NewCohereClient(client *httpx.Client, model, apiKey string) (*CohereClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("cohere api key is not configured")
	}
	if model == "" {
		model = defaultCohereModel
	}
	return &CohereClient{
		client:   client,
		endpoint: defaultCohereEndpoint,
		model:    model,
		apiKey:   apiKey,
	}, nil
}

// Generate sends one chat message and returns the model text verbatim.
func (c *CohereClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload := map[string]any{
		"model":       c.model,
		"message":     prompt,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}
	resp, err := c.client.PostJSON(ctx, c.endpoint, payload, map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("cohere request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("cohere error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode cohere response: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("cohere returned empty text")
	}
	return out.Text, nil
}
