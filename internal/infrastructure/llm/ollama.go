package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"AIMLWeekly/internal/httpx"
	"AIMLWeekly/internal/ports"
)

const (
	defaultOllamaEndpoint = "http://localhost:11434/api/generate"
	defaultOllamaModel    = "phi3"
)

// OllamaClient implements ports.TextGenerator against a locally served model.
// The endpoint is assumed reachable; failures propagate to the caller.
type OllamaClient struct {
	client   *httpx.Client
	endpoint string
	model    string
}

var _ ports.TextGenerator = (*OllamaClient)(nil)

// NewOllamaClient falls back to the fixed local endpoint and default model.
func NewOllamaClient(client *httpx.Client, endpoint, model string) *OllamaClient {
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaClient{client: client, endpoint: endpoint, model: model}
}

// Generate runs one non-streaming completion.
func (o *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	payload := map[string]any{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
	}
	resp, err := o.client.PostJSON(ctx, o.endpoint, payload, nil)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("ollama returned empty text")
	}
	return out.Response, nil
}
