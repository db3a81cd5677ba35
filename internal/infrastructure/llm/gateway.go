package llm

import (
	"fmt"
	"strings"

	"AIMLWeekly/internal/config"
	"AIMLWeekly/internal/httpx"
	"AIMLWeekly/internal/ports"
)

// New selects the generation backend once, at construction time, so call
// sites never branch on mode.
func New(client *httpx.Client, cfg config.LLMConfig) (ports.TextGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", "cohere":
		return NewCohereClient(client, cfg.CohereModel, cfg.CohereKey)
	case "ollama":
		return NewOllamaClient(client, cfg.OllamaURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unknown agent mode %q", cfg.Mode)
	}
}
