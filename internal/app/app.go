package app

import (
	"context"
	"fmt"
	"log/slog"

	"AIMLWeekly/internal/config"
	"AIMLWeekly/internal/httpx"
	"AIMLWeekly/internal/infrastructure/arxiv"
	"AIMLWeekly/internal/infrastructure/llm"
	"AIMLWeekly/internal/infrastructure/news"
	"AIMLWeekly/internal/infrastructure/wordpress"
	"AIMLWeekly/internal/logging"
	"AIMLWeekly/internal/resolver"
	"AIMLWeekly/internal/topic"
	"AIMLWeekly/internal/usecase"
)

// Application wires configuration into the single-run newsletter pipeline.
type Application struct {
	cfg      *config.Config
	pipeline *usecase.Pipeline
}

// New builds the full dependency graph. The generation backend is selected
// here, once; a missing credential for the selected backend fails startup.
func New(cfg *config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := httpx.New(nil)
	links := resolver.New(client)

	newsSource := news.NewAdapter(client, links, cfg.Serpstack.APIKey, baseLogger.With("component", "source.news"))
	researchSource := arxiv.NewAdapter(client, baseLogger.With("component", "source.arxiv"))

	generator, err := llm.New(client, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configure generation backend: %w", err)
	}

	selector := topic.NewSelector(generator, baseLogger.With("component", "topic"))
	publisher := wordpress.NewPublisher(client, cfg.WordPress)

	pipeline := usecase.New(usecase.Deps{
		News:      newsSource,
		Research:  researchSource,
		Selector:  selector,
		Publisher: publisher,
		Logger:    baseLogger.With("component", "pipeline"),
		Query:     cfg.Newsletter.Query,
		MaxItems:  cfg.Newsletter.MaxItems,
	})

	return &Application{cfg: cfg, pipeline: pipeline}, nil
}

// Run executes one pipeline pass and prints the publish receipt.
func (a *Application) Run(ctx context.Context) error {
	receipt, err := a.pipeline.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Println(receipt)
	return nil
}
