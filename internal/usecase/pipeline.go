package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"AIMLWeekly/internal/assemble"
	"AIMLWeekly/internal/domain"
	"AIMLWeekly/internal/gate"
	"AIMLWeekly/internal/ports"
	"AIMLWeekly/internal/topic"
)

// Deps wires all collaborators into the newsletter pipeline.
type Deps struct {
	News      ports.NewsSource
	Research  ports.ResearchSource
	Selector  *topic.Selector
	Publisher ports.Publisher
	Logger    *slog.Logger
	Query     string
	MaxItems  int
}

// Pipeline builds and publishes one newsletter issue per run. Execution is a
// single linear sequence of blocking calls; the only shared state is the
// batches being built up.
type Pipeline struct {
	news      ports.NewsSource
	research  ports.ResearchSource
	selector  *topic.Selector
	publisher ports.Publisher
	logger    *slog.Logger
	query     string
	maxItems  int
	validate  func(domain.Document) error
}

// New constructs the orchestration component.
func New(deps Deps) *Pipeline {
	query := deps.Query
	if query == "" {
		query = "artificial intelligence machine learning"
	}
	maxItems := deps.MaxItems
	if maxItems <= 0 {
		maxItems = 6
	}
	return &Pipeline{
		news:      deps.News,
		research:  deps.Research,
		selector:  deps.Selector,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		query:     query,
		maxItems:  maxItems,
		validate:  gate.Validate,
	}
}

// Run executes one fetch-generate-assemble-publish sequence and returns the
// publish receipt. Source and generation failures degrade to placeholders;
// gate, configuration, and publish failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	news, err := p.news.Fetch(ctx, p.query, p.maxItems)
	if err != nil {
		p.logger.Warn("news fetch failed, continuing with empty batch", "error", err)
		news = nil
	}
	p.logger.Info("news collected", "count", len(news))

	papers, err := p.research.Fetch(ctx, p.maxItems)
	if err != nil {
		p.logger.Warn("research fetch failed, continuing with empty batch", "error", err)
		papers = nil
	}
	p.logger.Info("research collected", "count", len(papers))

	combined := make([]domain.Item, 0, len(news)+len(papers))
	combined = append(combined, news...)
	combined = append(combined, papers...)

	texts := p.selector.Select(ctx, combined)
	p.logger.Info("topic selected", "topic", texts.Topic)

	doc := assemble.Build(assemble.Inputs{
		Topic:   texts.Topic,
		Intro:   texts.Intro,
		Summary: texts.Summary,
		News:    news,
		Papers:  papers,
	})

	if err := p.validate(doc); err != nil {
		return "", fmt.Errorf("article rejected: %w", err)
	}

	receipt, err := p.publisher.Publish(ctx, doc.Title, doc.HTML)
	if err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}
	return receipt, nil
}
