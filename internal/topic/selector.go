package topic

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"AIMLWeekly/internal/domain"
	"AIMLWeekly/internal/ports"
)

const (
	maxBullets     = 6
	fallbackBullet = "- Weekly highlights and notable updates"

	// FallbackTopic is published when the generator fails or returns nothing
	// usable after sanitization.
	FallbackTopic = "Key AI/ML Highlights"

	fallbackIntro   = "A quick tour of the most useful AI/ML developments this week."
	fallbackSummary = "Expect continued iteration across models, tooling, and applied ML in production."
)

// Selector turns the gathered items into a topic plus short intro and summary
// texts, one generation call each.
type Selector struct {
	generator ports.TextGenerator
	logger    *slog.Logger
}

// NewSelector wires the chosen generation backend.
func NewSelector(generator ports.TextGenerator, logger *slog.Logger) *Selector {
	return &Selector{generator: generator, logger: logger}
}

// Texts carries the three generated fragments. Intro and Summary are
// HTML-escaped; Topic is sanitized plain text escaped later at render time.
type Texts struct {
	Topic   string
	Intro   string
	Summary string
}

// Select drives the three generation calls, substituting the fixed fallbacks
// on any generator failure or empty output. It never fails.
func (s *Selector) Select(ctx context.Context, items []domain.Item) Texts {
	bullets := BuildBullets(items)

	topic := Sanitize(s.generate(ctx, "topic", topicPrompt(bullets), ""))
	if topic == "" {
		topic = FallbackTopic
	}

	intro := s.generate(ctx, "intro", introPrompt(topic, whyFragments(items)), fallbackIntro)
	summary := s.generate(ctx, "summary", summaryPrompt(topic), fallbackSummary)

	return Texts{
		Topic:   topic,
		Intro:   html.EscapeString(intro),
		Summary: html.EscapeString(summary),
	}
}

func (s *Selector) generate(ctx context.Context, name, prompt, fallback string) string {
	out, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generation failed, using fallback", "call", name, "error", err)
		return fallback
	}
	out = strings.TrimSpace(out)
	if out == "" {
		s.logger.Warn("generation returned empty output, using fallback", "call", name)
		return fallback
	}
	return out
}

// BuildBullets renders up to the first six items as prompt bullets, news
// before research.
func BuildBullets(items []domain.Item) string {
	if len(items) == 0 {
		return fallbackBullet
	}
	if len(items) > maxBullets {
		items = items[:maxBullets]
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s)", item.Title, item.Source))
	}
	return strings.Join(lines, "\n")
}

// whyFragments joins the first three titles as grounding for the intro prompt.
func whyFragments(items []domain.Item) string {
	if len(items) == 0 {
		return "notable updates across AI applications and research"
	}
	n := min(3, len(items))
	titles := make([]string, 0, n)
	for _, item := range items[:n] {
		titles = append(titles, item.Title)
	}
	return strings.Join(titles, ", ")
}
