package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"AIMLWeekly/internal/domain"
	"AIMLWeekly/internal/topic"
)

type stubNews struct {
	items []domain.Item
	err   error
}

func (s stubNews) Fetch(context.Context, string, int) ([]domain.Item, error) {
	return s.items, s.err
}

type stubResearch struct {
	items []domain.Item
	err   error
}

func (s stubResearch) Fetch(context.Context, int) ([]domain.Item, error) {
	return s.items, s.err
}

type stubGenerator struct {
	out string
	err error
}

func (s stubGenerator) Generate(context.Context, string) (string, error) {
	return s.out, s.err
}

type recordingPublisher struct {
	calls   int
	title   string
	content string
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, title, content string) (string, error) {
	p.calls++
	p.title = title
	p.content = content
	if p.err != nil {
		return "", p.err
	}
	return "Post published: https://example.wordpress.com/issue", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(news stubNews, research stubResearch, gen stubGenerator, pub *recordingPublisher) *Pipeline {
	logger := discardLogger()
	return New(Deps{
		News:      news,
		Research:  research,
		Selector:  topic.NewSelector(gen, logger),
		Publisher: pub,
		Logger:    logger,
	})
}

func TestRunPublishesAssembledIssue(t *testing.T) {
	t.Parallel()

	when := time.Date(2025, time.July, 14, 9, 0, 0, 0, time.UTC)
	news := stubNews{items: []domain.Item{
		{Title: "Fresh story", URL: "https://example.com/a", Source: "Wire", PublishedAt: when},
	}}
	research := stubResearch{items: []domain.Item{
		{Title: "Fresh Paper", URL: "http://arxiv.org/abs/2507.00001v1", Source: "arXiv", Summary: "Abstract.", PublishedAt: when},
	}}
	pub := &recordingPublisher{}

	p := newTestPipeline(news, research, stubGenerator{out: "Weekly Topic"}, pub)
	receipt, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if receipt != "Post published: https://example.wordpress.com/issue" {
		t.Fatalf("unexpected receipt: %q", receipt)
	}
	if pub.calls != 1 {
		t.Fatalf("expected exactly one publish call, got %d", pub.calls)
	}
	if pub.title != "AI/ML Weekly: Weekly Topic" {
		t.Fatalf("unexpected post title: %q", pub.title)
	}
	for _, want := range []string{"https://example.com/a", "http://arxiv.org/abs/2507.00001v1"} {
		if !strings.Contains(pub.content, want) {
			t.Fatalf("published content missing %q", want)
		}
	}
}

func TestRunRejectedIssueNeverReachesPublisher(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	p := newTestPipeline(stubNews{}, stubResearch{}, stubGenerator{out: "Topic"}, pub)
	p.validate = func(domain.Document) error {
		return errors.New("document too short")
	}

	_, err := p.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "article rejected") {
		t.Fatalf("expected a rejection error, got %v", err)
	}
	if pub.calls != 0 {
		t.Fatalf("rejected issue must not be published, got %d calls", pub.calls)
	}
}

func TestRunDegradesWhenEverythingFails(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	p := newTestPipeline(
		stubNews{err: errors.New("news down")},
		stubResearch{err: errors.New("arxiv down")},
		stubGenerator{err: errors.New("backend down")},
		pub,
	)

	receipt, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("degraded run must still publish: %v", err)
	}
	if receipt == "" {
		t.Fatalf("expected a receipt")
	}
	if pub.title != "AI/ML Weekly: "+topic.FallbackTopic {
		t.Fatalf("expected the fallback topic in the title, got %q", pub.title)
	}
	for _, want := range []string{"No recent news found.", "No recent research found.", "No references available."} {
		if !strings.Contains(pub.content, want) {
			t.Fatalf("degraded issue missing placeholder %q", want)
		}
	}
}

func TestRunSurfacesPublishFailure(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("missing credentials")}
	p := newTestPipeline(stubNews{}, stubResearch{}, stubGenerator{out: "Topic"}, pub)

	_, err := p.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "publish") {
		t.Fatalf("expected a publish error, got %v", err)
	}
}
