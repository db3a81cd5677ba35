package ports

import (
	"context"

	"AIMLWeekly/internal/domain"
)

// NewsSource pulls recent news items matching a search query.
type NewsSource interface {
	Fetch(ctx context.Context, query string, max int) ([]domain.Item, error)
}

// ResearchSource pulls recently updated research entries.
type ResearchSource interface {
	Fetch(ctx context.Context, max int) ([]domain.Item, error)
}

// TextGenerator produces a short text completion for a prompt. Implementations
// do not retry; callers substitute fallback text on failure.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Publisher pushes a finished article to the blog platform and returns a
// human-readable receipt.
type Publisher interface {
	Publish(ctx context.Context, title, content string) (string, error)
}
