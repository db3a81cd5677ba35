package gate

import (
	"strings"
	"testing"

	"AIMLWeekly/internal/assemble"
	"AIMLWeekly/internal/domain"
)

func TestValidateRejectsShortDocuments(t *testing.T) {
	t.Parallel()

	err := Validate(domain.Document{HTML: "<p>too small</p>"})
	if err == nil || !strings.Contains(err.Error(), "too short") {
		t.Fatalf("expected a too-short rejection, got %v", err)
	}
}

func TestValidateRejectsDocumentsWithoutListEntries(t *testing.T) {
	t.Parallel()

	html := "<p>" + strings.Repeat("filler text ", 40) + "</p>"
	err := Validate(domain.Document{HTML: html})
	if err == nil || !strings.Contains(err.Error(), "list entries") {
		t.Fatalf("expected a no-list rejection, got %v", err)
	}
}

func TestValidateAcceptsPlaceholderOnlyIssue(t *testing.T) {
	t.Parallel()

	// The degenerate run: no items, every generation fallback. The assembled
	// skeleton must still clear the gate so a thin issue ships rather than
	// nothing.
	doc := assemble.Build(assemble.Inputs{
		Topic:   "Key AI/ML Highlights",
		Intro:   "A quick tour of the most useful AI/ML developments this week.",
		Summary: "Expect continued iteration across models, tooling, and applied ML in production.",
	})
	if err := Validate(doc); err != nil {
		t.Fatalf("placeholder-only issue must pass: %v", err)
	}
}

func TestValidateAcceptsRegularIssue(t *testing.T) {
	t.Parallel()

	html := "<h2>AI/ML Weekly</h2>" + strings.Repeat("<p>content</p>", 30) + "<ul><li><a href=\"https://example.com\">x</a></li></ul>"
	if err := Validate(domain.Document{HTML: html}); err != nil {
		t.Fatalf("well-formed issue must pass: %v", err)
	}
}
