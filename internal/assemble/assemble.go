package assemble

import (
	"fmt"
	"html"
	"strings"

	"AIMLWeekly/internal/domain"
	"AIMLWeekly/internal/recency"
)

// Placeholder rows keep the surrounding <ul> containers from ever rendering
// empty. They are display-only and never reach the references block.
const (
	newsPlaceholder   = "<li>No recent news found.</li>"
	papersPlaceholder = "<li>No recent research found.</li>"
	refsPlaceholder   = "<li>No references available.</li>"
)

const dateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// Inputs carries everything the assembler needs. Intro and Summary must
// already be HTML-escaped by the selector.
type Inputs struct {
	Topic   string
	Intro   string
	Summary string
	News    []domain.Item
	Papers  []domain.Item
}

// Build renders the full newsletter deterministically: all markup, list
// assembly, and references come from code, never from the model. It performs
// no I/O and no randomness.
func Build(in Inputs) domain.Document {
	body := fmt.Sprintf(`<h2 style='font-size:2em; font-weight:800; margin-bottom:0.2em;'>AI/ML Weekly: %s</h2>

<h3 style='font-size:1.3em; font-weight:600; margin-top:0;'>This Week's Big Idea</h3>

<h4>Introduction</h4>
<p>%s</p>

<h4>In the News:</h4>
<ul>
%s
</ul>

<h4>Research Breakthroughs:</h4>
<ul>
%s
</ul>

<h4>Summary &amp; Implications</h4>
<p>%s</p>

<h4>References</h4>
<ul>
%s
</ul>

<p>Stay tuned for further developments and insights in the world of AI!</p>`,
		html.EscapeString(in.Topic),
		in.Intro,
		renderBlock(in.News, newsPlaceholder),
		renderBlock(in.Papers, papersPlaceholder),
		in.Summary,
		references(in.News, in.Papers))

	return domain.Document{
		Topic: in.Topic,
		Title: "AI/ML Weekly: " + in.Topic,
		HTML:  body,
	}
}

func renderBlock(items []domain.Item, placeholder string) string {
	if len(items) == 0 {
		return placeholder
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, itemLine(item))
	}
	return strings.Join(lines, "\n")
}

// itemLine renders one list row: escaped hyperlinked text, source label, and
// formatted publish date. Research rows carry the truncated abstract after
// the title.
func itemLine(item domain.Item) string {
	text := item.Title
	if item.Summary != "" {
		text = item.Title + ": " + item.Summary
	}
	return fmt.Sprintf(`<li><a href="%s">%s</a> — <em>%s • %s</em></li>`,
		html.EscapeString(item.URL),
		html.EscapeString(text),
		html.EscapeString(item.Source),
		item.PublishedAt.UTC().Format(dateLayout))
}

// references renders the union of both batches deduplicated by (title, url).
// The per-batch dedupe upstream does not cover an item fetched by both
// adapters, so the pair is checked again here.
func references(news, papers []domain.Item) string {
	dedupe := recency.NewDeduper()
	lines := make([]string, 0, len(news)+len(papers))
	for _, item := range concat(news, papers) {
		if !dedupe.Admit(item) {
			continue
		}
		lines = append(lines, fmt.Sprintf(`<li><a href="%s">%s — %s</a></li>`,
			html.EscapeString(item.URL),
			html.EscapeString(item.Source),
			html.EscapeString(item.Title)))
	}
	if len(lines) == 0 {
		return refsPlaceholder
	}
	return strings.Join(lines, "\n")
}

func concat(a, b []domain.Item) []domain.Item {
	out := make([]domain.Item, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
