package recency

import (
	"time"

	"AIMLWeekly/internal/domain"
)

// DefaultSpan is the trailing admission window shared by both source adapters.
const DefaultSpan = 7 * 24 * time.Hour

// Window admits items published (or updated) inside a trailing period. The
// cutoff is fixed at construction so every item in one batch shares it.
type Window struct {
	cutoff time.Time
}

// NewWindow anchors the window at now minus span.
func NewWindow(now time.Time, span time.Duration) Window {
	return Window{cutoff: now.UTC().Add(-span)}
}

// Contains reports whether t qualifies. Zero timestamps never qualify.
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(w.cutoff)
}

// Cutoff exposes the anchor instant.
func (w Window) Cutoff() time.Time {
	return w.cutoff
}

// Deduper drops repeated (title, url) pairs within a single run.
type Deduper struct {
	seen map[domain.Key]struct{}
}

// NewDeduper builds an empty run-local deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: map[domain.Key]struct{}{}}
}

// Admit records the item's key and reports whether it was unseen.
func (d *Deduper) Admit(item domain.Item) bool {
	key := item.Key()
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}
