package domain

import "time"

// Item is one normalized news or research record fetched from an upstream
// source. Items are immutable after the adapter creates them and live only
// for the duration of one run.
type Item struct {
	Title       string
	URL         string
	Source      string
	Summary     string
	PublishedAt time.Time // normalized to UTC; research items carry the updated timestamp here
}

// Key identifies an item for run-local deduplication.
type Key struct {
	Title string
	URL   string
}

// Key returns the (title, url) identity of the item.
func (i Item) Key() Key {
	return Key{Title: i.Title, URL: i.URL}
}
