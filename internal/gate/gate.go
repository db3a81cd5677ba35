package gate

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"AIMLWeekly/internal/domain"
)

// minLength is the last line of defense against publishing a degenerate
// article when every source and every generation fallback failed at once.
const minLength = 300

// Validate rejects documents that are too short or carry no rendered list
// entries. A failure aborts the run before any publish attempt.
func Validate(doc domain.Document) error {
	if len(doc.HTML) < minLength {
		return fmt.Errorf("document too short: %d bytes, minimum %d", len(doc.HTML), minLength)
	}

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if parsed.Find("ul li").Length() == 0 {
		return fmt.Errorf("document has no rendered list entries")
	}
	return nil
}
