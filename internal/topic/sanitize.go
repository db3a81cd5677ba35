package topic

import (
	"regexp"
	"strings"
)

// echoPrefixes match the boilerplate some models prepend when asked for a bare
// title. The list covers the observed patterns only; it is not meant to grow
// generically.
var echoPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here is a proposed topic title:`),
	regexp.MustCompile(`(?i)^title:`),
	regexp.MustCompile(`(?i)^this title.*:`),
}

var leadingJunk = regexp.MustCompile(`^[:\s]+`)

// Sanitize cleans raw model output into a displayable topic phrase. The
// ordered rules are applied repeatedly until the text stops changing, which
// makes the result stable under re-sanitization.
func Sanitize(raw string) string {
	t := raw
	for {
		next := sanitizeOnce(t)
		if next == t {
			return t
		}
		t = next
	}
}

// sanitizeOnce applies one pass: strip prompt echoes, drop quotes, strip
// leftover leading punctuation, keep the first line, trim.
func sanitizeOnce(t string) string {
	t = strings.TrimSpace(t)
	for _, expr := range echoPrefixes {
		t = expr.ReplaceAllString(t, "")
	}
	t = strings.NewReplacer(`"`, "", `'`, "").Replace(t)
	t = leadingJunk.ReplaceAllString(t, "")
	if idx := strings.IndexByte(t, '\n'); idx >= 0 {
		t = t[:idx]
	}
	return strings.TrimSpace(t)
}
