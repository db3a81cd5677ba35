package domain

// Document is one assembled newsletter issue, created once per run and handed
// to the publication gate before the publish call.
type Document struct {
	Topic string
	Title string
	HTML  string
}
