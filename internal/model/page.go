package model

// Page represents a fetched HTML page reduced to what the crawler needs:
// the page title and every outgoing anchor.
//
// A Page is produced fresh for each fetch and is not modified afterwards.
type Page struct {
	// URL is the URL that was requested.
	URL string `json:"url"`

	// FinalURL is the URL of the response after redirects.
	// Relative anchors are resolved against this URL.
	FinalURL string `json:"final_url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the MIME type from the Content-Type header.
	ContentType string `json:"content_type"`

	// RawTitle is the text of the <title> element as served.
	RawTitle string `json:"raw_title"`

	// Title is RawTitle with the site suffix removed.
	// It is filled in by the caller that owns the title normalizer.
	Title string `json:"title"`

	// Anchors contains all <a href> elements in document order.
	Anchors []Anchor `json:"anchors,omitempty"`
}

// Anchor is a hyperlink found on a page.
type Anchor struct {
	// Text is the anchor's visible text with whitespace collapsed.
	Text string `json:"text"`

	// Href is the absolute URL the anchor points to.
	Href string `json:"href"`
}

// AnchorCount returns the number of anchors on the page.
func (p *Page) AnchorCount() int {
	if p == nil {
		return 0
	}
	return len(p.Anchors)
}
