package fetch

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/semcrawl/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Parser extracts the title and anchors from an HTML page.
//
// Design decision: We parse with golang.org/x/net/html, which copes with the
// malformed markup found on the web, and select elements with goquery on top
// of the parsed tree instead of walking it by hand.
type Parser struct {
	// baseURL is used to resolve relative hrefs.
	baseURL *url.URL
}

// ParseResult contains what the crawler needs from a page.
type ParseResult struct {
	// Title is the text of the first <title> element.
	Title string

	// Anchors are the page's resolvable <a href> elements in document order.
	Anchors []model.Anchor
}

// NewParser creates a parser that resolves relative links against baseURL.
func NewParser(baseURL string) (*Parser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &Parser{baseURL: u}, nil
}

// Parse parses HTML content.
func (p *Parser) Parse(content io.Reader) (*ParseResult, error) {
	root, err := html.Parse(content)
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	result := &ParseResult{
		Title:   cleanText(doc.Find("title").First().Text()),
		Anchors: make([]model.Anchor, 0),
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := p.resolveURL(href)
		if resolved == "" {
			return
		}
		result.Anchors = append(result.Anchors, model.Anchor{
			Text: cleanText(s.Text()),
			Href: resolved,
		})
	})

	return result, nil
}

// resolveURL resolves href against the base URL.
// Non-navigational hrefs (javascript:, mailto:, tel:, data:, "#") resolve to "".
func (p *Parser) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.baseURL.ResolveReference(u).String()
}

// cleanText collapses runs of whitespace to single spaces, trims the result,
// and converts it to Unicode NFC so that visually identical titles compare
// equal.
func cleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
