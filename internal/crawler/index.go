package crawler

import (
	"context"
	"strings"

	"github.com/nao1215/semcrawl/internal/model"
	"github.com/nao1215/semcrawl/internal/title"
)

// LinkIndex maps normalised anchor titles to absolute URLs for one page.
// When two anchors share a title, the later anchor's URL wins.
type LinkIndex struct {
	urls  map[string]string
	order []string
}

// BuildIndex collects the in-scope anchors of page.
// Anchors with an empty normalised title or a blank URL are skipped, as are
// URLs the scope rejects. A nil scope accepts every URL.
func BuildIndex(ctx context.Context, page *model.Page, normalizer title.Normalizer, scope *Scope) LinkIndex {
	idx := LinkIndex{urls: make(map[string]string)}
	if page == nil {
		return idx
	}

	for _, a := range page.Anchors {
		t := normalizer.Normalize(a.Text)
		href := strings.TrimSpace(a.Href)
		if t == "" || href == "" {
			continue
		}
		if !scope.Allows(ctx, href) {
			continue
		}
		if _, seen := idx.urls[t]; !seen {
			idx.order = append(idx.order, t)
		}
		idx.urls[t] = href
	}
	return idx
}

// Lookup returns the URL indexed under t.
func (idx LinkIndex) Lookup(t string) (string, bool) {
	u, ok := idx.urls[t]
	return u, ok
}

// Titles returns the indexed titles in order of first appearance on the page.
func (idx LinkIndex) Titles() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Len returns the number of indexed titles.
func (idx LinkIndex) Len() int {
	return len(idx.urls)
}
