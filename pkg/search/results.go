package search

import (
	"sort"

	"github.com/hindsight-tools/hindsight/pkg/core"
)

// PageResult is one page in a result set: the annotations that qualified
// (most recently edited first) and the page's activity timestamp, the max of
// its page-level visit/bookmark time and its newest qualifying annotation's
// edit time.
type PageResult struct {
	URL         string
	Annotations []core.Annotation
	Timestamp   int64
}

// AnnotationIDs returns the identifiers of the qualifying annotations in
// their ranked (last-edited descending) order.
func (p *PageResult) AnnotationIDs() []string {
	ids := make([]string, len(p.Annotations))
	for i, a := range p.Annotations {
		ids[i] = a.ID
	}
	return ids
}

// ResultSet is the outcome of one search call: pages ordered by activity
// timestamp descending. Blank searches additionally report the scanned
// window and whether older data remains below it.
type ResultSet struct {
	Pages []PageResult

	// Window is the time range this call scanned. Zero for terms searches.
	// The next blank-search page is requested with UntilWhen = Window.Since.
	Window core.TimeRange

	// Exhausted is true when no qualifying data older than the caller's
	// floor remains. Only meaningful for blank searches.
	Exhausted bool
}

// resultBuilder aggregates per-page state while a search call runs. It is
// rebuilt for every call and discarded afterwards.
type resultBuilder struct {
	entries map[string]*PageResult
	order   []string
}

func newResultBuilder() *resultBuilder {
	return &resultBuilder{entries: make(map[string]*PageResult)}
}

func (b *resultBuilder) entry(url string) *PageResult {
	if e, ok := b.entries[url]; ok {
		return e
	}
	e := &PageResult{URL: url}
	b.entries[url] = e
	b.order = append(b.order, url)
	return e
}

// observe raises a page's activity timestamp to ts if newer.
func (b *resultBuilder) observe(url string, ts int64) {
	e := b.entry(url)
	if ts > e.Timestamp {
		e.Timestamp = ts
	}
}

// attach adds an annotation to its page's list, keeping the list ordered by
// LastEdited descending, and raises the activity timestamp if the annotation
// is the newest thing seen for the page.
func (b *resultBuilder) attach(annotation core.Annotation) {
	e := b.entry(annotation.URL)

	idx := sort.Search(len(e.Annotations), func(i int) bool {
		if e.Annotations[i].LastEdited != annotation.LastEdited {
			return e.Annotations[i].LastEdited < annotation.LastEdited
		}
		return e.Annotations[i].ID > annotation.ID
	})
	e.Annotations = append(e.Annotations, core.Annotation{})
	copy(e.Annotations[idx+1:], e.Annotations[idx:])
	e.Annotations[idx] = annotation

	if annotation.LastEdited > e.Timestamp {
		e.Timestamp = annotation.LastEdited
	}
}

// build ranks the aggregated entries into a ResultSet: activity timestamp
// descending, ties broken by insertion order (stable sort), so equal-time
// pages come out deterministically.
func (b *resultBuilder) build() []PageResult {
	pages := make([]PageResult, 0, len(b.order))
	for _, url := range b.order {
		pages = append(pages, *b.entries[url])
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Timestamp > pages[j].Timestamp
	})
	return pages
}
