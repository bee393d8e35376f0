package search

import (
	"context"

	"github.com/hindsight-tools/hindsight/pkg/core"
)

// Reader is the storage capability the search core consumes. All methods are
// reads; the core never creates, mutates or deletes rows. A single call's
// reads are expected to observe one consistent snapshot; consistency across
// separate calls is the store's business, not ours.
//
// pkg/storage.Store implements this over SQLite.
type Reader interface {
	// SearchTerms evaluates a term-query descriptor and returns matching
	// entity identifiers: page URLs or annotation IDs depending on the
	// descriptor's collection.
	SearchTerms(ctx context.Context, q core.TermQuery) ([]string, error)

	// Range queries over the activity timestamps, half-open [Since, Until).
	VisitsInRange(ctx context.Context, r core.TimeRange) ([]core.Visit, error)
	BookmarksInRange(ctx context.Context, r core.TimeRange) ([]core.Bookmark, error)
	AnnotationsInRange(ctx context.Context, r core.TimeRange) ([]core.Annotation, error)

	// Bulk retrieval by page identifier or primary key.
	VisitsForPages(ctx context.Context, urls []string) ([]core.Visit, error)
	BookmarksForPages(ctx context.Context, urls []string) ([]core.Bookmark, error)
	AnnotationsByID(ctx context.Context, ids []string) ([]core.Annotation, error)

	// PagesInDomains narrows terms-search candidates to a set of domains.
	PagesInDomains(ctx context.Context, domains []string) ([]string, error)

	// HasActivityIn reports whether any visit, bookmark or annotation
	// timestamp falls inside the range. Used for exhaustion detection.
	HasActivityIn(ctx context.Context, r core.TimeRange) (bool, error)
}
