package core

// Query descriptors are the vocabulary the search core uses to ask the
// storage layer for data. The core only builds descriptors; the storage
// layer decides how to evaluate them against its indexes. This keeps the
// search logic storage-engine-agnostic.

// Collection names an entity collection a term query runs against.
type Collection string

const (
	CollectionPages       Collection = "pages"
	CollectionAnnotations Collection = "annotations"
)

// Field names an indexed or scannable field inside a collection.
type Field string

const (
	FieldBody    Field = "body"
	FieldURL     Field = "url"
	FieldTitle   Field = "title"
	FieldComment Field = "comment"
)

// MatchOp selects how a term query matches.
type MatchOp int

const (
	// MatchExact is an exact-match lookup against the precomputed term index.
	MatchExact MatchOp = iota

	// MatchPrefix is a prefix lookup against the term index, used for
	// incremental (typeahead) search.
	MatchPrefix

	// MatchSubstring is a case-insensitive substring scan over the raw text
	// fields. Phrases are not pre-tokenized, so they can only be found this
	// way.
	MatchSubstring
)

// TermQuery asks for the identifiers of all entities in Collection whose
// Fields match Term under Op. Results from multiple fields are unioned.
type TermQuery struct {
	Collection Collection
	Fields     []Field
	Term       string
	Op         MatchOp
}

// TimeRange is a half-open interval [Since, Until) in epoch milliseconds.
type TimeRange struct {
	Since int64
	Until int64
}

// Contains reports whether ts falls inside the range.
func (r TimeRange) Contains(ts int64) bool {
	return ts >= r.Since && ts < r.Until
}

// Empty reports whether the range covers no time at all.
func (r TimeRange) Empty() bool {
	return r.Until <= r.Since
}
