package search

import "errors"

// Validation errors. Malformed cursors fail fast and are never silently
// clamped. Storage read failures are not wrapped in anything of our own
// beyond context; they propagate to the caller as-is.
var (
	// ErrInvalidWindow is returned when a blank-search window size is zero
	// or negative.
	ErrInvalidWindow = errors.New("search: days to search must be positive")

	// ErrInvalidBounds is returned when a cursor's upper bound lies below
	// its lower bound.
	ErrInvalidBounds = errors.New("search: until bound precedes from bound")

	// ErrNoSearchTerms is returned by TermsSearch when tokenizing the query
	// produced neither terms nor phrases. Blank queries belong to
	// BlankSearch; the intersector never infers "match all".
	ErrNoSearchTerms = errors.New("search: query has no terms or phrases")
)
