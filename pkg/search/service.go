package search

import (
	"context"
	"time"

	"github.com/hindsight-tools/hindsight/pkg/log"
)

const millisPerDay = 24 * 60 * 60 * 1000

var logger = log.ForComponent("search")

// Params carries everything a unified search call needs. A query that
// tokenizes to nothing selects the blank (recency) path; anything else
// selects the terms path.
type Params struct {
	// Query is the raw query string. Empty means blank search.
	Query string

	// Prefix switches page term lookups from exact to prefix matching,
	// used for incremental (typeahead) search.
	Prefix bool

	// Domains narrows results to pages on these domains.
	Domains []string

	// FromWhen is the inclusive lower time bound, epoch ms. Zero means no
	// floor.
	FromWhen int64

	// UntilWhen is the exclusive upper time bound, epoch ms. Zero means
	// "now" per the service clock.
	UntilWhen int64

	// DaysToSearch is the blank-search window size in days.
	DaysToSearch int
}

// Service answers unified searches against an injected storage Reader.
// The clock is injectable so tests can run against fixed timestamps; it
// defaults to time.Now.
type Service struct {
	reader Reader
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the service's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a search service reading from the given store.
func NewService(reader Reader, opts ...Option) *Service {
	s := &Service{
		reader: reader,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search dispatches on the query's content: tokenized-empty queries run the
// blank (recency) path, everything else the terms path.
func (s *Service) Search(ctx context.Context, params Params) (*ResultSet, error) {
	tokens := Split(params.Query)
	if tokens.Empty() {
		return s.BlankSearch(ctx, params)
	}
	return s.termsSearch(ctx, tokens, params)
}

// untilOrNow resolves the exclusive upper bound, defaulting to the service
// clock when the caller left it unset.
func (s *Service) untilOrNow(untilWhen int64) int64 {
	if untilWhen > 0 {
		return untilWhen
	}
	return s.now().UnixMilli()
}
