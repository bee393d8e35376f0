package search

import (
	"context"
	"fmt"

	"github.com/hindsight-tools/hindsight/pkg/core"
)

// BlankSearch answers an empty query with recent activity: every page
// visited, bookmarked or annotated inside a day-sized window ending at
// UntilWhen, ranked by activity timestamp descending. Pagination is
// stateless; the caller requests the next (older) window by passing the
// returned Window.Since as the new UntilWhen.
func (s *Service) BlankSearch(ctx context.Context, params Params) (*ResultSet, error) {
	if params.DaysToSearch <= 0 {
		return nil, ErrInvalidWindow
	}

	until := s.untilOrNow(params.UntilWhen)
	if until < params.FromWhen {
		return nil, ErrInvalidBounds
	}

	window := blankWindow(params.FromWhen, until, params.DaysToSearch)
	logger.Debugf("blank search: window [%d, %d), %d days", window.Since, window.Until, params.DaysToSearch)

	visits, bookmarks, annotations, err := s.fetchRanges(ctx, window)
	if err != nil {
		return nil, err
	}

	builder := newResultBuilder()
	for _, v := range visits {
		builder.observe(v.URL, v.Time)
	}
	for _, b := range bookmarks {
		builder.observe(b.URL, b.Time)
	}
	for _, a := range annotations {
		builder.attach(a)
	}

	exhausted, err := s.exhaustedBelow(ctx, params.FromWhen, window.Since)
	if err != nil {
		return nil, err
	}

	return &ResultSet{
		Pages:     builder.build(),
		Window:    window,
		Exhausted: exhausted,
	}, nil
}

// blankWindow computes the half-open [since, until) range one blank-search
// page covers: days full days back from the upper bound, never dipping below
// the caller's floor.
func blankWindow(fromWhen, until int64, days int) core.TimeRange {
	since := until - int64(days)*millisPerDay
	if since < fromWhen {
		since = fromWhen
	}
	return core.TimeRange{Since: since, Until: until}
}

// fetchRanges pulls the three activity kinds for the window concurrently.
// Any failure fails the call.
func (s *Service) fetchRanges(ctx context.Context, window core.TimeRange) ([]core.Visit, []core.Bookmark, []core.Annotation, error) {
	type rangeResult struct {
		visits      []core.Visit
		bookmarks   []core.Bookmark
		annotations []core.Annotation
		err         error
	}

	resultCh := make(chan rangeResult, 3)
	go func() {
		visits, err := s.reader.VisitsInRange(ctx, window)
		resultCh <- rangeResult{visits: visits, err: err}
	}()
	go func() {
		bookmarks, err := s.reader.BookmarksInRange(ctx, window)
		resultCh <- rangeResult{bookmarks: bookmarks, err: err}
	}()
	go func() {
		annotations, err := s.reader.AnnotationsInRange(ctx, window)
		resultCh <- rangeResult{annotations: annotations, err: err}
	}()

	var (
		visits      []core.Visit
		bookmarks   []core.Bookmark
		annotations []core.Annotation
		firstErr    error
	)
	for i := 0; i < 3; i++ {
		r := <-resultCh
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		visits = append(visits, r.visits...)
		bookmarks = append(bookmarks, r.bookmarks...)
		annotations = append(annotations, r.annotations...)
	}
	if firstErr != nil {
		return nil, nil, nil, fmt.Errorf("fetching activity window: %w", firstErr)
	}

	return visits, bookmarks, annotations, nil
}

// exhaustedBelow reports whether pagination is done: the window already
// reached the caller's floor, or nothing at all lives between the floor and
// the window's lower edge.
func (s *Service) exhaustedBelow(ctx context.Context, fromWhen, since int64) (bool, error) {
	if since <= fromWhen {
		return true, nil
	}
	active, err := s.reader.HasActivityIn(ctx, core.TimeRange{Since: fromWhen, Until: since})
	if err != nil {
		return false, fmt.Errorf("probing for older activity: %w", err)
	}
	return !active, nil
}
