package search

import (
	"context"
	"fmt"

	"github.com/hindsight-tools/hindsight/pkg/core"
)

// latestActivity reconciles page-level timestamps: for every given page it
// finds the most recent visit or bookmark time. Pages without any rows are
// absent from the result; callers treat absent as zero. The two collection
// reads run concurrently and the whole step fails if either fails.
func (s *Service) latestActivity(ctx context.Context, urls []string) (map[string]int64, error) {
	latest := make(map[string]int64, len(urls))
	if len(urls) == 0 {
		return latest, nil
	}

	type fetchResult struct {
		visits    []core.Visit
		bookmarks []core.Bookmark
		err       error
	}

	resultCh := make(chan fetchResult, 2)

	go func() {
		visits, err := s.reader.VisitsForPages(ctx, urls)
		resultCh <- fetchResult{visits: visits, err: err}
	}()
	go func() {
		bookmarks, err := s.reader.BookmarksForPages(ctx, urls)
		resultCh <- fetchResult{bookmarks: bookmarks, err: err}
	}()

	var results []fetchResult
	for i := 0; i < 2; i++ {
		results = append(results, <-resultCh)
	}
	for _, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("reconciling timestamps: %w", r.err)
		}
	}

	for _, r := range results {
		for _, v := range r.visits {
			if v.Time > latest[v.URL] {
				latest[v.URL] = v.Time
			}
		}
		for _, b := range r.bookmarks {
			if b.Time > latest[b.URL] {
				latest[b.URL] = b.Time
			}
		}
	}

	return latest, nil
}
