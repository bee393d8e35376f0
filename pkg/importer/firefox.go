package importer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hindsight-tools/hindsight/pkg/core"
	"github.com/hindsight-tools/hindsight/pkg/storage"
)

// ImportFirefox loads visits and bookmarks from a Firefox places.sqlite
// database. Firefox stores timestamps as microseconds since the Unix epoch.
func ImportFirefox(ctx context.Context, store *storage.Store, placesPath string) (*Report, error) {
	logger.Infof("importing Firefox history from %s", placesPath)

	db, cleanup, err := openCopy(placesPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	for _, table := range []string{"moz_places", "moz_historyvisits"} {
		ok, err := tableExists(ctx, db, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s: not a Firefox places database (missing %s)", placesPath, table)
		}
	}

	report := &Report{}
	seen := make(map[string]struct{})
	if err := importFirefoxVisits(ctx, db, store, report, seen); err != nil {
		return nil, err
	}

	ok, err := tableExists(ctx, db, "moz_bookmarks")
	if err != nil {
		return nil, err
	}
	if ok {
		if err := importFirefoxBookmarks(ctx, db, store, report, seen); err != nil {
			return nil, err
		}
	}

	logger.Infof("imported %d pages, %d visits, %d bookmarks",
		report.Pages, report.Visits, report.Bookmarks)
	return report, nil
}

func importFirefoxVisits(ctx context.Context, db *sql.DB, store *storage.Store, report *Report, seen map[string]struct{}) error {
	rows, err := db.QueryContext(ctx, `
		SELECT p.url, p.title, p.description, h.visit_date
		FROM moz_places p
		INNER JOIN moz_historyvisits h
		ON p.id = h.place_id
		ORDER BY h.visit_date DESC
	`)
	if err != nil {
		return fmt.Errorf("querying visits: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	for rows.Next() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var url string
		var title, description sql.NullString
		var visitDate int64
		if err := rows.Scan(&url, &title, &description, &visitDate); err != nil {
			logger.Warnf("failed to scan visit row: %v", err)
			continue
		}

		if _, ok := seen[url]; !ok {
			seen[url] = struct{}{}
			if err := store.SavePage(core.NewPage(url, title.String, description.String)); err != nil {
				return fmt.Errorf("saving page %s: %w", url, err)
			}
			report.Pages++
		}

		// Microseconds to epoch ms. Rows without a usable timestamp are
		// skipped rather than imported at time zero.
		timestamp := visitDate / 1000
		if timestamp <= 0 {
			continue
		}
		if err := store.AddVisit(&core.Visit{URL: url, Time: timestamp}); err != nil {
			return fmt.Errorf("saving visit for %s: %w", url, err)
		}
		report.Visits++
	}
	return rows.Err()
}

func importFirefoxBookmarks(ctx context.Context, db *sql.DB, store *storage.Store, report *Report, seen map[string]struct{}) error {
	// type = 1 are actual bookmarks; folders and separators have other types.
	rows, err := db.QueryContext(ctx, `
		SELECT p.url, p.title, b.title, b.dateAdded
		FROM moz_bookmarks b
		INNER JOIN moz_places p
		ON b.fk = p.id
		WHERE b.type = 1
	`)
	if err != nil {
		return fmt.Errorf("querying bookmarks: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	for rows.Next() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var url string
		var pageTitle, bookmarkTitle sql.NullString
		var dateAdded int64
		if err := rows.Scan(&url, &pageTitle, &bookmarkTitle, &dateAdded); err != nil {
			logger.Warnf("failed to scan bookmark row: %v", err)
			continue
		}

		timestamp := dateAdded / 1000
		if timestamp <= 0 {
			continue
		}

		// Bookmarked pages without history rows still need a page record.
		if _, ok := seen[url]; !ok {
			seen[url] = struct{}{}
			title := bookmarkTitle.String
			if title == "" {
				title = pageTitle.String
			}
			if err := store.SavePage(core.NewPage(url, title, "")); err != nil {
				return fmt.Errorf("saving page %s: %w", url, err)
			}
			report.Pages++
		}
		if err := store.AddBookmark(&core.Bookmark{URL: url, Time: timestamp}); err != nil {
			return fmt.Errorf("saving bookmark for %s: %w", url, err)
		}
		report.Bookmarks++
	}
	return rows.Err()
}
