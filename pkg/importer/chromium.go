package importer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hindsight-tools/hindsight/pkg/core"
	"github.com/hindsight-tools/hindsight/pkg/storage"
)

// Chrome epoch is 11644473600 seconds before the Unix epoch.
const chromeEpochOffsetMillis = 11644473600 * 1000

// ImportChromium loads visits from a Chromium History database. Chromium
// stores timestamps as microseconds since 1601-01-01 (the WebKit epoch).
// Bookmarks live in a separate JSON file Chromium does not keep in this
// database, so only pages and visits come from here.
func ImportChromium(ctx context.Context, store *storage.Store, historyPath string) (*Report, error) {
	logger.Infof("importing Chromium history from %s", historyPath)

	db, cleanup, err := openCopy(historyPath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	for _, table := range []string{"urls", "visits"} {
		ok, err := tableExists(ctx, db, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s: not a Chromium history database (missing %s)", historyPath, table)
		}
	}

	rows, err := db.QueryContext(ctx, `
		SELECT u.url, u.title, v.visit_time
		FROM urls u
		INNER JOIN visits v
		ON u.id = v.url
		ORDER BY v.visit_time DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	report := &Report{}
	seen := make(map[string]struct{})
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var url string
		var title sql.NullString
		var visitTime int64
		if err := rows.Scan(&url, &title, &visitTime); err != nil {
			logger.Warnf("failed to scan visit row: %v", err)
			continue
		}

		if _, ok := seen[url]; !ok {
			seen[url] = struct{}{}
			if err := store.SavePage(core.NewPage(url, title.String, "")); err != nil {
				return nil, fmt.Errorf("saving page %s: %w", url, err)
			}
			report.Pages++
		}

		timestamp := chromeTimeToMillis(visitTime)
		if timestamp <= 0 {
			continue
		}
		if err := store.AddVisit(&core.Visit{URL: url, Time: timestamp}); err != nil {
			return nil, fmt.Errorf("saving visit for %s: %w", url, err)
		}
		report.Visits++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	logger.Infof("imported %d pages, %d visits", report.Pages, report.Visits)
	return report, nil
}

// chromeTimeToMillis converts a WebKit timestamp (microseconds since
// 1601-01-01) to epoch milliseconds.
func chromeTimeToMillis(chromeTime int64) int64 {
	return chromeTime/1000 - chromeEpochOffsetMillis
}
