// Package storage implements the hindsight store on SQLite. It owns the
// lifecycle of pages, visits, bookmarks and annotations, maintains the
// secondary term indexes the search core queries, and evaluates the query
// descriptors (core.TermQuery, core.TimeRange) the core builds.
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/hindsight-tools/hindsight/pkg/core"
	"github.com/hindsight-tools/hindsight/pkg/log"
)

var logger = log.ForComponent("storage")

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Apply performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA temp_store = memory",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	store := &Store{db: db}
	if err := store.initializeSchema(); err != nil {
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initializeSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS pages (
			url TEXT PRIMARY KEY,
			domain TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS page_terms (
			term TEXT NOT NULL,
			field TEXT NOT NULL,
			url TEXT NOT NULL,
			UNIQUE (term, field, url)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_page_terms_lookup ON page_terms(field, term)`,
		`CREATE INDEX IF NOT EXISTS idx_page_terms_url ON page_terms(url)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_domain ON pages(domain)`,
		`CREATE TABLE IF NOT EXISTS visits (
			url TEXT NOT NULL,
			time INTEGER NOT NULL,
			UNIQUE (url, time)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_time ON visits(time)`,
		`CREATE INDEX IF NOT EXISTS idx_visits_url ON visits(url)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			url TEXT PRIMARY KEY,
			time INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookmarks_time ON bookmarks(time)`,
		`CREATE TABLE IF NOT EXISTS annotations (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			comment TEXT NOT NULL DEFAULT '',
			last_edited INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_edited ON annotations(last_edited)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_url ON annotations(url)`,
		`CREATE TABLE IF NOT EXISTS annotation_terms (
			term TEXT NOT NULL,
			field TEXT NOT NULL,
			annotation_id TEXT NOT NULL,
			UNIQUE (term, field, annotation_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_annotation_terms_lookup ON annotation_terms(field, term)`,
		`CREATE INDEX IF NOT EXISTS idx_annotation_terms_id ON annotation_terms(annotation_id)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	return nil
}

// SavePage inserts or replaces a page and rebuilds its term index rows.
func (s *Store) SavePage(page *core.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO pages (url, domain, title, body)
		VALUES (?, ?, ?, ?)
	`, page.URL, core.Domain(page.URL), page.Title, page.Body)
	if err != nil {
		return fmt.Errorf("inserting page %s: %w", page.URL, err)
	}

	if _, err := tx.Exec(`DELETE FROM page_terms WHERE url = ?`, page.URL); err != nil {
		return fmt.Errorf("clearing term index for %s: %w", page.URL, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO page_terms (term, field, url) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing term statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			logger.Warnf("failed to close statement: %v", err)
		}
	}()

	termSets := []struct {
		field core.Field
		terms []string
	}{
		{core.FieldBody, page.Terms},
		{core.FieldURL, page.URLTerms},
		{core.FieldTitle, page.TitleTerms},
	}
	for _, set := range termSets {
		for _, term := range set.terms {
			if _, err := stmt.Exec(term, string(set.field), page.URL); err != nil {
				return fmt.Errorf("indexing term %q for %s: %w", term, page.URL, err)
			}
		}
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// AddVisit records a visit. The referenced page should already exist, but
// this is not enforced so history imports can run in any order.
func (s *Store) AddVisit(visit *core.Visit) error {
	if err := visit.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO visits (url, time) VALUES (?, ?)
	`, visit.URL, visit.Time)
	if err != nil {
		return fmt.Errorf("inserting visit for %s: %w", visit.URL, err)
	}
	return nil
}

// AddBookmark records a bookmark. A page carries at most one bookmark; saving
// again replaces the timestamp.
func (s *Store) AddBookmark(bookmark *core.Bookmark) error {
	if err := bookmark.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO bookmarks (url, time) VALUES (?, ?)
	`, bookmark.URL, bookmark.Time)
	if err != nil {
		return fmt.Errorf("inserting bookmark for %s: %w", bookmark.URL, err)
	}
	return nil
}

// SaveAnnotation inserts or replaces an annotation and rebuilds its term
// index rows. Editing an annotation goes through here with a newer
// LastEdited.
func (s *Store) SaveAnnotation(annotation *core.Annotation) error {
	if err := annotation.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO annotations (id, url, body, comment, last_edited)
		VALUES (?, ?, ?, ?, ?)
	`, annotation.ID, annotation.URL, annotation.Body, annotation.Comment, annotation.LastEdited)
	if err != nil {
		return fmt.Errorf("inserting annotation %s: %w", annotation.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM annotation_terms WHERE annotation_id = ?`, annotation.ID); err != nil {
		return fmt.Errorf("clearing term index for annotation %s: %w", annotation.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO annotation_terms (term, field, annotation_id) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing term statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			logger.Warnf("failed to close statement: %v", err)
		}
	}()

	termSets := []struct {
		field core.Field
		terms []string
	}{
		{core.FieldBody, annotation.BodyTerms},
		{core.FieldComment, annotation.CommentTerms},
	}
	for _, set := range termSets {
		for _, term := range set.terms {
			if _, err := stmt.Exec(term, string(set.field), annotation.ID); err != nil {
				return fmt.Errorf("indexing term %q for annotation %s: %w", term, annotation.ID, err)
			}
		}
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// DeleteAnnotation removes an annotation and its term index rows.
func (s *Store) DeleteAnnotation(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	if _, err := tx.Exec(`DELETE FROM annotation_terms WHERE annotation_id = ?`, id); err != nil {
		return fmt.Errorf("deleting term index for annotation %s: %w", id, err)
	}
	if _, err := tx.Exec(`DELETE FROM annotations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting annotation %s: %w", id, err)
	}

	err = tx.Commit()
	if err == nil {
		committed = true
	}
	return err
}

// GetStats returns per-collection row counts plus the oldest and newest
// activity timestamps across visits, bookmarks and annotations.
func (s *Store) GetStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	counts := map[string]string{
		"pages":       "SELECT COUNT(*) FROM pages",
		"visits":      "SELECT COUNT(*) FROM visits",
		"bookmarks":   "SELECT COUNT(*) FROM bookmarks",
		"annotations": "SELECT COUNT(*) FROM annotations",
	}
	for name, query := range counts {
		var count int
		if err := s.db.QueryRow(query).Scan(&count); err != nil {
			return nil, fmt.Errorf("counting %s: %w", name, err)
		}
		stats[name] = count
	}

	var oldest, newest sql.NullInt64
	err := s.db.QueryRow(`
		SELECT MIN(t), MAX(t) FROM (
			SELECT time AS t FROM visits
			UNION ALL SELECT time FROM bookmarks
			UNION ALL SELECT last_edited FROM annotations
		)
	`).Scan(&oldest, &newest)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("getting activity range: %w", err)
	}
	if oldest.Valid && newest.Valid {
		stats["oldest_activity"] = oldest.Int64
		stats["newest_activity"] = newest.Int64
	}

	return stats, nil
}

func (s *Store) Optimize() error {
	_, err := s.db.Exec("PRAGMA optimize")
	return err
}

func (s *Store) Analyze() error {
	_, err := s.db.Exec("ANALYZE")
	return err
}

func (s *Store) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

func (s *Store) WALCheckpoint() error {
	_, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}
