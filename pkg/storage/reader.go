package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hindsight-tools/hindsight/pkg/core"
)

// The methods in this file make *Store satisfy the search core's Reader
// interface. Each one evaluates a declarative descriptor built by the core;
// none of them interpret query text.

// SearchTerms returns the identifiers of entities matching a term query:
// page URLs for the pages collection, annotation IDs for annotations.
// Exact and prefix lookups run against the term index tables; substring
// queries scan the raw text columns since phrases are not pre-tokenized.
func (s *Store) SearchTerms(ctx context.Context, q core.TermQuery) ([]string, error) {
	if q.Op == core.MatchSubstring {
		return s.scanSubstring(ctx, q)
	}

	var table, idColumn string
	switch q.Collection {
	case core.CollectionPages:
		table, idColumn = "page_terms", "url"
	case core.CollectionAnnotations:
		table, idColumn = "annotation_terms", "annotation_id"
	default:
		return nil, fmt.Errorf("unknown collection %q", q.Collection)
	}

	if len(q.Fields) == 0 {
		return nil, fmt.Errorf("term query needs at least one field")
	}

	var args []interface{}
	placeholders := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		placeholders[i] = "?"
		args = append(args, string(f))
	}

	var termCond string
	switch q.Op {
	case core.MatchExact:
		termCond = "term = ?"
		args = append(args, q.Term)
	case core.MatchPrefix:
		termCond = `term LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(q.Term)+"%")
	default:
		return nil, fmt.Errorf("unsupported match op %d", q.Op)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT %s FROM %s
		WHERE field IN (%s) AND %s
	`, idColumn, table, strings.Join(placeholders, ", "), termCond)

	return s.queryIdentifiers(ctx, query, args...)
}

// scanSubstring performs the case-insensitive phrase scan over raw text
// fields.
func (s *Store) scanSubstring(ctx context.Context, q core.TermQuery) ([]string, error) {
	needle := strings.ToLower(q.Term)

	var table, idColumn string
	columns := make(map[core.Field]string)
	switch q.Collection {
	case core.CollectionPages:
		table, idColumn = "pages", "url"
		columns[core.FieldBody] = "body"
		columns[core.FieldTitle] = "title"
	case core.CollectionAnnotations:
		table, idColumn = "annotations", "id"
		columns[core.FieldBody] = "body"
		columns[core.FieldComment] = "comment"
	default:
		return nil, fmt.Errorf("unknown collection %q", q.Collection)
	}

	var conds []string
	var args []interface{}
	for _, f := range q.Fields {
		column, ok := columns[f]
		if !ok {
			return nil, fmt.Errorf("field %q not scannable in %s", f, q.Collection)
		}
		conds = append(conds, fmt.Sprintf("instr(lower(%s), ?) > 0", column))
		args = append(args, needle)
	}
	if len(conds) == 0 {
		return nil, fmt.Errorf("term query needs at least one field")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s
	`, idColumn, table, strings.Join(conds, " OR "))

	return s.queryIdentifiers(ctx, query, args...)
}

// VisitsInRange returns all visits whose time falls in [r.Since, r.Until).
func (s *Store) VisitsInRange(ctx context.Context, r core.TimeRange) ([]core.Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, time FROM visits
		WHERE time >= ? AND time < ?
	`, r.Since, r.Until)
	if err != nil {
		return nil, fmt.Errorf("querying visits: %w", err)
	}
	return scanVisits(rows)
}

// BookmarksInRange returns all bookmarks whose time falls in [r.Since, r.Until).
func (s *Store) BookmarksInRange(ctx context.Context, r core.TimeRange) ([]core.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, time FROM bookmarks
		WHERE time >= ? AND time < ?
	`, r.Since, r.Until)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	return scanBookmarks(rows)
}

// AnnotationsInRange returns all annotations whose last_edited falls in
// [r.Since, r.Until).
func (s *Store) AnnotationsInRange(ctx context.Context, r core.TimeRange) ([]core.Annotation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, body, comment, last_edited FROM annotations
		WHERE last_edited >= ? AND last_edited < ?
	`, r.Since, r.Until)
	if err != nil {
		return nil, fmt.Errorf("querying annotations: %w", err)
	}
	return scanAnnotations(rows)
}

// VisitsForPages bulk-retrieves all visits belonging to the given pages.
func (s *Store) VisitsForPages(ctx context.Context, urls []string) ([]core.Visit, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT url, time FROM visits WHERE url IN (%s)
	`, placeholders(len(urls)))
	rows, err := s.db.QueryContext(ctx, query, stringArgs(urls)...)
	if err != nil {
		return nil, fmt.Errorf("querying visits by page: %w", err)
	}
	return scanVisits(rows)
}

// BookmarksForPages bulk-retrieves the bookmarks of the given pages.
func (s *Store) BookmarksForPages(ctx context.Context, urls []string) ([]core.Bookmark, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT url, time FROM bookmarks WHERE url IN (%s)
	`, placeholders(len(urls)))
	rows, err := s.db.QueryContext(ctx, query, stringArgs(urls)...)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks by page: %w", err)
	}
	return scanBookmarks(rows)
}

// AnnotationsByID bulk-retrieves annotations by primary key. Missing IDs are
// skipped, not errors.
func (s *Store) AnnotationsByID(ctx context.Context, ids []string) ([]core.Annotation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT id, url, body, comment, last_edited FROM annotations WHERE id IN (%s)
	`, placeholders(len(ids)))
	rows, err := s.db.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("querying annotations by id: %w", err)
	}
	return scanAnnotations(rows)
}

// PagesInDomains returns the URLs of all pages whose domain matches one of
// the given domains. Used to narrow terms-search candidates.
func (s *Store) PagesInDomains(ctx context.Context, domains []string) ([]string, error) {
	if len(domains) == 0 {
		return nil, nil
	}
	normalized := make([]string, len(domains))
	for i, d := range domains {
		normalized[i] = strings.TrimPrefix(strings.ToLower(d), "www.")
	}
	query := fmt.Sprintf(`
		SELECT url FROM pages WHERE domain IN (%s)
	`, placeholders(len(normalized)))
	return s.queryIdentifiers(ctx, query, stringArgs(normalized)...)
}

// HasActivityIn reports whether any visit, bookmark or annotation timestamp
// falls inside the range. The search core uses this for exhaustion checks.
func (s *Store) HasActivityIn(ctx context.Context, r core.TimeRange) (bool, error) {
	if r.Empty() {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 WHERE EXISTS (SELECT 1 FROM visits WHERE time >= ? AND time < ?)
			OR EXISTS (SELECT 1 FROM bookmarks WHERE time >= ? AND time < ?)
			OR EXISTS (SELECT 1 FROM annotations WHERE last_edited >= ? AND last_edited < ?)
	`, r.Since, r.Until, r.Since, r.Until, r.Since, r.Until).Scan(&one)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("checking activity range: %w", err)
}

// PagesByURL bulk-retrieves pages for result display. Term sets are index
// rows, not row data, so they come back empty.
func (s *Store) PagesByURL(ctx context.Context, urls []string) ([]core.Page, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT url, title, body FROM pages WHERE url IN (%s)
	`, placeholders(len(urls)))
	rows, err := s.db.QueryContext(ctx, query, stringArgs(urls)...)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var pages []core.Page
	for rows.Next() {
		var p core.Page
		if err := rows.Scan(&p.URL, &p.Title, &p.Body); err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *Store) queryIdentifiers(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying identifiers: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning identifier: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanVisits(rows *sql.Rows) ([]core.Visit, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var visits []core.Visit
	for rows.Next() {
		var v core.Visit
		if err := rows.Scan(&v.URL, &v.Time); err != nil {
			return nil, fmt.Errorf("scanning visit row: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func scanBookmarks(rows *sql.Rows) ([]core.Bookmark, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var bookmarks []core.Bookmark
	for rows.Next() {
		var b core.Bookmark
		if err := rows.Scan(&b.URL, &b.Time); err != nil {
			return nil, fmt.Errorf("scanning bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func scanAnnotations(rows *sql.Rows) ([]core.Annotation, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var annotations []core.Annotation
	for rows.Next() {
		var a core.Annotation
		if err := rows.Scan(&a.ID, &a.URL, &a.Body, &a.Comment, &a.LastEdited); err != nil {
			return nil, fmt.Errorf("scanning annotation row: %w", err)
		}
		annotations = append(annotations, a)
	}
	return annotations, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
