// Package core defines the entities hindsight stores and searches: pages,
// visits, bookmarks and annotations. Entities are immutable once created;
// the storage layer owns their lifecycle and the search core only reads them.
//
// All timestamps are epoch milliseconds. Pages are identified by their full
// URL; visits, bookmarks and annotations reference a page by that URL.
package core

import (
	"fmt"
	"strings"
)

// Page is a captured web page with its extracted text and the precomputed
// term sets used by the indexed term lookups. The term sets are derived from
// Body, URL and Title at capture time with ExtractTerms/ExtractURLTerms.
type Page struct {
	URL        string
	Title      string
	Body       string
	Terms      []string // body terms
	URLTerms   []string
	TitleTerms []string
}

// Visit records one view of a page at a point in time.
type Visit struct {
	URL  string
	Time int64
}

// Bookmark marks a page as explicitly saved by the user.
type Bookmark struct {
	URL  string
	Time int64
}

// Annotation is a user highlight and/or comment attached to a page.
// Body holds the highlighted page text, Comment the user's note; either may
// be empty but not both. LastEdited moves forward when the annotation is
// edited.
type Annotation struct {
	ID           string
	URL          string
	Body         string
	Comment      string
	BodyTerms    []string
	CommentTerms []string
	LastEdited   int64
}

// Validate checks the invariants the storage layer enforces on write.
// Search code never validates; rows read back from storage are trusted.
func (p *Page) Validate() error {
	if strings.TrimSpace(p.URL) == "" {
		return fmt.Errorf("page: url is required")
	}
	return nil
}

func (v *Visit) Validate() error {
	if strings.TrimSpace(v.URL) == "" {
		return fmt.Errorf("visit: url is required")
	}
	if v.Time <= 0 {
		return fmt.Errorf("visit %s: time must be positive, got %d", v.URL, v.Time)
	}
	return nil
}

func (b *Bookmark) Validate() error {
	if strings.TrimSpace(b.URL) == "" {
		return fmt.Errorf("bookmark: url is required")
	}
	if b.Time <= 0 {
		return fmt.Errorf("bookmark %s: time must be positive, got %d", b.URL, b.Time)
	}
	return nil
}

func (a *Annotation) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("annotation: id is required")
	}
	if strings.TrimSpace(a.URL) == "" {
		return fmt.Errorf("annotation %s: url is required", a.ID)
	}
	if a.Body == "" && a.Comment == "" {
		return fmt.Errorf("annotation %s: needs a highlight or a comment", a.ID)
	}
	if a.LastEdited <= 0 {
		return fmt.Errorf("annotation %s: last_edited must be positive, got %d", a.ID, a.LastEdited)
	}
	return nil
}

// NewPage builds a Page from raw captured content, computing the term sets
// the term indexes are built from.
func NewPage(url, title, body string) *Page {
	return &Page{
		URL:        url,
		Title:      title,
		Body:       body,
		Terms:      ExtractTerms(body),
		URLTerms:   ExtractURLTerms(url),
		TitleTerms: ExtractTerms(title),
	}
}

// NewAnnotation builds an Annotation with its term sets precomputed.
func NewAnnotation(id, url, body, comment string, lastEdited int64) *Annotation {
	return &Annotation{
		ID:           id,
		URL:          url,
		Body:         body,
		Comment:      comment,
		BodyTerms:    ExtractTerms(body),
		CommentTerms: ExtractTerms(comment),
		LastEdited:   lastEdited,
	}
}
