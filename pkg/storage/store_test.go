package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hindsight-tools/hindsight/pkg/core"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func mustSavePage(t *testing.T, store *Store, url, title, body string) {
	t.Helper()
	if err := store.SavePage(core.NewPage(url, title, body)); err != nil {
		t.Fatalf("saving page %s: %v", url, err)
	}
}

func TestSavePageAndSearchTerms(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://go.dev/blog/slices", "Go Slices", "slices usage and internals")
	mustSavePage(t, store, "https://example.com/other", "Other", "unrelated content")

	ctx := context.Background()
	urls, err := store.SearchTerms(ctx, core.TermQuery{
		Collection: core.CollectionPages,
		Fields:     []core.Field{core.FieldBody, core.FieldURL, core.FieldTitle},
		Term:       "slices",
		Op:         core.MatchExact,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != "https://go.dev/blog/slices" {
		t.Errorf("got %v, want the slices page", urls)
	}
}

func TestSavePageReplacesTerms(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://p.example/", "", "original wording")
	mustSavePage(t, store, "https://p.example/", "", "rewritten completely")

	ctx := context.Background()
	q := core.TermQuery{
		Collection: core.CollectionPages,
		Fields:     []core.Field{core.FieldBody},
		Op:         core.MatchExact,
	}

	q.Term = "original"
	urls, err := store.SearchTerms(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 0 {
		t.Errorf("stale term survived a page rewrite: %v", urls)
	}

	q.Term = "rewritten"
	urls, err = store.SearchTerms(ctx, q)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 {
		t.Errorf("rewritten term not indexed: %v", urls)
	}
}

func TestSearchTermsPrefixAndSubstring(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://p.example/", "Programming", "the quick brown fox jumps")

	ctx := context.Background()

	urls, err := store.SearchTerms(ctx, core.TermQuery{
		Collection: core.CollectionPages,
		Fields:     []core.Field{core.FieldTitle},
		Term:       "prog",
		Op:         core.MatchPrefix,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 {
		t.Errorf("prefix lookup failed: %v", urls)
	}

	urls, err = store.SearchTerms(ctx, core.TermQuery{
		Collection: core.CollectionPages,
		Fields:     []core.Field{core.FieldBody},
		Term:       "quick brown fox",
		Op:         core.MatchSubstring,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 {
		t.Errorf("substring scan failed: %v", urls)
	}
}

func TestSubstringPatternIsLiteral(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://pct.example/", "", "100% effort")
	mustSavePage(t, store, "https://plain.example/", "", "plain effort")

	urls, err := store.SearchTerms(context.Background(), core.TermQuery{
		Collection: core.CollectionPages,
		Fields:     []core.Field{core.FieldBody},
		Term:       "100%",
		Op:         core.MatchSubstring,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls[0] != "https://pct.example/" {
		t.Errorf("%% not treated literally: %v", urls)
	}
}

func TestVisitsAndBookmarks(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://p.example/", "", "content")

	visit := &core.Visit{URL: "https://p.example/", Time: 1000}
	if err := store.AddVisit(visit); err != nil {
		t.Fatal(err)
	}
	// Same visit twice is one row.
	if err := store.AddVisit(visit); err != nil {
		t.Fatal(err)
	}
	if err := store.AddVisit(&core.Visit{URL: "https://p.example/", Time: 2000}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	visits, err := store.VisitsForPages(ctx, []string{"https://p.example/"})
	if err != nil {
		t.Fatal(err)
	}
	if len(visits) != 2 {
		t.Errorf("got %d visits, want 2 (duplicate collapsed)", len(visits))
	}

	// AddBookmark replaces: one bookmark per page, latest time wins.
	if err := store.AddBookmark(&core.Bookmark{URL: "https://p.example/", Time: 1500}); err != nil {
		t.Fatal(err)
	}
	if err := store.AddBookmark(&core.Bookmark{URL: "https://p.example/", Time: 3000}); err != nil {
		t.Fatal(err)
	}
	bookmarks, err := store.BookmarksForPages(ctx, []string{"https://p.example/"})
	if err != nil {
		t.Fatal(err)
	}
	if len(bookmarks) != 1 || bookmarks[0].Time != 3000 {
		t.Errorf("got %v, want one bookmark at 3000", bookmarks)
	}
}

func TestRangeQueriesHalfOpen(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://p.example/", "", "content")
	for _, ts := range []int64{100, 200, 300} {
		if err := store.AddVisit(&core.Visit{URL: "https://p.example/", Time: ts}); err != nil {
			t.Fatal(err)
		}
	}

	visits, err := store.VisitsInRange(context.Background(), core.TimeRange{Since: 100, Until: 300})
	if err != nil {
		t.Fatal(err)
	}
	if len(visits) != 2 {
		t.Fatalf("got %d visits, want 2: lower bound inclusive, upper exclusive", len(visits))
	}
	for _, v := range visits {
		if v.Time == 300 {
			t.Error("upper bound must be exclusive")
		}
	}
}

func TestAnnotationLifecycle(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://p.example/", "", "content")

	annotation := core.NewAnnotation("ann-1", "https://p.example/", "highlighted passage", "my comment", 1000)
	if err := store.SaveAnnotation(annotation); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	ids, err := store.SearchTerms(ctx, core.TermQuery{
		Collection: core.CollectionAnnotations,
		Fields:     []core.Field{core.FieldBody, core.FieldComment},
		Term:       "comment",
		Op:         core.MatchExact,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "ann-1" {
		t.Fatalf("comment term not indexed: %v", ids)
	}

	got, err := store.AnnotationsByID(ctx, ids)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Body != "highlighted passage" || got[0].LastEdited != 1000 {
		t.Errorf("hydration mismatch: %+v", got)
	}

	if err := store.DeleteAnnotation("ann-1"); err != nil {
		t.Fatal(err)
	}
	ids, err = store.SearchTerms(ctx, core.TermQuery{
		Collection: core.CollectionAnnotations,
		Fields:     []core.Field{core.FieldComment},
		Term:       "comment",
		Op:         core.MatchExact,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("terms survived annotation delete: %v", ids)
	}
}

func TestSaveAnnotationValidates(t *testing.T) {
	store := testStore(t)
	err := store.SaveAnnotation(&core.Annotation{ID: "bad", URL: "https://p.example/", LastEdited: 1})
	if err == nil {
		t.Error("annotation without highlight or comment must be rejected")
	}
}

func TestPagesInDomains(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://www.wiki.example/a", "", "x")
	mustSavePage(t, store, "https://wiki.example/b", "", "x")
	mustSavePage(t, store, "https://other.example/c", "", "x")

	urls, err := store.PagesInDomains(context.Background(), []string{"WIKI.example"})
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 {
		t.Errorf("got %v, want both wiki.example pages (www and case ignored)", urls)
	}
}

func TestHasActivityIn(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://p.example/", "", "content")
	if err := store.AddVisit(&core.Visit{URL: "https://p.example/", Time: 500}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	tests := []struct {
		name  string
		r     core.TimeRange
		wantB bool
	}{
		{"covering", core.TimeRange{Since: 0, Until: 1000}, true},
		{"exact lower bound", core.TimeRange{Since: 500, Until: 501}, true},
		{"below", core.TimeRange{Since: 0, Until: 500}, false},
		{"above", core.TimeRange{Since: 501, Until: 1000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.HasActivityIn(ctx, tt.r)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.wantB {
				t.Errorf("HasActivityIn(%+v) = %v, want %v", tt.r, got, tt.wantB)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://p.example/", "", "content")
	if err := store.AddVisit(&core.Visit{URL: "https://p.example/", Time: 500}); err != nil {
		t.Fatal(err)
	}
	if err := store.AddBookmark(&core.Bookmark{URL: "https://p.example/", Time: 900}); err != nil {
		t.Fatal(err)
	}

	stats, err := store.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats["pages"] != 1 || stats["visits"] != 1 || stats["bookmarks"] != 1 {
		t.Errorf("counts wrong: %v", stats)
	}
	if stats["newest_activity"] != int64(900) {
		t.Errorf("newest_activity = %v, want 900", stats["newest_activity"])
	}
}

func TestOptimize(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://p.example/", "", "content")
	if err := store.Optimize(); err != nil {
		t.Fatal(err)
	}
}
