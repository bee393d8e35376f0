package storage

import (
	"context"
	"testing"

	"github.com/hindsight-tools/hindsight/pkg/search"
)

var _ search.Reader = (*Store)(nil)

func TestPagesByURL(t *testing.T) {
	store := testStore(t)
	mustSavePage(t, store, "https://a.example/", "A", "body a")
	mustSavePage(t, store, "https://b.example/", "B", "body b")

	pages, err := store.PagesByURL(context.Background(), []string{"https://b.example/", "https://missing.example/"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || pages[0].Title != "B" {
		t.Errorf("got %+v, want just page B; missing URLs are skipped", pages)
	}
}

func TestPagesByURLEmpty(t *testing.T) {
	store := testStore(t)
	pages, err := store.PagesByURL(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 0 {
		t.Errorf("got %v, want nothing for an empty URL list", pages)
	}
}
