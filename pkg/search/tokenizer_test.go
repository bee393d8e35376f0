package search

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		terms   []string
		phrases []string
	}{
		{
			name:  "plain terms",
			query: "golang sqlite",
			terms: []string{"golang", "sqlite"},
		},
		{
			name:    "quoted phrase",
			query:   `"exact phrase"`,
			phrases: []string{"exact phrase"},
		},
		{
			name:    "mixed terms and phrase",
			query:   `golang "error handling" stdlib`,
			terms:   []string{"golang", "stdlib"},
			phrases: []string{"error handling"},
		},
		{
			name:  "lowercased and deduplicated",
			query: "Go go GO",
			terms: []string{"go"},
		},
		{
			name:    "phrase whitespace trimmed",
			query:   `" padded phrase "`,
			phrases: []string{"padded phrase"},
		},
		{
			name:  "empty and whitespace-only quotes ignored",
			query: `"" "   " term`,
			terms: []string{"term"},
		},
		{
			name:    "unbalanced quote treats tail as phrase",
			query:   `before "tail phrase`,
			terms:   []string{"before"},
			phrases: []string{"tail phrase"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Split(tt.query)
			if !reflect.DeepEqual(tokens.Terms, tt.terms) {
				t.Errorf("terms = %v, want %v", tokens.Terms, tt.terms)
			}
			if !reflect.DeepEqual(tokens.Phrases, tt.phrases) {
				t.Errorf("phrases = %v, want %v", tokens.Phrases, tt.phrases)
			}
		})
	}
}

func TestSplitEmpty(t *testing.T) {
	for _, query := range []string{"", "   ", "\t\n"} {
		tokens := Split(query)
		if !tokens.Empty() {
			t.Errorf("Split(%q) = %+v, want empty", query, tokens)
		}
	}
}
