package search

import "strings"

// Tokens holds the discrete terms and quoted phrases extracted from a raw
// query string. Both are deduplicated and lowercased; order follows first
// appearance but carries no meaning.
type Tokens struct {
	Terms   []string
	Phrases []string
}

// Empty reports whether the query contained no searchable content.
func (t Tokens) Empty() bool {
	return len(t.Terms) == 0 && len(t.Phrases) == 0
}

// Split tokenizes a raw query. The input is lowercased and cut on the
// double-quote character: fragments that were inside quotes become phrases,
// kept whole; everything else is split on whitespace into discrete terms.
// An empty query yields empty sets.
func Split(query string) Tokens {
	var tokens Tokens

	query = strings.ToLower(query)
	if query == "" {
		return tokens
	}

	seenTerms := make(map[string]struct{})
	seenPhrases := make(map[string]struct{})

	// Odd fragments of the quote split were between quotes.
	for i, fragment := range strings.Split(query, `"`) {
		if i%2 == 1 {
			phrase := strings.TrimSpace(fragment)
			if phrase == "" {
				continue
			}
			if _, ok := seenPhrases[phrase]; ok {
				continue
			}
			seenPhrases[phrase] = struct{}{}
			tokens.Phrases = append(tokens.Phrases, phrase)
			continue
		}

		for _, term := range strings.Fields(fragment) {
			if _, ok := seenTerms[term]; ok {
				continue
			}
			seenTerms[term] = struct{}{}
			tokens.Terms = append(tokens.Terms, term)
		}
	}

	return tokens
}
