package core

import (
	"strings"
	"unicode"
)

// ExtractTerms lowercases text and splits it into unique index terms.
// Splitting happens on anything that is not a letter or digit; single-rune
// fragments are dropped since they match too broadly to be useful.
// Order follows first appearance in the text.
func ExtractTerms(text string) []string {
	if text == "" {
		return nil
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	var terms []string
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}

	return terms
}

// ExtractURLTerms splits a URL into index terms. The scheme is stripped
// first so "https" does not pollute every page's term set.
func ExtractURLTerms(url string) []string {
	url = strings.ToLower(url)
	if idx := strings.Index(url, "://"); idx != -1 {
		url = url[idx+3:]
	}
	url = strings.TrimPrefix(url, "www.")
	return ExtractTerms(url)
}

// Domain returns the host portion of a page URL, lowercased and without a
// leading "www.". Used by the domain filter on terms search.
func Domain(url string) string {
	url = strings.ToLower(url)
	if idx := strings.Index(url, "://"); idx != -1 {
		url = url[idx+3:]
	}
	for i, r := range url {
		if r == '/' || r == '?' || r == '#' || r == ':' {
			url = url[:i]
			break
		}
	}
	return strings.TrimPrefix(url, "www.")
}
