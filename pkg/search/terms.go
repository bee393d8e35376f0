package search

import (
	"context"
	"fmt"

	"github.com/hindsight-tools/hindsight/pkg/core"
)

// TermsSearch runs an indexed term/phrase search with AND semantics across
// pages and annotations, re-ranked by recency. The query must tokenize to at
// least one term or phrase; blank queries belong to BlankSearch.
func (s *Service) TermsSearch(ctx context.Context, params Params) (*ResultSet, error) {
	tokens := Split(params.Query)
	if tokens.Empty() {
		return nil, ErrNoSearchTerms
	}
	return s.termsSearch(ctx, tokens, params)
}

func (s *Service) termsSearch(ctx context.Context, tokens Tokens, params Params) (*ResultSet, error) {
	logger.Debugf("terms search: %d terms, %d phrases, prefix=%v",
		len(tokens.Terms), len(tokens.Phrases), params.Prefix)

	pageQueries, annotationQueries := buildTermQueries(tokens, params.Prefix)

	// All lookups are independent; run them concurrently and intersect
	// afterwards. One identifier set per term or phrase.
	queries := append(append([]core.TermQuery{}, pageQueries...), annotationQueries...)
	sets, err := s.lookupAll(ctx, queries)
	if err != nil {
		return nil, err
	}
	pageSets := sets[:len(pageQueries)]
	annotationSets := sets[len(pageQueries):]

	// Domain narrowing joins the intersection as one more candidate set.
	var domainMember map[string]struct{}
	if len(params.Domains) > 0 {
		domainSet, err := s.reader.PagesInDomains(ctx, params.Domains)
		if err != nil {
			return nil, fmt.Errorf("narrowing by domain: %w", err)
		}
		domainMember = make(map[string]struct{}, len(domainSet))
		for _, url := range domainSet {
			domainMember[url] = struct{}{}
		}
		pageSets = append(pageSets, domainSet)
	}

	pageIDs := Intersect(pageSets)
	annotationIDs := Intersect(annotationSets)

	annotations, err := s.reader.AnnotationsByID(ctx, annotationIDs)
	if err != nil {
		return nil, fmt.Errorf("hydrating annotations: %w", err)
	}

	builder := newResultBuilder()
	for _, url := range pageIDs {
		builder.entry(url)
	}
	for _, annotation := range annotations {
		if domainMember != nil {
			if _, ok := domainMember[annotation.URL]; !ok {
				continue
			}
		}
		builder.attach(annotation)
	}

	latest, err := s.latestActivity(ctx, builder.order)
	if err != nil {
		return nil, err
	}
	for url, ts := range latest {
		builder.observe(url, ts)
	}

	pages := builder.build()
	pages = filterQualifying(pages, params.FromWhen, params.UntilWhen)

	logger.Debugf("terms search: %d pages after intersection and filtering", len(pages))
	return &ResultSet{Pages: pages}, nil
}

// buildTermQueries turns tokens into the descriptors the store evaluates.
// Discrete terms hit the precomputed term indexes (pages: body, URL and
// title, unioned; annotations: highlight body and comment). Phrases are not
// pre-tokenized, so they scan the raw text fields instead.
func buildTermQueries(tokens Tokens, prefix bool) (pages, annotations []core.TermQuery) {
	pageOp := core.MatchExact
	if prefix {
		pageOp = core.MatchPrefix
	}

	for _, term := range tokens.Terms {
		pages = append(pages, core.TermQuery{
			Collection: core.CollectionPages,
			Fields:     []core.Field{core.FieldBody, core.FieldURL, core.FieldTitle},
			Term:       term,
			Op:         pageOp,
		})
		annotations = append(annotations, core.TermQuery{
			Collection: core.CollectionAnnotations,
			Fields:     []core.Field{core.FieldBody, core.FieldComment},
			Term:       term,
			Op:         core.MatchExact,
		})
	}

	for _, phrase := range tokens.Phrases {
		pages = append(pages, core.TermQuery{
			Collection: core.CollectionPages,
			Fields:     []core.Field{core.FieldBody},
			Term:       phrase,
			Op:         core.MatchSubstring,
		})
		annotations = append(annotations, core.TermQuery{
			Collection: core.CollectionAnnotations,
			Fields:     []core.Field{core.FieldBody, core.FieldComment},
			Term:       phrase,
			Op:         core.MatchSubstring,
		})
	}

	return pages, annotations
}

// lookupAll evaluates term queries concurrently, preserving input order in
// the output. A failure in any lookup fails the whole step; there is no
// partial-result tolerance within a call.
func (s *Service) lookupAll(ctx context.Context, queries []core.TermQuery) ([][]string, error) {
	type lookupResult struct {
		idx int
		ids []string
		err error
	}

	resultCh := make(chan lookupResult, len(queries))
	for i, q := range queries {
		go func(idx int, q core.TermQuery) {
			ids, err := s.reader.SearchTerms(ctx, q)
			resultCh <- lookupResult{idx: idx, ids: ids, err: err}
		}(i, q)
	}

	sets := make([][]string, len(queries))
	var firstErr error
	for range queries {
		r := <-resultCh
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		sets[r.idx] = r.ids
	}
	if firstErr != nil {
		return nil, fmt.Errorf("term lookup: %w", firstErr)
	}

	return sets, nil
}

// filterQualifying drops pages with no qualifying activity: a page needs at
// least one visit, bookmark or matching annotation, and when the caller
// bounded the search in time its activity timestamp must fall inside
// [fromWhen, untilWhen). untilWhen zero means unbounded above.
func filterQualifying(pages []PageResult, fromWhen, untilWhen int64) []PageResult {
	kept := pages[:0]
	for _, p := range pages {
		if p.Timestamp == 0 && len(p.Annotations) == 0 {
			continue
		}
		if p.Timestamp < fromWhen {
			continue
		}
		if untilWhen > 0 && p.Timestamp >= untilWhen {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
