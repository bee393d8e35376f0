// Package search implements hindsight's unified search core. It answers two
// query shapes against the local store: a blank (queryless) search that pages
// backward through time in bounded day windows, and a terms search that runs
// indexed term and phrase lookups with AND semantics across pages and
// annotations, re-ranked by recency.
//
// The package never touches the database directly. It builds declarative
// query descriptors (core.TermQuery, core.TimeRange) and hands them to an
// injected Reader; pkg/storage provides the SQLite-backed implementation.
// Each call is a pure function of its parameters and the current store
// contents, so concurrent calls are independent.
package search
