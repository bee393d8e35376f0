package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/hindsight-tools/hindsight/pkg/core"
	"github.com/hindsight-tools/hindsight/pkg/search"
	"github.com/hindsight-tools/hindsight/pkg/storage"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search pages, visits, bookmarks and annotations",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "prefix",
				Usage: "Match terms by prefix instead of exactly",
			},
			&cli.StringSliceFlag{
				Name:  "domain",
				Usage: "Restrict results to a domain. Can be used multiple times",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Lower time bound (2006-01-02, RFC 3339 or epoch ms)",
			},
			&cli.StringFlag{
				Name:  "until",
				Usage: "Upper time bound (2006-01-02, RFC 3339 or epoch ms)",
			},
			&cli.IntFlag{
				Name:  "days",
				Usage: "Window size in days for recency browsing (0 uses the config value)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (0 uses the config value)",
			},
			&cli.BoolFlag{
				Name:  "no-pager",
				Usage: "Disable pager and output directly to terminal",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			return runSearch(ctx, c, query)
		},
	}
}

func runSearch(ctx context.Context, c *cli.Command, query string) error {
	store, cfg, err := openStore(c.String("config"))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	fromWhen, err := parseWhen(c.String("from"))
	if err != nil {
		return fmt.Errorf("parsing --from: %w", err)
	}
	untilWhen, err := parseWhen(c.String("until"))
	if err != nil {
		return fmt.Errorf("parsing --until: %w", err)
	}

	days := c.Int("days")
	if days <= 0 {
		days = cfg.DaysToSearch
	}
	limit := c.Int("limit")
	if limit <= 0 {
		limit = cfg.ResultLimit
	}

	params := search.Params{
		Query:        query,
		Prefix:       c.Bool("prefix"),
		Domains:      c.StringSlice("domain"),
		FromWhen:     fromWhen,
		UntilWhen:    untilWhen,
		DaysToSearch: days,
	}

	svc := search.NewService(store)
	pages, heading, err := collectResults(ctx, svc, params, limit)
	if err != nil {
		return err
	}
	if len(pages) > limit {
		pages = pages[:limit]
	}

	pageData, err := hydratePages(ctx, store, pages)
	if err != nil {
		return err
	}

	output := formatResults(pages, pageData, heading)
	if c.Bool("no-pager") || !isTerminal() {
		fmt.Print(output)
		return nil
	}
	return displayWithPager(output)
}

// collectResults runs the search. Blank queries page backwards through
// day-sized windows until the limit fills or the store is exhausted; terms
// queries come back ranked in one call.
func collectResults(ctx context.Context, svc *search.Service, params search.Params, limit int) ([]search.PageResult, string, error) {
	if !search.Split(params.Query).Empty() {
		rs, err := svc.Search(ctx, params)
		if err != nil {
			return nil, "", err
		}
		return rs.Pages, fmt.Sprintf("🔍 Results for %q", params.Query), nil
	}

	var pages []search.PageResult
	for {
		rs, err := svc.Search(ctx, params)
		if err != nil {
			return nil, "", err
		}
		pages = append(pages, rs.Pages...)
		if rs.Exhausted || len(pages) >= limit {
			break
		}
		params.UntilWhen = rs.Window.Since
	}
	return pages, "🕘 Recent activity", nil
}

// hydratePages bulk-loads page rows so results can show titles.
func hydratePages(ctx context.Context, store *storage.Store, results []search.PageResult) (map[string]core.Page, error) {
	urls := make([]string, len(results))
	for i, r := range results {
		urls[i] = r.URL
	}
	pages, err := store.PagesByURL(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("loading pages for display: %w", err)
	}
	byURL := make(map[string]core.Page, len(pages))
	for _, p := range pages {
		byURL[p.URL] = p
	}
	return byURL, nil
}
