package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/hindsight-tools/hindsight/pkg/core"
	"github.com/urfave/cli/v3"
)

// BookmarkCommand creates the bookmark command
func BookmarkCommand() *cli.Command {
	return &cli.Command{
		Name:      "bookmark",
		Usage:     "Bookmark a page",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "title",
				Usage: "Page title",
			},
			&cli.StringFlag{
				Name:  "at",
				Usage: "Bookmark time (2006-01-02, RFC 3339 or epoch ms); defaults to now",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("usage: hindsight bookmark <url>")
			}
			return addBookmark(c.String("config"), c.Args().First(), c.String("title"), c.String("at"))
		},
	}
}

func addBookmark(configPath, url, title, at string) error {
	store, _, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	when, err := parseWhen(at)
	if err != nil {
		return fmt.Errorf("parsing --at: %w", err)
	}
	if when == 0 {
		when = time.Now().UnixMilli()
	}

	// Keep an existing page record; bookmarking must not wipe its content.
	existing, err := store.PagesByURL(context.Background(), []string{url})
	if err != nil {
		return fmt.Errorf("checking for existing page: %w", err)
	}
	if len(existing) == 0 {
		if err := store.SavePage(core.NewPage(url, title, "")); err != nil {
			return fmt.Errorf("saving page: %w", err)
		}
	} else if title != "" {
		if err := store.SavePage(core.NewPage(url, title, existing[0].Body)); err != nil {
			return fmt.Errorf("updating page title: %w", err)
		}
	}
	if err := store.AddBookmark(&core.Bookmark{URL: url, Time: when}); err != nil {
		return fmt.Errorf("saving bookmark: %w", err)
	}

	fmt.Printf("Bookmarked %s\n", url)
	return nil
}
