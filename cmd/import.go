package cmd

import (
	"context"
	"fmt"

	"github.com/hindsight-tools/hindsight/pkg/importer"
	"github.com/hindsight-tools/hindsight/pkg/storage"
	"github.com/urfave/cli/v3"
)

// ImportCommand creates the import command
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import browsing history from a browser profile",
		Commands: []*cli.Command{
			{
				Name:      "firefox",
				Usage:     "Import visits and bookmarks from a Firefox places.sqlite",
				ArgsUsage: "<places.sqlite>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("usage: hindsight import firefox <places.sqlite>")
					}
					return runImport(ctx, c.String("config"), c.Args().First(), importer.ImportFirefox)
				},
			},
			{
				Name:      "chromium",
				Usage:     "Import visits from a Chromium History database",
				ArgsUsage: "<History>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("usage: hindsight import chromium <History>")
					}
					return runImport(ctx, c.String("config"), c.Args().First(), importer.ImportChromium)
				},
			},
		},
	}
}

func runImport(ctx context.Context, configPath, dbPath string,
	importFn func(context.Context, *storage.Store, string) (*importer.Report, error)) error {
	store, _, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	report, err := importFn(ctx, store, dbPath)
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	fmt.Printf("Imported %s pages, %s visits, %s bookmarks\n",
		formatNumber(report.Pages), formatNumber(report.Visits), formatNumber(report.Bookmarks))
	return nil
}
