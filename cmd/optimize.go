package cmd

import (
	"context"
	"fmt"

	"github.com/hindsight-tools/hindsight/pkg/storage"
	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Database optimization and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Run ANALYZE to update query planner statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						if err := store.Analyze(); err != nil {
							return fmt.Errorf("analyzing: %w", err)
						}
						fmt.Println("Analyze complete")
						return nil
					})
				},
			},
			{
				Name:  "vacuum",
				Usage: "Reclaim free space in the database file",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						if err := store.Vacuum(); err != nil {
							return fmt.Errorf("vacuuming: %w", err)
						}
						fmt.Println("Vacuum complete")
						return nil
					})
				},
			},
			{
				Name:  "wal-checkpoint",
				Usage: "Checkpoint and truncate the write-ahead log",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStore(c.String("config"), func(store *storage.Store) error {
						if err := store.WALCheckpoint(); err != nil {
							return fmt.Errorf("checkpointing: %w", err)
						}
						fmt.Println("WAL checkpoint complete")
						return nil
					})
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return withStore(c.String("config"), func(store *storage.Store) error {
				if err := store.Optimize(); err != nil {
					return fmt.Errorf("optimizing: %w", err)
				}
				fmt.Println("Optimize complete")
				return nil
			})
		},
	}
}

func withStore(configPath string, fn func(*storage.Store) error) error {
	store, _, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()
	return fn(store)
}
