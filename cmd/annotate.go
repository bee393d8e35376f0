package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hindsight-tools/hindsight/pkg/core"
	"github.com/urfave/cli/v3"
)

// AnnotateCommand creates the annotate command
func AnnotateCommand() *cli.Command {
	return &cli.Command{
		Name:  "annotate",
		Usage: "Manage page annotations",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Attach a highlight and/or comment to a page",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "highlight",
						Usage: "Highlighted page text",
					},
					&cli.StringFlag{
						Name:  "comment",
						Usage: "Your note about the page",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("usage: hindsight annotate add <url>")
					}
					return addAnnotation(c.String("config"), c.Args().First(),
						c.String("highlight"), c.String("comment"))
				},
			},
			{
				Name:      "edit",
				Usage:     "Replace an annotation's highlight and/or comment",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "highlight",
						Usage: "New highlighted text",
					},
					&cli.StringFlag{
						Name:  "comment",
						Usage: "New comment",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("usage: hindsight annotate edit <id>")
					}
					// An omitted flag keeps the existing value; an explicit
					// empty one clears the field.
					return editAnnotation(c.String("config"), c.Args().First(),
						c.String("highlight"), c.String("comment"),
						c.IsSet("highlight"), c.IsSet("comment"))
				},
			},
			{
				Name:      "remove",
				Usage:     "Delete an annotation",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("usage: hindsight annotate remove <id>")
					}
					return removeAnnotation(c.String("config"), c.Args().First())
				},
			},
		},
	}
}

func addAnnotation(configPath, url, highlight, comment string) error {
	store, _, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	annotation := core.NewAnnotation(uuid.NewString(), url, highlight, comment, time.Now().UnixMilli())
	if err := store.SaveAnnotation(annotation); err != nil {
		return fmt.Errorf("saving annotation: %w", err)
	}

	fmt.Printf("Annotation %s added to %s\n", annotation.ID, url)
	return nil
}

func editAnnotation(configPath, id, highlight, comment string, highlightSet, commentSet bool) error {
	store, _, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	existing, err := store.AnnotationsByID(context.Background(), []string{id})
	if err != nil {
		return fmt.Errorf("loading annotation: %w", err)
	}
	if len(existing) == 0 {
		return fmt.Errorf("annotation %s not found", id)
	}

	if !highlightSet {
		highlight = existing[0].Body
	}
	if !commentSet {
		comment = existing[0].Comment
	}

	annotation := core.NewAnnotation(id, existing[0].URL, highlight, comment, time.Now().UnixMilli())
	if err := store.SaveAnnotation(annotation); err != nil {
		return fmt.Errorf("saving annotation: %w", err)
	}

	fmt.Printf("Annotation %s updated\n", id)
	return nil
}

func removeAnnotation(configPath, id string) error {
	store, _, err := openStore(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close store: %v\n", err)
		}
	}()

	if err := store.DeleteAnnotation(id); err != nil {
		return fmt.Errorf("deleting annotation: %w", err)
	}

	fmt.Printf("Annotation %s removed\n", id)
	return nil
}
