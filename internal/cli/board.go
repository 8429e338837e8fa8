package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/core/media"
	"github.com/matzehuels/scrapbook/pkg/core/reorder"
)

// boardCommand creates the board management command.
func (c *CLI) boardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Create and edit stored boards",
		Long: `Boards are named, ordered collections of media items with their own grid
settings. They live in the configured store (a directory of JSON files by
default, or MongoDB).`,
	}

	cmd.AddCommand(c.boardNewCommand())
	cmd.AddCommand(c.boardListCommand())
	cmd.AddCommand(c.boardShowCommand())
	cmd.AddCommand(c.boardAddCommand())
	cmd.AddCommand(c.boardRemoveCommand())
	cmd.AddCommand(c.boardCaptionCommand())
	cmd.AddCommand(c.boardSetCommand())
	cmd.AddCommand(c.boardMoveCommand())
	cmd.AddCommand(c.boardDeleteCommand())
	cmd.AddCommand(c.boardImportCommand())
	cmd.AddCommand(c.boardExportCommand())

	return cmd
}

// withStore opens the board store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(board.Store) error) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// editBoard loads a board, applies fn and saves it.
func (c *CLI) editBoard(ctx context.Context, id string, fn func(*board.Board) error) (*board.Board, error) {
	var out *board.Board
	err := c.withStore(ctx, func(store board.Store) error {
		b, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(b); err != nil {
			return err
		}
		out = b
		return store.Put(ctx, b)
	})
	return out, err
}

func (c *CLI) boardNewCommand() *cobra.Command {
	var (
		columns, minRows int
		policy           string
	)
	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create an empty board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := board.New(args[0])
			if err := applyBoardSettings(cmd, b, columns, minRows, policy); err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.withStore(ctx, func(store board.Store) error { return store.Put(ctx, b) }); err != nil {
				return err
			}
			printSuccess("Created board %s", StyleHighlight.Render(b.Title))
			printKeyValue("ID", b.ID)
			printNextStep("Add covers", "scrapbook board add "+b.ID+" <item-id> --type movie")
			return nil
		},
	}
	cmd.Flags().IntVarP(&columns, "columns", "c", board.DefaultColumns, "maximum covers per row")
	cmd.Flags().IntVar(&minRows, "min-rows", board.DefaultMinRows, "rows the height budget assumes")
	cmd.Flags().StringVarP(&policy, "policy", "p", string(board.DefaultPolicy), "layout policy: fixed-row-height, chimney")
	return cmd
}

func (c *CLI) boardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored boards",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store board.Store) error {
				boards, err := store.List(ctx)
				if err != nil {
					return err
				}
				if len(boards) == 0 {
					printInfo("No boards yet")
					printNextStep("Create one", `scrapbook board new "Watchlist"`)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), boardsTable(boards))
				return nil
			})
		},
	}
}

func (c *CLI) boardShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <board>",
		Short: "Show a board's items in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store board.Store) error {
				b, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(b.Title))
				printKeyValue("ID", b.ID)
				printKeyValue("Grid", fmt.Sprintf("%d columns, %d rows, %s", b.Columns, b.MinRows, b.Policy))
				if len(b.Items) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), boardTable(b))
				}
				return nil
			})
		},
	}
}

func (c *CLI) boardAddCommand() *cobra.Command {
	var (
		it    media.Item
		typ   string
		ratio string
	)
	cmd := &cobra.Command{
		Use:   "add <board> <item-id>",
		Short: "Append a cover to a board",
		Example: `  scrapbook board add $BOARD dune --type book --title "Dune"
  scrapbook board add $BOARD trailer --type custom --ratio 16:9`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it.ID = args[1]
			it.Type = media.ParseType(typ)
			if ratio != "" {
				r, err := media.ParseRatio(ratio)
				if err != nil {
					return err
				}
				it.AspectRatio = &r
			}
			b, err := c.editBoard(cmd.Context(), args[0], func(b *board.Board) error { return b.Add(it) })
			if err != nil {
				return err
			}
			printSuccess("Added %s to %s (%d items)", it.Label(), b.Title, len(b.Items))
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", string(media.TypeMovie), "media type: movie, tv, book, album, podcast, game")
	cmd.Flags().StringVar(&it.Title, "title", "", "display title")
	cmd.Flags().StringVar(&it.Caption, "caption", "", "caption drawn under the cover")
	cmd.Flags().StringVar(&it.CoverURL, "cover", "", "cover image URL")
	cmd.Flags().StringVarP(&ratio, "ratio", "r", "", "explicit aspect ratio, e.g. 2:3, 16/9 or 0.75")
	return cmd
}

func (c *CLI) boardRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <board> <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a cover from a board",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.editBoard(cmd.Context(), args[0], func(b *board.Board) error { return b.Remove(args[1]) })
			if err != nil {
				return err
			}
			printSuccess("Removed %s from %s", args[1], b.Title)
			return nil
		},
	}
}

func (c *CLI) boardCaptionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "caption <board> <item-id> <text>",
		Short: "Set the caption of a cover",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.editBoard(cmd.Context(), args[0], func(b *board.Board) error { return b.SetCaption(args[1], args[2]) })
			if err != nil {
				return err
			}
			printSuccess("Captioned %s", args[1])
			return nil
		},
	}
}

func (c *CLI) boardSetCommand() *cobra.Command {
	var (
		columns, minRows int
		policy, title    string
	)
	cmd := &cobra.Command{
		Use:   "set <board>",
		Short: "Change a board's title or grid settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.editBoard(cmd.Context(), args[0], func(b *board.Board) error {
				if cmd.Flags().Changed("title") {
					b.Title = title
				}
				return applyBoardSettings(cmd, b, columns, minRows, policy)
			})
			if err != nil {
				return err
			}
			printSuccess("Updated %s", b.Title)
			printKeyValue("Grid", fmt.Sprintf("%d columns, %d rows, %s", b.Columns, b.MinRows, b.Policy))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "board title")
	cmd.Flags().IntVarP(&columns, "columns", "c", 0, "maximum covers per row")
	cmd.Flags().IntVar(&minRows, "min-rows", 0, "rows the height budget assumes")
	cmd.Flags().StringVarP(&policy, "policy", "p", "", "layout policy: fixed-row-height, chimney")
	return cmd
}

// applyBoardSettings applies the grid flags that were set on cmd.
func applyBoardSettings(cmd *cobra.Command, b *board.Board, columns, minRows int, policy string) error {
	f := cmd.Flags()
	if f.Changed("columns") {
		if err := b.SetColumns(columns); err != nil {
			return err
		}
	}
	if f.Changed("min-rows") {
		if err := b.SetMinRows(minRows); err != nil {
			return err
		}
	}
	if f.Changed("policy") {
		if err := b.SetPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) boardMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <board> <item-id> <onto-item-id>",
		Short: "Move a cover to the position of another",
		Long: `Move applies the same reorder a drag and drop of <item-id> onto
<onto-item-id> would: the cover is taken out and inserted at the target's index.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := false
			_, err := c.editBoard(cmd.Context(), args[0], func(b *board.Board) error {
				changed = b.Apply(reorder.Intent{SourceID: args[1], TargetID: args[2]})
				return nil
			})
			if err != nil {
				return err
			}
			if !changed {
				printInfo("Order unchanged")
				return nil
			}
			printSuccess("Moved %s onto %s", args[1], args[2])
			return nil
		},
	}
}

func (c *CLI) boardDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <board>",
		Short: "Delete a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.withStore(ctx, func(store board.Store) error { return store.Delete(ctx, args[0]) }); err != nil {
				return err
			}
			printSuccess("Deleted board %s", args[0])
			return nil
		},
	}
}

func (c *CLI) boardImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Store a board read from a TOML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := board.Load(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.withStore(ctx, func(store board.Store) error { return store.Put(ctx, b) }); err != nil {
				return err
			}
			printSuccess("Imported %s (%d items)", b.Title, len(b.Items))
			printKeyValue("ID", b.ID)
			return nil
		},
	}
}

func (c *CLI) boardExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <board>",
		Short: "Write a board to a TOML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(store board.Store) error {
				b, err := store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if output == "" {
					data, err := board.Encode(b, "json")
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := board.Save(output, b); err != nil {
					return err
				}
				printSuccess("Exported %s", b.Title)
				printFile(output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .toml or .json (default: JSON to stdout)")
	return cmd
}
