package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rzbill/cliphist/internal/history"
	"github.com/rzbill/cliphist/internal/listing"
	"github.com/rzbill/cliphist/internal/runtime"
)

// newListCommand constructs the `list` command.
func newListCommand(a *app) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List history entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expr, _ := cmd.Flags().GetString("filter")
			filter, err := history.CompileFilter(expr)
			if err != nil {
				return err
			}
			return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
				return listing.Write(cmd.Context(), cmd.OutOrStdout(), h, listing.Options{
					Width:  a.cfg.PreviewWidth,
					Filter: filter,
				})
			})
		},
	}
	listCmd.Flags().String("filter", "", "CEL filter over id, size, text, image, format, width, height")
	return listCmd
}

// newSearchCommand constructs the `search` command.
func newSearchCommand(a *app) *cobra.Command {
	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Fuzzy search entry previews, best match first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")
			filter, err := history.CompileFilter(expr)
			if err != nil {
				return err
			}
			return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
				lines, err := listing.Search(cmd.Context(), h, args[0], listing.Options{
					Width:  a.cfg.PreviewWidth,
					Filter: filter,
					Limit:  limit,
				})
				if err != nil {
					return err
				}
				w := bufio.NewWriter(cmd.OutOrStdout())
				for _, line := range lines {
					_, _ = fmt.Fprintln(w, line)
				}
				return w.Flush()
			})
		},
	}
	searchCmd.Flags().Int("limit", 0, "Stop after N results (0 = all)")
	searchCmd.Flags().String("filter", "", "CEL filter applied before matching")
	return searchCmd
}

// newDecodeCommand constructs the `decode` command.
func newDecodeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [ID-LINE]",
		Short: "Write the stored contents of an entry to stdout",
		Long:  "Decode takes a listing line (or just its id) as an argument or on stdin and writes the raw entry.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var line string
			if len(args) == 1 {
				line = args[0]
			} else {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				line = string(b)
			}
			id, err := history.ParseID(line)
			if err != nil {
				return err
			}
			return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
				payload, err := h.Lookup(cmd.Context(), id)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(payload)
				return err
			})
		},
	}
}
