package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rzbill/cliphist/internal/history"
	"github.com/rzbill/cliphist/internal/runtime"
	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// newDeleteCommand constructs the `delete` command.
func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the entries whose listing lines are read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := readIDs(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
				if err := h.Delete(cmd.Context(), ids...); err != nil {
					return err
				}
				a.logger.Debug("deleted entries", logpkg.Int("count", len(ids)))
				return nil
			})
		},
	}
}

// readIDs parses every line of r before anything is deleted, so one bad line
// leaves the history untouched.
func readIDs(r io.Reader) ([]uint64, error) {
	br := bufio.NewReader(r)
	var ids []uint64
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lineNo++
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			id, perr := history.ParseID(line)
			if perr != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, perr)
			}
			ids = append(ids, id)
		}
		if err == io.EOF {
			return ids, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// newDeleteQueryCommand constructs the `delete-query` command.
func newDeleteQueryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-query QUERY",
		Short: "Delete every entry containing QUERY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return history.ErrEmptyQuery
			}
			return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
				n, err := h.DeleteMatching(cmd.Context(), []byte(args[0]))
				if err != nil {
					return err
				}
				a.logger.Debug("deleted matching entries", logpkg.Int("count", n))
				return nil
			})
		},
	}
}

// newDeleteFilterCommand constructs the `delete-filter` command.
func newDeleteFilterCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-filter EXPR",
		Short: "Delete every entry matching a CEL expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return history.ErrEmptyQuery
			}
			filter, err := history.CompileFilter(args[0])
			if err != nil {
				return err
			}
			return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
				n, err := h.DeleteFunc(cmd.Context(), filter.Match)
				if err != nil {
					return err
				}
				a.logger.Debug("deleted filtered entries", logpkg.Str("filter", filter.String()), logpkg.Int("count", n))
				return nil
			})
		},
	}
}

// newDeleteLastCommand constructs the `delete-last` command.
func newDeleteLastCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-last",
		Short: "Delete the newest entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
				_, _, err := h.DeleteLast(cmd.Context())
				return err
			})
		},
	}
}

// newWipeCommand constructs the `wipe` command.
func newWipeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wipe",
		Short: "Delete every entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withHistory(func(rt *runtime.Runtime, h *history.Store) error {
				n, err := h.Wipe(cmd.Context())
				if err != nil {
					return err
				}
				if err := rt.Compact(); err != nil {
					a.logger.Warn("compaction after wipe failed", logpkg.Err(err))
				}
				a.logger.Debug("wiped", logpkg.Int("count", n))
				return nil
			})
		},
	}
}
