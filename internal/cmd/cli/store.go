package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rzbill/cliphist/internal/history"
	"github.com/rzbill/cliphist/internal/runtime"
	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// ClipboardStateEnv is set by clipboard watchers to describe the current
// selection.
const ClipboardStateEnv = "CLIPBOARD_STATE"

// newStoreCommand constructs the `store` command.
func newStoreCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "store",
		Short: "Store clipboard contents read from stdin",
		Long: "Store reads stdin and adds it as the newest entry.\n" +
			"CLIPBOARD_STATE=sensitive skips storing; CLIPBOARD_STATE=clear deletes the newest entry instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch os.Getenv(ClipboardStateEnv) {
			case "sensitive":
				a.logger.Debug("clipboard is sensitive, not storing")
				return nil
			case "clear":
				return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
					id, ok, err := h.DeleteLast(cmd.Context())
					if err == nil && ok {
						a.logger.Debug("clipboard cleared, deleted newest entry", logpkg.Uint64("id", id))
					}
					return err
				})
			}

			in := cmd.InOrStdin()
			payload, err := io.ReadAll(io.LimitReader(in, history.MaxSize+1))
			if err != nil {
				return err
			}
			// drain the rest so the writer is not killed by SIGPIPE
			if _, err := io.Copy(io.Discard, in); err != nil {
				return err
			}
			return a.withHistory(func(_ *runtime.Runtime, h *history.Store) error {
				_, err := h.Put(cmd.Context(), payload)
				return err
			})
		},
	}
}
