package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCommand constructs the `version` command. It prints the version
// and the effective settings as tab separated key/value lines.
func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			rows := [][2]any{
				{"version", Version},
				{"max-items", a.cfg.MaxItems},
				{"max-dedupe-search", a.cfg.MaxDedupeSearch},
				{"preview-width", a.cfg.PreviewWidth},
				{"db-path", a.cfg.DBPath},
				{"config-path", a.configPath},
				{"backend", a.cfg.Backend},
			}
			for _, r := range rows {
				if _, err := fmt.Fprintf(w, "%s\t%v\n", r[0], r[1]); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
