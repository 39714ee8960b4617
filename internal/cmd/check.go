package cmd

import (
	"fmt"

	"github.com/quantmind-br/freshen/internal/ui"
	"github.com/spf13/cobra"
)

// newCheckCmd creates the check command
func newCheckCmd(e *env) *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a newer version is published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := e.updater()
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			candidate, found, err := u.Check(cmd.Context())
			if err != nil {
				ui.PrintError("update check failed: %v", err)
				return fmt.Errorf("check: %w", err)
			}

			if !found {
				ui.PrintSuccess("Up to date (%s)", e.flags.current)
				return nil
			}

			ui.PrintInfo("Update available: %s %s %s",
				ui.ColorizeVersion(e.flags.current, false),
				ui.Arrow,
				ui.ColorizeVersion(candidate.Version, true))
			ui.PrintKeyValue("URL", candidate.URL)

			if exitCode {
				return staleError{}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 when an update is available")

	return cmd
}
