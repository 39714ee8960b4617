package cmd

import (
	"fmt"

	"github.com/quantmind-br/freshen/internal/ui"
	"github.com/spf13/cobra"
)

// confirmFunc asks the user to approve an update
type confirmFunc func(label string) (bool, error)

// newApplyCmd creates the apply command
func newApplyCmd(e *env, confirm confirmFunc) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Install the newest release and restart",
		Long: `Download the newest release, replace the installed application with it and restart
the entry point. On success this command does not return.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := e.updater()
			if err != nil {
				ui.PrintError("%v", err)
				return err
			}

			ctx := cmd.Context()

			candidate, found, err := u.Check(ctx)
			if err != nil {
				ui.PrintError("update check failed: %v", err)
				return fmt.Errorf("apply: %w", err)
			}
			if !found {
				ui.PrintSuccess("Already up to date (%s)", e.flags.current)
				return nil
			}

			if !yes {
				ok, err := confirm(fmt.Sprintf("Update %s to %s", e.flags.current, candidate.Version))
				if err != nil {
					return err
				}
				if !ok {
					ui.PrintWarning("Update cancelled")
					return nil
				}
			}

			e.log.Info().
				Str("from", e.flags.current).
				Str("to", candidate.Version).
				Str("target", e.flags.target).
				Msg("applying update")

			if err := u.Apply(ctx, candidate); err != nil {
				ui.PrintError("update failed: %v", err)
				return fmt.Errorf("apply: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
