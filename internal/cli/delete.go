package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"snippetnav/internal/navigator"
)

type deleteOptions struct {
	yes  bool
	open string
}

func newDeleteCommand(a *app) *cobra.Command {
	opts := &deleteOptions{}
	cmd := &cobra.Command{
		Use:   "delete <snippet-id>...",
		Short: "Delete one or more snippets",
		Long: `Delete snippets after confirmation.

When the open snippet (--open) is among those deleted, the dashboard moves to
the first remaining snippet, or to a new query when none are left.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, a, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation dialog")
	cmd.Flags().StringVar(&opts.open, "open", "", "Snippet currently open in the editor")

	return cmd
}

func runDelete(cmd *cobra.Command, a *app, opts *deleteOptions, ids []string) error {
	out := cmd.OutOrStdout()
	d := a.openDashboard(out)
	defer d.session.Close()

	ctx := cmd.Context()
	if err := d.load(ctx); err != nil {
		return err
	}

	if opts.open != "" {
		if err := d.session.Open(opts.open); err != nil {
			return err
		}
	}
	if err := d.session.SelectMany(ids); err != nil {
		return err
	}

	prompt, err := d.session.RequestDelete()
	if err != nil {
		return err
	}

	if !opts.yes {
		ok, err := a.confirm(prompt, cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if !ok {
			if err := d.session.Cancel(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
	}

	if err := d.session.Confirm(); err != nil {
		return err
	}
	res, err := d.waitResolved(ctx)
	if err != nil {
		return err
	}

	a.logger.Debug("delete resolved", "outcome", res.Outcome, "removed", res.RemovedIDs)
	if res.Outcome == navigator.OutcomeFailure {
		return fmt.Errorf("delete failed: %w", res.Err)
	}
	return nil
}
