package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command for the courier CLI. The App
// is built once per execution in the persistent pre-run and handed to the
// subcommands through the accessor, so each root command owns its own
// wiring and no state leaks between instances.
func NewRootCmd() *cobra.Command {
	var app *App
	current := func() *App { return app }

	root := &cobra.Command{
		Use:   "courier",
		Short: "courier — delivery personnel client for rc-foods",
		Long:  "courier logs in, selects a delivery area, lists orders and marks payments collected.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := newApp()
			if err != nil {
				return err
			}
			app = built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				app.Close()
			}
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		newLoginCmd(current),
		newLogoutCmd(current),
		newWhoamiCmd(current),
		newAreasCmd(current),
		newSelectAreaCmd(current),
		newOrdersCmd(current),
		newPayCmd(current),
		newUnpaidCmd(current),
		newSummaryCmd(current),
	)
	return root
}
