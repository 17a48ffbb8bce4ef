package cli

import (
	"io"

	"github.com/spf13/cobra"

	"sales-dashboard/dashboard"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal dashboard",
		Long: `Open the interactive terminal dashboard.

Keys: tab cycles focus, enter applies a date, space toggles a sale type,
a/n select all or no types, r resets the filters, q quits.
Logs are written to LOG_FILE when set and discarded otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, rootOpts)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *RootOptions) error {
	a, err := loadApp(cmd.Context(), opts, io.Discard)
	if err != nil {
		return err
	}
	defer a.Close()

	err = dashboard.Run(dashboard.Deps{
		Sales:  a.sales,
		Query:  a.query,
		Logger: a.logger,
		Limit:  a.cfg.RecentLimit,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "dashboard", err)
	}
	return nil
}
