package cli

import (
	"github.com/spf13/cobra"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Filter FilterOptions
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print KPIs, the monthly average trend and recent sales",
		Long: `Print the dashboard for one filter without the interactive UI.

Example:
  sales-dashboard report --start 2023-01-01 --end 2023-12-31 -t VALID -n 20
  sales-dashboard report --all-types --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}
	addFilterFlags(cmd, &opts.Filter)
	return cmd
}

func runReport(cmd *cobra.Command, opts *ReportOptions) error {
	a, err := loadApp(cmd.Context(), opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	filter, limit, err := opts.Filter.resolve(a.sales, a.cfg.RecentLimit)
	if err != nil {
		return err
	}
	view := a.query.Generate(a.sales, filter, limit)

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), view)
	}
	a.query.Print(cmd.OutOrStdout(), view)
	return nil
}
