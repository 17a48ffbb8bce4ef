package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sales-dashboard/storage"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Filter  FilterOptions
	Out     string
	Monthly bool
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered views to a CSV or XLSX file",
		Long: `Write the filtered views to a file. XLSX files get Summary, Monthly and
Recent sheets; CSV files get the recent-sales table, or the monthly trend
with --monthly.

Example:
  sales-dashboard export --out recent.csv -t VALID
  sales-dashboard export --out 2023.xlsx --start 2023-01-01 --end 2023-12-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}
	addFilterFlags(cmd, &opts.Filter)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file, .csv or .xlsx (default: EXPORT_DIR/sales_<uuid>.xlsx)")
	cmd.Flags().BoolVar(&opts.Monthly, "monthly", false, "CSV only: write the monthly trend instead of recent sales")
	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
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

	out := opts.Out
	if out == "" {
		out = storage.ExportPath(a.cfg.ExportDir, "xlsx")
	}
	if err := storage.Export(view, out, opts.Monthly); err != nil {
		return WrapExitError(ExitFailure, "export", err)
	}
	a.logger.Info("[export] wrote %d recent sales and %d months to %s", len(view.Recent), len(view.Monthly), out)

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"path": out})
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
