package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sales-dashboard/config"
	"sales-dashboard/models"
	"sales-dashboard/services"
	"sales-dashboard/storage"
	"sales-dashboard/utils"
)

// app is what every data-driven command needs: configuration, a logger, and
// the sales table loaded once at start-up.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	sales  []*models.Sale
	query  *services.QueryService

	closeLog func() error
}

func (a *app) Close() error {
	if a.closeLog != nil {
		return a.closeLog()
	}
	return nil
}

// loadConfig reads configuration and builds a logger writing to logOut.
// A configured LOG_FILE takes precedence over logOut.
func loadConfig(opts *RootOptions, logOut io.Writer) (*config.Config, *utils.Logger, func() error, error) {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return nil, nil, nil, WrapExitError(ExitCommandError, "configuration error", err)
	}

	closeLog := func() error { return nil }
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, nil, WrapExitError(ExitCommandError, "open log file", err)
		}
		logOut = f
		closeLog = f.Close
	}

	logger := utils.NewLoggerTo(logOut, false)
	logger.SetLevel(cfg.LogLevel)
	if opts.Verbose {
		logger.SetLevel("debug")
	}
	return cfg, logger, closeLog, nil
}

// loadApp loads configuration and the dataset.
func loadApp(ctx context.Context, opts *RootOptions, logOut io.Writer) (*app, error) {
	cfg, logger, closeLog, err := loadConfig(opts, logOut)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, query: services.NewQueryService(logger), closeLog: closeLog}

	src := cfg.Source()
	src.Retry = cfg.Retry(logger)

	started := time.Now()
	reader, err := storage.Open(ctx, src, logger)
	if err != nil {
		a.Close()
		return nil, WrapExitError(ExitFailure, "open data source", err)
	}
	defer reader.Close()

	a.sales, err = services.LoadSales(ctx, reader, services.NewCleaner(logger))
	if err != nil {
		a.Close()
		return nil, WrapExitError(ExitFailure, "load sales", err)
	}

	logger.Info("[load] %d sales from %s source in %v", len(a.sales), src.ResolveKind(), time.Since(started).Round(time.Millisecond))
	return a, nil
}

// FilterOptions holds the filter flags shared by report, export and serve.
type FilterOptions struct {
	Start    string
	End      string
	Types    []string
	AllTypes bool
	Limit    int
}

func addFilterFlags(cmd *cobra.Command, f *FilterOptions) {
	cmd.Flags().StringVar(&f.Start, "start", "", "first sale date, YYYY-MM-DD (default: earliest in dataset)")
	cmd.Flags().StringVar(&f.End, "end", "", "last sale date, YYYY-MM-DD (default: latest in dataset)")
	cmd.Flags().StringArrayVarP(&f.Types, "type", "t", nil, "sale type to include; repeat for several (default: VALID or the first type)")
	cmd.Flags().BoolVar(&f.AllTypes, "all-types", false, "include every sale type in the dataset")
	cmd.Flags().IntVarP(&f.Limit, "limit", "n", 0, "number of recent sales to list (default: RECENT_LIMIT)")
}

// resolve turns the flags into a filter, filling gaps from the dataset.
// Input is validated here; the query engine itself never rejects a filter.
func (f *FilterOptions) resolve(sales []*models.Sale, defaultLimit int) (models.Filter, int, error) {
	filter := services.DefaultFilter(sales)

	var err error
	if f.Start != "" {
		if filter.Start, err = parseDate("start", f.Start); err != nil {
			return filter, 0, err
		}
	}
	if f.End != "" {
		if filter.End, err = parseDate("end", f.End); err != nil {
			return filter, 0, err
		}
	}
	if filter.Start.After(filter.End) {
		return filter, 0, NewExitError(ExitCommandError, fmt.Sprintf("start date %s is after end date %s",
			filter.Start.Format(models.DateLayout), filter.End.Format(models.DateLayout)))
	}

	switch {
	case f.AllTypes:
		filter.SaleTypes = services.SaleTypeOptions(sales)
	case len(f.Types) > 0:
		filter.SaleTypes = make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			filter.SaleTypes = append(filter.SaleTypes, strings.TrimSpace(t))
		}
	}

	limit := f.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 0 {
		return filter, 0, NewExitError(ExitCommandError, fmt.Sprintf("--limit must not be negative, got %d", limit))
	}
	return filter, limit, nil
}

func parseDate(flag, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, WrapExitError(ExitCommandError, fmt.Sprintf("invalid --%s date %q (want YYYY-MM-DD)", flag, value), err)
	}
	return t, nil
}
