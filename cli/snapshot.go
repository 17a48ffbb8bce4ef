package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sales-dashboard/snapshot"
	"sales-dashboard/storage"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	URL    string
	Out    string
	Width  int
	Height int
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save a PNG of a running web dashboard",
		Long: `Capture the web dashboard served by "sales-dashboard serve" with headless
Chrome and save it as a PNG. Chrome is found via CHROME_BIN or the PATH.

Example:
  sales-dashboard snapshot --url "http://localhost:8080/?type=VALID" --out trend.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "dashboard URL (default: http://localhost<HTTP_ADDR>/)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "PNG file (default: EXPORT_DIR/sales_<uuid>.png)")
	cmd.Flags().IntVar(&opts.Width, "width", 1280, "viewport width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", 900, "viewport height in pixels")
	return cmd
}

func runSnapshot(cmd *cobra.Command, opts *SnapshotOptions) error {
	cfg, logger, closeLog, err := loadConfig(opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	url := opts.URL
	if url == "" {
		url = localURL(cfg.HTTPAddr)
	}
	out := opts.Out
	if out == "" {
		out = storage.ExportPath(cfg.ExportDir, "png")
	}

	capturer := snapshot.New(logger, cfg.Retry(logger))
	err = capturer.Capture(cmd.Context(), snapshot.Options{
		URL:       url,
		Out:       out,
		Width:     opts.Width,
		Height:    opts.Height,
		Timeout:   time.Duration(cfg.SnapshotTimeout) * time.Second,
		ChromeBin: cfg.ChromeBin,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "snapshot", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"path": out, "url": url})
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// localURL turns a listen address such as ":8080" into a loopback URL.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr + "/"
	}
	return "http://" + addr + "/"
}
