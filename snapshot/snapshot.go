package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"sales-dashboard/utils"
)

// ErrNoBrowser is returned when no Chrome or Chromium binary can be found.
var ErrNoBrowser = errors.New("snapshot: no chrome or chromium binary found, set CHROME_BIN")

// Options describes one capture.
type Options struct {
	URL       string
	Out       string
	Width     int
	Height    int
	Timeout   time.Duration
	ChromeBin string

	// Selector must be visible before the screenshot is taken. Defaults to body.
	Selector string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 900
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Selector == "" {
		o.Selector = "body"
	}
	return o
}

func (o Options) validate() error {
	u, err := url.Parse(o.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("snapshot: %q is not an http(s) URL", o.URL)
	}
	if o.Out == "" {
		return errors.New("snapshot: output path is required")
	}
	if ext := filepath.Ext(o.Out); ext != ".png" {
		return fmt.Errorf("snapshot: output must be a .png file, got %q", ext)
	}
	return nil
}

// Capturer drives a headless browser to save PNGs of the web dashboard.
type Capturer struct {
	logger *utils.Logger
	retry  *utils.RetryConfig
}

func New(logger *utils.Logger, retry *utils.RetryConfig) *Capturer {
	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1, Logger: logger}
	}
	return &Capturer{logger: logger, retry: retry}
}

// Capture loads opts.URL in headless Chrome and writes a full-page PNG to
// opts.Out. Each attempt gets its own browser tab and opts.Timeout.
func (c *Capturer) Capture(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return err
	}

	chromeBin := findChromeBinary(opts.ChromeBin)
	if chromeBin == "" {
		return ErrNoBrowser
	}
	c.logger.Info("[snapshot] Using browser binary: %s", chromeBin)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(opts.Width, opts.Height),
		chromedp.ExecPath(chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var png []byte
	err := c.retry.Do(ctx, "snapshot "+opts.URL, func() error {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, opts.Timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
			chromedp.Navigate(opts.URL),
			chromedp.WaitVisible(opts.Selector, chromedp.ByQuery),
			chromedp.FullScreenshot(&png, 100),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", opts.URL, err)
	}

	if err := writeFile(opts.Out, png); err != nil {
		return err
	}
	c.logger.Info("[snapshot] Saved %s (%d bytes)", opts.Out, len(png))
	return nil
}

func writeFile(path string, data []byte) error {
	if len(data) == 0 {
		return errors.New("snapshot: browser returned an empty image")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

// findChromeBinary returns explicit when set, then CHROME_BIN, then the first
// Chrome or Chromium found on PATH or in the usual install locations.
func findChromeBinary(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
