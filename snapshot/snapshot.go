// Package snapshot renders a catalog page in headless Chrome and saves a
// full-page PNG of it.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"catalog-browser/utils"
)

// Snapshotter drives a headless browser.
type Snapshotter struct {
	chromeBin string
	logger    *utils.Logger
	retry     *utils.RetryConfig
	timeout   time.Duration
	width     int64
	height    int64
}

// New returns a Snapshotter. An empty chromeBin searches the usual install locations.
func New(chromeBin string, logger *utils.Logger, maxRetries int) *Snapshotter {
	return &Snapshotter{
		chromeBin: FindChromeBinary(chromeBin),
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
		timeout: 60 * time.Second,
		width:   1280,
		height:  900,
	}
}

// Capture loads pageURL, waits for the hero banner and writes a PNG to outPath.
// Intermediate directories are created automatically.
func (s *Snapshotter) Capture(ctx context.Context, pageURL, outPath string) error {
	s.logger.Info("[snapshot] Using browser binary: %s", s.chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(int(s.width), int(s.height)),
	)
	if s.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(s.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var png []byte
	err := s.retry.Do(ctx, "snapshot "+pageURL, func(context.Context) error {
		tabCtx, cancelTab := chromedp.NewContext(browserCtx)
		defer cancelTab()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.timeout)
		defer cancelTimeout()

		return chromedp.Run(tabCtx,
			chromedp.EmulateViewport(s.width, s.height),
			chromedp.Navigate(pageURL),
			chromedp.WaitVisible(".hero", chromedp.ByQuery),
			chromedp.FullScreenshot(&png, 100),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: capture %s: %w", pageURL, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(outPath, png, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", outPath, err)
	}
	s.logger.Info("[snapshot] Saved %d bytes to %s", len(png), outPath)
	return nil
}

// FindChromeBinary returns configured when set, otherwise the first Chrome or
// Chromium found on PATH or in a well-known location, or "".
func FindChromeBinary(configured string) string {
	if configured != "" {
		return configured
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
