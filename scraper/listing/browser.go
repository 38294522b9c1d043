package listing

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"housingbridge/utils"
)

// settleDelay gives client-side rendering time to fill the listing in.
const settleDelay = 3 * time.Second

// browserLoader renders pages in headless Chrome, for listing sites that
// build their content with JavaScript.
type browserLoader struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

func newBrowserLoader(chromeBin string, timeout time.Duration, logger *utils.Logger) *browserLoader {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[listing] Rendering listings with browser binary: %s", chromeBin)
	return &browserLoader{chromeBin: chromeBin, timeout: timeout, logger: logger}
}

func (b *browserLoader) load(ctx context.Context, url string) (io.ReadCloser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if b.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(b.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// chromedp is chatty about protocol events it does not know
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.timeout+settleDelay)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp render: %w", err)
	}

	return io.NopCloser(strings.NewReader(html)), nil
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
