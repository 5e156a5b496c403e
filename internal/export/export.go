// Package export turns rendered resume HTML into PDF bytes using a
// headless browser, so the printed output uses the same layout engine a
// browser preview does.
package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// US Letter dimensions in inches. The page CSS is sized to match, so
// one .page element maps to one printed page.
const (
	PaperWidthInches  = 8.5
	PaperHeightInches = 11
)

// DefaultTimeout bounds a single PDF render. Chromium startup dominates
// the cost; rendering a resume is fast.
const DefaultTimeout = 60 * time.Second

// Exporter renders HTML to PDF. Requires Chrome/Chromium to be
// installed on the system.
type Exporter struct {
	timeout time.Duration
}

// New returns an Exporter with the default timeout.
func New() *Exporter {
	return &Exporter{timeout: DefaultTimeout}
}

// NewWithTimeout returns an Exporter with a custom timeout.
func NewWithTimeout(timeout time.Duration) *Exporter {
	return &Exporter{timeout: timeout}
}

// PDF renders the given HTML document to PDF bytes. The document is
// passed to the browser as a data URL, so no server round trip or temp
// file is involved.
func (e *Exporter) PDF(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, e.timeout)
	defer cancel()

	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPaperWidth(PaperWidthInches).
				WithPaperHeight(PaperHeightInches).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("pdf rendering produced no output")
	}
	return pdf, nil
}
