package pdf

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// A4 paper size in inches, as expected by the DevTools printToPDF command
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// ChromeBackend renders HTML via a headless Chrome controlled over the
// DevTools protocol
type ChromeBackend struct {
	cfg    Config
	logger *zap.Logger
}

// NewChromeBackend creates a Chrome-based rasterization backend
func NewChromeBackend(cfg Config, logger *zap.Logger) *ChromeBackend {
	return &ChromeBackend{cfg: cfg, logger: logger}
}

// RenderHTML starts a request-scoped browser, loads the document and prints
// it to PDF. The allocator and browser contexts are cancelled via defer, so
// the Chrome process is released whether the render succeeds, fails or
// times out.
func (b *ChromeBackend) RenderHTML(ctx context.Context, html string, opts PageOptions) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.RenderTimeout)
	defer cancel()

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-gpu", true),
	)
	if b.cfg.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(b.cfg.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdfBytes []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBytes, _, err = page.PrintToPDF().
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(opts.MarginInches).
				WithMarginBottom(opts.MarginInches).
				WithMarginLeft(opts.MarginInches).
				WithMarginRight(opts.MarginInches).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		b.logger.Error("pdf rasterization failed", zap.Error(err))
		return nil, fmt.Errorf("failed to rasterize proposal: %w", err)
	}

	return pdfBytes, nil
}
