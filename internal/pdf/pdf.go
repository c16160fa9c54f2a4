// Package pdf converts rendered proposal HTML into PDF bytes using a
// headless Chrome instance. Each render acquires a browser scoped to the
// request and releases it on every path; a handle never outlives its
// request.
package pdf

import (
	"context"
	"time"
)

// PageOptions controls the rasterized page geometry
type PageOptions struct {
	// MarginInches applies to all four edges
	MarginInches float64
}

// DefaultPageOptions matches the print stylesheet: A4 with margins handled
// by the page CSS, not the printer
var DefaultPageOptions = PageOptions{MarginInches: 0}

// Backend renders an HTML string to PDF bytes. Implementations must release
// every browser/process handle before returning, on success and failure
// alike.
type Backend interface {
	RenderHTML(ctx context.Context, html string, opts PageOptions) ([]byte, error)
}

// Config holds rasterization backend settings
type Config struct {
	// RenderTimeout bounds one render, including browser startup
	RenderTimeout time.Duration
	// ChromePath overrides the browser binary lookup when set
	ChromePath string
}
