package docmodel

import (
	"math"
)

// MaxPageHeight is the content-box budget of one A4 page. It is an opaque
// layout unit, not a literal pixel count: the only question the paginator
// asks is whether a logical unit overflows a single page and by how much.
const MaxPageHeight = 980.0

// Measurer supplies the height of one logical content unit. The interactive
// preview path can answer with real client-measured layout heights; the
// static path has no layout engine and falls back to the estimate. Keeping
// the capability behind this interface keeps the chunking algorithm itself
// identical in both renderers.
type Measurer interface {
	Measure(unitID string, estimate float64) float64
}

// EstimateMeasurer always answers with the heuristic estimate
type EstimateMeasurer struct{}

func (EstimateMeasurer) Measure(_ string, estimate float64) float64 {
	return estimate
}

// FixedMeasurer answers with client-measured heights where available and
// falls back to the estimate for units it has no measurement for
type FixedMeasurer struct {
	Heights map[string]float64
}

func (m FixedMeasurer) Measure(unitID string, estimate float64) float64 {
	if h, ok := m.Heights[unitID]; ok && h > 0 && !math.IsNaN(h) && !math.IsInf(h, 0) {
		return h
	}
	return estimate
}

// Heuristic line geometry used by the estimator. Calibrated against the
// print stylesheet, not measured.
const (
	sectionHeadingHeight = 56.0
	blockHeadingHeight   = 30.0
	blockSpacing         = 16.0
	lineHeight           = 18.0
	charsPerLine         = 92
	termRowHeight        = 44.0
	termsIntroHeight     = 120.0 // static terms/conditions text above the table
)

// EstimateSectionHeight approximates the rendered height of a whole section
// (heading plus all block content) from character counts
func EstimateSectionHeight(s ResolvedSection) float64 {
	h := sectionHeadingHeight
	for _, b := range s.Blocks {
		h += blockHeadingHeight + blockSpacing
		h += contentLines(b.Content) * lineHeight
	}
	return h
}

// EstimatePaymentTermsHeight approximates the rendered height of the payment
// terms page content
func EstimatePaymentTermsHeight(lines []PaymentLine) float64 {
	return termsIntroHeight + float64(len(lines))*termRowHeight
}

func contentLines(content string) float64 {
	if content == "" {
		return 0
	}
	return math.Ceil(float64(len(content)) / charsPerLine)
}
