package docmodel

import (
	"math"
	"strings"

	"github.com/propelhq/proposal-api/internal/domain"
)

// WorkWeekDays is the number of working days assumed per delivery week
const WorkWeekDays = 5

// SafeNumber coerces degenerate numeric input to 0. NaN, infinities and
// negative garbage never reach a total; a single bad field must not poison
// the proposal-wide sums.
func SafeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ResolvedSection is a proposal section with its blocks resolved and its
// subtotals computed.
type ResolvedSection struct {
	Section          domain.ProposalSection
	Blocks           []ResolvedBlock
	SubtotalCost     float64
	SubtotalDuration float64 // days
}

// Totals holds proposal-wide roll-ups
type Totals struct {
	Cost     float64
	Duration float64 // days
}

// TimelineItem is one derived delivery phase. Never persisted.
type TimelineItem struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	StartWeek     int     `json:"startWeek"`
	EndWeek       int     `json:"endWeek"`
	DurationWeeks int     `json:"duration"`
	DurationDays  float64 `json:"durationDays"`
}

// ResolveSections resolves every block of every section, in display order
func ResolveSections(p *domain.Proposal) []ResolvedSection {
	sections := p.SortedSections()
	out := make([]ResolvedSection, 0, len(sections))
	for _, sec := range sections {
		rs := ResolvedSection{Section: sec}
		for _, pb := range sec.SortedBlocks() {
			rb := ResolveBlock(pb, pb.Block)
			rs.Blocks = append(rs.Blocks, rb)
			rs.SubtotalCost += SafeNumber(rb.UnitPrice)
			rs.SubtotalDuration += SafeNumber(rb.Duration)
		}
		out = append(out, rs)
	}
	return out
}

// ComputeTotals sums effective price and duration over all sections
func ComputeTotals(sections []ResolvedSection) Totals {
	var t Totals
	for _, s := range sections {
		t.Cost += SafeNumber(s.SubtotalCost)
		t.Duration += SafeNumber(s.SubtotalDuration)
	}
	return t
}

// BuildTimeline derives the projected delivery timeline. Sections run
// sequentially: a running week counter starts at 1 and each section begins
// the week after the previous one ends, unless it carries explicit
// expectedDeliveryStart/End overrides. Sections whose blocks sum to zero
// duration are excluded entirely.
func BuildTimeline(sections []ResolvedSection) []TimelineItem {
	items := make([]TimelineItem, 0, len(sections))
	currentWeek := 1
	for _, s := range sections {
		days := SafeNumber(s.SubtotalDuration)
		if days == 0 {
			continue
		}
		weeks := int(math.Ceil(days / WorkWeekDays))

		start := currentWeek
		if s.Section.ExpectedDeliveryStart != nil {
			start = *s.Section.ExpectedDeliveryStart
		}
		end := start + weeks - 1
		if s.Section.ExpectedDeliveryEnd != nil {
			end = *s.Section.ExpectedDeliveryEnd
		}

		titles := make([]string, 0, len(s.Blocks))
		for _, b := range s.Blocks {
			if b.Title != "" {
				titles = append(titles, b.Title)
			}
		}

		items = append(items, TimelineItem{
			Name:          s.Section.Title,
			Description:   strings.Join(titles, ", "),
			StartWeek:     start,
			EndWeek:       end,
			DurationWeeks: weeks,
			DurationDays:  days,
		})
		currentWeek = end + 1
	}
	return items
}

// PaymentAmount computes the monetary amount of one payment term
func PaymentAmount(totalCost, percent float64) float64 {
	return math.Round(SafeNumber(totalCost) * SafeNumber(percent) / 100)
}

// PaymentLine is one row of the payment terms page
type PaymentLine struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
	Trigger string  `json:"trigger,omitempty"`
	Amount  float64 `json:"amount"`
}

// PaymentLines derives the displayed payment plan. complete reports whether
// the percents partition 100; the sum is never enforced, only flagged.
func PaymentLines(terms []domain.PaymentTerm, totalCost float64) (lines []PaymentLine, complete bool) {
	sum := 0.0
	for _, t := range terms {
		pct := SafeNumber(t.Percent)
		sum += pct
		lines = append(lines, PaymentLine{
			Label:   t.Label,
			Percent: pct,
			Trigger: t.Trigger,
			Amount:  PaymentAmount(totalCost, pct),
		})
	}
	return lines, sum == 100
}
