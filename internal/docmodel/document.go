package docmodel

import (
	"fmt"
	"strings"
	"time"

	"github.com/propelhq/proposal-api/internal/domain"
)

// Document is the fully derived document model for one proposal snapshot.
// Built once per render request; both renderers read from it and never from
// the raw aggregate.
type Document struct {
	Proposal  *domain.Proposal
	Sections  []ResolvedSection
	Totals    Totals
	Timeline  []TimelineItem
	Outline   []OutlineEntry
	Reference string
	Date      time.Time
}

// Build derives the complete document model from a proposal snapshot
func Build(p *domain.Proposal, now time.Time) *Document {
	sections := ResolveSections(p)
	return &Document{
		Proposal:  p,
		Sections:  sections,
		Totals:    ComputeTotals(sections),
		Timeline:  BuildTimeline(sections),
		Outline:   BuildOutline(sections),
		Reference: ReferenceCode(p),
		Date:      now,
	}
}

// HasIntroduction reports whether the introduction page should be emitted
func (d *Document) HasIntroduction() bool {
	return strings.TrimSpace(d.Proposal.Introduction) != ""
}

// ReferenceCode derives the printed reference from the proposal id
func ReferenceCode(p *domain.Proposal) string {
	raw := strings.ReplaceAll(p.ID.String(), "-", "")
	if len(raw) > 8 {
		raw = raw[:8]
	}
	return "P-" + strings.ToUpper(raw)
}

// Budget row kinds
const (
	BudgetRowSection = "section"
	BudgetRowBlock   = "block"
	BudgetRowTotal   = "total"
)

// BudgetRow is one row of the budget page table
type BudgetRow struct {
	Kind   string  `json:"kind"`
	Number string  `json:"number,omitempty"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// BudgetRows derives the budget table: each section's subtotal row followed
// by its nonzero-price block rows in display order, then the grand total.
func (d *Document) BudgetRows() []BudgetRow {
	rows := make([]BudgetRow, 0, len(d.Sections)*3+1)
	for i, s := range d.Sections {
		rows = append(rows, BudgetRow{
			Kind:   BudgetRowSection,
			Number: fmt.Sprintf("%d", i+1),
			Label:  s.Section.Title,
			Amount: s.SubtotalCost,
		})
		for j, b := range s.Blocks {
			if SafeNumber(b.UnitPrice) == 0 {
				continue
			}
			rows = append(rows, BudgetRow{
				Kind:   BudgetRowBlock,
				Number: fmt.Sprintf("%d.%d", i+1, j+1),
				Label:  b.Title,
				Amount: b.UnitPrice,
			})
		}
	}
	rows = append(rows, BudgetRow{Kind: BudgetRowTotal, Label: "Total", Amount: d.Totals.Cost})
	return rows
}

// ArtifactName derives the deterministic download filename for a rendered
// proposal: "proposal-<client>-<title>-<YYYY-MM-DD>.pdf", lowercased with
// non-alphanumeric runs collapsed to a single dash.
func (d *Document) ArtifactName() string {
	return fmt.Sprintf("proposal-%s-%s-%s.pdf",
		Slug(d.Proposal.ClientName), Slug(d.Proposal.Title), d.Date.Format("2006-01-02"))
}

// Slug lowercases s and collapses every non-alphanumeric run to one dash
func Slug(s string) string {
	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
