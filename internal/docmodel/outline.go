package docmodel

import (
	"fmt"
)

// Hierarchy levels of an outline entry
const (
	LevelSection = 1
	LevelBlock   = 2
)

// Fixed trailing entry ids. The contact page is rendered but deliberately
// absent from the outline and the table of contents.
const (
	OutlineTimeline     = "timeline"
	OutlineBudget       = "budget"
	OutlinePaymentTerms = "payment-terms"
)

// OutlineEntry is one row of the document outline. The same entry labels the
// table of contents and the body heading, so numbering can never diverge
// between the two.
type OutlineEntry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Level  int    `json:"level"`
	Number string `json:"number"`
}

// BuildOutline produces the ordered, numbered outline: content sections
// 1..N with their blocks i.1, i.2, ... then the fixed trailing pages
// Timeline, Budget and Payment Terms numbered N+1..N+3.
func BuildOutline(sections []ResolvedSection) []OutlineEntry {
	entries := make([]OutlineEntry, 0, len(sections)*3+3)
	for i, s := range sections {
		num := i + 1
		entries = append(entries, OutlineEntry{
			ID:     SectionAnchor(s.Section.ID.String()),
			Title:  s.Section.Title,
			Level:  LevelSection,
			Number: fmt.Sprintf("%d", num),
		})
		for j, b := range s.Blocks {
			entries = append(entries, OutlineEntry{
				ID:     BlockAnchor(b.ID.String()),
				Title:  b.Title,
				Level:  LevelBlock,
				Number: fmt.Sprintf("%d.%d", num, j+1),
			})
		}
	}

	n := len(sections)
	entries = append(entries,
		OutlineEntry{ID: OutlineTimeline, Title: "Timeline", Level: LevelSection, Number: fmt.Sprintf("%d", n+1)},
		OutlineEntry{ID: OutlineBudget, Title: "Budget", Level: LevelSection, Number: fmt.Sprintf("%d", n+2)},
		OutlineEntry{ID: OutlinePaymentTerms, Title: "Payment Terms", Level: LevelSection, Number: fmt.Sprintf("%d", n+3)},
	)
	return entries
}

// SectionAnchor returns the stable anchor id of a section
func SectionAnchor(sectionID string) string {
	return "section-" + sectionID
}

// BlockAnchor returns the stable anchor id of a proposal block
func BlockAnchor(proposalBlockID string) string {
	return "block-" + proposalBlockID
}

// NumberFor looks up the dotted number assigned to an outline id.
// Returns "" when the id is not part of the outline.
func NumberFor(outline []OutlineEntry, id string) string {
	for _, e := range outline {
		if e.ID == id {
			return e.Number
		}
	}
	return ""
}
