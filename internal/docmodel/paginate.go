package docmodel

import (
	"math"
)

// PageKind identifies one entry of the fixed page catalog
type PageKind string

const (
	PageCover        PageKind = "cover"
	PageTOC          PageKind = "toc"
	PageIntroduction PageKind = "introduction"
	PageSection      PageKind = "section"
	PageTimeline     PageKind = "timeline"
	PageBudget       PageKind = "budget"
	PagePaymentTerms PageKind = "payment_terms"
	PageContact      PageKind = "contact"
)

// Page is one physical page of the laid-out document. Section and payment
// pages carry the chunk of children placed on them; continuation pages
// repeat the unit heading without introducing new numbering.
type Page struct {
	Kind         PageKind        `json:"kind"`
	Number       int             `json:"number"`
	Continued    bool            `json:"continued,omitempty"`
	SectionIndex int             `json:"sectionIndex,omitempty"` // index into Document.Sections, -1 elsewhere
	Blocks       []ResolvedBlock `json:"-"`
	Payment      []PaymentLine   `json:"-"`
}

// Pagination is the full page layout of one document. TotalPages is the
// pre-render estimate (cover+toc+intro? +1 aggregated section page +4 fixed
// trailing pages); when overflow chunking emits more physical pages than
// estimated it is deliberately NOT recomputed, so footers may under-report.
// len(Pages) is always the real emitted count.
type Pagination struct {
	Pages           []Page `json:"pages"`
	TotalPages      int    `json:"totalPages"`
	PaymentComplete bool   `json:"paymentComplete"`
}

// EstimatedTotalPages computes the up-front page count estimate
func EstimatedTotalPages(doc *Document) int {
	base := 2 // cover + toc
	if doc.HasIntroduction() {
		base++
	}
	return base + 1 + 4
}

// Paginate lays the document out across physical pages. Pure given the
// Measurer: re-running it on an unchanged document yields an identical page
// sequence and numbering.
func Paginate(doc *Document, m Measurer) Pagination {
	lines, complete := PaymentLines(doc.Proposal.PaymentTerms, doc.Totals.Cost)
	pg := Pagination{
		TotalPages:      EstimatedTotalPages(doc),
		PaymentComplete: complete,
	}

	number := 0
	emit := func(p Page) {
		number++
		p.Number = number
		pg.Pages = append(pg.Pages, p)
	}

	emit(Page{Kind: PageCover, SectionIndex: -1})
	emit(Page{Kind: PageTOC, SectionIndex: -1})
	if doc.HasIntroduction() {
		emit(Page{Kind: PageIntroduction, SectionIndex: -1})
	}

	for i, s := range doc.Sections {
		anchor := SectionAnchor(s.Section.ID.String())
		height := m.Measure(anchor, EstimateSectionHeight(s))
		for chunkIdx, chunk := range chunkBlocks(s.Blocks, height) {
			emit(Page{
				Kind:         PageSection,
				SectionIndex: i,
				Continued:    chunkIdx > 0,
				Blocks:       chunk,
			})
		}
	}

	emit(Page{Kind: PageTimeline, SectionIndex: -1})
	emit(Page{Kind: PageBudget, SectionIndex: -1})

	if len(lines) == 0 {
		// placeholder page, still counted
		emit(Page{Kind: PagePaymentTerms, SectionIndex: -1})
	} else {
		height := m.Measure(OutlinePaymentTerms, EstimatePaymentTermsHeight(lines))
		for chunkIdx, chunk := range chunkPayment(lines, height) {
			emit(Page{
				Kind:         PagePaymentTerms,
				SectionIndex: -1,
				Continued:    chunkIdx > 0,
				Payment:      chunk,
			})
		}
	}

	emit(Page{Kind: PageContact, SectionIndex: -1})
	return pg
}

// ChunkCount converts a measured unit height into a physical page count
func ChunkCount(height float64) int {
	n := int(math.Ceil(SafeNumber(height) / MaxPageHeight))
	if n < 1 {
		return 1
	}
	return n
}

// chunkBlocks partitions a section's blocks into roughly equal chunks. The
// split never lands inside a block's content: whole child elements move to
// the next page. A section with no blocks still yields one (empty) chunk so
// its heading page is never skipped.
func chunkBlocks(blocks []ResolvedBlock, height float64) [][]ResolvedBlock {
	if len(blocks) == 0 {
		return [][]ResolvedBlock{nil}
	}
	perPage := childrenPerPage(len(blocks), height)
	var chunks [][]ResolvedBlock
	for start := 0; start < len(blocks); start += perPage {
		end := start + perPage
		if end > len(blocks) {
			end = len(blocks)
		}
		chunks = append(chunks, blocks[start:end])
	}
	return chunks
}

func chunkPayment(lines []PaymentLine, height float64) [][]PaymentLine {
	perPage := childrenPerPage(len(lines), height)
	var chunks [][]PaymentLine
	for start := 0; start < len(lines); start += perPage {
		end := start + perPage
		if end > len(lines) {
			end = len(lines)
		}
		chunks = append(chunks, lines[start:end])
	}
	return chunks
}

func childrenPerPage(children int, height float64) int {
	chunks := ChunkCount(height)
	if chunks > children {
		chunks = children
	}
	return int(math.Ceil(float64(children) / float64(chunks)))
}
