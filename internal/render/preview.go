package render

import (
	"math"

	"github.com/propelhq/proposal-api/internal/docmodel"
)

// PreviewDocument is the structured page model served to the interactive
// preview client. Pages appear in final print order with their assigned
// numbers; scissor markers sit between page-break boundaries for on-screen
// review, and anchors let the TOC smooth-scroll to section/block headings.
type PreviewDocument struct {
	ProposalID      string                  `json:"proposalId"`
	Title           string                  `json:"title"`
	ClientName      string                  `json:"clientName"`
	Reference       string                  `json:"reference"`
	Date            string                  `json:"date"`
	TotalPages      int                     `json:"totalPages"`
	EmittedPages    int                     `json:"emittedPages"`
	TotalCost       float64                 `json:"totalCost"`
	TotalDuration   float64                 `json:"totalDuration"`
	Outline         []docmodel.OutlineEntry `json:"outline"`
	Pages           []PreviewPage           `json:"pages"`
	PaymentComplete bool                    `json:"paymentComplete"`
}

// PreviewPage is one physical page of the preview. Exactly one payload
// field is set, matching Kind.
type PreviewPage struct {
	Kind         docmodel.PageKind `json:"kind"`
	Number       int               `json:"number"`
	Continued    bool              `json:"continued,omitempty"`
	ScissorAfter bool              `json:"scissorAfter"`

	Cover        *CoverPage              `json:"cover,omitempty"`
	TOC          []docmodel.OutlineEntry `json:"toc,omitempty"`
	Introduction []string                `json:"introduction,omitempty"`
	Section      *SectionPage            `json:"section,omitempty"`
	Timeline     *TimelinePage           `json:"timeline,omitempty"`
	Budget       *BudgetPage             `json:"budget,omitempty"`
	Payment      *PaymentPage            `json:"payment,omitempty"`
	Contact      *ContactPage            `json:"contact,omitempty"`
}

// CoverPage carries the title-page fields
type CoverPage struct {
	Title      string `json:"title"`
	ClientName string `json:"clientName"`
	Date       string `json:"date"`
	Reference  string `json:"reference"`
}

// SectionPage is the chunk of one content section placed on one page
type SectionPage struct {
	Anchor string         `json:"anchor"`
	Number string         `json:"number"`
	Title  string         `json:"title"`
	Blocks []PreviewBlock `json:"blocks"`
}

// PreviewBlock is one block heading plus content on a section page
type PreviewBlock struct {
	Anchor     string   `json:"anchor"`
	Number     string   `json:"number"`
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	UnitPrice  float64  `json:"unitPrice"`
	Duration   float64  `json:"duration"`
}

// TimelinePage is the derived delivery plan plus its totals row
type TimelinePage struct {
	Number     string                  `json:"number"`
	Items      []docmodel.TimelineItem `json:"items"`
	TotalWeeks int                     `json:"totalWeeks"`
	TotalDays  float64                 `json:"totalDays"`
}

// BudgetPage is the cost breakdown table
type BudgetPage struct {
	Number string               `json:"number"`
	Rows   []docmodel.BudgetRow `json:"rows"`
}

// PaymentPage is the payment plan plus static terms text
type PaymentPage struct {
	Number      string                 `json:"number"`
	Lines       []docmodel.PaymentLine `json:"lines,omitempty"`
	Complete    bool                   `json:"complete"`
	Placeholder string                 `json:"placeholder,omitempty"`
	TermsText   string                 `json:"termsText,omitempty"`
}

// ContactPage is the fixed trailing company contact page
type ContactPage struct {
	CompanyName string `json:"companyName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Website     string `json:"website,omitempty"`
}

// PreviewRenderer builds PreviewDocuments from document models
type PreviewRenderer struct {
	contact ContactInfo
}

// NewPreviewRenderer creates a preview renderer with the given contact page content
func NewPreviewRenderer(contact ContactInfo) *PreviewRenderer {
	return &PreviewRenderer{contact: contact}
}

// Render lays out the document with the supplied measurer and builds the
// preview page model. Pass a FixedMeasurer loaded with client-measured
// heights for measured pagination, or an EstimateMeasurer to match the
// static path exactly.
func (r *PreviewRenderer) Render(doc *docmodel.Document, m docmodel.Measurer) *PreviewDocument {
	pg := docmodel.Paginate(doc, m)

	out := &PreviewDocument{
		ProposalID:      doc.Proposal.ID.String(),
		Title:           doc.Proposal.Title,
		ClientName:      doc.Proposal.ClientName,
		Reference:       doc.Reference,
		Date:            doc.Date.Format("2006-01-02"),
		TotalPages:      pg.TotalPages,
		EmittedPages:    len(pg.Pages),
		TotalCost:       doc.Totals.Cost,
		TotalDuration:   doc.Totals.Duration,
		Outline:         doc.Outline,
		PaymentComplete: pg.PaymentComplete,
	}

	for i, page := range pg.Pages {
		pp := PreviewPage{
			Kind:         page.Kind,
			Number:       page.Number,
			Continued:    page.Continued,
			ScissorAfter: i < len(pg.Pages)-1,
		}

		switch page.Kind {
		case docmodel.PageCover:
			pp.Cover = &CoverPage{
				Title:      doc.Proposal.Title,
				ClientName: doc.Proposal.ClientName,
				Date:       doc.Date.Format("2006-01-02"),
				Reference:  doc.Reference,
			}
		case docmodel.PageTOC:
			pp.TOC = doc.Outline
		case docmodel.PageIntroduction:
			pp.Introduction = Paragraphs(doc.Proposal.Introduction)
		case docmodel.PageSection:
			pp.Section = r.sectionPage(doc, page)
		case docmodel.PageTimeline:
			pp.Timeline = &TimelinePage{
				Number:     docmodel.NumberFor(doc.Outline, docmodel.OutlineTimeline),
				Items:      doc.Timeline,
				TotalWeeks: int(math.Round(doc.Totals.Duration / docmodel.WorkWeekDays)),
				TotalDays:  doc.Totals.Duration,
			}
		case docmodel.PageBudget:
			pp.Budget = &BudgetPage{
				Number: docmodel.NumberFor(doc.Outline, docmodel.OutlineBudget),
				Rows:   doc.BudgetRows(),
			}
		case docmodel.PagePaymentTerms:
			pay := &PaymentPage{
				Number:   docmodel.NumberFor(doc.Outline, docmodel.OutlinePaymentTerms),
				Lines:    page.Payment,
				Complete: pg.PaymentComplete,
			}
			if len(doc.Proposal.PaymentTerms) == 0 {
				pay.Placeholder = NoTermsPlaceholder
			} else {
				pay.TermsText = PaymentTermsText
			}
			pp.Payment = pay
		case docmodel.PageContact:
			pp.Contact = &ContactPage{
				CompanyName: r.contact.CompanyName,
				Email:       r.contact.Email,
				Phone:       r.contact.Phone,
				Address:     r.contact.Address,
				Website:     r.contact.Website,
			}
		}

		out.Pages = append(out.Pages, pp)
	}
	return out
}

func (r *PreviewRenderer) sectionPage(doc *docmodel.Document, page docmodel.Page) *SectionPage {
	sec := doc.Sections[page.SectionIndex]
	anchor := docmodel.SectionAnchor(sec.Section.ID.String())
	sp := &SectionPage{
		Anchor: anchor,
		Number: docmodel.NumberFor(doc.Outline, anchor),
		Title:  sec.Section.Title,
	}
	for _, b := range page.Blocks {
		blockAnchor := docmodel.BlockAnchor(b.ID.String())
		sp.Blocks = append(sp.Blocks, PreviewBlock{
			Anchor:     blockAnchor,
			Number:     docmodel.NumberFor(doc.Outline, blockAnchor),
			Title:      b.Title,
			Paragraphs: Paragraphs(b.Content),
			UnitPrice:  b.UnitPrice,
			Duration:   b.Duration,
		})
	}
	return sp
}
