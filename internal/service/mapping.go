package service

import (
	"time"

	"github.com/propelhq/proposal-api/internal/docmodel"
	"github.com/propelhq/proposal-api/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// ToBlockDTO converts a Block to its API representation
func ToBlockDTO(b *domain.Block) *domain.BlockDTO {
	categories := b.Categories
	if categories == nil {
		categories = []string{}
	}
	return &domain.BlockDTO{
		ID:                b.ID,
		Title:             b.Title,
		Content:           b.Content,
		Categories:        categories,
		EstimatedDuration: b.EstimatedDuration,
		UnitPrice:         b.UnitPrice,
		IsPublic:          b.IsPublic,
		CreatedAt:         formatTime(b.CreatedAt),
		UpdatedAt:         formatTime(b.UpdatedAt),
	}
}

// ToProposalDTO converts a fully loaded proposal, resolving overrides so the
// DTO carries both the raw override record and the effective values.
func ToProposalDTO(p *domain.Proposal) *domain.ProposalDTO {
	resolved := docmodel.ResolveSections(p)
	totals := docmodel.ComputeTotals(resolved)

	sections := make([]domain.ProposalSectionDTO, 0, len(resolved))
	for _, rs := range resolved {
		sorted := rs.Section.SortedBlocks()
		blocks := make([]domain.ProposalBlockDTO, 0, len(sorted))
		for i, pb := range sorted {
			rb := rs.Blocks[i]
			blocks = append(blocks, domain.ProposalBlockDTO{
				ID:                pb.ID,
				BlockID:           pb.BlockID,
				Order:             pb.Order,
				Overrides:         pb.Overrides,
				EffectiveTitle:    rb.Title,
				EffectiveContent:  rb.Content,
				EffectivePrice:    rb.UnitPrice,
				EffectiveDuration: rb.Duration,
			})
		}
		sections = append(sections, domain.ProposalSectionDTO{
			ID:                    rs.Section.ID,
			Title:                 rs.Section.Title,
			Order:                 rs.Section.Order,
			ExpectedDeliveryStart: rs.Section.ExpectedDeliveryStart,
			ExpectedDeliveryEnd:   rs.Section.ExpectedDeliveryEnd,
			Blocks:                blocks,
			SubtotalCost:          rs.SubtotalCost,
			SubtotalDuration:      rs.SubtotalDuration,
		})
	}

	lines, _ := docmodel.PaymentLines(p.PaymentTerms, totals.Cost)
	terms := make([]domain.PaymentTermDTO, 0, len(p.PaymentTerms))
	for i, t := range p.PaymentTerms {
		terms = append(terms, domain.PaymentTermDTO{
			ID:      t.ID,
			Label:   t.Label,
			Percent: t.Percent,
			Trigger: t.Trigger,
			Amount:  lines[i].Amount,
		})
	}

	return &domain.ProposalDTO{
		ID:            p.ID,
		Title:         p.Title,
		ClientName:    p.ClientName,
		Status:        p.Status,
		Introduction:  p.Introduction,
		ValidUntil:    formatDate(p.ValidUntil),
		SentAt:        formatTimePtr(p.SentAt),
		Sections:      sections,
		PaymentTerms:  terms,
		TotalCost:     totals.Cost,
		TotalDuration: totals.Duration,
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
	}
}

// ToProposalListItemDTO converts a proposal to the compact list shape
func ToProposalListItemDTO(p *domain.Proposal) domain.ProposalListItemDTO {
	totals := docmodel.ComputeTotals(docmodel.ResolveSections(p))
	return domain.ProposalListItemDTO{
		ID:           p.ID,
		Title:        p.Title,
		ClientName:   p.ClientName,
		Status:       p.Status,
		SectionCount: len(p.Sections),
		TotalCost:    totals.Cost,
		CreatedAt:    formatTime(p.CreatedAt),
		UpdatedAt:    formatTime(p.UpdatedAt),
	}
}
