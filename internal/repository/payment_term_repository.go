package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/domain"
)

type PaymentTermRepository struct {
	db *gorm.DB
}

func NewPaymentTermRepository(db *gorm.DB) *PaymentTermRepository {
	return &PaymentTermRepository{db: db}
}

func (r *PaymentTermRepository) ListByProposal(ctx context.Context, proposalID uuid.UUID) ([]domain.PaymentTerm, error) {
	var terms []domain.PaymentTerm
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("display_order, created_at").
		Find(&terms).Error
	return terms, err
}

// Replace swaps the proposal's whole payment plan in one transaction.
// The terms list is small and always edited as a unit.
func (r *PaymentTermRepository) Replace(ctx context.Context, proposalID uuid.UUID, terms []domain.PaymentTerm) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("proposal_id = ?", proposalID).Delete(&domain.PaymentTerm{}).Error; err != nil {
			return err
		}
		for i := range terms {
			terms[i].ProposalID = proposalID
			terms[i].Order = i
		}
		if len(terms) == 0 {
			return nil
		}
		return tx.Create(&terms).Error
	})
}
