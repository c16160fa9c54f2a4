package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/domain"
)

type ProposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

func (r *ProposalRepository) Create(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// GetByID loads the full aggregate: sections with their blocks (and the
// referenced base blocks), plus payment terms, all in display order
func (r *ProposalRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		Preload("Sections.Blocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		Preload("Sections.Blocks.Block").
		Preload("PaymentTerms", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		First(&proposal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepository) List(ctx context.Context, status domain.ProposalStatus) ([]domain.Proposal, error) {
	q := r.db.WithContext(ctx).
		Preload("Sections.Blocks.Block").
		Preload("Sections.Blocks")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var proposals []domain.Proposal
	err := q.Preload("Sections").Order("updated_at DESC").Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepository) Update(ctx context.Context, proposal *domain.Proposal) error {
	return r.db.WithContext(ctx).Omit("Sections", "PaymentTerms").Save(proposal).Error
}

// Delete removes the proposal; sections, blocks and payment terms cascade
func (r *ProposalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Sections", "PaymentTerms").
		Delete(&domain.Proposal{BaseModel: domain.BaseModel{ID: id}}).Error
}

// ListExpirable returns sent proposals whose validity window has passed
func (r *ProposalRepository) ListExpirable(ctx context.Context) ([]domain.Proposal, error) {
	var proposals []domain.Proposal
	err := r.db.WithContext(ctx).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < CURRENT_DATE", domain.ProposalStatusSent).
		Find(&proposals).Error
	return proposals, err
}

// UpdateStatus sets only the status column
func (r *ProposalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Proposal{}).
		Where("id = ?", id).Update("status", status).Error
}
