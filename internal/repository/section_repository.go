package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/domain"
)

type SectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

func (r *SectionRepository) Create(ctx context.Context, section *domain.ProposalSection) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *SectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalSection, error) {
	var section domain.ProposalSection
	err := r.db.WithContext(ctx).
		Preload("Blocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order, created_at")
		}).
		Preload("Blocks.Block").
		First(&section, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *SectionRepository) Update(ctx context.Context, section *domain.ProposalSection) error {
	return r.db.WithContext(ctx).Omit("Blocks").Save(section).Error
}

// Delete removes a section and renumbers the remaining siblings to a
// contiguous 0-based sequence, in one transaction
func (r *SectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section domain.ProposalSection
		if err := tx.First(&section, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Select("Blocks").Delete(&section).Error; err != nil {
			return err
		}
		return renumberSections(tx, section.ProposalID)
	})
}

// NextOrder returns the order value for a section appended at the end
func (r *SectionRepository) NextOrder(ctx context.Context, proposalID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ProposalSection{}).
		Where("proposal_id = ?", proposalID).Count(&count).Error
	return int(count), err
}

func renumberSections(tx *gorm.DB, proposalID uuid.UUID) error {
	var siblings []domain.ProposalSection
	if err := tx.Where("proposal_id = ?", proposalID).
		Order("display_order, created_at").Find(&siblings).Error; err != nil {
		return err
	}
	for i := range siblings {
		if siblings[i].Order == i {
			continue
		}
		if err := tx.Model(&domain.ProposalSection{}).
			Where("id = ?", siblings[i].ID).Update("display_order", i).Error; err != nil {
			return err
		}
	}
	return nil
}
