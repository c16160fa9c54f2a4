package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/domain"
)

type ProposalBlockRepository struct {
	db *gorm.DB
}

func NewProposalBlockRepository(db *gorm.DB) *ProposalBlockRepository {
	return &ProposalBlockRepository{db: db}
}

func (r *ProposalBlockRepository) Create(ctx context.Context, block *domain.ProposalBlock) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *ProposalBlockRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalBlock, error) {
	var block domain.ProposalBlock
	err := r.db.WithContext(ctx).Preload("Block").First(&block, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *ProposalBlockRepository) Update(ctx context.Context, block *domain.ProposalBlock) error {
	return r.db.WithContext(ctx).Save(block).Error
}

// Delete removes a placed block and renumbers the remaining siblings to a
// contiguous 0-based sequence
func (r *ProposalBlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var block domain.ProposalBlock
		if err := tx.First(&block, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&block).Error; err != nil {
			return err
		}

		var siblings []domain.ProposalBlock
		if err := tx.Where("section_id = ?", block.SectionID).
			Order("display_order, created_at").Find(&siblings).Error; err != nil {
			return err
		}
		for i := range siblings {
			if siblings[i].Order == i {
				continue
			}
			if err := tx.Model(&domain.ProposalBlock{}).
				Where("id = ?", siblings[i].ID).Update("display_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextOrder returns the order value for a block appended at the end of a section
func (r *ProposalBlockRepository) NextOrder(ctx context.Context, sectionID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ProposalBlock{}).
		Where("section_id = ?", sectionID).Count(&count).Error
	return int(count), err
}

// CountReferences reports how many proposal blocks reference a base block
func (r *ProposalBlockRepository) CountReferences(ctx context.Context, blockID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ProposalBlock{}).
		Where("block_id = ?", blockID).Count(&count).Error
	return count, err
}
