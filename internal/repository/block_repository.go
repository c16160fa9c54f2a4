package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/domain"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) Create(ctx context.Context, block *domain.Block) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *BlockRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Block, error) {
	var block domain.Block
	err := r.db.WithContext(ctx).First(&block, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// BlockFilter narrows List results. Zero values mean "no constraint".
type BlockFilter struct {
	Category string
	Public   *bool
	Search   string
}

func (r *BlockRepository) List(ctx context.Context, filter BlockFilter) ([]domain.Block, error) {
	q := r.db.WithContext(ctx).Model(&domain.Block{})
	if filter.Category != "" {
		q = q.Where("? = ANY(categories)", filter.Category)
	}
	if filter.Public != nil {
		q = q.Where("is_public = ?", *filter.Public)
	}
	if filter.Search != "" {
		q = q.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	var blocks []domain.Block
	err := q.Order("title").Find(&blocks).Error
	return blocks, err
}

func (r *BlockRepository) Update(ctx context.Context, block *domain.Block) error {
	return r.db.WithContext(ctx).Save(block).Error
}

func (r *BlockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Block{}, "id = ?", id).Error
}

// ListByIDs fetches the base blocks referenced by a proposal in one query
func (r *BlockRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Block, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var blocks []domain.Block
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&blocks).Error
	return blocks, err
}
