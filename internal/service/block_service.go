package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/repository"
)

type BlockService struct {
	blockRepo         *repository.BlockRepository
	proposalBlockRepo *repository.ProposalBlockRepository
	logger            *zap.Logger
}

func NewBlockService(
	blockRepo *repository.BlockRepository,
	proposalBlockRepo *repository.ProposalBlockRepository,
	logger *zap.Logger,
) *BlockService {
	return &BlockService{
		blockRepo:         blockRepo,
		proposalBlockRepo: proposalBlockRepo,
		logger:            logger,
	}
}

// Create creates a new reusable content block
func (s *BlockService) Create(ctx context.Context, req *domain.CreateBlockRequest) (*domain.BlockDTO, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	block := &domain.Block{
		Title:             req.Title,
		Content:           req.Content,
		Categories:        req.Categories,
		EstimatedDuration: req.EstimatedDuration,
		UnitPrice:         req.UnitPrice,
		IsPublic:          isPublic,
	}
	if err := s.blockRepo.Create(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to create block: %w", err)
	}

	s.logger.Info("block created",
		zap.String("blockID", block.ID.String()),
		zap.String("title", block.Title))
	return ToBlockDTO(block), nil
}

func (s *BlockService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BlockDTO, error) {
	block, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, fmt.Errorf("failed to get block: %w", err)
	}
	return ToBlockDTO(block), nil
}

func (s *BlockService) List(ctx context.Context, filter repository.BlockFilter) ([]domain.BlockDTO, error) {
	blocks, err := s.blockRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	dtos := make([]domain.BlockDTO, 0, len(blocks))
	for i := range blocks {
		dtos = append(dtos, *ToBlockDTO(&blocks[i]))
	}
	return dtos, nil
}

// Update applies partial changes to a block. Edits propagate to every
// proposal that has not overridden the edited field.
func (s *BlockService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateBlockRequest) (*domain.BlockDTO, error) {
	block, err := s.blockRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlockNotFound
		}
		return nil, fmt.Errorf("failed to get block: %w", err)
	}

	if req.Title != nil {
		block.Title = *req.Title
	}
	if req.Content != nil {
		block.Content = *req.Content
	}
	if req.Categories != nil {
		block.Categories = req.Categories
	}
	if req.EstimatedDuration != nil {
		block.EstimatedDuration = *req.EstimatedDuration
	}
	if req.UnitPrice != nil {
		block.UnitPrice = *req.UnitPrice
	}
	if req.IsPublic != nil {
		block.IsPublic = *req.IsPublic
	}

	if err := s.blockRepo.Update(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to update block: %w", err)
	}
	return ToBlockDTO(block), nil
}

// Delete removes a block. Proposals that still reference it keep their placed
// blocks; resolution degrades to the override values.
func (s *BlockService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.blockRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlockNotFound
		}
		return fmt.Errorf("failed to get block: %w", err)
	}

	refs, err := s.proposalBlockRepo.CountReferences(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count block references: %w", err)
	}
	if refs > 0 {
		s.logger.Warn("deleting block still referenced by proposals",
			zap.String("blockID", id.String()),
			zap.Int64("references", refs))
	}

	if err := s.blockRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}
	return nil
}
