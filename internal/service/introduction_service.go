package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/textgen"
)

// IntroductionService generates proposal introductions through an opaque
// text-generation backend and optionally persists the result
type IntroductionService struct {
	generator   textgen.Generator
	proposalSvc *ProposalService
	logger      *zap.Logger
}

func NewIntroductionService(generator textgen.Generator, proposalSvc *ProposalService, logger *zap.Logger) *IntroductionService {
	return &IntroductionService{
		generator:   generator,
		proposalSvc: proposalSvc,
		logger:      logger,
	}
}

// Generate produces an introduction from free text plus extracted file
// contents. With req.Apply it is also written to the proposal.
func (s *IntroductionService) Generate(ctx context.Context, proposalID uuid.UUID, req *domain.GenerateIntroductionRequest) (*domain.GenerateIntroductionResponse, error) {
	if _, err := s.proposalSvc.LoadAggregate(ctx, proposalID); err != nil {
		return nil, err
	}

	result, err := s.generator.GenerateIntroduction(ctx, req.FreeText, req.FileTexts)
	if err != nil {
		return nil, fmt.Errorf("introduction generation failed: %w", err)
	}

	if req.Apply {
		if err := s.proposalSvc.ApplyIntroduction(ctx, proposalID, result.Introduction); err != nil {
			return nil, err
		}
		s.logger.Info("generated introduction applied",
			zap.String("proposalID", proposalID.String()))
	}

	return &domain.GenerateIntroductionResponse{
		Introduction:      result.Introduction,
		StructuredContext: result.StructuredContext,
	}, nil
}
