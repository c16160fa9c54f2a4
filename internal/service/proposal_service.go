package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/repository"
)

// Default validity window applied when a proposal is sent without an
// explicit expiry date
const defaultValidityDays = 60

type ProposalService struct {
	proposalRepo      *repository.ProposalRepository
	sectionRepo       *repository.SectionRepository
	proposalBlockRepo *repository.ProposalBlockRepository
	paymentTermRepo   *repository.PaymentTermRepository
	blockRepo         *repository.BlockRepository
	logger            *zap.Logger
}

func NewProposalService(
	proposalRepo *repository.ProposalRepository,
	sectionRepo *repository.SectionRepository,
	proposalBlockRepo *repository.ProposalBlockRepository,
	paymentTermRepo *repository.PaymentTermRepository,
	blockRepo *repository.BlockRepository,
	logger *zap.Logger,
) *ProposalService {
	return &ProposalService{
		proposalRepo:      proposalRepo,
		sectionRepo:       sectionRepo,
		proposalBlockRepo: proposalBlockRepo,
		paymentTermRepo:   paymentTermRepo,
		blockRepo:         blockRepo,
		logger:            logger,
	}
}

// Create creates a proposal, optionally with initial sections, blocks and
// payment terms in one request
func (s *ProposalService) Create(ctx context.Context, req *domain.CreateProposalRequest) (*domain.ProposalDTO, error) {
	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		return nil, err
	}

	proposal := &domain.Proposal{
		Title:        req.Title,
		ClientName:   req.ClientName,
		Status:       domain.ProposalStatusDraft,
		Introduction: req.Introduction,
		ValidUntil:   validUntil,
	}

	for i, secReq := range req.Sections {
		section := domain.ProposalSection{
			Title:                 secReq.Title,
			Order:                 i,
			ExpectedDeliveryStart: secReq.ExpectedDeliveryStart,
			ExpectedDeliveryEnd:   secReq.ExpectedDeliveryEnd,
		}
		if secReq.Order != nil {
			section.Order = *secReq.Order
		}
		for j, blockReq := range secReq.Blocks {
			if err := s.verifyBlockExists(ctx, blockReq.BlockID); err != nil {
				return nil, err
			}
			pb := domain.ProposalBlock{
				BlockID:   blockReq.BlockID,
				Order:     j,
				Overrides: blockReq.Overrides,
			}
			if blockReq.Order != nil {
				pb.Order = *blockReq.Order
			}
			section.Blocks = append(section.Blocks, pb)
		}
		proposal.Sections = append(proposal.Sections, section)
	}

	for i, termReq := range req.PaymentTerms {
		proposal.PaymentTerms = append(proposal.PaymentTerms, domain.PaymentTerm{
			Label:   termReq.Label,
			Percent: termReq.Percent,
			Trigger: termReq.Trigger,
			Order:   i,
		})
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}

	s.logger.Info("proposal created",
		zap.String("proposalID", proposal.ID.String()),
		zap.String("client", proposal.ClientName))
	return s.GetByID(ctx, proposal.ID)
}

// GetByID returns the full proposal aggregate with effective values resolved
func (s *ProposalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.loadProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProposalDTO(proposal), nil
}

func (s *ProposalService) List(ctx context.Context, status domain.ProposalStatus) ([]domain.ProposalListItemDTO, error) {
	proposals, err := s.proposalRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	items := make([]domain.ProposalListItemDTO, 0, len(proposals))
	for i := range proposals {
		items = append(items, ToProposalListItemDTO(&proposals[i]))
	}
	return items, nil
}

// Update applies partial changes to proposal header fields
func (s *ProposalService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProposalRequest) (*domain.ProposalDTO, error) {
	proposal, err := s.loadProposal(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		proposal.Title = *req.Title
	}
	if req.ClientName != nil {
		proposal.ClientName = *req.ClientName
	}
	if req.Status != nil {
		proposal.Status = *req.Status
	}
	if req.Introduction != nil {
		proposal.Introduction = *req.Introduction
	}
	if req.ValidUntil != nil {
		validUntil, err := parseDate(req.ValidUntil)
		if err != nil {
			return nil, err
		}
		proposal.ValidUntil = validUntil
	}

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to update proposal: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *ProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadProposal(ctx, id); err != nil {
		return err
	}
	if err := s.proposalRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete proposal: %w", err)
	}
	s.logger.Info("proposal deleted", zap.String("proposalID", id.String()))
	return nil
}

// AddSection appends (or inserts, when order is given) a section
func (s *ProposalService) AddSection(ctx context.Context, proposalID uuid.UUID, req *domain.CreateSectionRequest) (*domain.ProposalDTO, error) {
	if _, err := s.loadProposal(ctx, proposalID); err != nil {
		return nil, err
	}

	order, err := s.sectionRepo.NextOrder(ctx, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute section order: %w", err)
	}
	if req.Order != nil {
		order = *req.Order
	}

	section := &domain.ProposalSection{
		ProposalID:            proposalID,
		Title:                 req.Title,
		Order:                 order,
		ExpectedDeliveryStart: req.ExpectedDeliveryStart,
		ExpectedDeliveryEnd:   req.ExpectedDeliveryEnd,
	}
	for j, blockReq := range req.Blocks {
		if err := s.verifyBlockExists(ctx, blockReq.BlockID); err != nil {
			return nil, err
		}
		pb := domain.ProposalBlock{
			BlockID:   blockReq.BlockID,
			Order:     j,
			Overrides: blockReq.Overrides,
		}
		if blockReq.Order != nil {
			pb.Order = *blockReq.Order
		}
		section.Blocks = append(section.Blocks, pb)
	}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return s.GetByID(ctx, proposalID)
}

// UpdateSection applies partial changes to one section
func (s *ProposalService) UpdateSection(ctx context.Context, proposalID, sectionID uuid.UUID, req *domain.UpdateSectionRequest) (*domain.ProposalDTO, error) {
	section, err := s.loadSection(ctx, proposalID, sectionID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		section.Title = *req.Title
	}
	if req.Order != nil {
		section.Order = *req.Order
	}
	if req.ExpectedDeliveryStart != nil {
		section.ExpectedDeliveryStart = req.ExpectedDeliveryStart
	}
	if req.ExpectedDeliveryEnd != nil {
		section.ExpectedDeliveryEnd = req.ExpectedDeliveryEnd
	}

	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return s.GetByID(ctx, proposalID)
}

// RemoveSection deletes a section; remaining siblings are renumbered to a
// contiguous 0-based sequence
func (s *ProposalService) RemoveSection(ctx context.Context, proposalID, sectionID uuid.UUID) (*domain.ProposalDTO, error) {
	if _, err := s.loadSection(ctx, proposalID, sectionID); err != nil {
		return nil, err
	}
	if err := s.sectionRepo.Delete(ctx, sectionID); err != nil {
		return nil, fmt.Errorf("failed to delete section: %w", err)
	}
	return s.GetByID(ctx, proposalID)
}

// AddBlock places a reusable block inside a section
func (s *ProposalService) AddBlock(ctx context.Context, proposalID, sectionID uuid.UUID, req *domain.CreateProposalBlockRequest) (*domain.ProposalDTO, error) {
	if _, err := s.loadSection(ctx, proposalID, sectionID); err != nil {
		return nil, err
	}
	if err := s.verifyBlockExists(ctx, req.BlockID); err != nil {
		return nil, err
	}

	order, err := s.proposalBlockRepo.NextOrder(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute block order: %w", err)
	}
	if req.Order != nil {
		order = *req.Order
	}

	pb := &domain.ProposalBlock{
		SectionID: sectionID,
		BlockID:   req.BlockID,
		Order:     order,
		Overrides: req.Overrides,
	}
	if err := s.proposalBlockRepo.Create(ctx, pb); err != nil {
		return nil, fmt.Errorf("failed to place block: %w", err)
	}
	return s.GetByID(ctx, proposalID)
}

// UpdateBlock changes a placed block's position or overrides. Passing an
// overrides record replaces the whole record; nil fields inside it clear the
// corresponding override.
func (s *ProposalService) UpdateBlock(ctx context.Context, proposalID, sectionID, blockID uuid.UUID, req *domain.UpdateProposalBlockRequest) (*domain.ProposalDTO, error) {
	pb, err := s.loadProposalBlock(ctx, proposalID, sectionID, blockID)
	if err != nil {
		return nil, err
	}

	if req.Order != nil {
		pb.Order = *req.Order
	}
	if req.Overrides != nil {
		pb.Overrides = *req.Overrides
	}

	if err := s.proposalBlockRepo.Update(ctx, pb); err != nil {
		return nil, fmt.Errorf("failed to update proposal block: %w", err)
	}
	return s.GetByID(ctx, proposalID)
}

// RemoveBlock deletes a placed block; remaining siblings are renumbered
func (s *ProposalService) RemoveBlock(ctx context.Context, proposalID, sectionID, blockID uuid.UUID) (*domain.ProposalDTO, error) {
	if _, err := s.loadProposalBlock(ctx, proposalID, sectionID, blockID); err != nil {
		return nil, err
	}
	if err := s.proposalBlockRepo.Delete(ctx, blockID); err != nil {
		return nil, fmt.Errorf("failed to delete proposal block: %w", err)
	}
	return s.GetByID(ctx, proposalID)
}

// ReplacePaymentTerms swaps the proposal's whole payment plan. Percents are
// not required to sum to 100; the renderers flag an incomplete plan instead.
func (s *ProposalService) ReplacePaymentTerms(ctx context.Context, proposalID uuid.UUID, reqs []domain.PaymentTermRequest) (*domain.ProposalDTO, error) {
	if _, err := s.loadProposal(ctx, proposalID); err != nil {
		return nil, err
	}

	terms := make([]domain.PaymentTerm, 0, len(reqs))
	for _, req := range reqs {
		terms = append(terms, domain.PaymentTerm{
			Label:   req.Label,
			Percent: req.Percent,
			Trigger: req.Trigger,
		})
	}
	if err := s.paymentTermRepo.Replace(ctx, proposalID, terms); err != nil {
		return nil, fmt.Errorf("failed to replace payment terms: %w", err)
	}
	return s.GetByID(ctx, proposalID)
}

// Send moves a draft proposal to sent, stamping SentAt and defaulting the
// validity window when none was set
func (s *ProposalService) Send(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.loadProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status != domain.ProposalStatusDraft {
		return nil, ErrInvalidStatusTransition
	}

	now := time.Now()
	proposal.Status = domain.ProposalStatusSent
	proposal.SentAt = &now
	if proposal.ValidUntil == nil {
		validUntil := now.AddDate(0, 0, defaultValidityDays)
		proposal.ValidUntil = &validUntil
	}

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to send proposal: %w", err)
	}
	s.logger.Info("proposal sent",
		zap.String("proposalID", id.String()),
		zap.Timep("validUntil", proposal.ValidUntil))
	return s.GetByID(ctx, id)
}

// Approve moves a sent proposal to approved
func (s *ProposalService) Approve(ctx context.Context, id uuid.UUID) (*domain.ProposalDTO, error) {
	proposal, err := s.loadProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal.Status != domain.ProposalStatusSent {
		return nil, ErrInvalidStatusTransition
	}

	proposal.Status = domain.ProposalStatusApproved
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to approve proposal: %w", err)
	}
	s.logger.Info("proposal approved", zap.String("proposalID", id.String()))
	return s.GetByID(ctx, id)
}

// ExpireOverdue marks sent proposals past their validity window as expired.
// Returns the number of proposals transitioned.
func (s *ProposalService) ExpireOverdue(ctx context.Context) (int, error) {
	proposals, err := s.proposalRepo.ListExpirable(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list expirable proposals: %w", err)
	}
	expired := 0
	for i := range proposals {
		if err := s.proposalRepo.UpdateStatus(ctx, proposals[i].ID, domain.ProposalStatusExpired); err != nil {
			s.logger.Error("failed to expire proposal",
				zap.String("proposalID", proposals[i].ID.String()),
				zap.Error(err))
			continue
		}
		expired++
	}
	return expired, nil
}

// LoadAggregate returns the raw proposal aggregate for the render pipeline
func (s *ProposalService) LoadAggregate(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	return s.loadProposal(ctx, id)
}

// ApplyIntroduction persists a generated introduction on the proposal
func (s *ProposalService) ApplyIntroduction(ctx context.Context, id uuid.UUID, introduction string) error {
	proposal, err := s.loadProposal(ctx, id)
	if err != nil {
		return err
	}
	proposal.Introduction = introduction
	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return fmt.Errorf("failed to update introduction: %w", err)
	}
	return nil
}

func (s *ProposalService) loadProposal(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to get proposal: %w", err)
	}
	return proposal, nil
}

func (s *ProposalService) loadSection(ctx context.Context, proposalID, sectionID uuid.UUID) (*domain.ProposalSection, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	if section.ProposalID != proposalID {
		return nil, ErrSectionMismatch
	}
	return section, nil
}

func (s *ProposalService) loadProposalBlock(ctx context.Context, proposalID, sectionID, blockID uuid.UUID) (*domain.ProposalBlock, error) {
	if _, err := s.loadSection(ctx, proposalID, sectionID); err != nil {
		return nil, err
	}
	pb, err := s.proposalBlockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalBlockNotFound
		}
		return nil, fmt.Errorf("failed to get proposal block: %w", err)
	}
	if pb.SectionID != sectionID {
		return nil, ErrProposalBlockNotFound
	}
	return pb, nil
}

func (s *ProposalService) verifyBlockExists(ctx context.Context, blockID uuid.UUID) error {
	if _, err := s.blockRepo.GetByID(ctx, blockID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlockNotFound
		}
		return fmt.Errorf("failed to verify block: %w", err)
	}
	return nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}
