package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propelhq/proposal-api/internal/docmodel"
	"github.com/propelhq/proposal-api/internal/pdf"
	"github.com/propelhq/proposal-api/internal/render"
)

// RenderService drives the preview/PDF pipeline. Every render loads its own
// snapshot of the proposal; concurrent edits affect only later renders.
type RenderService struct {
	proposalSvc *ProposalService
	preview     *render.PreviewRenderer
	static      *render.StaticRenderer
	backend     pdf.Backend
	logger      *zap.Logger
}

func NewRenderService(
	proposalSvc *ProposalService,
	preview *render.PreviewRenderer,
	static *render.StaticRenderer,
	backend pdf.Backend,
	logger *zap.Logger,
) *RenderService {
	return &RenderService{
		proposalSvc: proposalSvc,
		preview:     preview,
		static:      static,
		backend:     backend,
		logger:      logger,
	}
}

// Preview builds the structured page model. measuredHeights, when non-empty,
// carries client-measured unit heights keyed by anchor id; missing entries
// fall back to the estimator.
func (s *RenderService) Preview(ctx context.Context, proposalID uuid.UUID, measuredHeights map[string]float64) (*render.PreviewDocument, error) {
	proposal, err := s.proposalSvc.LoadAggregate(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	doc := docmodel.Build(proposal, time.Now())
	var m docmodel.Measurer = docmodel.EstimateMeasurer{}
	if len(measuredHeights) > 0 {
		m = docmodel.FixedMeasurer{Heights: measuredHeights}
	}
	return s.preview.Render(doc, m), nil
}

// RenderPDF renders the proposal to PDF bytes and returns the artifact
// filename to serve them under
func (s *RenderService) RenderPDF(ctx context.Context, proposalID uuid.UUID) ([]byte, string, error) {
	proposal, err := s.proposalSvc.LoadAggregate(ctx, proposalID)
	if err != nil {
		return nil, "", err
	}

	doc := docmodel.Build(proposal, time.Now())
	html, err := s.static.Render(doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render document html: %w", err)
	}

	start := time.Now()
	data, err := s.backend.RenderHTML(ctx, html, pdf.DefaultPageOptions)
	if err != nil {
		return nil, "", fmt.Errorf("pdf backend failed: %w", err)
	}

	s.logger.Info("pdf rendered",
		zap.String("proposalID", proposalID.String()),
		zap.Int("bytes", len(data)),
		zap.Duration("took", time.Since(start)))
	return data, doc.ArtifactName(), nil
}
