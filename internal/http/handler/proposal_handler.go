package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/service"
)

type ProposalHandler struct {
	proposalService     *service.ProposalService
	introductionService *service.IntroductionService
	logger              *zap.Logger
}

func NewProposalHandler(
	proposalService *service.ProposalService,
	introductionService *service.IntroductionService,
	logger *zap.Logger,
) *ProposalHandler {
	return &ProposalHandler{
		proposalService:     proposalService,
		introductionService: introductionService,
		logger:              logger,
	}
}

// @Summary List proposals
// @Tags Proposals
// @Produce json
// @Param status query string false "Filter by status" Enums(draft, sent, approved, expired)
// @Success 200 {array} domain.ProposalListItemDTO
// @Router /proposals [get]
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.ProposalStatus(r.URL.Query().Get("status"))

	proposals, err := h.proposalService.List(r.Context(), status)
	if err != nil {
		h.logger.Error("failed to list proposals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list proposals")
		return
	}

	respondJSON(w, http.StatusOK, proposals)
}

// @Summary Create proposal
// @Description Creates a proposal, optionally with initial sections, blocks and payment terms.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param request body domain.CreateProposalRequest true "Proposal data"
// @Success 201 {object} domain.ProposalDTO
// @Failure 400 {object} domain.ErrorResponse
// @Router /proposals [post]
func (h *ProposalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create proposal", zap.Error(err))
		h.handleProposalError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/proposals/"+proposal.ID.String())
	respondJSON(w, http.StatusCreated, proposal)
}

// @Summary Get proposal
// @Description Returns the full aggregate with override resolution applied (effective values per block).
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id} [get]
func (h *ProposalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}

	proposal, err := h.proposalService.GetByID(r.Context(), id)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Update proposal
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body domain.UpdateProposalRequest true "Fields to update"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id} [put]
func (h *ProposalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update proposal", zap.Error(err), zap.String("proposal_id", id.String()))
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Delete proposal
// @Description Deletes the proposal with its sections, placed blocks and payment terms.
// @Tags Proposals
// @Param id path string true "Proposal ID"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id} [delete]
func (h *ProposalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}

	if err := h.proposalService.Delete(r.Context(), id); err != nil {
		h.handleProposalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary Add section
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body domain.CreateSectionRequest true "Section data"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/sections [post]
func (h *ProposalHandler) AddSection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}

	var req domain.CreateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.AddSection(r.Context(), id, &req)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Update section
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param sectionId path string true "Section ID"
// @Param request body domain.UpdateSectionRequest true "Fields to update"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/sections/{sectionId} [put]
func (h *ProposalHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	sectionID, err := uuid.Parse(chi.URLParam(r, "sectionId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid section ID: must be a valid UUID")
		return
	}

	var req domain.UpdateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.UpdateSection(r.Context(), id, sectionID, &req)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Remove section
// @Description Removes a section; remaining sections are renumbered contiguously.
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Param sectionId path string true "Section ID"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/sections/{sectionId} [delete]
func (h *ProposalHandler) RemoveSection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	sectionID, err := uuid.Parse(chi.URLParam(r, "sectionId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid section ID: must be a valid UUID")
		return
	}

	proposal, err := h.proposalService.RemoveSection(r.Context(), id, sectionID)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Place block in section
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param sectionId path string true "Section ID"
// @Param request body domain.CreateProposalBlockRequest true "Block placement"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/sections/{sectionId}/blocks [post]
func (h *ProposalHandler) AddBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	sectionID, err := uuid.Parse(chi.URLParam(r, "sectionId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid section ID: must be a valid UUID")
		return
	}

	var req domain.CreateProposalBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	proposal, err := h.proposalService.AddBlock(r.Context(), id, sectionID, &req)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Update placed block
// @Description Changes position or replaces the override record. Nil override fields inherit from the base block.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param sectionId path string true "Section ID"
// @Param blockId path string true "Placed block ID"
// @Param request body domain.UpdateProposalBlockRequest true "Fields to update"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/sections/{sectionId}/blocks/{blockId} [put]
func (h *ProposalHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	sectionID, err := uuid.Parse(chi.URLParam(r, "sectionId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid section ID: must be a valid UUID")
		return
	}
	blockID, err := uuid.Parse(chi.URLParam(r, "blockId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid block ID: must be a valid UUID")
		return
	}

	var req domain.UpdateProposalBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	proposal, err := h.proposalService.UpdateBlock(r.Context(), id, sectionID, blockID, &req)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Remove placed block
// @Description Removes a placed block; remaining blocks in the section are renumbered contiguously.
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Param sectionId path string true "Section ID"
// @Param blockId path string true "Placed block ID"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/sections/{sectionId}/blocks/{blockId} [delete]
func (h *ProposalHandler) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}
	sectionID, err := uuid.Parse(chi.URLParam(r, "sectionId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid section ID: must be a valid UUID")
		return
	}
	blockID, err := uuid.Parse(chi.URLParam(r, "blockId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid block ID: must be a valid UUID")
		return
	}

	proposal, err := h.proposalService.RemoveBlock(r.Context(), id, sectionID, blockID)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Replace payment terms
// @Description Replaces the whole payment plan. Percents are not required to sum to 100.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body []domain.PaymentTermRequest true "Payment plan"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/payment-terms [put]
func (h *ProposalHandler) ReplacePaymentTerms(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}

	var reqs []domain.PaymentTermRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	for _, req := range reqs {
		if err := validate.Struct(req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	proposal, err := h.proposalService.ReplacePaymentTerms(r.Context(), id, reqs)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Generate introduction
// @Description Generates an introduction from free text and extracted file contents. Set apply=true to persist it.
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body domain.GenerateIntroductionRequest true "Generation input"
// @Success 200 {object} domain.GenerateIntroductionResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 502 {object} domain.ErrorResponse "Generation backend failed"
// @Router /proposals/{id}/introduction [post]
func (h *ProposalHandler) GenerateIntroduction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}

	var req domain.GenerateIntroductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	result, err := h.introductionService.Generate(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProposalNotFound) {
			respondWithError(w, http.StatusNotFound, "Proposal not found")
			return
		}
		h.logger.Error("introduction generation failed", zap.Error(err), zap.String("proposal_id", id.String()))
		respondWithError(w, http.StatusBadGateway, "Introduction generation failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Send proposal
// @Description Moves a draft proposal to sent, stamping the sent time and defaulting the validity window.
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Proposal is not in draft"
// @Router /proposals/{id}/send [post]
func (h *ProposalHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}

	proposal, err := h.proposalService.Send(r.Context(), id)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// @Summary Approve proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} domain.ProposalDTO
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Proposal is not sent"
// @Router /proposals/{id}/approve [post]
func (h *ProposalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.proposalID(w, r)
	if !ok {
		return
	}

	proposal, err := h.proposalService.Approve(r.Context(), id)
	if err != nil {
		h.handleProposalError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

func (h *ProposalHandler) proposalID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProposalHandler) handleProposalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProposalNotFound):
		respondWithError(w, http.StatusNotFound, "Proposal not found")
	case errors.Is(err, service.ErrSectionNotFound), errors.Is(err, service.ErrSectionMismatch):
		respondWithError(w, http.StatusNotFound, "Section not found")
	case errors.Is(err, service.ErrProposalBlockNotFound):
		respondWithError(w, http.StatusNotFound, "Block not found in section")
	case errors.Is(err, service.ErrBlockNotFound):
		respondWithError(w, http.StatusNotFound, "Referenced block not found")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		respondWithError(w, http.StatusConflict, "Invalid status transition")
	case errors.Is(err, service.ErrInvalidDate):
		respondWithError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
