package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/service"
)

type RenderHandler struct {
	renderService *service.RenderService
	logger        *zap.Logger
}

func NewRenderHandler(renderService *service.RenderService, logger *zap.Logger) *RenderHandler {
	return &RenderHandler{
		renderService: renderService,
		logger:        logger,
	}
}

// @Summary Preview proposal
// @Description Returns the paginated page model using estimated content heights.
// @Tags Rendering
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} render.PreviewDocument
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/preview [get]
func (h *RenderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	preview, err := h.renderService.Preview(r.Context(), id, nil)
	if err != nil {
		h.handleRenderError(w, err, id)
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

// @Summary Preview proposal with measured heights
// @Description Re-paginates using client-measured content heights keyed by anchor id.
// @Description Units without a measurement fall back to the estimator.
// @Tags Rendering
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body domain.MeasuredHeightsRequest true "Measured heights"
// @Success 200 {object} render.PreviewDocument
// @Failure 404 {object} domain.ErrorResponse
// @Router /proposals/{id}/preview [post]
func (h *RenderHandler) PreviewMeasured(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	var req domain.MeasuredHeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	preview, err := h.renderService.Preview(r.Context(), id, req.Heights)
	if err != nil {
		h.handleRenderError(w, err, id)
		return
	}

	respondJSON(w, http.StatusOK, preview)
}

// @Summary Download proposal PDF
// @Description Renders the proposal to PDF through the headless-browser backend.
// @Tags Rendering
// @Produce application/pdf
// @Param id path string true "Proposal ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.ErrorResponse
// @Failure 502 {object} domain.ErrorResponse "Rendering backend failed"
// @Router /proposals/{id}/pdf [get]
func (h *RenderHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid proposal ID: must be a valid UUID")
		return
	}

	data, filename, err := h.renderService.RenderPDF(r.Context(), id)
	if err != nil {
		h.handleRenderError(w, err, id)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (h *RenderHandler) handleRenderError(w http.ResponseWriter, err error, id uuid.UUID) {
	if errors.Is(err, service.ErrProposalNotFound) {
		respondWithError(w, http.StatusNotFound, "Proposal not found")
		return
	}
	h.logger.Error("rendering failed", zap.Error(err), zap.String("proposal_id", id.String()))
	respondWithError(w, http.StatusBadGateway, "Document rendering failed")
}
