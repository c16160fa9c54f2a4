package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/repository"
	"github.com/propelhq/proposal-api/internal/service"
)

type BlockHandler struct {
	blockService *service.BlockService
	logger       *zap.Logger
}

func NewBlockHandler(blockService *service.BlockService, logger *zap.Logger) *BlockHandler {
	return &BlockHandler{
		blockService: blockService,
		logger:       logger,
	}
}

// @Summary List content blocks
// @Tags Blocks
// @Produce json
// @Param category query string false "Filter by category"
// @Param public query bool false "Filter by public visibility"
// @Param search query string false "Filter by title substring"
// @Success 200 {array} domain.BlockDTO
// @Router /blocks [get]
func (h *BlockHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.BlockFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	if p := r.URL.Query().Get("public"); p != "" {
		isPublic := p == "true"
		filter.Public = &isPublic
	}

	blocks, err := h.blockService.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list blocks", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list blocks")
		return
	}

	respondJSON(w, http.StatusOK, blocks)
}

// @Summary Create content block
// @Tags Blocks
// @Accept json
// @Produce json
// @Param request body domain.CreateBlockRequest true "Block data"
// @Success 201 {object} domain.BlockDTO
// @Failure 400 {object} domain.ErrorResponse
// @Router /blocks [post]
func (h *BlockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	block, err := h.blockService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create block", zap.Error(err))
		h.handleBlockError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/blocks/"+block.ID.String())
	respondJSON(w, http.StatusCreated, block)
}

// @Summary Get content block
// @Tags Blocks
// @Produce json
// @Param id path string true "Block ID"
// @Success 200 {object} domain.BlockDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /blocks/{id} [get]
func (h *BlockHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid block ID: must be a valid UUID")
		return
	}

	block, err := h.blockService.GetByID(r.Context(), id)
	if err != nil {
		h.handleBlockError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, block)
}

// @Summary Update content block
// @Description Edits propagate to every proposal that has not overridden the edited field.
// @Tags Blocks
// @Accept json
// @Produce json
// @Param id path string true "Block ID"
// @Param request body domain.UpdateBlockRequest true "Fields to update"
// @Success 200 {object} domain.BlockDTO
// @Failure 404 {object} domain.ErrorResponse
// @Router /blocks/{id} [put]
func (h *BlockHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid block ID: must be a valid UUID")
		return
	}

	var req domain.UpdateBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	block, err := h.blockService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update block", zap.Error(err), zap.String("block_id", id.String()))
		h.handleBlockError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, block)
}

// @Summary Delete content block
// @Tags Blocks
// @Param id path string true "Block ID"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Router /blocks/{id} [delete]
func (h *BlockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid block ID: must be a valid UUID")
		return
	}

	if err := h.blockService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete block", zap.Error(err), zap.String("block_id", id.String()))
		h.handleBlockError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BlockHandler) handleBlockError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBlockNotFound):
		respondWithError(w, http.StatusNotFound, "Block not found")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
