package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/proposal-api/internal/domain"
)

func TestBlockHandler_CreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	created := srv.createBlock(t, "Design", 1000, 5)

	rec := srv.do(t, http.MethodPost, "/blocks", domain.CreateBlockRequest{Title: "Probe"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/api/v1/blocks/")

	rec = srv.do(t, http.MethodGet, "/blocks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.BlockDTO](t, rec)
	assert.Equal(t, "Design", got.Title)
	assert.Equal(t, 1000.0, got.UnitPrice)
}

func TestBlockHandler_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/blocks", domain.CreateBlockRequest{Title: ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	apiErr := decode[domain.APIError](t, rec)
	assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
	assert.Contains(t, apiErr.Errors, "title")
}

func TestBlockHandler_MalformedJSON(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/blocks", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlockHandler_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/blocks/00000000-0000-4000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/blocks/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlockHandler_UpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)
	created := srv.createBlock(t, "Design", 1000, 5)

	price := 1500.0
	rec := srv.do(t, http.MethodPut, "/blocks/"+created.ID.String(), domain.UpdateBlockRequest{UnitPrice: &price})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1500.0, decode[domain.BlockDTO](t, rec).UnitPrice)

	rec = srv.do(t, http.MethodDelete, "/blocks/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/blocks/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlockHandler_List(t *testing.T) {
	srv := newTestServer(t)
	srv.createBlock(t, "Design", 1000, 5)
	srv.createBlock(t, "Build", 2000, 10)

	rec := srv.do(t, http.MethodGet, "/blocks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	blocks := decode[[]domain.BlockDTO](t, rec)
	assert.Len(t, blocks, 2)
}
