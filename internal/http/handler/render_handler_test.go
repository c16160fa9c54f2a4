package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/render"
)

func TestRenderHandler_Preview(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)

	rec := srv.do(t, http.MethodGet, "/proposals/"+proposal.ID.String()+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	preview := decode[render.PreviewDocument](t, rec)
	assert.Equal(t, proposal.ID.String(), preview.ProposalID)
	assert.NotEmpty(t, preview.Pages)
	assert.Equal(t, "cover", string(preview.Pages[0].Kind))
	assert.True(t, preview.PaymentComplete)
}

func TestRenderHandler_PreviewMeasured(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)

	rec := srv.do(t, http.MethodPost, "/proposals/"+proposal.ID.String()+"/preview",
		domain.MeasuredHeightsRequest{Heights: map[string]float64{"section-x": 2000}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[render.PreviewDocument](t, rec).Pages)
}

func TestRenderHandler_PDF(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)

	rec := srv.do(t, http.MethodGet, "/proposals/"+proposal.ID.String()+"/pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="proposal-acme-website-relaunch-`)
	assert.Equal(t, "%PDF-1.7 fake", rec.Body.String())
}

func TestRenderHandler_PDFBackendFailure(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)

	srv.backend.data = nil
	srv.backend.err = errors.New("chrome crashed")

	rec := srv.do(t, http.MethodGet, "/proposals/"+proposal.ID.String()+"/pdf", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRenderHandler_UnknownProposal(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/proposals/00000000-0000-4000-8000-000000000000/preview", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/proposals/00000000-0000-4000-8000-000000000000/pdf", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
