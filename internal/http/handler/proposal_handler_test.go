package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/proposal-api/internal/domain"
)

func TestProposalHandler_CreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	created := srv.createProposal(t)

	rec := srv.do(t, http.MethodGet, "/proposals/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[domain.ProposalDTO](t, rec)
	assert.Equal(t, domain.ProposalStatusDraft, got.Status)
	assert.Equal(t, 3000.0, got.TotalCost)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, 1000.0, got.Sections[0].Blocks[0].EffectivePrice)
}

func TestProposalHandler_CreateValidation(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/proposals", domain.CreateProposalRequest{Title: "No client"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	apiErr := decode[domain.APIError](t, rec)
	assert.Contains(t, apiErr.Errors, "clientName")
}

func TestProposalHandler_SectionRoutes(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)
	base := "/proposals/" + proposal.ID.String()

	rec := srv.do(t, http.MethodPost, base+"/sections", domain.CreateSectionRequest{Title: "Phase C"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.ProposalDTO](t, rec)
	require.Len(t, got.Sections, 3)

	rec = srv.do(t, http.MethodDelete, base+"/sections/"+got.Sections[1].ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[domain.ProposalDTO](t, rec)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, 0, got.Sections[0].Order)
	assert.Equal(t, 1, got.Sections[1].Order)

	// section belonging to another proposal is invisible here
	other := srv.createProposal(t)
	rec = srv.do(t, http.MethodDelete, base+"/sections/"+other.Sections[0].ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProposalHandler_BlockRoutes(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)
	qa := srv.createBlock(t, "QA", 400, 3)

	base := "/proposals/" + proposal.ID.String() + "/sections/" + proposal.Sections[0].ID.String()

	rec := srv.do(t, http.MethodPost, base+"/blocks", domain.CreateProposalBlockRequest{BlockID: qa.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.ProposalDTO](t, rec)
	require.Len(t, got.Sections[0].Blocks, 2)

	price := 450.0
	placed := got.Sections[0].Blocks[1]
	rec = srv.do(t, http.MethodPut, base+"/blocks/"+placed.ID.String(),
		domain.UpdateProposalBlockRequest{Overrides: &domain.BlockOverrides{UnitPrice: &price}})
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[domain.ProposalDTO](t, rec)
	assert.Equal(t, 450.0, got.Sections[0].Blocks[1].EffectivePrice)

	rec = srv.do(t, http.MethodDelete, base+"/blocks/"+placed.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[domain.ProposalDTO](t, rec)
	require.Len(t, got.Sections[0].Blocks, 1)
}

func TestProposalHandler_ReplacePaymentTerms(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)

	rec := srv.do(t, http.MethodPut, "/proposals/"+proposal.ID.String()+"/payment-terms",
		[]domain.PaymentTermRequest{{Label: "Upfront", Percent: 100}})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[domain.ProposalDTO](t, rec)
	require.Len(t, got.PaymentTerms, 1)
	assert.Equal(t, 3000.0, got.PaymentTerms[0].Amount)

	// percents above 100 per term are rejected
	rec = srv.do(t, http.MethodPut, "/proposals/"+proposal.ID.String()+"/payment-terms",
		[]domain.PaymentTermRequest{{Label: "Too much", Percent: 150}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProposalHandler_Lifecycle(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)
	base := "/proposals/" + proposal.ID.String()

	rec := srv.do(t, http.MethodPost, base+"/approve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "draft cannot be approved")

	rec = srv.do(t, http.MethodPost, base+"/send", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[domain.ProposalDTO](t, rec)
	assert.Equal(t, domain.ProposalStatusSent, got.Status)
	assert.NotNil(t, got.ValidUntil)

	rec = srv.do(t, http.MethodPost, base+"/send", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, base+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ProposalStatusApproved, decode[domain.ProposalDTO](t, rec).Status)
}

func TestProposalHandler_GenerateIntroduction(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)
	path := "/proposals/" + proposal.ID.String() + "/introduction"

	rec := srv.do(t, http.MethodPost, path, domain.GenerateIntroductionRequest{FreeText: "notes", Apply: true})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[domain.GenerateIntroductionResponse](t, rec)
	assert.Equal(t, "Generated intro.", resp.Introduction)

	rec = srv.do(t, http.MethodGet, "/proposals/"+proposal.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Generated intro.", decode[domain.ProposalDTO](t, rec).Introduction)

	// backend failure maps to 502
	srv.generator.result = nil
	srv.generator.err = errors.New("upstream down")
	rec = srv.do(t, http.MethodPost, path, domain.GenerateIntroductionRequest{FreeText: "notes"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestProposalHandler_DeleteAndList(t *testing.T) {
	srv := newTestServer(t)
	proposal := srv.createProposal(t)

	rec := srv.do(t, http.MethodGet, "/proposals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.ProposalListItemDTO](t, rec), 1)

	rec = srv.do(t, http.MethodDelete, "/proposals/"+proposal.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/proposals/"+proposal.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
