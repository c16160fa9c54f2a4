package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/pdf"
	"github.com/propelhq/proposal-api/internal/render"
	"github.com/propelhq/proposal-api/internal/repository"
	"github.com/propelhq/proposal-api/internal/service"
	"github.com/propelhq/proposal-api/internal/testutil"
	"github.com/propelhq/proposal-api/internal/textgen"
)

type stubGenerator struct {
	result *textgen.Result
	err    error
}

func (s *stubGenerator) GenerateIntroduction(context.Context, string, []string) (*textgen.Result, error) {
	return s.result, s.err
}

type stubBackend struct {
	data []byte
	err  error
}

func (s *stubBackend) RenderHTML(context.Context, string, pdf.PageOptions) ([]byte, error) {
	return s.data, s.err
}

type testServer struct {
	router    chi.Router
	blocks    *service.BlockService
	proposals *service.ProposalService
	generator *stubGenerator
	backend   *stubBackend
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zap.NewNop()

	blockRepo := repository.NewBlockRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	proposalBlockRepo := repository.NewProposalBlockRepository(db)
	paymentTermRepo := repository.NewPaymentTermRepository(db)

	blockService := service.NewBlockService(blockRepo, proposalBlockRepo, log)
	proposalService := service.NewProposalService(proposalRepo, sectionRepo, proposalBlockRepo, paymentTermRepo, blockRepo, log)

	generator := &stubGenerator{result: &textgen.Result{Introduction: "Generated intro."}}
	introductionService := service.NewIntroductionService(generator, proposalService, log)

	contact := render.ContactInfo{CompanyName: "Propel Consulting"}
	static, err := render.NewStaticRenderer(contact)
	require.NoError(t, err)
	backend := &stubBackend{data: []byte("%PDF-1.7 fake")}
	renderService := service.NewRenderService(proposalService, render.NewPreviewRenderer(contact), static, backend, log)

	blockHandler := NewBlockHandler(blockService, log)
	proposalHandler := NewProposalHandler(proposalService, introductionService, log)
	renderHandler := NewRenderHandler(renderService, log)

	r := chi.NewRouter()
	r.Route("/blocks", func(r chi.Router) {
		r.Get("/", blockHandler.List)
		r.Post("/", blockHandler.Create)
		r.Get("/{id}", blockHandler.GetByID)
		r.Put("/{id}", blockHandler.Update)
		r.Delete("/{id}", blockHandler.Delete)
	})
	r.Route("/proposals", func(r chi.Router) {
		r.Get("/", proposalHandler.List)
		r.Post("/", proposalHandler.Create)
		r.Get("/{id}", proposalHandler.GetByID)
		r.Put("/{id}", proposalHandler.Update)
		r.Delete("/{id}", proposalHandler.Delete)
		r.Post("/{id}/sections", proposalHandler.AddSection)
		r.Put("/{id}/sections/{sectionId}", proposalHandler.UpdateSection)
		r.Delete("/{id}/sections/{sectionId}", proposalHandler.RemoveSection)
		r.Post("/{id}/sections/{sectionId}/blocks", proposalHandler.AddBlock)
		r.Put("/{id}/sections/{sectionId}/blocks/{blockId}", proposalHandler.UpdateBlock)
		r.Delete("/{id}/sections/{sectionId}/blocks/{blockId}", proposalHandler.RemoveBlock)
		r.Put("/{id}/payment-terms", proposalHandler.ReplacePaymentTerms)
		r.Post("/{id}/introduction", proposalHandler.GenerateIntroduction)
		r.Post("/{id}/send", proposalHandler.Send)
		r.Post("/{id}/approve", proposalHandler.Approve)
		r.Get("/{id}/preview", renderHandler.Preview)
		r.Post("/{id}/preview", renderHandler.PreviewMeasured)
		r.Get("/{id}/pdf", renderHandler.PDF)
	})

	return &testServer{
		router:    r,
		blocks:    blockService,
		proposals: proposalService,
		generator: generator,
		backend:   backend,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *testServer) createBlock(t *testing.T, title string, price, duration float64) domain.BlockDTO {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/blocks", domain.CreateBlockRequest{
		Title:             title,
		Content:           title + " scope.",
		UnitPrice:         price,
		EstimatedDuration: duration,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.BlockDTO](t, rec)
}

func (s *testServer) createProposal(t *testing.T) domain.ProposalDTO {
	t.Helper()
	design := s.createBlock(t, "Design", 1000, 5)
	build := s.createBlock(t, "Build", 2000, 10)

	rec := s.do(t, http.MethodPost, "/proposals", domain.CreateProposalRequest{
		Title:      "Website relaunch",
		ClientName: "Acme",
		Sections: []domain.CreateSectionRequest{
			{Title: "Phase A", Blocks: []domain.CreateProposalBlockRequest{{BlockID: design.ID}}},
			{Title: "Phase B", Blocks: []domain.CreateProposalBlockRequest{{BlockID: build.ID}}},
		},
		PaymentTerms: []domain.PaymentTermRequest{
			{Label: "On order", Percent: 40},
			{Label: "On delivery", Percent: 60},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.ProposalDTO](t, rec)
}
