package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/textgen"
)

type fakeGenerator struct {
	result *textgen.Result
	err    error

	gotFreeText  string
	gotFileTexts []string
}

func (f *fakeGenerator) GenerateIntroduction(_ context.Context, freeText string, fileTexts []string) (*textgen.Result, error) {
	f.gotFreeText = freeText
	f.gotFileTexts = fileTexts
	return f.result, f.err
}

func TestIntroductionService_Generate(t *testing.T) {
	env := newTestEnv(t)
	proposal := seedProposal(t, env)

	gen := &fakeGenerator{result: &textgen.Result{
		Introduction:      "Dear Acme, we are pleased to submit this proposal.",
		StructuredContext: &domain.StructuredContext{ClientName: "Acme", Tone: "formal"},
	}}
	svc := NewIntroductionService(gen, env.proposals, zap.NewNop())

	resp, err := svc.Generate(context.Background(), proposal.ID, &domain.GenerateIntroductionRequest{
		FreeText:  "New website for Acme, launch in Q4.",
		FileTexts: []string{"Extracted brief text."},
	})
	require.NoError(t, err)

	assert.Equal(t, "Dear Acme, we are pleased to submit this proposal.", resp.Introduction)
	require.NotNil(t, resp.StructuredContext)
	assert.Equal(t, "Acme", resp.StructuredContext.ClientName)
	assert.Equal(t, "New website for Acme, launch in Q4.", gen.gotFreeText)
	assert.Equal(t, []string{"Extracted brief text."}, gen.gotFileTexts)

	// without apply the proposal is untouched
	got, err := env.proposals.GetByID(context.Background(), proposal.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Introduction)
}

func TestIntroductionService_GenerateAndApply(t *testing.T) {
	env := newTestEnv(t)
	proposal := seedProposal(t, env)

	gen := &fakeGenerator{result: &textgen.Result{Introduction: "Generated intro."}}
	svc := NewIntroductionService(gen, env.proposals, zap.NewNop())

	_, err := svc.Generate(context.Background(), proposal.ID, &domain.GenerateIntroductionRequest{
		FreeText: "notes",
		Apply:    true,
	})
	require.NoError(t, err)

	got, err := env.proposals.GetByID(context.Background(), proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Generated intro.", got.Introduction)
}

func TestIntroductionService_UnknownProposal(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIntroductionService(&fakeGenerator{}, env.proposals, zap.NewNop())

	_, err := svc.Generate(context.Background(), uuid.New(), &domain.GenerateIntroductionRequest{FreeText: "notes"})
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestIntroductionService_BackendFailure(t *testing.T) {
	env := newTestEnv(t)
	proposal := seedProposal(t, env)

	gen := &fakeGenerator{err: errors.New("upstream timeout")}
	svc := NewIntroductionService(gen, env.proposals, zap.NewNop())

	_, err := svc.Generate(context.Background(), proposal.ID, &domain.GenerateIntroductionRequest{FreeText: "notes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "introduction generation failed")
}
