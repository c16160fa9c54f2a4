package docmodel

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/proposal-api/internal/domain"
)

func TestBuild_DerivesEverything(t *testing.T) {
	p := twoSectionProposal()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	doc := Build(p, now)
	require.NotNil(t, doc)
	assert.Len(t, doc.Sections, 2)
	assert.Equal(t, 3000.0, doc.Totals.Cost)
	assert.Len(t, doc.Timeline, 2)
	assert.Len(t, doc.Outline, 2+2+3)
	assert.Equal(t, now, doc.Date)
	assert.NotEmpty(t, doc.Reference)
}

func TestReferenceCode(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-4000-8000-000000000000")
	p := &domain.Proposal{BaseModel: domain.BaseModel{ID: id}}
	assert.Equal(t, "P-A1B2C3D4", ReferenceCode(p))
}

func TestBudgetRows(t *testing.T) {
	p := twoSectionProposal()
	free := &domain.Block{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Documentation", UnitPrice: 0, EstimatedDuration: 1}
	p.Sections[0].Blocks = append(p.Sections[0].Blocks, domain.ProposalBlock{
		BaseModel: domain.BaseModel{ID: uuid.New()}, BlockID: free.ID, Block: free, Order: 1,
	})

	doc := Build(p, time.Now())
	rows := doc.BudgetRows()
	require.Len(t, rows, 5)

	assert.Equal(t, BudgetRowSection, rows[0].Kind)
	assert.Equal(t, "1", rows[0].Number)
	assert.Equal(t, 1000.0, rows[0].Amount)

	assert.Equal(t, BudgetRowBlock, rows[1].Kind)
	assert.Equal(t, "1.1", rows[1].Number)
	assert.Equal(t, "Design", rows[1].Label)

	// zero-price block is skipped, section 2 follows directly
	assert.Equal(t, BudgetRowSection, rows[2].Kind)
	assert.Equal(t, "2", rows[2].Number)
	assert.Equal(t, BudgetRowBlock, rows[3].Kind)

	assert.Equal(t, BudgetRowTotal, rows[4].Kind)
	assert.Equal(t, "Total", rows[4].Label)
	assert.Equal(t, 3000.0, rows[4].Amount)
}

func TestBudgetRows_NumberingMatchesOutline(t *testing.T) {
	doc := Build(twoSectionProposal(), time.Now())
	rows := doc.BudgetRows()

	for _, row := range rows {
		if row.Kind == BudgetRowTotal {
			continue
		}
		found := false
		for _, e := range doc.Outline {
			if e.Number == row.Number {
				assert.Equal(t, e.Title, row.Label)
				found = true
				break
			}
		}
		assert.True(t, found, "budget row %s has no matching outline entry", row.Number)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme-corp"},
		{"Acme  &  Sons!", "acme-sons"},
		{"  Leading", "leading"},
		{"Trailing  ", "trailing"},
		{"ALL CAPS 2026", "all-caps-2026"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.in), "Slug(%q)", tt.in)
	}
}

func TestArtifactName(t *testing.T) {
	p := &domain.Proposal{
		BaseModel:  domain.BaseModel{ID: uuid.New()},
		Title:      "Website Relaunch",
		ClientName: "Acme & Sons",
	}
	doc := Build(p, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "proposal-acme-sons-website-relaunch-2026-08-30.pdf", doc.ArtifactName())
}

func TestHasIntroduction(t *testing.T) {
	doc := Build(&domain.Proposal{}, time.Now())
	assert.False(t, doc.HasIntroduction())

	doc.Proposal.Introduction = "\n\t "
	assert.False(t, doc.HasIntroduction())

	doc.Proposal.Introduction = "Hello."
	assert.True(t, doc.HasIntroduction())
}
