package docmodel

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/proposal-api/internal/domain"
)

// twoSectionProposal is the canonical two-phase proposal: section A with one
// 1000/5d block, section B with one 2000/10d block.
func twoSectionProposal() *domain.Proposal {
	blockA := &domain.Block{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Design", UnitPrice: 1000, EstimatedDuration: 5}
	blockB := &domain.Block{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Build", UnitPrice: 2000, EstimatedDuration: 10}

	return &domain.Proposal{
		BaseModel:  domain.BaseModel{ID: uuid.New()},
		Title:      "Website relaunch",
		ClientName: "Acme",
		Sections: []domain.ProposalSection{
			{
				BaseModel: domain.BaseModel{ID: uuid.New()},
				Title:     "Phase A",
				Order:     0,
				Blocks: []domain.ProposalBlock{
					{BaseModel: domain.BaseModel{ID: uuid.New()}, BlockID: blockA.ID, Block: blockA, Order: 0},
				},
			},
			{
				BaseModel: domain.BaseModel{ID: uuid.New()},
				Title:     "Phase B",
				Order:     1,
				Blocks: []domain.ProposalBlock{
					{BaseModel: domain.BaseModel{ID: uuid.New()}, BlockID: blockB.ID, Block: blockB, Order: 0},
				},
			},
		},
	}
}

func TestComputeTotals_TwoSections(t *testing.T) {
	sections := ResolveSections(twoSectionProposal())
	totals := ComputeTotals(sections)

	assert.Equal(t, 3000.0, totals.Cost)
	assert.Equal(t, 15.0, totals.Duration)
}

func TestComputeTotals_NeverNaN(t *testing.T) {
	bad := &domain.Block{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Bad", UnitPrice: math.NaN(), EstimatedDuration: math.Inf(1)}
	p := twoSectionProposal()
	p.Sections[0].Blocks = append(p.Sections[0].Blocks, domain.ProposalBlock{
		BaseModel: domain.BaseModel{ID: uuid.New()}, BlockID: bad.ID, Block: bad, Order: 1,
	})

	totals := ComputeTotals(ResolveSections(p))
	assert.False(t, math.IsNaN(totals.Cost))
	assert.False(t, math.IsNaN(totals.Duration))
	assert.GreaterOrEqual(t, totals.Cost, 0.0)
	assert.Equal(t, 3000.0, totals.Cost)
}

func TestBuildTimeline_SequentialWeeks(t *testing.T) {
	items := BuildTimeline(ResolveSections(twoSectionProposal()))
	require.Len(t, items, 2)

	// 5 days -> 1 week, 10 days -> 2 weeks
	assert.Equal(t, "Phase A", items[0].Name)
	assert.Equal(t, 1, items[0].StartWeek)
	assert.Equal(t, 1, items[0].EndWeek)
	assert.Equal(t, 1, items[0].DurationWeeks)

	assert.Equal(t, "Phase B", items[1].Name)
	assert.Equal(t, 2, items[1].StartWeek)
	assert.Equal(t, 3, items[1].EndWeek)
	assert.Equal(t, 2, items[1].DurationWeeks)
}

func TestBuildTimeline_Monotonicity(t *testing.T) {
	p := twoSectionProposal()
	extra := &domain.Block{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Test", EstimatedDuration: 7}
	p.Sections = append(p.Sections, domain.ProposalSection{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Title:     "Phase C",
		Order:     2,
		Blocks: []domain.ProposalBlock{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, BlockID: extra.ID, Block: extra, Order: 0},
		},
	})

	items := BuildTimeline(ResolveSections(p))
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.Equal(t, items[i-1].EndWeek+1, items[i].StartWeek,
			"section %d must start the week after section %d ends", i, i-1)
	}
}

func TestBuildTimeline_ZeroDurationExcluded(t *testing.T) {
	p := twoSectionProposal()
	free := &domain.Block{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Warranty", UnitPrice: 0, EstimatedDuration: 0}
	p.Sections = append(p.Sections, domain.ProposalSection{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Title:     "Aftercare",
		Order:     2,
		Blocks: []domain.ProposalBlock{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, BlockID: free.ID, Block: free, Order: 0},
		},
	})

	items := BuildTimeline(ResolveSections(p))
	require.Len(t, items, 2)
	for _, item := range items {
		assert.NotEqual(t, "Aftercare", item.Name)
	}
}

func TestBuildTimeline_ExplicitOverridesTrusted(t *testing.T) {
	p := twoSectionProposal()
	p.Sections[1].ExpectedDeliveryStart = intPtr(4)
	p.Sections[1].ExpectedDeliveryEnd = intPtr(6)

	items := BuildTimeline(ResolveSections(p))
	require.Len(t, items, 2)
	assert.Equal(t, 4, items[1].StartWeek)
	assert.Equal(t, 6, items[1].EndWeek)
}

func TestBuildTimeline_CounterResumesAfterOverride(t *testing.T) {
	p := twoSectionProposal()
	p.Sections[0].ExpectedDeliveryEnd = intPtr(5)

	extra := &domain.Block{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Deploy", EstimatedDuration: 5}
	p.Sections = append(p.Sections, domain.ProposalSection{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Title:     "Phase C",
		Order:     2,
		Blocks: []domain.ProposalBlock{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, BlockID: extra.ID, Block: extra, Order: 0},
		},
	})

	items := BuildTimeline(ResolveSections(p))
	require.Len(t, items, 3)
	assert.Equal(t, 5, items[0].EndWeek)
	assert.Equal(t, 6, items[1].StartWeek)
}

func TestBuildTimeline_DescriptionJoinsBlockTitles(t *testing.T) {
	p := twoSectionProposal()
	second := &domain.Block{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Wireframes", EstimatedDuration: 3}
	p.Sections[0].Blocks = append(p.Sections[0].Blocks, domain.ProposalBlock{
		BaseModel: domain.BaseModel{ID: uuid.New()}, BlockID: second.ID, Block: second, Order: 1,
	})

	items := BuildTimeline(ResolveSections(p))
	assert.Equal(t, "Design, Wireframes", items[0].Description)
}

func TestPaymentAmount(t *testing.T) {
	assert.Equal(t, 1200.0, PaymentAmount(3000, 40))
	assert.Equal(t, 1000.0, PaymentAmount(3000, 33.34))
	assert.Equal(t, 0.0, PaymentAmount(math.NaN(), 40))
}

func TestPaymentLines(t *testing.T) {
	terms := []domain.PaymentTerm{
		{Label: "On order", Percent: 40, Trigger: "upon order"},
		{Label: "On delivery", Percent: 60},
	}

	lines, complete := PaymentLines(terms, 3000)
	require.Len(t, lines, 2)
	assert.True(t, complete)
	assert.Equal(t, 1200.0, lines[0].Amount)
	assert.Equal(t, 1800.0, lines[1].Amount)
	assert.Equal(t, "upon order", lines[0].Trigger)
}

func TestPaymentLines_IncompleteFlagged(t *testing.T) {
	lines, complete := PaymentLines([]domain.PaymentTerm{{Label: "Deposit", Percent: 30}}, 1000)
	require.Len(t, lines, 1)
	assert.False(t, complete)

	lines, complete = PaymentLines(nil, 1000)
	assert.Empty(t, lines)
	assert.False(t, complete)
}

func TestSortedSections_StableOnTies(t *testing.T) {
	p := &domain.Proposal{
		Sections: []domain.ProposalSection{
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "First inserted", Order: 1},
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Second inserted", Order: 1},
			{BaseModel: domain.BaseModel{ID: uuid.New()}, Title: "Leader", Order: 0},
		},
	}

	sorted := p.SortedSections()
	assert.Equal(t, "Leader", sorted[0].Title)
	assert.Equal(t, "First inserted", sorted[1].Title)
	assert.Equal(t, "Second inserted", sorted[2].Title)
}
