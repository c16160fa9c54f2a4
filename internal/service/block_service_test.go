package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propelhq/proposal-api/internal/domain"
	"github.com/propelhq/proposal-api/internal/repository"
)

func TestBlockService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	dto, err := env.blocks.Create(context.Background(), &domain.CreateBlockRequest{
		Title:             "Discovery workshop",
		Content:           "Two day on-site workshop.",
		Categories:        []string{"discovery", "workshop"},
		EstimatedDuration: 2,
		UnitPrice:         500,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, dto.ID)
	assert.True(t, dto.IsPublic, "blocks are public unless stated otherwise")
	assert.Equal(t, []string{"discovery", "workshop"}, dto.Categories)
	assert.NotEmpty(t, dto.CreatedAt)
}

func TestBlockService_GetByID(t *testing.T) {
	env := newTestEnv(t)
	created := seedBlock(t, env, "Design", 1000, 5)

	dto, err := env.blocks.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design", dto.Title)
	assert.Equal(t, 1000.0, dto.UnitPrice)

	_, err = env.blocks.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestBlockService_List(t *testing.T) {
	env := newTestEnv(t)
	seedBlock(t, env, "Design", 1000, 5)
	seedBlock(t, env, "Build", 2000, 10)

	dtos, err := env.blocks.List(context.Background(), repository.BlockFilter{})
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "Build", dtos[0].Title, "listing is ordered by title")
	assert.Equal(t, "Design", dtos[1].Title)
}

func TestBlockService_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := seedBlock(t, env, "Design", 1000, 5)

	price := 1200.0
	private := false
	dto, err := env.blocks.Update(ctx, created.ID, &domain.UpdateBlockRequest{
		UnitPrice: &price,
		IsPublic:  &private,
	})
	require.NoError(t, err)

	assert.Equal(t, "Design", dto.Title, "unset fields keep their values")
	assert.Equal(t, 1200.0, dto.UnitPrice)
	assert.False(t, dto.IsPublic)

	_, err = env.blocks.Update(ctx, uuid.New(), &domain.UpdateBlockRequest{UnitPrice: &price})
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestBlockService_DeleteReferencedBlockDegrades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	block := seedBlock(t, env, "Workshop", 500, 2)
	title := "Pinned workshop"
	price := 750.0
	proposal, err := env.proposals.Create(ctx, &domain.CreateProposalRequest{
		Title:      "Website relaunch",
		ClientName: "Acme",
		Sections: []domain.CreateSectionRequest{
			{
				Title: "Discovery",
				Blocks: []domain.CreateProposalBlockRequest{
					{BlockID: block.ID, Overrides: domain.BlockOverrides{Title: &title, UnitPrice: &price}},
				},
			},
		},
	})
	require.NoError(t, err)

	// deletion is allowed even while referenced
	require.NoError(t, env.blocks.Delete(ctx, block.ID))

	// the placement survives; resolution degrades to the override values
	proposal, err = env.proposals.GetByID(ctx, proposal.ID)
	require.NoError(t, err)
	require.Len(t, proposal.Sections[0].Blocks, 1)
	pb := proposal.Sections[0].Blocks[0]
	assert.Equal(t, "Pinned workshop", pb.EffectiveTitle)
	assert.Equal(t, 750.0, pb.EffectivePrice)
	assert.Equal(t, 0.0, pb.EffectiveDuration, "inherited fields of a deleted block resolve to zero values")
	assert.Equal(t, 750.0, proposal.TotalCost)
}

func TestBlockService_DeleteNotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.blocks.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBlockNotFound)
}
