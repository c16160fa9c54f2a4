// Package docmodel implements the proposal document pipeline: override
// resolution, price/duration aggregation, the numbered document outline and
// the page layout engine. Everything in this package is pure computation over
// an immutable proposal snapshot; both renderers consume its output.
package docmodel

import (
	"github.com/google/uuid"

	"github.com/propelhq/proposal-api/internal/domain"
)

// ResolvedBlock holds the effective values of a proposal block after
// applying its overrides on top of the referenced base block.
type ResolvedBlock struct {
	ID        uuid.UUID
	BlockID   uuid.UUID
	Title     string
	Content   string
	UnitPrice float64
	Duration  float64 // days
}

// ResolveBlock computes effective values for one proposal block. Per field
// the override wins when set (text overrides must also be non-empty), then
// the base block's field, then the zero value. A nil base is not an error:
// resolution degrades to overrides-only with zero-valued fallbacks.
func ResolveBlock(pb domain.ProposalBlock, base *domain.Block) ResolvedBlock {
	if base == nil {
		base = pb.Block
	}
	r := ResolvedBlock{ID: pb.ID, BlockID: pb.BlockID}

	r.Title = resolveText(pb.Overrides.Title, func() string {
		if base != nil {
			return base.Title
		}
		return ""
	})
	r.Content = resolveText(pb.Overrides.Content, func() string {
		if base != nil {
			return base.Content
		}
		return ""
	})
	r.UnitPrice = resolveNumber(pb.Overrides.UnitPrice, func() float64 {
		if base != nil {
			return base.UnitPrice
		}
		return 0
	})
	r.Duration = resolveNumber(pb.Overrides.EstimatedDuration, func() float64 {
		if base != nil {
			return base.EstimatedDuration
		}
		return 0
	})
	return r
}

func resolveText(override *string, base func() string) string {
	if override != nil && *override != "" {
		return *override
	}
	return base()
}

func resolveNumber(override *float64, base func() float64) float64 {
	if override != nil {
		return SafeNumber(*override)
	}
	return SafeNumber(base())
}
