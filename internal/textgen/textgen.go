// Package textgen wraps the external introduction-generation service. The
// core treats it as opaque: free text plus extracted file texts go in, a
// generated introduction paragraph and its structured context come out.
package textgen

import (
	"context"

	"github.com/propelhq/proposal-api/internal/domain"
)

// Result is the contract output of one generation call. StructuredContext
// is nil when the model reply omitted it.
type Result struct {
	Introduction      string                    `json:"introduction"`
	StructuredContext *domain.StructuredContext `json:"structuredContext"`
}

// Generator produces proposal introductions from unstructured input
type Generator interface {
	GenerateIntroduction(ctx context.Context, freeText string, fileTexts []string) (*Result, error)
}
