package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses

type BlockDTO struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content,omitempty"`
	Categories        []string  `json:"categories"`
	EstimatedDuration float64   `json:"estimatedDuration"`
	UnitPrice         float64   `json:"unitPrice"`
	IsPublic          bool      `json:"isPublic"`
	CreatedAt         string    `json:"createdAt"` // ISO 8601
	UpdatedAt         string    `json:"updatedAt"` // ISO 8601
}

type ProposalBlockDTO struct {
	ID        uuid.UUID      `json:"id"`
	BlockID   uuid.UUID      `json:"blockId"`
	Order     int            `json:"order"`
	Overrides BlockOverrides `json:"overrides"`
	// Effective values after override resolution
	EffectiveTitle    string  `json:"effectiveTitle"`
	EffectiveContent  string  `json:"effectiveContent,omitempty"`
	EffectivePrice    float64 `json:"effectiveUnitPrice"`
	EffectiveDuration float64 `json:"effectiveDuration"`
}

type ProposalSectionDTO struct {
	ID                    uuid.UUID          `json:"id"`
	Title                 string             `json:"title"`
	Order                 int                `json:"order"`
	ExpectedDeliveryStart *int               `json:"expectedDeliveryStart,omitempty"`
	ExpectedDeliveryEnd   *int               `json:"expectedDeliveryEnd,omitempty"`
	Blocks                []ProposalBlockDTO `json:"blocks"`
	SubtotalCost          float64            `json:"subtotalCost"`
	SubtotalDuration      float64            `json:"subtotalDuration"`
}

type PaymentTermDTO struct {
	ID      uuid.UUID `json:"id"`
	Label   string    `json:"label"`
	Percent float64   `json:"percent"`
	Trigger string    `json:"trigger,omitempty"`
	Amount  float64   `json:"amount"` // round(totalCost * percent / 100)
}

type ProposalDTO struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	ClientName    string               `json:"clientName"`
	Status        ProposalStatus       `json:"status"`
	Introduction  string               `json:"introduction,omitempty"`
	ValidUntil    *string              `json:"validUntil,omitempty"`
	SentAt        *string              `json:"sentAt,omitempty"`
	Sections      []ProposalSectionDTO `json:"sections"`
	PaymentTerms  []PaymentTermDTO     `json:"paymentTerms,omitempty"`
	TotalCost     float64              `json:"totalCost"`
	TotalDuration float64              `json:"totalDuration"`
	CreatedAt     string               `json:"createdAt"`
	UpdatedAt     string               `json:"updatedAt"`
}

// ProposalListItemDTO is the compact shape used by list endpoints
type ProposalListItemDTO struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	ClientName   string         `json:"clientName"`
	Status       ProposalStatus `json:"status"`
	SectionCount int            `json:"sectionCount"`
	TotalCost    float64        `json:"totalCost"`
	CreatedAt    string         `json:"createdAt"`
	UpdatedAt    string         `json:"updatedAt"`
}

// Requests

type CreateBlockRequest struct {
	Title             string   `json:"title" validate:"required,max=200"`
	Content           string   `json:"content"`
	Categories        []string `json:"categories"`
	EstimatedDuration float64  `json:"estimatedDuration" validate:"gte=0"`
	UnitPrice         float64  `json:"unitPrice" validate:"gte=0"`
	IsPublic          *bool    `json:"isPublic"`
}

type UpdateBlockRequest struct {
	Title             *string  `json:"title" validate:"omitempty,max=200"`
	Content           *string  `json:"content"`
	Categories        []string `json:"categories"`
	EstimatedDuration *float64 `json:"estimatedDuration" validate:"omitempty,gte=0"`
	UnitPrice         *float64 `json:"unitPrice" validate:"omitempty,gte=0"`
	IsPublic          *bool    `json:"isPublic"`
}

type CreateProposalRequest struct {
	Title        string                 `json:"title" validate:"required,max=200"`
	ClientName   string                 `json:"clientName" validate:"required,max=200"`
	Introduction string                 `json:"introduction"`
	Sections     []CreateSectionRequest `json:"sections" validate:"dive"`
	PaymentTerms []PaymentTermRequest   `json:"paymentTerms" validate:"dive"`
	ValidUntil   *string                `json:"validUntil"` // YYYY-MM-DD
}

type UpdateProposalRequest struct {
	Title        *string         `json:"title" validate:"omitempty,max=200"`
	ClientName   *string         `json:"clientName" validate:"omitempty,max=200"`
	Status       *ProposalStatus `json:"status"`
	Introduction *string         `json:"introduction"`
	ValidUntil   *string         `json:"validUntil"`
}

type CreateSectionRequest struct {
	Title                 string                       `json:"title" validate:"required,max=200"`
	Order                 *int                         `json:"order"`
	ExpectedDeliveryStart *int                         `json:"expectedDeliveryStart" validate:"omitempty,gte=1"`
	ExpectedDeliveryEnd   *int                         `json:"expectedDeliveryEnd" validate:"omitempty,gte=1"`
	Blocks                []CreateProposalBlockRequest `json:"blocks" validate:"dive"`
}

type UpdateSectionRequest struct {
	Title                 *string `json:"title" validate:"omitempty,max=200"`
	Order                 *int    `json:"order"`
	ExpectedDeliveryStart *int    `json:"expectedDeliveryStart" validate:"omitempty,gte=1"`
	ExpectedDeliveryEnd   *int    `json:"expectedDeliveryEnd" validate:"omitempty,gte=1"`
}

type CreateProposalBlockRequest struct {
	BlockID   uuid.UUID      `json:"blockId" validate:"required"`
	Order     *int           `json:"order"`
	Overrides BlockOverrides `json:"overrides"`
}

type UpdateProposalBlockRequest struct {
	Order     *int            `json:"order"`
	Overrides *BlockOverrides `json:"overrides"`
}

type PaymentTermRequest struct {
	Label   string  `json:"label" validate:"required,max=200"`
	Percent float64 `json:"percent" validate:"gte=0,lte=100"`
	Trigger string  `json:"trigger" validate:"max=500"`
}

// GenerateIntroductionRequest carries free text plus any extracted file texts
// for the opaque generation service
type GenerateIntroductionRequest struct {
	FreeText  string   `json:"freeText" validate:"required"`
	FileTexts []string `json:"fileTexts"`
	Apply     bool     `json:"apply"` // persist the result on the proposal
}

type GenerateIntroductionResponse struct {
	Introduction      string             `json:"introduction"`
	StructuredContext *StructuredContext `json:"structuredContext,omitempty"`
}

// StructuredContext is the structured companion output of introduction generation
type StructuredContext struct {
	ClientName  string   `json:"clientName,omitempty"`
	ProjectName string   `json:"projectName,omitempty"`
	Objectives  []string `json:"objectives,omitempty"`
	Tone        string   `json:"tone,omitempty"`
}

// MeasuredHeightsRequest carries client-measured content heights, keyed by
// outline entry id, for the preview pagination path
type MeasuredHeightsRequest struct {
	Heights map[string]float64 `json:"heights"`
}
