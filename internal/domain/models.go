package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the database does not (sqlite in tests)
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ProposalStatus represents the status of a proposal in the sales pipeline.
// The set is open-ended; clients may submit values outside the known constants.
type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusExpired  ProposalStatus = "expired"
)

// Block is a reusable content unit that can be referenced by any number of
// proposals. Editing a block affects every proposal that has not overridden
// the edited field.
type Block struct {
	BaseModel
	Title             string         `gorm:"type:varchar(200);not null;index"`
	Content           string         `gorm:"type:text"`
	Categories        pq.StringArray `gorm:"type:text[]"`
	EstimatedDuration float64        `gorm:"type:decimal(10,2);not null;default:0;column:estimated_duration"` // days
	UnitPrice         float64        `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	IsPublic          bool           `gorm:"not null;default:true;column:is_public"`
}

// Proposal is the root aggregate. It owns its sections and payment terms
// exclusively (cascade delete).
type Proposal struct {
	BaseModel
	Title        string            `gorm:"type:varchar(200);not null;index"`
	ClientName   string            `gorm:"type:varchar(200);not null;column:client_name"`
	Status       ProposalStatus    `gorm:"type:varchar(50);not null;default:'draft';index"`
	Introduction string            `gorm:"type:text"`
	ValidUntil   *time.Time        `gorm:"type:date;column:valid_until"`
	SentAt       *time.Time        `gorm:"column:sent_at"`
	Sections     []ProposalSection `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
	PaymentTerms []PaymentTerm     `gorm:"foreignKey:ProposalID;constraint:OnDelete:CASCADE"`
}

// ProposalSection groups blocks under a heading. Order defines display
// position among siblings; values need not be contiguous.
type ProposalSection struct {
	BaseModel
	ProposalID            uuid.UUID       `gorm:"type:uuid;not null;index;column:proposal_id"`
	Title                 string          `gorm:"type:varchar(200);not null"`
	Order                 int             `gorm:"not null;default:0;column:display_order"`
	ExpectedDeliveryStart *int            `gorm:"column:expected_delivery_start"` // week offset
	ExpectedDeliveryEnd   *int            `gorm:"column:expected_delivery_end"`
	Blocks                []ProposalBlock `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

// BlockOverrides is the canonical per-proposal override record. All fields
// are optional; a nil field means "inherit from the referenced block". The
// flat override_* columns are this same record persisted via gorm embedding,
// never an independent precedence layer.
type BlockOverrides struct {
	Title             *string  `gorm:"type:varchar(200);column:override_title" json:"title,omitempty"`
	Content           *string  `gorm:"type:text;column:override_content" json:"content,omitempty"`
	UnitPrice         *float64 `gorm:"type:decimal(15,2);column:override_unit_price" json:"unitPrice,omitempty"`
	EstimatedDuration *float64 `gorm:"type:decimal(10,2);column:override_estimated_duration" json:"estimatedDuration,omitempty"`
}

// IsEmpty reports whether no field is overridden
func (o BlockOverrides) IsEmpty() bool {
	return o.Title == nil && o.Content == nil && o.UnitPrice == nil && o.EstimatedDuration == nil
}

// ProposalBlock places a reusable block inside a section, optionally
// overriding any of its fields for this proposal only.
type ProposalBlock struct {
	BaseModel
	SectionID uuid.UUID      `gorm:"type:uuid;not null;index;column:section_id"`
	BlockID   uuid.UUID      `gorm:"type:uuid;not null;index;column:block_id"`
	Block     *Block         `gorm:"foreignKey:BlockID"`
	Order     int            `gorm:"not null;default:0;column:display_order"`
	Overrides BlockOverrides `gorm:"embedded"`
}

// PaymentTerm is one tranche of the payment plan. The sum of percents over a
// proposal should partition 100 but is not enforced; display treats 100 as
// "complete".
type PaymentTerm struct {
	BaseModel
	ProposalID uuid.UUID `gorm:"type:uuid;not null;index;column:proposal_id"`
	Label      string    `gorm:"type:varchar(200);not null"`
	Percent    float64   `gorm:"type:decimal(5,2);not null;default:0"`
	Trigger    string    `gorm:"type:varchar(500);column:trigger_condition"`
	Order      int       `gorm:"not null;default:0;column:display_order"`
}

// HasCategory reports whether the block carries the given category
func (b *Block) HasCategory(category string) bool {
	for _, c := range b.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// SortedSections returns the proposal's sections in display order.
// Ties on Order keep insertion sequence (stable sort).
func (p *Proposal) SortedSections() []ProposalSection {
	sections := make([]ProposalSection, len(p.Sections))
	copy(sections, p.Sections)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })
	return sections
}

// SortedBlocks returns the section's blocks in display order
func (s *ProposalSection) SortedBlocks() []ProposalBlock {
	blocks := make([]ProposalBlock, len(s.Blocks))
	copy(blocks, s.Blocks)
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Order < blocks[j].Order })
	return blocks
}
