// Package testutil provides shared helpers for package tests.
package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqlite cannot express the postgres column defaults of the production
// schema (gen_random_uuid, text[]), so the test schema is declared here
// explicitly. Column names match the gorm mappings of the domain models.
const schema = `
CREATE TABLE blocks (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	title TEXT NOT NULL,
	content TEXT,
	categories TEXT,
	estimated_duration REAL NOT NULL DEFAULT 0,
	unit_price REAL NOT NULL DEFAULT 0,
	is_public BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE proposals (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	title TEXT NOT NULL,
	client_name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	introduction TEXT,
	valid_until DATETIME,
	sent_at DATETIME
);
CREATE TABLE proposal_sections (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	proposal_id TEXT NOT NULL,
	title TEXT NOT NULL,
	display_order INTEGER NOT NULL DEFAULT 0,
	expected_delivery_start INTEGER,
	expected_delivery_end INTEGER
);
CREATE TABLE proposal_blocks (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	section_id TEXT NOT NULL,
	block_id TEXT NOT NULL,
	display_order INTEGER NOT NULL DEFAULT 0,
	override_title TEXT,
	override_content TEXT,
	override_unit_price REAL,
	override_estimated_duration REAL
);
CREATE TABLE payment_terms (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	proposal_id TEXT NOT NULL,
	label TEXT NOT NULL,
	percent REAL NOT NULL DEFAULT 0,
	trigger_condition TEXT,
	display_order INTEGER NOT NULL DEFAULT 0
);
`

// NewTestDB opens an in-memory sqlite database with the proposal schema
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}
	return db
}
