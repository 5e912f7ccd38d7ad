// Package bunstore provides a store client persisted through uptrace/bun.
// Rows keep the backing store's native shapes; nothing normalized is ever
// written to disk.
package bunstore

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across records.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the record is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary document fields as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

// FieldSpec is one persisted model field definition.
type FieldSpec struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	AllowedTypes []string `json:"allowed_types,omitempty"`
}

// FieldSpecList stores a model's ordered field definitions as JSON.
type FieldSpecList []FieldSpec

func (l FieldSpecList) Value() (driver.Value, error) {
	return json.Marshal([]FieldSpec(l))
}

func (l *FieldSpecList) Scan(value any) error {
	if l == nil {
		return errors.New("FieldSpecList: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]FieldSpec)(l))
	case string:
		return json.Unmarshal([]byte(v), (*[]FieldSpec)(l))
	default:
		return fmt.Errorf("FieldSpecList: unsupported type %T", value)
	}
}

// ContentModelRecord persists one schema definition.
type ContentModelRecord struct {
	bun.BaseModel `bun:"table:content_models"`
	RecordMeta

	Name   string        `bun:",unique,nullzero,notnull"`
	Fields FieldSpecList `bun:"type:jsonb,nullzero"`
}

// ContentDocumentRecord persists one native document.
type ContentDocumentRecord struct {
	bun.BaseModel `bun:"table:content_documents"`
	RecordMeta

	Type   string  `bun:",nullzero,notnull"`
	Status string  `bun:",nullzero,notnull"`
	Fields JSONMap `bun:"type:jsonb,nullzero"`
}

// ContentAssetRecord persists one uploaded asset.
type ContentAssetRecord struct {
	bun.BaseModel `bun:"table:content_assets"`
	RecordMeta

	Title  string `bun:",nullzero"`
	URL    string `bun:",nullzero,notnull"`
	Width  int    `bun:",nullzero"`
	Height int    `bun:",nullzero"`
}
