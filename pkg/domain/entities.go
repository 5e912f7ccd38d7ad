package domain

import "time"

// FieldDescriptor names a model field and fixes its type. AllowedModels is
// populated for reference fields only and lists the target model names the
// field may point at.
type FieldDescriptor struct {
	Name          string    `json:"name"`
	Type          FieldType `json:"type"`
	AllowedModels []string  `json:"allowed_models,omitempty"`
}

// ModelDescriptor describes one content model. Field order is preserved from
// the native schema and field names are unique within a model.
type ModelDescriptor struct {
	Name   string            `json:"name"`
	Fields []FieldDescriptor `json:"fields"`
}

// Field returns the descriptor for name and whether the model defines it.
func (m ModelDescriptor) Field(name string) (FieldDescriptor, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDescriptor{}, false
}

// ModelMap indexes descriptors by model name. The host owns and caches it;
// the bridge only ever receives it as a call parameter.
type ModelMap map[string]ModelDescriptor

// DocumentStatus is the editing-lifecycle state derived from the native
// status on every translation. It is never stored.
type DocumentStatus string

const (
	StatusAdded     DocumentStatus = "added"
	StatusModified  DocumentStatus = "modified"
	StatusPublished DocumentStatus = "published"
)

// Document is the normalized view of one native document. Instances are
// synthesized fresh on every read; the bridge holds no copy between calls.
type Document struct {
	ID        string                `json:"id"`
	Model     string                `json:"model"`
	Status    DocumentStatus        `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	ManageURL string                `json:"manage_url"`
	Context   map[string]any        `json:"context,omitempty"`
	Fields    map[string]FieldValue `json:"fields"`
}

// AssetFile carries the resolved file location and dimensions of an asset.
type AssetFile struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Asset is the normalized view of one native asset. Assets have no draft
// state; their status is always published.
type Asset struct {
	ID        string         `json:"id"`
	Status    DocumentStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ManageURL string         `json:"manage_url"`
	Context   map[string]any `json:"context,omitempty"`
	Title     string         `json:"title"`
	File      AssetFile      `json:"file"`
}

// Locale identifies a content locale. The bridge ships none; the type exists
// so the facade contract stays complete.
type Locale struct {
	Code    string `json:"code"`
	Default bool   `json:"default"`
}

// ChangeEvent is the normalized batch emitted by the change observer:
// created or updated documents, deleted document ids, and created assets.
type ChangeEvent struct {
	Documents          []Document `json:"documents"`
	DeletedDocumentIDs []string   `json:"deleted_document_ids"`
	Assets             []Asset    `json:"assets"`
}

// Empty reports whether the batch carries no entries at all.
func (e ChangeEvent) Empty() bool {
	return len(e.Documents) == 0 && len(e.DeletedDocumentIDs) == 0 && len(e.Assets) == 0
}

// ValidationError reports a per-field document validation failure.
type ValidationError struct {
	DocumentID string `json:"document_id"`
	FieldName  string `json:"field_name"`
	Message    string `json:"message"`
}
