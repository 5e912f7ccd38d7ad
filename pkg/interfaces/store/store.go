package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound signals a missing document or asset.
var ErrNotFound = errors.New("store: record not found")

// Native document statuses as the backing store reports them. Anything the
// bridge does not recognize translates to the modified lifecycle state.
const (
	NativeStatusDraft     = "draft"
	NativeStatusChanged   = "changed"
	NativeStatusPublished = "published"
)

// NativeField is one entry in a native model's field list.
type NativeField struct {
	Name string
	Type string
	// AllowedTypes lists target model names for reference fields.
	AllowedTypes []string
}

// NativeModel is the backing store's own shape for a schema definition.
type NativeModel struct {
	Name   string
	Fields []NativeField
}

// NativeDocument is the backing store's own shape for a document. Fields is
// keyed by field name; values are opaque to the store.
type NativeDocument struct {
	ID        string
	Type      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
	Fields    map[string]any
}

// NativeAsset is the backing store's own shape for an uploaded asset. URL is
// store-relative; the bridge resolves it against its public base URL.
type NativeAsset struct {
	ID        string
	Title     string
	URL       string
	Width     int
	Height    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FieldMap is a native field patch. A key mapped to Absent clears the field.
type FieldMap map[string]any

// Absent marks a field for removal inside a FieldMap.
var Absent = absent{}

type absent struct{}

// IsAbsent reports whether v is the field-removal marker.
func IsAbsent(v any) bool {
	_, ok := v.(absent)
	return ok
}

// EventKind classifies native change notifications.
type EventKind string

const (
	EventDocumentCreated EventKind = "document.created"
	EventDocumentUpdated EventKind = "document.updated"
	EventDocumentDeleted EventKind = "document.deleted"
	EventAssetCreated    EventKind = "asset.created"
	EventModelChanged    EventKind = "model.changed"
)

// NativeEvent is one entry of a native notification batch. Document and
// Asset may be nil when the store notifies by id only.
type NativeEvent struct {
	Kind       EventKind
	DocumentID string
	AssetID    string
	Document   *NativeDocument
	Asset      *NativeAsset
}

// SubscriptionHandle identifies a live change subscription on the store.
type SubscriptionHandle interface{}

// Client is the opaque backing-store collaborator. The bridge imposes no
// transaction semantics; implementations guarantee their own consistency.
type Client interface {
	GetModels(ctx context.Context) ([]NativeModel, error)
	GetDocuments(ctx context.Context) ([]NativeDocument, error)
	GetDocument(ctx context.Context, id string) (*NativeDocument, error)
	GetAssets(ctx context.Context) ([]NativeAsset, error)
	GetAsset(ctx context.Context, id string) (*NativeAsset, error)

	CreateDocument(ctx context.Context, docType string, fields FieldMap) (*NativeDocument, error)
	UpdateDocument(ctx context.Context, id string, fields FieldMap) (*NativeDocument, error)
	DeleteDocument(ctx context.Context, id string) error
	UploadAsset(ctx context.Context, url, title string, width, height int) (*NativeAsset, error)
	PublishDocuments(ctx context.Context, ids []string) error

	StartObservingContentChanges(callback func(events []NativeEvent)) (SubscriptionHandle, error)
	StopObservingContentChanges(handle SubscriptionHandle) error
}
