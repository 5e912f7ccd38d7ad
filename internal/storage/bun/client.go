package bunstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Client implements store.Client over bun-backed tables. Change
// notifications fan out in-process after each committed mutation; the
// database itself does not push.
type Client struct {
	db        *bun.DB
	models    repository.Repository[*ContentModelRecord]
	documents repository.Repository[*ContentDocumentRecord]
	assets    repository.Repository[*ContentAssetRecord]

	mu      sync.Mutex
	subs    map[int]func([]store.NativeEvent)
	nextSub int

	clock func() time.Time
}

var _ store.Client = (*Client)(nil)

// New wires the bun repositories. The caller owns the *bun.DB lifecycle.
func New(db *bun.DB) *Client {
	modelHandlers := repository.ModelHandlers[*ContentModelRecord]{
		NewRecord: func() *ContentModelRecord { return &ContentModelRecord{} },
		GetID:     func(r *ContentModelRecord) uuid.UUID { return r.ID },
		SetID: func(r *ContentModelRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier:      func() string { return "name" },
		GetIdentifierValue: func(r *ContentModelRecord) string { return r.Name },
	}
	documentHandlers := repository.ModelHandlers[*ContentDocumentRecord]{
		NewRecord: func() *ContentDocumentRecord { return &ContentDocumentRecord{} },
		GetID:     func(r *ContentDocumentRecord) uuid.UUID { return r.ID },
		SetID: func(r *ContentDocumentRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(r *ContentDocumentRecord) string { return r.ID.String() },
	}
	assetHandlers := repository.ModelHandlers[*ContentAssetRecord]{
		NewRecord: func() *ContentAssetRecord { return &ContentAssetRecord{} },
		GetID:     func(r *ContentAssetRecord) uuid.UUID { return r.ID },
		SetID: func(r *ContentAssetRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(r *ContentAssetRecord) string { return r.ID.String() },
	}
	return &Client{
		db:        db,
		models:    repository.MustNewRepository[*ContentModelRecord](db, modelHandlers),
		documents: repository.MustNewRepository[*ContentDocumentRecord](db, documentHandlers),
		assets:    repository.MustNewRepository[*ContentAssetRecord](db, assetHandlers),
		subs:      map[int]func([]store.NativeEvent){},
		clock:     time.Now,
	}
}

// PutModel creates or replaces a schema definition by name and notifies
// subscribers of the schema change.
func (c *Client) PutModel(ctx context.Context, model store.NativeModel) error {
	fields := make(FieldSpecList, 0, len(model.Fields))
	for _, field := range model.Fields {
		fields = append(fields, FieldSpec{
			Name:         field.Name,
			Type:         field.Type,
			AllowedTypes: field.AllowedTypes,
		})
	}

	existing, err := c.models.Get(ctx, withName(model.Name), withoutDeleted())
	switch {
	case err == nil:
		existing.Fields = fields
		existing.UpdatedAt = c.clock().UTC()
		if _, err := c.models.Update(ctx, existing); err != nil {
			return err
		}
	case repository.IsRecordNotFound(err):
		record := &ContentModelRecord{Name: model.Name, Fields: fields}
		record.EnsureID()
		now := c.clock().UTC()
		record.CreatedAt = now
		record.UpdatedAt = now
		if _, err := c.models.Create(ctx, record); err != nil {
			return err
		}
	default:
		return err
	}

	c.notify([]store.NativeEvent{{Kind: store.EventModelChanged}})
	return nil
}

func (c *Client) GetModels(ctx context.Context) ([]store.NativeModel, error) {
	records, _, err := c.models.List(ctx, withoutDeleted(), orderByCreation())
	if err != nil {
		return nil, err
	}
	models := make([]store.NativeModel, 0, len(records))
	for _, record := range records {
		fields := make([]store.NativeField, 0, len(record.Fields))
		for _, spec := range record.Fields {
			fields = append(fields, store.NativeField{
				Name:         spec.Name,
				Type:         spec.Type,
				AllowedTypes: spec.AllowedTypes,
			})
		}
		models = append(models, store.NativeModel{Name: record.Name, Fields: fields})
	}
	return models, nil
}

func (c *Client) GetDocuments(ctx context.Context) ([]store.NativeDocument, error) {
	records, _, err := c.documents.List(ctx, withoutDeleted(), orderByCreation())
	if err != nil {
		return nil, err
	}
	docs := make([]store.NativeDocument, 0, len(records))
	for _, record := range records {
		docs = append(docs, nativeDocument(record))
	}
	return docs, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*store.NativeDocument, error) {
	record, err := c.documentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := nativeDocument(record)
	return &doc, nil
}

func (c *Client) GetAssets(ctx context.Context) ([]store.NativeAsset, error) {
	records, _, err := c.assets.List(ctx, withoutDeleted(), orderByCreation())
	if err != nil {
		return nil, err
	}
	assets := make([]store.NativeAsset, 0, len(records))
	for _, record := range records {
		assets = append(assets, nativeAsset(record))
	}
	return assets, nil
}

func (c *Client) GetAsset(ctx context.Context, id string) (*store.NativeAsset, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, store.ErrNotFound
	}
	record, err := c.assets.Get(ctx, withID(recordID), withoutDeleted())
	if err != nil {
		return nil, mapError(err)
	}
	asset := nativeAsset(record)
	return &asset, nil
}

func (c *Client) CreateDocument(ctx context.Context, docType string, fields store.FieldMap) (*store.NativeDocument, error) {
	record := &ContentDocumentRecord{
		Type:   docType,
		Status: store.NativeStatusDraft,
		Fields: JSONMap{},
	}
	record.EnsureID()
	now := c.clock().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	applyPatch(record.Fields, fields)

	if _, err := c.documents.Create(ctx, record); err != nil {
		return nil, err
	}

	doc := nativeDocument(record)
	c.notify([]store.NativeEvent{{Kind: store.EventDocumentCreated, DocumentID: doc.ID, Document: &doc}})
	result := doc
	return &result, nil
}

func (c *Client) UpdateDocument(ctx context.Context, id string, fields store.FieldMap) (*store.NativeDocument, error) {
	record, err := c.documentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Fields == nil {
		record.Fields = JSONMap{}
	}
	applyPatch(record.Fields, fields)
	if record.Status == store.NativeStatusPublished {
		record.Status = store.NativeStatusChanged
	}
	record.UpdatedAt = c.clock().UTC()

	if _, err := c.documents.Update(ctx, record); err != nil {
		return nil, err
	}

	doc := nativeDocument(record)
	c.notify([]store.NativeEvent{{Kind: store.EventDocumentUpdated, DocumentID: doc.ID, Document: &doc}})
	result := doc
	return &result, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	record, err := c.documentByID(ctx, id)
	if err != nil {
		return err
	}
	record.DeletedAt = c.clock().UTC()
	if _, err := c.documents.Update(ctx, record); err != nil {
		return err
	}

	c.notify([]store.NativeEvent{{Kind: store.EventDocumentDeleted, DocumentID: id}})
	return nil
}

func (c *Client) UploadAsset(ctx context.Context, url, title string, width, height int) (*store.NativeAsset, error) {
	record := &ContentAssetRecord{
		Title:  title,
		URL:    url,
		Width:  width,
		Height: height,
	}
	record.EnsureID()
	now := c.clock().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := c.assets.Create(ctx, record); err != nil {
		return nil, err
	}

	asset := nativeAsset(record)
	c.notify([]store.NativeEvent{{Kind: store.EventAssetCreated, AssetID: asset.ID, Asset: &asset}})
	result := asset
	return &result, nil
}

func (c *Client) PublishDocuments(ctx context.Context, ids []string) error {
	events := make([]store.NativeEvent, 0, len(ids))
	for _, id := range ids {
		record, err := c.documentByID(ctx, id)
		if err != nil {
			return err
		}
		record.Status = store.NativeStatusPublished
		record.UpdatedAt = c.clock().UTC()
		if _, err := c.documents.Update(ctx, record); err != nil {
			return err
		}
		doc := nativeDocument(record)
		events = append(events, store.NativeEvent{Kind: store.EventDocumentUpdated, DocumentID: id, Document: &doc})
	}
	if len(events) > 0 {
		c.notify(events)
	}
	return nil
}

func (c *Client) StartObservingContentChanges(callback func([]store.NativeEvent)) (store.SubscriptionHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	c.subs[c.nextSub] = callback
	return c.nextSub, nil
}

func (c *Client) StopObservingContentChanges(handle store.SubscriptionHandle) error {
	id, ok := handle.(int)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, id)
	return nil
}

func (c *Client) notify(events []store.NativeEvent) {
	c.mu.Lock()
	callbacks := make([]func([]store.NativeEvent), 0, len(c.subs))
	for _, cb := range c.subs {
		callbacks = append(callbacks, cb)
	}
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb(events)
	}
}

func (c *Client) documentByID(ctx context.Context, id string) (*ContentDocumentRecord, error) {
	recordID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, store.ErrNotFound
	}
	record, err := c.documents.Get(ctx, withID(recordID), withoutDeleted())
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

func nativeDocument(record *ContentDocumentRecord) store.NativeDocument {
	fields := make(map[string]any, len(record.Fields))
	for key, value := range record.Fields {
		fields[key] = value
	}
	return store.NativeDocument{
		ID:        record.ID.String(),
		Type:      record.Type,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		Fields:    fields,
	}
}

func nativeAsset(record *ContentAssetRecord) store.NativeAsset {
	return store.NativeAsset{
		ID:        record.ID.String(),
		Title:     record.Title,
		URL:       record.URL,
		Width:     record.Width,
		Height:    record.Height,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func applyPatch(fields JSONMap, patch store.FieldMap) {
	for key, value := range patch {
		if store.IsAbsent(value) {
			delete(fields, key)
			continue
		}
		fields[key] = value
	}
}

func withID(id uuid.UUID) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", id)
	}
}

func withName(name string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("LOWER(name) = ?", strings.ToLower(name))
	}
}

func withoutDeleted() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("deleted_at IS NULL")
	}
}

func orderByCreation() repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("created_at ASC")
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if repository.IsRecordNotFound(err) {
		return store.ErrNotFound
	}
	return err
}
