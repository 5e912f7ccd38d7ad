// Package memory provides a store client backed by locked maps. It serves
// hosts without a database and the package tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
	"github.com/google/uuid"
)

// Client implements store.Client over in-memory state. Change notifications
// fan out synchronously to every subscriber after each mutation.
type Client struct {
	mu        sync.RWMutex
	models    []store.NativeModel
	documents map[string]store.NativeDocument
	assets    map[string]store.NativeAsset

	subs    map[int]func([]store.NativeEvent)
	nextSub int

	clock func() time.Time
}

var _ store.Client = (*Client)(nil)

// Option customises the memory client.
type Option func(*Client)

// WithClock overrides the timestamp source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New returns an empty memory-backed store client.
func New(opts ...Option) *Client {
	client := &Client{
		documents: map[string]store.NativeDocument{},
		assets:    map[string]store.NativeAsset{},
		subs:      map[int]func([]store.NativeEvent){},
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SeedModels replaces the schema definitions and notifies subscribers of
// the schema change.
func (c *Client) SeedModels(models ...store.NativeModel) {
	c.mu.Lock()
	c.models = append([]store.NativeModel(nil), models...)
	c.mu.Unlock()
	c.notify([]store.NativeEvent{{Kind: store.EventModelChanged}})
}

func (c *Client) GetModels(ctx context.Context) ([]store.NativeModel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]store.NativeModel(nil), c.models...), nil
}

func (c *Client) GetDocuments(ctx context.Context) ([]store.NativeDocument, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	docs := make([]store.NativeDocument, 0, len(c.documents))
	for _, doc := range c.documents {
		docs = append(docs, cloneDocument(doc))
	}
	return docs, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*store.NativeDocument, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.documents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := cloneDocument(doc)
	return &clone, nil
}

func (c *Client) GetAssets(ctx context.Context) ([]store.NativeAsset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	assets := make([]store.NativeAsset, 0, len(c.assets))
	for _, asset := range c.assets {
		assets = append(assets, asset)
	}
	return assets, nil
}

func (c *Client) GetAsset(ctx context.Context, id string) (*store.NativeAsset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	asset, ok := c.assets[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &asset, nil
}

func (c *Client) CreateDocument(ctx context.Context, docType string, fields store.FieldMap) (*store.NativeDocument, error) {
	now := c.clock().UTC()
	doc := store.NativeDocument{
		ID:        uuid.NewString(),
		Type:      docType,
		Status:    store.NativeStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		Fields:    map[string]any{},
	}
	applyPatch(doc.Fields, fields)

	c.mu.Lock()
	c.documents[doc.ID] = doc
	c.mu.Unlock()

	clone := cloneDocument(doc)
	c.notify([]store.NativeEvent{{Kind: store.EventDocumentCreated, DocumentID: doc.ID, Document: &clone}})
	result := cloneDocument(doc)
	return &result, nil
}

func (c *Client) UpdateDocument(ctx context.Context, id string, fields store.FieldMap) (*store.NativeDocument, error) {
	c.mu.Lock()
	doc, ok := c.documents[id]
	if !ok {
		c.mu.Unlock()
		return nil, store.ErrNotFound
	}
	doc = cloneDocument(doc)
	applyPatch(doc.Fields, fields)
	// Editing a published document moves it back into the changed state;
	// drafts stay drafts until published.
	if doc.Status == store.NativeStatusPublished {
		doc.Status = store.NativeStatusChanged
	}
	doc.UpdatedAt = c.clock().UTC()
	c.documents[id] = doc
	c.mu.Unlock()

	clone := cloneDocument(doc)
	c.notify([]store.NativeEvent{{Kind: store.EventDocumentUpdated, DocumentID: id, Document: &clone}})
	result := cloneDocument(doc)
	return &result, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	c.mu.Lock()
	if _, ok := c.documents[id]; !ok {
		c.mu.Unlock()
		return store.ErrNotFound
	}
	delete(c.documents, id)
	c.mu.Unlock()

	c.notify([]store.NativeEvent{{Kind: store.EventDocumentDeleted, DocumentID: id}})
	return nil
}

func (c *Client) UploadAsset(ctx context.Context, url, title string, width, height int) (*store.NativeAsset, error) {
	now := c.clock().UTC()
	asset := store.NativeAsset{
		ID:        uuid.NewString(),
		Title:     title,
		URL:       url,
		Width:     width,
		Height:    height,
		CreatedAt: now,
		UpdatedAt: now,
	}

	c.mu.Lock()
	c.assets[asset.ID] = asset
	c.mu.Unlock()

	clone := asset
	c.notify([]store.NativeEvent{{Kind: store.EventAssetCreated, AssetID: asset.ID, Asset: &clone}})
	result := asset
	return &result, nil
}

func (c *Client) PublishDocuments(ctx context.Context, ids []string) error {
	events := make([]store.NativeEvent, 0, len(ids))

	c.mu.Lock()
	for _, id := range ids {
		doc, ok := c.documents[id]
		if !ok {
			c.mu.Unlock()
			return store.ErrNotFound
		}
		doc = cloneDocument(doc)
		doc.Status = store.NativeStatusPublished
		doc.UpdatedAt = c.clock().UTC()
		c.documents[id] = doc
		clone := cloneDocument(doc)
		events = append(events, store.NativeEvent{Kind: store.EventDocumentUpdated, DocumentID: id, Document: &clone})
	}
	c.mu.Unlock()

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

// notify delivers outside the state lock so callbacks may re-enter the
// client (the change observer resolves id-only events through lookups).
func (c *Client) notify(events []store.NativeEvent) {
	c.mu.RLock()
	callbacks := make([]func([]store.NativeEvent), 0, len(c.subs))
	for _, cb := range c.subs {
		callbacks = append(callbacks, cb)
	}
	c.mu.RUnlock()

	for _, cb := range callbacks {
		cb(events)
	}
}

func applyPatch(fields map[string]any, patch store.FieldMap) {
	for key, value := range patch {
		if store.IsAbsent(value) {
			delete(fields, key)
			continue
		}
		fields[key] = value
	}
}

func cloneDocument(doc store.NativeDocument) store.NativeDocument {
	clone := doc
	clone.Fields = make(map[string]any, len(doc.Fields))
	for key, value := range doc.Fields {
		clone.Fields[key] = value
	}
	return clone
}
