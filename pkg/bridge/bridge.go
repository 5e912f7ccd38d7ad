// Package bridge is the host-facing entry point. It composes the codec,
// translators, update applier, and change observer over an opaque store
// client, and holds no document or asset state between calls.
package bridge

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-content-bridge/pkg/config"
	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/logger"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
	"github.com/goliatone/go-content-bridge/pkg/patch"
	"github.com/goliatone/go-content-bridge/pkg/translate"
	"github.com/goliatone/go-content-bridge/pkg/watch"
)

var (
	ErrMissingStoreClient = errors.New("bridge: store client is required")
	ErrNotInitialized     = errors.New("bridge: Init must be called before use")
)

// Dependencies bundles the collaborators required by the bridge.
type Dependencies struct {
	Store  store.Client
	Logger logger.Logger
}

// AccessReport is the capability probe result.
type AccessReport struct {
	HasConnection  bool
	HasPermissions bool
}

// UploadRequest describes an asset upload. Only URL-sourced uploads are
// supported; a byte payload is rejected rather than silently ignored.
type UploadRequest struct {
	URL      string
	Bytes    []byte
	FileName string
	MimeType string
	Title    string
	Width    int
	Height   int
}

// FilesChangeResult is the boundary contract for file-driven stores. This
// bridge observes the store directly, so the result is always empty.
type FilesChangeResult struct {
	SchemaChanged bool
	ContentChange *domain.ChangeEvent
}

// Bridge exposes identity, capability, CRUD, publish, and change-watch
// operations to the host.
type Bridge struct {
	store  store.Client
	logger logger.Logger

	mu       sync.Mutex
	cfg      config.Config
	observer *watch.Observer
	ready    bool
}

// New constructs an unconfigured bridge. Call Init with the host's
// configuration before issuing operations.
func New(deps Dependencies) (*Bridge, error) {
	if deps.Store == nil {
		return nil, ErrMissingStoreClient
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	return &Bridge{
		store:  deps.Store,
		logger: deps.Logger,
	}, nil
}

// Init loads and validates configuration. It accepts a config.Config, a
// pointer to one, or a plain map. Calling Init on a configured bridge
// replaces the configuration; an active watch is stopped first.
func (b *Bridge) Init(input any) error {
	cfg, err := config.Load(input)
	if err != nil {
		return err
	}

	observer, err := watch.New(watch.Dependencies{
		Store:         b.store,
		Logger:        b.logger,
		ManageURLBase: cfg.ManageURLBase,
		PublicBaseURL: cfg.PublicBaseURL,
		BatchBuffer:   cfg.Watch.BatchBuffer,
	})
	if err != nil {
		return err
	}

	b.mu.Lock()
	previous := b.observer
	b.cfg = cfg
	b.observer = observer
	b.ready = true
	b.mu.Unlock()

	if previous != nil {
		return previous.Stop()
	}
	return nil
}

// Reset stops any active watch and returns the bridge to its
// unconfigured state.
func (b *Bridge) Reset() error {
	b.mu.Lock()
	observer := b.observer
	b.cfg = config.Config{}
	b.observer = nil
	b.ready = false
	b.mu.Unlock()

	if observer != nil {
		return observer.Stop()
	}
	return nil
}

// ContentSourceType identifies the backing store flavor.
func (b *Bridge) ContentSourceType() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.ContentSourceType
}

// ProjectID reports the configured project identifier.
func (b *Bridge) ProjectID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.ProjectID
}

// ProjectEnvironment reports the configured store environment.
func (b *Bridge) ProjectEnvironment() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.Environment
}

// ProjectManageURL reports the editor-facing base URL.
func (b *Bridge) ProjectManageURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.ManageURLBase
}

// HasAccess probes the store connection. Permissions mirror connectivity;
// this design has no finer-grained authorization model.
func (b *Bridge) HasAccess(ctx context.Context) (AccessReport, error) {
	if err := b.requireReady(); err != nil {
		return AccessReport{}, err
	}
	if _, err := b.store.GetModels(ctx); err != nil {
		return AccessReport{}, nil
	}
	return AccessReport{HasConnection: true, HasPermissions: true}, nil
}

// GetModels fetches and translates the store's schema definitions. The
// result is built fresh on every call; caching is the host's concern.
func (b *Bridge) GetModels(ctx context.Context) ([]domain.ModelDescriptor, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	native, err := b.store.GetModels(ctx)
	if err != nil {
		return nil, err
	}
	return translate.Models(native), nil
}

// GetModelMap fetches the schema definitions keyed by model name, in the
// shape the document operations expect.
func (b *Bridge) GetModelMap(ctx context.Context) (domain.ModelMap, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	native, err := b.store.GetModels(ctx)
	if err != nil {
		return nil, err
	}
	return translate.ModelMap(native), nil
}

// GetLocales reports the supported locales. Localization is out of scope,
// so the list is always empty.
func (b *Bridge) GetLocales(ctx context.Context) ([]domain.Locale, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	return []domain.Locale{}, nil
}

// GetDocuments fetches every native document and translates it against the
// caller-supplied model map.
func (b *Bridge) GetDocuments(ctx context.Context, models domain.ModelMap) ([]domain.Document, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	native, err := b.store.GetDocuments(ctx)
	if err != nil {
		return nil, err
	}
	return translate.Documents(native, models, b.manageURLBase())
}

// GetAssets fetches and translates every asset.
func (b *Bridge) GetAssets(ctx context.Context) ([]domain.Asset, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	native, err := b.store.GetAssets(ctx)
	if err != nil {
		return nil, err
	}
	return translate.Assets(native, b.manageURLBase(), b.publicBaseURL()), nil
}

// CreateDocument denormalizes the field updates, creates the native
// document, and returns its normalized view.
func (b *Bridge) CreateDocument(ctx context.Context, fields map[string]patch.FieldUpdate, model domain.ModelDescriptor, models domain.ModelMap) (*domain.Document, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	nativeFields, err := patch.FieldMap(fields)
	if err != nil {
		return nil, err
	}
	native, err := b.store.CreateDocument(ctx, model.Name, nativeFields)
	if err != nil {
		return nil, err
	}
	return translate.Document(*native, models, b.manageURLBase())
}

// UpdateDocument folds the update operations into a native patch, applies
// it, and returns the document's fresh normalized view.
func (b *Bridge) UpdateDocument(ctx context.Context, document domain.Document, operations []domain.UpdateOperation, models domain.ModelMap) (*domain.Document, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	nativeFields, err := patch.Operations(operations)
	if err != nil {
		return nil, err
	}
	native, err := b.store.UpdateDocument(ctx, document.ID, nativeFields)
	if err != nil {
		return nil, err
	}
	return translate.Document(*native, models, b.manageURLBase())
}

// DeleteDocument removes the document from the store.
func (b *Bridge) DeleteDocument(ctx context.Context, document domain.Document) error {
	if err := b.requireReady(); err != nil {
		return err
	}
	return b.store.DeleteDocument(ctx, document.ID)
}

// UploadAsset registers a URL-sourced asset with the store. Requests with
// no source URL, or with an inline byte payload, fail with
// UnsupportedUploadError.
func (b *Bridge) UploadAsset(ctx context.Context, req UploadRequest) (*domain.Asset, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	if len(req.Bytes) > 0 {
		return nil, &domain.UnsupportedUploadError{Reason: "inline byte payloads are not supported"}
	}
	if req.URL == "" {
		return nil, &domain.UnsupportedUploadError{Reason: "a source URL is required"}
	}
	title := req.Title
	if title == "" {
		title = req.FileName
	}
	native, err := b.store.UploadAsset(ctx, req.URL, title, req.Width, req.Height)
	if err != nil {
		return nil, err
	}
	return translate.Asset(*native, b.manageURLBase(), b.publicBaseURL()), nil
}

// ValidateDocuments is part of the host contract but performs no checks in
// this design; it always reports zero validation errors.
func (b *Bridge) ValidateDocuments(ctx context.Context, documents []domain.Document, assets []domain.Asset) ([]domain.ValidationError, error) {
	if err := b.requireReady(); err != nil {
		return nil, err
	}
	return []domain.ValidationError{}, nil
}

// PublishDocuments moves the given documents into the published state.
// Assets are accepted for contract symmetry but need no action; they are
// published on upload.
func (b *Bridge) PublishDocuments(ctx context.Context, documents []domain.Document, assets []domain.Asset) error {
	if err := b.requireReady(); err != nil {
		return err
	}
	if len(documents) == 0 {
		return nil
	}
	ids := make([]string, 0, len(documents))
	for _, document := range documents {
		ids = append(ids, document.ID)
	}
	return b.store.PublishDocuments(ctx, ids)
}

// StartWatchingContentUpdates subscribes to the store's change stream and
// delivers normalized batches through the supplied hooks. Starting while
// already watching re-arms the subscription.
func (b *Bridge) StartWatchingContentUpdates(ctx context.Context, hooks watch.Hooks) error {
	b.mu.Lock()
	observer := b.observer
	b.mu.Unlock()
	if observer == nil {
		return ErrNotInitialized
	}
	return observer.Start(ctx, hooks)
}

// StopWatchingContentUpdates halts change delivery. Idempotent.
func (b *Bridge) StopWatchingContentUpdates() error {
	b.mu.Lock()
	observer := b.observer
	b.mu.Unlock()
	if observer == nil {
		return nil
	}
	return observer.Stop()
}

// OnFilesChange is part of the boundary contract for file-driven stores.
// This bridge observes the store directly, so nothing happens here.
func (b *Bridge) OnFilesChange(ctx context.Context, updatedFiles []string) (FilesChangeResult, error) {
	return FilesChangeResult{}, nil
}

// OnWebhook is part of the boundary contract for webhook-driven stores.
// This bridge observes the store directly, so the payload is ignored.
func (b *Bridge) OnWebhook(ctx context.Context, payload []byte, headers map[string]string) error {
	return nil
}

func (b *Bridge) requireReady() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready {
		return ErrNotInitialized
	}
	return nil
}

func (b *Bridge) manageURLBase() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.ManageURLBase
}

func (b *Bridge) publicBaseURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg.PublicBaseURL
}
