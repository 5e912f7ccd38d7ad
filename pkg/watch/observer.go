// Package watch subscribes to the backing store's change notifications and
// forwards them to the host as normalized change events.
package watch

import (
	"context"
	"errors"
	"sync"

	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/logger"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
	"github.com/goliatone/go-content-bridge/pkg/translate"
)

// DefaultBatchBuffer is the channel depth between the store's delivery and
// the observer's consumer when no override is configured.
const DefaultBatchBuffer = 8

var (
	errStoreRequired         = errors.New("watch: store client is required")
	errModelMapHookRequired  = errors.New("watch: GetModelMap hook is required")
	errOnContentHookRequired = errors.New("watch: OnContentChange hook is required")
)

// Hooks are supplied by the host at watch start. GetModelMap is consulted
// fresh on every batch; the observer caches nothing. GetDocument and
// GetAsset resolve events the store delivered by id only; when nil they
// default to the store client's lookups.
type Hooks struct {
	GetModelMap     func(ctx context.Context) (domain.ModelMap, error)
	GetDocument     func(ctx context.Context, id string) (*store.NativeDocument, error)
	GetAsset        func(ctx context.Context, id string) (*store.NativeAsset, error)
	OnContentChange func(ctx context.Context, event domain.ChangeEvent) error
	OnSchemaChange  func(ctx context.Context)
}

// Dependencies wires the observer.
type Dependencies struct {
	Store         store.Client
	Logger        logger.Logger
	ManageURLBase string
	PublicBaseURL string
	// BatchBuffer bounds how many undelivered native batches may queue
	// before the store's delivery blocks. Zero means DefaultBatchBuffer.
	BatchBuffer int
}

// Observer translates native notification batches into normalized change
// events. Deliveries are strictly sequential: the next native batch is not
// processed until the host callback for the previous one returns.
type Observer struct {
	store         store.Client
	logger        logger.Logger
	manageURLBase string
	publicBaseURL string
	buffer        int

	mu      sync.Mutex
	current *subscription
}

// New constructs an observer in the idle state.
func New(deps Dependencies) (*Observer, error) {
	if deps.Store == nil {
		return nil, errStoreRequired
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	buffer := deps.BatchBuffer
	if buffer <= 0 {
		buffer = DefaultBatchBuffer
	}
	return &Observer{
		store:         deps.Store,
		logger:        deps.Logger,
		manageURLBase: deps.ManageURLBase,
		publicBaseURL: deps.PublicBaseURL,
		buffer:        buffer,
	}, nil
}

// Start subscribes to the store's notification stream. Calling Start while
// already watching re-arms the subscription: the previous one is stopped
// first, so two live subscriptions never coexist.
func (o *Observer) Start(ctx context.Context, hooks Hooks) error {
	if hooks.GetModelMap == nil {
		return errModelMapHookRequired
	}
	if hooks.OnContentChange == nil {
		return errOnContentHookRequired
	}
	if hooks.GetDocument == nil {
		hooks.GetDocument = o.store.GetDocument
	}
	if hooks.GetAsset == nil {
		hooks.GetAsset = o.store.GetAsset
	}
	if err := o.Stop(); err != nil {
		return err
	}

	sub := &subscription{
		batches: make(chan []store.NativeEvent, o.buffer),
		drained: make(chan struct{}),
	}
	handle, err := o.store.StartObservingContentChanges(sub.push)
	if err != nil {
		return err
	}
	sub.handle = handle

	o.mu.Lock()
	o.current = sub
	o.mu.Unlock()

	go o.consume(ctx, sub, hooks)
	return nil
}

// Stop unsubscribes and waits for queued batches to drain. It is a no-op
// when the observer is idle; it does not interrupt a callback already in
// flight.
func (o *Observer) Stop() error {
	o.mu.Lock()
	sub := o.current
	o.current = nil
	o.mu.Unlock()

	if sub == nil {
		return nil
	}
	if err := o.store.StopObservingContentChanges(sub.handle); err != nil {
		return err
	}
	sub.close()
	<-sub.drained
	return nil
}

func (o *Observer) consume(ctx context.Context, sub *subscription, hooks Hooks) {
	defer close(sub.drained)
	for batch := range sub.batches {
		event, schemaChanged, err := o.translateBatch(ctx, batch, hooks)
		if err != nil {
			o.logger.Error("watch: batch translation failed", logger.Field{Key: "error", Value: err})
			continue
		}
		if schemaChanged && hooks.OnSchemaChange != nil {
			hooks.OnSchemaChange(ctx)
		}
		if event.Empty() {
			continue
		}
		if err := hooks.OnContentChange(ctx, event); err != nil {
			o.logger.Error("watch: content change callback failed", logger.Field{Key: "error", Value: err})
		}
	}
}

// translateBatch classifies every native event into the normalized batch.
// Model-kind events flag a schema change and never enter the batch; event
// kinds outside the known set are dropped silently.
func (o *Observer) translateBatch(ctx context.Context, batch []store.NativeEvent, hooks Hooks) (domain.ChangeEvent, bool, error) {
	event := domain.ChangeEvent{}
	schemaChanged := false

	models, err := hooks.GetModelMap(ctx)
	if err != nil {
		return event, false, err
	}

	for _, native := range batch {
		switch native.Kind {
		case store.EventDocumentCreated, store.EventDocumentUpdated:
			doc := native.Document
			if doc == nil {
				doc, err = hooks.GetDocument(ctx, native.DocumentID)
				if err != nil {
					return domain.ChangeEvent{}, false, err
				}
			}
			translated, err := translate.Document(*doc, models, o.manageURLBase)
			if err != nil {
				return domain.ChangeEvent{}, false, err
			}
			event.Documents = append(event.Documents, *translated)
		case store.EventDocumentDeleted:
			id := native.DocumentID
			if id == "" && native.Document != nil {
				id = native.Document.ID
			}
			event.DeletedDocumentIDs = append(event.DeletedDocumentIDs, id)
		case store.EventAssetCreated:
			asset := native.Asset
			if asset == nil {
				asset, err = hooks.GetAsset(ctx, native.AssetID)
				if err != nil {
					return domain.ChangeEvent{}, false, err
				}
			}
			event.Assets = append(event.Assets, *translate.Asset(*asset, o.manageURLBase, o.publicBaseURL))
		case store.EventModelChanged:
			schemaChanged = true
		default:
			// Forward compatible: unrecognized kinds are dropped.
		}
	}
	return event, schemaChanged, nil
}

type subscription struct {
	handle  store.SubscriptionHandle
	batches chan []store.NativeEvent
	drained chan struct{}

	mu     sync.Mutex
	closed bool
}

// push enqueues a native batch. Sends block once the buffer is full, which
// is what serializes delivery against slow host callbacks.
func (s *subscription) push(events []store.NativeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.batches <- events
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.batches)
}
