// Package commands exposes go-command compatible handlers so host
// transports (CLI, queues, HTTP) can drive the bridge with plain payloads.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-content-bridge/pkg/bridge"
	"github.com/goliatone/go-content-bridge/pkg/codec"
	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/logger"
	"github.com/goliatone/go-content-bridge/pkg/patch"
)

// Catalog bundles the command handlers for host transports.
type Catalog struct {
	CreateDocument   command.Commander[CreateDocument]
	UpdateDocument   command.Commander[UpdateDocument]
	DeleteDocument   command.Commander[DeleteDocument]
	PublishDocuments command.Commander[PublishDocuments]
	UploadAsset      command.Commander[UploadAsset]
}

type contentBridge interface {
	GetModelMap(ctx context.Context) (domain.ModelMap, error)
	CreateDocument(ctx context.Context, fields map[string]patch.FieldUpdate, model domain.ModelDescriptor, models domain.ModelMap) (*domain.Document, error)
	UpdateDocument(ctx context.Context, document domain.Document, operations []domain.UpdateOperation, models domain.ModelMap) (*domain.Document, error)
	DeleteDocument(ctx context.Context, document domain.Document) error
	PublishDocuments(ctx context.Context, documents []domain.Document, assets []domain.Asset) error
	UploadAsset(ctx context.Context, req bridge.UploadRequest) (*domain.Asset, error)
}

// Dependencies wires the bridge into the command catalog.
type Dependencies struct {
	Bridge contentBridge
	Logger logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Bridge == nil {
		return nil, errors.New("commands: bridge is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		CreateDocument:   documentCreateCommand{bridge: deps.Bridge},
		UpdateDocument:   documentUpdateCommand{bridge: deps.Bridge},
		DeleteDocument:   documentDeleteCommand{bridge: deps.Bridge},
		PublishDocuments: documentPublishCommand{bridge: deps.Bridge},
		UploadAsset:      assetUploadCommand{bridge: deps.Bridge},
	}, nil
}

// CreateDocument carries a new document's model name and raw native field
// values. Values are normalized against the model's field types; fields the
// model does not define are dropped.
type CreateDocument struct {
	Model  string         `json:"model"`
	Fields map[string]any `json:"fields"`
}

type documentCreateCommand struct {
	bridge contentBridge
}

func (c documentCreateCommand) Execute(ctx context.Context, msg CreateDocument) error {
	msg.Model = strings.TrimSpace(msg.Model)
	if msg.Model == "" {
		return errors.New("commands: document model is required")
	}
	models, err := c.bridge.GetModelMap(ctx)
	if err != nil {
		return err
	}
	model, ok := models[msg.Model]
	if !ok {
		return fmt.Errorf("commands: unknown model %q", msg.Model)
	}

	fields := make(map[string]patch.FieldUpdate, len(msg.Fields))
	for name, raw := range msg.Fields {
		descriptor, ok := model.Field(name)
		if !ok {
			continue
		}
		value, err := codec.ToNormalized(raw, descriptor.Type)
		if err != nil {
			return err
		}
		fields[name] = patch.FieldUpdate{Field: descriptor, Value: value}
	}

	_, err = c.bridge.CreateDocument(ctx, fields, model, models)
	return err
}

// FieldOperation is one set/unset instruction inside an update payload.
type FieldOperation struct {
	Kind string   `json:"kind"`
	Path []string `json:"path"`
	// Value is the raw native value for set operations.
	Value any `json:"value,omitempty"`
}

// UpdateDocument carries a document id, its model name, and the operations
// to fold into a single patch.
type UpdateDocument struct {
	DocumentID string           `json:"document_id"`
	Model      string           `json:"model"`
	Operations []FieldOperation `json:"operations"`
}

type documentUpdateCommand struct {
	bridge contentBridge
}

func (c documentUpdateCommand) Execute(ctx context.Context, msg UpdateDocument) error {
	if msg.DocumentID == "" {
		return errors.New("commands: document id is required")
	}
	models, err := c.bridge.GetModelMap(ctx)
	if err != nil {
		return err
	}
	model, ok := models[msg.Model]
	if !ok {
		return fmt.Errorf("commands: unknown model %q", msg.Model)
	}

	operations := make([]domain.UpdateOperation, 0, len(msg.Operations))
	for _, input := range msg.Operations {
		if len(input.Path) == 0 {
			continue
		}
		descriptor, ok := model.Field(input.Path[0])
		if !ok {
			return fmt.Errorf("commands: model %q has no field %q", msg.Model, input.Path[0])
		}
		op := domain.UpdateOperation{
			Kind:      domain.OperationKind(input.Kind),
			FieldPath: input.Path,
			Field:     descriptor,
		}
		if op.Kind == domain.OpSet {
			value, err := codec.ToNormalized(input.Value, descriptor.Type)
			if err != nil {
				return err
			}
			op.Value = value
		}
		operations = append(operations, op)
	}

	_, err = c.bridge.UpdateDocument(ctx, domain.Document{ID: msg.DocumentID, Model: msg.Model}, operations, models)
	return err
}

// DeleteDocument removes a document by id.
type DeleteDocument struct {
	DocumentID string `json:"document_id"`
}

type documentDeleteCommand struct {
	bridge contentBridge
}

func (c documentDeleteCommand) Execute(ctx context.Context, msg DeleteDocument) error {
	if msg.DocumentID == "" {
		return errors.New("commands: document id is required")
	}
	return c.bridge.DeleteDocument(ctx, domain.Document{ID: msg.DocumentID})
}

// PublishDocuments moves the listed documents into the published state.
type PublishDocuments struct {
	DocumentIDs []string `json:"document_ids"`
}

type documentPublishCommand struct {
	bridge contentBridge
}

func (c documentPublishCommand) Execute(ctx context.Context, msg PublishDocuments) error {
	if len(msg.DocumentIDs) == 0 {
		return errors.New("commands: at least one document id is required")
	}
	documents := make([]domain.Document, 0, len(msg.DocumentIDs))
	for _, id := range msg.DocumentIDs {
		documents = append(documents, domain.Document{ID: id})
	}
	return c.bridge.PublishDocuments(ctx, documents, nil)
}

// UploadAsset registers a URL-sourced asset.
type UploadAsset struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Title    string `json:"title"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type assetUploadCommand struct {
	bridge contentBridge
}

func (c assetUploadCommand) Execute(ctx context.Context, msg UploadAsset) error {
	_, err := c.bridge.UploadAsset(ctx, bridge.UploadRequest{
		URL:      msg.URL,
		FileName: msg.FileName,
		MimeType: msg.MimeType,
		Title:    msg.Title,
		Width:    msg.Width,
		Height:   msg.Height,
	})
	return err
}
