package translate

import (
	"fmt"

	"github.com/goliatone/go-content-bridge/pkg/codec"
	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
)

// Documents converts native documents into normalized ones. Each document's
// model is looked up in models by type; a document with no matching model
// still yields an entity, just with an empty field map. Fields absent from
// the model descriptor are dropped silently. A field whose model type is
// composite fails the whole call with UnsupportedFieldTypeError; there is no
// per-field error isolation.
func Documents(native []store.NativeDocument, models domain.ModelMap, manageURLBase string) ([]domain.Document, error) {
	documents := make([]domain.Document, 0, len(native))
	for _, doc := range native {
		translated, err := Document(doc, models, manageURLBase)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *translated)
	}
	return documents, nil
}

// Document converts a single native document.
func Document(native store.NativeDocument, models domain.ModelMap, manageURLBase string) (*domain.Document, error) {
	fields := map[string]domain.FieldValue{}
	if model, ok := models[native.Type]; ok {
		for name, value := range native.Fields {
			descriptor, ok := model.Field(name)
			if !ok {
				continue
			}
			normalized, err := codec.ToNormalized(value, descriptor.Type)
			if err != nil {
				return nil, fmt.Errorf("translate document %s field %s: %w", native.ID, name, err)
			}
			fields[name] = normalized
		}
	}
	return &domain.Document{
		ID:        native.ID,
		Model:     native.Type,
		Status:    StatusFromNative(native.Status),
		CreatedAt: native.CreatedAt,
		UpdatedAt: native.UpdatedAt,
		ManageURL: fmt.Sprintf("%s/document/%s", manageURLBase, native.ID),
		Fields:    fields,
	}, nil
}

// StatusFromNative derives the editing-lifecycle status. The mapping is
// total and fixed: draft becomes added, published stays published, and any
// other native status reads as modified.
func StatusFromNative(native string) domain.DocumentStatus {
	switch native {
	case store.NativeStatusDraft:
		return domain.StatusAdded
	case store.NativeStatusPublished:
		return domain.StatusPublished
	default:
		return domain.StatusModified
	}
}
