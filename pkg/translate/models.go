// Package translate converts native models, documents, and assets into the
// normalized shapes the editing host consumes.
package translate

import (
	"github.com/goliatone/go-content-bridge/pkg/codec"
	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
)

// Models converts native schema definitions into model descriptors. The
// function is pure and total: one native model maps to exactly one
// descriptor and field order is preserved. Translation only needs each
// field's type tag, never its value, so composite tags survive here and are
// rejected later at document-field time.
func Models(native []store.NativeModel) []domain.ModelDescriptor {
	descriptors := make([]domain.ModelDescriptor, 0, len(native))
	for _, model := range native {
		fields := make([]domain.FieldDescriptor, 0, len(model.Fields))
		for _, field := range model.Fields {
			fields = append(fields, domain.FieldDescriptor{
				Name:          field.Name,
				Type:          codec.FieldTypeFromTag(field.Type),
				AllowedModels: field.AllowedTypes,
			})
		}
		descriptors = append(descriptors, domain.ModelDescriptor{
			Name:   model.Name,
			Fields: fields,
		})
	}
	return descriptors
}

// ModelMap indexes translated descriptors by name for document translation.
func ModelMap(native []store.NativeModel) domain.ModelMap {
	models := Models(native)
	index := make(domain.ModelMap, len(models))
	for _, model := range models {
		index[model.Name] = model
	}
	return index
}
