// Package patch turns host-issued update operations into native field
// patches, using the codec in reverse.
package patch

import (
	"github.com/goliatone/go-content-bridge/pkg/codec"
	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
)

// FieldUpdate pairs a field's descriptor with its new normalized value.
type FieldUpdate struct {
	Field domain.FieldDescriptor
	Value domain.FieldValue
}

// FieldMap denormalizes a flat map of field updates into a native patch.
// Every entry dispatches through the codec on the field's own type tag;
// composite types fail with UnsupportedFieldTypeError.
func FieldMap(fields map[string]FieldUpdate) (store.FieldMap, error) {
	patch := make(store.FieldMap, len(fields))
	for name, update := range fields {
		native, err := codec.ToNative(update.Value, update.Field.Type)
		if err != nil {
			return nil, err
		}
		patch[name] = native
	}
	return patch, nil
}

// Operations folds update operations into a native patch in order; later
// operations for the same path overwrite earlier ones. Only the first path
// segment determines the native key. Deeper segments are not resolved.
//
// Set denormalizes the operation's value. Unset writes the explicit absent
// marker when the field's type is clearable (scalar, reference, or image)
// and fails with UnsupportedFieldTypeError otherwise. Any other operation
// kind fails with UnsupportedOperationError.
func Operations(operations []domain.UpdateOperation) (store.FieldMap, error) {
	patch := make(store.FieldMap, len(operations))
	for _, op := range operations {
		key := op.Key()
		if key == "" {
			continue
		}
		switch op.Kind {
		case domain.OpSet:
			native, err := codec.ToNative(op.Value, op.Field.Type)
			if err != nil {
				return nil, err
			}
			patch[key] = native
		case domain.OpUnset:
			if !clearable(op.Field.Type) {
				return nil, &domain.UnsupportedFieldTypeError{Type: op.Field.Type}
			}
			patch[key] = store.Absent
		default:
			return nil, &domain.UnsupportedOperationError{Kind: op.Kind}
		}
	}
	return patch, nil
}

func clearable(fieldType domain.FieldType) bool {
	return fieldType.IsScalar() || fieldType == domain.FieldImage || fieldType == domain.FieldReference
}
