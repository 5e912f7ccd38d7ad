// Package codec converts single field values between the backing store's
// native representation and the normalized, type-tagged one. It is the only
// package that knows the full field-type vocabulary.
package codec

import (
	"github.com/goliatone/go-content-bridge/pkg/domain"
)

// ToNormalized converts a native field value into its normalized shape,
// dispatching on the field's type tag.
//
// Scalar tags pass the value through unchanged. Image and reference tags
// interpret the native value as the referenced entity's id. Composite tags
// (object, model, cross-reference, list) and tags outside the vocabulary
// fail with UnsupportedFieldTypeError.
func ToNormalized(native any, fieldType domain.FieldType) (domain.FieldValue, error) {
	switch fieldType {
	case domain.FieldString, domain.FieldText, domain.FieldMarkdown,
		domain.FieldDate, domain.FieldURL, domain.FieldSlug,
		domain.FieldHTML, domain.FieldBoolean, domain.FieldDatetime,
		domain.FieldColor, domain.FieldNumber, domain.FieldEnum,
		domain.FieldFile, domain.FieldJSON, domain.FieldStyle,
		domain.FieldRichText:
		return domain.ScalarValue{Type: fieldType, Value: native}, nil
	case domain.FieldImage:
		return domain.ReferenceValue{RefType: domain.RefAsset, RefID: refID(native)}, nil
	case domain.FieldReference:
		return domain.ReferenceValue{RefType: domain.RefDocument, RefID: refID(native)}, nil
	case domain.FieldObject, domain.FieldModel, domain.FieldCrossReference, domain.FieldList:
		return nil, &domain.UnsupportedFieldTypeError{Type: fieldType}
	default:
		return nil, &domain.UnsupportedFieldTypeError{Type: fieldType}
	}
}

// ToNative converts a normalized field value back into the store's native
// shape for the given type tag. It is the inverse of ToNormalized and fails
// on the same tags.
func ToNative(value domain.FieldValue, fieldType domain.FieldType) (any, error) {
	switch fieldType {
	case domain.FieldString, domain.FieldText, domain.FieldMarkdown,
		domain.FieldDate, domain.FieldURL, domain.FieldSlug,
		domain.FieldHTML, domain.FieldBoolean, domain.FieldDatetime,
		domain.FieldColor, domain.FieldNumber, domain.FieldEnum,
		domain.FieldFile, domain.FieldJSON, domain.FieldStyle,
		domain.FieldRichText:
		if scalar, ok := value.(domain.ScalarValue); ok {
			return scalar.Value, nil
		}
		return value, nil
	case domain.FieldImage, domain.FieldReference:
		if ref, ok := value.(domain.ReferenceValue); ok {
			return ref.RefID, nil
		}
		return nil, &domain.UnsupportedFieldTypeError{Type: fieldType}
	case domain.FieldObject, domain.FieldModel, domain.FieldCrossReference, domain.FieldList:
		return nil, &domain.UnsupportedFieldTypeError{Type: fieldType}
	default:
		return nil, &domain.UnsupportedFieldTypeError{Type: fieldType}
	}
}

// FieldTypeFromTag maps a native schema tag onto the closed vocabulary. The
// mapping is total: unknown tags come back verbatim so model translation
// never fails, and the codec rejects them later at document-field time.
func FieldTypeFromTag(tag string) domain.FieldType {
	return domain.FieldType(tag)
}

func refID(native any) string {
	if id, ok := native.(string); ok {
		return id
	}
	return ""
}
