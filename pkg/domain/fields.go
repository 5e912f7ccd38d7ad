// Package domain holds the normalized content entities shared across the
// bridge: field types and values, model descriptors, documents, assets, and
// the error taxonomy.
package domain

// FieldType is a model field's type tag. The vocabulary is closed: the
// codec enumerates every tag explicitly and rejects anything else, so an
// unhandled tag surfaces as an error instead of silently passing through.
type FieldType string

// Scalar tags. Native and normalized representations are identical for
// these; the codec passes values through unchanged in both directions.
const (
	FieldString   FieldType = "string"
	FieldText     FieldType = "text"
	FieldMarkdown FieldType = "markdown"
	FieldDate     FieldType = "date"
	FieldURL      FieldType = "url"
	FieldSlug     FieldType = "slug"
	FieldHTML     FieldType = "html"
	FieldBoolean  FieldType = "boolean"
	FieldDatetime FieldType = "datetime"
	FieldColor    FieldType = "color"
	FieldNumber   FieldType = "number"
	FieldEnum     FieldType = "enum"
	FieldFile     FieldType = "file"
	FieldJSON     FieldType = "json"
	FieldStyle    FieldType = "style"
	FieldRichText FieldType = "richText"
)

// Relational tags. These normalize to references carrying the target id.
const (
	FieldImage     FieldType = "image"
	FieldReference FieldType = "reference"
)

// Composite tags. Unsupported in both codec directions; they exist so the
// rejection can name the offending tag.
const (
	FieldObject         FieldType = "object"
	FieldModel          FieldType = "model"
	FieldCrossReference FieldType = "cross-reference"
	FieldList           FieldType = "list"
)

// IsScalar reports whether the tag is one of the pass-through scalar kinds.
func (t FieldType) IsScalar() bool {
	switch t {
	case FieldString, FieldText, FieldMarkdown, FieldDate, FieldURL,
		FieldSlug, FieldHTML, FieldBoolean, FieldDatetime, FieldColor,
		FieldNumber, FieldEnum, FieldFile, FieldJSON, FieldStyle,
		FieldRichText:
		return true
	default:
		return false
	}
}

// ReferenceKind discriminates what a reference value points at.
type ReferenceKind string

const (
	RefDocument ReferenceKind = "document"
	RefAsset    ReferenceKind = "asset"
)

// FieldValue is a normalized field value: either a scalar with its type tag
// or a reference to another document or asset. The interface is sealed so
// every consumer handles exactly these two shapes.
type FieldValue interface {
	fieldValue()
}

// ScalarValue carries a pass-through scalar and the tag it was read under.
type ScalarValue struct {
	Type  FieldType `json:"type"`
	Value any       `json:"value"`
}

func (ScalarValue) fieldValue() {}

// ReferenceValue points at a document or asset by id.
type ReferenceValue struct {
	RefType ReferenceKind `json:"ref_type"`
	RefID   string        `json:"ref_id"`
}

func (ReferenceValue) fieldValue() {}
