package domain

// OperationKind discriminates update operations. Only set and unset are
// supported; anything else is rejected by the update applier.
type OperationKind string

const (
	OpSet   OperationKind = "set"
	OpUnset OperationKind = "unset"
)

// UpdateOperation targets one field path of one document. Field paths are
// sequences, but only the first segment is honored; nested paths are
// unsupported.
type UpdateOperation struct {
	Kind      OperationKind
	FieldPath []string
	// Field is the model descriptor entry for the target field. Unset uses
	// it to decide whether clearing is representable for the field's type.
	Field FieldDescriptor
	// Value is the normalized value for set operations.
	Value FieldValue
}

// Key returns the native field key the operation resolves to: the first
// path segment, or empty when the path is empty.
func (op UpdateOperation) Key() string {
	if len(op.FieldPath) == 0 {
		return ""
	}
	return op.FieldPath[0]
}
