package domain

import "fmt"

// UnsupportedFieldTypeError reports a field type tag with no codec mapping.
// Composite tags and tags outside the vocabulary both surface as this.
type UnsupportedFieldTypeError struct {
	Type FieldType
}

func (e *UnsupportedFieldTypeError) Error() string {
	return fmt.Sprintf("content: unsupported field type %q", string(e.Type))
}

// UnsupportedOperationError reports an update-operation kind other than set
// or unset.
type UnsupportedOperationError struct {
	Kind OperationKind
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("content: unsupported update operation %q", string(e.Kind))
}

// UnsupportedUploadError reports an asset upload request without a source
// URL. Inline byte payloads are not accepted.
type UnsupportedUploadError struct {
	Reason string
}

func (e *UnsupportedUploadError) Error() string {
	if e.Reason == "" {
		return "content: unsupported asset upload"
	}
	return fmt.Sprintf("content: unsupported asset upload: %s", e.Reason)
}

// MissingConfigurationError reports an absent required construction
// parameter.
type MissingConfigurationError struct {
	Key string
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("content: missing configuration %q", e.Key)
}
