package patch

import (
	"errors"
	"testing"

	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
)

func TestFieldMapDenormalizes(t *testing.T) {
	fields := map[string]FieldUpdate{
		"title": {
			Field: domain.FieldDescriptor{Name: "title", Type: domain.FieldString},
			Value: domain.ScalarValue{Type: domain.FieldString, Value: "Hello"},
		},
		"author": {
			Field: domain.FieldDescriptor{Name: "author", Type: domain.FieldReference},
			Value: domain.ReferenceValue{RefType: domain.RefDocument, RefID: "a1"},
		},
	}
	patch, err := FieldMap(fields)
	if err != nil {
		t.Fatalf("field map: %v", err)
	}
	if patch["title"] != "Hello" {
		t.Fatalf("unexpected title %v", patch["title"])
	}
	if patch["author"] != "a1" {
		t.Fatalf("reference should denormalize to target id, got %v", patch["author"])
	}
}

func TestFieldMapRejectsComposite(t *testing.T) {
	fields := map[string]FieldUpdate{
		"sections": {
			Field: domain.FieldDescriptor{Name: "sections", Type: domain.FieldObject},
			Value: domain.ScalarValue{Type: domain.FieldObject},
		},
	}
	_, err := FieldMap(fields)
	var unsupported *domain.UnsupportedFieldTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected unsupported field type, got %v", err)
	}
}

func TestOperationsLastWriteWins(t *testing.T) {
	ops := []domain.UpdateOperation{
		{
			Kind:      domain.OpSet,
			FieldPath: []string{"title"},
			Field:     domain.FieldDescriptor{Name: "title", Type: domain.FieldString},
			Value:     domain.ScalarValue{Type: domain.FieldString, Value: "first"},
		},
		{
			Kind:      domain.OpSet,
			FieldPath: []string{"title"},
			Field:     domain.FieldDescriptor{Name: "title", Type: domain.FieldString},
			Value:     domain.ScalarValue{Type: domain.FieldString, Value: "second"},
		},
	}
	patch, err := Operations(ops)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if patch["title"] != "second" {
		t.Fatalf("expected later set to win, got %v", patch["title"])
	}
}

func TestOperationsOnlyFirstPathSegment(t *testing.T) {
	ops := []domain.UpdateOperation{{
		Kind:      domain.OpSet,
		FieldPath: []string{"meta", "seo", "title"},
		Field:     domain.FieldDescriptor{Name: "meta", Type: domain.FieldString},
		Value:     domain.ScalarValue{Type: domain.FieldString, Value: "v"},
	}}
	patch, err := Operations(ops)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if _, ok := patch["meta"]; !ok {
		t.Fatal("expected patch keyed by first segment")
	}
	if len(patch) != 1 {
		t.Fatalf("deeper segments must not produce keys, got %v", patch)
	}
}

func TestUnsetScalarWritesAbsentMarker(t *testing.T) {
	ops := []domain.UpdateOperation{{
		Kind:      domain.OpUnset,
		FieldPath: []string{"title"},
		Field:     domain.FieldDescriptor{Name: "title", Type: domain.FieldString},
	}}
	patch, err := Operations(ops)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	value, ok := patch["title"]
	if !ok {
		t.Fatal("expected entry for unset field")
	}
	if !store.IsAbsent(value) {
		t.Fatalf("expected absent marker, got %v", value)
	}
}

func TestUnsetCompositeFails(t *testing.T) {
	ops := []domain.UpdateOperation{{
		Kind:      domain.OpUnset,
		FieldPath: []string{"sections"},
		Field:     domain.FieldDescriptor{Name: "sections", Type: domain.FieldList},
	}}
	_, err := Operations(ops)
	var unsupported *domain.UnsupportedFieldTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected unsupported field type, got %v", err)
	}
	if unsupported.Type != domain.FieldList {
		t.Fatalf("expected list tag, got %s", unsupported.Type)
	}
}

func TestUnknownOperationKindFails(t *testing.T) {
	ops := []domain.UpdateOperation{{
		Kind:      domain.OperationKind("insert"),
		FieldPath: []string{"title"},
		Field:     domain.FieldDescriptor{Name: "title", Type: domain.FieldString},
	}}
	_, err := Operations(ops)
	var unsupported *domain.UnsupportedOperationError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected unsupported operation, got %v", err)
	}
	if unsupported.Kind != "insert" {
		t.Fatalf("expected kind in error, got %s", unsupported.Kind)
	}
}
