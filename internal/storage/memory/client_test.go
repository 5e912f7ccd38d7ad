package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
)

func TestDocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	client := New()

	doc, err := client.CreateDocument(ctx, "post", store.FieldMap{"title": "Hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.Status != store.NativeStatusDraft {
		t.Fatalf("new documents start as drafts, got %s", doc.Status)
	}
	if doc.Fields["title"] != "Hello" {
		t.Fatalf("unexpected fields %v", doc.Fields)
	}

	if err := client.PublishDocuments(ctx, []string{doc.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	published, err := client.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if published.Status != store.NativeStatusPublished {
		t.Fatalf("expected published, got %s", published.Status)
	}

	updated, err := client.UpdateDocument(ctx, doc.ID, store.FieldMap{"title": "Hi"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != store.NativeStatusChanged {
		t.Fatalf("editing published should yield changed, got %s", updated.Status)
	}

	if err := client.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.GetDocument(ctx, doc.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestUpdateClearsAbsentFields(t *testing.T) {
	ctx := context.Background()
	client := New()

	doc, err := client.CreateDocument(ctx, "post", store.FieldMap{
		"title":    "Hello",
		"subtitle": "World",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := client.UpdateDocument(ctx, doc.ID, store.FieldMap{"subtitle": store.Absent})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := updated.Fields["subtitle"]; ok {
		t.Fatal("absent marker should remove the field")
	}
	if updated.Fields["title"] != "Hello" {
		t.Fatal("other fields must survive the patch")
	}
}

func TestUpdateUnknownDocument(t *testing.T) {
	client := New()
	if _, err := client.UpdateDocument(context.Background(), "missing", nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNotificationsReachSubscribers(t *testing.T) {
	ctx := context.Background()
	client := New()
	var received [][]store.NativeEvent

	handle, err := client.StartObservingContentChanges(func(events []store.NativeEvent) {
		received = append(received, events)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	doc, err := client.CreateDocument(ctx, "post", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected one batch, got %d", len(received))
	}
	if received[0][0].Kind != store.EventDocumentCreated {
		t.Fatalf("unexpected kind %s", received[0][0].Kind)
	}
	if received[0][0].Document == nil || received[0][0].Document.ID != doc.ID {
		t.Fatalf("event should carry the document payload")
	}

	if err := client.StopObservingContentChanges(handle); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if err := client.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(received) != 1 {
		t.Fatal("no deliveries after unsubscribe")
	}
}

func TestSeedModelsNotifiesSchemaChange(t *testing.T) {
	client := New()
	var kinds []store.EventKind
	if _, err := client.StartObservingContentChanges(func(events []store.NativeEvent) {
		for _, e := range events {
			kinds = append(kinds, e.Kind)
		}
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	client.SeedModels(store.NativeModel{Name: "post"})

	if len(kinds) != 1 || kinds[0] != store.EventModelChanged {
		t.Fatalf("expected model change event, got %v", kinds)
	}

	models, err := client.GetModels(context.Background())
	if err != nil {
		t.Fatalf("get models: %v", err)
	}
	if len(models) != 1 || models[0].Name != "post" {
		t.Fatalf("unexpected models %v", models)
	}
}
