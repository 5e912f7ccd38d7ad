package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.DriverName(), "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	models := []any{
		(*ContentModelRecord)(nil),
		(*ContentDocumentRecord)(nil),
		(*ContentAssetRecord)(nil),
	}
	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		if err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocumentLifecycleBun(t *testing.T) {
	ctx := context.Background()
	client := New(setupSQLiteDB(t))

	doc, err := client.CreateDocument(ctx, "post", store.FieldMap{"title": "Hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if doc.Status != store.NativeStatusDraft {
		t.Fatalf("new documents start as drafts, got %s", doc.Status)
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
	if updated.Fields["title"] != "Hi" {
		t.Fatalf("unexpected fields %v", updated.Fields)
	}

	if err := client.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.GetDocument(ctx, doc.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestUpdateClearsAbsentFieldsBun(t *testing.T) {
	ctx := context.Background()
	client := New(setupSQLiteDB(t))

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

func TestMalformedIDTreatedAsNotFound(t *testing.T) {
	client := New(setupSQLiteDB(t))
	if _, err := client.GetDocument(context.Background(), "not-a-uuid"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := client.GetAsset(context.Background(), "not-a-uuid"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPutModelUpsertsByName(t *testing.T) {
	ctx := context.Background()
	client := New(setupSQLiteDB(t))

	var kinds []store.EventKind
	if _, err := client.StartObservingContentChanges(func(events []store.NativeEvent) {
		for _, e := range events {
			kinds = append(kinds, e.Kind)
		}
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	model := store.NativeModel{
		Name: "post",
		Fields: []store.NativeField{
			{Name: "title", Type: "string"},
		},
	}
	if err := client.PutModel(ctx, model); err != nil {
		t.Fatalf("put model: %v", err)
	}

	model.Fields = append(model.Fields, store.NativeField{Name: "body", Type: "rich-text"})
	if err := client.PutModel(ctx, model); err != nil {
		t.Fatalf("put model again: %v", err)
	}

	models, err := client.GetModels(ctx)
	if err != nil {
		t.Fatalf("get models: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected single model, got %d", len(models))
	}
	if len(models[0].Fields) != 2 {
		t.Fatalf("expected updated fields, got %v", models[0].Fields)
	}
	if len(kinds) != 2 || kinds[0] != store.EventModelChanged {
		t.Fatalf("expected schema change events, got %v", kinds)
	}
}

func TestAssetLifecycleBun(t *testing.T) {
	ctx := context.Background()
	client := New(setupSQLiteDB(t))

	asset, err := client.UploadAsset(ctx, "/uploads/cat.png", "Cat", 640, 480)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	got, err := client.GetAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	if got.URL != "/uploads/cat.png" || got.Width != 640 {
		t.Fatalf("unexpected asset %+v", got)
	}

	assets, err := client.GetAssets(ctx)
	if err != nil {
		t.Fatalf("list assets: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("expected one asset, got %d", len(assets))
	}
}
