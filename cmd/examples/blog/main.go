package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	bunstore "github.com/goliatone/go-content-bridge/internal/storage/bun"
	"github.com/goliatone/go-content-bridge/pkg/bridge"
	"github.com/goliatone/go-content-bridge/pkg/commands"
	"github.com/goliatone/go-content-bridge/pkg/domain"
	"github.com/goliatone/go-content-bridge/pkg/interfaces/store"
	"github.com/goliatone/go-content-bridge/pkg/storage"
	"github.com/goliatone/go-content-bridge/pkg/watch"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	ctx := context.Background()

	db, err := openDatabase(ctx, sqliteDSN())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	client := storage.NewBunClient(db)

	if err := client.PutModel(ctx, store.NativeModel{
		Name: "post",
		Fields: []store.NativeField{
			{Name: "title", Type: "string"},
			{Name: "body", Type: "markdown"},
			{Name: "cover", Type: "image"},
			{Name: "author", Type: "reference", AllowedTypes: []string{"person"}},
		},
	}); err != nil {
		log.Fatalf("seed model: %v", err)
	}

	b, err := bridge.New(bridge.Dependencies{Store: client})
	if err != nil {
		log.Fatalf("new bridge: %v", err)
	}
	if err := b.Init(map[string]any{
		"project_id":      "blog-demo",
		"manage_url_base": "https://manage.blog.example.com",
		"public_base_url": "https://cdn.blog.example.com",
	}); err != nil {
		log.Fatalf("init bridge: %v", err)
	}

	done := make(chan struct{}, 8)
	hooks := watch.Hooks{
		GetModelMap: b.GetModelMap,
		OnContentChange: func(ctx context.Context, event domain.ChangeEvent) error {
			for _, doc := range event.Documents {
				fmt.Printf("changed: %s %s (%s)\n", doc.Model, doc.ID, doc.Status)
			}
			for _, id := range event.DeletedDocumentIDs {
				fmt.Printf("deleted: %s\n", id)
			}
			for _, asset := range event.Assets {
				fmt.Printf("asset: %s %s\n", asset.ID, asset.File.URL)
			}
			done <- struct{}{}
			return nil
		},
		OnSchemaChange: func(ctx context.Context) {
			fmt.Println("schema changed")
		},
	}
	if err := b.StartWatchingContentUpdates(ctx, hooks); err != nil {
		log.Fatalf("start watching: %v", err)
	}
	defer b.StopWatchingContentUpdates()

	catalog, err := commands.NewCatalog(commands.Dependencies{Bridge: b})
	if err != nil {
		log.Fatalf("new catalog: %v", err)
	}

	if err := catalog.CreateDocument.Execute(ctx, commands.CreateDocument{
		Model: "post",
		Fields: map[string]any{
			"title":  "Hello, world",
			"body":   "First post.",
			"author": "a1",
		},
	}); err != nil {
		log.Fatalf("create document: %v", err)
	}
	waitFor(done)

	if err := catalog.UploadAsset.Execute(ctx, commands.UploadAsset{
		URL:      "/uploads/cover.png",
		FileName: "cover.png",
		Width:    1200,
		Height:   630,
	}); err != nil {
		log.Fatalf("upload asset: %v", err)
	}
	waitFor(done)

	models, err := b.GetModelMap(ctx)
	if err != nil {
		log.Fatalf("model map: %v", err)
	}
	docs, err := b.GetDocuments(ctx, models)
	if err != nil {
		log.Fatalf("get documents: %v", err)
	}

	if err := catalog.UpdateDocument.Execute(ctx, commands.UpdateDocument{
		DocumentID: docs[0].ID,
		Model:      "post",
		Operations: []commands.FieldOperation{
			{Kind: "set", Path: []string{"title"}, Value: "Hello again"},
			{Kind: "unset", Path: []string{"body"}},
		},
	}); err != nil {
		log.Fatalf("update document: %v", err)
	}
	waitFor(done)

	if err := catalog.PublishDocuments.Execute(ctx, commands.PublishDocuments{
		DocumentIDs: []string{docs[0].ID},
	}); err != nil {
		log.Fatalf("publish: %v", err)
	}
	waitFor(done)

	docs, err = b.GetDocuments(ctx, models)
	if err != nil {
		log.Fatalf("get documents: %v", err)
	}
	encoded, _ := json.MarshalIndent(docs, "", "  ")
	fmt.Printf("documents:\n%s\n", encoded)
}

func sqliteDSN() string {
	if dsn := os.Getenv("BLOG_DSN"); dsn != "" {
		return dsn
	}
	return "file::memory:?cache=shared"
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*bunstore.ContentModelRecord)(nil),
		(*bunstore.ContentDocumentRecord)(nil),
		(*bunstore.ContentAssetRecord)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return nil, fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return db, nil
}

func waitFor(done chan struct{}) {
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Println("timed out waiting for change event")
	}
}
