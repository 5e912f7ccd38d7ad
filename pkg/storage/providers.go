// Package storage constructs store clients for the bridge. Hosts pick the
// memory client for tests and single-process setups, or the bun client when
// content should live in a database.
package storage

import (
	bunstore "github.com/goliatone/go-content-bridge/internal/storage/bun"
	"github.com/goliatone/go-content-bridge/internal/storage/memory"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// NewMemoryClient returns a store client backed by in-memory maps.
func NewMemoryClient(opts ...memory.Option) *memory.Client {
	return memory.New(opts...)
}

// NewBunClient wires a store client over the given database. The caller is
// responsible for creating the *bun.DB instance (potentially via
// go-persistence-bun) and managing its lifecycle.
func NewBunClient(db *bun.DB) *bunstore.Client {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel(
		(*bunstore.ContentModelRecord)(nil),
		(*bunstore.ContentDocumentRecord)(nil),
		(*bunstore.ContentAssetRecord)(nil),
	)

	return bunstore.New(db)
}
