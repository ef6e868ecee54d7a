package storage

import (
	"context"

	"github.com/julianstephens/habitual/internal/migration"
)

// Provider persists named collections as opaque JSON blobs. Get returns
// nil, nil for a collection that was never written; Set replaces the whole
// blob. Nothing spans collections: the last write wins.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Collections
	Get(collection string) ([]byte, error)
	Set(collection string, data []byte) error

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL-backed providers.
type Migrator interface {
	Migrate(ctx context.Context, progress func(migration.Migration)) (int, error)
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}
