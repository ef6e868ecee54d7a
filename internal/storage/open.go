package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

var (
	_ Provider = (*JSONStore)(nil)
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Migrator = (*sqlite.Store)(nil)
	_ Migrator = (*postgres.Store)(nil)
)

// Kind names the backend a target resolves to.
type Kind string

const (
	KindJSON     Kind = "json"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// KindOf classifies a store target: PostgreSQL URLs, *.json files, and
// SQLite for everything else.
func KindOf(target string) Kind {
	switch {
	case strings.HasPrefix(target, "postgres://"), strings.HasPrefix(target, "postgresql://"):
		return KindPostgres
	case strings.EqualFold(filepath.Ext(target), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// Open returns an unloaded provider for target. PostgreSQL connection
// strings carrying a password are rejected.
func Open(target string) (Provider, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("no store configured")
	}
	switch KindOf(target) {
	case KindPostgres:
		if err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		return postgres.New(target), nil
	case KindJSON:
		return NewJSONStore(target), nil
	default:
		return sqlite.NewStore(target), nil
	}
}

// Copy writes every known collection present in src into dst and returns
// how many were copied.
func Copy(dst, src Provider) (int, error) {
	copied := 0
	for _, name := range constants.Collections {
		data, err := src.Get(name)
		if err != nil {
			return copied, fmt.Errorf("failed to read %s from source: %w", name, err)
		}
		if data == nil {
			continue
		}
		if err := dst.Set(name, data); err != nil {
			return copied, fmt.Errorf("failed to write %s to destination: %w", name, err)
		}
		copied++
	}
	return copied, nil
}
