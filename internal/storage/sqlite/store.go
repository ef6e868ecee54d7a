// Package sqlite stores habitual collections in a single-table SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/migrations"
)

const busyTimeoutPragma = "?_pragma=busy_timeout(5000)"

type Store struct {
	path string
	db   *sql.DB
}

// NewStore returns an unopened SQLite store at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path+busyTimeoutPragma)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps writes serialized for the CLI process.
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", apperrors.ErrAlreadyInitialized, s.path)
	}

	if err := s.open(); err != nil {
		return err
	}
	if _, err := s.Migrate(context.Background(), nil); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return apperrors.ErrNotInitialized
	}
	if err := s.open(); err != nil {
		return err
	}

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.Validate(context.Background())
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) Get(collection string) ([]byte, error) {
	if s.db == nil {
		return nil, apperrors.ErrNotLoaded
	}
	var data string
	err := s.db.QueryRow("SELECT data FROM records WHERE collection = ?", collection).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	return []byte(data), nil
}

func (s *Store) Set(collection string, data []byte) error {
	if s.db == nil {
		return apperrors.ErrNotLoaded
	}
	_, err := s.db.Exec(`
		INSERT INTO records (collection, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(collection) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", collection, err)
	}
	logger.Debug("Collection written", "collection", collection, "bytes", len(data))
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	sub, err := migration.ForDialect(migrations.FS, migration.SQLite)
	if err != nil {
		return nil, err
	}
	return migration.NewRunner(s.db, sub, migration.SQLite), nil
}

// Migrate applies pending schema migrations.
func (s *Store) Migrate(ctx context.Context, progress func(migration.Migration)) (int, error) {
	if s.db == nil {
		return 0, apperrors.ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.Apply(ctx, progress)
}

// SchemaVersion reports the applied and the newest shipped schema versions.
func (s *Store) SchemaVersion(ctx context.Context) (int, int, error) {
	if s.db == nil {
		return 0, 0, apperrors.ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	current, err := runner.CurrentVersion(ctx)
	if err != nil {
		return 0, 0, err
	}
	latest, err := runner.LatestVersion()
	return current, latest, err
}

// GetDB exposes the connection for integrity checks and tests.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

func (s *Store) GetConfigPath() string {
	return s.path
}

