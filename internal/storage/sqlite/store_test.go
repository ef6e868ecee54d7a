package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/julianstephens/habitual/internal/errors"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetAbsentCollection(t *testing.T) {
	store := setupTestStore(t)

	data, err := store.Get("tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if data != nil {
		t.Errorf("Get on absent collection = %q, want nil", data)
	}
}

func TestSetReplacesWholeBlob(t *testing.T) {
	store := setupTestStore(t)

	if err := store.Set("tasks", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}
	if err := store.Set("tasks", []byte(`[]`)); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	data, err := store.Get("tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("Get = %q, want []", data)
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitual.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Set("profile", []byte(`{"name":"Sam"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	data, err := reopened.Get("profile")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != `{"name":"Sam"}` {
		t.Errorf("Get = %q", data)
	}
}

func TestLifecycleErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitual.db")

	missing := NewStore(path)
	if err := missing.Load(); !errors.Is(err, apperrors.ErrNotInitialized) {
		t.Errorf("Load on missing database error = %v, want ErrNotInitialized", err)
	}
	if _, err := missing.Get("tasks"); !errors.Is(err, apperrors.ErrNotLoaded) {
		t.Errorf("Get on unloaded store error = %v, want ErrNotLoaded", err)
	}

	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	store.Close()

	again := NewStore(path)
	if err := again.Init(); !errors.Is(err, apperrors.ErrAlreadyInitialized) {
		t.Errorf("second Init error = %v, want ErrAlreadyInitialized", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	current, latest, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest || current < 1 {
		t.Errorf("SchemaVersion = (%d, %d), want equal and >= 1", current, latest)
	}

	applied, err := store.Migrate(ctx, nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("Migrate on fresh store applied %d, want 0", applied)
	}
}
