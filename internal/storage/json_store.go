package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "github.com/julianstephens/habitual/internal/errors"
)

// document is the on-disk layout of a JSON store.
type document struct {
	Version     int                        `json:"version"`
	Collections map[string]json.RawMessage `json:"collections"`
}

const jsonDocumentVersion = 1

// JSONStore keeps every collection in a single JSON file that is rewritten
// on each Set.
type JSONStore struct {
	path string
	doc  *document
}

// NewJSONStore returns an unloaded JSON document store at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", apperrors.ErrAlreadyInitialized, s.path)
	}

	s.doc = &document{
		Version:     jsonDocumentVersion,
		Collections: make(map[string]json.RawMessage),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonDocumentVersion {
		return fmt.Errorf("storage version %d is newer than supported version %d", doc.Version, jsonDocumentVersion)
	}
	if doc.Collections == nil {
		doc.Collections = make(map[string]json.RawMessage)
	}
	// The file is indented for humans; callers get compact blobs back.
	for name, raw := range doc.Collections {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return fmt.Errorf("failed to parse collection %s: %w", name, err)
		}
		doc.Collections[name] = buf.Bytes()
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Get(collection string) ([]byte, error) {
	if s.doc == nil {
		return nil, apperrors.ErrNotLoaded
	}
	raw, ok := s.doc.Collections[collection]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *JSONStore) Set(collection string, data []byte) error {
	if s.doc == nil {
		return apperrors.ErrNotLoaded
	}
	if !json.Valid(data) {
		return fmt.Errorf("refusing to store invalid JSON in %s", collection)
	}

	prev, had := s.doc.Collections[collection]
	s.doc.Collections[collection] = append(json.RawMessage(nil), data...)
	if err := s.save(); err != nil {
		if had {
			s.doc.Collections[collection] = prev
		} else {
			delete(s.doc.Collections, collection)
		}
		return err
	}
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
