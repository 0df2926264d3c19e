// Package snapshot persists the corpus, embeddings included, as a
// gzip-compressed JSON sequence so startup can skip live fetch and live
// encoding. An unreadable snapshot is an optimization miss, not a
// failure: callers fall back to the live path.
package snapshot

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Save writes to a temp file first and renames, so a crashed writer
// never leaves a truncated snapshot behind.
func (s *Store) Save(records []domain.DocumentRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	gz := gzip.NewWriter(tmp)
	if err := json.NewEncoder(gz).Encode(records); err != nil {
		tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("close gzip writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

func (s *Store) Load() ([]domain.DocumentRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open gzip reader: %w", err)
	}
	defer gz.Close()

	var records []domain.DocumentRecord
	if err := json.NewDecoder(gz).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return records, nil
}
