package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/airmet/air-quality-monitor/internal/airquality"
)

// FileStore writes result documents to a single fixed path, pretty-printed,
// silently overwriting whatever was there before.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the configured output path.
func (s *FileStore) Path() string {
	return s.path
}

// Save marshals doc with two-space indentation and replaces the output file.
func (s *FileStore) Save(doc airquality.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// Load reads and validates the document at the configured path.
func (s *FileStore) Load() (airquality.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return airquality.Document{}, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return airquality.ParseDocument(data)
}
