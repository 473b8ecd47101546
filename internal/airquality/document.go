package airquality

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument is returned when a loaded file is not a well-formed
// result document.
var ErrInvalidDocument = errors.New("invalid document format")

// requiredDocumentKeys are the top-level keys every loadable document must
// carry. The statistics key is optional; statistics are recomputed from the
// payload on load.
var requiredDocumentKeys = []string{"location", "station", "air_quality_data"}

// ParseDocument validates and decodes a persisted result document. It fails
// with ErrInvalidDocument on malformed JSON or when a required top-level key
// is missing, so callers can keep their current state on bad input.
func ParseDocument(data []byte) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	for _, key := range requiredDocumentKeys {
		if _, ok := raw[key]; !ok {
			return Document{}, fmt.Errorf("%w: missing %q", ErrInvalidDocument, key)
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return doc, nil
}
