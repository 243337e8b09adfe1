// Package menu is an opaque JSON passthrough store for the menu catalog.
// The server never interprets the document; the frontend owns its shape.
package menu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidJSON marks a rejected payload, as opposed to a storage failure.
var ErrInvalidJSON = errors.New("menu payload is not valid JSON")

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored menu document, or an empty object when no menu
// has been saved yet.
func (s *Store) Load() (json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return json.RawMessage("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read menu %s: %w", s.path, err)
	}
	return json.RawMessage(data), nil
}

// Save stores exactly what the frontend sent, pretty-printed. Invalid JSON
// is rejected before touching the file.
func (s *Store) Save(doc json.RawMessage) error {
	if !json.Valid(doc) {
		return ErrInvalidJSON
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, doc, "", "  "); err != nil {
		return fmt.Errorf("format menu: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create menu dir: %w", err)
	}
	if err := os.WriteFile(s.path, pretty.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write menu %s: %w", s.path, err)
	}
	return nil
}
