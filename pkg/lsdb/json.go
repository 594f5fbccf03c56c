package lsdb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pathprobe/pathprobe/pkg/errors"
)

// WriteJSON encodes the database as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(db *Database, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(db); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the database to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(db *Database, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(db, f)
}

// ReadJSON decodes a parsed-database JSON document from r.
// All known schema variants are accepted; see [Normalize] for the mapping
// rules. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	return Normalize(data)
}

// ImportJSON reads a JSON file at path and returns the decoded database.
// The error wraps the underlying cause with the file path for context.
func ImportJSON(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
