// Package store persists parsed link-state databases as named snapshots.
//
// Snapshots let operators keep a history of routing state over time and
// compare or re-render old captures without the original text dumps.
// Backends:
//   - file: JSON files under the config directory, for CLI usage
//   - mongo: MongoDB collection, for shared deployments
package store

import (
	"context"
	"errors"
	"time"

	pperrors "github.com/pathprobe/pathprobe/pkg/errors"
	"github.com/pathprobe/pathprobe/pkg/lsdb"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored capture of a parsed link-state database.
type Snapshot struct {
	ID        string         `json:"id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Source    string         `json:"source" bson:"source"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	Stats     lsdb.Stats     `json:"stats" bson:"stats"`
	Database  *lsdb.Database `json:"database" bson:"database"`
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Save stores a snapshot. Saving under an existing ID overwrites it.
	Save(ctx context.Context, snap *Snapshot) error

	// Get retrieves a snapshot by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List returns snapshot metadata (Database omitted), newest first.
	List(ctx context.Context) ([]*Snapshot, error)

	// Delete removes a snapshot. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// notFound wraps ErrNotFound with a coded error for CLI reporting.
func notFound(id string) error {
	return pperrors.Wrap(pperrors.ErrCodeSnapshotNotFound, ErrNotFound, "snapshot %q not found", id)
}
