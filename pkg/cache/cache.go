// Package cache provides content-addressed caching for pipeline stages.
//
// Parsed databases and rendered artifacts are cached under SHA-256 keys so
// repeated runs over the same dump skip the expensive stages. Backends:
// a file cache for CLI usage, a Redis cache for shared deployments, and a
// null cache that disables caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLs for the different cached value classes.
const (
	// TTLDatabase is how long parsed databases stay cached.
	TTLDatabase = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DatabaseKeyOpts captures the parse options that affect cached output.
type DatabaseKeyOpts struct {
	KeepSkippedLines bool
}

// ArtifactKeyOpts captures the render options that affect cached output.
type ArtifactKeyOpts struct {
	Format  string
	Title   string
	Height  string
	Width   string
	Physics bool
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// DatabaseKey generates a key for a parsed database, from the source
	// dump's content hash and the parse options.
	DatabaseKey(sourceHash string, opts DatabaseKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, from the
	// normalized database's content hash and the render options.
	ArtifactKey(dbHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generation strategy.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DatabaseKey generates a key for a parsed database.
func (k *DefaultKeyer) DatabaseKey(sourceHash string, opts DatabaseKeyOpts) string {
	return hashKey("db", sourceHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(dbHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dbHash, opts)
}
