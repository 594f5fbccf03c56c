package cache

// ScopedKeyer wraps another Keyer and prefixes every key with a scope.
// Used to partition the cache between independent workspaces sharing a
// backend, e.g. per-user scopes against a shared Redis.
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer creates a keyer whose keys are namespaced under scope.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	return &ScopedKeyer{inner: inner, scope: scope}
}

// DatabaseKey generates a scoped key for a parsed database.
func (k *ScopedKeyer) DatabaseKey(sourceHash string, opts DatabaseKeyOpts) string {
	return k.scope + ":" + k.inner.DatabaseKey(sourceHash, opts)
}

// ArtifactKey generates a scoped key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(dbHash string, opts ArtifactKeyOpts) string {
	return k.scope + ":" + k.inner.ArtifactKey(dbHash, opts)
}
