package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pathprobe/pathprobe/pkg/cache"
	"github.com/pathprobe/pathprobe/pkg/lsdb"
	"github.com/pathprobe/pathprobe/pkg/observability"
	"github.com/pathprobe/pathprobe/pkg/topo"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP viewer use this to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.Source)
	db, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	stats := lsdbStats(db)
	observability.Pipeline().OnParseComplete(ctx, opts.Source, stats, time.Since(parseStart), err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Database = db
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.LSACount = stats
	result.CacheInfo.ParseHit = parseHit

	// Compute database hash for cache keys and viewer responses
	var dbBuf bytes.Buffer
	if err := lsdb.WriteJSON(db, &dbBuf); err == nil {
		result.DatabaseHash = cache.Hash(dbBuf.Bytes())
	}

	r.Logger.Info("parsed link-state database",
		"routers", len(db.RouterLSAs),
		"networks", len(db.NetworkLSAs),
		"summaries", len(db.SummaryLSAs),
		"skipped", len(db.SkippedLSAs),
		"duration", result.Stats.ParseTime)

	// Stage 2: Build
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, stats)
	g := topo.Build(db)
	result.Stats.BuildTime = time.Since(buildStart)
	observability.Pipeline().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), g.GhostCount(), result.Stats.BuildTime, nil)
	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.GhostCount = g.GhostCount()

	r.Logger.Info("built topology",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"ghosts", g.GhostCount(),
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, db, result.DatabaseHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses the source dump with caching and returns cache
// hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*lsdb.Database, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// The cache key covers the dump's content, so edits to the source file
	// naturally miss.
	raw, err := os.ReadFile(opts.Source)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.DatabaseKey(cache.Hash(raw), opts.DatabaseKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "database")
			db, err := lsdb.ReadJSON(bytes.NewReader(data))
			if err == nil {
				return db, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "database")
	}

	// Parse
	parser := &lsdb.Parser{
		OnSkip:           opts.OnSkip,
		KeepSkippedLines: opts.KeepSkippedLines,
		Logger:           opts.Logger,
	}
	db, err := parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if !opts.Refresh {
		var buf bytes.Buffer
		if err := lsdb.WriteJSON(db, &buf); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLDatabase)
			observability.Cache().OnCacheSet(ctx, "database", buf.Len())
		}
	}

	return db, false, nil // Cache miss
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*lsdb.Database, error) {
	db, _, err := r.ParseWithCacheInfo(ctx, opts)
	return db, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. dbHash keys the artifact cache; pass "" to disable caching for this
// render.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *topo.Graph, db *lsdb.Database, dbHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheable := opts.CacheableRender() && dbHash != "" && !opts.Refresh

	// Try to get all formats from cache
	if cacheable {
		allCached := true
		artifacts := make(map[string][]byte)

		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(dbHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}

		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	// Render all formats
	rendered, err := Render(ctx, g, db, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if cacheable {
		for format, data := range rendered {
			cacheKey := r.Keyer.ArtifactKey(dbHash, opts.ArtifactKeyOpts(format))
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func lsdbStats(db *lsdb.Database) int {
	if db == nil {
		return 0
	}
	s := db.Stats()
	return s.Routers + s.Networks + s.Summaries
}
