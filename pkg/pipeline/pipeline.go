// Package pipeline provides the core topology pipeline for PathProbe.
//
// This package implements the complete parse → build → render pipeline that
// is used by the CLI commands and the HTTP viewer. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Extract LSA records from an OSPF link-state database text dump
//  2. Build: Construct the topology graph, materializing ghost nodes for
//     dangling references
//  3. Render: Generate output in various formats (HTML, DOT, SVG, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "lsdb.txt",
//	    Formats: []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["html"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathprobe/pathprobe/pkg/cache"
	"github.com/pathprobe/pathprobe/pkg/errors"
	"github.com/pathprobe/pathprobe/pkg/lsdb"
	"github.com/pathprobe/pathprobe/pkg/topo"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Viewer
// =============================================================================

const (
	// DefaultHeight is the default HTML canvas height.
	DefaultHeight = "750px"

	// DefaultWidth is the default HTML canvas width.
	DefaultWidth = "100%"

	// DefaultTitle is the default HTML page title.
	DefaultTitle = "PathProbe OSPF Topology"
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the topology pipeline.
// This struct supports JSON serialization for viewer requests.
type Options struct {
	// Parse options
	Source           string `json:"source"`
	KeepSkippedLines bool   `json:"keep_skipped_lines,omitempty"`
	Refresh          bool   `json:"refresh,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Title        string   `json:"title,omitempty"`
	Height       string   `json:"height,omitempty"`
	Width        string   `json:"width,omitempty"`
	Physics      bool     `json:"physics,omitempty"`
	TemplatePath string   `json:"template_path,omitempty"`

	// Logger receives stage progress output (not serialized).
	Logger *log.Logger `json:"-"`

	// OnSkip is consulted for each malformed record during parsing
	// (not serialized).
	OnSkip func(lsdb.SkippedLSA) lsdb.SkipDecision `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID string

	// Database is the parsed link-state database.
	Database *lsdb.Database

	// DatabaseHash is the content hash of the normalized database.
	DatabaseHash string

	// Graph is the constructed topology graph.
	Graph *topo.Graph

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LSACount   int
	NodeCount  int
	EdgeCount  int
	GhostCount int
	ParseTime  time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed database came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: html, dot, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Height == "" {
		o.Height = DefaultHeight
	}
	if o.Width == "" {
		o.Width = DefaultWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// DatabaseKeyOpts returns cache key options for the parse stage.
func (o *Options) DatabaseKeyOpts() cache.DatabaseKeyOpts {
	return cache.DatabaseKeyOpts{
		KeepSkippedLines: o.KeepSkippedLines,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Title:   o.Title,
		Height:  o.Height,
		Width:   o.Width,
		Physics: o.Physics,
	}
}

// CacheableRender reports whether rendered artifacts can be cached.
// Custom templates are read from disk at render time, so their output
// is never cached.
func (o *Options) CacheableRender() bool {
	return o.TemplatePath == ""
}
