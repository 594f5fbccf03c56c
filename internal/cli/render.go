package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathprobe/pathprobe/pkg/cache"
	pperrors "github.com/pathprobe/pathprobe/pkg/errors"
	"github.com/pathprobe/pathprobe/pkg/lsdb"
	"github.com/pathprobe/pathprobe/pkg/pipeline"
	"github.com/pathprobe/pathprobe/pkg/topo"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // base output path (derived from input if empty)
	html     string   // shortcut for a single HTML output path
	formats  []string // output formats: html, dot, svg, png, json
	title    string   // HTML page title
	height   string   // HTML canvas height
	width    string   // HTML canvas width
	physics  bool     // enable the force layout
	template string   // custom HTML template path
	noCache  bool     // bypass the artifact cache
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <json-file>",
		Short: "Render a parsed database as a topology graph",
		Long: `Render a parsed link-state database as a topology graph.

The input is the JSON a previous parse produced; legacy key variants from
older exporters are accepted. Routers, networks, and summary prefixes become
nodes, links become edges, and dangling references appear as red ghost
nodes.

Examples:
  pathprobe render lsdb.json                      # lsdb.html
  pathprobe render lsdb.json --html topo.html     # explicit HTML path
  pathprobe render lsdb.json -f html,dot,svg      # multiple formats
  pathprobe render lsdb.json -f png --no-physics  # static layout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if opts.html != "" {
				opts.formats = []string{pipeline.FormatHTML}
				opts.output = opts.html
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			// Config supplies defaults for flags the user left unset.
			if !cmd.Flags().Changed("physics") {
				opts.physics = c.Config.Render.Physics
			}
			if opts.height == "" {
				opts.height = c.Config.Render.Height
			}
			if opts.width == "" {
				opts.width = c.Config.Render.Width
			}
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.html, "html", "", "HTML output path (shorthand for -f html -o <path>)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), dot, svg, png, json (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "HTML page title")
	cmd.Flags().StringVar(&opts.height, "height", "", "HTML canvas height (default 750px)")
	cmd.Flags().StringVar(&opts.width, "width", "", "HTML canvas width (default 100%)")
	cmd.Flags().BoolVar(&opts.physics, "physics", false, "enable the force layout")
	cmd.Flags().StringVar(&opts.template, "template", "", "custom HTML template path")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts renderOpts) error {
	c.Logger.Infof("Rendering %s", input)

	raw, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	db, err := lsdb.Normalize(raw)
	if err != nil {
		return err
	}
	stats := db.Stats()
	c.Logger.Infof("Loaded database: %d routers, %d networks, %d summaries",
		stats.Routers, stats.Networks, stats.Summaries)

	g := topo.Build(db)

	runner := c.newRunner(cmd, opts.noCache)
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Source = input
	popts.Formats = opts.formats
	popts.Title = opts.title
	popts.Height = opts.height
	popts.Width = opts.width
	popts.Physics = opts.physics
	popts.TemplatePath = opts.template

	spin := newSpinner(cmd.Context(), "Rendering topology")
	spin.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(cmd.Context(), g, db, cache.Hash(raw), popts)
	spin.Stop()
	if err != nil {
		return err
	}

	printSuccess("Rendered %d format(s)", len(artifacts))
	printStats(g.NodeCount(), g.EdgeCount(), g.GhostCount(), hit)
	return writeArtifacts(artifacts, opts.formats, opts.output, input)
}

// writeArtifacts writes each rendered format to its output path.
// A single format goes to output directly; multiple formats share a base
// path and get per-format extensions.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) error {
	if len(formats) == 1 {
		path := output
		if path == "" {
			path = basePath("", input) + "." + formats[0]
		}
		return writeArtifact(path, artifacts[formats[0]])
	}

	base := basePath(output, input)
	for _, format := range formats {
		if err := writeArtifact(base+"."+format, artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if err := pperrors.ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output carries
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
