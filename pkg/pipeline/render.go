package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pathprobe/pathprobe/pkg/lsdb"
	"github.com/pathprobe/pathprobe/pkg/topo"
	"github.com/pathprobe/pathprobe/pkg/viz"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, g *topo.Graph, db *lsdb.Database, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	nodes, edges := viz.FromGraph(g)
	artifacts := make(map[string][]byte)

	// DOT backs both the svg and png formats, so generate it once.
	var dot []byte
	needDOT := func() ([]byte, error) {
		if dot != nil {
			return dot, nil
		}
		var buf bytes.Buffer
		if err := viz.WriteDOT(&buf, nodes, edges); err != nil {
			return nil, err
		}
		dot = buf.Bytes()
		return dot, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatHTML:
			var buf bytes.Buffer
			err = viz.WriteHTML(&buf, nodes, edges, viz.HTMLOptions{
				Title:        opts.Title,
				Height:       opts.Height,
				Width:        opts.Width,
				Physics:      opts.Physics,
				TemplatePath: opts.TemplatePath,
				Warn: func(msg string, args ...any) {
					opts.Logger.Warnf(msg, args...)
				},
			})
			data = buf.Bytes()
		case FormatDOT:
			data, err = needDOT()
		case FormatSVG:
			var d []byte
			if d, err = needDOT(); err == nil {
				data, err = viz.RenderSVG(ctx, string(d))
			}
		case FormatPNG:
			var d []byte
			if d, err = needDOT(); err == nil {
				data, err = viz.RenderPNG(ctx, string(d))
			}
		case FormatJSON:
			var buf bytes.Buffer
			if err = lsdb.WriteJSON(db, &buf); err == nil {
				data = buf.Bytes()
			}
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
