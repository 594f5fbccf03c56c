package viz

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/goccy/go-graphviz"
)

const testDOT = `digraph topology { "1.1.1.1" -> "10.0.0.1"; }`

func TestRenderSVG(t *testing.T) {
	out, err := RenderSVG(context.Background(), testDOT)
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Error("output is not SVG")
	}
}

func TestRenderPNGDoubleResolution(t *testing.T) {
	ctx := context.Background()

	base, err := render(ctx, testDOT, graphviz.PNG, 0)
	if err != nil {
		t.Fatalf("render() error = %v", err)
	}
	scaled, err := RenderPNG(ctx, testDOT)
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}

	baseCfg, err := png.DecodeConfig(bytes.NewReader(base))
	if err != nil {
		t.Fatalf("decode base PNG: %v", err)
	}
	scaledCfg, err := png.DecodeConfig(bytes.NewReader(scaled))
	if err != nil {
		t.Fatalf("decode scaled PNG: %v", err)
	}

	// Rasterization rounds to whole pixels, so allow a little slack.
	want := baseCfg.Width * 2
	if scaledCfg.Width < want-4 || scaledCfg.Width > want+4 {
		t.Errorf("scaled width = %d, want ~%d (base %d)", scaledCfg.Width, want, baseCfg.Width)
	}
}

func TestRenderRejectsMalformedDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error for malformed DOT")
	}
}
