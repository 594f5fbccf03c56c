package viz

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
)

// defaultHTMLTemplate is the embedded vis-network page. It is used whenever
// no override is configured or the override cannot be loaded.
const defaultHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta http-equiv="content-type" content="text/html; charset=UTF8">
  <title>{{ .Title }}</title>

  <script type="text/javascript" src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>

  <style type="text/css">
    #topology {
      width: {{ .Width }};
      height: {{ .Height }};
      border: 1px solid lightgray;
    }
  </style>
</head>

<body>

<h2>{{ .Title }}</h2>

<div id="topology"></div>

<script type="text/javascript">
  var network;

  function redrawAll() {
    var container = document.getElementById('topology');
    var options = {
      nodes: {
        shape: 'dot',
        size: 20,
        font: {
          size: 12,
          face: 'Tahoma',
          align: 'center',
          multi: false
        }
      },
      edges: {
        arrows: 'to',
        color: {
          color: 'rgb(166,172,175)',
          hover: 'black'
        },
        font: {
          color: 'rgb(166,172,175)',
          size: 12,
          align: 'middle'
        },
        width: 0.5,
        hoverWidth: 1.0
      },
      interaction: {
        hover: true,
        tooltipDelay: 200,
        zoomView: true
      },
      physics: {
        enabled: {{ .Physics }},
        forceAtlas2Based: {
          gravitationalConstant: -26,
          centralGravity: 0.005,
          springLength: 230,
          springConstant: 0.18
        },
        maxVelocity: 50,
        solver: 'forceAtlas2Based',
        timestep: 0.2,
        stabilization: {iterations: 50}
      }
    };

    var nodes = {{ .Nodes }};
    var edges = {{ .Edges }};

    var data = {nodes: nodes, edges: edges};
    network = new vis.Network(container, data, options);
  }

  redrawAll()

</script>

</body>
</html>
`

// HTMLOptions configures HTML topology output.
type HTMLOptions struct {
	// Title is the page heading. Defaults to "PathProbe OSPF Topology".
	Title string

	// Height and Width size the network viewport. Defaults: 750px / 100%.
	Height string
	Width  string

	// Physics toggles the force-directed layout simulation.
	Physics bool

	// TemplatePath optionally overrides the embedded HTML template. When
	// the file is missing or does not parse, the embedded template is used
	// instead and Warn is notified.
	TemplatePath string

	// Warn receives non-fatal diagnostics, e.g. template fallback.
	// Nil disables warnings.
	Warn func(msg string, args ...any)
}

// visNode is the JSON shape vis-network expects for a node.
type visNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Title string `json:"title,omitempty"`
	Color string `json:"color,omitempty"`
}

// visEdge is the JSON shape vis-network expects for an edge.
type visEdge struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Title string `json:"title,omitempty"`
}

// templateData is passed to the HTML template.
type templateData struct {
	Title   string
	Height  template.CSS
	Width   template.CSS
	Physics bool
	Nodes   template.JS
	Edges   template.JS
}

// WriteHTML generates an interactive HTML topology page from viz nodes and
// edges and writes it to output.
//
// A configured template override that cannot be loaded falls back to the
// embedded template with a warning rather than failing the render.
func WriteHTML(output io.Writer, nodes []Node, edges []Edge, opts HTMLOptions) error {
	if opts.Title == "" {
		opts.Title = "PathProbe OSPF Topology"
	}
	if opts.Height == "" {
		opts.Height = "750px"
	}
	if opts.Width == "" {
		opts.Width = "100%"
	}

	tmpl := loadTemplate(opts)

	vn := make([]visNode, len(nodes))
	for i, n := range nodes {
		vn[i] = visNode{ID: n.ID, Label: n.Label, Title: n.Title, Color: n.Color}
	}
	ve := make([]visEdge, len(edges))
	for i, e := range edges {
		ve[i] = visEdge{From: e.From, To: e.To, Title: e.Title}
	}

	nodeJSON, err := json.Marshal(vn)
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}
	edgeJSON, err := json.Marshal(ve)
	if err != nil {
		return fmt.Errorf("marshal edges: %w", err)
	}

	data := templateData{
		Title:   opts.Title,
		Height:  template.CSS(opts.Height),
		Width:   template.CSS(opts.Width),
		Physics: opts.Physics,
		Nodes:   template.JS(nodeJSON),
		Edges:   template.JS(edgeJSON),
	}

	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}

// WriteHTMLFile renders the topology page to a file at path.
func WriteHTMLFile(path string, nodes []Node, edges []Edge, opts HTMLOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteHTML(f, nodes, edges, opts)
}

// loadTemplate returns the override template when configured and loadable,
// the embedded template otherwise.
func loadTemplate(opts HTMLOptions) *template.Template {
	fallback := template.Must(template.New("topology").Parse(defaultHTMLTemplate))
	if opts.TemplatePath == "" {
		return fallback
	}

	raw, err := os.ReadFile(opts.TemplatePath)
	if err != nil {
		warnf(opts, "template %s unreadable, using embedded template: %v", opts.TemplatePath, err)
		return fallback
	}
	tmpl, err := template.New("topology").Parse(string(raw))
	if err != nil {
		warnf(opts, "template %s invalid, using embedded template: %v", opts.TemplatePath, err)
		return fallback
	}
	return tmpl
}

func warnf(opts HTMLOptions, msg string, args ...any) {
	if opts.Warn != nil {
		opts.Warn(msg, args...)
	}
}
