package viz

import (
	"io"
	"strconv"
	"text/template"
)

const dotTemplate = `digraph "{{ .Name }}" {
	rankdir=LR; ranksep="1.5 equally"; ratio=auto;

{{ range .Nodes }}	node [label="{{ .Label }}",color="{{ .Color }}",type="{{ .Type }}"]; n{{ .ID }};
{{ end }}
{{ range .Edges }}	n{{ .Source }} -> n{{ .Destination }}{{ if .Label }} [label="{{ .Label }}"]{{ end }};
{{ end }}}
`

type dotEdge struct {
	Source      string
	Destination string
	Label       string
}

type dotNode struct {
	ID    string
	Label string
	Color string
	Type  string
}

type dotGraph struct {
	Name  string
	Nodes []dotNode
	Edges []dotEdge
}

// WriteDOT generates a Graphviz DOT document for the topology.
// The output can be fed to [RenderSVG] and [RenderPNG] or to any external
// Graphviz toolchain.
func WriteDOT(output io.Writer, nodes []Node, edges []Edge) error {
	graph := &dotGraph{Name: "PathProbe OSPF Topology"}

	for _, node := range nodes {
		graph.Nodes = append(graph.Nodes, dotNode{
			ID:    strconv.Itoa(node.ID + 1),
			Label: dotLabel(node.Label),
			Color: node.Color,
			Type:  node.Type,
		})
	}

	for _, edge := range edges {
		graph.Edges = append(graph.Edges, dotEdge{
			Source:      strconv.Itoa(edge.From + 1),
			Destination: strconv.Itoa(edge.To + 1),
			Label:       dotLabel(edge.Title),
		})
	}

	t := template.Must(template.New("graph").Parse(dotTemplate))
	return t.Execute(output, graph)
}

// dotLabel flattens multi-line display labels into DOT's escape syntax and
// escapes the characters that would terminate a quoted DOT string.
func dotLabel(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range label {
		switch r {
		case '\n':
			out = append(out, '\\', 'n')
		case '"', '\\':
			out = append(out, '\\', r)
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
