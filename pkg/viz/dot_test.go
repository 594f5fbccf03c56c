package viz

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteDOTHappyPath(t *testing.T) {
	buf := bytes.NewBufferString("")
	err := WriteDOT(buf, testNodes(), testEdges())
	assert.Nil(t, err)

	output := buf.String()
	assert.Contains(t, output, `digraph "PathProbe OSPF Topology"`)
	assert.Contains(t, output, `node [label="Router\n1.1.1.1",color="lightblue",type="router"]; n1;`)
	assert.Contains(t, output, `node [label="Ghost\nvNode1",color="red",type="ghost"]; n3;`)
	assert.Contains(t, output, `n1 -> n2 [label="metric 10"];`)
	assert.Contains(t, output, "n2 -> n3;")
}

func TestWriteDOTEscapesQuotedLabels(t *testing.T) {
	nodes := []Node{{ID: 0, Label: "Router\n10.0.0.1 \"core\"", Color: "lightblue", Type: "router"}}
	edges := []Edge{{From: 0, To: 0, Title: `metric "10"`}}

	buf := bytes.NewBufferString("")
	err := WriteDOT(buf, nodes, edges)
	assert.Nil(t, err)

	output := buf.String()
	assert.Contains(t, output, `label="Router\n10.0.0.1 \"core\""`)
	assert.Contains(t, output, `[label="metric \"10\""]`)
}

func TestDotLabel(t *testing.T) {
	assert.Equal(t, `a\nb`, dotLabel("a\nb"))
	assert.Equal(t, `\"x\"`, dotLabel(`"x"`))
	assert.Equal(t, `a\\b`, dotLabel(`a\b`))
}

func TestWriteDOTEmptyGraph(t *testing.T) {
	buf := bytes.NewBufferString("")
	err := WriteDOT(buf, nil, nil)
	assert.Nil(t, err)
	assert.Contains(t, buf.String(), "digraph")
}
