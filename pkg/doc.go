// Package pkg provides the core libraries for PathProbe topology analysis.
//
// # Overview
//
// PathProbe turns OSPF link-state database text dumps into structured JSON
// and interactive topology graphs. The pkg directory is organized into five
// main areas:
//
//  1. [lsdb] - Parsing and normalization of link-state databases
//  2. [topo] - Topology graph construction (nodes, edges, ghost nodes)
//  3. [viz] - Rendering (vis-network HTML, DOT, SVG/PNG via graphviz)
//  4. [pipeline] - Orchestration (parse → build → render) with caching
//  5. [cache], [store] - Infrastructure (pipeline cache, snapshot store)
//
// # Architecture
//
// The typical data flow through PathProbe:
//
//	OSPF LSDB text dump
//	         ↓
//	    [lsdb] package (parse LSA records, normalize JSON variants)
//	         ↓
//	    [topo] package (build the topology graph)
//	         ↓
//	    [viz] package (HTML / DOT / SVG / PNG output)
//
// # Quick Start
//
// Parse a dump and render the topology:
//
//	import (
//	    "context"
//	    "github.com/pathprobe/pathprobe/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Source:  "lsdb.txt",
//	    Formats: []string{"html"},
//	})
//	if err != nil {
//	    // handle error
//	}
//	html := result.Artifacts["html"]
//
// The individual stages are usable on their own: lsdb.Parser for parsing,
// topo.Build for graph construction, and the viz writers for output.
package pkg
