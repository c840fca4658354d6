// Package graph provides serialization types for dependency graphs and layouts.
//
// This package defines the canonical wire format for dirgraph's data, used
// for JSON files, API responses, cache entries and stored analyses (every
// type carries both json and bson tags).
//
// # Graph Serialization
//
// Graphs use a node-link format:
//
//	{
//	  "nodes": [{"id": "src/app/page.tsx", "category": "route"}],
//	  "edges": [{"source": "src/app/page.tsx", "target": "src/lib/utils.ts"}]
//	}
//
// Common operations:
//
//	data, _ := graph.ReadGraphFile("graph.json")   // File → depgraph.Data
//	graph.WriteGraphFile(data, "graph.json")       // depgraph.Data → File
//	g := graph.FromData(data)                      // depgraph.Data → Graph
//	data, err := g.Data()                          // Graph → depgraph.Data (validated)
//
// # Layout Serialization
//
// A [Layout] carries the viewport, absolute node and directory boxes, and
// routed edges with their SVG path data:
//
//	l := graph.FromLayout(result, edges)   // layout.Result → Layout
//	res := l.Result()                      // Layout → layout.Result
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph

// Visualization types.
const (
	VizTypeNested   = "nested"
	VizTypeNodelink = "nodelink"
)
