// Package nodelink renders a dependency graph as a Graphviz node-link diagram.
//
// # Overview
//
// This is the alternative to the nested SVG renderer: Graphviz positions the
// nodes itself, while the directory hierarchy is kept as nested cluster
// subgraphs so files still appear grouped by folder.
//
// # Usage
//
// Convert a graph to DOT format, then render:
//
//	dot := nodelink.ToDOT(data, result, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded
// box nodes labelled by file name. Each directory becomes a
// "cluster_<n>" subgraph labelled with its name. [Options.Focus] highlights a
// node's neighborhood and fades everything else.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] (Graphviz compiled to
// WebAssembly) for in-process rendering. No system Graphviz is needed.
package nodelink
