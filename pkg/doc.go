// Package pkg provides the libraries behind dirgraph.
//
// # Overview
//
// dirgraph turns a flat set of source files into a file-level import graph
// and draws it nested inside the project's directory tree. The pkg
// directory is organized into four areas:
//
//  1. Core: [imports] resolves specifiers, [depgraph] builds the graph and
//     neighborhoods, [layout] computes the nested layout and routes edges
//  2. Input: [fileset] loads directories, zip archives and GitHub repositories
//  3. Output: [graph] is the JSON wire format, [render/nested] and
//     [render/nodelink] draw it
//  4. Infrastructure: [pipeline] runs the stages with [cache], [store] keeps
//     saved analyses, [server] exposes them over HTTP, [config] reads
//     dirgraph.toml
//
// # Data flow
//
//	FileSet
//	   ↓  imports.Resolver + depgraph.Build
//	depgraph.Data
//	   ↓  layout.Build + layout.RouteEdges
//	layout.Result
//	   ↓  render/nested or render/nodelink
//	SVG, PNG, DOT or layout JSON
package pkg
