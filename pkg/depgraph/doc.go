// Package depgraph builds the file-level import graph of a FileSet and
// answers neighborhood queries against it.
//
// [Build] scans every file with an [imports.Resolver], creates one [Node]
// per file and one [Edge] per resolved import. The result is deterministic:
// nodes are sorted by path, and edges follow source path order and then
// the order imports appear within each file. Unresolved specifiers and
// self-imports are dropped, and repeated imports collapse to one edge.
//
// [Neighbors] computes the highlight set for a focused node: the node
// itself, every node it imports, every node importing it, and the edges
// between them.
package depgraph
