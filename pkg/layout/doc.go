// Package layout turns a flat list of file nodes into a directory-nested,
// non-overlapping 2-D arrangement.
//
// # Hierarchy
//
// [BuildTree] splits every node ID on "/" and builds an arena of
// [Directory] values keyed by path. The root directory has path "".
// Subdirectories and files are kept sorted by name, so the tree does not
// depend on input order.
//
// # Geometry
//
// [Compute] sizes directories bottom-up and positions them top-down:
//
//	+- src ------------------------------------+
//	| +- app ----------+  +- components -----+ |
//	| | [page.tsx]     |  | +- layout -----+ | |
//	| +----------------+  | | [Header.tsx] | | |
//	|                     | +--------------+ | |
//	|                     +------------------+ |
//	+------------------------------------------+
//
// Subdirectories sit side by side under the directory header. Files form a
// single column below them. Every node has the same footprint
// ([NodeWidth] x [NodeHeight]). The result is a pure function of the tree.
//
// # Edges
//
// [Route] draws a horizontal cubic Bézier from the right edge of the
// importing node to the left edge of the imported one.
package layout
