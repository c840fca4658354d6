package layout

import (
	"sort"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
)

// Geometry constants, in abstract pixels.
const (
	// NodeWidth and NodeHeight are the fixed footprint of every file node.
	NodeWidth  = 180.0
	NodeHeight = 32.0

	// NodeGap separates stacked files; a file row is NodeHeight+NodeGap tall.
	NodeGap = 8.0

	// DirGap separates sibling directories, and the subdirectory row from
	// the file column below it.
	DirGap = 24.0

	// DirPadding is the inner margin of a directory box.
	DirPadding = 12.0

	// HeaderHeight is reserved at the top of each directory for its label.
	HeaderHeight = 28.0

	// Margin surrounds the whole drawing.
	Margin = 40.0

	// MinWidth and MinHeight bound the viewport from below.
	MinWidth  = 1000.0
	MinHeight = 800.0

	// TangentLength is the horizontal reach of edge control points.
	TangentLength = 60.0
)

const rowHeight = NodeHeight + NodeGap

// Point is a 2-D coordinate.
type Point struct {
	X float64
	Y float64
}

// PositionedNode is a graph node with its absolute box.
type PositionedNode struct {
	depgraph.Node
	Box
}

// Viewport is the size of the drawing surface.
type Viewport struct {
	Width  float64
	Height float64
}

// Result is a computed layout.
type Result struct {
	Nodes       map[string]PositionedNode
	Directories []Directory // absolute boxes, pre-order, root excluded
	Viewport    Viewport
}

// Lookup returns the positioned node with the given ID.
func (r Result) Lookup(id string) (PositionedNode, bool) {
	n, ok := r.Nodes[id]
	return n, ok
}

// SortedNodes returns all positioned nodes ordered by ID.
func (r Result) SortedNodes() []PositionedNode {
	out := make([]PositionedNode, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Build is BuildTree followed by Compute.
func Build(nodes []depgraph.Node) (Result, error) {
	t, err := BuildTree(nodes)
	if err != nil {
		return Result{}, err
	}
	return Compute(t), nil
}

// Compute lays out the tree. It does not modify t.
func Compute(t *Tree) Result {
	e := &engine{
		tree:  t,
		sizes: make(map[string]Viewport, len(t.dirs)),
		rel:   make(map[string]Point, len(t.dirs)+len(t.nodes)),
	}
	root := t.Root()
	for _, c := range root.Subdirs {
		e.size(c)
	}

	// Top level: directories left to right, then one column of root files.
	var (
		cursor  = Margin
		tallest = 0.0
		placed  = 0
	)
	for _, c := range root.Subdirs {
		sz := e.sizes[c]
		e.rel[c] = Point{X: cursor, Y: Margin}
		cursor += sz.Width + DirGap
		tallest = max(tallest, sz.Height)
		placed++
	}
	if len(root.Files) > 0 {
		for i, id := range root.Files {
			e.rel[id] = Point{X: cursor, Y: Margin + float64(i)*rowHeight}
		}
		cursor += NodeWidth + DirGap
		tallest = max(tallest, fileColumnHeight(len(root.Files)))
		placed++
	}
	contentRight := Margin
	if placed > 0 {
		contentRight = cursor - DirGap
	}

	res := Result{
		Nodes: make(map[string]PositionedNode, len(t.nodes)),
		Viewport: Viewport{
			Width:  max(contentRight+Margin, MinWidth),
			Height: max(Margin+tallest+Margin, MinHeight),
		},
	}
	e.place(&res, root, Point{})
	return res
}

type engine struct {
	tree  *Tree
	sizes map[string]Viewport // directory path -> size
	rel   map[string]Point    // directory path or node ID -> origin relative to parent
}

func fileColumnHeight(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(n)*rowHeight - NodeGap
}

// size computes the size of directory p and the relative origins of its
// children, recursing into subdirectories first.
func (e *engine) size(p string) Viewport {
	d := e.tree.dirs[p]

	cursor := 0.0
	rowH := 0.0
	for i, c := range d.Subdirs {
		sz := e.size(c)
		if i > 0 {
			cursor += DirGap
		}
		e.rel[c] = Point{X: DirPadding + cursor, Y: HeaderHeight}
		cursor += sz.Width
		rowH = max(rowH, sz.Height)
	}

	filesY := HeaderHeight + rowH
	if len(d.Subdirs) > 0 && len(d.Files) > 0 {
		filesY += DirGap
	}
	for i, id := range d.Files {
		e.rel[id] = Point{X: DirPadding, Y: filesY + float64(i)*rowHeight}
	}

	sz := Viewport{
		Width:  max(cursor, NodeWidth) + 2*DirPadding,
		Height: filesY + fileColumnHeight(len(d.Files)) + DirPadding,
	}
	e.sizes[p] = sz
	return sz
}

// place translates relative origins into absolute boxes, pre-order.
func (e *engine) place(res *Result, d *Directory, origin Point) {
	for _, id := range d.Files {
		r := e.rel[id]
		res.Nodes[id] = PositionedNode{
			Node: e.tree.nodes[id],
			Box:  Box{X: origin.X + r.X, Y: origin.Y + r.Y, Width: NodeWidth, Height: NodeHeight},
		}
	}
	for _, c := range d.Subdirs {
		r := e.rel[c]
		sz := e.sizes[c]
		abs := Point{X: origin.X + r.X, Y: origin.Y + r.Y}
		child := e.tree.dirs[c]
		res.Directories = append(res.Directories, Directory{
			Path:    child.Path,
			Name:    child.Name,
			Depth:   child.Depth,
			Box:     Box{X: abs.X, Y: abs.Y, Width: sz.Width, Height: sz.Height},
			Subdirs: child.Subdirs,
			Files:   child.Files,
		})
		e.place(res, child, abs)
	}
}
