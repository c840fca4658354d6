package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/layout"
)

// Layout is the serialized form of a computed layout.
type Layout struct {
	Width       float64          `json:"width" bson:"width"`
	Height      float64          `json:"height" bson:"height"`
	Nodes       []PositionedNode `json:"nodes" bson:"nodes"`
	Directories []Directory      `json:"directories" bson:"directories"`
	Edges       []RoutedEdge     `json:"edges" bson:"edges"`
}

// PositionedNode is a node with its absolute box.
type PositionedNode struct {
	ID       string  `json:"id" bson:"id"`
	Category string  `json:"category" bson:"category"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
}

// Directory is a directory box. Depth is 1 for top-level directories.
type Directory struct {
	Path   string  `json:"path" bson:"path"`
	Name   string  `json:"name" bson:"name"`
	Depth  int     `json:"depth" bson:"depth"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Point is a serialized coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// RoutedEdge is an edge with its Bézier control points and SVG path data.
type RoutedEdge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Path   string `json:"path" bson:"path"`
	Start  Point  `json:"start" bson:"start"`
	C1     Point  `json:"c1" bson:"c1"`
	C2     Point  `json:"c2" bson:"c2"`
	End    Point  `json:"end" bson:"end"`
}

// FromLayout converts a computed layout to its wire form. Nodes are sorted
// by ID, directories keep pre-order and edges are routed in input order.
func FromLayout(res layout.Result, edges []depgraph.Edge) Layout {
	l := Layout{
		Width:       res.Viewport.Width,
		Height:      res.Viewport.Height,
		Nodes:       make([]PositionedNode, 0, len(res.Nodes)),
		Directories: make([]Directory, 0, len(res.Directories)),
		Edges:       []RoutedEdge{},
	}
	for _, n := range res.SortedNodes() {
		l.Nodes = append(l.Nodes, PositionedNode{
			ID: n.ID, Category: string(n.Category),
			X: n.X, Y: n.Y, Width: n.Width, Height: n.Height,
		})
	}
	for _, d := range res.Directories {
		l.Directories = append(l.Directories, Directory{
			Path: d.Path, Name: d.Name, Depth: d.Depth,
			X: d.Box.X, Y: d.Box.Y, Width: d.Box.Width, Height: d.Box.Height,
		})
	}
	for _, e := range layout.RouteEdges(res, edges) {
		l.Edges = append(l.Edges, RoutedEdge{
			Source: e.Source,
			Target: e.Target,
			Path:   e.Curve.Path(),
			Start:  Point(e.Curve.Start),
			C1:     Point(e.Curve.C1),
			C2:     Point(e.Curve.C2),
			End:    Point(e.Curve.End),
		})
	}
	return l
}

// Result rebuilds a layout.Result. Subdirectory and file lists are derived
// from the paths.
func (l Layout) Result() layout.Result {
	res := layout.Result{
		Nodes:       make(map[string]layout.PositionedNode, len(l.Nodes)),
		Directories: make([]layout.Directory, 0, len(l.Directories)),
		Viewport:    layout.Viewport{Width: l.Width, Height: l.Height},
	}
	index := make(map[string]int, len(l.Directories))
	for i, d := range l.Directories {
		index[d.Path] = i
		res.Directories = append(res.Directories, layout.Directory{
			Path: d.Path, Name: d.Name, Depth: d.Depth,
			Box: layout.Box{X: d.X, Y: d.Y, Width: d.Width, Height: d.Height},
		})
	}
	for _, d := range l.Directories {
		if i, ok := index[parentDir(d.Path)]; ok {
			res.Directories[i].Subdirs = append(res.Directories[i].Subdirs, d.Path)
		}
	}
	for _, n := range l.Nodes {
		res.Nodes[n.ID] = layout.PositionedNode{
			Node: depgraph.Node{ID: n.ID, Category: parseCategory(n.Category)},
			Box:  layout.Box{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height},
		}
		if i, ok := index[parentDir(n.ID)]; ok {
			res.Directories[i].Files = append(res.Directories[i].Files, n.ID)
		}
	}
	for i := range res.Directories {
		sort.Strings(res.Directories[i].Subdirs)
		sort.Strings(res.Directories[i].Files)
	}
	return res
}

// EdgeList returns the layout's edges without geometry.
func (l Layout) EdgeList() []depgraph.Edge {
	out := make([]depgraph.Edge, len(l.Edges))
	for i, e := range l.Edges {
		out[i] = depgraph.Edge{Source: e.Source, Target: e.Target}
	}
	return out
}

// Data recovers the graph a layout was computed from. Nodes carry their
// categories and edges keep their order, so a layout file is enough to
// re-render without the original graph.
func (l Layout) Data() (depgraph.Data, error) {
	g := Graph{
		Nodes: make([]Node, len(l.Nodes)),
		Edges: make([]Edge, len(l.Edges)),
	}
	for i, n := range l.Nodes {
		g.Nodes[i] = Node{ID: n.ID, Category: n.Category}
	}
	for i, e := range l.Edges {
		g.Edges[i] = Edge{Source: e.Source, Target: e.Target}
	}
	return g.Data()
}

func parentDir(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return d
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, errs.New(errs.ErrCodeInvalidFormat, "layout must have a positive viewport")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
