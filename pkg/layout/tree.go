package layout

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
)

// Input-contract violations reported by BuildTree. All carry the
// INVALID_PATH error code.
var (
	ErrMalformedPath = errs.New(errs.ErrCodeInvalidPath, "malformed path")
	ErrPathConflict  = errs.New(errs.ErrCodeInvalidPath, "path is both a file and a directory")
	ErrDuplicateNode = errs.New(errs.ErrCodeInvalidPath, "duplicate node")
)

// Box is an axis-aligned rectangle; X and Y are the top-left corner.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// Overlaps reports whether b and o share interior area. Touching edges do
// not count.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// Contains reports whether o lies entirely inside b.
func (b Box) Contains(o Box) bool {
	return o.X >= b.X && o.Y >= b.Y && o.Right() <= b.Right() && o.Bottom() <= b.Bottom()
}

// Directory is one node of the hierarchy.
type Directory struct {
	Path    string   // full path, "" for the root
	Name    string   // last path segment
	Depth   int      // 0 for the root
	Box     Box      // absolute geometry; zero until computed
	Subdirs []string // child directory paths, sorted by name
	Files   []string // node IDs directly inside, sorted by name
}

// Tree is the directory hierarchy of a node set. Directories live in an
// arena keyed by path.
type Tree struct {
	dirs  map[string]*Directory
	nodes map[string]depgraph.Node
}

// BuildTree builds the hierarchy for nodes.
func BuildTree(nodes []depgraph.Node) (*Tree, error) {
	t := &Tree{
		dirs:  map[string]*Directory{"": {}},
		nodes: make(map[string]depgraph.Node, len(nodes)),
	}

	for _, n := range nodes {
		segs := strings.Split(n.ID, "/")
		for _, s := range segs {
			if s == "" || s == "." || s == ".." {
				return nil, fmt.Errorf("%w: %q", ErrMalformedPath, n.ID)
			}
		}
		if _, dup := t.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
		}
		t.nodes[n.ID] = n

		parent := ""
		for i, s := range segs[:len(segs)-1] {
			p := strings.Join(segs[:i+1], "/")
			if _, ok := t.dirs[p]; !ok {
				t.dirs[p] = &Directory{Path: p, Name: s, Depth: i + 1}
				t.dirs[parent].Subdirs = append(t.dirs[parent].Subdirs, p)
			}
			parent = p
		}
		t.dirs[parent].Files = append(t.dirs[parent].Files, n.ID)
	}

	for id := range t.nodes {
		if _, ok := t.dirs[id]; ok {
			return nil, fmt.Errorf("%w: %q", ErrPathConflict, id)
		}
	}
	for _, d := range t.dirs {
		sort.Strings(d.Subdirs)
		sort.Strings(d.Files)
	}
	return t, nil
}

// Root returns the root directory.
func (t *Tree) Root() *Directory { return t.dirs[""] }

// Dir returns the directory at path p.
func (t *Tree) Dir(p string) (*Directory, bool) {
	d, ok := t.dirs[p]
	return d, ok
}

// Node returns the node with the given ID.
func (t *Tree) Node(id string) (depgraph.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// NumDirs returns the number of directories, excluding the root.
func (t *Tree) NumDirs() int { return len(t.dirs) - 1 }

// NumNodes returns the number of file nodes.
func (t *Tree) NumNodes() int { return len(t.nodes) }

// Walk visits directories in pre-order (parents before children, siblings
// by name), starting at the root.
func (t *Tree) Walk(fn func(d *Directory)) {
	var visit func(p string)
	visit = func(p string) {
		d := t.dirs[p]
		fn(d)
		for _, c := range d.Subdirs {
			visit(c)
		}
	}
	visit("")
}

// FileName returns the last segment of a node ID.
func FileName(id string) string { return path.Base(id) }
