package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
)

// Graph is the canonical serialization format for dependency graphs.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a serialized graph node.
type Node struct {
	ID       string `json:"id" bson:"id"`
	Category string `json:"category" bson:"category"`
}

// Edge is a serialized import edge.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// FromData converts a built graph to its wire form. Order is preserved.
func FromData(d depgraph.Data) Graph {
	g := Graph{
		Nodes: make([]Node, len(d.Nodes)),
		Edges: make([]Edge, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		g.Nodes[i] = Node{ID: n.ID, Category: string(n.Category)}
	}
	for i, e := range d.Edges {
		g.Edges[i] = Edge{Source: e.Source, Target: e.Target}
	}
	return g
}

// Data converts g back to a depgraph.Data, checking the graph invariants:
// unique non-empty node IDs, edges between known nodes, no self-loops and
// no duplicate edges. Unknown categories become "other".
func (g Graph) Data() (depgraph.Data, error) {
	d := depgraph.Data{
		Nodes: make([]depgraph.Node, 0, len(g.Nodes)),
		Edges: make([]depgraph.Edge, 0, len(g.Edges)),
	}
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return depgraph.Data{}, errs.New(errs.ErrCodeInvalidInput, "node with empty id")
		}
		if ids[n.ID] {
			return depgraph.Data{}, errs.New(errs.ErrCodeInvalidInput, "duplicate node %q", n.ID)
		}
		ids[n.ID] = true
		d.Nodes = append(d.Nodes, depgraph.Node{ID: n.ID, Category: parseCategory(n.Category)})
	}

	seen := make(map[Edge]bool, len(g.Edges))
	for _, e := range g.Edges {
		switch {
		case !ids[e.Source] || !ids[e.Target]:
			return depgraph.Data{}, errs.New(errs.ErrCodeInvalidInput, "edge %s->%s references unknown node", e.Source, e.Target)
		case e.Source == e.Target:
			return depgraph.Data{}, errs.New(errs.ErrCodeInvalidInput, "self-loop on %q", e.Source)
		case seen[e]:
			return depgraph.Data{}, errs.New(errs.ErrCodeInvalidInput, "duplicate edge %s->%s", e.Source, e.Target)
		}
		seen[e] = true
		d.Edges = append(d.Edges, depgraph.Edge{Source: e.Source, Target: e.Target})
	}
	return d, nil
}

func parseCategory(s string) depgraph.Category {
	switch c := depgraph.Category(s); c {
	case depgraph.CategoryComponent, depgraph.CategoryHook, depgraph.CategoryRoute, depgraph.CategoryUtility:
		return c
	default:
		return depgraph.CategoryOther
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(d depgraph.Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes and validates JSON graph bytes.
func UnmarshalGraph(data []byte) (depgraph.Data, error) {
	return ReadGraph(bytes.NewReader(data))
}

// WriteGraph writes a graph as indented JSON.
func WriteGraph(d depgraph.Data, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromData(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(d depgraph.Data, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(d, f)
}

// ReadGraph decodes and validates a JSON graph.
func ReadGraph(r io.Reader) (depgraph.Data, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return depgraph.Data{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}
	return g.Data()
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (depgraph.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return depgraph.Data{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
