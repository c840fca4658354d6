package depgraph

import "sort"

// Highlight is the neighborhood of a focused node.
type Highlight struct {
	Nodes map[string]struct{}
	Edges map[string]struct{}
}

// Neighbors returns the focus node, its direct importers and importees, and
// the connecting edges. An empty focus yields empty sets. A focus that is
// not a node yields a set containing only the focus.
func Neighbors(data Data, focus string) Highlight {
	h := Highlight{
		Nodes: make(map[string]struct{}),
		Edges: make(map[string]struct{}),
	}
	if focus == "" {
		return h
	}
	h.Nodes[focus] = struct{}{}
	for _, e := range data.Edges {
		switch focus {
		case e.Source:
			h.Nodes[e.Target] = struct{}{}
			h.Edges[e.Key()] = struct{}{}
		case e.Target:
			h.Nodes[e.Source] = struct{}{}
			h.Edges[e.Key()] = struct{}{}
		}
	}
	return h
}

// HasNode reports whether id is highlighted.
func (h Highlight) HasNode(id string) bool {
	_, ok := h.Nodes[id]
	return ok
}

// HasEdge reports whether the edge source->target is highlighted.
func (h Highlight) HasEdge(source, target string) bool {
	_, ok := h.Edges[EdgeKey(source, target)]
	return ok
}

// Empty reports whether nothing is highlighted.
func (h Highlight) Empty() bool { return len(h.Nodes) == 0 }

// NodeIDs returns the highlighted node IDs sorted.
func (h Highlight) NodeIDs() []string { return sortedKeys(h.Nodes) }

// EdgeKeys returns the highlighted edge keys sorted.
func (h Highlight) EdgeKeys() []string { return sortedKeys(h.Edges) }

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Adjacency maps every node to the sorted IDs of its highlight set minus
// itself. Renderers embed it to drive client-side highlighting without
// recomputing Neighbors per click.
func Adjacency(data Data) map[string][]string {
	adj := make(map[string]map[string]struct{}, len(data.Nodes))
	for _, n := range data.Nodes {
		adj[n.ID] = make(map[string]struct{})
	}
	for _, e := range data.Edges {
		if adj[e.Source] == nil {
			adj[e.Source] = make(map[string]struct{})
		}
		if adj[e.Target] == nil {
			adj[e.Target] = make(map[string]struct{})
		}
		adj[e.Source][e.Target] = struct{}{}
		adj[e.Target][e.Source] = struct{}{}
	}
	out := make(map[string][]string, len(adj))
	for id, set := range adj {
		out[id] = sortedKeys(set)
	}
	return out
}
