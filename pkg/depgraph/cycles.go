package depgraph

// CycleEdges returns the back edges found by a depth-first walk over the
// import graph: removing them leaves it acyclic. Nodes are visited in
// Data order and imports in edge order, so the result is deterministic.
// A nil result means the graph has no import cycles.
func CycleEdges(data Data) []Edge {
	const (
		white = iota
		gray
		black
	)

	children := make(map[string][]string, len(data.Nodes))
	for _, e := range data.Edges {
		children[e.Source] = append(children[e.Source], e.Target)
	}

	color := make(map[string]int, len(data.Nodes))
	var back []Edge

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		for _, child := range children[id] {
			switch color[child] {
			case white:
				visit(child)
			case gray:
				back = append(back, Edge{Source: id, Target: child})
			}
		}
		color[id] = black
	}

	for _, n := range data.Nodes {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	return back
}
