package graph_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

func ExampleWriteGraph() {
	data := depgraph.Data{
		Nodes: []depgraph.Node{
			{ID: "src/app/page.tsx", Category: depgraph.CategoryRoute},
			{ID: "src/lib/utils.ts", Category: depgraph.CategoryUtility},
		},
		Edges: []depgraph.Edge{{Source: "src/app/page.tsx", Target: "src/lib/utils.ts"}},
	}

	var buf bytes.Buffer
	if err := graph.WriteGraph(data, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Print(buf.String())
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "src/app/page.tsx",
	//       "category": "route"
	//     },
	//     {
	//       "id": "src/lib/utils.ts",
	//       "category": "utility"
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "source": "src/app/page.tsx",
	//       "target": "src/lib/utils.ts"
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	data, err := graph.ReadGraph(strings.NewReader(`{
		"nodes": [{"id": "a.ts"}, {"id": "lib/b.ts", "category": "utility"}],
		"edges": [{"source": "a.ts", "target": "lib/b.ts"}]
	}`))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, n := range data.Nodes {
		fmt.Println(n.ID, n.Category)
	}
	fmt.Println(len(data.Edges), "edge")
	// Output:
	// a.ts other
	// lib/b.ts utility
	// 1 edge
}
