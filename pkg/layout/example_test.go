package layout_test

import (
	"fmt"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	"github.com/matzehuels/dirgraph/pkg/layout"
)

func ExampleBuild() {
	res, err := layout.Build([]depgraph.Node{
		{ID: "src/app/page.tsx", Category: depgraph.CategoryRoute},
		{ID: "src/components/layout/Header.tsx", Category: depgraph.CategoryComponent},
	})
	if err != nil {
		panic(err)
	}

	for _, d := range res.Directories {
		fmt.Printf("%-22s %v,%v %vx%v\n", d.Path, d.Box.X, d.Box.Y, d.Box.Width, d.Box.Height)
	}
	fmt.Println("viewport", res.Viewport.Width, res.Viewport.Height)
	// Output:
	// src                    40,40 480x152
	// src/app                52,68 204x72
	// src/components         280,68 228x112
	// src/components/layout  292,96 204x72
	// viewport 1000 800
}

func ExampleRoute() {
	page := layout.Box{X: 64, Y: 96, Width: layout.NodeWidth, Height: layout.NodeHeight}
	header := layout.Box{X: 304, Y: 124, Width: layout.NodeWidth, Height: layout.NodeHeight}
	fmt.Println(layout.Route(page, header).Path())
	// Output:
	// M 244 112 C 304 112, 244 140, 304 140
}
