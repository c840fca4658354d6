package layout

import (
	"reflect"
	"testing"
)

func mustBuild(t *testing.T, ids ...string) Result {
	t.Helper()
	res, err := Build(nodes(ids...))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

func TestComputeScenario(t *testing.T) {
	res := mustBuild(t, "src/app/page.tsx", "src/components/layout/Header.tsx")

	dirs := map[string]Box{}
	for _, d := range res.Directories {
		dirs[d.Path] = d.Box
	}
	want := map[string]Box{
		"src":                   {X: 40, Y: 40, Width: 480, Height: 152},
		"src/app":               {X: 52, Y: 68, Width: 204, Height: 72},
		"src/components":        {X: 280, Y: 68, Width: 228, Height: 112},
		"src/components/layout": {X: 292, Y: 96, Width: 204, Height: 72},
	}
	if !reflect.DeepEqual(dirs, want) {
		t.Errorf("directories =\n%v\nwant\n%v", dirs, want)
	}

	page, _ := res.Lookup("src/app/page.tsx")
	if page.Box != (Box{X: 64, Y: 96, Width: NodeWidth, Height: NodeHeight}) {
		t.Errorf("page box = %+v", page.Box)
	}
	header, _ := res.Lookup("src/components/layout/Header.tsx")
	if header.Box != (Box{X: 304, Y: 124, Width: NodeWidth, Height: NodeHeight}) {
		t.Errorf("header box = %+v", header.Box)
	}
	if res.Viewport != (Viewport{Width: MinWidth, Height: MinHeight}) {
		t.Errorf("viewport = %+v", res.Viewport)
	}
}

func TestComputeDirectoriesPreOrder(t *testing.T) {
	res := mustBuild(t, "b/x.ts", "a/b/z.ts", "a/y.ts")
	var got []string
	for _, d := range res.Directories {
		got = append(got, d.Path)
	}
	if want := []string{"a", "a/b", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Directories = %v, want %v", got, want)
	}
}

func TestComputeSubdirsAndFiles(t *testing.T) {
	res := mustBuild(t, "src/a/x.ts", "src/one.ts", "src/two.ts")

	src := res.Directories[0]
	// header + subdir row (28+40-8+12=72) + gap + two file rows
	wantHeight := HeaderHeight + 72 + DirGap + 2*rowHeight - NodeGap + DirPadding
	if src.Box.Height != wantHeight {
		t.Errorf("src height = %v, want %v", src.Box.Height, wantHeight)
	}
	one, _ := res.Lookup("src/one.ts")
	if one.Y != src.Box.Y+HeaderHeight+72+DirGap {
		t.Errorf("first file y = %v", one.Y)
	}
	two, _ := res.Lookup("src/two.ts")
	if two.Y-one.Y != rowHeight {
		t.Errorf("row spacing = %v, want %v", two.Y-one.Y, rowHeight)
	}
}

func TestComputeRootFiles(t *testing.T) {
	res := mustBuild(t, "README.md", "package.json", "src/a.ts")

	src := res.Directories[0]
	readme, _ := res.Lookup("README.md")
	pkg, _ := res.Lookup("package.json")
	if readme.X != src.Box.Right()+DirGap || readme.Y != Margin {
		t.Errorf("README box = %+v, want column right of src", readme.Box)
	}
	if pkg.X != readme.X || pkg.Y != Margin+rowHeight {
		t.Errorf("package.json box = %+v", pkg.Box)
	}
}

func TestComputeEmpty(t *testing.T) {
	res := mustBuild(t)
	if res.Viewport != (Viewport{Width: MinWidth, Height: MinHeight}) {
		t.Errorf("viewport = %+v", res.Viewport)
	}
	if len(res.Nodes) != 0 || len(res.Directories) != 0 {
		t.Errorf("empty tree produced %d nodes, %d dirs", len(res.Nodes), len(res.Directories))
	}
}

func TestComputeViewportGrows(t *testing.T) {
	var ids []string
	for _, d := range []string{"a", "b", "c", "d", "e", "f"} {
		ids = append(ids, d+"/x.ts")
	}
	for i := range 30 {
		ids = append(ids, "a/"+string(rune('a'+i%26))+string(rune('0'+i/26))+".ts")
	}
	res := mustBuild(t, ids...)

	var right, bottom float64
	for _, n := range res.Nodes {
		right = max(right, n.Right())
		bottom = max(bottom, n.Bottom())
	}
	for _, d := range res.Directories {
		right = max(right, d.Box.Right())
		bottom = max(bottom, d.Box.Bottom())
	}
	if res.Viewport.Width != right+Margin {
		t.Errorf("viewport width = %v, want %v", res.Viewport.Width, right+Margin)
	}
	if res.Viewport.Height != bottom+Margin {
		t.Errorf("viewport height = %v, want %v", res.Viewport.Height, bottom+Margin)
	}
}

// TestSiblingsDoNotOverlap checks every directory's children against each
// other and against the parent box.
func TestSiblingsDoNotOverlap(t *testing.T) {
	res := mustBuild(t,
		"README.md",
		"src/app/page.tsx",
		"src/app/layout.tsx",
		"src/app/(auth)/login/page.tsx",
		"src/components/ui/button.tsx",
		"src/components/ui/card.tsx",
		"src/components/layout/Header.tsx",
		"src/components/Footer.tsx",
		"src/lib/utils.ts",
		"src/lib/api/client.ts",
		"src/index.ts",
		"tests/setup.ts",
	)

	byPath := map[string]Directory{}
	for _, d := range res.Directories {
		byPath[d.Path] = d
	}

	check := func(parent string, boxes map[string]Box) {
		t.Helper()
		names := make([]string, 0, len(boxes))
		for k := range boxes {
			names = append(names, k)
		}
		for i, a := range names {
			for _, b := range names[i+1:] {
				if boxes[a].Overlaps(boxes[b]) {
					t.Errorf("in %q: %s %+v overlaps %s %+v", parent, a, boxes[a], b, boxes[b])
				}
			}
			if p, ok := byPath[parent]; ok && !p.Box.Contains(boxes[a]) {
				t.Errorf("%s %+v escapes parent %q %+v", a, boxes[a], parent, p.Box)
			}
		}
	}

	tree, err := BuildTree(nodes(keys(res.Nodes)...))
	if err != nil {
		t.Fatal(err)
	}
	tree.Walk(func(d *Directory) {
		boxes := map[string]Box{}
		for _, c := range d.Subdirs {
			boxes[c] = byPath[c].Box
		}
		for _, id := range d.Files {
			boxes[id] = res.Nodes[id].Box
		}
		check(d.Path, boxes)
	})

	vp := Box{Width: res.Viewport.Width, Height: res.Viewport.Height}
	for id, n := range res.Nodes {
		if !vp.Contains(n.Box) {
			t.Errorf("%s outside viewport", id)
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	ids := []string{"src/b/x.ts", "src/a/y.ts", "lib/z.ts", "main.ts"}
	want := mustBuild(t, ids...)
	for range 10 {
		if got := mustBuild(t, ids[3], ids[1], ids[0], ids[2]); !reflect.DeepEqual(got, want) {
			t.Fatal("layout depends on input order")
		}
	}
}

func TestSortedNodes(t *testing.T) {
	res := mustBuild(t, "b.ts", "a/c.ts", "a.ts")
	var got []string
	for _, n := range res.SortedNodes() {
		got = append(got, n.ID)
	}
	if want := []string{"a.ts", "a/c.ts", "b.ts"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedNodes() = %v, want %v", got, want)
	}
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
