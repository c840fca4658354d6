package nested

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	"github.com/matzehuels/dirgraph/pkg/layout"
)

func sample(t *testing.T) (layout.Result, depgraph.Data) {
	t.Helper()
	data := depgraph.Data{
		Nodes: []depgraph.Node{
			{ID: "src/app/page.tsx", Category: depgraph.CategoryRoute},
			{ID: "src/components/layout/Header.tsx", Category: depgraph.CategoryComponent},
			{ID: "src/lib/a&b.ts", Category: depgraph.CategoryUtility},
		},
		Edges: []depgraph.Edge{
			{Source: "src/app/page.tsx", Target: "src/components/layout/Header.tsx"},
		},
	}
	res, err := layout.Build(data.Nodes)
	if err != nil {
		t.Fatal(err)
	}
	return res, data
}

func TestRenderSVGWellFormed(t *testing.T) {
	res, data := sample(t)
	out := RenderSVG(res, data)

	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRenderSVGContent(t *testing.T) {
	res, data := sample(t)
	s := string(RenderSVG(res, data))

	for _, want := range []string{
		`viewBox="0 0 1000 800"`,
		`data-path="src/components/layout"`,
		`class="node cat-route" data-id="src/app/page.tsx"`,
		`d="M 244 112 C 304 112, 244 140, 304 140"`,
		`data-id="src/lib/a&amp;b.ts"`,
		`var neighbors = {`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(s, " highlight\"") || strings.Contains(s, " dim\"") {
		t.Error("no static highlight expected without focus")
	}
}

func TestRenderSVGEmbedsAdjacency(t *testing.T) {
	res, data := sample(t)
	s := string(RenderSVG(res, data))

	adj, err := json.Marshal(depgraph.Adjacency(data))
	if err != nil {
		t.Fatal(err)
	}
	if want := "var neighbors = " + string(adj) + ";"; !strings.Contains(s, want) {
		t.Errorf("output missing %q", want)
	}
	if !strings.Contains(s, `"src/app/page.tsx":["src/components/layout/Header.tsx"]`) {
		t.Error("adjacency should list the page's neighbor")
	}
	if strings.Contains(string(RenderSVG(res, data, WithoutInteraction())), "var neighbors") {
		t.Error("script should be omitted without interaction")
	}
}

func TestRenderSVGFocus(t *testing.T) {
	res, data := sample(t)
	s := string(RenderSVG(res, data, WithFocus("src/app/page.tsx"), WithoutInteraction()))

	for _, want := range []string{
		`class="node cat-route highlight" data-id="src/app/page.tsx"`,
		`class="node cat-component highlight" data-id="src/components/layout/Header.tsx"`,
		`class="node cat-utility dim" data-id="src/lib/a&amp;b.ts"`,
		`class="edge highlight"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(s, "<script") {
		t.Error("WithoutInteraction should omit the script")
	}
}

func TestLabelTruncation(t *testing.T) {
	if got := label("src/short.ts"); got != "short.ts" {
		t.Errorf("label = %q", got)
	}
	long := "src/" + strings.Repeat("x", 40) + ".tsx"
	got := label(long)
	if n := len([]rune(got)); n != maxLabelRunes {
		t.Errorf("label length = %d, want %d", n, maxLabelRunes)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("label = %q, want ellipsis", got)
	}
}
