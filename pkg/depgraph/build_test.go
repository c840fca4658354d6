package depgraph

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/dirgraph/pkg/fileset"
	"github.com/matzehuels/dirgraph/pkg/imports"
)

func sampleFiles() fileset.FileSet {
	return fileset.FileSet{
		"src/app/page.tsx": `import Header from '@/components/layout/Header'
import { cn } from '@/lib/utils'
import React from 'react'
import Missing from './missing'`,
		"src/components/layout/Header.tsx": `import { cn } from '../../lib/utils'
import { useUser } from '@/hooks/useUser'`,
		"src/hooks/useUser.ts": `import { api } from '@/lib/api'`,
		"src/lib/utils.ts":     `export const cn = () => ''`,
		"src/lib/api.ts":       `import { cn } from './utils'`,
		"README.md":            "# demo",
	}
}

func TestBuildScenario(t *testing.T) {
	data := Build(fileset.FileSet{
		"src/app/page.tsx":                 `import Header from '@/components/layout/Header'`,
		"src/components/layout/Header.tsx": `export default function Header() {}`,
	}, imports.New(imports.DefaultConfig()))

	wantNodes := []Node{
		{ID: "src/app/page.tsx", Category: CategoryRoute},
		{ID: "src/components/layout/Header.tsx", Category: CategoryComponent},
	}
	if !reflect.DeepEqual(data.Nodes, wantNodes) {
		t.Errorf("Nodes = %+v, want %+v", data.Nodes, wantNodes)
	}
	wantEdges := []Edge{{Source: "src/app/page.tsx", Target: "src/components/layout/Header.tsx"}}
	if !reflect.DeepEqual(data.Edges, wantEdges) {
		t.Errorf("Edges = %+v, want %+v", data.Edges, wantEdges)
	}
}

func TestBuildEdgeOrder(t *testing.T) {
	data := Build(sampleFiles(), imports.New(imports.DefaultConfig()))

	want := []Edge{
		{"src/app/page.tsx", "src/components/layout/Header.tsx"},
		{"src/app/page.tsx", "src/lib/utils.ts"},
		{"src/components/layout/Header.tsx", "src/lib/utils.ts"},
		{"src/components/layout/Header.tsx", "src/hooks/useUser.ts"},
		{"src/hooks/useUser.ts", "src/lib/api.ts"},
		{"src/lib/api.ts", "src/lib/utils.ts"},
	}
	if !reflect.DeepEqual(data.Edges, want) {
		t.Errorf("Edges =\n%v\nwant\n%v", data.Edges, want)
	}
	if len(data.Nodes) != 6 || data.Nodes[0].ID != "README.md" {
		t.Errorf("Nodes should be sorted by path, got %+v", data.Nodes)
	}
}

func TestBuildDedupAndSelfLoops(t *testing.T) {
	fs := fileset.FileSet{
		"src/a.ts": `import x from './b'
import y from './b.ts'
import self from './a'
import again from '@/b'`,
		"src/b.ts": ``,
	}
	data, stats, err := NewBuilder(imports.New(imports.DefaultConfig())).BuildWithStats(context.Background(), fs)
	if err != nil {
		t.Fatal(err)
	}

	want := []Edge{{"src/a.ts", "src/b.ts"}}
	if !reflect.DeepEqual(data.Edges, want) {
		t.Errorf("Edges = %v, want %v", data.Edges, want)
	}
	if stats.Duplicates != 2 || stats.SelfLoops != 1 || stats.Specifiers != 4 {
		t.Errorf("stats = %+v", stats)
	}
	for _, e := range data.Edges {
		if e.Source == e.Target {
			t.Errorf("self-loop %v", e)
		}
	}
}

func TestBuildIgnoresReexportsAndComments(t *testing.T) {
	fs := fileset.FileSet{
		"src/index.ts": "import React from 'react'\nexport { x } from './x'\n",
		"src/x.ts":     "export const x = 1\n",
		"src/y.ts":     "// this is important: never from './x'\nexport const y = 2\n",
	}
	data := Build(fs, imports.New(imports.DefaultConfig()))
	if len(data.Edges) != 0 {
		t.Errorf("Edges = %v, want none", data.Edges)
	}
}

func TestBuildIdempotentAcrossWorkers(t *testing.T) {
	fs := sampleFiles()
	r := imports.New(imports.DefaultConfig())
	want := Build(fs, r)

	for _, workers := range []int{1, 2, 16} {
		for range 5 {
			got, err := NewBuilder(r, WithWorkers(workers)).Build(context.Background(), fs)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("workers=%d: output differs\n got %+v\nwant %+v", workers, got, want)
			}
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	data := Build(fileset.FileSet{}, imports.New(imports.DefaultConfig()))
	if len(data.Nodes) != 0 || len(data.Edges) != 0 {
		t.Errorf("empty FileSet should give empty graph, got %+v", data)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBuilder(imports.New(imports.DefaultConfig())).Build(ctx, sampleFiles())
	if err == nil {
		t.Error("expected context error")
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		path string
		want Category
	}{
		{"src/components/Button.tsx", CategoryComponent},
		{"components/Button.tsx", CategoryOther},
		{"src/Components/Nav.tsx", CategoryComponent},
		{"src/hooks/useUser.ts", CategoryHook},
		{"src/queries/user.ts", CategoryHook},
		{"src/app/page.tsx", CategoryRoute},
		{"pages/index.tsx", CategoryOther},
		{"app/pages/index.tsx", CategoryRoute},
		{"src/routes/home.ts", CategoryRoute},
		{"src/lib/utils.ts", CategoryUtility},
		{"src/helpers/fmt.ts", CategoryUtility},
		{"src/app/components/Card.tsx", CategoryComponent},
		{"src/app/lib/x.ts", CategoryRoute},
		{"src/components.ts", CategoryOther},
		{"README.md", CategoryOther},
		{"src/mylib/x.ts", CategoryOther},
	}
	for _, tt := range tests {
		if got := Categorize(tt.path); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDataNode(t *testing.T) {
	data := Build(sampleFiles(), imports.New(imports.DefaultConfig()))
	n, ok := data.Node("src/lib/utils.ts")
	if !ok || n.Category != CategoryUtility {
		t.Errorf("Node() = %+v, %v", n, ok)
	}
	if _, ok := data.Node("nope"); ok {
		t.Error("Node(nope) should be missing")
	}
}
