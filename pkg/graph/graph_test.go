package graph

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/layout"
)

func sampleData() depgraph.Data {
	return depgraph.Data{
		Nodes: []depgraph.Node{
			{ID: "src/app/page.tsx", Category: depgraph.CategoryRoute},
			{ID: "src/components/layout/Header.tsx", Category: depgraph.CategoryComponent},
		},
		Edges: []depgraph.Edge{
			{Source: "src/app/page.tsx", Target: "src/components/layout/Header.tsx"},
		},
	}
}

func TestGraphWireShape(t *testing.T) {
	data, err := MarshalGraph(sampleData())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string][]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["nodes"][0]["id"] != "src/app/page.tsx" || raw["nodes"][0]["category"] != "route" {
		t.Errorf("node = %v", raw["nodes"][0])
	}
	if raw["edges"][0]["source"] != "src/app/page.tsx" || raw["edges"][0]["target"] != "src/components/layout/Header.tsx" {
		t.Errorf("edge = %v", raw["edges"][0])
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(sampleData(), path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sampleData()) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestEmptyGraphEncodesArrays(t *testing.T) {
	data, err := MarshalGraph(depgraph.Data{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"nodes": []`)) || !bytes.Contains(data, []byte(`"edges": []`)) {
		t.Errorf("empty graph should encode empty arrays, got %s", data)
	}
}

func TestReadGraphValidation(t *testing.T) {
	tests := []struct {
		name string
		json string
		code errs.Code
	}{
		{"malformed json", `{"nodes": [`, errs.ErrCodeInvalidFormat},
		{"empty id", `{"nodes":[{"id":""}],"edges":[]}`, errs.ErrCodeInvalidInput},
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, errs.ErrCodeInvalidInput},
		{"unknown target", `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"b"}]}`, errs.ErrCodeInvalidInput},
		{"self loop", `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"a"}]}`, errs.ErrCodeInvalidInput},
		{"duplicate edge", `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b"},{"source":"a","target":"b"}]}`, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.json))
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestUnknownCategoryBecomesOther(t *testing.T) {
	d, err := UnmarshalGraph([]byte(`{"nodes":[{"id":"a.ts","category":"widget"}],"edges":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if d.Nodes[0].Category != depgraph.CategoryOther {
		t.Errorf("category = %q", d.Nodes[0].Category)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	data := sampleData()
	res, err := layout.Build(data.Nodes)
	if err != nil {
		t.Fatal(err)
	}
	l := FromLayout(res, data.Edges)

	if l.Width != layout.MinWidth || l.Height != layout.MinHeight {
		t.Errorf("viewport = %vx%v", l.Width, l.Height)
	}
	if len(l.Edges) != 1 || l.Edges[0].Path != "M 244 112 C 304 112, 244 140, 304 140" {
		t.Errorf("edges = %+v", l.Edges)
	}

	raw, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := UnmarshalLayout(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(parsed.Result(), res) {
		t.Errorf("Result() differs from the computed layout\n got %+v\nwant %+v", parsed.Result(), res)
	}
	if !reflect.DeepEqual(parsed.EdgeList(), data.Edges) {
		t.Errorf("EdgeList() = %+v", parsed.EdgeList())
	}
	recovered, err := parsed.Data()
	if err != nil {
		t.Fatalf("Data(): %v", err)
	}
	if len(recovered.Nodes) != len(data.Nodes) || !reflect.DeepEqual(recovered.Edges, data.Edges) {
		t.Errorf("Data() = %+v", recovered)
	}
	for _, n := range data.Nodes {
		if got, ok := recovered.Node(n.ID); !ok || got.Category != n.Category {
			t.Errorf("Data() node %s = %+v, %v", n.ID, got, ok)
		}
	}
}

func TestUnmarshalLayoutRejectsEmptyViewport(t *testing.T) {
	_, err := UnmarshalLayout([]byte(`{"width":0,"height":0}`))
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("err = %v", err)
	}
}
