package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dirgraph/pkg/fileset"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
	"github.com/matzehuels/dirgraph/pkg/store"
)

func newTestServer(t *testing.T, cfg Config) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	st := store.NewMemoryStore()
	srv := New(cfg, pipeline.NewRunner(nil, nil, nil, logger), st, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

var sampleFiles = map[string]string{
	"src/app/page.tsx":          `import { Button } from "@/components/Button"`,
	"src/components/Button.tsx": `import { cn } from "@/lib/utils"`,
	"src/lib/utils.ts":          `export const cn = () => ""`,
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func create(t *testing.T, ts *httptest.Server) CreateResponse {
	t.Helper()
	resp := postJSON(t, ts.URL+"/api/v1/analyses", CreateRequest{Files: sampleFiles, Source: "test"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	return decode[CreateResponse](t, resp)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
}

func TestCreateAndGet(t *testing.T) {
	ts, st := newTestServer(t, Config{})
	created := create(t, ts)

	if !store.ValidID(created.ID) {
		t.Errorf("ID %q is not a UUID", created.ID)
	}
	if len(created.Graph.Nodes) != 3 || len(created.Graph.Edges) != 2 {
		t.Errorf("graph = %+v", created.Graph)
	}
	if len(created.Layout.Nodes) != 3 || created.Layout.Width < 1000 {
		t.Errorf("layout = %+v", created.Layout)
	}
	if created.Cycles == nil || len(created.Cycles) != 0 {
		t.Errorf("cycles = %#v, want empty list", created.Cycles)
	}

	saved, err := st.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("analysis not saved: %v", err)
	}
	if saved.Source != "test" || saved.FileCount != 3 {
		t.Errorf("saved = %+v", saved)
	}

	resp := get(t, ts.URL+"/api/v1/analyses/"+created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	got := decode[store.Analysis](t, resp)
	if got.ID != created.ID || len(got.Graph.Edges) != 2 {
		t.Errorf("get = %+v", got)
	}

	list := decode[map[string][]store.Summary](t, get(t, ts.URL+"/api/v1/analyses"))
	if len(list["analyses"]) != 1 || list["analyses"][0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestCreateReportsCycles(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	resp := postJSON(t, ts.URL+"/api/v1/analyses", CreateRequest{Files: map[string]string{
		"src/a.ts": `import { b } from "./b"`,
		"src/b.ts": `import { a } from "./a"`,
	}})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decode[CreateResponse](t, resp)
	want := []graph.Edge{{Source: "src/b.ts", Target: "src/a.ts"}}
	if !reflect.DeepEqual(created.Cycles, want) {
		t.Errorf("cycles = %+v, want %+v", created.Cycles, want)
	}
}

func TestCreateValidation(t *testing.T) {
	ts, _ := newTestServer(t, Config{Limits: fileset.Limits{MaxFiles: 2, MaxFileBytes: 1000}})

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"empty", CreateRequest{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"too many files", CreateRequest{Files: sampleFiles}, http.StatusRequestEntityTooLarge, "TOO_MANY_FILES"},
		{"bad path", CreateRequest{Files: map[string]string{"../etc/passwd": ""}}, http.StatusBadRequest, "INVALID_PATH"},
		{"not json", "{", http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if s, ok := tt.body.(string); ok {
				r, err := http.Post(ts.URL+"/api/v1/analyses", "application/json", strings.NewReader(s))
				if err != nil {
					t.Fatal(err)
				}
				defer r.Body.Close()
				resp = r
			} else {
				resp = postJSON(t, ts.URL+"/api/v1/analyses", tt.body)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decode[errorResponse](t, resp); body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}

func TestCreateBodyTooLarge(t *testing.T) {
	ts, _ := newTestServer(t, Config{MaxBodyBytes: 64})
	resp := postJSON(t, ts.URL+"/api/v1/analyses", CreateRequest{Files: sampleFiles})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestGetErrors(t *testing.T) {
	ts, _ := newTestServer(t, Config{})

	resp := get(t, ts.URL+"/api/v1/analyses/not-a-uuid")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid id status = %d, want 400", resp.StatusCode)
	}

	resp = get(t, ts.URL+"/api/v1/analyses/6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing id status = %d, want 404", resp.StatusCode)
	}
	if body := decode[errorResponse](t, resp); body.Error.Code != "ANALYSIS_NOT_FOUND" {
		t.Errorf("code = %q", body.Error.Code)
	}

	resp = get(t, ts.URL+"/nope")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d", resp.StatusCode)
	}
}

func TestDelete(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	created := create(t, ts)

	del := func() int {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/analyses/"+created.ID, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if s := del(); s != http.StatusNoContent {
		t.Errorf("first delete = %d, want 204", s)
	}
	if s := del(); s != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", s)
	}
}

func TestNeighbors(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	created := create(t, ts)
	base := ts.URL + "/api/v1/analyses/" + created.ID + "/neighbors"

	resp := get(t, base+"?focus=src/components/Button.tsx")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	nb := decode[NeighborsResponse](t, resp)
	want := []string{"src/app/page.tsx", "src/components/Button.tsx", "src/lib/utils.ts"}
	if strings.Join(nb.Nodes, ",") != strings.Join(want, ",") {
		t.Errorf("nodes = %v, want %v", nb.Nodes, want)
	}
	if len(nb.Edges) != 2 {
		t.Errorf("edges = %v", nb.Edges)
	}

	if resp := get(t, base); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing focus status = %d", resp.StatusCode)
	}
	resp = get(t, base+"?focus=src/missing.ts")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown focus status = %d", resp.StatusCode)
	}
	if body := decode[errorResponse](t, resp); body.Error.Code != "NODE_NOT_FOUND" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestRender(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	created := create(t, ts)
	base := ts.URL + "/api/v1/analyses/" + created.ID + "/render"

	resp := get(t, base)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	svg, _ := io.ReadAll(resp.Body)
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("body = %.40s", svg)
	}

	resp = get(t, base+"?format=dot&focus=src/lib/utils.ts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dot status = %d", resp.StatusCode)
	}
	dot, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(dot), "digraph G {") {
		t.Errorf("dot body = %.40s", dot)
	}

	tests := []struct {
		query  string
		status int
	}{
		{"?format=pdf", http.StatusBadRequest},
		{"?viz=tower", http.StatusBadRequest},
		{"?format=png", http.StatusBadRequest}, // png needs nodelink
		{"?focus=src/missing.ts", http.StatusNotFound},
	}
	for _, tt := range tests {
		if resp := get(t, base+tt.query); resp.StatusCode != tt.status {
			t.Errorf("render%s status = %d, want %d", tt.query, resp.StatusCode, tt.status)
		}
	}
}

func TestServeListenerShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	srv := New(Config{}, pipeline.NewRunner(nil, nil, nil, nil), store.NewMemoryStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeListener(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ServeListener() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
