package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	"github.com/matzehuels/dirgraph/pkg/layout"
)

// Options configures node-link diagram generation.
type Options struct {
	// Focus highlights a node and its direct neighbors.
	Focus string
}

var fillColors = map[depgraph.Category]string{
	depgraph.CategoryComponent: "#dbeafe",
	depgraph.CategoryHook:      "#ede9fe",
	depgraph.CategoryRoute:     "#dcfce7",
	depgraph.CategoryUtility:   "#fef3c7",
	depgraph.CategoryOther:     "#f3f4f6",
}

// ToDOT converts a graph to Graphviz DOT. res supplies the directory
// hierarchy; node and cluster order follow it, so output is deterministic.
func ToDOT(data depgraph.Data, res layout.Result, opts Options) string {
	hl := depgraph.Neighbors(data, opts.Focus)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"monospace\", fontsize=11];\n")
	buf.WriteString("  edge [color=\"#94a3b8\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	dirs := make(map[string]layout.Directory, len(res.Directories))
	var top []string
	for _, d := range res.Directories {
		dirs[d.Path] = d
		if !strings.Contains(d.Path, "/") {
			top = append(top, d.Path)
		}
	}
	sort.Strings(top)

	w := &dotWriter{buf: &buf, res: res, dirs: dirs, hl: hl}
	for _, p := range top {
		w.cluster(p, 1)
	}

	var rootFiles []string
	for id := range res.Nodes {
		if !strings.Contains(id, "/") {
			rootFiles = append(rootFiles, id)
		}
	}
	sort.Strings(rootFiles)
	for _, id := range rootFiles {
		w.node(id, 1)
	}

	buf.WriteString("\n")
	for _, e := range data.Edges {
		if _, ok := res.Nodes[e.Source]; !ok {
			continue
		}
		if _, ok := res.Nodes[e.Target]; !ok {
			continue
		}
		attrs := ""
		switch {
		case hl.Empty():
		case hl.HasEdge(e.Source, e.Target):
			attrs = ` [color="#0f172a", penwidth=2]`
		default:
			attrs = ` [style=invis]`
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Source, e.Target, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	res  layout.Result
	dirs map[string]layout.Directory
	hl   depgraph.Highlight
	n    int
}

func (w *dotWriter) cluster(p string, depth int) {
	d := w.dirs[p]
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w.buf, "%ssubgraph cluster_%d {\n", indent, w.n)
	w.n++
	fmt.Fprintf(w.buf, "%s  label=%q;\n", indent, d.Name+"/")
	fmt.Fprintf(w.buf, "%s  style=\"rounded\"; color=\"#cbd5e1\"; fontname=\"sans-serif\"; fontsize=10;\n", indent)
	for _, c := range d.Subdirs {
		w.cluster(c, depth+1)
	}
	for _, id := range d.Files {
		w.node(id, depth+1)
	}
	fmt.Fprintf(w.buf, "%s}\n", indent)
}

func (w *dotWriter) node(id string, depth int) {
	n := w.res.Nodes[id]
	attrs := []string{
		fmt.Sprintf("label=%q", layout.FileName(id)),
		fmt.Sprintf("tooltip=%q", id),
		fmt.Sprintf("fillcolor=%q", fillColors[n.Category]),
	}
	switch {
	case w.hl.Empty():
	case w.hl.HasNode(id):
		attrs = append(attrs, "penwidth=2")
	default:
		attrs = append(attrs, `fontcolor="#9ca3af"`, `color="#d1d5db"`)
	}
	fmt.Fprintf(w.buf, "%s%q [%s];\n", strings.Repeat("  ", depth), id, strings.Join(attrs, ", "))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg tag with a
// zero-origin viewBox and pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
