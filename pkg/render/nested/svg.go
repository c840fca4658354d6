// Package nested renders a directory-nested layout as a standalone SVG.
//
// Directories are drawn as labelled boxes, files as category-colored node
// boxes, and imports as the Bézier curves produced by layout.Route. The
// output embeds a neighbor map and a small script: clicking a node
// highlights it with its direct importers and importees, clicking the
// background clears the highlight. [WithFocus] bakes a highlight into the
// markup for static consumers.
package nested

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	"github.com/matzehuels/dirgraph/pkg/layout"
)

const maxLabelRunes = 24

// categoryColors maps a node category to its fill and stroke.
var categoryColors = map[depgraph.Category][2]string{
	depgraph.CategoryComponent: {"#dbeafe", "#2563eb"},
	depgraph.CategoryHook:      {"#ede9fe", "#7c3aed"},
	depgraph.CategoryRoute:     {"#dcfce7", "#16a34a"},
	depgraph.CategoryUtility:   {"#fef3c7", "#d97706"},
	depgraph.CategoryOther:     {"#f3f4f6", "#6b7280"},
}

const baseCSS = `
    .dir rect { fill: #ffffff; fill-opacity: 0.6; stroke: #cbd5e1; stroke-width: 1; }
    .dir text { font: 600 12px ui-sans-serif, system-ui, sans-serif; fill: #475569; }
    .node rect { stroke-width: 1.5; transition: stroke-width 0.15s ease, opacity 0.15s ease; }
    .node text { font: 12px ui-monospace, monospace; fill: #111827; pointer-events: none; }
    .node { cursor: pointer; transition: opacity 0.15s ease; }
    .edge { fill: none; stroke: #94a3b8; stroke-width: 1.2; opacity: 0.55; transition: opacity 0.15s ease; }
    .highlight rect { stroke-width: 3; }
    .edge.highlight { stroke: #0f172a; stroke-width: 2; opacity: 1; }
    .dim { opacity: 0.2; }`

const interactionJS = `
    var neighbors = %s;
    function focusNode(id) {
      var keep = new Set([id].concat(neighbors[id] || []));
      document.querySelectorAll('.node').forEach(function (n) {
        var on = keep.has(n.dataset.id);
        n.classList.toggle('highlight', on);
        n.classList.toggle('dim', !on);
      });
      document.querySelectorAll('.edge').forEach(function (e) {
        var on = e.dataset.source === id || e.dataset.target === id;
        e.classList.toggle('highlight', on);
        e.classList.toggle('dim', !on);
      });
    }
    function clearFocus() {
      document.querySelectorAll('.node, .edge').forEach(function (el) {
        el.classList.remove('highlight', 'dim');
      });
    }
    document.querySelectorAll('.node').forEach(function (n) {
      n.addEventListener('click', function (ev) { ev.stopPropagation(); focusNode(n.dataset.id); });
    });
    document.documentElement.addEventListener('click', clearFocus);`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	focus       string
	interactive bool
}

// WithFocus highlights id and its neighbors in the static markup.
func WithFocus(id string) SVGOption { return func(r *svgRenderer) { r.focus = id } }

// WithoutInteraction omits the embedded script.
func WithoutInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = false } }

// RenderSVG draws res. data supplies the edges and neighbor map.
func RenderSVG(res layout.Result, data depgraph.Data, opts ...SVGOption) []byte {
	r := svgRenderer{interactive: true}
	for _, opt := range opts {
		opt(&r)
	}
	hl := depgraph.Neighbors(data, r.focus)

	var buf bytes.Buffer
	w, h := num(res.Viewport.Width), num(res.Viewport.Height)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, "  <style>%s\n%s\n  </style>\n", baseCSS, categoryCSS())
	fmt.Fprintf(&buf, `  <rect class="background" width="%s" height="%s" fill="#f8fafc"/>`+"\n", w, h)

	buf.WriteString("  <g class=\"directories\">\n")
	for _, d := range res.Directories {
		renderDirectory(&buf, d)
	}
	buf.WriteString("  </g>\n  <g class=\"edges\">\n")
	for _, e := range layout.RouteEdges(res, data.Edges) {
		renderEdge(&buf, e, hl)
	}
	buf.WriteString("  </g>\n  <g class=\"nodes\">\n")
	for _, n := range res.SortedNodes() {
		renderNode(&buf, n, hl)
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		// A map of string slices cannot fail to marshal.
		adj, _ := json.Marshal(depgraph.Adjacency(data))
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", fmt.Sprintf(interactionJS, adj))
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func categoryCSS() string {
	var b bytes.Buffer
	for _, c := range []depgraph.Category{
		depgraph.CategoryComponent, depgraph.CategoryHook, depgraph.CategoryRoute,
		depgraph.CategoryUtility, depgraph.CategoryOther,
	} {
		col := categoryColors[c]
		fmt.Fprintf(&b, "    .cat-%s rect { fill: %s; stroke: %s; }\n", c, col[0], col[1])
	}
	return string(bytes.TrimRight(b.Bytes(), "\n"))
}

func renderDirectory(buf *bytes.Buffer, d layout.Directory) {
	fmt.Fprintf(buf, `    <g class="dir" data-path="%s">`, attr(d.Path))
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" rx="6"/>`,
		num(d.Box.X), num(d.Box.Y), num(d.Box.Width), num(d.Box.Height))
	fmt.Fprintf(buf, `<text x="%s" y="%s">%s/</text></g>`+"\n",
		num(d.Box.X+layout.DirPadding), num(d.Box.Y+layout.HeaderHeight-10), html.EscapeString(d.Name))
}

func renderEdge(buf *bytes.Buffer, e layout.RoutedEdge, hl depgraph.Highlight) {
	fmt.Fprintf(buf, `    <path class="edge%s" data-source="%s" data-target="%s" d="%s"/>`+"\n",
		stateClass(!hl.Empty(), hl.HasEdge(e.Source, e.Target)), attr(e.Source), attr(e.Target), e.Curve.Path())
}

func renderNode(buf *bytes.Buffer, n layout.PositionedNode, hl depgraph.Highlight) {
	fmt.Fprintf(buf, `    <g class="node cat-%s%s" data-id="%s">`,
		n.Category, stateClass(!hl.Empty(), hl.HasNode(n.ID)), attr(n.ID))
	fmt.Fprintf(buf, `<title>%s</title>`, html.EscapeString(n.ID))
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" rx="4"/>`,
		num(n.X), num(n.Y), num(n.Width), num(n.Height))
	fmt.Fprintf(buf, `<text x="%s" y="%s">%s</text></g>`+"\n",
		num(n.X+8), num(n.Y+n.Height/2+4), html.EscapeString(label(n.ID)))
}

// stateClass returns the highlight class suffix for an element.
func stateClass(active, on bool) string {
	switch {
	case !active:
		return ""
	case on:
		return " highlight"
	default:
		return " dim"
	}
}

func label(id string) string {
	name := layout.FileName(id)
	if utf8.RuneCountInString(name) <= maxLabelRunes {
		return name
	}
	runes := []rune(name)
	return string(runes[:maxLabelRunes-1]) + "…"
}

func attr(s string) string { return html.EscapeString(s) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
