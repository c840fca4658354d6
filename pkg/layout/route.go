package layout

import (
	"strconv"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
)

// Curve is a cubic Bézier segment.
type Curve struct {
	Start Point
	C1    Point
	C2    Point
	End   Point
}

// Route connects the right-center of src to the left-center of dst with
// horizontal tangents of length TangentLength.
func Route(src, dst Box) Curve {
	start := Point{X: src.Right(), Y: src.Y + src.Height/2}
	end := Point{X: dst.X, Y: dst.Y + dst.Height/2}
	return Curve{
		Start: start,
		C1:    Point{X: start.X + TangentLength, Y: start.Y},
		C2:    Point{X: end.X - TangentLength, Y: end.Y},
		End:   end,
	}
}

// Path returns SVG path data for the curve.
func (c Curve) Path() string {
	b := make([]byte, 0, 64)
	b = append(b, "M "...)
	b = appendPoint(b, c.Start)
	b = append(b, " C "...)
	b = appendPoint(b, c.C1)
	b = append(b, ", "...)
	b = appendPoint(b, c.C2)
	b = append(b, ", "...)
	b = appendPoint(b, c.End)
	return string(b)
}

func appendPoint(b []byte, p Point) []byte {
	b = strconv.AppendFloat(b, p.X, 'f', -1, 64)
	b = append(b, ' ')
	return strconv.AppendFloat(b, p.Y, 'f', -1, 64)
}

// RoutedEdge is an edge with its drawn curve.
type RoutedEdge struct {
	depgraph.Edge
	Curve Curve
}

// RouteEdges routes every edge whose endpoints are both in res, preserving
// edge order.
func RouteEdges(res Result, edges []depgraph.Edge) []RoutedEdge {
	out := make([]RoutedEdge, 0, len(edges))
	for _, e := range edges {
		src, ok := res.Lookup(e.Source)
		if !ok {
			continue
		}
		dst, ok := res.Lookup(e.Target)
		if !ok {
			continue
		}
		out = append(out, RoutedEdge{Edge: e, Curve: Route(src.Box, dst.Box)})
	}
	return out
}
