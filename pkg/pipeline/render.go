package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/render/nested"
	"github.com/matzehuels/dirgraph/pkg/render/nodelink"
)

// RenderFromLayout generates artifacts in the requested formats from a
// serialized layout. opts must already be validated.
func RenderFromLayout(ctx context.Context, data depgraph.Data, l graph.Layout, opts Options) (map[string][]byte, error) {
	if opts.Focus != "" {
		if _, ok := data.Node(opts.Focus); !ok {
			return nil, errs.New(errs.ErrCodeNodeNotFound, "focus node not in graph: %q", opts.Focus)
		}
	}

	res := l.Result()
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(data, res, nodelink.Options{Focus: opts.Focus})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var out []byte
		var err error

		switch format {
		case FormatJSON:
			out, err = graph.MarshalLayout(l)
		case FormatDOT:
			out = []byte(dotFor())
		case FormatSVG:
			if opts.IsNodelink() {
				out, err = nodelink.RenderSVG(ctx, dotFor())
				break
			}
			var svgOpts []nested.SVGOption
			if opts.Focus != "" {
				svgOpts = append(svgOpts, nested.WithFocus(opts.Focus))
			}
			out = nested.RenderSVG(res, data, svgOpts...)
		case FormatPNG:
			if !opts.IsNodelink() {
				return nil, errs.New(errs.ErrCodeUnsupported, "png output requires viz_type %q", graph.VizTypeNodelink)
			}
			out, err = nodelink.RenderPNG(ctx, dotFor())
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = out
	}

	return artifacts, nil
}
