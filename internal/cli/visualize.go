package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/graph"
)

// visualizeCommand creates the visualize command, which renders layout.json.
func (c *CLI) visualizeCommand() *cobra.Command {
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "visualize <layout.json>",
		Short: "Render a computed layout to SVG, PNG or DOT",
		Long: `Render a computed layout to SVG, PNG or DOT.

The nested view (-t nested) draws the directory boxes and file cards from the
layout itself. The node-link view (-t nodelink) lays the same graph out with
Graphviz, grouping files into directory clusters. PNG output needs nodelink.

With --focus, the file and its direct importers and importees are highlighted
and everything else is dimmed.`,
		Example: `  dirgraph visualize graph.layout.json
  dirgraph visualize graph.layout.json -t nodelink -f svg,png --focus src/App.tsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd.Context(), args[0], rf)
		},
	}

	addRenderFlags(cmd, &rf)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, rf *renderFlags) {
	cmd.Flags().StringVarP(&rf.vizType, "type", "t", "nested", "visualization type: nested, nodelink")
	cmd.Flags().StringVarP(&rf.formats, "format", "f", "svg", "output formats, comma separated: svg, png, dot, json")
	cmd.Flags().StringVar(&rf.focus, "focus", "", "file whose direct neighbors are highlighted")
	cmd.Flags().StringVarP(&rf.output, "output", "o", "", "output base path (extension added per format)")
	cmd.Flags().BoolVar(&rf.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&rf.refresh, "refresh", false, "ignore cached results and recompute")
}

func (c *CLI) runVisualize(ctx context.Context, input string, rf renderFlags) error {
	opts, err := rf.options(c)
	if err != nil {
		return err
	}

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	data, err := l.Data()
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	s := startSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, data, l, opts)
	if err != nil {
		s.fail("Render failed")
		return err
	}
	s.stop()

	base := rf.output
	if base == "" {
		base = basePath(input)
	}
	paths, err := writeArtifacts(base, artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s view", opts.VizType)
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(data.Nodes), len(data.Edges), hit)
	return nil
}
