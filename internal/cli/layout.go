package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// layoutCommand creates the layout command, which turns graph.json into
// layout.json.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout <graph.json>",
		Short: "Compute the nested directory layout of a graph",
		Long: `Compute the nested directory layout of a graph.

Each file becomes a card inside boxes for its directories; subdirectories
are stacked top to bottom and root-level files form their own column. The
output is a layout.json (the same document as 'render -f json') that the
'visualize' command renders.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, noCache, refresh bool) error {
	data, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	s := startSpinner(ctx, fmt.Sprintf("Laying out %d files...", len(data.Nodes)))
	l, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, data, pipeline.Options{Refresh: refresh, Logger: c.Logger})
	if err != nil {
		s.fail("Layout failed")
		return err
	}
	s.stop()

	if output == "" {
		output = basePath(input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(data.Nodes), len(data.Edges), hit)
	printDetail("%d directory boxes · %.0f×%.0f", len(l.Directories), l.Width, l.Height)
	printNewline()
	printNextStep("Render", "dirgraph visualize "+output)
	return nil
}
