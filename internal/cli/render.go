package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// renderCommand creates the render command, which runs the whole pipeline
// from a source to rendered artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		rf renderFlags
		lf limitFlags
	)

	cmd := &cobra.Command{
		Use:   "render <dir|archive.zip|github:owner/repo>",
		Short: "Analyze, lay out and render a project in one step",
		Long: `Analyze, lay out and render a project in one step.

This is equivalent to 'analyze', 'layout' and 'visualize' in sequence. Each
stage is cached, so re-rendering with a different format, view or focus
only repeats the stages that changed.`,
		Example: `  dirgraph render ./my-app
  dirgraph render github:owner/repo -t nodelink -f svg,dot -o out/repo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], rf, lf)
		},
	}

	addRenderFlags(cmd, &rf)
	addLimitFlags(cmd, &lf)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, source string, rf renderFlags, lf limitFlags) error {
	opts, err := rf.options(c)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, rf.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	fs, err := c.loadWithSpinner(ctx, source, lf, sourceCache(runner, rf.refresh))
	if err != nil {
		return err
	}

	s := startSpinner(ctx, fmt.Sprintf("Rendering %d files...", len(fs)))
	result, err := runner.Execute(ctx, fs, opts)
	if err != nil {
		s.fail("Render failed")
		return err
	}
	s.stop()

	base := rf.output
	if base == "" {
		base = sourceName(source)
	}
	paths, err := writeArtifacts(base, result.Artifacts)
	if err != nil {
		return err
	}

	ci := result.CacheInfo
	printSuccess("Rendered %s view", opts.VizType)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, ci.AnalyzeHit && ci.LayoutHit && ci.RenderHit)
	printCategories(result.Graph)
	printCycles(result.Graph)
	c.Logger.Debug("stage timings",
		"analyze", result.Stats.AnalyzeTime.Round(time.Millisecond),
		"layout", result.Stats.LayoutTime.Round(time.Millisecond),
		"render", result.Stats.RenderTime.Round(time.Millisecond))
	return nil
}
