package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// analyzeCommand creates the analyze command, which builds graph.json.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		lf      limitFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze <dir|archive.zip|github:owner/repo>",
		Short: "Build the file-level import graph of a project",
		Long: `Build the file-level import graph of a project.

The source can be a local directory, a .zip archive or a GitHub repository
("github:owner/repo", "github:owner/repo@ref" or a github.com URL). Only
JavaScript and TypeScript sources are scanned; relative imports and the
configured alias prefix resolve to files in the project.

The graph is written as JSON and can be passed to 'layout' or 'neighbors'.`,
		Example: `  dirgraph analyze ./my-app
  dirgraph analyze github:vercel/commerce -o commerce.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], output, noCache, refresh, lf)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")
	addLimitFlags(cmd, &lf)

	return cmd
}

func addLimitFlags(cmd *cobra.Command, lf *limitFlags) {
	cmd.Flags().IntVar(&lf.maxFiles, "max-files", 0, "maximum number of files to scan (default from config)")
	cmd.Flags().Int64Var(&lf.maxFileBytes, "max-file-bytes", 0, "files larger than this are kept without content (default from config)")
}

func (c *CLI) runAnalyze(ctx context.Context, source, output string, noCache, refresh bool, lf limitFlags) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	fs, err := c.loadWithSpinner(ctx, source, lf, sourceCache(runner, refresh))
	if err != nil {
		return err
	}

	s := startSpinner(ctx, fmt.Sprintf("Resolving imports in %d files...", len(fs)))
	data, hit, err := runner.AnalyzeWithCacheInfo(ctx, fs, pipeline.Options{Refresh: refresh, Logger: c.Logger})
	if err != nil {
		s.fail("Analysis failed")
		return err
	}
	s.stop()

	if err := graph.WriteGraphFile(data, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Graph built")
	printFile(output)
	printStats(len(data.Nodes), len(data.Edges), hit)
	printCategories(data)
	printCycles(data)
	printNewline()
	printNextStep("Lay out", "dirgraph layout "+output)
	return nil
}
