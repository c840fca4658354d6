package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/depgraph"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
)

// neighborsCommand creates the neighbors command.
func (c *CLI) neighborsCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "neighbors <graph.json|layout.json> [file]",
		Short: "List the files a file imports and the files importing it",
		Long: `List the files a file imports and the files importing it.

Accepts either a graph.json from 'analyze' or a layout.json from 'layout'.
Without a file argument, or with -i, an interactive picker opens.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}

			var focus string
			if len(args) == 2 && !interactive {
				focus = args[1]
			} else {
				if focus, err = pickNode(data); err != nil {
					return err
				}
				if focus == "" {
					return nil
				}
			}
			return showNeighbors(data, focus)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick the file interactively")
	return cmd
}

// showNeighbors prints the one-hop neighborhood of focus.
func showNeighbors(data depgraph.Data, focus string) error {
	if _, ok := data.Node(focus); !ok {
		return errs.New(errs.ErrCodeNodeNotFound, "file not in graph: %s", focus)
	}
	h := depgraph.Neighbors(data, focus)

	printKeyValue("File", focus)
	printKeyValue("Neighbors", plural(len(h.NodeIDs())-1, "file"))
	if len(h.EdgeKeys()) == 0 {
		printInfo("No imports in either direction")
		return nil
	}
	fmt.Fprintln(stdout, neighborTable(data, focus))
	return nil
}
