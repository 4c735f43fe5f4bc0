package main

import (
	"fmt"

	"github.com/aretw0/mcdata/internal/presentation/graph"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <kind>",
	Short: "Export the tag graph visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the tags of a kind, highlighting loops.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := datapack.ParseKind(args[0])
		if err != nil {
			return err
		}
		ws, _, logger, err := openWorkspace(cmd.Context(), nil)
		if err != nil {
			return err
		}
		in, _ := cmd.Flags().GetString("in")
		scope, _, err := scopeOf(ws, in)
		if err != nil {
			return err
		}
		keys, err := ws.Tags(kind, scope)
		if err != nil {
			return err
		}

		overlay := &graph.GraphOverlay{}
		if focus, _ := cmd.Flags().GetString("focus"); focus != "" {
			overlay.Current = id.New(focus)
		}

		nodes := make([]graph.TagNode, 0, len(keys))
		for _, key := range keys {
			values, err := ws.Values(kind, key, scope)
			if err != nil {
				return err
			}
			node := graph.TagNode{ID: key, Global: len(values.Locals) == 0}
			for _, def := range values.Ordered() {
				node.Values = append(node.Values, def.Value.Values...)
			}
			nodes = append(nodes, node)

			res, _, err := ws.Tag(kind, key, scope)
			if err != nil {
				logger.Warn("Tag failed to resolve", "tag", key.String(), "err", err)
				continue
			}
			if len(res.LoopRoots) > 0 {
				overlay.Looping = append(overlay.Looping, key)
			}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(nodes, overlay))
		return nil
	},
}

func init() {
	graphCmd.Flags().String("in", "", "Root path to draw (default: global layer)")
	graphCmd.Flags().String("focus", "", "Tag ID to highlight")
	rootCmd.AddCommand(graphCmd)
}
