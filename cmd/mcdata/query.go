package main

import (
	"fmt"

	"github.com/aretw0/mcdata/internal/cli"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/spf13/cobra"
)

func parseTagArgs(kindArg, idArg string) (datapack.Kind, id.ID, error) {
	kind, err := datapack.ParseKind(kindArg)
	if err != nil {
		return 0, id.ID{}, err
	}
	key := id.New(idArg)
	if err := key.Validate(); err != nil {
		return 0, id.ID{}, err
	}
	return kind, key, nil
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <kind> <id>",
	Short: "Print every member of a tag",
	Long: `Resolves a tag, expanding the tags it references. With --in the tag is
seen from that root, otherwise from the vanilla data alone.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, key, err := parseTagArgs(args[0], args[1])
		if err != nil {
			return err
		}
		ws, cfg, _, err := openWorkspace(cmd.Context(), nil)
		if err != nil {
			return err
		}
		in, _ := cmd.Flags().GetString("in")
		scope, name, err := scopeOf(ws, in)
		if err != nil {
			return err
		}

		res, found, err := ws.Tag(kind, key, scope)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", key, err)
		}
		out := cli.NewTagOutput(kind.String(), key, name, res, found)
		if cfg.Format != cli.FormatText {
			return cli.Encode(cmd.OutOrStdout(), cfg.Format, out)
		}
		cli.WriteTagText(cmd.OutOrStdout(), out)
		return nil
	},
}

var valuesCmd = &cobra.Command{
	Use:   "values <kind> <id>",
	Short: "Print the raw definitions of a tag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, key, err := parseTagArgs(args[0], args[1])
		if err != nil {
			return err
		}
		ws, cfg, _, err := openWorkspace(cmd.Context(), nil)
		if err != nil {
			return err
		}
		in, _ := cmd.Flags().GetString("in")
		scope, _, err := scopeOf(ws, in)
		if err != nil {
			return err
		}

		values, err := ws.Values(kind, key, scope)
		if err != nil {
			return err
		}
		defs := cli.NewDefinitions(values)
		if cfg.Format != cli.FormatText {
			return cli.Encode(cmd.OutOrStdout(), cfg.Format, defs)
		}
		cli.WriteDefinitionsText(cmd.OutOrStdout(), defs)
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags <kind>",
	Short: "List the tags of a kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := datapack.ParseKind(args[0])
		if err != nil {
			return err
		}
		ws, cfg, _, err := openWorkspace(cmd.Context(), nil)
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
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		if cfg.Format != cli.FormatText {
			return cli.Encode(cmd.OutOrStdout(), cfg.Format, names)
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{resolveCmd, valuesCmd, tagsCmd} {
		c.Flags().String("in", "", "Root path to query from (default: global layer)")
		rootCmd.AddCommand(c)
	}
}
