package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/aretw0/mcdata/internal/testutils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags undoes the flag values of earlier runs, since commands are globals.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writePack(t *testing.T) string {
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"pack.mcmeta":                      `{"pack": {"pack_format": 5, "description": "demo"}}`,
		"data/demo/tags/items/tools.json":  `{"values": ["#demo:swords", "stone_pickaxe"]}`,
		"data/demo/tags/items/swords.json": `{"values": ["iron_sword"]}`,
		"data/demo/tags/items/loop.json":   `{"values": ["#demo:loop"]}`,
	})
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mcdata version ")
}

func TestResolveCommand(t *testing.T) {
	pack := writePack(t)

	out, err := execute(t, "resolve", "--root", pack, "--in", pack, "--format", "json", "--log-level", "error", "item_tags", "demo:tools")
	require.NoError(t, err)

	var got struct {
		Found   bool     `json:"found"`
		Results []string `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Found)
	assert.Equal(t, []string{"minecraft:iron_sword", "minecraft:stone_pickaxe"}, got.Results)

	_, err = execute(t, "resolve", "--root", pack, "--in", filepath.Join(pack, "missing"), "item_tags", "demo:tools")
	assert.Error(t, err)
}

func TestLintCommand(t *testing.T) {
	pack := writePack(t)
	report := filepath.Join(t.TempDir(), "report.json")

	out, err := execute(t, "lint", "--format", "text", "--log-level", "error", "--report-file", report, pack)
	assert.ErrorIs(t, err, errProblems)
	assert.Contains(t, out, "LOOPING_TAG")
}
