package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/mcdata"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mcdata",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mcdata version %s\n", strings.TrimSpace(mcdata.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
