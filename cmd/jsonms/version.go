package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/jsonms"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jsonms",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jsonms version %s\n", strings.TrimSpace(jsonms.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
