package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tessella-io/tessella"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tessella",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tessella version %s\n", strings.TrimSpace(tessella.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
