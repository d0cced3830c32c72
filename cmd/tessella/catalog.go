package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessella-io/tessella"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the block types available in the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		repoPath, _ := cmd.Flags().GetString("dir")

		engine, err := tessella.New(repoPath)
		if err != nil {
			fmt.Printf("Error initializing tessella: %v\n", err)
			os.Exit(1)
		}

		types, err := engine.Catalog(context.Background())
		if err != nil {
			fmt.Printf("Error listing catalog: %v\n", err)
			os.Exit(1)
		}

		if len(types) == 0 {
			fmt.Println("No block definitions found.")
			return
		}

		for _, t := range types {
			fmt.Println("- " + t)
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}
