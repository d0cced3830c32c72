package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessella-io/tessella"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export a catalog overview as a Mermaid diagram",
	Long:  `Expands one block of each catalog type into a scratch workspace and outputs a Mermaid diagram (graph TD) of the resulting shapes.`,
	Run: func(cmd *cobra.Command, args []string) {
		repoPath, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			repoPath = args[0]
		}

		engine, err := tessella.New(repoPath)
		if err != nil {
			fmt.Printf("Error initializing tessella: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		types, err := engine.Catalog(ctx)
		if err != nil {
			fmt.Printf("Error listing catalog: %v\n", err)
			os.Exit(1)
		}

		for _, typeName := range types {
			if _, err := engine.CreateBlock(ctx, "preview", typeName); err != nil {
				fmt.Printf("Error expanding %s: %v\n", typeName, err)
				os.Exit(1)
			}
		}

		output, err := engine.Graph(ctx, "preview")
		if err != nil {
			fmt.Printf("Error rendering graph: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
