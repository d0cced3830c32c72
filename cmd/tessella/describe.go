package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tessella-io/tessella"
	"github.com/tessella-io/tessella/internal/presentation/tui"
	"github.com/tessella-io/tessella/pkg/blockdef"
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <type>",
	Short: "Show one block definition with its rendered help text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repoPath, _ := cmd.Flags().GetString("dir")

		engine, err := tessella.New(repoPath)
		if err != nil {
			fmt.Printf("Error initializing tessella: %v\n", err)
			os.Exit(1)
		}

		def, err := engine.Describe(context.Background(), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		tui.PrintBanner()
		printDefinition(def)

		if def.Help != "" {
			render := tui.NewRenderer()
			out, err := render(def.Help)
			if err != nil {
				// Fall back to the raw markdown rather than failing the command.
				out = def.Help
			}
			fmt.Println(out)
		}
	},
}

func printDefinition(def *blockdef.Definition) {
	fmt.Printf("Type: %s\n", def.Type)
	switch {
	case def.Output != nil:
		fmt.Printf("Shape: value block (outputs %s)\n", checkLabel(def.Output.Check))
	case def.Previous != nil:
		fmt.Println("Shape: statement block")
	default:
		fmt.Println("Shape: hat block")
	}

	for _, in := range def.Inputs {
		switch in.Kind {
		case blockdef.KindValue:
			fmt.Printf("  input %s: value (%s)\n", in.Name, checkLabel(in.Check))
		case blockdef.KindStatement:
			fmt.Printf("  input %s: statement\n", in.Name)
		default:
			fmt.Println("  input: dummy row")
		}
	}
	fmt.Println()
}

func checkLabel(check []string) string {
	if len(check) == 0 {
		return "any"
	}
	return strings.Join(check, ", ")
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
