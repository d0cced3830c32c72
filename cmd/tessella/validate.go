package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessella-io/tessella"
	"github.com/tessella-io/tessella/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog for consistency",
	Long:  `Loads every block definition and reports shape errors and dangling type checks.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(args); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(args []string) error {
	var dir string
	var err error

	if len(args) > 0 {
		dir = args[0]
	} else {
		dir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	// We use the Engine to handle Loam initialization (which enforces ReadOnly by default).
	eng, err := tessella.New(dir)
	if err != nil {
		return fmt.Errorf("failed to init engine: %w", err)
	}

	return validator.ValidateCatalog(context.Background(), eng.Loader())
}
