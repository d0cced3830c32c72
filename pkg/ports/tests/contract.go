package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/ports"
)

// DefinitionLoaderContractTest is a reusable test suite that verifies if an
// adapter complies with ports.DefinitionLoader.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, setupData map[string]*blockdef.Definition) {
	t.Helper()
	ctx := context.Background()

	// 1. Test Get (Success)
	t.Run("Get_Success", func(t *testing.T) {
		for typeName, expected := range setupData {
			def, err := loader.Get(ctx, typeName)
			if err != nil {
				t.Fatalf("unexpected error getting definition %s: %v", typeName, err)
			}
			if def.Type != expected.Type {
				t.Errorf("type mismatch for %s. got %q, want %q", typeName, def.Type, expected.Type)
			}
			if len(def.Inputs) != len(expected.Inputs) {
				t.Errorf("input count mismatch for %s. got %d, want %d", typeName, len(def.Inputs), len(expected.Inputs))
			}
		}
	})

	// 2. Test Get (NotFound)
	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := loader.Get(ctx, "non-existent-type")
		if err == nil {
			t.Error("expected error for non-existent type, got nil")
		}
		if !errors.Is(err, ports.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	// 3. Test List
	t.Run("List", func(t *testing.T) {
		names, err := loader.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing definitions: %v", err)
		}

		if len(names) != len(setupData) {
			t.Errorf("expected %d definitions, got %d", len(setupData), len(names))
		}

		// Verify all expected type names are present
		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}

		for name := range setupData {
			if !lookup[name] {
				t.Errorf("definition %s missing from list", name)
			}
		}
	})
}
