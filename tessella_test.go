package tessella_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tessella-io/tessella"
)

func TestFacade_Integration(t *testing.T) {
	// 0. Setup Temp Catalog
	repoPath := t.TempDir()
	defFile := filepath.Join(repoPath, "math_number.md")
	content := []byte(`---
output:
  check: [Number]
inputs:
  - kind: dummy
    fields:
      - kind: number
        name: NUM
        value: 0
---
A plain number.`)
	if err := os.WriteFile(defFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	// 1. Test Initialization
	engine, err := tessella.New(repoPath)
	if err != nil {
		t.Fatalf("Failed to initialize engine with path %s: %v", repoPath, err)
	}

	ctx := context.Background()

	// 2. The catalog picks the type name up from the filename.
	types, err := engine.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if len(types) != 1 || types[0] != "math_number" {
		t.Errorf("Expected catalog [math_number], got %v", types)
	}

	def, err := engine.Describe(ctx, "math_number")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if def.Help != "A plain number." {
		t.Errorf("Expected body as help text, got %q", def.Help)
	}

	// 3. Expand into a live block
	id, err := engine.CreateBlock(ctx, "main", "math_number")
	if err != nil {
		t.Fatalf("CreateBlock failed: %v", err)
	}
	if id == "" {
		t.Error("Expected a block ID, got empty string")
	}

	// 4. The graph shows the block with its output shape
	out, err := engine.Graph(ctx, "main")
	if err != nil {
		t.Fatalf("Graph failed: %v", err)
	}
	if out == "" {
		t.Error("Expected mermaid output, got empty string")
	}
}

func TestFacade_RequiresPathOrLoader(t *testing.T) {
	if _, err := tessella.New(""); err == nil {
		t.Error("Expected error when neither path nor loader is given")
	}
}
