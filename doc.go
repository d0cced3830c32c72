/*
Package tessella is an embeddable block workspace engine for building
visual-programming backends, editors, and automation tooling.

It implements a composition model in which blocks are stacks of input rows,
rows carry fields, and connection points link blocks into trees. The engine
manages structure, type compatibility, visibility cascades, and disposal,
while your application ("Host") manages rendering and user interaction. This
hexagonal architecture allows Tessella to be embedded in any interface: CLI,
HTTP server, or AI agent infrastructure.

# Key Features

  - Structural Core: Blocks, inputs, fields, and connections with the
    invariants enforced in one place.
  - Type Checking: Connections carry compatibility lists and refuse
    incompatible or occupied sockets.
  - Catalog Loading: Block shapes live as Markdown documents with YAML
    frontmatter, loaded through Loam, or as in-memory definitions.
  - Observability: Hooks for structured logging and Prometheus metrics
    stack without knowing about each other.

# Usage

Initialize the engine with a catalog path. You can use the default
filesystem loader (Loam) or inject a custom one.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/tessella-io/tessella"
	)

	func main() {
		// Reads block definitions from ./catalog
		eng, err := tessella.New("./catalog")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()

		// Expand a definition into a live block
		id, err := eng.CreateBlock(ctx, "main", "controls_repeat")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("created", id)

		// Inspect the result
		graph, err := eng.Graph(ctx, "main")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(graph)
	}
*/
package tessella
