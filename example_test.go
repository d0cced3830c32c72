package tessella_test

import (
	"context"
	"fmt"
	"log"

	"github.com/tessella-io/tessella"
	"github.com/tessella-io/tessella/pkg/adapters/memory"
	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/workspace"
)

// ExampleNew_memory demonstrates how to use the Engine with an in-memory
// catalog. This is useful for testing, embedded scenarios, or when you don't
// want to rely on the file system.
func ExampleNew_memory() {
	// 1. Define your catalog using NewFromDefinitions for clean, type-safe
	// construction.
	loader, err := memory.NewFromDefinitions(
		&blockdef.Definition{
			Type:     "controls_repeat",
			Previous: &blockdef.SocketDef{},
			Next:     &blockdef.SocketDef{},
			Inputs: []blockdef.InputDef{
				{Kind: blockdef.KindValue, Name: "TIMES", Check: []string{"Number"}},
				{Kind: blockdef.KindStatement, Name: "DO"},
			},
		},
		&blockdef.Definition{
			Type:   "math_number",
			Output: &blockdef.SocketDef{Check: []string{"Number"}},
			Inputs: []blockdef.InputDef{
				{Kind: blockdef.KindDummy, Fields: []blockdef.FieldDef{
					{Kind: blockdef.FieldNumber, Name: "NUM", Value: 10},
				}},
			},
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	// 2. Initialize Tessella with the custom loader.
	// Note: We leave path empty ("") because we are providing a loader.
	engine, err := tessella.New("", tessella.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// 3. Expand definitions into live blocks.
	loopID, err := engine.CreateBlock(ctx, "demo", "controls_repeat")
	if err != nil {
		log.Fatal(err)
	}
	numID, err := engine.CreateBlock(ctx, "demo", "math_number")
	if err != nil {
		log.Fatal(err)
	}

	// 4. Plug the number into the loop's TIMES socket.
	err = engine.WithWorkspace(ctx, "demo", func(ws *workspace.Workspace) error {
		loop, _ := ws.Block(loopID)
		num, _ := ws.Block(numID)
		input, ok := loop.Input("TIMES")
		if !ok {
			return fmt.Errorf("missing input")
		}
		return input.Connection().Connect(num.OutputConnection())
	})
	if err != nil {
		log.Fatal(err)
	}

	// 5. The number block now reports the loop as its parent.
	err = engine.WithWorkspace(ctx, "demo", func(ws *workspace.Workspace) error {
		num, _ := ws.Block(numID)
		fmt.Println("attached:", num.Parent() != nil)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	// Output:
	// attached: true
}
