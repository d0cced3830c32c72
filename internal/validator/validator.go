package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/ports"
)

// ValidateCatalog loads every definition in the catalog and checks for
// shape errors and dangling type checks (value inputs no catalog block
// could ever plug into).
func ValidateCatalog(ctx context.Context, loader ports.DefinitionLoader) error {
	types, err := loader.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}

	var errors []string
	defs := make([]*blockdef.Definition, 0, len(types))

	for _, typeName := range types {
		def, err := loader.Get(ctx, typeName)
		if err != nil {
			errors = append(errors, fmt.Sprintf("Invalid definition '%s': %v", typeName, err))
			continue
		}
		defs = append(defs, def)
	}

	// Collect every output type the catalog offers. An output with an empty
	// check list connects to anything, so one of those satisfies all inputs.
	offered := make(map[string]bool)
	wildcard := false
	for _, def := range defs {
		if def.Output == nil {
			continue
		}
		if len(def.Output.Check) == 0 {
			wildcard = true
		}
		for _, c := range def.Output.Check {
			offered[c] = true
		}
	}

	for _, def := range defs {
		for _, in := range def.Inputs {
			if in.Kind != blockdef.KindValue || len(in.Check) == 0 || wildcard {
				continue
			}
			satisfied := false
			for _, c := range in.Check {
				if offered[c] {
					satisfied = true
					break
				}
			}
			if !satisfied {
				errors = append(errors, fmt.Sprintf(
					"Dangling check: '%s' input '%s' accepts %v but no catalog block outputs any of them",
					def.Type, in.Name, in.Check))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
