package ports

import (
	"context"
	"errors"

	"github.com/tessella-io/tessella/pkg/blockdef"
)

// ErrNotFound is returned by loaders when no definition carries the
// requested type name.
var ErrNotFound = errors.New("definition not found")

// DefinitionLoader defines how the engine retrieves block definitions.
// This allows the catalog backend (Loam, FS, Memory) to be decoupled.
type DefinitionLoader interface {
	// Get retrieves the definition of a block type. Implementations return
	// an error wrapping ErrNotFound for unknown types.
	Get(ctx context.Context, typeName string) (*blockdef.Definition, error)

	// List returns all block type names available in the catalog.
	// This is used for introspection and visualization tools.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend
// changes. This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel carrying the type name of each changed
	// definition. The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, error)
}
