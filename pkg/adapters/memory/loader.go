package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/ports"
)

// Loader implements ports.DefinitionLoader using an in-memory map.
// Safe for concurrent use.
type Loader struct {
	defs map[string]*blockdef.Definition
	mu   sync.RWMutex
}

// NewLoader creates a new memory loader from YAML sources keyed by type name.
func NewLoader(sources map[string]string) (*Loader, error) {
	defs := make(map[string]*blockdef.Definition, len(sources))
	for name, src := range sources {
		def, err := blockdef.Parse([]byte(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse definition %s: %w", name, err)
		}
		defs[name] = def
	}
	return &Loader{defs: defs}, nil
}

// NewFromDefinitions creates a new memory loader from already-built
// definitions. This skips parsing, improving DX for tests.
func NewFromDefinitions(defs ...*blockdef.Definition) (*Loader, error) {
	data := make(map[string]*blockdef.Definition, len(defs))
	for _, d := range defs {
		if d.Type == "" {
			return nil, fmt.Errorf("definition missing type")
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("invalid definition %s: %w", d.Type, err)
		}
		data[d.Type] = d
	}
	return &Loader{defs: data}, nil
}

// Get retrieves the definition of a block type.
func (l *Loader) Get(ctx context.Context, typeName string) (*blockdef.Definition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	def, ok := l.defs[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrNotFound, typeName)
	}
	return def, nil
}

// List returns all available block type names.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.defs))
	for k := range l.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}

// Put inserts or replaces a definition. Used by hot-reload paths and tests.
func (l *Loader) Put(def *blockdef.Definition) error {
	if def.Type == "" {
		return fmt.Errorf("definition missing type")
	}
	if err := def.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs[def.Type] = def
	return nil
}

var _ ports.DefinitionLoader = (*Loader)(nil)
