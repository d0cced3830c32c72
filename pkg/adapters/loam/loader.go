// Package loam adapts a Loam document repository to the DefinitionLoader
// port. Block definitions live as markdown files with YAML frontmatter: the
// frontmatter describes the shape, the body is help text.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"

	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/ports"
)

// Loader adapts the Loam library to the ports.DefinitionLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[DefinitionMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DefinitionMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Get retrieves a block definition from the Loam repository.
// We trust Loam to find the file (e.g. math_number.md) even when asked for
// "math_number".
func (l *Loader) Get(ctx context.Context, typeName string) (*blockdef.Definition, error) {
	doc, err := l.Repo.Get(ctx, typeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%v)", ports.ErrNotFound, typeName, err)
	}

	def := doc.Data.toDefinition(doc.ID, doc.Content)
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definition %s: %w", typeName, err)
	}
	return def, nil
}

// List lists all block type names in the repository.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the type from metadata if available, otherwise the filename.
		rawName := doc.Data.Type
		if rawName == "" {
			rawName = doc.ID
		}
		name := trimExtension(rawName)

		// Collision Detection
		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: type %q is defined in both %q and %q", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	return names, nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	// Watch for all relevant files (recursive) using the doublestar pattern
	// supported by Loam. This avoids a manual filtering loop.
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				// Loam debounces on its side. Pass the changed type name up
				// the chain, respecting context cancellation.
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

var (
	_ ports.DefinitionLoader = (*Loader)(nil)
	_ ports.Watchable        = (*Loader)(nil)
)
