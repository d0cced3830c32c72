package tessella

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/loam"

	"github.com/tessella-io/tessella/internal/presentation/graph"
	"github.com/tessella-io/tessella/internal/registry"
	loamAdapter "github.com/tessella-io/tessella/pkg/adapters/loam"
	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/ports"
	"github.com/tessella-io/tessella/pkg/workspace"
)

// Version is the library version. Overridable at build time via -ldflags.
var Version = "0.1.0"

// Engine is the high-level entry point for the Tessella library.
// It wraps the workspace registry and provides a simplified API for consumers.
type Engine struct {
	registry *registry.Registry
	loader   ports.DefinitionLoader
	wsOpts   []workspace.Option
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom DefinitionLoader, bypassing the default Loam
// initialization.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHooks registers observability hooks on every workspace the engine
// creates.
func WithHooks(hooks workspace.Hooks) Option {
	return func(e *Engine) {
		e.wsOpts = append(e.wsOpts, workspace.WithHooks(hooks))
	}
}

// WithRenderer attaches a renderer to every workspace the engine creates.
// Without one, workspaces run headless.
func WithRenderer(r workspace.Renderer) Option {
	return func(e *Engine) {
		e.wsOpts = append(e.wsOpts, workspace.WithRenderer(r))
	}
}

// New initializes a new Tessella Engine.
// By default, it reads block definitions from a Loam repository at the given
// path. If the WithLoader option is provided, catalogPath can be empty and
// Loam is skipped.
func New(catalogPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	// Apply options first to check if a loader is provided
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if catalogPath == "" {
			return nil, fmt.Errorf("catalogPath is required when no custom loader is provided")
		}

		absPath, err := filepath.Abs(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}

		eng.Name = filepath.Base(absPath)

		// Strict mode keeps numeric frontmatter types consistent across the
		// JSON and Markdown/YAML adapters. ReadOnly avoids Loam's sandbox
		// behavior in dev mode; the engine never modifies the catalog.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}

		typedRepo := loam.NewTypedRepository[loamAdapter.DefinitionMetadata](repo)
		eng.loader = loamAdapter.New(typedRepo)
	} else if catalogPath != "" {
		// With a custom loader the path is only a descriptive label.
		eng.Name = filepath.Base(catalogPath)
	}

	// Ensure logger is initialized so we never hand nil downstream.
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("catalog", eng.Name)
	}

	eng.registry = registry.New(eng.loader,
		registry.WithLogger(eng.logger),
		registry.WithWorkspaceOptions(eng.wsOpts...),
	)

	return eng, nil
}

// CreateBlock expands a catalog definition into a live block in the named
// workspace, creating the workspace on first use. It returns the new block's
// ID.
func (e *Engine) CreateBlock(ctx context.Context, workspaceName, typeName string) (string, error) {
	return e.registry.CreateBlock(ctx, workspaceName, typeName)
}

// WithWorkspace runs fn with exclusive access to the named workspace,
// creating it on first use.
func (e *Engine) WithWorkspace(ctx context.Context, name string, fn func(ws *workspace.Workspace) error) error {
	return e.registry.WithWorkspace(ctx, name, fn)
}

// Describe fetches one block definition from the catalog.
func (e *Engine) Describe(ctx context.Context, typeName string) (*blockdef.Definition, error) {
	return e.loader.Get(ctx, typeName)
}

// Catalog lists the block type names available to this engine.
func (e *Engine) Catalog(ctx context.Context) ([]string, error) {
	return e.loader.List(ctx)
}

// Graph renders the named workspace as Mermaid flowchart syntax.
func (e *Engine) Graph(ctx context.Context, workspaceName string) (string, error) {
	var out string
	err := e.registry.WithExisting(ctx, workspaceName, func(ws *workspace.Workspace) error {
		out = graph.GenerateMermaid(ws, nil)
		return nil
	})
	return out, err
}

// Watch returns a channel that signals when the underlying catalog changes.
// Returns an error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Registry exposes the underlying workspace registry for adapters (HTTP,
// MCP) that serve it directly.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Loader returns the underlying DefinitionLoader used by the engine.
func (e *Engine) Loader() ports.DefinitionLoader {
	return e.loader
}
