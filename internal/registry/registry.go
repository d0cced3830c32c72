// Package registry manages named workspaces behind per-name locks. The block
// model itself is single-threaded; every caller that wants to touch a
// workspace goes through WithWorkspace, which serializes access per name
// while leaving unrelated workspaces free.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tessella-io/tessella/internal/logging"
	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/ports"
	"github.com/tessella-io/tessella/pkg/workspace"
)

// ErrWorkspaceNotFound is returned by operations that require an existing
// workspace.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Registry orchestrates access to named workspaces, ensuring safe concurrent
// operations. It uses reference counting to garbage collect unused locks.
type Registry struct {
	loader ports.DefinitionLoader

	mu         sync.Mutex
	locks      map[string]*lockEntry
	workspaces map[string]*workspace.Workspace

	wsOpts []workspace.Option // Applied to every workspace the registry creates
	logger *slog.Logger
}

// Option configures the Registry.
type Option func(*Registry)

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithWorkspaceOptions forwards options (renderer, hooks) to every workspace
// the registry creates.
func WithWorkspaceOptions(opts ...workspace.Option) Option {
	return func(r *Registry) {
		r.wsOpts = opts
	}
}

// New creates a registry backed by the given definition catalog.
func New(loader ports.DefinitionLoader, opts ...Option) *Registry {
	r := &Registry{
		loader:     loader,
		locks:      make(map[string]*lockEntry),
		workspaces: make(map[string]*workspace.Workspace),
		logger:     logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(name) after
// unlocking.
func (r *Registry) acquire(name string) *lockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[name]
	if !exists {
		entry = &lockEntry{}
		r.locks[name] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry when it
// reaches zero.
func (r *Registry) release(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.locks[name]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(r.locks, name)
	}
}

// WithWorkspace executes fn while holding the lock for the named workspace,
// creating the workspace on first use.
func (r *Registry) WithWorkspace(ctx context.Context, name string, fn func(ws *workspace.Workspace) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := r.acquire(name)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.release(name)
	}()

	r.mu.Lock()
	ws, exists := r.workspaces[name]
	if !exists {
		ws = workspace.New(r.wsOpts...)
		r.workspaces[name] = ws
		r.logger.Debug("workspace created", "name", name)
	}
	r.mu.Unlock()

	return fn(ws)
}

// WithExisting is WithWorkspace without the create-on-miss behavior.
func (r *Registry) WithExisting(ctx context.Context, name string, fn func(ws *workspace.Workspace) error) error {
	r.mu.Lock()
	_, exists := r.workspaces[name]
	r.mu.Unlock()
	if !exists {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, name)
	}
	return r.WithWorkspace(ctx, name, fn)
}

// CreateBlock loads the named block type from the catalog and expands it
// into the workspace.
func (r *Registry) CreateBlock(ctx context.Context, name, typeName string) (blockID string, err error) {
	def, err := r.loader.Get(ctx, typeName)
	if err != nil {
		return "", err
	}

	err = r.WithWorkspace(ctx, name, func(ws *workspace.Workspace) error {
		b, err := blockdef.Build(ws, def)
		if err != nil {
			return err
		}
		blockID = b.ID()
		return nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Debug("block created", "workspace", name, "type", typeName, "block_id", blockID)
	return blockID, nil
}

// Delete disposes the named workspace and forgets it.
func (r *Registry) Delete(ctx context.Context, name string) error {
	err := r.WithExisting(ctx, name, func(ws *workspace.Workspace) error {
		ws.Dispose()
		return nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.workspaces, name)
	r.mu.Unlock()

	r.logger.Debug("workspace deleted", "name", name)
	return nil
}

// List returns the names of all live workspaces, sorted.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.workspaces))
	for name := range r.workspaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loader returns the underlying definition catalog.
func (r *Registry) Loader() ports.DefinitionLoader {
	return r.loader
}
