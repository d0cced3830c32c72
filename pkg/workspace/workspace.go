package workspace

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Workspace is the arena that owns every block in a single editing surface.
// Blocks are addressed by stable string IDs so that inputs and connections can
// hold back-references without owning their block.
type Workspace struct {
	blocks map[string]*Block
	order  []string // creation order, for deterministic listing

	renderer Renderer
	hooks    Hooks
	logger   *slog.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithRenderer attaches a drawing collaborator. Without one the workspace is
// headless and render-triggering operations are no-ops.
func WithRenderer(r Renderer) Option {
	return func(ws *Workspace) {
		ws.renderer = r
	}
}

// WithHooks registers observability callbacks.
func WithHooks(h Hooks) Option {
	return func(ws *Workspace) {
		ws.hooks = h
	}
}

// WithLogger sets a structured logger for model events.
func WithLogger(logger *slog.Logger) Option {
	return func(ws *Workspace) {
		ws.logger = logger
	}
}

// New creates an empty workspace.
func New(opts ...Option) *Workspace {
	ws := &Workspace{
		blocks: make(map[string]*Block),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ws)
	}
	return ws
}

// Rendered reports whether a renderer is attached. This is the single
// capability flag every render-triggering operation checks.
func (ws *Workspace) Rendered() bool {
	return ws.renderer != nil
}

// NewBlock creates an empty block of the given type name and registers it in
// the arena.
func (ws *Workspace) NewBlock(typeName string) *Block {
	b := &Block{
		id:       uuid.NewString(),
		typeName: typeName,
		ws:       ws,
	}
	ws.blocks[b.id] = b
	ws.order = append(ws.order, b.id)
	ws.logger.Debug("block created", "block", b.id, "type", typeName)
	if h := ws.hooks.OnBlockCreate; h != nil {
		h(b)
	}
	return b
}

// Block looks up a block by ID.
func (ws *Workspace) Block(id string) (*Block, bool) {
	b, ok := ws.blocks[id]
	return b, ok
}

// Blocks returns all live blocks in creation order.
func (ws *Workspace) Blocks() []*Block {
	out := make([]*Block, 0, len(ws.blocks))
	for _, id := range ws.order {
		if b, ok := ws.blocks[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// TopBlocks returns blocks that are not connected to a parent, i.e. the roots
// of the workspace forest.
func (ws *Workspace) TopBlocks() []*Block {
	out := make([]*Block, 0)
	for _, b := range ws.Blocks() {
		if b.Parent() == nil {
			out = append(out, b)
		}
	}
	return out
}

// Dispose tears down every block in the arena. The workspace itself remains
// usable (empty) afterwards.
func (ws *Workspace) Dispose() {
	// Dispose top blocks first so children are unplugged through their parent.
	for _, b := range ws.TopBlocks() {
		b.Dispose()
	}
	for _, b := range ws.Blocks() {
		b.Dispose()
	}
}

// remove drops a block from the arena. Called by Block.Dispose.
func (ws *Workspace) remove(id string) {
	delete(ws.blocks, id)
	for i, v := range ws.order {
		if v == id {
			ws.order = append(ws.order[:i], ws.order[i+1:]...)
			break
		}
	}
}
