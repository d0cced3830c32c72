package workspace

import "fmt"

// Block is a unit of visual program structure. It owns an ordered collection
// of inputs and up to three block-level connections: an output (when the block
// produces a value), and previous/next statement connections (when the block
// participates in a statement stack).
type Block struct {
	id       string
	typeName string
	ws       *Workspace

	inputs []*Input

	output *Connection
	prev   *Connection
	next   *Connection

	root     RenderRoot
	rendered bool
	disposed bool
}

// ID returns the stable arena identifier of the block.
func (b *Block) ID() string { return b.id }

// Type returns the block's type name (the definition it was expanded from, or
// a free-form label for hand-built blocks).
func (b *Block) Type() string { return b.typeName }

// Workspace returns the owning arena.
func (b *Block) Workspace() *Workspace { return b.ws }

// Rendered reports whether the block is attached to a live rendering surface.
// Headless blocks and blocks hidden by a visibility cascade report false.
func (b *Block) Rendered() bool { return b.rendered }

// Root returns the block's root rendered element, or nil when headless.
func (b *Block) Root() RenderRoot { return b.root }

// Disposed reports whether the block has been torn down.
func (b *Block) Disposed() bool { return b.disposed }

// --- Input management ---

// AppendValueInput adds an input holding a typed value socket. The name is
// required and must be unique on the block.
func (b *Block) AppendValueInput(name string) (*Input, error) {
	return b.appendNamedInput(KindValue, name)
}

// AppendStatementInput adds an input holding a statement socket. The name is
// required and must be unique on the block.
func (b *Block) AppendStatementInput(name string) (*Input, error) {
	return b.appendNamedInput(KindStatement, name)
}

// AppendDummyInput adds a connectionless input used purely for field layout.
// The name is optional.
func (b *Block) AppendDummyInput(name ...string) *Input {
	n := ""
	if len(name) > 0 {
		n = name[0]
	}
	in, _ := b.appendInput(KindDummy, n)
	return in
}

func (b *Block) appendNamedInput(kind InputKind, name string) (*Input, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %s input on block %s", ErrEmptyName, kind, b.id)
	}
	return b.appendInput(kind, name)
}

func (b *Block) appendInput(kind InputKind, name string) (*Input, error) {
	if b.disposed {
		return nil, ErrDisposed
	}
	if name != "" {
		if _, ok := b.Input(name); ok {
			return nil, fmt.Errorf("%w: %q on block %s", ErrDuplicateInput, name, b.id)
		}
	}
	in := &Input{
		kind:    kind,
		name:    name,
		owner:   b.id,
		ws:      b.ws,
		align:   AlignLeft,
		visible: true,
	}
	switch kind {
	case KindValue:
		in.conn = b.newConnection(ConnInputValue, in)
	case KindStatement:
		in.conn = b.newConnection(ConnNextStatement, in)
	}
	b.inputs = append(b.inputs, in)
	return in, nil
}

// Input looks up an input by name. Unnamed dummy inputs are never matched.
func (b *Block) Input(name string) (*Input, bool) {
	if name == "" {
		return nil, false
	}
	for _, in := range b.inputs {
		if in.name == name {
			return in, true
		}
	}
	return nil, false
}

// Inputs returns the block's inputs in display order.
func (b *Block) Inputs() []*Input {
	out := make([]*Input, len(b.inputs))
	copy(out, b.inputs)
	return out
}

// RemoveInput disposes the named input and removes it from the block,
// re-rendering when attached to a surface.
func (b *Block) RemoveInput(name string) error {
	for i, in := range b.inputs {
		if in.name == name && name != "" {
			in.Dispose()
			b.inputs = append(b.inputs[:i], b.inputs[i+1:]...)
			if b.Rendered() {
				b.Render()
				b.BumpNeighbours()
			}
			return nil
		}
	}
	return fmt.Errorf("input %q: %w", name, ErrFieldNotFound)
}

// --- Block-level connections ---

// SetOutput adds or removes the output value connection. The connection must
// be unlinked before it can be removed.
func (b *Block) SetOutput(enabled bool, check []string) error {
	return b.setBlockConnection(&b.output, ConnOutputValue, enabled, check)
}

// SetPreviousStatement adds or removes the previous statement connection.
func (b *Block) SetPreviousStatement(enabled bool, check []string) error {
	return b.setBlockConnection(&b.prev, ConnPreviousStatement, enabled, check)
}

// SetNextStatement adds or removes the next statement connection.
func (b *Block) SetNextStatement(enabled bool, check []string) error {
	return b.setBlockConnection(&b.next, ConnNextStatement, enabled, check)
}

func (b *Block) setBlockConnection(slot **Connection, kind ConnectionKind, enabled bool, check []string) error {
	if b.disposed {
		return ErrDisposed
	}
	if enabled {
		if *slot == nil {
			*slot = b.newConnection(kind, nil)
		}
		(*slot).SetCheck(check)
		return nil
	}
	if *slot != nil {
		if (*slot).IsConnected() {
			return fmt.Errorf("%w: disconnect before removing the %s connection", ErrAlreadyConnected, kind)
		}
		(*slot).Dispose()
		*slot = nil
	}
	return nil
}

// OutputConnection returns the output value connection, or nil.
func (b *Block) OutputConnection() *Connection { return b.output }

// PreviousConnection returns the previous statement connection, or nil.
func (b *Block) PreviousConnection() *Connection { return b.prev }

// NextConnection returns the next statement connection, or nil.
func (b *Block) NextConnection() *Connection { return b.next }

// Connections returns every live connection owned by the block: output,
// previous, next, then input connections in display order.
func (b *Block) Connections() []*Connection {
	out := make([]*Connection, 0, 3+len(b.inputs))
	for _, c := range []*Connection{b.output, b.prev, b.next} {
		if c != nil {
			out = append(out, c)
		}
	}
	for _, in := range b.inputs {
		if in.conn != nil {
			out = append(out, in.conn)
		}
	}
	return out
}

// Parent returns the block this block is plugged into, or nil for top blocks.
func (b *Block) Parent() *Block {
	if b.output != nil {
		if p := b.output.TargetBlock(); p != nil {
			return p
		}
	}
	if b.prev != nil {
		if p := b.prev.TargetBlock(); p != nil {
			return p
		}
	}
	return nil
}

// Descendants returns the block and every block transitively reachable below
// it, through input connections and the next-statement chain, top-down.
func (b *Block) Descendants() []*Block {
	blocks := []*Block{b}
	for _, in := range b.inputs {
		if in.conn == nil {
			continue
		}
		if child := in.conn.TargetBlock(); child != nil {
			blocks = append(blocks, child.Descendants()...)
		}
	}
	if b.next != nil {
		if child := b.next.TargetBlock(); child != nil {
			blocks = append(blocks, child.Descendants()...)
		}
	}
	return blocks
}

// --- Rendering ---

// InitRender attaches the block to the workspace renderer, materializing its
// fields and value-input outlines. Idempotent; fails on a headless workspace.
func (b *Block) InitRender() error {
	if b.disposed {
		return ErrDisposed
	}
	if !b.ws.Rendered() {
		return ErrHeadless
	}
	if b.root != nil {
		b.rendered = true
		return nil
	}
	b.root = b.ws.renderer.CreateBlockRoot(b)
	b.rendered = true
	for _, in := range b.inputs {
		in.Init()
		in.InitOutline(b.root)
	}
	return nil
}

// Render triggers a full re-layout and redraw. A block hidden by a visibility
// cascade becomes rendered again when it reappears on a render list and is
// re-rendered.
func (b *Block) Render() {
	if b.disposed || b.ws == nil || !b.ws.Rendered() || b.root == nil {
		return
	}
	b.rendered = true
	b.ws.renderer.RenderBlock(b)
	if h := b.ws.hooks.OnBlockRender; h != nil {
		h(b)
	}
}

// BumpNeighbours notifies adjacent blocks that this block's shape changed.
func (b *Block) BumpNeighbours() {
	if b.disposed || b.ws == nil || !b.ws.Rendered() || b.root == nil {
		return
	}
	b.ws.renderer.BumpNeighbours(b)
	if h := b.ws.hooks.OnBumpNeighbours; h != nil {
		h(b)
	}
}

// setDisplayed flips the drawn surface's display state during a visibility
// cascade. Headless blocks ignore it.
func (b *Block) setDisplayed(displayed bool) {
	if b.ws == nil || !b.ws.Rendered() || b.root == nil {
		return
	}
	b.ws.renderer.SetBlockDisplayed(b, displayed)
}

// --- Teardown ---

// Dispose tears the block down exactly once: inputs first (releasing their
// fields and connections), then block-level connections, then the rendered
// root, and finally the arena registration. Idempotent.
func (b *Block) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true

	for _, in := range b.inputs {
		in.Dispose()
	}
	b.inputs = nil

	for _, c := range []*Connection{b.output, b.prev, b.next} {
		if c != nil {
			c.Dispose()
		}
	}
	b.output, b.prev, b.next = nil, nil, nil

	if b.root != nil {
		b.root.Dispose()
		b.root = nil
	}
	b.rendered = false

	if b.ws != nil {
		b.ws.remove(b.id)
		b.ws.logger.Debug("block disposed", "block", b.id, "type", b.typeName)
		if h := b.ws.hooks.OnBlockDispose; h != nil {
			h(b)
		}
	}
}
