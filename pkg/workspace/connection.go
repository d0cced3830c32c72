package workspace

import "fmt"

// ConnectionKind is the directional type of a socket. Value sockets pair an
// input-value (parent side) with an output-value (child side); statement
// sockets pair next (parent side) with previous (child side).
type ConnectionKind string

const (
	ConnInputValue        ConnectionKind = "input_value"
	ConnOutputValue       ConnectionKind = "output_value"
	ConnNextStatement     ConnectionKind = "next_statement"
	ConnPreviousStatement ConnectionKind = "previous_statement"
)

// opposite returns the kind a connection can link to.
func (k ConnectionKind) opposite() ConnectionKind {
	switch k {
	case ConnInputValue:
		return ConnOutputValue
	case ConnOutputValue:
		return ConnInputValue
	case ConnNextStatement:
		return ConnPreviousStatement
	case ConnPreviousStatement:
		return ConnNextStatement
	}
	return ""
}

// superior reports whether this kind is the parent side of a link.
func (k ConnectionKind) superior() bool {
	return k == ConnInputValue || k == ConnNextStatement
}

// Connection is a typed socket owned by exactly one input or block statement
// slot. Links are symmetric and each connection holds at most one.
type Connection struct {
	ws     *Workspace
	kind   ConnectionKind
	source string // owning block ID

	peer   *Connection
	check  []string // nil means "accepts anything"
	hidden bool

	// onLinkChanged lets the owning input react to link changes (outline
	// visibility). Nil for block-level connections.
	onLinkChanged func()

	disposed bool
}

// newConnection wires a socket to its owning block and, for input-owned
// sockets, the input's outline updater.
func (b *Block) newConnection(kind ConnectionKind, in *Input) *Connection {
	c := &Connection{
		ws:     b.ws,
		kind:   kind,
		source: b.id,
	}
	if in != nil {
		c.onLinkChanged = in.updateOutline
	}
	return c
}

// Kind returns the directional type of the socket.
func (c *Connection) Kind() ConnectionKind { return c.kind }

// Check returns the accepted type tags; nil accepts anything.
func (c *Connection) Check() []string {
	if c.check == nil {
		return nil
	}
	out := make([]string, len(c.check))
	copy(out, c.check)
	return out
}

// SourceBlock returns the block owning this socket.
func (c *Connection) SourceBlock() *Block {
	if c.ws == nil {
		return nil
	}
	b, _ := c.ws.Block(c.source)
	return b
}

// Target returns the linked connection, or nil.
func (c *Connection) Target() *Connection { return c.peer }

// TargetBlock returns the block on the other end of the link, or nil.
func (c *Connection) TargetBlock() *Block {
	if c.peer == nil {
		return nil
	}
	return c.peer.SourceBlock()
}

// IsConnected reports whether the socket is linked.
func (c *Connection) IsConnected() bool { return c.peer != nil }

// Hidden reports whether the socket is hidden by a visibility cascade.
func (c *Connection) Hidden() bool { return c.hidden }

// SetCheck replaces the accepted-type set. A nil check accepts anything. If
// the connection is currently linked and the new check rejects the link, the
// link is severed and the former child is left unplugged.
func (c *Connection) SetCheck(check []string) *Connection {
	if check == nil {
		c.check = nil
	} else {
		c.check = make([]string, len(check))
		copy(c.check, check)
	}
	if c.peer != nil && !c.CompatibleWith(c.peer) {
		child := c.inferiorSide().SourceBlock()
		_ = c.Disconnect()
		if child != nil {
			child.BumpNeighbours()
		}
	}
	return c
}

// CompatibleWith reports whether a link to other would be accepted: the kinds
// must be opposite and the check sets must intersect (nil matches anything).
func (c *Connection) CompatibleWith(other *Connection) bool {
	if other == nil {
		return false
	}
	if c.kind.opposite() != other.kind {
		return false
	}
	return checksIntersect(c.check, other.check)
}

func checksIntersect(a, b []string) bool {
	if a == nil || b == nil {
		return true
	}
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Connect links two sockets symmetrically. All preconditions are checked
// before either endpoint is mutated.
func (c *Connection) Connect(other *Connection) error {
	if other == nil {
		return fmt.Errorf("%w: nil target", ErrIncompatibleConnection)
	}
	if c.disposed || other.disposed {
		return ErrDisposed
	}
	if c.peer != nil || other.peer != nil {
		return ErrAlreadyConnected
	}
	if c.source == other.source {
		return ErrSelfConnection
	}
	if c.kind.opposite() != other.kind {
		return fmt.Errorf("%w: %s cannot attach to %s", ErrIncompatibleConnection, c.kind, other.kind)
	}
	if !checksIntersect(c.check, other.check) {
		return fmt.Errorf("%w: type checks do not intersect", ErrIncompatibleConnection)
	}

	c.peer = other
	other.peer = c
	c.notifyLinkChanged()
	other.notifyLinkChanged()

	sup, inf := c.orient(other)
	if c.ws != nil {
		c.ws.logger.Debug("connected",
			"parent", sup.source, "child", inf.source, "kind", sup.kind)
		if h := c.ws.hooks.OnConnect; h != nil {
			h(sup, inf)
		}
	}
	return nil
}

// Disconnect severs the link, leaving both endpoints unlinked.
func (c *Connection) Disconnect() error {
	if c.peer == nil {
		return ErrNotConnected
	}
	other := c.peer
	sup, inf := c.orient(other)

	c.peer = nil
	other.peer = nil
	c.notifyLinkChanged()
	other.notifyLinkChanged()

	if c.ws != nil {
		c.ws.logger.Debug("disconnected",
			"parent", sup.source, "child", inf.source, "kind", sup.kind)
		if h := c.ws.hooks.OnDisconnect; h != nil {
			h(sup, inf)
		}
	}
	return nil
}

// orient returns (superior, inferior) for a linked or linkable pair.
func (c *Connection) orient(other *Connection) (*Connection, *Connection) {
	if c.kind.superior() {
		return c, other
	}
	return other, c
}

// inferiorSide returns the child-side endpoint of the current link.
func (c *Connection) inferiorSide() *Connection {
	if c.kind.superior() {
		return c.peer
	}
	return c
}

func (c *Connection) notifyLinkChanged() {
	if c.onLinkChanged != nil {
		c.onLinkChanged()
	}
}

// HideAll hides this socket and every connection in the linked subtree. Used
// by the visibility cascade when a parent input is hidden.
func (c *Connection) HideAll() {
	c.hidden = true
	child := c.TargetBlock()
	if child == nil {
		return
	}
	for _, b := range child.Descendants() {
		for _, conn := range b.Connections() {
			conn.hidden = true
		}
	}
}

// UnhideAll reveals this socket and its linked subtree, returning the list of
// blocks that must be re-rendered. Only superior sockets descend; an inferior
// socket merely unhides itself.
func (c *Connection) UnhideAll() []*Block {
	c.hidden = false
	if !c.kind.superior() {
		return nil
	}
	child := c.TargetBlock()
	if child == nil {
		return nil
	}
	var renderList []*Block
	for _, conn := range child.Connections() {
		renderList = append(renderList, conn.UnhideAll()...)
	}
	if len(renderList) == 0 {
		// Leaf of the visible tree: the child itself needs a redraw.
		renderList = []*Block{child}
	}
	return renderList
}

// Dispose severs any link and retires the socket. Idempotent.
func (c *Connection) Dispose() {
	if c.disposed {
		return
	}
	if c.peer != nil {
		_ = c.Disconnect()
	}
	c.disposed = true
	c.onLinkChanged = nil
	c.ws = nil
}
