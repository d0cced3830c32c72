package workspace

import "fmt"

// InputKind distinguishes the three input flavours, fixed at construction.
type InputKind string

const (
	// KindValue holds a typed value socket and requires a name.
	KindValue InputKind = "value"
	// KindStatement holds a statement socket and requires a name.
	KindStatement InputKind = "statement"
	// KindDummy holds fields only; the name is optional.
	KindDummy InputKind = "dummy"
)

// Align positions an input's field row. Layout only, no structural effect.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCentre Align = "centre"
	AlignRight  Align = "right"
)

// Input is a labeled row of fields on a block, optionally ending in a typed
// connection to a child block. Inputs are created through the Block append
// methods and are unusable after Dispose.
type Input struct {
	kind  InputKind
	name  string
	owner string // block ID; cleared on disposal
	ws    *Workspace

	conn     *Connection
	fieldRow []Field
	align    Align
	visible  bool
	outline  Outline
}

// Kind returns the input's flavour.
func (in *Input) Kind() InputKind { return in.kind }

// Name returns the input's identifier within its block.
func (in *Input) Name() string { return in.name }

// Connection returns the input's socket, nil for dummy inputs and after
// disposal.
func (in *Input) Connection() *Connection { return in.conn }

// Align returns the current field-row alignment.
func (in *Input) Align() Align { return in.align }

// Visible reports the input's visibility flag.
func (in *Input) Visible() bool { return in.visible }

// Fields returns the field row in display order.
func (in *Input) Fields() []Field {
	out := make([]Field, len(in.fieldRow))
	copy(out, in.fieldRow)
	return out
}

// Block returns the owning block, nil after disposal.
func (in *Input) Block() *Block {
	if in.ws == nil {
		return nil
	}
	b, _ := in.ws.Block(in.owner)
	return b
}

// --- Field-row management ---

// AppendField inserts a field at the end of the row. Equivalent to
// InsertFieldAt(len(row), field, name...). A nil field with no name is a
// no-op that returns the row length unchanged.
func (in *Input) AppendField(field Field, name ...string) (int, error) {
	return in.InsertFieldAt(len(in.fieldRow), field, name...)
}

// AppendLabel inserts a read-only label built from text, the shorthand for
// the common static-text case.
func (in *Input) AppendLabel(text string, name ...string) (int, error) {
	return in.AppendField(NewLabel(text), name...)
}

// InsertFieldAt inserts a field at index, binding it to the owning block and
// initializing it immediately when the block is attached to a surface.
//
// Fields that declare a prefix or suffix companion expand into multiple row
// entries atomically, in strict prefix-field-suffix order. The returned index
// is the position immediately after the last field inserted, so positional
// insertions can be chained.
//
// When the owning block is rendered, insertion triggers a full re-render and
// a neighbour bump.
func (in *Input) InsertFieldAt(index int, field Field, name ...string) (int, error) {
	if in.ws == nil {
		return 0, ErrDisposed
	}
	if index < 0 || index > len(in.fieldRow) {
		return 0, fmt.Errorf("%w: index %d, row length %d", ErrIndexOutOfRange, index, len(in.fieldRow))
	}

	fieldName := ""
	if len(name) > 0 {
		fieldName = name[0]
	}
	if field == nil {
		if fieldName == "" {
			// Empty entry, nothing to insert.
			return index, nil
		}
		return 0, fmt.Errorf("%w: named %q", ErrNilField, fieldName)
	}

	b := in.Block()
	field.SetSourceBlock(b)
	if fieldName != "" {
		field.SetName(fieldName)
	}
	if b != nil && b.Rendered() {
		field.Init()
	}

	if p, ok := field.(HasPrefixField); ok {
		if prefix := p.PrefixField(); prefix != nil {
			var err error
			if index, err = in.InsertFieldAt(index, prefix); err != nil {
				return 0, err
			}
		}
	}

	row := make([]Field, 0, len(in.fieldRow)+1)
	row = append(row, in.fieldRow[:index]...)
	row = append(row, field)
	row = append(row, in.fieldRow[index:]...)
	in.fieldRow = row
	index++

	if s, ok := field.(HasSuffixField); ok {
		if suffix := s.SuffixField(); suffix != nil {
			var err error
			if index, err = in.InsertFieldAt(index, suffix); err != nil {
				return 0, err
			}
		}
	}

	if b != nil {
		if h := in.ws.hooks.OnFieldAdded; h != nil {
			h(b, in.name, field.Name())
		}
		if b.Rendered() {
			b.Render()
			b.BumpNeighbours()
		}
	}
	return index, nil
}

// RemoveField disposes and removes the first field matching name, in row
// order. Removing a name that does not exist is a caller error and returns
// ErrFieldNotFound; callers must know a field exists before removing it.
func (in *Input) RemoveField(name string) error {
	if in.ws == nil {
		return ErrDisposed
	}
	for i, f := range in.fieldRow {
		if f.Name() != name {
			continue
		}
		f.Dispose()
		in.fieldRow = append(in.fieldRow[:i], in.fieldRow[i+1:]...)
		if b := in.Block(); b != nil {
			if h := in.ws.hooks.OnFieldRemoved; h != nil {
				h(b, in.name, name)
			}
			if b.Rendered() {
				b.Render()
				b.BumpNeighbours()
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrFieldNotFound, name)
}

// --- Visibility cascade ---

// SetVisible updates the input's visibility flag, propagates it to every
// field in the row, and cascades through the connection into the linked
// subtree. On becoming visible it returns the blocks that must be
// re-rendered; on becoming hidden (or when nothing changed) it returns nil.
//
// The cascade is top-down: this input's fields are updated before any nested
// child's. A hidden child block is marked no-longer-rendered so a later
// re-show re-initializes it instead of trusting stale render state.
func (in *Input) SetVisible(visible bool) []*Block {
	if in.visible == visible {
		return nil
	}
	in.visible = visible

	for _, f := range in.fieldRow {
		f.SetVisible(visible)
	}

	if in.conn == nil {
		return nil
	}

	var renderList []*Block
	if visible {
		renderList = in.conn.UnhideAll()
	} else {
		in.conn.HideAll()
	}
	if child := in.conn.TargetBlock(); child != nil {
		child.setDisplayed(visible)
		if !visible {
			child.rendered = false
		}
	}
	return renderList
}

// --- Connection configuration ---

// SetCheck replaces the connection's accepted-type set, returning the input
// for chaining. Fails with ErrNoConnection on a connectionless input.
func (in *Input) SetCheck(check []string) (*Input, error) {
	if in.conn == nil {
		return nil, fmt.Errorf("input %q: %w", in.name, ErrNoConnection)
	}
	in.conn.SetCheck(check)
	return in, nil
}

// SetAlign stores the field-row alignment, re-rendering when attached to a
// surface. Alignment changes layout, not shape, so neighbours are not bumped.
func (in *Input) SetAlign(align Align) *Input {
	in.align = align
	if b := in.Block(); b != nil && b.Rendered() {
		b.Render()
	}
	return in
}

// --- Initialization and teardown ---

// Init materializes every field in the row, in row order. No-op for headless
// blocks, which need no widget materialization.
func (in *Input) Init() {
	b := in.Block()
	if b == nil || !b.Rendered() {
		return
	}
	for _, f := range in.fieldRow {
		f.Init()
	}
}

// InitOutline lazily creates the unfilled-socket placeholder under the given
// render root. Only value inputs on rendered blocks ever receive one;
// repeated calls are no-ops.
func (in *Input) InitOutline(root RenderRoot) {
	if in.kind != KindValue || in.outline != nil {
		return
	}
	b := in.Block()
	if b == nil || !b.Rendered() || in.ws.renderer == nil {
		return
	}
	in.outline = in.ws.renderer.CreateOutline(root)
	in.updateOutline()
}

// updateOutline shows the placeholder only while the connection is unfilled.
func (in *Input) updateOutline() {
	if in.outline == nil {
		return
	}
	unfilled := in.conn != nil && !in.conn.IsConnected()
	in.outline.SetHidden(!unfilled)
}

// Dispose tears the input down: outline, fields in row order, then the
// connection, then the owner reference. Idempotent; any operation after
// disposal fails rather than silently succeeding on stale state.
func (in *Input) Dispose() {
	if in.ws == nil {
		return
	}
	if in.outline != nil {
		in.outline.Dispose()
		in.outline = nil
	}
	for _, f := range in.fieldRow {
		f.Dispose()
	}
	in.fieldRow = nil
	if in.conn != nil {
		in.conn.Dispose()
		in.conn = nil
	}
	in.owner = ""
	in.ws = nil
}
