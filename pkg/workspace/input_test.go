package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendInput_NameRules(t *testing.T) {
	ws := New()
	b := ws.NewBlock("controls_if")

	t.Run("value input requires a name", func(t *testing.T) {
		_, err := b.AppendValueInput("")
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("statement input requires a name", func(t *testing.T) {
		_, err := b.AppendStatementInput("")
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("dummy input name is optional", func(t *testing.T) {
		in := b.AppendDummyInput()
		require.NotNil(t, in)
		assert.Equal(t, KindDummy, in.Kind())
		assert.Empty(t, in.Name())
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		_, err := b.AppendValueInput("VALUE")
		require.NoError(t, err)
		_, err = b.AppendStatementInput("VALUE")
		assert.ErrorIs(t, err, ErrDuplicateInput)
	})
}

func TestInput_ConnectionByKind(t *testing.T) {
	ws := New()
	b := ws.NewBlock("math_arithmetic")

	value, err := b.AppendValueInput("A")
	require.NoError(t, err)
	require.NotNil(t, value.Connection())
	assert.Equal(t, ConnInputValue, value.Connection().Kind())

	stmt, err := b.AppendStatementInput("DO")
	require.NoError(t, err)
	require.NotNil(t, stmt.Connection())
	assert.Equal(t, ConnNextStatement, stmt.Connection().Kind())

	dummy := b.AppendDummyInput("LABELS")
	assert.Nil(t, dummy.Connection())
}

func TestInsertFieldAt_Ordering(t *testing.T) {
	ws := New()
	b := ws.NewBlock("text_join")
	in := b.AppendDummyInput()

	first := newTestField("FIRST")
	second := newTestField("SECOND")

	idx, err := in.InsertFieldAt(0, first)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	// Inserting at the same index shifts the earlier field right.
	idx, err = in.InsertFieldAt(0, second)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	row := in.Fields()
	require.Len(t, row, 2)
	assert.Equal(t, "SECOND", row[0].Name())
	assert.Equal(t, "FIRST", row[1].Name())
}

func TestInsertFieldAt_OutOfRange(t *testing.T) {
	ws := New()
	in := ws.NewBlock("b").AppendDummyInput()

	_, err := in.InsertFieldAt(-1, newTestField("X"))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = in.InsertFieldAt(1, newTestField("X"))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestInsertFieldAt_NilFieldNoName(t *testing.T) {
	ws := New()
	in := ws.NewBlock("b").AppendDummyInput()

	idx, err := in.AppendField(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Empty(t, in.Fields())

	_, err = in.AppendField(nil, "NAMED")
	assert.ErrorIs(t, err, ErrNilField)
}

func TestInsertFieldAt_PrefixSuffixExpansion(t *testing.T) {
	ws := New()
	in := ws.NewBlock("b").AppendDummyInput()

	_, err := in.AppendField(newTestField("A"))
	require.NoError(t, err)
	_, err = in.AppendField(newTestField("B"))
	require.NoError(t, err)

	f := newTestField("MID")
	f.prefix = NewLabel("(")
	f.suffix = NewLabel(")")

	idx, err := in.InsertFieldAt(1, f)
	require.NoError(t, err)
	assert.Equal(t, 4, idx, "returns index after the last inserted entry")

	row := in.Fields()
	require.Len(t, row, 5)
	assert.Equal(t, "A", row[0].Name())
	assert.Equal(t, "(", row[1].(*Label).Text())
	assert.Equal(t, "MID", row[2].Name())
	assert.Equal(t, ")", row[3].(*Label).Text())
	assert.Equal(t, "B", row[4].Name())
}

func TestAppendLabel_Shorthand(t *testing.T) {
	ws := New()
	in := ws.NewBlock("b").AppendDummyInput()

	idx, err := in.AppendLabel("repeat", "TITLE")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	row := in.Fields()
	require.Len(t, row, 1)
	label, ok := row[0].(*Label)
	require.True(t, ok)
	assert.Equal(t, "repeat", label.Text())
	assert.Equal(t, "TITLE", label.Name())
}

func TestRemoveField(t *testing.T) {
	ws := New()
	in := ws.NewBlock("b").AppendDummyInput()

	f := newTestField("UNIT")
	_, err := in.AppendField(f)
	require.NoError(t, err)

	require.NoError(t, in.RemoveField("UNIT"))
	assert.True(t, f.Disposed())
	assert.Empty(t, in.Fields())

	err = in.RemoveField("UNIT")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestInsertField_RenderSideEffects(t *testing.T) {
	r := newStubRenderer()
	ws := New(WithRenderer(r))
	b := ws.NewBlock("b")
	in := b.AppendDummyInput()
	require.NoError(t, b.InitRender())

	f := newTestField("F")
	_, err := in.AppendField(f)
	require.NoError(t, err)

	assert.Equal(t, 1, f.inits, "field initialized immediately on a rendered block")
	assert.Equal(t, []string{b.ID()}, r.renders)
	assert.Equal(t, []string{b.ID()}, r.bumps)

	require.NoError(t, in.RemoveField("F"))
	assert.Len(t, r.renders, 2)
	assert.Len(t, r.bumps, 2)
}

func TestInsertField_HeadlessIsLazy(t *testing.T) {
	ws := New()
	in := ws.NewBlock("b").AppendDummyInput()

	f := newTestField("F")
	_, err := in.AppendField(f)
	require.NoError(t, err)
	assert.Zero(t, f.inits, "headless blocks defer widget materialization")
}

func TestSetAlign_RendersWithoutBump(t *testing.T) {
	r := newStubRenderer()
	ws := New(WithRenderer(r))
	b := ws.NewBlock("b")
	in := b.AppendDummyInput()
	require.NoError(t, b.InitRender())

	got := in.SetAlign(AlignRight)
	assert.Same(t, in, got)
	assert.Equal(t, AlignRight, in.Align())
	assert.Equal(t, []string{b.ID()}, r.renders)
	assert.Empty(t, r.bumps, "alignment changes layout, not shape")
}

func TestSetCheck(t *testing.T) {
	ws := New()
	b := ws.NewBlock("b")

	t.Run("no connection", func(t *testing.T) {
		dummy := b.AppendDummyInput()
		_, err := dummy.SetCheck([]string{"Number"})
		assert.ErrorIs(t, err, ErrNoConnection)
	})

	t.Run("chaining and update", func(t *testing.T) {
		in, err := b.AppendValueInput("NUM")
		require.NoError(t, err)

		got, err := in.SetCheck([]string{"Number", "String"})
		require.NoError(t, err)
		assert.Same(t, in, got)
		assert.Equal(t, []string{"Number", "String"}, in.Connection().Check())

		got, err = in.SetCheck(nil)
		require.NoError(t, err)
		assert.Same(t, in, got)
		assert.Nil(t, in.Connection().Check(), "nil check accepts anything")
	})
}

func TestSetVisible_NoOpOnSameState(t *testing.T) {
	ws := New()
	in := ws.NewBlock("b").AppendDummyInput()

	assert.Nil(t, in.SetVisible(true), "already visible")
	assert.True(t, in.Visible())
}

func TestSetVisible_PropagatesToFields(t *testing.T) {
	ws := New()
	in := ws.NewBlock("b").AppendDummyInput()
	f := newTestField("F")
	_, err := in.AppendField(f)
	require.NoError(t, err)

	in.SetVisible(false)
	assert.False(t, f.Visible())

	in.SetVisible(true)
	assert.True(t, f.Visible())
}

// buildTree links parent.VALUE -> child, child.VALUE -> grandchild and
// returns all three blocks.
func buildTree(t *testing.T, ws *Workspace) (parent, child, grandchild *Block) {
	t.Helper()

	parent = ws.NewBlock("parent")
	pin, err := parent.AppendValueInput("VALUE")
	require.NoError(t, err)

	child = ws.NewBlock("child")
	require.NoError(t, child.SetOutput(true, nil))
	cin, err := child.AppendValueInput("VALUE")
	require.NoError(t, err)

	grandchild = ws.NewBlock("grandchild")
	require.NoError(t, grandchild.SetOutput(true, nil))

	require.NoError(t, pin.Connection().Connect(child.OutputConnection()))
	require.NoError(t, cin.Connection().Connect(grandchild.OutputConnection()))
	return parent, child, grandchild
}

func TestSetVisible_CascadeOverSubtree(t *testing.T) {
	r := newStubRenderer()
	ws := New(WithRenderer(r))
	parent, child, grandchild := buildTree(t, ws)
	for _, b := range []*Block{parent, child, grandchild} {
		require.NoError(t, b.InitRender())
	}

	in, ok := parent.Input("VALUE")
	require.True(t, ok)

	// Hide: empty render list, child display off, child marked unrendered.
	assert.Nil(t, in.SetVisible(false))
	assert.False(t, r.displayed[child.ID()])
	assert.False(t, child.Rendered())
	for _, c := range child.Connections() {
		assert.True(t, c.Hidden())
	}
	for _, c := range grandchild.Connections() {
		assert.True(t, c.Hidden())
	}

	// Show: display restored, hidden descendants returned for re-render.
	renderList := in.SetVisible(true)
	assert.True(t, r.displayed[child.ID()])
	require.Len(t, renderList, 1)
	assert.Same(t, grandchild, renderList[0], "deepest hidden block needs the redraw")
	assert.False(t, in.Connection().Hidden())
}

func TestSetVisible_LeafChildReturnsChild(t *testing.T) {
	ws := New()
	parent := ws.NewBlock("parent")
	pin, err := parent.AppendValueInput("VALUE")
	require.NoError(t, err)
	child := ws.NewBlock("child")
	require.NoError(t, child.SetOutput(true, nil))
	require.NoError(t, pin.Connection().Connect(child.OutputConnection()))

	pin.SetVisible(false)
	renderList := pin.SetVisible(true)
	require.Len(t, renderList, 1)
	assert.Same(t, child, renderList[0])
}

func TestDispose_Input(t *testing.T) {
	ws := New()
	b := ws.NewBlock("b")
	in, err := b.AppendValueInput("VALUE")
	require.NoError(t, err)
	f := newTestField("F")
	_, err = in.AppendField(f)
	require.NoError(t, err)
	conn := in.Connection()

	in.Dispose()

	assert.True(t, f.Disposed())
	assert.Empty(t, in.Fields())
	assert.Nil(t, in.Connection())
	assert.Nil(t, in.Block(), "owning-block reference cleared")
	assert.True(t, conn.disposed)

	// Further operations fail instead of succeeding on stale state.
	_, err = in.AppendField(newTestField("G"))
	assert.ErrorIs(t, err, ErrDisposed)
	assert.ErrorIs(t, in.RemoveField("F"), ErrDisposed)

	// Idempotent.
	in.Dispose()
}

func TestDispose_BlockTearsDownEverything(t *testing.T) {
	r := newStubRenderer()
	ws := New(WithRenderer(r))
	b := ws.NewBlock("b")
	_, err := b.AppendValueInput("VALUE")
	require.NoError(t, err)
	require.NoError(t, b.InitRender())
	root := b.Root().(*stubRoot)

	b.Dispose()

	assert.True(t, b.Disposed())
	assert.True(t, root.disposed)
	assert.Empty(t, b.Inputs())
	_, ok := ws.Block(b.ID())
	assert.False(t, ok, "removed from the arena")

	b.Dispose() // idempotent
}

func TestOutline_Lifecycle(t *testing.T) {
	r := newStubRenderer()
	ws := New(WithRenderer(r))
	b := ws.NewBlock("b")
	in, err := b.AppendValueInput("VALUE")
	require.NoError(t, err)
	dummy := b.AppendDummyInput()
	require.NoError(t, b.InitRender())

	require.Len(t, r.outlines, 1, "only value inputs receive an outline")
	outline := r.outlines[0]
	assert.False(t, outline.hidden, "unfilled socket shows its placeholder")

	// Idempotent re-init.
	in.InitOutline(b.Root())
	dummy.InitOutline(b.Root())
	assert.Len(t, r.outlines, 1)

	// Filling the socket hides the outline; unplugging shows it again.
	child := ws.NewBlock("child")
	require.NoError(t, child.SetOutput(true, nil))
	require.NoError(t, in.Connection().Connect(child.OutputConnection()))
	assert.True(t, outline.hidden)

	require.NoError(t, in.Connection().Disconnect())
	assert.False(t, outline.hidden)

	in.Dispose()
	assert.True(t, outline.disposed)
}
