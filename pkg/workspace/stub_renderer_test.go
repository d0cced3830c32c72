package workspace

// stubRenderer records render traffic so tests can assert on side effects
// without a real surface.
type stubRenderer struct {
	renders   []string
	bumps     []string
	displayed map[string]bool
	outlines  []*stubOutline
}

func newStubRenderer() *stubRenderer {
	return &stubRenderer{displayed: make(map[string]bool)}
}

func (r *stubRenderer) CreateBlockRoot(b *Block) RenderRoot {
	r.displayed[b.ID()] = true
	return &stubRoot{}
}

func (r *stubRenderer) RenderBlock(b *Block) {
	r.renders = append(r.renders, b.ID())
}

func (r *stubRenderer) BumpNeighbours(b *Block) {
	r.bumps = append(r.bumps, b.ID())
}

func (r *stubRenderer) SetBlockDisplayed(b *Block, displayed bool) {
	r.displayed[b.ID()] = displayed
}

func (r *stubRenderer) CreateOutline(root RenderRoot) Outline {
	o := &stubOutline{hidden: true}
	r.outlines = append(r.outlines, o)
	return o
}

type stubRoot struct {
	disposed bool
}

func (r *stubRoot) Dispose() { r.disposed = true }

type stubOutline struct {
	hidden   bool
	disposed bool
}

func (o *stubOutline) SetHidden(hidden bool) { o.hidden = hidden }
func (o *stubOutline) Dispose()              { o.disposed = true }

// testField is a named field that can declare prefix/suffix companions.
type testField struct {
	FieldBase
	inits  int
	prefix Field
	suffix Field
}

func newTestField(name string) *testField {
	f := &testField{}
	f.SetName(name)
	return f
}

func (f *testField) Init() { f.inits++ }

func (f *testField) PrefixField() Field { return f.prefix }
func (f *testField) SuffixField() Field { return f.suffix }

var (
	_ Field          = (*testField)(nil)
	_ HasPrefixField = (*testField)(nil)
	_ HasSuffixField = (*testField)(nil)
)
