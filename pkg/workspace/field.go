package workspace

// Field is the capability contract every widget in an input's field row must
// satisfy. Concrete kinds (labels, text entry, dropdowns, ...) live outside
// the model; the model only drives their lifecycle.
type Field interface {
	// Name returns the field's identifier within its input, empty for
	// anonymous fields such as plain labels.
	Name() string

	// SetName assigns the identifier. Called by the row when a field is
	// inserted under an explicit name.
	SetName(name string)

	// SetSourceBlock binds the field to its host block. Called exactly once,
	// before Init.
	SetSourceBlock(b *Block)

	// Init materializes the widget against a rendered host. Never called for
	// headless blocks.
	Init()

	// SetVisible propagates the owning input's visibility flag.
	SetVisible(visible bool)

	// Dispose releases the widget. Called exactly once.
	Dispose()
}

// HasPrefixField is implemented by fields that require a companion field
// inserted immediately before them in the row.
type HasPrefixField interface {
	PrefixField() Field
}

// HasSuffixField is implemented by fields that require a companion field
// inserted immediately after them in the row.
type HasSuffixField interface {
	SuffixField() Field
}

// FieldBase carries the bookkeeping shared by every field implementation.
// Embed it and override what the widget needs. The zero value is visible,
// unnamed and unbound.
type FieldBase struct {
	name     string
	block    *Block
	hidden   bool
	disposed bool
}

// Name implements Field.
func (f *FieldBase) Name() string { return f.name }

// SetName implements Field.
func (f *FieldBase) SetName(name string) { f.name = name }

// SetSourceBlock implements Field.
func (f *FieldBase) SetSourceBlock(b *Block) { f.block = b }

// SourceBlock returns the host block, nil before binding or after disposal.
func (f *FieldBase) SourceBlock() *Block { return f.block }

// Init implements Field as a no-op; widget kinds with a rendered surface
// override it.
func (f *FieldBase) Init() {}

// SetVisible implements Field.
func (f *FieldBase) SetVisible(visible bool) { f.hidden = !visible }

// Visible reports the propagated visibility flag.
func (f *FieldBase) Visible() bool { return !f.hidden }

// Dispose implements Field.
func (f *FieldBase) Dispose() {
	f.block = nil
	f.disposed = true
}

// Disposed reports whether Dispose has run.
func (f *FieldBase) Disposed() bool { return f.disposed }

// Label is a read-only text field, the target of the string-shorthand append.
type Label struct {
	FieldBase
	text string
}

// NewLabel creates an anonymous read-only label.
func NewLabel(text string) *Label {
	return &Label{text: text}
}

// Text returns the label's content.
func (l *Label) Text() string { return l.text }

// SetText replaces the label's content.
func (l *Label) SetText(text string) { l.text = text }

var _ Field = (*Label)(nil)
