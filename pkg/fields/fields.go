// Package fields provides the built-in widget kinds that can live in an
// input's field row: free text entry, numbers with an optional unit suffix,
// dropdown choices and checkboxes. Each kind satisfies the workspace.Field
// contract; the model drives their lifecycle and never inspects their values.
package fields

import (
	"fmt"
	"strconv"

	"github.com/tessella-io/tessella/pkg/workspace"
)

// Text is a single-line free text entry.
type Text struct {
	workspace.FieldBase
	value string
}

// NewText creates a text field with an initial value.
func NewText(name, value string) *Text {
	f := &Text{value: value}
	f.SetName(name)
	return f
}

// Value returns the current text.
func (f *Text) Value() string { return f.value }

// SetValue replaces the current text.
func (f *Text) SetValue(value string) { f.value = value }

// Number is a numeric entry. When constructed with a unit it declares a label
// suffix, so inserting it expands into two row entries atomically.
type Number struct {
	workspace.FieldBase
	value  float64
	suffix workspace.Field
}

// NewNumber creates a numeric field.
func NewNumber(name string, value float64) *Number {
	f := &Number{value: value}
	f.SetName(name)
	return f
}

// NewNumberWithUnit creates a numeric field followed by a read-only unit
// label (e.g. "ms", "px").
func NewNumberWithUnit(name string, value float64, unit string) *Number {
	f := NewNumber(name, value)
	f.suffix = workspace.NewLabel(unit)
	return f
}

// Value returns the current number.
func (f *Number) Value() float64 { return f.value }

// SetValue replaces the current number.
func (f *Number) SetValue(value float64) { f.value = value }

// SuffixField declares the unit label, nil when constructed without one.
func (f *Number) SuffixField() workspace.Field { return f.suffix }

// String renders the value the way the widget would display it.
func (f *Number) String() string {
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

// Option is one dropdown entry: a display label and the value it stands for.
type Option struct {
	Label string
	Value string
}

// Dropdown is a fixed-choice selector.
type Dropdown struct {
	workspace.FieldBase
	options  []Option
	selected int
}

// NewDropdown creates a dropdown over the given options; the first option is
// selected initially.
func NewDropdown(name string, options ...Option) *Dropdown {
	f := &Dropdown{options: options}
	f.SetName(name)
	return f
}

// Options returns the selectable entries.
func (f *Dropdown) Options() []Option {
	out := make([]Option, len(f.options))
	copy(out, f.options)
	return out
}

// Value returns the selected option's value, empty when there are no options.
func (f *Dropdown) Value() string {
	if len(f.options) == 0 {
		return ""
	}
	return f.options[f.selected].Value
}

// Select picks the option with the given value.
func (f *Dropdown) Select(value string) error {
	for i, opt := range f.options {
		if opt.Value == value {
			f.selected = i
			return nil
		}
	}
	return fmt.Errorf("dropdown %q: no option with value %q", f.Name(), value)
}

// Checkbox is a boolean toggle.
type Checkbox struct {
	workspace.FieldBase
	checked bool
}

// NewCheckbox creates a checkbox field.
func NewCheckbox(name string, checked bool) *Checkbox {
	f := &Checkbox{checked: checked}
	f.SetName(name)
	return f
}

// Checked reports the toggle state.
func (f *Checkbox) Checked() bool { return f.checked }

// SetChecked sets the toggle state.
func (f *Checkbox) SetChecked(checked bool) { f.checked = checked }

var (
	_ workspace.Field          = (*Text)(nil)
	_ workspace.Field          = (*Number)(nil)
	_ workspace.HasSuffixField = (*Number)(nil)
	_ workspace.Field          = (*Dropdown)(nil)
	_ workspace.Field          = (*Checkbox)(nil)
)
