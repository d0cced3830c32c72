package blockdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessella-io/tessella/pkg/fields"
	"github.com/tessella-io/tessella/pkg/workspace"
)

const controlsRepeat = `
type: controls_repeat
previous: {}
next: {}
inputs:
  - kind: value
    name: TIMES
    check: [Number]
    fields:
      - kind: label
        text: repeat
  - kind: statement
    name: DO
    fields:
      - kind: label
        text: do
`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(controlsRepeat))
	require.NoError(t, err)

	assert.Equal(t, "controls_repeat", def.Type)
	assert.Nil(t, def.Output)
	require.NotNil(t, def.Previous)
	require.NotNil(t, def.Next)
	require.Len(t, def.Inputs, 2)
	assert.Equal(t, []string{"Number"}, def.Inputs[0].Check)
	assert.Equal(t, "repeat", def.Inputs[0].Fields[0].Text)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("type: [unterminated"))
	assert.Error(t, err)
}

func TestDecode_WeaklyTyped(t *testing.T) {
	def, err := Decode(map[string]any{
		"type": "math_number",
		"output": map[string]any{
			"check": []any{"Number"},
		},
		"inputs": []any{
			map[string]any{
				"kind": "dummy",
				"fields": []any{
					map[string]any{"kind": "number", "name": "NUM", "value": 42},
				},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(42), def.Inputs[0].Fields[0].Value)
	assert.Equal(t, []string{"Number"}, def.Output.Check)
}

func TestValidate_AggregatesFailures(t *testing.T) {
	def := &Definition{
		Inputs: []InputDef{
			{Kind: "value"},                     // missing name
			{Kind: "socket", Name: "X"},         // unknown kind
			{Kind: "dummy", Check: []string{"a"}}, // check without a connection
			{Kind: "value", Name: "DUP"},
			{Kind: "value", Name: "DUP"},
			{Kind: "dummy", Fields: []FieldDef{
				{Kind: "dropdown", Name: "MODE"}, // no options
			}},
		},
	}

	err := def.Validate()
	require.Error(t, err)
	errs := ValidationErrors(err)
	assert.Len(t, errs, 6, "type missing plus five input problems")
}

func TestValidate_OutputExcludesPrevious(t *testing.T) {
	def := &Definition{
		Type:     "bad",
		Output:   &SocketDef{},
		Previous: &SocketDef{},
	}
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestBuild(t *testing.T) {
	def, err := Parse([]byte(controlsRepeat))
	require.NoError(t, err)

	ws := workspace.New()
	b, err := Build(ws, def)
	require.NoError(t, err)

	assert.Equal(t, "controls_repeat", b.Type())
	assert.Nil(t, b.OutputConnection())
	assert.NotNil(t, b.PreviousConnection())
	assert.NotNil(t, b.NextConnection())

	times, ok := b.Input("TIMES")
	require.True(t, ok)
	assert.Equal(t, workspace.KindValue, times.Kind())
	require.Len(t, times.Fields(), 1)

	// The input check restricts what can plug in.
	num := ws.NewBlock("n")
	require.NoError(t, num.SetOutput(true, []string{"String"}))
	err = times.Connection().Connect(num.OutputConnection())
	assert.ErrorIs(t, err, workspace.ErrIncompatibleConnection)
}

func TestBuild_FieldKinds(t *testing.T) {
	ws := workspace.New()
	def := &Definition{
		Type: "kitchen_sink",
		Inputs: []InputDef{
			{Kind: "dummy", Align: "right", Fields: []FieldDef{
				{Kind: "text", Name: "TITLE", Text: "untitled"},
				{Kind: "number", Name: "DELAY", Value: 250, Unit: "ms"},
				{Kind: "dropdown", Name: "MODE", Options: []OptionDef{
					{Label: "Add", Value: "ADD"},
				}},
				{Kind: "checkbox", Name: "ON", Checked: true},
			}},
		},
	}

	b, err := Build(ws, def)
	require.NoError(t, err)

	in := b.Inputs()[0]
	assert.Equal(t, workspace.AlignRight, in.Align())

	row := in.Fields()
	require.Len(t, row, 5, "the unit label rides along with the number")

	assert.IsType(t, (*fields.Text)(nil), row[0])
	assert.IsType(t, (*fields.Number)(nil), row[1])
	unit, ok := row[2].(*workspace.Label)
	require.True(t, ok)
	assert.Equal(t, "ms", unit.Text())
	assert.IsType(t, (*fields.Dropdown)(nil), row[3])
	assert.IsType(t, (*fields.Checkbox)(nil), row[4])
}

func TestBuild_RejectsInvalid(t *testing.T) {
	ws := workspace.New()
	_, err := Build(ws, &Definition{})
	require.Error(t, err)
	assert.Empty(t, ws.Blocks(), "nothing created for an invalid definition")
}
