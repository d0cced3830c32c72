package blockdef

import (
	"fmt"

	"github.com/tessella-io/tessella/pkg/fields"
	"github.com/tessella-io/tessella/pkg/workspace"
)

// Build expands a validated definition into a live block in the given
// workspace. The block is created atomically from the caller's point of view:
// on any failure the partial block is disposed and an error returned.
func Build(ws *workspace.Workspace, def *Definition) (*workspace.Block, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	b := ws.NewBlock(def.Type)
	if err := build(b, def); err != nil {
		b.Dispose()
		return nil, fmt.Errorf("building %q: %w", def.Type, err)
	}
	return b, nil
}

func build(b *workspace.Block, def *Definition) error {
	if def.Output != nil {
		if err := b.SetOutput(true, def.Output.Check); err != nil {
			return err
		}
	}
	if def.Previous != nil {
		if err := b.SetPreviousStatement(true, def.Previous.Check); err != nil {
			return err
		}
	}
	if def.Next != nil {
		if err := b.SetNextStatement(true, def.Next.Check); err != nil {
			return err
		}
	}

	for _, id := range def.Inputs {
		in, err := buildInput(b, id)
		if err != nil {
			return err
		}
		for _, fd := range id.Fields {
			field, err := NewField(fd)
			if err != nil {
				return err
			}
			if _, err := in.AppendField(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func buildInput(b *workspace.Block, id InputDef) (*workspace.Input, error) {
	var in *workspace.Input
	var err error
	switch id.Kind {
	case KindValue:
		in, err = b.AppendValueInput(id.Name)
	case KindStatement:
		in, err = b.AppendStatementInput(id.Name)
	case KindDummy:
		if id.Name != "" {
			in = b.AppendDummyInput(id.Name)
		} else {
			in = b.AppendDummyInput()
		}
	default:
		return nil, fmt.Errorf("unknown input kind %q", id.Kind)
	}
	if err != nil {
		return nil, err
	}

	if len(id.Check) > 0 {
		if _, err := in.SetCheck(id.Check); err != nil {
			return nil, err
		}
	}
	switch id.Align {
	case "centre":
		in.SetAlign(workspace.AlignCentre)
	case "right":
		in.SetAlign(workspace.AlignRight)
	}
	return in, nil
}

// NewField constructs a live field from its declarative form. Adapters that
// edit rows on existing blocks use it directly.
func NewField(fd FieldDef) (workspace.Field, error) {
	switch fd.Kind {
	case FieldLabel:
		f := workspace.NewLabel(fd.Text)
		if fd.Name != "" {
			f.SetName(fd.Name)
		}
		return f, nil
	case FieldText:
		return fields.NewText(fd.Name, fd.Text), nil
	case FieldNumber:
		if fd.Unit != "" {
			return fields.NewNumberWithUnit(fd.Name, fd.Value, fd.Unit), nil
		}
		return fields.NewNumber(fd.Name, fd.Value), nil
	case FieldDropdown:
		opts := make([]fields.Option, len(fd.Options))
		for i, o := range fd.Options {
			opts[i] = fields.Option{Label: o.Label, Value: o.Value}
		}
		return fields.NewDropdown(fd.Name, opts...), nil
	case FieldCheckbox:
		return fields.NewCheckbox(fd.Name, fd.Checked), nil
	default:
		return nil, fmt.Errorf("unknown field kind %q", fd.Kind)
	}
}
