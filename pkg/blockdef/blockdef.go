// Package blockdef describes block shapes declaratively. A Definition is the
// frontmatter/YAML form of a block: which top/bottom/output sockets it carries,
// its input rows and the fields inside them. Definitions are validated up
// front and then expanded into live blocks with Build.
package blockdef

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Input kinds accepted in definitions.
const (
	KindValue     = "value"
	KindStatement = "statement"
	KindDummy     = "dummy"
)

// Field kinds accepted in definitions.
const (
	FieldLabel    = "label"
	FieldText     = "text"
	FieldNumber   = "number"
	FieldDropdown = "dropdown"
	FieldCheckbox = "checkbox"
)

// Definition is the declarative shape of one block type.
// It uses "mapstructure" tags to match standard frontmatter/YAML keys.
type Definition struct {
	Type string `json:"type" mapstructure:"type"`

	// Sockets. A nil socket means the block does not carry that connection.
	Output   *SocketDef `json:"output" mapstructure:"output"`
	Previous *SocketDef `json:"previous" mapstructure:"previous"`
	Next     *SocketDef `json:"next" mapstructure:"next"`

	Inputs []InputDef `json:"inputs" mapstructure:"inputs"`

	// Help is display-only documentation; loaders that carry a document body
	// (markdown after the frontmatter) put it here.
	Help string `json:"help,omitempty" mapstructure:"help"`
}

// SocketDef enables one block-level connection, optionally type-restricted.
// An empty Check accepts any peer.
type SocketDef struct {
	Check []string `json:"check" mapstructure:"check"`
}

// InputDef is one input row.
type InputDef struct {
	Kind   string     `json:"kind" mapstructure:"kind"`
	Name   string     `json:"name" mapstructure:"name"`
	Check  []string   `json:"check" mapstructure:"check"`
	Align  string     `json:"align" mapstructure:"align"`
	Fields []FieldDef `json:"fields" mapstructure:"fields"`
}

// FieldDef is one field inside an input row. Which keys apply depends on Kind:
// labels use Text, numbers use Value and optionally Unit, dropdowns use
// Options, checkboxes use Checked.
type FieldDef struct {
	Kind    string      `json:"kind" mapstructure:"kind"`
	Name    string      `json:"name" mapstructure:"name"`
	Text    string      `json:"text" mapstructure:"text"`
	Value   float64     `json:"value" mapstructure:"value"`
	Unit    string      `json:"unit" mapstructure:"unit"`
	Options []OptionDef `json:"options" mapstructure:"options"`
	Checked bool        `json:"checked" mapstructure:"checked"`
}

// OptionDef is one dropdown choice.
type OptionDef struct {
	Label string `json:"label" mapstructure:"label"`
	Value string `json:"value" mapstructure:"value"`
}

// Parse decodes a YAML document into a validated Definition.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return Decode(raw)
}

// Decode converts already-unmarshalled frontmatter into a validated
// Definition. Loaders that hand us generic maps (frontmatter repositories,
// HTTP bodies) come through here.
func Decode(raw map[string]any) (*Definition, error) {
	var def Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition for structural problems. All failures found
// are aggregated into a single error.
func (d *Definition) Validate() error {
	var errs []error

	fail := func(key, reason string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: reason, Value: value})
	}

	if d.Type == "" {
		fail("type", "required", nil)
	}
	if d.Output != nil && d.Previous != nil {
		fail("output", "mutually exclusive with previous", nil)
	}

	seen := make(map[string]string)
	for i, in := range d.Inputs {
		path := fmt.Sprintf("inputs[%d]", i)

		switch in.Kind {
		case KindValue, KindStatement:
			if in.Name == "" {
				fail(path+".name", "required for "+in.Kind+" inputs", nil)
			}
		case KindDummy:
		case "":
			fail(path+".kind", "required", nil)
		default:
			fail(path+".kind", "unknown input kind", in.Kind)
		}

		if in.Name != "" {
			if prev, dup := seen[in.Name]; dup {
				fail(path+".name", "duplicates "+prev, in.Name)
			}
			seen[in.Name] = path
		}

		switch in.Align {
		case "", "left", "centre", "right":
		default:
			fail(path+".align", "unknown alignment", in.Align)
		}

		if len(in.Check) > 0 && in.Kind != KindValue && in.Kind != KindStatement {
			fail(path+".check", "only connection inputs carry checks", nil)
		}

		for j, f := range in.Fields {
			fpath := fmt.Sprintf("%s.fields[%d]", path, j)
			switch f.Kind {
			case FieldLabel:
			case FieldText, FieldNumber, FieldCheckbox:
				if f.Name == "" {
					fail(fpath+".name", "required for "+f.Kind+" fields", nil)
				}
			case FieldDropdown:
				if f.Name == "" {
					fail(fpath+".name", "required for dropdown fields", nil)
				}
				if len(f.Options) == 0 {
					fail(fpath+".options", "dropdowns need at least one option", nil)
				}
			case "":
				fail(fpath+".kind", "required", nil)
			default:
				fail(fpath+".kind", "unknown field kind", f.Kind)
			}
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
