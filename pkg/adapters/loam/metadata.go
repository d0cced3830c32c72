package loam

import (
	"strings"

	"github.com/tessella-io/tessella/pkg/blockdef"
)

// DefinitionMetadata represents the frontmatter of a block definition
// document. It uses "mapstructure" tags (via the blockdef types) to match
// standard Frontmatter/YAML keys; the markdown body below the frontmatter
// becomes the definition's help text.
type DefinitionMetadata struct {
	Type     string              `json:"type" mapstructure:"type"`
	Output   *blockdef.SocketDef `json:"output" mapstructure:"output"`
	Previous *blockdef.SocketDef `json:"previous" mapstructure:"previous"`
	Next     *blockdef.SocketDef `json:"next" mapstructure:"next"`
	Inputs   []blockdef.InputDef `json:"inputs" mapstructure:"inputs"`
}

// toDefinition assembles the full definition from frontmatter plus document
// body. The document ID (filename) names the type when the frontmatter omits
// an explicit one.
func (m DefinitionMetadata) toDefinition(docID, content string) *blockdef.Definition {
	typeName := m.Type
	if typeName == "" {
		typeName = trimExtension(docID)
	}
	return &blockdef.Definition{
		Type:     typeName,
		Output:   m.Output,
		Previous: m.Previous,
		Next:     m.Next,
		Inputs:   m.Inputs,
		Help:     strings.TrimSpace(content),
	}
}
