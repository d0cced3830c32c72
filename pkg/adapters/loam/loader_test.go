package loam

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessella-io/tessella/internal/testutils"
	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/ports/tests"
)

func saveDoc(t *testing.T, repo core.Repository, id, content string) {
	t.Helper()
	require.NoError(t, repo.Save(context.Background(), core.Document{ID: id, Content: content}))
}

func newLoader(t *testing.T) (core.Repository, *Loader) {
	t.Helper()
	_, repo := testutils.SetupTestRepo(t)
	typedRepo := loam.NewTypedRepository[DefinitionMetadata](repo)
	return repo, New(typedRepo)
}

func TestLoader_Contract(t *testing.T) {
	repo, loader := newLoader(t)

	saveDoc(t, repo, "math_number.md", `---
type: math_number
output:
  check: [Number]
inputs:
  - kind: dummy
    fields:
      - kind: number
        name: NUM
---
A single number.`)

	saveDoc(t, repo, "text_print.md", `---
type: text_print
previous: {}
next: {}
inputs:
  - kind: value
    name: TEXT
---
Prints its value.`)

	setupData := map[string]*blockdef.Definition{
		"math_number": {
			Type:   "math_number",
			Output: &blockdef.SocketDef{Check: []string{"Number"}},
			Inputs: []blockdef.InputDef{{Kind: blockdef.KindDummy}},
		},
		"text_print": {
			Type:     "text_print",
			Previous: &blockdef.SocketDef{},
			Next:     &blockdef.SocketDef{},
			Inputs:   []blockdef.InputDef{{Kind: blockdef.KindValue, Name: "TEXT"}},
		},
	}

	tests.DefinitionLoaderContractTest(t, loader, setupData)
}

func TestLoader_BodyBecomesHelp(t *testing.T) {
	repo, loader := newLoader(t)
	saveDoc(t, repo, "math_number.md", `---
type: math_number
output: {}
---
A single number.

Use it anywhere a Number is accepted.`)

	def, err := loader.Get(context.Background(), "math_number")
	require.NoError(t, err)
	assert.Contains(t, def.Help, "A single number.")
	assert.Contains(t, def.Help, "anywhere a Number is accepted")
}

func TestLoader_FilenameNamesType(t *testing.T) {
	repo, loader := newLoader(t)

	// No explicit type in the frontmatter; the filename carries it.
	saveDoc(t, repo, "logic_not.md", `---
output:
  check: [Boolean]
---
Negation.`)

	def, err := loader.Get(context.Background(), "logic_not")
	require.NoError(t, err)
	assert.Equal(t, "logic_not", def.Type)

	names, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"logic_not"}, names)
}

func TestLoader_List_DetectsCollisions(t *testing.T) {
	repo, loader := newLoader(t)

	saveDoc(t, repo, "a.md", "---\ntype: math_number\n---\n")
	saveDoc(t, repo, "b.md", "---\ntype: math_number\n---\n")

	_, err := loader.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision")
}

func TestLoader_RejectsInvalidDefinition(t *testing.T) {
	repo, loader := newLoader(t)

	saveDoc(t, repo, "broken.md", `---
inputs:
  - kind: value
---
`)

	_, err := loader.Get(context.Background(), "broken")
	require.Error(t, err)

	var aggr *blockdef.AggregateError
	assert.True(t, errors.As(err, &aggr), "validation failures surface as an aggregate")
}
