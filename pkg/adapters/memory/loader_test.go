package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessella-io/tessella/pkg/adapters/memory"
	"github.com/tessella-io/tessella/pkg/blockdef"
	contract "github.com/tessella-io/tessella/pkg/ports/tests"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	sources := map[string]string{
		"math_number": "type: math_number\noutput: {check: [Number]}\n",
		"text_print":  "type: text_print\nprevious: {}\nnext: {}\n",
	}

	expected := make(map[string]*blockdef.Definition, len(sources))
	for name, src := range sources {
		def, err := blockdef.Parse([]byte(src))
		require.NoError(t, err)
		expected[name] = def
	}

	loader, err := memory.NewLoader(sources)
	require.NoError(t, err)

	contract.DefinitionLoaderContractTest(t, loader, expected)
}

func TestNewLoader_RejectsBadSource(t *testing.T) {
	_, err := memory.NewLoader(map[string]string{
		"broken": "inputs:\n  - kind: value\n",
	})
	require.Error(t, err, "missing type and missing input name")
}

func TestNewFromDefinitions(t *testing.T) {
	loader, err := memory.NewFromDefinitions(
		&blockdef.Definition{Type: "logic_boolean", Output: &blockdef.SocketDef{Check: []string{"Boolean"}}},
	)
	require.NoError(t, err)

	def, err := loader.Get(context.Background(), "logic_boolean")
	require.NoError(t, err)
	assert.Equal(t, []string{"Boolean"}, def.Output.Check)

	_, err = memory.NewFromDefinitions(&blockdef.Definition{})
	assert.Error(t, err)
}

func TestPut_ReplacesDefinition(t *testing.T) {
	loader, err := memory.NewFromDefinitions(
		&blockdef.Definition{Type: "math_number"},
	)
	require.NoError(t, err)

	require.NoError(t, loader.Put(&blockdef.Definition{
		Type:   "math_number",
		Output: &blockdef.SocketDef{Check: []string{"Number"}},
	}))

	def, err := loader.Get(context.Background(), "math_number")
	require.NoError(t, err)
	require.NotNil(t, def.Output)

	assert.Error(t, loader.Put(&blockdef.Definition{}), "unnamed definitions rejected")
}
