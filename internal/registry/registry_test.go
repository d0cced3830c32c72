package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessella-io/tessella/pkg/adapters/memory"
	"github.com/tessella-io/tessella/pkg/ports"
	"github.com/tessella-io/tessella/pkg/workspace"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	loader, err := memory.NewLoader(map[string]string{
		"math_number": "type: math_number\noutput: {check: [Number]}\n",
	})
	require.NoError(t, err)
	return New(loader)
}

func TestWithWorkspace_CreatesOnFirstUse(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	var first, second *workspace.Workspace
	require.NoError(t, r.WithWorkspace(ctx, "main", func(ws *workspace.Workspace) error {
		first = ws
		return nil
	}))
	require.NoError(t, r.WithWorkspace(ctx, "main", func(ws *workspace.Workspace) error {
		second = ws
		return nil
	}))

	assert.Same(t, first, second, "same name resolves to the same workspace")
	assert.Equal(t, []string{"main"}, r.List())
}

func TestCreateBlock(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	id, err := r.CreateBlock(ctx, "main", "math_number")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, r.WithExisting(ctx, "main", func(ws *workspace.Workspace) error {
		b, ok := ws.Block(id)
		require.True(t, ok)
		assert.Equal(t, "math_number", b.Type())
		assert.NotNil(t, b.OutputConnection())
		return nil
	}))
}

func TestCreateBlock_UnknownType(t *testing.T) {
	r := newRegistry(t)

	_, err := r.CreateBlock(context.Background(), "main", "no_such_type")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.Empty(t, r.List(), "no workspace created for a failed load")
}

func TestDelete(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	_, err := r.CreateBlock(ctx, "main", "math_number")
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, "main"))
	assert.Empty(t, r.List())

	err = r.WithExisting(ctx, "main", func(*workspace.Workspace) error { return nil })
	assert.ErrorIs(t, err, ErrWorkspaceNotFound)

	assert.ErrorIs(t, r.Delete(ctx, "main"), ErrWorkspaceNotFound)
}

func TestWithWorkspace_SerializesAccess(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := r.CreateBlock(ctx, "shared", "math_number")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.NoError(t, r.WithExisting(ctx, "shared", func(ws *workspace.Workspace) error {
		assert.Len(t, ws.Blocks(), n)
		return nil
	}))
}

func TestWithWorkspace_RespectsContext(t *testing.T) {
	r := newRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.WithWorkspace(ctx, "main", func(*workspace.Workspace) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
