package http

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

// The embedded document is served verbatim, so it has to stay a valid
// OpenAPI 3 spec.
func TestEmbeddedSpecIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	for _, path := range []string{
		"/health", "/info", "/blocks", "/workspaces",
		"/workspaces/{name}/blocks", "/workspaces/{name}/connect",
		"/workspaces/{name}/visibility", "/workspaces/{name}/graph",
		"/workspaces/{name}/fields", "/workspaces/{name}/fields/remove",
		"/workspaces/{name}/check", "/workspaces/{name}/align",
		"/events",
	} {
		require.NotNil(t, doc.Paths.Find(path), "spec missing %s", path)
	}
}
