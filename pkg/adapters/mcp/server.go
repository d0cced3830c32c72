// Package mcp exposes the block catalog and workspace mutations as an MCP
// server, over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tessella-io/tessella/internal/presentation/graph"
	"github.com/tessella-io/tessella/internal/registry"
	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/workspace"
)

// Version mirrors the module version; stamped at wire-up time so tool
// metadata can report it without an import cycle.
var Version = "dev"

// CreateBlockResponse reports the identity of a newly expanded block.
type CreateBlockResponse struct {
	ID   string `json:"id" jsonschema_description:"Workspace-unique block ID"`
	Type string `json:"type" jsonschema_description:"Block type name"`
}

// VisibilityResponse lists the blocks a visibility change re-exposed.
type VisibilityResponse struct {
	Render []string `json:"render" jsonschema_description:"IDs of blocks that need re-rendering"`
}

// Server wraps the workspace registry and exposes it as an MCP Server.
type Server struct {
	registry  *registry.Registry
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(reg *registry.Registry) *Server {
	s := &Server{
		registry:  reg,
		mcpServer: server.NewMCPServer("tessella-mcp", strings.TrimSpace(Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_block_types
	s.mcpServer.AddTool(mcp.NewTool("list_block_types",
		mcp.WithDescription("List every block type available in the catalog."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		types, err := s.registry.Loader().List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(types)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_block_definition
	defTool := mcp.NewTool("get_block_definition",
		mcp.WithDescription("Fetch the full definition of one block type, including its help text."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Block type name")),
		mcp.WithOutputSchema[blockdef.Definition](),
	)
	s.mcpServer.AddTool(defTool, mcp.NewStructuredToolHandler(s.handleGetDefinition))

	// TOOL: create_block
	createTool := mcp.NewTool("create_block",
		mcp.WithDescription("Expand a catalog definition into a live block in the named workspace."),
		mcp.WithString("workspace", mcp.Required(), mcp.Description("Workspace name (created on first use)")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Block type name")),
		mcp.WithOutputSchema[CreateBlockResponse](),
	)
	s.mcpServer.AddTool(createTool, mcp.NewStructuredToolHandler(s.handleCreateBlock))

	// TOOL: connect_blocks
	connectTool := mcp.NewTool("connect_blocks",
		mcp.WithDescription("Plug a child block into a parent block's input socket."),
		mcp.WithString("workspace", mcp.Required(), mcp.Description("Workspace name")),
		mcp.WithString("parent", mcp.Required(), mcp.Description("Parent block ID")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Parent input name")),
		mcp.WithString("child", mcp.Required(), mcp.Description("Child block ID")),
	)
	s.mcpServer.AddTool(connectTool, s.handleConnect)

	// TOOL: set_input_visibility
	visTool := mcp.NewTool("set_input_visibility",
		mcp.WithDescription("Show or hide an input row, cascading over the attached subtree."),
		mcp.WithString("workspace", mcp.Required(), mcp.Description("Workspace name")),
		mcp.WithString("block", mcp.Required(), mcp.Description("Block ID")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input name")),
		mcp.WithBoolean("visible", mcp.Required(), mcp.Description("Target visibility")),
		mcp.WithOutputSchema[VisibilityResponse](),
	)
	s.mcpServer.AddTool(visTool, mcp.NewStructuredToolHandler(s.handleSetVisibility))

	// TOOL: get_workspace_graph
	s.mcpServer.AddTool(mcp.NewTool("get_workspace_graph",
		mcp.WithDescription("Render a workspace's block forest as Mermaid flowchart syntax."),
		mcp.WithString("workspace", mcp.Required(), mcp.Description("Workspace name")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		wsName := request.GetString("workspace", "")
		var out string
		err := s.registry.WithExisting(ctx, wsName, func(ws *workspace.Workspace) error {
			out = graph.GenerateMermaid(ws, nil)
			return nil
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
		}
		return mcp.NewToolResultText(out), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleGetDefinition(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (blockdef.Definition, error) {
	typeName, _ := args["type"].(string)

	def, err := s.registry.Loader().Get(ctx, typeName)
	if err != nil {
		return blockdef.Definition{}, fmt.Errorf("get failed: %w", err)
	}
	return *def, nil
}

func (s *Server) handleCreateBlock(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CreateBlockResponse, error) {
	wsName, _ := args["workspace"].(string)
	typeName, _ := args["type"].(string)

	id, err := s.registry.CreateBlock(ctx, wsName, typeName)
	if err != nil {
		return CreateBlockResponse{}, fmt.Errorf("create failed: %w", err)
	}
	return CreateBlockResponse{ID: id, Type: typeName}, nil
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wsName := request.GetString("workspace", "")
	parentID := request.GetString("parent", "")
	inputName := request.GetString("input", "")
	childID := request.GetString("child", "")

	err := s.registry.WithExisting(ctx, wsName, func(ws *workspace.Workspace) error {
		parent, ok := ws.Block(parentID)
		if !ok {
			return fmt.Errorf("%w: %s", workspace.ErrBlockNotFound, parentID)
		}
		in, ok := parent.Input(inputName)
		if !ok {
			return fmt.Errorf("input %q: %w", inputName, workspace.ErrFieldNotFound)
		}
		if in.Connection() == nil {
			return workspace.ErrNoConnection
		}

		child, ok := ws.Block(childID)
		if !ok {
			return fmt.Errorf("%w: %s", workspace.ErrBlockNotFound, childID)
		}
		childConn := child.OutputConnection()
		if in.Kind() == workspace.KindStatement {
			childConn = child.PreviousConnection()
		}
		if childConn == nil {
			return workspace.ErrNoConnection
		}
		return in.Connection().Connect(childConn)
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("connect failed: %v", err)), nil
	}
	return mcp.NewToolResultText("connected"), nil
}

func (s *Server) handleSetVisibility(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (VisibilityResponse, error) {
	wsName, _ := args["workspace"].(string)
	blockID, _ := args["block"].(string)
	inputName, _ := args["input"].(string)
	visible, _ := args["visible"].(bool)

	var render []string
	err := s.registry.WithExisting(ctx, wsName, func(ws *workspace.Workspace) error {
		b, ok := ws.Block(blockID)
		if !ok {
			return fmt.Errorf("%w: %s", workspace.ErrBlockNotFound, blockID)
		}
		in, ok := b.Input(inputName)
		if !ok {
			return fmt.Errorf("input %q: %w", inputName, workspace.ErrFieldNotFound)
		}
		for _, blk := range in.SetVisible(visible) {
			render = append(render, blk.ID())
		}
		return nil
	})
	if err != nil {
		return VisibilityResponse{}, fmt.Errorf("visibility failed: %w", err)
	}
	return VisibilityResponse{Render: render}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: tessella://catalog
	s.mcpServer.AddResource(mcp.NewResource("tessella://catalog", "Block Definition Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.registry.Loader().List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list catalog: %w", err)
		}
		defs := make([]*blockdef.Definition, 0, len(names))
		for _, name := range names {
			def, err := s.registry.Loader().Get(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", name, err)
			}
			defs = append(defs, def)
		}
		jsonBytes, _ := json.Marshal(defs)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tessella://catalog",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
