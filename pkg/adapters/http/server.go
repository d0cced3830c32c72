// Package http exposes workspaces over a REST/SSE surface. Routes are wired
// by hand on chi; the OpenAPI document ships embedded and is served verbatim
// at /openapi.yaml.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/tessella-io/tessella/internal/presentation/graph"
	"github.com/tessella-io/tessella/internal/registry"
	"github.com/tessella-io/tessella/pkg/blockdef"
	"github.com/tessella-io/tessella/pkg/ports"
	"github.com/tessella-io/tessella/pkg/workspace"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Version is stamped by the root package at wire-up time so /info can report
// it without an import cycle.
var Version = "dev"

// Server serves the workspace API on top of a registry.
type Server struct {
	Registry *registry.Registry
	Streams  *StreamManager
	Logger   *slog.Logger
}

// NewHandler creates the HTTP handler for the given registry.
func NewHandler(reg *registry.Registry, logger *slog.Logger) http.Handler {
	s := &Server{
		Registry: reg,
		Streams:  NewStreamManager(),
		Logger:   logger,
	}

	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	r.Get("/blocks", s.ListBlockTypes)
	r.Get("/blocks/{type}", s.GetBlockType)

	r.Get("/workspaces", s.ListWorkspaces)
	r.Delete("/workspaces/{name}", s.DeleteWorkspace)
	r.Get("/workspaces/{name}/blocks", s.ListBlocks)
	r.Post("/workspaces/{name}/blocks", s.CreateBlock)
	r.Delete("/workspaces/{name}/blocks/{id}", s.DeleteBlock)
	r.Post("/workspaces/{name}/connect", s.Connect)
	r.Post("/workspaces/{name}/disconnect", s.Disconnect)
	r.Post("/workspaces/{name}/visibility", s.SetVisibility)
	r.Post("/workspaces/{name}/fields", s.InsertField)
	r.Post("/workspaces/{name}/fields/remove", s.RemoveField)
	r.Post("/workspaces/{name}/check", s.SetCheck)
	r.Post("/workspaces/{name}/align", s.SetAlign)
	r.Get("/workspaces/{name}/graph", s.GetGraph)

	r.Get("/events", s.SubscribeEvents)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Tessella API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// event is the SSE payload for workspace mutations.
type event struct {
	Event     string `json:"event"`
	Workspace string `json:"workspace"`
	BlockID   string `json:"block_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Input     string `json:"input,omitempty"`
}

func (s *Server) broadcast(e event) {
	payload, err := json.Marshal(e)
	if err != nil {
		return
	}
	s.Streams.Broadcast(e.Workspace, string(payload))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	loader := openapi3.NewLoader()
	if doc, err := loader.LoadFromData(openapiSpec); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "tessella-http",
		"version":     strings.TrimSpace(Version),
		"api_version": apiVersion,
	})
}

// ListBlockTypes handles the GET /blocks request.
func (s *Server) ListBlockTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.Registry.Loader().List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": types})
}

// GetBlockType handles the GET /blocks/{type} request.
func (s *Server) GetBlockType(w http.ResponseWriter, r *http.Request) {
	def, err := s.Registry.Loader().Get(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// ListWorkspaces handles the GET /workspaces request.
func (s *Server) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": s.Registry.List()})
}

// DeleteWorkspace handles the DELETE /workspaces/{name} request.
func (s *Server) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Registry.Delete(r.Context(), name); err != nil {
		s.writeError(w, err)
		return
	}
	s.broadcast(event{Event: "workspace_deleted", Workspace: name})
	w.WriteHeader(http.StatusNoContent)
}

type blockSummary struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Parent string `json:"parent,omitempty"`
}

// ListBlocks handles the GET /workspaces/{name}/blocks request.
func (s *Server) ListBlocks(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var out []blockSummary
	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		for _, b := range ws.Blocks() {
			sum := blockSummary{ID: b.ID(), Type: b.Type()}
			if p := b.Parent(); p != nil {
				sum.Parent = p.ID()
			}
			out = append(out, sum)
		}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blocks": out})
}

// CreateBlock handles the POST /workspaces/{name}/blocks request.
func (s *Server) CreateBlock(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Type == "" {
		http.Error(w, "Missing block type", http.StatusBadRequest)
		return
	}

	id, err := s.Registry.CreateBlock(r.Context(), name, body.Type)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "block_created", Workspace: name, BlockID: id, Type: body.Type})
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// DeleteBlock handles the DELETE /workspaces/{name}/blocks/{id} request.
func (s *Server) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	id := chi.URLParam(r, "id")

	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		b, ok := ws.Block(id)
		if !ok {
			return fmt.Errorf("%w: %s", workspace.ErrBlockNotFound, id)
		}
		b.Dispose()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "block_disposed", Workspace: name, BlockID: id})
	w.WriteHeader(http.StatusNoContent)
}

// Connect handles the POST /workspaces/{name}/connect request.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Parent string `json:"parent"`
		Input  string `json:"input"`
		Child  string `json:"child"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		parentConn, childConn, err := resolveLink(ws, body.Parent, body.Input, body.Child)
		if err != nil {
			return err
		}
		return parentConn.Connect(childConn)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "connected", Workspace: name, BlockID: body.Parent, Input: body.Input})
	w.WriteHeader(http.StatusNoContent)
}

// Disconnect handles the POST /workspaces/{name}/disconnect request.
func (s *Server) Disconnect(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Parent string `json:"parent"`
		Input  string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		in, err := findInput(ws, body.Parent, body.Input)
		if err != nil {
			return err
		}
		conn := in.Connection()
		if conn == nil {
			return workspace.ErrNoConnection
		}
		return conn.Disconnect()
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "disconnected", Workspace: name, BlockID: body.Parent, Input: body.Input})
	w.WriteHeader(http.StatusNoContent)
}

// SetVisibility handles the POST /workspaces/{name}/visibility request.
func (s *Server) SetVisibility(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Block   string `json:"block"`
		Input   string `json:"input"`
		Visible bool   `json:"visible"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var render []string
	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		in, err := findInput(ws, body.Block, body.Input)
		if err != nil {
			return err
		}
		for _, b := range in.SetVisible(body.Visible) {
			render = append(render, b.ID())
		}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "visibility", Workspace: name, BlockID: body.Block, Input: body.Input})
	writeJSON(w, http.StatusOK, map[string]any{"render": render})
}

// InsertField handles the POST /workspaces/{name}/fields request. The field
// arrives in its declarative form; index -1 (or absent with omitted zero)
// means append.
func (s *Server) InsertField(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Block string            `json:"block"`
		Input string            `json:"input"`
		Field blockdef.FieldDef `json:"field"`
		At    *int              `json:"at,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var index int
	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		in, err := findInput(ws, body.Block, body.Input)
		if err != nil {
			return err
		}
		field, err := blockdef.NewField(body.Field)
		if err != nil {
			return err
		}
		if body.At != nil {
			index, err = in.InsertFieldAt(*body.At, field)
		} else {
			index, err = in.AppendField(field)
		}
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "field_inserted", Workspace: name, BlockID: body.Block, Input: body.Input})
	writeJSON(w, http.StatusCreated, map[string]int{"index": index})
}

// RemoveField handles the POST /workspaces/{name}/fields/remove request.
func (s *Server) RemoveField(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Block string `json:"block"`
		Input string `json:"input"`
		Field string `json:"field"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		in, err := findInput(ws, body.Block, body.Input)
		if err != nil {
			return err
		}
		return in.RemoveField(body.Field)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "field_removed", Workspace: name, BlockID: body.Block, Input: body.Input})
	w.WriteHeader(http.StatusNoContent)
}

// SetCheck handles the POST /workspaces/{name}/check request, replacing the
// compatibility list on an input's connection.
func (s *Server) SetCheck(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Block string   `json:"block"`
		Input string   `json:"input"`
		Check []string `json:"check"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		in, err := findInput(ws, body.Block, body.Input)
		if err != nil {
			return err
		}
		_, err = in.SetCheck(body.Check)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "check_changed", Workspace: name, BlockID: body.Block, Input: body.Input})
	w.WriteHeader(http.StatusNoContent)
}

// SetAlign handles the POST /workspaces/{name}/align request.
func (s *Server) SetAlign(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body struct {
		Block string `json:"block"`
		Input string `json:"input"`
		Align string `json:"align"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	align := workspace.Align(body.Align)
	switch align {
	case workspace.AlignLeft, workspace.AlignCentre, workspace.AlignRight:
	default:
		http.Error(w, "Unknown alignment", http.StatusBadRequest)
		return
	}

	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		in, err := findInput(ws, body.Block, body.Input)
		if err != nil {
			return err
		}
		in.SetAlign(align)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.broadcast(event{Event: "align_changed", Workspace: name, BlockID: body.Block, Input: body.Input})
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles the GET /workspaces/{name}/graph request, answering
// Mermaid flowchart syntax.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var out string
	err := s.Registry.WithExisting(r.Context(), name, func(ws *workspace.Workspace) error {
		out = graph.GenerateMermaid(ws, nil)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.mermaid")
	fmt.Fprint(w, out)
}

// SubscribeEvents handles the GET /events request (SSE). With a workspace
// query parameter it streams that workspace's mutation events; without one it
// streams catalog hot-reload notifications, when the loader supports them.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	wsName := r.URL.Query().Get("workspace")

	// Catalog hot reload (no workspace)
	if wsName == "" {
		watchable, ok := s.Registry.Loader().(ports.Watchable)
		if !ok {
			http.Error(w, "Catalog does not support watching", http.StatusNotImplemented)
			return
		}
		events, err := watchable.Watch(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case typeName, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: reload\ndata: %s\n\n", typeName)
				flusher.Flush()
			}
		}
	}

	// Workspace mutation stream
	ch, cancel := s.Streams.Subscribe(wsName)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	// Parse 'watch' filter: comma-separated event names.
	var watchList []string
	if v := r.URL.Query().Get("watch"); v != "" {
		watchList = strings.Split(v, ",")
	}

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected", "workspace", wsName)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matchesWatch(msg string, watchList []string) bool {
	var e event
	if err := json.Unmarshal([]byte(msg), &e); err != nil {
		return true
	}
	for _, want := range watchList {
		if strings.TrimSpace(want) == e.Event {
			return true
		}
	}
	return false
}

// -- Helpers --

func findInput(ws *workspace.Workspace, blockID, inputName string) (*workspace.Input, error) {
	b, ok := ws.Block(blockID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", workspace.ErrBlockNotFound, blockID)
	}
	in, ok := b.Input(inputName)
	if !ok {
		return nil, fmt.Errorf("input %q: %w", inputName, workspace.ErrFieldNotFound)
	}
	return in, nil
}

// resolveLink picks the two endpoints of a parent-input to child link. Value
// inputs take the child's output plug, statement inputs its previous notch.
func resolveLink(ws *workspace.Workspace, parentID, inputName, childID string) (*workspace.Connection, *workspace.Connection, error) {
	in, err := findInput(ws, parentID, inputName)
	if err != nil {
		return nil, nil, err
	}
	parentConn := in.Connection()
	if parentConn == nil {
		return nil, nil, workspace.ErrNoConnection
	}

	child, ok := ws.Block(childID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", workspace.ErrBlockNotFound, childID)
	}

	var childConn *workspace.Connection
	if in.Kind() == workspace.KindValue {
		childConn = child.OutputConnection()
	} else {
		childConn = child.PreviousConnection()
	}
	if childConn == nil {
		return nil, nil, workspace.ErrNoConnection
	}
	return parentConn, childConn, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ports.ErrNotFound),
		errors.Is(err, registry.ErrWorkspaceNotFound),
		errors.Is(err, workspace.ErrBlockNotFound),
		errors.Is(err, workspace.ErrFieldNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workspace.ErrAlreadyConnected),
		errors.Is(err, workspace.ErrIncompatibleConnection):
		status = http.StatusConflict
	case errors.Is(err, workspace.ErrNoConnection),
		errors.Is(err, workspace.ErrSelfConnection),
		errors.Is(err, workspace.ErrIndexOutOfRange),
		errors.Is(err, workspace.ErrEmptyName),
		errors.Is(err, workspace.ErrDisposed),
		errors.Is(err, context.Canceled):
		status = http.StatusBadRequest
	}

	var aggr *blockdef.AggregateError
	if errors.As(err, &aggr) {
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "error", err)
	} else {
		s.Logger.Warn("request rejected", "error", err, "status", status)
	}
	http.Error(w, err.Error(), status)
}
