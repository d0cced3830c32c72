// Package graph renders a workspace forest as Mermaid flowchart syntax, for
// quick inspection in terminals and markdown viewers.
package graph

import (
	"fmt"
	"strings"

	"github.com/tessella-io/tessella/pkg/workspace"
)

// Overlay contains display state to visualize on the graph.
type Overlay struct {
	// HiddenBlocks are styled dimmed (collapsed subtrees).
	HiddenBlocks []string
	// FocusBlock is styled highlighted.
	FocusBlock string
}

// GenerateMermaid produces Mermaid flowchart syntax from the workspace.
// It applies semantic styling:
// - Value blocks (with an output): (Rounded)
// - Statement blocks (with a previous notch): [Rectangle]
// - Standalone hat blocks: ([Stadium])
// It also applies overlay styles (hidden/focus) if provided.
func GenerateMermaid(ws *workspace.Workspace, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, b := range ws.Blocks() {
		safeID := sanitizeMermaidID(b.ID())

		// Block shape based on role
		opener, closer := "([", "])"
		switch {
		case b.OutputConnection() != nil:
			opener, closer = "(", ")"
		case b.PreviousConnection() != nil:
			opener, closer = "[", "]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, b.Type(), closer))

		// Input edges, labeled with the input name
		for _, in := range b.Inputs() {
			conn := in.Connection()
			if conn == nil || !conn.IsConnected() {
				continue
			}
			child := conn.TargetBlock()
			arrow := "-->"
			if in.Name() != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", in.Name())
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, sanitizeMermaidID(child.ID())))
		}

		// Next-statement edge
		if next := b.NextConnection(); next != nil && next.IsConnected() {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(next.TargetBlock().ID())))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for contrast regardless of theme.
		sb.WriteString("    classDef hidden fill:#eceff1,stroke:#90a4ae,stroke-dasharray:3,color:#000;\n")
		sb.WriteString("    classDef focus fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.HiddenBlocks {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s hidden;\n", safeID))
			}
		}
		if overlay.FocusBlock != "" {
			sb.WriteString(fmt.Sprintf("    class %s focus;\n", sanitizeMermaidID(overlay.FocusBlock)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
