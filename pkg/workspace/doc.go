/*
Package workspace implements the block composition model: an arena of blocks,
each owning a row of inputs, where every input carries an ordered field row and
at most one typed connection to a child block.

The model is deliberately headless. Drawing is delegated to a Renderer
collaborator injected into the Workspace; when no renderer is attached the same
model runs in headless mode and every render-triggering operation degrades to a
no-op. This keeps the mutation logic testable without a real surface.

# Ownership

Blocks are owned by the Workspace arena and addressed by stable string IDs.
Inputs and Connections hold ID-based back-references to their owning block
rather than direct ownership, which breaks the Block <-> Input <-> Connection
<-> child Block cycle: disposal always flows downward (Workspace -> Block ->
Input -> Connection/Field), never up.

# Concurrency

The model is single-threaded by design: all operations run to completion on the
caller's goroutine with no internal locking. Callers that share a Workspace
across goroutines must serialize access themselves (see internal/registry for
the lock discipline used by the server adapters).
*/
package workspace
