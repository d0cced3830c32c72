package workspace

// Renderer is the drawing collaborator for a workspace. The model never draws
// anything itself; it reports shape and lifecycle changes through this port and
// the renderer owns every surface concern (geometry, styling, animation).
//
// A nil renderer means the workspace is headless: blocks exist as pure model
// objects and render-triggering operations are no-ops.
type Renderer interface {
	// CreateBlockRoot allocates the root element for a block that is being
	// attached to the surface.
	CreateBlockRoot(b *Block) RenderRoot

	// RenderBlock performs a full re-layout and redraw of the block.
	RenderBlock(b *Block)

	// BumpNeighbours notifies spatially adjacent blocks that the block's outer
	// shape changed so they can reposition.
	BumpNeighbours(b *Block)

	// SetBlockDisplayed toggles the display state of a block's drawn surface.
	// Used by the visibility cascade when a parent input hides or reveals its
	// subtree.
	SetBlockDisplayed(b *Block, displayed bool)

	// CreateOutline appends an unfilled-socket placeholder to the given render
	// root. The returned outline must start hidden.
	CreateOutline(root RenderRoot) Outline
}

// RenderRoot is the renderer-owned root element of a drawn block.
type RenderRoot interface {
	Dispose()
}

// Outline is the rendered placeholder shown while a value input's connection
// is unfilled.
type Outline interface {
	SetHidden(hidden bool)
	Dispose()
}
