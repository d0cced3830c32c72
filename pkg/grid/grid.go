// Package grid implements the cosmetic dot/line tiling drawn under a
// workspace. It has no structural ties to the block model: it owns a repeating
// pattern tile plus up to two lines inside it, and recomputes their geometry
// when the surface scale changes.
package grid

import "math"

// Pattern is the renderer-owned repeating tile element.
type Pattern interface {
	// ID returns the surface identifier other elements reference the tile by.
	ID() string
	// SetSize resizes the tile.
	SetSize(width, height float64)
	// MoveTo repositions the tile origin.
	MoveTo(x, y float64)
}

// Line is one of the two stroke elements drawn inside the tile.
type Line interface {
	SetBounds(x1, y1, x2, y2 float64)
	SetStrokeWidth(width float64)
}

// Config carries the user-visible grid settings.
type Config struct {
	// Spacing between grid points, in px at scale 1.
	Spacing float64
	// Length of the drawn lines, in px at scale 1. Zero draws points into
	// degenerate (invisible) lines.
	Length float64
	// Snap makes dragged blocks settle onto grid points.
	Snap bool
}

// Grid positions and scales the tiling pattern under a workspace.
type Grid struct {
	pattern Pattern
	hLine   Line
	vLine   Line

	spacing float64
	length  float64
	snap    bool
	scale   float64

	redrawOnMove bool
}

// Option configures a Grid.
type Option func(*Grid)

// WithLines attaches the horizontal and vertical line elements. Either may be
// nil for grids drawn without lines.
func WithLines(horizontal, vertical Line) Option {
	return func(g *Grid) {
		g.hLine = horizontal
		g.vLine = vertical
	}
}

// WithRedrawOnMove forces a full Update on every MoveTo, for surfaces that do
// not notice attribute-only position changes.
func WithRedrawOnMove() Option {
	return func(g *Grid) {
		g.redrawOnMove = true
	}
}

// New creates a grid over the given pattern tile.
func New(pattern Pattern, cfg Config, opts ...Option) *Grid {
	g := &Grid{
		pattern: pattern,
		spacing: cfg.Spacing,
		length:  cfg.Length,
		snap:    cfg.Snap,
		scale:   1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Update recomputes the tile size and line geometry for the given surface
// scale. A computed tile size of zero is replaced by a 100x100 tile; some
// surfaces fail outright on zero-sized patterns.
func (g *Grid) Update(scale float64) {
	if g.pattern == nil {
		return
	}
	g.scale = scale

	size := g.spacing * scale
	if size == 0 {
		size = 100
	}
	g.pattern.SetSize(size, size)

	half := math.Floor(g.spacing/2) + 0.5
	start := half - g.length/2
	end := half + g.length/2
	half *= scale
	start *= scale
	end *= scale

	if g.hLine != nil {
		g.hLine.SetBounds(start, half, end, half)
		g.hLine.SetStrokeWidth(scale)
	}
	if g.vLine != nil {
		g.vLine.SetBounds(half, start, half, end)
		g.vLine.SetStrokeWidth(scale)
	}
}

// MoveTo repositions the tile origin, forcing a redraw when configured for
// surfaces that ignore attribute-only moves.
func (g *Grid) MoveTo(x, y float64) {
	if g.pattern == nil {
		return
	}
	g.pattern.MoveTo(x, y)
	if g.redrawOnMove {
		g.Update(g.scale)
	}
}

// ShouldSnap reports whether dragged blocks settle onto grid points.
func (g *Grid) ShouldSnap() bool { return g.snap }

// Spacing returns the configured point spacing.
func (g *Grid) Spacing() float64 { return g.spacing }

// PatternID returns the surface identifier of the tile, empty after disposal.
func (g *Grid) PatternID() string {
	if g.pattern == nil {
		return ""
	}
	return g.pattern.ID()
}

// Dispose releases the pattern and line references.
func (g *Grid) Dispose() {
	g.pattern = nil
	g.hLine = nil
	g.vLine = nil
}
