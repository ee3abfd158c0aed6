package grid

import "math"

// Default isometric dimensions for the command grid.
const (
	DefaultSize = 32 // cells per side
	TileWidth   = 64 // pixel width of a tile diamond
	TileHeight  = 32 // pixel height of a tile diamond
)

// Cell is a discrete grid position in (column, row) form.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Point is a continuous world-space position.
type Point struct {
	X, Y float64
}

// Grid describes the square tile grid and its isometric projection.
// World-space coordinates are always derived from cells, never stored.
type Grid struct {
	Size       int
	TileWidth  int
	TileHeight int
}

// New returns a grid of the given size using the default tile dimensions.
func New(size int) Grid {
	if size <= 0 {
		size = DefaultSize
	}
	return Grid{Size: size, TileWidth: TileWidth, TileHeight: TileHeight}
}

// TileToWorld converts a cell to its world-space diamond center origin.
func (g Grid) TileToWorld(col, row int) (float64, float64) {
	hw := float64(g.TileWidth) / 2
	hh := float64(g.TileHeight) / 2
	return float64(col-row) * hw, float64(col+row) * hh
}

// WorldToTile converts a world position to the nearest cell, clamped into
// grid bounds. TileToWorld yields the diamond's top corner, so the inverse
// runs through the diamond center; points inside a cell's visible diamond
// map back to that cell. Rounding makes this many-to-one; callers must
// tolerate snapping.
func (g Grid) WorldToTile(x, y float64) Cell {
	hw := float64(g.TileWidth) / 2
	hh := float64(g.TileHeight) / 2
	u := x / hw
	v := y/hh - 1
	col := int(math.Round((u + v) / 2))
	row := int(math.Round((v - u) / 2))
	return g.Clamp(col, row)
}

// Clamp forces a (col, row) pair into [0, Size-1] on both axes.
func (g Grid) Clamp(col, row int) Cell {
	if col < 0 {
		col = 0
	}
	if col >= g.Size {
		col = g.Size - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.Size {
		row = g.Size - 1
	}
	return Cell{Col: col, Row: row}
}

// InBounds checks whether a cell lies inside the grid.
func (g Grid) InBounds(c Cell) bool {
	return c.Col >= 0 && c.Col < g.Size && c.Row >= 0 && c.Row < g.Size
}

// DiamondPoints returns the four corners of a cell's diamond footprint in
// world space, ordered top, right, bottom, left. Used for hit-testing and
// highlight rendering.
func (g Grid) DiamondPoints(col, row int) [4]Point {
	cx, cy := g.TileToWorld(col, row)
	hw := float64(g.TileWidth) / 2
	hh := float64(g.TileHeight) / 2
	return [4]Point{
		{X: cx, Y: cy},
		{X: cx + hw, Y: cy + hh},
		{X: cx, Y: cy + 2*hh},
		{X: cx - hw, Y: cy + hh},
	}
}

// CellContains reports whether a world point falls inside the diamond
// footprint of the given cell.
func (g Grid) CellContains(col, row int, x, y float64) bool {
	cx, cy := g.TileToWorld(col, row)
	hw := float64(g.TileWidth) / 2
	hh := float64(g.TileHeight) / 2
	dx := math.Abs(x-cx) / hw
	dy := math.Abs(y-(cy+hh)) / hh
	return dx+dy <= 1.0
}

// Depth computes the painter's-algorithm render depth for an entity at a
// cell. Entities further down-and-right always draw in front.
func Depth(base, col, row int) int {
	return base + col + row
}
