package render

import (
	"math"

	"github.com/unarmedpuppy/command-grid/engine/grid"
)

// Camera is the viewport into the isometric world. World space here is the
// continuous pixel space grid.TileToWorld projects into.
type Camera struct {
	X, Y    float64 // camera center, world coords
	Zoom    float64
	MinZoom float64
	MaxZoom float64
	ScreenW int
	ScreenH int
	Speed   float64 // pan speed, pixels per second
}

// NewCamera creates a camera with default settings.
func NewCamera(screenW, screenH int) *Camera {
	return &Camera{
		Zoom:    1.0,
		MinZoom: 0.5,
		MaxZoom: 3.0,
		ScreenW: screenW,
		ScreenH: screenH,
		Speed:   500,
	}
}

// Pan moves the camera by a screen-pixel delta.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets zoom level with clamping.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomAt zooms toward a screen point, keeping it stationary.
func (c *Camera) ZoomAt(delta float64, screenX, screenY int) {
	wx, wy := c.ScreenToWorld(screenX, screenY)
	c.SetZoom(c.Zoom + delta)
	wx2, wy2 := c.ScreenToWorld(screenX, screenY)
	c.X += wx - wx2
	c.Y += wy - wy2
}

// CenterOnCell centers the camera on a grid cell.
func (c *Camera) CenterOnCell(g grid.Grid, col, row int) {
	x, y := g.TileToWorld(col, row)
	c.X = x
	c.Y = y + float64(g.TileHeight)/2
}

// WorldToScreen converts a world position to screen pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	sx := (wx-c.X)*c.Zoom + float64(c.ScreenW)/2
	sy := (wy-c.Y)*c.Zoom + float64(c.ScreenH)/2
	return sx, sy
}

// ScreenToWorld converts screen pixels to a world position.
func (c *Camera) ScreenToWorld(sx, sy int) (float64, float64) {
	wx := (float64(sx)-float64(c.ScreenW)/2)/c.Zoom + c.X
	wy := (float64(sy)-float64(c.ScreenH)/2)/c.Zoom + c.Y
	return wx, wy
}
