package render

import "ipne/internal/gamemap"

// Camera translates between world coordinates and screen coordinates.
// World X is multiplied by 2 because emoji occupy 2 terminal columns.
type Camera struct {
	OffsetX    int
	OffsetY    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera centered on c.
func NewCamera(c gamemap.Position, viewW, viewH int) *Camera {
	cam := &Camera{ViewWidth: viewW, ViewHeight: viewH}
	cam.Center(c)
	return cam
}

// Center repositions the camera so that world position c is in the middle.
func (c *Camera) Center(p gamemap.Position) {
	// ViewWidth is in columns; each world tile is 2 columns wide.
	c.OffsetX = p.X - (c.ViewWidth/2)/2
	c.OffsetY = p.Y - c.ViewHeight/2
}

// WorldToScreen converts a world position to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(p gamemap.Position) (sx, sy int, visible bool) {
	sx = (p.X - c.OffsetX) * 2
	sy = p.Y - c.OffsetY
	visible = sx >= 0 && sx < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}

