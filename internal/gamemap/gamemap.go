package gamemap

import "strings"

// Rect is an axis-aligned rectangle with inclusive edges.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Position {
	return Position{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// Width returns the number of columns covered by r.
func (r Rect) Width() int { return r.X2 - r.X1 + 1 }

// Height returns the number of rows covered by r.
func (r Rect) Height() int { return r.Y2 - r.Y1 + 1 }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// Room is a carved rectangle plus the floor tiles it actually contains.
type Room struct {
	Rect   Rect
	Center Position
	Tiles  []Position
}

// Grid holds the tile array for one level, indexed Tiles[y][x].
type Grid struct {
	Width, Height int
	Tiles         [][]Tile
}

// New creates a Grid filled with walls.
func New(width, height int) *Grid {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = TileWall
		}
	}
	return &Grid{Width: width, Height: height, Tiles: tiles}
}

// Parse builds a Grid from rows of glyphs ('#' wall, '.' floor, 'S' start,
// 'G' goal). Unknown glyphs become walls.
func Parse(rows ...string) *Grid {
	h := len(rows)
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	g := New(w, h)
	for y, r := range rows {
		for x, c := range r {
			switch c {
			case '.':
				g.Tiles[y][x] = TileFloor
			case 'S':
				g.Tiles[y][x] = TileStart
			case 'G':
				g.Tiles[y][x] = TileGoal
			}
		}
	}
	return g
}

// InBounds reports whether p is within the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// IsInterior reports whether p is inside the grid and not on the border ring.
func (g *Grid) IsInterior(p Position) bool {
	return p.X > 0 && p.X < g.Width-1 && p.Y > 0 && p.Y < g.Height-1
}

// At returns the tile at p. Out-of-bounds positions read as walls.
func (g *Grid) At(p Position) Tile {
	if !g.InBounds(p) {
		return TileWall
	}
	return g.Tiles[p.Y][p.X]
}

// Set replaces the tile at p. Out-of-bounds writes are ignored.
func (g *Grid) Set(p Position, t Tile) {
	if g.InBounds(p) {
		g.Tiles[p.Y][p.X] = t
	}
}

// IsWalkable returns true when p is in bounds and walkable.
func (g *Grid) IsWalkable(p Position) bool {
	return g.At(p).Walkable()
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{Width: g.Width, Height: g.Height, Tiles: make([][]Tile, g.Height)}
	for y := range g.Tiles {
		c.Tiles[y] = append([]Tile(nil), g.Tiles[y]...)
	}
	return c
}

// Find returns the first position (row-major) holding t.
func (g *Grid) Find(t Tile) (Position, bool) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Tiles[y][x] == t {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// Count returns the number of tiles equal to t.
func (g *Grid) Count(t Tile) int {
	n := 0
	for y := range g.Tiles {
		for _, c := range g.Tiles[y] {
			if c == t {
				n++
			}
		}
	}
	return n
}

// WalkablePositions lists every walkable tile in row-major order.
func (g *Grid) WalkablePositions() []Position {
	var out []Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Tiles[y][x].Walkable() {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// String renders the grid one glyph per tile, rows separated by newlines.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			b.WriteRune(g.Tiles[y][x].Rune())
		}
		if y < g.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
