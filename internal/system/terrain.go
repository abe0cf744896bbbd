// Package system holds the per-tick rules: enemy AI, combat, damage,
// pickups, regeneration, traps, gimmick walls and player movement. Every
// function takes value snapshots and returns new ones.
package system

import (
	"ipne/internal/component"
	"ipne/internal/gamemap"
)

// Terrain is the grid with gimmick walls overlaid. A gimmick wall decides
// passability of its tile regardless of the tile underneath.
type Terrain struct {
	Grid  *gamemap.Grid
	Walls []component.Wall
	index map[gamemap.Position]int
}

// NewTerrain indexes walls by position. walls is not copied.
func NewTerrain(grid *gamemap.Grid, walls []component.Wall) *Terrain {
	t := &Terrain{Grid: grid, Walls: walls, index: make(map[gamemap.Position]int, len(walls))}
	for i, w := range walls {
		t.index[w.Pos] = i
	}
	return t
}

// WallAt returns the index of the gimmick wall at p.
func (t *Terrain) WallAt(p gamemap.Position) (int, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[p]
	return i, ok
}

// Walkable reports whether an actor may stand on p.
func (t *Terrain) Walkable(p gamemap.Position) bool {
	if i, ok := t.WallAt(p); ok {
		return t.Grid.IsInterior(p) && t.Walls[i].Traversable()
	}
	return t.Grid.IsWalkable(p)
}

// WalkablePositions lists every walkable tile in row-major order.
func (t *Terrain) WalkablePositions() []gamemap.Position {
	var out []gamemap.Position
	for y := 0; y < t.Grid.Height; y++ {
		for x := 0; x < t.Grid.Width; x++ {
			if p := (gamemap.Position{X: x, Y: y}); t.Walkable(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// replaceWall returns a copy of walls with index i set to w.
func replaceWall(walls []component.Wall, i int, w component.Wall) []component.Wall {
	out := append([]component.Wall(nil), walls...)
	out[i] = w
	return out
}
