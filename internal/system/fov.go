package system

import (
	"github.com/zyedidia/generic/mapset"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

// octant transform matrices.
// For each octant, a (dx, dy) sweep pair maps to a world offset via:
//
//	worldX = cx + dx*xx + dy*xy
//	worldY = cy + dx*yx + dy*yy
var octants = [8][4]int{
	{1, 0, 0, 1},
	{0, 1, 1, 0},
	{0, -1, 1, 0},
	{-1, 0, 0, 1},
	{-1, 0, 0, -1},
	{0, -1, -1, 0},
	{0, 1, -1, 0},
	{1, 0, 0, -1},
}

// Opaque reports whether p blocks line of sight. Invisible walls stay
// see-through; other intact gimmick walls block like rock.
func (t *Terrain) Opaque(p gamemap.Position) bool {
	if !t.Grid.InBounds(p) {
		return true
	}
	if i, ok := t.WallAt(p); ok {
		w := t.Walls[i]
		return !w.Traversable() && w.Type != component.WallInvisible
	}
	return t.Grid.At(p) == gamemap.TileWall
}

// ComputeFOV runs recursive shadowcasting from origin and returns the lit
// tiles. The origin is always visible.
func ComputeFOV(t *Terrain, origin gamemap.Position, radius int) mapset.Set[gamemap.Position] {
	lit := mapset.New[gamemap.Position]()
	if !t.Grid.InBounds(origin) {
		return lit
	}
	lit.Put(origin)
	for _, m := range octants {
		castLight(t, lit, origin, 1, 1.0, 0.0, radius, m[0], m[1], m[2], m[3])
	}
	return lit
}

// castLight lights one octant. j is the row distance from the origin; dx
// sweeps the row from -j to 0 and slopes bound the unshadowed beam.
func castLight(t *Terrain, lit mapset.Set[gamemap.Position], origin gamemap.Position,
	row int, start, end float64, radius, xx, xy, yx, yy int) {
	if start < end {
		return
	}
	radiusSq := float64(radius * radius)
	newStart := start

	for j := row; j <= radius; j++ {
		dy := -j
		blocked := false

		for dx := -j; dx <= 0; dx++ {
			p := gamemap.Position{
				X: origin.X + dx*xx + dy*xy,
				Y: origin.Y + dx*yx + dy*yy,
			}
			lSlope := (float64(dx) - 0.5) / (float64(dy) + 0.5)
			rSlope := (float64(dx) + 0.5) / (float64(dy) - 0.5)

			if start < rSlope {
				continue
			}
			if end > lSlope {
				break
			}

			if float64(dx*dx+dy*dy) < radiusSq && t.Grid.InBounds(p) {
				lit.Put(p)
			}

			opaque := t.Opaque(p)
			if blocked {
				if opaque {
					newStart = rSlope
				} else {
					blocked = false
					start = newStart
				}
			} else if opaque && j < radius {
				blocked = true
				castLight(t, lit, origin, j+1, start, lSlope, radius, xx, xy, yx, yy)
				newStart = rSlope
			}
		}
		if blocked {
			break
		}
	}
}
