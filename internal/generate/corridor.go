package generate

import "ipne/internal/gamemap"

// carveCorridor digs an L-shaped tunnel between a and b, choosing at random
// whether the horizontal or the vertical leg comes first.
func carveCorridor(grid *gamemap.Grid, a, b gamemap.Position, cfg *MazeConfig) {
	w := max(1, cfg.CorridorWidth)
	if cfg.Rand.Intn(2) == 0 {
		carveH(grid, a.X, b.X, a.Y, w)
		carveV(grid, a.Y, b.Y, b.X, w)
	} else {
		carveV(grid, a.Y, b.Y, a.X, w)
		carveH(grid, a.X, b.X, b.Y, w)
	}
}

func carveH(grid *gamemap.Grid, x1, x2, y, w int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		carveBlock(grid, x, y, w)
	}
}

func carveV(grid *gamemap.Grid, y1, y2, x, w int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		carveBlock(grid, x, y, w)
	}
}

// carveBlock opens a w×w block anchored at (x, y), clipped to the interior so
// the border ring stays intact.
func carveBlock(grid *gamemap.Grid, x, y, w int) {
	for dy := range w {
		for dx := range w {
			p := gamemap.Position{X: x + dx, Y: y + dy}
			if grid.IsInterior(p) && grid.At(p) == gamemap.TileWall {
				grid.Set(p, gamemap.TileFloor)
			}
		}
	}
}
