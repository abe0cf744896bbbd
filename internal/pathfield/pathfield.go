// Package pathfield computes breadth-first distance fields over a grid and
// answers the reachability and shortest-path questions built on them.
package pathfield

import (
	"math/rand"

	"ipne/internal/gamemap"
)

// perimeterBand is how close to the map edge a spawn tile must lie.
const perimeterBand = 4

// DistanceMap maps each reachable tile to its BFS distance from the source.
// Unreachable tiles are absent.
type DistanceMap map[gamemap.Position]int

// Get returns the distance to p and whether p was reached.
func (d DistanceMap) Get(p gamemap.Position) (int, bool) {
	v, ok := d[p]
	return v, ok
}

// Distances runs a 4-connected BFS from start over walkable tiles.
// start itself is always present with distance 0 when it is in bounds.
func Distances(grid *gamemap.Grid, start gamemap.Position) DistanceMap {
	return DistancesFrom(grid, start)
}

// DistancesFrom is Distances with several sources at distance 0.
func DistancesFrom(grid *gamemap.Grid, sources ...gamemap.Position) DistanceMap {
	in := sources[:0:0]
	for _, s := range sources {
		if grid.InBounds(s) {
			in = append(in, s)
		}
	}
	return DistancesWith(grid.IsWalkable, in...)
}

// DistancesWith runs the BFS over any tile passable reports true for. The
// sources are always included.
func DistancesWith(passable func(gamemap.Position) bool, sources ...gamemap.Position) DistanceMap {
	dist := make(DistanceMap)
	queue := make([]gamemap.Position, 0, len(sources))
	for _, s := range sources {
		if _, seen := dist[s]; seen {
			continue
		}
		dist[s] = 0
		queue = append(queue, s)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range gamemap.Directions {
			n := cur.Step(d)
			if _, seen := dist[n]; seen || !passable(n) {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	return dist
}

// IsConnected reports whether b is reachable from a.
func IsConnected(grid *gamemap.Grid, a, b gamemap.Position) bool {
	_, ok := Distances(grid, a)[b]
	return ok
}

// FindPath returns one shortest path from start to goal, both inclusive, or
// nil when goal is unreachable. Walking back from goal, the first neighbor in
// gamemap.Directions order whose distance is one less is taken, so the result
// is deterministic but not the only shortest path.
func FindPath(grid *gamemap.Grid, start, goal gamemap.Position) []gamemap.Position {
	dist := Distances(grid, start)
	return PathFrom(dist, goal)
}

// PathFrom reconstructs a path to goal from an existing distance map.
func PathFrom(dist DistanceMap, goal gamemap.Position) []gamemap.Position {
	d, ok := dist[goal]
	if !ok {
		return nil
	}
	path := make([]gamemap.Position, d+1)
	path[d] = goal
	cur := goal
	for i := d - 1; i >= 0; i-- {
		for _, dir := range gamemap.Directions {
			n := cur.Step(dir)
			if nd, ok := dist[n]; ok && nd == i {
				cur = n
				break
			}
		}
		path[i] = cur
	}
	return path
}

// PlaceGoal returns the walkable tile farthest from start. Ties resolve to the
// first tile in row-major order.
func PlaceGoal(grid *gamemap.Grid, start gamemap.Position) gamemap.Position {
	dist := Distances(grid, start)
	best, bestD := start, -1
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			p := gamemap.Position{X: x, Y: y}
			if d, ok := dist[p]; ok && d > bestD {
				best, bestD = p, d
			}
		}
	}
	return best
}

// PlaceStart picks a spawn tile among room tiles lying within the perimeter
// band of the map. With no such tile it falls back to any room tile, then to
// a random point inside a room rectangle. width and height may be zero, in
// which case the extent is derived from the rooms. ok is false only when
// rooms is empty.
func PlaceStart(rooms []gamemap.Room, width, height int, rng *rand.Rand) (gamemap.Position, bool) {
	if len(rooms) == 0 {
		return gamemap.Position{}, false
	}
	if width <= 0 || height <= 0 {
		for _, r := range rooms {
			width = max(width, r.Rect.X2+2)
			height = max(height, r.Rect.Y2+2)
		}
	}

	var perimeter, all []gamemap.Position
	for _, r := range rooms {
		for _, p := range r.Tiles {
			all = append(all, p)
			edge := min(p.X, p.Y, width-1-p.X, height-1-p.Y)
			if edge <= perimeterBand {
				perimeter = append(perimeter, p)
			}
		}
	}
	if len(perimeter) > 0 {
		return perimeter[rng.Intn(len(perimeter))], true
	}
	if len(all) > 0 {
		return all[rng.Intn(len(all))], true
	}
	r := rooms[rng.Intn(len(rooms))].Rect
	return gamemap.Position{
		X: r.X1 + rng.Intn(max(1, r.Width())),
		Y: r.Y1 + rng.Intn(max(1, r.Height())),
	}, true
}
