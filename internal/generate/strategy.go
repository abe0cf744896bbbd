package generate

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"ipne/internal/component"
	"ipne/internal/gamemap"
	"ipne/internal/pathfield"
)

// Strategic pattern tuning.
const (
	maxTunnelDepth = 10
	trickMinHops   = 3
	trickMaxHops   = 10
	secretMinOff   = 2
	secretMaxOff   = 8
	trickPathBonus = 5
	narrowMaxSpan  = 2
)

// wallCandidate is one strategic placement: one or more tiles that receive
// the same wall type together.
type wallCandidate struct {
	tiles    []gamemap.Position
	score    int
	pattern  component.WallPattern
	wallType component.WallType
	// blocking candidates sit on floor and close it off, so solvability must
	// be rechecked when they are committed.
	blocking bool
}

// strategist scores wall candidates against the potential fields of a
// start/goal pair.
type strategist struct {
	grid      *gamemap.Grid // working copy; committed blocks are written as walls
	start     gamemap.Position
	goal      gamemap.Position
	fromStart pathfield.DistanceMap
	fromGoal  pathfield.DistanceMap
	path      []gamemap.Position
	onPath    mapset.Set[gamemap.Position]
	length    int
}

func newStrategist(grid *gamemap.Grid, start, goal gamemap.Position) *strategist {
	s := &strategist{
		grid:      grid.Clone(),
		start:     start,
		goal:      goal,
		fromStart: pathfield.Distances(grid, start),
		fromGoal:  pathfield.Distances(grid, goal),
		onPath:    mapset.New[gamemap.Position](),
	}
	s.path = pathfield.PathFrom(s.fromStart, goal)
	for _, p := range s.path {
		s.onPath.Put(p)
	}
	s.length = len(s.path) - 1
	return s
}

// place picks strategic walls pattern by pattern until limits or budget run out.
func (s *strategist) place(limits PatternLimits, budget int, blocked func(gamemap.Position) bool) []WallPlacement {
	if len(s.path) == 0 {
		return nil
	}
	var out []WallPlacement
	taken := mapset.New[gamemap.Position]()

	passes := []struct {
		limit int
		cands []wallCandidate
	}{
		{limits.ShortcutBlock, s.shortcutBlocks()},
		{limits.TrickWall, s.trickWalls()},
		{limits.SecretPassage, s.secretPassages()},
		{limits.CorridorBlock, s.corridorBlocks()},
	}
	for _, pass := range passes {
		accepted := 0
		for _, c := range pass.cands {
			if accepted >= pass.limit {
				break
			}
			if len(out)+len(c.tiles) > budget {
				continue
			}
			if !s.available(c, blocked, taken) {
				continue
			}
			if c.blocking && !s.commitBlock(c.tiles) {
				continue
			}
			for _, p := range c.tiles {
				out = append(out, WallPlacement{Pos: p, Type: c.wallType, Pattern: c.pattern})
				taken.Put(p)
			}
			accepted++
		}
	}
	return out
}

func (s *strategist) available(c wallCandidate, blocked func(gamemap.Position) bool, taken mapset.Set[gamemap.Position]) bool {
	for _, p := range c.tiles {
		if blocked(p) || taken.Has(p) {
			return false
		}
	}
	return true
}

// commitBlock writes the tiles as walls on the working grid if the level stays
// solvable, and reverts otherwise.
func (s *strategist) commitBlock(tiles []gamemap.Position) bool {
	prev := make([]gamemap.Tile, len(tiles))
	for i, p := range tiles {
		prev[i] = s.grid.At(p)
		s.grid.Set(p, gamemap.TileWall)
	}
	ok := s.solvable(tiles)
	if !ok {
		for i, p := range tiles {
			s.grid.Set(p, prev[i])
		}
	}
	return ok
}

// solvable reports whether start still reaches goal and every floor tile next
// to the blocked tiles, so a block never strands part of the level.
func (s *strategist) solvable(blockedTiles []gamemap.Position) bool {
	dist := pathfield.Distances(s.grid, s.start)
	if _, ok := dist[s.goal]; !ok {
		return false
	}
	for _, b := range blockedTiles {
		for _, d := range gamemap.Directions {
			n := b.Step(d)
			if !s.grid.IsWalkable(n) {
				continue
			}
			if _, ok := dist[n]; !ok {
				return false
			}
		}
	}
	return true
}

// HasAlternativeRoute reports whether start still reaches goal when pos is
// turned into a wall. The grid is restored before returning.
func HasAlternativeRoute(grid *gamemap.Grid, start, goal, pos gamemap.Position) bool {
	if pos == start || pos == goal {
		return false
	}
	prev := grid.At(pos)
	grid.Set(pos, gamemap.TileWall)
	defer grid.Set(pos, prev)
	return pathfield.IsConnected(grid, start, goal)
}

// saving returns how much shorter the start→goal route becomes if a tunnel
// of k wall tiles between floor tiles a and b were opened, taking the better
// of the two travel directions. ok is false when either end is unreachable.
func (s *strategist) saving(a, b gamemap.Position, k int) (int, bool) {
	as, aok := s.fromStart[a]
	ag, agok := s.fromGoal[a]
	bs, bok := s.fromStart[b]
	bg, bgok := s.fromGoal[b]
	if !aok || !agok || !bok || !bgok {
		return 0, false
	}
	forward := s.length - (as + k + 1 + bg)
	backward := s.length - (bs + k + 1 + ag)
	return max(forward, backward), true
}

// wallTileSaving scores opening the single wall tile w using every pair of
// its walkable neighbors.
func (s *strategist) wallTileSaving(w gamemap.Position) int {
	var floors []gamemap.Position
	for _, d := range gamemap.Directions {
		if n := w.Step(d); s.grid.IsWalkable(n) {
			floors = append(floors, n)
		}
	}
	best := 0
	for i := range floors {
		for j := range floors {
			if i == j {
				continue
			}
			if v, ok := s.saving(floors[i], floors[j], 1); ok && v > best {
				best = v
			}
		}
	}
	return best
}

// penetrate marches from floor tile from through a straight run of interior
// wall tiles in direction d, returning the run and the floor tile beyond it.
func (s *strategist) penetrate(from gamemap.Position, d gamemap.Direction) ([]gamemap.Position, gamemap.Position, bool) {
	var run []gamemap.Position
	p := from.Step(d)
	for s.grid.IsInterior(p) && s.grid.At(p) == gamemap.TileWall && len(run) < maxTunnelDepth {
		run = append(run, p)
		p = p.Step(d)
	}
	if len(run) == 0 || !s.grid.IsWalkable(p) {
		return nil, p, false
	}
	return run, p, true
}

// wallOpenings enumerates the wall openings reachable from floor tile f:
// each adjacent interior wall tile on its own, and every straight tunnel.
// The callback receives the tiles and the route saving of opening them.
func (s *strategist) wallOpenings(f gamemap.Position, fn func(tiles []gamemap.Position, saving int)) {
	for _, d := range gamemap.Directions {
		w := f.Step(d)
		if !s.grid.IsInterior(w) || s.grid.At(w) != gamemap.TileWall {
			continue
		}
		if v := s.wallTileSaving(w); v > 0 {
			fn([]gamemap.Position{w}, v)
		}
		run, exit, ok := s.penetrate(f, d)
		if !ok || len(run) < 2 {
			continue
		}
		if v, ok := s.saving(f, exit, len(run)); ok && v > 0 {
			fn(run, v)
		}
	}
}

func (s *strategist) shortcutBlocks() []wallCandidate {
	best := make(map[gamemap.Position]wallCandidate)
	for _, p := range s.path {
		s.wallOpenings(p, func(tiles []gamemap.Position, v int) {
			keepBest(best, wallCandidate{
				tiles:    tiles,
				score:    v,
				pattern:  component.PatternShortcutBlock,
				wallType: component.WallBreakable,
			})
		})
	}
	return ranked(best)
}

func (s *strategist) secretPassages() []wallCandidate {
	offPath := pathfield.DistancesFrom(s.grid, s.path...)
	best := make(map[gamemap.Position]wallCandidate)
	for _, f := range s.grid.WalkablePositions() {
		off, ok := offPath[f]
		if !ok || off < secretMinOff || off > secretMaxOff {
			continue
		}
		s.wallOpenings(f, func(tiles []gamemap.Position, v int) {
			keepBest(best, wallCandidate{
				tiles:    tiles,
				score:    v + off,
				pattern:  component.PatternSecretPassage,
				wallType: component.WallPassable,
			})
		})
	}
	return ranked(best)
}

func (s *strategist) trickWalls() []wallCandidate {
	best := make(map[gamemap.Position]wallCandidate)
	for _, p := range s.grid.WalkablePositions() {
		if s.grid.At(p) != gamemap.TileFloor {
			continue
		}
		hops, ok := s.fromGoal[p]
		if !ok || hops < trickMinHops || hops > trickMaxHops {
			continue
		}
		if !isNarrowPassage(s.grid, p) || !HasAlternativeRoute(s.grid, s.start, s.goal, p) {
			continue
		}
		score := trickMaxHops + 1 - hops
		if s.onPath.Has(p) {
			score += trickPathBonus
		}
		keepBest(best, wallCandidate{
			tiles:    []gamemap.Position{p},
			score:    score,
			pattern:  component.PatternTrickWall,
			wallType: component.WallInvisible,
			blocking: true,
		})
	}
	return ranked(best)
}

func (s *strategist) corridorBlocks() []wallCandidate {
	best := make(map[gamemap.Position]wallCandidate)
	if len(s.path) < 3 {
		return nil
	}
	for _, p := range s.path[1 : len(s.path)-1] {
		if !isNarrowPassage(s.grid, p) || !HasAlternativeRoute(s.grid, s.start, s.goal, p) {
			continue
		}
		keepBest(best, wallCandidate{
			tiles:    []gamemap.Position{p},
			score:    min(s.fromStart[p], s.fromGoal[p]),
			pattern:  component.PatternCorridorBlock,
			wallType: component.WallBreakable,
			blocking: true,
		})
	}
	return ranked(best)
}

// isNarrowPassage reports whether p sits in a corridor at most two tiles
// wide that stays open along its own axis.
func isNarrowPassage(grid *gamemap.Grid, p gamemap.Position) bool {
	span := func(a, b gamemap.Direction) int {
		return 1 + runLength(grid, p, a) + runLength(grid, p, b)
	}
	openH := grid.IsWalkable(p.Step(gamemap.DirLeft)) && grid.IsWalkable(p.Step(gamemap.DirRight))
	openV := grid.IsWalkable(p.Step(gamemap.DirUp)) && grid.IsWalkable(p.Step(gamemap.DirDown))
	if openH && span(gamemap.DirUp, gamemap.DirDown) <= narrowMaxSpan {
		return true
	}
	return openV && span(gamemap.DirLeft, gamemap.DirRight) <= narrowMaxSpan
}

// runLength counts walkable tiles from p in direction d, stopping past the
// narrow-passage threshold.
func runLength(grid *gamemap.Grid, p gamemap.Position, d gamemap.Direction) int {
	n := 0
	for q := p.Step(d); grid.IsWalkable(q) && n <= narrowMaxSpan; q = q.Step(d) {
		n++
	}
	return n
}

// keepBest stores c keyed by its first tile unless a better candidate is
// already there. Shorter runs win score ties.
func keepBest(best map[gamemap.Position]wallCandidate, c wallCandidate) {
	key := c.tiles[0]
	old, ok := best[key]
	if !ok || c.score > old.score || (c.score == old.score && len(c.tiles) < len(old.tiles)) {
		best[key] = c
	}
}

// ranked orders candidates by descending score, then row-major position.
func ranked(best map[gamemap.Position]wallCandidate) []wallCandidate {
	out := make([]wallCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		if len(out[i].tiles) != len(out[j].tiles) {
			return len(out[i].tiles) < len(out[j].tiles)
		}
		return out[i].tiles[0].Less(out[j].tiles[0])
	})
	return out
}
