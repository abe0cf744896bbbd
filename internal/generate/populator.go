package generate

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

const (
	maxPickAttempts = 20
	patrolReach     = 4
)

// EnemyQuota requests Count enemies of one type.
type EnemyQuota struct {
	Type  component.EnemyType
	Count int
}

// ItemQuota requests Count items of one type.
type ItemQuota struct {
	Type  component.ItemType
	Count int
}

// EnemySpawn describes one enemy to create.
type EnemySpawn struct {
	Type       component.EnemyType
	Pos        gamemap.Position
	PatrolPath []gamemap.Position
}

// ItemSpawn describes one item to create.
type ItemSpawn struct {
	Type component.ItemType
	Pos  gamemap.Position
}

// PopulateConfig drives enemy and item spawning for one level.
type PopulateConfig struct {
	Enemies []EnemyQuota
	// Boss, when set, is spawned once in the room holding the goal.
	Boss *component.EnemyType
	Items []ItemQuota
	// Zone keeps dangerous enemy types away from the spawn point.
	Zone SafeZone
	Rand *rand.Rand
}

// PopulateResult is returned by Populate with entity spawn data.
type PopulateResult struct {
	Enemies []EnemySpawn
	Items   []ItemSpawn
}

// Populate places enemies and items on room tiles. No two spawns share a
// tile and nothing lands on start or goal. A spawn with no free tile left is
// dropped.
func Populate(grid *gamemap.Grid, rooms []gamemap.Room, start, goal gamemap.Position, cfg PopulateConfig) PopulateResult {
	var result PopulateResult
	if len(rooms) == 0 {
		return result
	}

	occupied := mapset.New[gamemap.Position]()
	occupied.Put(start)
	occupied.Put(goal)

	// Enemies avoid the spawn room when there is anywhere else to go.
	placeable := rooms
	if len(rooms) > 1 {
		placeable = nil
		for _, r := range rooms {
			if !r.Rect.Contains(start) {
				placeable = append(placeable, r)
			}
		}
	}

	if cfg.Boss != nil {
		bossRoom := roomNearest(rooms, goal)
		if p, ok := pickFree(bossRoom, occupied, cfg.Rand, zoneFor(*cfg.Boss, cfg.Zone)); ok {
			occupied.Put(p)
			result.Enemies = append(result.Enemies, EnemySpawn{Type: *cfg.Boss, Pos: p})
		}
	}

	for _, q := range cfg.Enemies {
		for range q.Count {
			room := placeable[cfg.Rand.Intn(len(placeable))]
			p, ok := pickFree(room, occupied, cfg.Rand, zoneFor(q.Type, cfg.Zone))
			if !ok {
				continue
			}
			occupied.Put(p)
			spawn := EnemySpawn{Type: q.Type, Pos: p}
			if q.Type == component.EnemyPatrol {
				spawn.PatrolPath = BuildPatrolPath(grid, p, cfg.Rand)
			}
			result.Enemies = append(result.Enemies, spawn)
		}
	}

	for _, q := range cfg.Items {
		pool := rooms
		if q.Type == component.ItemKey {
			pool = placeable
		}
		for range q.Count {
			room := pool[cfg.Rand.Intn(len(pool))]
			p, ok := pickFree(room, occupied, cfg.Rand, nil)
			if !ok {
				continue
			}
			occupied.Put(p)
			result.Items = append(result.Items, ItemSpawn{Type: q.Type, Pos: p})
		}
	}
	return result
}

// zoneFor returns the zone an enemy of type t must stay out of, or nil.
func zoneFor(t component.EnemyType, z SafeZone) *SafeZone {
	if IsDangerousEnemy(t) {
		return &z
	}
	return nil
}

// pickFree tries up to maxPickAttempts random tiles of room, rejecting
// occupied tiles and tiles inside avoid, then falls back to a scan of the
// room's tiles.
func pickFree(room gamemap.Room, occupied mapset.Set[gamemap.Position], rng *rand.Rand, avoid *SafeZone) (gamemap.Position, bool) {
	if len(room.Tiles) == 0 {
		return gamemap.Position{}, false
	}
	ok := func(p gamemap.Position) bool {
		return !occupied.Has(p) && (avoid == nil || !avoid.Contains(p))
	}
	for range maxPickAttempts {
		p := room.Tiles[rng.Intn(len(room.Tiles))]
		if ok(p) {
			return p, true
		}
	}
	for _, p := range room.Tiles {
		if ok(p) {
			return p, true
		}
	}
	return gamemap.Position{}, false
}

// roomNearest returns the room containing p, or the one whose center is closest.
func roomNearest(rooms []gamemap.Room, p gamemap.Position) gamemap.Room {
	best := rooms[0]
	bestD := -1
	for _, r := range rooms {
		if r.Rect.Contains(p) {
			return r
		}
		if d := gamemap.Manhattan(r.Center, p); bestD < 0 || d < bestD {
			best, bestD = r, d
		}
	}
	return best
}

// BuildPatrolPath walks up to patrolReach tiles from origin in a random open
// direction and returns the out-and-back cycle, origin first. It returns nil
// when every direction is blocked.
func BuildPatrolPath(grid *gamemap.Grid, origin gamemap.Position, rng *rand.Rand) []gamemap.Position {
	dirs := gamemap.Directions
	rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
	for _, d := range dirs {
		out := []gamemap.Position{origin}
		p := origin
		for range patrolReach {
			p = p.Step(d)
			if !grid.IsWalkable(p) {
				break
			}
			out = append(out, p)
		}
		if len(out) < 2 {
			continue
		}
		// Out-and-back: origin, a, b, c, then c-1 ... a; the cycle wraps to origin.
		for i := len(out) - 2; i > 0; i-- {
			out = append(out, out[i])
		}
		return out
	}
	return nil
}
