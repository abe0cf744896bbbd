package generate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

var (
	// ErrInvalidGimmickConfig is returned when counts or ratios break the
	// placement contract. These are configuration bugs and are never clamped.
	ErrInvalidGimmickConfig = errors.New("invalid gimmick config")
	// ErrPlacementContract is returned when a placement result violates its
	// postconditions.
	ErrPlacementContract = errors.New("gimmick placement contract violated")
)

const ratioEpsilon = 1e-6

// TrapRatio weights the trap type draw. Fields must each lie in [0,1] and sum to 1.
type TrapRatio struct {
	Damage, Slow, Teleport float64
}

func (r TrapRatio) weights() []float64 { return []float64{r.Damage, r.Slow, r.Teleport} }

// WallRatio weights the fill wall type draw. Fields must each lie in [0,1] and sum to 1.
type WallRatio struct {
	Breakable, Passable, Invisible float64
}

func (r WallRatio) weights() []float64 { return []float64{r.Breakable, r.Passable, r.Invisible} }

var (
	trapTypeOrder = []component.TrapType{component.TrapDamage, component.TrapSlow, component.TrapTeleport}
	wallTypeOrder = []component.WallType{component.WallBreakable, component.WallPassable, component.WallInvisible}
)

// PatternLimits caps how many candidates each strategic pattern may contribute.
type PatternLimits struct {
	ShortcutBlock int
	TrickWall     int
	SecretPassage int
	CorridorBlock int
}

// DefaultPatternLimits returns the standard per-pattern caps.
func DefaultPatternLimits() PatternLimits {
	return PatternLimits{ShortcutBlock: 2, TrickWall: 1, SecretPassage: 2, CorridorBlock: 1}
}

// GimmickConfig drives trap and wall placement for one level.
type GimmickConfig struct {
	TrapCount int
	WallCount int
	TrapRatio TrapRatio
	WallRatio WallRatio
	// PatternLimits defaults to DefaultPatternLimits when nil.
	PatternLimits *PatternLimits
	Rand          *rand.Rand
}

// TrapPlacement is a trap position and type chosen by PlaceGimmicks.
type TrapPlacement struct {
	Pos  gamemap.Position
	Type component.TrapType
}

// WallPlacement is a gimmick wall position and type chosen by PlaceGimmicks.
type WallPlacement struct {
	Pos     gamemap.Position
	Type    component.WallType
	Pattern component.WallPattern
}

// Placement is the merged output of trap and wall placement.
type Placement struct {
	Traps []TrapPlacement
	Walls []WallPlacement
}

func (cfg GimmickConfig) limits() PatternLimits {
	if cfg.PatternLimits == nil {
		return DefaultPatternLimits()
	}
	return *cfg.PatternLimits
}

func (cfg GimmickConfig) validate() error {
	if cfg.Rand == nil {
		return fmt.Errorf("%w: nil Rand", ErrInvalidGimmickConfig)
	}
	if cfg.TrapCount < 0 || cfg.WallCount < 0 {
		return fmt.Errorf("%w: negative count (traps=%d walls=%d)", ErrInvalidGimmickConfig, cfg.TrapCount, cfg.WallCount)
	}
	if err := validateRatio("trap", cfg.TrapRatio.weights()); err != nil {
		return err
	}
	if err := validateRatio("wall", cfg.WallRatio.weights()); err != nil {
		return err
	}
	l := cfg.limits()
	if l.ShortcutBlock < 0 || l.TrickWall < 0 || l.SecretPassage < 0 || l.CorridorBlock < 0 {
		return fmt.Errorf("%w: negative pattern limit %+v", ErrInvalidGimmickConfig, l)
	}
	return nil
}

func validateRatio(name string, ws []float64) error {
	sum := 0.0
	for _, w := range ws {
		if math.IsNaN(w) || w < 0 || w > 1 {
			return fmt.Errorf("%w: %s ratio %v outside [0,1]", ErrInvalidGimmickConfig, name, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > ratioEpsilon {
		return fmt.Errorf("%w: %s ratios sum to %v, want 1", ErrInvalidGimmickConfig, name, sum)
	}
	return nil
}

// weightedPick draws an index with probability proportional to ws.
func weightedPick(rng *rand.Rand, ws []float64) int {
	r := rng.Float64()
	acc := 0.0
	last := 0
	for i, w := range ws {
		if w <= 0 {
			continue
		}
		last = i
		acc += w
		if r < acc {
			return i
		}
	}
	return last
}

// PlaceGimmicks chooses trap and gimmick wall positions. Strategic wall
// patterns are only considered when both start and goal are supplied; the
// rest of the wall budget is filled from plain wall candidates. Positions in
// excluded are never used.
func PlaceGimmicks(rooms []gamemap.Room, grid *gamemap.Grid, excluded mapset.Set[gamemap.Position],
	cfg GimmickConfig, start, goal *gamemap.Position) (*Placement, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	used := mapset.New[gamemap.Position]()
	blocked := func(p gamemap.Position) bool {
		return excluded.Has(p) || used.Has(p) ||
			(start != nil && p == *start) || (goal != nil && p == *goal)
	}

	var walls []WallPlacement
	if start != nil && goal != nil && cfg.WallCount > 0 {
		s := newStrategist(grid, *start, *goal)
		walls = s.place(cfg.limits(), cfg.WallCount, blocked)
		for _, w := range walls {
			used.Put(w.Pos)
		}
	}
	if len(walls) < cfg.WallCount {
		for _, p := range fillWallCandidates(grid, cfg.Rand) {
			if len(walls) >= cfg.WallCount {
				break
			}
			if blocked(p) {
				continue
			}
			typ := wallTypeOrder[weightedPick(cfg.Rand, cfg.WallRatio.weights())]
			walls = append(walls, WallPlacement{Pos: p, Type: typ, Pattern: component.PatternFill})
			used.Put(p)
		}
	}

	var traps []TrapPlacement
	for _, p := range trapCandidates(rooms, grid, cfg.Rand) {
		if len(traps) >= cfg.TrapCount {
			break
		}
		if blocked(p) {
			continue
		}
		typ := trapTypeOrder[weightedPick(cfg.Rand, cfg.TrapRatio.weights())]
		traps = append(traps, TrapPlacement{Pos: p, Type: typ})
		used.Put(p)
	}

	out := &Placement{Traps: traps, Walls: walls}
	if err := checkPlacement(out, cfg); err != nil {
		return nil, err
	}
	return out, nil
}

// trapCandidates returns shuffled corridor tiles followed by shuffled room tiles.
func trapCandidates(rooms []gamemap.Room, grid *gamemap.Grid, rng *rand.Rand) []gamemap.Position {
	inRoom := mapset.New[gamemap.Position]()
	var roomTiles []gamemap.Position
	for _, r := range rooms {
		for _, p := range r.Tiles {
			if inRoom.Has(p) || grid.At(p) != gamemap.TileFloor {
				continue
			}
			inRoom.Put(p)
			roomTiles = append(roomTiles, p)
		}
	}
	var corridor []gamemap.Position
	for _, p := range grid.WalkablePositions() {
		if grid.At(p) == gamemap.TileFloor && !inRoom.Has(p) {
			corridor = append(corridor, p)
		}
	}
	shuffle(rng, corridor)
	shuffle(rng, roomTiles)
	return append(corridor, roomTiles...)
}

// fillWallCandidates lists wall tiles for the non-strategic pass: thick wall
// faces first, then single-thickness walls separating two floors, then any
// interior wall touching floor. Each tier is shuffled independently.
func fillWallCandidates(grid *gamemap.Grid, rng *rand.Rand) []gamemap.Position {
	var thick, thin, other []gamemap.Position
	for y := 1; y < grid.Height-1; y++ {
		for x := 1; x < grid.Width-1; x++ {
			p := gamemap.Position{X: x, Y: y}
			if grid.At(p) != gamemap.TileWall {
				continue
			}
			touches, isThick := false, false
			for _, d := range gamemap.Directions {
				if !grid.IsWalkable(p.Step(d)) {
					continue
				}
				touches = true
				behind := p.Step(d.Opposite())
				if grid.IsInterior(behind) && grid.At(behind) == gamemap.TileWall {
					isThick = true
				}
			}
			switch {
			case !touches:
			case isShortcutCapable(grid, p):
				thin = append(thin, p)
			case isThick:
				thick = append(thick, p)
			default:
				other = append(other, p)
			}
		}
	}
	shuffle(rng, thick)
	shuffle(rng, thin)
	shuffle(rng, other)
	out := append(thick, thin...)
	return append(out, other...)
}

// isShortcutCapable reports whether p is a single wall tile with floor on two
// opposite sides.
func isShortcutCapable(grid *gamemap.Grid, p gamemap.Position) bool {
	return (grid.IsWalkable(p.Step(gamemap.DirLeft)) && grid.IsWalkable(p.Step(gamemap.DirRight))) ||
		(grid.IsWalkable(p.Step(gamemap.DirUp)) && grid.IsWalkable(p.Step(gamemap.DirDown)))
}

func shuffle(rng *rand.Rand, ps []gamemap.Position) {
	rng.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
}

func checkPlacement(p *Placement, cfg GimmickConfig) error {
	if len(p.Traps) > cfg.TrapCount {
		return fmt.Errorf("%w: %d traps placed, %d requested", ErrPlacementContract, len(p.Traps), cfg.TrapCount)
	}
	if len(p.Walls) > cfg.WallCount {
		return fmt.Errorf("%w: %d walls placed, %d requested", ErrPlacementContract, len(p.Walls), cfg.WallCount)
	}
	trapAt := mapset.New[gamemap.Position]()
	for _, t := range p.Traps {
		if trapAt.Has(t.Pos) {
			return fmt.Errorf("%w: duplicate trap at %v", ErrPlacementContract, t.Pos)
		}
		trapAt.Put(t.Pos)
	}
	wallAt := mapset.New[gamemap.Position]()
	for _, w := range p.Walls {
		if wallAt.Has(w.Pos) {
			return fmt.Errorf("%w: duplicate wall at %v", ErrPlacementContract, w.Pos)
		}
		if trapAt.Has(w.Pos) {
			return fmt.Errorf("%w: trap and wall share %v", ErrPlacementContract, w.Pos)
		}
		wallAt.Put(w.Pos)
	}
	return nil
}
