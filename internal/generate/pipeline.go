package generate

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"ipne/internal/component"
	"ipne/internal/gamemap"
	"ipne/internal/pathfield"
	"ipne/internal/stage"
)

// DefaultMaxRetries bounds GenerateSafeMaze when the caller passes zero.
const DefaultMaxRetries = 5

// ErrNoSafeLevel is returned when every generation attempt violated the
// spawn safe zone.
var ErrNoSafeLevel = errors.New("no safe level within retry budget")

// LevelConfig bundles everything one level generation needs.
type LevelConfig struct {
	Stage    int
	Maze     MazeConfig
	Gimmicks GimmickConfig
	Enemies  []EnemyQuota
	Boss     *component.EnemyType
	Items    []ItemQuota
	// SafeRadius below zero selects DefaultSafeRadius.
	SafeRadius int
	Rand       *rand.Rand
	Logger     *zap.Logger

	// validate replaces ValidateGeneration when set.
	validate func(lvl *Level, radius int) ValidationResult
}

// LevelConfigFromStage builds a LevelConfig from a stage table entry.
func LevelConfigFromStage(s stage.Config, rng *rand.Rand, logger *zap.Logger) LevelConfig {
	boss := s.Boss
	return LevelConfig{
		Stage: s.Stage,
		Maze: MazeConfig{
			Width:         s.Maze.Width,
			Height:        s.Maze.Height,
			MinRoomSize:   s.Maze.MinRoomSize,
			MaxRoomSize:   s.Maze.MaxRoomSize,
			CorridorWidth: s.Maze.CorridorWidth,
			MaxDepth:      s.Maze.MaxDepth,
			LoopCount:     s.Maze.LoopCount,
		},
		Gimmicks: GimmickConfig{
			TrapCount: s.Gimmicks.TrapCount,
			WallCount: s.Gimmicks.WallCount,
			TrapRatio: TrapRatio{
				Damage:   s.Gimmicks.TrapRatio.Damage,
				Slow:     s.Gimmicks.TrapRatio.Slow,
				Teleport: s.Gimmicks.TrapRatio.Teleport,
			},
			WallRatio: WallRatio{
				Breakable: s.Gimmicks.WallRatio.Breakable,
				Passable:  s.Gimmicks.WallRatio.Passable,
				Invisible: s.Gimmicks.WallRatio.Invisible,
			},
		},
		Enemies: []EnemyQuota{
			{Type: component.EnemyPatrol, Count: s.Enemies.Patrol},
			{Type: component.EnemyCharge, Count: s.Enemies.Charge},
			{Type: component.EnemyRanged, Count: s.Enemies.Ranged},
			{Type: component.EnemySpecimen, Count: s.Enemies.Specimen},
		},
		Boss: &boss,
		Items: []ItemQuota{
			{Type: component.ItemHealthSmall, Count: s.Items.HealthSmall},
			{Type: component.ItemHealthLarge, Count: s.Items.HealthLarge},
			{Type: component.ItemHealthFull, Count: s.Items.HealthFull},
			{Type: component.ItemLevelUp, Count: s.Items.LevelUp},
			{Type: component.ItemMapReveal, Count: s.Items.MapReveal},
			{Type: component.ItemKey, Count: s.Items.Key},
		},
		SafeRadius: DefaultSafeRadius,
		Rand:       rng,
		Logger:     logger,
	}
}

// Level is one generated, validated level ready for entity creation.
type Level struct {
	ID      uuid.UUID
	Stage   int
	Grid    *gamemap.Grid
	Rooms   []gamemap.Room
	Start   gamemap.Position
	Goal    gamemap.Position
	Enemies []EnemySpawn
	Items   []ItemSpawn
	Traps   []TrapPlacement
	Walls   []WallPlacement
	// Attempts is how many generations it took to pass validation.
	Attempts int
}

// GenerateSafeMaze generates levels until one passes safe-zone validation or
// maxRetries attempts are spent. Configuration errors abort immediately.
func GenerateSafeMaze(cfg LevelConfig, maxRetries int) (*Level, error) {
	if cfg.Rand == nil {
		return nil, fmt.Errorf("%w: nil Rand", ErrInvalidMazeConfig)
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	radius := cfg.SafeRadius
	if radius < 0 {
		radius = DefaultSafeRadius
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		lvl, err := generateLevel(cfg, radius)
		if err != nil {
			return nil, err
		}
		var res ValidationResult
		if cfg.validate != nil {
			res = cfg.validate(lvl, radius)
		} else {
			res = ValidateGeneration(lvl.Start, lvl.Enemies, lvl.Traps, radius)
		}
		if res.Valid() {
			lvl.Attempts = attempt
			log.Debug("level generated",
				zap.Stringer("level", lvl.ID),
				zap.Int("stage", lvl.Stage),
				zap.Int("attempt", attempt),
				zap.Int("rooms", len(lvl.Rooms)),
				zap.Int("enemies", len(lvl.Enemies)),
				zap.Int("traps", len(lvl.Traps)),
				zap.Int("walls", len(lvl.Walls)),
			)
			return lvl, nil
		}
		log.Warn("level rejected by safe zone",
			zap.Stringer("level", lvl.ID),
			zap.Int("stage", cfg.Stage),
			zap.Int("attempt", attempt),
			zap.Int("invalidEnemies", len(res.InvalidEnemies)),
			zap.Int("invalidTraps", len(res.InvalidTraps)),
		)
	}
	return nil, fmt.Errorf("stage %d after %d attempts: %w", cfg.Stage, maxRetries, ErrNoSafeLevel)
}

// generateLevel runs one unvalidated pass of the pipeline.
func generateLevel(cfg LevelConfig, radius int) (*Level, error) {
	mc := cfg.Maze
	mc.Rand = cfg.Rand
	maze, err := GenerateMaze(mc)
	if err != nil {
		return nil, err
	}
	grid := maze.Grid
	rooms := maze.Rooms
	if len(rooms) == 0 {
		rooms = []gamemap.Room{fallbackRoom(grid)}
	}

	start, _ := pathfield.PlaceStart(rooms, grid.Width, grid.Height, cfg.Rand)
	if !grid.IsWalkable(start) {
		grid.Set(start, gamemap.TileFloor)
	}
	goal, err := placeGoal(grid, start)
	if err != nil {
		return nil, err
	}
	grid.Set(start, gamemap.TileStart)
	grid.Set(goal, gamemap.TileGoal)

	id, err := uuid.NewRandomFromReader(cfg.Rand)
	if err != nil {
		return nil, fmt.Errorf("level id: %w", err)
	}

	pop := Populate(grid, rooms, start, goal, PopulateConfig{
		Enemies: cfg.Enemies,
		Boss:    cfg.Boss,
		Items:   cfg.Items,
		Zone:    SafeZone{Center: start, Radius: radius},
		Rand:    cfg.Rand,
	})

	// Trap types are drawn after positions, so the whole zone is kept clear
	// of gimmicks rather than only of the dangerous ones.
	zone := SafeZone{Center: start, Radius: radius}
	excluded := mapset.New[gamemap.Position]()
	for y := start.Y - radius; y <= start.Y+radius; y++ {
		for x := start.X - radius; x <= start.X+radius; x++ {
			if p := (gamemap.Position{X: x, Y: y}); zone.Contains(p) {
				excluded.Put(p)
			}
		}
	}
	for _, e := range pop.Enemies {
		excluded.Put(e.Pos)
	}
	for _, it := range pop.Items {
		excluded.Put(it.Pos)
	}
	gc := cfg.Gimmicks
	gc.Rand = cfg.Rand
	placement, err := PlaceGimmicks(rooms, grid, excluded, gc, &start, &goal)
	if err != nil {
		return nil, err
	}

	return &Level{
		ID:      id,
		Stage:   cfg.Stage,
		Grid:    grid,
		Rooms:   rooms,
		Start:   start,
		Goal:    goal,
		Enemies: pop.Enemies,
		Items:   pop.Items,
		Traps:   placement.Traps,
		Walls:   placement.Walls,
	}, nil
}

// placeGoal picks the tile farthest from start. When start is the only
// reachable tile, an interior neighbor is carved to hold the goal.
func placeGoal(grid *gamemap.Grid, start gamemap.Position) (gamemap.Position, error) {
	if goal := pathfield.PlaceGoal(grid, start); goal != start {
		return goal, nil
	}
	for _, d := range gamemap.Directions {
		if n := start.Step(d); grid.IsInterior(n) {
			grid.Set(n, gamemap.TileFloor)
			return n, nil
		}
	}
	return start, fmt.Errorf("%w: no tile for the goal next to %v", ErrInvalidMazeConfig, start)
}

// fallbackRoom synthesizes a one-tile room when BSP produced none: the first
// floor tile in row-major order, or a carved tile at the grid center.
func fallbackRoom(grid *gamemap.Grid) gamemap.Room {
	p, ok := grid.Find(gamemap.TileFloor)
	if !ok {
		p = gamemap.Position{X: grid.Width / 2, Y: grid.Height / 2}
		grid.Set(p, gamemap.TileFloor)
	}
	r := gamemap.Rect{X1: p.X, Y1: p.Y, X2: p.X, Y2: p.Y}
	return gamemap.Room{Rect: r, Center: p, Tiles: []gamemap.Position{p}}
}
