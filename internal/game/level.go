package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ipne/internal/component"
	"ipne/internal/ecs"
	"ipne/internal/factory"
	"ipne/internal/gamemap"
	"ipne/internal/generate"
	"ipne/internal/stage"
)

// Level is a generated stage with its entities created.
type Level struct {
	ID      uuid.UUID
	Stage   stage.Config
	Grid    *gamemap.Grid
	Rooms   []gamemap.Room
	Start   gamemap.Position
	Goal    gamemap.Position
	Enemies []component.Enemy
	Items   []component.Item
	Traps   []component.Trap
	Walls   []component.Wall
}

// NewLevel generates a safe level for s and creates its entities with IDs
// drawn from seq.
func NewLevel(s stage.Config, seq *ecs.Sequence, rng *rand.Rand, logger *zap.Logger) (*Level, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gen, err := generate.GenerateSafeMaze(generate.LevelConfigFromStage(s, rng, logger), generate.DefaultMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("stage %d: %w", s.Stage, err)
	}

	lvl := &Level{
		ID:    gen.ID,
		Stage: s,
		Grid:  gen.Grid,
		Rooms: gen.Rooms,
		Start: gen.Start,
		Goal:  gen.Goal,
	}
	for _, sp := range gen.Enemies {
		e, err := factory.NewEnemyFromSpawn(seq, sp, s.Stage, s.Scaling)
		if err != nil {
			return nil, err
		}
		lvl.Enemies = append(lvl.Enemies, e)
	}
	for _, sp := range gen.Items {
		it, err := factory.NewItem(seq, sp.Type, sp.Pos)
		if err != nil {
			return nil, err
		}
		lvl.Items = append(lvl.Items, it)
	}
	for _, tp := range gen.Traps {
		t, err := factory.NewTrap(seq, tp.Type, tp.Pos)
		if err != nil {
			return nil, err
		}
		lvl.Traps = append(lvl.Traps, t)
	}
	for _, wp := range gen.Walls {
		w, err := factory.NewWall(seq, wp.Type, wp.Pos, wp.Pattern)
		if err != nil {
			return nil, err
		}
		lvl.Walls = append(lvl.Walls, w)
	}

	logger.Info("level ready",
		zap.Stringer("level", lvl.ID),
		zap.Int("stage", s.Stage),
		zap.Int("attempts", gen.Attempts),
		zap.Int("enemies", len(lvl.Enemies)),
		zap.Int("items", len(lvl.Items)),
		zap.Int("traps", len(lvl.Traps)),
		zap.Int("walls", len(lvl.Walls)),
	)
	return lvl, nil
}
