// Package stage holds the static per-stage configuration table consumed by
// level generation.
package stage

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"ipne/internal/component"
)

// Count is the number of stages in a full run.
const Count = 5

// ErrInvalidStage is returned when the stage table fails validation.
var ErrInvalidStage = errors.New("invalid stage config")

//go:embed stages.yaml
var defaultTable []byte

// Maze is the maze generator block of a stage.
type Maze struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	MinRoomSize   int `yaml:"minRoomSize"`
	MaxRoomSize   int `yaml:"maxRoomSize"`
	CorridorWidth int `yaml:"corridorWidth"`
	MaxDepth      int `yaml:"maxDepth"`
	LoopCount     int `yaml:"loopCount"`
}

// Enemies is the per-type spawn quota of a stage (boss excluded).
type Enemies struct {
	Patrol   int `yaml:"patrol"`
	Charge   int `yaml:"charge"`
	Ranged   int `yaml:"ranged"`
	Specimen int `yaml:"specimen"`
}

// Scaling multiplies base enemy stats.
type Scaling struct {
	HP     float64 `yaml:"hp"`
	Damage float64 `yaml:"damage"`
	Speed  float64 `yaml:"speed"`
}

// TrapRatio is the weighted draw used to pick trap types.
type TrapRatio struct {
	Damage   float64 `yaml:"damage"`
	Slow     float64 `yaml:"slow"`
	Teleport float64 `yaml:"teleport"`
}

// WallRatio is the weighted draw used to pick fill wall types.
type WallRatio struct {
	Breakable float64 `yaml:"breakable"`
	Passable  float64 `yaml:"passable"`
	Invisible float64 `yaml:"invisible"`
}

// Gimmicks is the trap/wall block of a stage.
type Gimmicks struct {
	TrapCount int       `yaml:"trapCount"`
	WallCount int       `yaml:"wallCount"`
	TrapRatio TrapRatio `yaml:"trapRatio"`
	WallRatio WallRatio `yaml:"wallRatio"`
}

// Items is the per-type item count of a stage.
type Items struct {
	HealthSmall int `yaml:"healthSmall"`
	HealthLarge int `yaml:"healthLarge"`
	HealthFull  int `yaml:"healthFull"`
	LevelUp     int `yaml:"levelUp"`
	MapReveal   int `yaml:"mapReveal"`
	Key         int `yaml:"key"`
}

// Config describes one stage.
type Config struct {
	Stage       int      `yaml:"stage"`
	Maze        Maze     `yaml:"maze"`
	Enemies     Enemies  `yaml:"enemies"`
	BossTag     string   `yaml:"boss"`
	Scaling     Scaling  `yaml:"scaling"`
	Gimmicks    Gimmicks `yaml:"gimmicks"`
	Items       Items    `yaml:"items"`
	MaxLevel    int      `yaml:"maxLevel"`
	KeyRequired bool     `yaml:"keyRequired"`

	// Boss is BossTag resolved during Load.
	Boss component.EnemyType `yaml:"-"`
}

type table struct {
	Stages []Config `yaml:"stages"`
}

// Default returns the built-in stage table.
func Default() ([]Config, error) {
	return Load(defaultTable)
}

// MustDefault is Default for callers that treat a broken embedded table as a
// build defect.
func MustDefault() []Config {
	stages, err := Default()
	if err != nil {
		panic(err)
	}
	return stages
}

// Load parses and validates a YAML stage table.
func Load(data []byte) ([]Config, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse stage table: %w", err)
	}
	if len(t.Stages) == 0 {
		return nil, fmt.Errorf("%w: table has no stages", ErrInvalidStage)
	}
	for i := range t.Stages {
		s := &t.Stages[i]
		if s.Stage != i+1 {
			return nil, fmt.Errorf("%w: entry %d has stage number %d", ErrInvalidStage, i, s.Stage)
		}
		boss, err := component.ParseEnemyType(s.BossTag)
		if err != nil {
			return nil, fmt.Errorf("stage %d: %w", s.Stage, err)
		}
		if !boss.IsBossFamily() {
			return nil, fmt.Errorf("%w: stage %d boss %q is not a boss type", ErrInvalidStage, s.Stage, s.BossTag)
		}
		s.Boss = boss
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	return t.Stages, nil
}

// Lookup returns the config for a 1-based stage number.
func Lookup(stages []Config, n int) (Config, error) {
	if n < 1 || n > len(stages) {
		return Config{}, fmt.Errorf("%w: stage %d out of range 1..%d", ErrInvalidStage, n, len(stages))
	}
	return stages[n-1], nil
}

func (s Config) validate() error {
	m := s.Maze
	switch {
	case m.Width < 11 || m.Height < 11:
		return fmt.Errorf("%w: stage %d maze %dx%d is too small", ErrInvalidStage, s.Stage, m.Width, m.Height)
	case m.MinRoomSize < 2 || m.MaxRoomSize < m.MinRoomSize:
		return fmt.Errorf("%w: stage %d room size range %d..%d", ErrInvalidStage, s.Stage, m.MinRoomSize, m.MaxRoomSize)
	case m.CorridorWidth < 1 || m.MaxDepth < 0 || m.LoopCount < 0:
		return fmt.Errorf("%w: stage %d corridor/depth/loop settings", ErrInvalidStage, s.Stage)
	case s.Scaling.HP <= 0 || s.Scaling.Damage <= 0 || s.Scaling.Speed <= 0:
		return fmt.Errorf("%w: stage %d scaling must be positive", ErrInvalidStage, s.Stage)
	case s.MaxLevel < 1:
		return fmt.Errorf("%w: stage %d max level %d", ErrInvalidStage, s.Stage, s.MaxLevel)
	}
	e := s.Enemies
	if e.Patrol < 0 || e.Charge < 0 || e.Ranged < 0 || e.Specimen < 0 {
		return fmt.Errorf("%w: stage %d negative enemy quota", ErrInvalidStage, s.Stage)
	}
	it := s.Items
	if it.HealthSmall < 0 || it.HealthLarge < 0 || it.HealthFull < 0 || it.LevelUp < 0 || it.MapReveal < 0 || it.Key < 0 {
		return fmt.Errorf("%w: stage %d negative item count", ErrInvalidStage, s.Stage)
	}
	if s.KeyRequired && it.Key == 0 {
		return fmt.Errorf("%w: stage %d requires a key but spawns none", ErrInvalidStage, s.Stage)
	}
	return nil
}
