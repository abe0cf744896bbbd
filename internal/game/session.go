package game

import (
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"ipne/internal/component"
	"ipne/internal/ecs"
	"ipne/internal/factory"
	"ipne/internal/gamemap"
	"ipne/internal/stage"
	"ipne/internal/system"
)

// ErrRunOver is returned by actions attempted after death or victory.
var ErrRunOver = errors.New("run is over")

const maxMessages = 50

// Message is one line of player feedback.
type Message struct {
	ID   ecs.EntityID
	At   int64
	Text string
}

// RunStats accumulates what a finished run is summarized by.
type RunStats struct {
	StageReached   int
	EnemiesKilled  map[string]int // enemy type → kills
	ItemsCollected map[string]int // item type → pickups
	TrapsTriggered int
	WallsBroken    int
	DamageTaken    int
	Upgrades       int
}

// SessionConfig configures a run through the stage table.
type SessionConfig struct {
	Stages []stage.Config
	Rand   *rand.Rand
	Logger *zap.Logger
	Deps   Deps
	// Now is the clock value the first level starts at.
	Now int64
}

// Session is one run: the current level, the live entity snapshots and the
// bookkeeping around Tick. It owns the ID sequence for the run.
type Session struct {
	stages []stage.Config
	rng    *rand.Rand
	logger *zap.Logger
	deps   Deps
	seq    *ecs.Sequence

	Level              *Level
	Player             component.Player
	Enemies            []component.Enemy
	Items              []component.Item
	Traps              []component.Trap
	Walls              []component.Wall
	PendingLevelPoints int
	MapRevealed        bool
	GameOver           bool
	Won                bool

	Stats    RunStats
	messages []Message
}

// NewSession starts a run on the first stage.
func NewSession(cfg SessionConfig) (*Session, error) {
	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("%w: no stages", stage.ErrInvalidStage)
	}
	if cfg.Rand == nil {
		return nil, errors.New("session: nil Rand")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Session{
		stages: cfg.Stages,
		rng:    cfg.Rand,
		logger: cfg.Logger,
		deps:   cfg.Deps.withDefaults(),
		seq:    ecs.NewSequence(),
		Stats: RunStats{
			EnemiesKilled:  make(map[string]int),
			ItemsCollected: make(map[string]int),
		},
	}
	if err := s.enterStage(1, cfg.Now); err != nil {
		return nil, err
	}
	s.Player = factory.NewPlayer(s.Level.Start, cfg.Now)
	return s, nil
}

// enterStage generates stage n and moves the player to its start. The
// player's hp, level and stats carry over; the key does not.
func (s *Session) enterStage(n int, now int64) error {
	cfg, err := stage.Lookup(s.stages, n)
	if err != nil {
		return err
	}
	lvl, err := NewLevel(cfg, s.seq, s.rng, s.logger)
	if err != nil {
		return err
	}
	s.Level = lvl
	s.Enemies = lvl.Enemies
	s.Items = lvl.Items
	s.Traps = lvl.Traps
	s.Walls = lvl.Walls
	s.MapRevealed = false
	s.Player.Pos = lvl.Start
	s.Player.HasKey = false
	s.Player.LastRegenAt = now
	s.Stats.StageReached = n
	s.addMessage(now, fmt.Sprintf("Stage %d.", n))
	return nil
}

// Terrain returns the current grid with the live gimmick walls.
func (s *Session) Terrain() *system.Terrain { return system.NewTerrain(s.Level.Grid, s.Walls) }

// MaxLevel is the level cap of the current stage.
func (s *Session) MaxLevel() int { return s.Level.Stage.MaxLevel }

// Over reports whether the run has ended.
func (s *Session) Over() bool { return s.GameOver || s.Won }

// Move steps the player one tile.
func (s *Session) Move(dir gamemap.Direction, now int64) (system.MoveResult, error) {
	if s.Over() {
		return system.MoveBlocked, ErrRunOver
	}
	out := system.MovePlayer(s.Player, dir, s.Terrain(), now)
	s.Player = out.Player
	s.Walls = out.Walls
	if out.Result == system.MoveBumped {
		s.addMessage(now, "You bump into something unseen.")
	}
	return out.Result, nil
}

// Attack strikes along the player's facing.
func (s *Session) Attack(now int64) (system.AttackResult, error) {
	if s.Over() {
		return system.AttackResult{}, ErrRunOver
	}
	res := system.PlayerAttack(s.Player, s.Enemies, s.Terrain(), now)
	s.Player = res.Player
	s.Enemies = res.Enemies
	s.Walls = res.Walls
	switch {
	case res.Killed:
		for _, e := range s.Enemies {
			if e.ID == res.HitEnemy {
				s.Stats.EnemiesKilled[e.Type.String()]++
				s.addMessage(now, fmt.Sprintf("You destroy the %s.", e.Type))
			}
		}
	case res.WallBroke:
		s.Stats.WallsBroken++
		s.addMessage(now, "The wall crumbles.")
	}
	return res, nil
}

// Upgrade spends a pending level point.
func (s *Session) Upgrade(kind component.StatKind, now int64) error {
	if s.Over() {
		return ErrRunOver
	}
	p, left, err := system.ApplyStatUpgrade(s.Player, s.PendingLevelPoints, kind)
	if err != nil {
		return err
	}
	s.Player, s.PendingLevelPoints = p, left
	s.Stats.Upgrades++
	s.addMessage(now, fmt.Sprintf("%s upgraded. Level %d.", kind, p.Level))
	return nil
}

// TryExit leaves the level when the player stands on the goal with the key
// the stage demands. Leaving the last stage wins the run.
func (s *Session) TryExit(now int64) (bool, error) {
	if s.Over() {
		return false, ErrRunOver
	}
	if !system.CanExit(s.Player, s.Level.Grid, s.Level.Stage.KeyRequired) {
		if s.Level.Grid.At(s.Player.Pos) == gamemap.TileGoal {
			s.addMessage(now, "The exit is locked. Find the key.")
		}
		return false, nil
	}
	next := s.Level.Stage.Stage + 1
	if next > len(s.stages) {
		s.Won = true
		s.addMessage(now, "You escape the dungeon.")
		return true, nil
	}
	if err := s.enterStage(next, now); err != nil {
		return false, err
	}
	return true, nil
}

// Advance runs one Tick on the session state and returns its result.
func (s *Session) Advance(now int64) TickResult {
	if s.Over() {
		return TickResult{Player: s.Player, Enemies: s.Enemies, Items: s.Items, Traps: s.Traps,
			PendingLevelPoints: s.PendingLevelPoints, GameOver: s.GameOver}
	}
	hp := s.Player.HP
	res := Tick(TickInput{
		Grid:               s.Level.Grid,
		Player:             s.Player,
		Enemies:            s.Enemies,
		Items:              s.Items,
		Traps:              s.Traps,
		Walls:              s.Walls,
		PendingLevelPoints: s.PendingLevelPoints,
		Now:                now,
		MaxLevel:           s.MaxLevel(),
		Rand:               s.rng,
	}, s.deps)

	left := make(map[ecs.EntityID]bool, len(res.Items))
	for _, it := range res.Items {
		left[it.ID] = true
	}
	for _, it := range s.Items {
		if !left[it.ID] {
			s.Stats.ItemsCollected[it.Type.String()]++
		}
	}
	s.Stats.DamageTaken += max(0, hp-res.Player.HP)
	for _, e := range res.Effects {
		switch e.Type {
		case SoundTrapTriggered:
			s.Stats.TrapsTriggered++
			s.addMessage(now, "A trap springs!")
		case SoundLevelUp:
			s.addMessage(now, "You feel stronger. A level point awaits.")
		case SoundKeyPickup:
			s.addMessage(now, "You pick up a key.")
		case DisplayMapRevealed:
			s.addMessage(now, "The map reveals itself.")
		case DisplayGameOver:
			s.addMessage(now, "You die.")
		}
	}

	s.Player = res.Player
	s.Enemies = res.Enemies
	s.Items = res.Items
	s.Traps = res.Traps
	s.PendingLevelPoints = res.PendingLevelPoints
	s.MapRevealed = s.MapRevealed || res.MapRevealed
	s.GameOver = res.GameOver
	return res
}

// Messages returns the feedback log, oldest first.
func (s *Session) Messages() []Message { return s.messages }

func (s *Session) addMessage(now int64, text string) {
	s.messages = append(s.messages, Message{ID: s.seq.Next(ecs.KindFeedback), At: now, Text: text})
	if len(s.messages) > maxMessages {
		s.messages = s.messages[len(s.messages)-maxMessages:]
	}
}
