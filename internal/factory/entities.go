// Package factory builds fully initialized entities from generation output.
package factory

import (
	"fmt"
	"math"

	"ipne/internal/component"
	"ipne/internal/ecs"
	"ipne/internal/gamemap"
	"ipne/internal/generate"
	"ipne/internal/stage"
)

const (
	// PlayerBaseHP is the hp a fresh player starts with.
	PlayerBaseHP = 10
	// BreakableWallHP is how many hits a breakable wall absorbs.
	BreakableWallHP = 3

	bossBaseHP     = 40
	bossHPPerStage = 15

	healSmall = 3
	healLarge = 6
)

type enemyBase struct {
	hp, damage    int
	speed         float64
	detect, chase int
	attack        int
}

var enemyBases = map[component.EnemyType]enemyBase{
	component.EnemyPatrol:   {hp: 3, damage: 1, speed: 1.0, detect: 5, chase: 8, attack: 1},
	component.EnemyCharge:   {hp: 4, damage: 2, speed: 1.5, detect: 6, chase: 10, attack: 1},
	component.EnemyRanged:   {hp: 2, damage: 1, speed: 1.0, detect: 7, chase: 10, attack: 4},
	component.EnemySpecimen: {hp: 1, damage: 0, speed: 2.0, detect: 4, chase: 6, attack: 0},
	component.EnemyMiniBoss: {damage: 2, speed: 1.2, detect: 8, chase: 14, attack: 2},
	component.EnemyBoss:     {damage: 3, speed: 1.2, detect: 8, chase: 14, attack: 2},
	component.EnemyMegaBoss: {damage: 4, speed: 1.2, detect: 8, chase: 14, attack: 2},
}

// BossHP returns the hp of a boss-family enemy on the given stage.
func BossHP(stageNum int) int {
	return bossBaseHP + stageNum*bossHPPerStage
}

// NewEnemy creates an enemy of typ at pos, scaled for the stage. Boss-family
// hp follows BossHP and ignores the hp multiplier.
func NewEnemy(seq *ecs.Sequence, typ component.EnemyType, pos gamemap.Position, stageNum int, scale stage.Scaling) (component.Enemy, error) {
	base, ok := enemyBases[typ]
	if !ok {
		return component.Enemy{}, fmt.Errorf("new enemy: %w: %d", component.ErrUnknownEnemyType, uint8(typ))
	}
	hp := scaled(base.hp, scale.HP)
	if typ.IsBossFamily() {
		hp = BossHP(stageNum)
	}
	speed := base.speed
	if scale.Speed > 0 {
		speed *= scale.Speed
	}
	return component.Enemy{
		ID:             seq.Next(ecs.KindEnemy),
		Pos:            pos,
		Type:           typ,
		HP:             hp,
		MaxHP:          hp,
		Damage:         scaled(base.damage, scale.Damage),
		Speed:          speed,
		DetectionRange: base.detect,
		ChaseRange:     base.chase,
		AttackRange:    base.attack,
		State:          component.StateIdle,
		Home:           pos,
	}, nil
}

// NewEnemyFromSpawn creates an enemy from a spawn record, carrying over its
// patrol path.
func NewEnemyFromSpawn(seq *ecs.Sequence, sp generate.EnemySpawn, stageNum int, scale stage.Scaling) (component.Enemy, error) {
	e, err := NewEnemy(seq, sp.Type, sp.Pos, stageNum, scale)
	if err != nil {
		return e, err
	}
	if len(sp.PatrolPath) > 0 {
		e.PatrolPath = append([]gamemap.Position(nil), sp.PatrolPath...)
		e.State = component.StatePatrol
	}
	return e, nil
}

// scaled multiplies v and rounds, keeping any non-zero base at least 1.
func scaled(v int, mult float64) int {
	if mult <= 0 {
		mult = 1
	}
	out := int(math.Round(float64(v) * mult))
	if v > 0 && out < 1 {
		out = 1
	}
	return out
}

// NewPlayer creates the player at pos with level-1 stats. now seeds the
// regeneration clock.
func NewPlayer(pos gamemap.Position, now int64) component.Player {
	return component.Player{
		Pos:         pos,
		Facing:      gamemap.DirDown,
		HP:          PlayerBaseHP,
		MaxHP:       PlayerBaseHP,
		Level:       1,
		Stats:       component.DefaultStats(),
		LastRegenAt: now,
		LastMoveAt:  math.MinInt64 / 2,
	}
}

// NewItem creates an item of typ at pos.
func NewItem(seq *ecs.Sequence, typ component.ItemType, pos gamemap.Position) (component.Item, error) {
	it := component.Item{Pos: pos, Type: typ}
	switch typ {
	case component.ItemHealthSmall:
		it.HealAmount = healSmall
	case component.ItemHealthLarge:
		it.HealAmount = healLarge
	case component.ItemHealthFull, component.ItemLevelUp, component.ItemMapReveal, component.ItemKey:
		// Full heals restore to max; the amount is resolved at pickup.
	default:
		return component.Item{}, fmt.Errorf("new item: %w: %d", component.ErrUnknownItemType, uint8(typ))
	}
	it.ID = seq.Next(ecs.KindItem)
	return it, nil
}

// NewTrap creates a hidden trap of typ at pos.
func NewTrap(seq *ecs.Sequence, typ component.TrapType, pos gamemap.Position) (component.Trap, error) {
	switch typ {
	case component.TrapDamage, component.TrapSlow, component.TrapTeleport:
	default:
		return component.Trap{}, fmt.Errorf("new trap: %w: %d", component.ErrUnknownTrapType, uint8(typ))
	}
	return component.Trap{
		ID:    seq.Next(ecs.KindTrap),
		Pos:   pos,
		Type:  typ,
		State: component.TrapHidden,
	}, nil
}

// NewWall creates an intact gimmick wall. Only breakable walls carry hp.
func NewWall(seq *ecs.Sequence, typ component.WallType, pos gamemap.Position, pattern component.WallPattern) (component.Wall, error) {
	w := component.Wall{Pos: pos, Type: typ, State: component.WallIntact, Pattern: pattern}
	switch typ {
	case component.WallBreakable:
		w.HP = BreakableWallHP
	case component.WallNormal, component.WallPassable, component.WallInvisible:
	default:
		return component.Wall{}, fmt.Errorf("new wall: %w: %d", component.ErrUnknownWallType, uint8(typ))
	}
	w.ID = seq.Next(ecs.KindWall)
	return w, nil
}
