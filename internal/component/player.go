package component

import "ipne/internal/gamemap"

// Stat caps. AttackPower is deliberately uncapped.
const (
	MaxAttackRange = 3
	MaxMoveSpeed   = 2.0
	MinAttackSpeed = 0.5
	MaxHealBonus   = 5
)

// Stats is the player's upgradeable stat block.
type Stats struct {
	AttackPower int
	AttackRange int
	MoveSpeed   float64 // multiplier on base movement cadence
	AttackSpeed float64 // multiplier on attack cooldown; lower is faster
	HealBonus   int
}

// DefaultStats is the level-1 stat block.
func DefaultStats() Stats {
	return Stats{AttackPower: 1, AttackRange: 1, MoveSpeed: 1.0, AttackSpeed: 1.0, HealBonus: 0}
}

// StatKind names one upgradeable stat.
type StatKind uint8

const (
	StatAttackPower StatKind = iota
	StatAttackRange
	StatMoveSpeed
	StatAttackSpeed
	StatHealBonus
)

func (k StatKind) String() string {
	switch k {
	case StatAttackPower:
		return "attack_power"
	case StatAttackRange:
		return "attack_range"
	case StatMoveSpeed:
		return "move_speed"
	case StatAttackSpeed:
		return "attack_speed"
	case StatHealBonus:
		return "heal_bonus"
	}
	return "unknown"
}

// Player is the single player-controlled actor.
type Player struct {
	Pos    gamemap.Position
	Facing gamemap.Direction
	HP     int
	MaxHP  int
	Level  int
	Stats  Stats
	HasKey bool

	InvincibleUntil     int64
	AttackCooldownUntil int64
	LastRegenAt         int64
	SlowedUntil         int64
	LastMoveAt          int64
}

// Alive reports whether the player still has hp.
func (p Player) Alive() bool { return p.HP > 0 }

// Invincible reports whether damage is ignored at time now.
func (p Player) Invincible(now int64) bool { return now < p.InvincibleUntil }

// Slowed reports whether a slow effect is active at time now.
func (p Player) Slowed(now int64) bool { return now < p.SlowedUntil }
