package component

import (
	"errors"
	"fmt"

	"ipne/internal/ecs"
	"ipne/internal/gamemap"
)

// ErrUnknownEnemyType is returned when an enemy type tag is not recognized.
var ErrUnknownEnemyType = errors.New("unknown enemy type")

// EnemyType is the archetype tag the AI registry dispatches on.
type EnemyType uint8

const (
	EnemyPatrol EnemyType = iota
	EnemyCharge
	EnemyRanged
	EnemySpecimen
	EnemyMiniBoss
	EnemyBoss
	EnemyMegaBoss
)

var enemyTypeNames = map[EnemyType]string{
	EnemyPatrol:   "patrol",
	EnemyCharge:   "charge",
	EnemyRanged:   "ranged",
	EnemySpecimen: "specimen",
	EnemyMiniBoss: "mini_boss",
	EnemyBoss:     "boss",
	EnemyMegaBoss: "mega_boss",
}

func (t EnemyType) String() string {
	if s, ok := enemyTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("EnemyType(%d)", uint8(t))
}

// ParseEnemyType maps a tag such as "charge" to its EnemyType.
func ParseEnemyType(s string) (EnemyType, error) {
	for t, name := range enemyTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEnemyType, s)
}

// Valid reports whether t is one of the declared archetypes.
func (t EnemyType) Valid() bool {
	_, ok := enemyTypeNames[t]
	return ok
}

// IsBossFamily reports whether t is one of the boss archetypes.
func (t EnemyType) IsBossFamily() bool {
	return t == EnemyMiniBoss || t == EnemyBoss || t == EnemyMegaBoss
}

// MarshalText implements encoding.TextMarshaler.
func (t EnemyType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEnemyType, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EnemyType) UnmarshalText(b []byte) error {
	v, err := ParseEnemyType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// EnemyState is the behavioral state driven by the AI policies.
type EnemyState uint8

const (
	StateIdle EnemyState = iota
	StatePatrol
	StateChase
	StateReturn
	StateFlee
	StateKnockback
)

func (s EnemyState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateReturn:
		return "return"
	case StateFlee:
		return "flee"
	case StateKnockback:
		return "knockback"
	}
	return "unknown"
}

// Enemy is a hostile actor. Timers are absolute milliseconds on the caller's
// clock.
type Enemy struct {
	ID     ecs.EntityID
	Pos    gamemap.Position
	Type   EnemyType
	HP     int
	MaxHP  int
	Damage int
	Speed  float64 // tiles per second

	DetectionRange int
	ChaseRange     int
	AttackRange    int

	State               EnemyState
	LastMoveAt          int64
	AttackCooldownUntil int64
	LastSeenAt          int64
	KnockbackUntil      int64

	PatrolPath  []gamemap.Position
	PatrolIndex int
	Home        gamemap.Position
}

// Alive reports whether the enemy still has hp.
func (e Enemy) Alive() bool { return e.HP > 0 }

// MoveInterval returns the minimum milliseconds between two steps.
func (e Enemy) MoveInterval() int64 {
	if e.Speed <= 0 {
		return 1 << 62
	}
	return int64(1000 / e.Speed)
}
