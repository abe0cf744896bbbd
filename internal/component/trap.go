package component

import (
	"errors"
	"fmt"

	"ipne/internal/ecs"
	"ipne/internal/gamemap"
)

// ErrUnknownTrapType is returned when a trap type tag is not recognized.
var ErrUnknownTrapType = errors.New("unknown trap type")

// TrapType selects what a trap does when triggered.
type TrapType uint8

const (
	TrapDamage TrapType = iota
	TrapSlow
	TrapTeleport
)

func (t TrapType) String() string {
	switch t {
	case TrapDamage:
		return "damage"
	case TrapSlow:
		return "slow"
	case TrapTeleport:
		return "teleport"
	}
	return fmt.Sprintf("TrapType(%d)", uint8(t))
}

// ParseTrapType maps a tag such as "slow" to its TrapType.
func ParseTrapType(s string) (TrapType, error) {
	switch s {
	case "damage":
		return TrapDamage, nil
	case "slow":
		return TrapSlow, nil
	case "teleport":
		return TrapTeleport, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTrapType, s)
}

// Reusable reports whether the trap re-arms after its cooldown.
func (t TrapType) Reusable() bool { return t != TrapDamage }

// TrapState is the visibility/trigger state of a trap.
type TrapState uint8

const (
	TrapHidden TrapState = iota
	TrapRevealed
	TrapTriggered
)

func (s TrapState) String() string {
	switch s {
	case TrapHidden:
		return "hidden"
	case TrapRevealed:
		return "revealed"
	case TrapTriggered:
		return "triggered"
	}
	return "unknown"
}

// Trap is a floor gimmick. CooldownUntil is zero until a reusable trap fires.
type Trap struct {
	ID            ecs.EntityID
	Pos           gamemap.Position
	Type          TrapType
	State         TrapState
	CooldownUntil int64
}
