package system

import (
	"errors"
	"fmt"

	"ipne/internal/component"
)

var (
	// ErrNoLevelPoints is returned when an upgrade is requested with no
	// pending level points.
	ErrNoLevelPoints = errors.New("no pending level points")
	// ErrStatCapped is returned when the stat is already at its cap.
	ErrStatCapped = errors.New("stat already at cap")
)

const (
	moveSpeedStep   = 0.2
	attackSpeedStep = 0.1
	capEpsilon      = 1e-9
)

// ApplyStatUpgrade spends one pending level point on kind and returns the
// new player and remaining points.
func ApplyStatUpgrade(p component.Player, pending int, kind component.StatKind) (component.Player, int, error) {
	if pending <= 0 {
		return p, pending, ErrNoLevelPoints
	}
	s := &p.Stats
	switch kind {
	case component.StatAttackPower:
		s.AttackPower++
	case component.StatAttackRange:
		if s.AttackRange >= component.MaxAttackRange {
			return p, pending, fmt.Errorf("%v: %w", kind, ErrStatCapped)
		}
		s.AttackRange++
	case component.StatMoveSpeed:
		if s.MoveSpeed >= component.MaxMoveSpeed-capEpsilon {
			return p, pending, fmt.Errorf("%v: %w", kind, ErrStatCapped)
		}
		s.MoveSpeed = min(s.MoveSpeed+moveSpeedStep, component.MaxMoveSpeed)
	case component.StatAttackSpeed:
		if s.AttackSpeed <= component.MinAttackSpeed+capEpsilon {
			return p, pending, fmt.Errorf("%v: %w", kind, ErrStatCapped)
		}
		s.AttackSpeed = max(s.AttackSpeed-attackSpeedStep, component.MinAttackSpeed)
	case component.StatHealBonus:
		if s.HealBonus >= component.MaxHealBonus {
			return p, pending, fmt.Errorf("%v: %w", kind, ErrStatCapped)
		}
		s.HealBonus++
	default:
		return p, pending, fmt.Errorf("unknown stat kind %d", uint8(kind))
	}
	p.Level++
	return p, pending - 1, nil
}
