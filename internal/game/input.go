package game

import (
	"github.com/gdamore/tcell/v2"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

// Action represents a player-requested game action.
type Action uint8

const (
	ActionNone Action = iota
	ActionMoveN
	ActionMoveS
	ActionMoveE
	ActionMoveW
	ActionAttack
	ActionExit
	ActionUpgradePower
	ActionUpgradeRange
	ActionUpgradeMoveSpeed
	ActionUpgradeAttackSpeed
	ActionUpgradeHeal
	ActionRestart
	ActionQuit
)

// keyToAction maps a tcell key event to a game action.
func keyToAction(ev *tcell.EventKey) Action {
	// Named keys.
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionMoveN
	case tcell.KeyDown:
		return ActionMoveS
	case tcell.KeyRight:
		return ActionMoveE
	case tcell.KeyLeft:
		return ActionMoveW
	case tcell.KeyEnter:
		return ActionExit
	case tcell.KeyEscape:
		return ActionQuit
	}

	// Rune keys.
	switch ev.Rune() {
	case 'k', 'K', 'w', 'W':
		return ActionMoveN
	case 'j', 'J', 's', 'S':
		return ActionMoveS
	case 'l', 'L', 'd', 'D':
		return ActionMoveE
	case 'h', 'H', 'a', 'A':
		return ActionMoveW
	case ' ', 'f', 'F':
		return ActionAttack
	case '>':
		return ActionExit
	case '1':
		return ActionUpgradePower
	case '2':
		return ActionUpgradeRange
	case '3':
		return ActionUpgradeMoveSpeed
	case '4':
		return ActionUpgradeAttackSpeed
	case '5':
		return ActionUpgradeHeal
	case 'r', 'R':
		return ActionRestart
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}

// actionDirection converts a movement action to a direction.
func actionDirection(a Action) (gamemap.Direction, bool) {
	switch a {
	case ActionMoveN:
		return gamemap.DirUp, true
	case ActionMoveS:
		return gamemap.DirDown, true
	case ActionMoveE:
		return gamemap.DirRight, true
	case ActionMoveW:
		return gamemap.DirLeft, true
	}
	return 0, false
}

// actionStat converts an upgrade action to the stat it raises.
func actionStat(a Action) (component.StatKind, bool) {
	switch a {
	case ActionUpgradePower:
		return component.StatAttackPower, true
	case ActionUpgradeRange:
		return component.StatAttackRange, true
	case ActionUpgradeMoveSpeed:
		return component.StatMoveSpeed, true
	case ActionUpgradeAttackSpeed:
		return component.StatAttackSpeed, true
	case ActionUpgradeHeal:
		return component.StatHealBonus, true
	}
	return 0, false
}
