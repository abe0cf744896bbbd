package game

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

func TestKeyToAction(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want Action
	}{
		{tcell.KeyUp, 0, ActionMoveN},
		{tcell.KeyLeft, 0, ActionMoveW},
		{tcell.KeyEnter, 0, ActionExit},
		{tcell.KeyEscape, 0, ActionQuit},
		{tcell.KeyRune, 'j', ActionMoveS},
		{tcell.KeyRune, 'd', ActionMoveE},
		{tcell.KeyRune, ' ', ActionAttack},
		{tcell.KeyRune, '>', ActionExit},
		{tcell.KeyRune, '3', ActionUpgradeMoveSpeed},
		{tcell.KeyRune, 'R', ActionRestart},
		{tcell.KeyRune, 'x', ActionNone},
	}
	for _, tt := range tests {
		got := keyToAction(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone))
		assert.Equal(t, tt.want, got, "key=%v rune=%q", tt.key, tt.r)
	}
}

func TestActionDirectionAndStat(t *testing.T) {
	d, ok := actionDirection(ActionMoveW)
	assert.True(t, ok)
	assert.Equal(t, gamemap.DirLeft, d)
	_, ok = actionDirection(ActionAttack)
	assert.False(t, ok)

	s, ok := actionStat(ActionUpgradeHeal)
	assert.True(t, ok)
	assert.Equal(t, component.StatHealBonus, s)
	_, ok = actionStat(ActionMoveN)
	assert.False(t, ok)
}
