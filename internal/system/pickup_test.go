package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipne/internal/component"
)

func TestResolveItemPickup(t *testing.T) {
	p := newPlayerAt(3, 3)
	p.HP = 4
	items := []component.Item{
		{ID: 1, Pos: pos(3, 3), Type: component.ItemHealthSmall, HealAmount: 3},
		{ID: 2, Pos: pos(3, 3), Type: component.ItemLevelUp},
		{ID: 3, Pos: pos(4, 3), Type: component.ItemHealthLarge, HealAmount: 6},
		{ID: 4, Pos: pos(3, 3), Type: component.ItemMapReveal},
		{ID: 5, Pos: pos(3, 3), Type: component.ItemKey},
	}
	res := ResolveItemPickup(p, items)

	require.Len(t, res.Events, 4)
	assert.Equal(t, 3, res.Events[0].Healed)
	assert.Equal(t, 7, res.Player.HP)
	assert.Equal(t, 1, res.LevelUps)
	assert.True(t, res.MapRevealed)
	assert.True(t, res.KeyPicked)
	assert.True(t, res.Player.HasKey)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 3, int(res.Items[0].ID))
	assert.Len(t, items, 5, "input untouched")
}

func TestResolveItemPickupHealCapsAtMax(t *testing.T) {
	p := newPlayerAt(1, 1)
	p.HP = 9
	res := ResolveItemPickup(p, []component.Item{
		{ID: 1, Pos: pos(1, 1), Type: component.ItemHealthLarge, HealAmount: 6},
		{ID: 2, Pos: pos(1, 1), Type: component.ItemHealthFull},
	})
	assert.Equal(t, 10, res.Player.HP)
	assert.Equal(t, 1, res.Healed)
	assert.Equal(t, 0, res.Events[1].Healed)

	p.HP = 2
	res = ResolveItemPickup(p, []component.Item{{ID: 3, Pos: pos(1, 1), Type: component.ItemHealthFull}})
	assert.Equal(t, 10, res.Player.HP)
	assert.Equal(t, 8, res.Healed)
}

func TestResolveItemPickupNothingHere(t *testing.T) {
	p := newPlayerAt(1, 1)
	res := ResolveItemPickup(p, []component.Item{{ID: 1, Pos: pos(2, 2)}})
	assert.Empty(t, res.Events)
	assert.Equal(t, p, res.Player)
	assert.Len(t, res.Items, 1)
}
