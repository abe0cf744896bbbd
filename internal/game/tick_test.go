package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipne/internal/component"
	"ipne/internal/ecs"
	"ipne/internal/factory"
	"ipne/internal/gamemap"
	"ipne/internal/stage"
	"ipne/internal/system"
)

func pos(x, y int) gamemap.Position { return gamemap.Position{X: x, Y: y} }

// floorGrid is a w×h grid with every tile walkable.
func floorGrid(w, h int) *gamemap.Grid {
	g := gamemap.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(pos(x, y), gamemap.TileFloor)
		}
	}
	return g
}

func newPlayer(x, y int) component.Player { return factory.NewPlayer(pos(x, y), 0) }

func newEnemy(t *testing.T, typ component.EnemyType, x, y int) component.Enemy {
	t.Helper()
	e, err := factory.NewEnemy(ecs.NewSequence(), typ, pos(x, y), 1, stage.Scaling{HP: 1, Damage: 1, Speed: 1})
	require.NoError(t, err)
	return e
}

func effectTypes(effects []Effect) []EffectType {
	out := make([]EffectType, len(effects))
	for i, e := range effects {
		out[i] = e.Type
	}
	return out
}

func TestTickPatrolOutOfReach(t *testing.T) {
	enemy := newEnemy(t, component.EnemyPatrol, 4, 4)
	res := Tick(TickInput{
		Grid:     floorGrid(7, 7),
		Player:   newPlayer(2, 2),
		Enemies:  []component.Enemy{enemy},
		Now:      16,
		MaxLevel: 5,
		Rand:     rand.New(rand.NewSource(1)),
	}, DefaultDeps())

	assert.False(t, res.GameOver)
	assert.False(t, HasEffect(res.Effects, SoundPlayerDamage))
	assert.False(t, HasEffect(res.Effects, SoundDodge))
	assert.Equal(t, 10, res.Player.HP)
	require.Len(t, res.Enemies, 1)
	assert.Greater(t, gamemap.Manhattan(res.Enemies[0].Pos, res.Player.Pos), 1)
}

func TestTickDamageTrap(t *testing.T) {
	trap := component.Trap{ID: 1, Pos: pos(2, 2), Type: component.TrapDamage}
	traps := []component.Trap{trap}
	res := Tick(TickInput{
		Grid:   floorGrid(7, 7),
		Player: newPlayer(2, 2),
		Traps:  traps,
		Now:    100,
	}, Deps{})

	assert.Equal(t, 8, res.Player.HP)
	assert.Equal(t, []EffectType{SoundTrapTriggered, SoundPlayerDamage}, effectTypes(res.Effects))
	assert.Equal(t, component.TrapTriggered, res.Traps[0].State)
	assert.Equal(t, component.TrapHidden, traps[0].State, "input untouched")
	assert.True(t, res.Player.Invincible(100))

	again := Tick(TickInput{Grid: floorGrid(7, 7), Player: res.Player, Traps: res.Traps, Now: 5000}, Deps{})
	assert.Equal(t, 8, again.Player.HP, "damage traps fire once")
	assert.Empty(t, again.Effects)
}

func TestTickGameOver(t *testing.T) {
	p := newPlayer(3, 3)
	p.HP = 1
	enemy := newEnemy(t, component.EnemyPatrol, 4, 3)
	enemy.LastMoveAt = 1000

	res := Tick(TickInput{
		Grid:    floorGrid(7, 7),
		Player:  p,
		Enemies: []component.Enemy{enemy},
		Now:     1000,
	}, DefaultDeps())

	assert.True(t, res.GameOver)
	assert.Equal(t, 0, res.Player.HP)
	assert.Equal(t, []EffectType{SoundPlayerDamage, SoundDying, DisplayGameOver, SaveRecord}, effectTypes(res.Effects))
	assert.Equal(t, KindSave, res.Effects[3].Kind)
	assert.Equal(t, int64(1000+system.EnemyAttackCooldownMs), res.Enemies[0].AttackCooldownUntil)
}

func TestTickInvincibleDodges(t *testing.T) {
	p := newPlayer(3, 3)
	p.InvincibleUntil = 1500
	enemy := newEnemy(t, component.EnemyPatrol, 4, 3)
	enemy.LastMoveAt = 1000

	res := Tick(TickInput{Grid: floorGrid(7, 7), Player: p, Enemies: []component.Enemy{enemy}, Now: 1000}, Deps{})
	assert.False(t, res.GameOver)
	assert.Equal(t, 10, res.Player.HP)
	assert.Equal(t, []EffectType{SoundDodge}, effectTypes(res.Effects))
}

func TestTickExpiresInvincibility(t *testing.T) {
	p := newPlayer(3, 3)
	p.InvincibleUntil = 500
	res := Tick(TickInput{Grid: floorGrid(7, 7), Player: p, Now: 1000}, Deps{})
	assert.Zero(t, res.Player.InvincibleUntil)
}

func TestTickPickups(t *testing.T) {
	p := newPlayer(3, 3)
	p.HP = 5
	items := []component.Item{
		{ID: 1, Pos: pos(3, 3), Type: component.ItemHealthSmall, HealAmount: 3},
		{ID: 2, Pos: pos(3, 3), Type: component.ItemLevelUp},
		{ID: 3, Pos: pos(3, 3), Type: component.ItemMapReveal},
		{ID: 4, Pos: pos(3, 3), Type: component.ItemKey},
		{ID: 5, Pos: pos(1, 1), Type: component.ItemKey},
	}
	traps := []component.Trap{{ID: 1, Pos: pos(5, 5), Type: component.TrapSlow}}

	res := Tick(TickInput{
		Grid:     floorGrid(7, 7),
		Player:   p,
		Items:    items,
		Traps:    traps,
		Now:      1000,
		MaxLevel: 5,
	}, Deps{})

	assert.Equal(t, []EffectType{
		SoundItemPickup, SoundHeal,
		SoundItemPickup,
		SoundItemPickup,
		SoundItemPickup, SoundKeyPickup,
		DisplayMapRevealed,
		SoundLevelUp,
	}, effectTypes(res.Effects))
	assert.Equal(t, 8, res.Player.HP)
	assert.True(t, res.Player.HasKey)
	assert.True(t, res.MapRevealed)
	assert.Equal(t, 1, res.PendingLevelPoints)
	assert.Equal(t, component.TrapRevealed, res.Traps[0].State)
	require.Len(t, res.Items, 1)
	assert.Equal(t, ecs.EntityID(5), res.Items[0].ID)
}

func TestTickLevelPointCap(t *testing.T) {
	p := newPlayer(3, 3)
	p.Level = 4
	items := []component.Item{
		{ID: 1, Pos: pos(3, 3), Type: component.ItemLevelUp},
		{ID: 2, Pos: pos(3, 3), Type: component.ItemLevelUp},
	}
	res := Tick(TickInput{Grid: floorGrid(7, 7), Player: p, Items: items, PendingLevelPoints: 0, MaxLevel: 5}, Deps{})
	assert.Equal(t, 1, res.PendingLevelPoints)
	assert.Empty(t, res.Items, "capped level-ups are still consumed")

	res = Tick(TickInput{Grid: floorGrid(7, 7), Player: p, Items: items, PendingLevelPoints: 1, MaxLevel: 5}, Deps{})
	assert.Equal(t, 1, res.PendingLevelPoints)
	assert.False(t, HasEffect(res.Effects, SoundLevelUp))
}

func TestTickRegenerates(t *testing.T) {
	p := newPlayer(3, 3)
	p.HP = 4
	res := Tick(TickInput{Grid: floorGrid(7, 7), Player: p, Now: 10000}, Deps{})
	assert.Equal(t, 5, res.Player.HP)
	assert.Empty(t, res.Effects)
}

type scriptedEnemies struct {
	hit   system.Hit
	calls int
}

func (s *scriptedEnemies) UpdateEnemies(enemies []component.Enemy, _ component.Player, _ *system.Terrain, _ int64, _ *rand.Rand) system.ContactResult {
	s.calls++
	return system.ContactResult{Enemies: enemies, Hit: s.hit}
}

type recordingDamage struct {
	hits      []system.Hit
	terrained []bool
}

func (r *recordingDamage) ResolveDamage(p component.Player, hit system.Hit, terrain *system.Terrain, enemies []component.Enemy, now int64) system.DamageResult {
	r.hits = append(r.hits, hit)
	r.terrained = append(r.terrained, terrain != nil)
	return system.ResolvePlayerDamage(p, hit, terrain, enemies, now)
}

func TestTickUsesInjectedDeps(t *testing.T) {
	enemies := &scriptedEnemies{hit: system.Hit{Damage: 3, SourceID: 9, From: pos(4, 3), Contact: true}}
	damage := &recordingDamage{}

	res := Tick(TickInput{Grid: floorGrid(7, 7), Player: newPlayer(3, 3), Now: 50}, Deps{Enemies: enemies, Damage: damage})

	assert.Equal(t, 1, enemies.calls)
	require.Len(t, damage.hits, 1)
	assert.True(t, damage.terrained[0], "contact hits carry terrain for knockback")
	assert.Equal(t, 7, res.Player.HP)
	assert.Equal(t, pos(2, 3), res.Player.Pos)

	damage = &recordingDamage{}
	enemies.hit.Contact = false
	Tick(TickInput{Grid: floorGrid(7, 7), Player: newPlayer(3, 3), Now: 50}, Deps{Enemies: enemies, Damage: damage})
	require.Len(t, damage.hits, 1)
	assert.False(t, damage.terrained[0], "ranged hits never push")
}
