package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipne/internal/component"
	"ipne/internal/ecs"
	"ipne/internal/gamemap"
)

func attacker(x, y int, facing gamemap.Direction, power, rng int) component.Player {
	p := newPlayerAt(x, y)
	p.Facing = facing
	p.Stats.AttackPower = power
	p.Stats.AttackRange = rng
	return p
}

func TestPlayerAttackDamagesAndKnocksBack(t *testing.T) {
	e := newEnemy(7, component.EnemyPatrol, 6, 5)
	e.HP, e.MaxHP = 5, 5
	res := PlayerAttack(attacker(5, 5, gamemap.DirRight, 2, 1), []component.Enemy{e}, roomTerrain(12, 12), 1000)

	require.True(t, res.Attempted)
	assert.Equal(t, ecs.EntityID(7), res.HitEnemy)
	hit := res.Enemies[0]
	assert.Equal(t, 3, hit.HP)
	assert.Equal(t, pos(7, 5), hit.Pos)
	assert.Equal(t, component.StateKnockback, hit.State)
	assert.Equal(t, int64(1000+KnockbackMs), hit.KnockbackUntil)
	assert.Equal(t, int64(1000+AttackCooldownMs), res.Player.AttackCooldownUntil)
	assert.Equal(t, 5, e.HP, "input untouched")
}

func TestPlayerAttackKnockbackBlocked(t *testing.T) {
	e := newEnemy(1, component.EnemyPatrol, 10, 5)
	e.HP = 5
	res := PlayerAttack(attacker(9, 5, gamemap.DirRight, 1, 1), []component.Enemy{e}, roomTerrain(12, 12), 0)
	assert.Equal(t, pos(10, 5), res.Enemies[0].Pos, "border wall behind the enemy")
	assert.Equal(t, component.StateKnockback, res.Enemies[0].State)

	other := newEnemy(2, component.EnemyPatrol, 7, 5)
	e.Pos = pos(6, 5)
	res = PlayerAttack(attacker(5, 5, gamemap.DirRight, 1, 1), []component.Enemy{e, other}, roomTerrain(12, 12), 0)
	assert.Equal(t, pos(6, 5), res.Enemies[0].Pos, "occupied tile behind the enemy")
}

func TestPlayerAttackRangeAndWhiff(t *testing.T) {
	e := newEnemy(1, component.EnemyPatrol, 8, 5)
	e.HP = 5
	res := PlayerAttack(attacker(5, 5, gamemap.DirRight, 1, 3), []component.Enemy{e}, roomTerrain(12, 12), 0)
	assert.Equal(t, e.ID, res.HitEnemy)

	res = PlayerAttack(attacker(5, 5, gamemap.DirRight, 1, 2), []component.Enemy{e}, roomTerrain(12, 12), 0)
	assert.True(t, res.Whiffed())
	assert.Equal(t, int64(AttackCooldownMs), res.Player.AttackCooldownUntil, "whiffs consume cooldown")
	assert.Equal(t, 5, res.Enemies[0].HP)
}

func TestPlayerAttackOnCooldown(t *testing.T) {
	p := attacker(5, 5, gamemap.DirRight, 1, 1)
	p.AttackCooldownUntil = 600
	e := newEnemy(1, component.EnemyPatrol, 6, 5)
	res := PlayerAttack(p, []component.Enemy{e}, roomTerrain(12, 12), 500)
	assert.False(t, res.Attempted)
	assert.False(t, res.Whiffed())
	assert.Equal(t, 3, res.Enemies[0].HP)
	assert.Equal(t, int64(600), res.Player.AttackCooldownUntil)
}

func TestPlayerAttackCooldownScalesWithAttackSpeed(t *testing.T) {
	p := attacker(5, 5, gamemap.DirRight, 1, 1)
	p.Stats.AttackSpeed = 0.5
	res := PlayerAttack(p, nil, roomTerrain(12, 12), 100)
	assert.Equal(t, int64(100+AttackCooldownMs/2), res.Player.AttackCooldownUntil)
}

func TestPlayerAttackEnemyBeforeWall(t *testing.T) {
	wall := component.Wall{ID: 4, Pos: pos(7, 5), Type: component.WallBreakable, State: component.WallIntact, HP: 3}
	tr := roomTerrain(12, 12, wall)
	e := newEnemy(1, component.EnemyPatrol, 6, 5)
	e.HP = 5

	res := PlayerAttack(attacker(5, 5, gamemap.DirRight, 1, 3), []component.Enemy{e}, tr, 0)
	assert.Equal(t, e.ID, res.HitEnemy)
	assert.Equal(t, ecs.NilEntity, res.HitWall)

	// Wall in front shields the enemy behind it.
	e.Pos = pos(8, 5)
	res = PlayerAttack(attacker(5, 5, gamemap.DirRight, 1, 3), []component.Enemy{e}, tr, 0)
	assert.Equal(t, wall.ID, res.HitWall)
	assert.Equal(t, ecs.NilEntity, res.HitEnemy)
	assert.Equal(t, component.WallDamaged, res.Walls[0].State)
	assert.Equal(t, component.WallIntact, tr.Walls[0].State, "terrain walls untouched")
}

func TestPlayerAttackStopsAtSolidTile(t *testing.T) {
	g := roomTerrain(12, 12).Grid
	g.Set(pos(6, 5), gamemap.TileWall)
	e := newEnemy(1, component.EnemyPatrol, 7, 5)
	res := PlayerAttack(attacker(5, 5, gamemap.DirRight, 1, 3), []component.Enemy{e}, NewTerrain(g, nil), 0)
	assert.True(t, res.Whiffed())
}

func TestPlayerAttackKills(t *testing.T) {
	e := newEnemy(1, component.EnemyPatrol, 5, 4)
	e.HP = 1
	res := PlayerAttack(attacker(5, 5, gamemap.DirUp, 3, 1), []component.Enemy{e}, roomTerrain(12, 12), 0)
	assert.True(t, res.Killed)
	assert.Equal(t, 0, res.Enemies[0].HP)
	assert.False(t, IsEnemyAlive(res.Enemies[0]))
	assert.Equal(t, pos(5, 4), res.Enemies[0].Pos, "dead enemies are not knocked back")
}

func TestDamageEnemyClampsAtZero(t *testing.T) {
	e := newEnemy(1, component.EnemyPatrol, 0, 0)
	for _, dmg := range []int{0, 1, 2, 10} {
		got := DamageEnemy(e, dmg)
		assert.GreaterOrEqual(t, got.HP, 0)
		assert.Equal(t, got.HP > 0, IsEnemyAlive(got))
	}
	assert.Equal(t, 0, DamageEnemy(e, 10).HP)
	assert.Equal(t, 3, DamageEnemy(e, -4).HP, "negative damage is ignored")
}

func TestDamageWallStates(t *testing.T) {
	w := component.Wall{Type: component.WallBreakable, State: component.WallIntact, HP: 3}
	w = DamageWall(w, 2)
	assert.Equal(t, component.WallDamaged, w.State)
	assert.Equal(t, 1, w.HP)
	w = DamageWall(w, 2)
	assert.Equal(t, component.WallBroken, w.State)
	assert.Equal(t, 0, w.HP)
	assert.True(t, w.Traversable())
	assert.Equal(t, w, DamageWall(w, 1))

	inv := component.Wall{Type: component.WallInvisible, State: component.WallIntact}
	assert.Equal(t, inv, DamageWall(inv, 5))
}
