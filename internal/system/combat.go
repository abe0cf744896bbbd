package system

import (
	"github.com/zyedidia/generic/mapset"

	"ipne/internal/component"
	"ipne/internal/ecs"
	"ipne/internal/gamemap"
)

const (
	// AttackCooldownMs is the base player attack cooldown before the
	// AttackSpeed multiplier.
	AttackCooldownMs = 500
	// KnockbackMs is how long a struck enemy is stunned.
	KnockbackMs = 300
)

// AttackResult is the outcome of one player attack.
type AttackResult struct {
	Player  component.Player
	Enemies []component.Enemy
	Walls   []component.Wall
	// Attempted is false when the attack was still on cooldown.
	Attempted bool
	HitEnemy  ecs.EntityID
	HitWall   ecs.EntityID
	Killed    bool
	WallBroke bool
}

// Whiffed reports whether an attack went off without hitting anything.
func (r AttackResult) Whiffed() bool {
	return r.Attempted && r.HitEnemy == ecs.NilEntity && r.HitWall == ecs.NilEntity
}

// AttackCooldown returns the cooldown for the given AttackSpeed multiplier.
func AttackCooldown(attackSpeed float64) int64 {
	return int64(AttackCooldownMs * attackSpeed)
}

// PlayerAttack strikes along the player's facing for up to AttackRange tiles.
// A living enemy wins over a breakable wall on the same tile; any solid tile
// ends the scan. A whiff still consumes the cooldown.
func PlayerAttack(player component.Player, enemies []component.Enemy, terrain *Terrain, now int64) AttackResult {
	res := AttackResult{Player: player, Enemies: enemies, Walls: terrain.Walls}
	if now < player.AttackCooldownUntil {
		return res
	}
	res.Attempted = true
	res.Player.AttackCooldownUntil = now + AttackCooldown(player.Stats.AttackSpeed)

	p := player.Pos
	for range player.Stats.AttackRange {
		p = p.Step(player.Facing)
		if i, ok := enemyAt(enemies, p); ok {
			hit := DamageEnemy(enemies[i], player.Stats.AttackPower)
			res.Killed = !IsEnemyAlive(hit)
			if !res.Killed {
				hit = Knockback(hit, player.Facing, terrain, occupiedBy(enemies, player), now)
			}
			res.Enemies = append([]component.Enemy(nil), enemies...)
			res.Enemies[i] = hit
			res.HitEnemy = hit.ID
			return res
		}
		if i, ok := terrain.WallAt(p); ok {
			w := terrain.Walls[i]
			if w.Type == component.WallBreakable && w.State != component.WallBroken {
				w = DamageWall(w, player.Stats.AttackPower)
				res.Walls = replaceWall(terrain.Walls, i, w)
				res.HitWall = w.ID
				res.WallBroke = w.State == component.WallBroken
				return res
			}
		}
		if !terrain.Walkable(p) {
			break
		}
	}
	return res
}

// DamageEnemy subtracts dmg from the enemy's hp, never going below zero.
func DamageEnemy(e component.Enemy, dmg int) component.Enemy {
	e.HP = max(0, e.HP-max(0, dmg))
	return e
}

// IsEnemyAlive reports whether e has hp left.
func IsEnemyAlive(e component.Enemy) bool { return e.HP > 0 }

// Knockback pushes e one tile along dir when that tile is walkable and not
// in occupied. The knockback state and timer are set either way.
func Knockback(e component.Enemy, dir gamemap.Direction, terrain *Terrain, occupied mapset.Set[gamemap.Position], now int64) component.Enemy {
	if dest := e.Pos.Step(dir); terrain.Walkable(dest) && !occupied.Has(dest) {
		e.Pos = dest
	}
	e.State = component.StateKnockback
	e.KnockbackUntil = now + KnockbackMs
	return e
}

// DamageWall applies dmg to a breakable wall: Intact or Damaged goes to
// Damaged, or Broken once hp reaches zero. Other wall types are unchanged.
func DamageWall(w component.Wall, dmg int) component.Wall {
	if w.Type != component.WallBreakable || w.State == component.WallBroken || dmg <= 0 {
		return w
	}
	w.HP = max(0, w.HP-dmg)
	if w.HP == 0 {
		w.State = component.WallBroken
	} else {
		w.State = component.WallDamaged
	}
	return w
}

func enemyAt(enemies []component.Enemy, p gamemap.Position) (int, bool) {
	for i, e := range enemies {
		if e.Pos == p && e.Alive() {
			return i, true
		}
	}
	return 0, false
}

// occupiedBy collects the tiles held by the player and living enemies.
func occupiedBy(enemies []component.Enemy, player component.Player) mapset.Set[gamemap.Position] {
	s := mapset.New[gamemap.Position]()
	s.Put(player.Pos)
	for _, e := range enemies {
		if e.Alive() {
			s.Put(e.Pos)
		}
	}
	return s
}
