package system

import (
	"ipne/internal/component"
	"ipne/internal/gamemap"
)

const (
	// InvincibilityMs is the grace period after the player takes damage.
	InvincibilityMs = 1000

	baseRegenIntervalMs = 10000
	regenStepMs         = 1000
	minRegenIntervalMs  = 3000
)

// DamageResult is the outcome of ResolvePlayerDamage.
type DamageResult struct {
	Player component.Player
	// Applied is true when hp actually dropped.
	Applied bool
	// Dodged is true when invincibility swallowed the hit.
	Dodged bool
	// KnockedBack is true when a contact hit moved the player.
	KnockedBack bool
}

// ResolvePlayerDamage applies hit to the player and starts invincibility.
// Contact hits also push the player one tile away from the source when terrain
// is supplied and the tile is walkable and free of living enemies.
func ResolvePlayerDamage(p component.Player, hit Hit, terrain *Terrain, enemies []component.Enemy, now int64) DamageResult {
	res := DamageResult{Player: p}
	if !hit.Landed() {
		return res
	}
	if p.Invincible(now) {
		res.Dodged = true
		return res
	}
	p.HP = max(0, p.HP-hit.Damage)
	p.InvincibleUntil = now + InvincibilityMs
	res.Applied = true

	if hit.Contact && terrain != nil && p.Alive() {
		dir, ok := gamemap.DirectionToward(hit.From, p.Pos)
		if !ok {
			// Same tile: the player walked into the enemy, so back out.
			dir = p.Facing.Opposite()
		}
		dest := p.Pos.Step(dir)
		if _, blocked := enemyAt(enemies, dest); terrain.Walkable(dest) && !blocked {
			p.Pos = dest
			res.KnockedBack = true
		}
	}
	res.Player = p
	return res
}

// RegenInterval returns the milliseconds between two regeneration ticks for
// a heal bonus.
func RegenInterval(healBonus int) int64 {
	return max(minRegenIntervalMs, baseRegenIntervalMs-int64(healBonus)*regenStepMs)
}

// ApplyRegen restores one hp once the regeneration interval has elapsed.
// At full hp the timer is held at now so healing restarts a full interval
// after the next hit.
func ApplyRegen(p component.Player, now int64) (component.Player, bool) {
	if !p.Alive() {
		return p, false
	}
	if p.HP >= p.MaxHP {
		p.LastRegenAt = now
		return p, false
	}
	if now-p.LastRegenAt < RegenInterval(p.Stats.HealBonus) {
		return p, false
	}
	p.HP++
	p.LastRegenAt = now
	return p, true
}
