package system

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"ipne/internal/component"
	"ipne/internal/ecs"
	"ipne/internal/gamemap"
)

// EnemyAttackCooldownMs is the pause between two hits by the same enemy.
const EnemyAttackCooldownMs = 1000

// Hit is damage headed for the player. Contact hits come from an enemy
// sharing the player's tile and carry knockback; in-place attacks do not.
type Hit struct {
	Damage   int
	SourceID ecs.EntityID
	From     gamemap.Position
	Contact  bool
}

// Landed reports whether the hit carries any damage.
func (h Hit) Landed() bool { return h.Damage > 0 }

// ContactResult is the outcome of one enemy pass.
type ContactResult struct {
	Enemies []component.Enemy
	Hit     Hit
}

// UpdateEnemiesWithContact advances every living enemy by one tick: knockback
// timers, AI on its movement cadence with occupancy blocking, then the single
// hit the player takes this tick. Contact beats in-place attacks; within each
// kind the highest damage wins. Dead enemies are dropped from the result.
func UpdateEnemiesWithContact(enemies []component.Enemy, player component.Player, terrain *Terrain,
	now int64, rng *rand.Rand, reg *PolicyRegistry) ContactResult {
	out := make([]component.Enemy, 0, len(enemies))
	occupied := mapset.New[gamemap.Position]()
	occupied.Put(player.Pos)
	for _, e := range enemies {
		if e.Alive() {
			out = append(out, e)
			occupied.Put(e.Pos)
		}
	}

	for i := range out {
		e := out[i]
		if e.State == component.StateKnockback {
			if now < e.KnockbackUntil {
				continue
			}
			e.State = component.StateIdle
		}
		if now-e.LastMoveAt < e.MoveInterval() {
			out[i] = e
			continue
		}
		next := reg.Update(AIContext{Enemy: e, Player: player, Terrain: terrain, Now: now, Rand: rng, Blocked: occupied.Has})
		if next.Pos != e.Pos {
			if occupied.Has(next.Pos) {
				next.Pos = e.Pos
			} else {
				occupied.Remove(e.Pos)
				occupied.Put(next.Pos)
				next.LastMoveAt = now
			}
		}
		out[i] = next
	}

	contact, attack := -1, -1
	for i, e := range out {
		if e.Damage <= 0 || now < e.AttackCooldownUntil {
			continue
		}
		d := gamemap.Manhattan(e.Pos, player.Pos)
		switch {
		case d == 0:
			if contact < 0 || e.Damage > out[contact].Damage {
				contact = i
			}
		case d <= e.AttackRange && e.State != component.StateKnockback:
			if attack < 0 || e.Damage > out[attack].Damage {
				attack = i
			}
		}
	}

	res := ContactResult{Enemies: out}
	src := contact
	if src < 0 {
		src = attack
	}
	if src >= 0 {
		out[src].AttackCooldownUntil = now + EnemyAttackCooldownMs
		res.Hit = Hit{
			Damage:   out[src].Damage,
			SourceID: out[src].ID,
			From:     out[src].Pos,
			Contact:  src == contact,
		}
	}
	return res
}
