package system

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

const (
	// TrapDamageAmount is the hp a damage trap removes.
	TrapDamageAmount   = 2
	SlowDurationMs     = 3000
	SlowCooldownMs     = 3000
	TeleportCooldownMs = 5000
)

// CanTriggerTrap reports whether t fires if stepped on at now. Damage traps
// fire once; the others re-arm when their cooldown ends.
func CanTriggerTrap(t component.Trap, now int64) bool {
	if !t.Type.Reusable() {
		return t.State != component.TrapTriggered
	}
	return now >= t.CooldownUntil
}

// TrapOutcome is the effect of a trap on the player. Damage is reported, not
// applied, so it flows through the regular damage resolution.
type TrapOutcome struct {
	Trap       component.Trap
	Player     component.Player
	Damage     int
	Slowed     bool
	Teleported bool
}

// TriggerTrap fires t on the player. Teleport targets are the walkable tiles
// of terrain not held by the player or a living enemy.
func TriggerTrap(t component.Trap, p component.Player, terrain *Terrain, enemies []component.Enemy, now int64, rng *rand.Rand) TrapOutcome {
	out := TrapOutcome{Trap: t, Player: p}
	out.Trap.State = component.TrapTriggered
	switch t.Type {
	case component.TrapDamage:
		out.Damage = TrapDamageAmount
	case component.TrapSlow:
		out.Player.SlowedUntil = now + SlowDurationMs
		out.Trap.CooldownUntil = now + SlowCooldownMs
		out.Slowed = true
	case component.TrapTeleport:
		out.Trap.CooldownUntil = now + TeleportCooldownMs
		if terrain == nil || rng == nil {
			break
		}
		held := mapset.New[gamemap.Position]()
		held.Put(p.Pos)
		for _, e := range enemies {
			if e.Alive() {
				held.Put(e.Pos)
			}
		}
		var dests []gamemap.Position
		for _, q := range terrain.WalkablePositions() {
			if !held.Has(q) {
				dests = append(dests, q)
			}
		}
		if len(dests) > 0 {
			out.Player.Pos = dests[rng.Intn(len(dests))]
			out.Teleported = true
		}
	}
	return out
}

// TrapAt returns the index of the trap at p.
func TrapAt(traps []component.Trap, p gamemap.Position) (int, bool) {
	for i, t := range traps {
		if t.Pos == p {
			return i, true
		}
	}
	return 0, false
}

// RevealTraps returns a copy of traps with every hidden trap revealed.
func RevealTraps(traps []component.Trap) []component.Trap {
	out := make([]component.Trap, len(traps))
	for i, t := range traps {
		if t.State == component.TrapHidden {
			t.State = component.TrapRevealed
		}
		out[i] = t
	}
	return out
}
