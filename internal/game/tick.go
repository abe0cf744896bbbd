package game

import (
	"math/rand"

	"ipne/internal/component"
	"ipne/internal/gamemap"
	"ipne/internal/system"
)

// EnemyUpdater advances every enemy by one tick and reports the hit the
// player takes.
type EnemyUpdater interface {
	UpdateEnemies(enemies []component.Enemy, player component.Player, terrain *system.Terrain, now int64, rng *rand.Rand) system.ContactResult
}

// DamageResolver applies a hit to the player. terrain and enemies are nil for
// hits that cannot push the player.
type DamageResolver interface {
	ResolveDamage(p component.Player, hit system.Hit, terrain *system.Terrain, enemies []component.Enemy, now int64) system.DamageResult
}

// PickupResolver collects the items on the player's tile.
type PickupResolver interface {
	ResolvePickup(p component.Player, items []component.Item) system.PickupResult
}

// TrapHandler drives the trap state machine.
type TrapHandler interface {
	CanTrigger(t component.Trap, now int64) bool
	Trigger(t component.Trap, p component.Player, terrain *system.Terrain, enemies []component.Enemy, now int64, rng *rand.Rand) system.TrapOutcome
	Reveal(traps []component.Trap) []component.Trap
}

// Deps holds the collaborators Tick delegates to. Nil fields fall back to
// the defaults.
type Deps struct {
	Enemies EnemyUpdater
	Damage  DamageResolver
	Pickups PickupResolver
	Traps   TrapHandler
}

// DefaultDeps wires the system package implementations with the default AI
// registry.
func DefaultDeps() Deps {
	return Deps{
		Enemies: RegistryUpdater{Registry: system.DefaultRegistry()},
		Damage:  defaultDamage{},
		Pickups: defaultPickups{},
		Traps:   defaultTraps{},
	}
}

func (d Deps) withDefaults() Deps {
	def := DefaultDeps()
	if d.Enemies == nil {
		d.Enemies = def.Enemies
	}
	if d.Damage == nil {
		d.Damage = def.Damage
	}
	if d.Pickups == nil {
		d.Pickups = def.Pickups
	}
	if d.Traps == nil {
		d.Traps = def.Traps
	}
	return d
}

// RegistryUpdater runs enemies through a policy registry.
type RegistryUpdater struct {
	Registry *system.PolicyRegistry
}

func (u RegistryUpdater) UpdateEnemies(enemies []component.Enemy, player component.Player, terrain *system.Terrain, now int64, rng *rand.Rand) system.ContactResult {
	return system.UpdateEnemiesWithContact(enemies, player, terrain, now, rng, u.Registry)
}

type defaultDamage struct{}

func (defaultDamage) ResolveDamage(p component.Player, hit system.Hit, terrain *system.Terrain, enemies []component.Enemy, now int64) system.DamageResult {
	return system.ResolvePlayerDamage(p, hit, terrain, enemies, now)
}

type defaultPickups struct{}

func (defaultPickups) ResolvePickup(p component.Player, items []component.Item) system.PickupResult {
	return system.ResolveItemPickup(p, items)
}

type defaultTraps struct{}

func (defaultTraps) CanTrigger(t component.Trap, now int64) bool { return system.CanTriggerTrap(t, now) }

func (defaultTraps) Trigger(t component.Trap, p component.Player, terrain *system.Terrain, enemies []component.Enemy, now int64, rng *rand.Rand) system.TrapOutcome {
	return system.TriggerTrap(t, p, terrain, enemies, now, rng)
}

func (defaultTraps) Reveal(traps []component.Trap) []component.Trap { return system.RevealTraps(traps) }

// TickInput is the state one tick starts from. Walls are read-only here;
// only player actions change them.
type TickInput struct {
	Grid               *gamemap.Grid
	Player             component.Player
	Enemies            []component.Enemy
	Items              []component.Item
	Traps              []component.Trap
	Walls              []component.Wall
	PendingLevelPoints int
	Now                int64
	// MaxLevel caps level point accrual. Zero means uncapped.
	MaxLevel int
	Rand     *rand.Rand
}

// TickResult is the state after one tick plus the effects it produced, in
// emission order.
type TickResult struct {
	Player             component.Player
	Enemies            []component.Enemy
	Items              []component.Item
	Traps              []component.Trap
	PendingLevelPoints int
	MapRevealed        bool
	GameOver           bool
	Effects            []Effect
}

// Tick advances the simulation by one frame. It never touches the input
// slices and performs no I/O; every side effect is returned as an Effect.
func Tick(in TickInput, deps Deps) TickResult {
	deps = deps.withDefaults()
	var effects []Effect
	emit := func(t EffectType) { effects = append(effects, NewEffect(t)) }
	damaged := func(r system.DamageResult) {
		switch {
		case r.Applied:
			emit(SoundPlayerDamage)
		case r.Dodged:
			emit(SoundDodge)
		}
	}

	p := in.Player
	now := in.Now
	terrain := system.NewTerrain(in.Grid, in.Walls)

	if p.InvincibleUntil != 0 && now >= p.InvincibleUntil {
		p.InvincibleUntil = 0
	}

	cr := deps.Enemies.UpdateEnemies(in.Enemies, p, terrain, now, in.Rand)
	enemies := cr.Enemies

	if cr.Hit.Landed() {
		var dr system.DamageResult
		if cr.Hit.Contact {
			dr = deps.Damage.ResolveDamage(p, cr.Hit, terrain, enemies, now)
		} else {
			dr = deps.Damage.ResolveDamage(p, cr.Hit, nil, nil, now)
		}
		p = dr.Player
		damaged(dr)
	}

	traps := append([]component.Trap(nil), in.Traps...)
	pr := deps.Pickups.ResolvePickup(p, in.Items)
	p = pr.Player
	for _, ev := range pr.Events {
		emit(SoundItemPickup)
		if ev.Healed > 0 {
			emit(SoundHeal)
		}
		if ev.Item.Type == component.ItemKey {
			emit(SoundKeyPickup)
		}
	}
	if pr.MapRevealed {
		traps = deps.Traps.Reveal(traps)
		emit(DisplayMapRevealed)
	}

	p, _ = system.ApplyRegen(p, now)

	if i, ok := system.TrapAt(traps, p.Pos); ok && p.Alive() && deps.Traps.CanTrigger(traps[i], now) {
		out := deps.Traps.Trigger(traps[i], p, terrain, enemies, now, in.Rand)
		traps[i] = out.Trap
		p = out.Player
		emit(SoundTrapTriggered)
		if out.Damage > 0 {
			dr := deps.Damage.ResolveDamage(p, system.Hit{Damage: out.Damage, From: traps[i].Pos}, nil, nil, now)
			p = dr.Player
			damaged(dr)
		}
		if out.Teleported {
			emit(SoundTeleport)
		}
	}

	pending := in.PendingLevelPoints
	for range pr.LevelUps {
		if in.MaxLevel > 0 && p.Level+pending >= in.MaxLevel {
			break
		}
		pending++
		emit(SoundLevelUp)
	}

	res := TickResult{
		Player:             p,
		Enemies:            enemies,
		Items:              pr.Items,
		Traps:              traps,
		PendingLevelPoints: pending,
		MapRevealed:        pr.MapRevealed,
	}
	if !p.Alive() {
		res.GameOver = true
		emit(SoundDying)
		emit(DisplayGameOver)
		emit(SaveRecord)
	}
	res.Effects = effects
	return res
}
