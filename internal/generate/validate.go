package generate

import (
	"ipne/internal/component"
	"ipne/internal/gamemap"
)

// DefaultSafeRadius is the half-width of the spawn safe zone.
const DefaultSafeRadius = 3

// SafeZone is the square region around the spawn point where dangerous
// enemies and traps may not be placed.
type SafeZone struct {
	Center gamemap.Position
	Radius int
}

// Contains reports whether p lies inside the zone.
func (z SafeZone) Contains(p gamemap.Position) bool {
	return gamemap.Chebyshev(z.Center, p) <= z.Radius
}

// IsDangerousEnemy reports whether t may not spawn inside a safe zone.
func IsDangerousEnemy(t component.EnemyType) bool {
	return t == component.EnemyCharge || t == component.EnemyRanged || t.IsBossFamily()
}

// IsDangerousTrap reports whether t may not be placed inside a safe zone.
func IsDangerousTrap(t component.TrapType) bool {
	return t == component.TrapDamage || t == component.TrapTeleport
}

// ValidationResult lists the spawns that violate the safe zone.
type ValidationResult struct {
	InvalidEnemies []EnemySpawn
	InvalidTraps   []TrapPlacement
}

// Valid reports whether nothing violated the safe zone.
func (r ValidationResult) Valid() bool {
	return len(r.InvalidEnemies) == 0 && len(r.InvalidTraps) == 0
}

// ValidateGeneration checks enemy spawns and trap placements against the
// safe zone around spawn. A radius below zero selects DefaultSafeRadius.
func ValidateGeneration(spawn gamemap.Position, enemies []EnemySpawn, traps []TrapPlacement, radius int) ValidationResult {
	if radius < 0 {
		radius = DefaultSafeRadius
	}
	zone := SafeZone{Center: spawn, Radius: radius}
	var res ValidationResult
	for _, e := range enemies {
		if IsDangerousEnemy(e.Type) && zone.Contains(e.Pos) {
			res.InvalidEnemies = append(res.InvalidEnemies, e)
		}
	}
	for _, t := range traps {
		if IsDangerousTrap(t.Type) && zone.Contains(t.Pos) {
			res.InvalidTraps = append(res.InvalidTraps, t)
		}
	}
	return res
}

// FilterUnsafe returns copies of enemies and traps with every safe-zone
// violation removed.
func FilterUnsafe(spawn gamemap.Position, enemies []EnemySpawn, traps []TrapPlacement, radius int) ([]EnemySpawn, []TrapPlacement) {
	if radius < 0 {
		radius = DefaultSafeRadius
	}
	zone := SafeZone{Center: spawn, Radius: radius}
	outE := make([]EnemySpawn, 0, len(enemies))
	for _, e := range enemies {
		if !(IsDangerousEnemy(e.Type) && zone.Contains(e.Pos)) {
			outE = append(outE, e)
		}
	}
	outT := make([]TrapPlacement, 0, len(traps))
	for _, t := range traps {
		if !(IsDangerousTrap(t.Type) && zone.Contains(t.Pos)) {
			outT = append(outT, t)
		}
	}
	return outE, outT
}
