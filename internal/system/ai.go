package system

import (
	"math/rand"

	"ipne/internal/component"
	"ipne/internal/gamemap"
	"ipne/internal/pathfield"
)

const (
	// ChaseTimeoutMs is how long a chasing enemy keeps going after losing
	// sight of the player.
	ChaseTimeoutMs = 5000
	// rangedMinDistance is the distance a ranged enemy backs away below.
	rangedMinDistance = 2
	patrolLungeChance = 0.1
)

// AIContext is the read-only input of one policy update.
type AIContext struct {
	Enemy   component.Enemy
	Player  component.Player
	Terrain *Terrain
	Now     int64
	Rand    *rand.Rand
	// Blocked reports tiles held by another actor. Nil means none.
	Blocked func(gamemap.Position) bool
}

func (c AIContext) distance() int { return gamemap.Manhattan(c.Enemy.Pos, c.Player.Pos) }

func (c AIContext) blocked(p gamemap.Position) bool {
	return p == c.Player.Pos || (c.Blocked != nil && c.Blocked(p))
}

// Policy drives one family of enemy types. Update must not mutate its input
// and returns the enemy's next state.
type Policy interface {
	Handles(t component.EnemyType) bool
	Update(ctx AIContext) component.Enemy
}

// PolicyRegistry dispatches enemies to the first policy that handles their type.
type PolicyRegistry struct {
	policies []Policy
}

// NewPolicyRegistry creates a registry consulting policies in order.
func NewPolicyRegistry(policies ...Policy) *PolicyRegistry {
	return &PolicyRegistry{policies: policies}
}

// DefaultRegistry returns the registry covering every built-in enemy type.
func DefaultRegistry() *PolicyRegistry {
	return NewPolicyRegistry(PatrolPolicy{}, ChargePolicy{}, RangedPolicy{}, FleePolicy{})
}

// Lookup returns the policy for t.
func (r *PolicyRegistry) Lookup(t component.EnemyType) (Policy, bool) {
	for _, p := range r.policies {
		if p.Handles(t) {
			return p, true
		}
	}
	return nil, false
}

// Update runs the matching policy. Enemies with no policy are returned unchanged.
func (r *PolicyRegistry) Update(ctx AIContext) component.Enemy {
	if p, ok := r.Lookup(ctx.Enemy.Type); ok {
		return p.Update(ctx)
	}
	return ctx.Enemy
}

// PatrolPolicy walks a patrol route, chases on sight, and returns home when
// the chase ends.
type PatrolPolicy struct{}

func (PatrolPolicy) Handles(t component.EnemyType) bool { return t == component.EnemyPatrol }

func (PatrolPolicy) Update(ctx AIContext) component.Enemy {
	e := ctx.Enemy
	if chase(&e, ctx, component.StateReturn, func(int) (float64, int) { return patrolLungeChance, 2 }) {
		return e
	}
	switch e.State {
	case component.StateReturn:
		if goHome(&e, ctx.Terrain) {
			e.State = idleOrPatrol(e)
		}
	case component.StatePatrol:
		patrolStep(&e, ctx.Terrain)
	default:
		if len(e.PatrolPath) > 0 {
			e.State = component.StatePatrol
			patrolStep(&e, ctx.Terrain)
			break
		}
		randomStep(&e, ctx.Terrain, ctx.Rand)
	}
	return e
}

// ChargePolicy handles charge enemies and the boss family. Lunges get more
// likely and longer as the player gets closer.
type ChargePolicy struct{}

func (ChargePolicy) Handles(t component.EnemyType) bool {
	return t == component.EnemyCharge || t.IsBossFamily()
}

func (ChargePolicy) Update(ctx AIContext) component.Enemy {
	e := ctx.Enemy
	if chase(&e, ctx, component.StateIdle, chargeLunge) {
		return e
	}
	e.State = component.StateIdle
	return e
}

// chargeLunge maps distance to lunge probability and step count.
func chargeLunge(d int) (float64, int) {
	switch {
	case d <= 2:
		return 0.6, 3
	case d <= 4:
		return 0.35, 2
	default:
		return 0.15, 2
	}
}

// RangedPolicy keeps the player inside a distance band.
type RangedPolicy struct{}

func (RangedPolicy) Handles(t component.EnemyType) bool { return t == component.EnemyRanged }

func (RangedPolicy) Update(ctx AIContext) component.Enemy {
	e := ctx.Enemy
	d := ctx.distance()
	if d <= e.DetectionRange {
		e.State = component.StateChase
		e.LastSeenAt = ctx.Now
		switch {
		case d < rangedMinDistance:
			if p, ok := stepAway(ctx.Terrain, e.Pos, ctx.Player.Pos); ok {
				e.Pos = p
			}
		case d > e.AttackRange:
			if p, ok := stepToward(ctx.Terrain, e.Pos, ctx.Player.Pos); ok {
				e.Pos = p
			}
		}
		return e
	}
	switch e.State {
	case component.StateChase:
		if ctx.Now-e.LastSeenAt > ChaseTimeoutMs || d > e.ChaseRange {
			e.State = component.StateReturn
		} else if p, ok := stepToward(ctx.Terrain, e.Pos, ctx.Player.Pos); ok {
			e.Pos = p
		}
	case component.StateReturn:
		if goHome(&e, ctx.Terrain) {
			e.State = component.StateIdle
		}
	}
	return e
}

// FleePolicy runs from a detected player and idles otherwise.
type FleePolicy struct{}

func (FleePolicy) Handles(t component.EnemyType) bool { return t == component.EnemySpecimen }

func (FleePolicy) Update(ctx AIContext) component.Enemy {
	e := ctx.Enemy
	if ctx.distance() > e.DetectionRange {
		e.State = component.StateIdle
		return e
	}
	e.State = component.StateFlee
	if p, ok := stepAway(ctx.Terrain, e.Pos, ctx.Player.Pos); ok {
		e.Pos = p
	}
	return e
}

// chase runs the shared detect/chase contract. It reports true when the
// enemy chased this update; when a chase ends the state becomes lost.
func chase(e *component.Enemy, ctx AIContext, lost component.EnemyState, lunge func(d int) (float64, int)) bool {
	d := ctx.distance()
	seen := d <= e.DetectionRange
	if seen {
		e.LastSeenAt = ctx.Now
	}
	if e.State != component.StateChase {
		if !seen {
			return false
		}
		e.State = component.StateChase
	} else if d > e.ChaseRange || ctx.Now-e.LastSeenAt > ChaseTimeoutMs {
		e.State = lost
		return false
	}

	steps := 1
	if chance, n := lunge(d); ctx.Rand != nil && ctx.Rand.Float64() < chance {
		steps = n
	}
	for range steps {
		p, ok := stepToward(ctx.Terrain, e.Pos, ctx.Player.Pos)
		if !ok || ctx.blocked(p) {
			break
		}
		e.Pos = p
	}
	return true
}

func idleOrPatrol(e component.Enemy) component.EnemyState {
	if len(e.PatrolPath) > 0 {
		return component.StatePatrol
	}
	return component.StateIdle
}

// stepToward takes one greedy step toward target, trying the dominant axis
// first and the other axis second.
func stepToward(t *Terrain, from, target gamemap.Position) (gamemap.Position, bool) {
	dx, dy := target.X-from.X, target.Y-from.Y
	hx, hy := gamemap.DirRight, gamemap.DirDown
	if dx < 0 {
		hx = gamemap.DirLeft
	}
	if dy < 0 {
		hy = gamemap.DirUp
	}
	dirs := make([]gamemap.Direction, 0, 2)
	if abs(dx) >= abs(dy) {
		if dx != 0 {
			dirs = append(dirs, hx)
		}
		if dy != 0 {
			dirs = append(dirs, hy)
		}
	} else {
		dirs = append(dirs, hy)
		if dx != 0 {
			dirs = append(dirs, hx)
		}
	}
	for _, d := range dirs {
		if p := from.Step(d); t.Walkable(p) {
			return p, true
		}
	}
	return from, false
}

// stepAway picks the walkable neighbor that increases the distance to threat
// the most, in Directions order on ties.
func stepAway(t *Terrain, from, threat gamemap.Position) (gamemap.Position, bool) {
	best, bestD := from, gamemap.Manhattan(from, threat)
	for _, d := range gamemap.Directions {
		p := from.Step(d)
		if !t.Walkable(p) {
			continue
		}
		if dd := gamemap.Manhattan(p, threat); dd > bestD {
			best, bestD = p, dd
		}
	}
	return best, best != from
}

// goHome steps along a shortest path to Home and reports arrival.
func goHome(e *component.Enemy, t *Terrain) bool {
	if e.Pos == e.Home {
		return true
	}
	dist := pathfield.DistancesWith(t.Walkable, e.Home)
	cur, ok := dist[e.Pos]
	if !ok {
		// Home is cut off; settle where we are.
		e.Home = e.Pos
		return true
	}
	for _, d := range gamemap.Directions {
		n := e.Pos.Step(d)
		if nd, ok := dist[n]; ok && nd == cur-1 {
			e.Pos = n
			break
		}
	}
	return e.Pos == e.Home
}

// patrolStep advances one tile along the patrol cycle.
func patrolStep(e *component.Enemy, t *Terrain) {
	n := len(e.PatrolPath)
	if n == 0 {
		return
	}
	next := (e.PatrolIndex + 1) % n
	target := e.PatrolPath[next]
	if e.Pos == target {
		e.PatrolIndex = next
		return
	}
	if p, ok := stepToward(t, e.Pos, target); ok {
		e.Pos = p
	}
	if e.Pos == target {
		e.PatrolIndex = next
	}
}

func randomStep(e *component.Enemy, t *Terrain, rng *rand.Rand) {
	if rng == nil {
		return
	}
	if p := e.Pos.Step(gamemap.Directions[rng.Intn(len(gamemap.Directions))]); t.Walkable(p) {
		e.Pos = p
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
