package system

import (
	"ipne/internal/component"
	"ipne/internal/gamemap"
)

// BaseMoveIntervalMs is the player's step cadence at MoveSpeed 1.
const BaseMoveIntervalMs = 150

// MoveResult describes the outcome of a MovePlayer call.
type MoveResult uint8

const (
	MoveOK       MoveResult = iota // position updated
	MoveBlocked                    // wall or out-of-bounds
	MoveCooldown                   // too soon after the last step
	MoveBumped                     // walked into an invisible wall and revealed it
)

// MoveOutcome is the player and wall state after a move attempt.
type MoveOutcome struct {
	Player component.Player
	Walls  []component.Wall
	Result MoveResult
}

// MoveInterval returns the step cadence at now, scaled by MoveSpeed and
// doubled while slowed.
func MoveInterval(p component.Player, now int64) int64 {
	speed := p.Stats.MoveSpeed
	if speed <= 0 {
		speed = 1
	}
	iv := int64(BaseMoveIntervalMs / speed)
	if p.Slowed(now) {
		iv *= 2
	}
	return iv
}

// MovePlayer turns the player to dir and steps if the cadence allows. Enemies
// do not block the player; walking onto one is how contact damage happens.
func MovePlayer(p component.Player, dir gamemap.Direction, terrain *Terrain, now int64) MoveOutcome {
	p.Facing = dir
	out := MoveOutcome{Player: p, Walls: terrain.Walls}
	if now-p.LastMoveAt < MoveInterval(p, now) {
		out.Result = MoveCooldown
		return out
	}
	dest := p.Pos.Step(dir)
	if i, ok := terrain.WallAt(dest); ok {
		w := terrain.Walls[i]
		switch {
		case w.Type == component.WallInvisible && !w.Traversable():
			if b := BumpWall(w); b != w {
				out.Walls = replaceWall(terrain.Walls, i, b)
				out.Result = MoveBumped
				return out
			}
		case w.Type == component.WallPassable:
			if pw := PassWall(w); pw != w {
				out.Walls = replaceWall(terrain.Walls, i, pw)
			}
		}
	}
	if !terrain.Walkable(dest) {
		out.Result = MoveBlocked
		return out
	}
	out.Player.Pos = dest
	out.Player.LastMoveAt = now
	out.Result = MoveOK
	return out
}

// BumpWall reveals an intact invisible wall.
func BumpWall(w component.Wall) component.Wall {
	if w.Type == component.WallInvisible && w.State == component.WallIntact {
		w.State = component.WallRevealed
	}
	return w
}

// PassWall reveals an intact passable wall as the player walks through it.
func PassWall(w component.Wall) component.Wall {
	if w.Type == component.WallPassable && w.State == component.WallIntact {
		w.State = component.WallRevealed
	}
	return w
}

// CanExit reports whether the player may leave the level: standing on the
// goal and, when the stage demands it, holding the key.
func CanExit(p component.Player, grid *gamemap.Grid, keyRequired bool) bool {
	return grid.At(p.Pos) == gamemap.TileGoal && (p.HasKey || !keyRequired)
}
