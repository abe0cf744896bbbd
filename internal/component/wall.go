package component

import (
	"errors"
	"fmt"

	"ipne/internal/ecs"
	"ipne/internal/gamemap"
)

// ErrUnknownWallType is returned when a wall type tag is not recognized.
var ErrUnknownWallType = errors.New("unknown wall type")

// WallType selects how a gimmick wall behaves.
type WallType uint8

const (
	WallNormal WallType = iota
	WallBreakable
	WallPassable
	WallInvisible
)

func (t WallType) String() string {
	switch t {
	case WallNormal:
		return "normal"
	case WallBreakable:
		return "breakable"
	case WallPassable:
		return "passable"
	case WallInvisible:
		return "invisible"
	}
	return fmt.Sprintf("WallType(%d)", uint8(t))
}

// ParseWallType maps a tag such as "breakable" to its WallType.
func ParseWallType(s string) (WallType, error) {
	switch s {
	case "normal":
		return WallNormal, nil
	case "breakable":
		return WallBreakable, nil
	case "passable":
		return WallPassable, nil
	case "invisible":
		return WallInvisible, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWallType, s)
}

// WallState tracks damage and discovery.
type WallState uint8

const (
	WallIntact WallState = iota
	WallDamaged
	WallRevealed
	WallBroken
)

func (s WallState) String() string {
	switch s {
	case WallIntact:
		return "intact"
	case WallDamaged:
		return "damaged"
	case WallRevealed:
		return "revealed"
	case WallBroken:
		return "broken"
	}
	return "unknown"
}

// WallPattern records which placement heuristic produced a wall.
type WallPattern uint8

const (
	PatternFill WallPattern = iota
	PatternShortcutBlock
	PatternTrickWall
	PatternSecretPassage
	PatternCorridorBlock
)

func (p WallPattern) String() string {
	switch p {
	case PatternShortcutBlock:
		return "shortcut_block"
	case PatternTrickWall:
		return "trick_wall"
	case PatternSecretPassage:
		return "secret_passage"
	case PatternCorridorBlock:
		return "corridor_block"
	}
	return "fill"
}

// Wall is a gimmick wall overlaid on the grid. HP is only meaningful for
// breakable walls.
type Wall struct {
	ID      ecs.EntityID
	Pos     gamemap.Position
	Type    WallType
	State   WallState
	HP      int
	Pattern WallPattern
}

// Traversable reports whether actors may move through the wall.
func (w Wall) Traversable() bool {
	return w.State == WallBroken || w.Type == WallPassable
}
