package gamemap

// Position is an integer tile coordinate.
type Position struct {
	X, Y int
}

// Add returns p offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbor of p in direction d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

// Less orders positions row-major. Used wherever iteration order must be stable.
func (p Position) Less(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// Manhattan returns |ax-bx| + |ay-by|.
func Manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Chebyshev returns max(|ax-bx|, |ay-by|).
func Chebyshev(a, b Position) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

// Direction is one of the four cardinal directions.
type Direction uint8

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists the cardinal directions in the fixed order used by every
// neighbor scan. Path reconstruction depends on this order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the unit offset of d.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	default:
		return "right"
	}
}

// DirectionToward returns the dominant cardinal direction from a to b.
// Ties favor the horizontal axis. ok is false when a == b.
func DirectionToward(a, b Position) (Direction, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return DirUp, false
	}
	if abs(dx) >= abs(dy) {
		if dx > 0 {
			return DirRight, true
		}
		return DirLeft, true
	}
	if dy > 0 {
		return DirDown, true
	}
	return DirUp, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
