package gamemap

// Tile identifies the terrain of one map cell.
type Tile uint8

const (
	TileWall Tile = iota
	TileFloor
	TileStart
	TileGoal
)

// Walkable reports whether actors may stand on the tile.
func (t Tile) Walkable() bool {
	return t == TileFloor || t == TileStart || t == TileGoal
}

// Rune returns the ASCII glyph used by dumps and debug output.
func (t Tile) Rune() rune {
	switch t {
	case TileFloor:
		return '.'
	case TileStart:
		return 'S'
	case TileGoal:
		return 'G'
	default:
		return '#'
	}
}

func (t Tile) String() string {
	switch t {
	case TileWall:
		return "wall"
	case TileFloor:
		return "floor"
	case TileStart:
		return "start"
	case TileGoal:
		return "goal"
	}
	return "unknown"
}
