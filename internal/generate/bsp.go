package generate

import (
	"errors"
	"fmt"
	"math/rand"

	"ipne/internal/gamemap"
)

// ErrInvalidMazeConfig is returned for maze dimensions the generator cannot honor.
var ErrInvalidMazeConfig = errors.New("invalid maze config")

// MazeConfig drives BSP maze generation for one level.
type MazeConfig struct {
	Width, Height int
	MinRoomSize   int
	MaxRoomSize   int
	CorridorWidth int
	MaxDepth      int
	LoopCount     int
	Rand          *rand.Rand
}

// Maze is the generated geometry: a wall-filled grid with carved rooms and
// corridors, and the rooms annotated with their floor tiles.
type Maze struct {
	Grid  *gamemap.Grid
	Rooms []gamemap.Room
}

func (cfg MazeConfig) validate() error {
	switch {
	case cfg.Rand == nil:
		return fmt.Errorf("%w: nil Rand", ErrInvalidMazeConfig)
	case cfg.Width < 5 || cfg.Height < 5:
		return fmt.Errorf("%w: size %dx%d below 5x5", ErrInvalidMazeConfig, cfg.Width, cfg.Height)
	case cfg.MinRoomSize < 1 || cfg.MaxRoomSize < cfg.MinRoomSize:
		return fmt.Errorf("%w: room size range %d..%d", ErrInvalidMazeConfig, cfg.MinRoomSize, cfg.MaxRoomSize)
	case cfg.CorridorWidth < 1:
		return fmt.Errorf("%w: corridor width %d", ErrInvalidMazeConfig, cfg.CorridorWidth)
	case cfg.MaxDepth < 0 || cfg.LoopCount < 0:
		return fmt.Errorf("%w: negative depth or loop count", ErrInvalidMazeConfig)
	}
	return nil
}

// bspLeaf is a node in the BSP tree. Coordinates cover the leaf's region.
type bspLeaf struct {
	X, Y, W, H  int
	left, right *bspLeaf
	room        *gamemap.Rect
}

func (l *bspLeaf) isLeaf() bool { return l.left == nil && l.right == nil }

// split divides the leaf in two, returning false when the region is too small
// along the chosen axis.
func (l *bspLeaf) split(cfg *MazeConfig) bool {
	// Decide split direction: horizontal cut when taller, vertical when wider.
	splitH := cfg.Rand.Intn(2) == 0
	if l.W > l.H && float64(l.W)/float64(l.H) >= 1.25 {
		splitH = false
	} else if l.H > l.W && float64(l.H)/float64(l.W) >= 1.25 {
		splitH = true
	}

	size := l.H
	if !splitH {
		size = l.W
	}
	if size < 2*cfg.MinRoomSize+2 {
		return false
	}

	lo := cfg.MinRoomSize + 1
	hi := size - cfg.MinRoomSize - 1
	split := lo + cfg.Rand.Intn(max(1, hi-lo+1))

	if splitH {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: l.W, H: split}
		l.right = &bspLeaf{X: l.X, Y: l.Y + split, W: l.W, H: l.H - split}
	} else {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: split, H: l.H}
		l.right = &bspLeaf{X: l.X + split, Y: l.Y, W: l.W - split, H: l.H}
	}
	return true
}

// subdivide splits recursively until depth reaches MaxDepth.
func (l *bspLeaf) subdivide(cfg *MazeConfig, depth int) {
	if depth >= cfg.MaxDepth || !l.split(cfg) {
		return
	}
	l.left.subdivide(cfg, depth+1)
	l.right.subdivide(cfg, depth+1)
}

// createRooms carves one room inside every terminal leaf. Each room keeps at
// least one wall column/row free on its right and bottom edge so rooms of
// neighboring leaves never merge.
func (l *bspLeaf) createRooms(grid *gamemap.Grid, cfg *MazeConfig, rooms *[]gamemap.Rect) {
	if !l.isLeaf() {
		l.left.createRooms(grid, cfg, rooms)
		l.right.createRooms(grid, cfg, rooms)
		return
	}
	availW, availH := l.W-1, l.H-1
	if availW < 1 || availH < 1 {
		return
	}
	rw := roomSpan(cfg, availW)
	rh := roomSpan(cfg, availH)
	rx := l.X + cfg.Rand.Intn(availW-rw+1)
	ry := l.Y + cfg.Rand.Intn(availH-rh+1)

	room := gamemap.Rect{X1: rx, Y1: ry, X2: rx + rw - 1, Y2: ry + rh - 1}
	l.room = &room
	for y := room.Y1; y <= room.Y2; y++ {
		for x := room.X1; x <= room.X2; x++ {
			grid.Set(gamemap.Position{X: x, Y: y}, gamemap.TileFloor)
		}
	}
	*rooms = append(*rooms, room)
}

// roomSpan picks a room extent in [MinRoomSize, MaxRoomSize] limited by avail.
func roomSpan(cfg *MazeConfig, avail int) int {
	hi := min(cfg.MaxRoomSize, avail)
	lo := min(cfg.MinRoomSize, hi)
	return lo + cfg.Rand.Intn(hi-lo+1)
}

// rooms collects every room in this subtree.
func (l *bspLeaf) rooms() []*gamemap.Rect {
	if l.room != nil {
		return []*gamemap.Rect{l.room}
	}
	var out []*gamemap.Rect
	if l.left != nil {
		out = append(out, l.left.rooms()...)
	}
	if l.right != nil {
		out = append(out, l.right.rooms()...)
	}
	return out
}

// randomRoom returns a random descendant room, or nil when the subtree has none.
func (l *bspLeaf) randomRoom(rng *rand.Rand) *gamemap.Rect {
	rs := l.rooms()
	if len(rs) == 0 {
		return nil
	}
	return rs[rng.Intn(len(rs))]
}

// connectChildren carves corridors between the two children of every split leaf.
func (l *bspLeaf) connectChildren(grid *gamemap.Grid, cfg *MazeConfig) {
	if l.isLeaf() {
		return
	}
	l.left.connectChildren(grid, cfg)
	l.right.connectChildren(grid, cfg)

	lRoom := l.left.randomRoom(cfg.Rand)
	rRoom := l.right.randomRoom(cfg.Rand)
	if lRoom == nil || rRoom == nil {
		return
	}
	carveCorridor(grid, lRoom.Center(), rRoom.Center(), cfg)
}

// GenerateMaze runs BSP generation and returns the carved grid and its rooms.
// The returned room list may be empty when nothing could be carved; callers
// own the fallback for that case.
func GenerateMaze(cfg MazeConfig) (*Maze, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	grid := gamemap.New(cfg.Width, cfg.Height)

	root := &bspLeaf{X: 1, Y: 1, W: cfg.Width - 2, H: cfg.Height - 2}
	root.subdivide(&cfg, 0)

	var rects []gamemap.Rect
	root.createRooms(grid, &cfg, &rects)
	root.connectChildren(grid, &cfg)

	// Extra corridors turn the spanning tree into a graph with cycles.
	if len(rects) > 1 {
		for range cfg.LoopCount {
			a := cfg.Rand.Intn(len(rects))
			b := cfg.Rand.Intn(len(rects) - 1)
			if b >= a {
				b++
			}
			carveCorridor(grid, rects[a].Center(), rects[b].Center(), &cfg)
		}
	}

	rooms := make([]gamemap.Room, 0, len(rects))
	for _, r := range rects {
		rooms = append(rooms, annotateRoom(grid, r))
	}
	return &Maze{Grid: grid, Rooms: rooms}, nil
}

// annotateRoom lists the floor tiles inside r.
func annotateRoom(grid *gamemap.Grid, r gamemap.Rect) gamemap.Room {
	room := gamemap.Room{Rect: r, Center: r.Center()}
	for y := r.Y1; y <= r.Y2; y++ {
		for x := r.X1; x <= r.X2; x++ {
			p := gamemap.Position{X: x, Y: y}
			if grid.At(p) == gamemap.TileFloor {
				room.Tiles = append(room.Tiles, p)
			}
		}
	}
	return room
}
