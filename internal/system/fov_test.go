package system

import (
	"testing"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

// openGrid creates a fully open grid, border included.
func openGrid(width, height int) *gamemap.Grid {
	g := gamemap.New(width, height)
	for y := range height {
		for x := range width {
			g.Set(gamemap.Position{X: x, Y: y}, gamemap.TileFloor)
		}
	}
	return g
}

func TestFOVOriginAlwaysVisible(t *testing.T) {
	lit := ComputeFOV(NewTerrain(openGrid(20, 20), nil), gamemap.Position{X: 5, Y: 5}, 5)
	if !lit.Has(gamemap.Position{X: 5, Y: 5}) {
		t.Error("player's own tile must always be visible")
	}
}

func TestFOVNearbyTilesVisible(t *testing.T) {
	// dx²+dy² < radius² → 9 < 25.
	lit := ComputeFOV(NewTerrain(openGrid(20, 20), nil), gamemap.Position{X: 10, Y: 10}, 5)
	for _, p := range []gamemap.Position{{X: 10, Y: 7}, {X: 10, Y: 13}, {X: 7, Y: 10}, {X: 13, Y: 10}} {
		if !lit.Has(p) {
			t.Errorf("tile %v at distance 3 should be visible (radius=5)", p)
		}
	}
}

func TestFOVRadiusLimitsVisibility(t *testing.T) {
	lit := ComputeFOV(NewTerrain(openGrid(20, 20), nil), gamemap.Position{X: 10, Y: 10}, 4)
	for _, p := range []gamemap.Position{{X: 10, Y: 15}, {X: 10, Y: 5}, {X: 15, Y: 10}, {X: 5, Y: 10}} {
		if lit.Has(p) {
			t.Errorf("tile %v at distance 5 should not be visible with radius=4", p)
		}
	}
}

func TestFOVWallBlocksLight(t *testing.T) {
	g := openGrid(20, 20)
	g.Set(gamemap.Position{X: 10, Y: 8}, gamemap.TileWall)
	lit := ComputeFOV(NewTerrain(g, nil), gamemap.Position{X: 10, Y: 10}, 8)

	if !lit.Has(gamemap.Position{X: 10, Y: 8}) {
		t.Error("the wall tile at (10,8) should be visible")
	}
	if lit.Has(gamemap.Position{X: 10, Y: 7}) {
		t.Error("tile (10,7) behind the wall at (10,8) should not be visible")
	}
}

func TestFOVGimmickWalls(t *testing.T) {
	g := openGrid(20, 20)
	walls := []component.Wall{
		{Pos: gamemap.Position{X: 10, Y: 8}, Type: component.WallInvisible, State: component.WallIntact},
		{Pos: gamemap.Position{X: 12, Y: 10}, Type: component.WallBreakable, State: component.WallIntact, HP: 3},
	}
	lit := ComputeFOV(NewTerrain(g, walls), gamemap.Position{X: 10, Y: 10}, 8)
	if !lit.Has(gamemap.Position{X: 10, Y: 7}) {
		t.Error("invisible walls must not block sight")
	}
	if lit.Has(gamemap.Position{X: 13, Y: 10}) {
		t.Error("an intact breakable wall must block sight")
	}
}

func TestFOVOriginOutOfBounds(t *testing.T) {
	lit := ComputeFOV(NewTerrain(openGrid(10, 10), nil), gamemap.Position{X: -1, Y: 3}, 5)
	if lit.Size() != 0 {
		t.Errorf("expected nothing lit, got %d tiles", lit.Size())
	}
}
