package system

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ipne/internal/component"
)

func TestTerrainWalkable(t *testing.T) {
	ter := roomTerrain(5, 5,
		component.Wall{Type: component.WallNormal, Pos: pos(1, 1)},
		component.Wall{Type: component.WallPassable, Pos: pos(2, 1)},
		component.Wall{Type: component.WallBreakable, State: component.WallBroken, Pos: pos(3, 1)},
		component.Wall{Type: component.WallPassable, Pos: pos(0, 2)},
	)

	assert.False(t, ter.Walkable(pos(1, 1)), "intact wall blocks")
	assert.True(t, ter.Walkable(pos(2, 1)), "passable wall")
	assert.True(t, ter.Walkable(pos(3, 1)), "broken wall")
	assert.False(t, ter.Walkable(pos(0, 2)), "border stays solid")
	assert.True(t, ter.Walkable(pos(2, 2)))
	assert.False(t, ter.Walkable(pos(9, 9)))

	// 3x3 interior minus the intact wall.
	assert.Len(t, ter.WalkablePositions(), 8)
}

func TestTerrainNilWallAt(t *testing.T) {
	var ter *Terrain
	_, ok := ter.WallAt(pos(1, 1))
	assert.False(t, ok)
}

func TestReplaceWallCopies(t *testing.T) {
	walls := []component.Wall{{Type: component.WallBreakable}}
	out := replaceWall(walls, 0, component.Wall{Type: component.WallBreakable, State: component.WallBroken})
	assert.Equal(t, component.WallIntact, walls[0].State)
	assert.Equal(t, component.WallBroken, out[0].State)
}
