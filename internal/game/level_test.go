package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ipne/internal/component"
	"ipne/internal/ecs"
	"ipne/internal/gamemap"
	"ipne/internal/stage"
	"ipne/internal/system"
)

func TestNewLevel(t *testing.T) {
	s := stage.MustDefault()[2]
	seq := ecs.NewSequence()
	lvl, err := NewLevel(s, seq, rand.New(rand.NewSource(7)), zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, s.Stage, lvl.Stage.Stage)
	assert.Equal(t, gamemap.TileStart, lvl.Grid.At(lvl.Start))
	assert.Equal(t, gamemap.TileGoal, lvl.Grid.At(lvl.Goal))
	require.NotEmpty(t, lvl.Enemies)

	bosses := 0
	for i, e := range lvl.Enemies {
		assert.Equal(t, ecs.EntityID(i+1), e.ID)
		if e.Type.IsBossFamily() {
			bosses++
			assert.Equal(t, s.Boss, e.Type)
		}
	}
	assert.Equal(t, 1, bosses)
	assert.Equal(t, ecs.EntityID(len(lvl.Items)+1), seq.Next(ecs.KindItem))
	assert.Equal(t, ecs.EntityID(len(lvl.Traps)+1), seq.Next(ecs.KindTrap))
	assert.Equal(t, ecs.EntityID(len(lvl.Walls)+1), seq.Next(ecs.KindWall))

	for _, tr := range lvl.Traps {
		assert.Equal(t, component.TrapHidden, tr.State)
	}
	for _, w := range lvl.Walls {
		assert.Equal(t, component.WallIntact, w.State)
		if w.Type == component.WallBreakable {
			assert.Positive(t, w.HP)
		}
	}

	terrain := system.NewTerrain(lvl.Grid, lvl.Walls)
	assert.True(t, terrain.Walkable(lvl.Start))
}

func TestNewLevelDeterministic(t *testing.T) {
	s := stage.MustDefault()[0]
	a, err := NewLevel(s, ecs.NewSequence(), rand.New(rand.NewSource(3)), nil)
	require.NoError(t, err)
	b, err := NewLevel(s, ecs.NewSequence(), rand.New(rand.NewSource(3)), nil)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.Grid.String(), b.Grid.String())
	assert.Equal(t, a.Enemies, b.Enemies)
	assert.Equal(t, a.Traps, b.Traps)
}

func TestNewLevelBadStage(t *testing.T) {
	s := stage.MustDefault()[0]
	s.Maze.Width = 3
	_, err := NewLevel(s, ecs.NewSequence(), rand.New(rand.NewSource(1)), nil)
	assert.Error(t, err)
}
