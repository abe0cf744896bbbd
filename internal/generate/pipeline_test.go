package generate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ipne/internal/component"
	"ipne/internal/gamemap"
	"ipne/internal/pathfield"
	"ipne/internal/stage"
)

func TestGenerateSafeMazeEveryStage(t *testing.T) {
	for _, s := range stage.MustDefault() {
		for seed := int64(0); seed < 3; seed++ {
			cfg := LevelConfigFromStage(s, rand.New(rand.NewSource(seed)), zaptest.NewLogger(t))
			lvl, err := GenerateSafeMaze(cfg, 0)
			require.NoError(t, err, "stage=%d seed=%d", s.Stage, seed)

			g := lvl.Grid
			assert.Equal(t, s.Maze.Width, g.Width)
			assert.Equal(t, s.Maze.Height, g.Height)
			assert.Equal(t, 1, g.Count(gamemap.TileStart))
			assert.Equal(t, 1, g.Count(gamemap.TileGoal))
			assert.Equal(t, gamemap.TileStart, g.At(lvl.Start))
			assert.Equal(t, gamemap.TileGoal, g.At(lvl.Goal))
			for x := 0; x < g.Width; x++ {
				assert.Equal(t, gamemap.TileWall, g.At(gamemap.Position{X: x, Y: 0}))
				assert.Equal(t, gamemap.TileWall, g.At(gamemap.Position{X: x, Y: g.Height - 1}))
			}
			for y := 0; y < g.Height; y++ {
				assert.Equal(t, gamemap.TileWall, g.At(gamemap.Position{X: 0, Y: y}))
				assert.Equal(t, gamemap.TileWall, g.At(gamemap.Position{X: g.Width - 1, Y: y}))
			}

			closed := g.Clone()
			for _, w := range lvl.Walls {
				closed.Set(w.Pos, gamemap.TileWall)
			}
			assert.True(t, pathfield.IsConnected(closed, lvl.Start, lvl.Goal), "stage=%d seed=%d", s.Stage, seed)
			assert.True(t, ValidateGeneration(lvl.Start, lvl.Enemies, lvl.Traps, DefaultSafeRadius).Valid())
			assert.GreaterOrEqual(t, lvl.Attempts, 1)

			bosses := 0
			for _, e := range lvl.Enemies {
				if e.Type == s.Boss {
					bosses++
				}
			}
			assert.Equal(t, 1, bosses, "stage=%d seed=%d", s.Stage, seed)
		}
	}
}

func TestGenerateSafeMazeDeterministic(t *testing.T) {
	s := stage.MustDefault()[1]
	a, err := GenerateSafeMaze(LevelConfigFromStage(s, rand.New(rand.NewSource(42)), nil), 0)
	require.NoError(t, err)
	b, err := GenerateSafeMaze(LevelConfigFromStage(s, rand.New(rand.NewSource(42)), nil), 0)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.Grid.String(), b.Grid.String())
	assert.Equal(t, a.Enemies, b.Enemies)
	assert.Equal(t, a.Traps, b.Traps)
	assert.Equal(t, a.Walls, b.Walls)
}

func TestGenerateSafeMazeConfigErrorsAreNotRetried(t *testing.T) {
	s := stage.MustDefault()[0]

	cfg := LevelConfigFromStage(s, nil, nil)
	_, err := GenerateSafeMaze(cfg, 3)
	require.ErrorIs(t, err, ErrInvalidMazeConfig)

	cfg = LevelConfigFromStage(s, rand.New(rand.NewSource(1)), nil)
	cfg.Gimmicks.TrapRatio = TrapRatio{Damage: 0.9}
	_, err = GenerateSafeMaze(cfg, 3)
	require.ErrorIs(t, err, ErrInvalidGimmickConfig)
}

func TestLevelConfigFromStage(t *testing.T) {
	s := stage.MustDefault()[2]
	cfg := LevelConfigFromStage(s, rand.New(rand.NewSource(1)), nil)
	assert.Equal(t, s.Stage, cfg.Stage)
	assert.Equal(t, s.Maze.Width, cfg.Maze.Width)
	assert.Equal(t, s.Gimmicks.TrapCount, cfg.Gimmicks.TrapCount)
	require.NotNil(t, cfg.Boss)
	assert.Equal(t, component.EnemyBoss, *cfg.Boss)
	assert.Equal(t, EnemyQuota{Type: component.EnemyRanged, Count: s.Enemies.Ranged}, cfg.Enemies[2])
	assert.Equal(t, ItemQuota{Type: component.ItemKey, Count: s.Items.Key}, cfg.Items[5])
}

func TestFallbackRoom(t *testing.T) {
	empty := gamemap.New(7, 7)
	r := fallbackRoom(empty)
	assert.Equal(t, gamemap.Position{X: 3, Y: 3}, r.Center)
	assert.Equal(t, gamemap.TileFloor, empty.At(r.Center))

	g := gamemap.Parse("#####", "###.#", "#####")
	r = fallbackRoom(g)
	assert.Equal(t, []gamemap.Position{{X: 3, Y: 1}}, r.Tiles)
}

// rejectFirst fails validation for the first n attempts.
func rejectFirst(n int, calls *int) func(*Level, int) ValidationResult {
	return func(lvl *Level, radius int) ValidationResult {
		*calls++
		if *calls <= n {
			return ValidationResult{InvalidEnemies: []EnemySpawn{{Pos: lvl.Start}}}
		}
		return ValidateGeneration(lvl.Start, lvl.Enemies, lvl.Traps, radius)
	}
}

func TestGenerateSafeMazeRetriesRejectedLevels(t *testing.T) {
	calls := 0
	cfg := LevelConfigFromStage(stage.MustDefault()[0], rand.New(rand.NewSource(3)), zaptest.NewLogger(t))
	cfg.validate = rejectFirst(2, &calls)

	lvl, err := GenerateSafeMaze(cfg, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, lvl.Attempts)
	assert.Equal(t, 3, calls)
}

func TestGenerateSafeMazeExhaustsRetries(t *testing.T) {
	calls := 0
	cfg := LevelConfigFromStage(stage.MustDefault()[0], rand.New(rand.NewSource(3)), nil)
	cfg.validate = rejectFirst(100, &calls)

	lvl, err := GenerateSafeMaze(cfg, 4)
	require.ErrorIs(t, err, ErrNoSafeLevel)
	assert.Nil(t, lvl)
	assert.Equal(t, 4, calls)

	calls = 0
	_, err = GenerateSafeMaze(cfg, 0)
	require.ErrorIs(t, err, ErrNoSafeLevel)
	assert.Equal(t, DefaultMaxRetries, calls)
}

func TestPlaceGoalCarvesNeighborForLoneStart(t *testing.T) {
	g := gamemap.Parse(
		"#####",
		"#####",
		"##.##",
		"#####",
		"#####",
	)
	start := gamemap.Position{X: 2, Y: 2}
	goal, err := placeGoal(g, start)
	require.NoError(t, err)
	assert.Equal(t, gamemap.Position{X: 2, Y: 1}, goal)
	assert.Equal(t, gamemap.TileFloor, g.At(goal))
	assert.True(t, pathfield.IsConnected(g, start, goal))

	tiny := gamemap.Parse("###", "#.#", "###")
	_, err = placeGoal(tiny, gamemap.Position{X: 1, Y: 1})
	require.ErrorIs(t, err, ErrInvalidMazeConfig)
}

func TestPlaceGoalPrefersFarthestTile(t *testing.T) {
	g := gamemap.Parse("######", "#....#", "######")
	goal, err := placeGoal(g, gamemap.Position{X: 1, Y: 1})
	require.NoError(t, err)
	assert.Equal(t, gamemap.Position{X: 4, Y: 1}, goal)
}
