package game

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"ipne/internal/runlog"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(80, 30)
	require.NoError(t, ss.Init())
	t.Cleanup(ss.Fini)
	return ss
}

func newTestGame(t *testing.T) (*Game, string) {
	t.Helper()
	dir := t.TempDir()
	g, err := NewWithScreen(newSimScreen(t), Options{Seed: 5, Logger: zaptest.NewLogger(t), RecordDir: dir})
	require.NoError(t, err)
	return g, dir
}

func TestGameProcessAction(t *testing.T) {
	g, _ := newTestGame(t)

	quit, err := g.processAction(ActionQuit)
	require.NoError(t, err)
	assert.True(t, quit)

	quit, err = g.processAction(ActionMoveN)
	require.NoError(t, err)
	assert.False(t, quit)

	quit, err = g.processAction(ActionUpgradePower)
	require.NoError(t, err, "refused upgrades are not fatal")
	assert.False(t, quit)
}

func TestGameViewMarksExplored(t *testing.T) {
	g, _ := newTestGame(t)
	v := g.View()
	require.NotNil(t, v.Visible)
	assert.True(t, v.Visible.Has(v.Player.Pos))
	assert.True(t, g.explored.Has(v.Player.Pos))
	assert.Equal(t, 1, v.Stage)

	g.step()
	g.draw()
}

func TestGameRealizeEffects(t *testing.T) {
	g, dir := newTestGame(t)

	g.realize([]Effect{NewEffect(DisplayMapRevealed)})
	assert.Equal(t, len(g.session.Level.Grid.WalkablePositions()), g.explored.Size())

	g.realize([]Effect{NewEffect(SaveRecord), NewEffect(SaveRecord)})
	recs, err := runlog.ReadAll(dir)
	require.NoError(t, err)
	require.Len(t, recs, 1, "a run is recorded once")
	assert.Equal(t, g.runID, recs[0].RunID)
	assert.Equal(t, g.session.Level.ID, recs[0].LevelID)
	assert.Equal(t, int64(5), recs[0].Seed)
}

func TestGameRestartOnlyWhenOver(t *testing.T) {
	g, _ := newTestGame(t)
	first := g.runID

	_, err := g.processAction(ActionRestart)
	require.NoError(t, err)
	assert.Equal(t, first, g.runID)

	g.session.GameOver = true
	_, err = g.processAction(ActionRestart)
	require.NoError(t, err)
	assert.NotEqual(t, first, g.runID)
	assert.False(t, g.session.Over())
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(20, 10)
	require.NoError(t, ss.Init())

	done := make(chan struct{})
	events, stopped := pollEvents(ss, done)

	// Nobody reads events, so the poller ends up blocked on a full buffer.
	require.Eventually(t, func() bool {
		_ = ss.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
		return len(events) == cap(events)
	}, time.Second, time.Millisecond)
	for range 4 {
		_ = ss.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	}

	close(done)
	ss.Fini()
	assert.Eventually(t, func() bool {
		select {
		case <-stopped:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
