// Package game advances the simulation one tick at a time and hosts the
// terminal harness that drives it. Tick is pure; Game owns the clock, the
// screen and the realization of effects.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"ipne/internal/gamemap"
	"ipne/internal/render"
	"ipne/internal/runlog"
	"ipne/internal/stage"
	"ipne/internal/system"
)

const (
	frameInterval    = 33 * time.Millisecond
	DefaultFOVRadius = 8
)

// Options configures the interactive harness.
type Options struct {
	Seed      int64
	FOVRadius int
	Stages    []stage.Config
	Logger    *zap.Logger
	// RecordDir is where finished runs are appended. Empty disables records.
	RecordDir string
}

// Game is the interactive terminal front end around a Session.
type Game struct {
	screen   tcell.Screen
	renderer *render.Renderer
	session  *Session
	opts     Options
	logger   *zap.Logger
	rng      *rand.Rand

	runID    uuid.UUID
	start    time.Time
	explored mapset.Set[gamemap.Position]
	levelID  uuid.UUID
	recorded bool
}

// New creates and returns a Game with screen initialized.
func New(opts Options) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	g, err := NewWithScreen(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return g, nil
}

// NewWithScreen creates a Game on an already initialized screen.
func NewWithScreen(screen tcell.Screen, opts Options) (*Game, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FOVRadius <= 0 {
		opts.FOVRadius = DefaultFOVRadius
	}
	if opts.Stages == nil {
		opts.Stages = stage.MustDefault()
	}
	g := &Game{
		screen: screen,
		opts:   opts,
		logger: opts.Logger,
		rng:    rand.New(rand.NewSource(opts.Seed)),
	}
	if err := g.resetForRun(); err != nil {
		return nil, err
	}
	return g, nil
}

// resetForRun starts a fresh session on stage 1.
func (g *Game) resetForRun() error {
	g.start = time.Now()
	s, err := NewSession(SessionConfig{Stages: g.opts.Stages, Rand: g.rng, Logger: g.logger})
	if err != nil {
		return err
	}
	g.session = s
	g.runID = uuid.New()
	g.recorded = false
	g.enterLevel()
	g.logger.Info("run started", zap.Stringer("run", g.runID), zap.Int64("seed", g.opts.Seed))
	return nil
}

// enterLevel resets per-level view state after a stage change.
func (g *Game) enterLevel() {
	g.levelID = g.session.Level.ID
	g.explored = mapset.New[gamemap.Position]()
	g.renderer = render.NewRenderer(g.screen)
}

// now is the simulation clock in milliseconds since the run started.
func (g *Game) now() int64 { return time.Since(g.start).Milliseconds() }

// Run is the main game loop. It returns when the player quits.
func (g *Game) Run() error {
	defer g.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	events, _ := pollEvents(g.screen, done)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				g.screen.Sync()
				g.renderer = render.NewRenderer(g.screen)
			case *tcell.EventKey:
				quit, err := g.processAction(keyToAction(ev))
				if err != nil || quit {
					return err
				}
			}
		case <-ticker.C:
			g.step()
			g.draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done is
// closed. events is closed and stopped is closed when the poller exits.
func pollEvents(screen tcell.Screen, done <-chan struct{}) (events <-chan tcell.Event, stopped <-chan struct{}) {
	ch := make(chan tcell.Event, 16)
	exit := make(chan struct{})
	go func() {
		defer close(exit)
		defer close(ch)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case ch <- ev:
			case <-done:
				return
			}
		}
	}()
	return ch, exit
}

// step advances the simulation by one frame and realizes its effects.
func (g *Game) step() {
	if g.session.Over() {
		return
	}
	res := g.session.Advance(g.now())
	g.realize(res.Effects)
}

// processAction handles one player action. It reports whether the player quit.
func (g *Game) processAction(a Action) (bool, error) {
	now := g.now()
	switch a {
	case ActionQuit:
		return true, nil
	case ActionRestart:
		if g.session.Over() {
			return false, g.resetForRun()
		}
		return false, nil
	case ActionAttack:
		_, err := g.session.Attack(now)
		return false, ignoreRunOver(err)
	case ActionExit:
		moved, err := g.session.TryExit(now)
		if err != nil {
			return false, ignoreRunOver(err)
		}
		switch {
		case g.session.Won:
			g.record()
		case moved:
			g.enterLevel()
		}
		return false, nil
	}
	if dir, ok := actionDirection(a); ok {
		_, err := g.session.Move(dir, now)
		return false, ignoreRunOver(err)
	}
	if stat, ok := actionStat(a); ok {
		if err := g.session.Upgrade(stat, now); err != nil && !errors.Is(err, ErrRunOver) {
			g.logger.Debug("upgrade refused", zap.Stringer("stat", stat), zap.Error(err))
		}
	}
	return false, nil
}

func ignoreRunOver(err error) error {
	if errors.Is(err, ErrRunOver) {
		return nil
	}
	return err
}

// realize plays sound effects as terminal bells, applies display effects to
// the view and persists save effects.
func (g *Game) realize(effects []Effect) {
	for _, e := range effects {
		switch e.Type {
		case SoundPlayerDamage, SoundDying:
			_ = g.screen.Beep()
		case DisplayMapRevealed:
			for _, p := range g.session.Level.Grid.WalkablePositions() {
				g.explored.Put(p)
			}
		case SaveRecord:
			g.record()
		}
	}
}

// record appends the run to the run log once.
func (g *Game) record() {
	if g.recorded || g.opts.RecordDir == "" {
		return
	}
	g.recorded = true
	st := g.session.Stats
	rec := runlog.Record{
		RunID:          g.runID,
		LevelID:        g.levelID,
		Seed:           g.opts.Seed,
		EndedAt:        time.Now().UTC(),
		Victory:        g.session.Won,
		StageReached:   st.StageReached,
		PlayerLevel:    g.session.Player.Level,
		ElapsedMs:      g.now(),
		DamageTaken:    st.DamageTaken,
		TrapsTriggered: st.TrapsTriggered,
		WallsBroken:    st.WallsBroken,
		EnemiesKilled:  st.EnemiesKilled,
		ItemsCollected: st.ItemsCollected,
	}
	if err := runlog.Append(g.opts.RecordDir, rec); err != nil {
		g.logger.Warn("run record not saved", zap.Error(err))
	}
}

// View builds the render snapshot for the current frame and marks the lit
// tiles explored.
func (g *Game) View() render.View {
	s := g.session
	lit := system.ComputeFOV(s.Terrain(), s.Player.Pos, g.opts.FOVRadius)
	lit.Each(func(p gamemap.Position) { g.explored.Put(p) })
	return render.View{
		Stage:    s.Level.Stage.Stage,
		Grid:     s.Level.Grid,
		Player:   s.Player,
		Enemies:  s.Enemies,
		Items:    s.Items,
		Traps:    s.Traps,
		Walls:    s.Walls,
		Visible:  &lit,
		Explored: &g.explored,
	}
}

func (g *Game) draw() {
	v := g.View()
	g.renderer.CenterOn(v.Player.Pos)
	g.renderer.DrawFrame(v)

	msgs := make([]string, 0, len(g.session.Messages())+1)
	for _, m := range g.session.Messages() {
		msgs = append(msgs, m.Text)
	}
	switch {
	case g.session.Won:
		msgs = append(msgs, "Victory! [R] new run  [Q] quit")
	case g.session.GameOver:
		msgs = append(msgs, "Game over. [R] try again  [Q] quit")
	}
	g.renderer.DrawHUD(render.HUD{
		Stage:       v.Stage,
		Player:      v.Player,
		Pending:     g.session.PendingLevelPoints,
		KeyRequired: g.session.Level.Stage.KeyRequired,
		Messages:    msgs,
	})
}
