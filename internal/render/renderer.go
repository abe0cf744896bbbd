// Package render draws level snapshots: onto a tcell screen for the
// interactive harness, or as plain ASCII for dumps and tests.
package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/zyedidia/generic/mapset"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

// HUDRows is the number of bottom rows reserved for the HUD.
const HUDRows = 5

// View is everything the renderer needs to draw one frame.
type View struct {
	Stage   int
	Grid    *gamemap.Grid
	Player  component.Player
	Enemies []component.Enemy
	Items   []component.Item
	Traps   []component.Trap
	Walls   []component.Wall
	// Visible is the player's field of view. Nil means everything is lit.
	Visible *mapset.Set[gamemap.Position]
	// Explored tiles are drawn dimmed when not visible. Nil means none.
	Explored *mapset.Set[gamemap.Position]
}

func (v View) visible(p gamemap.Position) bool {
	return v.Visible == nil || v.Visible.Has(p)
}

func (v View) explored(p gamemap.Position) bool {
	return v.Explored != nil && v.Explored.Has(p)
}

// Renderer draws the game world onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(gamemap.Position{}, w, max(1, h-HUDRows)),
	}
}

// CenterOn recenters the camera on world position p.
func (r *Renderer) CenterOn(p gamemap.Position) { r.camera.Center(p) }

// WorldToScreen converts world coordinates to screen coordinates.
// visible is false when the position falls outside the viewport.
func (r *Renderer) WorldToScreen(p gamemap.Position) (sx, sy int, visible bool) {
	return r.camera.WorldToScreen(p)
}

// DrawFrame renders tiles and entities. The HUD is drawn separately.
func (r *Renderer) DrawFrame(v View) {
	r.screen.Clear()
	r.drawMap(v)
	r.drawEntities(v)
}

// drawMap renders all visible/explored tiles using per-stage emoji glyphs.
func (r *Renderer) drawMap(v View) {
	theme := ThemeFor(v.Stage)
	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	walls := wallIndex(v.Walls)

	for y := 0; y < v.Grid.Height; y++ {
		for x := 0; x < v.Grid.Width; x++ {
			p := gamemap.Position{X: x, Y: y}
			lit := v.visible(p)
			if !lit && !v.explored(p) {
				continue
			}
			sx, sy, onScreen := r.camera.WorldToScreen(p)
			if !onScreen {
				continue
			}

			tile := v.Grid.At(p)
			var glyph string
			switch {
			case tile == gamemap.TileStart:
				glyph = GlyphStart
			case tile == gamemap.TileGoal:
				glyph = GlyphGoal
			case lit:
				glyph = theme.Floor
				if tile == gamemap.TileWall {
					glyph = theme.Wall
				}
			default:
				glyph = theme.DimFloor
				if tile == gamemap.TileWall {
					glyph = theme.DimWall
				}
			}
			if w, ok := walls[p]; ok && lit {
				glyph = wallGlyph(w, tile, theme)
			}
			r.putGlyph(sx, sy, glyph, style)
		}
	}
}

// wallGlyph picks the glyph for a gimmick wall. Unrevealed trick walls
// look like whatever the grid holds underneath.
func wallGlyph(w component.Wall, tile gamemap.Tile, theme StageTiles) string {
	underneath := theme.Floor
	if tile == gamemap.TileWall {
		underneath = theme.Wall
	}
	switch {
	case w.State == component.WallBroken:
		return theme.Floor
	case w.Type == component.WallBreakable && w.State == component.WallDamaged:
		return "🪨"
	case w.Type == component.WallBreakable:
		return "🧱"
	case w.State == component.WallRevealed && w.Type == component.WallPassable:
		return "🫥"
	case w.State == component.WallRevealed && w.Type == component.WallInvisible:
		return "🔳"
	case w.Type == component.WallInvisible:
		return underneath
	}
	return theme.Wall
}

func wallIndex(walls []component.Wall) map[gamemap.Position]component.Wall {
	m := make(map[gamemap.Position]component.Wall, len(walls))
	for _, w := range walls {
		m[w.Pos] = w
	}
	return m
}

// drawEntities renders traps, then items, then enemies, then the player, so
// later layers cover earlier ones.
func (r *Renderer) drawEntities(v View) {
	bg := tcell.StyleDefault.Background(tcell.ColorBlack)
	draw := func(p gamemap.Position, glyph string, style tcell.Style) {
		if !v.visible(p) {
			return
		}
		if sx, sy, ok := r.camera.WorldToScreen(p); ok {
			r.putGlyph(sx, sy, glyph, style)
		}
	}

	for _, t := range v.Traps {
		if t.State != component.TrapHidden {
			draw(t.Pos, TrapGlyph(t.Type), bg)
		}
	}
	for _, it := range v.Items {
		draw(it.Pos, ItemGlyph(it.Type), bg)
	}
	for _, e := range v.Enemies {
		if e.Alive() {
			draw(e.Pos, EnemyGlyph(e.Type), bg.Foreground(enemyColor(e.State)))
		}
	}
	draw(v.Player.Pos, GlyphPlayer, bg)
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
