package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"ipne/internal/component"
)

// HUD is the status block drawn under the map.
type HUD struct {
	Stage       int
	Player      component.Player
	Pending     int
	KeyRequired bool
	Messages    []string
}

// StatusLine formats the player's state for the first HUD row.
func (h HUD) StatusLine() string {
	p := h.Player
	s := fmt.Sprintf("HP: %d/%d  Lv:%d  ATK:%d RNG:%d SPD:%.1f AS:%.1f HEAL:%d  Stage: %d",
		p.HP, p.MaxHP, p.Level,
		p.Stats.AttackPower, p.Stats.AttackRange, p.Stats.MoveSpeed, p.Stats.AttackSpeed, p.Stats.HealBonus,
		h.Stage)
	if h.Pending > 0 {
		s += fmt.Sprintf("  [%d point(s): 1-5 to upgrade]", h.Pending)
	}
	switch {
	case p.HasKey:
		s += "  🔑"
	case h.KeyRequired:
		s += "  (key needed)"
	}
	return s
}

// DrawHUD renders the status bar and message log at the bottom of the screen.
func (r *Renderer) DrawHUD(h HUD) {
	_, screenH := r.screen.Size()
	hudY := screenH - HUDRows

	// Separator line.
	r.drawHLine(hudY, tcell.ColorGray)

	hpColor := tcell.ColorWhite
	if h.Player.HP*3 <= h.Player.MaxHP {
		hpColor = tcell.ColorRed
	}
	r.drawText(0, hudY+1, h.StatusLine(), tcell.StyleDefault.Foreground(hpColor))

	// Message log (last 3 messages).
	start := max(0, len(h.Messages)-3)
	for i, msg := range h.Messages[start:] {
		r.drawText(0, hudY+2+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}

	r.screen.Show()
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text from column x, advancing by each rune's display width.
func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(1, runewidth.RuneWidth(ch))
	}
}
