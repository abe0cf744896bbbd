package render

import (
	"github.com/gdamore/tcell/v2"

	"ipne/internal/component"
)

// StageTiles holds the emoji glyphs used to draw one stage's terrain.
// Emoji are rendered by the terminal with their own colors, so we use
// distinct glyphs for visible vs explored-but-dark states instead of
// trying to tint them with terminal FG color.
type StageTiles struct {
	Wall     string // fully-visible wall tile
	Floor    string // fully-visible floor tile
	DimWall  string // explored but not currently visible wall
	DimFloor string // explored but not currently visible floor
}

// TileThemes maps stage number (1-indexed) to its tile set. Index 0 is the
// fallback.
var TileThemes = [6]StageTiles{
	{Wall: "🧱", Floor: "⬛", DimWall: "🌑", DimFloor: "🔲"},
	// Stage 1: flooded cellars
	{Wall: "🧱", Floor: "🟫", DimWall: "🌑", DimFloor: "🔲"},
	// Stage 2: fungal tunnels
	{Wall: "🍄", Floor: "🌿", DimWall: "🌑", DimFloor: "🔲"},
	// Stage 3: frozen vaults
	{Wall: "🧊", Floor: "⬜", DimWall: "🌑", DimFloor: "🔲"},
	// Stage 4: the foundry
	{Wall: "🌋", Floor: "🟧", DimWall: "🌑", DimFloor: "🔲"},
	// Stage 5: the core
	{Wall: "💀", Floor: "🟥", DimWall: "🌑", DimFloor: "🔲"},
}

// ThemeFor returns the tile set for a stage, falling back to index 0.
func ThemeFor(stageNum int) StageTiles {
	if stageNum < 1 || stageNum >= len(TileThemes) {
		return TileThemes[0]
	}
	return TileThemes[stageNum]
}

const (
	GlyphPlayer = "🧙"
	GlyphStart  = "🚪"
	GlyphGoal   = "🏁"
)

var enemyGlyphs = map[component.EnemyType]string{
	component.EnemyPatrol:   "👹",
	component.EnemyCharge:   "🐗",
	component.EnemyRanged:   "🏹",
	component.EnemySpecimen: "🐀",
	component.EnemyMiniBoss: "👺",
	component.EnemyBoss:     "🐉",
	component.EnemyMegaBoss: "👾",
}

var itemGlyphs = map[component.ItemType]string{
	component.ItemHealthSmall: "🍎",
	component.ItemHealthLarge: "🍖",
	component.ItemHealthFull:  "💖",
	component.ItemLevelUp:     "⭐",
	component.ItemMapReveal:   "📜",
	component.ItemKey:         "🔑",
}

var trapGlyphs = map[component.TrapType]string{
	component.TrapDamage:   "🔺",
	component.TrapSlow:     "🕸",
	component.TrapTeleport: "🌀",
}

// EnemyGlyph returns the glyph drawn for an enemy type.
func EnemyGlyph(t component.EnemyType) string {
	if g, ok := enemyGlyphs[t]; ok {
		return g
	}
	return "❓"
}

// ItemGlyph returns the glyph drawn for an item type.
func ItemGlyph(t component.ItemType) string {
	if g, ok := itemGlyphs[t]; ok {
		return g
	}
	return "❓"
}

// TrapGlyph returns the glyph drawn for a revealed or triggered trap.
func TrapGlyph(t component.TrapType) string {
	if g, ok := trapGlyphs[t]; ok {
		return g
	}
	return "❓"
}

// enemyColor tints the HUD hp readout of an enemy by state.
func enemyColor(s component.EnemyState) tcell.Color {
	switch s {
	case component.StateChase:
		return tcell.ColorRed
	case component.StateFlee:
		return tcell.ColorYellow
	case component.StateKnockback:
		return tcell.ColorGray
	}
	return tcell.ColorWhite
}
