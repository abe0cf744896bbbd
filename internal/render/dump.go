package render

import (
	"strings"

	"ipne/internal/component"
	"ipne/internal/gamemap"
)

// ASCII glyphs used by Dump.
const (
	asciiPlayer = '@'
	asciiTrap   = '^'
	asciiItem   = '!'
	asciiKey    = 'k'
)

var asciiEnemies = map[component.EnemyType]rune{
	component.EnemyPatrol:   'p',
	component.EnemyCharge:   'c',
	component.EnemyRanged:   'r',
	component.EnemySpecimen: 's',
	component.EnemyMiniBoss: 'B',
	component.EnemyBoss:     'B',
	component.EnemyMegaBoss: 'M',
}

var asciiWalls = map[component.WallType]rune{
	component.WallNormal:    '#',
	component.WallBreakable: '%',
	component.WallPassable:  '=',
	component.WallInvisible: '?',
}

// Dump renders v as ASCII, one rune per tile, ignoring field of view. Hidden
// traps and gimmick walls are shown so generated levels can be inspected.
// Layers from bottom to top: tiles, walls, traps, items, enemies, player.
func Dump(v View) string {
	rows := make([][]rune, v.Grid.Height)
	for y := range rows {
		rows[y] = make([]rune, v.Grid.Width)
		for x := range rows[y] {
			rows[y][x] = v.Grid.At(gamemap.Position{X: x, Y: y}).Rune()
		}
	}
	set := func(p gamemap.Position, r rune) {
		if v.Grid.InBounds(p) {
			rows[p.Y][p.X] = r
		}
	}

	for _, w := range v.Walls {
		if w.State != component.WallBroken {
			set(w.Pos, asciiWalls[w.Type])
		}
	}
	for _, t := range v.Traps {
		set(t.Pos, asciiTrap)
	}
	for _, it := range v.Items {
		if it.Type == component.ItemKey {
			set(it.Pos, asciiKey)
		} else {
			set(it.Pos, asciiItem)
		}
	}
	for _, e := range v.Enemies {
		if e.Alive() {
			set(e.Pos, asciiEnemies[e.Type])
		}
	}
	if v.Player.MaxHP > 0 {
		set(v.Player.Pos, asciiPlayer)
	}

	var b strings.Builder
	for y, row := range rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}
