package engine

import (
	"bomberman/game"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// ANSI colours per tile kind
var kindColors = map[game.Kind]string{
	game.Wall:      "8",
	game.Box:       "3",
	game.Bomb:      "1",
	game.Explosion: "9",
	game.BombUp:    "2",
	game.FireUp:    "2",
	game.SpeedUp:   "2",
	game.Coin:      "11",
	game.Lava:      "5",
}

// PrintBoard writes the tile map with living players drawn as their index.
// Colours follow the terminal behind w unless options say otherwise.
func PrintBoard(w io.Writer, state *game.GameState, options ...termenv.OutputOption) error {
	out := termenv.NewOutput(w, options...)

	players := map[game.GridPosition]int{}
	for i, a := range state.Agents {
		if p := a.Player(); p.Alive() {
			players[p.GridPosition()] = i
		}
	}

	m := state.TileMap
	var b strings.Builder
	for row, height := 0, m.Height(); row < height; row++ {
		for column, width := 0, m.Width(); column < width; column++ {
			pos := game.GridPosition{Row: row, Column: column}
			if i, ok := players[pos]; ok {
				b.WriteString(out.String(strconv.Itoa(i % 10)).Foreground(out.Color("6")).Bold().String())
				continue
			}
			t := m.GetTile(pos)
			if t == nil {
				b.WriteByte('.')
				continue
			}
			b.WriteString(out.String(string(game.Glyph(t.Kind))).Foreground(out.Color(kindColors[t.Kind])).String())
		}
		b.WriteByte('\n')
	}

	_, err := out.WriteString(b.String())
	return err
}
