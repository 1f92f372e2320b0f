package t2048

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/vovakirdan/tui-2048/internal/core"
)

const (
	cellWidth  = 7 // Width of each cell (including the left border)
	cellHeight = 2 // Height of each cell (including the top border)
	hudHeight  = 3

	boardW = BoardSize*cellWidth + 1
	boardH = BoardSize*cellHeight + 1

	minScreenW = boardW + 2
	minScreenH = hudHeight + boardH + 3
)

// tileColors follows the usual palette from pale low tiles to hot high ones.
var tileColors = map[int]core.Color{
	2:    core.ColorWhite,
	4:    core.ColorBrightWhite,
	8:    core.ColorYellow,
	16:   core.ColorOrange,
	32:   core.ColorBrightRed,
	64:   core.ColorRed,
	128:  core.ColorBrightYellow,
	256:  core.ColorBrightGreen,
	512:  core.ColorGreen,
	1024: core.ColorBrightCyan,
	2048: core.ColorBrightMagenta,
}

func tileColor(value int) core.Color {
	if c, ok := tileColors[value]; ok {
		return c
	}
	return core.ColorMagenta
}

// Render draws the game state to the screen.
func (e *Engine) Render(dst *core.Screen) {
	dst.Clear()
	if e.screenW == 0 && e.screenH == 0 {
		e.SetScreenSize(dst.Width(), dst.Height())
	}

	if e.tooSmall {
		e.renderTooSmall(dst)
		return
	}

	boardX := (e.screenW - boardW) / 2
	boardY := hudHeight + 1

	e.renderHUD(dst, boardX)
	e.renderBoard(dst, boardX, boardY)
	e.renderFooter(dst, boardX, boardY+boardH)
	e.renderOverlays(dst, core.NewRect(boardX, boardY, boardW, boardH))
}

func (e *Engine) renderTooSmall(dst *core.Screen) {
	y := e.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

func (e *Engine) renderHUD(dst *core.Screen, boardX int) {
	s := e.state

	title := "2048"
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorBrightYellow)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score: %d", s.Score))
	best := fmt.Sprintf("Best: %d", s.Best)
	dst.DrawText(boardX+boardW-len(best), 1, best)

	if s.BestName != "" {
		holder := "by " + s.BestName
		dst.DrawTextColor(boardX+boardW-utf8.RuneCountInString(holder), 2, holder, core.ColorGray)
	}
	sound := "Sound: off"
	if s.SoundEnabled {
		sound = "Sound: on"
	}
	dst.DrawTextColor(boardX, 2, sound, core.ColorGray)
}

func (e *Engine) renderBoard(dst *core.Screen, boardX, boardY int) {
	for y := range BoardSize + 1 {
		for x := range BoardSize + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == BoardSize:
				corner = '┐'
			case y == BoardSize && x == 0:
				corner = '└'
			case y == BoardSize && x == BoardSize:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == BoardSize:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == BoardSize:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.Set(px, py, corner)

			if x < BoardSize {
				for i := 1; i < cellWidth; i++ {
					dst.Set(px+i, py, '─')
				}
			}
			if y < BoardSize {
				for i := 1; i < cellHeight; i++ {
					dst.Set(px, py+i, '│')
				}
			}
		}
	}

	for _, t := range e.state.Board.Tiles() {
		cellX := boardX + t.Col*cellWidth + 1
		cellY := boardY + t.Row*cellHeight + 1

		label := strconv.Itoa(t.Value)
		merged, fresh := e.tileEffect(t.ID)
		switch {
		case merged:
			label = "*" + label + "*"
		case fresh:
			label = "+" + label
		}
		pad := max((cellWidth-1-len(label))/2, 0)
		dst.DrawTextColor(cellX+pad, cellY, label, tileColor(t.Value))
	}
}

func (e *Engine) renderFooter(dst *core.Screen, boardX, y int) {
	if e.state.Status == StatusWon {
		dst.DrawTextColor(boardX, y+1, "2048 reached! Keep going", core.ColorBrightGreen)
	}
	hint := e.Controls()
	dst.DrawTextColor(max((e.screenW-len(hint))/2, 0), y+2, hint, core.ColorGray)
}

func (e *Engine) renderOverlays(dst *core.Screen, board core.Rect) {
	s := e.state
	switch {
	case e.awaitingName:
		e.drawOverlay(dst, board, core.ColorBrightYellow,
			"NEW BEST SCORE!",
			fmt.Sprintf("%d points", s.Best),
			"Enter your name below")
	case s.Status == StatusOver:
		e.drawOverlay(dst, board, core.ColorBrightRed,
			"GAME OVER",
			fmt.Sprintf("Score: %d", s.Score),
			fmt.Sprintf("Max tile: %d", s.Board.MaxValue()),
			"N: new game")
	}
}

func (e *Engine) drawOverlay(dst *core.Screen, board core.Rect, color core.Color, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := board.Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	cx, _ := box.Center()
	for i, line := range lines {
		c := core.ColorDefault
		if i == 0 {
			c = color
		}
		dst.DrawTextColor(cx-utf8.RuneCountInString(line)/2, box.Y+1+i, line, c)
	}
}

// Controls returns the control hints for the game.
func (e *Engine) Controls() string {
	return "Arrows/WASD move  N new  H reset  M sound  Q quit"
}
