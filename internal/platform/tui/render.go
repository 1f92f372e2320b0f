package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// Palette maps screen colors to terminal styles.
type Palette map[core.Color]lipgloss.Style

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// DefaultPalette uses the 16 ANSI colors plus two 256-color shades for the
// larger tiles.
func DefaultPalette() Palette {
	return Palette{
		core.ColorDefault:       lipgloss.NewStyle(),
		core.ColorRed:           fg("1"),
		core.ColorGreen:         fg("2"),
		core.ColorYellow:        fg("3"),
		core.ColorBlue:          fg("4"),
		core.ColorMagenta:       fg("5"),
		core.ColorCyan:          fg("6"),
		core.ColorWhite:         fg("7"),
		core.ColorBrightRed:     fg("9").Bold(true),
		core.ColorBrightGreen:   fg("10").Bold(true),
		core.ColorBrightYellow:  fg("11").Bold(true),
		core.ColorBrightBlue:    fg("12").Bold(true),
		core.ColorBrightMagenta: fg("13").Bold(true),
		core.ColorBrightCyan:    fg("14").Bold(true),
		core.ColorBrightWhite:   fg("15").Bold(true),
		core.ColorOrange:        fg("208"),
		core.ColorGray:          fg("245"),
	}
}

// MonoPalette renders everything unstyled, for terminals without color.
func MonoPalette() Palette {
	return Palette{core.ColorDefault: lipgloss.NewStyle()}
}

func (p Palette) style(c core.Color) (lipgloss.Style, bool) {
	if s, ok := p[c]; ok {
		return s, true
	}
	s, ok := p[core.ColorDefault]
	return s, ok
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen, p Palette) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if style, ok := p.style(startColor); ok {
				sb.WriteString(style.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
		}
	}
	return sb.String()
}
