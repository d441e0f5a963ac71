package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render("■")
}

// GridCell is one resolved cell of the on-screen grid mirror.
type GridCell struct {
	Color [3]uint8
}

// RenderGrid draws a cols x rows pad grid with the top row first.
// Row 0 of the input is the bottom row, matching the engine's frame.
func RenderGrid(cols, rows int, cell func(x, y int) GridCell) string {
	var lines []string
	for y := rows - 1; y >= 0; y-- {
		var line strings.Builder
		for x := 0; x < cols; x++ {
			line.WriteString(RenderPad(cell(x, y).Color))
			if x < cols-1 {
				line.WriteString(" ")
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "■ name"
func RenderLegendItem(color [3]uint8, name string) string {
	return fmt.Sprintf("%s %s", RenderPad(color), name)
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
