package sequencer

// Frame is one full repaint of the pad grid. Row 0 is the bottom
// sequencer row; the top row (Rows-1) is the loop/page header band.
type Frame struct {
	Cols, Rows int
	cells      []Color
}

func NewFrame(cols, rows int) Frame {
	return Frame{Cols: cols, Rows: rows, cells: make([]Color, cols*rows)}
}

func (f Frame) At(x, y int) Color {
	if x < 0 || x >= f.Cols || y < 0 || y >= f.Rows {
		return ColorOff
	}
	return f.cells[y*f.Cols+x]
}

func (f Frame) set(x, y int, c Color) {
	if x >= 0 && x < f.Cols && y >= 0 && y < f.Rows {
		f.cells[y*f.Cols+x] = c
	}
}
