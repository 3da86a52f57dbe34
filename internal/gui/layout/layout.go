// Package layout holds the pixel geometry of the desktop window. It does not
// import ebiten so it can be tested without a display.
package layout

import "github.com/san-kum/lightsout/internal/board"

const (
	CellSize = 64
	CellGap  = 6
	Margin   = 24
	Header   = 72
	Footer   = 40

	MinWidth = 360
)

func WindowSize(rows, cols int) (int, int) {
	w := 2*Margin + cols*CellSize + (cols-1)*CellGap
	h := Header + rows*CellSize + (rows-1)*CellGap + Footer
	if w < MinWidth {
		w = MinWidth
	}
	return w, h
}

func CellOrigin(c board.Coord) (int, int) {
	return Margin + c.Col*(CellSize+CellGap), Header + c.Row*(CellSize+CellGap)
}

// CellAt maps a window position to the cell drawn there; gaps hit nothing.
func CellAt(g board.Grid, x, y int) (board.Coord, bool) {
	dx, dy := x-Margin, y-Header
	if dx < 0 || dy < 0 {
		return board.Coord{}, false
	}
	step := CellSize + CellGap
	if dx%step >= CellSize || dy%step >= CellSize {
		return board.Coord{}, false
	}
	c := board.Coord{Row: dy / step, Col: dx / step}
	return c, g.InBounds(c)
}
