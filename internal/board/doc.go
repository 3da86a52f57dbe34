// Package board implements the Lights Out grid model.
//
// A [Grid] is an immutable rectangle of lights. The only way to change a grid
// is [Grid.ToggleAround], which returns a new grid with the chosen light and
// its edge neighbours flipped:
//
//	g, _ := board.New(5, 5, 0.25, rand.New(rand.NewSource(1)))
//	g = g.ToggleAround(board.Coord{Row: 2, Col: 2})
//	if g.HasWon() {
//	    // every light is off
//	}
//
// Grids can also be written and read in a small text form, one row per line,
// with 'O' for a lit cell and '.' for an unlit one.
package board
