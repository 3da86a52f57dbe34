package board

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	ErrInvalidDimensions  = errors.New("invalid grid dimensions")
	ErrInvalidProbability = errors.New("invalid initial-on probability")
	ErrNilSource          = errors.New("nil random source")
)

type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%d-%d", c.Row, c.Col)
}

// neighbours lists the flip offsets: centre, right, left, below, above.
var neighbours = [5]Coord{{0, 0}, {0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Grid is a fixed-size rectangle of lights. The zero value is an empty 0x0
// grid; use New or FromRows to build a playable one.
type Grid struct {
	height int
	width  int
	cells  []bool
}

// New draws a height x width grid where every cell is independently lit with
// probability p.
func New(height, width int, p float64, rng *rand.Rand) (Grid, error) {
	if err := checkDimensions(height, width); err != nil {
		return Grid{}, err
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return Grid{}, fmt.Errorf("%w: %v not in [0,1]", ErrInvalidProbability, p)
	}
	if rng == nil {
		return Grid{}, ErrNilSource
	}

	g := blank(height, width)
	for i := range g.cells {
		g.cells[i] = rng.Float64() < p
	}
	return g, nil
}

// Empty returns an all-off grid.
func Empty(height, width int) (Grid, error) {
	if err := checkDimensions(height, width); err != nil {
		return Grid{}, err
	}
	return blank(height, width), nil
}

// FromRows copies a row-major literal into a Grid. Every row must have the
// same non-zero length.
func FromRows(rows [][]bool) (Grid, error) {
	if len(rows) == 0 {
		return Grid{}, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	width := len(rows[0])
	if err := checkDimensions(len(rows), width); err != nil {
		return Grid{}, err
	}
	g := blank(len(rows), width)
	for r, row := range rows {
		if len(row) != width {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, r, len(row), width)
		}
		copy(g.cells[r*width:(r+1)*width], row)
	}
	return g, nil
}

func checkDimensions(height, width int) error {
	if height < 1 || width < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, height, width)
	}
	return nil
}

func blank(height, width int) Grid {
	return Grid{height: height, width: width, cells: make([]bool, height*width)}
}

func (g Grid) Height() int { return g.height }
func (g Grid) Width() int  { return g.width }

func (g Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.height && c.Col >= 0 && c.Col < g.width
}

// At reports whether the light at c is on. Out of bounds cells read as off.
func (g Grid) At(c Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[c.Row*g.width+c.Col]
}

// ToggleAround returns a copy of g with c and its four edge neighbours
// flipped. Candidates outside the grid are skipped, including c itself, so
// an out of bounds centre still flips any neighbour that lies on the grid.
func (g Grid) ToggleAround(c Coord) Grid {
	next := g.clone()
	for _, d := range neighbours {
		n := Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
		if next.InBounds(n) {
			i := n.Row*next.width + n.Col
			next.cells[i] = !next.cells[i]
		}
	}
	return next
}

func (g Grid) HasWon() bool {
	for _, lit := range g.cells {
		if lit {
			return false
		}
	}
	return true
}

func (g Grid) LitCount() int {
	n := 0
	for _, lit := range g.cells {
		if lit {
			n++
		}
	}
	return n
}

func (g Grid) Equal(other Grid) bool {
	if g.height != other.height || g.width != other.width {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a deep copy of the grid as rows of cells.
func (g Grid) Rows() [][]bool {
	rows := make([][]bool, g.height)
	for r := range rows {
		rows[r] = make([]bool, g.width)
		copy(rows[r], g.cells[r*g.width:(r+1)*g.width])
	}
	return rows
}

// Coords lists every coordinate in row-major order.
func (g Grid) Coords() []Coord {
	out := make([]Coord, 0, len(g.cells))
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			out = append(out, Coord{Row: r, Col: c})
		}
	}
	return out
}

func (g Grid) clone() Grid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return Grid{height: g.height, width: g.width, cells: cells}
}
