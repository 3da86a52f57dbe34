package web

import (
	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/game"
)

type CellView struct {
	ID   string `json:"id"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Lit  bool   `json:"lit"`
	Hint bool   `json:"hint,omitempty"`
}

type BoardView struct {
	SessionID string       `json:"session_id"`
	Height    int          `json:"height"`
	Width     int          `json:"width"`
	Rows      [][]CellView `json:"rows,omitempty"`
	Lit       int          `json:"lit"`
	Moves     int          `json:"moves"`
	State     string       `json:"state"`
	Won       bool         `json:"won"`
}

// newBoardView maps the session to its cells. A won session carries no
// rows; the surface shows the notice instead of the grid.
func newBoardView(s *game.Session, hint *board.Coord) BoardView {
	g := s.Grid()
	v := BoardView{
		SessionID: s.ID(),
		Height:    g.Height(),
		Width:     g.Width(),
		Lit:       g.LitCount(),
		Moves:     s.Moves(),
		State:     s.State().String(),
		Won:       s.State() == game.Won,
	}
	if v.Won {
		return v
	}

	v.Rows = make([][]CellView, g.Height())
	for r := range v.Rows {
		v.Rows[r] = make([]CellView, g.Width())
		for c := range v.Rows[r] {
			coord := board.Coord{Row: r, Col: c}
			v.Rows[r][c] = CellView{
				ID:   coord.String(),
				Row:  r,
				Col:  c,
				Lit:  g.At(coord),
				Hint: hint != nil && *hint == coord,
			}
		}
	}
	return v
}
