package board

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestNew_Dimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g, err := New(4, 6, 0.5, rng)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.Height() != 4 || g.Width() != 6 {
		t.Errorf("got %dx%d, want 4x6", g.Height(), g.Width())
	}
	if len(g.Rows()) != 4 || len(g.Rows()[0]) != 6 {
		t.Errorf("Rows() has wrong shape")
	}
}

func TestNew_InvalidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name   string
		h, w   int
		p      float64
		rng    *rand.Rand
		target error
	}{
		{"zero height", 0, 5, 0.25, rng, ErrInvalidDimensions},
		{"negative width", 5, -1, 0.25, rng, ErrInvalidDimensions},
		{"probability below zero", 5, 5, -0.1, rng, ErrInvalidProbability},
		{"probability above one", 5, 5, 1.5, rng, ErrInvalidProbability},
		{"probability NaN", 5, 5, math.NaN(), rng, ErrInvalidProbability},
		{"nil source", 5, 5, 0.25, nil, ErrNilSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.h, tt.w, tt.p, tt.rng)
			if !errors.Is(err, tt.target) {
				t.Errorf("New() error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestNew_ProbabilityExtremes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	off, err := New(4, 7, 0, rng)
	if err != nil {
		t.Fatal(err)
	}
	if off.LitCount() != 0 || !off.HasWon() {
		t.Errorf("p=0 should give an all-off, won grid:\n%s", off)
	}

	on, err := New(4, 7, 1, rng)
	if err != nil {
		t.Fatal(err)
	}
	if on.LitCount() != 28 || on.HasWon() {
		t.Errorf("p=1 should give an all-on grid:\n%s", on)
	}
}

func TestNew_Deterministic(t *testing.T) {
	a, _ := New(5, 5, 0.5, rand.New(rand.NewSource(42)))
	b, _ := New(5, 5, 0.5, rand.New(rand.NewSource(42)))
	if !a.Equal(b) {
		t.Errorf("same seed produced different grids:\n%s\n%s", a, b)
	}
}

func TestToggleAround_FlipSet(t *testing.T) {
	empty, _ := Empty(5, 5)
	tests := []struct {
		name   string
		at     Coord
		expect string
	}{
		{"centre", Coord{2, 2}, ".....\n..O..\n.OOO.\n..O..\n.....\n"},
		{"corner", Coord{0, 0}, "OO...\nO....\n.....\n.....\n.....\n"},
		{"edge", Coord{4, 2}, ".....\n.....\n.....\n..O..\n.OOO.\n"},
		{"far corner", Coord{4, 4}, ".....\n.....\n.....\n....O\n...OO\n"},
		{"centre above grid", Coord{-1, 2}, "..O..\n.....\n.....\n.....\n.....\n"},
		{"centre far away", Coord{10, 10}, ".....\n.....\n.....\n.....\n.....\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := empty.ToggleAround(tt.at).String()
			if got != tt.expect {
				t.Errorf("ToggleAround(%v) =\n%s\nwant\n%s", tt.at, got, tt.expect)
			}
		})
	}
}

func TestToggleAround_DoesNotMutateReceiver(t *testing.T) {
	g := MustParse("O.O\n...\nO.O")
	before := g.String()
	_ = g.ToggleAround(Coord{1, 1})
	if g.String() != before {
		t.Errorf("receiver changed:\n%s", g)
	}
}

func TestToggleAround_SingleCell(t *testing.T) {
	g, _ := Empty(1, 1)
	g = g.ToggleAround(Coord{0, 0})
	if !g.At(Coord{0, 0}) || g.LitCount() != 1 {
		t.Errorf("1x1 toggle should light the only cell, got %q", g.String())
	}
	g = g.ToggleAround(Coord{0, 0})
	if !g.HasWon() {
		t.Error("second toggle should switch it off again")
	}
}

func TestHasWon(t *testing.T) {
	tests := []struct {
		grid string
		won  bool
	}{
		{"...\n...\n...", true},
		{"...\n.O.\n...", false},
		{"O", false},
		{".", true},
		{"....\n...O", false},
	}

	for _, tt := range tests {
		if got := MustParse(tt.grid).HasWon(); got != tt.won {
			t.Errorf("HasWon(%q) = %v, want %v", tt.grid, got, tt.won)
		}
	}
}

func TestAt_OutOfBounds(t *testing.T) {
	g := MustParse("OO\nOO")
	for _, c := range []Coord{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if g.At(c) {
			t.Errorf("At(%v) should be false", c)
		}
	}
}

func TestRows_IsCopy(t *testing.T) {
	g := MustParse("..\n..")
	rows := g.Rows()
	rows[0][0] = true
	if g.At(Coord{0, 0}) {
		t.Error("mutating Rows() leaked into grid")
	}
}

func TestFromRows_Ragged(t *testing.T) {
	_, err := FromRows([][]bool{{true, false}, {true}})
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
	_, err = FromRows(nil)
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions for no rows, got %v", err)
	}
}

func TestParse(t *testing.T) {
	g, err := ParseString("# comment\n\nO . o\n1 0 x\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if g.Height() != 2 || g.Width() != 3 {
		t.Fatalf("got %dx%d, want 2x3", g.Height(), g.Width())
	}
	if g.String() != "O.O\nO.O\n" {
		t.Errorf("unexpected grid:\n%s", g)
	}

	_, err = ParseString("O?O")
	if err == nil || !strings.Contains(err.Error(), "line 1") {
		t.Errorf("expected line error, got %v", err)
	}
}

func TestCoords(t *testing.T) {
	g, _ := Empty(2, 3)
	coords := g.Coords()
	if len(coords) != 6 {
		t.Fatalf("expected 6 coords, got %d", len(coords))
	}
	if coords[0] != (Coord{0, 0}) || coords[5] != (Coord{1, 2}) {
		t.Errorf("coords not row-major: %v", coords)
	}
	if coords[3].String() != "1-0" {
		t.Errorf("Coord.String() = %q, want 1-0", coords[3].String())
	}
}
