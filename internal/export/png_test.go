package export

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/san-kum/lightsout/internal/board"
)

func TestGridToPNG(t *testing.T) {
	g := board.MustParse("O.\n.O")
	img, err := GridToPNG(g, 16)
	if err != nil {
		t.Fatal(err)
	}

	// 2 cells of 16 plus 3 gaps of 2.
	if b := img.Bounds(); b.Dx() != 38 || b.Dy() != 38 {
		t.Fatalf("unexpected size %v", b)
	}

	centre := func(c board.Coord) (x, y int) {
		return 2 + c.Col*18 + 8, 2 + c.Row*18 + 8
	}
	for _, c := range g.Coords() {
		x, y := centre(c)
		r, _, b, _ := img.At(x, y).RGBA()
		if g.At(c) {
			if r>>8 < 0xf0 || b>>8 > 0x80 {
				t.Errorf("cell %s should be lit, got r=%#x b=%#x", c, r>>8, b>>8)
			}
		} else if r>>8 > 0x60 {
			t.Errorf("cell %s should be dark, got r=%#x", c, r>>8)
		}
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, board.MustParse("O"), 8); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Errorf("unexpected width %d", img.Bounds().Dx())
	}
}

func TestGridToPNG_Empty(t *testing.T) {
	if _, err := GridToPNG(board.Grid{}, 16); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}
}
