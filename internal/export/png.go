package export

import (
	"errors"
	"image"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/san-kum/lightsout/internal/board"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var ErrEmptyGrid = errors.New("empty grid")

// GridToPNG rasterizes the GridToSVG drawing of g.
func GridToPNG(g board.Grid, scale float64) (*image.RGBA, error) {
	doc := GridToSVG(g, scale)
	if doc == "" {
		return nil, ErrEmptyGrid
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(doc))
	if err != nil {
		return nil, err
	}
	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}

func WritePNG(out io.Writer, g board.Grid, scale float64) error {
	img, err := GridToPNG(g, scale)
	if err != nil {
		return err
	}
	return png.Encode(out, img)
}
