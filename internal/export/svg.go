package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/lightsout/internal/board"
)

// GridToSVG draws g as a square per cell, scale pixels wide, with lit cells
// filled.
func GridToSVG(g board.Grid, scale float64) string {
	if g.Height() == 0 || g.Width() == 0 {
		return ""
	}
	if scale <= 0 {
		scale = 32
	}

	gap := scale / 8
	width := float64(g.Width())*(scale+gap) + gap
	height := float64(g.Height())*(scale+gap) + gap

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="%.0f" height="%.0f" fill="#0a0a0a"/>
`, width, height, width, height, width, height))

	for _, c := range g.Coords() {
		fill := "#2a2a31"
		if g.At(c) {
			fill = "#ffd84d"
		}
		x := gap + float64(c.Col)*(scale+gap)
		y := gap + float64(c.Row)*(scale+gap)
		sb.WriteString(fmt.Sprintf(`<rect id="cell-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s"/>
`, c, x, y, scale, scale, scale/8, fill))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
