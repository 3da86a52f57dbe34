package board

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	litRune   = 'O'
	unlitRune = '.'
)

func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.height * (g.width + 1))
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if g.cells[r*g.width+c] {
				sb.WriteRune(litRune)
			} else {
				sb.WriteRune(unlitRune)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse reads the text form written by Grid.String. Blank lines and lines
// starting with '#' are ignored; 'O', 'o', 'X', 'x', '1' and '*' are lit,
// '.', '0', '_' and '-' are unlit. Spaces inside a row are skipped.
func Parse(r io.Reader) (Grid, error) {
	var rows [][]bool
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		row := make([]bool, 0, len(text))
		for _, ch := range text {
			switch ch {
			case 'O', 'o', 'X', 'x', '1', '*':
				row = append(row, true)
			case '.', '0', '_', '-':
				row = append(row, false)
			case ' ', '\t':
			default:
				return Grid{}, fmt.Errorf("line %d: unexpected character %q", line, ch)
			}
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return Grid{}, err
	}
	return FromRows(rows)
}

func ParseString(s string) (Grid, error) {
	return Parse(strings.NewReader(s))
}

// MustParse is ParseString for literals known to be valid; it panics otherwise.
func MustParse(s string) Grid {
	g, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return g
}
