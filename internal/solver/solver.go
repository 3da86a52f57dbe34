// Package solver finds press sequences that switch every light off.
//
// Pressing a cell twice cancels out and presses commute, so a solution is a
// set of cells. Each cell contributes one equation over GF(2): the parity of
// presses touching it must equal its current state. The system is reduced
// with Gauss-Jordan elimination on bit-packed rows.
package solver

import (
	"errors"
	"math/bits"

	"github.com/san-kum/lightsout/internal/board"
)

var ErrUnsolvable = errors.New("no press sequence turns this grid off")

// maxFreeSearch bounds the null-space enumeration used to pick the shortest
// solution. Above it the first solution found is returned.
const maxFreeSearch = 16

type bitrow []uint64

func newBitrow(n int) bitrow { return make(bitrow, (n+63)/64) }

func (b bitrow) get(i int) bool { return b[i/64]&(1<<(uint(i)%64)) != 0 }
func (b bitrow) set(i int)      { b[i/64] |= 1 << (uint(i) % 64) }

func (b bitrow) xor(o bitrow) {
	for i := range b {
		b[i] ^= o[i]
	}
}

func (b bitrow) count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

type system struct {
	n      int
	rows   []bitrow // n press columns plus the target column at index n
	pivots []int    // pivot column per reduced row
	free   []int
}

func build(g board.Grid) *system {
	h, w := g.Height(), g.Width()
	n := h * w
	s := &system{n: n, rows: make([]bitrow, n)}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			i := r*w + c
			row := newBitrow(n + 1)
			row.set(i)
			if c > 0 {
				row.set(i - 1)
			}
			if c < w-1 {
				row.set(i + 1)
			}
			if r > 0 {
				row.set(i - w)
			}
			if r < h-1 {
				row.set(i + w)
			}
			if g.At(board.Coord{Row: r, Col: c}) {
				row.set(n)
			}
			s.rows[i] = row
		}
	}
	return s
}

// reduce brings the system to reduced row echelon form and reports whether
// it is consistent.
func (s *system) reduce() bool {
	rank := 0
	for col := 0; col < s.n; col++ {
		p := -1
		for r := rank; r < len(s.rows); r++ {
			if s.rows[r].get(col) {
				p = r
				break
			}
		}
		if p < 0 {
			s.free = append(s.free, col)
			continue
		}
		s.rows[rank], s.rows[p] = s.rows[p], s.rows[rank]
		for r := range s.rows {
			if r != rank && s.rows[r].get(col) {
				s.rows[r].xor(s.rows[rank])
			}
		}
		s.pivots = append(s.pivots, col)
		rank++
	}
	for r := rank; r < len(s.rows); r++ {
		if s.rows[r].get(s.n) {
			return false
		}
	}
	return true
}

// solution back-substitutes with the free variables taken from mask.
func (s *system) solution(mask uint64) bitrow {
	x := newBitrow(s.n)
	for i, col := range s.free {
		if mask&(1<<uint(i)) != 0 {
			x.set(col)
		}
	}
	for r, col := range s.pivots {
		v := s.rows[r].get(s.n)
		for _, f := range s.free {
			if s.rows[r].get(f) && x.get(f) {
				v = !v
			}
		}
		if v {
			x.set(col)
		}
	}
	return x
}

// search walks the null space in Gray-code order, so each step flips one
// free variable and costs a single xor with that variable's null vector.
func (s *system) search() bitrow {
	x := s.solution(0)
	k := len(s.free)
	if k == 0 || k > maxFreeSearch {
		return x
	}

	null := make([]bitrow, k)
	for i := range null {
		v := s.solution(1 << uint(i))
		v.xor(x)
		null[i] = v
	}

	best := append(bitrow(nil), x...)
	bestCount := x.count()
	for step := uint64(1); step < 1<<uint(k); step++ {
		x.xor(null[bits.TrailingZeros64(step)])
		if n := x.count(); n < bestCount {
			bestCount = n
			copy(best, x)
		}
	}
	return best
}

// Solve returns the cells to press, in row-major order, to switch every
// light of g off. Among all solutions the one with the fewest presses is
// chosen when the solution space is small enough to enumerate.
func Solve(g board.Grid) ([]board.Coord, error) {
	if g.HasWon() {
		return nil, nil
	}
	s := build(g)
	if !s.reduce() {
		return nil, ErrUnsolvable
	}

	best := s.search()
	w := g.Width()
	presses := make([]board.Coord, 0, best.count())
	for i := 0; i < s.n; i++ {
		if best.get(i) {
			presses = append(presses, board.Coord{Row: i / w, Col: i % w})
		}
	}
	return presses, nil
}

func Solvable(g board.Grid) bool {
	return build(g).reduce()
}

// Apply presses every coordinate in order and returns the final grid.
func Apply(g board.Grid, presses []board.Coord) board.Grid {
	for _, c := range presses {
		g = g.ToggleAround(c)
	}
	return g
}
