package board_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lightsout/internal/board"
)

func diff(a, b board.Grid) []board.Coord {
	var out []board.Coord
	for _, c := range a.Coords() {
		if a.At(c) != b.At(c) {
			out = append(out, c)
		}
	}
	return out
}

var _ = Describe("ToggleAround", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	It("is its own inverse for every in-bounds coordinate", func() {
		for i := 0; i < 20; i++ {
			g, err := board.New(1+rng.Intn(7), 1+rng.Intn(7), rng.Float64(), rng)
			Expect(err).NotTo(HaveOccurred())
			for _, c := range g.Coords() {
				Expect(g.ToggleAround(c).ToggleAround(c).Equal(g)).To(BeTrue(), "coord %v", c)
			}
		}
	})

	It("flips exactly the in-bounds plus shape and nothing else", func() {
		g, err := board.New(6, 4, 0.5, rng)
		Expect(err).NotTo(HaveOccurred())
		for _, c := range g.Coords() {
			var want []board.Coord
			for _, n := range []board.Coord{
				{Row: c.Row - 1, Col: c.Col},
				{Row: c.Row, Col: c.Col - 1},
				c,
				{Row: c.Row, Col: c.Col + 1},
				{Row: c.Row + 1, Col: c.Col},
			} {
				if g.InBounds(n) {
					want = append(want, n)
				}
			}
			Expect(diff(g, g.ToggleAround(c))).To(Equal(want))
		}
	})

	It("lights only the corner and its two neighbours on a dark 3x3 grid", func() {
		g, err := board.Empty(3, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.ToggleAround(board.Coord{Row: 0, Col: 0}).String()).To(Equal("OO.\nO..\n...\n"))
	})

	It("lights only the cell on a 1x1 grid", func() {
		g, err := board.Empty(1, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(g.ToggleAround(board.Coord{}).LitCount()).To(Equal(1))
	})

	Context("when the centre lies outside the grid", func() {
		It("still flips the neighbours that are inside", func() {
			g, err := board.Empty(3, 3)
			Expect(err).NotTo(HaveOccurred())
			next := g.ToggleAround(board.Coord{Row: 1, Col: 3})
			Expect(diff(g, next)).To(ConsistOf(board.Coord{Row: 1, Col: 2}))
		})

		It("changes nothing when no neighbour is inside", func() {
			g, err := board.New(3, 3, 0.5, rng)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.ToggleAround(board.Coord{Row: -2, Col: -2}).Equal(g)).To(BeTrue())
		})
	})
})

var _ = Describe("HasWon", func() {
	It("is true for a grid created with probability 0", func() {
		g, err := board.New(5, 5, 0, rand.New(rand.NewSource(1)))
		Expect(err).NotTo(HaveOccurred())
		Expect(g.HasWon()).To(BeTrue())
	})

	It("is false for a grid created with probability 1", func() {
		g, err := board.New(5, 5, 1, rand.New(rand.NewSource(1)))
		Expect(err).NotTo(HaveOccurred())
		Expect(g.HasWon()).To(BeFalse())
	})

	It("is false as soon as any single light is on", func() {
		g, err := board.Empty(4, 4)
		Expect(err).NotTo(HaveOccurred())
		for _, c := range g.Coords() {
			lit, err := board.FromRows(func() [][]bool {
				rows := g.Rows()
				rows[c.Row][c.Col] = true
				return rows
			}())
			Expect(err).NotTo(HaveOccurred())
			Expect(lit.HasWon()).To(BeFalse())
		}
	})
})
