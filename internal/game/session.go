// Package game holds one Lights Out session: the current grid, the
// Playing to Won state machine and the bookkeeping the surfaces display.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/config"
	"github.com/san-kum/lightsout/internal/solver"
)

var (
	ErrGameOver    = errors.New("game already won")
	ErrOutOfBounds = errors.New("coordinate outside the grid")
)

// maxDraws bounds how often New re-draws a grid that the solver rejects.
const maxDraws = 1000

type State int

const (
	Playing State = iota
	Won
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session is not safe for concurrent use; callers that share one across
// goroutines must serialise access.
type Session struct {
	id         string
	cfg        config.Config
	seed       int64
	initial    board.Grid
	grid       board.Grid
	history    []board.Coord
	state      State
	moves      int
	startedAt  time.Time
	finishedAt time.Time
	now        func() time.Time
}

type Option func(*Session)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New validates cfg and draws the starting grid from rng. seed is recorded
// with the result so a game can be replayed.
func New(cfg config.Config, rng *rand.Rand, seed int64, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, board.ErrNilSource
	}

	s := &Session{
		id:   uuid.NewString(),
		cfg:  cfg,
		seed: seed,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	g, err := draw(cfg, rng)
	if err != nil {
		return nil, err
	}
	s.initial = g
	s.grid = g
	s.startedAt = s.now()
	if g.HasWon() {
		s.state = Won
		s.finishedAt = s.startedAt
	}
	return s, nil
}

func draw(cfg config.Config, rng *rand.Rand) (board.Grid, error) {
	for i := 0; i < maxDraws; i++ {
		g, err := board.New(cfg.Height, cfg.Width, cfg.InitialOnProbability, rng)
		if err != nil {
			return board.Grid{}, err
		}
		if !cfg.EnsureSolvable || solver.Solvable(g) {
			return g, nil
		}
	}
	return board.Grid{}, fmt.Errorf("no solvable %dx%d grid after %d draws: %w",
		cfg.Height, cfg.Width, maxDraws, solver.ErrUnsolvable)
}

// NewSeeded is New with a source derived from seed; seed 0 uses the clock.
func NewSeeded(cfg config.Config, opts ...Option) (*Session, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(cfg, rand.New(rand.NewSource(seed)), seed, opts...)
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Grid() board.Grid      { return s.grid }
func (s *Session) State() State          { return s.state }
func (s *Session) Moves() int            { return s.moves }
func (s *Session) Seed() int64           { return s.seed }
func (s *Session) Config() config.Config { return s.cfg }
func (s *Session) StartedAt() time.Time  { return s.startedAt }
func (s *Session) FinishedAt() time.Time { return s.finishedAt }

// Toggle flips the light at c and its neighbours and publishes the new grid.
// Once the session is won every further toggle is refused.
func (s *Session) Toggle(c board.Coord) error {
	if s.state == Won {
		return ErrGameOver
	}
	if !s.grid.InBounds(c) {
		return fmt.Errorf("%w: %v on %dx%d", ErrOutOfBounds, c, s.grid.Height(), s.grid.Width())
	}
	s.grid = s.grid.ToggleAround(c)
	s.history = append(s.history, c)
	s.moves++
	if s.grid.HasWon() {
		s.state = Won
		s.finishedAt = s.now()
	}
	return nil
}

// Hint returns one press that belongs to a shortest solution of the current
// grid. It reports false when the game is over or the grid has no solution.
func (s *Session) Hint() (board.Coord, bool) {
	if s.state == Won {
		return board.Coord{}, false
	}
	presses, err := solver.Solve(s.grid)
	if err != nil || len(presses) == 0 {
		return board.Coord{}, false
	}
	return presses[0], true
}

type Result struct {
	ID          string
	Height      int
	Width       int
	Probability float64
	Seed        int64
	Moves       int
	StartedAt   time.Time
	FinishedAt  time.Time
	Initial     board.Grid
	Presses     []board.Coord
}

func (s *Session) Result() Result {
	return Result{
		ID:          s.id,
		Height:      s.cfg.Height,
		Width:       s.cfg.Width,
		Probability: s.cfg.InitialOnProbability,
		Seed:        s.seed,
		Moves:       s.moves,
		StartedAt:   s.startedAt,
		FinishedAt:  s.finishedAt,
		Initial:     s.initial,
		Presses:     append([]board.Coord(nil), s.history...),
	}
}
