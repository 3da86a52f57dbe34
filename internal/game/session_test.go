package game

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/config"
	"github.com/san-kum/lightsout/internal/solver"
)

func newSession(t *testing.T, mutate func(*config.Config)) *Session {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(*cfg, rand.New(rand.NewSource(1)), 1)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Width = 0
	if _, err := New(*cfg, rand.New(rand.NewSource(1)), 1); err == nil {
		t.Error("expected validation error")
	}
	if _, err := New(*config.DefaultConfig(), nil, 1); !errors.Is(err, board.ErrNilSource) {
		t.Errorf("expected ErrNilSource, got %v", err)
	}
}

func TestNew_BlankGridIsWonImmediately(t *testing.T) {
	s := newSession(t, func(c *config.Config) { c.InitialOnProbability = 0 })
	if s.State() != Won {
		t.Errorf("expected Won, got %v", s.State())
	}
	if err := s.Toggle(board.Coord{}); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
}

func TestToggle_PublishesNewGrid(t *testing.T) {
	s := newSession(t, func(c *config.Config) { c.InitialOnProbability = 1 })
	before := s.Grid()

	if err := s.Toggle(board.Coord{Row: 2, Col: 2}); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if s.Moves() != 1 {
		t.Errorf("expected 1 move, got %d", s.Moves())
	}
	if !s.Grid().Equal(before.ToggleAround(board.Coord{Row: 2, Col: 2})) {
		t.Errorf("session grid does not match ToggleAround:\n%s", s.Grid())
	}
	if before.LitCount() != 25 {
		t.Error("previously published grid changed")
	}
}

func TestToggle_OutOfBounds(t *testing.T) {
	s := newSession(t, func(c *config.Config) { c.InitialOnProbability = 1 })
	err := s.Toggle(board.Coord{Row: 5, Col: 0})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
	if s.Moves() != 0 {
		t.Error("rejected toggle should not count as a move")
	}
}

func TestToggle_WinIsTerminal(t *testing.T) {
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cfg := config.GetPreset("tiny")
	cfg.InitialOnProbability = 1
	s, err := New(*cfg, rand.New(rand.NewSource(3)), 3, WithClock(func() time.Time { return clock }))
	if err != nil {
		t.Fatal(err)
	}

	presses, err := solver.Solve(s.Grid())
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range presses {
		if s.State() != Playing {
			t.Fatalf("won early after %d presses", i)
		}
		if err := s.Toggle(c); err != nil {
			t.Fatalf("toggle %v: %v", c, err)
		}
	}

	if s.State() != Won {
		t.Fatalf("expected Won, got %v", s.State())
	}
	if !s.FinishedAt().Equal(clock) {
		t.Errorf("finish time not recorded: %v", s.FinishedAt())
	}
	won := s.Grid()
	if err := s.Toggle(board.Coord{}); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected ErrGameOver, got %v", err)
	}
	if !s.Grid().Equal(won) || s.Moves() != len(presses) {
		t.Error("grid or moves changed after win")
	}

	r := s.Result()
	if r.Moves != len(presses) || r.Height != 3 || r.Seed != 3 || r.ID != s.ID() {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestHint(t *testing.T) {
	s := newSession(t, func(c *config.Config) {
		c.Height, c.Width = 3, 3
		c.InitialOnProbability = 1
	})
	for i := 0; i < 20 && s.State() == Playing; i++ {
		c, ok := s.Hint()
		if !ok {
			t.Fatal("expected a hint on a solvable grid")
		}
		if err := s.Toggle(c); err != nil {
			t.Fatal(err)
		}
	}
	if s.State() != Won {
		t.Error("following hints should win the game")
	}
	if _, ok := s.Hint(); ok {
		t.Error("no hint once won")
	}
}

func TestNew_EnsureSolvable(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		cfg := config.DefaultConfig()
		cfg.EnsureSolvable = true
		cfg.InitialOnProbability = 0.5
		s, err := New(*cfg, rand.New(rand.NewSource(seed)), seed)
		if err != nil {
			t.Fatal(err)
		}
		if !solver.Solvable(s.Grid()) {
			t.Errorf("seed %d: unsolvable grid drawn", seed)
		}
	}
}

func TestNewSeeded_Reproducible(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 1234
	a, err := NewSeeded(*cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSeeded(*cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Grid().Equal(b.Grid()) || a.Seed() != 1234 {
		t.Error("same seed should give the same grid")
	}
	if a.ID() == b.ID() {
		t.Error("sessions should have distinct ids")
	}
}

func TestState_String(t *testing.T) {
	if Playing.String() != "playing" || Won.String() != "won" {
		t.Errorf("unexpected names: %s %s", Playing, Won)
	}
}

func TestResult_ReplaysToFinalGrid(t *testing.T) {
	s := newSession(t, nil)
	for _, c := range []board.Coord{{Row: 0, Col: 0}, {Row: 4, Col: 4}, {Row: 2, Col: 1}} {
		if s.State() == Won {
			break
		}
		if err := s.Toggle(c); err != nil {
			t.Fatal(err)
		}
	}
	r := s.Result()
	if !solver.Apply(r.Initial, r.Presses).Equal(s.Grid()) {
		t.Error("replaying presses from the initial grid should give the current grid")
	}
}
