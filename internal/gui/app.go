// Package gui renders the Lights Out grid in a desktop window with ebiten.
package gui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/config"
	"github.com/san-kum/lightsout/internal/game"
	"github.com/san-kum/lightsout/internal/gui/layout"
	"github.com/san-kum/lightsout/internal/storage"
)

var (
	ColBg     = color.RGBA{10, 10, 10, 255}
	ColLit    = color.RGBA{255, 216, 77, 255}
	ColUnlit  = color.RGBA{42, 42, 49, 255}
	ColHint   = color.RGBA{77, 210, 255, 255}
	ColBorder = color.RGBA{60, 60, 60, 255}
)

type App struct {
	cfg     config.Config
	store   *storage.Store
	session *game.Session
	hint    *board.Coord
	status  string
}

func NewApp(cfg config.Config, store *storage.Store) (*App, error) {
	s, err := game.NewSeeded(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, store: store, session: s}
	a.cfg.Seed = 0
	return a, nil
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.newGame()
		return nil
	}
	if a.session.State() == game.Won {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		if c, ok := a.session.Hint(); ok {
			a.hint = &c
		} else {
			a.status = "no solution from here, press N"
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if c, ok := layout.CellAt(a.session.Grid(), x, y); ok {
			a.activate(c)
		}
	}
	return nil
}

func (a *App) activate(c board.Coord) {
	if err := a.session.Toggle(c); err != nil {
		a.status = err.Error()
		return
	}
	a.hint = nil
	a.status = ""
	if a.session.State() == game.Won && a.store != nil {
		if _, err := a.store.Save("gui", a.session.Result()); err != nil {
			a.status = "could not record game: " + err.Error()
		}
	}
}

func (a *App) newGame() {
	s, err := game.NewSeeded(a.cfg)
	if err != nil {
		a.status = err.Error()
		return
	}
	a.session = s
	a.hint = nil
	a.status = ""
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return layout.WindowSize(a.cfg.Height, a.cfg.Width)
}

func Run(cfg config.Config, store *storage.Store) error {
	app, err := NewApp(cfg, store)
	if err != nil {
		return err
	}
	w, h := layout.WindowSize(cfg.Height, cfg.Width)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Lights Out")
	return ebiten.RunGame(app)
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(ColBg)
	ebitenutil.DebugPrintAt(screen, "Light's Out!", layout.Margin, 12)
	ebitenutil.DebugPrintAt(screen, "Click a light to toggle it and its neighbours.", layout.Margin, 30)
	ebitenutil.DebugPrintAt(screen, "Turn every light off to win.", layout.Margin, 46)

	_, h := layout.WindowSize(a.cfg.Height, a.cfg.Width)
	if a.session.State() == game.Won {
		ebitenutil.DebugPrintAt(screen, "Lights Out! You've won the game.", layout.Margin, layout.Header+10)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("solved in %d moves, N for a new game", a.session.Moves()), layout.Margin, layout.Header+30)
		return
	}

	g := a.session.Grid()
	for _, c := range g.Coords() {
		x, y := layout.CellOrigin(c)
		fill := ColUnlit
		if g.At(c) {
			fill = ColLit
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), layout.CellSize, layout.CellSize, fill, true)
		vector.StrokeRect(screen, float32(x), float32(y), layout.CellSize, layout.CellSize, 1, ColBorder, true)
		if a.hint != nil && *a.hint == c {
			vector.StrokeRect(screen, float32(x)+3, float32(y)+3, layout.CellSize-6, layout.CellSize-6, 3, ColHint, true)
		}
	}

	info := fmt.Sprintf("lit %d  moves %d  H hint  N new  Q quit", g.LitCount(), a.session.Moves())
	if a.status != "" {
		info = a.status
	}
	ebitenutil.DebugPrintAt(screen, info, layout.Margin, h-layout.Footer+12)
}
