// Package tui renders the Lights Out grid in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/lightsout/internal/board"
	"github.com/san-kum/lightsout/internal/config"
	"github.com/san-kum/lightsout/internal/game"
	"github.com/san-kum/lightsout/internal/storage"
)

// Screen layout. Mouse hit testing depends on these.
const (
	gridTop   = 5
	gridLeft  = 2
	cellWidth = 4 // three glyphs plus a gap
)

const (
	litGlyph   = "███"
	unlitGlyph = "░░░"
)

type Model struct {
	cfg   config.Config
	store *storage.Store

	session *game.Session
	cursor  board.Coord
	hint    *board.Coord
	status  string
	wins    int
	theme   int
	keys    keyMap
	help    help.Model

	width  int
	height int
}

// NewModel starts a session from cfg. store may be nil.
func NewModel(cfg config.Config, store *storage.Store) (*Model, error) {
	s, err := game.NewSeeded(cfg)
	if err != nil {
		return nil, err
	}
	m := &Model{
		cfg:     cfg,
		store:   store,
		session: s,
		theme:   themeIndex(cfg.Theme),
		keys:    defaultKeys(),
		help:    help.New(),
		width:   80,
		height:  24,
	}
	// Only the first game replays a configured seed.
	m.cfg.Seed = 0
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Session() *game.Session { return m.session }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.New):
		m.newGame()
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.theme = (m.theme + 1) % len(Themes)
		return m, nil
	}

	if m.session.State() == game.Won {
		return m, nil
	}

	g := m.session.Grid()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor.Row > 0 {
			m.cursor.Row--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor.Row < g.Height()-1 {
			m.cursor.Row++
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor.Col > 0 {
			m.cursor.Col--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor.Col < g.Width()-1 {
			m.cursor.Col++
		}
	case key.Matches(msg, m.keys.Toggle):
		m.activate(m.cursor)
	case key.Matches(msg, m.keys.Hint):
		if c, ok := m.session.Hint(); ok {
			m.hint = &c
			m.status = fmt.Sprintf("try %s", c)
		} else {
			m.status = "no solution from here, press n for a new game"
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.session.State() == game.Won {
		return m, nil
	}
	c, ok := cellAt(m.session.Grid(), msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	m.cursor = c
	m.activate(c)
	return m, nil
}

// cellAt maps a terminal position to the cell drawn there.
func cellAt(g board.Grid, x, y int) (board.Coord, bool) {
	row := y - gridTop
	dx := x - gridLeft
	if row < 0 || dx < 0 || dx%cellWidth == cellWidth-1 {
		return board.Coord{}, false
	}
	c := board.Coord{Row: row, Col: dx / cellWidth}
	return c, g.InBounds(c)
}

func (m *Model) activate(c board.Coord) {
	if err := m.session.Toggle(c); err != nil {
		m.status = err.Error()
		return
	}
	m.hint = nil
	m.status = ""
	if m.session.State() == game.Won {
		m.wins++
		m.record()
	}
}

func (m *Model) record() {
	if m.store == nil {
		return
	}
	if _, err := m.store.Save("tui", m.session.Result()); err != nil {
		m.status = "could not record game: " + err.Error()
	}
}

func (m *Model) newGame() {
	s, err := game.NewSeeded(m.cfg)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.session = s
	m.cursor = board.Coord{}
	m.hint = nil
	m.status = ""
}

func (m Model) View() string {
	st := Themes[m.theme].styles()
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + st.title.Render("Light's Out!") + "\n")
	b.WriteString("  " + st.text.Render("The puzzle is won when all of the lights are turned off.") + "\n")
	b.WriteString("  " + st.muted.Render("A click toggles a light and the lights above, below, left and right of it.") + "\n")
	b.WriteString("\n")

	if m.session.State() == game.Won {
		b.WriteString("  " + st.success.Render("Lights Out! You've won the game.") + "\n\n")
		b.WriteString("  " + st.muted.Render(fmt.Sprintf("solved in %d moves, %d wins this run", m.session.Moves(), m.wins)) + "\n\n")
		b.WriteString("  " + m.help.ShortHelpView(m.keys.wonHelp()) + "\n")
		return b.String()
	}

	g := m.session.Grid()
	for r := 0; r < g.Height(); r++ {
		b.WriteString(strings.Repeat(" ", gridLeft))
		for c := 0; c < g.Width(); c++ {
			b.WriteString(m.renderCell(st, g, board.Coord{Row: r, Col: c}))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s   %s %s\n",
		st.muted.Render("lit"), st.lit.Render(fmt.Sprint(g.LitCount())),
		st.muted.Render("moves"), st.text.Render(fmt.Sprint(m.session.Moves()))))
	if m.status != "" {
		b.WriteString("  " + st.errText.Render(m.status) + "\n")
	}
	b.WriteString("\n")
	b.WriteString("  " + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m Model) renderCell(st styles, g board.Grid, c board.Coord) string {
	lit := g.At(c)
	glyph := unlitGlyph
	if lit {
		glyph = litGlyph
	}
	switch {
	case c == m.cursor && lit:
		return st.cursorLit.Render(glyph)
	case c == m.cursor:
		return st.cursor.Render(glyph)
	case m.hint != nil && *m.hint == c:
		return st.hint.Render(glyph)
	case lit:
		return st.lit.Render(glyph)
	}
	return st.unlit.Render(glyph)
}

func Run(cfg config.Config, store *storage.Store) error {
	m, err := NewModel(cfg, store)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
