package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
	Hint   key.Binding
	Theme  key.Binding
	New    key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space/click", "toggle")),
		Hint:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "hint")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new game")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Hint, k.Theme, k.New, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Hint},
		{k.Theme, k.New, k.Quit},
	}
}

// wonHelp lists the only keys a finished game still answers to.
func (k keyMap) wonHelp() []key.Binding {
	return []key.Binding{k.New, k.Theme, k.Quit}
}
