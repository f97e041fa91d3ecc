package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Submit     key.Binding
	ToggleKind key.Binding
	NextField  key.Binding
	Cancel     key.Binding
	Back       key.Binding
	Up         key.Binding
	Down       key.Binding
	View       key.Binding
	Search     key.Binding
	Refresh    key.Binding
	Delete     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "summarize")),
		ToggleKind: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "url/text")),
		NextField:  key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "title/input")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Back:       key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("b", "back")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		View:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
}

// bindings adapts a slice of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding {
	return b
}

func (b bindings) FullHelp() [][]key.Binding {
	return [][]key.Binding{b}
}
