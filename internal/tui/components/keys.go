package components

import "github.com/charmbracelet/bubbles/key"

// Key names shared by the dashboard bindings.
const (
	KeyQuit      = "q"
	KeyQuitAlt   = "ctrl+c"
	KeyEscape    = "esc"
	KeyEnter     = "enter"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyVimUp     = "k"
	KeyVimDown   = "j"
	KeyRefresh   = "r"
	KeyReload    = "R"
	KeyActive    = "a"
	KeyPageUp    = "pgup"
	KeyPageDown  = "pgdown"
)

// KeyMap is the dashboard key binding set. It implements help.KeyMap.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Refresh    key.Binding
	Reload     key.Binding
	ActiveOnly key.Binding
	History    key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys(KeyUp, KeyVimUp),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(KeyDown, KeyVimDown),
			key.WithHelp("↓/j", "down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys(KeyRefresh),
			key.WithHelp("r", "refresh"),
		),
		Reload: key.NewBinding(
			key.WithKeys(KeyReload),
			key.WithHelp("R", "reload all"),
		),
		ActiveOnly: key.NewBinding(
			key.WithKeys(KeyActive),
			key.WithHelp("a", "active only"),
		),
		History: key.NewBinding(
			key.WithKeys(KeyEnter),
			key.WithHelp("enter", "history"),
		),
		Quit: key.NewBinding(
			key.WithKeys(KeyQuit, KeyEscape, KeyQuitAlt),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.ActiveOnly, k.History, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.History},
		{k.Refresh, k.Reload, k.ActiveOnly, k.Quit},
	}
}
