package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Enter key.Binding
	Back  key.Binding

	// List
	Search         key.Binding
	Jump           key.Binding
	Sort           key.Binding
	ReadFilter     key.Binding
	FavoriteFilter key.Binding
	Refresh        key.Binding

	// Book actions
	New            key.Binding
	Edit           key.Binding
	Delete         key.Binding
	ToggleRead     key.Binding
	ToggleFavorite key.Binding
	AddNote        key.Binding
	Rating         key.Binding

	// Screens
	Stats       key.Binding
	ToggleTheme key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "h", "left", "backspace"),
			key.WithHelp("esc/h", "back"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Jump: key.NewBinding(
			key.WithKeys("p", "ctrl+p"),
			key.WithHelp("p", "jump to title"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		ReadFilter: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "read filter"),
		),
		FavoriteFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorite filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),

		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new book"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		ToggleRead: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle read"),
		),
		ToggleFavorite: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "toggle favorite"),
		),
		AddNote: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add note"),
		),
		Rating: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5"),
			key.WithHelp("0-5", "rate"),
		),

		Stats: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "stats"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "light/dark"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
