package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	CheckStatus   key.Binding
	LeaveQueue    key.Binding
	Notifications key.Binding
	Quit          key.Binding
}

var DefaultKeyMap = KeyMap{
	CheckStatus: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "check status"),
	),
	LeaveQueue: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "leave queue"),
	),
	Notifications: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "notifications on/off"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
