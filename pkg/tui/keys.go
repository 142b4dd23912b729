package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	NextSection   key.Binding
	PrevSection   key.Binding
	Toggle        key.Binding
	Add           key.Binding
	Edit          key.Binding
	Delete        key.Binding
	Collapse      key.Binding
	NextMode      key.Binding
	ModeCurrent   key.Binding
	ModeAll       key.Binding
	ModeCompleted key.Binding
	Reload        key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		NextSection: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next quadrant"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous quadrant"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle done"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "collapse section"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		ModeCurrent: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "current"),
		),
		ModeAll: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "all"),
		),
		ModeCompleted: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "completed"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
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

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  ←→ quadrant  space done  a add  e edit  d delete  c collapse  1/2/3 tabs  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"→/l", "Jump to next quadrant"},
		{"←/h", "Jump to previous quadrant"},
		{"space/x", "Toggle done"},
		{"a", "Add task"},
		{"e/enter", "Edit task"},
		{"d", "Delete task (with confirmation)"},
		{"c", "Collapse or expand section"},
		{"tab", "Next tab"},
		{"1/2/3", "Tabs: current / all / completed"},
		{"R", "Reload from disk"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}

// formKeys are the bindings active while the add/edit form is open.
var formKeys = [][]string{
	{"tab", "next field"},
	{"←/→", "change level"},
	{"1-5", "set level"},
	{"enter", "save"},
	{"esc", "cancel"},
}
