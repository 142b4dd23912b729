package view

import (
	"fmt"
	"strings"
)

// Mode selects which sections of the board are shown.
type Mode string

const (
	ModeCurrent   Mode = "current"
	ModeAll       Mode = "all"
	ModeCompleted Mode = "completed"
)

// AllModes lists the modes in tab order.
var AllModes = []Mode{ModeCurrent, ModeAll, ModeCompleted}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeCurrent, ModeAll, ModeCompleted:
		return m, nil
	}
	return "", fmt.Errorf("unknown view mode %q (use current, all or completed)", s)
}

// Label returns the tab title.
func (m Mode) Label() string {
	switch m {
	case ModeCurrent:
		return "Current"
	case ModeAll:
		return "All"
	case ModeCompleted:
		return "Completed"
	}
	return string(m)
}

// Visibility says which board sections are shown.
type Visibility struct {
	Quadrants bool
	Completed bool
}

func visibilityFor(m Mode) Visibility {
	switch m {
	case ModeAll:
		return Visibility{Quadrants: true, Completed: true}
	case ModeCompleted:
		return Visibility{Quadrants: false, Completed: true}
	default:
		return Visibility{Quadrants: true, Completed: false}
	}
}

// Modes tracks the active view mode. The zero value is not usable; call
// NewModes.
type Modes struct {
	mode Mode
	vis  Visibility
}

// NewModes starts in ModeCurrent.
func NewModes() *Modes {
	return &Modes{mode: ModeCurrent, vis: visibilityFor(ModeCurrent)}
}

// Mode returns the active mode.
func (m *Modes) Mode() Mode {
	return m.mode
}

// Visibility returns the sections shown in the active mode.
func (m *Modes) Visibility() Visibility {
	return m.vis
}

// Switch activates mode. Switching to the active mode changes nothing and
// reports false.
func (m *Modes) Switch(mode Mode) (bool, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return false, err
	}
	if mode == m.mode {
		return false, nil
	}
	m.mode = mode
	m.vis = visibilityFor(mode)
	return true, nil
}

// Next returns the mode after the active one, wrapping around.
func (m *Modes) Next() Mode {
	for i, mode := range AllModes {
		if mode == m.mode {
			return AllModes[(i+1)%len(AllModes)]
		}
	}
	return ModeCurrent
}
