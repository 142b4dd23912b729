package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/quadrant/pkg/task"
)

var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorOrange      = lipgloss.Color("#D19A66")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)
)

// Tab styles
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorPurple).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorGray).
				Padding(0, 1)
)

// Task row styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	OpenStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	DoneStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Strikethrough(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorGrayDim).
				Italic(true)
)

// Section styles
var (
	SectionBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGrayDim).
			Padding(0, 1)

	CompletedHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorGreen)
)

// categoryColors tints each quadrant header and its level badges.
var categoryColors = map[task.Category]lipgloss.Color{
	task.CategoryDoNow:    ColorRed,
	task.CategoryDoLater:  ColorOrange,
	task.CategoryDelegate: ColorYellow,
	task.CategoryPostpone: ColorBlue,
}

func sectionHeaderStyle(c task.Category) lipgloss.Style {
	color, ok := categoryColors[c]
	if !ok {
		return CompletedHeaderStyle
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// levelColors shades priority and urgency badges from 1 to 5.
var levelColors = []lipgloss.Color{ColorGray, ColorBlue, ColorGreen, ColorYellow, ColorOrange, ColorRed}

func levelStyle(l task.Level) lipgloss.Style {
	l = l.OrDefault()
	return lipgloss.NewStyle().Foreground(levelColors[l])
}

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ModalLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Width(10)

	ModalValueStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	ModalFocusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)
)

// Status icons
const (
	IconDone      = "✓"
	IconOpen      = "○"
	IconCursor    = "›"
	IconFilled    = "●"
	IconEmpty     = "·"
	IconExpanded  = "▾"
	IconCollapsed = "▸"
)
