package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/quadrant/pkg/task"
	"github.com/stefanpenner/quadrant/pkg/view"
)

const minWidth = 40
const minHeight = 10

// gridWidth is the narrowest terminal that gets the 2x2 quadrant grid.
const gridWidth = 80

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}
	if m.form != formNone {
		return placeOverlay(m.renderFormModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 3
	footerLines := 2
	contentHeight := h - headerLines - footerLines

	content := m.renderBoard(w, contentHeight)
	for i := 0; i < contentHeight; i++ {
		b.WriteString(getLine(content, i, w))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Eisenhower Matrix")

	s := m.ctrl.Board().Summary
	stats := HeaderCountStyle.Render(fmt.Sprintf("%d tasks · %d done · %d pending", s.Total, s.Completed, s.Pending))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = StatusStyle.Render(m.statusMsg) + "  "
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, mode := range view.AllModes {
		label := fmt.Sprintf("%d %s", i+1, mode.Label())
		if mode == m.ctrl.Mode() {
			tabs = append(tabs, ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

// renderBoard lays out the visible sections: the quadrants as a 2x2 grid
// on wide terminals or stacked otherwise, then the completed list.
func (m Model) renderBoard(width, height int) string {
	vis := m.ctrl.Visibility()

	completedHeight := 0
	switch {
	case vis.Completed && vis.Quadrants:
		completedHeight = height / 3
	case vis.Completed:
		completedHeight = height
	}
	quadHeight := height - completedHeight

	var parts []string
	if vis.Quadrants {
		parts = append(parts, m.renderQuadrants(width, quadHeight))
	}
	if vis.Completed {
		parts = append(parts, m.renderSection(sectionCompleted, "Completed", CompletedHeaderStyle, width, completedHeight))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderQuadrants(width, height int) string {
	cats := task.Categories
	if width < gridWidth {
		var cells []string
		cellHeight := height / len(cats)
		for _, c := range cats {
			cells = append(cells, m.renderSection(string(c), c.Label(), sectionHeaderStyle(c), width, cellHeight))
		}
		return lipgloss.JoinVertical(lipgloss.Left, cells...)
	}

	leftWidth := width / 2
	rightWidth := width - leftWidth
	topHeight := height / 2
	bottomHeight := height - topHeight

	cell := func(c task.Category, w, h int) string {
		return m.renderSection(string(c), c.Label(), sectionHeaderStyle(c), w, h)
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		cell(cats[0], leftWidth, topHeight),
		cell(cats[1], rightWidth, topHeight))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		cell(cats[2], leftWidth, bottomHeight),
		cell(cats[3], rightWidth, bottomHeight))
	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

// renderSection draws one bordered section, scrolled so the cursor stays in
// view when it sits inside the section.
func (m Model) renderSection(section, title string, titleStyle lipgloss.Style, width, height int) string {
	innerWidth := width - 4 // border and padding
	innerHeight := height - 3
	if innerWidth < 10 {
		innerWidth = 10
	}
	if innerHeight < 1 {
		innerHeight = 1
	}

	var indices []int
	for i, r := range m.rows {
		if r.Section == section && !r.IsSectionHeader {
			indices = append(indices, i)
		}
	}

	header, _ := sectionHeader(m.rows, section)
	marker := IconExpanded
	if header.Collapsed {
		marker = IconCollapsed
	}
	heading := marker + " " + titleStyle.Render(title) + " " + HeaderCountStyle.Render(fmt.Sprintf("(%d)", header.Count))
	cur, onRow := m.cursorRow()
	if onRow && cur.ID == header.ID && header.Collapsed {
		heading = IconCursor + " " + heading
	}
	lines := []string{heading}

	start := 0
	for pos, i := range indices {
		if i == m.cursor && pos >= innerHeight {
			start = pos - innerHeight + 1
		}
	}
	end := start + innerHeight
	if end > len(indices) {
		end = len(indices)
	}
	for _, i := range indices[start:end] {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, innerWidth))
	}
	if hidden := len(indices) - end; hidden > 0 {
		lines[len(lines)-1] = PlaceholderStyle.Render(fmt.Sprintf("… %d more", hidden+1))
	}

	box := SectionBoxStyle
	if onRow && cur.Selectable() && cur.Section == section {
		box = box.BorderForeground(ColorPurple)
	}
	return box.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(r Row, isSelected bool, width int) string {
	if r.IsPlaceholder {
		return PlaceholderStyle.Render(truncate(r.Text, width))
	}

	t := r.Task
	cursor := "  "
	if isSelected {
		cursor = IconCursor + " "
	}

	var icon string
	if t.Completed {
		icon = IconDone
	} else {
		icon = IconOpen
	}

	badges := fmt.Sprintf("P%d U%d", t.Priority, t.Urgency)
	if t.Completed && t.CompletedAt != nil {
		badges = t.CompletedAt.Local().Format("Jan 2") + " " + badges
	}

	textWidth := width - lipgloss.Width(cursor) - 2 - len(badges) - 1
	text := truncate(t.Text, textWidth)
	pad := textWidth - lipgloss.Width(text)
	if pad < 0 {
		pad = 0
	}

	line := cursor + icon + " " + text + strings.Repeat(" ", pad) + " "
	switch {
	case isSelected:
		return SelectedStyle.Render(line + badges)
	case t.Completed:
		return DoneStyle.Render(line) + HeaderCountStyle.Render(badges)
	default:
		return OpenStyle.Render(line) +
			levelStyle(t.Priority).Render(fmt.Sprintf("P%d", t.Priority)) + " " +
			levelStyle(t.Urgency).Render(fmt.Sprintf("U%d", t.Urgency))
	}
}

func (m Model) renderFooter(width int) string {
	help := FooterStyle.Render(m.keys.ShortHelp())

	path := m.dataPath
	gap := width - lipgloss.Width(help) - lipgloss.Width(path)
	if path == "" || gap < 2 {
		return help
	}
	return help + strings.Repeat(" ", gap) + FooterStyle.Render(fileHyperlink(path))
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Delete Task"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s'?\n\n", m.deleteTarget.Text))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

func (m Model) renderFormModal() string {
	var b strings.Builder

	title := "Add Task"
	if m.form == formEdit {
		title = "Edit Task"
	}
	b.WriteString(ModalTitleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.formLabel("Task", fieldText))
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.formLabel("Priority", fieldPriority))
	b.WriteString(renderLevel(m.priority))
	b.WriteString("\n")
	b.WriteString(m.formLabel("Urgency", fieldUrgency))
	b.WriteString(renderLevel(m.urgency))
	b.WriteString("\n\n")

	c := task.Classify(m.priority, m.urgency)
	b.WriteString(ModalLabelStyle.Render("Quadrant"))
	b.WriteString(sectionHeaderStyle(c).Render(c.Label()))
	b.WriteString("\n\n")

	var hints []string
	for _, k := range formKeys {
		hints = append(hints, k[0]+" "+k[1])
	}
	b.WriteString(FooterStyle.Render(strings.Join(hints, "  ")))

	return ModalStyle.Width(m.formWidth()).Render(b.String())
}

func (m Model) formLabel(label string, f formField) string {
	if m.field == f {
		return ModalFocusStyle.Width(10).Render(IconCursor + " " + label)
	}
	return ModalLabelStyle.Render("  " + label)
}

func (m Model) formWidth() int {
	w := m.width - 10
	if w > 70 {
		w = 70
	}
	if w < minWidth-4 {
		w = minWidth - 4
	}
	return w
}

// renderLevel draws a level as a row of dots followed by its number.
func renderLevel(l task.Level) string {
	var dots strings.Builder
	for i := task.MinLevel; i <= task.MaxLevel; i++ {
		if i <= l {
			dots.WriteString(IconFilled)
		} else {
			dots.WriteString(IconEmpty)
		}
	}
	return levelStyle(l).Render(dots.String()) + ModalValueStyle.Render(fmt.Sprintf(" %d", l))
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

// Helper functions

// truncate shortens s to at most width cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if used+rw > width-1 {
			break
		}
		b.WriteRune(r)
		used += rw
	}
	return b.String() + "…"
}

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
