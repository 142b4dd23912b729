package tui

import (
	"github.com/stefanpenner/quadrant/pkg/task"
	"github.com/stefanpenner/quadrant/pkg/view"
)

// sectionCompleted names the completed list; the quadrants use their
// category as section name.
const sectionCompleted = "completed"

// Row is one line of the flattened board.
type Row struct {
	ID              string // task ID, or a synthetic ID for headers and placeholders
	Section         string
	Task            *task.Task
	Text            string
	IsSectionHeader bool
	IsPlaceholder   bool
	Collapsed       bool // header of a collapsed section
	Count           int  // tasks in the section, set on headers
}

// Selectable reports whether the cursor may rest on the row. The header of
// a collapsed section is selectable so it can be expanded again.
func (r Row) Selectable() bool {
	return r.Task != nil || (r.IsSectionHeader && r.Collapsed)
}

// BuildRows flattens the visible sections of a board, each introduced by a
// header row and holding either its tasks or a placeholder row. Sections
// named in collapsed contribute only their header.
func BuildRows(b view.Board, vis view.Visibility, collapsed map[string]bool) []Row {
	var rows []Row
	if vis.Quadrants {
		for _, c := range task.Categories {
			section := string(c)
			rows = appendSection(rows, section, c.Label(), b.Quadrant(c), view.Placeholder(c), collapsed[section])
		}
	}
	if vis.Completed {
		rows = appendSection(rows, sectionCompleted, "Completed", b.Completed, view.CompletedPlaceholder, collapsed[sectionCompleted])
	}
	return rows
}

func appendSection(rows []Row, section, title string, tasks []*task.Task, empty string, collapsed bool) []Row {
	rows = append(rows, Row{
		ID:              sectionHeaderID(section),
		Section:         section,
		Text:            title,
		IsSectionHeader: true,
		Collapsed:       collapsed,
		Count:           len(tasks),
	})
	if collapsed {
		return rows
	}
	if len(tasks) == 0 {
		return append(rows, Row{
			ID:            "__empty_" + section,
			Section:       section,
			Text:          empty,
			IsPlaceholder: true,
		})
	}
	for _, t := range tasks {
		rows = append(rows, Row{ID: t.ID, Section: section, Task: t, Text: t.Text})
	}
	return rows
}

func sectionHeaderID(section string) string {
	return "__section_" + section
}

// sectionHeader returns the header row of section.
func sectionHeader(rows []Row, section string) (Row, bool) {
	for _, r := range rows {
		if r.IsSectionHeader && r.Section == section {
			return r, true
		}
	}
	return Row{}, false
}

// SectionRows returns the rows belonging to one section, without its
// header.
func SectionRows(rows []Row, section string) []Row {
	var out []Row
	for _, r := range rows {
		if r.Section == section && !r.IsSectionHeader {
			out = append(out, r)
		}
	}
	return out
}

// nextSelectable returns the first selectable index at or after from
// moving in direction dir, or -1.
func nextSelectable(rows []Row, from, dir int) int {
	for i := from; i >= 0 && i < len(rows); i += dir {
		if rows[i].Selectable() {
			return i
		}
	}
	return -1
}

// sectionStart returns the first selectable row of the section after (dir
// 1) or before (dir -1) the one containing cursor, or -1.
func sectionStart(rows []Row, cursor, dir int) int {
	if cursor < 0 || cursor >= len(rows) {
		return -1
	}
	current := rows[cursor].Section
	var sections []string
	for _, r := range rows {
		if r.IsSectionHeader {
			sections = append(sections, r.Section)
		}
	}
	idx := -1
	for i, s := range sections {
		if s == current {
			idx = i
		}
	}
	for i := idx + dir; i >= 0 && i < len(sections); i += dir {
		for j, r := range rows {
			if r.Section == sections[i] && r.Selectable() {
				return j
			}
		}
	}
	return -1
}
