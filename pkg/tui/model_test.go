package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/quadrant/pkg/controller"
	"github.com/stefanpenner/quadrant/pkg/store"
	"github.com/stefanpenner/quadrant/pkg/task"
	"github.com/stefanpenner/quadrant/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seed struct {
	text              string
	priority, urgency task.Level
}

func setupModel(t *testing.T, seeds ...seed) (Model, *store.Store) {
	t.Helper()
	slot, err := store.NewFileSlot(t.TempDir(), store.DefaultSlotName)
	require.NoError(t, err)
	s := store.New(slot)
	for _, sd := range seeds {
		_, err := s.Add(sd.text, sd.priority, sd.urgency)
		require.NoError(t, err)
	}

	gate := &DeleteGate{}
	ctrl := controller.New(s, view.NewRenderer(view.WithDebounce(0)), gate.Confirm)
	m := NewModel(ctrl, gate, slot.Path)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), s
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func TestBuildRowsCurrentMode(t *testing.T) {
	b := view.Project([]*task.Task{
		{ID: "a", Text: "urgent", Priority: 5, Urgency: 5, Category: task.CategoryDoNow},
		{ID: "b", Text: "finished", Priority: 1, Urgency: 1, Category: task.CategoryPostpone, Completed: true},
	})
	rows := BuildRows(b, view.Visibility{Quadrants: true}, nil)

	// four headers, one task, three placeholders
	require.Len(t, rows, 8)
	assert.True(t, rows[0].IsSectionHeader)
	assert.Equal(t, "a", rows[1].ID)
	for _, r := range rows {
		assert.NotEqual(t, sectionCompleted, r.Section)
	}

	later := SectionRows(rows, string(task.CategoryDoLater))
	require.Len(t, later, 1)
	assert.True(t, later[0].IsPlaceholder)
	assert.Equal(t, view.Placeholder(task.CategoryDoLater), later[0].Text)
}

func TestBuildRowsCompletedMode(t *testing.T) {
	b := view.Project([]*task.Task{
		{ID: "a", Text: "urgent", Priority: 5, Urgency: 5, Category: task.CategoryDoNow},
		{ID: "b", Text: "finished", Priority: 1, Urgency: 1, Category: task.CategoryPostpone, Completed: true},
	})
	rows := BuildRows(b, view.Visibility{Completed: true}, nil)

	require.Len(t, rows, 2)
	assert.Equal(t, sectionCompleted, rows[0].Section)
	assert.Equal(t, "b", rows[1].ID)
}

func TestBuildRowsCollapsedSection(t *testing.T) {
	b := view.Project([]*task.Task{
		{ID: "a", Text: "one", Priority: 5, Urgency: 5, Category: task.CategoryDoNow},
		{ID: "b", Text: "two", Priority: 5, Urgency: 5, Category: task.CategoryDoNow},
		{ID: "c", Text: "finished", Priority: 1, Urgency: 1, Category: task.CategoryPostpone, Completed: true},
	})
	collapsed := map[string]bool{string(task.CategoryDoNow): true, sectionCompleted: true}
	rows := BuildRows(b, view.Visibility{Quadrants: true, Completed: true}, collapsed)

	assert.Empty(t, SectionRows(rows, string(task.CategoryDoNow)))
	assert.Empty(t, SectionRows(rows, sectionCompleted))

	header, ok := sectionHeader(rows, string(task.CategoryDoNow))
	require.True(t, ok)
	assert.True(t, header.Collapsed)
	assert.True(t, header.Selectable())
	assert.Equal(t, 2, header.Count, "collapsed header still counts its tasks")

	open, ok := sectionHeader(rows, string(task.CategoryDoLater))
	require.True(t, ok)
	assert.False(t, open.Selectable())
	assert.Len(t, SectionRows(rows, string(task.CategoryDoLater)), 1)
}

func TestSectionStart(t *testing.T) {
	b := view.Project([]*task.Task{
		{ID: "now", Text: "a", Priority: 5, Urgency: 5, Category: task.CategoryDoNow},
		{ID: "later", Text: "b", Priority: 5, Urgency: 1, Category: task.CategoryDoLater},
	})
	rows := BuildRows(b, view.Visibility{Quadrants: true}, nil)

	i := sectionStart(rows, 1, 1)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "later", rows[i].ID)
	assert.Equal(t, 1, sectionStart(rows, i, -1))
	assert.Equal(t, -1, sectionStart(rows, i, 1))
}

func TestCursorSkipsHeadersAndPlaceholders(t *testing.T) {
	m, _ := setupModel(t,
		seed{"now", 5, 5},
		seed{"postpone", 1, 1},
	)
	require.NotNil(t, m.selected())
	assert.Equal(t, "now", m.selected().Text)

	m = press(m, "down")
	require.NotNil(t, m.selected())
	assert.Equal(t, "postpone", m.selected().Text)

	m = press(m, "down")
	assert.Equal(t, "postpone", m.selected().Text)

	m = press(m, "up")
	assert.Equal(t, "now", m.selected().Text)
}

func TestToggleKey(t *testing.T) {
	m, s := setupModel(t, seed{"ship it", 4, 4})

	m = press(m, "x")
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, "Done: ship it", m.statusMsg)
	assert.Equal(t, 1, m.ctrl.Board().Summary.Completed)
}

func TestDeleteDeclinedKeepsTask(t *testing.T) {
	m, s := setupModel(t, seed{"keep me", 3, 3})

	m = press(m, "d")
	assert.True(t, m.showDeleteConfirm)
	m = press(m, "n")
	assert.False(t, m.showDeleteConfirm)
	assert.Equal(t, 1, s.Len())
}

func TestDeleteConfirmed(t *testing.T) {
	m, s := setupModel(t, seed{"drop me", 3, 3})

	m = press(m, "d", "y")
	assert.Equal(t, 0, s.Len())
	assert.False(t, m.gate.approved)
	assert.Nil(t, m.selected())
}

func TestAddForm(t *testing.T) {
	m, s := setupModel(t)

	m = press(m, "a")
	require.Equal(t, formAdd, m.form)
	m = press(m, "Write report", "tab", "5", "tab", "5", "enter")

	assert.Equal(t, formNone, m.form)
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Text)
	assert.Equal(t, task.CategoryDoNow, tasks[0].Category)
	assert.Equal(t, tasks[0].ID, m.selectedID())
}

func TestAddFormLevelArrows(t *testing.T) {
	m, s := setupModel(t)

	m = press(m, "a", "low value", "tab", "h", "h", "h", "h", "tab", "l", "enter")
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, task.MinLevel, tasks[0].Priority)
	assert.Equal(t, task.Level(4), tasks[0].Urgency)
	assert.Equal(t, task.CategoryDelegate, tasks[0].Category)
}

func TestAddFormRejectsEmptyText(t *testing.T) {
	m, s := setupModel(t)

	m = press(m, "a", "enter")
	assert.Equal(t, formAdd, m.form)
	assert.Contains(t, m.statusMsg, "please enter a task")
	assert.Equal(t, 0, s.Len())
}

func TestEditFormSaveAndCancel(t *testing.T) {
	m, s := setupModel(t, seed{"draft", 3, 3})
	id := m.selectedID()

	m = press(m, "e")
	require.Equal(t, formEdit, m.form)
	assert.True(t, m.ctrl.IsEditing(id))
	assert.Equal(t, "draft", m.textInput.Value())

	m = press(m, "esc")
	assert.Equal(t, formNone, m.form)
	assert.False(t, m.ctrl.IsEditing(id))

	m = press(m, "e", "tab", "5", "tab", "5", "enter")
	got, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, task.CategoryDoNow, got.Category)
	assert.False(t, m.ctrl.IsEditing(id))
}

func TestModeKeys(t *testing.T) {
	m, _ := setupModel(t, seed{"open", 3, 3})

	m = press(m, "3")
	assert.Equal(t, view.ModeCompleted, m.ctrl.Mode())
	for _, r := range m.rows {
		assert.Equal(t, sectionCompleted, r.Section)
	}
	assert.Nil(t, m.selected())

	m = press(m, "tab")
	assert.Equal(t, view.ModeCurrent, m.ctrl.Mode())

	m = press(m, "2")
	assert.Equal(t, view.ModeAll, m.ctrl.Mode())
	assert.True(t, m.ctrl.Visibility().Quadrants)
	assert.True(t, m.ctrl.Visibility().Completed)
}

func TestSlotChangedReloads(t *testing.T) {
	m, s := setupModel(t)

	other := store.New(&store.FileSlot{Path: m.dataPath})
	_, err := other.Add("from elsewhere", 4, 4)
	require.NoError(t, err)

	next, _ := m.Update(SlotChangedMsg{})
	m = next.(Model)
	assert.Equal(t, 1, s.Len())
	require.NotNil(t, m.selected())
	assert.Equal(t, "from elsewhere", m.selected().Text)
}

func TestViewRendersBoard(t *testing.T) {
	m, _ := setupModel(t, seed{"visible task", 5, 5})

	out := m.View()
	assert.Contains(t, out, "Eisenhower Matrix")
	assert.Contains(t, out, "visible task")
	assert.Contains(t, out, task.CategoryDoLater.Label())

	m = press(m, "d")
	assert.Contains(t, m.View(), "Delete 'visible task'?")
}


func TestCollapseKey(t *testing.T) {
	m, _ := setupModel(t,
		seed{"first", 5, 5},
		seed{"second", 5, 5},
		seed{"later", 5, 1},
	)
	doNow := string(task.CategoryDoNow)
	require.Equal(t, doNow, m.rows[m.cursor].Section)

	m = press(m, "c")
	assert.True(t, m.collapsed[doNow])
	assert.Empty(t, SectionRows(m.rows, doNow))
	assert.Equal(t, sectionHeaderID(doNow), m.rows[m.cursor].ID, "cursor rests on the collapsed header")
	assert.Nil(t, m.selected())

	out := m.View()
	assert.Contains(t, out, IconCollapsed+" ")
	assert.Contains(t, out, "(2)")
	assert.NotContains(t, out, "first")
	assert.Contains(t, out, "later")

	// task actions do nothing on a header
	m = press(m, "x")
	assert.Equal(t, 0, m.ctrl.Board().Summary.Completed)

	m = press(m, "down")
	require.NotNil(t, m.selected())
	assert.Equal(t, "later", m.selected().Text)
	m = press(m, "up")
	assert.Equal(t, sectionHeaderID(doNow), m.rows[m.cursor].ID)

	m = press(m, "c")
	assert.False(t, m.collapsed[doNow])
	assert.Len(t, SectionRows(m.rows, doNow), 2)
	require.NotNil(t, m.selected())
	assert.Equal(t, doNow, m.rows[m.cursor].Section)
}

func TestCollapsedSectionSurvivesModeSwitch(t *testing.T) {
	m, _ := setupModel(t, seed{"done soon", 5, 5})
	m = press(m, "x", "2")
	require.True(t, m.ctrl.Visibility().Completed)

	done := SectionRows(m.rows, sectionCompleted)
	require.Len(t, done, 1)
	m.cursor = indexOf(t, m.rows, done[0].ID)

	m = press(m, "c")
	assert.True(t, m.collapsed[sectionCompleted])
	assert.Empty(t, SectionRows(m.rows, sectionCompleted))

	m = press(m, "1", "2")
	assert.Empty(t, SectionRows(m.rows, sectionCompleted))
	header, ok := sectionHeader(m.rows, sectionCompleted)
	require.True(t, ok)
	assert.Equal(t, 1, header.Count)
}

func indexOf(t *testing.T, rows []Row, id string) int {
	t.Helper()
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	t.Fatalf("row %q not found", id)
	return -1
}
