package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stefanpenner/quadrant/pkg/controller"
	"github.com/stefanpenner/quadrant/pkg/store"
	"github.com/stefanpenner/quadrant/pkg/task"
	"github.com/stefanpenner/quadrant/pkg/view"
)

// SlotChangedMsg is sent when the file watcher sees the data file change.
type SlotChangedMsg struct{}

// flushMsg asks the model to render a deferred board.
type flushMsg struct{}

// DeleteGate answers the controller's delete confirmation with the choice
// made in the confirmation modal.
type DeleteGate struct {
	approved bool
}

// Confirm implements store.Confirmer.
func (g *DeleteGate) Confirm(*task.Task) bool {
	return g.approved
}

type formKind int

const (
	formNone formKind = iota
	formAdd
	formEdit
)

type formField int

const (
	fieldText formField = iota
	fieldPriority
	fieldUrgency
	fieldCount
)

// Model is the Bubble Tea model for the matrix TUI.
type Model struct {
	ctrl     *controller.Controller
	gate     *DeleteGate
	keys     KeyMap
	dataPath string
	width    int
	height   int
	rows     []Row
	cursor   int

	// collapsed holds the sections showing only their header, by section
	// name. It survives mode switches.
	collapsed map[string]bool

	// Modal state
	showHelpModal     bool
	showDeleteConfirm bool
	deleteTarget      *task.Task

	// Add/edit form
	form      formKind
	field     formField
	textInput textinput.Model
	priority  task.Level
	urgency   task.Level
	editID    string

	// Status message
	statusMsg     string
	statusTimeout time.Time
}

// NewModel creates a new TUI model. gate must be the Confirmer the
// controller was built with. dataPath is shown in the footer.
func NewModel(ctrl *controller.Controller, gate *DeleteGate, dataPath string) Model {
	ti := textinput.New()
	ti.Placeholder = "what needs doing?"
	ti.CharLimit = task.MaxTextLength

	m := Model{
		ctrl:      ctrl,
		gate:      gate,
		keys:      DefaultKeyMap(),
		dataPath:  dataPath,
		textInput: ti,
		collapsed: make(map[string]bool),
	}
	m.rebuildRows("")
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.WindowSize()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = m.formWidth() - 14
		return m, tea.ClearScreen

	case SlotChangedMsg:
		if err := m.ctrl.Reload(); err != nil {
			m.setStatus("Reload failed: " + err.Error())
			return m, nil
		}
		m.rebuildRows(m.selectedID())
		return m, m.flushLater()

	case flushMsg:
		m.ctrl.Flush()
		m.rebuildRows(m.selectedID())
		return m, m.flushLater()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.form != formNone && m.field == fieldText {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != formNone {
		return m.handleFormKey(msg)
	}

	if m.showHelpModal {
		switch msg.String() {
		case "esc", "enter", "?", "q":
			m.showHelpModal = false
		}
		return m, nil
	}

	if m.showDeleteConfirm {
		switch msg.String() {
		case "y", "Y":
			m.gate.approved = true
			res, err := m.ctrl.Dispatch(controller.Command{Action: controller.ActionDelete, ID: m.deleteTarget.ID})
			m.gate.approved = false
			if res.Changed {
				m.setStatus("Deleted: " + m.deleteTarget.Text)
			}
			m.showDeleteConfirm = false
			m.deleteTarget = nil
			cmd := m.afterDispatch(res, err, "")
			return m, cmd
		case "n", "N", "esc":
			m.showDeleteConfirm = false
			m.deleteTarget = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if i := nextSelectable(m.rows, m.cursor-1, -1); i >= 0 {
			m.cursor = i
		}

	case key.Matches(msg, m.keys.Down):
		if i := nextSelectable(m.rows, m.cursor+1, 1); i >= 0 {
			m.cursor = i
		}

	case key.Matches(msg, m.keys.NextSection):
		if i := sectionStart(m.rows, m.cursor, 1); i >= 0 {
			m.cursor = i
		}

	case key.Matches(msg, m.keys.PrevSection):
		if i := sectionStart(m.rows, m.cursor, -1); i >= 0 {
			m.cursor = i
		}

	case key.Matches(msg, m.keys.Toggle):
		if t := m.selected(); t != nil {
			res, err := m.ctrl.Dispatch(controller.Command{Action: controller.ActionToggle, ID: t.ID})
			if res.Changed && res.Task != nil {
				if res.Task.Completed {
					m.setStatus("Done: " + res.Task.Text)
				} else {
					m.setStatus("Reopened: " + res.Task.Text)
				}
			}
			cmd := m.afterDispatch(res, err, t.ID)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Add):
		m.openForm(formAdd, nil)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if t := m.selected(); t != nil {
			res, err := m.ctrl.Dispatch(controller.Command{Action: controller.ActionEdit, ID: t.ID})
			if !res.Changed {
				cmd := m.afterDispatch(res, err, t.ID)
				return m, cmd
			}
			m.openForm(formEdit, t)
			cmd := m.afterDispatch(res, err, t.ID)
			return m, tea.Batch(cmd, textinput.Blink)
		}

	case key.Matches(msg, m.keys.Delete):
		if t := m.selected(); t != nil {
			m.deleteTarget = t
			m.showDeleteConfirm = true
		}

	case key.Matches(msg, m.keys.Collapse):
		m.toggleCollapsed()

	case key.Matches(msg, m.keys.NextMode):
		return m.switchMode(m.ctrl.NextMode())

	case key.Matches(msg, m.keys.ModeCurrent):
		return m.switchMode(view.ModeCurrent)

	case key.Matches(msg, m.keys.ModeAll):
		return m.switchMode(view.ModeAll)

	case key.Matches(msg, m.keys.ModeCompleted):
		return m.switchMode(view.ModeCompleted)

	case key.Matches(msg, m.keys.Reload):
		if err := m.ctrl.Reload(); err != nil {
			m.setStatus("Reload failed: " + err.Error())
			return m, nil
		}
		m.setStatus("Reloaded")
		m.rebuildRows(m.selectedID())
		return m, m.flushLater()

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = !m.showHelpModal
	}

	return m, nil
}

// toggleCollapsed collapses or expands the section under the cursor. A
// collapsed section keeps the cursor on its header.
func (m *Model) toggleCollapsed() {
	row, ok := m.cursorRow()
	if !ok {
		return
	}
	section := row.Section
	if m.collapsed[section] {
		delete(m.collapsed, section)
		m.rebuildRows("")
		return
	}
	m.collapsed[section] = true
	m.rebuildRows(sectionHeaderID(section))
}

func (m Model) switchMode(mode view.Mode) (tea.Model, tea.Cmd) {
	res, err := m.ctrl.Dispatch(controller.Command{Action: controller.ActionSwitchMode, Mode: mode})
	cmd := m.afterDispatch(res, err, m.selectedID())
	return m, cmd
}

// handleFormKey handles key messages while the add/edit form is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		var cmd tea.Cmd
		if m.form == formEdit {
			res, err := m.ctrl.Dispatch(controller.Command{Action: controller.ActionCancelEdit, ID: m.editID})
			cmd = m.afterDispatch(res, err, m.editID)
			m.setStatus("Edit cancelled")
		}
		m.closeForm()
		return m, cmd

	case tea.KeyEnter:
		return m.submitForm()

	case tea.KeyTab:
		m.focusField((m.field + 1) % fieldCount)
		return m, nil

	case tea.KeyShiftTab:
		m.focusField((m.field + fieldCount - 1) % fieldCount)
		return m, nil
	}

	if m.field == fieldText {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	level := &m.priority
	if m.field == fieldUrgency {
		level = &m.urgency
	}
	switch msg.String() {
	case "left", "h", "-":
		if *level > task.MinLevel {
			*level--
		}
	case "right", "l", "+":
		if *level < task.MaxLevel {
			*level++
		}
	default:
		if l, ok := task.ParseLevel(msg.String()); ok && msg.Type == tea.KeyRunes {
			*level = l
		}
	}
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	c := controller.Command{
		Action:   controller.ActionAdd,
		Text:     m.textInput.Value(),
		Priority: m.priority,
		Urgency:  m.urgency,
	}
	if m.form == formEdit {
		c.Action = controller.ActionSaveEdit
		c.ID = m.editID
	}

	res, err := m.ctrl.Dispatch(c)
	if errors.Is(err, task.ErrValidation) {
		// keep the form open so the text can be fixed
		m.setStatus(err.Error())
		m.focusField(fieldText)
		return m, nil
	}

	selectID := m.editID
	if res.Task != nil {
		selectID = res.Task.ID
		if m.form == formAdd {
			m.setStatus("Added to " + res.Task.Category.Label() + ": " + res.Task.Text)
		} else {
			m.setStatus("Saved: " + res.Task.Text)
		}
	}
	m.closeForm()
	cmd := m.afterDispatch(res, err, selectID)
	return m, cmd
}

func (m *Model) openForm(kind formKind, t *task.Task) {
	m.form = kind
	m.textInput.Reset()
	m.priority = task.DefaultLevel
	m.urgency = task.DefaultLevel
	m.editID = ""
	if t != nil {
		m.textInput.SetValue(t.Text)
		m.priority = t.Priority
		m.urgency = t.Urgency
		m.editID = t.ID
	}
	m.focusField(fieldText)
}

func (m *Model) closeForm() {
	m.form = formNone
	m.editID = ""
	m.textInput.Blur()
}

func (m *Model) focusField(f formField) {
	m.field = f
	if f == fieldText {
		m.textInput.Focus()
	} else {
		m.textInput.Blur()
	}
}

// afterDispatch reports errors, refreshes the rows from the rendered board
// and schedules a flush when the render was deferred.
func (m *Model) afterDispatch(res controller.Result, err error, selectID string) tea.Cmd {
	var perr *store.PersistenceError
	switch {
	case errors.As(err, &perr):
		m.setStatus("Not saved to disk: " + perr.Err.Error())
	case err != nil:
		m.setStatus("Error: " + err.Error())
	}

	if selectID == "" {
		selectID = m.selectedID()
	}
	m.rebuildRows(selectID)
	if res.Deferred {
		return m.flushLater()
	}
	return nil
}

// flushLater schedules a flushMsg once the render window has passed, if a
// render is pending.
func (m Model) flushLater() tea.Cmd {
	if !m.ctrl.Pending() {
		return nil
	}
	return tea.Tick(m.ctrl.Wait(), func(time.Time) tea.Msg {
		return flushMsg{}
	})
}

// rebuildRows flattens the current board and puts the cursor on selectID
// when it is still visible.
func (m *Model) rebuildRows(selectID string) {
	m.rows = BuildRows(m.ctrl.Board(), m.ctrl.Visibility(), m.collapsed)

	if selectID != "" {
		for i, r := range m.rows {
			if r.ID == selectID && r.Selectable() {
				m.cursor = i
				return
			}
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if i := nextSelectable(m.rows, m.cursor, 1); i >= 0 {
		m.cursor = i
	} else if i := nextSelectable(m.rows, m.cursor, -1); i >= 0 {
		m.cursor = i
	}
}

func (m Model) cursorRow() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m Model) selected() *task.Task {
	row, _ := m.cursorRow()
	return row.Task
}

func (m Model) selectedID() string {
	if t := m.selected(); t != nil {
		return t.ID
	}
	return ""
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}
