// Package controller turns user actions into store mutations followed by a
// render. Every action goes through one dispatch table built in New.
package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/stefanpenner/quadrant/pkg/store"
	"github.com/stefanpenner/quadrant/pkg/task"
	"github.com/stefanpenner/quadrant/pkg/view"
)

// Action names a user action.
type Action string

const (
	ActionAdd        Action = "add"
	ActionToggle     Action = "toggle"
	ActionDelete     Action = "delete"
	ActionEdit       Action = "edit"
	ActionSaveEdit   Action = "save-edit"
	ActionCancelEdit Action = "cancel-edit"
	ActionSwitchMode Action = "switch-mode"
)

// ErrUnknownAction is returned for an action with no handler.
var ErrUnknownAction = errors.New("unknown action")

// Command is one dispatched action with its arguments. ID is required by
// the task actions; Text, Priority and Urgency by add and save-edit; Mode
// by switch-mode.
type Command struct {
	Action   Action
	ID       string
	Text     string
	Priority task.Level
	Urgency  task.Level
	Mode     view.Mode
}

// Result describes what a dispatched command did.
type Result struct {
	// Task is the affected task after the change, if any.
	Task *task.Task
	// Changed is false when the command was a no-op.
	Changed bool
	// Deferred is true when the follow-up render was rate-limited; call
	// Flush after Wait.
	Deferred bool
}

type handler func(c *Controller, cmd Command) (Result, error)

// Controller owns the store, the renderer and the view mode.
type Controller struct {
	store    *store.Store
	renderer *view.Renderer
	modes    *view.Modes
	confirm  store.Confirmer
	handlers map[Action]handler
}

// New wires a Controller and renders the initial board. confirm approves
// deletes.
func New(s *store.Store, r *view.Renderer, confirm store.Confirmer) *Controller {
	c := &Controller{
		store:    s,
		renderer: r,
		modes:    view.NewModes(),
		confirm:  confirm,
	}
	c.handlers = map[Action]handler{
		ActionAdd:        (*Controller).add,
		ActionToggle:     withTask((*Controller).toggle),
		ActionDelete:     withTask((*Controller).remove),
		ActionEdit:       withTask((*Controller).beginEdit),
		ActionSaveEdit:   withTask((*Controller).saveEdit),
		ActionCancelEdit: withTask((*Controller).cancelEdit),
		ActionSwitchMode: (*Controller).switchMode,
	}
	r.Request(s.Tasks())
	return c
}

// withTask skips the handler when the id is empty or unknown.
func withTask(h handler) handler {
	return func(c *Controller, cmd Command) (Result, error) {
		if cmd.ID == "" {
			return Result{}, nil
		}
		if _, ok := c.store.Get(cmd.ID); !ok {
			return Result{}, nil
		}
		return h(c, cmd)
	}
}

// Dispatch runs the handler for cmd.Action. Changes are followed by a
// render request. A *store.PersistenceError still reports the change.
func (c *Controller) Dispatch(cmd Command) (Result, error) {
	h, ok := c.handlers[cmd.Action]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	res, err := h(c, cmd)
	if res.Changed {
		res.Deferred = !c.renderer.Request(c.store.Tasks())
	}
	return res, err
}

func (c *Controller) add(cmd Command) (Result, error) {
	t, err := c.store.Add(cmd.Text, cmd.Priority, cmd.Urgency)
	return Result{Task: t, Changed: t != nil}, err
}

func (c *Controller) toggle(cmd Command) (Result, error) {
	t, err := c.store.ToggleCompletion(cmd.ID)
	return Result{Task: t, Changed: t != nil}, err
}

func (c *Controller) remove(cmd Command) (Result, error) {
	t, _ := c.store.Get(cmd.ID)
	removed, err := c.store.Remove(cmd.ID, c.confirm)
	if !removed {
		return Result{}, err
	}
	return Result{Task: t, Changed: true}, err
}

func (c *Controller) beginEdit(cmd Command) (Result, error) {
	t, _ := c.store.Get(cmd.ID)
	return Result{Task: t, Changed: c.store.BeginEdit(cmd.ID)}, nil
}

func (c *Controller) saveEdit(cmd Command) (Result, error) {
	t, err := c.store.SaveEdit(cmd.ID, cmd.Text, cmd.Priority, cmd.Urgency)
	return Result{Task: t, Changed: t != nil}, err
}

func (c *Controller) cancelEdit(cmd Command) (Result, error) {
	t, _ := c.store.Get(cmd.ID)
	return Result{Task: t, Changed: c.store.CancelEdit(cmd.ID)}, nil
}

func (c *Controller) switchMode(cmd Command) (Result, error) {
	changed, err := c.modes.Switch(cmd.Mode)
	return Result{Changed: changed}, err
}

// Reload re-reads the store from its slot and renders.
func (c *Controller) Reload() error {
	if err := c.store.Reload(); err != nil {
		return err
	}
	c.renderer.Request(c.store.Tasks())
	return nil
}

// Flush renders a deferred request once the rate-limit window has passed.
func (c *Controller) Flush() bool {
	return c.renderer.Flush(c.store.Tasks())
}

// Wait returns the time left in the rate-limit window.
func (c *Controller) Wait() time.Duration {
	return c.renderer.Wait()
}

// Pending reports whether a render was deferred.
func (c *Controller) Pending() bool {
	return c.renderer.Pending()
}

// Board returns the last rendered board.
func (c *Controller) Board() view.Board {
	return c.renderer.Board()
}

// Mode returns the active view mode.
func (c *Controller) Mode() view.Mode {
	return c.modes.Mode()
}

// NextMode returns the mode after the active one.
func (c *Controller) NextMode() view.Mode {
	return c.modes.Next()
}

// Visibility returns which board sections the active mode shows.
func (c *Controller) Visibility() view.Visibility {
	return c.modes.Visibility()
}

// IsEditing reports whether a task is in edit mode.
func (c *Controller) IsEditing(id string) bool {
	return c.store.IsEditing(id)
}

// Task returns a copy of the task with the given id.
func (c *Controller) Task(id string) (*task.Task, bool) {
	return c.store.Get(id)
}
