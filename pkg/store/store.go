package store

import (
	"crypto/rand"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stefanpenner/quadrant/pkg/task"
)

// Confirmer approves a destructive operation on t.
type Confirmer func(t *task.Task) bool

// Store holds the ordered task list in memory and mirrors it to a Slot after
// every mutation. It is not safe for concurrent use.
type Store struct {
	slot    Slot
	tasks   []*task.Task
	editing map[string]bool
	now     func() time.Time
	newID   func() string
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for timestamps and IDs.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for persistence diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithIDs replaces the ID generator.
func WithIDs(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

// New creates a Store backed by slot and loads its contents once. Data that
// cannot be loaded is logged and the store starts empty.
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		editing: make(map[string]bool),
		now:     time.Now,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newID == nil {
		s.newID = ulidSource(s.now)
	}

	tasks, err := slot.Load()
	if err != nil {
		s.log.Warn("starting with an empty task list", "err", err)
		tasks = nil
	}
	s.tasks = s.adopt(tasks)
	s.log.Debug("loaded tasks", "count", len(s.tasks))
	return s
}

func ulidSource(now func() time.Time) func() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func() string {
		return ulid.MustNew(ulid.Timestamp(now()), entropy).String()
	}
}

// adopt gives every loaded task a unique ID and a creation time, and
// drops or repairs records that break the task invariants.
func (s *Store) adopt(tasks []*task.Task) []*task.Task {
	seen := make(map[string]bool, len(tasks))
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t == nil || !s.repair(t) {
			continue
		}
		if t.ID == "" || seen[t.ID] {
			t.ID = s.uniqueID(seen)
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// repair fills in a missing creation time and applies the load rules,
// logging what it changed.
func (s *Store) repair(t *task.Task) bool {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	ok, truncated := repairTask(t)
	switch {
	case !ok:
		s.log.Debug("dropping task without text", "id", t.ID)
	case truncated:
		s.log.Debug("task text cut to limit", "id", t.ID, "limit", task.MaxTextLength)
	}
	return ok
}

func (s *Store) uniqueID(taken map[string]bool) string {
	for {
		id := s.newID()
		if !taken[id] {
			return id
		}
	}
}

func (s *Store) index(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) ids() map[string]bool {
	ids := make(map[string]bool, len(s.tasks))
	for _, t := range s.tasks {
		ids[t.ID] = true
	}
	return ids
}

func (s *Store) persist() error {
	if err := s.slot.Save(s.tasks); err != nil {
		s.log.Warn("tasks kept in memory only", "err", err)
		return &PersistenceError{Err: err}
	}
	return nil
}

// Tasks returns copies of all tasks in insertion order.
func (s *Store) Tasks() []*task.Task {
	out := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (*task.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return nil, false
	}
	return s.tasks[i].Clone(), true
}

// Add appends a new open task. Empty or over-long text is rejected with a
// *task.ValidationError and nothing changes. Out-of-range levels become
// task.DefaultLevel.
func (s *Store) Add(text string, priority, urgency task.Level) (*task.Task, error) {
	text, err := task.ValidateText(text)
	if err != nil {
		return nil, err
	}

	t := &task.Task{
		ID:        s.uniqueID(s.ids()),
		Text:      text,
		Priority:  priority.OrDefault(),
		Urgency:   urgency.OrDefault(),
		CreatedAt: s.now(),
	}
	t.Reclassify()

	s.tasks = append(s.tasks, t)
	return t.Clone(), s.persist()
}

// ToggleCompletion flips the completed state of a task. Reopening a task
// recomputes its category; completing it keeps the current one. Returns nil
// when no task has the id.
func (s *Store) ToggleCompletion(id string) (*task.Task, error) {
	i := s.index(id)
	if i < 0 {
		return nil, nil
	}

	t := s.tasks[i]
	t.Completed = !t.Completed
	if t.Completed {
		at := s.now()
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
		t.Reclassify()
	}

	return t.Clone(), s.persist()
}

// Remove deletes a task once confirm approves it. It reports whether the
// task was removed; a nil confirm declines.
func (s *Store) Remove(id string, confirm Confirmer) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	if confirm == nil || !confirm(s.tasks[i].Clone()) {
		return false, nil
	}

	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.editing, id)
	return true, s.persist()
}

// BeginEdit puts a task into edit mode. Edit mode is never persisted.
func (s *Store) BeginEdit(id string) bool {
	if s.index(id) < 0 {
		return false
	}
	s.editing[id] = true
	return true
}

// CancelEdit leaves edit mode without changing the task.
func (s *Store) CancelEdit(id string) bool {
	if s.index(id) < 0 {
		return false
	}
	delete(s.editing, id)
	return true
}

// IsEditing reports whether the task is in edit mode.
func (s *Store) IsEditing(id string) bool {
	return s.editing[id]
}

// SaveEdit replaces the text and levels of a task and recomputes its
// category. Invalid text leaves the task, including its edit mode,
// untouched. Returns nil when no task has the id.
func (s *Store) SaveEdit(id, text string, priority, urgency task.Level) (*task.Task, error) {
	i := s.index(id)
	if i < 0 {
		return nil, nil
	}
	text, err := task.ValidateText(text)
	if err != nil {
		return nil, err
	}

	t := s.tasks[i]
	t.Text = text
	t.Priority = priority.OrDefault()
	t.Urgency = urgency.OrDefault()
	t.Reclassify()
	delete(s.editing, id)

	return t.Clone(), s.persist()
}

// Reload replaces the in-memory list with the slot's contents. On failure
// the current list is kept. Edit mode survives for tasks that still exist.
func (s *Store) Reload() error {
	tasks, err := s.slot.Load()
	if err != nil {
		return err
	}
	s.tasks = s.adopt(tasks)

	ids := s.ids()
	for id := range s.editing {
		if !ids[id] {
			delete(s.editing, id)
		}
	}
	s.log.Debug("reloaded tasks", "count", len(s.tasks))
	return nil
}

// Import appends tasks whose IDs are not present yet, assigning fresh IDs
// to those without one. Records go through the same rules as loaded data:
// blank text is skipped, long text is cut and levels and categories are
// repaired. It returns how many were added.
func (s *Store) Import(tasks []*task.Task) (int, error) {
	ids := s.ids()
	added := 0
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if t.ID != "" && ids[t.ID] {
			continue
		}
		c := t.Clone()
		if !s.repair(c) {
			continue
		}
		if c.ID == "" {
			c.ID = s.uniqueID(ids)
		}
		ids[c.ID] = true
		s.tasks = append(s.tasks, c)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, s.persist()
}
