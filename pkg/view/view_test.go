package view

import (
	"testing"
	"time"

	"github.com/stefanpenner/quadrant/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(id string, p, u task.Level) *task.Task {
	return &task.Task{ID: id, Text: id, Priority: p, Urgency: u, Category: task.Classify(p, u)}
}

func done(t *task.Task, at time.Time) *task.Task {
	t.Completed = true
	t.CompletedAt = &at
	return t
}

func ids(tasks []*task.Task) []string {
	var out []string
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestProjectSortsQuadrants(t *testing.T) {
	tasks := []*task.Task{
		newTask("p3u5", 3, 5),
		newTask("report", 5, 5),
		newTask("p5u4", 5, 4),
		newTask("p4u5-first", 4, 5),
		newTask("p4u5-second", 4, 5),
	}

	b := Project(tasks)

	assert.Equal(t, []string{"report", "p5u4", "p4u5-first", "p4u5-second", "p3u5"}, ids(b.Quadrant(task.CategoryDoNow)))
}

func TestProjectSeparatesCompleted(t *testing.T) {
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	tasks := []*task.Task{
		done(newTask("early", 5, 5), base),
		newTask("open", 1, 1),
		done(newTask("late", 1, 1), base.Add(time.Hour)),
		done(newTask("mid", 3, 3), base.Add(30*time.Minute)),
	}

	b := Project(tasks)

	assert.Equal(t, []string{"late", "mid", "early"}, ids(b.Completed))
	assert.Empty(t, b.Quadrant(task.CategoryDoNow), "completed tasks never show in quadrants")
	assert.Equal(t, []string{"open"}, ids(b.Quadrant(task.CategoryPostpone)))
	assert.Equal(t, Summary{Total: 4, Completed: 3, Pending: 1}, b.Summary)
}

func TestProjectEmpty(t *testing.T) {
	b := Project(nil)
	for _, c := range task.Categories {
		assert.Empty(t, b.Quadrant(c))
		assert.NotEmpty(t, Placeholder(c))
	}
	assert.Empty(t, b.Completed)
	assert.Equal(t, Summary{}, b.Summary)
}

func TestPlaceholdersDiffer(t *testing.T) {
	seen := map[string]bool{CompletedPlaceholder: true}
	for _, c := range task.Categories {
		msg := Placeholder(c)
		assert.False(t, seen[msg], "duplicate placeholder %q", msg)
		seen[msg] = true
	}
}

// fakeClock is advanced by hand.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestRendererRateLimits(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	renders := 0
	r := NewRenderer(
		WithRendererClock(clock.Now),
		WithSink(func(Board) { renders++ }),
	)

	tasks := []*task.Task{newTask("a", 3, 3)}
	assert.True(t, r.Request(tasks))
	assert.Equal(t, 1, r.Board().Summary.Total)

	clock.Advance(40 * time.Millisecond)
	tasks = append(tasks, newTask("b", 3, 3))
	assert.False(t, r.Request(tasks), "inside the window")
	assert.True(t, r.Pending())
	assert.Equal(t, 60*time.Millisecond, r.Wait())
	assert.Equal(t, 1, r.Board().Summary.Total, "dropped request leaves the board alone")

	assert.False(t, r.Flush(tasks), "still inside the window")

	clock.Advance(60 * time.Millisecond)
	assert.True(t, r.Flush(tasks))
	assert.False(t, r.Pending())
	assert.Equal(t, 2, r.Board().Summary.Total)
	assert.Equal(t, 2, renders)

	clock.Advance(time.Second)
	assert.False(t, r.Flush(tasks), "nothing pending")
	assert.Equal(t, time.Duration(0), r.Wait())
}

func TestRendererDropsReentrantRequests(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	var r *Renderer
	nested := true
	r = NewRenderer(
		WithRendererClock(clock.Now),
		WithDebounce(0),
		WithSink(func(Board) {
			if nested {
				nested = false
				assert.False(t, r.Request(nil), "render in progress")
			}
		}),
	)

	require.True(t, r.Request(nil))
	assert.True(t, r.Pending())
	assert.True(t, r.Flush(nil))
}

func TestModesSwitch(t *testing.T) {
	m := NewModes()
	assert.Equal(t, ModeCurrent, m.Mode())
	assert.Equal(t, Visibility{Quadrants: true, Completed: false}, m.Visibility())

	changed, err := m.Switch(ModeCurrent)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, Visibility{Quadrants: true, Completed: false}, m.Visibility())

	changed, err = m.Switch(ModeAll)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, Visibility{Quadrants: true, Completed: true}, m.Visibility())

	changed, err = m.Switch(ModeCompleted)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, Visibility{Quadrants: false, Completed: true}, m.Visibility())

	before := m.Visibility()
	changed, err = m.Switch(ModeCompleted)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, m.Visibility())

	_, err = m.Switch("archive")
	assert.Error(t, err)
	assert.Equal(t, ModeCompleted, m.Mode())
}

func TestModesNext(t *testing.T) {
	m := NewModes()
	assert.Equal(t, ModeAll, m.Next())
	_, _ = m.Switch(ModeCompleted)
	assert.Equal(t, ModeCurrent, m.Next())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" ALL ")
	require.NoError(t, err)
	assert.Equal(t, ModeAll, m)

	_, err = ParseMode("today")
	assert.Error(t, err)
}
