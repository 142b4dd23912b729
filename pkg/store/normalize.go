package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/stefanpenner/quadrant/pkg/task"
	"gopkg.in/yaml.v3"
)

// rawTask is a stored record before normalization. Priority, urgency and id
// may be numbers or strings depending on which version wrote them. Fields
// not listed here (the old "date" and "isEditing") are dropped on decode.
type rawTask struct {
	ID          yaml.Node `yaml:"id"`
	Text        string    `yaml:"text"`
	Priority    yaml.Node `yaml:"priority"`
	Urgency     yaml.Node `yaml:"urgency"`
	Category    string    `yaml:"category"`
	Completed   bool      `yaml:"completed"`
	CreatedAt   string    `yaml:"createdAt"`
	CompletedAt string    `yaml:"completedAt"`
}

func normalize(raw []rawTask) []*task.Task {
	tasks := make([]*task.Task, 0, len(raw))
	for _, r := range raw {
		if t, ok := normalizeOne(r); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

func normalizeOne(r rawTask) (*task.Task, bool) {
	t := &task.Task{
		ID:        scalar(r.ID),
		Text:      r.Text,
		Priority:  levelOf(r.Priority),
		Urgency:   levelOf(r.Urgency),
		Category:  task.Category(r.Category),
		Completed: r.Completed,
	}

	t.CreatedAt = parseTime(r.CreatedAt)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = createdFromID(t.ID)
	}
	if at := parseTime(r.CompletedAt); !at.IsZero() {
		t.CompletedAt = &at
	}

	ok, _ := repairTask(t)
	return t, ok
}

// repairTask brings a task that did not come through Add into a consistent
// state: trimmed text cut to task.MaxTextLength runes, levels in range, a
// category that follows the levels, and a completion time exactly when
// completed. Open tasks always follow their levels; completed ones keep
// the quadrant they were finished in unless it is unusable. It returns
// false for blank text and reports whether the text was cut.
func repairTask(t *task.Task) (ok, truncated bool) {
	text, truncated := task.TruncateText(t.Text)
	if text == "" {
		return false, false
	}
	t.Text = text
	t.Priority = t.Priority.OrDefault()
	t.Urgency = t.Urgency.OrDefault()

	if !t.Completed || !t.Category.Valid() {
		t.Reclassify()
	}

	switch {
	case !t.Completed:
		t.CompletedAt = nil
	case t.CompletedAt == nil || t.CompletedAt.IsZero():
		at := t.CreatedAt
		t.CompletedAt = &at
	}
	return true, truncated
}

func scalar(n yaml.Node) string {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

func levelOf(n yaml.Node) task.Level {
	if l, ok := task.ParseLevel(scalar(n)); ok {
		return l
	}
	return task.DefaultLevel
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999 -07:00", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// createdFromID recovers the creation time from a legacy millisecond id.
func createdFromID(id string) time.Time {
	ms, err := strconv.ParseInt(id, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
