package task

import (
	"strconv"
	"strings"
	"time"
)

// Level is a priority or urgency score from 1 (lowest) to 5 (highest).
type Level int

const (
	MinLevel     Level = 1
	MaxLevel     Level = 5
	DefaultLevel Level = 3
)

// Valid reports whether l is within 1..5.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// OrDefault returns l, or DefaultLevel when l is out of range.
func (l Level) OrDefault() Level {
	if l.Valid() {
		return l
	}
	return DefaultLevel
}

// legacyLevels maps the text labels older data files used for priority.
var legacyLevels = map[string]Level{
	"low":    2,
	"medium": 3,
	"high":   4,
}

// ParseLevel parses "1".."5" or one of the legacy labels low/medium/high.
func ParseLevel(s string) (Level, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if l, ok := legacyLevels[s]; ok {
		return l, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	l := Level(n)
	if !l.Valid() {
		return 0, false
	}
	return l, true
}

// Category is the quadrant a task is sorted into.
type Category string

const (
	CategoryDoNow    Category = "doNow"
	CategoryDoLater  Category = "doLater"
	CategoryDelegate Category = "delegate"
	CategoryPostpone Category = "postpone"
)

// Categories lists the quadrants in display order.
var Categories = []Category{CategoryDoNow, CategoryDoLater, CategoryDelegate, CategoryPostpone}

// Valid reports whether c is one of the four quadrants.
func (c Category) Valid() bool {
	switch c {
	case CategoryDoNow, CategoryDoLater, CategoryDelegate, CategoryPostpone:
		return true
	}
	return false
}

// Label returns the human-readable quadrant name.
func (c Category) Label() string {
	switch c {
	case CategoryDoNow:
		return "Do now"
	case CategoryDoLater:
		return "Do later"
	case CategoryDelegate:
		return "Delegate"
	case CategoryPostpone:
		return "Postpone"
	}
	return string(c)
}

// MaxTextLength is the longest task text accepted, in characters.
const MaxTextLength = 100

// Task is a single entry in the matrix.
type Task struct {
	ID          string     `yaml:"id" json:"id"`
	Text        string     `yaml:"text" json:"text"`
	Priority    Level      `yaml:"priority" json:"priority"`
	Urgency     Level      `yaml:"urgency" json:"urgency"`
	Category    Category   `yaml:"category" json:"category"`
	Completed   bool       `yaml:"completed" json:"completed"`
	CreatedAt   time.Time  `yaml:"createdAt" json:"createdAt"`
	CompletedAt *time.Time `yaml:"completedAt" json:"completedAt"`
}

// Reclassify sets Category from the current priority and urgency.
func (t *Task) Reclassify() {
	t.Category = Classify(t.Priority, t.Urgency)
}

// Clone returns a copy of t that shares nothing with it.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}
