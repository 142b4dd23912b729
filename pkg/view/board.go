package view

import (
	"cmp"
	"slices"

	"github.com/stefanpenner/quadrant/pkg/task"
)

// Summary holds the header counts.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Board is a read-only projection of the task list: four sorted quadrant
// lists of open tasks, the completed list and the summary.
type Board struct {
	Quadrants map[task.Category][]*task.Task
	Completed []*task.Task
	Summary   Summary
}

// Quadrant returns the open tasks of one category.
func (b Board) Quadrant(c task.Category) []*task.Task {
	return b.Quadrants[c]
}

// Project builds a Board from tasks. Quadrants are ordered by priority,
// then urgency, highest first; equal tasks keep their insertion order.
// Completed tasks are ordered by completion time, newest first.
func Project(tasks []*task.Task) Board {
	b := Board{Quadrants: make(map[task.Category][]*task.Task, len(task.Categories))}

	for _, t := range tasks {
		if t.Completed {
			b.Completed = append(b.Completed, t)
			continue
		}
		b.Quadrants[t.Category] = append(b.Quadrants[t.Category], t)
	}

	for _, c := range task.Categories {
		slices.SortStableFunc(b.Quadrants[c], byRank)
	}
	slices.SortStableFunc(b.Completed, byCompletion)

	b.Summary = Summary{
		Total:     len(tasks),
		Completed: len(b.Completed),
		Pending:   len(tasks) - len(b.Completed),
	}
	return b
}

func byRank(a, b *task.Task) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	return cmp.Compare(b.Urgency, a.Urgency)
}

func byCompletion(a, b *task.Task) int {
	switch {
	case a.CompletedAt == nil && b.CompletedAt == nil:
		return 0
	case a.CompletedAt == nil:
		return 1
	case b.CompletedAt == nil:
		return -1
	}
	return b.CompletedAt.Compare(*a.CompletedAt)
}

// CompletedPlaceholder is shown when no task is completed.
const CompletedPlaceholder = "No completed tasks yet."

// Placeholder returns the message shown for an empty quadrant.
func Placeholder(c task.Category) string {
	switch c {
	case task.CategoryDoNow:
		return "Nothing urgent and important."
	case task.CategoryDoLater:
		return "Nothing important that can wait."
	case task.CategoryDelegate:
		return "Nothing urgent but less important."
	case task.CategoryPostpone:
		return "Nothing unimportant and non-urgent."
	}
	return "No tasks."
}
