package view

import (
	"time"

	"github.com/stefanpenner/quadrant/pkg/task"
)

// DefaultDebounce is the minimum spacing between two renders.
const DefaultDebounce = 100 * time.Millisecond

// Renderer turns the task list into a Board at most once per debounce
// window. A request that arrives while a render is running or inside the
// window is dropped and marks the renderer pending; Flush renders it later.
// Pending requests are coalesced, not queued.
type Renderer struct {
	debounce  time.Duration
	now       func() time.Time
	sink      func(Board)
	rendering bool
	pending   bool
	last      time.Time
	board     Board
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithDebounce sets the rate-limit window.
func WithDebounce(d time.Duration) RendererOption {
	return func(r *Renderer) { r.debounce = d }
}

// WithRendererClock sets the time source.
func WithRendererClock(now func() time.Time) RendererOption {
	return func(r *Renderer) { r.now = now }
}

// WithSink registers a function that receives every rendered Board.
func WithSink(sink func(Board)) RendererOption {
	return func(r *Renderer) { r.sink = sink }
}

// NewRenderer creates a Renderer with an empty board.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		debounce: DefaultDebounce,
		now:      time.Now,
		board:    Project(nil),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Request renders tasks unless rate-limited. It reports whether a render
// happened.
func (r *Renderer) Request(tasks []*task.Task) bool {
	if r.rendering || r.within() {
		r.pending = true
		return false
	}
	r.render(tasks)
	return true
}

// Flush renders tasks if a dropped request is pending and the window has
// passed.
func (r *Renderer) Flush(tasks []*task.Task) bool {
	if !r.pending {
		return false
	}
	return r.Request(tasks)
}

// Pending reports whether a dropped request still waits for Flush.
func (r *Renderer) Pending() bool {
	return r.pending
}

// Wait returns how long until a request would be accepted.
func (r *Renderer) Wait() time.Duration {
	if r.last.IsZero() {
		return 0
	}
	left := r.debounce - r.now().Sub(r.last)
	if left < 0 {
		return 0
	}
	return left
}

// Board returns the most recently rendered Board.
func (r *Renderer) Board() Board {
	return r.board
}

func (r *Renderer) within() bool {
	return !r.last.IsZero() && r.now().Sub(r.last) < r.debounce
}

func (r *Renderer) render(tasks []*task.Task) {
	r.rendering = true
	defer func() { r.rendering = false }()

	r.pending = false
	r.last = r.now()
	r.board = Project(tasks)
	if r.sink != nil {
		r.sink(r.board)
	}
}
