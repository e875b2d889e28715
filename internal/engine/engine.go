// Package engine defines the polymorphic state-stack machinery: the Event
// and Job tagged variants, the State/Result contract every UI state
// implements, and the StateStack that routes dispatch and owns teardown.
package engine

import (
	"github.com/chmouel/gitstage/internal/keys"
	"github.com/chmouel/gitstage/internal/repo"
)

// EventKind tags an Event's payload.
type EventKind int

const (
	EventInput EventKind = iota
	EventRepoState
)

// Event is the tagged union pushed into the lockstep queue (by the input
// producer and the job worker): either a decoded keystroke or a freshly
// loaded repository state.
type Event struct {
	Kind      EventKind
	Input     keys.Input
	RepoState *repo.State
}

// InputEvent builds an Event carrying a keystroke.
func InputEvent(in keys.Input) Event { return Event{Kind: EventInput, Input: in} }

// RepoStateEvent builds an Event carrying a freshly loaded RepoState.
// Ownership transfers to whoever consumes the event.
func RepoStateEvent(s *repo.State) Event { return Event{Kind: EventRepoState, RepoState: s} }

// JobKind tags a Job's payload.
type JobKind int

const (
	JobStage JobKind = iota
	JobUnstage
	JobPush
	JobRefresh
)

// Job is the tagged union the job queue carries from a handler to the job
// worker.
type Job struct {
	Kind   JobKind
	Paths  []string
	Remote string
	Branch string
}

// StageJob builds a Job that stages paths.
func StageJob(paths []string) Job { return Job{Kind: JobStage, Paths: paths} }

// UnstageJob builds a Job that unstages paths.
func UnstageJob(paths []string) Job { return Job{Kind: JobUnstage, Paths: paths} }

// PushJob builds a Job that pushes remote/branch.
func PushJob(remote, branch string) Job { return Job{Kind: JobPush, Remote: remote, Branch: branch} }

// RefreshJob builds a Job that merely triggers a repository re-parse.
func RefreshJob() Job { return Job{Kind: JobRefresh} }

// ResultKind tags the routing verdict a State.Handle returns.
type ResultKind int

const (
	// ResultPass defers to the state below in the stack.
	ResultPass ResultKind = iota
	// ResultStop means the event was consumed; do not paint twice this tick.
	ResultStop
	// ResultPop removes the top of the stack (never the base).
	ResultPop
	// ResultPush appends a new state atop the stack.
	ResultPush
	// ResultExit terminates the foreground loop.
	ResultExit
)

// Result is returned by State.Handle to tell the orchestrator how to route
// an event and mutate the stack.
type Result struct {
	Kind     ResultKind
	PushedBy func() State
}

// Pass is the "defer to the state below" result.
func Pass() Result { return Result{Kind: ResultPass} }

// Stop is the "consumed, stop dispatch" result.
func Stop() Result { return Result{Kind: ResultStop} }

// Pop removes the top state.
func Pop() Result { return Result{Kind: ResultPop} }

// Push appends state atop the stack. The state is constructed lazily via
// factory so callers that only conditionally push never pay for
// constructing a State they discard.
func Push(factory func() State) Result { return Result{Kind: ResultPush, PushedBy: factory} }

// Exit terminates the foreground loop.
func Exit() Result { return Result{Kind: ResultExit} }

// PaintCtx is passed to State.Paint; it is deliberately minimal here.
// Concrete states type-assert it to the richer Context defined in
// internal/state to reach the terminal gateway and other collaborators.
type PaintCtx interface {
	Width() int
	Height() int
}

// HandleCtx is passed to State.Handle.
type HandleCtx interface {
	PaintCtx
}

// State is the polymorphic interface every stack entry implements: paint
// itself given the current terminal size, handle one Event and report a
// Result, and release any resources on teardown.
type State interface {
	Paint(ctx PaintCtx)
	Handle(ctx HandleCtx, ev Event) Result
	Deinit()
}

// Stack is an ordered sequence of States with a distinguished,
// non-removable bottom (the base state).
type Stack struct {
	states []State
}

// NewStack constructs a Stack whose sole, non-removable bottom is base.
func NewStack(base State) *Stack {
	return &Stack{states: []State{base}}
}

// Paint renders every state bottom-up: the base paints first, overlays on
// top of it.
func (s *Stack) Paint(ctx PaintCtx) {
	for _, st := range s.states {
		st.Paint(ctx)
	}
}

// Dispatch routes ev top-down, invoking Handle on each state until one
// returns a non-Pass Result, applying that Result to the stack, and
// reporting whether the foreground loop should exit.
func (s *Stack) Dispatch(ctx HandleCtx, ev Event) (exit bool) {
	for i := len(s.states) - 1; i >= 0; i-- {
		res := s.states[i].Handle(ctx, ev)
		switch res.Kind {
		case ResultPass:
			continue
		case ResultStop:
			return false
		case ResultPush:
			s.states = append(s.states, res.PushedBy())
			return false
		case ResultPop:
			s.popTop()
			return false
		case ResultExit:
			return true
		}
		return false
	}
	// No state consumed the event (all passed); still stop after one tick.
	return false
}

// popTop removes and deinits the top state, refusing to remove the base.
func (s *Stack) popTop() {
	if len(s.states) <= 1 {
		return
	}
	top := s.states[len(s.states)-1]
	top.Deinit()
	s.states = s.states[:len(s.states)-1]
}

// Len reports the current stack depth, including the base.
func (s *Stack) Len() int { return len(s.states) }

// Top returns the topmost state, for tests that need to poke it directly.
func (s *Stack) Top() State { return s.states[len(s.states)-1] }
