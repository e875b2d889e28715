// Package state implements the two concrete engine.State types: BaseState,
// the non-removable root of the stack, and InputModalState, the text-input
// overlay pushed by the branch handler.
package state

import (
	"github.com/chmouel/gitstage/internal/config"
	"github.com/chmouel/gitstage/internal/engine"
	"github.com/chmouel/gitstage/internal/queue"
	"github.com/chmouel/gitstage/internal/repo"
	"github.com/chmouel/gitstage/internal/runner"
	"github.com/chmouel/gitstage/internal/term"
)

// Context is the concrete engine.HandleCtx/PaintCtx implementation the
// orchestrator builds once per tick and passes down the stack. Handlers
// that need more than width/height type-assert engine.HandleCtx back to
// *Context to reach the collaborator they need.
type Context struct {
	width, height int

	Runner    *runner.Git
	RepoModel *repo.Model
	Jobs      *queue.Unbounded[engine.Job]
	Gateway   *term.Gateway
	Config    *config.AppConfig
}

// NewContext constructs a Context for one foreground tick.
func NewContext(width, height int, r *runner.Git, rm *repo.Model, jobs *queue.Unbounded[engine.Job], gw *term.Gateway, cfg *config.AppConfig) *Context {
	return &Context{width: width, height: height, Runner: r, RepoModel: rm, Jobs: jobs, Gateway: gw, Config: cfg}
}

func (c *Context) Width() int  { return c.width }
func (c *Context) Height() int { return c.height }
