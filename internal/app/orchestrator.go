// Package app wires together the terminal gateway, the repository model,
// and the four producers (input, refresh timer, filesystem watch, job
// worker) around the engine.Stack foreground loop.
package app

import (
	"context"
	"os"
	"time"

	"github.com/chmouel/gitstage/internal/config"
	"github.com/chmouel/gitstage/internal/engine"
	"github.com/chmouel/gitstage/internal/log"
	"github.com/chmouel/gitstage/internal/queue"
	"github.com/chmouel/gitstage/internal/repo"
	"github.com/chmouel/gitstage/internal/runner"
	"github.com/chmouel/gitstage/internal/state"
	"github.com/chmouel/gitstage/internal/term"
	"github.com/chmouel/gitstage/internal/watch"
)

// Orchestrator owns every long-lived collaborator and runs the foreground
// loop until a state requests exit.
type Orchestrator struct {
	cfg     *config.AppConfig
	cwd     string
	gw      *term.Gateway
	git     *runner.Git
	model   *repo.Model
	jobs    *queue.Unbounded[engine.Job]
	events  *queue.Lockstep[engine.Event]
	stack   *engine.Stack
	watcher *watch.Watcher
}

// New constructs an Orchestrator rooted at cwd with the given config.
func New(cfg *config.AppConfig, cwd string) *Orchestrator {
	git := runner.NewGit()
	return &Orchestrator{
		cfg:    cfg,
		cwd:    cwd,
		gw:     term.NewGateway(term.StdinFD(), os.Stdout),
		git:    git,
		model:  repo.NewModel(git, cwd),
		jobs:   queue.NewUnbounded[engine.Job](),
		events: queue.NewLockstep[engine.Event](),
		stack:  engine.NewStack(state.NewBase()),
	}
}

// Run enters raw mode, starts the producers, and drives the foreground
// paint/dispatch loop until a state returns engine.Exit or ctx is
// cancelled. The terminal is always restored on return, including on
// panic.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	if err := o.gw.Enter(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = o.gw.Restore()
			panic(r)
		}
	}()
	defer func() { _ = o.gw.Restore() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go o.runInputProducer(ctx)
	go o.runRefreshTimer(ctx)
	go o.runJobWorker(ctx)

	if w, werr := watch.Start(ctx, o.git, o.cwd); werr == nil && w != nil {
		o.watcher = w
		go o.runWatchProducer(ctx)
		defer o.watcher.Stop()
	}

	o.jobs.Put(engine.RefreshJob())

	for {
		width, height, _ := o.gw.WindowSize()
		hctx := state.NewContext(width, height, o.git, o.model, o.jobs, o.gw, o.cfg)

		o.stack.Paint(hctx)

		ev := o.events.Peek()
		exit := o.stack.Dispatch(hctx, ev)
		o.events.Advance()

		if exit {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// runInputProducer decodes stdin into keys.Input and pushes InputEvents.
func (o *Orchestrator) runInputProducer(ctx context.Context) {
	dec := term.NewDecoder(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		in, err := dec.Next()
		if err != nil {
			return
		}
		o.events.Put(engine.InputEvent(in))
	}
}

// runRefreshTimer enqueues a periodic Job::refresh at cfg.RefreshInterval.
func (o *Orchestrator) runRefreshTimer(ctx context.Context) {
	interval := o.cfg.RefreshInterval
	if interval <= 0 {
		interval = config.DefaultRefreshInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			o.jobs.Put(engine.RefreshJob())
		}
	}
}

// runWatchProducer turns filesystem watch signals into Job::refresh,
// skipped entirely when the config disables watching or the watcher could
// not be started.
func (o *Orchestrator) runWatchProducer(ctx context.Context) {
	if o.cfg.DisableWatch {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-o.watcher.Events:
			if !ok {
				return
			}
			o.jobs.Put(engine.RefreshJob())
		}
	}
}

// runJobWorker drains the job queue, running each Job's CLI invocation and
// reloading repository state afterward. It never touches terminal state,
// so it can run concurrently with the commit handler's raw-mode yield.
func (o *Orchestrator) runJobWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		job := o.jobs.Take()
		o.runJob(ctx, job)
	}
}

func (o *Orchestrator) runJob(ctx context.Context, job engine.Job) {
	switch job.Kind {
	case engine.JobStage:
		args := append([]string{"add", "--"}, job.Paths...)
		if _, err := o.git.Run(ctx, o.cwd, []int{0}, args...); err != nil {
			log.Printf("stage failed: %v", err)
		}
	case engine.JobUnstage:
		args := append([]string{"reset", "HEAD", "--"}, job.Paths...)
		if _, err := o.git.Run(ctx, o.cwd, []int{0}, args...); err != nil {
			log.Printf("unstage failed: %v", err)
		}
	case engine.JobPush:
		if _, err := o.git.Run(ctx, o.cwd, []int{0}, "push", job.Remote, job.Branch); err != nil {
			log.Printf("push failed: %v", err)
		}
	case engine.JobRefresh:
		// no-op: state reload happens below for every job kind
	}

	newState, err := o.model.Load(ctx)
	if err != nil {
		log.Printf("refresh failed: %v", err)
		return
	}
	o.events.Put(engine.RepoStateEvent(newState))
}
