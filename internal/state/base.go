package state

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chmouel/gitstage/internal/engine"
	"github.com/chmouel/gitstage/internal/inputmap"
	"github.com/chmouel/gitstage/internal/keys"
	"github.com/chmouel/gitstage/internal/repo"
	"github.com/chmouel/gitstage/internal/theme"
	"github.com/chmouel/gitstage/internal/uistate"
	"github.com/muesli/reflow/wrap"
)

// handlerFn is the signature every BaseState binding uses: given the tick's
// Context, compute the routing Result and apply any side effects (UI
// mutation, job enqueue).
type handlerFn func(*Context) engine.Result

// Base is the root state: it owns the UiState selection, the current
// RepoState, the input-map bindings, and the chord cursor.
type Base struct {
	root *inputmap.Node[*Context, engine.Result]
	cur  *inputmap.Node[*Context, engine.Result]

	ui    uistate.State
	repo  *repo.State
	theme *theme.Palette
}

// NewBase constructs the root state with its default bindings registered.
func NewBase() *Base {
	b := &Base{
		root:  inputmap.NewNode[*Context, engine.Result](),
		ui:    uistate.New(),
		theme: theme.Default(),
	}
	b.bind([]keys.Input{keys.Letter(keys.KeyUp)}, b.arrowUp)
	b.bind([]keys.Input{keys.Letter(keys.KeyDown)}, b.arrowDown)
	b.bind([]keys.Input{{Key: keys.KeyTab}}, b.toggleExpand)
	b.bind([]keys.Input{keys.Letter(keys.KeyS)}, b.stage)
	b.bind([]keys.Input{keys.Letter(keys.KeyU)}, b.unstage)
	b.bind([]keys.Input{keys.Letter(keys.KeyP)}, b.push)
	b.bind([]keys.Input{keys.Letter(keys.KeyB)}, b.branch)
	b.bind([]keys.Input{keys.Letter(keys.KeyC), keys.Letter(keys.KeyC)}, b.commit)
	b.cur = b.root
	return b
}

func (b *Base) bind(seq []keys.Input, fn handlerFn) {
	b.root.Add(seq, func(ctx *Context) engine.Result { return fn(ctx) })
}

// Handle implements engine.State.
func (b *Base) Handle(hctx engine.HandleCtx, ev engine.Event) engine.Result {
	switch ev.Kind {
	case engine.EventRepoState:
		b.repo = ev.RepoState
		b.ui = b.ui.ClampPos(b.lengths())
		return engine.Stop()
	case engine.EventInput:
		return b.handleInput(hctx, ev.Input)
	default:
		return engine.Stop()
	}
}

func (b *Base) handleInput(hctx engine.HandleCtx, in keys.Input) engine.Result {
	if in.Key == keys.KeyEscape && b.cur != b.root {
		b.cur = b.root
		return engine.Stop()
	}
	if in.Key == keys.KeyEscape || in.Key == keys.KeyQ || (in.Key == keys.KeyC && in.Mod.Ctrl) {
		return engine.Exit()
	}

	node := b.cur.Get(in)
	if node == nil {
		b.cur = b.root
		return engine.Stop()
	}
	if node.HasHandler() {
		ctx, _ := hctx.(*Context)
		res := node.Handler()(ctx)
		b.cur = b.root
		return res
	}
	b.cur = node
	return engine.Stop()
}

// Deinit implements engine.State; the base never tears down mid-run.
func (b *Base) Deinit() {}

func (b *Base) lengths() uistate.Lengths {
	if b.repo == nil {
		return uistate.Lengths{}
	}
	return uistate.Lengths{
		Untracked: len(b.repo.Untracked),
		Unstaged:  len(b.repo.Unstaged),
		Staged:    len(b.repo.Staged),
	}
}

func (b *Base) arrowUp(*Context) engine.Result {
	b.ui = b.ui.MoveUp(b.lengths())
	return engine.Stop()
}

func (b *Base) arrowDown(*Context) engine.Result {
	b.ui = b.ui.MoveDown(b.lengths())
	return engine.Stop()
}

func (b *Base) toggleExpand(*Context) engine.Result {
	b.ui = b.ui.ToggleExpand()
	return engine.Stop()
}

// sourceSection returns a pointer to the FileEntry slice backing the
// current UI section, or nil if the section isn't a stageable source.
func (b *Base) sourceSection() *[]repo.FileEntry {
	if b.repo == nil {
		return nil
	}
	switch b.ui.Section {
	case uistate.Untracked:
		return &b.repo.Untracked
	case uistate.Unstaged:
		return &b.repo.Unstaged
	default:
		return nil
	}
}

// stage optimistically moves the selected target(s) from untracked/unstaged
// into staged, and enqueues the backing stage job.
func (b *Base) stage(ctx *Context) engine.Result {
	source := b.sourceSection()
	if source == nil {
		return engine.Stop()
	}

	targets, remaining := splitTargets(*source, b.ui.Pos)
	if len(targets) == 0 {
		return engine.Stop()
	}

	fromUntracked := b.ui.Section == uistate.Untracked
	for _, t := range targets {
		label := t.StatusName
		if fromUntracked {
			label = "added"
		}
		b.repo.Staged = insertSorted(b.repo.Staged, repo.FileEntry{Path: t.Path, StatusName: label})
	}
	*source = remaining

	ctx.Jobs.Put(engine.StageJob(pathsOf(targets)))
	b.ui = b.ui.ClampPos(b.lengths())
	return engine.Stop()
}

// unstage implements the "unstage" handler: permitted only from the staged
// section; optimistic removal from Staged is not mandated (the next
// refresh reconciles it), so the slice is left untouched.
func (b *Base) unstage(ctx *Context) engine.Result {
	if b.repo == nil || b.ui.Section != uistate.Staged {
		return engine.Stop()
	}

	targets, _ := splitTargets(b.repo.Staged, b.ui.Pos)
	if len(targets) == 0 {
		return engine.Stop()
	}

	ctx.Jobs.Put(engine.UnstageJob(pathsOf(targets)))
	b.ui = b.ui.ClampPos(b.lengths())
	return engine.Stop()
}

// push derives remote/branch from the current HEAD's upstream (or the
// origin/branch_head fallback), lets a non-empty Config.Remote/Config.Branch
// override them, and enqueues Job::push.
func (b *Base) push(ctx *Context) engine.Result {
	remote, branch := "origin", "main"
	if b.repo != nil && ctx.RepoModel != nil {
		remote, branch = ctx.RepoModel.Remote(b.repo), ctx.RepoModel.Branch(b.repo)
	}
	if ctx.Config != nil {
		if ctx.Config.Remote != "" {
			remote = ctx.Config.Remote
		}
		if ctx.Config.Branch != "" {
			branch = ctx.Config.Branch
		}
	}
	ctx.Jobs.Put(engine.PushJob(remote, branch))
	return engine.Stop()
}

// branch loads the branch listing synchronously and pushes an
// InputModalState over the refnames.
func (b *Base) branch(ctx *Context) engine.Result {
	var refnames []string
	if ctx.RepoModel != nil {
		refs, err := ctx.RepoModel.LoadBranchRefs(context.Background())
		if err == nil {
			for _, r := range refs {
				refnames = append(refnames, r.RefName)
			}
		}
	}
	return engine.Push(func() engine.State { return NewInputModal(refnames) })
}

// commit yields raw mode, runs the commit command with the terminal
// inherited (handing control to $EDITOR), re-enters raw mode, and
// enqueues a refresh. It is synchronous by design: the job worker never
// touches terminal state.
func (b *Base) commit(ctx *Context) engine.Result {
	if ctx.Gateway != nil {
		_ = ctx.Gateway.Restore()
		defer func() { _ = ctx.Gateway.Enter() }()
	}
	if ctx.Runner != nil {
		args := []string{"commit"}
		if ctx.Config != nil && ctx.Config.Editor != "" {
			args = []string{"-c", "core.editor=" + ctx.Config.Editor, "commit"}
		}
		_ = ctx.Runner.RunInteractive(context.Background(), "", args...)
	}
	ctx.Jobs.Put(engine.RefreshJob())
	return engine.Stop()
}

// splitTargets returns the entries a stage/unstage press should act on
// (the whole section at pos==0, or the single entry at pos-1) plus the
// slice with those entries removed, preserving order.
func splitTargets(entries []repo.FileEntry, pos uint32) (targets, remaining []repo.FileEntry) {
	if len(entries) == 0 {
		return nil, entries
	}
	if pos == 0 {
		return append([]repo.FileEntry(nil), entries...), nil
	}
	idx := int(pos) - 1
	if idx < 0 || idx >= len(entries) {
		return nil, entries
	}
	targets = []repo.FileEntry{entries[idx]}
	remaining = make([]repo.FileEntry, 0, len(entries)-1)
	remaining = append(remaining, entries[:idx]...)
	remaining = append(remaining, entries[idx+1:]...)
	return targets, remaining
}

func pathsOf(entries []repo.FileEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

func insertSorted(entries []repo.FileEntry, e repo.FileEntry) []repo.FileEntry {
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Path >= e.Path })
	entries = append(entries, repo.FileEntry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	return entries
}

// Paint implements engine.State: the head summary line followed by the
// three expandable sections, with the (section, pos) under selection
// highlighted.
func (b *Base) Paint(pctx engine.PaintCtx) {
	ctx, ok := pctx.(*Context)
	if !ok || ctx.Gateway == nil {
		return
	}
	width := ctx.Width()
	var sb strings.Builder
	sb.WriteString(b.renderHead())
	sb.WriteString("\n")
	sb.WriteString(b.renderSection("Untracked", uistate.Untracked, b.repoOr(nil, func(s *repo.State) []repo.FileEntry { return s.Untracked }), b.ui.UntrackedExpanded, width))
	sb.WriteString(b.renderSection("Unstaged", uistate.Unstaged, b.repoOr(nil, func(s *repo.State) []repo.FileEntry { return s.Unstaged }), b.ui.UnstagedExpanded, width))
	sb.WriteString(b.renderSection("Staged", uistate.Staged, b.repoOr(nil, func(s *repo.State) []repo.FileEntry { return s.Staged }), b.ui.StagedExpanded, width))

	ctx.Gateway.ClearScreen()
	ctx.Gateway.MoveCursor(1, 1)
	_, _ = ctx.Gateway.Write([]byte(sb.String()))
}

func (b *Base) repoOr(fallback []repo.FileEntry, get func(*repo.State) []repo.FileEntry) []repo.FileEntry {
	if b.repo == nil {
		return fallback
	}
	return get(b.repo)
}

func (b *Base) renderHead() string {
	if b.repo == nil {
		return b.theme.Head().Render("(loading)")
	}
	branch := b.repo.BranchHead
	if branch == "" {
		branch = "(detached)"
	}
	line := branch
	if b.repo.HeadSummary != "" {
		line += "  " + b.repo.HeadSummary
	}
	if b.ui.Section == uistate.Head {
		return b.theme.Selected().Render(line)
	}
	return b.theme.Head().Render(line)
}

func (b *Base) renderSection(title string, section uistate.Section, entries []repo.FileEntry, expanded bool, width int) string {
	marker := "▾"
	if !expanded {
		marker = "▸"
	}
	header := fmt.Sprintf("%s %s (%d)", marker, title, len(entries))
	if b.ui.Section == section && b.ui.Pos == 0 {
		header = b.theme.Selected().Render(header)
	} else {
		header = b.theme.SectionTitle().Render(header)
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	if expanded {
		pathWidth := width - 13
		if pathWidth < 10 {
			pathWidth = 10
		}
		for i, e := range entries {
			path := wrap.String(e.Path, pathWidth)
			label := b.theme.StatusLabel(e.StatusName).Render(fmt.Sprintf("%-10s", e.StatusName))
			line := fmt.Sprintf("  %s %s", label, path)
			if b.ui.Section == section && int(b.ui.Pos) == i+1 {
				line = b.theme.Selected().Render(fmt.Sprintf("  %-10s %s", e.StatusName, path))
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
