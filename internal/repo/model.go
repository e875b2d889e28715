package repo

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// CommandRunner is the ChildRunner collaborator: it launches a version
// control CLI command, captures stdout verbatim, and surfaces a non-nil
// error on spawn failure, wait failure, or non-zero exit (policy for which
// exit codes are acceptable is the caller's responsibility via okExit).
type CommandRunner interface {
	Run(ctx context.Context, cwd string, okExit []int, args ...string) (stdout string, err error)
}

// BranchFormat is the --format argument passed to `git branch`, producing
// one tab-separated record per line: is_head, objectname, refname,
// subject, upstream.
const BranchFormat = `%(if)%(HEAD)%(then)+%(else)-%(end)` + "\t" +
	`%(objectname)` + "\t" + `%(refname)` + "\t" + `%(contents:subject)` + "\t" + `%(upstream)`

// Model loads RepoState by invoking the version-control CLI through a
// CommandRunner and parsing its output.
type Model struct {
	runner CommandRunner
	cwd    string
}

// NewModel constructs a Model that runs commands through runner in cwd.
func NewModel(runner CommandRunner, cwd string) *Model {
	return &Model{runner: runner, cwd: cwd}
}

// Load runs `status --branch --porcelain=v2` and `branch --format=...`,
// parses both, and returns the resulting State. Parse errors (malformed
// XY, missing fields, bad score prefixes, invalid change characters) are
// returned as *ParseError under the strict, trusted-upstream grammar
// policy; no partial State is returned alongside them.
func (m *Model) Load(ctx context.Context) (*State, error) {
	raw, err := m.runner.Run(ctx, m.cwd, []int{0}, "status", "--branch", "--porcelain=v2")
	if err != nil {
		return nil, err
	}

	state := &State{RawStatus: raw}
	if err := parsePorcelain(state, raw); err != nil {
		return nil, err
	}

	branchOut, err := m.runner.Run(ctx, m.cwd, []int{0}, "branch", "--format="+BranchFormat)
	if err != nil {
		return nil, err
	}
	state.BranchRefs = parseBranchRefs(branchOut)

	sortEntries(state.Staged)
	sortEntries(state.Unstaged)
	sortEntries(state.Untracked)

	// Best-effort head summary; failures are swallowed (e.g. an empty repo
	// with no commits yet returns a non-zero exit from `log`).
	if summary, err := m.runner.Run(ctx, m.cwd, []int{0}, "log", "-1", "--format=%h %s"); err == nil {
		state.HeadSummary = strings.TrimSpace(summary)
	}

	return state, nil
}

// LoadBranchRefs runs only the `branch --format=...` listing, for handlers
// (like the branch-switch modal) that need the ref list without paying for
// a full porcelain-v2 status parse.
func (m *Model) LoadBranchRefs(ctx context.Context) ([]BranchRef, error) {
	out, err := m.runner.Run(ctx, m.cwd, []int{0}, "branch", "--format="+BranchFormat)
	if err != nil {
		return nil, err
	}
	return parseBranchRefs(out), nil
}

// Remote and Branch derive the push destination from the current HEAD's
// upstream, falling back to "origin" and the parsed branch head (or
// "main" if that too is empty).
func (m *Model) Remote(s *State) string {
	remote, _ := pushTarget(s)
	return remote
}

// Branch mirrors Remote but returns the branch component of the push
// destination.
func (m *Model) Branch(s *State) string {
	_, branch := pushTarget(s)
	return branch
}

func pushTarget(s *State) (remote, branch string) {
	if head, ok := s.HeadBranchRef(); ok && head.Upstream != "" {
		if r, b, found := strings.Cut(head.Upstream, "/"); found {
			return r, b
		}
	}
	branch = s.BranchHead
	if branch == "" {
		branch = "main"
	}
	return "origin", branch
}

func sortEntries(entries []FileEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
}

// parsePorcelain walks every line of a `status --branch --porcelain=v2`
// capture, populating state's branch head/upstream fields and the three
// staging sections.
func parsePorcelain(state *State, raw string) error {
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "# branch.head "):
			state.BranchHead = strings.TrimPrefix(line, "# branch.head ")
		case strings.HasPrefix(line, "# branch.upstream "):
			state.BranchUpstream = strings.TrimPrefix(line, "# branch.upstream ")
		case strings.HasPrefix(line, "# "):
			// Other header lines (branch.ab, branch.oid, stash) carry no
			// data our view model needs.
			continue
		case strings.HasPrefix(line, "1 "):
			if err := parseOrdinaryEntry(state, line); err != nil {
				return err
			}
		case strings.HasPrefix(line, "2 "):
			if err := parseRenamedEntry(state, line); err != nil {
				return err
			}
		case strings.HasPrefix(line, "u "):
			if err := parseUnmergedEntry(state, line); err != nil {
				return err
			}
		case strings.HasPrefix(line, "? "):
			state.Untracked = append(state.Untracked, FileEntry{
				Path:       line[2:],
				StatusName: "untracked",
			})
		case strings.HasPrefix(line, "!"):
			// Ignored entries carry no information the view model needs.
			continue
		}
	}
	return nil
}

// parseOrdinaryEntry handles `1 <XY> <sub> <mH> <mI> <mW> <oH> <oI> <path>`.
func parseOrdinaryEntry(state *State, line string) error {
	fields := strings.SplitN(line, " ", 9)
	if len(fields) < 9 {
		return errMissingField(line, "path")
	}
	xy := fields[1]
	if len(xy) != 2 {
		return errInvalidXY(line)
	}
	path := fields[8]
	return projectEntry(state, line, xy, path)
}

// parseRenamedEntry handles
// `2 <XY> <sub> <mH> <mI> <mW> <oH> <oI> <score> <newpath>TAB<oldpath>`.
// The first 9 tokens are single-space separated; the 10th carries the
// tab-joined new/old path pair.
func parseRenamedEntry(state *State, line string) error {
	fields := strings.SplitN(line, " ", 10)
	if len(fields) < 10 {
		return errMissingField(line, "paths")
	}
	xy := fields[1]
	if len(xy) != 2 {
		return errInvalidXY(line)
	}
	score := fields[8]
	if score == "" || (score[0] != 'R' && score[0] != 'C') {
		return errInvalidScoreType(line)
	}
	if _, err := strconv.Atoi(score[1:]); err != nil {
		return errInvalidScoreType(line)
	}

	newPath, _, _ := strings.Cut(fields[9], "\t")

	return projectEntry(state, line, xy, newPath)
}

// parseUnmergedEntry handles
// `u <XY> <sub> <m1> <m2> <m3> <mW> <o1> <o2> <o3> <path>`.
func parseUnmergedEntry(state *State, line string) error {
	fields := strings.SplitN(line, " ", 11)
	if len(fields) < 11 {
		return errMissingField(line, "path")
	}
	xy := fields[1]
	if len(xy) != 2 {
		return errInvalidXY(line)
	}
	path := fields[10]
	state.Unstaged = append(state.Unstaged, FileEntry{Path: path, StatusName: "unmerged"})
	return nil
}

// projectEntry applies the staged/unstaged projection rule to a
// changed/renamed entry's XY pair: X describes the index-vs-HEAD change
// (staged), Y describes the worktree-vs-index change (unstaged).
func projectEntry(state *State, line, xy, path string) error {
	x, err := parseChangeType(line, xy[0])
	if err != nil {
		return err
	}
	y, err := parseChangeType(line, xy[1])
	if err != nil {
		return err
	}
	if x != Unmodified {
		state.Staged = append(state.Staged, FileEntry{Path: path, StatusName: x.Name()})
	}
	if y != Unmodified {
		state.Unstaged = append(state.Unstaged, FileEntry{Path: path, StatusName: y.Name()})
	}
	return nil
}

// parseBranchRefs splits each tab-separated `git branch --format` line into
// a BranchRef, duplicating every field into owned storage.
func parseBranchRefs(out string) []BranchRef {
	var refs []BranchRef
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			continue
		}
		refs = append(refs, BranchRef{
			IsHead:     fields[0][0] == '+',
			ObjectName: fields[1],
			RefName:    fields[2],
			Subject:    fields[3],
			Upstream:   fields[4],
		})
	}
	return refs
}
