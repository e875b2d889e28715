// Package repo parses `git status --porcelain=v2` and `git branch` output
// into an in-memory RepoState, the view model the rest of the engine reads
// and optimistically mutates.
package repo

// ChangeType enumerates the single-character porcelain-v2 status codes.
type ChangeType int

const (
	Unmodified ChangeType = iota
	Modified
	TypeChange
	Added
	Deleted
	Renamed
	Copied
	Unmerged
)

// Name returns the short, human-readable label used in FileEntry.StatusName
// for a changed/renamed/copied entry. Untracked and unmerged entries use
// the literal labels "untracked"/"unmerged" instead, set directly by the
// porcelain parser.
func (c ChangeType) Name() string {
	switch c {
	case Modified:
		return "modified"
	case TypeChange:
		return "type_change"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	case Copied:
		return "copied"
	case Unmerged:
		return "unmerged"
	default:
		return "unmodified"
	}
}

// parseChangeType maps one porcelain XY column character to a ChangeType.
func parseChangeType(line string, c byte) (ChangeType, error) {
	switch c {
	case '.':
		return Unmodified, nil
	case 'M':
		return Modified, nil
	case 'T':
		return TypeChange, nil
	case 'A':
		return Added, nil
	case 'D':
		return Deleted, nil
	case 'R':
		return Renamed, nil
	case 'C':
		return Copied, nil
	case 'U':
		return Unmerged, nil
	default:
		return Unmodified, errInvalidChangeType(line, c)
	}
}

// FileEntry is one row in a staged/unstaged/untracked section.
type FileEntry struct {
	Path       string
	StatusName string
}

// BranchRef is one row returned by `git branch --format=...`.
type BranchRef struct {
	IsHead     bool
	ObjectName string
	RefName    string
	Subject    string
	Upstream   string
}

// State is the fully parsed repository view model: the branch listing plus
// the three staging-area sections, each sorted ascending by path.
type State struct {
	BranchRefs []BranchRef

	// RawStatus is the captured porcelain-v2 text, verbatim.
	RawStatus string
	// BranchHead and BranchUpstream are the `# branch.head`/`# branch.upstream`
	// values, if present in RawStatus.
	BranchHead     string
	BranchUpstream string
	// HeadSummary is the best-effort `git log -1 --format=%h %s` output;
	// empty (never an error) when it cannot be produced, e.g. no commits yet.
	HeadSummary string

	Staged    []FileEntry
	Unstaged  []FileEntry
	Untracked []FileEntry
}

// HeadBranchRef returns the BranchRef with IsHead set, if any.
func (s *State) HeadBranchRef() (BranchRef, bool) {
	for _, b := range s.BranchRefs {
		if b.IsHead {
			return b, true
		}
	}
	return BranchRef{}, false
}
