// Package uistate implements the cursor/section/expansion selection model
// and its navigation invariants.
package uistate

// Section identifies one of the four top-level UI regions, ordered
// head < untracked < unstaged < staged.
type Section int

const (
	Head Section = iota
	Untracked
	Unstaged
	Staged
)

// Lengths reports how many entries each non-head section currently holds,
// used to compute MaxPos without the uistate package depending on repo.
type Lengths struct {
	Untracked int
	Unstaged  int
	Staged    int
}

func (l Lengths) forSection(s Section) int {
	switch s {
	case Untracked:
		return l.Untracked
	case Unstaged:
		return l.Unstaged
	case Staged:
		return l.Staged
	default:
		return 0
	}
}

// State is the user's current cursor/section/expansion selection.
// Invariant: when the current section's list is expanded, Pos is in
// [0, len]; when collapsed, Pos is 0 (header row).
type State struct {
	Pos               uint32
	Section           Section
	UntrackedExpanded bool
	UnstagedExpanded  bool
	StagedExpanded    bool
}

// New returns the initial selection: the head row, all sections expanded.
func New() State {
	return State{
		Section:           Head,
		UntrackedExpanded: true,
		UnstagedExpanded:  true,
		StagedExpanded:    true,
	}
}

func (s State) expanded(section Section) bool {
	switch section {
	case Untracked:
		return s.UntrackedExpanded
	case Unstaged:
		return s.UnstagedExpanded
	case Staged:
		return s.StagedExpanded
	default:
		return false
	}
}

// MaxPos returns the highest valid Pos for section given the current
// section lengths: len if expanded, 0 (header only) if collapsed.
func (s State) MaxPos(section Section, lens Lengths) uint32 {
	if !s.expanded(section) {
		return 0
	}
	return uint32(lens.forSection(section))
}

func nextSection(s Section) Section {
	switch s {
	case Head:
		return Untracked
	case Untracked:
		return Unstaged
	case Unstaged:
		return Staged
	default:
		return Staged
	}
}

func prevSection(s Section) Section {
	switch s {
	case Staged:
		return Unstaged
	case Unstaged:
		return Untracked
	case Untracked:
		return Head
	default:
		return Head
	}
}

// MoveDown applies the move_down navigation rule for the given section
// lengths, returning the updated State.
func (s State) MoveDown(lens Lengths) State {
	if s.Section == Head {
		s.Section = Untracked
		s.Pos = 0
		return s
	}
	if s.Pos == s.MaxPos(s.Section, lens) {
		if s.Section == Staged {
			return s
		}
		s.Section = nextSection(s.Section)
		s.Pos = 0
		return s
	}
	s.Pos++
	return s
}

// MoveUp applies the move_up navigation rule for the given section lengths.
func (s State) MoveUp(lens Lengths) State {
	if s.Section == Head && s.Pos == 0 {
		return s
	}
	if s.Pos == 0 {
		prior := prevSection(s.Section)
		s.Section = prior
		s.Pos = s.MaxPos(prior, lens)
		return s
	}
	s.Pos--
	return s
}

// ToggleExpand inverts the current section's expanded flag; head ignores
// toggling. Collapsing resets Pos to 0.
func (s State) ToggleExpand() State {
	switch s.Section {
	case Untracked:
		s.UntrackedExpanded = !s.UntrackedExpanded
		if !s.UntrackedExpanded {
			s.Pos = 0
		}
	case Unstaged:
		s.UnstagedExpanded = !s.UnstagedExpanded
		if !s.UnstagedExpanded {
			s.Pos = 0
		}
	case Staged:
		s.StagedExpanded = !s.StagedExpanded
		if !s.StagedExpanded {
			s.Pos = 0
		}
	}
	return s
}

// ClampPos pulls Pos back into [0, MaxPos] for the current section and
// lengths, used both after an optimistic mutation shrinks a source list and
// after a refresh replaces RepoState.
func (s State) ClampPos(lens Lengths) State {
	max := s.MaxPos(s.Section, lens)
	if s.Pos > max {
		s.Pos = max
	}
	return s
}
