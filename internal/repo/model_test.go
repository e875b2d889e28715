package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	statusOut string
	branchOut string
	logOut    string
	logErr    error
	calls     []string
}

func (f *fakeRunner) Run(ctx context.Context, cwd string, okExit []int, args ...string) (string, error) {
	f.calls = append(f.calls, args[0])
	switch args[0] {
	case "status":
		return f.statusOut, nil
	case "branch":
		return f.branchOut, nil
	case "log":
		if f.logErr != nil {
			return "", f.logErr
		}
		return f.logOut, nil
	}
	return "", nil
}

const samplePorcelain = "# branch.head main\n" +
	"# branch.upstream origin/main\n" +
	"1 M. N... 100644 100644 100644 abc1234 def5678 modified_staged.go\n" +
	"1 .M N... 100644 100644 100644 abc1234 def5678 modified_unstaged.go\n" +
	"1 MM N... 100644 100644 100644 abc1234 def5678 both_sides.go\n" +
	"2 R. N... 100644 100644 100644 abc1234 def5678 R100 new_name.go\told_name.go\n" +
	"u UU N... 100644 100644 100644 100644 abc1234 def5678 abc9999 conflict.go\n" +
	"? untracked_b.txt\n" +
	"? untracked_a.txt\n" +
	"! ignored.log\n"

func TestLoadParsesPorcelainV2(t *testing.T) {
	fr := &fakeRunner{statusOut: samplePorcelain, branchOut: "", logOut: "abc1234 a commit\n"}
	m := NewModel(fr, "/repo")

	state, err := m.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "main", state.BranchHead)
	assert.Equal(t, "origin/main", state.BranchUpstream)
	assert.Equal(t, "abc1234 a commit", state.HeadSummary)

	require.Len(t, state.Staged, 3)
	assert.Equal(t, "both_sides.go", state.Staged[0].Path)
	assert.Equal(t, "modified", state.Staged[0].StatusName)
	assert.Equal(t, "modified_staged.go", state.Staged[1].Path)
	assert.Equal(t, "new_name.go", state.Staged[2].Path)

	require.Len(t, state.Unstaged, 3)
	assert.Equal(t, "both_sides.go", state.Unstaged[0].Path)
	assert.Equal(t, "conflict.go", state.Unstaged[1].Path)
	assert.Equal(t, "unmerged", state.Unstaged[1].StatusName)
	assert.Equal(t, "modified_unstaged.go", state.Unstaged[2].Path)

	require.Len(t, state.Untracked, 2)
	assert.Equal(t, "untracked_a.txt", state.Untracked[0].Path)
	assert.Equal(t, "untracked_b.txt", state.Untracked[1].Path)

	// Renamed entry projects under its new path, staged (X='R').
	found := false
	for _, e := range state.Staged {
		if e.Path == "new_name.go" {
			found = true
			assert.Equal(t, "renamed", e.StatusName)
		}
	}
	assert.True(t, found, "renamed entry should appear in staged")
}

func TestLoadSectionsAreSorted(t *testing.T) {
	fr := &fakeRunner{statusOut: samplePorcelain, branchOut: ""}
	m := NewModel(fr, "")
	state, err := m.Load(context.Background())
	require.NoError(t, err)

	for _, list := range [][]FileEntry{state.Staged, state.Unstaged, state.Untracked} {
		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1].Path, list[i].Path)
		}
	}
}

func TestLoadHeadSummaryFailureIsSwallowed(t *testing.T) {
	fr := &fakeRunner{statusOut: "# branch.head main\n", branchOut: "", logErr: assertErr{}}
	m := NewModel(fr, "")
	state, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.HeadSummary)
}

type assertErr struct{}

func (assertErr) Error() string { return "no commits yet" }

func TestLoadInvalidChangeTypeIsFatal(t *testing.T) {
	fr := &fakeRunner{statusOut: "1 X. N... 100644 100644 100644 abc1234 def5678 f.go\n"}
	m := NewModel(fr, "")
	_, err := m.Load(context.Background())
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "InvalidChangeType", pe.Kind)
}

func TestLoadMissingFieldIsFatal(t *testing.T) {
	fr := &fakeRunner{statusOut: "1 MM\n"}
	m := NewModel(fr, "")
	_, err := m.Load(context.Background())
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestLoadInvalidScorePrefixIsFatal(t *testing.T) {
	fr := &fakeRunner{statusOut: "2 R. N... 100644 100644 100644 abc1234 def5678 X100 new.go\told.go\n"}
	m := NewModel(fr, "")
	_, err := m.Load(context.Background())
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "InvalidScoreType", pe.Kind)
}

func TestParseBranchRefsDuplicatesEachField(t *testing.T) {
	out := "+\tabc123\trefs/heads/main\tInitial commit\torigin/main\n" +
		"-\tdef456\trefs/heads/feature\tWIP\t\n"
	refs := parseBranchRefs(out)
	require.Len(t, refs, 2)
	assert.True(t, refs[0].IsHead)
	assert.Equal(t, "refs/heads/main", refs[0].RefName)
	assert.Equal(t, "origin/main", refs[0].Upstream)
	assert.False(t, refs[1].IsHead)
	assert.Empty(t, refs[1].Upstream)
}

func TestRemoteAndBranchPreferUpstream(t *testing.T) {
	s := &State{
		BranchHead: "feature",
		BranchRefs: []BranchRef{{IsHead: true, RefName: "refs/heads/feature", Upstream: "upstream/feature-branch"}},
	}
	m := NewModel(&fakeRunner{}, "")
	assert.Equal(t, "upstream", m.Remote(s))
	assert.Equal(t, "feature-branch", m.Branch(s))
}

func TestRemoteAndBranchFallBackWhenNoUpstream(t *testing.T) {
	s := &State{BranchHead: "feature", BranchRefs: []BranchRef{{IsHead: true, RefName: "refs/heads/feature"}}}
	m := NewModel(&fakeRunner{}, "")
	assert.Equal(t, "origin", m.Remote(s))
	assert.Equal(t, "feature", m.Branch(s))
}

func TestRemoteAndBranchFallBackToMainWhenHeadUnknown(t *testing.T) {
	s := &State{}
	m := NewModel(&fakeRunner{}, "")
	assert.Equal(t, "origin", m.Remote(s))
	assert.Equal(t, "main", m.Branch(s))
}
