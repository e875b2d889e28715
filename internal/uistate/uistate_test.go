package uistate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleExpandCollapseResetsPos(t *testing.T) {
	s := New()
	s.Section = Unstaged
	s.Pos = 3
	s = s.ToggleExpand() // collapse
	assert.False(t, s.UnstagedExpanded)
	assert.EqualValues(t, 0, s.Pos)
}

func TestToggleExpandIgnoresHead(t *testing.T) {
	s := New()
	s.Section = Head
	before := s
	s = s.ToggleExpand()
	assert.Equal(t, before, s)
}

func TestMoveDownWraparoundScenario(t *testing.T) {
	lens := Lengths{Untracked: 0, Unstaged: 1, Staged: 0}
	s := New()

	for i := 0; i < 4; i++ {
		s = s.MoveDown(lens)
	}
	assert.Equal(t, Staged, s.Section)
	assert.EqualValues(t, 0, s.Pos)

	s = s.MoveUp(lens)
	assert.Equal(t, Unstaged, s.Section)
	assert.EqualValues(t, 1, s.Pos)
}

func TestMoveDownFromLastStagedIsIdempotent(t *testing.T) {
	lens := Lengths{Untracked: 2, Unstaged: 3, Staged: 4}
	s := New()
	// One press per section change (head→untracked→unstaged→staged) plus
	// one per entry.
	total := 3 + lens.Untracked + lens.Unstaged + lens.Staged
	for i := 0; i < total; i++ {
		s = s.MoveDown(lens)
	}
	assert.Equal(t, Staged, s.Section)
	assert.EqualValues(t, lens.Staged, s.Pos)

	again := s.MoveDown(lens)
	assert.Equal(t, s, again)
}

func TestMoveUpFromHeadFloorIsNoop(t *testing.T) {
	s := New()
	lens := Lengths{}
	moved := s.MoveUp(lens)
	assert.Equal(t, s, moved)
}

func TestMoveUpMoveDownIsIdentityMidStack(t *testing.T) {
	lens := Lengths{Untracked: 2, Unstaged: 2, Staged: 2}
	s := New()
	s.Section = Unstaged
	s.Pos = 1

	after := s.MoveDown(lens).MoveUp(lens)
	assert.Equal(t, s, after)
}

func TestClampPosPullsBackIntoRange(t *testing.T) {
	s := New()
	s.Section = Staged
	s.Pos = 5
	lens := Lengths{Staged: 2}
	s = s.ClampPos(lens)
	assert.EqualValues(t, 2, s.Pos)
}

func TestClampPosCollapsedSectionClampsToZero(t *testing.T) {
	s := New()
	s.Section = Staged
	s.StagedExpanded = false
	s.Pos = 3
	lens := Lengths{Staged: 5}
	s = s.ClampPos(lens)
	assert.EqualValues(t, 0, s.Pos)
}
