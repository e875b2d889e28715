package app

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/gitstage/internal/config"
	"github.com/chmouel/gitstage/internal/engine"
)

func hasGit(t *testing.T) bool {
	t.Helper()
	_, err := exec.LookPath("git")
	return err == nil
}

func initRepo(t *testing.T) string {
	t.Helper()
	if !hasGit(t) {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	run("init", "-q", "-b", "main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	run("add", "README.md")
	run("commit", "-q", "-m", "initial commit")
	return dir
}

func TestRunJobStageRunsGitAddAndRefreshesState(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x\n"), 0o644))

	o := New(config.DefaultConfig(), dir)
	go o.runJob(context.Background(), engine.StageJob([]string{"new.txt"}))

	ev := o.events.Peek()
	o.events.Advance()
	require.Equal(t, engine.EventRepoState, ev.Kind)
	require.NotNil(t, ev.RepoState)

	found := false
	for _, e := range ev.RepoState.Staged {
		if e.Path == "new.txt" {
			found = true
			assert.Equal(t, "added", e.StatusName)
		}
	}
	assert.True(t, found, "new.txt should appear staged after Job::stage")
}

func TestRunJobUnstageRunsGitResetHead(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x\n"), 0o644))
	cmd := exec.Command("git", "add", "new.txt")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	o := New(config.DefaultConfig(), dir)
	go o.runJob(context.Background(), engine.UnstageJob([]string{"new.txt"}))

	ev := o.events.Peek()
	o.events.Advance()
	require.NotNil(t, ev.RepoState)
	assert.Empty(t, ev.RepoState.Staged)
	require.Len(t, ev.RepoState.Untracked, 1)
	assert.Equal(t, "new.txt", ev.RepoState.Untracked[0].Path)
}

// TestRunJobUnstageInvokesResetHeadArgv pins the exact argv Job::unstage
// hands to the runner, via a recording stand-in for the git binary, so a
// regression to `restore --staged` (or any other subcommand) fails the
// build instead of passing on its RepoState side effect alone.
func TestRunJobUnstageInvokesResetHeadArgv(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	recordPath := filepath.Join(dir, "argv.log")
	fakeGit := filepath.Join(dir, "fake-git")
	script := "#!/bin/sh\necho \"$*\" >> " + recordPath + "\n"
	require.NoError(t, os.WriteFile(fakeGit, []byte(script), 0o755))

	o := New(config.DefaultConfig(), dir)
	o.git.Bin = fakeGit
	go o.runJob(context.Background(), engine.UnstageJob([]string{"new.txt"}))

	ev := o.events.Peek()
	o.events.Advance()
	require.NotNil(t, ev.RepoState)

	data, err := os.ReadFile(recordPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "reset HEAD -- new.txt", lines[0])
}

func TestRunJobRefreshLoadsCurrentState(t *testing.T) {
	dir := initRepo(t)

	o := New(config.DefaultConfig(), dir)
	go o.runJob(context.Background(), engine.RefreshJob())

	ev := o.events.Peek()
	o.events.Advance()
	require.NotNil(t, ev.RepoState)
	assert.Equal(t, "main", ev.RepoState.BranchHead)
}
