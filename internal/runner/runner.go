// Package runner implements the ChildRunner collaborator: launching the
// version-control CLI as a child process, capturing its stdout, and
// applying an exit-code acceptance policy.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/chmouel/gitstage/internal/log"
)

// Git runs the version-control CLI ("git" by default, overridable for
// tests) as a child process.
type Git struct {
	// Bin is the executable name or path; empty defaults to "git".
	Bin string
}

// NewGit constructs a Git runner using the default "git" executable.
func NewGit() *Git { return &Git{Bin: "git"} }

func (g *Git) bin() string {
	if g.Bin == "" {
		return "git"
	}
	return g.Bin
}

// Run executes `<bin> args...` with cwd as its working directory (the
// process's own cwd if empty), returning captured stdout. A non-zero exit
// code is an error unless it appears in okExit.
func (g *Git) Run(ctx context.Context, cwd string, okExit []int, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, g.bin(), args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	log.Printf("run: %s %s (cwd=%s)", g.bin(), strings.Join(args, " "), cwd)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if ok := asExitError(err, &exitErr); ok {
			code := exitErr.ExitCode()
			if slices.Contains(okExit, code) {
				return string(out), nil
			}
			return "", fmt.Errorf("%s %s: exit %d: %s", g.bin(), strings.Join(args, " "), code, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s %s: %w", g.bin(), strings.Join(args, " "), err)
	}
	return string(out), nil
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

// RunInteractive runs `<bin> args...` with the child inheriting the
// process's stdin/stdout/stderr, for commands that open an editor (commit)
// or otherwise need direct terminal access. The caller is responsible for
// yielding raw mode before calling this and restoring it after.
func (g *Git) RunInteractive(ctx context.Context, cwd string, args ...string) error {
	cmd := exec.CommandContext(ctx, g.bin(), args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Printf("run interactive: %s %s (cwd=%s)", g.bin(), strings.Join(args, " "), cwd)
	return cmd.Run()
}
