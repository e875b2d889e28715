// Package term implements the two terminal-facing external collaborators:
// the Gateway (raw mode, alternate screen, cursor, paint primitives, window
// size) and the Decoder (byte stream to keys.Input). Raw mode is handled via
// golang.org/x/term; screen and cursor control via github.com/charmbracelet/x/ansi.
// Styling (lipgloss) is applied by the states before they Write.
package term

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Gateway owns the process-wide raw-mode resource. Only the foreground
// actor is expected to call Enter/Restore, and only during startup,
// shutdown, and the commit handler's yield/reacquire cycle.
type Gateway struct {
	fd       int
	saved    *term.State
	out      io.Writer
	entered  bool
	altShown bool
}

// NewGateway constructs a Gateway painting to out (os.Stdout in
// production) and reading raw-mode state from fd (int(os.Stdin.Fd())).
func NewGateway(fd int, out io.Writer) *Gateway {
	return &Gateway{fd: fd, out: out}
}

// Enter puts the terminal into raw mode and switches to the alternate
// screen, hiding the cursor. It is idempotent.
func (g *Gateway) Enter() error {
	if g.entered {
		return nil
	}
	saved, err := term.MakeRaw(g.fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	g.saved = saved
	g.entered = true
	fmt.Fprint(g.out, ansi.SetAltScreenSaveCursor)
	fmt.Fprint(g.out, ansi.HideCursor)
	g.altShown = true
	return nil
}

// Restore yields raw mode and the alternate screen, restoring the saved
// terminal attributes. Safe to call even if Enter was never called.
func (g *Gateway) Restore() error {
	if g.altShown {
		fmt.Fprint(g.out, ansi.ShowCursor)
		fmt.Fprint(g.out, ansi.ResetAltScreenSaveCursor)
		g.altShown = false
	}
	if !g.entered {
		return nil
	}
	g.entered = false
	if g.saved == nil {
		return nil
	}
	return term.Restore(g.fd, g.saved)
}

// WindowSize returns the current terminal width and height in columns and
// rows, queried fresh on every call (there is no SIGWINCH handling; the
// foreground loop re-queries once per paint tick instead).
func (g *Gateway) WindowSize() (width, height int, err error) {
	return term.GetSize(g.fd)
}

// MoveCursor positions the cursor at (row, col), both 1-indexed, the
// convention ANSI cursor-positioning sequences use.
func (g *Gateway) MoveCursor(row, col int) {
	fmt.Fprint(g.out, ansi.CursorPosition(col, row))
}

// ClearScreen erases the full screen without leaving the alternate screen.
func (g *Gateway) ClearScreen() {
	fmt.Fprint(g.out, ansi.EraseDisplay(2))
}

// Write paints raw bytes (pre-styled by lipgloss) to the gateway's output.
func (g *Gateway) Write(p []byte) (int, error) {
	return g.out.Write(p)
}

// StdinFD is a small convenience for the common case of reading raw mode
// from os.Stdin's descriptor.
func StdinFD() int { return int(os.Stdin.Fd()) }
