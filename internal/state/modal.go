package state

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/gitstage/internal/engine"
	"github.com/chmouel/gitstage/internal/keys"
)

// InputModal is a text-capture overlay pushed atop the stack by handlers
// that need a free-form value from the user (currently: the branch
// handler, seeded with the known refnames as a prompt hint). It consumes
// Escape, Enter, Backspace and printable keys itself; other keys and
// repo_state events pass through, so the base underneath keeps its
// RepoState current while the modal is open.
type InputModal struct {
	hints    []string
	contents []byte
	done     bool
}

// NewInputModal constructs a modal seeded with hints (e.g. known branch
// refnames), shown to the user but not otherwise validated against.
func NewInputModal(hints []string) *InputModal {
	return &InputModal{hints: hints}
}

// Handle implements engine.State.
func (m *InputModal) Handle(_ engine.HandleCtx, ev engine.Event) engine.Result {
	if ev.Kind != engine.EventInput {
		return engine.Pass()
	}
	in := ev.Input
	switch {
	case in.Key == keys.KeyEscape, in.Key == keys.KeyEnter:
		m.done = true
		return engine.Pop()
	case in.Key == keys.KeyBackspace:
		if len(m.contents) > 0 {
			m.contents = m.contents[:len(m.contents)-1]
		}
		return engine.Stop()
	default:
		if r, ok := printableRune(in); ok {
			m.contents = append(m.contents, byte(r))
			return engine.Stop()
		}
		return engine.Pass()
	}
}

// Deinit implements engine.State; the modal holds no external resources.
func (m *InputModal) Deinit() {}

// Value returns the text captured before the modal was dismissed.
func (m *InputModal) Value() string { return string(m.contents) }

// printableRune recovers the ASCII character an Input represents, for the
// small set of keys the modal treats as text entry.
func printableRune(in keys.Input) (rune, bool) {
	if in.Key == keys.KeySpace {
		return ' ', true
	}
	if in.Key >= keys.KeyA && in.Key <= keys.KeyZ {
		r := rune('a' + (in.Key - keys.KeyA))
		if in.Mod.Shift {
			r = rune('A' + (in.Key - keys.KeyA))
		}
		return r, true
	}
	if in.Key >= keys.Key0 && in.Key <= keys.Key9 {
		return rune('0' + (in.Key - keys.Key0)), true
	}
	return 0, false
}

// Paint renders a centered box containing the captured contents and the
// hint list. The box is at least 50 columns wide and grows with the
// contents only; long hint lists wrap inside it.
func (m *InputModal) Paint(pctx engine.PaintCtx) {
	ctx, ok := pctx.(*Context)
	if !ok || ctx.Gateway == nil {
		return
	}
	width := len(m.contents) + 4
	if width < 50 {
		width = 50
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(width - 2).
		Padding(0, 1)

	body := fmt.Sprintf("branch: %s\n%s", m.contents, strings.Join(m.hints, "  "))
	rendered := box.Render(body)

	row, col := 1, 1
	if h := ctx.Height(); h > 5 {
		row = h/2 - 2
	}
	if w, bw := ctx.Width(), lipgloss.Width(rendered); w > bw {
		col = (w-bw)/2 + 1
	}
	for i, line := range strings.Split(rendered, "\n") {
		ctx.Gateway.MoveCursor(row+i, col)
		_, _ = ctx.Gateway.Write([]byte(line))
	}
}
