package term

import (
	"bufio"
	"io"

	"github.com/chmouel/gitstage/internal/keys"
)

// Decoder turns a raw byte stream (a terminal in raw mode) into keys.Input
// events: single ASCII bytes for letters/digits/controls, and the common
// CSI escape sequences for arrow keys.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r (os.Stdin in production).
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next blocks for one input and decodes it. Read errors (including io.EOF)
// are propagated; the input worker treats them as fatal.
func (d *Decoder) Next() (keys.Input, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return keys.Input{}, err
	}

	switch b {
	case 0x1b: // ESC, possibly the start of a CSI arrow sequence
		return d.decodeEscape()
	case '\r', '\n':
		return keys.Input{Key: keys.KeyEnter}, nil
	case '\t':
		return keys.Input{Key: keys.KeyTab}, nil
	case 0x7f, 0x08:
		return keys.Input{Key: keys.KeyBackspace}, nil
	case ' ':
		return keys.Input{Key: keys.KeySpace}, nil
	case 0x03: // Ctrl-C
		return keys.Input{Key: keys.KeyC, Mod: keys.Modifiers{Ctrl: true}}, nil
	}

	if b >= 'a' && b <= 'z' {
		return keys.Input{Key: keys.LetterKey(rune(b))}, nil
	}
	if b >= 'A' && b <= 'Z' {
		return keys.Input{Key: keys.LetterKey(rune(b + ('a' - 'A'))), Mod: keys.Modifiers{Shift: true}}, nil
	}
	if b >= '0' && b <= '9' {
		return keys.Input{Key: keys.DigitKey(rune(b))}, nil
	}
	if b < 0x20 {
		// Other control characters (Ctrl-<letter>): map to the letter with Ctrl set.
		if letter := b + 'a' - 1; letter >= 'a' && letter <= 'z' {
			return keys.Input{Key: keys.LetterKey(rune(letter)), Mod: keys.Modifiers{Ctrl: true}}, nil
		}
	}

	return keys.Input{Key: keys.KeyUnknown}, nil
}

// decodeEscape handles `ESC` either standalone (the Escape key) or as the
// lead byte of a CSI arrow-key sequence (`ESC [ A/B/C/D`).
func (d *Decoder) decodeEscape() (keys.Input, error) {
	if d.r.Buffered() == 0 {
		// No follow-up byte pending: a bare Escape keypress.
		return keys.Input{Key: keys.KeyEscape}, nil
	}
	next, err := d.r.ReadByte()
	if err != nil {
		return keys.Input{}, err
	}
	if next != '[' {
		return keys.Input{Key: keys.KeyEscape}, nil
	}
	dir, err := d.r.ReadByte()
	if err != nil {
		return keys.Input{}, err
	}
	switch dir {
	case 'A':
		return keys.Input{Key: keys.KeyUp}, nil
	case 'B':
		return keys.Input{Key: keys.KeyDown}, nil
	case 'C':
		return keys.Input{Key: keys.KeyRight}, nil
	case 'D':
		return keys.Input{Key: keys.KeyLeft}, nil
	default:
		return keys.Input{Key: keys.KeyUnknown}, nil
	}
}
