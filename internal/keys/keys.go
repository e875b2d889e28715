// Package keys defines the decoded terminal input alphabet shared by the
// input decoder, the input map trie, and every state's handler.
package keys

import "fmt"

// Key identifies a single decoded keystroke, independent of modifiers.
type Key int

// The supported key set. Unknown covers any byte sequence the decoder could
// not classify; it still participates in input-map matching so a binding
// can catch-all on it if desired.
const (
	KeyUnknown Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyTab
	KeyEnter
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Modifiers is a bitset of active modifier keys.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Input is a single decoded keystroke: a key plus its active modifiers.
// Equality is structural, making Input usable as a map key and as the edge
// label in an inputmap.Node trie.
type Input struct {
	Key Key
	Mod Modifiers
}

// Letter builds the Input for an unmodified, un-shifted letter key, e.g.
// Letter(KeyC) for a lowercase 'c'. Handlers and tests compose Shift/Ctrl
// variants by setting the Mod fields directly.
func Letter(k Key) Input {
	return Input{Key: k}
}

func (i Input) String() string {
	mods := ""
	if i.Mod.Ctrl {
		mods += "ctrl+"
	}
	if i.Mod.Alt {
		mods += "alt+"
	}
	if i.Mod.Shift {
		mods += "shift+"
	}
	return fmt.Sprintf("%s%s", mods, i.Key)
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

var keyNames = map[Key]string{
	KeyA: "a", KeyB: "b", KeyC: "c", KeyD: "d", KeyE: "e", KeyF: "f",
	KeyG: "g", KeyH: "h", KeyI: "i", KeyJ: "j", KeyK: "k", KeyL: "l",
	KeyM: "m", KeyN: "n", KeyO: "o", KeyP: "p", KeyQ: "q", KeyR: "r",
	KeyS: "s", KeyT: "t", KeyU: "u", KeyV: "v", KeyW: "w", KeyX: "x",
	KeyY: "y", KeyZ: "z",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeySpace: "space", KeyTab: "tab", KeyEnter: "enter",
	KeyBackspace: "backspace", KeyEscape: "escape",
	KeyUp: "up", KeyDown: "down", KeyLeft: "left", KeyRight: "right",
	KeyUnknown: "unknown",
}

// letterIndex maps 'a'..'z' to their Key constants for the decoder.
var letterIndex = [26]Key{
	KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK, KeyL, KeyM,
	KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV, KeyW, KeyX, KeyY, KeyZ,
}

// LetterKey returns the Key for a lowercase ASCII letter 'a'..'z', and
// KeyUnknown for anything else.
func LetterKey(r rune) Key {
	if r < 'a' || r > 'z' {
		return KeyUnknown
	}
	return letterIndex[r-'a']
}

// digitIndex maps '0'..'9' to their Key constants for the decoder.
var digitIndex = [10]Key{Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9}

// DigitKey returns the Key for an ASCII digit '0'..'9', and KeyUnknown for
// anything else.
func DigitKey(r rune) Key {
	if r < '0' || r > '9' {
		return KeyUnknown
	}
	return digitIndex[r-'0']
}
