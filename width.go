// Package tui provides a terminal UI framework built around differential
// rendering into the terminal's native scrollback, rather than an
// alternate screen buffer.
package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ansiKind names the escape-sequence families the scanner distinguishes.
// CSI sequences run ESC '[' ... until a byte in 0x40-0x7E.
// OSC sequences run ESC ']' ... until BEL or ESC '\'.
type ansiKind int

const (
	ansiNone ansiKind = iota
	ansiCSI
	ansiOSC
)

// scanEscape returns the length of the escape sequence starting at s[i],
// or 0 if s[i] is not ESC. CSI, OSC and APC/DCS/PM sequences run to their
// terminator (or the end of s); any other ESC-prefixed pair counts as two
// bytes, and an ESC at the very end of s as one.
func scanEscape(s string, i int) int {
	if i >= len(s) || s[i] != 0x1b {
		return 0
	}
	if i+1 >= len(s) {
		return 1
	}
	switch s[i+1] {
	case '[':
		j := i + 2
		for j < len(s) {
			c := s[j]
			if c >= 0x40 && c <= 0x7e {
				return j - i + 1
			}
			j++
		}
		return j - i
	case ']':
		j := i + 2
		for j < len(s) {
			if s[j] == 0x07 {
				return j - i + 1
			}
			if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
				return j - i + 2
			}
			j++
		}
		return j - i
	case '_', 'P', '^':
		// APC / DCS / PM strings: run until BEL or ST (ESC \).
		j := i + 2
		for j < len(s) {
			if s[j] == 0x07 {
				return j - i + 1
			}
			if s[j] == 0x1b && j+1 < len(s) && s[j+1] == '\\' {
				return j - i + 2
			}
			j++
		}
		return j - i
	default:
		// Unrecognized two-byte escape (e.g. Alt+key reaching here by
		// mistake); treat as a single escaped byte so callers make progress.
		return 2
	}
}

// StripANSI removes CSI, OSC, and APC/DCS/PM escape sequences from s.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == 0x1b {
			if n := scanEscape(s, i); n > 0 {
				i += n
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// isPrintableRune reports whether data decodes to exactly one printable,
// non-control rune — used to accept a single typed character (ASCII or a
// multi-byte UTF-8 sequence like "é") as one insertable unit regardless of
// how many bytes it takes on the wire.
func isPrintableRune(data string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(data)
	if r == utf8.RuneError || size != len(data) {
		return 0, false
	}
	if r < 0x20 || r == 0x7f {
		return 0, false
	}
	return r, true
}

// VisibleWidth returns the number of terminal columns s occupies once all
// escape sequences are discounted. Combining marks count 0, East-Asian
// wide and emoji-presentation runes count 2, everything else counts 1.
// Undefined widths fail safe to 1. Runs in O(n).
func VisibleWidth(s string) int {
	width := 0
	for i := 0; i < len(s); {
		if s[i] == 0x1b {
			if n := scanEscape(s, i); n > 0 {
				i += n
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w := runewidth.RuneWidth(r)
		if w < 0 {
			w = 1
		}
		width += w
		i += size
	}
	return width
}
