package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// segmentReset is the SGR sequence wrap/truncate/slice append to close any
// style left open at a line boundary. The renderer applies the authoritative
// per-line tail reset (sync, erase-to-end, hyperlink close) separately; this
// is only the bare attribute reset so an isolated line renders correctly.
const segmentReset = "\x1b[0m"

// WrapTextWithANSI word-wraps s to width columns, re-emitting whatever SGR
// codes were still open at each break so every output line renders
// identically in isolation. A non-breaking space (U+00A0) never breaks.
// Words longer than width are hard-broken on visible-column boundaries.
func WrapTextWithANSI(s string, width int) []string {
	if s == "" {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return lines
}

func wrapParagraph(paragraph string, width int) []string {
	if paragraph == "" {
		return []string{""}
	}

	words := splitWords(paragraph)
	var lines []string
	var current strings.Builder
	currentWidth := 0
	activeSGR := ""

	flush := func() {
		if current.Len() == 0 {
			return
		}
		lines = append(lines, current.String()+segmentReset)
		current.Reset()
		currentWidth = 0
	}

	for _, word := range words {
		wordWidth := VisibleWidth(word)
		sep := 0
		if current.Len() > 0 {
			sep = 1
		}

		for wordWidth > width {
			// Hard-break a word that can never fit on its own line.
			head, tail, headWidth := breakAtColumn(word, width)
			if currentWidth+sep+headWidth > width && current.Len() > 0 {
				flush()
				sep = 0
			}
			if sep == 1 {
				current.WriteByte(' ')
				currentWidth++
			}
			if currentWidth == 0 && activeSGR != "" {
				current.WriteString(activeSGR)
			}
			current.WriteString(head)
			currentWidth += headWidth
			activeSGR = trackSGR(activeSGR, head)
			flush()
			word = tail
			wordWidth = VisibleWidth(word)
			sep = 0
		}

		if currentWidth+sep+wordWidth > width && current.Len() > 0 {
			flush()
			sep = 0
		}
		if sep == 1 {
			current.WriteByte(' ')
			currentWidth++
		}
		if currentWidth == 0 && activeSGR != "" {
			current.WriteString(activeSGR)
		}
		current.WriteString(word)
		currentWidth += wordWidth
		activeSGR = trackSGR(activeSGR, word)
	}
	flush()

	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// splitWords splits on ASCII space but keeps U+00A0 (non-breaking space)
// glued to its neighboring word so it never becomes a break point.
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	for _, r := range s {
		if r == ' ' {
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// trackSGR folds any SGR codes found in word into the running "active
// style" string, resetting it on an explicit \x1b[0m.
func trackSGR(active, word string) string {
	for i := 0; i < len(word); {
		if word[i] == 0x1b {
			n := scanEscape(word, i)
			if n > 0 {
				code := word[i : i+n]
				if code == "\x1b[0m" {
					active = ""
				} else {
					active += code
				}
				i += n
				continue
			}
		}
		i++
	}
	return active
}

// breakAtColumn splits s into a head of at most width visible columns and
// the remaining tail, preserving any escape sequences in the head.
func breakAtColumn(s string, width int) (head, tail string, headWidth int) {
	col := 0
	i := 0
	for i < len(s) {
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
		if col+w > width {
			break
		}
		col += w
		i += size
	}
	return s[:i], s[i:], col
}

// TruncateToWidth reduces s to at most maxWidth visible columns, appending
// ellipsis if truncation occurred (ellipsis itself counts toward the
// budget). If pad is set, the result is right-padded to exactly maxWidth.
func TruncateToWidth(s string, maxWidth int, ellipsis string, pad bool) string {
	if maxWidth <= 0 {
		return ""
	}

	visible := VisibleWidth(s)
	if visible <= maxWidth {
		if pad && visible < maxWidth {
			return s + strings.Repeat(" ", maxWidth-visible)
		}
		return s
	}

	ellipsisWidth := VisibleWidth(ellipsis)
	target := maxWidth - ellipsisWidth
	if target < 0 {
		target = 0
	}

	var b strings.Builder
	col := 0
	state := -1
	for rest := s; rest != ""; {
		if n := scanEscape(rest, 0); n > 0 {
			b.WriteString(rest[:n])
			rest = rest[n:]
			state = -1
			continue
		}
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		w := VisibleWidth(cluster)
		if col+w > target {
			break
		}
		b.WriteString(cluster)
		col += w
	}
	b.WriteString(ellipsis)

	if pad {
		total := col + ellipsisWidth
		if total < maxWidth {
			b.WriteString(strings.Repeat(" ", maxWidth-total))
		}
	}
	return b.String()
}

// SliceByColumn returns the sub-styled-line covering the visible columns
// [startCol, startCol+length). Any SGR state still open at startCol is
// re-emitted at the front of the result and closed with a reset at the
// end. A double-width rune straddling either boundary becomes a single
// space on the visible side, per spec.
func SliceByColumn(s string, startCol, length int) string {
	if length <= 0 {
		return ""
	}

	var b strings.Builder
	col := 0
	i := 0
	activeSGR := ""

	// Skip to startCol, tracking any SGR codes passed over.
	for i < len(s) && col < startCol {
		if s[i] == 0x1b {
			if n := scanEscape(s, i); n > 0 {
				code := s[i : i+n]
				if n >= 3 && s[i+1] == '[' {
					if code == "\x1b[0m" {
						activeSGR = ""
					} else {
						activeSGR += code
					}
				}
				i += n
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w := runewidth.RuneWidth(r)
		if w < 0 {
			w = 1
		}
		if col+w > startCol {
			// Rune straddles the start boundary: skip it, pad with a space.
			i += size
			col += w
			b.WriteString(activeSGR)
			b.WriteByte(' ')
			remaining := length - 1
			tail := sliceRunes(s[i:], remaining)
			return b.String() + tail + segmentReset
		}
		col += w
		i += size
	}

	b.WriteString(activeSGR)
	b.WriteString(sliceRunes(s[i:], length))
	b.WriteString(segmentReset)
	return b.String()
}

// sliceRunes copies runes/escapes from s until length visible columns have
// been consumed, replacing a boundary-straddling wide rune with a space.
func sliceRunes(s string, length int) string {
	var b strings.Builder
	col := 0
	i := 0
	for i < len(s) && col < length {
		if s[i] == 0x1b {
			if n := scanEscape(s, i); n > 0 {
				b.WriteString(s[i : i+n])
				i += n
				continue
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w := runewidth.RuneWidth(r)
		if w < 0 {
			w = 1
		}
		if col+w > length {
			b.WriteByte(' ')
			break
		}
		b.WriteString(s[i : i+size])
		col += w
		i += size
	}
	return b.String()
}
