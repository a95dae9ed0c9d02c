package tui

// CursorMarker is a private-use escape sentinel a focused component embeds
// in its rendered output at the column where the hardware cursor should
// land. The renderer locates the marker, strips it before emitting the
// line, and repositions the real cursor there (or hides it if no marker
// appeared in the frame) so IME candidate windows anchor correctly.
const CursorMarker = "\x1b_pi:c\x07"

// stripCursorMarker removes the first occurrence of CursorMarker from line,
// reporting the visible column at which it appeared (-1 if absent).
func stripCursorMarker(line string) (stripped string, col int) {
	idx := indexMarker(line)
	if idx < 0 {
		return line, -1
	}
	col = VisibleWidth(line[:idx])
	return line[:idx] + line[idx+len(CursorMarker):], col
}

func indexMarker(line string) int {
	n := len(CursorMarker)
	for i := 0; i+n <= len(line); i++ {
		if line[i:i+n] == CursorMarker {
			return i
		}
	}
	return -1
}
