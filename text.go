package tui

import "strings"

// Text renders word-wrapped, padded text. A BackgroundFn, if set, receives
// each fully padded line and can wrap it in a background color; padding is
// applied before the callback so the background always covers the full
// width.
type Text struct {
	text         string
	paddingX     int
	paddingY     int
	backgroundFn func(string) string

	cachedWidth int
	cachedLines []string
	dirty       bool
}

// NewText creates a Text component with the given content and one column
// / one row of padding on each side, matching the framework default.
func NewText(text string) *Text {
	return &Text{text: text, paddingX: 1, paddingY: 1, dirty: true}
}

// SetText replaces the content and invalidates the render cache.
func (t *Text) SetText(text string) {
	t.text = text
	t.Invalidate()
}

// SetPadding overrides the horizontal and vertical padding.
func (t *Text) SetPadding(x, y int) {
	t.paddingX, t.paddingY = x, y
	t.Invalidate()
}

// SetBackgroundFn sets or clears the per-line background wrapper.
func (t *Text) SetBackgroundFn(fn func(string) string) {
	t.backgroundFn = fn
	t.Invalidate()
}

func (t *Text) Invalidate() {
	t.dirty = true
}

func (t *Text) Render(width int) []string {
	if !t.dirty && t.cachedWidth == width && t.cachedLines != nil {
		return t.cachedLines
	}

	contentWidth := width - t.paddingX*2
	if contentWidth < 0 {
		contentWidth = 0
	}

	var lines []string
	if contentWidth == 0 || t.text == "" {
		for i := 0; i < t.paddingY*2; i++ {
			lines = append(lines, "")
		}
	} else {
		wrapped := WrapTextWithANSI(t.text, contentWidth)

		for i := 0; i < t.paddingY; i++ {
			lines = append(lines, strings.Repeat(" ", width))
		}
		for _, line := range wrapped {
			line = strings.TrimSuffix(line, segmentReset)
			lines = append(lines, padLine(line, t.paddingX, width))
		}
		for i := 0; i < t.paddingY; i++ {
			lines = append(lines, strings.Repeat(" ", width))
		}
	}

	if t.backgroundFn != nil {
		for i, line := range lines {
			line = strings.TrimSuffix(line, segmentReset)
			if v := VisibleWidth(line); v < width {
				line += strings.Repeat(" ", width-v)
			}
			lines[i] = t.backgroundFn(line)
		}
	}

	t.cachedLines = lines
	t.cachedWidth = width
	t.dirty = false
	return lines
}

func padLine(line string, paddingX, width int) string {
	left := strings.Repeat(" ", paddingX)
	visible := VisibleWidth(line) + paddingX*2
	right := ""
	if visible < width {
		right = strings.Repeat(" ", width-visible)
	}
	return left + line + right
}

var (
	_ Component = (*Text)(nil)
)
