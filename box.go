package tui

import "strings"

// Box is a vertical container that applies uniform padding and an optional
// background to its children, extending every rendered line to the full
// requested width.
type Box struct {
	children     []Component
	paddingX     int
	paddingY     int
	backgroundFn func(string) string

	cachedWidth int
	cachedLines []string
	dirty       bool
}

// NewBox creates an empty Box with one column / one row of padding.
func NewBox() *Box {
	return &Box{paddingX: 1, paddingY: 1, dirty: true}
}

// SetPadding overrides the horizontal and vertical padding.
func (b *Box) SetPadding(x, y int) {
	b.paddingX, b.paddingY = x, y
	b.dirty = true
}

// SetBackgroundFn sets or clears the per-line background wrapper.
func (b *Box) SetBackgroundFn(fn func(string) string) {
	b.backgroundFn = fn
	b.dirty = true
}

func (b *Box) Children() []Component { return b.children }

func (b *Box) AddChild(c Component) {
	b.children = append(b.children, c)
	b.dirty = true
}

func (b *Box) RemoveChild(c Component) {
	for i, ch := range b.children {
		if ch == c {
			b.children = append(b.children[:i], b.children[i+1:]...)
			b.dirty = true
			return
		}
	}
}

func (b *Box) Clear() {
	b.children = b.children[:0]
	b.dirty = true
}

func (b *Box) Invalidate() {
	b.dirty = true
	for _, c := range b.children {
		c.Invalidate()
	}
}

func (b *Box) Render(width int) []string {
	if !b.dirty && b.cachedWidth == width && b.cachedLines != nil {
		return b.cachedLines
	}

	contentWidth := width - b.paddingX*2
	if contentWidth < 0 {
		contentWidth = 0
	}

	var lines []string
	for i := 0; i < b.paddingY; i++ {
		lines = append(lines, b.applyBackground(strings.Repeat(" ", width), width))
	}
	for _, child := range b.children {
		for _, line := range renderChildSafe(child, contentWidth) {
			padded := strings.Repeat(" ", b.paddingX) + line
			if v := VisibleWidth(padded); v < width {
				padded += strings.Repeat(" ", width-v)
			}
			lines = append(lines, b.applyBackground(padded, width))
		}
	}
	for i := 0; i < b.paddingY; i++ {
		lines = append(lines, b.applyBackground(strings.Repeat(" ", width), width))
	}

	b.cachedLines = lines
	b.cachedWidth = width
	b.dirty = false
	return lines
}

func (b *Box) applyBackground(line string, width int) string {
	if b.backgroundFn == nil {
		return line
	}
	line = strings.TrimSuffix(line, segmentReset)
	if v := VisibleWidth(line); v < width {
		line += strings.Repeat(" ", width-v)
	}
	return b.backgroundFn(line)
}

var _ Container = (*Box)(nil)
