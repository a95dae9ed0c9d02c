package tui

import "strings"

const (
	borderTopLeft     = "┌"
	borderTopRight    = "┐"
	borderBottomLeft  = "└"
	borderBottomRight = "┘"
	borderHorizontal  = "─"
	borderVertical    = "│"
	borderTitleLeft   = "├"
	borderTitleRight  = "┤"
)

// BorderedBox draws a single-line box-drawing border around a vertical
// stack of children, with an optional title inset into the top border.
type BorderedBox struct {
	children []Component
	title    string
	minWidth int
	maxWidth int
	dirty    bool
}

// NewBorderedBox creates an empty bordered box.
func NewBorderedBox() *BorderedBox {
	return &BorderedBox{dirty: true}
}

// SetTitle sets the text shown inset into the top border, or clears it.
func (b *BorderedBox) SetTitle(title string) {
	b.title = title
	b.dirty = true
}

// SetWidthLimits clamps the interior content width.
func (b *BorderedBox) SetWidthLimits(minWidth, maxWidth int) {
	b.minWidth, b.maxWidth = minWidth, maxWidth
	b.dirty = true
}

func (b *BorderedBox) Children() []Component { return b.children }

func (b *BorderedBox) AddChild(c Component) {
	b.children = append(b.children, c)
	b.dirty = true
}

func (b *BorderedBox) RemoveChild(c Component) {
	for i, ch := range b.children {
		if ch == c {
			b.children = append(b.children[:i], b.children[i+1:]...)
			b.dirty = true
			return
		}
	}
}

func (b *BorderedBox) Clear() {
	b.children = b.children[:0]
	b.dirty = true
}

func (b *BorderedBox) Invalidate() {
	b.dirty = true
	for _, c := range b.children {
		c.Invalidate()
	}
}

func clamp(v, lo, hi int) int {
	if hi > 0 && v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func (b *BorderedBox) Render(width int) []string {
	available := width - 2
	if available < 0 {
		available = 0
	}
	innerWidth := clamp(available, b.minWidth, b.maxWidth)

	var lines []string
	lines = append(lines, b.renderTopBorder(innerWidth))

	for _, child := range b.children {
		for _, line := range renderChildSafe(child, innerWidth) {
			if v := VisibleWidth(line); v < innerWidth {
				line += strings.Repeat(" ", innerWidth-v)
			}
			lines = append(lines, borderVertical+line+segmentReset+borderVertical)
		}
	}

	lines = append(lines, borderBottomLeft+strings.Repeat(borderHorizontal, innerWidth)+borderBottomRight)

	b.dirty = false
	return lines
}

func (b *BorderedBox) renderTopBorder(innerWidth int) string {
	if b.title == "" {
		return borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight
	}

	titleWidth := VisibleWidth(b.title)
	// Reserve one column of horizontal rule on each side of the title.
	budget := innerWidth - 2
	title := b.title
	if titleWidth > budget {
		title = TruncateToWidth(title, budget, "…", false)
		titleWidth = VisibleWidth(title)
	}

	left := borderTopLeft + borderHorizontal
	right := borderTopRight
	if fill := innerWidth - titleWidth - 1; fill > 0 {
		right = strings.Repeat(borderHorizontal, fill) + borderTopRight
	}
	return left + title + right
}

var _ Container = (*BorderedBox)(nil)
