package tui

import "strings"

// SizeValue is either an absolute column/row count or a percentage of the
// available space. The zero value is not meaningful on its own; use Cells
// or Percent to build one, or leave an *SizeValue field nil to mean "use
// the full available space".
type SizeValue struct {
	percent bool
	value   int
}

// Cells returns an absolute SizeValue of n columns or rows.
func Cells(n int) SizeValue { return SizeValue{value: n} }

// Percent returns a SizeValue of n percent of the available space.
func Percent(n int) SizeValue { return SizeValue{percent: true, value: n} }

func (sv SizeValue) resolve(total int) int {
	if sv.percent {
		return total * sv.value / 100
	}
	return sv.value
}

func resolveSizeValue(sv *SizeValue, total int) int {
	if sv == nil {
		return total
	}
	return sv.resolve(total)
}

// Anchor names a position within the anchor box; corner values like
// "top-left" combine a vertical and horizontal keyword.
type Anchor string

const (
	AnchorCenter      Anchor = "center"
	AnchorTop         Anchor = "top"
	AnchorBottom      Anchor = "bottom"
	AnchorLeft        Anchor = "left"
	AnchorRight       Anchor = "right"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// OverlayMargin reserves space on each side of the anchor box before
// positioning.
type OverlayMargin struct {
	Top, Right, Bottom, Left int
}

// UniformMargin returns a margin of n on every side.
func UniformMargin(n int) OverlayMargin {
	return OverlayMargin{Top: n, Right: n, Bottom: n, Left: n}
}

// OverlayOptions controls an overlay's size and screen position.
type OverlayOptions struct {
	Width     *SizeValue
	MinWidth  int
	MaxWidth  int
	MaxHeight *SizeValue
	Anchor    Anchor
	OffsetX   int
	OffsetY   int
	Margin    OverlayMargin
	Visible   func(cols, rows int) bool
}

// OverlayHandle controls a single shown overlay's visibility.
type OverlayHandle struct {
	entry *overlayEntry
}

// Hide permanently removes the overlay; it cannot be shown again through
// this handle.
func (h *OverlayHandle) Hide() { h.entry.closed = true }

// SetHidden temporarily hides or reveals the overlay without losing its
// position in the stack.
func (h *OverlayHandle) SetHidden(hidden bool) { h.entry.hidden = hidden }

// IsHidden reports the overlay's current hidden state.
func (h *OverlayHandle) IsHidden() bool { return h.entry.hidden }

type overlayEntry struct {
	component     Component
	options       OverlayOptions
	hidden        bool
	closed        bool
	previousFocus Component
}

func (e *overlayEntry) visible() bool {
	return !e.hidden && !e.closed
}

func resolveAnchorRow(anchor Anchor, availHeight, contentHeight, offsetY int) int {
	row := 0
	a := string(anchor)
	switch {
	case strings.Contains(a, "top"):
		row = 0
	case strings.Contains(a, "bottom"):
		row = maxInt(0, availHeight-contentHeight)
	default:
		row = maxInt(0, (availHeight-contentHeight)/2)
	}
	return row + offsetY
}

func resolveAnchorCol(anchor Anchor, availWidth, contentWidth, offsetX int) int {
	col := 0
	a := string(anchor)
	switch {
	case strings.Contains(a, "left"):
		col = 0
	case strings.Contains(a, "right"):
		col = maxInt(0, availWidth-contentWidth)
	default:
		col = maxInt(0, (availWidth-contentWidth)/2)
	}
	return col + offsetX
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// resolveOverlayWidth computes the overlay's screen width, clamped by
// min/max and by the margin-adjusted available width.
func resolveOverlayWidth(opts OverlayOptions, termWidth int) int {
	availWidth := termWidth - opts.Margin.Left - opts.Margin.Right
	width := resolveSizeValue(opts.Width, termWidth)
	if opts.MinWidth > 0 && width < opts.MinWidth {
		width = opts.MinWidth
	}
	if opts.MaxWidth > 0 && width > opts.MaxWidth {
		width = opts.MaxWidth
	}
	width = minInt(width, termWidth)
	width = minInt(width, availWidth)
	if width < 0 {
		width = 0
	}
	return width
}

// resolveOverlayLayout computes screen row/col/maxHeight for an overlay of
// the given resolved width and content height.
func resolveOverlayLayout(opts OverlayOptions, termWidth, termHeight, width, contentHeight int) (row, col, maxHeight int) {
	maxHeight = resolveSizeValue(opts.MaxHeight, termHeight)
	if maxHeight <= 0 || maxHeight > termHeight {
		maxHeight = termHeight
	}

	availWidth := termWidth - opts.Margin.Left - opts.Margin.Right
	availHeight := termHeight - opts.Margin.Top - opts.Margin.Bottom
	maxHeight = minInt(maxHeight, availHeight)

	row = resolveAnchorRow(opts.Anchor, availHeight, minInt(contentHeight, maxHeight), opts.OffsetY)
	col = resolveAnchorCol(opts.Anchor, availWidth, width, opts.OffsetX)

	row += opts.Margin.Top
	col += opts.Margin.Left
	return row, col, maxHeight
}

// compositeOverlays stitches every visible overlay (in stack order, later
// on top) onto baseLines using column-splice compositing. Overlays occupy
// screen coordinates, not content coordinates: a row resolved by
// resolveOverlayLayout is a position within the visible viewport, so it is
// offset by firstVisible (baseLines is content-indexed and, once content
// has scrolled, the viewport no longer starts at content row 0) before
// indexing into the content array. Rows outside the viewport are dropped,
// per spec: an overlay remains anchored to what's on screen, not to
// history already frozen into real scrollback.
func compositeOverlays(overlays []*overlayEntry, baseLines []string, firstVisible, termWidth, termHeight int) []string {
	result := append([]string(nil), baseLines...)

	for _, entry := range overlays {
		if !entry.visible() {
			continue
		}
		if entry.options.Visible != nil && !entry.options.Visible(termWidth, termHeight) {
			continue
		}

		width := resolveOverlayWidth(entry.options, termWidth)
		content := entry.component.Render(width)
		row, col, maxHeight := resolveOverlayLayout(entry.options, termWidth, termHeight, width, len(content))

		if len(content) > maxHeight {
			content = content[:maxHeight]
		}

		for i, overlayLine := range content {
			screenRow := row + i
			if screenRow < 0 || screenRow >= termHeight {
				continue
			}
			targetRow := firstVisible + screenRow
			for len(result) <= targetRow {
				result = append(result, "")
			}
			result[targetRow] = compositeLineAt(result[targetRow], overlayLine, col, width, termWidth)
		}
	}

	return result
}

// compositeLineAt splices overlayLine into base at screen column col,
// occupying width columns, preserving styling on both sides of the splice.
func compositeLineAt(base, overlayLine string, col, width, totalWidth int) string {
	before := SliceByColumn(base, 0, col)
	if w := VisibleWidth(before); w < col {
		before += strings.Repeat(" ", col-w)
	}

	overlay := SliceByColumn(overlayLine, 0, width)
	overlayWidth := VisibleWidth(overlay)

	afterStart := col + overlayWidth
	remaining := maxInt(totalWidth-afterStart, 0)
	after := SliceByColumn(base, afterStart, remaining)
	if w := VisibleWidth(after); afterStart+w < totalWidth {
		after += strings.Repeat(" ", totalWidth-afterStart-w)
	}

	return before + overlay + after
}
