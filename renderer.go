package tui

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"tui/keys"
)

// pollInterval is how long each main-loop iteration waits for input, which
// paces the loop at roughly 60Hz.
const pollInterval = 16 * time.Millisecond

// Renderer owns the component tree, the previous-frame state needed for
// differential rendering, the overlay stack, and focus. It must be reused
// across screen switches — creating a new Renderer discards all diffing
// state and produces a full repaint with visible flicker.
type Renderer struct {
	terminal Terminal
	root     Container

	showHardwareCursor bool
	clearOnShrink      bool

	previousLines           []string
	maxLinesRendered        int
	hardwareCursorRow       int
	emittedScrollbackLines  int
	firstVisibleRowPrevious int
	lastCols, lastRows      int
	forceFullRedraw         bool

	focus          Component
	overlays       []*overlayEntry
	inputListeners []*inputListenerEntry

	renderRequested bool
	stopped         bool
}

type inputListenerEntry struct {
	fn func(data string) (consumed bool)
}

// RendererOption configures a Renderer at construction time.
type RendererOption func(*Renderer)

// WithHardwareCursor enables positioning the real terminal cursor at a
// focused component's cursor marker, for IME candidate windows. Off by
// default: most apps don't need the terminal's own cursor visible.
func WithHardwareCursor(enabled bool) RendererOption {
	return func(r *Renderer) { r.showHardwareCursor = enabled }
}

// WithClearOnShrink controls whether orphaned rows are explicitly cleared
// when content shrinks between frames. Defaults to true; disabling it
// reduces redraws on slow terminals at the cost of stale rows lingering
// until something else overwrites them.
func WithClearOnShrink(enabled bool) RendererOption {
	return func(r *Renderer) { r.clearOnShrink = enabled }
}

// NewRenderer creates a Renderer driving terminal and rendering root.
func NewRenderer(terminal Terminal, root Container, opts ...RendererOption) *Renderer {
	r := &Renderer{
		terminal:          terminal,
		root:              root,
		clearOnShrink:     true,
		hardwareCursorRow: -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetFocus moves focus, unfocusing the previous target and focusing the
// new one if they implement Focusable.
func (r *Renderer) SetFocus(c Component) {
	if f, ok := r.focus.(Focusable); ok {
		f.SetFocused(false)
	}
	r.focus = c
	if f, ok := c.(Focusable); ok {
		f.SetFocused(true)
	}
}

// Focus returns the currently focused component, or nil.
func (r *Renderer) Focus() Component { return r.focus }

// AddInputListener registers an interceptor that runs before focus
// dispatch; returning true consumes the chunk. The returned func removes
// the listener.
func (r *Renderer) AddInputListener(fn func(data string) bool) (remove func()) {
	entry := &inputListenerEntry{fn: fn}
	r.inputListeners = append(r.inputListeners, entry)
	return func() {
		for i, e := range r.inputListeners {
			if e == entry {
				r.inputListeners = append(r.inputListeners[:i], r.inputListeners[i+1:]...)
				return
			}
		}
	}
}

// ShowOverlay displays component as a floating panel per opts, capturing
// current focus and moving focus to the overlay (or its first focusable
// descendant).
func (r *Renderer) ShowOverlay(component Component, opts OverlayOptions) *OverlayHandle {
	entry := &overlayEntry{component: component, options: opts, previousFocus: r.focus}
	r.overlays = append(r.overlays, entry)

	var firstFocusable func(c Component) Focusable
	firstFocusable = func(c Component) Focusable {
		if f, ok := c.(Focusable); ok {
			return f
		}
		if container, ok := c.(Container); ok {
			for _, child := range container.Children() {
				if f := firstFocusable(child); f != nil {
					return f
				}
			}
		}
		return nil
	}
	if f := firstFocusable(component); f != nil {
		r.SetFocus(f)
	}

	r.RequestRender(false)
	return &OverlayHandle{entry: entry}
}

// HideOverlay hides the topmost visible overlay and restores the focus
// captured when it was shown.
func (r *Renderer) HideOverlay() {
	for i := len(r.overlays) - 1; i >= 0; i-- {
		if r.overlays[i].visible() {
			r.overlays[i].closed = true
			if r.overlays[i].previousFocus != nil {
				r.SetFocus(r.overlays[i].previousFocus)
			}
			r.RequestRender(false)
			return
		}
	}
}

// HasOverlay reports whether any overlay is currently visible.
func (r *Renderer) HasOverlay() bool {
	for _, e := range r.overlays {
		if e.visible() {
			return true
		}
	}
	return false
}

// Invalidate drops all differential-rendering state and invalidates the
// component tree, forcing a full repaint on the next frame.
func (r *Renderer) Invalidate() {
	r.previousLines = nil
	r.root.Invalidate()
	for _, e := range r.overlays {
		e.component.Invalidate()
	}
}

// RequestRender schedules a render on the next run-loop tick. force also
// clears differential state for a full repaint.
func (r *Renderer) RequestRender(force bool) {
	r.renderRequested = true
	if force {
		r.forceFullRedraw = true
	}
}

// Start prepares the terminal: hides the cursor and enters raw mode.
// Scrollback is never touched — this library never switches to the
// alternate screen.
func (r *Renderer) Start() error {
	r.terminal.HideCursor()
	if err := r.terminal.SetRawMode(); err != nil {
		return newRenderError(ErrTerminalUnavailable, "set raw mode: %w", err)
	}
	r.stopped = false
	r.previousLines = nil
	return nil
}

// Stop restores the terminal. Idempotent; safe to call from a deferred
// panic-recovery path.
func (r *Renderer) Stop() error {
	r.stopped = true
	r.terminal.ShowCursor()
	if err := r.terminal.RestoreMode(); err != nil {
		return newRenderError(ErrTerminalUnavailable, "restore mode: %w", err)
	}
	return nil
}

// HandleInput routes one input chunk: listeners first (any may consume),
// then the focused component, honoring key-release filtering. An Escape
// that no listener consumed hides the topmost visible overlay, if any,
// instead of reaching the focused component.
func (r *Renderer) HandleInput(data string) {
	for _, e := range r.inputListeners {
		if e.fn(data) {
			return
		}
	}

	if keys.Matches(data, keys.Escape) && r.HasOverlay() {
		r.HideOverlay()
		return
	}

	if r.focus == nil {
		return
	}
	handler, ok := r.focus.(InputHandler)
	if !ok {
		return
	}

	if _, event, ok := keys.Parse(data); ok && event == keys.EventRelease {
		if kr, ok := r.focus.(KeyReleaseAware); !ok || !kr.WantsKeyRelease() {
			return
		}
	}

	handler.HandleInput(data)
}

// RenderFrame executes the full differential render lifecycle (§4.5.1)
// and writes exactly one buffer to the terminal.
func (r *Renderer) RenderFrame() {
	if r.stopped {
		return
	}
	cols, rows := r.terminal.Size()
	if cols == 0 || rows == 0 {
		// Detached TTY: defer rendering until a real size is observed.
		return
	}
	r.renderRequested = false

	var buf strings.Builder

	// 1. Pre-flight: explicit force-redraw request.
	if r.forceFullRedraw {
		buf.WriteString(ClearScreenAndScrollback())
		r.previousLines = nil
		r.hardwareCursorRow = -1
		r.maxLinesRendered = 0
		r.emittedScrollbackLines = 0
		r.forceFullRedraw = false
	}

	// 2. Resize check.
	if cols != r.lastCols || rows != r.lastRows {
		if r.lastCols != 0 || r.lastRows != 0 {
			buf.WriteString(ClearScreenAndScrollback())
		}
		r.previousLines = nil
		r.hardwareCursorRow = -1
		r.root.Invalidate()
		for _, e := range r.overlays {
			e.component.Invalidate()
		}
	}

	// 3. Render children.
	baseLines := renderChildSafe(r.root, cols)
	currentCount := len(baseLines)

	// 4. Viewport offset, projected forward to this frame's post-growth
	// content count so overlay compositing, cursor extraction, and the
	// diff/shrink loops below all agree on where the viewport sits once
	// step 9 has scrolled new content into place.
	projectedMax := maxInt(r.maxLinesRendered, currentCount)
	firstVisible := maxInt(0, projectedMax-rows)

	// 5. Composite overlays.
	finalLines := compositeOverlays(r.overlays, baseLines, firstVisible, cols, rows)

	// 6. Per-line tail reset.
	for i, line := range finalLines {
		finalLines[i] = line + tailReset
	}

	// 7. Extract cursor marker, scanning the visible viewport bottom-up.
	cursorRow, cursorCol, cursorFound := extractCursorMarker(finalLines, firstVisible, rows)

	// 8. Begin synchronized output.
	buf.WriteString(beginSync)

	// 9. Handle content growth.
	if currentCount > r.maxLinesRendered {
		scrollEnd := currentCount - rows
		for i := r.maxLinesRendered; i < scrollEnd; i++ {
			if i < r.emittedScrollbackLines {
				continue
			}
			buf.WriteString(r.moveRelative(rows - 1))
			buf.WriteString(carriageRet + clearLine)
			buf.WriteString(finalLines[i])
			buf.WriteString("\r\n")
			r.hardwareCursorRow = rows - 1
			r.emittedScrollbackLines = i + 1
		}
		r.maxLinesRendered = projectedMax
	}

	// Growth may also leave the viewport short of alignment without any
	// content actually being new to the screen (e.g. steady growth of a
	// single line per frame, below the per-line scroll loop's threshold
	// above). Emit blank CRLFs to advance real terminal scrollback until
	// emittedScrollbackLines catches up to the viewport's new top; a no-op
	// once it already has.
	if extra := firstVisible - r.emittedScrollbackLines; extra > 0 {
		buf.WriteString(r.moveRelative(rows - 1))
		buf.WriteString(strings.Repeat("\r\n", extra))
		r.hardwareCursorRow = rows - 1
		r.emittedScrollbackLines = firstVisible
	}

	// 10. Handle content shrinkage.
	if r.clearOnShrink && currentCount < len(r.previousLines) {
		for i := currentCount; i < len(r.previousLines); i++ {
			screenRow := i - firstVisible
			if screenRow < 0 || screenRow >= rows {
				continue
			}
			buf.WriteString(r.moveRelative(screenRow))
			buf.WriteString(carriageRet + clearLine)
		}
	}

	// 11. Diff and emit.
	for screenRow := 0; screenRow < rows; screenRow++ {
		contentRow := firstVisible + screenRow
		if contentRow >= currentCount {
			continue
		}
		if contentRow >= len(r.previousLines) || r.previousLines[contentRow] != finalLines[contentRow] {
			buf.WriteString(r.moveRelative(screenRow))
			buf.WriteString(carriageRet + clearLine)
			buf.WriteString(finalLines[contentRow])
		}
	}

	// 12. End synchronized output.
	buf.WriteString(endSync)

	// 13. Position hardware cursor.
	if r.showHardwareCursor {
		if cursorFound && cursorRow < currentCount {
			screenRow := cursorRow - firstVisible
			if screenRow >= 0 && screenRow < rows {
				buf.WriteString(r.moveRelative(screenRow))
				buf.WriteString(carriageRet + csi(cursorCol+1) + "C")
				buf.WriteString(showCursor)
			} else {
				buf.WriteString(hideCursor)
			}
		} else {
			buf.WriteString(hideCursor)
		}
	}

	// 14. Commit state.
	r.previousLines = finalLines
	r.firstVisibleRowPrevious = firstVisible
	r.lastCols, r.lastRows = cols, rows

	// 15. Write.
	r.terminal.Write(buf.String())
}

// moveRelative emits the escape sequence to move from the cursor's last
// known screen row to targetRow, updating hardwareCursorRow. A negative
// hardwareCursorRow means "unknown, but the terminal was just homed to
// screen row 0" (set by pre-flight/resize), so the delta is computed
// against an assumed row 0 rather than skipping the move.
func (r *Renderer) moveRelative(targetRow int) string {
	from := r.hardwareCursorRow
	if from < 0 {
		from = 0
	}
	delta := targetRow - from
	r.hardwareCursorRow = targetRow
	if delta == 0 {
		return ""
	}
	if delta > 0 {
		return MoveCursorDown(delta)
	}
	return MoveCursorUp(-delta)
}

// extractCursorMarker scans the visible viewport (content rows
// [firstVisible, firstVisible+rows)) bottom-up for CursorMarker, stripping
// it from the line it's found in and reporting its (content row, visible
// column).
func extractCursorMarker(lines []string, firstVisible, rows int) (row, col int, found bool) {
	start := maxInt(firstVisible, 0)
	end := minInt(len(lines), firstVisible+rows)
	for i := end - 1; i >= start; i-- {
		stripped, markerCol := stripCursorMarker(lines[i])
		if markerCol >= 0 {
			lines[i] = stripped
			return i, markerCol, true
		}
	}
	// Marker may also appear outside the viewport scan range for callers
	// that need it regardless; fall back to a full scan so it's always
	// stripped before emission even if not used for cursor placement.
	for i := range lines {
		if i >= start && i < end {
			continue
		}
		stripped, markerCol := stripCursorMarker(lines[i])
		if markerCol >= 0 {
			lines[i] = stripped
		}
	}
	return 0, 0, false
}

// Run enters the built-in ~60Hz main loop: poll input, dispatch, render.
// It restores terminal state on every exit path, including a panic, which
// it recovers from and re-raises after cleanup.
func (r *Renderer) Run(ctx context.Context) (err error) {
	if err := r.Start(); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			r.Stop()
			panic(p)
		}
	}()
	defer func() {
		if stopErr := r.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	var panicked any
	g.Go(func() error {
		defer func() {
			if p := recover(); p != nil {
				panicked = p
			}
		}()
		return r.loop(ctx)
	})
	err = g.Wait()
	if panicked != nil {
		panic(panicked)
	}
	return err
}

func (r *Renderer) loop(ctx context.Context) error {
	r.RequestRender(false)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if data, ok := r.terminal.ReadSequence(pollInterval); ok {
			r.HandleInput(data)
			r.RequestRender(false)
		}

		if r.renderRequested {
			r.RenderFrame()
		}
	}
}

