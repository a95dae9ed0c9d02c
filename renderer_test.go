package tui

import (
	"context"
	"strings"
	"testing"
	"time"
)

// fixedLines is a minimal Component for renderer tests: it renders exactly
// the given lines, ignoring width (tests pick widths that fit).
type fixedLines struct {
	lines []string
}

func newFixedLines(lines ...string) *fixedLines { return &fixedLines{lines: lines} }

func (f *fixedLines) Invalidate()             {}
func (f *fixedLines) Render(width int) []string { return f.lines }

func TestRenderFrameTinyDiff(t *testing.T) {
	term := NewMockTerminal(80, 24)
	root := NewStack(newFixedLines("hello"))
	r := NewRenderer(term, root)

	r.RenderFrame()
	term.ResetOutput()

	root.Clear()
	root.AddChild(newFixedLines("world"))
	r.RenderFrame()

	out := term.Output()
	if !strings.Contains(out, "world"+tailReset) {
		t.Errorf("expected world + tail reset in output, got %q", out)
	}
	if len(r.previousLines) != 1 || !strings.HasPrefix(r.previousLines[0], "world") {
		t.Errorf("previousLines = %v", r.previousLines)
	}
}

func TestRenderFrameGrowthIntoScrollback(t *testing.T) {
	term := NewMockTerminal(80, 5)
	var lines []Component
	for i := 0; i < 8; i++ {
		lines = append(lines, newFixedLines(strings.Repeat("L", 1)+itoa(i)))
	}
	root := NewStack(lines...)
	r := NewRenderer(term, root)

	r.RenderFrame()

	if r.maxLinesRendered != 8 {
		t.Errorf("maxLinesRendered = %d, want 8", r.maxLinesRendered)
	}
	if r.emittedScrollbackLines != 3 {
		t.Errorf("emittedScrollbackLines = %d, want 3", r.emittedScrollbackLines)
	}

	term.ResetOutput()
	r.RequestRender(false)
	r.RenderFrame()
	out := term.Output()
	if out != beginSync+endSync {
		t.Errorf("expected no-op frame to emit only sync framing, got %q", out)
	}
}

// TestRenderFrameSteadyGrowthAdvancesScrollback covers the case where
// content grows by less than rows per frame (e.g. one log line at a time):
// the explicit per-line scroll loop in step 9 never fires on its own
// (scrollEnd stays below maxLinesRendered), so the viewport must still be
// advanced into real scrollback via the blank-CRLF catch-up.
func TestRenderFrameSteadyGrowthAdvancesScrollback(t *testing.T) {
	term := NewMockTerminal(80, 5)
	root := NewStack()
	r := NewRenderer(term, root)

	for i := 0; i < 5; i++ {
		root.AddChild(newFixedLines("L" + itoa(i)))
	}
	r.RenderFrame()
	if r.maxLinesRendered != 5 || r.emittedScrollbackLines != 0 {
		t.Fatalf("after filling one screen: maxLinesRendered=%d emittedScrollbackLines=%d", r.maxLinesRendered, r.emittedScrollbackLines)
	}

	for frame := 0; frame < 4; frame++ {
		root.AddChild(newFixedLines("L" + itoa(5+frame)))
		term.ResetOutput()
		r.RequestRender(false)
		r.RenderFrame()

		wantMax := 6 + frame
		wantEmitted := wantMax - 5
		if r.maxLinesRendered != wantMax {
			t.Errorf("frame %d: maxLinesRendered = %d, want %d", frame, r.maxLinesRendered, wantMax)
		}
		if r.emittedScrollbackLines != wantEmitted {
			t.Errorf("frame %d: emittedScrollbackLines = %d, want %d", frame, r.emittedScrollbackLines, wantEmitted)
		}
		out := term.Output()
		if !strings.Contains(out, "\r\n") {
			t.Errorf("frame %d: expected a scrollback-advancing CRLF, got %q", frame, out)
		}
	}
}

func TestRenderFrameShrinkClearsOrphans(t *testing.T) {
	term := NewMockTerminal(80, 24)
	var ten []Component
	for i := 0; i < 10; i++ {
		ten = append(ten, newFixedLines("row"))
	}
	root := NewStack(ten...)
	r := NewRenderer(term, root)
	r.RenderFrame()
	term.ResetOutput()

	root.Clear()
	for i := 0; i < 4; i++ {
		root.AddChild(newFixedLines("row"))
	}
	r.RenderFrame()

	out := term.Output()
	if !strings.Contains(out, clearLine) {
		t.Errorf("expected orphan rows cleared, got %q", out)
	}
}

func TestRenderFrameOverlayCenter(t *testing.T) {
	term := NewMockTerminal(80, 24)
	dots := make([]string, 24)
	for i := range dots {
		dots[i] = strings.Repeat(".", 80)
	}
	root := NewStack(newFixedLines(dots...))
	r := NewRenderer(term, root)

	overlayLines := make([]string, 5)
	for i := range overlayLines {
		overlayLines[i] = strings.Repeat("#", 20)
	}
	overlay := newFixedLines(overlayLines...)
	width := Cells(20)
	height := Cells(5)
	r.ShowOverlay(overlay, OverlayOptions{Width: &width, MaxHeight: &height, Anchor: AnchorCenter})

	r.RenderFrame()

	if len(r.previousLines) != 24 {
		t.Fatalf("got %d lines, want 24", len(r.previousLines))
	}
	row9 := r.previousLines[9]
	if !strings.Contains(row9, "####") {
		t.Errorf("expected overlay content at row 9, got %q", row9)
	}
	row0 := r.previousLines[0]
	if strings.Contains(row0, "#") {
		t.Errorf("row 0 should be untouched dots, got %q", row0)
	}
}

// TestRenderFrameOverlayTracksScrolledViewport covers an overlay shown
// after content has already scrolled past one screen: the overlay's
// anchor-resolved row is relative to the viewport, not to the full
// content array, so it must be offset by firstVisible or it paints onto
// history already frozen into real scrollback instead of what's on screen.
func TestRenderFrameOverlayTracksScrolledViewport(t *testing.T) {
	term := NewMockTerminal(80, 5)
	root := NewStack()
	for i := 0; i < 20; i++ {
		root.AddChild(newFixedLines(strings.Repeat(".", 80)))
	}
	r := NewRenderer(term, root)
	r.RenderFrame()

	if r.maxLinesRendered != 20 {
		t.Fatalf("maxLinesRendered = %d, want 20", r.maxLinesRendered)
	}
	firstVisible := maxInt(0, r.maxLinesRendered-5)

	overlay := newFixedLines(strings.Repeat("#", 10))
	width := Cells(10)
	height := Cells(1)
	r.ShowOverlay(overlay, OverlayOptions{Width: &width, MaxHeight: &height, Anchor: AnchorTop})
	r.RenderFrame()

	target := firstVisible + 0
	if !strings.Contains(r.previousLines[target], "#") {
		t.Errorf("expected overlay at viewport-relative content row %d, got %q", target, r.previousLines[target])
	}
	for i := 0; i < firstVisible; i++ {
		if strings.Contains(r.previousLines[i], "#") {
			t.Errorf("overlay leaked into frozen history row %d: %q", i, r.previousLines[i])
		}
	}
}

func TestRenderFrameScreenSwitchPreservesState(t *testing.T) {
	term := NewMockTerminal(80, 24)
	var stream []Component
	for i := 0; i < 50; i++ {
		stream = append(stream, newFixedLines("stream"))
	}
	root := NewStack(stream...)
	r := NewRenderer(term, root)
	r.RenderFrame()
	term.ResetOutput()

	root.Clear()
	root.AddChild(newFixedLines("menu"))
	r.RequestRender(true)
	r.RenderFrame()

	out := term.Output()
	if !strings.HasPrefix(out, ClearScreenAndScrollback()) {
		t.Errorf("expected clear-screen prefix, got %q", out[:minInt(20, len(out))])
	}
	if strings.Contains(out, "stream") {
		t.Errorf("residual stream content found: %q", out)
	}
	if len(r.previousLines) != 1 || !strings.HasPrefix(r.previousLines[0], "menu") {
		t.Errorf("previousLines = %v", r.previousLines)
	}
}

func TestRenderFrameCursorMarkerExtraction(t *testing.T) {
	term := NewMockTerminal(80, 24)
	in := NewInput("")
	in.SetValue("abc")
	in.SetFocused(true)
	root := NewStack(in)
	r := NewRenderer(term, root, WithHardwareCursor(true))
	r.SetFocus(in)

	r.RenderFrame()

	out := term.Output()
	if strings.Contains(out, CursorMarker) {
		t.Errorf("cursor marker leaked into output: %q", out)
	}
}

func TestHandleInputRoutesToFocus(t *testing.T) {
	term := NewMockTerminal(80, 24)
	in := NewInput("")
	root := NewStack(in)
	r := NewRenderer(term, root)
	r.SetFocus(in)

	r.HandleInput("a")
	if in.Value() != "a" {
		t.Errorf("got %q", in.Value())
	}
}

func TestHandleInputListenerConsumes(t *testing.T) {
	term := NewMockTerminal(80, 24)
	in := NewInput("")
	root := NewStack(in)
	r := NewRenderer(term, root)
	r.SetFocus(in)

	var sawIt bool
	remove := r.AddInputListener(func(data string) bool {
		sawIt = true
		return true
	})
	defer remove()

	r.HandleInput("x")
	if !sawIt {
		t.Fatal("listener not invoked")
	}
	if in.Value() != "" {
		t.Errorf("expected input consumed before reaching focus, got %q", in.Value())
	}
}

func TestOverlayFocusRestoration(t *testing.T) {
	term := NewMockTerminal(80, 24)
	original := NewInput("")
	overlayInput := NewInput("")
	root := NewStack(original, overlayInput)
	r := NewRenderer(term, root)
	r.SetFocus(original)

	r.ShowOverlay(overlayInput, OverlayOptions{Anchor: AnchorCenter})
	if r.Focus() != overlayInput {
		t.Fatalf("expected overlay to capture focus")
	}

	r.HideOverlay()
	if r.Focus() != original {
		t.Fatalf("expected focus restored to original component")
	}
}

func TestRunRestoresTerminalOnContextCancel(t *testing.T) {
	term := NewMockTerminal(80, 24)
	root := NewStack(newFixedLines("hi"))
	r := NewRenderer(term, root)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if term.IsRaw() {
		t.Error("expected terminal mode restored after Run returns")
	}
}
