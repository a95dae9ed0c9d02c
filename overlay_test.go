package tui

import (
	"strings"
	"testing"
)

func TestResolveOverlayWidth(t *testing.T) {
	t.Run("percent of terminal width", func(t *testing.T) {
		w := Percent(50)
		got := resolveOverlayWidth(OverlayOptions{Width: &w}, 80)
		if got != 40 {
			t.Errorf("got %d, want 40", got)
		}
	})

	t.Run("nil width uses full available space", func(t *testing.T) {
		got := resolveOverlayWidth(OverlayOptions{}, 80)
		if got != 80 {
			t.Errorf("got %d, want 80", got)
		}
	})

	t.Run("min width raises a too-small absolute value", func(t *testing.T) {
		w := Cells(10)
		got := resolveOverlayWidth(OverlayOptions{Width: &w, MinWidth: 20}, 80)
		if got != 20 {
			t.Errorf("got %d, want 20", got)
		}
	})

	t.Run("max width caps an oversized absolute value", func(t *testing.T) {
		w := Cells(60)
		got := resolveOverlayWidth(OverlayOptions{Width: &w, MaxWidth: 30}, 80)
		if got != 30 {
			t.Errorf("got %d, want 30", got)
		}
	})

	t.Run("margin shrinks available width", func(t *testing.T) {
		got := resolveOverlayWidth(OverlayOptions{Margin: UniformMargin(10)}, 80)
		if got != 60 {
			t.Errorf("got %d, want 60", got)
		}
	})
}

func TestResolveOverlayLayoutCenter(t *testing.T) {
	row, col, maxHeight := resolveOverlayLayout(OverlayOptions{Anchor: AnchorCenter}, 80, 24, 20, 5)
	if row != 9 {
		t.Errorf("row = %d, want 9", row)
	}
	if col != 30 {
		t.Errorf("col = %d, want 30", col)
	}
	if maxHeight != 24 {
		t.Errorf("maxHeight = %d, want 24", maxHeight)
	}
}

func TestResolveOverlayLayoutCorners(t *testing.T) {
	cases := []struct {
		anchor   Anchor
		wantRow  int
		wantCol  int
	}{
		{AnchorTopLeft, 0, 0},
		{AnchorTopRight, 0, 60},
		{AnchorBottomLeft, 19, 0},
		{AnchorBottomRight, 19, 60},
	}
	for _, c := range cases {
		t.Run(string(c.anchor), func(t *testing.T) {
			row, col, _ := resolveOverlayLayout(OverlayOptions{Anchor: c.anchor}, 80, 24, 20, 5)
			if row != c.wantRow || col != c.wantCol {
				t.Errorf("row,col = %d,%d want %d,%d", row, col, c.wantRow, c.wantCol)
			}
		})
	}
}

func TestResolveOverlayLayoutOffsetAndMargin(t *testing.T) {
	row, col, _ := resolveOverlayLayout(
		OverlayOptions{Anchor: AnchorTopLeft, OffsetX: 3, OffsetY: 2, Margin: UniformMargin(1)},
		80, 24, 20, 5,
	)
	if row != 3 || col != 4 {
		t.Errorf("row,col = %d,%d want 3,4", row, col)
	}
}

func TestResolveOverlayLayoutMaxHeightClampedByMargin(t *testing.T) {
	h := Cells(20)
	_, _, maxHeight := resolveOverlayLayout(OverlayOptions{MaxHeight: &h, Margin: UniformMargin(5)}, 80, 24, 20, 20)
	if maxHeight != 14 {
		t.Errorf("maxHeight = %d, want 14", maxHeight)
	}
}

func TestCompositeLineAtSplice(t *testing.T) {
	base := strings.Repeat(".", 20)
	got := compositeLineAt(base, "XXXX", 5, 4, 20)
	want := "....." + segmentReset + "XXXX" + segmentReset + "..........." + segmentReset
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompositeLineAtPadsShortOverlay(t *testing.T) {
	base := strings.Repeat(".", 10)
	got := compositeLineAt(base, "AB", 2, 4, 10)
	if VisibleWidth(got) != 10 {
		t.Errorf("width = %d, want 10", VisibleWidth(got))
	}
	if !strings.HasPrefix(got, ".."+segmentReset+"AB") {
		t.Errorf("got %q", got)
	}
}

func TestCompositeOverlaysStackOrderLaterOnTop(t *testing.T) {
	base := []string{strings.Repeat(".", 10)}
	lower := newFixedLines(strings.Repeat("1", 5))
	upper := newFixedLines(strings.Repeat("2", 5))
	overlays := []*overlayEntry{
		{component: lower, options: OverlayOptions{Anchor: AnchorLeft}},
		{component: upper, options: OverlayOptions{Anchor: AnchorLeft}},
	}

	out := compositeOverlays(overlays, base, 0, 10, 1)
	if !strings.HasPrefix(out[0], "22222") {
		t.Errorf("expected later overlay on top, got %q", out[0])
	}
}

func TestCompositeOverlaysSkipsHiddenAndClosed(t *testing.T) {
	base := []string{strings.Repeat(".", 10)}
	hidden := &overlayEntry{component: newFixedLines("XXXXX"), options: OverlayOptions{}, hidden: true}
	closed := &overlayEntry{component: newFixedLines("YYYYY"), options: OverlayOptions{}, closed: true}

	out := compositeOverlays([]*overlayEntry{hidden, closed}, base, 0, 10, 1)
	if out[0] != base[0] {
		t.Errorf("expected base untouched, got %q", out[0])
	}
}

func TestCompositeOverlaysRespectsVisiblePredicate(t *testing.T) {
	base := []string{strings.Repeat(".", 10)}
	entry := &overlayEntry{
		component: newFixedLines("XXXXX"),
		options: OverlayOptions{
			Visible: func(cols, rows int) bool { return cols > 100 },
		},
	}
	out := compositeOverlays([]*overlayEntry{entry}, base, 0, 10, 1)
	if out[0] != base[0] {
		t.Errorf("expected overlay suppressed by Visible predicate, got %q", out[0])
	}
}

func TestOverlayHandleHideAndSetHidden(t *testing.T) {
	entry := &overlayEntry{}
	h := &OverlayHandle{entry: entry}

	if h.IsHidden() {
		t.Fatal("should start visible")
	}
	h.SetHidden(true)
	if !h.IsHidden() || entry.visible() {
		t.Error("expected hidden state to take")
	}
	h.SetHidden(false)
	if entry.closed {
		t.Error("SetHidden must not close the entry")
	}

	h.Hide()
	if !entry.closed {
		t.Error("Hide should close the entry permanently")
	}
}
