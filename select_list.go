package tui

import (
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"tui/keys"
)

// SelectItem is one entry in a SelectList.
type SelectItem struct {
	Value       string
	Label       string
	Description string
}

// SelectListTheme customizes how a SelectList decorates its rows. Any nil
// field falls back to an identity function.
type SelectListTheme struct {
	SelectedPrefix func(string) string
	SelectedText   func(string) string
	Description    func(string) string
	ScrollInfo     func(string) string
	NoMatch        func(string) string
}

func (th SelectListTheme) apply(fn func(string) string, s string) string {
	if fn == nil {
		return s
	}
	return fn(s)
}

// SelectList is a scrollable, fuzzy-filterable list of selectable items.
type SelectList struct {
	items         []SelectItem
	filteredItems []SelectItem
	selectedIndex int
	scrollOffset  int
	maxVisible    int
	theme         SelectListTheme
	filter        string

	OnSelect          func(SelectItem)
	OnCancel          func()
	OnSelectionChange func(SelectItem)
}

// NewSelectList creates a SelectList over items, showing at most maxVisible
// rows at a time.
func NewSelectList(items []SelectItem, maxVisible int, theme SelectListTheme) *SelectList {
	return &SelectList{
		items:         items,
		filteredItems: append([]SelectItem(nil), items...),
		maxVisible:    maxVisible,
		theme:         theme,
	}
}

// SetFilter applies a fuzzy filter over item labels and descriptions. An
// empty filter restores the unfiltered item list in its original order;
// ordering for a non-empty filter ranks by fuzzy match score.
func (sl *SelectList) SetFilter(filterText string) {
	sl.filter = filterText
	if filterText == "" {
		sl.filteredItems = append([]SelectItem(nil), sl.items...)
		sl.selectedIndex = 0
		sl.scrollOffset = 0
		return
	}

	haystacks := make([]string, len(sl.items))
	for i, item := range sl.items {
		haystacks[i] = item.Label + " " + item.Description
	}
	matches := fuzzy.Find(filterText, haystacks)

	sl.filteredItems = sl.filteredItems[:0]
	for _, m := range matches {
		sl.filteredItems = append(sl.filteredItems, sl.items[m.Index])
	}
	sl.selectedIndex = 0
	sl.scrollOffset = 0
}

// SetSelectedIndex moves the selection to index, if in range, and notifies
// OnSelectionChange.
func (sl *SelectList) SetSelectedIndex(index int) {
	if index >= 0 && index < len(sl.filteredItems) {
		sl.selectedIndex = index
		sl.notifySelectionChange()
	}
}

func (sl *SelectList) notifySelectionChange() {
	if sl.OnSelectionChange != nil && len(sl.filteredItems) > 0 {
		sl.OnSelectionChange(sl.filteredItems[sl.selectedIndex])
	}
}

// SelectedItem returns the currently selected item, or false if the list is
// empty.
func (sl *SelectList) SelectedItem() (SelectItem, bool) {
	if len(sl.filteredItems) == 0 || sl.selectedIndex < 0 || sl.selectedIndex >= len(sl.filteredItems) {
		return SelectItem{}, false
	}
	return sl.filteredItems[sl.selectedIndex], true
}

func (sl *SelectList) Invalidate() {}

func (sl *SelectList) Render(width int) []string {
	if len(sl.filteredItems) == 0 {
		noMatch := sl.theme.apply(sl.theme.NoMatch, "No matches")
		return []string{TruncateToWidth(noMatch, width, "…", false)}
	}

	total := len(sl.filteredItems)
	visibleCount := sl.maxVisible
	if visibleCount > total {
		visibleCount = total
	}

	if sl.selectedIndex < sl.scrollOffset {
		sl.scrollOffset = sl.selectedIndex
	} else if sl.selectedIndex >= sl.scrollOffset+visibleCount {
		sl.scrollOffset = sl.selectedIndex - visibleCount + 1
	}

	end := sl.scrollOffset + visibleCount
	if end > total {
		end = total
	}
	visible := sl.filteredItems[sl.scrollOffset:end]

	var lines []string
	for i, item := range visible {
		actualIndex := sl.scrollOffset + i
		isSelected := actualIndex == sl.selectedIndex

		var prefix, label string
		if isSelected {
			prefix = sl.theme.apply(sl.theme.SelectedPrefix, "> ")
			label = sl.theme.apply(sl.theme.SelectedText, item.Label)
		} else {
			prefix = "  "
			label = item.Label
		}

		line := prefix + label
		if item.Description != "" && VisibleWidth(line)+3 < width {
			desc := sl.theme.apply(sl.theme.Description, " - "+item.Description)
			line += desc
		}
		lines = append(lines, TruncateToWidth(line, width, "…", false))
	}

	if total > visibleCount {
		scrollText := " " + strconv.Itoa(sl.scrollOffset+1) + "-" + strconv.Itoa(end) + " of " + strconv.Itoa(total) + " "
		lines = append(lines, TruncateToWidth(sl.theme.apply(sl.theme.ScrollInfo, scrollText), width, "…", false))
	}

	return lines
}

func (sl *SelectList) HandleInput(data string) {
	printRune, isPrintable := isPrintableRune(data)
	switch {
	case keys.Matches(data, keys.Up):
		if n := len(sl.filteredItems); n > 0 {
			sl.selectedIndex = (sl.selectedIndex - 1 + n) % n
			sl.notifySelectionChange()
		}
	case keys.Matches(data, keys.Down):
		if n := len(sl.filteredItems); n > 0 {
			sl.selectedIndex = (sl.selectedIndex + 1) % n
			sl.notifySelectionChange()
		}
	case keys.Matches(data, keys.Enter):
		if len(sl.filteredItems) > 0 && sl.OnSelect != nil {
			sl.OnSelect(sl.filteredItems[sl.selectedIndex])
		}
	case keys.Matches(data, keys.Escape):
		if sl.filter != "" {
			sl.SetFilter("")
		} else if sl.OnCancel != nil {
			sl.OnCancel()
		}
	case keys.Matches(data, keys.Backspace):
		if sl.filter != "" {
			runes := []rune(sl.filter)
			sl.SetFilter(string(runes[:len(runes)-1]))
		}
	case isPrintable:
		sl.SetFilter(sl.filter + strings.ToLower(string(printRune)))
	}
}

var (
	_ Component    = (*SelectList)(nil)
	_ InputHandler = (*SelectList)(nil)
)
