package tui

import (
	"strings"

	"tui/keys"
)

// Input is a single-line text field with cursor navigation, optional
// password masking, and an optional placeholder shown while empty and
// unfocused.
type Input struct {
	text        []rune
	placeholder string
	password    bool
	cursorPos   int
	focused     bool
	maxLength   int

	OnSubmit func(value string)
	OnCancel func()
}

// NewInput creates an Input with the given placeholder.
func NewInput(placeholder string) *Input {
	return &Input{placeholder: placeholder}
}

// SetPassword toggles masking of the displayed value with asterisks.
func (in *Input) SetPassword(password bool) { in.password = password }

// SetMaxLength caps the number of runes accepted; 0 means unlimited.
func (in *Input) SetMaxLength(n int) { in.maxLength = n }

// Value returns the current text.
func (in *Input) Value() string { return string(in.text) }

// SetValue replaces the text and moves the cursor to the end.
func (in *Input) SetValue(text string) {
	in.text = []rune(text)
	in.cursorPos = len(in.text)
}

func (in *Input) Focused() bool { return in.focused }

func (in *Input) SetFocused(focused bool) { in.focused = focused }

func (in *Input) Invalidate() {}

func (in *Input) Render(width int) []string {
	display := string(in.text)
	if in.password {
		display = strings.Repeat("*", len(in.text))
	}

	if display == "" && !in.focused {
		return []string{TruncateToWidth(dimText(in.placeholder), width, "…", false)}
	}

	displayRunes := []rune(display)
	if VisibleWidth(display) > width-2 {
		display = TruncateToWidth(display, width-2, "", false)
		displayRunes = []rune(display)
	}

	cursor := in.cursorPos
	if cursor > len(displayRunes) {
		cursor = len(displayRunes)
	}
	before := string(displayRunes[:cursor])
	at := " "
	after := ""
	if cursor < len(displayRunes) {
		at = string(displayRunes[cursor])
		after = string(displayRunes[cursor+1:])
	}

	var line string
	if in.focused {
		line = "> " + before + CursorMarker + "\x1b[7m" + at + "\x1b[27m" + after
	} else {
		line = "> " + before + at + after
	}

	return []string{TruncateToWidth(line, width, "", false)}
}

func dimText(s string) string {
	if s == "" {
		return ""
	}
	return "\x1b[2m" + s + "\x1b[0m"
}

func (in *Input) HandleInput(data string) {
	printRune, isPrintable := isPrintableRune(data)
	switch {
	case keys.Matches(data, keys.Left):
		if in.cursorPos > 0 {
			in.cursorPos--
		}
	case keys.Matches(data, keys.Right):
		if in.cursorPos < len(in.text) {
			in.cursorPos++
		}
	case keys.Matches(data, keys.Home), keys.Matches(data, keys.Ctrl("a")):
		in.cursorPos = 0
	case keys.Matches(data, keys.End), keys.Matches(data, keys.Ctrl("e")):
		in.cursorPos = len(in.text)
	case keys.Matches(data, keys.Backspace):
		if in.cursorPos > 0 {
			in.text = append(in.text[:in.cursorPos-1], in.text[in.cursorPos:]...)
			in.cursorPos--
		}
	case keys.Matches(data, keys.Delete):
		if in.cursorPos < len(in.text) {
			in.text = append(in.text[:in.cursorPos], in.text[in.cursorPos+1:]...)
		}
	case keys.Matches(data, keys.Ctrl("u")):
		in.text = in.text[in.cursorPos:]
		in.cursorPos = 0
	case keys.Matches(data, keys.Ctrl("k")):
		in.text = in.text[:in.cursorPos]
	case keys.Matches(data, keys.Escape):
		if in.OnCancel != nil {
			in.OnCancel()
		}
	case keys.Matches(data, keys.Enter):
		if in.OnSubmit != nil {
			in.OnSubmit(string(in.text))
		}
	case isPrintable:
		if in.maxLength == 0 || len(in.text) < in.maxLength {
			in.text = append(in.text[:in.cursorPos], append([]rune{printRune}, in.text[in.cursorPos:]...)...)
			in.cursorPos++
		}
	}
}

var (
	_ Focusable    = (*Input)(nil)
	_ InputHandler = (*Input)(nil)
)
