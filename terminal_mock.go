package tui

import (
	"strings"
	"time"
)

// MockTerminal is an in-memory Terminal for tests: output is appended to a
// buffer, input is served from a queue instead of a real file descriptor.
type MockTerminal struct {
	cols, rows int

	output strings.Builder
	input  []string

	cursorVisible bool
	raw           bool
}

// NewMockTerminal creates a MockTerminal with the given size.
func NewMockTerminal(cols, rows int) *MockTerminal {
	return &MockTerminal{cols: cols, rows: rows, cursorVisible: true}
}

func (m *MockTerminal) Write(data string) {
	m.output.WriteString(data)
}

func (m *MockTerminal) ReadSequence(timeout time.Duration) (string, bool) {
	if len(m.input) == 0 {
		return "", false
	}
	next := m.input[0]
	m.input = m.input[1:]
	return next, true
}

func (m *MockTerminal) Size() (cols, rows int) { return m.cols, m.rows }

func (m *MockTerminal) SetRawMode() error { m.raw = true; return nil }
func (m *MockTerminal) RestoreMode() error { m.raw = false; return nil }

func (m *MockTerminal) HideCursor() { m.cursorVisible = false }
func (m *MockTerminal) ShowCursor() { m.cursorVisible = true }

// CursorVisible reports whether the mock cursor is currently shown.
func (m *MockTerminal) CursorVisible() bool { return m.cursorVisible }

// IsRaw reports whether SetRawMode has been called without a matching
// RestoreMode.
func (m *MockTerminal) IsRaw() bool { return m.raw }

// Resize changes the reported terminal size, as SIGWINCH would on a real
// terminal. Tests call this directly instead of sending a signal.
func (m *MockTerminal) Resize(cols, rows int) {
	m.cols, m.rows = cols, rows
}

// QueueInput appends a chunk to be returned by a future ReadSequence call.
// Queue one chunk per call for a single key; queue the full escape sequence
// as one chunk to simulate an already-segmented special key.
func (m *MockTerminal) QueueInput(chunk string) {
	m.input = append(m.input, chunk)
}

// Output returns everything written so far.
func (m *MockTerminal) Output() string {
	return m.output.String()
}

// ResetOutput clears the recorded output buffer.
func (m *MockTerminal) ResetOutput() {
	m.output.Reset()
}

var _ Terminal = (*MockTerminal)(nil)
