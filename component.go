package tui

import "fmt"

// Component is the contract every renderable node implements. Render must
// return lines whose visible width is <= width; Invalidate drops any
// memoized render so the next call recomputes from current state.
type Component interface {
	Render(width int) []string
	Invalidate()
}

// Focusable is implemented by components that can hold keyboard focus and
// want the hardware cursor placed for IME candidate windows. A focused
// component should emit CursorMarker at its cursor position in Render's
// output; the renderer locates and strips it (see CursorMarker).
type Focusable interface {
	Component
	Focused() bool
	SetFocused(bool)
}

// InputHandler is implemented by components that react to routed input.
type InputHandler interface {
	HandleInput(data string)
}

// KeyReleaseAware is implemented by components that want Kitty-protocol
// key-release events delivered to HandleInput. Events are filtered out
// before dispatch for everything else.
type KeyReleaseAware interface {
	WantsKeyRelease() bool
}

// IsFocusable reports whether c implements Focusable.
func IsFocusable(c Component) bool {
	_, ok := c.(Focusable)
	return ok
}

// Container is a Component that owns and vertically concatenates children.
// Containers exclusively own their children: there is no parent pointer,
// invalidation only ever climbs because the caller already holds the
// reference that needs invalidating.
type Container interface {
	Component
	Children() []Component
	AddChild(Component)
	RemoveChild(Component)
	Clear()
}

// Stack is the base vertical container: it renders each child in order and
// concatenates their lines. Embed it to get Container for free, or use it
// directly as a plain grouping node.
type Stack struct {
	children []Component
}

// NewStack creates an empty vertical stack, optionally seeded with children.
func NewStack(children ...Component) *Stack {
	return &Stack{children: append([]Component(nil), children...)}
}

// Children returns the stack's children in render order.
func (s *Stack) Children() []Component {
	return s.children
}

// AddChild appends a child to the stack.
func (s *Stack) AddChild(c Component) {
	s.children = append(s.children, c)
}

// RemoveChild removes the first occurrence of c, if present.
func (s *Stack) RemoveChild(c Component) {
	for i, ch := range s.children {
		if ch == c {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// Clear removes all children.
func (s *Stack) Clear() {
	s.children = s.children[:0]
}

// Invalidate propagates to every child.
func (s *Stack) Invalidate() {
	for _, c := range s.children {
		c.Invalidate()
	}
}

// Render concatenates each child's lines in order, at the given width. A
// child whose Render panics is isolated: it contributes a single line
// naming its type instead of bringing down the whole frame.
func (s *Stack) Render(width int) []string {
	var lines []string
	for _, c := range s.children {
		lines = append(lines, renderChildSafe(c, width)...)
	}
	return lines
}

// renderChildSafe recovers from a panicking Render and substitutes a
// one-line placeholder so a single bad component can't corrupt the frame.
func renderChildSafe(c Component, width int) (lines []string) {
	defer func() {
		if r := recover(); r != nil {
			lines = []string{TruncateToWidth(componentLabel(c), width, "", false)}
		}
	}()
	return c.Render(width)
}

func componentLabel(c Component) string {
	return fmt.Sprintf("[%T failed to render]", c)
}
