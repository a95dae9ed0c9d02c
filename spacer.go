package tui

// Spacer renders a fixed number of blank lines.
type Spacer struct {
	height int
}

// NewSpacer creates a Spacer of the given height.
func NewSpacer(height int) *Spacer {
	return &Spacer{height: height}
}

func (s *Spacer) Invalidate() {}

func (s *Spacer) Render(width int) []string {
	lines := make([]string, s.height)
	return lines
}

var _ Component = (*Spacer)(nil)
