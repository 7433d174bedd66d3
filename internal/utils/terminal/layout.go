package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	minWidth      = 40
)

// Layout tracks the terminal size for a bubbletea view and sizes sections
// to fit it.
type Layout struct {
	width  int
	height int
}

// NewLayout returns a Layout for a standard 80x24 terminal until the first
// window size message arrives.
func NewLayout() *Layout {
	return &Layout{width: defaultWidth, height: defaultHeight}
}

func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height
}

func (l *Layout) Size() (int, int) {
	return l.width, l.height
}

// SectionStyle widens base to the terminal, leaving room for borders.
func (l *Layout) SectionStyle(base lipgloss.Style) lipgloss.Style {
	return base.Width(max(l.width-4, minWidth))
}

// ContentWidth is the width available inside a section.
func (l *Layout) ContentWidth() int {
	return max(l.width-8, minWidth)
}

// Compact reports whether the terminal is too short for optional sections
// such as the help line.
func (l *Layout) Compact() bool {
	return l.height < 20 || l.width < 60
}

// MaxRows is how many one-line rows fit once reserved lines are taken.
// At least one row is always allowed.
func (l *Layout) MaxRows(reserved int) int {
	return max(l.height-reserved, 1)
}

// Truncate cuts content to the terminal height, marking the cut.
func (l *Layout) Truncate(content string) string {
	lines := strings.Split(content, "\n")
	if l.height < 3 || len(lines) <= l.height-1 {
		return content
	}

	lines = append(lines[:l.height-2], lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Render("... (content truncated)"))
	return strings.Join(lines, "\n")
}
