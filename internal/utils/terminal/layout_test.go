package terminal

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestLayout_Defaults(t *testing.T) {
	l := NewLayout()
	w, h := l.Size()
	assert.Equal(t, 80, w)
	assert.Equal(t, 24, h)
	assert.Equal(t, 72, l.ContentWidth())
	assert.False(t, l.Compact())
}

func TestLayout_MinimumWidths(t *testing.T) {
	l := NewLayout()
	l.SetSize(30, 10)

	assert.Equal(t, minWidth, l.ContentWidth())
	assert.Equal(t, minWidth, l.SectionStyle(lipgloss.NewStyle()).GetWidth())
	assert.True(t, l.Compact())
}

func TestLayout_MaxRows(t *testing.T) {
	l := NewLayout()
	l.SetSize(80, 12)

	assert.Equal(t, 4, l.MaxRows(8))
	assert.Equal(t, 1, l.MaxRows(40))
}

func TestLayout_Truncate(t *testing.T) {
	l := NewLayout()
	l.SetSize(80, 5)

	short := "a\nb\nc"
	assert.Equal(t, short, l.Truncate(short))

	out := l.Truncate("1\n2\n3\n4\n5\n6\n7")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, []string{"1", "2", "3"}, lines[:3])
	assert.Contains(t, lines[3], "content truncated")
}
