package emptystate

import (
	"strings"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestDraw(t *testing.T) {
	t.Parallel()

	scr := uv.NewScreenBuffer(Width, Height)
	Draw(scr, uv.Rect(0, 0, Width, Height), uv.Style{})
	lines := strings.Split(ansi.Strip(scr.Render()), "\n")
	assert.Len(t, lines, Height)
	assert.Equal(t, "▄▀▀▀▀▀▀▄", strings.TrimSpace(lines[0]))
	assert.Equal(t, strings.Repeat("▀", 14), strings.TrimSpace(lines[Height-1]))
}

func TestView(t *testing.T) {
	t.Parallel()

	view := ansi.Strip(View(40, 20, "No products match"))
	assert.Contains(t, view, "No products match")
	assert.Contains(t, view, "▀▀▀▀")
	assert.Len(t, strings.Split(view, "\n"), 20)

	small := ansi.Strip(View(30, 2, "empty"))
	assert.NotContains(t, small, "▀", "too short for the bag")
	assert.Contains(t, small, "empty")

	assert.Empty(t, View(0, 0, "x"))
}
