// Package emptystate draws the shopping bag shown when there is nothing on
// the shelf.
package emptystate

import (
	"strings"
	"unicode"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/shelf/internal/tui/styles"
	uv "github.com/charmbracelet/ultraviolet"
)

var Bag = heredoc.Doc(`
     ▄▀▀▀▀▀▀▄
     █      █
  ▄▄▄█▄▄▄▄▄▄█▄▄▄
  █            █
  █            █
  █            █
  ▀▀▀▀▀▀▀▀▀▀▀▀▀▀
`)

// Width and Height are the size of the bag in cells.
var (
	Width  = lipgloss.Width(Bag)
	Height = lipgloss.Height(strings.TrimSuffix(Bag, "\n"))
)

// Draw paints the bag at the top left of area, skipping blank cells so the
// background shows through.
func Draw(scr uv.Screen, area uv.Rectangle, style uv.Style) {
	for y, line := range strings.Split(strings.TrimSuffix(Bag, "\n"), "\n") {
		x := 0
		for _, r := range line {
			if area.Min.X+x >= area.Max.X {
				break
			}
			if !unicode.IsSpace(r) && area.Min.Y+y < area.Max.Y {
				scr.SetCell(area.Min.X+x, area.Min.Y+y, &uv.Cell{
					Style:   style,
					Content: string(r),
					Width:   1,
				})
			}
			x++
		}
	}
}

// View renders the bag and msg centered in a width x height box.
func View(width, height int, msg string) string {
	t := styles.CurrentTheme()
	if width <= 0 || height <= 0 {
		return ""
	}

	scr := uv.NewScreenBuffer(Width, Height)
	Draw(scr, uv.Rect(0, 0, Width, Height), uv.Style{Fg: t.Primary})

	content := lipgloss.JoinVertical(lipgloss.Center, scr.Render(), "", t.S().Muted.Render(msg))
	if lipgloss.Height(content) > height {
		content = t.S().Muted.Render(msg)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
