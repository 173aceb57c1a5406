package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"github.com/zeebo/xxh3"
)

const upperHalfBlock = "▀"

// Blocks renders img into width x height cells. Every cell holds two pixels,
// the upper one as foreground and the lower one as background.
func Blocks(img image.Image, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	small := resize.Resize(uint(width), uint(height*2), img, resize.Bilinear)
	b := small.Bounds()

	var sb strings.Builder
	for row := range height {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range width {
			top := small.At(b.Min.X+col, b.Min.Y+row*2)
			bottom := small.At(b.Min.X+col, b.Min.Y+row*2+1)
			sb.WriteString(cell(top, bottom))
		}
	}
	return sb.String()
}

func cell(top, bottom color.Color) string {
	return lipgloss.NewStyle().
		Foreground(opaque(top)).
		Background(opaque(bottom)).
		Render(upperHalfBlock)
}

// opaque drops the alpha channel, blending onto black.
func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}

// Placeholder renders a gradient that stands in for a thumbnail until it is
// loaded. The same seed always yields the same gradient.
func Placeholder(width, height int, seed string) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	from, to := placeholderColors(seed)

	var sb strings.Builder
	for row := range height {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range width {
			t := 0.0
			if steps := width + height - 2; steps > 0 {
				t = float64(col+row) / float64(steps)
			}
			c := from.BlendLab(to, t).Clamped()
			sb.WriteString(lipgloss.NewStyle().Foreground(c).Render("░"))
		}
	}
	return sb.String()
}

func placeholderColors(seed string) (colorful.Color, colorful.Color) {
	h := xxh3.HashString(seed)
	hue := float64(h % 360)
	from := colorful.Hcl(hue, 0.25, 0.55)
	to := colorful.Hcl(float64(int(hue+60)%360), 0.3, 0.35)
	return from, to
}

// Key identifies a rendered thumbnail in a cache.
func Key(path string, width, height int) uint64 {
	return xxh3.HashString(fmt.Sprintf("%s|%d|%d", path, width, height))
}
