package styles

import (
	"image/color"
	"sync"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	styles     *Styles
	stylesOnce sync.Once
}

type Styles struct {
	Base     lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Subtle   lipgloss.Style

	Price    lipgloss.Style
	Selected lipgloss.Style

	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// S returns the theme's derived styles.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = buildStyles(t)
	})
	return t.styles
}

func buildStyles(t *Theme) *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:     base,
		Title:    base.Foreground(t.Accent).Bold(true),
		Subtitle: base.Foreground(t.Secondary).Bold(true),
		Muted:    base.Foreground(t.FgMuted),
		Subtle:   base.Foreground(t.FgSubtle),

		Price: base.Foreground(t.Success).Bold(true),
		Selected: base.
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(t.BorderFocus),

		ScrollbarThumb: base.Foreground(t.Primary),
		ScrollbarTrack: base.Foreground(t.Border),

		Success: base.Foreground(t.Success),
		Error:   base.Foreground(t.Error),
		Warning: base.Foreground(t.Warning),
		Info:    base.Foreground(t.Info),
	}
}

func NewCharmtoneTheme() *Theme {
	return &Theme{
		Name:   "charmtone",
		IsDark: true,

		Primary:   charmtone.Charple,
		Secondary: charmtone.Dolly,
		Tertiary:  charmtone.Bok,
		Accent:    charmtone.Zest,

		BgBase:    charmtone.Pepper,
		BgSubtle:  charmtone.Charcoal,
		BgOverlay: charmtone.Iron,

		FgBase:   charmtone.Ash,
		FgMuted:  charmtone.Squid,
		FgSubtle: charmtone.Oyster,

		Border:      charmtone.Charcoal,
		BorderFocus: charmtone.Charple,

		Success: charmtone.Guac,
		Error:   charmtone.Sriracha,
		Warning: charmtone.Zest,
		Info:    charmtone.Malibu,
	}
}

var (
	currentMu sync.RWMutex
	current   = NewCharmtoneTheme()
)

func CurrentTheme() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

func SetTheme(t *Theme) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = t
}
