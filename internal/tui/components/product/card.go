package product

import (
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/shelf/internal/catalog"
	"github.com/charmbracelet/shelf/internal/thumbnail"
	"github.com/charmbracelet/shelf/internal/tui/components/core/layout"
	"github.com/charmbracelet/shelf/internal/tui/exp/list"
	"github.com/charmbracelet/shelf/internal/tui/styles"
	"github.com/charmbracelet/shelf/internal/tui/util"
	"github.com/charmbracelet/shelf/internal/visibility"
	"github.com/charmbracelet/x/ansi"
)

type Card interface {
	list.Lazy
	layout.Focusable
	Product() catalog.Product
	Status() Status
}

// Status is where the card's thumbnail is in its lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
	StatusNone
)

type Options struct {
	Loader     *thumbnail.Loader
	Visibility visibility.Options
	ThumbWidth int
	// Eager loads the thumbnail as soon as the card is materialized.
	Eager bool
	// Disabled never loads thumbnails.
	Disabled bool
}

type card struct {
	product catalog.Product
	opts    Options

	width, height int
	focused       bool

	observer *visibility.Observer
	visible  bool
	status   Status
	thumb    string
}

var _ Card = (*card)(nil)

func New(p catalog.Product, opts Options) Card {
	c := &card{product: p, opts: opts}
	if opts.Disabled || p.Thumbnail == "" || opts.Loader == nil {
		c.status = StatusNone
	}
	return c
}

func (c *card) ID() string {
	return c.product.ID
}

func (c *card) Product() catalog.Product {
	return c.product
}

func (c *card) Status() Status {
	return c.status
}

func (c *card) Init() tea.Cmd {
	return nil
}

func (c *card) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case thumbnail.LoadedMsg:
		if msg.Err != nil {
			c.status = StatusFailed
			return c, nil
		}
		c.status = StatusLoaded
		c.thumb = msg.View
	}
	return c, nil
}

// Watch implements list.Lazy. Cards only observe visibility while their
// thumbnail is still pending.
func (c *card) Watch(d visibility.Detector) tea.Cmd {
	if c.status != StatusIdle {
		return nil
	}
	if view, ok := c.opts.Loader.Cached(c.product.Thumbnail, c.thumbWidth(), c.height); ok {
		c.status = StatusLoaded
		c.thumb = view
		return nil
	}
	if c.opts.Eager {
		return c.load()
	}

	o, err := visibility.New(d, c.opts.Visibility, c.onVisibility)
	if err != nil {
		return tea.Batch(util.ReportError(err), c.load())
	}
	if !o.Supported() {
		return c.load()
	}
	o.Bind(visibility.Target(c.product.ID))
	c.observer = o
	return nil
}

func (c *card) onVisibility(s visibility.State) {
	c.visible = s.IsIntersecting
}

// Unwatch implements list.Lazy.
func (c *card) Unwatch() {
	if c.observer != nil {
		if target, ok := c.observer.Target(); ok {
			slog.Debug("Stopped watching product row", "target", target, "phase", c.observer.Phase())
		}
		c.observer.Unsubscribe()
		c.observer = nil
	}
	c.visible = false
}

// Ready implements list.Lazy.
func (c *card) Ready() tea.Cmd {
	if !c.visible || c.status != StatusIdle {
		return nil
	}
	return c.load()
}

func (c *card) load() tea.Cmd {
	c.status = StatusLoading
	return c.opts.Loader.Cmd(c.product.ID, c.product.Thumbnail, c.thumbWidth(), c.height)
}

func (c *card) thumbWidth() int {
	if c.status == StatusNone {
		return 0
	}
	return max(c.opts.ThumbWidth, 0)
}

func (c *card) View() string {
	t := styles.CurrentTheme()

	// the border or its padding takes a column
	inner := max(c.width-1, 0)
	thumbWidth := c.thumbWidth()
	detailsWidth := max(inner-thumbWidth-1, 0)
	if thumbWidth == 0 {
		detailsWidth = inner
	}

	details := []string{
		t.S().Title.Render(ansi.Truncate(c.product.Name, detailsWidth, "…")),
		t.S().Muted.Render(ansi.Truncate(c.subtitle(), detailsWidth, "…")),
		t.S().Price.Render(c.product.FormatPrice()),
	}
	if len(details) > c.height {
		details = details[:c.height]
	}
	body := t.S().Base.Width(detailsWidth).Render(strings.Join(details, "\n"))

	if thumbWidth > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, c.thumbnailView(thumbWidth), " ", body)
	}

	style := t.S().Base.PaddingLeft(1)
	if c.focused {
		style = t.S().Selected
	}
	return style.Width(c.width).Height(c.height).MaxHeight(c.height).Render(body)
}

func (c *card) subtitle() string {
	parts := make([]string, 0, 2)
	if c.product.SKU != "" {
		parts = append(parts, c.product.SKU)
	}
	if c.product.Category != "" {
		parts = append(parts, c.product.Category)
	}
	return strings.Join(parts, " · ")
}

func (c *card) thumbnailView(width int) string {
	if c.status == StatusLoaded {
		return c.thumb
	}
	return thumbnail.Placeholder(width, c.height, c.product.ID)
}

func (c *card) Focus() tea.Cmd {
	c.focused = true
	return nil
}

func (c *card) Blur() tea.Cmd {
	c.focused = false
	return nil
}

func (c *card) IsFocused() bool {
	return c.focused
}

func (c *card) SetSize(width, height int) tea.Cmd {
	c.width = width
	c.height = height
	return nil
}

func (c *card) GetSize() (int, int) {
	return c.width, c.height
}

// Cards wraps products into cards that share opts.
func Cards(products []catalog.Product, opts Options) []Card {
	cards := make([]Card, len(products))
	for i, p := range products {
		cards[i] = New(p, opts)
	}
	return cards
}
