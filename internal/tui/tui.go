package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/shelf/internal/catalog"
	"github.com/charmbracelet/shelf/internal/config"
	"github.com/charmbracelet/shelf/internal/thumbnail"
	"github.com/charmbracelet/shelf/internal/tui/components/boundary"
	"github.com/charmbracelet/shelf/internal/tui/components/emptystate"
	"github.com/charmbracelet/shelf/internal/tui/components/product"
	"github.com/charmbracelet/shelf/internal/tui/exp/list"
	"github.com/charmbracelet/shelf/internal/tui/styles"
	"github.com/charmbracelet/shelf/internal/tui/util"
)

const defaultStatusTTL = 3 * time.Second

type productList = list.List[product.Card]

// clipboardWriter is swapped in tests.
var clipboardWriter = clipboard.WriteAll

type appModel struct {
	cfg     *config.Config
	loader  *thumbnail.Loader
	catalog *catalog.Catalog

	products []catalog.Product
	body     boundary.Boundary

	filter    textinput.Model
	filtering bool

	help   help.Model
	keyMap KeyMap
	status *util.InfoMsg

	width, height int
}

// New returns the storefront model for cat.
func New(cfg *config.Config, cat *catalog.Catalog) tea.Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "name, sku or category"

	m := &appModel{
		cfg:      cfg,
		loader:   thumbnail.NewLoader(),
		catalog:  cat,
		products: cat.Products,
		filter:   ti,
		help:     help.New(),
		keyMap:   DefaultKeyMap(),
	}
	m.body = boundary.New(m.newList(), func() util.Model { return m.newList() })
	return m
}

func (m *appModel) newList() productList {
	opts := []list.ListOption{
		list.WithItemHeight(m.cfg.Options.ItemHeight),
		list.WithOverscan(m.cfg.Overscan()),
		list.WithScrollbar(m.cfg.ShowScrollbar()),
		list.WithEnableMouse(),
	}
	if m.width > 0 && m.height > 0 {
		opts = append(opts, list.WithSize(m.width, m.bodyHeight()))
	}
	return list.New(m.cards(m.products), opts...)
}

func (m *appModel) cards(products []catalog.Product) []product.Card {
	thumbs := m.cfg.Thumbnails()
	return product.Cards(products, product.Options{
		Loader:     m.loader,
		Visibility: m.cfg.ObserverOptions(),
		ThumbWidth: thumbs.Width,
		Eager:      thumbs.Eager,
		Disabled:   thumbs.Disabled,
	})
}

func (m *appModel) list() (productList, bool) {
	l, ok := m.body.Child().(productList)
	return l, ok
}

func (m *appModel) Init() tea.Cmd {
	return m.body.Init()
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.resize()
	case util.InfoMsg:
		m.status = &msg
		ttl := msg.TTL
		if ttl == 0 {
			ttl = defaultStatusTTL
		}
		return m, tea.Tick(ttl, func(time.Time) tea.Msg { return util.ClearStatusMsg{} })
	case util.ClearStatusMsg:
		m.status = nil
		return m, nil
	case catalog.ReloadedMsg:
		if msg.Err != nil {
			return m, util.ReportError(fmt.Errorf("failed to reload catalog: %w", msg.Err))
		}
		m.catalog = msg.Catalog
		return m, tea.Batch(m.applyFilter(), util.ReportInfo(fmt.Sprintf("Reloaded %d products", len(msg.Catalog.Products))))
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	_, cmd := m.body.Update(msg)
	return m, cmd
}

func (m *appModel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.filtering {
		switch {
		case key.Matches(msg, m.keyMap.ClearFilter):
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			return tea.Batch(m.resize(), m.applyFilter())
		case key.Matches(msg, m.keyMap.AcceptFilter):
			m.filtering = false
			m.filter.Blur()
			return m.resize()
		}
		before := m.filter.Value()
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if m.filter.Value() != before {
			return tea.Batch(cmd, m.applyFilter())
		}
		return cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return tea.Quit
	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.resize()
	case key.Matches(msg, m.keyMap.Filter) && m.body.State() == boundary.Healthy:
		m.filtering = true
		return tea.Batch(m.filter.Focus(), m.resize())
	case key.Matches(msg, m.keyMap.ClearFilter) && m.filter.Value() != "":
		m.filter.SetValue("")
		return tea.Batch(m.resize(), m.applyFilter())
	case key.Matches(msg, m.keyMap.Copy):
		return m.copySelected()
	}
	_, cmd := m.body.Update(msg)
	return cmd
}

func (m *appModel) applyFilter() tea.Cmd {
	m.products = catalog.Filter(m.catalog.Products, m.filter.Value())
	l, ok := m.list()
	if !ok {
		return nil
	}
	slog.Debug("Applied filter", "query", m.filter.Value(), "matches", len(m.products))
	return l.SetItems(m.cards(m.products))
}

func (m *appModel) copySelected() tea.Cmd {
	l, ok := m.list()
	if !ok {
		return nil
	}
	selected := l.SelectedItem()
	if selected == nil {
		return util.ReportWarn("Nothing selected")
	}
	id := (*selected).ID()
	return func() tea.Msg {
		if err := clipboardWriter(id); err != nil {
			return util.InfoMsg{Type: util.InfoTypeError, Msg: fmt.Sprintf("failed to copy to clipboard: %v", err)}
		}
		return util.InfoMsg{Type: util.InfoTypeInfo, Msg: "Copied " + id}
	}
}

func (m *appModel) showFilter() bool {
	return m.filtering || m.filter.Value() != ""
}

func (m *appModel) helpKeys() helpKeyMap {
	k := helpKeyMap{app: m.keyMap, filtering: m.filtering}
	if l, ok := m.list(); ok {
		k.list = l.KeyMap()
	}
	k.extra = m.body.Bindings()
	return k
}

func (m *appModel) bodyHeight() int {
	h := m.height - 2 // header and status
	if m.showFilter() {
		h--
	}
	h -= lipgloss.Height(m.help.View(m.helpKeys()))
	return max(h, 1)
}

func (m *appModel) resize() tea.Cmd {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	m.filter.SetWidth(max(m.width-4, 1))
	return m.body.SetSize(m.width, m.bodyHeight())
}

func (m *appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	t := styles.CurrentTheme()

	rows := []string{m.headerView()}
	if m.showFilter() {
		rows = append(rows, m.filter.View())
	}
	if l, ok := m.list(); ok && l.Len() == 0 && m.body.State() == boundary.Healthy {
		rows = append(rows, emptystate.View(m.width, m.bodyHeight(), m.emptyMessage()))
	} else {
		rows = append(rows, m.body.View())
	}
	rows = append(rows, m.statusView(), m.help.View(m.helpKeys()))
	return t.S().Base.Width(m.width).MaxHeight(m.height).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *appModel) emptyMessage() string {
	if m.filter.Value() != "" {
		return fmt.Sprintf("No products match %q", m.filter.Value())
	}
	return "This shelf is empty"
}

func (m *appModel) headerView() string {
	t := styles.CurrentTheme()
	count := fmt.Sprintf("%d of %d products", len(m.products), len(m.catalog.Products))
	if l, ok := m.list(); ok && m.cfg.Options.Debug {
		r := l.Range()
		count += fmt.Sprintf(" · rows %d-%d · %d thumbs", r.Start, r.End, m.loader.Len())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		t.S().Title.Render("shelf"),
		" ",
		t.S().Muted.Render(count),
	)
}

func (m *appModel) statusView() string {
	t := styles.CurrentTheme()
	if m.status == nil {
		return ""
	}
	switch m.status.Type {
	case util.InfoTypeError:
		return t.S().Error.Render(m.status.Msg)
	case util.InfoTypeWarn:
		return t.S().Warning.Render(m.status.Msg)
	default:
		return t.S().Info.Render(m.status.Msg)
	}
}
