package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/shelf/internal/catalog"
	"github.com/charmbracelet/shelf/internal/config"
	"github.com/charmbracelet/shelf/internal/tui/util"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, n int) *appModel {
	t.Helper()
	m := New(config.Default(t.TempDir()), catalog.Generate(n, nil)).(*appModel)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

func press(m *appModel, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func typeText(m *appModel, s string) {
	for _, r := range s {
		press(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func view(m *appModel) string {
	return ansi.Strip(m.View())
}

func TestApp(t *testing.T) {
	t.Parallel()

	t.Run("should render the catalog", func(t *testing.T) {
		t.Parallel()
		m := newTestApp(t, 50)
		v := view(m)
		assert.Contains(t, v, "shelf 50 of 50 products")
		assert.Contains(t, v, m.catalog.Products[0].Name)
		assert.LessOrEqual(t, len(strings.Split(v, "\n")), 30)

		l, ok := m.list()
		require.True(t, ok)
		assert.Equal(t, 0, l.Range().Start)
		assert.Less(t, l.Range().End, 49, "only a window is materialized")
	})

	t.Run("should filter and clear", func(t *testing.T) {
		t.Parallel()
		m := newTestApp(t, 50)
		press(m, tea.KeyPressMsg{Code: '/', Text: "/"})
		require.True(t, m.filtering)
		typeText(m, "Hoodie")

		assert.NotEmpty(t, m.products)
		assert.Less(t, len(m.products), 50)
		for _, p := range m.products {
			assert.Contains(t, strings.ToLower(p.Name+p.SKU+p.Category), "h")
		}
		l, _ := m.list()
		assert.Equal(t, len(m.products), l.Len())

		press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
		assert.False(t, m.filtering)
		assert.Contains(t, view(m), "/ Hoodie")

		press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
		assert.Len(t, m.products, 50)
		assert.Contains(t, view(m), "shelf 50 of 50 products")
	})

	t.Run("should show the empty state", func(t *testing.T) {
		t.Parallel()
		m := newTestApp(t, 10)
		press(m, tea.KeyPressMsg{Code: '/', Text: "/"})
		typeText(m, "zzzzzz")
		assert.Empty(t, m.products)
		assert.Contains(t, view(m), `No products match "zzzzzz"`)
	})

	t.Run("should replace items on reload", func(t *testing.T) {
		t.Parallel()
		m := newTestApp(t, 10)
		m.Update(catalog.ReloadedMsg{Catalog: catalog.Generate(3, nil)})
		assert.Contains(t, view(m), "shelf 3 of 3 products")

		_, cmd := m.Update(catalog.ReloadedMsg{Err: errors.New("bad json")})
		require.NotNil(t, cmd)
		msg, ok := cmd().(util.InfoMsg)
		require.True(t, ok)
		assert.Equal(t, util.InfoTypeError, msg.Type)
		m.Update(msg)
		assert.Contains(t, view(m), "failed to reload catalog: bad json")
		assert.Contains(t, view(m), "shelf 3 of 3 products", "keeps the last good catalog")
	})

	t.Run("should toggle help", func(t *testing.T) {
		t.Parallel()
		m := newTestApp(t, 10)
		short := view(m)
		press(m, tea.KeyPressMsg{Code: '?', Text: "?"})
		assert.True(t, m.help.ShowAll)
		assert.NotEqual(t, short, view(m))
	})

	t.Run("should quit", func(t *testing.T) {
		t.Parallel()
		m := newTestApp(t, 1)
		cmd := press(m, tea.KeyPressMsg{Code: 'q', Text: "q"})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestAppCopy(t *testing.T) {
	var copied string
	orig := clipboardWriter
	clipboardWriter = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { clipboardWriter = orig })

	m := newTestApp(t, 5)
	cmd := press(m, tea.KeyPressMsg{Code: 'c', Text: "c"})
	require.NotNil(t, cmd)
	msg := cmd().(util.InfoMsg)
	assert.Equal(t, m.catalog.Products[0].ID, copied)
	m.Update(msg)
	assert.Contains(t, view(m), "Copied "+copied)
}
