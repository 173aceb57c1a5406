package boundary

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/shelf/internal/tui/util"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicMsg struct{}

type fragile struct {
	panicOnView bool
	updates     int
	width       int
	teardowns   int
}

func (f *fragile) Teardown() {
	f.teardowns++
}

func (f *fragile) Init() tea.Cmd {
	return nil
}

func (f *fragile) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(panicMsg); ok {
		panic("boom")
	}
	f.updates++
	return f, nil
}

func (f *fragile) View() string {
	if f.panicOnView {
		panic("cannot render")
	}
	return "all good"
}

func (f *fragile) SetSize(width, height int) tea.Cmd {
	f.width = width
	return nil
}

func (f *fragile) GetSize() (int, int) {
	return f.width, 0
}

func TestBoundary(t *testing.T) {
	t.Parallel()

	t.Run("should pass through while healthy", func(t *testing.T) {
		t.Parallel()
		child := &fragile{}
		b := New(child, nil)
		b.Init()
		b.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
		assert.Equal(t, 1, child.updates)
		assert.Equal(t, "all good", b.View())
		assert.Equal(t, Healthy, b.State())
		assert.Empty(t, b.Bindings())
	})

	t.Run("should recover from update panics and retry", func(t *testing.T) {
		t.Parallel()
		resets := 0
		failed := &fragile{}
		b := New(failed, func() util.Model {
			resets++
			return &fragile{}
		})
		b.SetSize(40, 10)

		b.Update(panicMsg{})
		assert.Equal(t, Failed, b.State())
		require.ErrorIs(t, b.Err(), ErrPanic)
		assert.Contains(t, b.Err().Error(), "boom")
		assert.Contains(t, ansi.Strip(b.View()), "Something went wrong.")
		assert.Len(t, b.Bindings(), 1)

		// messages are dropped while failed
		b.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
		assert.Equal(t, Failed, b.State())

		b.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
		assert.Equal(t, Healthy, b.State())
		assert.NoError(t, b.Err())
		assert.Equal(t, 1, resets)
		assert.Equal(t, 1, failed.teardowns, "the failed child is torn down before it is replaced")
		assert.Zero(t, b.Child().(*fragile).teardowns)
		assert.Equal(t, 40, b.Child().(*fragile).width, "fresh child gets the current size")
		assert.Equal(t, "all good", b.View())
	})

	t.Run("should recover from view panics", func(t *testing.T) {
		t.Parallel()
		b := New(&fragile{panicOnView: true}, func() util.Model { return &fragile{} })
		view := ansi.Strip(b.View())
		assert.Contains(t, view, "Press r to retry.")
		assert.Equal(t, Failed, b.State())

		b.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
		assert.Equal(t, "all good", b.View())
	})

	t.Run("should fail again when retrying without a reset", func(t *testing.T) {
		t.Parallel()
		b := New(&fragile{panicOnView: true}, nil)
		b.View()
		b.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
		b.View()
		assert.Equal(t, Failed, b.State())
		assert.Zero(t, b.Child().(*fragile).teardowns, "a child that is kept is not torn down")
	})
}
