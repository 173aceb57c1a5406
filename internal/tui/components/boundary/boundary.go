// Package boundary keeps a panicking component from taking the whole program
// down. The wrapped model is replaced by a recovery view until the user asks
// to retry.
package boundary

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/shelf/internal/tui/components/core/layout"
	"github.com/charmbracelet/shelf/internal/tui/styles"
	"github.com/charmbracelet/shelf/internal/tui/util"
)

var ErrPanic = errors.New("component panicked")

type State int

const (
	Healthy State = iota
	Failed
)

func (s State) String() string {
	if s == Failed {
		return "failed"
	}
	return "healthy"
}

// Boundary wraps a child model and recovers from its panics.
type Boundary interface {
	util.Model
	layout.Sizeable
	layout.Help
	State() State
	Err() error
	Child() util.Model
}

// Teardowner is a child that holds resources, such as visibility
// subscriptions, which must be released before the child is replaced.
type Teardowner interface {
	Teardown()
}

type boundary struct {
	child  util.Model
	reset  func() util.Model
	keyMap KeyMap

	state State
	err   error

	width, height int
}

// New wraps child. reset builds a fresh child when the user retries after a
// failure; a nil reset retries with the failed child as is.
func New(child util.Model, reset func() util.Model) Boundary {
	return &boundary{
		child:  child,
		reset:  reset,
		keyMap: DefaultKeyMap(),
	}
}

func (b *boundary) Init() tea.Cmd {
	var cmd tea.Cmd
	b.guard("init", func() {
		cmd = b.child.Init()
	})
	return cmd
}

func (b *boundary) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if b.state == Failed {
		if msg, ok := msg.(tea.KeyPressMsg); ok && key.Matches(msg, b.keyMap.Retry) {
			return b, b.retry()
		}
		return b, nil
	}

	var cmd tea.Cmd
	b.guard("update", func() {
		var updated tea.Model
		updated, cmd = b.child.Update(msg)
		if m, ok := updated.(util.Model); ok {
			b.child = m
		}
	})
	return b, cmd
}

func (b *boundary) View() string {
	if b.state == Healthy {
		var view string
		if b.guard("view", func() { view = b.child.View() }) {
			return view
		}
	}
	return b.fallbackView()
}

func (b *boundary) fallbackView() string {
	t := styles.CurrentTheme()
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		t.S().Error.Bold(true).Render("Something went wrong."),
		t.S().Muted.Render(fmt.Sprintf("Press %s to %s.", b.keyMap.Retry.Help().Key, b.keyMap.Retry.Help().Desc)),
	)
	style := t.S().Base.Padding(1, 2)
	if b.width > 0 && b.height > 0 {
		style = style.Width(b.width).Height(b.height)
	}
	return style.Render(content)
}

func (b *boundary) retry() tea.Cmd {
	if b.reset != nil {
		teardown(b.child)
		b.child = b.reset()
	}
	b.state = Healthy
	b.err = nil
	slog.Info("Retrying failed component")

	var cmds []tea.Cmd
	if s, ok := b.child.(layout.Sizeable); ok && b.width > 0 && b.height > 0 {
		b.guard("resize", func() { cmds = append(cmds, s.SetSize(b.width, b.height)) })
	}
	cmds = append(cmds, b.Init())
	return tea.Batch(cmds...)
}

// teardown releases a failed child. The child is already broken, so a panic
// here is only logged.
func teardown(child util.Model) {
	t, ok := child.(Teardowner)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Failed to tear down component", "panic", r)
		}
	}()
	t.Teardown()
}

// guard runs fn and reports whether it returned without panicking. A panic
// moves the boundary to Failed.
func (b *boundary) guard(op string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.state = Failed
			b.err = fmt.Errorf("%w during %s: %v", ErrPanic, op, r)
			slog.Error("Recovered from component panic", "op", op, "panic", r, "stack", string(debug.Stack()))
			ok = false
		}
	}()
	fn()
	return true
}

func (b *boundary) SetSize(width, height int) tea.Cmd {
	b.width = width
	b.height = height
	s, ok := b.child.(layout.Sizeable)
	if !ok || b.state == Failed {
		return nil
	}
	var cmd tea.Cmd
	b.guard("resize", func() { cmd = s.SetSize(width, height) })
	return cmd
}

func (b *boundary) GetSize() (int, int) {
	return b.width, b.height
}

func (b *boundary) Bindings() []key.Binding {
	if b.state == Failed {
		return b.keyMap.Bindings()
	}
	return nil
}

func (b *boundary) State() State {
	return b.state
}

func (b *boundary) Err() error {
	return b.err
}

func (b *boundary) Child() util.Model {
	return b.child
}
