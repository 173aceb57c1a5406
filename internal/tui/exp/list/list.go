package list

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/shelf/internal/csync"
	"github.com/charmbracelet/shelf/internal/tui/components/core/layout"
	"github.com/charmbracelet/shelf/internal/tui/styles"
	"github.com/charmbracelet/shelf/internal/tui/util"
	"github.com/charmbracelet/shelf/internal/visibility"
	"github.com/charmbracelet/shelf/internal/window"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

type Item interface {
	util.Model
	layout.Sizeable
	ID() string
}

// Lazy is an item that defers work until it becomes visible. Watch is called
// when the item is materialized and Unwatch when it leaves the window or the
// list. Ready is called after a visibility check notified the item.
type Lazy interface {
	Item
	Watch(visibility.Detector) tea.Cmd
	Unwatch()
	Ready() tea.Cmd
}

// ItemMsg is a message addressed to a single item.
type ItemMsg interface {
	ItemID() string
}

type List[T Item] interface {
	util.Model
	layout.Sizeable
	layout.Focusable

	// Just change state
	MoveUp(int) tea.Cmd
	MoveDown(int) tea.Cmd
	GoToTop() tea.Cmd
	GoToBottom() tea.Cmd
	SelectItemAbove() tea.Cmd
	SelectItemBelow() tea.Cmd
	SetItems([]T) tea.Cmd
	SetSelected(string) tea.Cmd
	SelectedItem() *T
	Items() []T
	Len() int
	UpdateItem(string, T) tea.Cmd
	DeleteItem(string) tea.Cmd
	PrependItem(T) tea.Cmd
	AppendItem(T) tea.Cmd

	// Teardown releases every mounted item. The list can render again
	// afterwards.
	Teardown()

	// Range is the last materialized range.
	Range() window.Range
	Offset() int
	KeyMap() KeyMap
}

const (
	ItemNotFound              = -1
	ViewportDefaultScrollSize = 2
	DefaultItemHeight         = 1
)

type confOptions struct {
	width, height int
	itemHeight    int
	overscan      int
	// if you are at the last item and go down it will wrap to the top
	wrap          bool
	keyMap        KeyMap
	selectedIndex int
	focused       bool
	enableMouse   bool
	scrollbar     bool
	visibility    bool
}

type list[T Item] struct {
	*confOptions

	offset int

	indexMap *csync.Map[string, int]
	items    *csync.Slice[T]

	memo      window.Memo
	rng       window.Range
	viewCache *csync.Map[string, string]

	// Materialized items, by id.
	mounted  map[string]T
	// The item that was last focused, which may no longer be mounted.
	focusedID string
	geometry *visibility.Geometry

	renderMu sync.Mutex
	rendered string
}

type ListOption func(*confOptions)

// WithSize sets the size of the list.
func WithSize(width, height int) ListOption {
	return func(l *confOptions) {
		l.width = width
		l.height = height
	}
}

// WithItemHeight sets the fixed height of every item, in rows.
func WithItemHeight(height int) ListOption {
	return func(l *confOptions) {
		l.itemHeight = max(height, 1)
	}
}

// WithOverscan sets how many items are materialized beyond each edge of the
// viewport.
func WithOverscan(n int) ListOption {
	return func(l *confOptions) {
		l.overscan = max(n, 0)
	}
}

// WithSelectedIndex sets the initially selected item in the list by index.
func WithSelectedIndex(index int) ListOption {
	return func(l *confOptions) {
		l.selectedIndex = index
	}
}

func WithKeyMap(keyMap KeyMap) ListOption {
	return func(l *confOptions) {
		l.keyMap = keyMap
	}
}

func WithWrapNavigation() ListOption {
	return func(l *confOptions) {
		l.wrap = true
	}
}

func WithFocus(focus bool) ListOption {
	return func(l *confOptions) {
		l.focused = focus
	}
}

func WithEnableMouse() ListOption {
	return func(l *confOptions) {
		l.enableMouse = true
	}
}

// WithScrollbar draws a one column scrollbar on the right when the items do
// not fit.
func WithScrollbar(show bool) ListOption {
	return func(l *confOptions) {
		l.scrollbar = show
	}
}

// WithoutVisibility disables visibility detection. Lazy items then get a nil
// detector and must fall back to loading eagerly.
func WithoutVisibility() ListOption {
	return func(l *confOptions) {
		l.visibility = false
	}
}

func New[T Item](items []T, opts ...ListOption) List[T] {
	l := &list[T]{
		confOptions: &confOptions{
			keyMap:        DefaultKeyMap(),
			focused:       true,
			selectedIndex: -1, // Initialize to -1 to indicate no selection
			itemHeight:    DefaultItemHeight,
			overscan:      window.DefaultOverscan,
			visibility:    true,
		},
		items:     csync.NewSliceFrom(uniqueItems(items)),
		indexMap:  csync.NewMap[string, int](),
		viewCache: csync.NewMap[string, string](),
		mounted:   make(map[string]T),
		rng:       window.Range{End: -1},
	}
	for _, opt := range opts {
		opt(l.confOptions)
	}
	if l.visibility {
		l.geometry = visibility.NewGeometry(l.locate)
	}
	l.reindex()
	return l
}

// Init implements List.
func (l *list[T]) Init() tea.Cmd {
	if l.width <= 0 || l.height <= 0 {
		return nil
	}

	var cmds []tea.Cmd
	for item := range l.items.Seq() {
		cmds = append(cmds, item.Init())
		if cmd := item.SetSize(l.contentWidth(), l.itemHeight); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if l.selectedIndex < 0 && l.items.Len() > 0 {
		l.selectFirstItem()
	}
	cmds = append(cmds, l.render())
	return tea.Batch(cmds...)
}

// Update implements List.
func (l *list[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		if l.enableMouse {
			return l.handleMouseWheel(msg)
		}
		return l, nil
	case ItemMsg:
		return l, l.routeToItem(msg.ItemID(), msg)
	case tea.KeyPressMsg:
		if l.focused {
			switch {
			case key.Matches(msg, l.keyMap.Down):
				return l, l.SelectItemBelow()
			case key.Matches(msg, l.keyMap.Up):
				return l, l.SelectItemAbove()
			case key.Matches(msg, l.keyMap.HalfPageDown):
				return l, l.MoveDown(l.height / 2)
			case key.Matches(msg, l.keyMap.HalfPageUp):
				return l, l.MoveUp(l.height / 2)
			case key.Matches(msg, l.keyMap.PageDown):
				return l, l.MoveDown(l.height)
			case key.Matches(msg, l.keyMap.PageUp):
				return l, l.MoveUp(l.height)
			case key.Matches(msg, l.keyMap.End):
				return l, l.GoToBottom()
			case key.Matches(msg, l.keyMap.Home):
				return l, l.GoToTop()
			}
			s := l.SelectedItem()
			if s == nil {
				return l, nil
			}
			return l, l.routeToItem((*s).ID(), msg)
		}
	}
	return l, nil
}

func (l *list[T]) routeToItem(id string, msg tea.Msg) tea.Cmd {
	inx, ok := l.indexMap.Get(id)
	if !ok {
		return nil
	}
	item, ok := l.items.Get(inx)
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	updated, cmd := item.Update(msg)
	cmds = append(cmds, cmd)
	if u, ok := updated.(T); ok {
		cmds = append(cmds, l.UpdateItem(u.ID(), u))
	}
	return tea.Batch(cmds...)
}

func (l *list[T]) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Button {
	case tea.MouseWheelDown:
		cmd = l.MoveDown(ViewportDefaultScrollSize)
	case tea.MouseWheelUp:
		cmd = l.MoveUp(ViewportDefaultScrollSize)
	}
	return l, cmd
}

// View implements List.
func (l *list[T]) View() string {
	if l.height <= 0 || l.width <= 0 {
		return ""
	}
	l.renderMu.Lock()
	defer l.renderMu.Unlock()
	return l.rendered
}

func (l *list[T]) windowConfig() window.Config {
	cfg := window.NewConfig(float64(l.itemHeight), float64(l.height), l.items.Len())
	cfg.Overscan = l.overscan
	return cfg
}

func (l *list[T]) virtualHeight() int {
	return l.items.Len() * l.itemHeight
}

func (l *list[T]) maxOffset() int {
	return max(0, l.virtualHeight()-l.height)
}

func (l *list[T]) showScrollbar() bool {
	return l.scrollbar && l.virtualHeight() > l.height
}

func (l *list[T]) contentWidth() int {
	if l.scrollbar {
		return max(l.width-1, 0)
	}
	return l.width
}

// viewPosition returns the first and last visible rows in the virtual space.
func (l *list[T]) viewPosition() (int, int) {
	start := min(l.offset, l.maxOffset())
	return start, start + l.height - 1
}

// locate resolves an item id to its rectangle in the virtual space.
func (l *list[T]) locate(t visibility.Target) (uv.Rectangle, bool) {
	inx, ok := l.indexMap.Get(string(t))
	if !ok {
		return uv.Rectangle{}, false
	}
	return uv.Rect(0, inx*l.itemHeight, l.contentWidth(), l.itemHeight), true
}

func (l *list[T]) detector() visibility.Detector {
	if l.geometry == nil {
		return nil
	}
	return l.geometry
}

func (l *list[T]) render() tea.Cmd {
	return l.renderWithScrollToSelection(true)
}

func (l *list[T]) renderWithScrollToSelection(scrollToSelection bool) tea.Cmd {
	if l.width <= 0 || l.height <= 0 {
		return nil
	}
	if l.items.Len() == 0 {
		l.offset = 0
		cmd := l.mount(window.Range{End: -1})
		l.renderMu.Lock()
		l.rendered = ""
		l.renderMu.Unlock()
		return cmd
	}
	l.setDefaultSelected()

	var focusChangeCmd tea.Cmd
	if l.focused {
		focusChangeCmd = l.focusSelectedItem()
	} else {
		focusChangeCmd = l.blurSelectedItem()
	}

	if l.focused && scrollToSelection {
		l.scrollToSelection()
	}
	l.offset = min(max(l.offset, 0), l.maxOffset())

	rng, err := l.memo.Compute(float64(l.offset), l.windowConfig())
	if err != nil {
		return util.ReportError(err)
	}
	l.rng = rng
	mountCmd := l.mount(rng)

	l.renderMu.Lock()
	l.rendered = l.renderVirtualScrolling()
	l.renderMu.Unlock()

	return tea.Batch(focusChangeCmd, mountCmd, l.checkVisibility())
}

// mount watches the lazy items that entered rng and releases the ones that
// left it.
func (l *list[T]) mount(rng window.Range) tea.Cmd {
	next := make(map[string]T, rng.Len())
	for _, item := range l.items.Range(rng.Start, rng.End) {
		next[item.ID()] = item
	}
	for id, item := range l.mounted {
		if cur, ok := next[id]; !ok || !sameItem(cur, item) {
			unwatch(item)
			delete(l.mounted, id)
		}
	}
	var cmds []tea.Cmd
	for id, item := range next {
		if _, ok := l.mounted[id]; ok {
			continue
		}
		l.mounted[id] = item
		if lazy, ok := any(item).(Lazy); ok {
			cmds = append(cmds, lazy.Watch(l.detector()))
		}
	}
	return tea.Batch(cmds...)
}

func (l *list[T]) unmountAll() {
	for id, item := range l.mounted {
		unwatch(item)
		delete(l.mounted, id)
	}
}

func unwatch[T Item](item T) {
	if lazy, ok := any(item).(Lazy); ok {
		lazy.Unwatch()
	}
}

func sameItem[T Item](a, b T) bool {
	v := reflect.ValueOf(any(a))
	return v.Comparable() && any(a) == any(b)
}

// checkVisibility runs a visibility pass over the current viewport and
// collects the commands of the items it notified.
func (l *list[T]) checkVisibility() tea.Cmd {
	if l.geometry == nil {
		return nil
	}
	l.geometry.SetViewport(uv.Rect(0, l.offset, l.contentWidth(), l.height))
	var cmds []tea.Cmd
	for _, target := range l.geometry.Check() {
		item, ok := l.mounted[string(target)]
		if !ok {
			continue
		}
		if lazy, ok := any(item).(Lazy); ok {
			cmds = append(cmds, lazy.Ready())
		}
	}
	return tea.Batch(cmds...)
}

func (l *list[T]) setDefaultSelected() {
	if l.selectedIndex < 0 || l.selectedIndex >= l.items.Len() {
		l.selectedIndex = -1
		l.selectFirstItem()
	}
}

func (l *list[T]) scrollToSelection() {
	if l.selectedIndex < 0 || l.selectedIndex >= l.items.Len() {
		return
	}
	itemStart := l.selectedIndex * l.itemHeight
	itemEnd := itemStart + l.itemHeight - 1
	start, end := l.viewPosition()

	// item bigger or equal to the viewport - show from start
	if l.itemHeight >= l.height {
		l.offset = itemStart
		return
	}
	if itemStart < start {
		l.offset = itemStart
	} else if itemEnd > end {
		l.offset = itemEnd - l.height + 1
	}
}

func (l *list[T]) changeSelectionWhenScrolling() tea.Cmd {
	if l.selectedIndex < 0 || l.items.Len() == 0 {
		return nil
	}
	start, end := l.viewPosition()
	itemStart := l.selectedIndex * l.itemHeight
	itemEnd := itemStart + l.itemHeight - 1
	// item already in view do nothing
	if itemStart >= start && itemEnd <= end {
		return nil
	}

	// first and last fully visible items, falling back to partially visible
	// ones when an item is taller than the viewport
	first := int(math.Ceil(float64(start) / float64(l.itemHeight)))
	last := (end+1)/l.itemHeight - 1
	if last < first {
		first = start / l.itemHeight
		last = first
	}
	last = min(last, l.items.Len()-1)

	var inx int
	if itemStart < start {
		inx = l.firstSelectableItemBelow(first - 1)
		if inx == ItemNotFound || inx > last {
			return nil
		}
	} else {
		inx = l.firstSelectableItemAbove(last + 1)
		if inx == ItemNotFound || inx < first {
			return nil
		}
	}
	l.selectedIndex = inx
	return l.renderWithScrollToSelection(false)
}

func (l *list[T]) selectFirstItem() {
	inx := l.firstSelectableItemBelow(-1)
	if inx != ItemNotFound {
		l.selectedIndex = inx
	}
}

func (l *list[T]) selectLastItem() {
	inx := l.firstSelectableItemAbove(l.items.Len())
	if inx != ItemNotFound {
		l.selectedIndex = inx
	}
}

func (l *list[T]) firstSelectableItemAbove(inx int) int {
	for i := inx - 1; i >= 0; i-- {
		item, ok := l.items.Get(i)
		if !ok {
			continue
		}
		if _, ok := any(item).(layout.Focusable); ok {
			return i
		}
	}
	if inx == 0 && l.wrap {
		return l.firstSelectableItemAbove(l.items.Len())
	}
	return ItemNotFound
}

func (l *list[T]) firstSelectableItemBelow(inx int) int {
	itemsLen := l.items.Len()
	for i := inx + 1; i < itemsLen; i++ {
		item, ok := l.items.Get(i)
		if !ok {
			continue
		}
		if _, ok := any(item).(layout.Focusable); ok {
			return i
		}
	}
	if inx == itemsLen-1 && l.wrap {
		return l.firstSelectableItemBelow(-1)
	}
	return ItemNotFound
}

func (l *list[T]) focusSelectedItem() tea.Cmd {
	if l.selectedIndex < 0 || !l.focused {
		return nil
	}
	selected, ok := l.items.Get(l.selectedIndex)
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	// the previous selection may already have left the window
	if l.focusedID != "" && l.focusedID != selected.ID() {
		cmds = append(cmds, l.blurItem(l.focusedID))
	}
	for _, item := range l.mountedItems() {
		if item.ID() == selected.ID() {
			continue
		}
		if f, ok := any(item).(layout.Focusable); ok && f.IsFocused() {
			cmds = append(cmds, f.Blur())
			l.viewCache.Del(item.ID())
		}
	}
	// the selection may not be materialized yet
	if f, ok := any(selected).(layout.Focusable); ok {
		l.focusedID = selected.ID()
		if !f.IsFocused() {
			cmds = append(cmds, f.Focus())
			l.viewCache.Del(selected.ID())
		}
	}
	return tea.Batch(cmds...)
}

func (l *list[T]) blurItem(id string) tea.Cmd {
	inx, ok := l.indexMap.Get(id)
	if !ok {
		return nil
	}
	item, ok := l.items.Get(inx)
	if !ok {
		return nil
	}
	if f, ok := any(item).(layout.Focusable); ok && f.IsFocused() {
		l.viewCache.Del(id)
		return f.Blur()
	}
	return nil
}

func (l *list[T]) blurSelectedItem() tea.Cmd {
	if l.selectedIndex < 0 || l.focused {
		return nil
	}
	item, ok := l.items.Get(l.selectedIndex)
	if !ok {
		return nil
	}
	l.focusedID = ""
	if f, ok := any(item).(layout.Focusable); ok && f.IsFocused() {
		l.viewCache.Del(item.ID())
		return f.Blur()
	}
	return nil
}

// mountedItems returns the materialized items.
func (l *list[T]) mountedItems() []T {
	items := make([]T, 0, len(l.mounted))
	for _, item := range l.mounted {
		items = append(items, item)
	}
	return items
}

// renderVirtualScrolling renders only the materialized items and cuts the
// viewport out of them.
func (l *list[T]) renderVirtualScrolling() string {
	t := styles.CurrentTheme()
	width := l.contentWidth()
	if !l.showScrollbar() {
		width = l.width
	}

	materialized := l.items.Range(l.rng.Start, l.rng.End)
	lines := make([]string, 0, len(materialized)*l.itemHeight)
	for _, item := range materialized {
		view, ok := l.viewCache.Get(item.ID())
		if !ok {
			view = item.View()
			l.viewCache.Set(item.ID(), view)
		}
		lines = append(lines, fitLines(view, width, l.itemHeight)...)
	}

	// The rendered slice starts at Translate; cut the viewport out of it.
	skip := l.offset - int(l.rng.Translate(float64(l.itemHeight)))
	skip = min(max(skip, 0), len(lines))
	lines = lines[skip:]
	if len(lines) > l.height {
		lines = lines[:l.height]
	}

	content := t.S().Base.
		Width(width).
		Height(l.height).
		Render(strings.Join(lines, "\n"))
	if !l.showScrollbar() {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, content, l.renderScrollbar())
}

func (l *list[T]) renderScrollbar() string {
	t := styles.CurrentTheme()
	total := l.virtualHeight()
	thumb := max(1, l.height*l.height/total)
	pos := 0
	if maxOffset := l.maxOffset(); maxOffset > 0 {
		pos = int(math.Round(float64(l.offset) * float64(l.height-thumb) / float64(maxOffset)))
	}
	rows := make([]string, l.height)
	for i := range rows {
		if i >= pos && i < pos+thumb {
			rows[i] = t.S().ScrollbarThumb.Render("┃")
		} else {
			rows[i] = t.S().ScrollbarTrack.Render("│")
		}
	}
	return strings.Join(rows, "\n")
}

// fitLines returns exactly height lines of view, each at most width cells.
func fitLines(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

// uniqueItems drops every item whose id is already taken by an earlier one.
// Views, mounts and visibility targets are all keyed by id.
func uniqueItems[T Item](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	var out []T
	for i, item := range items {
		if _, ok := seen[item.ID()]; !ok {
			seen[item.ID()] = struct{}{}
			if out != nil {
				out = append(out, item)
			}
			continue
		}
		slog.Warn("Dropping list item with duplicate id", "id", item.ID(), "index", i)
		if out == nil {
			out = slices.Clone(items[:i])
		}
	}
	if out == nil {
		return items
	}
	return out
}

func (l *list[T]) duplicate(item T) tea.Cmd {
	if _, ok := l.indexMap.Get(item.ID()); ok {
		return util.ReportError(fmt.Errorf("duplicate list item id %q", item.ID()))
	}
	return nil
}

func (l *list[T]) reindex() {
	l.indexMap.Reset(make(map[string]int, l.items.Len()))
	for inx, item := range l.items.Seq2() {
		l.indexMap.Set(item.ID(), inx)
	}
}

// AppendItem implements List.
func (l *list[T]) AppendItem(item T) tea.Cmd {
	if cmd := l.duplicate(item); cmd != nil {
		return cmd
	}
	var cmds []tea.Cmd
	cmds = append(cmds, item.Init())

	l.items.Append(item)
	l.indexMap.Set(item.ID(), l.items.Len()-1)

	if l.width > 0 && l.height > 0 {
		cmds = append(cmds, item.SetSize(l.contentWidth(), l.itemHeight))
	}
	cmds = append(cmds, l.renderWithScrollToSelection(false))
	return tea.Batch(cmds...)
}

// Blur implements List.
func (l *list[T]) Blur() tea.Cmd {
	l.focused = false
	return l.render()
}

// DeleteItem implements List.
func (l *list[T]) DeleteItem(id string) tea.Cmd {
	inx, ok := l.indexMap.Get(id)
	if !ok {
		return nil
	}

	// Check if we're deleting the selected item
	if l.selectedIndex == inx {
		if inx > 0 {
			l.selectedIndex = inx - 1
		} else if l.items.Len() > 1 {
			l.selectedIndex = 0 // Will be valid after deletion
		} else {
			l.selectedIndex = -1 // No items left
		}
	} else if l.selectedIndex > inx {
		l.selectedIndex--
	}

	if item, ok := l.mounted[id]; ok {
		unwatch(item)
		delete(l.mounted, id)
	}
	l.items.Delete(inx)
	l.viewCache.Del(id)
	l.reindex()
	return l.renderWithScrollToSelection(false)
}

// Focus implements List.
func (l *list[T]) Focus() tea.Cmd {
	l.focused = true
	return l.render()
}

// GetSize implements List.
func (l *list[T]) GetSize() (int, int) {
	return l.width, l.height
}

// GoToBottom implements List.
func (l *list[T]) GoToBottom() tea.Cmd {
	l.offset = l.maxOffset()
	l.selectedIndex = -1
	l.selectLastItem()
	return l.render()
}

// GoToTop implements List.
func (l *list[T]) GoToTop() tea.Cmd {
	l.offset = 0
	l.selectedIndex = -1
	l.selectFirstItem()
	return l.render()
}

// IsFocused implements List.
func (l *list[T]) IsFocused() bool {
	return l.focused
}

// Items implements List.
func (l *list[T]) Items() []T {
	return slices.Collect(l.items.Seq())
}

// Len implements List.
func (l *list[T]) Len() int {
	return l.items.Len()
}

// Teardown implements List.
func (l *list[T]) Teardown() {
	l.unmountAll()
	l.memo.Invalidate()
}

// Range implements List.
func (l *list[T]) Range() window.Range {
	return l.rng
}

// Offset implements List.
func (l *list[T]) Offset() int {
	return l.offset
}

// KeyMap implements List.
func (l *list[T]) KeyMap() KeyMap {
	return l.keyMap
}

// MoveDown implements List.
func (l *list[T]) MoveDown(n int) tea.Cmd {
	oldOffset := l.offset
	l.offset = min(l.offset+max(n, 0), l.maxOffset())
	if oldOffset == l.offset {
		return nil
	}
	cmd := l.renderWithScrollToSelection(false)
	if c := l.changeSelectionWhenScrolling(); c != nil {
		return tea.Batch(cmd, c)
	}
	return cmd
}

// MoveUp implements List.
func (l *list[T]) MoveUp(n int) tea.Cmd {
	oldOffset := l.offset
	l.offset = max(l.offset-max(n, 0), 0)
	if oldOffset == l.offset {
		return nil
	}
	cmd := l.renderWithScrollToSelection(false)
	if c := l.changeSelectionWhenScrolling(); c != nil {
		return tea.Batch(cmd, c)
	}
	return cmd
}

// PrependItem implements List.
func (l *list[T]) PrependItem(item T) tea.Cmd {
	if cmd := l.duplicate(item); cmd != nil {
		return cmd
	}
	cmds := []tea.Cmd{item.Init()}
	l.items.Prepend(item)
	l.reindex()
	if l.selectedIndex >= 0 {
		l.selectedIndex++
	}
	// keep the visible items in place unless we are at the top
	if l.offset > 0 {
		l.offset += l.itemHeight
	}
	if l.width > 0 && l.height > 0 {
		cmds = append(cmds, item.SetSize(l.contentWidth(), l.itemHeight))
	}
	cmds = append(cmds, l.renderWithScrollToSelection(false))
	return tea.Batch(cmds...)
}

// SelectItemAbove implements List.
func (l *list[T]) SelectItemAbove() tea.Cmd {
	if l.selectedIndex < 0 {
		return nil
	}
	newIndex := l.firstSelectableItemAbove(l.selectedIndex)
	if newIndex == ItemNotFound {
		// no item above
		return nil
	}
	l.selectedIndex = newIndex
	return l.render()
}

// SelectItemBelow implements List.
func (l *list[T]) SelectItemBelow() tea.Cmd {
	if l.selectedIndex < 0 {
		return nil
	}
	newIndex := l.firstSelectableItemBelow(l.selectedIndex)
	if newIndex == ItemNotFound {
		// no item below
		return nil
	}
	l.selectedIndex = newIndex
	return l.render()
}

// SelectedItem implements List.
func (l *list[T]) SelectedItem() *T {
	if l.selectedIndex < 0 || l.selectedIndex >= l.items.Len() {
		return nil
	}
	item, ok := l.items.Get(l.selectedIndex)
	if !ok {
		return nil
	}
	return &item
}

// SetItems implements List.
func (l *list[T]) SetItems(items []T) tea.Cmd {
	l.unmountAll()
	l.focusedID = ""
	items = uniqueItems(items)
	l.items.SetSlice(items)
	l.viewCache.Reset(make(map[string]string))
	l.reindex()
	l.selectedIndex = -1
	l.offset = 0

	var cmds []tea.Cmd
	for _, item := range items {
		cmds = append(cmds, item.Init())
		if l.width > 0 && l.height > 0 {
			cmds = append(cmds, item.SetSize(l.contentWidth(), l.itemHeight))
		}
	}
	cmds = append(cmds, l.render())
	return tea.Batch(cmds...)
}

// SetSelected implements List.
func (l *list[T]) SetSelected(id string) tea.Cmd {
	inx, ok := l.indexMap.Get(id)
	if !ok {
		return nil
	}
	l.selectedIndex = inx
	return l.render()
}

// SetSize implements List.
func (l *list[T]) SetSize(width int, height int) tea.Cmd {
	oldWidth := l.width
	l.width = width
	l.height = height
	var cmds []tea.Cmd
	if oldWidth != width {
		l.viewCache.Reset(make(map[string]string))
		for item := range l.items.Seq() {
			cmds = append(cmds, item.SetSize(l.contentWidth(), l.itemHeight))
		}
	}
	cmds = append(cmds, l.render())
	return tea.Batch(cmds...)
}

// UpdateItem implements List.
func (l *list[T]) UpdateItem(id string, item T) tea.Cmd {
	inx, ok := l.indexMap.Get(id)
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	if old, ok := l.mounted[id]; ok && !sameItem(old, item) {
		unwatch(old)
		l.mounted[id] = item
		if lazy, ok := any(item).(Lazy); ok {
			cmds = append(cmds, lazy.Watch(l.detector()))
		}
	}
	l.items.Set(inx, item)
	l.viewCache.Del(id)
	cmds = append(cmds, l.renderWithScrollToSelection(false))
	return tea.Batch(cmds...)
}
