package visibility

import (
	"cmp"
	"slices"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// Locator returns the current bounds of a target, in the same coordinate
// space as the viewport. ok is false when the target is not laid out.
type Locator func(Target) (bounds uv.Rectangle, ok bool)

// Geometry is a Detector that works on plain rectangles. The host lays out
// its content, updates the viewport and calls Check once per frame; every
// watch whose threshold crossing changed since the last check is notified.
type Geometry struct {
	mu       sync.Mutex
	viewport uv.Rectangle
	locate   Locator
	watches  map[uint64]*watch
	nextID   uint64
	now      func() time.Time
}

type watch struct {
	id     uint64
	target Target
	cfg    Config
	fn     func(Entry)
	active bool

	primed           bool
	lastIndex        int
	lastIntersecting bool
}

// NewGeometry returns a detector that resolves targets with locate.
func NewGeometry(locate Locator) *Geometry {
	return &Geometry{
		locate:  locate,
		watches: make(map[uint64]*watch),
		now:     time.Now,
	}
}

// SetViewport sets the root bounds used by watches without an explicit root.
func (g *Geometry) SetViewport(r uv.Rectangle) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.viewport = r
}

// Watch implements Detector. The first Check after Watch always notifies.
func (g *Geometry) Watch(target Target, cfg Config, fn func(Entry)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	w := &watch{
		id:     g.nextID,
		target: target,
		cfg:    cfg,
		fn:     fn,
		active: true,
	}
	g.watches[w.id] = w
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			w.active = false
			delete(g.watches, w.id)
		})
	}
}

// Len returns the number of live watches.
func (g *Geometry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.watches)
}

type delivery struct {
	w     *watch
	entry Entry
}

// Check runs one observation pass and delivers the resulting entries. It
// returns the targets that were notified, in delivery order.
func (g *Geometry) Check() []Target {
	g.mu.Lock()
	now := g.now()
	ws := make([]*watch, 0, len(g.watches))
	for _, w := range g.watches {
		ws = append(ws, w)
	}
	slices.SortFunc(ws, func(a, b *watch) int { return cmp.Compare(a.id, b.id) })

	var pending []delivery
	for _, w := range ws {
		entry, index := g.measure(w, now)
		if w.primed && index == w.lastIndex && entry.IsIntersecting == w.lastIntersecting {
			continue
		}
		w.primed = true
		w.lastIndex = index
		w.lastIntersecting = entry.IsIntersecting
		pending = append(pending, delivery{w: w, entry: entry})
	}
	g.mu.Unlock()

	notified := make([]Target, 0, len(pending))
	for _, d := range pending {
		// A callback earlier in this pass may have cancelled a later watch.
		g.mu.Lock()
		active := d.w.active
		g.mu.Unlock()
		if !active {
			continue
		}
		d.w.fn(d.entry)
		notified = append(notified, d.entry.Target)
	}
	return notified
}

// measure computes the entry and threshold index for w. Must be called with
// mu held.
func (g *Geometry) measure(w *watch, now time.Time) (Entry, int) {
	entry := Entry{Target: w.target, Time: now}

	root := g.viewport
	if w.cfg.Root != nil {
		r, ok := g.locate(*w.cfg.Root)
		if !ok {
			return entry, -1
		}
		root = r
	}
	root = expand(root, w.cfg.Margin)
	entry.RootBounds = root

	bounds, ok := g.locate(w.target)
	if !ok {
		return entry, -1
	}
	entry.Bounds = bounds

	inter := bounds.Intersect(root)
	// Zero-area targets count as intersecting when they sit inside the root.
	zeroArea := bounds.Dx() == 0 || bounds.Dy() == 0
	switch {
	case !inter.Empty():
		entry.IsIntersecting = true
		entry.IntersectionRect = inter
		entry.IntersectionRatio = float64(area(inter)) / float64(area(bounds))
	case zeroArea && bounds.Min.In(root):
		entry.IsIntersecting = true
		entry.IntersectionRect = uv.Rectangle{Min: bounds.Min, Max: bounds.Min}
		entry.IntersectionRatio = 1
	}
	if !entry.IsIntersecting {
		return entry, -1
	}

	index := len(w.cfg.Thresholds)
	for i, t := range w.cfg.Thresholds {
		if t > entry.IntersectionRatio {
			index = i
			break
		}
	}
	return entry, index
}

func expand(r uv.Rectangle, m Margin) uv.Rectangle {
	w, h := r.Dx(), r.Dy()
	r.Min.Y -= m.Top.Resolve(h)
	r.Max.X += m.Right.Resolve(w)
	r.Max.Y += m.Bottom.Resolve(h)
	r.Min.X -= m.Left.Resolve(w)
	return r
}

func area(r uv.Rectangle) int {
	return r.Dx() * r.Dy()
}
