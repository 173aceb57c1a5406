// Package visibility reports, asynchronously, whether a target is (becoming)
// visible inside a root viewport.
//
// The platform side is the Detector interface. An Observer sits on top of a
// Detector and adds the rebind and freeze-once-visible rules, so that they can
// be tested with a fake Detector and no rendering surface.
package visibility

import (
	"image"
	"log/slog"
	"sync"
	"time"
)

// Target identifies an observed element.
type Target string

// Entry is one intersection change reported by a Detector.
type Entry struct {
	Target            Target
	IsIntersecting    bool
	IntersectionRatio float64
	Bounds            image.Rectangle
	RootBounds        image.Rectangle
	IntersectionRect  image.Rectangle
	Time              time.Time
}

// Detector is the platform visibility API. Watch registers fn for target and
// returns a function that cancels the registration. Detectors deliver entries
// for a target in detection order, never call fn from inside Watch, and never
// call fn after cancel has returned.
type Detector interface {
	Watch(target Target, cfg Config, fn func(Entry)) (cancel func())
}

// State is what an Observer exposes to its host.
type State struct {
	IsIntersecting bool
	Entry          Entry
}

// Phase is the observer's position in its lifecycle.
type Phase int

const (
	Unattached Phase = iota
	Observing
	Frozen
	Unsupported
	Closed
)

func (p Phase) String() string {
	switch p {
	case Unattached:
		return "unattached"
	case Observing:
		return "observing"
	case Frozen:
		return "frozen"
	case Unsupported:
		return "unsupported"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Observer watches one target at a time.
type Observer struct {
	mu       sync.Mutex
	detector Detector
	opts     Options
	cfg      Config
	onChange func(State)

	phase  Phase
	target Target
	state  State
	seen   bool
	cancel func()
	// gen changes on every Bind and on Unsubscribe; notifications carrying an
	// older generation are dropped.
	gen uint64
}

// New returns an unattached observer. A nil detector means the platform has
// no visibility support: the observer will then report the target as never
// intersecting instead of failing.
func New(d Detector, opts Options, onChange func(State)) (*Observer, error) {
	cfg, err := opts.Config()
	if err != nil {
		return nil, err
	}
	return &Observer{
		detector: d,
		opts:     opts,
		cfg:      cfg,
		onChange: onChange,
	}, nil
}

// Observe binds a new observer to target and returns it along with its
// unsubscribe function.
func Observe(d Detector, target Target, opts Options, onChange func(State)) (*Observer, func(), error) {
	o, err := New(d, opts, onChange)
	if err != nil {
		return nil, nil, err
	}
	o.Bind(target)
	return o, o.Unsubscribe, nil
}

// Bind starts observing target. Any previous target is released first, and
// the freeze state starts over for the new target.
func (o *Observer) Bind(target Target) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.phase == Closed {
		return
	}
	o.release()
	o.gen++
	o.target = target
	o.state = State{Entry: Entry{Target: target}}
	o.seen = false

	if o.detector == nil {
		slog.Debug("Visibility detection unavailable, treating target as hidden", "target", target)
		o.phase = Unsupported
		o.seen = true
		return
	}

	gen := o.gen
	o.phase = Observing
	o.cancel = o.detector.Watch(target, o.cfg, func(e Entry) {
		o.notify(gen, e)
	})
}

func (o *Observer) notify(gen uint64, e Entry) {
	o.mu.Lock()
	if gen != o.gen || o.phase != Observing {
		o.mu.Unlock()
		return
	}
	o.state = State{IsIntersecting: e.IsIntersecting, Entry: e}
	o.seen = true
	if e.IsIntersecting && o.opts.FreezeOnceVisible {
		o.phase = Frozen
		o.release()
	}
	state := o.state
	onChange := o.onChange
	o.mu.Unlock()

	if onChange != nil {
		onChange(state)
	}
}

// release cancels the current watch. Must be called with mu held.
func (o *Observer) release() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Unsubscribe stops observing for good. It is safe to call more than once.
func (o *Observer) Unsubscribe() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == Closed {
		return
	}
	o.release()
	o.gen++
	o.phase = Closed
}

// State returns the latest state. The second result is false until a target
// is bound and a first determination exists.
func (o *Observer) State() (State, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == Unattached || !o.seen {
		return State{}, false
	}
	return o.state, true
}

// IsIntersecting reports the latest visibility, false when unknown.
func (o *Observer) IsIntersecting() bool {
	s, _ := o.State()
	return s.IsIntersecting
}

// Target returns the bound target.
func (o *Observer) Target() (Target, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.target, o.phase != Unattached
}

// Phase returns the current lifecycle phase.
func (o *Observer) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Frozen reports whether the observer stopped after seeing its target.
func (o *Observer) Frozen() bool {
	return o.Phase() == Frozen
}

// Supported reports whether a detector backs this observer.
func (o *Observer) Supported() bool {
	return o.detector != nil
}
