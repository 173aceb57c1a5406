// Package window computes which contiguous slice of a fixed item-size list
// must be materialized to cover a scroll container.
package window

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

// DefaultOverscan is the number of extra items rendered on each side of the
// visible range when the caller does not ask for something else.
const DefaultOverscan = 5

var (
	// ErrPrecondition is wrapped by every configuration error returned from
	// Compute.
	ErrPrecondition = errors.New("window: precondition violated")

	ErrInvalidItemSize      = fmt.Errorf("%w: item size must be positive", ErrPrecondition)
	ErrInvalidContainerSize = fmt.Errorf("%w: container size must be positive", ErrPrecondition)
	ErrInvalidItemCount     = fmt.Errorf("%w: item count must not be negative", ErrPrecondition)
	ErrInvalidOverscan      = fmt.Errorf("%w: overscan must not be negative", ErrPrecondition)
	ErrInvalidOffset        = fmt.Errorf("%w: offset must be a finite number", ErrPrecondition)
)

// Config describes the list being windowed. It is owned by the caller and
// never mutated.
type Config struct {
	ItemSize      float64
	ContainerSize float64
	ItemCount     int
	Overscan      int
}

// NewConfig returns a Config using DefaultOverscan.
func NewConfig(itemSize, containerSize float64, itemCount int) Config {
	return Config{
		ItemSize:      itemSize,
		ContainerSize: containerSize,
		ItemCount:     itemCount,
		Overscan:      DefaultOverscan,
	}
}

// Validate reports the first precondition the config violates.
func (c Config) Validate() error {
	switch {
	case !(c.ItemSize > 0) || math.IsInf(c.ItemSize, 0):
		return fmt.Errorf("%w: got %v", ErrInvalidItemSize, c.ItemSize)
	case !(c.ContainerSize > 0) || math.IsInf(c.ContainerSize, 0):
		return fmt.Errorf("%w: got %v", ErrInvalidContainerSize, c.ContainerSize)
	case c.ItemCount < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidItemCount, c.ItemCount)
	case c.Overscan < 0:
		return fmt.Errorf("%w: got %d", ErrInvalidOverscan, c.Overscan)
	}
	return nil
}

// TotalExtent is the size of the whole list along the scroll axis.
func (c Config) TotalExtent() float64 {
	return float64(c.ItemCount) * c.ItemSize
}

// MaxOffset is the largest offset that still keeps the container full.
func (c Config) MaxOffset() float64 {
	return max(0, c.TotalExtent()-c.ContainerSize)
}

// Range is the slice of items to materialize. Start > End means the range
// is empty and nothing should be rendered.
type Range struct {
	Start       int     `json:"start" yaml:"start"`
	End         int     `json:"end" yaml:"end"`
	TotalExtent float64 `json:"total_extent" yaml:"total_extent"`
}

// Empty reports whether the range selects no items.
func (r Range) Empty() bool {
	return r.End < r.Start
}

// Len is the number of items in the range.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// Contains reports whether index i is materialized.
func (r Range) Contains(i int) bool {
	return !r.Empty() && i >= r.Start && i <= r.End
}

// Translate is the position of the first materialized item along the
// scroll axis, which is where the host must place the rendered slice inside a
// spacer of TotalExtent.
func (r Range) Translate(itemSize float64) float64 {
	if r.Empty() {
		return 0
	}
	return float64(r.Start) * itemSize
}

// Indices yields every index in the range, in order.
func (r Range) Indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := r.Start; i <= r.End; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Compute returns the range of items to materialize for the given scroll
// offset. Offsets outside [0, MaxOffset] are clamped.
func Compute(offset float64, cfg Config) (Range, error) {
	if err := cfg.Validate(); err != nil {
		return Range{}, err
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return Range{}, fmt.Errorf("%w: got %v", ErrInvalidOffset, offset)
	}

	total := cfg.TotalExtent()
	if cfg.ItemCount == 0 {
		return Range{Start: 0, End: -1, TotalExtent: total}, nil
	}

	offset = min(max(offset, 0), cfg.MaxOffset())

	// Every term is capped at ItemCount before it becomes an int, so extreme
	// ratios and overscans cannot overflow.
	last := cfg.ItemCount - 1
	visible := cfg.ItemCount
	if v := math.Ceil(cfg.ContainerSize / cfg.ItemSize); v < float64(cfg.ItemCount) {
		visible = int(v)
	}
	first := last
	if f := math.Floor(offset / cfg.ItemSize); f < float64(last) {
		first = int(f)
	}
	overscan := min(cfg.Overscan, cfg.ItemCount)

	start := max(0, first-overscan)
	end := start
	for _, n := range []int{visible, overscan, overscan} {
		end = addCapped(end, n, last)
	}

	return Range{
		Start:       start,
		End:         end,
		TotalExtent: total,
	}, nil
}

// addCapped returns min(a+b, limit) for non-negative a and b without
// overflowing.
func addCapped(a, b, limit int) int {
	if a >= limit || b > limit-a {
		return limit
	}
	return a + b
}

// Slice returns the materialized items. The result aliases items.
func Slice[T any](items []T, r Range) []T {
	if r.Empty() || r.Start >= len(items) {
		return nil
	}
	return items[r.Start:min(r.End+1, len(items))]
}

// Render calls fn once for every materialized item, in order, passing the
// item's absolute index.
func Render[T, R any](items []T, r Range, fn func(item T, index int) R) []R {
	window := Slice(items, r)
	if len(window) == 0 {
		return nil
	}
	out := make([]R, 0, len(window))
	for i, item := range window {
		out = append(out, fn(item, r.Start+i))
	}
	return out
}
