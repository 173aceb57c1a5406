package visibility

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalidThreshold = errors.New("visibility: threshold must be within [0, 1]")
	ErrInvalidMargin    = errors.New("visibility: invalid root margin")
)

// DefaultRootMargin applies no margin to the root.
const DefaultRootMargin = "0%"

// Options configure an Observer.
type Options struct {
	// Threshold lists the visible ratios at which a notification fires.
	// Defaults to [0].
	Threshold []float64
	// Root is the element used as the viewport. Nil means the detector's
	// own viewport.
	Root *Target
	// RootMargin grows (or shrinks, when negative) the root bounds before
	// intersecting. It takes one to four CSS-like values in px or %.
	RootMargin string
	// FreezeOnceVisible stops observing after the first intersecting
	// notification and keeps reporting visible from then on.
	FreezeOnceVisible bool
}

// Config is the normalized form of Options handed to a Detector.
type Config struct {
	Thresholds []float64
	Root       *Target
	Margin     Margin
}

// Config validates the options and normalizes them for a Detector.
func (o Options) Config() (Config, error) {
	thresholds := o.Threshold
	if len(thresholds) == 0 {
		thresholds = []float64{0}
	}
	thresholds = slices.Clone(thresholds)
	for _, t := range thresholds {
		if math.IsNaN(t) || t < 0 || t > 1 {
			return Config{}, fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
		}
	}
	slices.Sort(thresholds)
	thresholds = slices.Compact(thresholds)

	rootMargin := o.RootMargin
	if strings.TrimSpace(rootMargin) == "" {
		rootMargin = DefaultRootMargin
	}
	margin, err := ParseMargin(rootMargin)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Thresholds: thresholds,
		Root:       o.Root,
		Margin:     margin,
	}, nil
}

// Length is a single margin value, either absolute (cells) or a percentage
// of the root's size on the same axis.
type Length struct {
	Value   float64
	Percent bool
}

// Resolve turns the length into cells given the root size on its axis.
func (l Length) Resolve(size int) int {
	if l.Percent {
		return int(math.Round(l.Value / 100 * float64(size)))
	}
	return int(math.Round(l.Value))
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return v + "%"
	}
	return v + "px"
}

// Margin holds the four root margins, clockwise from the top.
type Margin struct {
	Top, Right, Bottom, Left Length
}

func (m Margin) String() string {
	return strings.Join([]string{
		m.Top.String(), m.Right.String(), m.Bottom.String(), m.Left.String(),
	}, " ")
}

// ParseMargin parses a root margin like "10px", "10% 0", or
// "1px 2px 3px 4px". Missing values follow the CSS shorthand rules.
func ParseMargin(s string) (Margin, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 4 {
		return Margin{}, fmt.Errorf("%w: %q must have 1 to 4 values", ErrInvalidMargin, s)
	}
	vals := make([]Length, len(fields))
	for i, f := range fields {
		l, err := parseLength(f)
		if err != nil {
			return Margin{}, fmt.Errorf("%w: %q: %v", ErrInvalidMargin, s, err)
		}
		vals[i] = l
	}
	switch len(vals) {
	case 1:
		return Margin{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Margin{vals[0], vals[1], vals[0], vals[1]}, nil
	case 3:
		return Margin{vals[0], vals[1], vals[2], vals[1]}, nil
	default:
		return Margin{vals[0], vals[1], vals[2], vals[3]}, nil
	}
}

func parseLength(s string) (Length, error) {
	var l Length
	num := s
	switch {
	case strings.HasSuffix(s, "%"):
		l.Percent = true
		num = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, fmt.Errorf("bad length %q", s)
	}
	// Unitless values are only allowed for zero, like in CSS.
	if num == s && v != 0 {
		return Length{}, fmt.Errorf("length %q needs a px or %% unit", s)
	}
	l.Value = v
	return l, nil
}
