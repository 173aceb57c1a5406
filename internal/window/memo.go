package window

// Memo caches the last Compute result and only recomputes when the offset or
// the config changes. A Memo belongs to a single host and is not safe for
// concurrent use.
type Memo struct {
	valid  bool
	offset float64
	cfg    Config
	rng    Range
	err    error

	hits, misses int
}

// Compute returns the cached range when offset and cfg match the previous
// call.
func (m *Memo) Compute(offset float64, cfg Config) (Range, error) {
	if m.valid && m.offset == offset && m.cfg == cfg {
		m.hits++
		return m.rng, m.err
	}
	m.misses++
	m.offset = offset
	m.cfg = cfg
	m.rng, m.err = Compute(offset, cfg)
	m.valid = true
	return m.rng, m.err
}

// Last returns the most recently computed range.
func (m *Memo) Last() (Range, bool) {
	if !m.valid || m.err != nil {
		return Range{}, false
	}
	return m.rng, true
}

// Invalidate forces the next Compute to recompute.
func (m *Memo) Invalidate() {
	m.valid = false
}

// Stats returns cache hits and misses.
func (m *Memo) Stats() (hits, misses int) {
	return m.hits, m.misses
}
