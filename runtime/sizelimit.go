// Package runtime implements the wire format core for mincode: the
// variable-length integer codec, the multi-mode floating-point codec, the
// size-limit accounting, the bit-vector framing, and the schema-driven
// encoder/decoder event protocol that drives both.
//
// Everything in this package is schema-driven: callers (walkers) supply the
// target shape by calling typed methods in the order their value's fields
// appear. The wire format itself carries no type tags or field names.
package runtime

// SizeLimit is either unbounded, or bounded by a fixed number of bytes.
// It is carried into every Encoder/Decoder and checked on every primitive
// read/write.
type SizeLimit struct {
	bounded bool
	max     uint64
}

// Unbounded returns a SizeLimit that never rejects a read or write.
func Unbounded() SizeLimit {
	return SizeLimit{}
}

// Bounded returns a SizeLimit that rejects any operation whose cumulative
// byte count would exceed n.
func Bounded(n uint64) SizeLimit {
	return SizeLimit{bounded: true, max: n}
}

// IsBounded reports whether the limit caps the byte count.
func (s SizeLimit) IsBounded() bool { return s.bounded }

// Max returns the cap. Only meaningful when IsBounded is true.
func (s SizeLimit) Max() uint64 { return s.max }

// meter is the bounded byte meter (§4.3): a monotonically increasing tally
// of bytes transferred in one encode/decode call, checked against an
// optional cap on every primitive boundary.
type meter struct {
	limit   SizeLimit
	written uint64
}

// add charges n additional bytes. It reports a size-limit error on
// unsigned-overflow of the running tally, or if the tally exceeds a
// bounded limit.
func (m *meter) add(n uint64) error {
	sum := m.written + n
	if sum < m.written {
		// Overflow of the byte counter itself is always a size-limit
		// failure, never a silent wraparound (§4.3).
		return sizeLimitErr()
	}
	m.written = sum
	if m.limit.bounded && m.written > m.limit.max {
		return sizeLimitErr()
	}
	return nil
}

// bytesUsed returns the running tally.
func (m *meter) bytesUsed() uint64 { return m.written }

// floatSizes returns the exact f32, f64 wire width in bytes for mode.
func floatSizes(mode FloatMode) (f32, f64 int) {
	row := floatModeTable[mode]
	return row.size32, row.size64
}
