// Package iobuf defines the minimal byte sink and byte source abstractions
// the codec layer is built on, plus the pooled/bounded concrete
// implementations used throughout wiretoken.
package iobuf

import "github.com/arloliu/wiretoken/internal/pool"

// Sink is a one-shot byte-output abstraction. Reserve must be called
// before the total number of bytes a token requires is known to be
// available; WriteByte/Write are only valid after a Reserve call that
// covered their combined length. Encoders depend on Reserve being
// all-or-nothing: if it returns false, the sink must be left exactly as
// it was.
type Sink interface {
	// Reserve attempts to ensure capacity for n more bytes. It returns
	// false if the sink is bounded and cannot accept them; the sink is
	// left unmodified in that case.
	Reserve(n int) bool
	// WriteByte appends a single byte. Only valid after a Reserve call
	// that covered it.
	WriteByte(b byte)
	// Write appends p. Only valid after a Reserve call that covered
	// len(p) bytes.
	Write(p []byte)
	// Len returns the number of bytes written so far.
	Len() int
}

// ByteSink is a growable, pooled Sink. When max is 0 it grows without
// bound (besides what the host can allocate); when max is positive,
// Reserve refuses once Len()+n would exceed max, which is how the
// atomicity property ("sink exhausted" scenarios) is exercised in tests.
type ByteSink struct {
	buf *pool.Buffer
	max int
}

// NewSink returns an unbounded, pool-backed Sink.
func NewSink() *ByteSink {
	return &ByteSink{buf: pool.Get()}
}

// NewBoundedSink returns a Sink that refuses to grow past capacity bytes.
func NewBoundedSink(capacity int) *ByteSink {
	return &ByteSink{buf: pool.NewBuffer(capacity), max: capacity}
}

func (s *ByteSink) Reserve(n int) bool {
	if s.max > 0 && s.buf.Len()+n > s.max {
		return false
	}
	s.buf.Grow(n)

	return true
}

func (s *ByteSink) WriteByte(b byte) { s.buf.MustWriteByte(b) }
func (s *ByteSink) Write(p []byte)   { s.buf.MustWrite(p) }
func (s *ByteSink) Len() int         { return s.buf.Len() }

// Bytes returns the bytes written so far. The returned slice aliases the
// sink's internal buffer; copy it before calling Release or reusing the
// sink for further writes if the caller needs an independent copy.
func (s *ByteSink) Bytes() []byte { return s.buf.Bytes() }

// Reset empties the sink so it can be reused for another document
// without returning its buffer to the pool.
func (s *ByteSink) Reset() { s.buf.Reset() }

// Release returns the sink's backing buffer to the package pool. The
// sink must not be used again after Release.
func (s *ByteSink) Release() {
	pool.Put(s.buf)
	s.buf = nil
}

var _ Sink = (*ByteSink)(nil)
