package iobuf

// Source is a one-shot byte-input abstraction exposing the current
// position as a (cursor, end) pair. A reader built on Source never reads
// past End and never rewinds: Advance only moves forward.
type Source interface {
	// Peek returns the byte at the cursor without advancing, and false
	// if the cursor is at or past End.
	Peek() (byte, bool)
	// PeekAt returns the byte at cursor+offset without advancing, and
	// false if that position is at or past End.
	PeekAt(offset int) (byte, bool)
	// SliceAt returns the n bytes starting at cursor+offset without
	// advancing, and false if the range runs past End.
	SliceAt(offset, n int) ([]byte, bool)
	// Advance moves the cursor forward by n bytes. Advancing past End is
	// not checked here; callers only advance by lengths they have
	// already validated with Peek/PeekAt/SliceAt.
	Advance(n int)
	// Cursor returns the current read position.
	Cursor() int
	// End returns the exclusive upper bound of the readable range.
	End() int
}

// ByteSource is a Source backed by an in-memory byte slice.
type ByteSource struct {
	data   []byte
	cursor int
}

// NewSource returns a Source that reads data from the beginning.
func NewSource(data []byte) *ByteSource {
	return &ByteSource{data: data}
}

func (s *ByteSource) Peek() (byte, bool) {
	return s.PeekAt(0)
}

func (s *ByteSource) PeekAt(offset int) (byte, bool) {
	i := s.cursor + offset
	if i < 0 || i >= len(s.data) {
		return 0, false
	}

	return s.data[i], true
}

func (s *ByteSource) SliceAt(offset, n int) ([]byte, bool) {
	start := s.cursor + offset
	end := start + n
	if start < 0 || n < 0 || end > len(s.data) {
		return nil, false
	}

	return s.data[start:end], true
}

func (s *ByteSource) Advance(n int) {
	s.cursor += n
}

func (s *ByteSource) Cursor() int { return s.cursor }
func (s *ByteSource) End() int    { return len(s.data) }

var _ Source = (*ByteSource)(nil)
