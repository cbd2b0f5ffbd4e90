package writer

import "github.com/arloliu/wiretoken/frame"

// binaryEncoder is the subset of transenc.Encoder and msgpack.Encoder's
// methods binaryWriter needs. Both concrete Encoder types satisfy it
// unmodified.
type binaryEncoder interface {
	Put() int
	PutBool(v bool) int
	PutInt(v int64) int
	PutFloat64(v float64) int
	PutString(v string) int
	PutBinary(v []byte) int
	PutArrayBeginN(n int) int
	PutArrayEnd() int
	PutMapBeginN(n int) int
	PutMapEnd() int
}

// binaryWriter implements Writer for TRANSENC and MsgPack. Neither format
// has JSON's separator-injection or non-string-key fallback concerns, so
// this is a thin pass-through plus container-matching validation.
type binaryWriter struct {
	enc   binaryEncoder
	stack frame.WriterStack
}

// NewBinary wraps enc (a *transenc.Encoder or *msgpack.Encoder) as a
// Writer.
func NewBinary(enc binaryEncoder) Writer {
	return &binaryWriter{enc: enc}
}

func checkWrite(n int) error {
	if n == 0 {
		return ErrRefused
	}

	return nil
}

func (w *binaryWriter) PutNull() error              { return checkWrite(w.enc.Put()) }
func (w *binaryWriter) PutBool(v bool) error        { return checkWrite(w.enc.PutBool(v)) }
func (w *binaryWriter) PutInt(v int64) error        { return checkWrite(w.enc.PutInt(v)) }
func (w *binaryWriter) PutFloat64(v float64) error  { return checkWrite(w.enc.PutFloat64(v)) }
func (w *binaryWriter) PutString(v string) error    { return checkWrite(w.enc.PutString(v)) }
func (w *binaryWriter) PutBinary(v []byte) error    { return checkWrite(w.enc.PutBinary(v)) }

func (w *binaryWriter) BeginArray(n int) error {
	if w.enc.PutArrayBeginN(n) == 0 {
		return ErrRefused
	}
	w.stack.Push(frame.WriterFrame{Kind: frame.Array})

	return nil
}

func (w *binaryWriter) EndArray() error {
	top, ok := w.stack.Top()
	if !ok || top.Kind != frame.Array {
		return ErrMismatchedEnd
	}
	if w.enc.PutArrayEnd() == 0 {
		return ErrRefused
	}
	w.stack.Pop()

	return nil
}

func (w *binaryWriter) BeginMap(n int, _ bool) error {
	if w.enc.PutMapBeginN(n) == 0 {
		return ErrRefused
	}
	w.stack.Push(frame.WriterFrame{Kind: frame.Map})

	return nil
}

func (w *binaryWriter) EndMap() error {
	top, ok := w.stack.Top()
	if !ok || top.Kind != frame.Map {
		return ErrMismatchedEnd
	}
	if w.enc.PutMapEnd() == 0 {
		return ErrRefused
	}
	w.stack.Pop()

	return nil
}
