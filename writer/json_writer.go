package writer

import (
	"github.com/arloliu/wiretoken/frame"
	"github.com/arloliu/wiretoken/iobuf"
	jsoncodec "github.com/arloliu/wiretoken/json"
)

// jsonWriter implements Writer for JSON. It owns the writer-side frame
// stack (spec §3) to decide, before every value, whether a ',' or ':'
// separator is needed, and to implement the non-string-key map fallback:
// a map whose keys are not strings (keysAreStrings == false in
// BeginMap) is transparently re-shaped as an array of [key, value]
// pairs, e.g. map[int]bool{2: true, 4: false} -> [[2,true],[4,false]].
//
// fallback runs parallel to stack, one entry per open frame, since
// frame.WriterFrame itself has no room for a JSON-only concern.
type jsonWriter struct {
	enc      *jsoncodec.Encoder
	sink     iobuf.Sink
	stack    frame.WriterStack
	fallback []bool
}

// NewJSON wraps sink as a JSON-backed Writer.
func NewJSON(sink iobuf.Sink) Writer {
	return &jsonWriter{enc: jsoncodec.New(sink), sink: sink}
}

func (w *jsonWriter) rawByte(b byte) bool {
	if !w.sink.Reserve(1) {
		return false
	}
	w.sink.WriteByte(b)

	return true
}

func (w *jsonWriter) topFallback() bool {
	if len(w.fallback) == 0 {
		return false
	}

	return w.fallback[len(w.fallback)-1]
}

// emitSeparator writes the separator (if any) that must precede the
// value about to be written into top's current slot. In fallback mode a
// Map's AwaitValue slot is joined by ',' (it sits inside a 2-element
// array, not a real object) rather than ':'.
func (w *jsonWriter) emitSeparator(top *frame.WriterFrame, fallback bool) bool {
	switch top.Position {
	case frame.FirstValue, frame.FirstKey:
		return true
	case frame.AwaitValue:
		if fallback {
			return w.rawByte(',')
		}

		return w.rawByte(':')
	case frame.Subsequent:
		return w.rawByte(',')
	default:
		return true
	}
}

func (w *jsonWriter) advancePosition() {
	top, ok := w.stack.Top()
	if !ok {
		return
	}
	switch top.Kind {
	case frame.Array:
		top.Position = frame.Subsequent
	case frame.Map:
		if top.Position == frame.AwaitValue {
			top.Position = frame.Subsequent
		} else {
			top.Position = frame.AwaitValue
		}
	}
}

// writeScalar is the shared path for every primitive Put* call.
func (w *jsonWriter) writeScalar(put func() int) error {
	top, hasTop := w.stack.Top()
	var isKeySlot, isValueSlot, fallback bool
	if hasTop {
		isKeySlot = top.Kind == frame.Map && (top.Position == frame.FirstKey || top.Position == frame.Subsequent)
		isValueSlot = top.Kind == frame.Map && top.Position == frame.AwaitValue
		fallback = w.topFallback()
		if !w.emitSeparator(top, fallback) {
			return ErrRefused
		}
	}

	if isKeySlot && fallback {
		if !w.rawByte('[') {
			return ErrRefused
		}
	}

	if put() == 0 {
		return ErrRefused
	}

	if isValueSlot && fallback {
		if !w.rawByte(']') {
			return ErrRefused
		}
	}

	w.advancePosition()

	return nil
}

func (w *jsonWriter) PutNull() error             { return w.writeScalar(w.enc.Put) }
func (w *jsonWriter) PutBool(v bool) error       { return w.writeScalar(func() int { return w.enc.PutBool(v) }) }
func (w *jsonWriter) PutInt(v int64) error       { return w.writeScalar(func() int { return w.enc.PutInt(v) }) }
func (w *jsonWriter) PutFloat64(v float64) error { return w.writeScalar(func() int { return w.enc.PutFloat64(v) }) }
func (w *jsonWriter) PutString(v string) error   { return w.writeScalar(func() int { return w.enc.PutString(v) }) }
func (w *jsonWriter) PutBinary(v []byte) error   { return w.writeScalar(func() int { return w.enc.PutBinary(v) }) }

func (w *jsonWriter) beginContainer(openByte byte, kind frame.Kind, fallback bool) error {
	if top, ok := w.stack.Top(); ok {
		if !w.emitSeparator(top, w.topFallback()) {
			return ErrRefused
		}
	}
	if !w.rawByte(openByte) {
		return ErrRefused
	}
	w.advancePosition()

	initial := frame.FirstValue
	if kind == frame.Map {
		initial = frame.FirstKey
	}
	w.stack.Push(frame.WriterFrame{Kind: kind, Position: initial})
	w.fallback = append(w.fallback, fallback)

	return nil
}

// BeginArray starts a JSON array. JSON carries no count on the wire, so n
// is accepted for interface parity with MsgPack and ignored.
func (w *jsonWriter) BeginArray(int) error {
	return w.beginContainer('[', frame.Array, false)
}

func (w *jsonWriter) EndArray() error {
	top, ok := w.stack.Top()
	if !ok || top.Kind != frame.Array {
		return ErrMismatchedEnd
	}
	if !w.rawByte(']') {
		return ErrRefused
	}
	w.stack.Pop()
	w.fallback = w.fallback[:len(w.fallback)-1]

	return nil
}

// BeginMap starts a JSON object (keysAreStrings == true) or, for a
// generic map whose key type is not string, an array of [key, value]
// pairs. n is ignored (see BeginArray).
func (w *jsonWriter) BeginMap(n int, keysAreStrings bool) error {
	fallback := !keysAreStrings
	openByte := byte('{')
	if fallback {
		openByte = '['
	}

	return w.beginContainer(openByte, frame.Map, fallback)
}

func (w *jsonWriter) EndMap() error {
	top, ok := w.stack.Top()
	if !ok || top.Kind != frame.Map {
		return ErrMismatchedEnd
	}
	closeByte := byte('}')
	if w.topFallback() {
		closeByte = ']'
	}
	if !w.rawByte(closeByte) {
		return ErrRefused
	}
	w.stack.Pop()
	w.fallback = w.fallback[:len(w.fallback)-1]

	return nil
}
