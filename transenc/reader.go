package transenc

import (
	"fmt"
	"math"

	"github.com/arloliu/wiretoken/endian"
	"github.com/arloliu/wiretoken/errs"
	"github.com/arloliu/wiretoken/frame"
	"github.com/arloliu/wiretoken/internal/options"
	"github.com/arloliu/wiretoken/iobuf"
	"github.com/arloliu/wiretoken/token"
)

// Reader advances over a Source one TRANSENC token at a time. See spec
// §4.4 for the full state machine this implements.
type Reader struct {
	src    iobuf.Source
	engine endian.EndianEngine
	stack  frame.ReaderStack
	err    error

	// cache for the token at the current cursor position, valid until Next.
	have       bool
	synthetic  bool
	tok        token.Token
	tokLen     int // total physical bytes (tag + header + payload)
	payloadOff int // relative to src cursor
	payloadLen int
	pendingCnt int // parsed count for a *Begin token; -1 if unsized

	boolVal  bool
	intVal   int64
	floatVal float64
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*Reader]

// WithReaderEndian overrides the byte order used to decode multi-byte
// payloads.
func WithReaderEndian(engine endian.EndianEngine) ReaderOption {
	return options.NoError(func(r *Reader) { r.engine = engine })
}

// NewReader creates a Reader over src.
func NewReader(src iobuf.Source, opts ...ReaderOption) *Reader {
	r := &Reader{src: src, engine: endian.GetLittleEndianEngine()}
	if err := options.Apply(r, opts...); err != nil {
		panic(err)
	}

	return r
}

// Type classifies the token at the current cursor without advancing.
func (r *Reader) Type() token.Token {
	if r.err != nil {
		return token.Error
	}
	if r.have {
		return r.tok
	}

	if top, ok := r.stack.Top(); ok && top.Satisfied() {
		r.synthesizeEnd(top.Kind)
		return r.tok
	}

	b, ok := r.src.Peek()
	if !ok {
		r.setTok(token.Eof, 0)
		return r.tok
	}

	r.classify(b)

	return r.tok
}

// Size returns the current frame-stack depth (0 at top level).
func (r *Reader) Size() int {
	return r.stack.Len()
}

func (r *Reader) synthesizeEnd(k frame.Kind) {
	switch k {
	case frame.Array:
		r.setTok(token.ArrayEnd, 0)
	case frame.Map:
		r.setTok(token.MapEnd, 0)
	case frame.Record:
		r.setTok(token.RecordEnd, 0)
	}
	r.synthetic = true
}

func (r *Reader) setTok(t token.Token, length int) {
	r.tok = t
	r.tokLen = length
	r.have = true
}

func (r *Reader) fail(err error) {
	r.err = err
	r.tok = token.Error
	r.have = true
	r.synthetic = false
}

// classify parses the header bytes starting at the cursor (without
// advancing) and populates the token cache, or transitions to Error on
// malformed input.
func (r *Reader) classify(b byte) {
	r.synthetic = false
	r.pendingCnt = -1

	if v, ok := isInline(b); ok {
		r.intVal = v
		r.setTok(token.Integer, 1)

		return
	}

	switch b {
	case tagNull:
		r.setTok(token.Null, 1)
	case tagTrue:
		r.boolVal = true
		r.setTok(token.Boolean, 1)
	case tagFalse:
		r.boolVal = false
		r.setTok(token.Boolean, 1)

	case tagInt8, tagInt16, tagInt32, tagInt64:
		r.classifyInt(b)

	case tagFloat32:
		data, ok := r.src.SliceAt(1, 4)
		if !ok {
			r.fail(fmt.Errorf("transenc: truncated float32: %w", errs.ErrInvalidEncoding))
			return
		}
		r.floatVal = float64(math.Float32frombits(r.engine.Uint32(data)))
		r.setTok(token.Floating, 5)

	case tagFloat64:
		data, ok := r.src.SliceAt(1, 8)
		if !ok {
			r.fail(fmt.Errorf("transenc: truncated float64: %w", errs.ErrInvalidEncoding))
			return
		}
		r.floatVal = math.Float64frombits(r.engine.Uint64(data))
		r.setTok(token.Floating, 9)

	case tagStringInt8, tagStringInt16, tagStringInt32, tagStringInt64:
		r.classifyLenPrefixed(b, token.String)
	case tagBinaryInt8, tagBinaryInt16, tagBinaryInt32, tagBinaryInt64:
		r.classifyLenPrefixed(b, token.Binary)

	case tagArrayBegin:
		r.setTok(token.ArrayBegin, 1)
	case tagArrayEnd:
		r.setTok(token.ArrayEnd, 1)
	case tagMapBegin:
		r.setTok(token.MapBegin, 1)
	case tagMapEnd:
		r.setTok(token.MapEnd, 1)
	case tagRecordBegin:
		r.setTok(token.RecordBegin, 1)
	case tagRecordEnd:
		r.setTok(token.RecordEnd, 1)

	default:
		r.fail(fmt.Errorf("transenc: unknown tag 0x%02x: %w", b, errs.ErrInvalidEncoding))
	}
}

func (r *Reader) classifyInt(tag byte) {
	width := intTagWidth(tag)
	data, ok := r.src.SliceAt(1, width)
	if !ok {
		r.fail(fmt.Errorf("transenc: truncated int%d: %w", width*8, errs.ErrInvalidEncoding))
		return
	}

	switch width {
	case 1:
		r.intVal = int64(int8(data[0]))
	case 2:
		r.intVal = int64(int16(r.engine.Uint16(data)))
	case 4:
		r.intVal = int64(int32(r.engine.Uint32(data)))
	case 8:
		r.intVal = int64(r.engine.Uint64(data))
	}
	r.setTok(token.Integer, 1+width)
}

func (r *Reader) classifyLenPrefixed(tag byte, kind token.Token) {
	lenWidth := lenTagWidth(tag)
	lenBytes, ok := r.src.SliceAt(1, lenWidth)
	if !ok {
		r.fail(fmt.Errorf("transenc: truncated length prefix: %w", errs.ErrInvalidEncoding))
		return
	}

	var length uint64
	switch lenWidth {
	case 1:
		length = uint64(lenBytes[0])
	case 2:
		length = uint64(r.engine.Uint16(lenBytes))
	case 4:
		length = uint64(r.engine.Uint32(lenBytes))
	case 8:
		length = r.engine.Uint64(lenBytes)
	}

	if length > math.MaxInt64 {
		r.fail(fmt.Errorf("transenc: length %d exceeds int64: %w", length, errs.ErrOverflow))
		return
	}

	headerLen := 1 + lenWidth
	if _, ok := r.src.SliceAt(headerLen, int(length)); !ok {
		r.fail(fmt.Errorf("transenc: truncated payload: %w", errs.ErrInvalidEncoding))
		return
	}

	r.payloadOff = headerLen
	r.payloadLen = int(length)
	r.setTok(kind, headerLen+int(length))
}

// Next advances past the current token and reports whether another token
// is available. It returns false when the advance reaches Eof, when the
// current token is already Eof, or once the reader is in the Error state.
func (r *Reader) Next() bool {
	t := r.Type()
	if t == token.Eof || t == token.Error {
		return false
	}

	if r.synthetic {
		r.stack.Pop()
		r.have = false
		next := r.Type()

		return next != token.Eof && next != token.Error
	}

	switch t {
	case token.ArrayBegin:
		r.bumpParent()
		r.stack.Push(frame.ReaderFrame{Kind: frame.Array, Expected: r.pendingCnt})
	case token.MapBegin:
		r.bumpParent()
		r.stack.Push(frame.ReaderFrame{Kind: frame.Map, Expected: r.pendingCnt})
	case token.RecordBegin:
		r.bumpParent()
		r.stack.Push(frame.ReaderFrame{Kind: frame.Record, Expected: r.pendingCnt})

	case token.ArrayEnd, token.MapEnd, token.RecordEnd:
		if !r.popMatching(t) {
			return false
		}

	default:
		r.bumpParent()
	}

	r.src.Advance(r.tokLen)
	r.have = false
	next := r.Type()

	return next != token.Eof && next != token.Error
}

func (r *Reader) bumpParent() {
	if top, ok := r.stack.Top(); ok {
		top.Produced++
	}
}

func (r *Reader) popMatching(end token.Token) bool {
	top, ok := r.stack.Top()
	if !ok || !kindMatches(top.Kind, end) {
		r.fail(errs.ErrUnbalancedContainer)
		return false
	}
	r.stack.Pop()

	return true
}

func kindMatches(k frame.Kind, end token.Token) bool {
	switch end {
	case token.ArrayEnd:
		return k == frame.Array
	case token.MapEnd:
		return k == frame.Map
	case token.RecordEnd:
		return k == frame.Record
	default:
		return false
	}
}

// NextExpect advances and fails (returning an error) if the current
// token's kind does not match expected. On a mismatch the reader does not
// advance and stays on the token that was actually present: this is a
// caller convenience, not a structural assertion, so it does not set the
// sticky Error state.
func (r *Reader) NextExpect(expected token.Token) error {
	if r.Type() != expected {
		return fmt.Errorf("transenc: expected %s, got %s: %w", expected, r.Type(), errs.ErrUnexpectedToken)
	}
	r.Next()

	return nil
}

// Err returns the sticky error that put the reader into the Error state,
// or nil.
func (r *Reader) Err() error { return r.err }

// GetBool returns the payload of a Boolean token.
func (r *Reader) GetBool() (bool, error) {
	if r.Type() != token.Boolean {
		return false, fmt.Errorf("transenc: GetBool on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}

	return r.boolVal, nil
}

// GetInt64 returns the payload of an Integer token, widened to int64.
func (r *Reader) GetInt64() (int64, error) {
	if r.Type() != token.Integer {
		return 0, fmt.Errorf("transenc: GetInt64 on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}

	return r.intVal, nil
}

// GetFloat64 returns the payload of a Floating token, widened to float64.
func (r *Reader) GetFloat64() (float64, error) {
	if r.Type() != token.Floating {
		return 0, fmt.Errorf("transenc: GetFloat64 on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}

	return r.floatVal, nil
}

// GetString returns the payload of a String token.
func (r *Reader) GetString() (string, error) {
	if r.Type() != token.String {
		return "", fmt.Errorf("transenc: GetString on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}
	data, _ := r.src.SliceAt(r.payloadOff, r.payloadLen)

	return string(data), nil
}

// GetBinary returns the payload of a Binary token. The returned slice
// aliases the Source's backing array and is only valid until the next
// call to Next.
func (r *Reader) GetBinary() ([]byte, error) {
	if r.Type() != token.Binary {
		return nil, fmt.Errorf("transenc: GetBinary on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}
	data, _ := r.src.SliceAt(r.payloadOff, r.payloadLen)

	return data, nil
}
