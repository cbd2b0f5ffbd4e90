package json

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/arloliu/wiretoken/errs"
	"github.com/arloliu/wiretoken/frame"
	"github.com/arloliu/wiretoken/internal/options"
	"github.com/arloliu/wiretoken/iobuf"
	"github.com/arloliu/wiretoken/token"
)

// Reader advances over a Source one JSON token at a time. JSON containers
// never carry an explicit count on the wire, so — like TRANSENC — every
// frame here is unsized and closed only by an explicit ']'/'}'.
type Reader struct {
	src      iobuf.Source
	stack    frame.ReaderStack
	err      error
	maxDepth int

	have   bool
	tok    token.Token
	tokLen int

	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
}

// ReaderOption configures a Reader.
type ReaderOption = options.Option[*Reader]

// WithMaxDepth caps the reader's frame-stack depth: once a Begin token
// would nest containers past depth, Next reports ErrMaxDepthExceeded
// instead of pushing the frame. A depth of 0 (the default) means
// unlimited.
func WithMaxDepth(depth int) ReaderOption {
	return options.NoError(func(r *Reader) { r.maxDepth = depth })
}

// NewReader creates a Reader over src.
func NewReader(src iobuf.Source, opts ...ReaderOption) *Reader {
	r := &Reader{src: src}
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

	skip := skipLayout(r.src)
	b, ok := r.src.PeekAt(skip)
	if !ok {
		r.setTok(token.Eof, skip)
		return r.tok
	}

	r.classify(skip, b)

	return r.tok
}

// Size returns the current frame-stack depth (0 at top level).
func (r *Reader) Size() int {
	return r.stack.Len()
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
}

func (r *Reader) classify(skip int, b byte) {
	switch {
	case b == '"':
		length, s, err := scanString(r.src, skip)
		if err != nil {
			r.fail(err)
			return
		}
		r.strVal = s
		r.setTok(token.String, skip+length)

	case b == '[':
		r.setTok(token.ArrayBegin, skip+1)
	case b == ']':
		r.setTok(token.ArrayEnd, skip+1)
	case b == '{':
		r.setTok(token.MapBegin, skip+1)
	case b == '}':
		r.setTok(token.MapEnd, skip+1)

	case b == 't':
		if !scanKeyword(r.src, skip, "true") {
			r.fail(fmt.Errorf("json: invalid literal at keyword 't': %w", errs.ErrInvalidEncoding))
			return
		}
		r.boolVal = true
		r.setTok(token.Boolean, skip+4)

	case b == 'f':
		if !scanKeyword(r.src, skip, "false") {
			r.fail(fmt.Errorf("json: invalid literal at keyword 'f': %w", errs.ErrInvalidEncoding))
			return
		}
		r.boolVal = false
		r.setTok(token.Boolean, skip+5)

	case b == 'n':
		if !scanKeyword(r.src, skip, "null") {
			r.fail(fmt.Errorf("json: invalid literal at keyword 'n': %w", errs.ErrInvalidEncoding))
			return
		}
		r.setTok(token.Null, skip+4)

	case b == '-' || isDigit(b):
		length, isFloat, ok := scanNumber(r.src, skip)
		if !ok {
			r.fail(fmt.Errorf("json: invalid number literal: %w", errs.ErrInvalidEncoding))
			return
		}
		data, _ := r.src.SliceAt(skip, length)
		if isFloat {
			v, err := strconv.ParseFloat(string(data), 64)
			if err != nil {
				r.fail(fmt.Errorf("json: %w: %w", err, errs.ErrInvalidEncoding))
				return
			}
			r.floatVal = v
			r.setTok(token.Floating, skip+length)
		} else {
			v, err := strconv.ParseInt(string(data), 10, 64)
			if err != nil {
				r.fail(fmt.Errorf("json: %w: %w", err, errs.ErrInvalidEncoding))
				return
			}
			r.intVal = v
			r.setTok(token.Integer, skip+length)
		}

	default:
		r.fail(fmt.Errorf("json: unexpected byte 0x%02x: %w", b, errs.ErrInvalidEncoding))
	}
}

// Next advances past the current token and reports whether another token
// is available. It returns false when the advance reaches Eof, when the
// current token is already Eof, or once the reader is in the Error state.
func (r *Reader) Next() bool {
	t := r.Type()
	if t == token.Eof || t == token.Error {
		return false
	}

	switch t {
	case token.ArrayBegin, token.MapBegin:
		if r.maxDepth > 0 && r.stack.Len() >= r.maxDepth {
			r.fail(fmt.Errorf("json: nesting depth %d: %w", r.maxDepth, errs.ErrMaxDepthExceeded))
			return false
		}
		r.bumpParent()
		kind := frame.Array
		if t == token.MapBegin {
			kind = frame.Map
		}
		r.stack.Push(frame.ReaderFrame{Kind: kind, Expected: -1})

	case token.ArrayEnd, token.MapEnd:
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
	default:
		return false
	}
}

// NextExpect advances and fails (returning an error) if the current
// token's kind does not match expected. It does not poison the reader.
func (r *Reader) NextExpect(expected token.Token) error {
	if r.Type() != expected {
		return fmt.Errorf("json: expected %s, got %s: %w", expected, r.Type(), errs.ErrUnexpectedToken)
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
		return false, fmt.Errorf("json: GetBool on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}

	return r.boolVal, nil
}

// GetInt64 returns the payload of an Integer token.
func (r *Reader) GetInt64() (int64, error) {
	if r.Type() != token.Integer {
		return 0, fmt.Errorf("json: GetInt64 on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}

	return r.intVal, nil
}

// GetFloat64 returns the payload of a Floating token.
func (r *Reader) GetFloat64() (float64, error) {
	if r.Type() != token.Floating {
		return 0, fmt.Errorf("json: GetFloat64 on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}

	return r.floatVal, nil
}

// GetString returns the payload of a String token.
func (r *Reader) GetString() (string, error) {
	if r.Type() != token.String {
		return "", fmt.Errorf("json: GetString on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}

	return r.strVal, nil
}

// GetBinary returns the base64-decoded payload of a String token. JSON
// has no native binary type (see Encoder.PutBinary); a Binary getter call
// against any JSON string attempts base64 decoding rather than requiring
// a distinct lexical form.
func (r *Reader) GetBinary() ([]byte, error) {
	if r.Type() != token.String {
		return nil, fmt.Errorf("json: GetBinary on %s: %w", r.Type(), errs.ErrUnexpectedToken)
	}
	data, err := base64.StdEncoding.DecodeString(r.strVal)
	if err != nil {
		return nil, fmt.Errorf("json: GetBinary: invalid base64: %w", errs.ErrInvalidEncoding)
	}

	return data, nil
}
