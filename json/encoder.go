package json

import (
	"encoding/base64"

	"github.com/arloliu/wiretoken/iobuf"
)

// Encoder writes JSON-shaped tokens to a Sink. Unlike the binary
// formats, Encoder emits only the literal bytes for a value or structural
// bracket; it does not track container state or inject separators — that
// is the writer package's job (see its Writer adapter), since separator
// placement depends on sibling values the per-format encoder never sees.
type Encoder struct {
	sink iobuf.Sink
}

// New creates an Encoder writing to sink.
func New(sink iobuf.Sink) *Encoder {
	return &Encoder{sink: sink}
}

func (e *Encoder) putRaw(b []byte) int {
	if !e.sink.Reserve(len(b)) {
		return 0
	}
	e.sink.Write(b)

	return len(b)
}

// Put writes the null literal.
func (e *Encoder) Put() int {
	return e.putRaw([]byte("null"))
}

// PutBool writes the true/false literal.
func (e *Encoder) PutBool(v bool) int {
	if v {
		return e.putRaw([]byte("true"))
	}

	return e.putRaw([]byte("false"))
}

// PutInt writes a signed 64-bit integer in decimal.
func (e *Encoder) PutInt(v int64) int {
	return e.putRaw(appendInt(nil, v))
}

// PutFloat64 writes a 64-bit float in shortest round-trip decimal. Per
// spec, non-finite values (NaN, +/-Inf) serialize as the null literal —
// lossy but deterministic, and intentionally asymmetric: decoding null
// never produces infinity.
func (e *Encoder) PutFloat64(v float64) int {
	if !isFiniteFloat(v) {
		return e.Put()
	}

	return e.putRaw(appendFloat(nil, v))
}

// PutString writes s as a quoted, escaped JSON string.
func (e *Encoder) PutString(s string) int {
	return e.putRaw(appendEscapedString(nil, s))
}

// PutBinary writes b as a base64-encoded JSON string. JSON has no native
// binary type; this module's JSON reader recognizes a quoted string as a
// valid Binary payload on demand (see Reader.GetBinary), not by lexical
// distinction from String — the caller's typed getter choice decides
// which interpretation applies.
func (e *Encoder) PutBinary(b []byte) int {
	return e.PutString(base64.StdEncoding.EncodeToString(b))
}

// PutArrayBegin writes '['.
func (e *Encoder) PutArrayBegin() int { return e.putRaw([]byte{'['}) }

// PutArrayBeginN writes '['. JSON arrays carry no count on the wire; n is
// accepted for interface parity with MsgPack and ignored.
func (e *Encoder) PutArrayBeginN(int) int { return e.putRaw([]byte{'['}) }

// PutArrayEnd writes ']'.
func (e *Encoder) PutArrayEnd() int { return e.putRaw([]byte{']'}) }

// PutMapBegin writes '{'.
func (e *Encoder) PutMapBegin() int { return e.putRaw([]byte{'{'}) }

// PutMapBeginN writes '{'; see PutArrayBeginN.
func (e *Encoder) PutMapBeginN(int) int { return e.putRaw([]byte{'{'}) }

// PutMapEnd writes '}'.
func (e *Encoder) PutMapEnd() int { return e.putRaw([]byte{'}'}) }
