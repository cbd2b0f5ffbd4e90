package transenc

import (
	"math"

	"github.com/arloliu/wiretoken/endian"
	"github.com/arloliu/wiretoken/internal/options"
	"github.com/arloliu/wiretoken/iobuf"
)

// Encoder writes TRANSENC tokens to a Sink. Every Put* method writes a
// single complete token or refuses atomically; see the package doc and
// spec §4.2 for the contract.
type Encoder struct {
	sink   iobuf.Sink
	engine endian.EndianEngine
}

// Option configures an Encoder.
type Option = options.Option[*Encoder]

// WithEndian overrides the byte order used for multi-byte payloads. The
// TRANSENC wire format is little-endian; this exists for symmetric
// encode/decode pairs under the caller's own control, not for
// interoperability with the published format.
func WithEndian(engine endian.EndianEngine) Option {
	return options.NoError(func(e *Encoder) { e.engine = engine })
}

// New creates an Encoder writing to sink.
func New(sink iobuf.Sink, opts ...Option) *Encoder {
	e := &Encoder{sink: sink, engine: endian.GetLittleEndianEngine()}
	if err := options.Apply(e, opts...); err != nil {
		// No current Option can fail; kept for parity with the
		// generic options.Apply contract used across the codebase.
		panic(err)
	}

	return e
}

// Put writes the null token.
func (e *Encoder) Put() int {
	return e.putTag(tagNull)
}

// PutBool writes a boolean token.
func (e *Encoder) PutBool(v bool) int {
	if v {
		return e.putTag(tagTrue)
	}

	return e.putTag(tagFalse)
}

func (e *Encoder) putTag(tag byte) int {
	if !e.sink.Reserve(1) {
		return 0
	}
	e.sink.WriteByte(tag)

	return 1
}

// PutInt writes a signed 64-bit integer, choosing the narrowest encoding
// from spec §4.2's width-selection table.
func (e *Encoder) PutInt(v int64) int {
	if v >= inlineMin && v <= inlineMax {
		if !e.sink.Reserve(1) {
			return 0
		}
		e.sink.WriteByte(byte(int8(v)))

		return 1
	}

	var tag byte
	var width int
	switch {
	case v >= -128 && v < inlineMin:
		tag, width = tagInt8, 1
	case v >= -32768 && v <= 32767:
		tag, width = tagInt16, 2
	case v >= -(1<<31) && v <= (1<<31)-1:
		tag, width = tagInt32, 4
	default:
		tag, width = tagInt64, 8
	}

	n := 1 + width
	if !e.sink.Reserve(n) {
		return 0
	}
	e.sink.WriteByte(tag)

	buf := make([]byte, width)
	switch width {
	case 1:
		buf[0] = byte(int8(v))
	case 2:
		e.engine.PutUint16(buf, uint16(int16(v)))
	case 4:
		e.engine.PutUint32(buf, uint32(int32(v)))
	case 8:
		e.engine.PutUint64(buf, uint64(v))
	}
	e.sink.Write(buf)

	return n
}

// PutFloat32 writes a 32-bit IEEE-754 float, preserved bit-exact
// (including non-finite values).
func (e *Encoder) PutFloat32(v float32) int {
	if !e.sink.Reserve(5) {
		return 0
	}
	e.sink.WriteByte(tagFloat32)
	buf := make([]byte, 4)
	e.engine.PutUint32(buf, math.Float32bits(v))
	e.sink.Write(buf)

	return 5
}

// PutFloat64 writes a 64-bit IEEE-754 float, preserved bit-exact
// (including non-finite values).
func (e *Encoder) PutFloat64(v float64) int {
	if !e.sink.Reserve(9) {
		return 0
	}
	e.sink.WriteByte(tagFloat64)
	buf := make([]byte, 8)
	e.engine.PutUint64(buf, math.Float64bits(v))
	e.sink.Write(buf)

	return 9
}

// PutString writes a UTF-8 string with the narrowest length prefix that
// fits len(s). It fails (returns 0) if s is longer than 2^63-1 bytes,
// which in practice never happens on a 64-bit host but is checked to
// honor the documented contract.
func (e *Encoder) PutString(s string) int {
	return e.putLenPrefixed(stringTagByWidth, []byte(s))
}

// PutBinary writes an opaque byte slice with the narrowest length prefix
// that fits len(b).
func (e *Encoder) PutBinary(b []byte) int {
	return e.putLenPrefixed(binaryTagByWidth, b)
}

func (e *Encoder) putLenPrefixed(tags [4]byte, data []byte) int {
	class := widthClass(int64(len(data)))
	if class < 0 {
		return 0
	}
	lenWidth := 1 << class // 1, 2, 4, 8
	total := 1 + lenWidth + len(data)

	if !e.sink.Reserve(total) {
		return 0
	}
	e.sink.WriteByte(tags[class])

	lenBuf := make([]byte, lenWidth)
	switch lenWidth {
	case 1:
		lenBuf[0] = byte(len(data))
	case 2:
		e.engine.PutUint16(lenBuf, uint16(len(data)))
	case 4:
		e.engine.PutUint32(lenBuf, uint32(len(data)))
	case 8:
		e.engine.PutUint64(lenBuf, uint64(len(data)))
	}
	e.sink.Write(lenBuf)
	e.sink.Write(data)

	return total
}

// PutArrayBegin writes an unsized array-begin sentinel.
func (e *Encoder) PutArrayBegin() int { return e.putTag(tagArrayBegin) }

// PutArrayBeginN writes an array-begin sentinel. TRANSENC has no sized
// array form on the wire (see spec §6: "containers use unsized begin/end
// sentinels"), so the count is accepted for interface symmetry with
// MsgPack and ignored, producing the same bytes as PutArrayBegin.
func (e *Encoder) PutArrayBeginN(int) int { return e.putTag(tagArrayBegin) }

// PutArrayEnd writes the matching array-end sentinel.
func (e *Encoder) PutArrayEnd() int { return e.putTag(tagArrayEnd) }

// PutMapBegin writes an unsized map-begin sentinel.
func (e *Encoder) PutMapBegin() int { return e.putTag(tagMapBegin) }

// PutMapBeginN writes a map-begin sentinel; see PutArrayBeginN.
func (e *Encoder) PutMapBeginN(int) int { return e.putTag(tagMapBegin) }

// PutMapEnd writes the matching map-end sentinel.
func (e *Encoder) PutMapEnd() int { return e.putTag(tagMapEnd) }

// PutRecordBegin writes a record-begin sentinel. Records are a
// TRANSENC-only concept; JSON and MsgPack lower records to maps.
func (e *Encoder) PutRecordBegin() int { return e.putTag(tagRecordBegin) }

// PutRecordEnd writes the matching record-end sentinel.
func (e *Encoder) PutRecordEnd() int { return e.putTag(tagRecordEnd) }
