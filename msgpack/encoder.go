package msgpack

import (
	"math"

	"github.com/arloliu/wiretoken/endian"
	"github.com/arloliu/wiretoken/internal/options"
	"github.com/arloliu/wiretoken/iobuf"
)

// Encoder writes MsgPack-shaped tokens to a Sink. Every Put* method writes
// a single complete token or refuses atomically.
type Encoder struct {
	sink   iobuf.Sink
	engine endian.EndianEngine
}

// Option configures an Encoder.
type Option = options.Option[*Encoder]

// WithEndian overrides the byte order used for multi-byte payloads. The
// published MsgPack specification mandates big-endian (network byte
// order), which is the default; this exists only for callers who
// explicitly want a non-conformant symmetric encode/decode pair.
func WithEndian(engine endian.EndianEngine) Option {
	return options.NoError(func(e *Encoder) { e.engine = engine })
}

// New creates an Encoder writing to sink.
func New(sink iobuf.Sink, opts ...Option) *Encoder {
	e := &Encoder{sink: sink, engine: endian.GetBigEndianEngine()}
	if err := options.Apply(e, opts...); err != nil {
		panic(err)
	}

	return e
}

// Put writes the nil token.
func (e *Encoder) Put() int {
	return e.putTag(tagNil)
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

// PutInt writes a signed 64-bit integer using the narrowest MsgPack form:
// positive fixint, negative fixint, or the int8/16/32/64 family. It never
// emits a uint tag (see PutUint).
func (e *Encoder) PutInt(v int64) int {
	switch {
	case v >= 0 && v <= int64(positiveFixintMax):
		if !e.sink.Reserve(1) {
			return 0
		}
		e.sink.WriteByte(byte(v))

		return 1
	case v < 0 && v >= -32:
		if !e.sink.Reserve(1) {
			return 0
		}
		e.sink.WriteByte(byte(int8(v)))

		return 1
	}

	var tag byte
	var width int
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		tag, width = tagInt8, 1
	case v >= math.MinInt16 && v <= math.MaxInt16:
		tag, width = tagInt16, 2
	case v >= math.MinInt32 && v <= math.MaxInt32:
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

// PutUint writes an unsigned 64-bit integer using the narrowest
// uint8/16/32/64 form. Values that fit the positive-fixint range are
// written as a single fixint byte, the same form PutInt uses; larger
// values always get an explicit uint tag.
func (e *Encoder) PutUint(v uint64) int {
	if v <= uint64(positiveFixintMax) {
		if !e.sink.Reserve(1) {
			return 0
		}
		e.sink.WriteByte(byte(v))

		return 1
	}

	var tag byte
	var width int
	switch {
	case v <= math.MaxUint8:
		tag, width = tagUint8, 1
	case v <= math.MaxUint16:
		tag, width = tagUint16, 2
	case v <= math.MaxUint32:
		tag, width = tagUint32, 4
	default:
		tag, width = tagUint64, 8
	}

	n := 1 + width
	if !e.sink.Reserve(n) {
		return 0
	}
	e.sink.WriteByte(tag)

	buf := make([]byte, width)
	switch width {
	case 1:
		buf[0] = byte(v)
	case 2:
		e.engine.PutUint16(buf, uint16(v))
	case 4:
		e.engine.PutUint32(buf, uint32(v))
	case 8:
		e.engine.PutUint64(buf, v)
	}
	e.sink.Write(buf)

	return n
}

// PutFloat32 writes a 32-bit IEEE-754 float.
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

// PutFloat64 writes a 64-bit IEEE-754 float.
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

// PutString writes a UTF-8 string, choosing fixstr when it fits in 5 bits
// of length and the narrowest str8/16/32 form otherwise.
func (e *Encoder) PutString(s string) int {
	data := []byte(s)
	if len(data) <= 31 {
		if !e.sink.Reserve(1 + len(data)) {
			return 0
		}
		e.sink.WriteByte(fixstrTag | byte(len(data)))
		e.sink.Write(data)

		return 1 + len(data)
	}

	return e.putLenPrefixed(strTagByWidth, data)
}

// PutBinary writes an opaque byte slice using the narrowest bin8/16/32
// form. MsgPack has no fixbin form.
func (e *Encoder) PutBinary(b []byte) int {
	return e.putLenPrefixed(binTagByWidth, b)
}

func (e *Encoder) putLenPrefixed(tags [4]byte, data []byte) int {
	class := widthClass(int64(len(data)))
	if class < 0 {
		return 0
	}
	lenWidth := 1 << class
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
	}
	e.sink.Write(lenBuf)
	e.sink.Write(data)

	return total
}

// PutArrayBeginN writes a sized array-begin header for n elements, using
// fixarray when n <= 15 and array16/32 otherwise. MsgPack arrays always
// carry an explicit count; there is no unsized form.
func (e *Encoder) PutArrayBeginN(n int) int {
	return e.putContainerBeginN(n, fixarrayTag, fixarrayMax, tagArray16, tagArray32, false)
}

// PutMapBeginN writes a sized map-begin header for n pairs, using fixmap
// when n <= 15 and map16/32 otherwise.
func (e *Encoder) PutMapBeginN(n int) int {
	return e.putContainerBeginN(n, fixmapTag, fixmapMax, tagMap16, tagMap32, false)
}

// PutArrayEnd is a no-op that exists only so Encoder satisfies the shared
// writer.Writer binary backend interface: a MsgPack array closes
// implicitly once its element count (written at PutArrayBeginN) is
// satisfied on decode, so there is no wire-level end marker to emit. It
// always succeeds.
func (e *Encoder) PutArrayEnd() int { return 1 }

// PutMapEnd is the map counterpart of PutArrayEnd; see its doc.
func (e *Encoder) PutMapEnd() int { return 1 }

func (e *Encoder) putContainerBeginN(n int, fixBase, fixMax, tag16, tag32 byte, _ bool) int {
	if n < 0 {
		return 0
	}
	if n <= int(fixMax-fixBase) {
		if !e.sink.Reserve(1) {
			return 0
		}
		e.sink.WriteByte(fixBase | byte(n))

		return 1
	}
	if n <= 0xFFFF {
		if !e.sink.Reserve(3) {
			return 0
		}
		e.sink.WriteByte(tag16)
		buf := make([]byte, 2)
		e.engine.PutUint16(buf, uint16(n))
		e.sink.Write(buf)

		return 3
	}
	if !e.sink.Reserve(5) {
		return 0
	}
	e.sink.WriteByte(tag32)
	buf := make([]byte, 4)
	e.engine.PutUint32(buf, uint32(n))
	e.sink.Write(buf)

	return 5
}
