// Package transenc implements the TRANSENC wire format: a self-delimiting
// binary encoding where every token is a single tag byte followed by an
// optional little-endian payload. Integers in [-32, 127] are encoded
// inline in the tag byte itself; containers are unsized and closed by an
// explicit matching end sentinel.
package transenc

import "github.com/arloliu/wiretoken/token"

// Tag bytes. Values in [0x00, 0x7F] and [0xE0, 0xFF] are reserved for
// inline signed integers (see classify); the remaining [0x80, 0xDF] range
// holds one tag per token kind.
const (
	tagFalse byte = 0x80
	tagTrue  byte = 0x81
	tagNull  byte = 0x82

	tagInt8  byte = 0x83
	tagInt16 byte = 0x84
	tagInt32 byte = 0x85
	tagInt64 byte = 0x86

	tagFloat32 byte = 0x87
	tagFloat64 byte = 0x88

	tagStringInt8  byte = 0x89
	tagStringInt16 byte = 0x8A
	tagStringInt32 byte = 0x8B
	tagStringInt64 byte = 0x8C

	tagBinaryInt8  byte = 0x8D
	tagBinaryInt16 byte = 0x8E
	tagBinaryInt32 byte = 0x8F
	tagBinaryInt64 byte = 0x90

	tagArrayBegin byte = 0x91
	tagArrayEnd   byte = 0x92
	tagMapBegin   byte = 0x93
	tagMapEnd     byte = 0x94
	tagRecordBegin byte = 0x95
	tagRecordEnd   byte = 0x96
)

// inlineMin/inlineMax bound the inline integer range; its negative part
// wraps around the top of the byte range (0xE0-0xFF).
const (
	inlineMin = -32
	inlineMax = 127
)

// intTagWidth maps an int tag byte to its payload width in bytes.
func intTagWidth(tag byte) int {
	switch tag {
	case tagInt8:
		return 1
	case tagInt16:
		return 2
	case tagInt32:
		return 4
	case tagInt64:
		return 8
	default:
		return 0
	}
}

// lenTagWidth maps a string/binary length-prefix tag to the width (in
// bytes) of the length field that follows it.
func lenTagWidth(tag byte) int {
	switch tag {
	case tagStringInt8, tagBinaryInt8:
		return 1
	case tagStringInt16, tagBinaryInt16:
		return 2
	case tagStringInt32, tagBinaryInt32:
		return 4
	case tagStringInt64, tagBinaryInt64:
		return 8
	default:
		return 0
	}
}

var stringTagByWidth = [4]byte{tagStringInt8, tagStringInt16, tagStringInt32, tagStringInt64}
var binaryTagByWidth = [4]byte{tagBinaryInt8, tagBinaryInt16, tagBinaryInt32, tagBinaryInt64}

// widthClass returns the index into {8,16,32,64}-bit length/width tags
// that is the narrowest one able to hold n, or -1 if n cannot be
// represented even by the 64-bit form (n < 0, which never legitimately
// happens for a length computed from len()).
func widthClass(n int64) int {
	switch {
	case n < 0:
		return -1
	case n <= 0xFF:
		return 0
	case n <= 0xFFFF:
		return 1
	case n <= 0xFFFFFFFF:
		return 2
	default:
		return 3
	}
}

// tokenKindForTag classifies a non-inline tag byte into a Token. It does
// not distinguish between the width variants of Integer/String/Binary;
// that distinction only matters to the encoder and to classify's payload
// parsing.
func tokenKindForTag(b byte) (token.Token, bool) {
	switch b {
	case tagNull:
		return token.Null, true
	case tagTrue, tagFalse:
		return token.Boolean, true
	case tagInt8, tagInt16, tagInt32, tagInt64:
		return token.Integer, true
	case tagFloat32, tagFloat64:
		return token.Floating, true
	case tagStringInt8, tagStringInt16, tagStringInt32, tagStringInt64:
		return token.String, true
	case tagBinaryInt8, tagBinaryInt16, tagBinaryInt32, tagBinaryInt64:
		return token.Binary, true
	case tagArrayBegin:
		return token.ArrayBegin, true
	case tagArrayEnd:
		return token.ArrayEnd, true
	case tagMapBegin:
		return token.MapBegin, true
	case tagMapEnd:
		return token.MapEnd, true
	case tagRecordBegin:
		return token.RecordBegin, true
	case tagRecordEnd:
		return token.RecordEnd, true
	default:
		return token.Error, false
	}
}

// isInline reports whether b is a single-byte inline integer (as opposed
// to a tag byte) and, if so, its decoded value.
func isInline(b byte) (int64, bool) {
	if b <= 0x7F {
		return int64(b), true
	}
	if b >= 0xE0 {
		return int64(int8(b)), true
	}

	return 0, false
}
