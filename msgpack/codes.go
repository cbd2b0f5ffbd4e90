// Package msgpack implements the published MsgPack specification's tag-byte
// layout (fixint, fixstr, fixarray/fixmap, the str/bin/array/map/int/uint/
// float families) and its big-endian (network byte order) encoding of
// multi-byte payloads, so bytes produced here are wire-compatible with any
// standard MsgPack implementation. WithEndian/WithReaderEndian exist as an
// override for callers who explicitly want a non-conformant symmetric pair;
// the default is always big-endian. Extension types are not implemented.
package msgpack

import "github.com/arloliu/wiretoken/token"

// Fixed single-byte forms.
const (
	positiveFixintMax byte = 0x7F
	fixmapTag         byte = 0x80 // 0x80-0x8F, low nibble = pair count (0-15)
	fixmapMax         byte = 0x8F
	fixarrayTag       byte = 0x90 // 0x90-0x9F, low nibble = element count (0-15)
	fixarrayMax       byte = 0x9F
	fixstrTag         byte = 0xA0 // 0xA0-0xBF, low 5 bits = length (0-31)
	fixstrMax         byte = 0xBF
	negativeFixintMin byte = 0xE0
)

// Explicit tag bytes.
const (
	tagNil     byte = 0xC0
	tagFalse   byte = 0xC2
	tagTrue    byte = 0xC3
	tagBin8    byte = 0xC4
	tagBin16   byte = 0xC5
	tagBin32   byte = 0xC6
	tagFloat32 byte = 0xCA
	tagFloat64 byte = 0xCB
	tagUint8   byte = 0xCC
	tagUint16  byte = 0xCD
	tagUint32  byte = 0xCE
	tagUint64  byte = 0xCF
	tagInt8    byte = 0xD0
	tagInt16   byte = 0xD1
	tagInt32   byte = 0xD2
	tagInt64   byte = 0xD3
	tagStr8    byte = 0xD9
	tagStr16   byte = 0xDA
	tagStr32   byte = 0xDB
	tagArray16 byte = 0xDC
	tagArray32 byte = 0xDD
	tagMap16   byte = 0xDE
	tagMap32   byte = 0xDF
)

// binLenWidth returns the byte width of the length field following a bin
// tag, or 0 if tag is not a bin tag.
func binLenWidth(tag byte) int {
	switch tag {
	case tagBin8:
		return 1
	case tagBin16:
		return 2
	case tagBin32:
		return 4
	default:
		return 0
	}
}

// strLenWidth returns the byte width of the length field following a
// non-fixstr str tag, or 0 if tag is not one of str8/16/32.
func strLenWidth(tag byte) int {
	switch tag {
	case tagStr8:
		return 1
	case tagStr16:
		return 2
	case tagStr32:
		return 4
	default:
		return 0
	}
}

// intWidth returns the payload width of a signed int tag, or 0.
func intWidth(tag byte) int {
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

// uintWidth returns the payload width of an unsigned int tag, or 0.
func uintWidth(tag byte) int {
	switch tag {
	case tagUint8:
		return 1
	case tagUint16:
		return 2
	case tagUint32:
		return 4
	case tagUint64:
		return 8
	default:
		return 0
	}
}

var strTagByWidth = [4]byte{tagStr8, tagStr16, tagStr32, tagStr32}
var binTagByWidth = [4]byte{tagBin8, tagBin16, tagBin32, tagBin32}

// widthClass mirrors transenc's but bin/str only have 8/16/32-bit forms
// (no 64-bit length prefix in MsgPack); n beyond 32 bits is rejected.
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
		return -1
	}
}

// tokenKindForByte classifies the leading byte of a token header into a
// Token kind. It does not itself validate or consume any length/payload
// bytes; see Reader.classify for that.
func tokenKindForByte(b byte) (token.Token, bool) {
	switch {
	case b <= positiveFixintMax, b >= negativeFixintMin:
		return token.Integer, true
	case b >= fixmapTag && b <= fixmapMax:
		return token.MapBegin, true
	case b >= fixarrayTag && b <= fixarrayMax:
		return token.ArrayBegin, true
	case b >= fixstrTag && b <= fixstrMax:
		return token.String, true
	}

	switch b {
	case tagNil:
		return token.Null, true
	case tagFalse, tagTrue:
		return token.Boolean, true
	case tagBin8, tagBin16, tagBin32:
		return token.Binary, true
	case tagFloat32, tagFloat64:
		return token.Floating, true
	case tagUint8, tagUint16, tagUint32, tagUint64:
		return token.Integer, true
	case tagInt8, tagInt16, tagInt32, tagInt64:
		return token.Integer, true
	case tagStr8, tagStr16, tagStr32:
		return token.String, true
	case tagArray16, tagArray32:
		return token.ArrayBegin, true
	case tagMap16, tagMap32:
		return token.MapBegin, true
	default:
		return token.Error, false
	}
}
