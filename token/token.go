// Package token defines the alphabet shared by every wire format reader and
// encoder in wiretoken: a closed set of tagged token kinds that the JSON,
// TRANSENC and MsgPack codecs all lower to and from.
package token

// Token is a tagged classification of the value at a reader's current
// cursor position, or of the value an encoder is about to write.
type Token uint8

const (
	// Eof means the source is exhausted at a token boundary.
	Eof Token = iota
	// Error means the reader is in its sticky failure state.
	Error
	Null
	Boolean
	Integer
	Floating
	String
	Binary
	ArrayBegin
	ArrayEnd
	MapBegin
	MapEnd
	RecordBegin
	RecordEnd
)

func (t Token) String() string {
	switch t {
	case Eof:
		return "Eof"
	case Error:
		return "Error"
	case Null:
		return "Null"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Floating:
		return "Floating"
	case String:
		return "String"
	case Binary:
		return "Binary"
	case ArrayBegin:
		return "ArrayBegin"
	case ArrayEnd:
		return "ArrayEnd"
	case MapBegin:
		return "MapBegin"
	case MapEnd:
		return "MapEnd"
	case RecordBegin:
		return "RecordBegin"
	case RecordEnd:
		return "RecordEnd"
	default:
		return "Unknown"
	}
}

// IsBegin reports whether t opens a container.
func (t Token) IsBegin() bool {
	return t == ArrayBegin || t == MapBegin || t == RecordBegin
}

// IsEnd reports whether t closes a container.
func (t Token) IsEnd() bool {
	return t == ArrayEnd || t == MapEnd || t == RecordEnd
}

// IsScalar reports whether t carries a primitive payload (as opposed to a
// container boundary or a control token).
func (t Token) IsScalar() bool {
	switch t {
	case Null, Boolean, Integer, Floating, String, Binary:
		return true
	default:
		return false
	}
}
