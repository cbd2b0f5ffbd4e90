package json

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arloliu/wiretoken/errs"
	"github.com/arloliu/wiretoken/iobuf"
)

// isLayout reports whether b is skippable filler between tokens: actual
// JSON whitespace (tab/newline/CR/space) plus ',' and ':'. This is a
// deliberate relaxation from RFC 8259: a strict parser would track
// comma/colon placement and reject malformed separators (e.g. "[1 2]",
// "{1:2:3}", "[1,,2]"); this reader only ever parses its own well-formed
// output, so it treats every separator as interchangeable layout instead
// of validating grammar it never needs to reject.
func isLayout(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ',', ':':
		return true
	default:
		return false
	}
}

// skipLayout returns the number of whitespace/separator bytes starting at
// cursor+0 that precede the next token. Commas and colons are pure
// syntactic filler between well-formed tokens, so the reader discards
// them here rather than tracking comma/colon position explicitly.
func skipLayout(src iobuf.Source) int {
	n := 0
	for {
		b, ok := src.PeekAt(n)
		if !ok || !isLayout(b) {
			return n
		}
		n++
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// scanNumber parses a JSON number starting at offset and returns the
// number of bytes it occupies and whether it has a fractional part or
// exponent (i.e. should classify as Floating rather than Integer).
func scanNumber(src iobuf.Source, offset int) (length int, isFloat bool, ok bool) {
	start := offset
	i := offset

	if b, has := src.PeekAt(i); has && b == '-' {
		i++
	}

	intStart := i
	digits := 0
	for {
		b, has := src.PeekAt(i)
		if !has || !isDigit(b) {
			break
		}
		i++
		digits++
	}
	if digits == 0 {
		return 0, false, false
	}
	if first, _ := src.PeekAt(intStart); digits > 1 && first == '0' {
		// JSON's integer part must be a single "0" or a non-zero digit
		// followed by more digits, never a leading zero.
		return 0, false, false
	}

	if b, has := src.PeekAt(i); has && b == '.' {
		j := i + 1
		fracDigits := 0
		for {
			b, has := src.PeekAt(j)
			if !has || !isDigit(b) {
				break
			}
			j++
			fracDigits++
		}
		if fracDigits == 0 {
			return 0, false, false
		}
		i = j
		isFloat = true
	}

	if b, has := src.PeekAt(i); has && (b == 'e' || b == 'E') {
		j := i + 1
		if b, has := src.PeekAt(j); has && (b == '+' || b == '-') {
			j++
		}
		expDigits := 0
		for {
			b, has := src.PeekAt(j)
			if !has || !isDigit(b) {
				break
			}
			j++
			expDigits++
		}
		if expDigits == 0 {
			return 0, false, false
		}
		i = j
		isFloat = true
	}

	return i - start, isFloat, true
}

// scanKeyword reports whether the literal word appears at offset.
func scanKeyword(src iobuf.Source, offset int, word string) bool {
	data, ok := src.SliceAt(offset, len(word))
	if !ok {
		return false
	}

	return string(data) == word
}

// scanString parses a JSON string starting at the opening quote (offset
// points at '"') and returns the total byte length including both quotes,
// the decoded value, and ok. It fails on an unterminated string, an
// invalid escape, a lone UTF-16 surrogate, or bytes that are not valid
// UTF-8.
func scanString(src iobuf.Source, offset int) (length int, decoded string, err error) {
	i := offset + 1 // past opening quote
	var buf []byte

	for {
		b, has := src.PeekAt(i)
		if !has {
			return 0, "", fmt.Errorf("json: unterminated string: %w", errs.ErrInvalidEncoding)
		}

		switch {
		case b == '"':
			if !utf8.Valid(buf) {
				return 0, "", fmt.Errorf("json: invalid UTF-8 in string: %w", errs.ErrInvalidEncoding)
			}

			return i + 1 - offset, string(buf), nil

		case b == '\\':
			esc, has := src.PeekAt(i + 1)
			if !has {
				return 0, "", fmt.Errorf("json: unterminated escape: %w", errs.ErrInvalidEncoding)
			}
			switch esc {
			case '"', '\\', '/':
				buf = append(buf, esc)
				i += 2
			case 'b':
				buf = append(buf, '\b')
				i += 2
			case 'f':
				buf = append(buf, '\f')
				i += 2
			case 'n':
				buf = append(buf, '\n')
				i += 2
			case 'r':
				buf = append(buf, '\r')
				i += 2
			case 't':
				buf = append(buf, '\t')
				i += 2
			case 'u':
				r, consumed, ok := decodeUnicodeEscape(src, i)
				if !ok {
					return 0, "", fmt.Errorf("json: invalid \\u escape: %w", errs.ErrInvalidEncoding)
				}
				var tmp [utf8.UTFMax]byte
				n := utf8.EncodeRune(tmp[:], r)
				buf = append(buf, tmp[:n]...)
				i += consumed
			default:
				return 0, "", fmt.Errorf("json: unknown escape \\%c: %w", esc, errs.ErrInvalidEncoding)
			}

		case b < 0x20:
			return 0, "", fmt.Errorf("json: unescaped control byte 0x%02x in string: %w", b, errs.ErrInvalidEncoding)

		default:
			buf = append(buf, b)
			i++
		}
	}
}

// decodeUnicodeEscape reads a \uXXXX escape (and, for a high surrogate, a
// following \uXXXX low surrogate) starting at the backslash of the first
// \u. It returns the decoded rune and the number of source bytes
// consumed starting from that backslash.
func decodeUnicodeEscape(src iobuf.Source, backslashOffset int) (rune, int, bool) {
	hi, ok := readHex4(src, backslashOffset+2)
	if !ok {
		return 0, 0, false
	}

	if utf16.IsSurrogate(rune(hi)) {
		lo, ok := readHex4(src, backslashOffset+8)
		if !ok {
			return 0, 0, false
		}
		if b0, has := src.PeekAt(backslashOffset + 6); !has || b0 != '\\' {
			return 0, 0, false
		}
		if b1, has := src.PeekAt(backslashOffset + 7); !has || b1 != 'u' {
			return 0, 0, false
		}
		r := utf16.DecodeRune(rune(hi), rune(lo))
		if r == utf8.RuneError {
			return 0, 0, false
		}

		return r, 12, true
	}

	return rune(hi), 6, true
}

func readHex4(src iobuf.Source, offset int) (uint16, bool) {
	data, ok := src.SliceAt(offset, 4)
	if !ok {
		return 0, false
	}

	var v uint16
	for _, b := range data {
		v <<= 4
		switch {
		case b >= '0' && b <= '9':
			v |= uint16(b - '0')
		case b >= 'a' && b <= 'f':
			v |= uint16(b-'a') + 10
		case b >= 'A' && b <= 'F':
			v |= uint16(b-'A') + 10
		default:
			return 0, false
		}
	}

	return v, true
}
