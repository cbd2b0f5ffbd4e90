// Package errs defines the sentinel errors shared by every codec package in
// wiretoken. Callers compare against these with errors.Is; formats wrap them
// with fmt.Errorf("...: %w", ...) to attach positional context.
package errs

import "errors"

var (
	// ErrUnexpectedToken is returned by a typed getter or structural
	// assertion (Next(expected), load_array_begin, ...) when the reader's
	// current token does not match what the caller asked for. It does not
	// poison the reader: the caller may inspect Type() and retry.
	ErrUnexpectedToken = errors.New("wiretoken: unexpected token")

	// ErrInvalidEncoding marks malformed wire bytes: a truncated length
	// prefix, an unknown tag byte, invalid UTF-8 in a JSON string, or a
	// JSON literal that does not match the grammar. It is sticky: once
	// returned it transitions the reader to the Error token permanently.
	ErrInvalidEncoding = errors.New("wiretoken: invalid encoding")

	// ErrUnbalancedContainer marks an end token whose kind does not match
	// the top of the frame stack (e.g. MapEnd while the top frame is an
	// Array). It is sticky.
	ErrUnbalancedContainer = errors.New("wiretoken: unbalanced container")

	// ErrOverflow marks a length or integer value that exceeds what the
	// wire format or the host's int can represent. It is sticky when
	// raised by a reader; an encoder instead returns 0 (see ErrSinkExhausted).
	ErrOverflow = errors.New("wiretoken: overflow")

	// ErrSinkExhausted is never returned as an error value: it documents
	// the meaning of a 0 return from an Encoder Put* method. Sinks report
	// it by refusing Reserve, not by raising an error.
	ErrSinkExhausted = errors.New("wiretoken: sink exhausted")

	// ErrNonStringKey names a map key that did not arrive as a string. No
	// code in this module returns it: JSON writers do not fail on such a
	// key, they fall back to array-of-pairs encoding (see writer.Writer),
	// and no strict map-key check exists.
	ErrNonStringKey = errors.New("wiretoken: non-string map key")

	// ErrMaxDepthExceeded is returned by a reader configured with a
	// nesting-depth limit (msgpack.WithMaxDepth, json.WithMaxDepth) when
	// a Begin token would push the frame stack past that limit. It is
	// sticky, guarding against unbounded recursion from untrusted input.
	ErrMaxDepthExceeded = errors.New("wiretoken: max nesting depth exceeded")
)
