// Package writer interposes between the archive layer and a per-format
// Encoder, enforcing each wire format's structural rules and (for JSON)
// injecting the separators a token-at-a-time encoder cannot know about on
// its own. See NewJSON and NewBinary.
package writer

import "errors"

// ErrRefused is returned when the underlying encoder refused a write —
// either because its sink ran out of capacity, or (MsgPack only)
// because a container was opened without the explicit element count the
// format requires.
var ErrRefused = errors.New("writer: encoder refused write")

// ErrMismatchedEnd is returned when EndArray/EndMap is called while the
// top of the writer-side frame stack is not of the matching kind.
var ErrMismatchedEnd = errors.New("writer: mismatched container end")

// Writer is the archive-facing adapter shared by all three formats. The
// archive layer drives it with typed primitive writes and container
// begin/end calls; Writer decides what bytes (if any) that implies for
// its underlying format.
type Writer interface {
	PutNull() error
	PutBool(v bool) error
	PutInt(v int64) error
	PutFloat64(v float64) error
	PutString(v string) error
	PutBinary(v []byte) error

	// BeginArray starts an array of n elements, or an unsized array if
	// n < 0. MsgPack has no unsized form: BeginArray(-1) against a
	// MsgPack-backed Writer returns ErrRefused.
	BeginArray(n int) error
	EndArray() error

	// BeginMap starts a map of n pairs, or an unsized map if n < 0 (same
	// MsgPack caveat as BeginArray). keysAreStrings tells a JSON-backed
	// Writer whether to emit a real JSON object or fall back to an array
	// of [key, value] pairs (see the jsonWriter doc in json_writer.go).
	// Binary writers ignore it and pass keys through unchanged.
	BeginMap(n int, keysAreStrings bool) error
	EndMap() error
}
