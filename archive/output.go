// Package archive bridges application values to the token stream: Output
// drives a writer.Writer with typed save calls and container begin/end;
// Input mirrors it on the read side against any of the three codec
// Readers. Neither type knows how a caller's composite types are laid
// out — that traversal is the caller's (a struct-tag walker, a
// reflection-based encoder, hand-written save/load methods).
package archive

import (
	"github.com/arloliu/wiretoken/internal/options"
	"github.com/arloliu/wiretoken/writer"
)

// Format names the wire format an Output or Input is bridging to, purely
// for diagnostics: it plays no role in how bytes are produced, since that
// is entirely the concern of the writer.Writer/Reader already wired in.
type Format string

const (
	FormatUnknown  Format = ""
	FormatJSON     Format = "json"
	FormatTRANSENC Format = "transenc"
	FormatMsgPack  Format = "msgpack"
)

// RecordMode selects how Output.SaveField and Input's matching load path
// lower a named field. TRANSENC has a native record sentinel, but
// writer.Writer is uniform across formats (see its package doc), so a
// "record" is always realized as either a map (names preserved as string
// keys) or an array (names discarded, fields positional).
type RecordMode int

const (
	// ArrayMode discards field names; SaveField writes the value only.
	ArrayMode RecordMode = iota
	// MapMode writes each field's name as a string key before its value.
	MapMode
)

// Output receives typed primitive save calls and container begin/end,
// and forwards each to its writer.Writer.
type Output struct {
	w      writer.Writer
	format Format
}

// Option configures an Output.
type Option = options.Option[*Output]

// WithFormat records which wire format w is writing to, surfaced through
// Output.Format for callers that branch on it (e.g. choosing RecordMode
// based on whether the target format has native string keys).
func WithFormat(f Format) Option {
	return options.NoError(func(o *Output) { o.format = f })
}

// NewOutput creates an Output writing through w.
func NewOutput(w writer.Writer, opts ...Option) *Output {
	o := &Output{w: w}
	if err := options.Apply(o, opts...); err != nil {
		panic(err)
	}

	return o
}

// Format returns the wire format set via WithFormat, or FormatUnknown if
// none was given.
func (o *Output) Format() Format { return o.format }

func (o *Output) SaveNull() error             { return o.w.PutNull() }
func (o *Output) SaveBool(v bool) error       { return o.w.PutBool(v) }
func (o *Output) SaveInt(v int64) error       { return o.w.PutInt(v) }
func (o *Output) SaveFloat64(v float64) error { return o.w.PutFloat64(v) }
func (o *Output) SaveString(v string) error   { return o.w.PutString(v) }
func (o *Output) SaveBinary(v []byte) error   { return o.w.PutBinary(v) }

// BeginArray starts an array of n elements, or an unsized array if n < 0.
func (o *Output) BeginArray(n int) error { return o.w.BeginArray(n) }
func (o *Output) EndArray() error        { return o.w.EndArray() }

// BeginMap starts a map of n pairs, or an unsized map if n < 0.
// keysAreStrings has the same meaning as writer.Writer.BeginMap.
func (o *Output) BeginMap(n int, keysAreStrings bool) error { return o.w.BeginMap(n, keysAreStrings) }
func (o *Output) EndMap() error                             { return o.w.EndMap() }

// BeginRecord starts a composite value of n named fields in the given
// mode.
func (o *Output) BeginRecord(mode RecordMode, n int) error {
	if mode == MapMode {
		return o.w.BeginMap(n, true)
	}

	return o.w.BeginArray(n)
}

// EndRecord closes a composite value started by BeginRecord with the
// same mode.
func (o *Output) EndRecord(mode RecordMode) error {
	if mode == MapMode {
		return o.w.EndMap()
	}

	return o.w.EndArray()
}

// SaveField writes one named field of a record opened with BeginRecord.
// In MapMode it writes name as the key before calling save; in ArrayMode
// it calls save directly and name is discarded, matching spec §4.5's
// "named fields... lower to: map-mode -> write key string then write
// value; array-mode -> write value only."
func (o *Output) SaveField(mode RecordMode, name string, save func() error) error {
	if mode == MapMode {
		if err := o.w.PutString(name); err != nil {
			return err
		}
	}

	return save()
}
