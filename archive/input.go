package archive

import (
	"fmt"

	"github.com/arloliu/wiretoken/internal/options"
	"github.com/arloliu/wiretoken/token"
)

// Reader is the common surface of transenc.Reader, msgpack.Reader, and
// json.Reader that Input needs. All three satisfy it unmodified.
type Reader interface {
	Type() token.Token
	Size() int
	Next() bool
	NextExpect(expected token.Token) error
	Err() error
	GetBool() (bool, error)
	GetInt64() (int64, error)
	GetFloat64() (float64, error)
	GetString() (string, error)
	GetBinary() ([]byte, error)
}

// Input asserts the reader's current token type for each typed load
// call, extracts the payload, advances, and returns the value.
type Input struct {
	r      Reader
	format Format
}

// InputOption configures an Input.
type InputOption = options.Option[*Input]

// WithInputFormat is the Input counterpart of archive.WithFormat.
func WithInputFormat(f Format) InputOption {
	return options.NoError(func(in *Input) { in.format = f })
}

// NewInput creates an Input reading through r.
func NewInput(r Reader, opts ...InputOption) *Input {
	in := &Input{r: r}
	if err := options.Apply(in, opts...); err != nil {
		panic(err)
	}

	return in
}

// Format returns the wire format set via WithInputFormat, or
// FormatUnknown if none was given.
func (in *Input) Format() Format { return in.format }

// LoadNull probes whether the current token is Null, advancing past it
// if so. It does not fail on a non-Null token — it is a probe, not an
// assertion — mirroring the original load_null's "peek, consume if
// match" shape.
func (in *Input) LoadNull() bool {
	if in.r.Type() != token.Null {
		return false
	}
	in.r.Next()

	return true
}

func (in *Input) LoadBool() (bool, error) {
	v, err := in.r.GetBool()
	if err != nil {
		return false, err
	}
	in.r.Next()

	return v, nil
}

func (in *Input) LoadInt64() (int64, error) {
	v, err := in.r.GetInt64()
	if err != nil {
		return 0, err
	}
	in.r.Next()

	return v, nil
}

func (in *Input) LoadFloat64() (float64, error) {
	v, err := in.r.GetFloat64()
	if err != nil {
		return 0, err
	}
	in.r.Next()

	return v, nil
}

func (in *Input) LoadString() (string, error) {
	v, err := in.r.GetString()
	if err != nil {
		return "", err
	}
	in.r.Next()

	return v, nil
}

func (in *Input) LoadBinary() ([]byte, error) {
	v, err := in.r.GetBinary()
	if err != nil {
		return nil, err
	}
	in.r.Next()

	return v, nil
}

// BeginArray asserts the current token is ArrayBegin and advances past
// it.
func (in *Input) BeginArray() error { return in.r.NextExpect(token.ArrayBegin) }

// EndArray asserts the current token is ArrayEnd and advances past it.
func (in *Input) EndArray() error { return in.r.NextExpect(token.ArrayEnd) }

// BeginMap asserts the current token is MapBegin and advances past it.
func (in *Input) BeginMap() error { return in.r.NextExpect(token.MapBegin) }

// EndMap asserts the current token is MapEnd and advances past it.
func (in *Input) EndMap() error { return in.r.NextExpect(token.MapEnd) }

// BeginRecord asserts a record opened in the given mode: MapBegin for
// MapMode, ArrayBegin for ArrayMode. See archive.RecordMode.
func (in *Input) BeginRecord(mode RecordMode) error {
	if mode == MapMode {
		return in.BeginMap()
	}

	return in.BeginArray()
}

// EndRecord is the BeginRecord counterpart.
func (in *Input) EndRecord(mode RecordMode) error {
	if mode == MapMode {
		return in.EndMap()
	}

	return in.EndArray()
}

// AtArrayEnd reports, without consuming, whether the reader is
// positioned at an ArrayEnd token. Callers drive "load fields until the
// array closes" loops over an array of unknown length with this, rather
// than tracking a count themselves.
func (in *Input) AtArrayEnd() bool {
	return in.r.Type() == token.ArrayEnd
}

// AtMapEnd is the map counterpart of AtArrayEnd.
func (in *Input) AtMapEnd() bool {
	return in.r.Type() == token.MapEnd
}

// Size returns the reader's current frame-stack depth.
func (in *Input) Size() int { return in.r.Size() }

// Err returns the reader's sticky error, if any.
func (in *Input) Err() error { return in.r.Err() }

// LoadField reads one named field of a record opened with BeginRecord:
// in MapMode it loads and discards the string key before calling load;
// in ArrayMode it calls load directly.
func (in *Input) LoadField(mode RecordMode, load func() error) error {
	if mode == MapMode {
		if _, err := in.LoadString(); err != nil {
			return fmt.Errorf("archive: reading field key: %w", err)
		}
	}

	return load()
}
