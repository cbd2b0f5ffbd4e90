package archive

import (
	"testing"

	"github.com/arloliu/wiretoken/iobuf"
	jsoncodec "github.com/arloliu/wiretoken/json"
	"github.com/arloliu/wiretoken/msgpack"
	"github.com/arloliu/wiretoken/transenc"
	"github.com/arloliu/wiretoken/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int64
	Y int64
}

func saveAnyFormat(t *testing.T, w writer.Writer, mode RecordMode) {
	t.Helper()
	o := NewOutput(w)
	require.NoError(t, o.BeginRecord(mode, 2))
	require.NoError(t, o.SaveField(mode, "X", func() error { return o.SaveInt(3) }))
	require.NoError(t, o.SaveField(mode, "Y", func() error { return o.SaveInt(4) }))
	require.NoError(t, o.EndRecord(mode))
}

func loadAnyFormat(t *testing.T, r Reader, mode RecordMode) point {
	t.Helper()
	in := NewInput(r)
	require.NoError(t, in.BeginRecord(mode))

	var p point
	require.NoError(t, in.LoadField(mode, func() error {
		v, err := in.LoadInt64()
		p.X = v
		return err
	}))
	require.NoError(t, in.LoadField(mode, func() error {
		v, err := in.LoadInt64()
		p.Y = v
		return err
	}))
	require.NoError(t, in.EndRecord(mode))

	return p
}

func TestArchive_RoundTripRecordAcrossAllFormats(t *testing.T) {
	for _, mode := range []RecordMode{ArrayMode, MapMode} {
		t.Run("transenc", func(t *testing.T) {
			sink := iobuf.NewSink()
			saveAnyFormat(t, writer.NewBinary(transenc.New(sink)), mode)
			got := loadAnyFormat(t, transenc.NewReader(iobuf.NewSource(sink.Bytes())), mode)
			assert.Equal(t, point{3, 4}, got)
		})
		t.Run("msgpack", func(t *testing.T) {
			sink := iobuf.NewSink()
			saveAnyFormat(t, writer.NewBinary(msgpack.New(sink)), mode)
			got := loadAnyFormat(t, msgpack.NewReader(iobuf.NewSource(sink.Bytes())), mode)
			assert.Equal(t, point{3, 4}, got)
		})
		t.Run("json", func(t *testing.T) {
			sink := iobuf.NewSink()
			saveAnyFormat(t, writer.NewJSON(sink), mode)
			got := loadAnyFormat(t, jsoncodec.NewReader(iobuf.NewSource(sink.Bytes())), mode)
			assert.Equal(t, point{3, 4}, got)
		})
	}
}

func TestArchive_LoadNullProbe(t *testing.T) {
	sink := iobuf.NewSink()
	o := NewOutput(writer.NewBinary(transenc.New(sink)))
	require.NoError(t, o.SaveNull())
	require.NoError(t, o.SaveInt(5))

	in := NewInput(transenc.NewReader(iobuf.NewSource(sink.Bytes())))
	assert.True(t, in.LoadNull())
	assert.False(t, in.LoadNull(), "the next token is an Integer, not Null")

	v, err := in.LoadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestArchive_AtArrayEndDrivesUnknownLengthLoop(t *testing.T) {
	sink := iobuf.NewSink()
	o := NewOutput(writer.NewBinary(transenc.New(sink)))
	require.NoError(t, o.BeginArray(-1))
	require.NoError(t, o.SaveInt(1))
	require.NoError(t, o.SaveInt(2))
	require.NoError(t, o.SaveInt(3))
	require.NoError(t, o.EndArray())

	in := NewInput(transenc.NewReader(iobuf.NewSource(sink.Bytes())))
	require.NoError(t, in.BeginArray())

	var got []int64
	for !in.AtArrayEnd() {
		v, err := in.LoadInt64()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.NoError(t, in.EndArray())

	assert.Equal(t, []int64{1, 2, 3}, got)
}

// TestArchive_NonStringKeyMapRoundTripsAsNestedArrays exercises scenario
// 6's shape end to end: a caller that knows its map has non-string keys
// saves it via BeginMap(n, false), and reads it back as an ordinary
// nested array of [key, value] pairs — Input needs no map-fallback
// awareness, since the fallback is purely an encode-time JSON concern.
func TestArchive_NonStringKeyMapRoundTripsAsNestedArrays(t *testing.T) {
	sink := iobuf.NewSink()
	o := NewOutput(writer.NewJSON(sink))
	require.NoError(t, o.BeginMap(2, false))
	require.NoError(t, o.SaveInt(2))
	require.NoError(t, o.SaveBool(true))
	require.NoError(t, o.SaveInt(4))
	require.NoError(t, o.SaveBool(false))
	require.NoError(t, o.EndMap())

	assert.Equal(t, "[[2,true],[4,false]]", string(sink.Bytes()))

	in := NewInput(jsoncodec.NewReader(iobuf.NewSource(sink.Bytes())))
	require.NoError(t, in.BeginArray())

	type pair struct {
		key int64
		val bool
	}
	var pairs []pair
	for !in.AtArrayEnd() {
		require.NoError(t, in.BeginArray())
		k, err := in.LoadInt64()
		require.NoError(t, err)
		v, err := in.LoadBool()
		require.NoError(t, err)
		require.NoError(t, in.EndArray())
		pairs = append(pairs, pair{k, v})
	}
	require.NoError(t, in.EndArray())

	assert.Equal(t, []pair{{2, true}, {4, false}}, pairs)
}

func TestArchive_FormatOptionIsRecorded(t *testing.T) {
	sink := iobuf.NewSink()
	o := NewOutput(writer.NewBinary(transenc.New(sink)), WithFormat(FormatTRANSENC))
	assert.Equal(t, FormatTRANSENC, o.Format())
	require.NoError(t, o.SaveInt(1))

	in := NewInput(transenc.NewReader(iobuf.NewSource(sink.Bytes())), WithInputFormat(FormatTRANSENC))
	assert.Equal(t, FormatTRANSENC, in.Format())
}
