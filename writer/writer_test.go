package writer

import (
	"testing"

	"github.com/arloliu/wiretoken/iobuf"
	"github.com/arloliu/wiretoken/msgpack"
	"github.com/arloliu/wiretoken/transenc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJSONWriter_NonStringKeyMapFallsBackToArrayOfPairs is concrete
// scenario 6: encode a mapping {2->true, 4->false} with non-string keys.
func TestJSONWriter_NonStringKeyMapFallsBackToArrayOfPairs(t *testing.T) {
	sink := iobuf.NewSink()
	w := NewJSON(sink)

	require.NoError(t, w.BeginMap(2, false))
	require.NoError(t, w.PutInt(2))
	require.NoError(t, w.PutBool(true))
	require.NoError(t, w.PutInt(4))
	require.NoError(t, w.PutBool(false))
	require.NoError(t, w.EndMap())

	assert.Equal(t, "[[2,true],[4,false]]", string(sink.Bytes()))
}

// TestJSONWriter_StringKeyMapEncodesAsObject is concrete scenario 7:
// encode {"A"->true, "B"->false}.
func TestJSONWriter_StringKeyMapEncodesAsObject(t *testing.T) {
	sink := iobuf.NewSink()
	w := NewJSON(sink)

	require.NoError(t, w.BeginMap(2, true))
	require.NoError(t, w.PutString("A"))
	require.NoError(t, w.PutBool(true))
	require.NoError(t, w.PutString("B"))
	require.NoError(t, w.PutBool(false))
	require.NoError(t, w.EndMap())

	assert.Equal(t, `{"A":true,"B":false}`, string(sink.Bytes()))
}

func TestJSONWriter_NestedArrayInMapValue(t *testing.T) {
	sink := iobuf.NewSink()
	w := NewJSON(sink)

	require.NoError(t, w.BeginMap(1, true))
	require.NoError(t, w.PutString("xs"))
	require.NoError(t, w.BeginArray(2))
	require.NoError(t, w.PutInt(1))
	require.NoError(t, w.PutInt(2))
	require.NoError(t, w.EndArray())
	require.NoError(t, w.EndMap())

	assert.Equal(t, `{"xs":[1,2]}`, string(sink.Bytes()))
}

func TestJSONWriter_MismatchedEndFails(t *testing.T) {
	sink := iobuf.NewSink()
	w := NewJSON(sink)
	require.NoError(t, w.BeginArray(-1))
	assert.ErrorIs(t, w.EndMap(), ErrMismatchedEnd)
}

func TestBinaryWriter_TransencRoundTrip(t *testing.T) {
	sink := iobuf.NewSink()
	w := NewBinary(transenc.New(sink))

	require.NoError(t, w.BeginArray(-1))
	require.NoError(t, w.PutInt(1))
	require.NoError(t, w.PutString("x"))
	require.NoError(t, w.EndArray())

	r := transenc.NewReader(iobuf.NewSource(sink.Bytes()))
	require.True(t, r.Next()) // ArrayBegin
	require.Equal(t, 1, r.Size())
	iv, err := r.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), iv)
}

func TestBinaryWriter_MismatchedEndFails(t *testing.T) {
	sink := iobuf.NewSink()
	w := NewBinary(transenc.New(sink))
	require.NoError(t, w.BeginArray(-1))
	assert.ErrorIs(t, w.EndMap(), ErrMismatchedEnd)
}

func TestBinaryWriter_MsgpackRequiresExplicitCount(t *testing.T) {
	sink := iobuf.NewSink()
	w := NewBinary(msgpack.New(sink))
	assert.ErrorIs(t, w.BeginArray(-1), ErrRefused, "MsgPack has no unsized container form")

	sink2 := iobuf.NewSink()
	w2 := NewBinary(msgpack.New(sink2))
	require.NoError(t, w2.BeginMap(1, true)) // keysAreStrings is ignored by binary writers
	require.NoError(t, w2.PutString("k"))
	require.NoError(t, w2.PutInt(1))
	require.NoError(t, w2.EndMap())
}

func TestBinaryWriter_SinkExhaustedIsRefused(t *testing.T) {
	sink := iobuf.NewBoundedSink(1)
	w := NewBinary(transenc.New(sink))
	require.NoError(t, w.PutBool(true)) // 1 byte, fits
	assert.ErrorIs(t, w.PutString("too long"), ErrRefused)
}
