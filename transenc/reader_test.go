package transenc

import (
	"testing"

	"github.com/arloliu/wiretoken/errs"
	"github.com/arloliu/wiretoken/iobuf"
	"github.com/arloliu/wiretoken/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAll(t *testing.T, build func(e *Encoder)) []byte {
	t.Helper()
	sink := iobuf.NewSink()
	build(New(sink))

	return append([]byte(nil), sink.Bytes()...)
}

func TestReader_RoundTripPrimitives(t *testing.T) {
	data := encodeAll(t, func(e *Encoder) {
		e.Put()
		e.PutBool(true)
		e.PutBool(false)
		e.PutInt(-1000000)
		e.PutFloat64(3.25)
		e.PutString("hi")
		e.PutBinary([]byte{0xDE, 0xAD})
	})

	r := NewReader(iobuf.NewSource(data))

	require.Equal(t, token.Null, r.Type())
	require.True(t, r.Next())

	require.Equal(t, token.Boolean, r.Type())
	b, err := r.GetBool()
	require.NoError(t, err)
	assert.True(t, b)
	require.True(t, r.Next())

	b, err = r.GetBool()
	require.NoError(t, err)
	assert.False(t, b)
	require.True(t, r.Next())

	iv, err := r.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1000000), iv)
	require.True(t, r.Next())

	fv, err := r.GetFloat64()
	require.NoError(t, err)
	assert.InDelta(t, 3.25, fv, 0)
	require.True(t, r.Next())

	sv, err := r.GetString()
	require.NoError(t, err)
	assert.Equal(t, "hi", sv)
	require.True(t, r.Next())

	bv, err := r.GetBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, bv)
	require.False(t, r.Next())
	assert.Equal(t, token.Eof, r.Type())
}

func TestReader_NestedArrayOfArrays(t *testing.T) {
	data := encodeAll(t, func(e *Encoder) {
		e.PutArrayBegin()
		e.PutArrayBegin()
		e.PutInt(1)
		e.PutArrayEnd()
		e.PutInt(2)
		e.PutArrayEnd()
	})

	r := NewReader(iobuf.NewSource(data))
	require.Equal(t, token.ArrayBegin, r.Type())
	require.True(t, r.Next())
	require.Equal(t, 1, r.Size())

	require.Equal(t, token.ArrayBegin, r.Type())
	require.True(t, r.Next())
	require.Equal(t, 2, r.Size())

	iv, err := r.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), iv)
	require.True(t, r.Next())

	require.Equal(t, token.ArrayEnd, r.Type())
	require.True(t, r.Next())
	require.Equal(t, 1, r.Size())

	iv, err = r.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(2), iv)
	require.True(t, r.Next())

	require.Equal(t, token.ArrayEnd, r.Type())
	require.False(t, r.Next())
	require.Equal(t, 0, r.Size())

	require.False(t, r.Next())
}

func TestReader_UnbalancedContainerIsSticky(t *testing.T) {
	data := encodeAll(t, func(e *Encoder) {
		e.PutArrayBegin()
		e.PutMapEnd() // mismatched
	})

	r := NewReader(iobuf.NewSource(data))
	require.True(t, r.Next()) // consumes ArrayBegin

	require.Equal(t, token.MapEnd, r.Type(), "classification alone does not check frame matching")
	require.False(t, r.Next())
	require.ErrorIs(t, r.Err(), errs.ErrUnbalancedContainer)

	// Sticky: repeated calls keep returning Error.
	require.Equal(t, token.Error, r.Type())
	require.False(t, r.Next())
}

func TestReader_TruncatedPayloadIsInvalidEncoding(t *testing.T) {
	data := []byte{tagStringInt8, 0x05, 'a', 'b'} // claims 5 bytes, only 2 present

	r := NewReader(iobuf.NewSource(data))
	require.Equal(t, token.Error, r.Type())
	require.ErrorIs(t, r.Err(), errs.ErrInvalidEncoding)
}

func TestReader_UnexpectedTokenDoesNotPoisonReader(t *testing.T) {
	data := encodeAll(t, func(e *Encoder) { e.PutInt(5) })
	r := NewReader(iobuf.NewSource(data))

	_, err := r.GetString()
	require.ErrorIs(t, err, errs.ErrUnexpectedToken)

	// The reader is still usable afterwards.
	iv, err := r.GetInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(5), iv)
}

func TestReader_NextExpect(t *testing.T) {
	data := encodeAll(t, func(e *Encoder) {
		e.PutMapBegin()
		e.PutMapEnd()
	})
	r := NewReader(iobuf.NewSource(data))

	require.NoError(t, r.NextExpect(token.MapBegin))
	require.NoError(t, r.NextExpect(token.MapEnd))
	assert.Equal(t, token.Eof, r.Type())
}

func TestReader_TruncatedUnsizedMapSurfacesEOFNotMapEnd(t *testing.T) {
	// TRANSENC maps carry no explicit count on the wire (see spec §6), so
	// running out of bytes before a matching MapEnd must surface as Eof,
	// never as a synthesized MapEnd. The sized-container arity variant of
	// this property (MapBegin(n) with fewer than 2n tokens) is exercised
	// in the msgpack package, the only format with a real wire count.
	data := []byte{tagMapBegin, /* key */ 1}
	r := NewReader(iobuf.NewSource(data))

	require.True(t, r.Next()) // MapBegin
	require.False(t, r.Next()) // key=1
	require.False(t, r.Next())
	assert.Equal(t, token.Eof, r.Type())
}
