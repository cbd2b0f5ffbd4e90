package iobuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteSink_UnboundedGrows(t *testing.T) {
	s := NewSink()
	require.True(t, s.Reserve(5))
	s.Write([]byte("hello"))
	assert.Equal(t, "hello", string(s.Bytes()))
	assert.Equal(t, 5, s.Len())
}

func TestByteSink_BoundedRefusesAndLeavesUnmodified(t *testing.T) {
	s := NewBoundedSink(4)
	require.True(t, s.Reserve(4))
	s.Write([]byte("abcd"))
	assert.Equal(t, 4, s.Len())

	ok := s.Reserve(1)
	assert.False(t, ok, "Reserve must refuse once it would exceed the bound")
	assert.Equal(t, 4, s.Len(), "a refused Reserve must leave the sink unmodified")
	assert.Equal(t, "abcd", string(s.Bytes()))
}

func TestByteSink_BoundedExactFit(t *testing.T) {
	s := NewBoundedSink(7)
	require.True(t, s.Reserve(7))
	s.Write([]byte("string_"))
	assert.Equal(t, 7, s.Len())
	assert.False(t, s.Reserve(1))
}

func TestByteSink_Reset(t *testing.T) {
	s := NewSink()
	s.Reserve(3)
	s.Write([]byte("abc"))
	s.Reset()
	assert.Equal(t, 0, s.Len())
}
