package json

import (
	"math"
	"testing"

	"github.com/arloliu/wiretoken/iobuf"
	"github.com/arloliu/wiretoken/internal/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncoder_NonFiniteFloatsSerializeAsNull is concrete scenario 5.
func TestEncoder_NonFiniteFloatsSerializeAsNull(t *testing.T) {
	cases := []float64{math.Inf(1), math.Inf(-1), math.NaN()}
	for _, v := range cases {
		sink := iobuf.NewSink()
		e := New(sink)
		e.PutFloat64(v)
		assert.Equal(t, "null", string(sink.Bytes()))
	}
}

func TestEncoder_FloatFormatting(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{0.5, "0.5"},
		{1.0, "1"},
		{1.7976931348623157e+308, "1.7976931348623157e+308"},
	}
	for _, c := range cases {
		sink := iobuf.NewSink()
		e := New(sink)
		e.PutFloat64(c.v)
		assert.Equal(t, c.want, string(sink.Bytes()), "value %v", c.v)
	}
}

func TestEncoder_StringEscaping(t *testing.T) {
	sink := iobuf.NewSink()
	e := New(sink)
	e.PutString("a\"b\\c\nd")
	assert.Equal(t, `"a\"b\\c\nd"`, string(sink.Bytes()))
}

func TestEncoder_ContainerBrackets(t *testing.T) {
	sink := iobuf.NewSink()
	e := New(sink)
	e.PutArrayBegin()
	e.PutInt(1)
	e.PutArrayEnd()
	assert.Equal(t, "[1]", string(sink.Bytes()))
}

// TestEncoder_LargeNumberCorpusFingerprint generates a wide spread of
// floats and hashes the printed corpus with xxhash rather than keeping
// a multi-kilobyte golden literal in the repo. The fingerprint must be
// stable across independent encodes of the same corpus and must change
// if a single value's printed form changes.
func TestEncoder_LargeNumberCorpusFingerprint(t *testing.T) {
	gen := func() []byte {
		sink := iobuf.NewSink()
		e := New(sink)
		for i := -500; i < 500; i++ {
			e.PutFloat64(float64(i) * 0.125)
			e.PutFloat64(math.Pow(2, float64(i)/17))
		}

		return sink.Bytes()
	}

	a := gen()
	b := gen()
	require.Equal(t, a, b, "corpus generation must be deterministic")
	assert.Equal(t, hash.ID(string(a)), hash.ID(string(b)))

	sink := iobuf.NewSink()
	e := New(sink)
	for i := -500; i < 500; i++ {
		e.PutFloat64(float64(i) * 0.125)
		if i == 250 {
			e.PutFloat64(math.Pow(2, float64(i)/17) + 1) // perturb one value
		} else {
			e.PutFloat64(math.Pow(2, float64(i)/17))
		}
	}
	perturbed := sink.Bytes()
	assert.NotEqual(t, hash.ID(string(a)), hash.ID(string(perturbed)),
		"fingerprint must be sensitive to a single changed value")
}

func TestEncoder_PutBinaryRoundTripsThroughBase64(t *testing.T) {
	sink := iobuf.NewSink()
	e := New(sink)
	e.PutBinary([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	r := NewReader(iobuf.NewSource(sink.Bytes()))
	require.Equal(t, "String", r.Type().String())
	bv, err := r.GetBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, bv)
}
