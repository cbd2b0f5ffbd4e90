package archive

import (
	"testing"

	"github.com/arloliu/wiretoken/internal/hash"
	"github.com/arloliu/wiretoken/iobuf"
	"github.com/arloliu/wiretoken/transenc"
	"github.com/arloliu/wiretoken/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCorpus saves a sizable, deterministic set of n records through o;
// the encoded bytes end up in whatever sink o's writer targets.
func buildCorpus(t *testing.T, o *Output, n int) {
	t.Helper()
	require.NoError(t, o.BeginArray(n))
	for i := 0; i < n; i++ {
		require.NoError(t, o.BeginRecord(MapMode, 3))
		require.NoError(t, o.SaveField(MapMode, "id", func() error { return o.SaveInt(int64(i)) }))
		require.NoError(t, o.SaveField(MapMode, "name", func() error { return o.SaveString("metric-") }))
		require.NoError(t, o.SaveField(MapMode, "value", func() error { return o.SaveFloat64(float64(i) * 1.5) }))
		require.NoError(t, o.EndRecord(MapMode))
	}
	require.NoError(t, o.EndArray())
}

// TestArchive_GoldenCorpusFingerprint exercises the same "identify a large
// encoded fixture by a stable 64-bit hash instead of storing it verbatim"
// concern the teacher applies to metric IDs, here applied to a regression
// corpus: the fingerprint must be reproducible across independent encodes
// of identical input and must change when the corpus does.
func TestArchive_GoldenCorpusFingerprint(t *testing.T) {
	encode := func(n int) []byte {
		sink := iobuf.NewSink()
		o := NewOutput(writer.NewBinary(transenc.New(sink)))
		buildCorpus(t, o, n)

		return sink.Bytes()
	}

	a := encode(64)
	b := encode(64)
	assert.Equal(t, hash.ID(string(a)), hash.ID(string(b)), "identical corpora fingerprint identically")

	c := encode(65)
	assert.NotEqual(t, hash.ID(string(a)), hash.ID(string(c)), "a changed corpus must fingerprint differently")
}
