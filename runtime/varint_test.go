package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUvarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 300, 16384, 1 << 32, 1<<64 - 1}
	for _, v := range values {
		var buf bytes.Buffer
		enc := NewEncoder(&buf, FloatNormal, Unbounded())
		require.NoError(t, enc.EncodeU64(v))
		require.Equal(t, uvarintSize(v), buf.Len())

		dec := NewDecoder(&buf, FloatNormal, Unbounded())
		got, err := dec.DecodeU64()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarintRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -64, 64, -65, 1 << 40, -(1 << 40)}
	for _, v := range values {
		var buf bytes.Buffer
		enc := NewEncoder(&buf, FloatNormal, Unbounded())
		require.NoError(t, enc.EncodeI64(v))
		require.Equal(t, varintSize(v), buf.Len())

		dec := NewDecoder(&buf, FloatNormal, Unbounded())
		got, err := dec.DecodeI64()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestNarrowingRejectsOverflow(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.EncodeU64(1<<16))

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	_, err := dec.DecodeU16()
	require.Error(t, err)
	require.True(t, IsSizeLimit(err))
}

func TestU8BypassesVarint(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.EncodeU8(200))
	require.Equal(t, 1, buf.Len())

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	got, err := dec.DecodeU8()
	require.NoError(t, err)
	require.Equal(t, uint8(200), got)
}

func TestTruncatedVarintOverflowsByteCount(t *testing.T) {
	// 10 continuation-tagged bytes with no terminator: the decoder must
	// bail at maxVarintBytes rather than reading forever.
	buf := bytes.Repeat([]byte{0x80}, maxVarintBytes)
	dec := NewDecoder(bytes.NewReader(buf), FloatNormal, Unbounded())
	_, err := dec.DecodeU64()
	require.Error(t, err)
	require.True(t, IsSizeLimit(err))
}
