package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitSetRoundTrip(t *testing.T) {
	bs := NewBitSet(13)
	bs.Set(0, true)
	bs.Set(5, true)
	bs.Set(12, true)

	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.EncodeBitSet(bs))
	// LEB128(13) is 1 byte, plus ceil(13/8)=2 packed bytes.
	require.Equal(t, 3, buf.Len())

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	got, err := dec.DecodeBitSet()
	require.NoError(t, err)
	require.True(t, bs.Equal(got))
	require.True(t, got.Get(0))
	require.True(t, got.Get(5))
	require.True(t, got.Get(12))
	require.False(t, got.Get(1))
}

func TestBitSetTrailingBitsIgnoredInEquality(t *testing.T) {
	a := newBitSetFromPacked(3, []byte{0b10100000})
	b := newBitSetFromPacked(3, []byte{0b10111111})
	require.True(t, a.Equal(b))
}

func TestBitSetEmpty(t *testing.T) {
	bs := NewBitSet(0)
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.EncodeBitSet(bs))
	require.Equal(t, 1, buf.Len()) // just the LEB128(0) length byte

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	got, err := dec.DecodeBitSet()
	require.NoError(t, err)
	require.Equal(t, uint64(0), got.Len())
}
