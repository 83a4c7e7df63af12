package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundedLimitRejectsWriteBeforePartialBytes(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Bounded(1))
	// A u64 encoding of a large value needs more than one byte; the limit
	// must reject the whole write, not emit a truncated prefix (§4.3).
	err := enc.EncodeU64(1 << 20)
	require.Error(t, err)
	require.True(t, IsSizeLimit(err))
}

func TestBoundedLimitAllowsExactFit(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Bounded(1))
	require.NoError(t, enc.EncodeU8(5))
}

func TestBoundedLimitRejectsReadAfterConsuming(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.EncodeU64(1 << 20))

	dec := NewDecoder(&buf, FloatNormal, Bounded(1))
	_, err := dec.DecodeU64()
	require.Error(t, err)
	require.True(t, IsSizeLimit(err))
}

func TestSizerMatchesRealEncodeByteCount(t *testing.T) {
	sizer := NewSizer(FloatF16, Unbounded())
	require.NoError(t, sizer.EncodeU64(123456))
	require.NoError(t, sizer.EncodeString("hello"))
	require.NoError(t, sizer.EncodeF64(2.5))

	var buf bytes.Buffer
	real := NewEncoder(&buf, FloatF16, Unbounded())
	require.NoError(t, real.EncodeU64(123456))
	require.NoError(t, real.EncodeString("hello"))
	require.NoError(t, real.EncodeF64(2.5))

	require.Equal(t, sizer.BytesWritten(), uint64(buf.Len()))
}

func TestUserErrorIsInvalidEncoding(t *testing.T) {
	err := UserError("field out of range")
	require.True(t, IsInvalidEncoding(err))
	require.False(t, IsSizeLimit(err))
	require.False(t, IsIO(err))
}
