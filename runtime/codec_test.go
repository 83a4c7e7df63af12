package runtime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.EncodeString("héllo, 世界"))

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	got, err := dec.DecodeString()
	require.NoError(t, err)
	require.Equal(t, "héllo, 世界", got)
}

func TestStringRejectsInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.EncodeBytes([]byte{0xff, 0xfe}))

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	_, err := dec.DecodeString()
	require.Error(t, err)
	require.True(t, IsInvalidEncoding(err))
}

func TestCharRoundTrip(t *testing.T) {
	runes := []rune{'a', 'é', '世', '🎉'}
	for _, r := range runes {
		var buf bytes.Buffer
		enc := NewEncoder(&buf, FloatNormal, Unbounded())
		require.NoError(t, enc.EncodeChar(r))

		dec := NewDecoder(&buf, FloatNormal, Unbounded())
		got, err := dec.DecodeChar()
		require.NoError(t, err)
		require.Equal(t, r, got)
	}
}

func TestOptionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.EncodeOption(true))
	require.NoError(t, enc.EncodeU32(42))

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	present, err := dec.DecodeOption()
	require.NoError(t, err)
	require.True(t, present)
	v, err := dec.DecodeU32()
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)
}

func TestOptionRejectsBadTag(t *testing.T) {
	dec := NewDecoder(bytes.NewReader([]byte{2}), FloatNormal, Unbounded())
	_, err := dec.DecodeOption()
	require.Error(t, err)
	require.True(t, IsInvalidEncoding(err))
}

func TestSeqFraming(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.BeginSeq(3))
	for i := uint32(0); i < 3; i++ {
		require.NoError(t, enc.EncodeU32(i))
	}
	require.NoError(t, enc.EndSeq())

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	n, err := dec.BeginSeq()
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)
	for i := uint32(0); i < 3; i++ {
		v, err := dec.DecodeU32()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}
}

func TestStructFramingIsTransparent(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.BeginStruct(1))
	require.NoError(t, enc.BeginField("x"))
	require.NoError(t, enc.EncodeU8(7))
	require.NoError(t, enc.EndField())
	require.NoError(t, enc.EndStruct())
	require.Equal(t, 1, buf.Len())
}

func TestEnumVariantTagUsesU64Width(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, enc.BeginEnum(2))
	require.NoError(t, enc.BeginVariant(1<<40, "B"))
	require.NoError(t, enc.EndVariant())
	require.NoError(t, enc.EndEnum())
	// 1<<40 needs 41 bits: ceil(41/7) = 6 LEB128 bytes, beyond any u32 tag.
	require.Equal(t, 6, buf.Len())

	dec := NewDecoder(&buf, FloatNormal, Unbounded())
	require.NoError(t, dec.BeginEnum())
	tag, err := dec.DecodeVariantTag()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), tag)
}
