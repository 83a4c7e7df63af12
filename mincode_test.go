package mincode

import (
	"testing"

	"github.com/Boscop/mincode/runtime"
	"github.com/stretchr/testify/require"
)

// entity is a small hand-written Encodable/Decodable used to exercise the
// wrapper helpers end-to-end, the way a codegen-generated type would.
type entity struct {
	ID   uint32
	X, Y float32
}

func (e *entity) EncodeTo(enc *runtime.Encoder) error {
	if err := enc.BeginStruct(3); err != nil {
		return err
	}
	if err := enc.EncodeU32(e.ID); err != nil {
		return err
	}
	if err := enc.EncodeF32(e.X); err != nil {
		return err
	}
	if err := enc.EncodeF32(e.Y); err != nil {
		return err
	}
	return enc.EndStruct()
}

func (e *entity) DecodeFrom(dec *runtime.Decoder) error {
	if _, err := dec.BeginStruct(); err != nil {
		return err
	}
	id, err := dec.DecodeU32()
	if err != nil {
		return err
	}
	x, err := dec.DecodeF32()
	if err != nil {
		return err
	}
	y, err := dec.DecodeF32()
	if err != nil {
		return err
	}
	e.ID, e.X, e.Y = id, x, y
	return dec.EndStruct()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := &entity{ID: 127, X: 0.25, Y: 4.0}
	data, err := Encode(want, Unbounded(), FloatNormal)
	require.NoError(t, err)

	got := &entity{}
	require.NoError(t, Decode(data, got, Unbounded(), FloatNormal))
	require.Equal(t, want, got)
}

func TestEncodedSizeMatchesEncode(t *testing.T) {
	v := &entity{ID: 127, X: 0.25, Y: 4.0}
	size, err := EncodedSize(v, FloatF16)
	require.NoError(t, err)

	data, err := Encode(v, Unbounded(), FloatF16)
	require.NoError(t, err)
	require.Equal(t, size, uint64(len(data)))
}

func TestSizeLimitRejectsWrite(t *testing.T) {
	v := &entity{ID: 127, X: 0.25, Y: 4.0}
	size, err := EncodedSize(v, FloatNormal)
	require.NoError(t, err)

	_, err = Encode(v, Bounded(size-1), FloatNormal)
	require.Error(t, err)
	require.True(t, runtime.IsSizeLimit(err))
}

func TestSizeLimitRejectsRead(t *testing.T) {
	v := &entity{ID: 127, X: 0.25, Y: 4.0}
	size, err := EncodedSize(v, FloatNormal)
	require.NoError(t, err)
	data, err := Encode(v, Unbounded(), FloatNormal)
	require.NoError(t, err)

	got := &entity{}
	err = Decode(data, got, Bounded(size-1), FloatNormal)
	require.Error(t, err)
	require.True(t, runtime.IsSizeLimit(err))
}
