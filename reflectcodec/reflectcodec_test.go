package reflectcodec

import (
	"bytes"
	"testing"

	"github.com/Boscop/mincode/runtime"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID      uint32
	Name    string
	Tags    []string
	Score   *float64
	private int //nolint:unused
}

func TestStructRoundTrip(t *testing.T) {
	score := 9.5
	want := sample{ID: 7, Name: "alice", Tags: []string{"a", "b"}, Score: &score}

	var buf bytes.Buffer
	enc := runtime.NewEncoder(&buf, runtime.FloatNormal, runtime.Unbounded())
	require.NoError(t, Encode(enc, want))

	var got sample
	dec := runtime.NewDecoder(&buf, runtime.FloatNormal, runtime.Unbounded())
	require.NoError(t, Decode(dec, &got))

	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.Tags, got.Tags)
	require.NotNil(t, got.Score)
	require.Equal(t, *want.Score, *got.Score)
}

func TestNilOptionRoundTrip(t *testing.T) {
	want := sample{ID: 1, Score: nil}
	var buf bytes.Buffer
	enc := runtime.NewEncoder(&buf, runtime.FloatNormal, runtime.Unbounded())
	require.NoError(t, Encode(enc, want))

	var got sample
	dec := runtime.NewDecoder(&buf, runtime.FloatNormal, runtime.Unbounded())
	require.NoError(t, Decode(dec, &got))
	require.Nil(t, got.Score)
}

func TestMapRoundTrip(t *testing.T) {
	want := map[string]uint32{"a": 1, "b": 2}
	var buf bytes.Buffer
	enc := runtime.NewEncoder(&buf, runtime.FloatNormal, runtime.Unbounded())
	require.NoError(t, Encode(enc, want))

	got := map[string]uint32{}
	dec := runtime.NewDecoder(&buf, runtime.FloatNormal, runtime.Unbounded())
	require.NoError(t, Decode(dec, &got))
	require.Equal(t, want, got)
}

func TestDecodeRequiresPointer(t *testing.T) {
	var buf bytes.Buffer
	dec := runtime.NewDecoder(&buf, runtime.FloatNormal, runtime.Unbounded())
	err := Decode(dec, sample{})
	require.Error(t, err)
}
