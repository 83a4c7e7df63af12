// Package mincode implements a compact binary serialization codec: a
// LEB128 variable-length integer codec, a pluggable-precision float
// codec, bounded size accounting, and a schema-driven encoder/decoder
// event protocol, with no type tags or field names on the wire. Callers
// supply an Encodable/Decodable value (written by hand, or generated by
// the codegen package) and one of the wrapper helpers in this file to
// drive a full encode or decode. The reflectcodec package instead drives
// a runtime.Encoder/Decoder directly over arbitrary Go values.
package mincode

import (
	"bytes"
	"io"

	"github.com/Boscop/mincode/runtime"
)

// FloatMode re-exports runtime.FloatMode so callers need only import this
// package for the common case.
type FloatMode = runtime.FloatMode

const (
	FloatNormal         = runtime.FloatNormal
	FloatF16            = runtime.FloatF16
	FloatF32            = runtime.FloatF32
	FloatHalvePrecision = runtime.FloatHalvePrecision
)

// SizeLimit re-exports runtime.SizeLimit.
type SizeLimit = runtime.SizeLimit

// Unbounded returns a SizeLimit that never rejects an operation.
func Unbounded() SizeLimit { return runtime.Unbounded() }

// Bounded returns a SizeLimit capping total bytes transferred at n.
func Bounded(n uint64) SizeLimit { return runtime.Bounded(n) }

// Encodable is implemented by any value a walker can drive against an
// Encoder: EncodeTo issues the value's events (primitive writes and
// structural begin/end pairs) against enc.
type Encodable interface {
	EncodeTo(enc *runtime.Encoder) error
}

// Decodable is implemented by any value a walker can reconstruct from a
// Decoder: DecodeFrom consumes exactly the events EncodeTo would have
// issued for an equivalent value.
type Decodable interface {
	DecodeFrom(dec *runtime.Decoder) error
}

// Encode allocates a buffer and runs the encoder against v, the streaming
// encoder is run to completion against an in-memory sink that is then
// returned as a byte slice (§4.7 "encode").
func Encode(v Encodable, limit SizeLimit, mode FloatMode) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeInto(&buf, v, limit, mode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeInto streams v's encoding against a caller-supplied io.Writer-like
// sink (§4.7 "encode_into").
func EncodeInto(w io.Writer, v Encodable, limit SizeLimit, mode FloatMode) error {
	enc := runtime.NewEncoder(w, mode, limit)
	return v.EncodeTo(enc)
}

// EncodedSize runs the size-only encoder against v with an unbounded
// meter and returns the exact byte count a real Encode would produce
// (§4.7 "encoded_size", property P2).
func EncodedSize(v Encodable, mode FloatMode) (uint64, error) {
	sizer := runtime.NewSizer(mode, Unbounded())
	if err := v.EncodeTo(sizer); err != nil {
		return 0, err
	}
	return sizer.BytesWritten(), nil
}

// Decode runs the decoder against a byte slice, reconstructing into v
// (§4.7 "decode").
func Decode(data []byte, v Decodable, limit SizeLimit, mode FloatMode) error {
	return DecodeFrom(bytes.NewReader(data), v, limit, mode)
}

// DecodeFrom streams v's reconstruction from a caller-supplied
// io.Reader-like source (§4.7 "decode_from").
func DecodeFrom(r io.Reader, v Decodable, limit SizeLimit, mode FloatMode) error {
	dec := runtime.NewDecoder(r, mode, limit)
	return v.DecodeFrom(dec)
}
