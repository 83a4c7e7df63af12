// Package boxed provides the three wrapper types the original crate used
// to make borrowing explicit at the type level: StrBox, SliceBox, and
// RefBox each borrow their payload on encode and own a fresh copy on
// decode, so a round trip through mincode never aliases the decoded
// value with anything the caller passed in (supplemented feature: the
// original's ref_box_correct round-trip pattern). All three implement
// mincode's Encodable/Decodable contract directly (EncodeTo/DecodeFrom),
// so a boxed value can appear anywhere a walker drives the event
// protocol: as a struct field, a slice element, or a top-level Encode/
// Decode call.
package boxed

import "github.com/Boscop/mincode/runtime"

// StrBox borrows a string on encode and owns a decoded copy.
type StrBox struct {
	s string
}

// NewStrBox wraps s for encoding. s is borrowed, not copied; the caller
// must keep it alive until the encode completes.
func NewStrBox(s string) StrBox { return StrBox{s: s} }

// String returns the wrapped string.
func (b StrBox) String() string { return b.s }

// EncodeTo writes the wrapped string with the same framing a bare string
// field would use (§4.5): a length prefix followed by its raw bytes.
func (b StrBox) EncodeTo(enc *runtime.Encoder) error { return enc.EncodeString(b.s) }

// DecodeFrom reads a string and owns the decoded copy, never aliasing
// whatever StrBox produced the bytes on the encode side.
func (b *StrBox) DecodeFrom(dec *runtime.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	b.s = s
	return nil
}

// elemCodec is satisfied by *T for any element type SliceBox/RefBox
// carries: Go generics can't express "T implements Decodable via pointer
// receiver" with a single type parameter, since DecodeFrom must mutate
// the callee in place. The classic two-parameter pattern (T plus a PT
// constrained to *T with the needed method set) lets SliceBox[T, PT] and
// RefBox[T, PT] drive an arbitrary element's own EncodeTo/DecodeFrom
// instead of reimplementing per-element encoding themselves.
type elemCodec[T any] interface {
	*T
	EncodeTo(enc *runtime.Encoder) error
	DecodeFrom(dec *runtime.Decoder) error
}

// SliceBox borrows a slice of T on encode and owns a decoded copy. Each
// element drives its own EncodeTo/DecodeFrom; SliceBox only frames the
// sequence length (§5.2).
type SliceBox[T any, PT elemCodec[T]] struct {
	items []T
}

// NewSliceBox wraps items for encoding. items is borrowed, not copied.
func NewSliceBox[T any, PT elemCodec[T]](items []T) SliceBox[T, PT] {
	return SliceBox[T, PT]{items: items}
}

// Items returns the wrapped slice.
func (b SliceBox[T, PT]) Items() []T { return b.items }

// EncodeTo writes the length-prefixed sequence of element events.
func (b SliceBox[T, PT]) EncodeTo(enc *runtime.Encoder) error {
	if err := enc.BeginSeq(len(b.items)); err != nil {
		return err
	}
	for i := range b.items {
		if err := PT(&b.items[i]).EncodeTo(enc); err != nil {
			return err
		}
	}
	return enc.EndSeq()
}

// DecodeFrom reads the sequence length and decodes a fresh slice of
// owned elements, never aliasing the slice header or backing array the
// encode side borrowed. The preallocation hint is bounded by
// runtime.PlausibleCap rather than the wire-supplied count directly
// (P10): a crafted length can't force an oversized allocation before any
// element bytes are charged against the size limit.
func (b *SliceBox[T, PT]) DecodeFrom(dec *runtime.Decoder) error {
	n, err := dec.BeginSeq()
	if err != nil {
		return err
	}
	items := make([]T, 0, runtime.PlausibleCap(n))
	for i := uint64(0); i < n; i++ {
		var v T
		if err := PT(&v).DecodeFrom(dec); err != nil {
			return err
		}
		items = append(items, v)
	}
	if err := dec.EndSeq(); err != nil {
		return err
	}
	b.items = items
	return nil
}

// RefBox borrows a *T on encode and owns a freshly allocated *T on
// decode; decoding never returns a pointer aliasing anything the caller
// supplied, matching the original's contract that a RefBox is only ever
// a borrow on the write side.
type RefBox[T any, PT elemCodec[T]] struct {
	ptr *T
}

// NewRefBox wraps ptr for encoding. ptr is borrowed, not copied.
func NewRefBox[T any, PT elemCodec[T]](ptr *T) RefBox[T, PT] { return RefBox[T, PT]{ptr: ptr} }

// Get returns the wrapped pointer.
func (b RefBox[T, PT]) Get() *T { return b.ptr }

// NewDecodedRefBox allocates a fresh T, copies v into it, and wraps the
// new pointer — the decode-side half of the borrow/own asymmetry.
func NewDecodedRefBox[T any, PT elemCodec[T]](v T) RefBox[T, PT] {
	p := new(T)
	*p = v
	return RefBox[T, PT]{ptr: p}
}

// EncodeTo defers to the referent's own EncodeTo: a RefBox has the
// identical encoded form as the value it points to (§3).
func (b RefBox[T, PT]) EncodeTo(enc *runtime.Encoder) error {
	return PT(b.ptr).EncodeTo(enc)
}

// DecodeFrom allocates a fresh T, decodes into it, and owns the new
// pointer — the decoded RefBox never aliases whatever pointer the
// encode side borrowed.
func (b *RefBox[T, PT]) DecodeFrom(dec *runtime.Decoder) error {
	p := new(T)
	if err := PT(p).DecodeFrom(dec); err != nil {
		return err
	}
	b.ptr = p
	return nil
}
