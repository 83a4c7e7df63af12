package runtime

import (
	"io"
	"unicode/utf8"
)

// Decoder drives the event protocol (§5) against an io.Reader, charging
// every byte it consumes against an optional SizeLimit. Reads are
// charged before the decoded value is validated, matching the write
// side's check-before-produce ordering but mirrored for consumption:
// bytes are metered as they come off the wire, regardless of whether the
// value they form turns out to be well-formed (§4.3).
type Decoder struct {
	r     io.Reader
	meter meter
	mode  FloatMode
	row   *floatModeRow
	buf   [8]byte
}

// NewDecoder returns a Decoder that reads from r using the given float
// mode and size limit.
func NewDecoder(r io.Reader, mode FloatMode, limit SizeLimit) *Decoder {
	return &Decoder{
		r:     r,
		meter: meter{limit: limit},
		mode:  mode,
		row:   &floatModeTable[mode],
	}
}

// BytesRead returns the running byte tally.
func (d *Decoder) BytesRead() uint64 { return d.meter.bytesUsed() }

// readRaw reads exactly n bytes, charging them against the size limit
// before validating that the read fully succeeded — an unbounded read
// that fails with io.EOF partway through is reported as an IO error, not
// silently short (§4.3, §4.6). For n<=8 it reuses the Decoder's scratch
// buffer; callers must copy out before the next call.
func (d *Decoder) readRaw(n int) ([]byte, error) {
	if err := d.meter.add(uint64(n)); err != nil {
		return nil, err
	}
	var b []byte
	if n <= len(d.buf) {
		b = d.buf[:n]
	} else {
		b = make([]byte, n)
	}
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, ioErr(err)
	}
	return b, nil
}

// DecodeNil consumes nothing.
func (d *Decoder) DecodeNil() error { return nil }

// DecodeBool reads the option/bool tag byte and fails with
// InvalidEncoding if it is neither 0 nor 1 (§4.6).
func (d *Decoder) DecodeBool() (bool, error) {
	b, err := d.readRaw(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, invalidEncodingErr("invalid bool", "tag byte not 0 or 1")
	}
}

// DecodeU8 reads a raw byte, bypassing LEB128.
func (d *Decoder) DecodeU8() (uint8, error) {
	b, err := d.readRaw(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// DecodeI8 reads a raw byte as two's complement.
func (d *Decoder) DecodeI8() (int8, error) {
	b, err := d.readRaw(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// DecodeU16 reads unsigned LEB128, narrowed to 16 bits.
func (d *Decoder) DecodeU16() (uint16, error) {
	v, err := d.readUvarintWidth(16)
	return uint16(v), err
}

// DecodeU32 reads unsigned LEB128, narrowed to 32 bits.
func (d *Decoder) DecodeU32() (uint32, error) {
	v, err := d.readUvarintWidth(32)
	return uint32(v), err
}

// DecodeU64 reads unsigned LEB128, full 64 bits.
func (d *Decoder) DecodeU64() (uint64, error) {
	return d.readUvarintWidth(64)
}

// DecodeI16 reads signed LEB128, narrowed to 16 bits.
func (d *Decoder) DecodeI16() (int16, error) {
	v, err := d.readVarintWidth(16)
	return int16(v), err
}

// DecodeI32 reads signed LEB128, narrowed to 32 bits.
func (d *Decoder) DecodeI32() (int32, error) {
	v, err := d.readVarintWidth(32)
	return int32(v), err
}

// DecodeI64 reads signed LEB128, full 64 bits.
func (d *Decoder) DecodeI64() (int64, error) {
	return d.readVarintWidth(64)
}

// DecodeF32 reads using the Decoder's configured FloatMode.
func (d *Decoder) DecodeF32() (float32, error) { return d.row.dec32(d) }

// DecodeF64 reads using the Decoder's configured FloatMode.
func (d *Decoder) DecodeF64() (float64, error) { return d.row.dec64(d) }

// DecodeChar reads one UTF-8-encoded Unicode scalar.
func (d *Decoder) DecodeChar() (rune, error) { return d.decodeRuneUTF8() }

// DecodeString reads an unsigned LEB128 byte length then that many raw
// bytes, validating the result is well-formed UTF-8 (§4.5); malformed
// UTF-8 is InvalidEncoding, not silently replaced with U+FFFD.
func (d *Decoder) DecodeString() (string, error) {
	n, err := d.readUvarintWidth(64)
	if err != nil {
		return "", err
	}
	b, err := d.readBytesN(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", invalidEncodingErr("invalid string", "bytes are not valid UTF-8")
	}
	return string(b), nil
}

// DecodeBytes reads an unsigned LEB128 byte length then that many raw
// bytes, with no UTF-8 validation.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	n, err := d.readUvarintWidth(64)
	if err != nil {
		return nil, err
	}
	b, err := d.readBytesN(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// readBytesN reads n bytes without the 8-byte scratch-buffer shortcut
// readRaw takes for small fixed widths, since string/bytes payloads are
// unbounded in length.
func (d *Decoder) readBytesN(n uint64) ([]byte, error) {
	if err := d.meter.add(n); err != nil {
		return nil, err
	}
	// Grow the buffer as bytes arrive rather than trusting the
	// wire-supplied length as an allocation size.
	b, err := io.ReadAll(io.LimitReader(d.r, int64(n)))
	if err != nil {
		return nil, ioErr(err)
	}
	if uint64(len(b)) < n {
		return nil, ioErr(io.ErrUnexpectedEOF)
	}
	return b, nil
}

// BeginStruct, EndStruct, BeginField, EndField, BeginTuple, EndTuple
// consume nothing; they exist so a walker can drive the Decoder
// uniformly across aggregate shapes (§5.1).
func (d *Decoder) BeginStruct() (fieldCount int, err error) { return 0, nil }
func (d *Decoder) EndStruct() error                         { return nil }
func (d *Decoder) BeginField() error                        { return nil }
func (d *Decoder) EndField() error                          { return nil }
func (d *Decoder) BeginTuple() error { return nil }
func (d *Decoder) EndTuple() error   { return nil }

func (d *Decoder) BeginEnum() error { return nil }
func (d *Decoder) EndEnum() error   { return nil }

// DecodeVariantTag reads the variant discriminant as unsigned LEB128
// (uniform u64 width regardless of the enum's declared variant count,
// per the enum-variant-tag width decision in SPEC_FULL.md). Bounds
// checking the index against the walker's known variant count is the
// walker's responsibility, not this package's: the core protocol doesn't
// know how many variants a given enum declares.
func (d *Decoder) DecodeVariantTag() (uint64, error) {
	return d.readUvarintWidth(64)
}
func (d *Decoder) EndVariant() error { return nil }

// BeginSeq reads the element count as unsigned LEB128. The count comes
// straight off the wire and is not checked against anything but the
// varint's own width; callers must run it through PlausibleCap, never
// reflect.MakeSlice/make it directly, before using it as a preallocation
// hint (§7, P10).
func (d *Decoder) BeginSeq() (length uint64, err error) {
	return d.readUvarintWidth(64)
}
func (d *Decoder) EndSeq() error { return nil }

// BeginMap reads the pair count as unsigned LEB128. Same caveat as
// BeginSeq: run it through PlausibleCap before using it as a
// MakeMapWithSize/make hint.
func (d *Decoder) BeginMap() (pairs uint64, err error) {
	return d.readUvarintWidth(64)
}
func (d *Decoder) EndMap() error { return nil }

// maxPlausiblePrealloc bounds how many elements any caller may
// preallocate for a single BeginSeq/BeginMap count. A crafted stream can
// claim a length of 2^64-1 and still fit well under a small SizeLimit
// (the LEB128 header itself is only a handful of bytes), so trusting the
// count directly as a slice/map capacity risks a negative-cap or
// out-of-range panic instead of the size-limit error malformed input is
// supposed to produce. Clamping the preallocation hint, then growing
// incrementally as elements are actually decoded and charged against the
// meter, confines a bogus count to failing on the first out-of-budget
// element read rather than on the allocation itself.
const maxPlausiblePrealloc = 1024

// PlausibleCap clamps a wire-supplied BeginSeq/BeginMap count to a small
// constant for use as a slice/map preallocation hint.
func PlausibleCap(n uint64) int {
	if n > maxPlausiblePrealloc {
		return maxPlausiblePrealloc
	}
	return int(n)
}

// DecodeOption reads the option tag byte, failing with InvalidEncoding
// if it is neither 0 nor 1.
func (d *Decoder) DecodeOption() (present bool, err error) {
	b, err := d.readRaw(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, invalidEncodingErr("invalid option", "tag byte not 0 or 1")
	}
}

// DecodeBitSet reads a BitSet's own framing (§4.8): an unsigned LEB128
// bit-length, then exactly ceil(bitLength/8) raw bytes read one at a
// time rather than as a single length-prefixed byte chunk, since the
// byte count is derived, never itself transmitted.
func (d *Decoder) DecodeBitSet() (BitSet, error) {
	bitLen, err := d.readUvarintWidth(64)
	if err != nil {
		return BitSet{}, err
	}
	byteLen := bitLen / 8
	if bitLen%8 != 0 {
		byteLen++
	}
	bytes := make([]byte, 0, PlausibleCap(byteLen))
	for i := uint64(0); i < byteLen; i++ {
		b, err := d.readRaw(1)
		if err != nil {
			return BitSet{}, err
		}
		bytes = append(bytes, b[0])
	}
	return newBitSetFromPacked(bitLen, bytes), nil
}
