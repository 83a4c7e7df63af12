package runtime

// maxVarintBytes is ceil(64/7), the most LEB128 groups a 64-bit value can
// ever need (§4.1).
const maxVarintBytes = 10

// appendUvarint appends the minimal unsigned LEB128 encoding of v to buf
// and returns the extended slice. Zero encodes as one byte of value 0.
func appendUvarint(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
			buf = append(buf, b)
			continue
		}
		buf = append(buf, b)
		return buf
	}
}

// appendVarint appends the minimal signed LEB128 encoding of v to buf.
func appendVarint(buf []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			buf = append(buf, b)
			return buf
		}
		buf = append(buf, b|0x80)
	}
}

// uvarintSize returns the number of bytes appendUvarint would emit for v,
// without allocating. The Encoder does not call it: the real and the
// size-only Encoder both measure appendUvarint's output in writeRaw, so
// P2 (size oracle exactness) holds without it. It serves as an
// independent byte-count check for the varint tests.
func uvarintSize(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// varintSize returns the number of bytes appendVarint would emit for v.
func varintSize(v int64) int {
	n := 1
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			return n
		}
		n++
	}
}

// readUvarintWidth reads an unsigned LEB128 group from d. Truncated input
// is reported by readRaw as an I/O error; this function reports overflow
// as a size-limit error: more than maxVarintBytes groups, or a decoded
// value that doesn't fit in maxBits (the "reading a narrower type than
// the stream represents" case, §4.1).
func (d *Decoder) readUvarintWidth(maxBits uint) (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; ; i++ {
		if i == maxVarintBytes {
			return 0, sizeLimitErr()
		}
		b, err := d.readRaw(1)
		if err != nil {
			return 0, err
		}
		if shift == 63 && b[0] > 1 {
			// The 10th group holds only bit 63; anything more overflows.
			return 0, sizeLimitErr()
		}
		result |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			break
		}
		shift += 7
	}
	if maxBits < 64 && result>>maxBits != 0 {
		return 0, sizeLimitErr()
	}
	return result, nil
}

// readVarintWidth reads a signed LEB128 group, sign-extending per the
// terminator byte's sign bit, then fails with a size-limit error if the
// decoded value doesn't fit in a two's-complement integer of maxBits.
func (d *Decoder) readVarintWidth(maxBits uint) (int64, error) {
	var result int64
	var shift uint
	var b byte
	for i := 0; ; i++ {
		if i == maxVarintBytes {
			return 0, sizeLimitErr()
		}
		raw, err := d.readRaw(1)
		if err != nil {
			return 0, err
		}
		b = raw[0]
		if shift == 63 && b != 0x00 && b != 0x7f {
			// The 10th group holds only bit 63 plus its sign extension.
			return 0, sizeLimitErr()
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	if maxBits < 64 {
		lo, hi := int64(-1)<<(maxBits-1), int64(1)<<(maxBits-1)-1
		if result < lo || result > hi {
			return 0, sizeLimitErr()
		}
	}
	return result, nil
}
