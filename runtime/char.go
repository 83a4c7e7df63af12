package runtime

// utf8CharWidth maps a UTF-8 lead byte to the total encoded width of the
// scalar it starts (0 for continuation/invalid lead bytes), reproduced
// from the original crate's lookup table rather than recomputed with
// bit-counting at decode time (supplemented feature: char decoding).
var utf8CharWidth = [256]byte{
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2,
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	4, 4, 4, 4, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// encodeRuneUTF8 writes r's UTF-8 encoding into buf (which must be at
// least 4 bytes) and returns the width written.
func encodeRuneUTF8(buf []byte, r rune) int {
	switch {
	case r < 0x80:
		buf[0] = byte(r)
		return 1
	case r < 0x800:
		buf[0] = 0xC0 | byte(r>>6)
		buf[1] = 0x80 | byte(r&0x3F)
		return 2
	case r < 0x10000:
		buf[0] = 0xE0 | byte(r>>12)
		buf[1] = 0x80 | byte((r>>6)&0x3F)
		buf[2] = 0x80 | byte(r&0x3F)
		return 3
	default:
		buf[0] = 0xF0 | byte(r>>18)
		buf[1] = 0x80 | byte((r>>12)&0x3F)
		buf[2] = 0x80 | byte((r>>6)&0x3F)
		buf[3] = 0x80 | byte(r&0x3F)
		return 4
	}
}

// decodeRuneUTF8 reads one UTF-8-encoded scalar from d: a lead byte,
// then utf8CharWidth[lead]-1 continuation bytes read individually (not
// as a length-prefixed chunk, since the width comes from the lead byte
// itself, not the wire). It rejects invalid lead bytes, short/malformed
// continuation bytes, and any decoded value that is a surrogate half or
// out of Unicode range — all as InvalidEncoding (§4.4).
func (d *Decoder) decodeRuneUTF8() (rune, error) {
	lead, err := d.readRaw(1)
	if err != nil {
		return 0, err
	}
	width := utf8CharWidth[lead[0]]
	if width == 0 {
		return 0, invalidEncodingErr("invalid char", "bad UTF-8 lead byte")
	}
	var r rune
	switch width {
	case 1:
		r = rune(lead[0])
	case 2:
		r = rune(lead[0] & 0x1F)
	case 3:
		r = rune(lead[0] & 0x0F)
	case 4:
		r = rune(lead[0] & 0x07)
	}
	for i := byte(1); i < width; i++ {
		cont, err := d.readRaw(1)
		if err != nil {
			return 0, err
		}
		if cont[0]&0xC0 != 0x80 {
			return 0, invalidEncodingErr("invalid char", "bad UTF-8 continuation byte")
		}
		r = r<<6 | rune(cont[0]&0x3F)
	}
	if r > 0x10FFFF || (r >= 0xD800 && r <= 0xDFFF) {
		return 0, invalidEncodingErr("invalid char", "scalar out of range")
	}
	return r, nil
}
