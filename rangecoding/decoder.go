package rangecoding

import "math/bits"

// Decoder is the range decoder of RFC 6716 Section 4.1, the inverse of
// Encoder. Reading past the end of the input yields zero bytes, so any
// buffer, including a truncated or corrupted one, can be decoded.
type Decoder struct {
	buf        []byte
	offs       uint32
	nbitsTotal int
	rng        uint32
	val        uint32 // distance from the top of the interval to the code point
	ext        uint32 // scale computed by the last Decode, consumed by Update
	rem        int    // last byte read, half of it not yet shifted into val
}

// Init starts decoding buf.
//
// Reference: libopus celt/entdec.c ec_dec_init()
func (d *Decoder) Init(buf []byte) {
	d.buf = buf
	d.offs = 0
	d.rng = 1 << codeExtra
	d.rem = int(d.readByte())
	d.val = d.rng - 1 - uint32(d.rem>>(symBits-codeExtra))
	d.nbitsTotal = codeBits + 1 - ((codeBits-codeExtra)/symBits)*symBits
	d.ext = 0
	d.normalize()
}

func (d *Decoder) readByte() byte {
	if int(d.offs) < len(d.buf) {
		b := d.buf[d.offs]
		d.offs++
		return b
	}
	return 0
}

func (d *Decoder) normalize() {
	for d.rng <= codeBot {
		d.nbitsTotal += symBits
		d.rng <<= symBits
		sym := d.rem
		d.rem = int(d.readByte())
		sym = (sym<<symBits | d.rem) >> (symBits - codeExtra)
		d.val = ((d.val << symBits) + uint32(symMax&^sym)) & (codeTop - 1)
	}
}

// Decode returns the cumulative frequency in [0, ft) that the next symbol
// falls in. It does not consume the symbol: the caller must follow up
// with Update once the symbol's [fl, fh) has been resolved.
//
// Reference: libopus celt/entdec.c ec_decode()
func (d *Decoder) Decode(ft uint32) uint32 {
	d.ext = d.rng / ft
	s := d.val / d.ext
	if s+1 > ft {
		s = ft - 1
	}
	return ft - (s + 1)
}

// Update consumes the symbol [fl, fh) out of ft located by the preceding
// Decode call. The caller guarantees fl < fh <= ft.
//
// Reference: libopus celt/entdec.c ec_dec_update()
func (d *Decoder) Update(fl, fh, ft uint32) {
	s := d.ext * (ft - fh)
	d.val -= s
	if fl > 0 {
		d.rng = d.ext * (fh - fl)
	} else {
		d.rng -= s
	}
	d.normalize()
}

// Tell returns the number of whole bits consumed so far, rounded up.
func (d *Decoder) Tell() int {
	return d.nbitsTotal - bits.Len32(d.rng)
}

// TellFrac returns the number of bits consumed in 1/8 bit units.
func (d *Decoder) TellFrac() int {
	return tellFrac(d.nbitsTotal, d.rng)
}

// BytesUsed returns how many bytes of the input have been read.
func (d *Decoder) BytesUsed() int {
	return int(d.offs)
}

// State returns the internal (rng, val) pair for bit-exact comparisons.
func (d *Decoder) State() (uint32, uint32) {
	return d.rng, d.val
}
