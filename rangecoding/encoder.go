package rangecoding

import "math/bits"

// Encoder is the range encoder of RFC 6716 Section 4.1.
//
// It writes into a caller-supplied buffer and never grows it. When the
// buffer fills up the error flag is raised and further output is dropped;
// the coder state itself stays consistent so Tell keeps counting.
type Encoder struct {
	buf        []byte
	offs       uint32 // next write position in buf
	nbitsTotal int
	rng        uint32 // size of the current interval
	val        uint32 // low end of the current interval
	rem        int    // byte held back for carry propagation, -1 if none
	ext        uint32 // run of 0xFF bytes held back behind rem
	err        int
}

// Init resets the encoder to write into buf.
func (e *Encoder) Init(buf []byte) {
	e.buf = buf
	e.offs = 0
	e.nbitsTotal = codeBits + 1
	e.rng = codeTop
	e.val = 0
	e.rem = -1
	e.ext = 0
	e.err = 0
}

// Encode narrows the interval to the symbol occupying [fl, fh) out of a
// total frequency ft. The caller guarantees 0 <= fl < fh <= ft and
// ft <= 65535.
//
// Reference: libopus celt/entenc.c ec_encode()
func (e *Encoder) Encode(fl, fh, ft uint32) {
	r := e.rng / ft
	if fl > 0 {
		e.val += e.rng - r*(ft-fl)
		e.rng = r * (fh - fl)
	} else {
		e.rng -= r * (ft - fh)
	}
	e.normalize()
}

func (e *Encoder) normalize() {
	for e.rng <= codeBot {
		e.carryOut(int(e.val >> codeShift))
		e.val = (e.val << symBits) & (codeTop - 1)
		e.rng <<= symBits
		e.nbitsTotal += symBits
	}
}

// carryOut buffers one output symbol. A 0xFF symbol cannot be written
// until it is known whether a later carry turns it into 0x00, so runs of
// them are only counted in ext.
func (e *Encoder) carryOut(c int) {
	if c == symMax {
		e.ext++
		return
	}
	carry := c >> symBits
	if e.rem >= 0 {
		e.writeByte(byte(e.rem + carry))
	}
	if e.ext > 0 {
		sym := byte((symMax + carry) & symMax)
		for ; e.ext > 0; e.ext-- {
			e.writeByte(sym)
		}
	}
	e.rem = c & symMax
}

func (e *Encoder) writeByte(b byte) {
	if int(e.offs) >= len(e.buf) {
		e.err = -1
		return
	}
	e.buf[e.offs] = b
	e.offs++
}

// Done flushes the minimum number of bytes that identify the final
// interval and returns the encoded stream, a prefix of the buffer passed
// to Init. The encoder must be re-initialized before further use.
//
// Reference: libopus celt/entenc.c ec_enc_done()
func (e *Encoder) Done() []byte {
	l := codeBits - bits.Len32(e.rng)
	msk := uint32(codeTop-1) >> uint(l)
	end := (e.val + msk) &^ msk
	if (end | msk) >= e.val+e.rng {
		l++
		msk >>= 1
		end = (e.val + msk) &^ msk
	}
	for l > 0 {
		e.carryOut(int(end >> codeShift))
		end = (end << symBits) & (codeTop - 1)
		l -= symBits
	}
	if e.rem >= 0 || e.ext > 0 {
		e.carryOut(0)
	}
	return e.buf[:e.offs]
}

// Tell returns the number of whole bits written so far, rounded up.
func (e *Encoder) Tell() int {
	return e.nbitsTotal - bits.Len32(e.rng)
}

// TellFrac returns the number of bits written in 1/8 bit units.
func (e *Encoder) TellFrac() int {
	return tellFrac(e.nbitsTotal, e.rng)
}

// Error reports a non-zero value once output has been dropped because
// the buffer was too small.
func (e *Encoder) Error() int {
	return e.err
}

// State returns the internal (rng, val) pair for bit-exact comparisons.
func (e *Encoder) State() (uint32, uint32) {
	return e.rng, e.val
}

// tellFrac is ec_tell_frac() shared by both coder halves.
func tellFrac(nbitsTotal int, rng uint32) int {
	correction := [8]uint32{35733, 38967, 42495, 46340, 50535, 55109, 60097, 65535}

	nbits := nbitsTotal << 3
	l := bits.Len32(rng)
	r := rng >> uint(l-16)
	b := int((r >> 12) - 8)
	if r > correction[b] {
		b++
	}
	return nbits - ((l << 3) + b)
}
