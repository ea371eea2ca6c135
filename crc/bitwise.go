package crc

// Bitwise computes the CRC of data one bit at a time. Any width from 1 to 64
// is accepted.
//
// Input bits are shifted into a zeroed register most significant bit first.
// XorIn is applied exactly once, after the first width bits have been
// consumed, so input shorter than width bits never sees it. The register is
// then flushed with width zero bits before the output transforms.
func Bitwise(p Params, data []byte) (uint64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	r := newRegister(p)
	r.write(data)

	return r.sum(), nil
}

// register is the resumable state of the bit-serial engine.
type register struct {
	p    Params
	poly uint64
	mask uint64
	top  uint64

	crc     uint64
	pending int // bits left before xor-in is applied
}

func newRegister(p Params) *register {
	r := &register{
		p:    p,
		mask: mask(p.Width),
		top:  uint64(1) << uint(p.Width-1),
	}
	r.poly = p.Poly & r.mask
	r.reset()

	return r
}

func (r *register) reset() {
	r.crc = 0
	r.pending = r.p.Width
}

// shift clocks one bit into the register. The bit falling out of the top
// selects whether the polynomial is applied.
func (r *register) shift(bit uint64) {
	overflow := r.crc&r.top != 0
	r.crc = r.crc<<1 | bit
	if overflow {
		r.crc ^= r.poly
	}
	r.crc &= r.mask
}

func (r *register) write(data []byte) {
	for _, b := range data {
		if r.p.ReflectIn {
			b = ReflectByte(b)
		}
		for bit := 7; bit >= 0; bit-- {
			r.shift(uint64(b>>uint(bit)) & 1)

			if r.pending > 0 {
				r.pending--
				if r.pending == 0 {
					r.crc = (r.crc ^ r.p.XorIn) & r.mask
				}
			}
		}
	}
}

// sum flushes a copy of the register with width zero bits and applies the
// output transforms. The register itself is left untouched.
func (r *register) sum() uint64 {
	crc := *r
	for i := 0; i < r.p.Width; i++ {
		crc.shift(0)
	}
	return Finalize(r.p, crc.crc)
}
