package crc

import "hash"

// Digest computes a CRC incrementally. Data may be written in chunks of any
// size, and the result is identical to a single call over the concatenated
// input for every width. It implements hash.Hash64.
type Digest struct {
	c   CRC
	crc uint64
	reg *register
}

var _ hash.Hash64 = (*Digest)(nil)

func New(p Params) (*Digest, error) {
	c, err := NewCRC("", p)
	if err != nil {
		return nil, err
	}

	d := &Digest{c: c}
	if c.tbl == nil {
		d.reg = newRegister(p)
	}
	d.Reset()

	return d, nil
}

func (d *Digest) Params() Params {
	return d.c.Params
}

// Engine names the algorithm the digest runs, "table" or "bitwise".
func (d *Digest) Engine() string {
	return d.c.Engine()
}

func (d *Digest) Reset() {
	if d.reg != nil {
		d.reg.reset()
		return
	}
	d.crc = d.c.XorIn & d.c.Mask()
}

func (d *Digest) Write(data []byte) (int, error) {
	if d.reg != nil {
		d.reg.write(data)
	} else {
		d.crc = Update(d.crc, d.c.Width, d.c.tbl, data, d.c.ReflectIn)
	}
	return len(data), nil
}

// Sum64 returns the finalized CRC without changing the digest state.
func (d *Digest) Sum64() uint64 {
	if d.reg != nil {
		return d.reg.sum()
	}
	return Finalize(d.c.Params, d.crc)
}

// Sum appends the big-endian CRC, padded to Size bytes, to b.
func (d *Digest) Sum(b []byte) []byte {
	s := d.Sum64()
	for i := d.Size() - 1; i >= 0; i-- {
		b = append(b, byte(s>>uint(8*i)))
	}
	return b
}

func (d *Digest) Size() int {
	return (d.c.Width + 7) / 8
}

func (d *Digest) BlockSize() int {
	return 1
}
