// Package crc implements a parameterized CRC engine. A CRC variant is
// described by its generator polynomial, width, xor-in and xor-out values and
// input/output reflection flags.
//
// Two engines are provided. Bitwise processes one bit at a time and accepts
// any width. Checksum is the byte-at-a-time table-driven (Sarwate) engine and
// requires a width that is a multiple of 8. Compute selects between them.
//
// Params holds widths up to 64 bits in a uint64 accumulator. BigParams and
// the *Big functions accept any width and fall back to math/big above 64.
package crc

import (
	"fmt"

	"golang.org/x/xerrors"
)

const MaxWidth = 64

var (
	ErrInvalidWidth = xerrors.New("crc: invalid width")
	ErrTableWidth   = xerrors.New("crc: table-driven width must be a multiple of 8 and at least 8")
)

// Params describes a CRC variant. Poly, XorIn and XorOut are masked to Width
// bits by every engine.
type Params struct {
	Poly       uint64
	Width      int
	XorIn      uint64
	XorOut     uint64
	ReflectIn  bool
	ReflectOut bool
}

func (p Params) String() string {
	digits := (p.Width + 3) / 4
	return fmt.Sprintf("{Poly:0x%0*X Width:%d XorIn:0x%0*X XorOut:0x%0*X ReflectIn:%t ReflectOut:%t}",
		digits, p.Poly, p.Width, digits, p.XorIn, digits, p.XorOut, p.ReflectIn, p.ReflectOut,
	)
}

func (p Params) Validate() error {
	if p.Width < 1 || p.Width > MaxWidth {
		return xerrors.Errorf("width %d not in 1..%d: %w", p.Width, MaxWidth, ErrInvalidWidth)
	}
	return nil
}

// TableDriven reports whether the table-driven engine can be used.
func (p Params) TableDriven() bool {
	return p.Width >= 8 && p.Width%8 == 0 && p.Width <= MaxWidth
}

func (p Params) Mask() uint64 {
	return mask(p.Width)
}

// Raw returns a copy of p with the output transforms disabled. Checksums
// computed with Raw parameters may be carried into the next call as XorIn and
// finished with Finalize once the last chunk has been processed.
func (p Params) Raw() Params {
	p.ReflectOut = false
	p.XorOut = 0
	return p
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	if width <= 0 {
		return 0
	}
	return 1<<uint(width) - 1
}

// Finalize applies output reflection and xor-out to a raw accumulator.
func Finalize(p Params, crc uint64) uint64 {
	m := mask(p.Width)
	crc &= m
	if p.ReflectOut {
		crc = Reflect(crc, p.Width)
	}
	return (crc ^ p.XorOut) & m
}

// Checksum computes the CRC of data using the table-driven engine. The
// accumulator is seeded with XorIn before the first byte.
func Checksum(p Params, data []byte) (uint64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if !p.TableDriven() {
		return 0, xerrors.Errorf("width %d: %w", p.Width, ErrTableWidth)
	}

	m := p.Mask()
	crc := Update(p.XorIn&m, p.Width, cachedTable(p.Poly&m, p.Width), data, p.ReflectIn)

	return Finalize(p, crc), nil
}

// Update advances a raw table-driven accumulator over data. No output
// transforms are applied, so the result may be passed back in as crc for the
// next chunk. Width must be a multiple of 8 and table must have been built for
// the same polynomial and width.
func Update(crc uint64, width int, table *Table, data []byte, reflectIn bool) uint64 {
	m := mask(width)
	shift := uint(width - 8)

	crc &= m
	for _, b := range data {
		if reflectIn {
			b = ReflectByte(b)
		}
		crc = (crc<<8 ^ table[byte(crc>>shift)^b]) & m
	}

	return crc
}

// Compute calculates the CRC of data, using the table-driven engine when the
// width allows it and the bit-serial engine otherwise.
func Compute(p Params, data []byte) (uint64, error) {
	if p.TableDriven() {
		return Checksum(p, data)
	}
	return Bitwise(p, data)
}

// CRC binds a named set of parameters to a prebuilt lookup table.
type CRC struct {
	Name string
	Params

	tbl *Table
}

func NewCRC(name string, p Params) (crc CRC, err error) {
	if err = p.Validate(); err != nil {
		if name != "" {
			err = xerrors.Errorf("%s: %w", name, err)
		}
		return crc, err
	}

	crc.Name = name
	crc.Params = p
	if p.TableDriven() {
		crc.tbl = cachedTable(p.Poly&p.Mask(), p.Width)
	}

	return
}

func (crc CRC) String() string {
	return fmt.Sprintf("{Name:%s Params:%s}", crc.Name, crc.Params)
}

// Engine names the algorithm Checksum uses for these parameters.
func (crc CRC) Engine() string {
	if crc.tbl != nil {
		return "table"
	}
	return "bitwise"
}

func (crc CRC) Checksum(data []byte) uint64 {
	if crc.tbl == nil {
		r := newRegister(crc.Params)
		r.write(data)
		return r.sum()
	}

	m := crc.Mask()
	return Finalize(crc.Params, Update(crc.XorIn&m, crc.Width, crc.tbl, data, crc.ReflectIn))
}
