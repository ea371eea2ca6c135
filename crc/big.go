package crc

import (
	"fmt"
	"hash"
	"math/big"
	"sync"

	"golang.org/x/xerrors"
)

// BigParams describes a CRC variant of any width. Nil values are zero. Widths
// up to 64 are computed by the uint64 engines, wider ones with math/big.
type BigParams struct {
	Poly       *big.Int
	Width      int
	XorIn      *big.Int
	XorOut     *big.Int
	ReflectIn  bool
	ReflectOut bool
}

// Big widens p.
func (p Params) Big() BigParams {
	return BigParams{
		Poly:       new(big.Int).SetUint64(p.Poly),
		Width:      p.Width,
		XorIn:      new(big.Int).SetUint64(p.XorIn),
		XorOut:     new(big.Int).SetUint64(p.XorOut),
		ReflectIn:  p.ReflectIn,
		ReflectOut: p.ReflectOut,
	}
}

// Small narrows p when its width fits the uint64 engines. Values are masked
// to Width.
func (p BigParams) Small() (Params, bool) {
	if p.Width < 1 || p.Width > MaxWidth {
		return Params{}, false
	}

	m := p.Mask()
	return Params{
		Poly:       masked(p.Poly, m).Uint64(),
		Width:      p.Width,
		XorIn:      masked(p.XorIn, m).Uint64(),
		XorOut:     masked(p.XorOut, m).Uint64(),
		ReflectIn:  p.ReflectIn,
		ReflectOut: p.ReflectOut,
	}, true
}

func (p BigParams) String() string {
	digits := (p.Width + 3) / 4
	return fmt.Sprintf("{Poly:0x%0*X Width:%d XorIn:0x%0*X XorOut:0x%0*X ReflectIn:%t ReflectOut:%t}",
		digits, orZero(p.Poly), p.Width, digits, orZero(p.XorIn), digits, orZero(p.XorOut), p.ReflectIn, p.ReflectOut,
	)
}

func (p BigParams) Validate() error {
	if p.Width < 1 {
		return xerrors.Errorf("width %d: %w", p.Width, ErrInvalidWidth)
	}
	return nil
}

func (p BigParams) TableDriven() bool {
	return p.Width >= 8 && p.Width%8 == 0
}

func (p BigParams) Mask() *big.Int {
	return bigMask(p.Width)
}

func bigMask(width int) *big.Int {
	m := new(big.Int)
	if width <= 0 {
		return m
	}
	m.Lsh(big.NewInt(1), uint(width))
	return m.Sub(m, big.NewInt(1))
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x
}

// masked returns a new x & m.
func masked(x, m *big.Int) *big.Int {
	return new(big.Int).And(orZero(x), m)
}

// ReflectBig reverses the order of the lowest width bits of x.
func ReflectBig(x *big.Int, width int) *big.Int {
	r := new(big.Int)
	for i := 0; i < width; i++ {
		if x.Bit(i) != 0 {
			r.SetBit(r, width-1-i, 1)
		}
	}
	return r
}

// FinalizeBig applies output reflection and xor-out to a raw accumulator.
func FinalizeBig(p BigParams, crc *big.Int) *big.Int {
	m := p.Mask()
	crc = masked(crc, m)
	if p.ReflectOut {
		crc = ReflectBig(crc, p.Width)
	}
	return crc.Xor(crc, masked(p.XorOut, m))
}

// BigTable is the lookup table of a CRC wider than 64 bits.
type BigTable [256]*big.Int

// NewBigTable builds the MSB-first lookup table for poly and width the same
// way NewTable does. Width must be at least 8.
func NewBigTable(poly *big.Int, width int) *BigTable {
	m := bigMask(width)
	p := masked(poly, m)

	var table BigTable
	table[0] = new(big.Int)

	crc := new(big.Int).SetBit(new(big.Int), width-1, 1)
	for i := 1; i < len(table); i <<= 1 {
		overflow := crc.Bit(width-1) != 0
		crc.Lsh(crc, 1)
		if overflow {
			crc.Xor(crc, p)
		}
		crc.And(crc, m)

		for j := 0; j < i; j++ {
			table[i+j] = new(big.Int).Xor(crc, table[j])
		}
	}

	return &table
}

type bigTableKey struct {
	poly  string
	width int
}

var bigTables sync.Map

func cachedBigTable(poly *big.Int, width int) *BigTable {
	key := bigTableKey{poly.Text(16), width}
	if tbl, ok := bigTables.Load(key); ok {
		return tbl.(*BigTable)
	}

	actual, _ := bigTables.LoadOrStore(key, NewBigTable(poly, width))
	return actual.(*BigTable)
}

// UpdateBig advances a raw table-driven accumulator of any width over data.
// It returns a new value and leaves crc untouched.
func UpdateBig(crc *big.Int, width int, table *BigTable, data []byte, reflectIn bool) *big.Int {
	m := bigMask(width)
	shift := uint(width - 8)

	crc = masked(crc, m)
	top := new(big.Int)
	for _, b := range data {
		if reflectIn {
			b = ReflectByte(b)
		}
		idx := byte(top.Rsh(crc, shift).Uint64()) ^ b

		crc.Lsh(crc, 8)
		crc.Xor(crc, table[idx])
		crc.And(crc, m)
	}

	return crc
}

// ChecksumBig is Checksum for any width that is a multiple of 8.
func ChecksumBig(p BigParams, data []byte) (*big.Int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !p.TableDriven() {
		return nil, xerrors.Errorf("width %d: %w", p.Width, ErrTableWidth)
	}

	m := p.Mask()
	crc := UpdateBig(masked(p.XorIn, m), p.Width, cachedBigTable(masked(p.Poly, m), p.Width), data, p.ReflectIn)

	return FinalizeBig(p, crc), nil
}

// BitwiseBig is Bitwise for any width.
func BitwiseBig(p BigParams, data []byte) (*big.Int, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := newBigRegister(p)
	r.write(data)

	return r.sum(), nil
}

// ComputeBig calculates the CRC of data for any width, using Compute when the
// width fits in 64 bits.
func ComputeBig(p BigParams, data []byte) (*big.Int, error) {
	if sp, ok := p.Small(); ok {
		crc, err := Compute(sp, data)
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(crc), nil
	}

	if p.TableDriven() {
		return ChecksumBig(p, data)
	}
	return BitwiseBig(p, data)
}

// bigRegister is register with a math/big accumulator.
type bigRegister struct {
	p     BigParams
	poly  *big.Int
	xorIn *big.Int

	crc     *big.Int
	pending int
}

func newBigRegister(p BigParams) *bigRegister {
	m := p.Mask()
	r := &bigRegister{
		p:     p,
		poly:  masked(p.Poly, m),
		xorIn: masked(p.XorIn, m),
		crc:   new(big.Int),
	}
	r.reset()

	return r
}

func (r *bigRegister) reset() {
	r.crc.SetInt64(0)
	r.pending = r.p.Width
}

func (r *bigRegister) shift(bit uint) {
	overflow := r.crc.Bit(r.p.Width-1) != 0
	r.crc.Lsh(r.crc, 1)
	r.crc.SetBit(r.crc, r.p.Width, 0)
	r.crc.SetBit(r.crc, 0, bit)
	if overflow {
		r.crc.Xor(r.crc, r.poly)
	}
}

func (r *bigRegister) write(data []byte) {
	for _, b := range data {
		if r.p.ReflectIn {
			b = ReflectByte(b)
		}
		for bit := 7; bit >= 0; bit-- {
			r.shift(uint(b>>uint(bit)) & 1)

			if r.pending > 0 {
				r.pending--
				if r.pending == 0 {
					r.crc.Xor(r.crc, r.xorIn)
				}
			}
		}
	}
}

func (r *bigRegister) sum() *big.Int {
	crc := &bigRegister{p: r.p, poly: r.poly, crc: new(big.Int).Set(r.crc)}
	for i := 0; i < r.p.Width; i++ {
		crc.shift(0)
	}
	return FinalizeBig(r.p, crc.crc)
}

// BigDigest is Digest for any width. It implements hash.Hash.
type BigDigest struct {
	p     BigParams
	small *Digest

	tbl *BigTable
	crc *big.Int
	reg *bigRegister
}

var _ hash.Hash = (*BigDigest)(nil)

func NewBig(p BigParams) (*BigDigest, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	d := &BigDigest{p: p}
	if sp, ok := p.Small(); ok {
		small, err := New(sp)
		if err != nil {
			return nil, err
		}
		d.small = small
		return d, nil
	}

	if p.TableDriven() {
		d.tbl = cachedBigTable(masked(p.Poly, p.Mask()), p.Width)
	} else {
		d.reg = newBigRegister(p)
	}
	d.Reset()

	return d, nil
}

func (d *BigDigest) Params() BigParams {
	return d.p
}

func (d *BigDigest) Engine() string {
	switch {
	case d.small != nil:
		return d.small.Engine()
	case d.tbl != nil:
		return "table"
	}
	return "bitwise"
}

func (d *BigDigest) Reset() {
	switch {
	case d.small != nil:
		d.small.Reset()
	case d.reg != nil:
		d.reg.reset()
	default:
		d.crc = masked(d.p.XorIn, d.p.Mask())
	}
}

func (d *BigDigest) Write(data []byte) (int, error) {
	switch {
	case d.small != nil:
		return d.small.Write(data)
	case d.reg != nil:
		d.reg.write(data)
	default:
		d.crc = UpdateBig(d.crc, d.p.Width, d.tbl, data, d.p.ReflectIn)
	}
	return len(data), nil
}

// SumBig returns the finalized CRC without changing the digest state.
func (d *BigDigest) SumBig() *big.Int {
	switch {
	case d.small != nil:
		return new(big.Int).SetUint64(d.small.Sum64())
	case d.reg != nil:
		return d.reg.sum()
	}
	return FinalizeBig(d.p, d.crc)
}

// Sum appends the big-endian CRC, padded to Size bytes, to b.
func (d *BigDigest) Sum(b []byte) []byte {
	return append(b, d.SumBig().FillBytes(make([]byte, d.Size()))...)
}

func (d *BigDigest) Size() int {
	return (d.p.Width + 7) / 8
}

func (d *BigDigest) BlockSize() int {
	return 1
}
