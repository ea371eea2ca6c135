package crc

import (
	"math/big"
	"math/bits"

	"golang.org/x/xerrors"
)

// FromKoopman converts a polynomial in Koopman notation, where the leading
// term is explicit and the trailing +1 is implied, to the normal form used by
// the engines. The width is the bit length of k.
func FromKoopman(k uint64) (poly uint64, width int, err error) {
	width = bits.Len64(k)
	if width == 0 {
		return 0, 0, xerrors.Errorf("koopman polynomial 0x%X: %w", k, ErrInvalidWidth)
	}

	poly = (k<<1 | 1) ^ uint64(1)<<uint(width)

	return poly & mask(width), width, nil
}

// ToKoopman converts a normal form polynomial of the given width to Koopman
// notation. The +1 term is dropped.
func ToKoopman(poly uint64, width int) uint64 {
	return (poly&mask(width))>>1 | uint64(1)<<uint(width-1)
}

// FromKoopmanBig is FromKoopman for polynomials of any width.
func FromKoopmanBig(k *big.Int) (poly *big.Int, width int, err error) {
	if k.Sign() < 0 {
		return nil, 0, xerrors.Errorf("koopman polynomial %#x: %w", k, ErrInvalidWidth)
	}
	if k.BitLen() <= MaxWidth {
		p, w, err := FromKoopman(k.Uint64())
		if err != nil {
			return nil, 0, err
		}
		return new(big.Int).SetUint64(p), w, nil
	}

	width = k.BitLen()
	poly = new(big.Int).Lsh(k, 1)
	poly.SetBit(poly, 0, 1)
	poly.SetBit(poly, width, 0)

	return poly, width, nil
}
