package crc

import "math/bits"

// Reflect reverses the order of the lowest width bits of x. Bits above width
// are ignored.
func Reflect(x uint64, width int) uint64 {
	if width <= 0 || x == 0 {
		return 0
	}
	if width >= 64 {
		return bits.Reverse64(x)
	}
	return bits.Reverse64(x&mask(width)) >> uint(64-width)
}

// ReflectByte reverses the bit order of b by swapping adjacent bits, then
// bit pairs, then nibbles.
func ReflectByte(b byte) byte {
	b = (b&0xAA)>>1 | (b&0x55)<<1
	b = (b&0xCC)>>2 | (b&0x33)<<2
	return (b&0xF0)>>4 | (b&0x0F)<<4
}
