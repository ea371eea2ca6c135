package crc

import "sync"

type Table [256]uint64

// NewTable builds the MSB-first lookup table for poly and width. Each power of
// two index is one bit-serial step beyond the previous one, and the remaining
// entries follow from linearity: table[i+j] = table[i] ^ table[j] for j < i.
func NewTable(poly uint64, width int) (table Table) {
	m := mask(width)
	top := uint64(1) << uint(width-1)

	crc := top
	for i := 1; i < len(table); i <<= 1 {
		if crc&top != 0 {
			crc = crc<<1 ^ poly
		} else {
			crc <<= 1
		}
		crc &= m

		for j := 0; j < i; j++ {
			table[i+j] = (crc ^ table[j]) & m
		}
	}

	return table
}

type tableKey struct {
	poly  uint64
	width int
}

var tables sync.Map

// cachedTable returns a shared table for poly and width, building it on first
// use. Tables must not be modified.
func cachedTable(poly uint64, width int) *Table {
	key := tableKey{poly, width}
	if tbl, ok := tables.Load(key); ok {
		return tbl.(*Table)
	}

	tbl := NewTable(poly, width)
	actual, _ := tables.LoadOrStore(key, &tbl)
	return actual.(*Table)
}
