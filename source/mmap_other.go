//go:build !unix

package source

import (
	"io"
	"os"
)

func mapFile(f *os.File, size int) ([]byte, error) {
	m := make([]byte, size)
	_, err := io.ReadFull(f, m)
	return m, err
}

func unmapFile(m []byte) error {
	return nil
}
