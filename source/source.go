// Package source supplies the bytes a CRC is computed over: read-only file
// windows, hex strings, locale encoded strings and chunked streams.
package source

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// ChunkSize is the read size used when streaming input.
const ChunkSize = 8 << 10

var (
	ErrInvalidCount = errors.New("invalid calculated count")
	ErrTooLarge     = errors.New("file too large to map")
)

// Window resolves skip and count against data of the given size. A negative
// skip counts back from the end, clamped to the start. A non-positive count
// means size minus |count| and must leave at least one byte. The returned
// window is clamped to the end of the data.
func Window(size, skip, count int64) (off, n int64, err error) {
	off = skip
	if skip < 0 {
		off = size + skip
		if off < 0 {
			off = 0
		}
	}

	n = count
	if count <= 0 {
		n = size + count
	}
	if n <= 0 {
		return 0, 0, errors.Wrapf(ErrInvalidCount, "count %d", n)
	}

	if off > size {
		off = size
	}
	if n > size-off {
		n = size - off
	}

	return off, n, nil
}

// A Slice is a read-only view of part of a file. On unix the file is memory
// mapped and the view is not copied.
type Slice struct {
	Path string

	data []byte
	off  int64
	m    []byte
}

// Open maps path and returns the window selected by skip and count.
func Open(path string, skip, count int64) (*Slice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat input")
	}
	if !fi.Mode().IsRegular() {
		return nil, errors.Errorf("%s: not a regular file", path)
	}

	off, n, err := Window(fi.Size(), skip, count)
	if err != nil {
		return nil, err
	}

	s := &Slice{Path: path, off: off}
	if fi.Size() == 0 {
		return s, nil
	}

	size, err := mapSize(fi.Size())
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", path)
	}

	s.m, err = mapFile(f, size)
	if err != nil {
		return nil, errors.Wrapf(err, "map %s", path)
	}
	s.data = s.m[off : off+n]

	return s, nil
}

// mapSize checks that a file of size bytes is addressable as a single slice.
func mapSize(size int64) (int, error) {
	if size < 0 || uint64(size) > math.MaxInt {
		return 0, errors.Wrapf(ErrTooLarge, "%d bytes", size)
	}
	return int(size), nil
}

func (s *Slice) Bytes() []byte {
	return s.data
}

func (s *Slice) Offset() int64 {
	return s.off
}

func (s *Slice) Len() int {
	return len(s.data)
}

func (s *Slice) String() string {
	return fmt.Sprintf("%s@%d+%d", s.Path, s.off, len(s.data))
}

// Close releases the mapping. The slice returned by Bytes must not be used
// afterwards.
func (s *Slice) Close() error {
	if s.m == nil {
		return nil
	}

	m := s.m
	s.m, s.data = nil, nil

	return errors.Wrapf(unmapFile(m), "unmap %s", s.Path)
}

// Copy streams r into w in ChunkSize reads.
func Copy(w io.Writer, r io.Reader) (n int64, err error) {
	buf := make([]byte, ChunkSize)
	for {
		nr, rerr := r.Read(buf)
		if nr > 0 {
			nw, werr := w.Write(buf[:nr])
			n += int64(nw)
			if werr != nil {
				return n, errors.Wrap(werr, "write chunk")
			}
		}
		if rerr == io.EOF {
			return n, nil
		}
		if rerr != nil {
			return n, errors.Wrap(rerr, "read chunk")
		}
	}
}
