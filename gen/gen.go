// Package gen renders CRC lookup tables as source code.
//
// Emitters register themselves by language name; C and Go are built in.
package gen

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/bemasher/crcgen/crc"
	"golang.org/x/xerrors"
)

const EntriesPerLine = 8

var ErrWidth = xerrors.New("gen: width must be between 1 and 64")

// An Emitter writes a table declaration named ident.
type Emitter interface {
	Ident() string
	Emit(w io.Writer, ident string, width int, table *crc.Table) error
}

var (
	emitterMutex sync.Mutex
	emitters     = make(map[string]Emitter)
)

// Register makes an emitter available by language name.
func Register(lang string, e Emitter) {
	emitterMutex.Lock()
	defer emitterMutex.Unlock()

	if e == nil {
		panic("gen: emitter is nil")
	}
	if _, dup := emitters[lang]; dup {
		panic(fmt.Sprintf("gen: emitter already registered (%s)", lang))
	}
	emitters[lang] = e
}

func NewEmitter(lang string) (Emitter, error) {
	emitterMutex.Lock()
	defer emitterMutex.Unlock()

	if e, exists := emitters[lang]; exists {
		return e, nil
	}
	return nil, xerrors.Errorf("invalid lut language: %q", lang)
}

func Languages() (langs []string) {
	emitterMutex.Lock()
	defer emitterMutex.Unlock()

	for lang := range emitters {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	return langs
}

// Container returns the size in bits of the smallest standard unsigned
// integer holding width bits.
func Container(width int) (int, error) {
	if width < 1 || width > crc.MaxWidth {
		return 0, xerrors.Errorf("width %d: %w", width, ErrWidth)
	}

	size := 8
	for size < width {
		size <<= 1
	}
	return size, nil
}

// Digits is the number of hex digits needed to display width bits.
func Digits(width int) int {
	return (width + 3) / 4
}

// Write generates the table for poly and width and emits it in lang. An empty
// ident selects the emitter's default.
func Write(w io.Writer, lang, ident string, poly uint64, width int) error {
	if _, err := Container(width); err != nil {
		return err
	}

	e, err := NewEmitter(lang)
	if err != nil {
		return err
	}
	if ident == "" {
		ident = e.Ident()
	}

	table := crc.NewTable(poly&crc.Params{Width: width}.Mask(), width)
	return e.Emit(w, ident, width, &table)
}

// LUT returns the C declaration of the table for poly and width.
func LUT(poly uint64, width int) (string, error) {
	var buf bytes.Buffer
	if err := Write(&buf, "c", "", poly, width); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeEntries writes the table body: zero padded hex literals separated by
// commas, EntriesPerLine to a line. The last entry only gets a comma if
// trailing is set.
func writeEntries(buf *bytes.Buffer, width int, table *crc.Table, indent string, trailing bool) {
	digits := Digits(width)
	for idx, v := range table {
		if idx%EntriesPerLine == 0 {
			buf.WriteString(indent)
		}

		fmt.Fprintf(buf, "0x%0*x", digits, v)

		switch {
		case idx == len(table)-1 && !trailing:
			buf.WriteByte('\n')
		case idx%EntriesPerLine == EntriesPerLine-1:
			buf.WriteString(",\n")
		default:
			buf.WriteString(", ")
		}
	}
}
