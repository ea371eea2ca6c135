package gen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bemasher/crcgen/crc"
)

func init() {
	Register("go", goEmitter{})
}

type goEmitter struct{}

func (goEmitter) Ident() string {
	return "crcTable"
}

func (goEmitter) Emit(w io.Writer, ident string, width int, table *crc.Table) error {
	size, err := Container(width)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "var %s = [%d]uint%d{\n", ident, len(table), size)
	writeEntries(&buf, width, table, "\t", true)
	buf.WriteString("}\n")

	_, err = buf.WriteTo(w)
	return err
}
