package gen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bemasher/crcgen/crc"
)

func init() {
	Register("c", cEmitter{})
}

type cEmitter struct{}

func (cEmitter) Ident() string {
	return "crc_table"
}

func (cEmitter) Emit(w io.Writer, ident string, width int, table *crc.Table) error {
	size, err := Container(width)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "static const uint%d_t %s[%d] = {\n", size, ident, len(table))
	writeEntries(&buf, width, table, "    ", false)
	buf.WriteString("};\n")

	_, err = buf.WriteTo(w)
	return err
}
