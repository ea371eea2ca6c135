// CRCGEN - A parameterized CRC calculator and lookup table generator.
// Copyright (C) 2015 Douglas Hall
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/bemasher/crcgen/crc"
	"github.com/bemasher/crcgen/csv"
	"github.com/pkg/errors"
)

// Result is a computed crc along with the parameters and input that produced
// it.
type Result struct {
	Poly       string `json:"poly"`
	Width      int    `json:"width"`
	XorIn      string `json:"xorin"`
	XorOut     string `json:"xorout"`
	ReflectIn  bool   `json:"reflectin"`
	ReflectOut bool   `json:"reflectout"`
	Engine     string `json:"engine"`
	Source     string `json:"source"`
	Length     int64  `json:"length"`
	CRC        string `json:"crc"`

	Value *big.Int `json:"-" xml:"-"`
}

func NewResult(p crc.BigParams, engine, source string, length int64, value *big.Int) Result {
	return Result{
		Poly:       hex(p.Poly),
		Width:      p.Width,
		XorIn:      hex(p.XorIn),
		XorOut:     hex(p.XorOut),
		ReflectIn:  p.ReflectIn,
		ReflectOut: p.ReflectOut,
		Engine:     engine,
		Source:     source,
		Length:     length,
		CRC:        hex(value),
		Value:      value,
	}
}

// hex formats v in lowercase hex, nil is zero.
func hex(v *big.Int) string {
	if v == nil {
		return "0x0"
	}
	return "0x" + v.Text(16)
}

// String is the crc in lowercase hex without padding.
func (r Result) String() string {
	return strings.TrimPrefix(hex(r.Value), "0x")
}

func (r Result) Header() []string {
	return []string{"poly", "width", "xorin", "xorout", "reflectin", "reflectout", "engine", "source", "length", "crc"}
}

func (r Result) Record() []string {
	return []string{
		r.Poly,
		strconv.Itoa(r.Width),
		r.XorIn,
		r.XorOut,
		strconv.FormatBool(r.ReflectIn),
		strconv.FormatBool(r.ReflectOut),
		r.Engine,
		r.Source,
		strconv.FormatInt(r.Length, 10),
		r.CRC,
	}
}

// JSON, XML and CSV all implement this interface so we can simplify result
// output formatting.
type Encoder interface {
	Encode(interface{}) error
}

func NewEncoder(format string, w io.Writer) (Encoder, error) {
	switch strings.ToLower(format) {
	case "plain":
		return PlainEncoder{w}, nil
	case "csv":
		return csv.NewEncoder(w), nil
	case "json":
		return json.NewEncoder(w), nil
	case "xml":
		return lineEncoder{xml.NewEncoder(w), w}, nil
	}
	return nil, errors.Errorf("invalid output format: %q", format)
}

type PlainEncoder struct {
	w io.Writer
}

func (pe PlainEncoder) Encode(v interface{}) (err error) {
	_, err = fmt.Fprintln(pe.w, v)
	return
}

// lineEncoder terminates each encoded element with a newline.
type lineEncoder struct {
	Encoder
	w io.Writer
}

func (le lineEncoder) Encode(v interface{}) error {
	if err := le.Encoder.Encode(v); err != nil {
		return err
	}
	_, err := io.WriteString(le.w, "\n")
	return err
}
