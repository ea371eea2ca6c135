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
	"flag"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/bemasher/crcgen/crc"
	"github.com/bemasher/crcgen/gen"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const envPrefix = "CRCGEN_"

var ErrMissingPoly = errors.New("missing required parameter: -poly")

// UintValue is an unsigned flag of any size accepting 0x, 0o and 0b
// prefixes.
type UintValue struct {
	Value *big.Int
	set   bool
}

func (v *UintValue) String() string {
	if v == nil || v.Value == nil {
		return "0x0"
	}
	return "0x" + v.Value.Text(16)
}

func (v *UintValue) Set(s string) error {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok || n.Sign() < 0 {
		return errors.Errorf("invalid unsigned integer: %q", s)
	}
	v.Value, v.set = n, true
	return nil
}

func (v *UintValue) IsSet() bool {
	return v.set
}

// WidthValue records whether a width was given at all, an unset width is
// inferred from the polynomial.
type WidthValue struct {
	Value int
	set   bool
}

func (v *WidthValue) String() string {
	if v == nil || !v.set {
		return ""
	}
	return strconv.Itoa(v.Value)
}

func (v *WidthValue) Set(s string) error {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 0)
	if err != nil {
		return err
	}
	v.Value, v.set = int(n), true
	return nil
}

func (v *WidthValue) IsSet() bool {
	return v.set
}

// StringValue distinguishes an empty string from an absent one.
type StringValue struct {
	Value string
	set   bool
}

func (v *StringValue) String() string {
	if v == nil {
		return ""
	}
	return v.Value
}

func (v *StringValue) Set(s string) error {
	v.Value, v.set = s, true
	return nil
}

func (v *StringValue) IsSet() bool {
	return v.set
}

type Options struct {
	Poly       UintValue
	Width      WidthValue
	XorIn      UintValue
	XorOut     UintValue
	ReflectIn  bool
	ReflectOut bool

	Input    string
	Skip     int64
	Count    int64
	Hex      StringValue
	Str      StringValue
	Encoding string

	Format  string
	LUT     bool
	LUTLang string
	LUTName string

	ConfigFile string
	Verbose    bool
	Version    bool
}

func (o *Options) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&o.Poly, "poly", "generator polynomial, in koopman notation if -width is not given")
	fs.Var(&o.Width, "width", "width of the crc in bits, at least 1")
	fs.Var(&o.XorIn, "xorin", "input xor value")
	fs.Var(&o.XorOut, "xorout", "output xor value")
	fs.BoolVar(&o.ReflectIn, "reflectin", false, "reflect each input byte")
	fs.BoolVar(&o.ReflectOut, "reflectout", false, "reflect the output")

	fs.StringVar(&o.Input, "input", "", "file to use as input")
	fs.Int64Var(&o.Skip, "skip", 0, "bytes of -input to skip, negative counts from the end")
	fs.Int64Var(&o.Count, "count", 0, "bytes of -input to use, non-positive is the file length minus |count|")
	fs.Var(&o.Hex, "hex", "hexadecimal string of data")
	fs.Var(&o.Str, "str", "string of data, encoded using the locale's charset")
	fs.StringVar(&o.Encoding, "encoding", "", "charset for -str, defaults to the locale's")

	fs.StringVar(&o.Format, "format", "plain", "result output format: plain, csv, json or xml")
	fs.BoolVar(&o.LUT, "lut", false, "print the lookup table as source code and exit")
	fs.StringVar(&o.LUTLang, "lutlang", "c", "lookup table language: "+strings.Join(gen.Languages(), ", "))
	fs.StringVar(&o.LUTName, "lutname", "", "lookup table identifier, defaults per language")

	fs.StringVar(&o.ConfigFile, "config", "", "yaml file of flag defaults")
	fs.BoolVar(&o.Verbose, "verbose", false, "log resolved parameters and input details")
	fs.BoolVar(&o.Version, "version", false, "display build date and commit hash")
}

var flagGroups = []struct {
	title string
	names []string
}{
	{"", []string{"poly", "width", "xorin", "xorout", "reflectin", "reflectout"}},
	{"input:", []string{"input", "skip", "count", "hex", "str", "encoding"}},
	{"output:", []string{"format", "lut", "lutlang", "lutname"}},
	{"general:", []string{"config", "verbose", "version"}},
}

func Usage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		fmt.Fprintf(w, "Usage of %s:\n", fs.Name())

		for _, group := range flagGroups {
			if group.title != "" {
				fmt.Fprintln(w)
				fmt.Fprintln(w, group.title)
			}
			for _, name := range group.names {
				if f := fs.Lookup(name); f != nil {
					fmt.Fprintf(w, "  -%s=%s: %s\n", f.Name, f.Value, f.Usage)
				}
			}
		}
	}
}

// EnvOverride sets flags from CRCGEN_<FLAG> environment variables. Flags
// given on the command line are parsed afterwards and take precedence.
func EnvOverride(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		envName := envPrefix + strings.ToUpper(f.Name)
		flagValue := os.Getenv(envName)
		if flagValue == "" {
			return
		}

		if err := fs.Set(f.Name, flagValue); err != nil {
			logrus.Warnf(
				"Environment variable %q failed to override flag %q with value %q: %q",
				envName, f.Name, flagValue, err,
			)
		} else {
			logrus.Infof("Environment variable %q overrides flag %q with %q", envName, f.Name, flagValue)
		}
	})
}

// Params resolves the crc parameters. Without a width the polynomial is
// taken to be in koopman notation.
func (o *Options) Params() (p crc.BigParams, err error) {
	if !o.Poly.IsSet() {
		return p, ErrMissingPoly
	}

	p.Poly, p.Width = o.Poly.Value, o.Width.Value
	if !o.Width.IsSet() {
		p.Poly, p.Width, err = crc.FromKoopmanBig(o.Poly.Value)
		if err != nil {
			return p, errors.Wrap(err, "infer width")
		}
	}

	p.XorIn = o.XorIn.Value
	p.XorOut = o.XorOut.Value
	p.ReflectIn = o.ReflectIn
	p.ReflectOut = o.ReflectOut

	return p, p.Validate()
}
