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
	"io"
	"os"
	"strings"

	"github.com/bemasher/crcgen/crc"
	"github.com/bemasher/crcgen/gen"
	"github.com/bemasher/crcgen/source"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Compute selects the input and calculates its crc. Input is taken from the
// first of -input, -hex and -str that was given, otherwise from stdin.
func (o *Options) Compute(p crc.BigParams, stdin io.Reader) (res Result, err error) {
	d, err := crc.NewBig(p)
	if err != nil {
		return res, err
	}
	logrus.Debugf("Engine: %s", d.Engine())

	var (
		src string
		n   int64
	)

	switch {
	case o.Input != "":
		s, err := source.Open(o.Input, o.Skip, o.Count)
		if err != nil {
			return res, err
		}
		defer s.Close()

		logrus.Debugf("Input: %s", s)
		src, n = s.String(), int64(s.Len())
		d.Write(s.Bytes())

	case o.Hex.IsSet():
		data, err := source.DecodeHex(o.Hex.Value)
		if err != nil {
			return res, err
		}
		src, n = "hex", int64(len(data))
		d.Write(data)

	case o.Str.IsSet():
		charset := o.Encoding
		if charset == "" {
			charset = source.Charset()
		}

		data, err := source.EncodeString(o.Str.Value, charset)
		if err != nil {
			return res, err
		}
		logrus.Debugf("Encoded %d bytes as %s", len(data), charset)
		src, n = "str:"+charset, int64(len(data))
		d.Write(data)

	default:
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			logrus.Info("Reading from standard input until EOF")
		}

		src = "stdin"
		if n, err = source.Copy(d, stdin); err != nil {
			return res, err
		}
	}

	return NewResult(p, d.Engine(), src, n, d.SumBig()), nil
}

// WriteLUT writes the lookup table for p in the language selected by -lutlang.
func (o *Options) WriteLUT(w io.Writer, p crc.BigParams) error {
	sp, ok := p.Small()
	if !ok {
		return errors.Wrapf(gen.ErrWidth, "width %d", p.Width)
	}
	return gen.Write(w, o.LUTLang, o.LUTName, sp.Poly, sp.Width)
}

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
}

var (
	buildTag   = "dev"     // v#.#.#
	buildDate  = "unknown" // date -u '+%Y-%m-%d'
	commitHash = "unknown" // git rev-parse HEAD
)

func main() {
	var opts Options
	opts.RegisterFlags(flag.CommandLine)
	flag.Usage = Usage(flag.CommandLine)
	EnvOverride(flag.CommandLine)
	flag.Parse()

	if opts.Version {
		fmt.Println("Build Tag: ", buildTag)
		fmt.Println("Build Date:", buildDate)
		fmt.Println("Commit:    ", commitHash)
		os.Exit(0)
	}

	if opts.ConfigFile != "" {
		cfg, err := LoadConfig(opts.ConfigFile)
		if err != nil {
			logrus.Fatal(err)
		}

		unknown, err := cfg.Apply(flag.CommandLine)
		if err != nil {
			logrus.Fatal(err)
		}
		if len(unknown) > 0 {
			logrus.Warnf("Invalid items were specified in the configuration file: %s", strings.Join(unknown, ", "))
		}
	}

	if opts.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	p, err := opts.Params()
	if err != nil {
		flag.Usage()
		logrus.Fatal(err)
	}
	logrus.Debugf("Params: %s", p)

	if opts.LUT {
		if err := opts.WriteLUT(os.Stdout, p); err != nil {
			logrus.Fatal(err)
		}
		return
	}

	encoder, err := NewEncoder(opts.Format, os.Stdout)
	if err != nil {
		logrus.Fatal(err)
	}

	res, err := opts.Compute(p, os.Stdin)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := encoder.Encode(res); err != nil {
		logrus.Fatal("Error encoding result: ", err)
	}
}
