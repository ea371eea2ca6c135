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
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config maps flag names to default values, for example:
//
//	poly: 0x04C11DB7
//	width: 32
//	xorin: 0xFFFFFFFF
//	xorout: 0xFFFFFFFF
//	reflectin: true
//	reflectout: true
type Config map[string]interface{}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	return cfg, nil
}

// Apply sets each flag named in the config that was not already set on the
// command line or by environment variable. Keys that don't name a flag are
// returned.
func (cfg Config) Apply(fs *flag.FlagSet) (unknown []string, err error) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	keys := make([]string, 0, len(cfg))
	for key := range cfg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if fs.Lookup(key) == nil {
			unknown = append(unknown, key)
			continue
		}
		if set[key] {
			logrus.Debugf("Config item %q ignored, flag already set", key)
			continue
		}

		value := fmt.Sprint(cfg[key])
		if err := fs.Set(key, value); err != nil {
			return unknown, errors.Wrapf(err, "config item %s=%q", key, value)
		}
		logrus.Debugf("Config item %q sets flag with %q", key, value)
	}

	return unknown, nil
}
