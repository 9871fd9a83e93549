// Copyright 2016 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/grumpyhq/ucs2/runtime/text"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"
)

// Charset is a single byte character set usable with the charmap codec.
type Charset struct {
	// Decoding maps bytes to units.
	Decoding Mapping
	// Encoding maps units to bytes.
	Encoding Mapping
}

// Decode decodes s with the charset's decoding table.
func (c *Charset) Decode(a *text.Arena, s []byte, errors string) (*text.Value, error) {
	return DecodeCharmap(a, s, errors, c.Decoding)
}

// Encode encodes units with the charset's encoding table.
func (c *Charset) Encode(units []uint16, errors string) ([]byte, error) {
	return EncodeCharmap(units, errors, c.Encoding)
}

// StandardCharsets lists the single byte charsets available by name without
// any configuration.
var StandardCharsets = map[string]*charmap.Charmap{
	"cp437":      charmap.CodePage437,
	"cp850":      charmap.CodePage850,
	"cp1252":     charmap.Windows1252,
	"koi8-r":     charmap.KOI8R,
	"iso8859-15": charmap.ISO8859_15,
	"mac-roman":  charmap.Macintosh,
}

// CharsetFromTable builds a Charset from an x/text single byte table. Bytes
// the table leaves undefined map to Undefined, and so do units below 256
// that no byte decodes to, so that they are not passed through as Latin-1.
func CharsetFromTable(cm *charmap.Charmap) *Charset {
	dec := make(MapTable, 256)
	enc := make(MapTable, 256)
	for i := 0; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		if r == utf8.RuneError || r > 0xFFFF {
			dec[i] = UndefinedTarget
			continue
		}
		dec[i] = CodeTarget(int(r))
		if _, ok := enc[int(r)]; !ok {
			enc[int(r)] = CodeTarget(i)
		}
	}
	for u := 0; u < 256; u++ {
		if _, ok := enc[u]; !ok {
			enc[u] = UndefinedTarget
		}
	}
	return &Charset{Decoding: dec, Encoding: enc}
}

// mappingFile is the YAML layout of a charmap file. Encode may be omitted,
// in which case it is derived from Decode.
type mappingFile struct {
	Decode map[int]any `yaml:"decode"`
	Encode map[int]any `yaml:"encode"`
}

// LoadMappingYAML reads a charmap from YAML of the form
//
//	decode:
//	  0x80: 0x20ac   # byte to code point
//	  0x81: ~        # undefined
//	  0x82: "‚"      # byte to a one character string
//	encode:
//	  0x20ac: 0x80
func LoadMappingYAML(r io.Reader) (*Charset, error) {
	var f mappingFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, text.Raisef(text.ValueError, "invalid charmap: %v", err)
	}
	return CharsetFromValues(f.Decode, f.Encode)
}

// CharsetFromValues builds a Charset from decoded YAML values. A nil enc is
// derived by inverting dec.
func CharsetFromValues(dec, enc map[int]any) (*Charset, error) {
	d, err := TableFromValues(dec)
	if err != nil {
		return nil, err
	}
	var e MapTable
	if enc != nil {
		if e, err = TableFromValues(enc); err != nil {
			return nil, err
		}
	} else {
		e = invert(d)
	}
	return &Charset{Decoding: d, Encoding: e}, nil
}

// TableFromValues converts YAML scalars to Targets: integers map to codes,
// null to Undefined and strings to units.
func TableFromValues(values map[int]any) (MapTable, error) {
	t := make(MapTable, len(values))
	for k, v := range values {
		switch v := v.(type) {
		case nil:
			t[k] = UndefinedTarget
		case int:
			t[k] = CodeTarget(v)
		case string:
			t[k] = UnitsTarget(utf16.Encode([]rune(v))...)
		default:
			return nil, text.Raise(text.TypeError, "character mapping must return integer, None or unicode")
		}
	}
	return t, nil
}

// invert derives an encoding table from dec. When several bytes decode to
// the same unit the lowest byte wins.
func invert(dec MapTable) MapTable {
	enc := make(MapTable, len(dec))
	for k, t := range dec {
		u := -1
		switch {
		case t.Kind == Code:
			u = t.Code
		case t.Kind == Units && len(t.Units) == 1:
			u = int(t.Units[0])
		}
		if u < 0 {
			continue
		}
		if prev, ok := enc[u]; !ok || k < prev.Code {
			enc[u] = CodeTarget(k)
		}
	}
	return enc
}
