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
	"bytes"

	"github.com/grumpyhq/ucs2/runtime/errpolicy"
	"github.com/grumpyhq/ucs2/runtime/text"
)

const hexTable = "0123456789abcdef"

var simpleEscapes = map[byte]uint16{
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'b':  '\b',
	'f':  '\f',
	't':  '\t',
	'n':  '\n',
	'r':  '\r',
	'v':  '\v',
	'a':  '\a',
}

// escapeDecoder holds the cursor state shared by the escape codecs.
type escapeDecoder struct {
	src []byte
	dst []uint16
	i   int
	p   int
	h   errpolicy.Handler
}

func (d *escapeDecoder) emit(u uint16) {
	d.dst[d.p] = u
	d.p++
}

// fail resolves an error found at pos. The cursor is left where the caller
// put it.
func (d *escapeDecoder) fail(reason string, pos int) error {
	act, err := d.h.Handle(reason, pos)
	if err != nil {
		return err
	}
	if act == errpolicy.Substitute {
		d.emit(errpolicy.DecodeSubstitute)
	}
	return nil
}

// emitRune stores ch, splitting it into a surrogate pair above U+FFFF.
func (d *escapeDecoder) emitRune(ch rune, pos int) error {
	switch {
	case ch <= 0xFFFF:
		d.emit(uint16(ch))
	case ch <= maxRune:
		d.p += putSurrogates(d.dst[d.p:], ch)
	default:
		return d.fail("Illegal Unicode character", pos)
	}
	return nil
}

// hex reads exactly digits hex digits at the cursor. On success the cursor
// moves past them; otherwise it stays put and ok is false.
func (d *escapeDecoder) hex(digits int) (ch rune, ok bool) {
	if d.i+digits > len(d.src) {
		return 0, false
	}
	for _, c := range d.src[d.i : d.i+digits] {
		v := unhex(c)
		if v < 0 {
			return 0, false
		}
		ch = ch<<4 | rune(v)
	}
	d.i += digits
	return ch, true
}

func unhex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// DecodeUnicodeEscape decodes Python string literal escapes in s. Escapes it
// does not know are kept literally. names resolves \N{...} escapes and may
// be nil to use DefaultNames.
func DecodeUnicodeEscape(a *text.Arena, s []byte, errors string, names NameLookup) (*text.Value, error) {
	if names == nil {
		names = DefaultNames
	}
	b, err := a.New(len(s))
	if err != nil {
		return nil, err
	}
	d := &escapeDecoder{src: s, dst: b.Units(), h: errpolicy.NewDecodeHandler("Unicode-Escape", errors)}
	for d.i < len(s) {
		if err := d.step(names); err != nil {
			b.Discard()
			return nil, err
		}
	}
	return finish(a, b, d.p)
}

func (d *escapeDecoder) step(names NameLookup) error {
	s := d.src
	if s[d.i] != '\\' {
		d.emit(uint16(s[d.i]))
		d.i++
		return nil
	}
	start := d.i
	d.i++
	if d.i >= len(s) {
		d.emit('\\')
		return nil
	}
	c := s[d.i]
	d.i++
	if u, ok := simpleEscapes[c]; ok {
		d.emit(u)
		return nil
	}
	switch c {
	case '\n':
		// Line continuation.
	case '0', '1', '2', '3', '4', '5', '6', '7':
		x := uint16(c - '0')
		for n := 1; n < 3 && d.i < len(s) && '0' <= s[d.i] && s[d.i] <= '7'; n++ {
			x = x<<3 | uint16(s[d.i]-'0')
			d.i++
		}
		d.emit(x)
	case 'x':
		return d.hexEscape(2, `truncated \xXX`, start)
	case 'u':
		return d.hexEscape(4, `truncated \uXXXX`, start)
	case 'U':
		return d.hexEscape(8, `truncated \UXXXXXXXX`, start)
	case 'N':
		return d.nameEscape(names, start)
	default:
		d.emit('\\')
		d.emit(uint16(c))
	}
	return nil
}

func (d *escapeDecoder) hexEscape(digits int, reason string, start int) error {
	ch, ok := d.hex(digits)
	if !ok {
		return d.fail(reason, start)
	}
	return d.emitRune(ch, start)
}

func (d *escapeDecoder) nameEscape(names NameLookup, start int) error {
	s := d.src
	if d.i >= len(s) || s[d.i] != '{' {
		return d.failName(`malformed \N character escape`, start)
	}
	end := bytes.IndexByte(s[d.i+1:], '}')
	if end < 0 {
		return d.failName(`unterminated \N character escape`, start)
	}
	name := string(s[d.i+1 : d.i+1+end])
	if name == "" {
		return d.failName(`malformed \N character escape`, start)
	}
	ch, ok := names.LookupName(name)
	if !ok {
		return d.failName("unknown Unicode character name", start)
	}
	d.i += end + 2
	return d.emitRune(ch, start)
}

// failName resolves a bad \N escape. Unless the policy is strict the \N
// prefix is kept literally and decoding resumes right after it.
func (d *escapeDecoder) failName(reason string, start int) error {
	if _, err := d.h.Handle(reason, start); err != nil {
		return err
	}
	d.emit('\\')
	d.emit('N')
	d.i = start + 2
	return nil
}

// EncodeUnicodeEscape encodes units as Python string literal escapes. Units
// from U+0100 up become \uXXXX and backslashes are doubled; all other units
// are written as single bytes.
func EncodeUnicodeEscape(units []uint16) []byte {
	return escapeUnits(units, 0)
}

// Repr returns the u'...' representation of units. The quote is ' unless
// the text contains ' and no ", in which case " is used.
func Repr(units []uint16) []byte {
	quote := byte('\'')
	if containsUnit(units, '\'') && !containsUnit(units, '"') {
		quote = '"'
	}
	return escapeUnits(units, quote)
}

func containsUnit(units []uint16, u uint16) bool {
	for _, c := range units {
		if c == u {
			return true
		}
	}
	return false
}

// escapeUnits implements both EncodeUnicodeEscape (quote == 0) and Repr.
// In quoting mode control characters and bytes above 0x7f are written as
// three digit octal escapes.
func escapeUnits(units []uint16, quote byte) []byte {
	out := make([]byte, 0, len(units)+3)
	if quote != 0 {
		out = append(out, 'u', quote)
	}
	for _, ch := range units {
		switch {
		case ch == '\\' || (quote != 0 && ch == uint16(quote)):
			out = append(out, '\\', byte(ch))
		case ch >= 0x100:
			out = appendUnitEscape(out, ch)
		case quote != 0 && (ch < ' ' || ch >= 0x80):
			out = append(out, '\\', hexTable[ch>>6&7], hexTable[ch>>3&7], hexTable[ch&7])
		default:
			out = append(out, byte(ch))
		}
	}
	if quote != 0 {
		out = append(out, quote)
	}
	return out
}

func appendUnitEscape(out []byte, ch uint16) []byte {
	return append(out, '\\', 'u',
		hexTable[ch>>12], hexTable[ch>>8&0x0F],
		hexTable[ch>>4&0x0F], hexTable[ch&0x0F])
}
