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
	"github.com/grumpyhq/ucs2/runtime/errpolicy"
	"github.com/grumpyhq/ucs2/runtime/text"
)

// DecodeRawUnicodeEscape decodes s, interpreting only \uXXXX escapes. A \u
// counts as an escape when it follows an odd number of backslashes, in
// which case the last backslash is consumed along with it. Every other byte
// maps to the unit with the same value.
func DecodeRawUnicodeEscape(a *text.Arena, s []byte, errors string) (*text.Value, error) {
	b, err := a.New(len(s))
	if err != nil {
		return nil, err
	}
	d := &escapeDecoder{src: s, dst: b.Units(), h: errpolicy.NewDecodeHandler("Raw-Unicode-Escape", errors)}
	for d.i < len(s) {
		if s[d.i] != '\\' {
			d.emit(uint16(s[d.i]))
			d.i++
			continue
		}
		start := d.i
		// Copy a run of backslashes, holding back the last one of an odd
		// run in case it starts an escape.
		for d.i < len(s) && s[d.i] == '\\' {
			d.i++
		}
		run := d.i - start
		for k := 0; k < run-run%2; k++ {
			d.emit('\\')
		}
		if run%2 == 0 {
			continue
		}
		if d.i >= len(s) || s[d.i] != 'u' {
			d.emit('\\')
			continue
		}
		escape := d.i - 1
		d.i++
		ch, ok := d.hex(4)
		if !ok {
			if err := d.fail(`truncated \uXXXX`, escape); err != nil {
				b.Discard()
				return nil, err
			}
			continue
		}
		d.emit(uint16(ch))
	}
	return finish(a, b, d.p)
}

// EncodeRawUnicodeEscape writes units from U+0100 up as \uXXXX and every
// other unit as a single byte. Backslashes are not escaped, so text that
// already contains a literal \uXXXX does not round trip.
func EncodeRawUnicodeEscape(units []uint16) []byte {
	out := make([]byte, 0, len(units))
	for _, ch := range units {
		if ch >= 0x100 {
			out = appendUnitEscape(out, ch)
			continue
		}
		out = append(out, byte(ch))
	}
	return out
}
