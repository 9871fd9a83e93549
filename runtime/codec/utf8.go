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

const (
	surrHigh = 0xD800
	surrLow  = 0xDC00
	surrEnd  = 0xE000
	surrSelf = 0x10000
	maxRune  = 0x10FFFF
)

// utf8SequenceLength maps a lead byte to the length of the sequence it
// starts, following RFC 2279. Zero marks bytes that cannot start a sequence.
var utf8SequenceLength = func() (t [256]uint8) {
	for c := 0; c < 256; c++ {
		switch {
		case c < 0x80:
			t[c] = 1
		case c < 0xC0:
			t[c] = 0
		case c < 0xE0:
			t[c] = 2
		case c < 0xF0:
			t[c] = 3
		case c < 0xF8:
			t[c] = 4
		case c < 0xFC:
			t[c] = 5
		case c < 0xFE:
			t[c] = 6
		}
	}
	return t
}()

func isContinuation(c byte) bool {
	return c&0xC0 == 0x80
}

// DecodeUTF8 decodes s as UTF-8. Code points above U+FFFF are stored as
// surrogate pairs.
func DecodeUTF8(a *text.Arena, s []byte, errors string) (*text.Value, error) {
	b, err := a.New(len(s))
	if err != nil {
		return nil, err
	}
	h := errpolicy.NewDecodeHandler("UTF-8", errors)
	dst := b.Units()
	n, p := len(s), 0
	for i := 0; i < n; {
		c := s[i]
		if c < 0x80 {
			dst[p] = uint16(c)
			p++
			i++
			continue
		}
		size := int(utf8SequenceLength[c])
		reason := ""
		if i+size > n {
			reason = "unexpected end of data"
		} else {
			switch size {
			case 0:
				reason = "unexpected code byte"
			case 2:
				if !isContinuation(s[i+1]) {
					reason = "invalid data"
					break
				}
				ch := rune(c&0x1F)<<6 | rune(s[i+1]&0x3F)
				if ch < 0x80 {
					reason = "illegal encoding"
					break
				}
				dst[p] = uint16(ch)
				p++
			case 3:
				if !isContinuation(s[i+1]) || !isContinuation(s[i+2]) {
					reason = "invalid data"
					break
				}
				ch := rune(c&0x0F)<<12 | rune(s[i+1]&0x3F)<<6 | rune(s[i+2]&0x3F)
				if ch < 0x800 || (ch >= surrHigh && ch < surrEnd) {
					reason = "illegal encoding"
					break
				}
				dst[p] = uint16(ch)
				p++
			case 4:
				if !isContinuation(s[i+1]) || !isContinuation(s[i+2]) || !isContinuation(s[i+3]) {
					reason = "invalid data"
					break
				}
				ch := rune(c&0x07)<<18 | rune(s[i+1]&0x3F)<<12 | rune(s[i+2]&0x3F)<<6 | rune(s[i+3]&0x3F)
				if ch < surrSelf || ch > maxRune {
					reason = "illegal encoding"
					break
				}
				p += putSurrogates(dst[p:], ch)
			default:
				// 5 and 6 byte forms only exist for UCS-4 builds.
				reason = "unsupported Unicode code range"
			}
		}
		if reason == "" {
			i += size
			continue
		}
		act, err := h.Handle(reason, i)
		if err != nil {
			b.Discard()
			return nil, err
		}
		i++
		if act == errpolicy.Substitute {
			dst[p] = errpolicy.DecodeSubstitute
			p++
		}
	}
	return finish(a, b, p)
}

// putSurrogates writes the surrogate pair for ch, which must be above
// U+FFFF, and returns the number of units written.
func putSurrogates(dst []uint16, ch rune) int {
	ch -= surrSelf
	dst[0] = uint16(surrHigh + ch>>10)
	dst[1] = uint16(surrLow + ch&0x3FF)
	return 2
}

// EncodeUTF8 encodes units as UTF-8. A high surrogate directly followed by a
// low surrogate is combined into one 4 byte sequence; any other unit, lone
// surrogates included, takes 1 to 3 bytes. Encoding never fails.
func EncodeUTF8(units []uint16) []byte {
	n := len(units)
	out := make([]byte, 3*n)
	w := 0
	for i := 0; i < n; i++ {
		ch := rune(units[i])
		switch {
		case ch < 0x80:
			out[w] = byte(ch)
			w++
		case ch < 0x800:
			out[w] = 0xC0 | byte(ch>>6)
			out[w+1] = 0x80 | byte(ch&0x3F)
			w += 2
		case ch >= surrHigh && ch < surrLow && i+1 < n && units[i+1] >= surrLow && units[i+1] < surrEnd:
			if w > len(out)-4 {
				out = append(out, make([]byte, 40)...)
			}
			ch = (ch-surrHigh)<<10 | (rune(units[i+1]) - surrLow) + surrSelf
			out[w] = 0xF0 | byte(ch>>18)
			out[w+1] = 0x80 | byte(ch>>12&0x3F)
			out[w+2] = 0x80 | byte(ch>>6&0x3F)
			out[w+3] = 0x80 | byte(ch&0x3F)
			w += 4
			i++
		default:
			out[w] = 0xE0 | byte(ch>>12)
			out[w+1] = 0x80 | byte(ch>>6&0x3F)
			out[w+2] = 0x80 | byte(ch&0x3F)
			w += 3
		}
	}
	return out[:w]
}

// finish shrinks b to n units and publishes it. An empty result is the
// Arena's shared empty value.
func finish(a *text.Arena, b *text.Builder, n int) (*text.Value, error) {
	if n == 0 {
		b.Discard()
		return a.Empty(), nil
	}
	if err := b.Resize(n); err != nil {
		b.Discard()
		return nil, err
	}
	return b.Finish(), nil
}
