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

package text

import (
	"sync/atomic"
	"unicode/utf16"
	"unicode/utf8"
)

// hashUncomputed marks a Value whose hash has not been computed yet. No
// computed hash ever equals it.
const hashUncomputed = -1

// Value is an immutable sequence of 16-bit code units. The backing buffer
// always holds one extra zero unit past the end. Values are produced by a
// Builder and may be shared freely once finished.
type Value struct {
	// units holds Len()+1 units, the last of which is always 0.
	units  []uint16
	hash   atomic.Int64
	defenc atomic.Pointer[encodedCache]
	// next links retired values on the Arena's free list.
	next *Value
}

type encodedCache struct {
	encoding string
	data     []byte
}

func newValue(units []uint16) *Value {
	v := &Value{units: units}
	v.hash.Store(hashUncomputed)
	return v
}

// Len returns the number of code units in v.
func (v *Value) Len() int {
	return len(v.units) - 1
}

// Units returns the code units of v without the trailing terminator. The
// returned slice aliases v's storage and must not be modified.
func (v *Value) Units() []uint16 {
	return v.units[:len(v.units)-1]
}

// At returns the code unit at index i. Negative indices count from the end.
func (v *Value) At(i int) (uint16, error) {
	n := v.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, Raise(IndexError, "string index out of range")
	}
	return v.units[i], nil
}

// AsWideChars copies the units of v into dst and returns the number of units
// copied. The copy is silently truncated when dst is shorter than v.
func (v *Value) AsWideChars(dst []uint16) int {
	return copy(dst, v.Units())
}

// Hash returns the hash of v, computing it on first use.
func (v *Value) Hash() int {
	if h := v.hash.Load(); h != hashUncomputed {
		return int(h)
	}
	h := hashUnits(v.units)
	v.hash.Store(int64(h))
	return h
}

// hashUnits hashes a terminated unit buffer. The seed is taken from the first
// unit, which for an empty buffer is the terminator itself.
func hashUnits(units []uint16) int {
	n := len(units) - 1
	h := int(units[0]) << 7
	for i := 0; i < n; i++ {
		h = (1000003 * h) ^ int(units[i])
	}
	h ^= n
	if h == hashUncomputed {
		h = -2
	}
	return h
}

// DefaultEncoded returns the bytes of v in the given encoding, calling encode
// only when no bytes for that encoding have been cached on v yet.
func (v *Value) DefaultEncoded(encoding string, encode func(*Value) ([]byte, error)) ([]byte, error) {
	if c := v.defenc.Load(); c != nil && c.encoding == encoding {
		return c.data, nil
	}
	data, err := encode(v)
	if err != nil {
		return nil, err
	}
	v.defenc.Store(&encodedCache{encoding: encoding, data: data})
	return data, nil
}

// String renders v as a Go string. Surrogate pairs are recombined and lone
// surrogates become U+FFFD.
func (v *Value) String() string {
	units := v.Units()
	buf := make([]byte, 0, len(units))
	for i := 0; i < len(units); i++ {
		r := rune(units[i])
		if utf16.IsSurrogate(r) && i+1 < len(units) {
			if pair := utf16.DecodeRune(r, rune(units[i+1])); pair != utf8.RuneError {
				r = pair
				i++
			}
		}
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf)
}

func (v *Value) clearCaches() {
	v.hash.Store(hashUncomputed)
	v.defenc.Store(nil)
}
