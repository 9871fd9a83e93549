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

// DecodeLatin1 maps each byte of s to the unit with the same value. It
// cannot fail.
func DecodeLatin1(a *text.Arena, s []byte) (*text.Value, error) {
	b, err := a.New(len(s))
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	for i, c := range s {
		dst[i] = uint16(c)
	}
	return b.Finish(), nil
}

// EncodeLatin1 encodes units below 256 as single bytes.
func EncodeLatin1(units []uint16, errors string) ([]byte, error) {
	return encodeTruncating(units, errors, "Latin-1", 256, "ordinal not in range(256)")
}

// DecodeASCII decodes s as 7 bit ASCII.
func DecodeASCII(a *text.Arena, s []byte, errors string) (*text.Value, error) {
	b, err := a.New(len(s))
	if err != nil {
		return nil, err
	}
	h := errpolicy.NewDecodeHandler("ASCII", errors)
	dst := b.Units()
	p := 0
	for i, c := range s {
		if c < 0x80 {
			dst[p] = uint16(c)
			p++
			continue
		}
		act, err := h.Handle("ordinal not in range(128)", i)
		if err != nil {
			b.Discard()
			return nil, err
		}
		if act == errpolicy.Substitute {
			dst[p] = errpolicy.DecodeSubstitute
			p++
		}
	}
	return finish(a, b, p)
}

// EncodeASCII encodes units below 128 as single bytes.
func EncodeASCII(units []uint16, errors string) ([]byte, error) {
	return encodeTruncating(units, errors, "ASCII", 128, "ordinal not in range(128)")
}

func encodeTruncating(units []uint16, errors, encoding string, limit uint16, reason string) ([]byte, error) {
	out := make([]byte, 0, len(units))
	h := errpolicy.NewEncodeHandler(encoding, errors)
	for i, ch := range units {
		if ch < limit {
			out = append(out, byte(ch))
			continue
		}
		act, err := h.Handle(reason, i)
		if err != nil {
			return nil, err
		}
		if act == errpolicy.Substitute {
			out = append(out, errpolicy.EncodeSubstitute)
		}
	}
	return out, nil
}
