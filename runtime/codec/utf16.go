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
	"encoding/binary"

	"github.com/grumpyhq/ucs2/runtime/errpolicy"
	"github.com/grumpyhq/ucs2/runtime/text"
)

// ByteOrder selects the byte order of UTF-16 data.
type ByteOrder int

const (
	// LittleEndian is UTF-16-LE.
	LittleEndian ByteOrder = -1
	// NativeOrder uses the host byte order. Decoding honors byte order
	// marks; encoding writes one.
	NativeOrder ByteOrder = 0
	// BigEndian is UTF-16-BE.
	BigEndian ByteOrder = 1
)

const (
	byteOrderMark        = 0xFEFF
	swappedByteOrderMark = 0xFFFE
)

var hostOrder = func() ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// resolve returns the concrete byte order o stands for.
func (o ByteOrder) resolve() ByteOrder {
	if o == NativeOrder {
		return hostOrder
	}
	return o
}

func (o ByteOrder) swapped() ByteOrder {
	if o.resolve() == LittleEndian {
		return BigEndian
	}
	return LittleEndian
}

type unitOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

func (o ByteOrder) binary() unitOrder {
	if o.resolve() == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	}
	return "native"
}

// DecodeUTF16 decodes s as UTF-16 starting in byte order order. A byte order
// mark anywhere in the input switches the order for the rest of it and is
// not emitted. The order in effect at the end of the input is returned.
//
// Surrogate pairs are rejected even when well formed: the storage model only
// keeps values up to U+FFFF that arrive through this codec.
func DecodeUTF16(a *text.Arena, s []byte, errors string, order ByteOrder) (*text.Value, ByteOrder, error) {
	b, err := a.New(len(s)/2 + len(s)%2)
	if err != nil {
		return nil, order, err
	}
	h := errpolicy.NewDecodeHandler("UTF-16", errors)
	dst := b.Units()
	p := 0
	// A dangling odd byte is resolved first but substituted after the
	// aligned data it follows.
	tail := errpolicy.Skip
	if len(s)%2 != 0 {
		if tail, err = h.Handle("truncated data", len(s)-1); err != nil {
			b.Discard()
			return nil, order, err
		}
		s = s[:len(s)-1]
	}
	bo := order
	for i := 0; i < len(s); {
		pos := i
		ch := bo.binary().Uint16(s[i:])
		i += 2
		switch ch {
		case byteOrderMark:
			bo = bo.resolve()
			continue
		case swappedByteOrderMark:
			bo = bo.swapped()
			continue
		}
		if ch < surrHigh || ch >= surrEnd {
			dst[p] = ch
			p++
			continue
		}
		var reason string
		switch {
		case ch >= surrLow:
			reason = "illegal encoding"
		case i >= len(s):
			reason = "unexpected end of data"
		default:
			if next := bo.binary().Uint16(s[i:]); next >= surrLow && next < surrEnd {
				i += 2
				reason = "code pairs are not supported"
			} else {
				reason = "illegal encoding"
			}
		}
		act, err := h.Handle(reason, pos)
		if err != nil {
			b.Discard()
			return nil, bo, err
		}
		if act == errpolicy.Substitute {
			dst[p] = errpolicy.DecodeSubstitute
			p++
		}
	}
	if tail == errpolicy.Substitute {
		dst[p] = errpolicy.DecodeSubstitute
		p++
	}
	v, err := finish(a, b, p)
	return v, bo, err
}

// EncodeUTF16 encodes units as UTF-16 in the given byte order. NativeOrder
// output starts with a byte order mark.
func EncodeUTF16(units []uint16, order ByteOrder) []byte {
	n := len(units)
	if order == NativeOrder {
		n++
	}
	out := make([]byte, 0, 2*n)
	enc := order.binary()
	if order == NativeOrder {
		out = enc.AppendUint16(out, byteOrderMark)
	}
	for _, u := range units {
		out = enc.AppendUint16(out, u)
	}
	return out
}
