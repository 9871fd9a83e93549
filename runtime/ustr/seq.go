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

package ustr

import (
	"math"

	"github.com/grumpyhq/ucs2/runtime/codec"
	"github.com/grumpyhq/ucs2/runtime/text"
)

// Slice returns v[start:end] with the bounds normalized by AdjustIndex. The
// whole range returns v itself.
func Slice(a *text.Arena, v *text.Value, start, end int) (*text.Value, error) {
	n := v.Len()
	start, end = AdjustIndex(start, end, n)
	if start == 0 && end == n {
		return v, nil
	}
	if start > end {
		start = end
	}
	return a.FromUnits(v.Units()[start:end])
}

// Concat returns v followed by w. If either is empty the other is returned.
func Concat(a *text.Arena, v, w *text.Value) (*text.Value, error) {
	if w.Len() == 0 {
		return v, nil
	}
	if v.Len() == 0 {
		return w, nil
	}
	b, err := a.New(v.Len() + w.Len())
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	copy(dst, v.Units())
	copy(dst[v.Len():], w.Units())
	return b.Finish(), nil
}

// Repeat returns v repeated n times. A count of zero or less gives the
// empty value.
func Repeat(a *text.Arena, v *text.Value, n int) (*text.Value, error) {
	if n <= 0 || v.Len() == 0 {
		return a.Empty(), nil
	}
	if n == 1 {
		return v, nil
	}
	if v.Len() > math.MaxInt/n {
		return nil, text.Raise(text.OverflowError, "repeated string is too long")
	}
	b, err := a.New(v.Len() * n)
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	for p := 0; p < len(dst); p += v.Len() {
		copy(dst[p:], v.Units())
	}
	return b.Finish(), nil
}

// Translate maps every unit of v through m. Units m does not contain are
// kept and units mapped to Undefined are deleted.
func Translate(a *text.Arena, v *text.Value, m codec.Mapping) (*text.Value, error) {
	return codec.TranslateCharmap(a, v, m, "ignore")
}

type stripSide int

const (
	stripSideLeft stripSide = iota
	stripSideRight
	stripSideBoth
)

// Strip removes leading and trailing whitespace.
func Strip(a *text.Arena, v *text.Value) (*text.Value, error) {
	return strip(a, v, IsSpaceUnit, stripSideBoth)
}

// LStrip removes leading whitespace.
func LStrip(a *text.Arena, v *text.Value) (*text.Value, error) {
	return strip(a, v, IsSpaceUnit, stripSideLeft)
}

// RStrip removes trailing whitespace.
func RStrip(a *text.Arena, v *text.Value) (*text.Value, error) {
	return strip(a, v, IsSpaceUnit, stripSideRight)
}

// StripChars removes units found in chars from the given ends of v. A nil
// chars strips whitespace.
func StripChars(a *text.Arena, v, chars *text.Value, left, right bool) (*text.Value, error) {
	side := stripSideBoth
	switch {
	case left && !right:
		side = stripSideLeft
	case right && !left:
		side = stripSideRight
	case !left && !right:
		return v, nil
	}
	if chars == nil {
		return strip(a, v, IsSpaceUnit, side)
	}
	set := chars.Units()
	return strip(a, v, func(u uint16) bool { return findUnit(set, u) >= 0 }, side)
}

func strip(a *text.Arena, v *text.Value, match func(uint16) bool, side stripSide) (*text.Value, error) {
	s := v.Units()
	i := 0
	if side != stripSideRight {
		for i < len(s) && match(s[i]) {
			i++
		}
	}
	j := len(s)
	if side != stripSideLeft {
		for j > i && match(s[j-1]) {
			j--
		}
	}
	return Slice(a, v, i, j)
}

// Replace returns a copy of v with occurrences of old replaced by repl, at
// most maxcount of them unless maxcount is negative. An empty old matches
// before every unit and at the end.
func Replace(a *text.Arena, v, old, repl *text.Value, maxcount int) (*text.Value, error) {
	if maxcount < 0 {
		maxcount = math.MaxInt
	}
	s, o, r := v.Units(), old.Units(), repl.Units()
	if len(o) == 1 && len(r) == 1 {
		return replaceUnit(a, v, o[0], r[0], maxcount)
	}
	n := Count(v, old, 0, len(s))
	if n > maxcount {
		n = maxcount
	}
	if n == 0 {
		return v, nil
	}
	b, err := a.New(len(s) + n*(len(r)-len(o)))
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	p, i := 0, 0
	if len(o) > 0 {
		for n > 0 {
			if matchAt(s, i, o) {
				p += copy(dst[p:], r)
				i += len(o)
				n--
			} else {
				dst[p] = s[i]
				p++
				i++
			}
		}
	} else {
		for n > 0 {
			p += copy(dst[p:], r)
			n--
			if n > 0 {
				dst[p] = s[i]
				p++
				i++
			}
		}
	}
	copy(dst[p:], s[i:])
	return b.Finish(), nil
}

func replaceUnit(a *text.Arena, v *text.Value, old, repl uint16, maxcount int) (*text.Value, error) {
	s := v.Units()
	first := findUnit(s, old)
	if first < 0 || maxcount == 0 {
		return v, nil
	}
	b, err := a.New(len(s))
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	copy(dst, s)
	for i := first; i < len(dst) && maxcount > 0; i++ {
		if dst[i] == old {
			dst[i] = repl
			maxcount--
		}
	}
	return b.Finish(), nil
}

// Coercer converts a non-text join item, such as a byte string, to text.
type Coercer func(item any) (*text.Value, error)

// Join concatenates items with sep between them. A nil sep means a single
// space. Items that are not text values are passed to coerce when they are
// byte strings; any other item is a TypeError. A single text item is
// returned as is.
func Join(a *text.Arena, sep *text.Value, items []any, coerce Coercer) (*text.Value, error) {
	if len(items) == 1 {
		if v, ok := items[0].(*text.Value); ok {
			return v, nil
		}
	}
	sepUnits := []uint16{' '}
	if sep != nil {
		sepUnits = sep.Units()
	}
	size := 100
	b, err := a.New(size)
	if err != nil {
		return nil, err
	}
	n := 0
	for i, item := range items {
		v, err := joinItem(i, item, coerce)
		if err != nil {
			b.Discard()
			return nil, err
		}
		need := n + v.Len()
		if i > 0 {
			need += len(sepUnits)
		}
		if need > size {
			for need > size {
				size *= 2
			}
			if err := b.Resize(size); err != nil {
				b.Discard()
				return nil, err
			}
		}
		dst := b.Units()
		if i > 0 {
			n += copy(dst[n:], sepUnits)
		}
		n += copy(dst[n:], v.Units())
	}
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

func joinItem(i int, item any, coerce Coercer) (*text.Value, error) {
	switch item := item.(type) {
	case *text.Value:
		return item, nil
	case []byte, string:
		if coerce != nil {
			return coerce(item)
		}
	}
	return nil, text.Raisef(text.TypeError, "sequence item %d: expected string or Unicode, %T found", i, item)
}
