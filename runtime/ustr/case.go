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
	"unicode"

	"github.com/grumpyhq/ucs2/runtime/text"
)

// digitOnly holds characters with a digit value that are not decimal
// digits, such as superscripts and circled numbers.
var digitOnly = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x00B2, Hi: 0x00B3, Stride: 1},
		{Lo: 0x00B9, Hi: 0x00B9, Stride: 1},
		{Lo: 0x2070, Hi: 0x2070, Stride: 1},
		{Lo: 0x2074, Hi: 0x2079, Stride: 1},
		{Lo: 0x2080, Hi: 0x2089, Stride: 1},
		{Lo: 0x2460, Hi: 0x2468, Stride: 1},
		{Lo: 0x2474, Hi: 0x247C, Stride: 1},
		{Lo: 0x2488, Hi: 0x2490, Stride: 1},
		{Lo: 0x24EA, Hi: 0x24EA, Stride: 1},
		{Lo: 0x24F5, Hi: 0x24FD, Stride: 1},
		{Lo: 0x24FF, Hi: 0x24FF, Stride: 1},
		{Lo: 0x2776, Hi: 0x277E, Stride: 1},
		{Lo: 0x2780, Hi: 0x2788, Stride: 1},
		{Lo: 0x278A, Hi: 0x2792, Stride: 1},
	},
}

// IsSpaceUnit reports whether u is whitespace. The ASCII information
// separators 0x1C to 0x1F count as whitespace.
func IsSpaceUnit(u uint16) bool {
	return unicode.IsSpace(rune(u)) || (u >= 0x1C && u <= 0x1F)
}

func isDecimalUnit(u uint16) bool { return unicode.IsDigit(rune(u)) }

func isDigitUnit(u uint16) bool {
	return unicode.IsDigit(rune(u)) || unicode.Is(digitOnly, rune(u))
}

func isNumericUnit(u uint16) bool { return unicode.IsNumber(rune(u)) }

func isAlphaUnit(u uint16) bool { return unicode.IsLetter(rune(u)) }

func isAlnumUnit(u uint16) bool {
	return isAlphaUnit(u) || isDecimalUnit(u) || isDigitUnit(u) || isNumericUnit(u)
}

func isUpperUnit(u uint16) bool { return unicode.IsUpper(rune(u)) }
func isLowerUnit(u uint16) bool { return unicode.IsLower(rune(u)) }
func isTitleUnit(u uint16) bool { return unicode.IsTitle(rune(u)) }

func mapUnit(u uint16, fn func(rune) rune) uint16 {
	r := fn(rune(u))
	if r > 0xFFFF {
		return u
	}
	return uint16(r)
}

func toUpper(u uint16) uint16 { return mapUnit(u, unicode.ToUpper) }
func toLower(u uint16) uint16 { return mapUnit(u, unicode.ToLower) }
func toTitle(u uint16) uint16 { return mapUnit(u, unicode.ToTitle) }

// fixup applies fn to a copy of v's units. v is returned unchanged when fn
// reports that nothing changed.
func fixup(a *text.Arena, v *text.Value, fn func(s []uint16) bool) (*text.Value, error) {
	b, err := a.New(v.Len())
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	copy(dst, v.Units())
	if !fn(dst) {
		b.Discard()
		return v, nil
	}
	return b.Finish(), nil
}

func mapAll(fn func(uint16) uint16) func(s []uint16) bool {
	return func(s []uint16) bool {
		changed := false
		for i, u := range s {
			if c := fn(u); c != u {
				s[i] = c
				changed = true
			}
		}
		return changed
	}
}

// Upper returns v with all units mapped to upper case.
func Upper(a *text.Arena, v *text.Value) (*text.Value, error) {
	return fixup(a, v, mapAll(toUpper))
}

// Lower returns v with all units mapped to lower case.
func Lower(a *text.Arena, v *text.Value) (*text.Value, error) {
	return fixup(a, v, mapAll(toLower))
}

// SwapCase returns v with upper case units made lower case and vice versa.
func SwapCase(a *text.Arena, v *text.Value) (*text.Value, error) {
	return fixup(a, v, mapAll(func(u uint16) uint16 {
		switch {
		case isLowerUnit(u):
			return toUpper(u)
		case isUpperUnit(u):
			return toLower(u)
		}
		return u
	}))
}

// Capitalize returns v with the first unit upper cased and the rest lower
// cased.
func Capitalize(a *text.Arena, v *text.Value) (*text.Value, error) {
	return fixup(a, v, func(s []uint16) bool {
		if len(s) == 0 {
			return false
		}
		changed := false
		if c := toUpper(s[0]); c != s[0] {
			s[0] = c
			changed = true
		}
		if mapAll(toLower)(s[1:]) {
			changed = true
		}
		return changed
	})
}

// Title returns v with the first cased unit of every word title cased and
// the remaining cased units lower cased.
func Title(a *text.Arena, v *text.Value) (*text.Value, error) {
	return fixup(a, v, func(s []uint16) bool {
		changed := false
		previousIsCased := false
		for i, u := range s {
			c := toTitle(u)
			if previousIsCased {
				c = toLower(u)
			}
			if c != u {
				s[i] = c
				changed = true
			}
			previousIsCased = isLowerUnit(u) || isUpperUnit(u) || isTitleUnit(u)
		}
		return changed
	})
}

func all(v *text.Value, pred func(uint16) bool) bool {
	s := v.Units()
	if len(s) == 0 {
		return false
	}
	for _, u := range s {
		if !pred(u) {
			return false
		}
	}
	return true
}

// IsSpace reports whether v is non-empty and all whitespace.
func IsSpace(v *text.Value) bool { return all(v, IsSpaceUnit) }

// IsAlpha reports whether v is non-empty and all letters.
func IsAlpha(v *text.Value) bool { return all(v, isAlphaUnit) }

// IsAlnum reports whether v is non-empty and all letters or numbers.
func IsAlnum(v *text.Value) bool { return all(v, isAlnumUnit) }

// IsDecimal reports whether v is non-empty and all decimal digits.
func IsDecimal(v *text.Value) bool { return all(v, isDecimalUnit) }

// IsDigit reports whether v is non-empty and all digits, superscripts and
// similar digit forms included.
func IsDigit(v *text.Value) bool { return all(v, isDigitUnit) }

// IsNumeric reports whether v is non-empty and all numeric characters.
func IsNumeric(v *text.Value) bool { return all(v, isNumericUnit) }

// IsLower reports whether v has at least one cased unit and all cased units
// are lower case.
func IsLower(v *text.Value) bool {
	cased := false
	for _, u := range v.Units() {
		if isUpperUnit(u) || isTitleUnit(u) {
			return false
		}
		if isLowerUnit(u) {
			cased = true
		}
	}
	return cased
}

// IsUpper reports whether v has at least one cased unit and all cased units
// are upper case.
func IsUpper(v *text.Value) bool {
	cased := false
	for _, u := range v.Units() {
		if isLowerUnit(u) || isTitleUnit(u) {
			return false
		}
		if isUpperUnit(u) {
			cased = true
		}
	}
	return cased
}

// IsTitle reports whether v is title cased: upper or title case units only
// follow uncased units and lower case units only follow cased ones.
func IsTitle(v *text.Value) bool {
	cased, previousIsCased := false, false
	for _, u := range v.Units() {
		switch {
		case isUpperUnit(u) || isTitleUnit(u):
			if previousIsCased {
				return false
			}
			previousIsCased, cased = true, true
		case isLowerUnit(u):
			if !previousIsCased {
				return false
			}
			previousIsCased, cased = true, true
		default:
			previousIsCased = false
		}
	}
	return cased
}
