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
	"github.com/grumpyhq/ucs2/runtime/text"
)

func pad(a *text.Arena, v *text.Value, left, right int, fill uint16) (*text.Value, error) {
	if left < 0 {
		left = 0
	}
	if right < 0 {
		right = 0
	}
	if left == 0 && right == 0 {
		return v, nil
	}
	b, err := a.New(left + v.Len() + right)
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	for i := 0; i < left; i++ {
		dst[i] = fill
	}
	copy(dst[left:], v.Units())
	for i := left + v.Len(); i < len(dst); i++ {
		dst[i] = fill
	}
	return b.Finish(), nil
}

// Center pads v on both sides to width units. When the padding is odd the
// extra unit goes left only if both the padding and width are odd.
func Center(a *text.Arena, v *text.Value, width int, fill uint16) (*text.Value, error) {
	if v.Len() >= width {
		return v, nil
	}
	marg := width - v.Len()
	left := marg/2 + (marg & width & 1)
	return pad(a, v, left, marg-left, fill)
}

// LJust pads v on the right to width units.
func LJust(a *text.Arena, v *text.Value, width int, fill uint16) (*text.Value, error) {
	if v.Len() >= width {
		return v, nil
	}
	return pad(a, v, 0, width-v.Len(), fill)
}

// RJust pads v on the left to width units.
func RJust(a *text.Arena, v *text.Value, width int, fill uint16) (*text.Value, error) {
	if v.Len() >= width {
		return v, nil
	}
	return pad(a, v, width-v.Len(), 0, fill)
}

// ZFill pads v on the left with zeros to width units. A leading sign stays
// in front of the zeros.
func ZFill(a *text.Arena, v *text.Value, width int) (*text.Value, error) {
	if v.Len() >= width {
		return v, nil
	}
	b, err := a.New(width)
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	fill := width - v.Len()
	for i := 0; i < fill; i++ {
		dst[i] = '0'
	}
	copy(dst[fill:], v.Units())
	if v.Len() > 0 {
		if c := dst[fill]; c == '+' || c == '-' {
			dst[0], dst[fill] = c, '0'
		}
	}
	return b.Finish(), nil
}

// ExpandTabs replaces each tab with spaces up to the next multiple of
// tabsize columns. Columns restart after \n and \r. A tabsize of zero or
// less removes tabs.
func ExpandTabs(a *text.Arena, v *text.Value, tabsize int) (*text.Value, error) {
	s := v.Units()
	if findUnit(s, '\t') < 0 {
		return v, nil
	}
	size, col := 0, 0
	for _, u := range s {
		switch {
		case u == '\t':
			if tabsize > 0 {
				n := tabsize - col%tabsize
				col += n
				size += n
			}
		case u == '\n' || u == '\r':
			size++
			col = 0
		default:
			size++
			col++
		}
	}
	b, err := a.New(size)
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	p, col := 0, 0
	for _, u := range s {
		if u == '\t' {
			if tabsize > 0 {
				for n := tabsize - col%tabsize; n > 0; n-- {
					dst[p] = ' '
					p++
					col++
				}
			}
			continue
		}
		dst[p] = u
		p++
		col++
		if u == '\n' || u == '\r' {
			col = 0
		}
	}
	return b.Finish(), nil
}
