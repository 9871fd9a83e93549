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

	"github.com/grumpyhq/ucs2/runtime/text"
)

// Split breaks v into parts around sep. A nil sep splits on runs of
// whitespace and drops empty parts. At most maxsplit splits are made when
// maxsplit is not negative; the remainder forms the last part.
func Split(a *text.Arena, v, sep *text.Value, maxsplit int) ([]*text.Value, error) {
	if maxsplit < 0 {
		maxsplit = math.MaxInt
	}
	if sep == nil {
		return splitWhitespace(a, v, maxsplit)
	}
	switch sep.Len() {
	case 0:
		return nil, text.Raise(text.ValueError, "empty separator")
	case 1:
		return splitUnit(a, v, sep.Units()[0], maxsplit)
	}
	return splitSubstring(a, v, sep.Units(), maxsplit)
}

type splitter struct {
	a     *text.Arena
	v     *text.Value
	parts []*text.Value
}

func (sp *splitter) add(start, end int) error {
	part, err := Slice(sp.a, sp.v, start, end)
	if err != nil {
		return err
	}
	sp.parts = append(sp.parts, part)
	return nil
}

func splitWhitespace(a *text.Arena, v *text.Value, maxsplit int) ([]*text.Value, error) {
	s := v.Units()
	n := len(s)
	sp := &splitter{a: a, v: v}
	i, j := 0, 0
	for i < n {
		for i < n && IsSpaceUnit(s[i]) {
			i++
		}
		j = i
		for i < n && !IsSpaceUnit(s[i]) {
			i++
		}
		if j < i {
			if maxsplit <= 0 {
				break
			}
			maxsplit--
			if err := sp.add(j, i); err != nil {
				return nil, err
			}
			for i < n && IsSpaceUnit(s[i]) {
				i++
			}
			j = i
		}
	}
	if j < n {
		if err := sp.add(j, n); err != nil {
			return nil, err
		}
	}
	return sp.parts, nil
}

func splitUnit(a *text.Arena, v *text.Value, u uint16, maxsplit int) ([]*text.Value, error) {
	s := v.Units()
	sp := &splitter{a: a, v: v}
	j := 0
	for i := 0; i < len(s) && maxsplit > 0; i++ {
		if s[i] == u {
			maxsplit--
			if err := sp.add(j, i); err != nil {
				return nil, err
			}
			j = i + 1
		}
	}
	if err := sp.add(j, len(s)); err != nil {
		return nil, err
	}
	return sp.parts, nil
}

func splitSubstring(a *text.Arena, v *text.Value, sep []uint16, maxsplit int) ([]*text.Value, error) {
	s := v.Units()
	sp := &splitter{a: a, v: v}
	j := 0
	for i := 0; i <= len(s)-len(sep) && maxsplit > 0; {
		if !matchAt(s, i, sep) {
			i++
			continue
		}
		maxsplit--
		if err := sp.add(j, i); err != nil {
			return nil, err
		}
		i += len(sep)
		j = i
	}
	if err := sp.add(j, len(s)); err != nil {
		return nil, err
	}
	return sp.parts, nil
}

// IsLineBreak reports whether u ends a line.
func IsLineBreak(u uint16) bool {
	switch u {
	case '\n', '\r', 0x1C, 0x1D, 0x1E, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// SplitLines breaks v at line boundaries, treating \r\n as a single break.
// Line breaks are kept at the end of each line when keepends is set.
func SplitLines(a *text.Arena, v *text.Value, keepends bool) ([]*text.Value, error) {
	s := v.Units()
	n := len(s)
	sp := &splitter{a: a, v: v}
	i, j := 0, 0
	for i < n {
		for i < n && !IsLineBreak(s[i]) {
			i++
		}
		eol := i
		if i < n {
			if s[i] == '\r' && i+1 < n && s[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			if keepends {
				eol = i
			}
		}
		if err := sp.add(j, eol); err != nil {
			return nil, err
		}
		j = i
	}
	return sp.parts, nil
}
