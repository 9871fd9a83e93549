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

// Package ustr implements the string algorithms of the text engine: search,
// split, strip, replace, join, padding, case mapping and classification.
//
// Operations that would return a value equal to their input return the input
// itself rather than a copy.
package ustr

import (
	"github.com/grumpyhq/ucs2/runtime/text"
)

// AdjustIndex normalizes a (start, end) range against length. Negative
// bounds count from the end and are clamped to 0; end is clamped to length.
func AdjustIndex(start, end, length int) (int, int) {
	if end > length {
		end = length
	} else if end < 0 {
		end += length
		if end < 0 {
			end = 0
		}
	}
	if start < 0 {
		start += length
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func matchAt(s []uint16, i int, sub []uint16) bool {
	if i < 0 || i+len(sub) > len(s) {
		return false
	}
	for k, u := range sub {
		if s[i+k] != u {
			return false
		}
	}
	return true
}

// Count returns the number of non-overlapping occurrences of sub in
// v[start:end]. An empty sub occurs end-start+1 times.
func Count(v, sub *text.Value, start, end int) int {
	s, n := v.Units(), sub.Units()
	start, end = AdjustIndex(start, end, len(s))
	if len(n) == 0 {
		if start > end {
			return 0
		}
		return end - start + 1
	}
	count := 0
	for last := end - len(n); start <= last; {
		if matchAt(s, start, n) {
			count++
			start += len(n)
		} else {
			start++
		}
	}
	return count
}

// Find returns the lowest index in v[start:end] where sub is found, or -1.
func Find(v, sub *text.Value, start, end int) int {
	s, n := v.Units(), sub.Units()
	start, end = AdjustIndex(start, end, len(s))
	if start > end {
		return -1
	}
	if len(n) == 0 {
		return start
	}
	for last := end - len(n); start <= last; start++ {
		if matchAt(s, start, n) {
			return start
		}
	}
	return -1
}

// RFind returns the highest index in v[start:end] where sub is found, or -1.
func RFind(v, sub *text.Value, start, end int) int {
	s, n := v.Units(), sub.Units()
	start, end = AdjustIndex(start, end, len(s))
	if start > end {
		return -1
	}
	for i := end - len(n); i >= start; i-- {
		if matchAt(s, i, n) {
			return i
		}
	}
	return -1
}

// Index is like Find but raises ValueError when sub is not found.
func Index(v, sub *text.Value, start, end int) (int, error) {
	if i := Find(v, sub, start, end); i >= 0 {
		return i, nil
	}
	return -1, text.Raise(text.ValueError, "substring not found")
}

// RIndex is like RFind but raises ValueError when sub is not found.
func RIndex(v, sub *text.Value, start, end int) (int, error) {
	if i := RFind(v, sub, start, end); i >= 0 {
		return i, nil
	}
	return -1, text.Raise(text.ValueError, "substring not found")
}

// StartsWith reports whether v[start:end] starts with prefix. Only the
// anchored position is checked.
func StartsWith(v, prefix *text.Value, start, end int) bool {
	return tailMatch(v, prefix, start, end, false)
}

// EndsWith reports whether v[start:end] ends with suffix.
func EndsWith(v, suffix *text.Value, start, end int) bool {
	return tailMatch(v, suffix, start, end, true)
}

func tailMatch(v, sub *text.Value, start, end int, atEnd bool) bool {
	s, n := v.Units(), sub.Units()
	start, end = AdjustIndex(start, end, len(s))
	if len(n) == 0 {
		return true
	}
	last := end - len(n)
	if last < start {
		return false
	}
	if atEnd {
		return matchAt(s, last, n)
	}
	return matchAt(s, start, n)
}

// Contains reports whether sub occurs anywhere in v.
func Contains(v, sub *text.Value) bool {
	return Find(v, sub, 0, v.Len()) >= 0
}

func findUnit(s []uint16, u uint16) int {
	for i, c := range s {
		if c == u {
			return i
		}
	}
	return -1
}
