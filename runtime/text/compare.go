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

// Compare orders v and w by raw code unit value. Surrogate pairs are not
// recombined, so the order is that of the 16-bit units and not of code
// points. It returns -1, 0 or 1.
func Compare(v, w *Value) int {
	if v == w {
		return 0
	}
	return unitSliceCmp(v.Units(), w.Units())
}

// Equal reports whether v and w hold the same code units.
func Equal(v, w *Value) bool {
	if v == w {
		return true
	}
	if v.Len() != w.Len() {
		return false
	}
	return unitSliceCmp(v.Units(), w.Units()) == 0
}

func unitSliceCmp(lhs []uint16, rhs []uint16) int {
	lhsLen, rhsLen := len(lhs), len(rhs)
	minLen := lhsLen
	if rhsLen < lhsLen {
		minLen = rhsLen
	}
	for i := 0; i < minLen; i++ {
		if lhs[i] < rhs[i] {
			return -1
		}
		if lhs[i] > rhs[i] {
			return 1
		}
	}
	if lhsLen < rhsLen {
		return -1
	}
	if lhsLen > rhsLen {
		return 1
	}
	return 0
}
