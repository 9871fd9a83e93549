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

/*
Package text implements the storage model of the legacy unicode object: a
fixed width sequence of 16-bit code units with a trailing zero unit.

Values are built through a Builder obtained from an Arena. The Builder owns
its buffer exclusively, so it alone may resize it; once finished the Value is
immutable and may be shared between goroutines. The Arena keeps the shared
empty value and a bounded free list of retired values:

	b, err := arena.New(len(data))
	if err != nil {
		return nil, err
	}
	n := fill(b.Units(), data)
	if err := b.Resize(n); err != nil {
		b.Discard()
		return nil, err
	}
	return b.Finish(), nil

Errors raised by the engine are *Exception values whose Kind can be matched
with errors.Is, e.g. errors.Is(err, text.ValueError).
*/
package text
