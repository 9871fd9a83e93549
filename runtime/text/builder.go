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

// Builder owns a value under construction. It is the only way to write or
// resize code units; Finish publishes the value and spends the Builder.
type Builder struct {
	arena *Arena
	v     *Value
}

func (b *Builder) value() *Value {
	if b.v == nil {
		logFatal("text: Builder used after Finish or Discard")
	}
	return b.v
}

// Len returns the current length of the value under construction.
func (b *Builder) Len() int {
	return b.value().Len()
}

// Units returns the writable code units of the value under construction.
// The slice is invalidated by Resize.
func (b *Builder) Units() []uint16 {
	return b.value().Units()
}

// Resize changes the length of the value under construction, preserving the
// common prefix and rewriting the terminator. Resizing to the current length
// only clears the cached hash and encoded bytes. On failure the current
// contents are left intact.
func (b *Builder) Resize(length int) error {
	v := b.value()
	if length < 0 {
		return Raise(SystemError, errBadInternalCall)
	}
	old := v.Len()
	if length == old {
		v.clearCaches()
		return nil
	}
	if b.arena.IsEmptySingleton(v) {
		return Raise(SystemError, "can't resize shared empty value")
	}
	if length > b.arena.opts.MaxUnits {
		return Raise(MemoryError, "")
	}
	if length+1 <= cap(v.units) {
		v.units = v.units[:length+1]
		if length > old {
			clear(v.units[old:length])
		}
	} else {
		units := make([]uint16, length+1, growCap(cap(v.units), length+1))
		copy(units, v.units[:old])
		v.units = units
	}
	v.units[length] = 0
	v.clearCaches()
	return nil
}

func growCap(old, need int) int {
	if c := old * 2; c > need {
		return c
	}
	return need
}

// Finish publishes the value. The Builder must not be used afterwards.
func (b *Builder) Finish() *Value {
	v := b.value()
	b.v = nil
	return v
}

// Discard returns the value under construction to the Arena. It is used on
// error paths so that no partially built value escapes.
func (b *Builder) Discard() {
	if b.v == nil {
		return
	}
	b.arena.Retire(b.v)
	b.v = nil
}
