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

import (
	"log"
	"math"
	"sync"
	"unicode/utf16"
)

const (
	// DefaultFreeListSize is the maximum number of retired values an Arena
	// keeps for reuse.
	DefaultFreeListSize = 1024
	// DefaultKeepAlive is the unit count below which a retired value keeps
	// its buffer on the free list.
	DefaultKeepAlive = 9
	// DefaultMaxUnits bounds the length of a single value.
	DefaultMaxUnits = math.MaxInt32 - 1
)

var (
	logFatal = func(msg string) { log.Fatal(msg) }
)

// Options configures an Arena.
type Options struct {
	FreeListSize int
	KeepAlive    int
	MaxUnits     int
}

// DefaultOptions returns the Options used by NewArena when none are given.
func DefaultOptions() Options {
	return Options{
		FreeListSize: DefaultFreeListSize,
		KeepAlive:    DefaultKeepAlive,
		MaxUnits:     DefaultMaxUnits,
	}
}

// Stats is a snapshot of an Arena's free list activity.
type Stats struct {
	// Free is the number of values currently on the free list.
	Free int
	// KeptAlive is the number of free list entries still holding a buffer.
	KeptAlive int
	// Reused counts values handed out from the free list.
	Reused int
	// Retired counts values pushed onto the free list.
	Retired int
	// Dropped counts values released because the free list was full.
	Dropped int
}

// Arena owns the allocation state shared by the values it produces: the
// shared empty value and a free list of retired values. An Arena is safe for
// concurrent use.
type Arena struct {
	opts Options

	mu sync.Mutex
	// free is a LIFO of retired values linked through Value.next. Entries
	// keep their buffer only when it is shorter than opts.KeepAlive units.
	free      *Value
	freeCount int
	empty     *Value
	stats     Stats
}

// NewArena returns an initialized Arena. Zero fields of opts take their
// default values.
func NewArena(opts Options) *Arena {
	def := DefaultOptions()
	if opts.FreeListSize == 0 {
		opts.FreeListSize = def.FreeListSize
	}
	if opts.KeepAlive == 0 {
		opts.KeepAlive = def.KeepAlive
	}
	if opts.MaxUnits == 0 {
		opts.MaxUnits = def.MaxUnits
	}
	a := &Arena{opts: opts}
	a.Init()
	return a
}

// Init prepares the shared empty value. It is idempotent and may be used to
// bring an Arena back after Teardown.
func (a *Arena) Init() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.empty == nil {
		a.empty = newValue([]uint16{0})
	}
}

// Teardown drains the free list and releases the shared empty value. The
// Arena must not allocate again until Init is called.
func (a *Arena) Teardown() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	for v := a.free; v != nil; {
		next := v.next
		v.units = nil
		v.next = nil
		v.clearCaches()
		v = next
	}
	a.free = nil
	a.freeCount = 0
	if a.empty != nil {
		a.empty.clearCaches()
		a.empty = nil
	}
	stats := a.stats
	stats.Free, stats.KeptAlive = 0, 0
	return stats
}

// Initialized reports whether the Arena can allocate.
func (a *Arena) Initialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.empty != nil
}

// Options returns the options the Arena was built with.
func (a *Arena) Options() Options {
	return a.opts
}

// Stats returns a snapshot of the free list counters.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	stats := a.stats
	stats.Free = a.freeCount
	for v := a.free; v != nil; v = v.next {
		if v.units != nil {
			stats.KeptAlive++
		}
	}
	return stats
}

// Empty returns the shared zero length value.
func (a *Arena) Empty() *Value {
	a.mu.Lock()
	empty := a.empty
	a.mu.Unlock()
	if empty == nil {
		logFatal("text: Arena used after Teardown")
	}
	return empty
}

// IsEmptySingleton reports whether v is a's shared empty value.
func (a *Arena) IsEmptySingleton(v *Value) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return v != nil && v == a.empty
}

// New returns a Builder for a value of length units. A zero length yields a
// Builder over the shared empty value, which cannot be grown.
func (a *Arena) New(length int) (*Builder, error) {
	if length < 0 {
		return nil, Raise(SystemError, errBadInternalCall)
	}
	if length > a.opts.MaxUnits {
		return nil, Raise(MemoryError, "")
	}
	a.mu.Lock()
	if a.empty == nil {
		a.mu.Unlock()
		return nil, Raise(SystemError, "text arena is not initialized")
	}
	if length == 0 {
		empty := a.empty
		a.mu.Unlock()
		return &Builder{arena: a, v: empty}, nil
	}
	v := a.free
	if v != nil {
		a.free, v.next = v.next, nil
		a.freeCount--
		a.stats.Reused++
	}
	a.mu.Unlock()

	if v == nil {
		v = newValue(make([]uint16, length+1))
		return &Builder{arena: a, v: v}, nil
	}
	// The kept buffer is only ever grown, never shrunk.
	if cap(v.units) < length+1 {
		v.units = make([]uint16, length+1)
	} else {
		v.units = v.units[:length+1]
		clear(v.units)
	}
	v.clearCaches()
	return &Builder{arena: a, v: v}, nil
}

// Retire hands v back to the Arena for reuse. Only the last holder of v may
// retire it, and v must not be used afterwards. The shared empty value is
// never retired.
func (a *Arena) Retire(v *Value) {
	if v == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if v == a.empty {
		return
	}
	v.clearCaches()
	if a.freeCount >= a.opts.FreeListSize {
		v.units = nil
		a.stats.Dropped++
		return
	}
	if len(v.units)-1 >= a.opts.KeepAlive {
		v.units = nil
	}
	v.next = a.free
	a.free = v
	a.freeCount++
	a.stats.Retired++
}

// FromUnits returns a new value holding a copy of units.
func (a *Arena) FromUnits(units []uint16) (*Value, error) {
	b, err := a.New(len(units))
	if err != nil {
		return nil, err
	}
	copy(b.Units(), units)
	return b.Finish(), nil
}

// FromWideChars returns a new value from platform wide characters. Wide
// characters are assumed to be 16 bits and are copied unit for unit.
func (a *Arena) FromWideChars(w []uint16) (*Value, error) {
	return a.FromUnits(w)
}

// FromString returns a new value holding s, which is assumed to be utf-8.
// Code points above U+FFFF are stored as surrogate pairs.
func (a *Arena) FromString(s string) (*Value, error) {
	return a.FromUnits(utf16.Encode([]rune(s)))
}

// MustFromString is like FromString but aborts on failure. It is intended for
// literals in tests and tables.
func (a *Arena) MustFromString(s string) *Value {
	v, err := a.FromString(s)
	if err != nil {
		logFatal(err.Error())
	}
	return v
}
