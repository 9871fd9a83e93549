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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	a := NewArena(Options{})
	t.Cleanup(func() { a.Teardown() })
	return a
}

func TestNewZeroLengthSharesEmpty(t *testing.T) {
	a := newTestArena(t)
	b1, err := a.New(0)
	require.NoError(t, err)
	b2, err := a.New(0)
	require.NoError(t, err)
	v1, v2 := b1.Finish(), b2.Finish()
	assert.Same(t, v1, v2)
	assert.Same(t, a.Empty(), v1)
	assert.Equal(t, 0, v1.Len())
	assert.Equal(t, []uint16{0}, v1.units)
}

func TestNewTerminated(t *testing.T) {
	a := newTestArena(t)
	for _, n := range []int{1, 5, 9, 100} {
		b, err := a.New(n)
		require.NoError(t, err)
		assert.Equal(t, n, b.Len())
		assert.Len(t, b.v.units, n+1)
		assert.Equal(t, uint16(0), b.v.units[n], "New(%d) terminator", n)
	}
}

func TestNewRejectsBadLengths(t *testing.T) {
	a := NewArena(Options{MaxUnits: 16})
	defer a.Teardown()
	_, err := a.New(-1)
	assert.True(t, errors.Is(err, SystemError))
	_, err = a.New(17)
	assert.True(t, errors.Is(err, MemoryError))
}

func TestBuilderResize(t *testing.T) {
	a := newTestArena(t)
	b, err := a.New(4)
	require.NoError(t, err)
	copy(b.Units(), []uint16{'a', 'b', 'c', 'd'})

	require.NoError(t, b.Resize(2))
	assert.Equal(t, []uint16{'a', 'b', 0}, b.v.units)

	require.NoError(t, b.Resize(6))
	assert.Equal(t, []uint16{'a', 'b', 0, 0, 0, 0, 0}, b.v.units)

	require.NoError(t, b.Resize(40))
	assert.Equal(t, 40, b.Len())
	assert.Equal(t, uint16('b'), b.Units()[1])
	assert.Equal(t, uint16(0), b.v.units[40])

	_, err = a.New(-3)
	require.Error(t, err)
	assert.True(t, errors.Is(b.Resize(-1), SystemError))
	assert.Equal(t, 40, b.Len())
}

func TestBuilderResizeClearsCaches(t *testing.T) {
	a := newTestArena(t)
	b, err := a.New(3)
	require.NoError(t, err)
	copy(b.Units(), []uint16{'a', 'b', 'c'})
	v := b.v
	v.Hash()
	_, err = v.DefaultEncoded("ascii", func(*Value) ([]byte, error) { return []byte("abc"), nil })
	require.NoError(t, err)

	require.NoError(t, b.Resize(3))
	assert.Equal(t, int64(hashUncomputed), v.hash.Load())
	assert.Nil(t, v.defenc.Load())
	assert.Equal(t, []uint16{'a', 'b', 'c'}, b.Finish().Units())
}

func TestResizeEmptySingleton(t *testing.T) {
	a := newTestArena(t)
	b, err := a.New(0)
	require.NoError(t, err)
	require.NoError(t, b.Resize(0))
	err = b.Resize(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, SystemError))
	assert.Equal(t, 0, a.Empty().Len())
}

func TestBuilderUseAfterFinish(t *testing.T) {
	oldLogFatal := logFatal
	logFatal = func(msg string) { panic(msg) }
	defer func() { logFatal = oldLogFatal }()

	a := newTestArena(t)
	b, err := a.New(2)
	require.NoError(t, err)
	b.Finish()
	assert.PanicsWithValue(t, "text: Builder used after Finish or Discard", func() { b.Resize(3) })
}

func TestFreeListKeepAlive(t *testing.T) {
	a := newTestArena(t)
	small, err := a.FromUnits([]uint16{'x', 'y', 'z'})
	require.NoError(t, err)
	large, err := a.FromUnits(make([]uint16, 20))
	require.NoError(t, err)

	a.Retire(large)
	a.Retire(small)
	stats := a.Stats()
	assert.Equal(t, 2, stats.Free)
	assert.Equal(t, 1, stats.KeptAlive)
	assert.Equal(t, 2, stats.Retired)

	// LIFO: the small value comes back first, with its buffer.
	b, err := a.New(2)
	require.NoError(t, err)
	assert.Same(t, small, b.v)
	assert.Equal(t, []uint16{0, 0, 0}, b.v.units)
	assert.Equal(t, 2, b.Len())

	b2, err := a.New(5)
	require.NoError(t, err)
	assert.Same(t, large, b2.v)
	assert.Equal(t, 5, b2.Len())
	assert.Equal(t, 2, a.Stats().Reused)
}

func TestFreeListGrowsSmallBuffer(t *testing.T) {
	a := newTestArena(t)
	v, err := a.FromUnits([]uint16{'a'})
	require.NoError(t, err)
	a.Retire(v)
	b, err := a.New(7)
	require.NoError(t, err)
	assert.Same(t, v, b.v)
	assert.Len(t, b.v.units, 8)
}

func TestFreeListCapacity(t *testing.T) {
	a := NewArena(Options{FreeListSize: 2})
	defer a.Teardown()
	var values []*Value
	for i := 0; i < 3; i++ {
		v, err := a.FromUnits([]uint16{'a'})
		require.NoError(t, err)
		values = append(values, v)
	}
	for _, v := range values {
		a.Retire(v)
	}
	stats := a.Stats()
	assert.Equal(t, 2, stats.Free)
	assert.Equal(t, 2, stats.Retired)
	assert.Equal(t, 1, stats.Dropped)
	assert.Nil(t, values[2].units)

	// The most recently kept value is handed out first.
	b, err := a.New(1)
	require.NoError(t, err)
	assert.Same(t, values[1], b.v)
	assert.Equal(t, 1, a.Stats().Free)
}

func TestRetireIgnoresEmptySingleton(t *testing.T) {
	a := newTestArena(t)
	a.Retire(a.Empty())
	a.Retire(nil)
	assert.Equal(t, 0, a.Stats().Free)
	assert.Equal(t, []uint16{0}, a.Empty().units)
}

func TestTeardown(t *testing.T) {
	oldLogFatal := logFatal
	logFatal = func(msg string) { panic(msg) }
	defer func() { logFatal = oldLogFatal }()

	a := NewArena(Options{})
	v, err := a.FromUnits([]uint16{'a', 'b'})
	require.NoError(t, err)
	a.Retire(v)
	stats := a.Teardown()
	assert.Equal(t, 1, stats.Retired)
	assert.Equal(t, 0, stats.Free)
	assert.False(t, a.Initialized())

	_, err = a.New(3)
	assert.True(t, errors.Is(err, SystemError))
	assert.Panics(t, func() { a.Empty() })

	a.Init()
	assert.True(t, a.Initialized())
	assert.Equal(t, 0, a.Empty().Len())
}

// >>> hash(u'a')
// 12416037344
// >>> hash(u'abc')
// 1453079729188098211
// >>> hash(u'\U00010000')
// 7077930522687853570
func TestHash(t *testing.T) {
	a := newTestArena(t)
	cases := []struct {
		units []uint16
		want  int
	}{
		{nil, 0},
		{[]uint16{'a'}, 12416037344},
		{[]uint16{'a', 'b', 'c'}, 1453079729188098211},
		{[]uint16{0xD800, 0xDC00}, 7077930522687853570},
	}
	for _, cas := range cases {
		v, err := a.FromUnits(cas.units)
		require.NoError(t, err)
		assert.Equal(t, cas.want, v.Hash(), "Hash(%v)", cas.units)
		assert.Equal(t, int64(cas.want), v.hash.Load())
	}
}

func TestCompare(t *testing.T) {
	a := newTestArena(t)
	cases := []struct {
		v, w []uint16
		want int
	}{
		{nil, nil, 0},
		{[]uint16{'a'}, nil, 1},
		{nil, []uint16{'a'}, -1},
		{[]uint16{'a', 'b'}, []uint16{'a', 'c'}, -1},
		{[]uint16{'a', 'b'}, []uint16{'a'}, 1},
		// Raw unit order: U+10000 sorts before U+FFFF.
		{[]uint16{0xD800, 0xDC00}, []uint16{0xFFFF}, -1},
	}
	for _, cas := range cases {
		v, err := a.FromUnits(cas.v)
		require.NoError(t, err)
		w, err := a.FromUnits(cas.w)
		require.NoError(t, err)
		assert.Equal(t, cas.want, Compare(v, w), "Compare(%v, %v)", cas.v, cas.w)
		assert.Equal(t, cas.want == 0, Equal(v, w))
	}
	v := a.MustFromString("same")
	assert.Equal(t, 0, Compare(v, v))
}

func TestValueAccessors(t *testing.T) {
	a := newTestArena(t)
	v := a.MustFromString("hé\U00010000")
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, []uint16{'h', 0xE9, 0xD800, 0xDC00}, v.Units())
	assert.Equal(t, "hé\U00010000", v.String())

	u, err := v.At(-1)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xDC00), u)
	_, err = v.At(4)
	assert.EqualError(t, err, "IndexError: string index out of range")

	dst := make([]uint16, 2)
	assert.Equal(t, 2, v.AsWideChars(dst))
	assert.Equal(t, []uint16{'h', 0xE9}, dst)

	lone, err := a.FromUnits([]uint16{'a', 0xDC00})
	require.NoError(t, err)
	assert.Equal(t, "a�", lone.String())
}

func TestDefaultEncodedMemoized(t *testing.T) {
	a := newTestArena(t)
	v := a.MustFromString("abc")
	calls := 0
	encode := func(*Value) ([]byte, error) {
		calls++
		return []byte("abc"), nil
	}
	for i := 0; i < 3; i++ {
		got, err := v.DefaultEncoded("ascii", encode)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
	}
	assert.Equal(t, 1, calls)
	_, err := v.DefaultEncoded("utf-8", encode)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	boom := Raise(UnicodeEncodeError, "boom")
	_, err = a.MustFromString("x").DefaultEncoded("ascii", func(*Value) ([]byte, error) { return nil, boom })
	assert.Same(t, boom, err)
}

func TestExceptionHierarchy(t *testing.T) {
	cases := []struct {
		kind Kind
		base Kind
		want bool
	}{
		{UnicodeDecodeError, ValueError, true},
		{UnicodeEncodeError, UnicodeError, true},
		{IndexError, LookupError, true},
		{KeyError, LookupError, true},
		{OverflowError, ArithmeticError, true},
		{NotImplementedError, RuntimeError, true},
		{ValueError, UnicodeError, false},
		{TypeError, ValueError, false},
	}
	for _, cas := range cases {
		err := Raise(cas.kind, "x")
		assert.Equal(t, cas.want, errors.Is(err, cas.base), "%s is %s", cas.kind, cas.base)
	}
	assert.EqualError(t, Raisef(ValueError, "bad %d", 3), "ValueError: bad 3")
	assert.EqualError(t, Raise(MemoryError, ""), "MemoryError")
}
