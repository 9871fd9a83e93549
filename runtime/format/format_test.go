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

package format_test

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/grumpyhq/ucs2/runtime/format"
	"github.com/grumpyhq/ucs2/runtime/format/mocks"
	"github.com/grumpyhq/ucs2/runtime/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestFormatter(t *testing.T, opts ...format.Option) (*text.Arena, *format.Formatter) {
	t.Helper()
	a := text.NewArena(text.Options{})
	t.Cleanup(func() { a.Teardown() })
	return a, format.New(a, opts...)
}

type formatCase struct {
	tmpl    string
	args    any
	want    string
	wantErr string
}

func runFormatCases(t *testing.T, cases []formatCase) {
	t.Helper()
	a, f := newTestFormatter(t)
	for _, cas := range cases {
		got, err := f.Format(a.MustFromString(cas.tmpl), cas.args)
		if cas.wantErr != "" {
			assert.EqualError(t, err, cas.wantErr, "%q %% %#v", cas.tmpl, cas.args)
			assert.Nil(t, got)
			continue
		}
		if assert.NoError(t, err, "%q %% %#v", cas.tmpl, cas.args) {
			assert.Equal(t, cas.want, got.String(), "%q %% %#v", cas.tmpl, cas.args)
		}
	}
}

func TestFormatIntegers(t *testing.T) {
	huge, _ := new(big.Int).SetString("1000000000000000000000000000000", 10)
	negHuge := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 64))
	runFormatCases(t, []formatCase{
		{tmpl: "%d", args: 5, want: "5"},
		{tmpl: "%5d", args: format.Tuple{3}, want: "    3"},
		{tmpl: "%-5d|", args: format.Tuple{3}, want: "3    |"},
		{tmpl: "%05d", args: format.Tuple{3}, want: "00003"},
		{tmpl: "%05d", args: format.Tuple{-3}, want: "-0003"},
		{tmpl: "%5d", args: format.Tuple{-3}, want: "   -3"},
		{tmpl: "%+d % d", args: format.Tuple{5, 5}, want: "+5  5"},
		{tmpl: "%i %u", args: format.Tuple{int8(-2), uint16(7)}, want: "-2 7"},
		{tmpl: "%.3d", args: format.Tuple{7}, want: "007"},
		{tmpl: "%ld", args: format.Tuple{42}, want: "42"},
		{tmpl: "%#x", args: format.Tuple{255}, want: "0xff"},
		{tmpl: "%#X", args: format.Tuple{255}, want: "0XFF"},
		{tmpl: "%#x", args: format.Tuple{0}, want: "0x0"},
		{tmpl: "%#06x", args: format.Tuple{255}, want: "0x00ff"},
		{tmpl: "%#8x", args: format.Tuple{255}, want: "    0xff"},
		{tmpl: "%#o %o", args: format.Tuple{8, 8}, want: "010 10"},
		{tmpl: "%x", args: format.Tuple{-1}, want: "ffffffffffffffff"},
		{tmpl: "%d", args: format.Tuple{3.7}, want: "3"},
		{tmpl: "%d", args: format.Tuple{huge}, want: "1000000000000000000000000000000"},
		{tmpl: "%x", args: format.Tuple{negHuge}, want: "-10000000000000000"},
		{tmpl: "%#x", args: format.Tuple{negHuge}, want: "-0x10000000000000000"},
		{tmpl: "%d", args: format.Tuple{big.NewInt(12)}, want: "12"},
		{tmpl: "%d", args: format.Tuple{uint64(1 << 63)}, want: "9223372036854775808"},
		{tmpl: "%d", args: format.Tuple{"x"}, wantErr: "TypeError: an integer is required"},
		{tmpl: "%.200d", args: format.Tuple{1}, wantErr: "OverflowError: formatted integer is too long (precision too long?)"},
	})
}

func TestFormatFloats(t *testing.T) {
	runFormatCases(t, []formatCase{
		{tmpl: "%.2f", args: format.Tuple{3.14159}, want: "3.14"},
		{tmpl: "%f", args: format.Tuple{1.5}, want: "1.500000"},
		{tmpl: "%08.3f", args: format.Tuple{-3.14159}, want: "-003.142"},
		{tmpl: "%+.1f", args: format.Tuple{2.25}, want: "+2.2"},
		{tmpl: "%e", args: format.Tuple{1.0}, want: "1.000000e+00"},
		{tmpl: "%E", args: format.Tuple{12345.678}, want: "1.234568E+04"},
		{tmpl: "%g", args: format.Tuple{0.0001}, want: "0.0001"},
		{tmpl: "%G", args: format.Tuple{1e-10}, want: "1E-10"},
		{tmpl: "%#g", args: format.Tuple{1.0}, want: "1.00000"},
		{tmpl: "%f", args: format.Tuple{1e60}, want: "1e+60"},
		{tmpl: "%.1f", args: format.Tuple{2}, want: "2.0"},
		{tmpl: "%f", args: format.Tuple{"x"}, wantErr: "TypeError: float argument required"},
		{tmpl: "%.200f", args: format.Tuple{1.0}, wantErr: "OverflowError: formatted float is too long (precision too long?)"},
	})
}

func TestFormatStrings(t *testing.T) {
	huge, _ := new(big.Int).SetString("100000000000000000000", 10)
	runFormatCases(t, []formatCase{
		{tmpl: "", args: format.Tuple{}, want: ""},
		{tmpl: "abc", args: format.Tuple{}, want: "abc"},
		{tmpl: "%s", args: format.Tuple{"abc"}, want: "abc"},
		{tmpl: "%.2s", args: format.Tuple{"abc"}, want: "ab"},
		{tmpl: "%5s|", args: format.Tuple{"ab"}, want: "   ab|"},
		{tmpl: "%-5s|", args: format.Tuple{"ab"}, want: "ab   |"},
		{tmpl: "%05s", args: format.Tuple{"ab"}, want: "   ab"},
		{tmpl: "%s %s %s", args: format.Tuple{nil, 1.5, 2.0}, want: "None 1.5 2.0"},
		{tmpl: "%s %r", args: format.Tuple{huge, huge}, want: "100000000000000000000 100000000000000000000L"},
		{tmpl: "%r %r", args: format.Tuple{"a'b", 0.1}, want: `"a'b" 0.10000000000000001`},
		{tmpl: "%r", args: format.Tuple{"a\n\xff"}, want: `'a\n\xff'`},
		{tmpl: "%s", args: format.Tuple{[]byte{0xff}}, wantErr: "ASCII decoding error: ordinal not in range(128)"},
		{tmpl: "%c%c%c", args: format.Tuple{65, "b", []byte("c")}, want: "Abc"},
		{tmpl: "%c", args: format.Tuple{"ab"}, wantErr: "TypeError: %c requires int or char"},
		{tmpl: "%c", args: format.Tuple{1.5}, wantErr: "TypeError: %c requires int or char"},
		{tmpl: "100%%", args: format.Tuple{}, want: "100%"},
		{tmpl: "%5%", args: format.Tuple{}, want: "    %"},
	})
}

func TestFormatTextArguments(t *testing.T) {
	a, f := newTestFormatter(t)
	euro := a.MustFromString("\u20ac")
	got, err := f.Format(a.MustFromString("[%s|%3s|%r|%c]"), format.Tuple{euro, euro, euro, euro})
	require.NoError(t, err)
	assert.Equal(t, "[\u20ac|  \u20ac|u'\\u20ac'|\u20ac]", got.String())
}

func TestFormatStarArguments(t *testing.T) {
	runFormatCases(t, []formatCase{
		{tmpl: "%*d", args: format.Tuple{5, 3}, want: "    3"},
		{tmpl: "%*d|", args: format.Tuple{-5, 3}, want: "3    |"},
		{tmpl: "%.*f", args: format.Tuple{2, 3.14159}, want: "3.14"},
		{tmpl: "%.*s", args: format.Tuple{-1, "abc"}, want: ""},
		{tmpl: "%*d", args: format.Tuple{"x", 1}, wantErr: "TypeError: * wants int"},
		{tmpl: "%.*d", args: format.Tuple{1.5, 1}, wantErr: "TypeError: * wants int"},
	})
}

func TestFormatErrors(t *testing.T) {
	runFormatCases(t, []formatCase{
		{tmpl: "%d %d", args: format.Tuple{1}, wantErr: "TypeError: not enough arguments for format string"},
		{tmpl: "%d %d", args: 1, wantErr: "TypeError: not enough arguments for format string"},
		{tmpl: "%d", args: format.Tuple{1, 2}, wantErr: "TypeError: not all arguments converted"},
		{tmpl: "abc", args: 5, wantErr: "TypeError: not all arguments converted"},
		{tmpl: "%(a)s", args: format.Tuple{1}, wantErr: "TypeError: format requires a mapping"},
		{tmpl: "%(a", args: format.Dict{}, wantErr: "ValueError: incomplete format key"},
		{tmpl: "%(a(b)s", args: format.Dict{}, wantErr: "ValueError: incomplete format key"},
		{tmpl: "%", args: format.Tuple{}, wantErr: "ValueError: incomplete format"},
		{tmpl: "%5", args: format.Tuple{1}, wantErr: "ValueError: incomplete format"},
		{tmpl: "%.", args: format.Tuple{1}, wantErr: "ValueError: incomplete format"},
		{tmpl: "ab%y", args: format.Tuple{1}, wantErr: "ValueError: unsupported format character 'y' (0x79) at index 3"},
		{tmpl: "%99999999999d", args: format.Tuple{1}, wantErr: "ValueError: width too big"},
		{tmpl: "%.99999999999d", args: format.Tuple{1}, wantErr: "ValueError: prec too big"},
		{tmpl: "%(missing)s", args: format.Dict{}, wantErr: "KeyError: missing"},
	})
}

func TestFormatMapping(t *testing.T) {
	runFormatCases(t, []formatCase{
		{tmpl: "%(name)s is %(age)03d", args: format.Dict{"name": "Bob", "age": 7}, want: "Bob is 007"},
		{tmpl: "%(a(b))s", args: format.Dict{"a(b)": "x"}, want: "x"},
		{tmpl: "%(n)s%(n)s", args: format.Dict{"n": 1}, want: "11"},
		// Unused mapping entries and literal-only templates are not errors.
		{tmpl: "abc", args: format.Dict{"x": 1}, want: "abc"},
	})
}

func TestFormatMappingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockMapping(ctrl)
	boom := errors.New("boom")
	m.EXPECT().Get("k").Return(nil, false, boom)
	a, f := newTestFormatter(t)
	_, err := f.Format(a.MustFromString("%(k)s"), m)
	assert.Same(t, boom, err)
}

type point struct{ x, y int }

func TestFormatConverter(t *testing.T) {
	ctrl := gomock.NewController(t)
	conv := mocks.NewMockConverter(ctrl)
	p := point{1, 2}
	conv.EXPECT().Str(p).Return([]byte("(1, 2)"), nil)
	conv.EXPECT().Repr(p).Return([]byte("point(1, 2)"), nil)
	a, f := newTestFormatter(t, format.WithConverter(conv))
	got, err := f.Format(a.MustFromString("%s %r"), format.Tuple{p, p})
	require.NoError(t, err)
	assert.Equal(t, "(1, 2) point(1, 2)", got.String())
}

func TestFormatMappingTupleValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	conv := mocks.NewMockConverter(ctrl)
	conv.EXPECT().Str(format.Tuple{1, 2}).Return([]byte("(1, 2)"), nil)
	a, f := newTestFormatter(t, format.WithConverter(conv))
	got, err := f.Format(a.MustFromString("%(a)s"), format.Dict{"a": format.Tuple{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "(1, 2)", got.String())

	_, err = f.Format(a.MustFromString("%(a)d"), format.Dict{"a": format.Tuple{1, 2}})
	assert.True(t, errors.Is(err, text.TypeError))
}

func TestFormatConverterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	conv := mocks.NewMockConverter(ctrl)
	conv.EXPECT().Str(gomock.Any()).Return(nil, text.Raise(text.ValueError, "no str"))
	a, f := newTestFormatter(t, format.WithConverter(conv))
	_, err := f.Format(a.MustFromString("%s"), format.Tuple{point{}})
	assert.True(t, errors.Is(err, text.ValueError))
}

func TestFormatDecoder(t *testing.T) {
	latin1 := func(a *text.Arena, s []byte) (*text.Value, error) {
		u := make([]uint16, len(s))
		for i, c := range s {
			u[i] = uint16(c)
		}
		return a.FromUnits(u)
	}
	a, f := newTestFormatter(t, format.WithDecoder(latin1))
	got, err := f.Format(a.MustFromString("%s"), format.Tuple{[]byte{'x', 0xe9}})
	require.NoError(t, err)
	assert.Equal(t, []uint16{'x', 0xe9}, append([]uint16{}, got.Units()...))
}

func TestFormatGrowsOutput(t *testing.T) {
	a, f := newTestFormatter(t)
	got, err := f.Format(a.MustFromString("<%300s>%s"), format.Tuple{"x", strings.Repeat("y", 500)})
	require.NoError(t, err)
	want := "<" + strings.Repeat(" ", 299) + "x>" + strings.Repeat("y", 500)
	assert.Equal(t, want, got.String())
}

func TestFormatEmptyResultIsSingleton(t *testing.T) {
	a, f := newTestFormatter(t)
	got, err := f.Format(a.MustFromString("%s"), format.Tuple{""})
	require.NoError(t, err)
	assert.True(t, a.IsEmptySingleton(got))
}
