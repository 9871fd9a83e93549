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

package codec

import (
	"testing"

	"github.com/grumpyhq/ucs2/runtime/text"
	"github.com/stretchr/testify/assert"
)

type nameTable map[string]rune

func (n nameTable) LookupName(name string) (rune, bool) {
	r, ok := n[name]
	return r, ok
}

func TestDecodeUnicodeEscape(t *testing.T) {
	names := nameTable{"EURO SIGN": 0x20AC, "GRINNING FACE": 0x1F600}
	decode := func(a *text.Arena, s []byte, errors string) (*text.Value, error) {
		return DecodeUnicodeEscape(a, s, errors, names)
	}
	runDecodeCases(t, decode, []decodeCase{
		{in: []byte(`plain`), want: units("plain")},
		{in: []byte(`a\tb\n`), want: units("a\tb\n")},
		{in: []byte(`\\\'\"\a\b\f\v\r`), want: units("\\'\"\a\b\f\v\r")},
		{in: []byte(`\101\0\7777`), want: []uint16{'A', 0, 0o777, '7'}},
		{in: []byte(`\x41\u20ac\U0001F600`), want: []uint16{'A', 0x20AC, 0xD83D, 0xDE00}},
		{in: []byte(`\q\`), want: units(`\q\`)},
		{in: []byte("a\\\nb"), want: units("ab")},
		{in: []byte(`\x4`), errors: "strict", wantErr: `Unicode-Escape decoding error: truncated \xXX`},
		{in: []byte(`\x4`), errors: "replace", want: []uint16{0xFFFD, '4'}},
		{in: []byte(`\x4`), errors: "ignore", want: units("4")},
		{in: []byte(`\u12g4`), errors: "replace", want: []uint16{0xFFFD, '1', '2', 'g', '4'}},
		{in: []byte(`\U0000004`), wantErr: `Unicode-Escape decoding error: truncated \UXXXXXXXX`},
		{in: []byte(`\U00110000`), wantErr: "Unicode-Escape decoding error: Illegal Unicode character"},
		{in: []byte(`\U00110000x`), errors: "replace", want: []uint16{0xFFFD, 'x'}},
		{in: []byte(`\N{EURO SIGN}\N{GRINNING FACE}`), want: []uint16{0x20AC, 0xD83D, 0xDE00}},
		{in: []byte(`\N{NO SUCH NAME}`), wantErr: "Unicode-Escape decoding error: unknown Unicode character name"},
		{in: []byte(`\N{NO SUCH NAME}!`), errors: "replace", want: units(`\N{NO SUCH NAME}!`)},
		{in: []byte(`x\N{NO SUCH NAME}y`), errors: "ignore", want: units(`x\N{NO SUCH NAME}y`)},
		{in: []byte(`\Nx`), wantErr: `Unicode-Escape decoding error: malformed \N character escape`},
		{in: []byte(`\Nx`), errors: "replace", want: units(`\Nx`)},
		{in: []byte(`x\Ny`), errors: "ignore", want: units(`x\Ny`)},
		{in: []byte(`\N`), errors: "ignore", want: units(`\N`)},
		{in: []byte(`\N{}x`), errors: "replace", want: units(`\N{}x`)},
		{in: []byte(`\N{}\N{EURO SIGN}`), errors: "ignore", want: []uint16{'\\', 'N', '{', '}', 0x20AC}},
		{in: []byte(`\N{EURO`), wantErr: `Unicode-Escape decoding error: unterminated \N character escape`},
		{in: []byte(`\N{EURO`), errors: "replace", want: units(`\N{EURO`)},
	})
}

func TestDefaultNames(t *testing.T) {
	cases := []struct {
		name   string
		want   rune
		wantOK bool
	}{
		{"LATIN SMALL LETTER A", 'a', true},
		{"euro sign", 0x20AC, true},
		{"NOT A CHARACTER NAME", 0, false},
		{"", 0, false},
	}
	for _, cas := range cases {
		got, ok := DefaultNames.LookupName(cas.name)
		assert.Equal(t, cas.wantOK, ok, "LookupName(%q)", cas.name)
		if cas.wantOK {
			assert.Equal(t, cas.want, got, "LookupName(%q)", cas.name)
		}
	}
}

func TestEncodeUnicodeEscape(t *testing.T) {
	cases := []struct {
		in   []uint16
		want string
	}{
		{units("abc"), "abc"},
		{units(`a\b`), `a\\b`},
		{[]uint16{'\n', 0xE9}, "\n\xe9"},
		{[]uint16{0x20AC, 0xD83D, 0xDE00}, `\u20ac\ud83d\ude00`},
	}
	for _, cas := range cases {
		assert.Equal(t, cas.want, string(EncodeUnicodeEscape(cas.in)), "EncodeUnicodeEscape(%#v)", cas.in)
	}
}

func TestUnicodeEscapeRoundTrip(t *testing.T) {
	a := newTestArena(t)
	in := []uint16{'a', '\\', 'u', '1', 0xFF, 0x20AC, 0xD800}
	v, err := DecodeUnicodeEscape(a, EncodeUnicodeEscape(in), "strict", nameTable{})
	if assert.NoError(t, err) {
		assert.Equal(t, in, append([]uint16{}, v.Units()...))
	}
}

func TestRepr(t *testing.T) {
	cases := []struct {
		in   []uint16
		want string
	}{
		{nil, `u''`},
		{units("abc"), `u'abc'`},
		{units("a'b"), `u"a'b"`},
		{units(`a'b"`), `u'a\'b"'`},
		{units(`a\b`), `u'a\\b'`},
		{[]uint16{'\n', 0x7F, 0x80, 0xE9}, "u'\\012\x7f\\200\\351'"},
		{[]uint16{0x1F, ' ', '~'}, `u'\037 ~'`},
		{[]uint16{0x20AC}, `u'\u20ac'`},
	}
	for _, cas := range cases {
		assert.Equal(t, cas.want, string(Repr(cas.in)), "Repr(%#v)", cas.in)
	}
}

func TestDecodeRawUnicodeEscape(t *testing.T) {
	runDecodeCases(t, DecodeRawUnicodeEscape, []decodeCase{
		{in: []byte(`abc`), want: units("abc")},
		{in: []byte(`\u20ac`), want: []uint16{0x20AC}},
		{in: []byte(`\\u20ac`), want: units(`\\u20ac`)},
		{in: []byte(`\\\u20ac`), want: []uint16{'\\', '\\', 0x20AC}},
		{in: []byte(`\x41\n`), want: units(`\x41\n`)},
		{in: []byte(`a\`), want: units(`a\`)},
		{in: []byte{0xE9}, want: []uint16{0xE9}},
		{in: []byte(`\u12`), wantErr: `Raw-Unicode-Escape decoding error: truncated \uXXXX`},
		{in: []byte(`\u12`), errors: "replace", want: []uint16{0xFFFD, '1', '2'}},
	})
}

func TestEncodeRawUnicodeEscape(t *testing.T) {
	assert.Equal(t, `\u20aca\`+"\xe9", string(EncodeRawUnicodeEscape([]uint16{0x20AC, 'a', '\\', 0xE9})))
}
