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

// Package format implements the %-style formatting operator for text
// values.
package format

//go:generate mockgen -source=format.go -destination=mocks/mock_format.go -package=mocks

import (
	"math"
	"unicode/utf16"

	"github.com/grumpyhq/ucs2/runtime/codec"
	"github.com/grumpyhq/ucs2/runtime/text"
)

// Converter supplies the str() and repr() byte strings of arguments that
// are not text values.
type Converter interface {
	Str(arg any) ([]byte, error)
	Repr(arg any) ([]byte, error)
}

// Mapping supplies arguments by key for %(key)s directives.
type Mapping interface {
	Get(key string) (value any, ok bool, err error)
}

// Tuple holds positional arguments. An argument that is neither a Tuple
// nor a Mapping is formatted as the only positional argument.
type Tuple []any

// Dict is a Mapping held in a Go map.
type Dict map[string]any

// Get implements Mapping.
func (d Dict) Get(key string) (any, bool, error) {
	v, ok := d[key]
	return v, ok, nil
}

const (
	flagLJust = 1 << iota
	flagSign
	flagBlank
	flagAlt
	flagZero
)

// formatBufLen bounds the text of a single numeric conversion.
const formatBufLen = 120

// maxWidth bounds literal widths and precisions.
const maxWidth = math.MaxInt32

// Decoder turns the bytes produced by a Converter into text.
type Decoder func(a *text.Arena, s []byte) (*text.Value, error)

// Formatter applies %-style templates. It is safe for concurrent use when
// its Converter and Decoder are.
type Formatter struct {
	arena  *text.Arena
	conv   Converter
	decode Decoder
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithConverter sets the str()/repr() provider. The default handles Go
// scalars, byte strings and fmt.Stringer values.
func WithConverter(c Converter) Option {
	return func(f *Formatter) { f.conv = c }
}

// WithDecoder sets how converted byte strings become text. The default is
// strict ASCII.
func WithDecoder(d Decoder) Option {
	return func(f *Formatter) { f.decode = d }
}

// New returns a Formatter allocating from a.
func New(a *text.Arena, opts ...Option) *Formatter {
	f := &Formatter{
		arena: a,
		conv:  DefaultConverter,
		decode: func(a *text.Arena, s []byte) (*text.Value, error) {
			return codec.DecodeASCII(a, s, "strict")
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type state struct {
	f      *Formatter
	tmpl   []uint16
	i      int
	b      *text.Builder
	out    []uint16
	p      int
	args   any
	tuple  Tuple
	arglen int
	argidx int
	dict   Mapping
}

// Format applies template to args. args is a Tuple of positional
// arguments, a Mapping for %(key)s directives, or a single argument.
func (f *Formatter) Format(template *text.Value, args any) (*text.Value, error) {
	st := &state{f: f, tmpl: template.Units()}
	st.setArgs(args)
	if m, ok := args.(Mapping); ok {
		st.dict = m
	}
	b, err := f.arena.New(len(st.tmpl) + 100)
	if err != nil {
		return nil, err
	}
	st.b, st.out = b, b.Units()
	if err := st.run(); err != nil {
		b.Discard()
		return nil, err
	}
	if st.argidx < st.arglen && st.dict == nil {
		b.Discard()
		return nil, text.Raise(text.TypeError, "not all arguments converted")
	}
	if st.p == 0 {
		b.Discard()
		return f.arena.Empty(), nil
	}
	if err := b.Resize(st.p); err != nil {
		b.Discard()
		return nil, err
	}
	return b.Finish(), nil
}

func (st *state) setArgs(args any) {
	st.args = args
	if t, ok := args.(Tuple); ok {
		st.tuple, st.arglen, st.argidx = t, len(t), 0
		return
	}
	st.setSingleArg(args)
}

// setSingleArg makes v the only argument, even when v is a Tuple.
func (st *state) setSingleArg(v any) {
	st.args, st.tuple, st.arglen, st.argidx = v, nil, -1, -2
}

func (st *state) nextArg() (any, error) {
	if st.argidx >= st.arglen {
		return nil, text.Raise(text.TypeError, "not enough arguments for format string")
	}
	st.argidx++
	if st.arglen < 0 {
		return st.args, nil
	}
	return st.tuple[st.argidx-1], nil
}

// reserve makes room for n more units. Growth is sized on the rest of the
// template rather than doubling.
func (st *state) reserve(n int) error {
	if st.p+n <= len(st.out) {
		return nil
	}
	if err := st.b.Resize(st.p + n + len(st.tmpl) - st.i + 100); err != nil {
		return err
	}
	st.out = st.b.Units()
	return nil
}

func (st *state) put(units ...uint16) {
	st.p += copy(st.out[st.p:], units)
}

func (st *state) run() error {
	for st.i < len(st.tmpl) {
		c := st.tmpl[st.i]
		st.i++
		if c != '%' {
			if err := st.reserve(1); err != nil {
				return err
			}
			st.put(c)
			continue
		}
		if err := st.directive(); err != nil {
			return err
		}
	}
	return nil
}

func (st *state) peek() (uint16, bool) {
	if st.i >= len(st.tmpl) {
		return 0, false
	}
	return st.tmpl[st.i], true
}

func (st *state) directive() error {
	if c, ok := st.peek(); ok && c == '(' {
		if err := st.mappingKey(); err != nil {
			return err
		}
	}
	flags := st.flags()
	width, err := st.number(true)
	if err != nil {
		return err
	}
	if width < 0 {
		flags |= flagLJust
		width = -width
	}
	prec := -1
	if c, ok := st.peek(); ok && c == '.' {
		st.i++
		if prec, err = st.number(false); err != nil {
			return err
		}
		if prec < 0 {
			prec = 0
		}
	}
	if c, ok := st.peek(); ok && (c == 'h' || c == 'l' || c == 'L') {
		st.i++
	}
	c, ok := st.peek()
	if !ok {
		return text.Raise(text.ValueError, "incomplete format")
	}
	st.i++

	var arg any
	if c != '%' {
		if arg, err = st.nextArg(); err != nil {
			return err
		}
	}
	fill := uint16(' ')
	signed := false
	var body []uint16
	switch c {
	case '%':
		body = []uint16{'%'}
	case 's', 'r':
		if body, err = st.f.strUnits(arg, c == 'r'); err != nil {
			return err
		}
		if prec >= 0 && len(body) > prec {
			body = body[:prec]
		}
	case 'i', 'd', 'u', 'o', 'x', 'X':
		if c == 'i' {
			c = 'd'
		}
		x, big, err := toInteger(arg)
		if err != nil {
			return err
		}
		if big != nil {
			body = formatLong(big, flags, prec, c)
			// Unbounded integers may always carry a sign.
			signed = true
		} else {
			if body, err = formatInt(x, flags, prec, c); err != nil {
				return err
			}
			signed = c == 'd'
		}
		if flags&flagZero != 0 {
			fill = '0'
		}
	case 'e', 'E', 'f', 'g', 'G':
		x, err := toFloat(arg)
		if err != nil {
			return err
		}
		if body, err = formatFloat(x, flags, prec, c); err != nil {
			return err
		}
		signed = true
		if flags&flagZero != 0 {
			fill = '0'
		}
	case 'c':
		if body, err = formatChar(arg); err != nil {
			return err
		}
	default:
		return text.Raisef(text.ValueError, "unsupported format character '%c' (0x%x) at index %d", rune(c), c, st.i-1)
	}
	if err := st.emit(c, flags, width, body, signed, fill); err != nil {
		return err
	}
	if st.dict != nil && st.argidx < st.arglen && c != '%' {
		return text.Raise(text.TypeError, "not all arguments converted")
	}
	return nil
}

// mappingKey consumes a parenthesized key, which may itself contain
// balanced parentheses, and makes the mapped value the only argument.
func (st *state) mappingKey() error {
	if st.dict == nil {
		return text.Raise(text.TypeError, "format requires a mapping")
	}
	st.i++
	start, depth := st.i, 1
	for depth > 0 && st.i < len(st.tmpl) {
		switch st.tmpl[st.i] {
		case ')':
			depth--
		case '(':
			depth++
		}
		st.i++
	}
	if depth > 0 {
		return text.Raise(text.ValueError, "incomplete format key")
	}
	key := string(utf16.Decode(st.tmpl[start : st.i-1]))
	v, ok, err := st.dict.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return text.Raise(text.KeyError, key)
	}
	st.setSingleArg(v)
	return nil
}

func (st *state) flags() int {
	flags := 0
	for {
		c, ok := st.peek()
		if !ok {
			return flags
		}
		switch c {
		case '-':
			flags |= flagLJust
		case '+':
			flags |= flagSign
		case ' ':
			flags |= flagBlank
		case '#':
			flags |= flagAlt
		case '0':
			flags |= flagZero
		default:
			return flags
		}
		st.i++
	}
}

// number reads a width (or a precision) made of digits or a '*' taking the
// next argument. A missing number reads as 0.
func (st *state) number(isWidth bool) (int, error) {
	c, ok := st.peek()
	if ok && c == '*' {
		st.i++
		arg, err := st.nextArg()
		if err != nil {
			return 0, err
		}
		n, ok := machineInt(arg)
		if !ok {
			return 0, text.Raise(text.TypeError, "* wants int")
		}
		return int(n), nil
	}
	n := 0
	for ok && c >= '0' && c <= '9' {
		d := int(c - '0')
		if n > (maxWidth-d)/10 {
			if isWidth {
				return 0, text.Raise(text.ValueError, "width too big")
			}
			return 0, text.Raise(text.ValueError, "prec too big")
		}
		n = n*10 + d
		st.i++
		c, ok = st.peek()
	}
	return n, nil
}

// emit writes one converted directive. The sign goes before zero padding
// but after space padding, and a 0x prefix is placed the same way.
func (st *state) emit(c uint16, flags, width int, body []uint16, signed bool, fill uint16) error {
	var sign uint16
	if signed {
		switch {
		case len(body) > 0 && (body[0] == '-' || body[0] == '+'):
			sign, body = body[0], body[1:]
		case flags&flagSign != 0:
			sign = '+'
		case flags&flagBlank != 0:
			sign = ' '
		}
	}
	n := len(body)
	if width < n {
		width = n
	}
	need := width
	if sign != 0 {
		need++
	}
	if err := st.reserve(need); err != nil {
		return err
	}
	if sign != 0 {
		if fill != ' ' {
			st.put(sign)
		}
		if width > n {
			width--
		}
	}
	var prefix []uint16
	if flags&flagAlt != 0 && (c == 'x' || c == 'X') {
		prefix, body = body[:2], body[2:]
		if fill != ' ' {
			st.put(prefix...)
		}
		width -= 2
		if width < 0 {
			width = 0
		}
		n -= 2
	}
	if flags&flagLJust == 0 {
		for ; width > n; width-- {
			st.put(fill)
		}
	}
	if fill == ' ' {
		if sign != 0 {
			st.put(sign)
		}
		st.put(prefix...)
	}
	st.put(body...)
	for ; width > n; width-- {
		st.put(' ')
	}
	return nil
}

func (f *Formatter) strUnits(arg any, repr bool) ([]uint16, error) {
	var b []byte
	var err error
	switch v, isText := arg.(*text.Value); {
	case isText && !repr:
		return v.Units(), nil
	case isText:
		b = codec.Repr(v.Units())
	case repr:
		b, err = f.conv.Repr(arg)
	default:
		b, err = f.conv.Str(arg)
	}
	if err != nil {
		return nil, err
	}
	v, err := f.decode(f.arena, b)
	if err != nil {
		return nil, err
	}
	return v.Units(), nil
}

func formatChar(arg any) ([]uint16, error) {
	switch v := arg.(type) {
	case *text.Value:
		if v.Len() == 1 {
			return v.Units(), nil
		}
	case []byte:
		if len(v) == 1 {
			return []uint16{uint16(v[0])}, nil
		}
	case string:
		if len(v) == 1 {
			return []uint16{uint16(v[0])}, nil
		}
	default:
		if x, ok := machineInt(arg); ok {
			return []uint16{uint16(x)}, nil
		}
	}
	return nil, text.Raise(text.TypeError, "%c requires int or char")
}
