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

// Package codec converts between byte strings and text values. Each codec
// is available both as a pair of plain functions and as a Codec found by
// name through a Registry.
package codec

//go:generate mockgen -source=codec.go -destination=mocks/mock_codec.go -package=mocks

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/grumpyhq/ucs2/runtime/text"
)

// Codec converts in both directions between bytes and text values.
type Codec interface {
	// Name returns the codec's display name, e.g. "UTF-8".
	Name() string
	Decode(a *text.Arena, s []byte, errors string) (*text.Value, error)
	Encode(units []uint16, errors string) ([]byte, error)
}

// SearchFunc resolves a normalized encoding name that is not registered.
type SearchFunc func(name string) (Codec, bool)

type funcCodec struct {
	name   string
	decode func(a *text.Arena, s []byte, errors string) (*text.Value, error)
	encode func(units []uint16, errors string) ([]byte, error)
}

func (c *funcCodec) Name() string { return c.name }

func (c *funcCodec) Decode(a *text.Arena, s []byte, errors string) (*text.Value, error) {
	return c.decode(a, s, errors)
}

func (c *funcCodec) Encode(units []uint16, errors string) ([]byte, error) {
	return c.encode(units, errors)
}

// New returns a Codec from a pair of functions.
func New(name string, decode func(a *text.Arena, s []byte, errors string) (*text.Value, error), encode func(units []uint16, errors string) ([]byte, error)) Codec {
	return &funcCodec{name: name, decode: decode, encode: encode}
}

// NewCharsetCodec returns a Codec for a single byte charset.
func NewCharsetCodec(name string, cs *Charset) Codec {
	return New(name, cs.Decode, cs.Encode)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeEncoding folds an encoding name to the form used as a registry
// key: lower case with everything but letters and digits removed, so that
// "UTF-8", "utf_8" and "utf8" are the same name.
func NormalizeEncoding(name string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(name), "")
}

// Registry maps encoding names to codecs. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec
	search []SearchFunc
}

// NewRegistry returns a Registry holding the built in codecs. names resolves
// \N{...} escapes for the unicode-escape codec; nil means DefaultNames.
func NewRegistry(names NameLookup) *Registry {
	r := &Registry{codecs: map[string]Codec{}}
	r.registerBuiltins(names)
	return r
}

func (r *Registry) registerBuiltins(names NameLookup) {
	utf8Codec := New("UTF-8", DecodeUTF8, func(units []uint16, _ string) ([]byte, error) {
		return EncodeUTF8(units), nil
	})
	r.Register(utf8Codec, "utf-8", "utf8", "u8", "utf")
	r.Register(utf16Codec("UTF-16", NativeOrder), "utf-16", "u16")
	r.Register(utf16Codec("UTF-16-LE", LittleEndian), "utf-16-le")
	r.Register(utf16Codec("UTF-16-BE", BigEndian), "utf-16-be")
	r.Register(New("Unicode-Escape",
		func(a *text.Arena, s []byte, errors string) (*text.Value, error) {
			return DecodeUnicodeEscape(a, s, errors, names)
		},
		func(units []uint16, _ string) ([]byte, error) {
			return EncodeUnicodeEscape(units), nil
		}), "unicode-escape")
	r.Register(New("Raw-Unicode-Escape", DecodeRawUnicodeEscape, func(units []uint16, _ string) ([]byte, error) {
		return EncodeRawUnicodeEscape(units), nil
	}), "raw-unicode-escape")
	r.Register(New("Latin-1",
		func(a *text.Arena, s []byte, _ string) (*text.Value, error) {
			return DecodeLatin1(a, s)
		}, EncodeLatin1), "latin-1", "latin1", "latin", "iso-8859-1", "l1", "cp819")
	r.Register(New("ASCII", DecodeASCII, EncodeASCII), "ascii", "us-ascii", "646")
	r.Register(New("charmap",
		func(a *text.Arena, s []byte, errors string) (*text.Value, error) {
			return DecodeCharmap(a, s, errors, nil)
		},
		func(units []uint16, errors string) ([]byte, error) {
			return EncodeCharmap(units, errors, nil)
		}), "charmap")
	for name, cm := range StandardCharsets {
		r.Register(NewCharsetCodec(name, CharsetFromTable(cm)), name)
	}
	registerPlatform(r)
}

func utf16Codec(name string, order ByteOrder) Codec {
	return New(name,
		func(a *text.Arena, s []byte, errors string) (*text.Value, error) {
			v, _, err := DecodeUTF16(a, s, errors, order)
			return v, err
		},
		func(units []uint16, _ string) ([]byte, error) {
			return EncodeUTF16(units, order), nil
		})
}

// Register adds c under each of names, replacing earlier registrations.
func (r *Registry) Register(c Codec, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.codecs[NormalizeEncoding(name)] = c
	}
}

// AddSearch appends a search function consulted, in order, for names that
// are not registered.
func (r *Registry) AddSearch(f SearchFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.search = append(r.search, f)
}

// Lookup returns the codec registered under name. A codec found by a search
// function is registered under name for later lookups.
func (r *Registry) Lookup(name string) (Codec, error) {
	key := NormalizeEncoding(name)
	r.mu.RLock()
	c, ok := r.codecs[key]
	search := r.search
	r.mu.RUnlock()
	if ok {
		return c, nil
	}
	for _, f := range search {
		if c, ok := f(key); ok {
			r.Register(c, key)
			return c, nil
		}
	}
	return nil, text.Raisef(text.LookupError, "unknown encoding: %s", name)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
