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

// Package ucs2 ties the text engine together: it owns an Arena and a codec
// Registry, keeps the default encoding, and converts between text values,
// byte strings and other Go values.
package ucs2

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/grumpyhq/ucs2/runtime/codec"
	"github.com/grumpyhq/ucs2/runtime/format"
	"github.com/grumpyhq/ucs2/runtime/text"
	"github.com/grumpyhq/ucs2/runtime/ustr"
	"go.trai.ch/zerr"
)

const (
	// DefaultEncoding is the default encoding after Init.
	DefaultEncoding = "ascii"
	// maxEncodingName bounds the length of the default encoding name.
	maxEncodingName = 100
)

var (
	// ErrNotInitialized is returned by a Subsystem used after Teardown.
	ErrNotInitialized = zerr.New("text subsystem is not initialized")
	// ErrEncodingNameTooLong is returned by SetDefaultEncoding for names of
	// 100 bytes or more.
	ErrEncodingNameTooLong = zerr.New("encoding name too long")
)

// Option configures a Subsystem.
type Option func(*Subsystem)

// WithArenaOptions sets the allocator limits.
func WithArenaOptions(opts text.Options) Option {
	return func(s *Subsystem) { s.arenaOpts = opts }
}

// WithRegistry replaces the codec registry. The default holds the built in
// codecs.
func WithRegistry(r *codec.Registry) Option {
	return func(s *Subsystem) { s.registry = r }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Subsystem) { s.logger = l }
}

// WithConverter sets the str()/repr() provider used by Format.
func WithConverter(c format.Converter) Option {
	return func(s *Subsystem) { s.conv = c }
}

// Subsystem is an initialized text engine. It is safe for concurrent use.
type Subsystem struct {
	arenaOpts text.Options
	arena     *text.Arena
	registry  *codec.Registry
	logger    *slog.Logger
	conv      format.Converter
	formatter *format.Formatter

	mu              sync.RWMutex
	initialized     bool
	defaultEncoding string
}

// NewSubsystem returns an initialized Subsystem.
func NewSubsystem(opts ...Option) *Subsystem {
	s := &Subsystem{conv: format.DefaultConverter}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.registry == nil {
		s.registry = codec.NewRegistry(nil)
	}
	s.arena = text.NewArena(s.arenaOpts)
	s.formatter = format.New(s.arena, format.WithConverter(s.conv), format.WithDecoder(s.decodeDefault))
	s.Init()
	return s
}

// Init prepares the shared empty value and resets the default encoding. It
// does nothing on an initialized Subsystem.
func (s *Subsystem) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return
	}
	s.arena.Init()
	s.defaultEncoding = DefaultEncoding
	s.initialized = true
	s.logger.Debug("text subsystem initialized", "default_encoding", s.defaultEncoding)
}

// Teardown drains the free list and releases the shared empty value. Values
// created earlier stay valid; creating new ones fails until Init is called.
func (s *Subsystem) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	s.initialized = false
	stats := s.arena.Teardown()
	s.logger.Debug("text subsystem torn down",
		"reused", stats.Reused,
		"retired", stats.Retired,
		"dropped", stats.Dropped)
}

// Arena returns the allocator, for use with the ustr and codec packages.
func (s *Subsystem) Arena() *text.Arena {
	return s.arena
}

// Registry returns the codec registry.
func (s *Subsystem) Registry() *codec.Registry {
	return s.registry
}

func (s *Subsystem) checkInit() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	return nil
}

// DefaultEncoding returns the encoding used when none is named.
func (s *Subsystem) DefaultEncoding() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultEncoding
}

// SetDefaultEncoding makes name the default encoding. The name must resolve
// in the registry; on failure the previous default stays in effect.
func (s *Subsystem) SetDefaultEncoding(name string) error {
	if len(name) >= maxEncodingName {
		return zerr.With(zerr.Wrap(ErrEncodingNameTooLong, "set default encoding"), "encoding", name)
	}
	if _, err := s.registry.Lookup(name); err != nil {
		return zerr.With(zerr.Wrap(err, "set default encoding"), "encoding", name)
	}
	s.mu.Lock()
	prev := s.defaultEncoding
	s.defaultEncoding = name
	s.mu.Unlock()
	s.logger.Info("default encoding changed", "from", prev, "to", name)
	return nil
}

func (s *Subsystem) lookup(encoding string) (codec.Codec, error) {
	if encoding == "" {
		encoding = s.DefaultEncoding()
	}
	return s.registry.Lookup(encoding)
}

// FromUnits returns a new value holding a copy of units.
func (s *Subsystem) FromUnits(units []uint16) (*text.Value, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	return s.arena.FromUnits(units)
}

// FromWideChars returns a new value from 16-bit platform wide characters.
func (s *Subsystem) FromWideChars(w []uint16) (*text.Value, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	return s.arena.FromWideChars(w)
}

// FromString returns a new value holding the utf-8 string str.
func (s *Subsystem) FromString(str string) (*text.Value, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	return s.arena.FromString(str)
}

// Decode decodes b with the named codec. An empty encoding means the default
// encoding and an empty errors means strict.
func (s *Subsystem) Decode(b []byte, encoding, errors string) (*text.Value, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	c, err := s.lookup(encoding)
	if err != nil {
		return nil, err
	}
	v, err := c.Decode(s.arena, b, errors)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, text.Raisef(text.TypeError, "decoder did not return an unicode object (type=%s)", c.Name())
	}
	return v, nil
}

func (s *Subsystem) decodeDefault(_ *text.Arena, b []byte) (*text.Value, error) {
	return s.Decode(b, "", "strict")
}

// Encode encodes v with the named codec. An empty encoding means the
// default encoding and an empty errors means strict.
func (s *Subsystem) Encode(v *text.Value, encoding, errors string) ([]byte, error) {
	c, err := s.lookup(encoding)
	if err != nil {
		return nil, err
	}
	return c.Encode(v.Units(), errors)
}

// DefaultEncoded returns v in the default encoding. The bytes are cached on
// v until the default encoding changes.
func (s *Subsystem) DefaultEncoded(v *text.Value) ([]byte, error) {
	encoding := s.DefaultEncoding()
	return v.DefaultEncoded(codec.NormalizeEncoding(encoding), func(v *text.Value) ([]byte, error) {
		return s.Encode(v, encoding, "strict")
	})
}

// FromObject coerces obj to text. Text values are returned as they are and
// byte strings are decoded; a non-empty encoding is only allowed for byte
// strings.
func (s *Subsystem) FromObject(obj any, encoding, errors string) (*text.Value, error) {
	var b []byte
	switch o := obj.(type) {
	case *text.Value:
		if encoding != "" {
			return nil, text.Raise(text.TypeError, "decoding Unicode is not supported")
		}
		return o, nil
	case []byte:
		b = o
	case string:
		b = []byte(o)
	default:
		return nil, text.Raisef(text.TypeError, "coercing to Unicode: need string or buffer, %s found", typeName(obj))
	}
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return s.arena.Empty(), nil
	}
	return s.Decode(b, encoding, errors)
}

func (s *Subsystem) coerce(obj any) (*text.Value, error) {
	return s.FromObject(obj, "", "")
}

// Compare coerces both operands to text and compares them unit by unit.
func (s *Subsystem) Compare(left, right any) (int, error) {
	l, err := s.coerce(left)
	if err != nil {
		return 0, err
	}
	r, err := s.coerce(right)
	if err != nil {
		return 0, err
	}
	return text.Compare(l, r), nil
}

// Concat coerces both operands to text and concatenates them.
func (s *Subsystem) Concat(left, right any) (*text.Value, error) {
	l, err := s.coerce(left)
	if err != nil {
		return nil, err
	}
	r, err := s.coerce(right)
	if err != nil {
		return nil, err
	}
	return ustr.Concat(s.arena, l, r)
}

// Join concatenates items separated by sep. A nil sep means a single
// space. Byte string items are decoded with the default encoding.
func (s *Subsystem) Join(sep any, items []any) (*text.Value, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	var sepV *text.Value
	if sep != nil {
		var err error
		if sepV, err = s.coerce(sep); err != nil {
			return nil, err
		}
	}
	return ustr.Join(s.arena, sepV, items, s.coerce)
}

// Format applies the %-template tmpl to args. See format.Formatter.Format.
func (s *Subsystem) Format(tmpl any, args any) (*text.Value, error) {
	if err := s.checkInit(); err != nil {
		return nil, err
	}
	t, err := s.coerce(tmpl)
	if err != nil {
		return nil, err
	}
	return s.formatter.Format(t, args)
}

func typeName(obj any) string {
	if obj == nil {
		return "NoneType"
	}
	return fmt.Sprintf("%T", obj)
}
