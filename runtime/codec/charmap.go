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

//go:generate mockgen -source=charmap.go -destination=mocks/mock_charmap.go -package=mocks

import (
	"github.com/grumpyhq/ucs2/runtime/errpolicy"
	"github.com/grumpyhq/ucs2/runtime/text"
)

// TargetKind tells what a charmap entry maps its key to.
type TargetKind int

const (
	// Undefined marks the key as unmappable. Hitting it goes through the
	// error policy.
	Undefined TargetKind = iota
	// Code maps the key to a single integer code.
	Code
	// Units maps the key to a sequence of code units. Only sequences of
	// length one are supported.
	Units
)

// Target is the value a Mapping yields for a key.
type Target struct {
	Kind  TargetKind
	Code  int
	Units []uint16
}

// CodeTarget returns a Target mapping to the integer c.
func CodeTarget(c int) Target {
	return Target{Kind: Code, Code: c}
}

// UnitsTarget returns a Target mapping to the units u.
func UnitsTarget(u ...uint16) Target {
	return Target{Kind: Units, Units: u}
}

// UndefinedTarget maps a key to nothing.
var UndefinedTarget = Target{Kind: Undefined}

// Mapping is the table consulted by the charmap codec. Lookup reports
// found == false for keys the table does not contain, which the codec
// treats differently from keys mapped to Undefined.
type Mapping interface {
	Lookup(key int) (t Target, found bool, err error)
}

// MapTable is a Mapping held in a Go map.
type MapTable map[int]Target

// Lookup implements Mapping.
func (m MapTable) Lookup(key int) (Target, bool, error) {
	t, ok := m[key]
	return t, ok, nil
}

const (
	errUndefined       = "character maps to <undefined>"
	errMissingMapping  = "missing character mapping"
	errDecodeRange     = "character mapping must be in range(65536)"
	errEncodeRange     = "character mapping must be in range(256)"
	errOneToManyMapped = "1-n mappings are currently not implemented"
)

// DecodeCharmap decodes s by looking up every byte in m. Bytes missing from
// m decode as Latin-1, and a nil m decodes all of s as Latin-1.
func DecodeCharmap(a *text.Arena, s []byte, errors string, m Mapping) (*text.Value, error) {
	if m == nil {
		return DecodeLatin1(a, s)
	}
	b, err := a.New(len(s))
	if err != nil {
		return nil, err
	}
	h := errpolicy.NewDecodeHandler("charmap", errors)
	dst := b.Units()
	p := 0
	for i, c := range s {
		u, ok, err := mapUnit(m, int(c), 0xFFFF, errDecodeRange)
		if err != nil {
			b.Discard()
			return nil, err
		}
		if ok {
			dst[p] = u
			p++
			continue
		}
		act, err := h.Handle(errUndefined, i)
		if err != nil {
			b.Discard()
			return nil, err
		}
		if act == errpolicy.Substitute {
			dst[p] = errpolicy.DecodeSubstitute
			p++
		}
	}
	return finish(a, b, p)
}

// EncodeCharmap encodes units by looking up every unit in m. Units missing
// from m encode as Latin-1 when they are below 256. A nil m encodes as
// Latin-1.
func EncodeCharmap(units []uint16, errors string, m Mapping) ([]byte, error) {
	if m == nil {
		return EncodeLatin1(units, errors)
	}
	out := make([]byte, 0, len(units))
	h := errpolicy.NewEncodeHandler("charmap", errors)
	for i, ch := range units {
		t, found, err := m.Lookup(int(ch))
		if err != nil {
			return nil, err
		}
		var reason string
		switch {
		case !found && ch < 256:
			out = append(out, byte(ch))
			continue
		case !found:
			reason = errMissingMapping
		case t.Kind == Undefined:
			reason = errUndefined
		default:
			c, err := targetUnit(t, 0xFF, errEncodeRange)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(c))
			continue
		}
		act, err := h.Handle(reason, i)
		if err != nil {
			return nil, err
		}
		if act == errpolicy.Substitute {
			out = append(out, errpolicy.EncodeSubstitute)
		}
	}
	return out, nil
}

// TranslateCharmap maps every unit of v through m. Units missing from m are
// copied unchanged.
func TranslateCharmap(a *text.Arena, v *text.Value, m Mapping, errors string) (*text.Value, error) {
	units := v.Units()
	b, err := a.New(len(units))
	if err != nil {
		return nil, err
	}
	h := errpolicy.NewTranslateHandler(errors)
	dst := b.Units()
	p := 0
	for i, ch := range units {
		u, ok, err := mapUnit(m, int(ch), 0xFFFF, errDecodeRange)
		if err != nil {
			b.Discard()
			return nil, err
		}
		if ok {
			dst[p] = u
			p++
			continue
		}
		act, err := h.Handle(errUndefined, i)
		if err != nil {
			b.Discard()
			return nil, err
		}
		if act == errpolicy.Substitute {
			dst[p] = uint16(errpolicy.EncodeSubstitute)
			p++
		}
	}
	return finish(a, b, p)
}

// mapUnit looks key up in m. ok is false when key maps to Undefined; a key
// missing from m maps to itself.
func mapUnit(m Mapping, key int, limit int, rangeMsg string) (u uint16, ok bool, err error) {
	t, found, err := m.Lookup(key)
	if err != nil {
		return 0, false, err
	}
	if !found {
		return uint16(key), true, nil
	}
	if t.Kind == Undefined {
		return 0, false, nil
	}
	c, err := targetUnit(t, limit, rangeMsg)
	if err != nil {
		return 0, false, err
	}
	return uint16(c), true, nil
}

func targetUnit(t Target, limit int, rangeMsg string) (int, error) {
	if t.Kind == Code {
		if t.Code < 0 || t.Code > limit {
			return 0, text.Raise(text.TypeError, rangeMsg)
		}
		return t.Code, nil
	}
	if len(t.Units) != 1 {
		return 0, text.Raise(text.NotImplementedError, errOneToManyMapped)
	}
	if int(t.Units[0]) > limit {
		return 0, text.Raise(text.TypeError, rangeMsg)
	}
	return int(t.Units[0]), nil
}
