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

// Package errpolicy resolves the error handling mode passed to codecs into
// the action a codec takes on a bad byte or code unit.
package errpolicy

import (
	"fmt"

	"github.com/grumpyhq/ucs2/runtime/text"
)

// Error handling modes that dictate the behavior of decoders and encoders
// when they encounter bad input.
const (
	// Strict causes a CodecError to be returned on bad input.
	Strict = "strict"
	// Replace substitutes U+FFFD when decoding and '?' when encoding.
	Replace = "replace"
	// Ignore discards bad input.
	Ignore = "ignore"
)

const (
	// DecodeSubstitute is the unit emitted by decoders under Replace.
	DecodeSubstitute uint16 = 0xFFFD
	// EncodeSubstitute is the byte emitted by encoders under Replace.
	EncodeSubstitute byte = '?'
)

// Policy is a resolved error handling mode.
type Policy int

const (
	// PolicyStrict aborts the conversion.
	PolicyStrict Policy = iota
	// PolicyIgnore skips the bad input.
	PolicyIgnore
	// PolicyReplace skips the bad input and emits a substitute.
	PolicyReplace
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return Strict
	case PolicyIgnore:
		return Ignore
	case PolicyReplace:
		return Replace
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Parse resolves a mode name. The empty name means strict. ok is false for
// names that are not recognized.
func Parse(name string) (p Policy, ok bool) {
	switch name {
	case "", Strict:
		return PolicyStrict, true
	case Ignore:
		return PolicyIgnore, true
	case Replace:
		return PolicyReplace, true
	}
	return PolicyStrict, false
}

// Direction tells whether a codec is decoding or encoding.
type Direction int

const (
	// Decode converts bytes to code units.
	Decode Direction = iota
	// Encode converts code units to bytes.
	Encode
	// Translate maps code units to code units.
	Translate
)

func (d Direction) String() string {
	switch d {
	case Encode:
		return "encoding"
	case Translate:
		return "translating"
	}
	return "decoding"
}

// Action is what a codec does after a non-fatal error.
type Action int

const (
	// Skip advances past the bad input and emits nothing.
	Skip Action = iota
	// Substitute advances past the bad input and emits DecodeSubstitute or
	// EncodeSubstitute.
	Substitute
)

// CodecError reports bad input found by a codec under the strict policy.
type CodecError struct {
	Direction Direction
	// Encoding is the codec's display name, e.g. "UTF-8".
	Encoding string
	// Reason describes the bad input, e.g. "unexpected end of data".
	Reason string
	// Position is the offset of the bad input in the source.
	Position int
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s %s error: %s", e.Encoding, e.Direction, e.Reason)
}

// Kind returns the exception kind of e.
func (e *CodecError) Kind() text.Kind {
	switch e.Direction {
	case Encode:
		return text.UnicodeEncodeError
	case Translate:
		return text.UnicodeError
	}
	return text.UnicodeDecodeError
}

// Is matches text.Kind targets so that errors.Is(err, text.UnicodeError)
// holds for codec errors.
func (e *CodecError) Is(target error) bool {
	k, ok := target.(text.Kind)
	return ok && e.Kind().IsSubclass(k)
}

// Handler resolves errors for one conversion. The mode name is only checked
// when an error actually occurs, so an unknown name is harmless on good
// input.
type Handler struct {
	Direction Direction
	Encoding  string
	Errors    string
}

// NewDecodeHandler returns a Handler for decoding with the named codec.
func NewDecodeHandler(encoding, errors string) Handler {
	return Handler{Direction: Decode, Encoding: encoding, Errors: errors}
}

// NewEncodeHandler returns a Handler for encoding with the named codec.
func NewEncodeHandler(encoding, errors string) Handler {
	return Handler{Direction: Encode, Encoding: encoding, Errors: errors}
}

// NewTranslateHandler returns a Handler for mapping units through a table.
func NewTranslateHandler(errors string) Handler {
	return Handler{Direction: Translate, Encoding: "charmap", Errors: errors}
}

// Handle decides what to do about bad input at position pos. It returns a
// *CodecError under the strict policy and a ValueError for unknown modes.
func (h Handler) Handle(reason string, pos int) (Action, error) {
	p, ok := Parse(h.Errors)
	if !ok {
		return Skip, text.Raisef(text.ValueError, "%s %s error; unknown error handling code: %.400s", h.Encoding, h.Direction, h.Errors)
	}
	switch p {
	case PolicyIgnore:
		return Skip, nil
	case PolicyReplace:
		return Substitute, nil
	}
	return Skip, &CodecError{Direction: h.Direction, Encoding: h.Encoding, Reason: reason, Position: pos}
}
