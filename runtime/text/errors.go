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

import "fmt"

// Kind identifies the class of an Exception. Kinds form a small hierarchy
// mirroring the Python exception classes the text engine raises, so that
// errors.Is(err, ValueError) also matches a UnicodeDecodeError.
type Kind int

const (
	// MemoryError corresponds to the Python type 'MemoryError'.
	MemoryError Kind = iota
	// SystemError corresponds to the Python type 'SystemError'.
	SystemError
	// TypeError corresponds to the Python type 'TypeError'.
	TypeError
	// ValueError corresponds to the Python type 'ValueError'.
	ValueError
	// UnicodeError corresponds to the Python type 'UnicodeError'.
	UnicodeError
	// UnicodeDecodeError corresponds to the Python type
	// 'UnicodeDecodeError'.
	UnicodeDecodeError
	// UnicodeEncodeError corresponds to the Python type
	// 'UnicodeEncodeError'.
	UnicodeEncodeError
	// LookupError corresponds to the Python type 'LookupError'.
	LookupError
	// IndexError corresponds to the Python type 'IndexError'.
	IndexError
	// KeyError corresponds to the Python type 'KeyError'.
	KeyError
	// ArithmeticError corresponds to the Python type 'ArithmeticError'.
	ArithmeticError
	// OverflowError corresponds to the Python type 'OverflowError'.
	OverflowError
	// RuntimeError corresponds to the Python type 'RuntimeError'.
	RuntimeError
	// NotImplementedError corresponds to the Python type
	// 'NotImplementedError'.
	NotImplementedError
	// OSError corresponds to the Python type 'OSError'.
	OSError
)

var kindNames = [...]string{
	MemoryError:         "MemoryError",
	SystemError:         "SystemError",
	TypeError:           "TypeError",
	ValueError:          "ValueError",
	UnicodeError:        "UnicodeError",
	UnicodeDecodeError:  "UnicodeDecodeError",
	UnicodeEncodeError:  "UnicodeEncodeError",
	LookupError:         "LookupError",
	IndexError:          "IndexError",
	KeyError:            "KeyError",
	ArithmeticError:     "ArithmeticError",
	OverflowError:       "OverflowError",
	RuntimeError:        "RuntimeError",
	NotImplementedError: "NotImplementedError",
	OSError:             "OSError",
}

// kindBases maps each Kind to its base class. Kinds absent from the map
// have no base within the text engine.
var kindBases = map[Kind]Kind{
	UnicodeError:        ValueError,
	UnicodeDecodeError:  UnicodeError,
	UnicodeEncodeError:  UnicodeError,
	IndexError:          LookupError,
	KeyError:            LookupError,
	OverflowError:       ArithmeticError,
	NotImplementedError: RuntimeError,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error makes a Kind usable as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// IsSubclass reports whether k is base or derives from it.
func (k Kind) IsSubclass(base Kind) bool {
	for {
		if k == base {
			return true
		}
		parent, ok := kindBases[k]
		if !ok {
			return false
		}
		k = parent
	}
}

// Exception is an error raised by the text engine. It carries the Kind of
// failure and a message formatted the way the Python runtime reports it.
type Exception struct {
	Kind Kind
	Msg  string
}

// Raise returns a new Exception of the given kind.
func Raise(k Kind, msg string) error {
	return &Exception{Kind: k, Msg: msg}
}

// Raisef is Raise with a format string.
func Raisef(k Kind, format string, args ...any) error {
	return &Exception{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func (e *Exception) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Msg
}

// Is matches Kind targets along the exception hierarchy.
func (e *Exception) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind.IsSubclass(k)
}

const errBadInternalCall = "bad argument to internal function"
