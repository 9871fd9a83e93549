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

package format

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/grumpyhq/ucs2/runtime/text"
)

// machineInt returns arg as an int64 when it has a Go integer kind.
func machineInt(arg any) (int64, bool) {
	if arg == nil {
		return 0, false
	}
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

// toInteger converts arg for an integer directive. Values outside the
// int64 range come back as a non-nil *big.Int. Floats are truncated.
func toInteger(arg any) (int64, *big.Int, error) {
	if x, ok := machineInt(arg); ok {
		return x, nil, nil
	}
	if b, ok := arg.(*big.Int); ok {
		if b.IsInt64() {
			return b.Int64(), nil, nil
		}
		return 0, b, nil
	}
	if arg == nil {
		return 0, nil, text.Raise(text.TypeError, "an integer is required")
	}
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return 0, new(big.Int).SetUint64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := math.Trunc(v.Float())
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, nil, text.Raise(text.OverflowError, "float too large to convert")
		}
		if f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil, nil
		}
		b, _ := big.NewFloat(f).Int(nil)
		return 0, b, nil
	}
	return 0, nil, text.Raise(text.TypeError, "an integer is required")
}

func toFloat(arg any) (float64, error) {
	if x, ok := machineInt(arg); ok {
		return float64(x), nil
	}
	switch x := arg.(type) {
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, nil
	case nil:
		return 0, text.Raise(text.TypeError, "float argument required")
	}
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), nil
	}
	return 0, text.Raise(text.TypeError, "float argument required")
}

// formatInt renders a machine integer the way C's "%#.<prec>l<c>" does:
// u, o and x treat negative values as unsigned.
func formatInt(x int64, flags, prec int, c uint16) ([]uint16, error) {
	if prec < 0 {
		prec = 1
	}
	if formatBufLen <= 2+prec {
		return nil, text.Raise(text.OverflowError, "formatted integer is too long (precision too long?)")
	}
	neg := false
	var digits string
	switch c {
	case 'd':
		if x < 0 {
			neg = true
			digits = strconv.FormatUint(uint64(-(x+1))+1, 10)
		} else {
			digits = strconv.FormatUint(uint64(x), 10)
		}
	case 'u':
		digits = strconv.FormatUint(uint64(x), 10)
	case 'o':
		digits = strconv.FormatUint(uint64(x), 8)
	default:
		digits = strconv.FormatUint(uint64(x), 16)
	}
	if x == 0 && prec == 0 {
		digits = ""
	}
	return intBody(neg, digits, flags, prec, c), nil
}

// formatLong renders an integer too large for int64. The sign is always
// kept, so u behaves like d.
func formatLong(b *big.Int, flags, prec int, c uint16) []uint16 {
	base := 10
	switch c {
	case 'o':
		base = 8
	case 'x', 'X':
		base = 16
	}
	return intBody(b.Sign() < 0, new(big.Int).Abs(b).Text(base), flags, prec, c)
}

func intBody(neg bool, digits string, flags, prec int, c uint16) []uint16 {
	if len(digits) < prec {
		digits = strings.Repeat("0", prec-len(digits)) + digits
	}
	prefix := ""
	if neg {
		prefix = "-"
	}
	if flags&flagAlt != 0 {
		switch c {
		case 'o':
			if digits == "" || digits[0] != '0' {
				digits = "0" + digits
			}
		case 'x':
			prefix += "0x"
		case 'X':
			prefix += "0X"
		}
	}
	if c == 'X' {
		digits = strings.ToUpper(digits)
	}
	return asciiUnits(prefix + digits)
}

// formatFloat renders x the way C's "%#.<prec><c>" does. %f switches to %g
// for magnitudes of 1e50 and above.
func formatFloat(x float64, flags, prec int, c uint16) ([]uint16, error) {
	if prec < 0 {
		prec = 6
	}
	if formatBufLen <= 10+prec {
		return nil, text.Raise(text.OverflowError, "formatted float is too long (precision too long?)")
	}
	if c == 'f' && math.Abs(x)/1e25 >= 1e25 {
		c = 'g'
	}
	var s string
	switch {
	case math.IsNaN(x):
		s = "nan"
	case math.IsInf(x, 1):
		s = "inf"
	case math.IsInf(x, -1):
		s = "-inf"
	default:
		verb := "%"
		if flags&flagAlt != 0 {
			verb += "#"
		}
		s = fmt.Sprintf(verb+"."+strconv.Itoa(prec)+string(rune(c)), x)
	}
	if c == 'E' || c == 'G' {
		s = strings.ToUpper(s)
	}
	return asciiUnits(s), nil
}

func asciiUnits(s string) []uint16 {
	u := make([]uint16, len(s))
	for i := 0; i < len(s); i++ {
		u[i] = uint16(s[i])
	}
	return u
}

// DefaultConverter converts Go values the way the legacy str() and repr()
// render the corresponding built in types.
var DefaultConverter Converter = defaultConverter{}

type defaultConverter struct{}

func (defaultConverter) Str(arg any) ([]byte, error) {
	switch x := arg.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case *text.Value:
		return []byte(string(utf16.Decode(x.Units()))), nil
	}
	return []byte(scalarString(arg, false)), nil
}

func (defaultConverter) Repr(arg any) ([]byte, error) {
	switch x := arg.(type) {
	case []byte:
		return quoteBytes(x), nil
	case string:
		return quoteBytes([]byte(x)), nil
	case *big.Int:
		return []byte(x.String() + "L"), nil
	}
	return []byte(scalarString(arg, true)), nil
}

func scalarString(arg any, repr bool) string {
	switch x := arg.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float32:
		return floatString(float64(x), repr)
	case float64:
		return floatString(x, repr)
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	}
	if n, ok := machineInt(arg); ok {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(arg)
}

// floatString uses 12 significant digits for str() and 17 for repr(), and
// always shows a fractional part.
func floatString(x float64, repr bool) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	prec := 12
	if repr {
		prec = 17
	}
	s := strconv.FormatFloat(x, 'g', prec, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func quoteBytes(b []byte) []byte {
	quote := byte('\'')
	if strings.IndexByte(string(b), '\'') >= 0 && strings.IndexByte(string(b), '"') < 0 {
		quote = '"'
	}
	out := []byte{quote}
	for _, c := range b {
		switch {
		case c == quote || c == '\\':
			out = append(out, '\\', c)
		case c == '\t':
			out = append(out, '\\', 't')
		case c == '\n':
			out = append(out, '\\', 'n')
		case c == '\r':
			out = append(out, '\\', 'r')
		case c < ' ' || c >= 0x7F:
			out = append(out, fmt.Sprintf("\\x%02x", c)...)
		default:
			out = append(out, c)
		}
	}
	return append(out, quote)
}
