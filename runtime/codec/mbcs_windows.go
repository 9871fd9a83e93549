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

//go:build windows

package codec

import (
	"unsafe"

	"github.com/grumpyhq/ucs2/runtime/text"
	"golang.org/x/sys/windows"
)

// cpACP is the system's ANSI code page.
const cpACP = 0

var procWideCharToMultiByte = windows.NewLazySystemDLL("kernel32.dll").NewProc("WideCharToMultiByte")

func wideCharToMultiByte(wchar []uint16, str []byte) (int32, error) {
	var out uintptr
	if len(str) > 0 {
		out = uintptr(unsafe.Pointer(&str[0]))
	}
	r, _, err := procWideCharToMultiByte.Call(cpACP, 0,
		uintptr(unsafe.Pointer(&wchar[0])), uintptr(len(wchar)),
		out, uintptr(len(str)), 0, 0)
	if r == 0 {
		return 0, err
	}
	return int32(r), nil
}

func registerPlatform(r *Registry) {
	r.Register(New("MBCS", DecodeMBCS, EncodeMBCS), "mbcs", "dbcs")
}

// DecodeMBCS decodes s from the ANSI code page. The error mode is ignored:
// the conversion either succeeds or fails with an OSError.
func DecodeMBCS(a *text.Arena, s []byte, _ string) (*text.Value, error) {
	if len(s) == 0 {
		return a.Empty(), nil
	}
	n, err := windows.MultiByteToWideChar(cpACP, 0, &s[0], int32(len(s)), nil, 0)
	if n == 0 {
		return nil, text.Raisef(text.OSError, "%v", err)
	}
	b, err := a.New(int(n))
	if err != nil {
		return nil, err
	}
	dst := b.Units()
	if _, err := windows.MultiByteToWideChar(cpACP, 0, &s[0], int32(len(s)), &dst[0], n); err != nil {
		b.Discard()
		return nil, text.Raisef(text.OSError, "%v", err)
	}
	return b.Finish(), nil
}

// EncodeMBCS encodes units to the ANSI code page. Unmappable units get the
// code page's default character.
func EncodeMBCS(units []uint16, _ string) ([]byte, error) {
	if len(units) == 0 {
		return []byte{}, nil
	}
	n, err := wideCharToMultiByte(units, nil)
	if err != nil {
		return nil, text.Raisef(text.OSError, "%v", err)
	}
	out := make([]byte, n)
	if _, err := wideCharToMultiByte(units, out); err != nil {
		return nil, text.Raisef(text.OSError, "%v", err)
	}
	return out, nil
}
