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

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	cases := []struct {
		name       string
		args       []string
		stdin      string
		wantExit   int
		wantOut    string
		wantStderr string
	}{
		{
			name:     "version",
			args:     []string{"version"},
			wantExit: 0,
			wantOut:  "dev\n",
		},
		{
			name:     "decode latin-1",
			args:     []string{"-e", "latin-1", "decode"},
			stdin:    "caf\xe9",
			wantExit: 0,
			wantOut:  "café",
		},
		{
			name:       "strict decode error",
			args:       []string{"decode"},
			stdin:      "\xff",
			wantExit:   1,
			wantStderr: "ordinal not in range(128)",
		},
		{
			name:       "missing config",
			args:       []string{"-c", filepath.Join(t.TempDir(), "nope.yaml"), "version"},
			wantExit:   1,
			wantStderr: "Error: failed to read config file",
		},
		{
			name:       "unknown command",
			args:       []string{"frobnicate"},
			wantExit:   1,
			wantStderr: "unknown command",
		},
	}
	for _, cas := range cases {
		t.Run(cas.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			code := run(cas.args, strings.NewReader(cas.stdin), &out, &errOut)
			assert.Equal(t, cas.wantExit, code)
			if cas.wantOut != "" {
				assert.Equal(t, cas.wantOut, out.String())
			}
			if cas.wantStderr != "" {
				assert.Contains(t, errOut.String(), cas.wantStderr)
			}
		})
	}
}
