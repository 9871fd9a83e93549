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

package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/grumpyhq/ucs2/internal/config"
	"github.com/grumpyhq/ucs2/runtime/codec"
	"github.com/grumpyhq/ucs2/runtime/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(""), ".")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "ascii", cfg.DefaultEncoding)
	assert.Equal(t, "strict", cfg.Errors)
	assert.Equal(t, text.DefaultOptions(), cfg.Arena)
}

func TestParseFull(t *testing.T) {
	data := []byte(`
default_encoding: utf-8
errors: replace
max_units: 4096
free_list:
  max_size: 16
  keep_alive: 4
log:
  level: debug
  json: true
charmaps:
  - name: tiny
    decode:
      0x41: 0x3b1
      0x42: ~
`)
	cfg, err := config.Parse(data, ".")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", cfg.DefaultEncoding)
	assert.Equal(t, "replace", cfg.Errors)
	assert.Equal(t, text.Options{FreeListSize: 16, KeepAlive: 4, MaxUnits: 4096}, cfg.Arena)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	require.Len(t, cfg.Charmaps, 1)

	r := codec.NewRegistry(nil)
	cfg.RegisterCharmaps(r)
	c, err := r.Lookup("TINY")
	require.NoError(t, err)
	a := text.NewArena(text.Options{})
	defer a.Teardown()
	v, err := c.Decode(a, []byte("AB"), "replace")
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x3b1, 0xFFFD}, append([]uint16{}, v.Units()...))
	b, err := c.Encode([]uint16{0x3b1}, "strict")
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), b)
}

func TestLoadCharmapFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "greek.yaml"), []byte("decode:\n  0x61: 0x3b1\n"), 0o600))
	path := filepath.Join(dir, "ucs2.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charmaps:\n  - name: greek\n    file: greek.yaml\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Charmaps, 1)
	assert.Equal(t, "greek", cfg.Charmaps[0].Name)
	b, err := cfg.Charmaps[0].Charset.Encode([]uint16{0x3b1}, "strict")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), b)
}

func TestParseInvalid(t *testing.T) {
	cases := []struct {
		yaml  string
		field string
	}{
		{"errors: loud", "errors"},
		{"max_units: -1", "max_units"},
		{"free_list: {max_size: -2}", "free_list.max_size"},
		{"free_list: {keep_alive: -3}", "free_list.keep_alive"},
		{"log: {level: chatty}", "log.level"},
		{"charmaps: [{decode: {1: 2}}]", "charmaps.name"},
		{"charmaps: [{name: x}]", "charmaps.decode"},
		{"charmaps: [{name: x, file: a.yaml, decode: {1: 2}}]", "charmaps.file"},
		{"charmaps: [{name: x, decode: {1: 2}}, {name: X, decode: {1: 2}}]", "charmaps.name"},
	}
	for _, cas := range cases {
		_, err := config.Parse([]byte(cas.yaml), ".")
		require.Error(t, err, cas.yaml)
		assert.True(t, errors.Is(err, config.ErrConfigInvalid), cas.yaml)
		var zerrErr *zerr.Error
		require.True(t, errors.As(err, &zerrErr), cas.yaml)
		assert.Equal(t, cas.field, zerrErr.Metadata()["field"], cas.yaml)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := config.Parse([]byte("errors: [unclosed"), ".")
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = config.Parse([]byte("charmaps: [{name: x, decode: {1: [1, 2]}}]"), ".")
	assert.True(t, errors.Is(err, text.TypeError))

	_, err = config.Parse([]byte("charmaps: [{name: x, file: missing.yaml}]"), t.TempDir())
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
