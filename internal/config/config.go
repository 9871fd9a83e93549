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

// Package config loads the ucs2 configuration file.
package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/grumpyhq/ucs2/runtime/codec"
	"github.com/grumpyhq/ucs2/runtime/errpolicy"
	"github.com/grumpyhq/ucs2/runtime/text"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// ErrConfigInvalid is returned for configuration values that fail
// validation. The offending field and value are attached as metadata.
var ErrConfigInvalid = zerr.New("invalid configuration")

// File is the YAML layout of a configuration file.
type File struct {
	DefaultEncoding string       `yaml:"default_encoding"`
	Errors          string       `yaml:"errors"`
	MaxUnits        int          `yaml:"max_units"`
	FreeList        FreeListDTO  `yaml:"free_list"`
	Log             LogDTO       `yaml:"log"`
	Charmaps        []CharmapDTO `yaml:"charmaps"`
}

// FreeListDTO configures the allocator free list.
type FreeListDTO struct {
	MaxSize   int `yaml:"max_size"`
	KeepAlive int `yaml:"keep_alive"`
}

// LogDTO configures logging.
type LogDTO struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// CharmapDTO declares an extra charmap codec, either from a mapping file or
// from an inline table.
type CharmapDTO struct {
	Name   string      `yaml:"name"`
	File   string      `yaml:"file"`
	Decode map[int]any `yaml:"decode"`
	Encode map[int]any `yaml:"encode"`
}

// Charmap is a validated charmap declaration.
type Charmap struct {
	Name    string
	Charset *codec.Charset
}

// Config is a validated configuration.
type Config struct {
	DefaultEncoding string
	Errors          string
	Arena           text.Options
	LogLevel        slog.Level
	LogJSON         bool
	Charmaps        []Charmap
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DefaultEncoding: "ascii",
		Errors:          errpolicy.Strict,
		Arena:           text.DefaultOptions(),
		LogLevel:        slog.LevelWarn,
	}
}

// Load reads and validates the configuration file at path. Relative charmap
// files are resolved against the directory of path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}
	cfg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

// Parse validates a configuration held in data. dir is used to resolve
// relative charmap files.
func Parse(data []byte, dir string) (*Config, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}
	cfg := Default()
	if f.DefaultEncoding != "" {
		cfg.DefaultEncoding = f.DefaultEncoding
	}
	if f.Errors != "" {
		if _, ok := errpolicy.Parse(f.Errors); !ok {
			return nil, invalid("errors", f.Errors, "unknown error policy")
		}
		cfg.Errors = f.Errors
	}
	limits := []struct {
		field string
		value int
		dst   *int
	}{
		{"max_units", f.MaxUnits, &cfg.Arena.MaxUnits},
		{"free_list.max_size", f.FreeList.MaxSize, &cfg.Arena.FreeListSize},
		{"free_list.keep_alive", f.FreeList.KeepAlive, &cfg.Arena.KeepAlive},
	}
	for _, lim := range limits {
		if lim.value < 0 {
			return nil, invalid(lim.field, lim.value, "must not be negative")
		}
		if lim.value > 0 {
			*lim.dst = lim.value
		}
	}
	if f.Log.Level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(f.Log.Level)); err != nil {
			return nil, invalid("log.level", f.Log.Level, "unknown log level")
		}
	}
	cfg.LogJSON = f.Log.JSON
	seen := map[string]bool{}
	for _, dto := range f.Charmaps {
		cm, err := loadCharmap(dto, dir)
		if err != nil {
			return nil, err
		}
		key := codec.NormalizeEncoding(cm.Name)
		if seen[key] {
			return nil, invalid("charmaps.name", cm.Name, "duplicate charmap")
		}
		seen[key] = true
		cfg.Charmaps = append(cfg.Charmaps, cm)
	}
	return cfg, nil
}

func loadCharmap(dto CharmapDTO, dir string) (Charmap, error) {
	if dto.Name == "" {
		return Charmap{}, invalid("charmaps.name", dto.Name, "charmap needs a name")
	}
	hasTable := dto.Decode != nil || dto.Encode != nil
	switch {
	case dto.File != "" && hasTable:
		return Charmap{}, invalid("charmaps.file", dto.File, "charmap has both a file and a table")
	case dto.File != "":
		path := dto.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		fh, err := os.Open(path) //nolint:gosec // path is provided by user
		if err != nil {
			return Charmap{}, zerr.With(zerr.Wrap(err, "failed to open charmap"), "charmap", dto.Name)
		}
		defer fh.Close()
		cs, err := codec.LoadMappingYAML(fh)
		if err != nil {
			return Charmap{}, zerr.With(zerr.Wrap(err, "failed to load charmap"), "charmap", dto.Name)
		}
		return Charmap{Name: dto.Name, Charset: cs}, nil
	case dto.Decode == nil:
		return Charmap{}, invalid("charmaps.decode", dto.Name, "charmap needs a file or a decode table")
	}
	cs, err := codec.CharsetFromValues(dto.Decode, dto.Encode)
	if err != nil {
		return Charmap{}, zerr.With(zerr.Wrap(err, "failed to load charmap"), "charmap", dto.Name)
	}
	return Charmap{Name: dto.Name, Charset: cs}, nil
}

// RegisterCharmaps adds the configured charmaps to r.
func (c *Config) RegisterCharmaps(r *codec.Registry) {
	for _, cm := range c.Charmaps {
		r.Register(codec.NewCharsetCodec(cm.Name, cm.Charset), cm.Name)
	}
}

func invalid(field string, value any, msg string) error {
	return zerr.With(zerr.With(zerr.Wrap(ErrConfigInvalid, msg), "field", field), "value", value)
}
