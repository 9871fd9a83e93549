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

// Package logger builds the slog logger used by the ucs2 command.
package logger

import (
	"context"
	"io"
	"log/slog"

	"go.trai.ch/zerr"
)

// Options selects the handler and level.
type Options struct {
	Level slog.Level
	// JSON selects JSON output instead of key=value text.
	JSON bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// Error logs err at error level with any zerr metadata along its chain as
// attributes.
func Error(ctx context.Context, l *slog.Logger, err error) {
	if err == nil {
		return
	}
	zerr.Log(ctx, l, err)
}
