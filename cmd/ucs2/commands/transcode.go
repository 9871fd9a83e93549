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

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

type transcodeOptions struct {
	from   string
	to     string
	outDir string
	jobs   int
}

type transcodeResult struct {
	dest string
	size int
	sum  uint64
}

func (c *CLI) newTranscodeCmd() *cobra.Command {
	var opts transcodeOptions
	cmd := &cobra.Command{
		Use:   "transcode --out-dir DIR [--from ENC] [--to ENC] FILE...",
		Short: "Convert files between encodings",
		Long: "Convert each file from --from (default: --encoding) to --to and write it under --out-dir. " +
			"Prints an xxhash64 digest of every file written.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.from == "" {
				opts.from = c.encodingName()
			}
			return c.transcode(cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "Source encoding")
	cmd.Flags().StringVar(&opts.to, "to", "utf-8", "Target encoding")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "", "Directory for converted files")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "Files converted concurrently")
	_ = cmd.MarkFlagRequired("out-dir")
	return cmd
}

func (c *CLI) transcode(cmd *cobra.Command, opts transcodeOptions, paths []string) error {
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		if prev, ok := seen[base]; ok {
			return zerr.With(zerr.With(zerr.New("two inputs share an output name"), "path", path), "other", prev)
		}
		seen[base] = path
	}
	if err := os.MkdirAll(opts.outDir, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", opts.outDir)
	}

	results := make([]transcodeResult, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			r, err := c.transcodeFile(ctx, opts, path)
			if err != nil {
				return zerr.With(err, "path", path)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%016x  %8d  %s\n", r.sum, r.size, r.dest); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) transcodeFile(ctx context.Context, opts transcodeOptions, path string) (transcodeResult, error) {
	if err := ctx.Err(); err != nil {
		return transcodeResult{}, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return transcodeResult{}, zerr.Wrap(err, "failed to read input")
	}
	v, err := c.sys.Decode(data, opts.from, c.errors)
	if err != nil {
		return transcodeResult{}, zerr.With(zerr.Wrap(err, "decode failed"), "encoding", opts.from)
	}
	units := v.Len()
	out, err := c.sys.Encode(v, opts.to, c.errors)
	// The decoded value never leaves this function.
	c.sys.Arena().Retire(v)
	if err != nil {
		return transcodeResult{}, zerr.With(zerr.Wrap(err, "encode failed"), "encoding", opts.to)
	}
	dest := filepath.Join(opts.outDir, filepath.Base(path))
	if err := os.WriteFile(dest, out, 0o600); err != nil {
		return transcodeResult{}, zerr.Wrap(err, "failed to write output")
	}
	c.log.Debug("transcoded", "path", path, "dest", dest, "units", units, "bytes", len(out))
	return transcodeResult{dest: dest, size: len(out), sum: xxhash.Sum64(out)}, nil
}
