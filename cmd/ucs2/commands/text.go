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
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/grumpyhq/ucs2/runtime/codec"
	"github.com/grumpyhq/ucs2/runtime/text"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newReprCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repr [text...]",
		Short: "Print the u'...' representation of text",
		Long: "Print the u'...' representation of the arguments joined by spaces, " +
			"or of standard input decoded with --encoding.",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.inputText(cmd, args)
			if err != nil {
				return err
			}
			out := append(codec.Repr(v.Units()), '\n')
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func (c *CLI) newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash [text...]",
		Short: "Print the hash of text and a digest of its default encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.inputText(cmd, args)
			if err != nil {
				return err
			}
			b, err := c.sys.DefaultEncoded(v)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "default encoding failed"), "encoding", c.sys.DefaultEncoding())
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "hash=%d xxhash64=%016x\n", v.Hash(), xxhash.Sum64(b))
			return err
		},
	}
}

// inputText returns the arguments joined by spaces, or standard input
// decoded with --encoding when there are none.
func (c *CLI) inputText(cmd *cobra.Command, args []string) (*text.Value, error) {
	if len(args) > 0 {
		return c.sys.FromString(strings.Join(args, " "))
	}
	data, err := readInput(cmd, nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read input")
	}
	v, err := c.sys.Decode(data, c.encoding, c.errors)
	if err != nil {
		return nil, c.codecError(err, "decode failed")
	}
	return v, nil
}

func (c *CLI) newCodecsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codecs",
		Short: "List the registered encoding names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := c.sys.Registry()
			for _, name := range registry.Names() {
				cd, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", name, cd.Name()); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
