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
	"github.com/grumpyhq/ucs2/runtime/text"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode bytes with --encoding and print them as UTF-8",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return zerr.Wrap(err, "failed to read input")
			}
			v, err := c.sys.Decode(data, c.encoding, c.errors)
			if err != nil {
				return c.codecError(err, "decode failed")
			}
			return c.writeText(cmd, v, false)
		},
	}
}

func (c *CLI) newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [file]",
		Short: "Read UTF-8 text and encode it with --encoding",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return zerr.Wrap(err, "failed to read input")
			}
			v, err := c.sys.Decode(data, "utf-8", "strict")
			if err != nil {
				return zerr.Wrap(err, "input is not UTF-8")
			}
			out, err := c.sys.Encode(v, c.encoding, c.errors)
			if err != nil {
				return c.codecError(err, "encode failed")
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// encodingName is the codec selected by --encoding.
func (c *CLI) encodingName() string {
	if c.encoding != "" {
		return c.encoding
	}
	return c.sys.DefaultEncoding()
}

func (c *CLI) codecError(err error, msg string) error {
	return zerr.With(zerr.With(zerr.Wrap(err, msg), "encoding", c.encodingName()), "errors", c.errors)
}

func (c *CLI) writeText(cmd *cobra.Command, v *text.Value, newline bool) error {
	out, err := c.sys.Encode(v, "utf-8", "strict")
	if err != nil {
		return err
	}
	if newline {
		out = append(out, '\n')
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
