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
	"math/big"
	"strconv"
	"strings"

	"github.com/grumpyhq/ucs2/runtime/format"
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
)

func (c *CLI) newFormatCmd() *cobra.Command {
	var (
		pairs []string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "format TEMPLATE [ARG...]",
		Short: "Apply a %-template to arguments",
		Long: "Apply a %-template to the arguments. Arguments that look like integers or floats are " +
			"passed as numbers unless --raw is given. With --map the template takes %(key)s directives.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fargs any
			if len(pairs) > 0 {
				if len(args) > 1 {
					return zerr.New("positional arguments cannot be combined with --map")
				}
				dict := make(format.Dict, len(pairs))
				for _, pair := range pairs {
					key, value, ok := strings.Cut(pair, "=")
					if !ok {
						return zerr.With(zerr.New("--map wants key=value"), "value", pair)
					}
					arg, err := c.parseArg(value, raw)
					if err != nil {
						return err
					}
					dict[key] = arg
				}
				fargs = dict
			} else {
				tuple := make(format.Tuple, 0, len(args)-1)
				for _, s := range args[1:] {
					arg, err := c.parseArg(s, raw)
					if err != nil {
						return err
					}
					tuple = append(tuple, arg)
				}
				fargs = tuple
			}
			tmpl, err := c.sys.FromString(args[0])
			if err != nil {
				return err
			}
			v, err := c.sys.Format(tmpl, fargs)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "format failed"), "template", args[0])
			}
			return c.writeText(cmd, v, true)
		},
	}
	cmd.Flags().StringArrayVarP(&pairs, "map", "m", nil, "Mapping entry key=value (repeatable)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Pass every argument as text")
	return cmd
}

// parseArg turns a command line word into an integer, a float or text.
func (c *CLI) parseArg(s string, raw bool) (any, error) {
	if !raw {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		if b, ok := new(big.Int).SetString(s, 10); ok {
			return b, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, "0123456789") {
			return f, nil
		}
	}
	return c.sys.FromString(s)
}
