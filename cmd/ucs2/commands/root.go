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

// Package commands implements the ucs2 command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/grumpyhq/ucs2/internal/build"
	"github.com/grumpyhq/ucs2/internal/config"
	"github.com/grumpyhq/ucs2/internal/logger"
	ucs2 "github.com/grumpyhq/ucs2/runtime"
	"github.com/grumpyhq/ucs2/runtime/codec"
	"github.com/spf13/cobra"
)

// CLI is the ucs2 command line.
type CLI struct {
	rootCmd *cobra.Command

	configPath      string
	encoding        string
	errors          string
	defaultEncoding string
	verbose         bool
	json            bool

	cfg *config.Config
	log *slog.Logger
	sys *ucs2.Subsystem
}

// New returns a CLI ready to Execute.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "ucs2",
		Short:         "Decode, encode and format text with the legacy UCS-2 codecs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}
	c := &CLI{rootCmd: rootCmd}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Path to configuration file")
	flags.StringVarP(&c.encoding, "encoding", "e", "", "Codec to use (default: the default encoding)")
	flags.StringVar(&c.errors, "errors", "", "Error policy: strict, ignore or replace (default from config)")
	flags.StringVar(&c.defaultEncoding, "default-encoding", "", "Override the default encoding")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Log debug output")
	flags.BoolVar(&c.json, "json", false, "Log in JSON")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return c.setup(cmd)
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		c.teardown()
	}

	rootCmd.AddCommand(c.newDecodeCmd())
	rootCmd.AddCommand(c.newEncodeCmd())
	rootCmd.AddCommand(c.newTranscodeCmd())
	rootCmd.AddCommand(c.newReprCmd())
	rootCmd.AddCommand(c.newFormatCmd())
	rootCmd.AddCommand(c.newHashCmd())
	rootCmd.AddCommand(c.newCodecsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	// PersistentPostRun is skipped when a command fails.
	c.teardown()
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetIO redirects the command's input, output and diagnostics.
func (c *CLI) SetIO(in io.Reader, out, errOut io.Writer) {
	c.rootCmd.SetIn(in)
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}

// Report logs err, falling back to plain text when no logger was set up.
func (c *CLI) Report(ctx context.Context, err error) {
	if c.log == nil {
		_, _ = fmt.Fprintf(c.rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	logger.Error(ctx, c.log, err)
}

func (c *CLI) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return err
		}
	}
	c.cfg = cfg

	opts := logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON || c.json}
	if c.verbose {
		opts.Level = slog.LevelDebug
	}
	c.log = logger.New(cmd.ErrOrStderr(), opts)

	registry := codec.NewRegistry(nil)
	cfg.RegisterCharmaps(registry)
	c.sys = ucs2.NewSubsystem(
		ucs2.WithArenaOptions(cfg.Arena),
		ucs2.WithRegistry(registry),
		ucs2.WithLogger(c.log),
	)
	encoding := cfg.DefaultEncoding
	if c.defaultEncoding != "" {
		encoding = c.defaultEncoding
	}
	if err := c.sys.SetDefaultEncoding(encoding); err != nil {
		return err
	}
	if c.errors == "" {
		c.errors = cfg.Errors
	}
	return nil
}

func (c *CLI) teardown() {
	if c.sys != nil {
		c.sys.Teardown()
	}
}

// readInput returns the contents of the named file, or of standard input
// when there is no name or the name is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0]) //nolint:gosec // path is provided by user
}
