// Copyright 2025 Florian Zenker (flo@znkr.io)
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

// Command dmp compares texts, locates patterns, and makes and applies patches that tolerate
// changes to the patched text.
//
// Usage:
//
//	dmp diff [--unit chars|lines|words|graphemes] [--cleanup semantic|efficiency|none] [--delta] FILE1 FILE2
//	dmp delta encode FILE1 FILE2
//	dmp delta decode FILE DELTA
//	dmp match [--loc N] [--show] FILE PATTERN
//	dmp patch make [-o OUT] [--zstd] FILE1 FILE2
//	dmp patch apply [-o OUT] PATCH FILE
//	dmp patch show PATCH
//
// A file name "-" reads from stdin. Patch files may be zstd compressed. All commands accept
// --config with a TOML file that sets the engine parameters and the terminal colors, e.g.
//
//	timeout = "2s"
//	match_threshold = 0.3
//	margin = 8
//
//	[colors]
//	header = [1, 36]
//	delete = [9, 31]
//
// Colors are lists of Select Graphic Rendition parameters for header, equal, delete and insert.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"znkr.io/dmp"
	"znkr.io/dmp/internal/patchio"
	"znkr.io/dmp/internal/render"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is the state shared by all commands.
type app struct {
	configPath string
	engine     *dmp.Engine
	colors     render.Colors
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "dmp",
		Short:         "Diff, match and patch plain text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "TOML configuration `file`")

	root.AddCommand(newDiffCmd(a))
	root.AddCommand(newDeltaCmd(a))
	root.AddCommand(newMatchCmd(a))
	root.AddCommand(newPatchCmd(a))
	return root
}

func (a *app) init() error {
	var cfg patchio.Config
	if a.configPath != "" {
		var err error
		cfg, err = patchio.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
	}
	a.engine = dmp.New(cfg.Options...)
	a.colors = render.Terminal.With(cfg.Colors...)
	return nil
}

// colorsFor returns the colors for output to w.
func (a *app) colorsFor(w io.Writer, when colorFlag) render.Colors {
	if !when.enabled(w) {
		return render.Plain
	}
	return a.colors
}

func readInput(cmd *cobra.Command, name string) (string, error) {
	return patchio.ReadFile(name, cmd.InOrStdin())
}

// writeOutput writes text to the named file, or to the command's output if name is empty.
func writeOutput(cmd *cobra.Command, name, text string, compress bool) error {
	if name == "" {
		return patchio.Write(cmd.OutOrStdout(), text, compress)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := patchio.Write(f, text, compress); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// colorFlag implements pflag.Value for the --color flag.
type colorFlag string

func (c *colorFlag) String() string { return string(*c) }
func (c *colorFlag) Type() string   { return "when" }

func (c *colorFlag) Set(s string) error {
	switch s {
	case "auto", "always", "never":
		*c = colorFlag(s)
		return nil
	}
	return fmt.Errorf("invalid value %q, want auto, always or never", s)
}

// enabled reports whether output to w should be colored.
func (c colorFlag) enabled(w io.Writer) bool {
	switch c {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
