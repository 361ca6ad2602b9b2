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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"znkr.io/dmp"
	"znkr.io/dmp/internal/edits"
	"znkr.io/dmp/internal/render"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		unit    string
		cleanup string
		delta   bool
		color   = colorFlag("auto")
	)

	cmd := &cobra.Command{
		Use:   "diff FILE1 FILE2",
		Short: "Show the differences between two texts inline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text1, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			text2, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			diffs, err := a.diff(text1, text2, unit, cleanup)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if delta {
				_, err := fmt.Fprintln(out, dmp.ToDelta(diffs))
				return err
			}
			return printInline(out, diffs, a.colorsFor(out, color))
		},
	}

	cmd.Flags().StringVar(&unit, "unit", "chars", "unit of comparison: chars, lines, words or graphemes")
	cmd.Flags().StringVar(&cleanup, "cleanup", "semantic", "cleanup of the result: semantic, efficiency or none")
	cmd.Flags().BoolVar(&delta, "delta", false, "print the diff as a delta against FILE1")
	cmd.Flags().Var(&color, "color", "colorize the output: auto, always or never")

	return cmd
}

func (a *app) diff(text1, text2, unit, cleanup string) ([]dmp.Diff, error) {
	var diffs []dmp.Diff
	switch unit {
	case "chars":
		diffs = a.engine.DiffMain(text1, text2)
	case "lines":
		diffs = a.engine.DiffLines(text1, text2)
	case "words":
		diffs = a.engine.DiffWords(text1, text2)
	case "graphemes":
		diffs = a.engine.DiffGraphemes(text1, text2)
	default:
		return nil, fmt.Errorf("unknown unit %q", unit)
	}

	switch cleanup {
	case "semantic":
		return dmp.CleanupSemantic(diffs), nil
	case "efficiency":
		return a.engine.CleanupEfficiency(diffs), nil
	case "none":
		return diffs, nil
	default:
		return nil, fmt.Errorf("unknown cleanup %q", cleanup)
	}
}

func printInline(w io.Writer, diffs []dmp.Diff, colors render.Colors) error {
	es := make([]edits.Edit[rune], len(diffs))
	for i, d := range diffs {
		es[i] = edits.Edit[rune]{Op: d.Op, Units: []rune(d.Text)}
	}
	var sb strings.Builder
	render.Inline(&sb, es, colors)
	text := sb.String()
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
