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
	"znkr.io/dmp/internal/patch"
	"znkr.io/dmp/internal/render"
)

func newPatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Make, apply and show patches",
	}
	cmd.AddCommand(newPatchMakeCmd(a))
	cmd.AddCommand(newPatchApplyCmd(a))
	cmd.AddCommand(newPatchShowCmd(a))
	return cmd
}

func newPatchMakeCmd(a *app) *cobra.Command {
	var (
		output   string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "make FILE1 FILE2",
		Short: "Write a patch that transforms FILE1 into FILE2",
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
			patches := a.engine.MakePatches(text1, text2)
			return writeOutput(cmd, output, dmp.PatchesToText(patches), compress)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the patch to `file` instead of stdout")
	cmd.Flags().BoolVar(&compress, "zstd", false, "compress the patch with zstd")

	return cmd
}

func newPatchApplyCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "apply PATCH FILE",
		Short: "Apply a patch to FILE, even if FILE changed since the patch was made",
		Long: `Apply a patch to FILE, even if FILE changed since the patch was made.

The patched text is written even if some hunks can't be applied. In that case, the failed hunks
are reported and the command fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patchText, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			text, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			patches, err := dmp.PatchesFromText(patchText)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			for i, p := range patches {
				if err := p.Validate(); err != nil {
					return fmt.Errorf("%s: hunk %d: %w", args[0], i+1, err)
				}
			}

			patched, applied := a.engine.ApplyPatches(patches, text)
			if err := writeOutput(cmd, output, patched, false); err != nil {
				return err
			}

			failed := 0
			for i, ok := range applied {
				if !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "hunk %d failed: %s\n", i+1, patches[i].Header())
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d hunks failed to apply", failed, len(patches))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to `file` instead of stdout")

	return cmd
}

func newPatchShowCmd(a *app) *cobra.Command {
	color := colorFlag("auto")

	cmd := &cobra.Command{
		Use:   "show PATCH",
		Short: "Print a patch with its text unescaped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patchText, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			patches, err := patch.Parse(patchText)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			var sb strings.Builder
			render.Patches(&sb, patches, a.colorsFor(out, color))
			_, err = io.WriteString(out, sb.String())
			return err
		},
	}

	cmd.Flags().Var(&color, "color", "colorize the output: auto, always or never")

	return cmd
}
