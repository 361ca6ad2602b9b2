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
)

func newDeltaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delta",
		Short: "Encode and decode compact deltas",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "encode FILE1 FILE2",
		Short: "Print the delta that transforms FILE1 into FILE2",
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
			diffs := a.engine.DiffMain(text1, text2)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dmp.ToDelta(dmp.CleanupSemantic(diffs)))
			return err
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "decode FILE DELTA",
		Short: "Print FILE with DELTA applied",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			delta, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}
			// Deltas never contain a raw newline, it's only the end of the file.
			diffs, err := dmp.FromDelta(text, strings.TrimSuffix(delta, "\n"))
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), dmp.Text2(diffs))
			return err
		},
	})
	return cmd
}
