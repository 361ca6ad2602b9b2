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
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newMatchCmd(a *app) *cobra.Command {
	var (
		loc  int
		show bool
	)

	cmd := &cobra.Command{
		Use:   "match FILE PATTERN",
		Short: "Print the location of the best fuzzy match of PATTERN in FILE",
		Long: `Print the location of the best fuzzy match of PATTERN in FILE, counted in characters
from the start of the file, or -1 if there is no match that is good enough.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			pattern := args[1]
			found, err := a.engine.Match(text, pattern, loc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, found); err != nil {
				return err
			}
			if show && found >= 0 {
				return showMatch(out, []rune(text), found, utf8.RuneCountInString(pattern))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&loc, "loc", 0, "expected location of the pattern")
	cmd.Flags().BoolVar(&show, "show", false, "print the matching line and mark the match")

	return cmd
}

// showMatch prints the line that contains the match at loc and a line of carets below the n
// runes of the match. The marker stays aligned for wide characters and tabs.
func showMatch(w io.Writer, text []rune, loc, n int) error {
	start := loc
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	end := loc
	for end < len(text) && text[end] != '\n' {
		end++
	}

	var marker strings.Builder
	for _, r := range text[start:loc] {
		if r == '\t' {
			marker.WriteByte('\t')
			continue
		}
		marker.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(string(text[loc:min(loc+n, end)]))
	marker.WriteString(strings.Repeat("^", max(width, 1)))

	_, err := fmt.Fprintf(w, "%s\n%s\n", string(text[start:end]), marker.String())
	return err
}
