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

// Package render renders text edit scripts and patches for terminals.
package render

import (
	"fmt"
	"strings"

	"znkr.io/dmp/internal/edits"
	"znkr.io/dmp/internal/patch"
)

// Colors holds the ANSI escape sequences used for the parts of a rendering. An empty sequence
// leaves the part uncolored.
type Colors struct {
	Header string
	Equal  string
	Delete string
	Insert string
}

// Terminal are the default colors, matching the ones git uses.
var Terminal = Colors{
	Header: format([]int{36}),
	Delete: format([]int{31}),
	Insert: format([]int{32}),
}

// Plain renders without any colors.
var Plain = Colors{}

const reset = "\033[0m"

// An Option configures custom colors.
type Option func(*Colors)

// Headers colors patch headers, the "@@ ... @@" lines.
func Headers(params ...int) Option {
	code := format(params)
	return func(c *Colors) {
		c.Header = code
	}
}

// Equals colors unchanged text.
func Equals(params ...int) Option {
	code := format(params)
	return func(c *Colors) {
		c.Equal = code
	}
}

// Deletes colors deleted text.
func Deletes(params ...int) Option {
	code := format(params)
	return func(c *Colors) {
		c.Delete = code
	}
}

// Inserts colors inserted text.
func Inserts(params ...int) Option {
	code := format(params)
	return func(c *Colors) {
		c.Insert = code
	}
}

// With returns a copy of c with all options applied.
func (c Colors) With(opts ...Option) Colors {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c Colors) of(op edits.Op) string {
	switch op {
	case edits.Delete:
		return c.Delete
	case edits.Insert:
		return c.Insert
	default:
		return c.Equal
	}
}

func format(params []int) string {
	if len(params) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\033[")
	for i, v := range params {
		if i > 0 {
			sb.WriteRune(';')
		}
		fmt.Fprint(&sb, v)
	}
	sb.WriteRune('m')
	return sb.String()
}

// Inline writes the destination and the source text of an edit script interleaved, with deleted
// and inserted runs colored. Without colors, deletions are written as [-text-] and insertions as
// {+text+}, like git diff --word-diff does.
func Inline(sb *strings.Builder, es []edits.Edit[rune], c Colors) {
	for _, e := range es {
		text := string(e.Units)
		code := c.of(e.Op)
		if code == "" {
			switch e.Op {
			case edits.Delete:
				text = "[-" + text + "-]"
			case edits.Insert:
				text = "{+" + text + "+}"
			}
		}
		colored(sb, code, text)
	}
}

// Patches writes a human readable form of a list of patches: Headers as in the text form, but
// the diffs unescaped and one line of text per line.
func Patches(sb *strings.Builder, ps []patch.Patch, c Colors) {
	for _, p := range ps {
		colored(sb, c.Header, p.Header())
		sb.WriteByte('\n')
		for _, e := range p.Edits {
			var prefix string
			switch e.Op {
			case edits.Delete:
				prefix = "-"
			case edits.Insert:
				prefix = "+"
			default:
				prefix = " "
			}
			lines := strings.SplitAfter(string(e.Units), "\n")
			if lines[len(lines)-1] == "" {
				lines = lines[:len(lines)-1]
			}
			for _, line := range lines {
				colored(sb, c.of(e.Op), prefix+strings.TrimSuffix(line, "\n"))
				sb.WriteByte('\n')
			}
		}
	}
}

// colored writes text wrapped in an escape sequence. Every line is wrapped separately, so that
// colors don't bleed into the next line of a terminal.
func colored(sb *strings.Builder, code, text string) {
	if code == "" {
		sb.WriteString(text)
		return
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if line == "" {
			continue
		}
		sb.WriteString(code)
		sb.WriteString(line)
		sb.WriteString(reset)
	}
}
