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

package dmp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"znkr.io/dmp/internal/uri"
)

// ToDelta encodes an edit script as a delta: A tab separated list of operations relative to the
// source text. "=3" keeps 3 runes, "-2" deletes 2 runes and "+text" inserts text. Inserted text
// is escaped like URIs are.
func ToDelta(diffs []Diff) string {
	var sb strings.Builder
	for i, d := range diffs {
		if i > 0 {
			sb.WriteByte('\t')
		}
		switch d.Op {
		case Insert:
			sb.WriteByte('+')
			sb.WriteString(uri.Encode(d.Text))
		case Delete:
			sb.WriteByte('-')
			sb.WriteString(strconv.Itoa(utf8.RuneCountInString(d.Text)))
		case Equal:
			sb.WriteByte('=')
			sb.WriteString(strconv.Itoa(utf8.RuneCountInString(d.Text)))
		}
	}
	return sb.String()
}

// FromDelta decodes a delta created with [ToDelta] and the source text it was created for into an
// edit script.
//
// The delta has to cover the source text exactly. All errors wrap [ErrFormat].
func FromDelta(text, delta string) ([]Diff, error) {
	src := []rune(text)
	var out []Diff
	pos := 0
	for token := range strings.SplitSeq(delta, "\t") {
		if token == "" {
			// Blank tokens are ok, e.g. from a trailing tab.
			continue
		}
		param := token[1:]
		switch token[0] {
		case '+':
			s, err := uri.Decode(param)
			if err != nil {
				return nil, &FormatError{Token: token, Msg: "illegal escape"}
			}
			out = append(out, Diff{Op: Insert, Text: s})
		case '-', '=':
			n, err := strconv.Atoi(param)
			if err != nil || n < 0 {
				return nil, &FormatError{Token: token, Msg: "invalid number"}
			}
			if n > len(src)-pos {
				return nil, &FormatError{Token: token, Msg: fmt.Sprintf("delta is longer than source text (%d)", len(src))}
			}
			d := Diff{Op: Equal, Text: string(src[pos : pos+n])}
			if token[0] == '-' {
				d.Op = Delete
			}
			out = append(out, d)
			pos += n
		default:
			return nil, &FormatError{Token: token, Msg: "invalid operation"}
		}
	}
	if pos != len(src) {
		return nil, &FormatError{Msg: fmt.Sprintf("delta length (%d) does not equal source text length (%d)", pos, len(src))}
	}
	return out, nil
}
