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

package patch

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"znkr.io/dmp/internal/edits"
	"znkr.io/dmp/internal/uri"
)

// ErrParse is the error wrapped by all errors returned from [Parse].
var ErrParse = errors.New("invalid patch text")

// ParseError describes a problem with a line of patch text.
type ParseError struct {
	Line int    // 1-based line number
	Text string // The offending line
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// Header returns the header line of a patch without the trailing newline. Positions are 1-based
// in the header, an empty range is denoted by the position before the range and a length of 0.
func (p Patch) Header() string {
	return "@@ -" + coords(p.Start1, p.Length1) + " +" + coords(p.Start2, p.Length2) + " @@"
}

func coords(start, length int) string {
	switch length {
	case 0:
		return strconv.Itoa(start) + ",0"
	case 1:
		return strconv.Itoa(start + 1)
	default:
		return strconv.Itoa(start+1) + "," + strconv.Itoa(length)
	}
}

// Write writes the text form of a patch to sb.
func (p Patch) Write(sb *strings.Builder) {
	sb.WriteString(p.Header())
	sb.WriteByte('\n')
	for _, e := range p.Edits {
		switch e.Op {
		case edits.Insert:
			sb.WriteByte('+')
		case edits.Delete:
			sb.WriteByte('-')
		case edits.Equal:
			sb.WriteByte(' ')
		}
		sb.WriteString(uri.Encode(string(e.Units)))
		sb.WriteByte('\n')
	}
}

// Format returns the text form of a list of patches.
func Format(ps []Patch) string {
	var sb strings.Builder
	for _, p := range ps {
		p.Write(&sb)
	}
	return sb.String()
}

var header = regexp.MustCompile(`^@@ -(\d+),?(\d*) \+(\d+),?(\d*) @@$`)

// Parse parses the text form of a list of patches. Empty lines are ignored everywhere except for
// the position of a header.
func Parse(text string) ([]Patch, error) {
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	var ps []Patch
	for i := 0; i < len(lines); {
		m := header.FindStringSubmatch(lines[i])
		if m == nil {
			return nil, &ParseError{Line: i + 1, Text: lines[i], Msg: "invalid patch header"}
		}
		var p Patch
		var err error
		p.Start1, p.Length1, err = parseCoords(m[1], m[2])
		if err == nil {
			p.Start2, p.Length2, err = parseCoords(m[3], m[4])
		}
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: lines[i], Msg: err.Error()}
		}
		i++

	body:
		for ; i < len(lines); i++ {
			line := lines[i]
			if line == "" {
				continue
			}
			var op edits.Op
			switch line[0] {
			case '-':
				op = edits.Delete
			case '+':
				op = edits.Insert
			case ' ':
				op = edits.Equal
			case '@':
				break body // start of the next patch
			default:
				return nil, &ParseError{Line: i + 1, Text: line, Msg: fmt.Sprintf("invalid patch mode %q", []rune(line)[0])}
			}
			s, err := uri.Decode(line[1:])
			if err != nil {
				return nil, &ParseError{Line: i + 1, Text: line, Msg: "illegal escape"}
			}
			p.Edits = append(p.Edits, edits.Edit[rune]{Op: op, Units: []rune(s)})
		}
		ps = append(ps, p)
	}
	return ps, nil
}

// parseCoords parses the start and the optional length of a range in a patch header.
func parseCoords(start, length string) (int, int, error) {
	s, err := strconv.Atoi(start)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start %q", start)
	}
	switch length {
	case "":
		return s - 1, 1, nil
	case "0":
		return s, 0, nil
	}
	n, err := strconv.Atoi(length)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid length %q", length)
	}
	return s - 1, n, nil
}
