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

package impl

import "unicode"

// Scorer rates the boundary between two adjacent runs of units. Higher scores mark better
// boundaries.
type Scorer[T comparable] func(one, two []T) int

// Boundary scores used by [TextScore].
const (
	scoreNone = iota
	scoreNonAlnum
	scoreWhitespace
	scoreSentenceEnd
	scoreLineBreak
	scoreBlankLine
	scoreEdge
)

// EdgeScore prefers boundaries at the beginning or the end of the sequence and rates everything
// else equally.
func EdgeScore[T comparable](one, two []T) int {
	if len(one) == 0 || len(two) == 0 {
		return scoreEdge
	}
	return scoreNone
}

// TextScore rates the boundary between two texts by how much it looks like a logical boundary.
func TextScore(one, two []rune) int {
	if len(one) == 0 || len(two) == 0 {
		return scoreEdge
	}

	c1, c2 := one[len(one)-1], two[0]
	nonAlnum1, nonAlnum2 := !isAlnum(c1), !isAlnum(c2)
	ws1 := nonAlnum1 && unicode.IsSpace(c1)
	ws2 := nonAlnum2 && unicode.IsSpace(c2)
	lb1 := ws1 && (c1 == '\r' || c1 == '\n')
	lb2 := ws2 && (c2 == '\r' || c2 == '\n')

	switch {
	case lb1 && blankLineEnd(one) || lb2 && blankLineStart(two):
		return scoreBlankLine
	case lb1 || lb2:
		return scoreLineBreak
	case nonAlnum1 && !ws1 && ws2:
		// End of a sentence.
		return scoreSentenceEnd
	case ws1 || ws2:
		return scoreWhitespace
	case nonAlnum1 || nonAlnum2:
		return scoreNonAlnum
	}
	return scoreNone
}

func isAlnum(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}

// blankLineEnd reports whether s ends with "\n\n" or "\n\r\n".
func blankLineEnd(s []rune) bool {
	n := len(s)
	switch {
	case n >= 2 && s[n-2] == '\n' && s[n-1] == '\n':
		return true
	case n >= 3 && s[n-3] == '\n' && s[n-2] == '\r' && s[n-1] == '\n':
		return true
	}
	return false
}

// blankLineStart reports whether s starts with two line breaks, each optionally preceded by
// '\r'.
func blankLineStart(s []rune) bool {
	i := 0
	for range 2 {
		if i < len(s) && s[i] == '\r' {
			i++
		}
		if i >= len(s) || s[i] != '\n' {
			return false
		}
		i++
	}
	return true
}
