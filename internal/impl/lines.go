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

import (
	"slices"

	"znkr.io/dmp/internal/edits"
)

// lineMode does a quick line level diff on both texts, then compares the changed blocks again unit
// by unit for greater accuracy. This speedup can produce non-minimal diffs.
func lineMode(d *differ[rune], x, y []rune) []edit[rune] {
	var lt lineTable
	lt.init()
	lx, ly := lt.encode(x), lt.encode(y)

	ld := &differ[int]{deadline: d.deadline, halfMatch: d.halfMatch}
	les := ld.diff(lx, ly, false)

	es := make([]edit[rune], len(les))
	for i, e := range les {
		es[i] = edit[rune]{Op: e.Op, Units: lt.decode(e.Units)}
	}

	// Eliminate freak matches (e.g. blank lines).
	es = Semantic(es, TextScore)

	// Compare every block of consecutive deletions and insertions again, this time unit by unit.
	out := make([]edit[rune], 0, len(es))
	for i := 0; i < len(es); {
		if es[i].Op == edits.Equal {
			out = append(out, es[i])
			i++
			continue
		}
		var del, ins []rune
		var ndel, nins int
		j := i
		for ; j < len(es) && es[j].Op != edits.Equal; j++ {
			if es[j].Op == edits.Delete {
				ndel++
				del = append(del, es[j].Units...)
			} else {
				nins++
				ins = append(ins, es[j].Units...)
			}
		}
		if ndel > 0 && nins > 0 {
			out = append(out, d.diff(del, ins, false)...)
		} else {
			out = append(out, es[i:j]...)
		}
		i = j
	}
	return out
}

// lineTable is a bijection between lines and integer ids. It's built for a single comparison and
// discarded afterwards. The id 0 is reserved and never assigned to a line.
type lineTable struct {
	lines [][]rune
	ids   map[string]int
}

func (lt *lineTable) init() {
	lt.lines = [][]rune{nil}
	lt.ids = make(map[string]int)
}

// encode splits text into lines (including their terminating newline) and returns the id of
// every line.
func (lt *lineTable) encode(text []rune) []int {
	var out []int
	for start := 0; start < len(text); {
		end := len(text)
		if i := slices.Index(text[start:], '\n'); i >= 0 {
			end = start + i + 1
		}
		line := text[start:end]
		id, ok := lt.ids[string(line)]
		if !ok {
			id = len(lt.lines)
			lt.ids[string(line)] = id
			lt.lines = append(lt.lines, line)
		}
		out = append(out, id)
		start = end
	}
	return out
}

// decode expands line ids into text.
func (lt *lineTable) decode(ids []int) []rune {
	n := 0
	for _, id := range ids {
		n += len(lt.lines[id])
	}
	out := make([]rune, 0, n)
	for _, id := range ids {
		out = append(out, lt.lines[id]...)
	}
	return out
}
