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

	"znkr.io/dmp/internal/affix"
	"znkr.io/dmp/internal/edits"
)

// All cleanup passes work on a private copy of the edit script. Units are shared with the input,
// but never written to.

// Merge reorders and merges like edit sections and merges equalities. Any edit section can move as
// long as it doesn't cross an equality. Empty edits are dropped.
func Merge[T comparable](es []edit[T]) []edit[T] {
	for {
		es = coalesce(es)
		var changed bool
		es, changed = shift(es)
		if !changed {
			return es
		}
	}
}

// coalesce merges runs of deletions and insertions between two equalities into at most one
// deletion followed by one insertion. A common prefix or suffix of such a pair is moved into the
// surrounding equalities.
func coalesce[T comparable](es []edit[T]) []edit[T] {
	out := make([]edit[T], 0, len(es))
	var del, ins []T
	var ndel, nins int
	// The iteration runs one past the end, the missing element acts as an empty equality that
	// flushes the last run.
	for i := 0; i <= len(es); i++ {
		e := edit[T]{Op: edits.Equal}
		if i < len(es) {
			e = es[i]
			if len(e.Units) == 0 {
				continue
			}
		}
		switch e.Op {
		case edits.Delete:
			ndel++
			del = append(del, e.Units...)
		case edits.Insert:
			nins++
			ins = append(ins, e.Units...)
		case edits.Equal:
			eq := e.Units
			if ndel != 0 && nins != 0 {
				// Factor out any common prefix.
				if n := affix.CommonPrefix(ins, del); n != 0 {
					out = appendEqual(out, ins[:n])
					ins, del = ins[n:], del[n:]
				}
				// Factor out any common suffix.
				if n := affix.CommonSuffix(ins, del); n != 0 {
					eq = slices.Concat(ins[len(ins)-n:], eq)
					ins, del = ins[:len(ins)-n], del[:len(del)-n]
				}
			}
			if len(del) > 0 {
				out = append(out, edit[T]{Op: edits.Delete, Units: del})
			}
			if len(ins) > 0 {
				out = append(out, edit[T]{Op: edits.Insert, Units: ins})
			}
			out = appendEqual(out, eq)
			del, ins = nil, nil
			ndel, nins = 0, 0
		}
	}
	return out
}

// appendEqual appends an equality to es, merging it with a trailing equality if there is one.
func appendEqual[T comparable](es []edit[T], units []T) []edit[T] {
	if len(units) == 0 {
		return es
	}
	if n := len(es); n > 0 && es[n-1].Op == edits.Equal {
		es[n-1].Units = slices.Concat(es[n-1].Units, units)
		return es
	}
	return append(es, edit[T]{Op: edits.Equal, Units: units})
}

// shift looks for single edits surrounded on both sides by equalities which can be shifted
// sideways to eliminate an equality, e.g: A<ins>BA</ins>C -> <ins>AB</ins>AC
func shift[T comparable](es []edit[T]) ([]edit[T], bool) {
	changed := false
	for i := 1; i < len(es)-1; i++ {
		prev, cur, next := es[i-1], es[i], es[i+1]
		if prev.Op != edits.Equal || next.Op != edits.Equal {
			continue
		}
		switch {
		case hasSuffix(cur.Units, prev.Units):
			// Shift the edit over the previous equality.
			es[i].Units = slices.Concat(prev.Units, cur.Units[:len(cur.Units)-len(prev.Units)])
			es[i+1].Units = slices.Concat(prev.Units, next.Units)
			es = slices.Delete(es, i-1, i)
			changed = true
		case hasPrefix(cur.Units, next.Units):
			// Shift the edit over the next equality.
			es[i-1].Units = slices.Concat(prev.Units, next.Units)
			es[i].Units = slices.Concat(cur.Units[len(next.Units):], next.Units)
			es = slices.Delete(es, i+1, i+2)
			changed = true
		}
	}
	return es, changed
}

func hasPrefix[T comparable](s, prefix []T) bool {
	return len(s) >= len(prefix) && slices.Equal(s[:len(prefix)], prefix)
}

func hasSuffix[T comparable](s, suffix []T) bool {
	return len(s) >= len(suffix) && slices.Equal(s[len(s)-len(suffix):], suffix)
}

// Semantic reduces the number of edits by eliminating semantically trivial equalities. The
// boundaries of the remaining edits are then aligned with the boundaries rated highest by score
// and overlaps between deletions and insertions are extracted into equalities.
func Semantic[T comparable](es []edit[T], score Scorer[T]) []edit[T] {
	es = slices.Clone(es)
	changes := false
	var equalities []int // stack of indices where equalities are found
	var lastEquality []T // always es[equalities[len(equalities)-1]].Units
	// Number of units that changed before and after the last equality.
	var ins1, del1, ins2, del2 int
	for i := 0; i < len(es); i++ {
		if es[i].Op == edits.Equal {
			equalities = append(equalities, i)
			ins1, del1 = ins2, del2
			ins2, del2 = 0, 0
			lastEquality = es[i].Units
			continue
		}

		if es[i].Op == edits.Insert {
			ins2 += len(es[i].Units)
		} else {
			del2 += len(es[i].Units)
		}
		// Eliminate an equality that is smaller or equal to the edits on both sides of it.
		if n := len(lastEquality); n > 0 && n <= max(ins1, del1) && n <= max(ins2, del2) {
			// Replace the equality with a deletion and an insertion.
			j := equalities[len(equalities)-1]
			es = slices.Insert(es, j, edit[T]{Op: edits.Delete, Units: lastEquality})
			es[j+1] = edit[T]{Op: edits.Insert, Units: lastEquality}
			// Throw away the equality we just deleted and the previous equality, it needs to be
			// reevaluated.
			equalities = pop(pop(equalities))
			if len(equalities) > 0 {
				i = equalities[len(equalities)-1]
			} else {
				i = -1
			}
			ins1, del1, ins2, del2 = 0, 0, 0, 0
			lastEquality = nil
			changes = true
		}
	}

	if changes {
		es = Merge(es)
	}
	es = SemanticLossless(es, score)

	// Find any overlaps between deletions and insertions.
	//
	//   <del>abcxxx</del><ins>xxxdef</ins> -> <del>abc</del>xxx<ins>def</ins>
	//   <del>xxxabc</del><ins>defxxx</ins> -> <ins>def</ins>xxx<del>abc</del>
	//
	// Only extract an overlap if it is as big as the edit ahead or behind it.
	for i := 1; i < len(es); i++ {
		if es[i-1].Op != edits.Delete || es[i].Op != edits.Insert {
			continue
		}
		del, ins := es[i-1].Units, es[i].Units
		o1 := affix.CommonOverlap(del, ins)
		o2 := affix.CommonOverlap(ins, del)
		if o1 >= o2 {
			if o1 > 0 && (2*o1 >= len(del) || 2*o1 >= len(ins)) {
				es = slices.Insert(es, i, edit[T]{Op: edits.Equal, Units: ins[:o1]})
				es[i-1].Units = del[:len(del)-o1]
				es[i+1].Units = ins[o1:]
				i++
			}
		} else if 2*o2 >= len(del) || 2*o2 >= len(ins) {
			// Reverse overlap, swap and trim the surrounding edits.
			es = slices.Insert(es, i, edit[T]{Op: edits.Equal, Units: del[:o2]})
			es[i-1] = edit[T]{Op: edits.Insert, Units: ins[:len(ins)-o2]}
			es[i+1] = edit[T]{Op: edits.Delete, Units: del[o2:]}
			i++
		}
		i++
	}
	return es
}

// SemanticLossless looks for single edits surrounded on both sides by equalities which can be
// shifted sideways to align the edit to a better boundary, e.g: The c<ins>at c</ins>ame. -> The
// <ins>cat </ins>came.
func SemanticLossless[T comparable](es []edit[T], score Scorer[T]) []edit[T] {
	es = slices.Clone(es)
	// The first and the last element don't need checking.
	for i := 1; i < len(es)-1; i++ {
		if es[i-1].Op != edits.Equal || es[i+1].Op != edits.Equal {
			continue
		}

		// The edit is a window [a:b] into eq1 + edit + eq2. Moving the window doesn't change the
		// concatenation as long as the unit that leaves the window equals the unit that enters it.
		eq1 := es[i-1].Units
		buf := slices.Concat(eq1, es[i].Units, es[i+1].Units)
		a, b := len(eq1), len(eq1)+len(es[i].Units)

		// First, shift the edit as far left as possible.
		n := affix.CommonSuffix(eq1, es[i].Units)
		a, b = a-n, b-n

		// Second, step unit by unit right, looking for the best fit.
		best := a
		bestScore := score(buf[:a], buf[a:b]) + score(buf[a:b], buf[b:])
		for a < b && b < len(buf) && buf[a] == buf[b] {
			a++
			b++
			// The >= encourages trailing rather than leading whitespace on edits.
			if s := score(buf[:a], buf[a:b]) + score(buf[a:b], buf[b:]); s >= bestScore {
				best, bestScore = a, s
			}
		}
		if best == len(eq1) {
			continue
		}

		// We have an improvement, save it back to the edit script.
		end := best + (b - a)
		if best > 0 {
			es[i-1].Units = buf[:best]
		} else {
			es = slices.Delete(es, i-1, i)
			i--
		}
		es[i].Units = buf[best:end]
		if end < len(buf) {
			es[i+1].Units = buf[end:]
		} else {
			es = slices.Delete(es, i+1, i+2)
			i--
		}
	}
	return es
}

// Efficiency reduces the number of edits by eliminating operationally trivial equalities. An
// equality is trivial if encoding it as part of the surrounding edits is cheaper than encoding it
// separately, given that each edit costs as much as cost units.
func Efficiency[T comparable](es []edit[T], cost int) []edit[T] {
	es = slices.Clone(es)
	changes := false
	var equalities []int // stack of indices where candidate equalities are found
	var lastEquality []T // always es[equalities[len(equalities)-1]].Units
	// Whether there is an insertion or deletion before or after the last equality.
	var preIns, preDel, postIns, postDel bool
	for i := 0; i < len(es); i++ {
		if es[i].Op == edits.Equal {
			if len(es[i].Units) < cost && (postIns || postDel) {
				// Candidate found.
				equalities = append(equalities, i)
				preIns, preDel = postIns, postDel
				lastEquality = es[i].Units
			} else {
				// Not a candidate, and can never become one.
				equalities = equalities[:0]
				lastEquality = nil
			}
			postIns, postDel = false, false
			continue
		}

		if es[i].Op == edits.Delete {
			postDel = true
		} else {
			postIns = true
		}

		// Split the equality if it's surrounded by both kinds of edits on both sides, or if it's
		// shorter than half the edit cost and three of the four sides have an edit.
		n := len(lastEquality)
		if n == 0 {
			continue
		}
		if !(preIns && preDel && postIns && postDel) && !(2*n < cost && count(preIns, preDel, postIns, postDel) == 3) {
			continue
		}

		// Replace the equality with a deletion and an insertion.
		j := equalities[len(equalities)-1]
		es = slices.Insert(es, j, edit[T]{Op: edits.Delete, Units: lastEquality})
		es[j+1] = edit[T]{Op: edits.Insert, Units: lastEquality}
		equalities = pop(equalities)
		lastEquality = nil
		if preIns && preDel {
			// No changes made which could affect previous entry, keep going.
			postIns, postDel = true, true
			equalities = equalities[:0]
		} else {
			// Throw away the previous equality and reevaluate from there.
			equalities = pop(equalities)
			if len(equalities) > 0 {
				i = equalities[len(equalities)-1]
			} else {
				i = -1
			}
			postIns, postDel = false, false
		}
		changes = true
	}

	if changes {
		es = Merge(es)
	}
	return es
}

func pop(s []int) []int {
	if len(s) == 0 {
		return s
	}
	return s[:len(s)-1]
}

func count(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
