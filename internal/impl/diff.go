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

// Package impl contains the diff engine and the cleanup passes for edit scripts.
package impl

import (
	"slices"
	"time"

	"znkr.io/dmp/internal/affix"
	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/edits"
)

type edit[T comparable] = edits.Edit[T]

// Diff compares the contents of x and y and returns an edit script that transforms x into y.
func Diff[T comparable](x, y []T, cfg config.Config) []edits.Edit[T] {
	d := newDiffer[T](cfg)
	return d.diff(x, y, false)
}

// DiffRunes compares two texts and returns an edit script that transforms x into y. In contrast
// to [Diff], large texts are first compared line by line if cfg.CheckLines is set.
func DiffRunes(x, y []rune, cfg config.Config) []edits.Edit[rune] {
	d := newDiffer[rune](cfg)
	d.lineMode = func(x, y []rune) []edits.Edit[rune] { return lineMode(d, x, y) }
	return d.diff(x, y, cfg.CheckLines)
}

// differ holds the state shared by all recursive steps of a single comparison.
type differ[T comparable] struct {
	// Point in time at which the comparison has to be complete. No deadline if zero.
	deadline time.Time

	// If set, the half-match heuristic is applied. It's disabled for unlimited comparisons,
	// because it can produce non-minimal edit scripts.
	halfMatch bool

	// Line level pre-pass, nil if not available for T.
	lineMode func(x, y []T) []edits.Edit[T]
}

func newDiffer[T comparable](cfg config.Config) *differ[T] {
	return &differ[T]{
		deadline:  cfg.Deadline(),
		halfMatch: cfg.Timeout > 0,
	}
}

func (d *differ[T]) expired() bool {
	return !d.deadline.IsZero() && time.Now().After(d.deadline)
}

// diff finds the differences between x and y. It strips any common prefix or suffix off the
// inputs before comparing the rest.
func (d *differ[T]) diff(x, y []T, checklines bool) []edit[T] {
	if slices.Equal(x, y) {
		if len(x) == 0 {
			return nil
		}
		return []edit[T]{{Op: edits.Equal, Units: x}}
	}

	n := affix.CommonPrefix(x, y)
	prefix := x[:n]
	x, y = x[n:], y[n:]

	n = affix.CommonSuffix(x, y)
	suffix := x[len(x)-n:]
	x, y = x[:len(x)-n], y[:len(y)-n]

	es := make([]edit[T], 0, 8)
	if len(prefix) > 0 {
		es = append(es, edit[T]{Op: edits.Equal, Units: prefix})
	}
	es = append(es, d.compute(x, y, checklines)...)
	if len(suffix) > 0 {
		es = append(es, edit[T]{Op: edits.Equal, Units: suffix})
	}
	return Merge(es)
}

// compute finds the differences between x and y.
//
// Important: x and y must not have a common prefix or a common suffix.
func (d *differ[T]) compute(x, y []T, checklines bool) []edit[T] {
	if len(x) == 0 {
		return []edit[T]{{Op: edits.Insert, Units: y}}
	}
	if len(y) == 0 {
		return []edit[T]{{Op: edits.Delete, Units: x}}
	}

	long, short, op := x, y, edits.Delete
	if len(x) <= len(y) {
		long, short, op = y, x, edits.Insert
	}
	if i := affix.Index(long, short, 0); i >= 0 {
		// The shorter input is inside the longer input.
		return nonEmpty(
			edit[T]{Op: op, Units: long[:i]},
			edit[T]{Op: edits.Equal, Units: short},
			edit[T]{Op: op, Units: long[i+len(short):]},
		)
	}
	if len(short) == 1 {
		// After the previous check, the single unit can't be an equality.
		return []edit[T]{{Op: edits.Delete, Units: x}, {Op: edits.Insert, Units: y}}
	}

	// Check if the problem can be split in two.
	if hm, ok := d.halfMatchOf(x, y); ok {
		es := d.diff(hm.x0, hm.y0, checklines)
		es = append(es, edit[T]{Op: edits.Equal, Units: hm.mid})
		return append(es, d.diff(hm.x1, hm.y1, checklines)...)
	}

	if checklines && d.lineMode != nil && len(x) > lineModeMin && len(y) > lineModeMin {
		return d.lineMode(x, y)
	}

	return d.bisect(x, y)
}

// Minimum input size for the line level pre-pass.
const lineModeMin = 100

// bisect finds the middle snake of an optimal path from (0, 0) to (len(x), len(y)), splits the
// problem in two and returns the recursively constructed edit script.
//
// See Myers' 1986 paper: An O(ND) Difference Algorithm and Its Variations.
func (d *differ[T]) bisect(x, y []T) []edit[T] {
	N, M := len(x), len(y)
	maxD := (N + M + 1) / 2

	// v-arrays for forwards and backwards iteration respectively. A v-array stores the furthest
	// reaching s-coordinate of a d-path in diagonal k in v[v0+k]. The backwards search works on the
	// reversed inputs, its s-coordinates are measured from the end of x. Unreached diagonals are
	// -1.
	v0 := maxD
	vlen := 2 * maxD
	buf := make([]int, 2*vlen) // allocate space for vf and vb with a single allocation
	for i := range buf {
		buf[i] = -1
	}
	vf, vb := buf[:vlen], buf[vlen:]
	vf[v0+1] = 0
	vb[v0+1] = 0

	// The difference of the input lengths decides if the forward search or the backward search
	// is going to collide with the other one first: If it's odd, the forward search will.
	delta := N - M
	odd := delta%2 != 0

	// Offsets for the start and the end of the k-loops. They prevent the search from leaving the
	// edit grid.
	var fstart, fend, bstart, bend int

	for D := 0; D < maxD; D++ {
		// The deadline is only checked once per round.
		if d.expired() {
			break
		}

		// Forwards iteration.
		for k := -D + fstart; k <= D-fend; k += 2 {
			k0 := v0 + k
			var s int
			if k == -D || (k != D && vf[k0-1] < vf[k0+1]) {
				s = vf[k0+1] // vertical edge
			} else {
				s = vf[k0-1] + 1 // horizontal edge
			}
			t := s - k
			for s < N && t < M && x[s] == y[t] {
				s++
				t++
			}
			vf[k0] = s

			switch {
			case s > N:
				fend += 2 // ran off the right of the graph
			case t > M:
				fstart += 2 // ran off the bottom of the graph
			case odd:
				kb0 := v0 + delta - k
				if kb0 >= 0 && kb0 < vlen && vb[kb0] != -1 {
					// Mirror the backward endpoint onto the forward coordinate system and check
					// for an overlap.
					if s >= N-vb[kb0] {
						return d.bisectSplit(x, y, s, t)
					}
				}
			}
		}

		// Backwards iteration.
		//
		// This is mostly analogous to the forward iteration.
		for k := -D + bstart; k <= D-bend; k += 2 {
			k0 := v0 + k
			var s int
			if k == -D || (k != D && vb[k0-1] < vb[k0+1]) {
				s = vb[k0+1]
			} else {
				s = vb[k0-1] + 1
			}
			t := s - k
			for s < N && t < M && x[N-s-1] == y[M-t-1] {
				s++
				t++
			}
			vb[k0] = s

			switch {
			case s > N:
				bend += 2 // ran off the left of the graph
			case t > M:
				bstart += 2 // ran off the top of the graph
			case !odd:
				kf0 := v0 + delta - k
				if kf0 >= 0 && kf0 < vlen && vf[kf0] != -1 {
					sf := vf[kf0]
					tf := v0 + sf - kf0
					if sf >= N-s {
						return d.bisectSplit(x, y, sf, tf)
					}
				}
			}
		}
	}

	// The deadline was reached or there's no commonality at all.
	return []edit[T]{{Op: edits.Delete, Units: x}, {Op: edits.Insert, Units: y}}
}

// bisectSplit splits the problem at (s, t) and compares the two halves independently.
func (d *differ[T]) bisectSplit(x, y []T, s, t int) []edit[T] {
	es := d.diff(x[:s], y[:t], false)
	return append(es, d.diff(x[s:], y[t:], false)...)
}

// nonEmpty returns all edits with at least one unit.
func nonEmpty[T comparable](es ...edit[T]) []edit[T] {
	out := es[:0]
	for _, e := range es {
		if len(e.Units) > 0 {
			out = append(out, e)
		}
	}
	return out
}
