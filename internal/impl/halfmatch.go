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

import "znkr.io/dmp/internal/affix"

// halfMatch describes a common middle of two sequences x and y:
//
//	x = x0 + mid + x1
//	y = y0 + mid + y1
type halfMatch[T comparable] struct {
	x0, x1 []T
	y0, y1 []T
	mid    []T
}

// halfMatchOf checks if x and y share a substring that is at least half the length of the longer
// input. This speedup can produce non-minimal diffs and is therefore disabled for comparisons
// without a deadline.
func (d *differ[T]) halfMatchOf(x, y []T) (halfMatch[T], bool) {
	if !d.halfMatch {
		return halfMatch[T]{}, false
	}
	return findHalfMatch(x, y, d.expired)
}

// findHalfMatch checks if x and y share a substring that is at least half the length of the longer
// input. The search gives up as soon as expired returns true; expired may be nil.
func findHalfMatch[T comparable](x, y []T, expired func() bool) (halfMatch[T], bool) {
	long, short := x, y
	if len(x) <= len(y) {
		long, short = y, x
	}
	if len(long) < 4 || 2*len(short) < len(long) {
		return halfMatch[T]{}, false // pointless
	}

	// Try seeds at the second and at the third quarter of the longer input.
	hm1, ok1 := halfMatchAt(long, short, (len(long)+3)/4, expired)
	hm2, ok2 := halfMatchAt(long, short, (len(long)+1)/2, expired)

	var hm halfMatch[T]
	switch {
	case !ok1 && !ok2:
		return halfMatch[T]{}, false
	case !ok2:
		hm = hm1
	case !ok1:
		hm = hm2
	case len(hm1.mid) > len(hm2.mid):
		hm = hm1
	default:
		hm = hm2
	}

	// halfMatchAt works on (long, short), translate back to (x, y).
	if len(x) <= len(y) {
		hm.x0, hm.x1, hm.y0, hm.y1 = hm.y0, hm.y1, hm.x0, hm.x1
	}
	return hm, true
}

// halfMatchAt checks if a substring of short matches a substring of long that is seeded at
// long[i:i+len(long)/4] and is at least half the length of long. The result is expressed with x
// being long and y being short.
func halfMatchAt[T comparable](long, short []T, i int, expired func() bool) (halfMatch[T], bool) {
	seed := affix.NewSearcher(long[i : i+len(long)/4])
	var best halfMatch[T]
	for j := seed.Index(short, 0); j >= 0; j = seed.Index(short, j+1) {
		if expired != nil && expired() {
			return halfMatch[T]{}, false
		}
		prefix := affix.CommonPrefix(long[i:], short[j:])
		suffix := affix.CommonSuffix(long[:i], short[:j])
		if len(best.mid) < suffix+prefix {
			best = halfMatch[T]{
				x0:  long[:i-suffix],
				x1:  long[i+prefix:],
				y0:  short[:j-suffix],
				y1:  short[j+prefix:],
				mid: short[j-suffix : j+prefix],
			}
		}
	}
	if 2*len(best.mid) < len(long) {
		return halfMatch[T]{}, false
	}
	return best, true
}
