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

// Package bitap implements fuzzy search of a pattern near an expected location using the Bitap
// algorithm.
//
// See Wu and Manber's 1992 paper: Fast Text Searching Allowing Errors.
package bitap

import (
	"errors"
	"slices"

	"znkr.io/dmp/internal/affix"
	"znkr.io/dmp/internal/config"
)

// ErrPatternTooLong is returned if a fuzzy search is necessary for a pattern that is longer than
// the configured bit width.
var ErrPatternTooLong = errors.New("pattern too long for fuzzy search")

// Locate returns the location of the best match of pattern in text near loc, or -1 if there is no
// match that is good enough. Exact matches are found without consulting the bitap search.
func Locate[T comparable](text, pattern []T, loc int, cfg config.Config) (int, error) {
	loc = max(0, min(loc, len(text)))
	switch {
	case slices.Equal(text, pattern):
		return 0, nil
	case len(text) == 0:
		return -1, nil
	case loc+len(pattern) <= len(text) && slices.Equal(text[loc:loc+len(pattern)], pattern):
		return loc, nil
	}
	return search(text, pattern, loc, cfg)
}

// scorer rates a match with a number of errors at a location. Lower is better, 0.0 is an exact
// match at the expected location.
type scorer struct {
	loc      int // expected location
	n        int // pattern length
	distance int
}

func (s scorer) score(errs, x int) float64 {
	accuracy := float64(errs) / float64(s.n)
	proximity := s.loc - x
	if proximity < 0 {
		proximity = -proximity
	}
	if s.distance == 0 {
		// Exact location required, any distance is as bad as it gets.
		if proximity != 0 {
			return 1.0
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(s.distance)
}

// search locates the best match of a non-empty pattern in text near loc.
func search[T comparable](text, pattern []T, loc int, cfg config.Config) (int, error) {
	if len(pattern) > cfg.MaxBits || len(pattern) > config.MaxWord {
		return -1, ErrPatternTooLong
	}
	if len(pattern) == 0 {
		return loc, nil
	}

	alphabet := Alphabet(pattern)
	sc := scorer{loc: loc, n: len(pattern), distance: cfg.MatchDistance}

	// Exact matches close to loc put an upper bound on the score we're looking for.
	threshold := cfg.MatchThreshold
	if i := affix.Index(text, pattern, loc); i >= 0 {
		threshold = min(sc.score(0, i), threshold)
		// And the closest one at or before loc.
		if i := affix.LastIndex(text, pattern, loc+len(pattern)); i >= 0 {
			threshold = min(sc.score(0, i), threshold)
		}
	}

	matchmask := uint64(1) << (len(pattern) - 1)
	best := -1

	var lastrd []uint64
	hi := len(pattern) + len(text)
	for d := range len(pattern) {
		// Iteration d allows d errors. The binary search finds how far from loc a match with d
		// errors can be and still beat the threshold.
		lo, mid := 0, hi
		for lo < mid {
			if sc.score(d, loc+mid) <= threshold {
				lo = mid
			} else {
				hi = mid
			}
			mid = (hi-lo)/2 + lo
		}
		// Matches with more errors can't be further away.
		hi = mid

		start := max(1, loc-mid+1)
		finish := min(loc+mid, len(text)) + len(pattern)

		rd := make([]uint64, finish+2)
		rd[finish+1] = 1<<d - 1
		for j := finish; j >= start; j-- {
			var charMatch uint64
			if j-1 < len(text) {
				charMatch = alphabet[text[j-1]]
			}
			if d == 0 {
				// Exact.
				rd[j] = (rd[j+1]<<1 | 1) & charMatch
			} else {
				// Substitution, insertion or deletion.
				prev := at(lastrd, j+1)
				rd[j] = (rd[j+1]<<1|1)&charMatch | ((prev|at(lastrd, j))<<1 | 1) | prev
			}
			if rd[j]&matchmask == 0 {
				continue
			}
			// A match ends at j-1.
			if s := sc.score(d, j-1); s <= threshold {
				threshold = s
				best = j - 1
				if best <= loc {
					// Scores only get worse below loc.
					break
				}
				// Don't search further below loc than best is above it.
				start = max(1, 2*loc-best)
			}
		}
		// One more error can't beat the threshold even at loc.
		if sc.score(d+1, loc) > threshold {
			break
		}
		lastrd = rd
	}
	return best, nil
}

func at(rd []uint64, i int) uint64 {
	if i < len(rd) {
		return rd[i]
	}
	return 0
}

// Alphabet returns the bit masks of all units in pattern. Bit len(pattern)-1-i is set in the mask
// of the unit at position i.
func Alphabet[T comparable](pattern []T) map[T]uint64 {
	s := make(map[T]uint64, len(pattern))
	for i, c := range pattern {
		s[c] |= 1 << (len(pattern) - i - 1)
	}
	return s
}
