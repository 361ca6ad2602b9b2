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

// Package affix finds common prefixes, suffixes and overlaps of two sequences.
package affix

import "slices"

// CommonPrefix returns the length of the longest common prefix of a and b.
//
// The prefix is found by a binary search over candidate lengths. Comparing whole runs is much
// faster than a unit by unit scan on long inputs.
func CommonPrefix[T comparable](a, b []T) int {
	if len(a) == 0 || len(b) == 0 || a[0] != b[0] {
		return 0
	}
	lo, hi := 0, min(len(a), len(b))
	mid, start := hi, 0
	for lo < mid {
		if slices.Equal(a[start:mid], b[start:mid]) {
			lo = mid
			start = lo
		} else {
			hi = mid
		}
		mid = (hi-lo)/2 + lo
	}
	return mid
}

// CommonSuffix returns the length of the longest common suffix of a and b.
func CommonSuffix[T comparable](a, b []T) int {
	n, m := len(a), len(b)
	if n == 0 || m == 0 || a[n-1] != b[m-1] {
		return 0
	}
	lo, hi := 0, min(n, m)
	mid, end := hi, 0
	for lo < mid {
		if slices.Equal(a[n-mid:n-end], b[m-mid:m-end]) {
			lo = mid
			end = lo
		} else {
			hi = mid
		}
		mid = (hi-lo)/2 + lo
	}
	return mid
}

// CommonOverlap returns the length of the longest suffix of a that is a prefix of b.
func CommonOverlap[T comparable](a, b []T) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Truncate the longer sequence.
	if len(a) > len(b) {
		a = a[len(a)-len(b):]
	} else if len(a) < len(b) {
		b = b[:len(a)]
	}
	n := len(a)
	if slices.Equal(a, b) {
		return n
	}

	// Start by looking for a single unit match and increase the length until no match is found.
	// Every candidate is verified, an occurrence of the pattern further into b doesn't imply an
	// overlap.
	best, length := 0, 1
	for {
		found := Index(b, a[n-length:], 0)
		if found < 0 {
			return best
		}
		length += found
		if found == 0 || slices.Equal(a[n-length:], b[:length]) {
			best = length
			length++
		}
	}
}

// Index returns the index of the first occurrence of sub in s at or after from, or -1.
func Index[T comparable](s, sub []T, from int) int {
	return NewSearcher(sub).Index(s, from)
}

// Searcher finds a pattern in linear time with the Knuth-Morris-Pratt algorithm. A searcher can
// be reused for any number of searches.
type Searcher[T comparable] struct {
	pattern []T
	border  []int // border[i] is the length of the longest proper border of pattern[:i+1]
}

// NewSearcher creates a searcher for pattern.
func NewSearcher[T comparable](pattern []T) *Searcher[T] {
	border := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = border[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		border[i] = k
	}
	return &Searcher[T]{pattern: pattern, border: border}
}

// Index returns the index of the first occurrence of the pattern in s at or after from, or -1.
func (sr *Searcher[T]) Index(s []T, from int) int {
	from = max(from, 0)
	m := len(sr.pattern)
	if m == 0 {
		return min(from, len(s))
	}
	if len(s)-from < m {
		return -1
	}
	k := 0
	for i := from; i < len(s); i++ {
		for k > 0 && s[i] != sr.pattern[k] {
			k = sr.border[k-1]
		}
		if s[i] == sr.pattern[k] {
			k++
		}
		if k == m {
			return i - m + 1
		}
	}
	return -1
}

// LastIndex returns the index of the last occurrence of sub in s that starts at or before from, or
// -1.
func LastIndex[T comparable](s, sub []T, from int) int {
	if len(sub) == 0 {
		return min(max(from, 0), len(s))
	}
	for i := min(from, len(s)-len(sub)); i >= 0; i-- {
		if s[i] == sub[0] && slices.Equal(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
