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

// Package edits contains the edit script representation that's shared by the diff, cleanup and
// patch implementations and is then translated to a user facing API.
package edits

import "slices"

// Op describes an edit operation.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Op
type Op int

const (
	Equal  Op = iota // A run of units present in both inputs
	Delete           // A run of units only present in the source
	Insert           // A run of units only present in the destination
)

// Edit is a run of units that share the same operation. A slice of edits is an edit script.
//
// Units are never modified in place. Functions in this module that need to change a run create a
// new slice, so that edits can share memory with their inputs and with each other.
type Edit[T comparable] struct {
	Op    Op
	Units []T
}

// Source returns the source sequence of an edit script (all equalities and deletions).
func Source[T comparable](es []Edit[T]) []T {
	return project(es, Insert)
}

// Dest returns the destination sequence of an edit script (all equalities and insertions).
func Dest[T comparable](es []Edit[T]) []T {
	return project(es, Delete)
}

func project[T comparable](es []Edit[T], skip Op) []T {
	n := 0
	for _, e := range es {
		if e.Op != skip {
			n += len(e.Units)
		}
	}
	out := make([]T, 0, n)
	for _, e := range es {
		if e.Op != skip {
			out = append(out, e.Units...)
		}
	}
	return out
}

// XIndex translates a location in the source sequence of an edit script into the equivalent
// location in the destination sequence. A location inside of a deletion maps to the position
// right after the deletion.
func XIndex[T comparable](es []Edit[T], loc int) int {
	var n1, n2 int       // units consumed in source and destination
	var last1, last2 int // n1, n2 before the current edit
	var i int
	for i = 0; i < len(es); i++ {
		if es[i].Op != Insert {
			n1 += len(es[i].Units)
		}
		if es[i].Op != Delete {
			n2 += len(es[i].Units)
		}
		if n1 > loc {
			break // overshot the location
		}
		last1, last2 = n1, n2
	}
	if i < len(es) && es[i].Op == Delete {
		return last2
	}
	return last2 + (loc - last1)
}

// Levenshtein computes the Levenshtein distance of an edit script, that is the number of
// inserted, deleted or substituted units.
func Levenshtein[T comparable](es []Edit[T]) int {
	var dist, ins, del int
	for _, e := range es {
		switch e.Op {
		case Insert:
			ins += len(e.Units)
		case Delete:
			del += len(e.Units)
		case Equal:
			// A deletion and an insertion is one substitution.
			dist += max(ins, del)
			ins, del = 0, 0
		}
	}
	return dist + max(ins, del)
}

// Clone returns a deep copy of an edit script.
func Clone[T comparable](es []Edit[T]) []Edit[T] {
	if es == nil {
		return nil
	}
	out := make([]Edit[T], len(es))
	for i, e := range es {
		out[i] = Edit[T]{Op: e.Op, Units: slices.Clone(e.Units)}
	}
	return out
}
