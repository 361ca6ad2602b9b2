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

package dmp_test

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/dmp"
)

var interopTests = []struct {
	name string
	a, b string
}{
	{
		name: "fox",
		a:    "The quick brown fox jumps over the lazy dog.",
		b:    "That quick brown fox jumped over a lazy dog.",
	},
	{
		name: "lines",
		a:    "line1\nline2\nline3\n",
		b:    "line1\nlineTWO\nline3\n",
	},
	{
		name: "escapes",
		a:    "100% sure that a+b = c",
		b:    "100 % sure that a + b == c?",
	},
	{
		name: "non_ascii",
		a:    "Grüße aus Köln",
		b:    "Grüße aus Düsseldorf",
	},
}

// Patch text made by this package can be applied by github.com/sergi/go-diff.
func TestInteropPatchesToSergi(t *testing.T) {
	sergi := diffmatchpatch.New()
	for _, tt := range interopTests {
		t.Run(tt.name, func(t *testing.T) {
			text := dmp.PatchesToText(dmp.MakePatches(tt.a, tt.b))
			patches, err := sergi.PatchFromText(text)
			if err != nil {
				t.Fatalf("PatchFromText(%q) failed: %v", text, err)
			}
			got, applied := sergi.PatchApply(patches, tt.a)
			if got != tt.b {
				t.Errorf("PatchApply(...) = %q, want %q", got, tt.b)
			}
			for i, ok := range applied {
				if !ok {
					t.Errorf("patch %d was not applied", i)
				}
			}
		})
	}
}

// Patch text made by github.com/sergi/go-diff can be applied by this package.
func TestInteropPatchesFromSergi(t *testing.T) {
	sergi := diffmatchpatch.New()
	for _, tt := range interopTests {
		t.Run(tt.name, func(t *testing.T) {
			text := sergi.PatchToText(sergi.PatchMake(tt.a, tt.b))
			patches, err := dmp.PatchesFromText(text)
			if err != nil {
				t.Fatalf("PatchesFromText(%q) failed: %v", text, err)
			}
			got, applied := dmp.ApplyPatches(patches, tt.a)
			if got != tt.b {
				t.Errorf("ApplyPatches(...) = %q, want %q", got, tt.b)
			}
			for i, ok := range applied {
				if !ok {
					t.Errorf("patch %d was not applied", i)
				}
			}
		})
	}
}

// Deltas made by this package can be decoded by github.com/sergi/go-diff.
func TestInteropDelta(t *testing.T) {
	sergi := diffmatchpatch.New()
	for _, tt := range interopTests {
		t.Run(tt.name, func(t *testing.T) {
			delta := dmp.ToDelta(dmp.DiffMain(tt.a, tt.b))
			diffs, err := sergi.DiffFromDelta(tt.a, delta)
			if err != nil {
				t.Fatalf("DiffFromDelta(%q) failed: %v", delta, err)
			}
			if got := sergi.DiffText2(diffs); got != tt.b {
				t.Errorf("DiffText2(DiffFromDelta(...)) = %q, want %q", got, tt.b)
			}
		})
	}
}
