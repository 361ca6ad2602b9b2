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

// Package dmp computes, cleans up and reapplies differences between texts in the style of
// diff-match-patch.
//
// The package has three parts:
//
//   - Diff: [DiffMain] compares two texts and returns an edit script. The cleanup functions
//     ([CleanupSemantic], [CleanupEfficiency], ...) make edit scripts easier to read or cheaper
//     to store. [ToDelta] and [FromDelta] encode an edit script compactly.
//   - Match: [Match] finds the best fuzzy match of a pattern near an expected location.
//   - Patch: [MakePatches] creates patches that [ApplyPatches] can apply to a text that has
//     changed in the meantime. [PatchesToText] and [PatchesFromText] convert patches to and from
//     a text form.
//
// Texts are compared rune by rune and all offsets and lengths count runes. Text is expected to be
// valid UTF-8: invalid bytes are replaced with U+FFFD, and the text forms of patches and deltas
// reject invalid UTF-8. [DiffSlices] and the other generic functions work on slices of any
// comparable type, [DiffLines], [DiffWords] and [DiffGraphemes] compare texts at a coarser
// granularity.
//
// All functions are configured with options, either per call or once for an [Engine]. No
// function modifies its arguments.
//
// Performance: Diffs take O(ND) time where N is the combined length of the inputs and D is the
// number of differences, but they are time boxed with [Timeout]. Large texts are compared line by
// line first, see [CheckLines].
package dmp
