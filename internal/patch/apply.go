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

package patch

import (
	"slices"

	"znkr.io/dmp/internal/bitap"
	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/edits"
	"znkr.io/dmp/internal/impl"
)

// Apply applies a list of patches to text. Patches are matched fuzzily, a patch can be applied to
// a text that differs from the text the patch was created for.
//
// The result is the patched text and, for every patch in ps, whether it was applied. ps is not
// modified.
func Apply(ps []Patch, text []rune, cfg config.Config) ([]rune, []bool) {
	if len(ps) == 0 {
		return text, nil
	}

	applied := make([]bool, len(ps))
	for i := range applied {
		applied[i] = true
	}

	ps = Clone(ps)
	padding := AddPadding(ps, cfg.Margin)
	text = slices.Concat(padding, text, padding)
	pieces, origin := SplitMax(ps, cfg)

	// The patch diffs never check lines, they are small and line mode would only add noise.
	dcfg := cfg
	dcfg.CheckLines = false

	// Offset between the expected and the actual location of the last patch that was found. It
	// moves the expected location of all following patches.
	delta := 0
	for k, p := range pieces {
		var ok bool
		text, delta, ok = applyOne(p, text, delta, cfg, dcfg)
		if !ok {
			applied[origin[k]] = false
		}
	}

	// Remove the padding.
	text = sub(text, len(padding), len(text)-len(padding))
	return text, applied
}

// applyOne applies a single patch and returns the new text, the new delta, and whether the patch
// was applied.
func applyOne(p Patch, text []rune, delta int, cfg, dcfg config.Config) ([]rune, int, bool) {
	expected := p.Start2 + delta
	text1 := edits.Source(p.Edits)
	start, end := -1, -1
	if len(text1) > cfg.MaxBits {
		// Only large deletions are this long after SplitMax, they are matched by head and tail.
		start = locate(text, text1[:cfg.MaxBits], expected, cfg)
		if start != -1 {
			end = locate(text, text1[len(text1)-cfg.MaxBits:], expected+len(text1)-cfg.MaxBits, cfg)
			if end == -1 || start >= end {
				// Tail not found or found before the head.
				start = -1
			}
		}
	} else {
		start = locate(text, text1, expected, cfg)
	}

	if start == -1 {
		// Not found, following patches expect the text without this patch applied.
		return text, delta - (p.Length2 - p.Length1), false
	}

	delta = start - expected
	var text2 []rune
	if end == -1 {
		text2 = sub(text, start, start+len(text1))
	} else {
		text2 = sub(text, start, end+cfg.MaxBits)
	}

	if slices.Equal(text1, text2) {
		// Exact match, replace the source text of the patch with its destination text.
		return slices.Concat(text[:start], edits.Dest(p.Edits), sub(text, start+len(text1), len(text))), delta, true
	}

	// Fuzzy match, translate positions in the patch to positions in the text found.
	es := impl.DiffRunes(text1, text2, dcfg)
	if len(text1) > cfg.MaxBits && float64(edits.Levenshtein(es))/float64(len(text1)) > cfg.DeleteThreshold {
		// Head and tail match, but the content between them is too different.
		return text, delta, false
	}
	es = impl.SemanticLossless(es, impl.TextScore)

	i1 := 0
	for _, e := range p.Edits {
		var i2 int
		if e.Op != edits.Equal {
			i2 = edits.XIndex(es, i1)
		}
		switch e.Op {
		case edits.Insert:
			at := start + i2
			text = slices.Concat(sub(text, 0, at), e.Units, sub(text, at, len(text)))
		case edits.Delete:
			at := start + i2
			text = slices.Concat(sub(text, 0, at), sub(text, start+edits.XIndex(es, i1+len(e.Units)), len(text)))
		}
		if e.Op != edits.Delete {
			i1 += len(e.Units)
		}
	}
	return text, delta, true
}

// locate finds pattern in text near loc. A pattern that is too long for the fuzzy locator is
// never found.
func locate(text, pattern []rune, loc int, cfg config.Config) int {
	i, err := bitap.Locate(text, pattern, loc, cfg)
	if err != nil {
		return -1
	}
	return i
}
