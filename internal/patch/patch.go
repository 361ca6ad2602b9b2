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

// Package patch creates, serializes and applies patches. A patch is a hunk of an edit script with
// enough context around it to find the place it applies to in a text that has drifted away from
// the text the patch was created for.
package patch

import (
	"slices"

	"znkr.io/dmp/internal/affix"
	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/edits"
	"znkr.io/dmp/internal/impl"
)

type edit = edits.Edit[rune]

// Patch is a hunk of an edit script with surrounding context. All positions and lengths count
// runes.
type Patch struct {
	Start1, Start2   int // Start of the hunk in the source and the destination text
	Length1, Length2 int // Length of the hunk in the source and the destination text
	Edits            []edit
}

// MakeFromTexts creates patches that transform text1 into text2.
func MakeFromTexts(text1, text2 []rune, cfg config.Config) []Patch {
	es := impl.DiffRunes(text1, text2, cfg)
	if len(es) > 2 {
		es = impl.Semantic(es, impl.TextScore)
		es = impl.Efficiency(es, cfg.EditCost)
	}
	return Make(text1, es, cfg)
}

// Make creates patches that transform text1 into the destination text of es. es must be an edit
// script with text1 as source text.
func Make(text1 []rune, es []edit, cfg config.Config) []Patch {
	if len(es) == 0 {
		return nil
	}

	var ps []Patch
	var p Patch
	var n1, n2 int // units consumed in the source and the destination text

	// Context is taken from the text as it looks after applying all previous patches, while
	// positions of the patch refer to the original text.
	prepatch, postpatch := text1, text1

	for i, e := range es {
		if len(p.Edits) == 0 && e.Op != edits.Equal {
			// Start a new patch.
			p.Start1, p.Start2 = n1, n2
		}

		switch e.Op {
		case edits.Insert:
			p.Edits = append(p.Edits, e)
			p.Length2 += len(e.Units)
			postpatch = slices.Concat(sub(postpatch, 0, n2), e.Units, sub(postpatch, n2, len(postpatch)))
		case edits.Delete:
			p.Edits = append(p.Edits, e)
			p.Length1 += len(e.Units)
			postpatch = slices.Concat(sub(postpatch, 0, n2), sub(postpatch, n2+len(e.Units), len(postpatch)))
		case edits.Equal:
			switch {
			case len(e.Units) <= 2*cfg.Margin && len(p.Edits) > 0 && i != len(es)-1:
				// Short enough to stay inside the patch.
				p.Edits = append(p.Edits, e)
				p.Length1 += len(e.Units)
				p.Length2 += len(e.Units)
			case len(e.Units) >= 2*cfg.Margin && len(p.Edits) > 0:
				// Long equality, close the patch with tail context.
				addContext(&p, prepatch, cfg)
				ps = append(ps, p)
				p = Patch{}
				// The context of the next patch refers to the text with all previous patches
				// applied.
				prepatch = postpatch
				n1 = n2
			}
		}

		if e.Op != edits.Insert {
			n1 += len(e.Units)
		}
		if e.Op != edits.Delete {
			n2 += len(e.Units)
		}
	}

	// Close the last patch.
	if len(p.Edits) > 0 {
		addContext(&p, prepatch, cfg)
		ps = append(ps, p)
	}
	return ps
}

// addContext increases the context of a patch until it's unique in text, but doesn't let the
// pattern expand beyond what the fuzzy locator can handle.
func addContext(p *Patch, text []rune, cfg config.Config) {
	if len(text) == 0 {
		return
	}

	pattern := sub(text, p.Start2, p.Start2+p.Length1)
	padding := 0

	// Look for the first and last matches of pattern in text. If two different matches are found,
	// increase the pattern length.
	for affix.Index(text, pattern, 0) != affix.LastIndex(text, pattern, len(text)) &&
		len(pattern) < cfg.MaxBits-2*cfg.Margin {
		padding += cfg.Margin
		pattern = sub(text, p.Start2-padding, p.Start2+p.Length1+padding)
	}
	// One more margin beyond uniqueness.
	padding += cfg.Margin

	prefix := sub(text, p.Start2-padding, p.Start2)
	suffix := sub(text, p.Start2+p.Length1, p.Start2+p.Length1+padding)
	if len(prefix) > 0 {
		p.Edits = slices.Insert(p.Edits, 0, edit{Op: edits.Equal, Units: prefix})
	}
	if len(suffix) > 0 {
		p.Edits = append(p.Edits, edit{Op: edits.Equal, Units: suffix})
	}

	p.Start1 -= len(prefix)
	p.Start2 -= len(prefix)
	p.Length1 += len(prefix) + len(suffix)
	p.Length2 += len(prefix) + len(suffix)
}

// Clone returns a deep copy of a patch.
func (p Patch) Clone() Patch {
	p.Edits = edits.Clone(p.Edits)
	return p
}

// Clone returns a deep copy of a list of patches.
func Clone(ps []Patch) []Patch {
	if ps == nil {
		return nil
	}
	out := make([]Patch, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// sub returns s[i:j] with i and j clamped to the bounds of s. If i > j, they are swapped.
func sub(s []rune, i, j int) []rune {
	i = max(0, min(i, len(s)))
	j = max(0, min(j, len(s)))
	if i > j {
		i, j = j, i
	}
	return s[i:j]
}
