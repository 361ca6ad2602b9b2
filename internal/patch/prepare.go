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

	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/edits"
)

// Padding returns the padding that AddPadding puts around a text: The runes 1 to margin.
func Padding(margin int) []rune {
	padding := make([]rune, margin)
	for i := range padding {
		padding[i] = rune(i + 1)
	}
	return padding
}

// AddPadding adds padding on both ends of a list of patches, so that edits at the start or the
// end of a text can be matched. The caller has to put the same padding around the text the
// patches are applied to.
//
// AddPadding modifies ps in place, but doesn't modify any edit units.
func AddPadding(ps []Patch, margin int) []rune {
	padding := Padding(margin)
	if len(ps) == 0 {
		return padding
	}

	// Shift all patches by the padding.
	for i := range ps {
		ps[i].Start1 += margin
		ps[i].Start2 += margin
	}

	// Pad the head context of the first patch.
	p := &ps[0]
	if len(p.Edits) == 0 || p.Edits[0].Op != edits.Equal {
		p.Edits = slices.Insert(p.Edits, 0, edit{Op: edits.Equal, Units: padding})
		p.Start1 -= margin
		p.Start2 -= margin
		p.Length1 += margin
		p.Length2 += margin
	} else if first := p.Edits[0].Units; len(first) < margin {
		// Extend the existing context up to the padding length.
		extra := margin - len(first)
		p.Edits[0].Units = slices.Concat(padding[len(first):], first)
		p.Start1 -= extra
		p.Start2 -= extra
		p.Length1 += extra
		p.Length2 += extra
	}

	// Pad the tail context of the last patch.
	p = &ps[len(ps)-1]
	if len(p.Edits) == 0 || p.Edits[len(p.Edits)-1].Op != edits.Equal {
		p.Edits = append(p.Edits, edit{Op: edits.Equal, Units: padding})
		p.Length1 += margin
		p.Length2 += margin
	} else if last := p.Edits[len(p.Edits)-1].Units; len(last) < margin {
		// Extend the existing context up to the padding length.
		extra := margin - len(last)
		p.Edits[len(p.Edits)-1].Units = slices.Concat(last, padding[:extra])
		p.Length1 += extra
		p.Length2 += extra
	}
	return padding
}

// SplitMax breaks up patches that are longer than the fuzzy locator can handle. Large deletions
// are kept in one piece, because they are matched by their head and tail.
//
// The result is a new list of patches. The second return value maps every patch in the result to
// the index of the patch in ps it was taken from.
func SplitMax(ps []Patch, cfg config.Config) ([]Patch, []int) {
	out := make([]Patch, 0, len(ps))
	origin := make([]int, 0, len(ps))
	for i, p := range ps {
		if p.Length1 <= cfg.MaxBits {
			out = append(out, p)
			origin = append(origin, i)
			continue
		}
		for _, q := range split(p, cfg.MaxBits, cfg.Margin) {
			out = append(out, q)
			origin = append(origin, i)
		}
	}
	return out, origin
}

// split breaks up a single patch into patches with a source length of at most size (except for
// large deletions).
func split(big Patch, size, margin int) []Patch {
	var out []Patch
	start1, start2 := big.Start1, big.Start2
	rest := slices.Clone(big.Edits)
	var precontext []rune
	for len(rest) > 0 {
		// Fill a new patch up to size, starting with the context left over from the previous one.
		p := Patch{
			Start1: start1 - len(precontext),
			Start2: start2 - len(precontext),
		}
		empty := true
		if len(precontext) > 0 {
			p.Length1, p.Length2 = len(precontext), len(precontext)
			p.Edits = append(p.Edits, edit{Op: edits.Equal, Units: precontext})
		}

		for len(rest) > 0 && p.Length1 < size-margin {
			e := rest[0]
			switch {
			case e.Op == edits.Insert:
				// Insertions don't count against the size.
				p.Length2 += len(e.Units)
				start2 += len(e.Units)
				p.Edits = append(p.Edits, e)
				rest = rest[1:]
				empty = false
			case e.Op == edits.Delete && len(p.Edits) == 1 && p.Edits[0].Op == edits.Equal && len(e.Units) > 2*size:
				// Large deletion as the first edit, keep it whole.
				p.Length1 += len(e.Units)
				start1 += len(e.Units)
				p.Edits = append(p.Edits, e)
				rest = rest[1:]
				empty = false
			default:
				// Take what fits.
				units := e.Units[:min(len(e.Units), size-p.Length1-margin)]
				p.Length1 += len(units)
				start1 += len(units)
				if e.Op == edits.Equal {
					p.Length2 += len(units)
					start2 += len(units)
				} else {
					empty = false
				}
				p.Edits = append(p.Edits, edit{Op: e.Op, Units: units})
				if len(units) == len(e.Units) {
					rest = rest[1:]
				} else {
					rest[0].Units = e.Units[len(units):]
				}
			}
		}

		// The tail of this patch's destination text is the head context of the next one.
		precontext = edits.Dest(p.Edits)
		precontext = precontext[max(0, len(precontext)-margin):]

		// Tail context from what's left of the source.
		postcontext := edits.Source(rest)
		postcontext = postcontext[:min(margin, len(postcontext))]
		if len(postcontext) > 0 {
			p.Length1 += len(postcontext)
			p.Length2 += len(postcontext)
			if n := len(p.Edits); n > 0 && p.Edits[n-1].Op == edits.Equal {
				p.Edits[n-1].Units = slices.Concat(p.Edits[n-1].Units, postcontext)
			} else {
				p.Edits = append(p.Edits, edit{Op: edits.Equal, Units: postcontext})
			}
		}

		if !empty {
			out = append(out, p)
		}
	}
	return out
}
