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

package dmp

import (
	"fmt"
	"strings"

	"znkr.io/dmp/internal/affix"
	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/edits"
	"znkr.io/dmp/internal/impl"
	"znkr.io/dmp/internal/render"
	"znkr.io/dmp/tokens"
)

// Op describes an edit operation.
type Op = edits.Op

const (
	Equal  = edits.Equal  // Text present in both inputs
	Delete = edits.Delete // Text only present in the source
	Insert = edits.Insert // Text only present in the destination
)

// Diff is a run of text that shares the same operation. A slice of diffs is an edit script that
// transforms a source text into a destination text.
type Diff struct {
	Op   Op
	Text string
}

func (d Diff) String() string {
	return fmt.Sprintf("%v %q", d.Op, d.Text)
}

// Edit is a run of units that share the same operation. It is the generic counterpart to
// [Diff]. The units of an edit are never modified by any function in this package, but they may
// share memory with the inputs.
type Edit[T comparable] = edits.Edit[T]

// DiffMain compares two texts and returns an edit script that transforms a into b. Texts are
// compared rune by rune. Every byte of invalid UTF-8 is read as [unicode/utf8.RuneError]
// (U+FFFD), so the edit script reproduces such a text only with these replacements.
//
// Equal texts result in a single [Equal] diff, or no diff at all if both are empty. The result is
// merged: no two adjacent diffs share an operation. Semantic cleanups are not applied, see
// [CleanupSemantic] and [CleanupEfficiency].
//
// The following options are supported: [dmp.Timeout], [dmp.CheckLines]
func DiffMain(a, b string, opts ...Option) []Diff {
	return diffMain(a, b, config.FromOptions(opts, config.Diff))
}

func diffMain(a, b string, cfg config.Config) []Diff {
	return fromEdits(impl.DiffRunes([]rune(a), []rune(b), cfg))
}

// DiffSlices compares two slices of arbitrary comparable units and returns an edit script that
// transforms a into b.
//
// The following option is supported: [dmp.Timeout]
func DiffSlices[T comparable](a, b []T, opts ...Option) []Edit[T] {
	return impl.Diff(a, b, config.FromOptions(opts, config.Timeout))
}

// DiffLines compares two texts line by line. Every diff consists of whole lines.
//
// The following option is supported: [dmp.Timeout]
func DiffLines(a, b string, opts ...Option) []Diff {
	return diffTokens(tokens.Lines(a), tokens.Lines(b), config.FromOptions(opts, config.Timeout))
}

// DiffWords compares two texts word by word, using Unicode text segmentation to find word
// boundaries. Every diff consists of whole words, whitespace and punctuation.
//
// The following option is supported: [dmp.Timeout]
func DiffWords(a, b string, opts ...Option) []Diff {
	return diffTokens(tokens.Words(a), tokens.Words(b), config.FromOptions(opts, config.Timeout))
}

// DiffGraphemes compares two texts by grapheme cluster, i.e. user-perceived character. In
// contrast to [DiffMain], a diff never splits a character composed of multiple runes.
//
// The following option is supported: [dmp.Timeout]
func DiffGraphemes(a, b string, opts ...Option) []Diff {
	return diffTokens(tokens.Graphemes(a), tokens.Graphemes(b), config.FromOptions(opts, config.Timeout))
}

func diffTokens(a, b []string, cfg config.Config) []Diff {
	es := impl.Diff(a, b, cfg)
	if len(es) == 0 {
		return nil
	}
	out := make([]Diff, len(es))
	for i, e := range es {
		out[i] = Diff{Op: e.Op, Text: tokens.Join(e.Units)}
	}
	return out
}

// CommonPrefix returns the number of runes common to the start of both texts.
func CommonPrefix(a, b string) int {
	return affix.CommonPrefix([]rune(a), []rune(b))
}

// CommonSuffix returns the number of runes common to the end of both texts.
func CommonSuffix(a, b string) int {
	return affix.CommonSuffix([]rune(a), []rune(b))
}

// CommonOverlap returns the number of runes at the end of a that are also at the start of b.
func CommonOverlap(a, b string) int {
	return affix.CommonOverlap([]rune(a), []rune(b))
}

// CleanupMerge reorders and merges like edit sections and factors out common prefixes and
// suffixes of adjacent deletions and insertions. Any edit section can move as long as it doesn't
// cross an equality.
func CleanupMerge(diffs []Diff) []Diff {
	return fromEdits(impl.Merge(toEdits(diffs)))
}

// CleanupMergeSlices is the generic counterpart to [CleanupMerge].
func CleanupMergeSlices[T comparable](es []Edit[T]) []Edit[T] {
	return impl.Merge(es)
}

// CleanupSemantic makes an edit script easier to read for humans. It eliminates equalities that
// are too short to be meaningful, aligns edits with word and line boundaries and extracts
// overlaps between deletions and insertions.
func CleanupSemantic(diffs []Diff) []Diff {
	return fromEdits(impl.Semantic(toEdits(diffs), impl.TextScore))
}

// CleanupSemanticSlices is the generic counterpart to [CleanupSemantic]. Without knowledge about
// the units, edits are only aligned with the start or the end of the inputs.
func CleanupSemanticSlices[T comparable](es []Edit[T]) []Edit[T] {
	return impl.Semantic(es, impl.EdgeScore[T])
}

// CleanupSemanticLossless shifts single edits that are surrounded by equalities sideways to align
// them with word and line boundaries, without changing the number of diffs.
func CleanupSemanticLossless(diffs []Diff) []Diff {
	return fromEdits(impl.SemanticLossless(toEdits(diffs), impl.TextScore))
}

// CleanupEfficiency makes an edit script cheaper to store and to apply by merging short
// equalities into the surrounding edits. The cost of an edit is configured with [EditCost].
//
// The following option is supported: [dmp.EditCost]
func CleanupEfficiency(diffs []Diff, opts ...Option) []Diff {
	cfg := config.FromOptions(opts, config.EditCost)
	return fromEdits(impl.Efficiency(toEdits(diffs), cfg.EditCost))
}

// CleanupEfficiencySlices is the generic counterpart to [CleanupEfficiency].
//
// The following option is supported: [dmp.EditCost]
func CleanupEfficiencySlices[T comparable](es []Edit[T], opts ...Option) []Edit[T] {
	cfg := config.FromOptions(opts, config.EditCost)
	return impl.Efficiency(es, cfg.EditCost)
}

// XIndex translates a rune offset in the source text of an edit script to the equivalent rune
// offset in the destination text. An offset inside of a deletion maps to the position right after
// the deletion.
func XIndex(diffs []Diff, loc int) int {
	return edits.XIndex(toEdits(diffs), loc)
}

// Text1 returns the source text of an edit script.
func Text1(diffs []Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		if d.Op != Insert {
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}

// Text2 returns the destination text of an edit script.
func Text2(diffs []Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		if d.Op != Delete {
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}

// Levenshtein returns the Levenshtein distance of an edit script in runes, i.e. the number of
// inserted, deleted or substituted runes.
func Levenshtein(diffs []Diff) int {
	return edits.Levenshtein(toEdits(diffs))
}

// PrettyText renders an edit script for a terminal with deletions in red and insertions in green.
// Without colors, deletions are marked as [-text-] and insertions as {+text+}.
func PrettyText(diffs []Diff, color bool) string {
	colors := render.Plain
	if color {
		colors = render.Terminal
	}
	var sb strings.Builder
	render.Inline(&sb, toEdits(diffs), colors)
	return sb.String()
}

func toEdits(diffs []Diff) []edits.Edit[rune] {
	if diffs == nil {
		return nil
	}
	out := make([]edits.Edit[rune], len(diffs))
	for i, d := range diffs {
		out[i] = edits.Edit[rune]{Op: d.Op, Units: []rune(d.Text)}
	}
	return out
}

func fromEdits(es []edits.Edit[rune]) []Diff {
	if len(es) == 0 {
		return nil
	}
	out := make([]Diff, len(es))
	for i, e := range es {
		out[i] = Diff{Op: e.Op, Text: string(e.Units)}
	}
	return out
}
