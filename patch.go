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
	"unicode/utf8"

	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/patch"
)

// Patch is an edit script for a section of a text, with enough context around it to find the
// section again in a text that has changed since the patch was made. Positions and lengths count
// runes and are 0-based.
type Patch struct {
	Start1, Start2   int    // Start of the section in the source and the destination text
	Length1, Length2 int    // Length of the section in the source and the destination text
	Diffs            []Diff // Edit script for the section, including context
}

// String returns the text form of the patch, see [PatchesToText].
func (p Patch) String() string {
	var sb strings.Builder
	toInternal(p).Write(&sb)
	return sb.String()
}

// Validate checks that the header of a patch agrees with its diffs. All errors wrap
// [ErrInvalidInput].
func (p Patch) Validate() error {
	if p.Start1 < 0 || p.Start2 < 0 || p.Length1 < 0 || p.Length2 < 0 {
		return fmt.Errorf("%w: negative position in patch %s", ErrInvalidInput, p.Header())
	}
	if n := utf8.RuneCountInString(Text1(p.Diffs)); n != p.Length1 {
		return fmt.Errorf("%w: patch %s has a source text of length %d", ErrInvalidInput, p.Header(), n)
	}
	if n := utf8.RuneCountInString(Text2(p.Diffs)); n != p.Length2 {
		return fmt.Errorf("%w: patch %s has a destination text of length %d", ErrInvalidInput, p.Header(), n)
	}
	return nil
}

// Header returns the first line of the text form of the patch, e.g. "@@ -1,11 +1,11 @@".
func (p Patch) Header() string {
	return patch.Patch{Start1: p.Start1, Start2: p.Start2, Length1: p.Length1, Length2: p.Length2}.Header()
}

// MakePatches computes the patches that transform text a into b. The texts are diffed and the
// diffs cleaned up with [CleanupSemantic] and [CleanupEfficiency] first.
//
// The following options are supported: [dmp.Timeout], [dmp.CheckLines], [dmp.EditCost],
// [dmp.MatchThreshold], [dmp.MatchDistance], [dmp.DeleteThreshold], [dmp.Margin], [dmp.MaxBits]
func MakePatches(a, b string, opts ...Option) []Patch {
	return makePatches(a, b, config.FromOptions(opts, config.Patch))
}

func makePatches(a, b string, cfg config.Config) []Patch {
	return fromInternal(patch.MakeFromTexts([]rune(a), []rune(b), cfg))
}

// MakePatchesFromDiffs computes the patches for an edit script. The source text is reconstructed
// from the diffs.
//
// The following options are supported: [dmp.Margin], [dmp.MaxBits]
func MakePatchesFromDiffs(diffs []Diff, opts ...Option) []Patch {
	return makePatchesFromTextAndDiffs(Text1(diffs), diffs, config.FromOptions(opts, config.Margin|config.MaxBits))
}

// MakePatchesFromTextAndDiffs computes the patches for an edit script that transforms text a.
// Text a has to be the source text of the diffs.
//
// The following options are supported: [dmp.Margin], [dmp.MaxBits]
func MakePatchesFromTextAndDiffs(a string, diffs []Diff, opts ...Option) []Patch {
	return makePatchesFromTextAndDiffs(a, diffs, config.FromOptions(opts, config.Margin|config.MaxBits))
}

func makePatchesFromTextAndDiffs(a string, diffs []Diff, cfg config.Config) []Patch {
	return fromInternal(patch.Make([]rune(a), toEdits(diffs), cfg))
}

// ApplyPatches applies a list of patches to text. Patches are located fuzzily, so they can be
// applied to a text that differs from the one they were made for.
//
// The result is the patched text and, for every patch, whether it was applied. A patch that
// can't be applied is skipped, later patches are still applied. The patches are not modified.
//
// The following options are supported: [dmp.Timeout], [dmp.CheckLines], [dmp.EditCost],
// [dmp.MatchThreshold], [dmp.MatchDistance], [dmp.DeleteThreshold], [dmp.Margin], [dmp.MaxBits]
func ApplyPatches(patches []Patch, text string, opts ...Option) (string, []bool) {
	return applyPatches(patches, text, config.FromOptions(opts, config.Patch))
}

func applyPatches(patches []Patch, text string, cfg config.Config) (string, []bool) {
	out, applied := patch.Apply(toInternalAll(patches), []rune(text), cfg)
	return string(out), applied
}

// DeepCopyPatches returns a copy of patches that shares no memory with the input.
func DeepCopyPatches(patches []Patch) []Patch {
	if patches == nil {
		return nil
	}
	out := make([]Patch, len(patches))
	for i, p := range patches {
		out[i] = p
		out[i].Diffs = append([]Diff(nil), p.Diffs...)
	}
	return out
}

// AddPadding returns a copy of patches with padding added to the first and the last patch, and
// the padding itself. A text padded on both sides with the padding can be patched with the
// result, even if the edits are at the very start or end of the text.
//
// The following option is supported: [dmp.Margin]
func AddPadding(patches []Patch, opts ...Option) ([]Patch, string) {
	cfg := config.FromOptions(opts, config.Margin)
	ps := toInternalAll(patches)
	padding := patch.AddPadding(ps, cfg.Margin)
	return fromInternal(ps), string(padding)
}

// SplitMax returns a copy of patches where all patches longer than [MaxBits] runes are split into
// smaller ones. Large deletions stay in one piece.
//
// The following options are supported: [dmp.Margin], [dmp.MaxBits]
func SplitMax(patches []Patch, opts ...Option) []Patch {
	cfg := config.FromOptions(opts, config.Margin|config.MaxBits)
	ps, _ := patch.SplitMax(toInternalAll(patches), cfg)
	return fromInternal(ps)
}

// PatchesToText returns the text form of a list of patches. The format is similar to the unified
// diff format, but works with runes instead of lines and escapes all text like URIs are.
func PatchesToText(patches []Patch) string {
	return patch.Format(toInternalAll(patches))
}

// PatchesFromText parses the text form of a list of patches. All errors are of type
// [*ParseError] and wrap [ErrParse].
func PatchesFromText(text string) ([]Patch, error) {
	ps, err := patch.Parse(text)
	if err != nil {
		return nil, err
	}
	return fromInternal(ps), nil
}

func toInternal(p Patch) patch.Patch {
	return patch.Patch{
		Start1:  p.Start1,
		Start2:  p.Start2,
		Length1: p.Length1,
		Length2: p.Length2,
		Edits:   toEdits(p.Diffs),
	}
}

func toInternalAll(patches []Patch) []patch.Patch {
	if patches == nil {
		return nil
	}
	out := make([]patch.Patch, len(patches))
	for i, p := range patches {
		out[i] = toInternal(p)
	}
	return out
}

func fromInternal(ps []patch.Patch) []Patch {
	if len(ps) == 0 {
		return nil
	}
	out := make([]Patch, len(ps))
	for i, p := range ps {
		out[i] = Patch{
			Start1:  p.Start1,
			Start2:  p.Start2,
			Length1: p.Length1,
			Length2: p.Length2,
			Diffs:   fromEdits(p.Edits),
		}
	}
	return out
}
