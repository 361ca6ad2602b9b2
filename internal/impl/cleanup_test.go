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

package impl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/dmp/internal/edits"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []textEdit
		want []textEdit
	}{
		{name: "null", in: nil, want: nil},
		{
			name: "no_change",
			in:   script(E("a"), D("b"), I("c")),
			want: script(E("a"), D("b"), I("c")),
		},
		{
			name: "merge_equalities",
			in:   script(E("a"), E("b"), E("c")),
			want: script(E("abc")),
		},
		{
			name: "merge_deletions",
			in:   script(D("a"), D("b"), D("c")),
			want: script(D("abc")),
		},
		{
			name: "merge_insertions",
			in:   script(I("a"), I("b"), I("c")),
			want: script(I("abc")),
		},
		{
			name: "merge_interweave",
			in:   script(D("a"), I("b"), D("c"), I("d"), E("e"), E("f")),
			want: script(D("ac"), I("bd"), E("ef")),
		},
		{
			name: "prefix_suffix_detection",
			in:   script(D("a"), I("abc"), D("dc")),
			want: script(E("a"), D("d"), I("b"), E("c")),
		},
		{
			name: "prefix_suffix_detection_with_equalities",
			in:   script(E("x"), D("a"), I("abc"), D("dc"), E("y")),
			want: script(E("xa"), D("d"), I("b"), E("cy")),
		},
		{
			name: "slide_edit_left",
			in:   script(E("a"), I("ba"), E("c")),
			want: script(I("ab"), E("ac")),
		},
		{
			name: "slide_edit_right",
			in:   script(E("c"), I("ab"), E("a")),
			want: script(E("ca"), I("ba")),
		},
		{
			name: "slide_edit_left_recursive",
			in:   script(E("a"), D("b"), E("c"), D("ac"), E("x")),
			want: script(D("abc"), E("acx")),
		},
		{
			name: "slide_edit_right_recursive",
			in:   script(E("x"), D("ca"), E("c"), D("b"), E("a")),
			want: script(E("xca"), D("cba")),
		},
		{
			name: "empty_merge",
			in:   script(D("b"), I("ab"), E("c")),
			want: script(I("a"), E("bc")),
		},
		{
			name: "empty_equality",
			in:   script(E(""), I("a"), E("b")),
			want: script(I("a"), E("b")),
		},
		{
			name: "empty_edits",
			in:   script(E("a"), D(""), I(""), E("b")),
			want: script(E("ab")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(Merge(toEdits(tt.in)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Merge(...) result is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestMergeDoesNotModifyInput(t *testing.T) {
	in := toEdits(script(E("a"), D("b"), E("c"), D("ac"), E("x")))
	want := render(in)
	Merge(in)
	if diff := cmp.Diff(want, render(in)); diff != "" {
		t.Errorf("Merge(...) modified its input [-want,+got]:\n%s", diff)
	}
}

func TestSemanticLossless(t *testing.T) {
	tests := []struct {
		name string
		in   []textEdit
		want []textEdit
	}{
		{name: "null", in: nil, want: nil},
		{
			name: "blank_lines",
			in:   script(E("AAA\r\n\r\nBBB"), I("\r\nDDD\r\n\r\nBBB"), E("\r\nEEE")),
			want: script(E("AAA\r\n\r\n"), I("BBB\r\nDDD\r\n\r\n"), E("BBB\r\nEEE")),
		},
		{
			name: "line_boundaries",
			in:   script(E("AAA\r\nBBB"), I(" DDD\r\nBBB"), E(" EEE")),
			want: script(E("AAA\r\n"), I("BBB DDD\r\n"), E("BBB EEE")),
		},
		{
			name: "word_boundaries",
			in:   script(E("The c"), I("ow and the c"), E("at.")),
			want: script(E("The "), I("cow and the "), E("cat.")),
		},
		{
			name: "alphanumeric_boundaries",
			in:   script(E("The-c"), I("ow-and-the-c"), E("at.")),
			want: script(E("The-"), I("cow-and-the-"), E("cat.")),
		},
		{
			name: "hitting_the_start",
			in:   script(E("a"), D("a"), E("ax")),
			want: script(D("a"), E("aax")),
		},
		{
			name: "hitting_the_end",
			in:   script(E("xa"), D("a"), E("a")),
			want: script(E("xaa"), D("a")),
		},
		{
			name: "sentence_boundaries",
			in:   script(E("The xxx. The "), I("zzz. The "), E("yyy.")),
			want: script(E("The xxx."), I(" The zzz."), E(" The yyy.")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(SemanticLossless(toEdits(tt.in), TextScore))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SemanticLossless(...) result is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestSemantic(t *testing.T) {
	tests := []struct {
		name string
		in   []textEdit
		want []textEdit
	}{
		{name: "null", in: nil, want: nil},
		{
			name: "no_elimination_1",
			in:   script(D("ab"), I("cd"), E("12"), D("e")),
			want: script(D("ab"), I("cd"), E("12"), D("e")),
		},
		{
			name: "no_elimination_2",
			in:   script(D("abc"), I("ABC"), E("1234"), D("wxyz")),
			want: script(D("abc"), I("ABC"), E("1234"), D("wxyz")),
		},
		{
			name: "simple_elimination",
			in:   script(D("a"), E("b"), D("c")),
			want: script(D("abc"), I("b")),
		},
		{
			name: "backpass_elimination",
			in:   script(D("ab"), E("cd"), D("e"), E("f"), I("g")),
			want: script(D("abcdef"), I("cdfg")),
		},
		{
			name: "multiple_eliminations",
			in:   script(I("1"), E("A"), D("B"), I("2"), E("_"), I("1"), E("A"), D("B"), I("2")),
			want: script(D("AB_AB"), I("1A2_1A2")),
		},
		{
			name: "word_boundaries",
			in:   script(E("The c"), D("ow and the c"), E("at.")),
			want: script(E("The "), D("cow and the "), E("cat.")),
		},
		{
			name: "no_overlap_elimination",
			in:   script(D("abcxx"), I("xxdef")),
			want: script(D("abcxx"), I("xxdef")),
		},
		{
			name: "overlap_elimination",
			in:   script(D("abcxxx"), I("xxxdef")),
			want: script(D("abc"), E("xxx"), I("def")),
		},
		{
			name: "reverse_overlap_elimination",
			in:   script(D("xxxabc"), I("defxxx")),
			want: script(I("def"), E("xxx"), D("abc")),
		},
		{
			name: "two_overlap_eliminations",
			in:   script(D("abcd1212"), I("1212efghi"), E("----"), D("A3"), I("3BC")),
			want: script(D("abcd"), E("1212"), I("efghi"), E("----"), D("A"), E("3"), I("BC")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(Semantic(toEdits(tt.in), TextScore))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Semantic(...) result is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestSemanticDoesNotModifyInput(t *testing.T) {
	in := toEdits(script(D("ab"), E("cd"), D("e"), E("f"), I("g")))
	want := render(in)
	Semantic(in, TextScore)
	if diff := cmp.Diff(want, render(in)); diff != "" {
		t.Errorf("Semantic(...) modified its input [-want,+got]:\n%s", diff)
	}
}

func TestEfficiency(t *testing.T) {
	tests := []struct {
		name string
		cost int
		in   []textEdit
		want []textEdit
	}{
		{name: "null", cost: 4, in: nil, want: nil},
		{
			name: "no_elimination",
			cost: 4,
			in:   script(D("ab"), I("12"), E("wxyz"), D("cd"), I("34")),
			want: script(D("ab"), I("12"), E("wxyz"), D("cd"), I("34")),
		},
		{
			name: "four_edit_elimination",
			cost: 4,
			in:   script(D("ab"), I("12"), E("xyz"), D("cd"), I("34")),
			want: script(D("abxyzcd"), I("12xyz34")),
		},
		{
			name: "three_edit_elimination",
			cost: 4,
			in:   script(I("12"), E("x"), D("cd"), I("34")),
			want: script(D("xcd"), I("12x34")),
		},
		{
			name: "backpass_elimination",
			cost: 4,
			in:   script(D("ab"), I("12"), E("xy"), I("34"), E("z"), D("cd"), I("56")),
			want: script(D("abxyzcd"), I("12xy34z56")),
		},
		{
			name: "high_cost_elimination",
			cost: 5,
			in:   script(D("ab"), I("12"), E("wxyz"), D("cd"), I("34")),
			want: script(D("abwxyzcd"), I("12wxyz34")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(Efficiency(toEdits(tt.in), tt.cost))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Efficiency(..., %d) result is different [-want,+got]:\n%s", tt.cost, diff)
			}
		})
	}
}

func TestTextScore(t *testing.T) {
	tests := []struct {
		name     string
		one, two string
		want     int
	}{
		{name: "edge", one: "", two: "abc", want: scoreEdge},
		{name: "blank_line_end", one: "abc\n\n", two: "def", want: scoreBlankLine},
		{name: "blank_line_end_crlf", one: "abc\n\r\n", two: "def", want: scoreBlankLine},
		{name: "blank_line_start", one: "abc\n", two: "\r\n\r\ndef", want: scoreBlankLine},
		{name: "line_break", one: "abc\n", two: "def", want: scoreLineBreak},
		{name: "sentence_end", one: "abc.", two: " def", want: scoreSentenceEnd},
		{name: "whitespace", one: "abc ", two: "def", want: scoreWhitespace},
		{name: "non_alphanumeric", one: "abc-", two: "def", want: scoreNonAlnum},
		{name: "non_ascii_letter", one: "abä", two: "def", want: scoreNonAlnum},
		{name: "inside_word", one: "abc", two: "def", want: scoreNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextScore([]rune(tt.one), []rune(tt.two)); got != tt.want {
				t.Errorf("TextScore(%q, %q) = %d, want %d", tt.one, tt.two, got, tt.want)
			}
		})
	}
}

func TestEdgeScore(t *testing.T) {
	in := []edit[string]{
		{Op: edits.Equal, Units: []string{"a", "b"}},
		{Op: edits.Insert, Units: []string{"x", "a", "b"}},
		{Op: edits.Equal, Units: []string{"c"}},
	}
	// Without any other preference, the edit moves to the start of the sequence.
	got := SemanticLossless(in, EdgeScore[string])
	want := []edit[string]{
		{Op: edits.Insert, Units: []string{"a", "b", "x"}},
		{Op: edits.Equal, Units: []string{"a", "b", "c"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SemanticLossless(..., EdgeScore) result is different [-want,+got]:\n%s", diff)
	}
}
