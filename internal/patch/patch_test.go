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
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/edits"
)

func makeText(t *testing.T, a, b string, cfg config.Config) []Patch {
	t.Helper()
	return MakeFromTexts([]rune(a), []rune(b), cfg)
}

func mustParse(t *testing.T, text string) []Patch {
	t.Helper()
	ps, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return ps
}

func TestFormat(t *testing.T) {
	p := Patch{
		Start1:  20,
		Start2:  21,
		Length1: 18,
		Length2: 17,
		Edits: []edit{
			{Op: edits.Equal, Units: []rune("jump")},
			{Op: edits.Delete, Units: []rune("s")},
			{Op: edits.Insert, Units: []rune("ed")},
			{Op: edits.Equal, Units: []rune(" over ")},
			{Op: edits.Delete, Units: []rune("the")},
			{Op: edits.Insert, Units: []rune("a")},
			{Op: edits.Equal, Units: []rune("\nlaz")},
		},
	}
	want := "@@ -21,18 +22,17 @@\n jump\n-s\n+ed\n  over \n-the\n+a\n %0Alaz\n"
	if got := Format([]Patch{p}); got != want {
		t.Errorf("Format(...) result is different [-want,+got]:\n%s", cmp.Diff(want, got))
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "multiple_edits", text: "@@ -21,18 +22,17 @@\n jump\n-s\n+ed\n  over \n-the\n+a\n %0Alaz\n"},
		{name: "single_unit", text: "@@ -1 +1 @@\n-a\n+b\n"},
		{name: "deletion", text: "@@ -1,3 +0,0 @@\n-abc\n"},
		{name: "insertion", text: "@@ -0,0 +1,3 @@\n+abc\n"},
		{name: "two_patches", text: "@@ -1,9 +1,9 @@\n-f\n+F\n oo+fooba\n@@ -7,9 +7,9 @@\n obar\n-,\n+.\n  tes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(mustParse(t, tt.text))
			if diff := cmp.Diff(tt.text, got); diff != "" {
				t.Errorf("Format(Parse(...)) result is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestParse(t *testing.T) {
	ps := mustParse(t, "@@ -1,21 +1,21 @@\n-%601234567890-=%5B%5D%5C;',./\n+~!@#$%25%5E&*()_+%7B%7D%7C:%22%3C%3E?\n")
	want := []Patch{{
		Start1:  0,
		Start2:  0,
		Length1: 21,
		Length2: 21,
		Edits: []edit{
			{Op: edits.Delete, Units: []rune("`1234567890-=[]\\;',./")},
			{Op: edits.Insert, Units: []rune("~!@#$%^&*()_+{}|:\"<>?")},
		},
	}}
	if diff := cmp.Diff(want, ps); diff != "" {
		t.Errorf("Parse(...) result is different [-want,+got]:\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLine int
	}{
		{name: "bad_header", text: "Bad\nPatch\n", wantLine: 1},
		{name: "missing_plus", text: "@@ -1,3 1,3 @@\n abc\n", wantLine: 1},
		{name: "bad_mode", text: "@@ -1,3 +1,3 @@\n abc\n*def\n", wantLine: 3},
		{name: "bad_escape", text: "@@ -1,3 +1,3 @@\n abc\n-%zz\n", wantLine: 3},
		{name: "invalid_utf8", text: "@@ -1,3 +1,3 @@\n abc\n+d\xffe\n", wantLine: 3},
		{name: "second_header", text: "@@ -1 +1 @@\n-a\n+b\n@@ nope @@\n", wantLine: 4},
		{name: "leading_blank_line", text: "\n@@ -1 +1 @@\n-a\n+b\n", wantLine: 1},
		{name: "overflow", text: "@@ -99999999999999999999999 +1 @@\n-a\n", wantLine: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, ErrParse) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.text, err, ErrParse)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse(%q) error has type %T, want *ParseError", tt.text, err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Parse(%q) error line = %d, want %d", tt.text, perr.Line, tt.wantLine)
			}
		})
	}
}

func TestAddContext(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		text  string
		want  string
	}{
		{
			name:  "simple",
			patch: "@@ -21,4 +21,10 @@\n-jump\n+somersault\n",
			text:  "The quick brown fox jumps over the lazy dog.",
			want:  "@@ -17,12 +17,18 @@\n fox \n-jump\n+somersault\n s ov\n",
		},
		{
			name:  "not_enough_trailing_context",
			patch: "@@ -21,4 +21,10 @@\n-jump\n+somersault\n",
			text:  "The quick brown fox jumps.",
			want:  "@@ -17,10 +17,16 @@\n fox \n-jump\n+somersault\n s.\n",
		},
		{
			name:  "not_enough_leading_context",
			patch: "@@ -3 +3,2 @@\n-e\n+at\n",
			text:  "The quick brown fox jumps.",
			want:  "@@ -1,7 +1,8 @@\n Th\n-e\n+at\n  qui\n",
		},
		{
			name:  "ambiguity",
			patch: "@@ -3 +3,2 @@\n-e\n+at\n",
			text:  "The quick brown fox jumps.  The quick brown fox crashes.",
			want:  "@@ -1,27 +1,28 @@\n Th\n-e\n+at\n  quick brown fox jumps. \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParse(t, tt.patch)[0]
			addContext(&p, []rune(tt.text), config.Default)
			if diff := cmp.Diff(tt.want, Format([]Patch{p})); diff != "" {
				t.Errorf("addContext(...) result is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestMake(t *testing.T) {
	const (
		text1 = "The quick brown fox jumps over the lazy dog."
		text2 = "That quick brown fox jumped over a lazy dog."
	)
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{name: "null", a: "", b: "", want: ""},
		{
			// The second patch must be "-21,17 +21,18", not "-22,17 +21,18" due to rolling
			// context.
			name: "rolling_context",
			a:    text2,
			b:    text1,
			want: "@@ -1,8 +1,7 @@\n Th\n-at\n+e\n  qui\n@@ -21,17 +21,18 @@\n jump\n-ed\n+s\n  over \n-a\n+the\n  laz\n",
		},
		{
			name: "forward",
			a:    text1,
			b:    text2,
			want: "@@ -1,11 +1,12 @@\n Th\n-e\n+at\n  quick b\n@@ -22,18 +22,17 @@\n jump\n-s\n+ed\n  over \n-the\n+a\n  laz\n",
		},
		{
			name: "character_encoding",
			a:    "`1234567890-=[]\\;',./",
			b:    "~!@#$%^&*()_+{}|:\"<>?",
			want: "@@ -1,21 +1,21 @@\n-%601234567890-=%5B%5D%5C;',./\n+~!@#$%25%5E&*()_+%7B%7D%7C:%22%3C%3E?\n",
		},
		{
			name: "long_string_with_repeats",
			a:    strings.Repeat("abcdef", 100),
			b:    strings.Repeat("abcdef", 100) + "123",
			want: "@@ -573,28 +573,31 @@\n cdefabcdefabcdefabcdefabcdef\n+123\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(makeText(t, tt.a, tt.b, config.Default))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MakeFromTexts(%q, %q) result is different [-want,+got]:\n%s", tt.a, tt.b, diff)
			}
		})
	}
}

func TestMakeDoesNotModifyEdits(t *testing.T) {
	es := []edit{
		{Op: edits.Equal, Units: []rune("The quick brown ")},
		{Op: edits.Delete, Units: []rune("fox")},
		{Op: edits.Insert, Units: []rune("cat")},
		{Op: edits.Equal, Units: []rune(" jumps over the lazy dog.")},
	}
	want := edits.Clone(es)
	Make(edits.Source(es), es, config.Default)
	if diff := cmp.Diff(want, es); diff != "" {
		t.Errorf("Make(...) modified its input [-want,+got]:\n%s", diff)
	}
}

func TestSplitMax(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string // empty if unchanged
	}{
		{
			name: "many_insertions",
			a:    "abcdefghijklmnopqrstuvwxyz01234567890",
			b:    "XabXcdXefXghXijXklXmnXopXqrXstXuvXwxXyzX01X23X45X67X89X0",
			want: "@@ -1,32 +1,46 @@\n+X\n ab\n+X\n cd\n+X\n ef\n+X\n gh\n+X\n ij\n+X\n kl\n+X\n mn\n+X\n op\n+X\n qr\n+X\n st\n+X\n uv\n+X\n wx\n+X\n yz\n+X\n 012345\n" +
				"@@ -25,13 +39,18 @@\n zX01\n+X\n 23\n+X\n 45\n+X\n 67\n+X\n 89\n+X\n 0\n",
		},
		{
			name: "large_deletion",
			a:    "abcdef1234567890123456789012345678901234567890123456789012345678901234567890uvwxyz",
			b:    "abcdefuvwxyz",
		},
		{
			name: "deletion_with_replacement",
			a:    "1234567890123456789012345678901234567890123456789012345678901234567890",
			b:    "abc",
			want: "@@ -1,32 +1,4 @@\n-1234567890123456789012345678\n 9012\n" +
				"@@ -29,32 +1,4 @@\n-9012345678901234567890123456\n 7890\n" +
				"@@ -57,14 +1,3 @@\n-78901234567890\n+abc\n",
		},
		{
			name: "repeated_context",
			a:    "abcdefghij , h : 0 , t : 1 abcdefghij , h : 0 , t : 1 abcdefghij , h : 0 , t : 1",
			b:    "abcdefghij , h : 1 , t : 1 abcdefghij , h : 1 , t : 1 abcdefghij , h : 0 , t : 1",
			want: "@@ -2,32 +2,32 @@\n bcdefghij , h : \n-0\n+1\n  , t : 1 abcdef\n" +
				"@@ -29,32 +29,32 @@\n bcdefghij , h : \n-0\n+1\n  , t : 1 abcdef\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := makeText(t, tt.a, tt.b, config.Default)
			want := tt.want
			if want == "" {
				want = Format(ps)
			}
			got, _ := SplitMax(ps, config.Default)
			if diff := cmp.Diff(want, Format(got)); diff != "" {
				t.Errorf("SplitMax(...) result is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestSplitMaxOrigin(t *testing.T) {
	ps := mustParse(t, "@@ -1 +1 @@\n-a\n+b\n")
	ps = append(ps, makeText(t, "1234567890123456789012345678901234567890123456789012345678901234567890", "abc", config.Default)...)
	ps = append(ps, mustParse(t, "@@ -1 +1 @@\n-c\n+d\n")...)
	_, origin := SplitMax(ps, config.Default)
	if diff := cmp.Diff([]int{0, 1, 1, 1, 2}, origin); diff != "" {
		t.Errorf("SplitMax(...) origin is different [-want,+got]:\n%s", diff)
	}
}

func TestAddPadding(t *testing.T) {
	tests := []struct {
		name       string
		a, b       string
		want       string
		wantPadded string
	}{
		{
			name:       "both_edges_full",
			a:          "",
			b:          "test",
			want:       "@@ -0,0 +1,4 @@\n+test\n",
			wantPadded: "@@ -1,8 +1,12 @@\n %01%02%03%04\n+test\n %01%02%03%04\n",
		},
		{
			name:       "both_edges_partial",
			a:          "XY",
			b:          "XtestY",
			want:       "@@ -1,2 +1,6 @@\n X\n+test\n Y\n",
			wantPadded: "@@ -2,8 +2,12 @@\n %02%03%04X\n+test\n Y%01%02%03\n",
		},
		{
			name:       "both_edges_none",
			a:          "XXXXYYYY",
			b:          "XXXXtestYYYY",
			want:       "@@ -1,8 +1,12 @@\n XXXX\n+test\n YYYY\n",
			wantPadded: "@@ -5,8 +5,12 @@\n XXXX\n+test\n YYYY\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := makeText(t, tt.a, tt.b, config.Default)
			if diff := cmp.Diff(tt.want, Format(ps)); diff != "" {
				t.Errorf("MakeFromTexts(...) result is different [-want,+got]:\n%s", diff)
			}
			padding := AddPadding(ps, config.Default.Margin)
			if diff := cmp.Diff([]rune{1, 2, 3, 4}, padding); diff != "" {
				t.Errorf("AddPadding(...) padding is different [-want,+got]:\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantPadded, Format(ps)); diff != "" {
				t.Errorf("AddPadding(...) result is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestApply(t *testing.T) {
	const (
		fox  = "The quick brown fox jumps over the lazy dog."
		fox2 = "That quick brown fox jumped over a lazy dog."
		big  = "x1234567890123456789012345678901234567890123456789012345678901234567890y"
	)

	tests := []struct {
		name        string
		a, b        string
		text        string
		configure   func(cfg *config.Config)
		want        string
		wantApplied []bool
	}{
		{
			name:        "null",
			a:           "",
			b:           "",
			text:        "Hello world.",
			want:        "Hello world.",
			wantApplied: nil,
		},
		{
			name:        "exact_match",
			a:           fox,
			b:           fox2,
			text:        fox,
			want:        fox2,
			wantApplied: []bool{true, true},
		},
		{
			name:        "partial_match",
			a:           fox,
			b:           fox2,
			text:        "The quick red rabbit jumps over the tired tiger.",
			want:        "That quick red rabbit jumped over a tired tiger.",
			wantApplied: []bool{true, true},
		},
		{
			name:        "failed_match",
			a:           fox,
			b:           fox2,
			text:        "I am the very model of a modern major general.",
			want:        "I am the very model of a modern major general.",
			wantApplied: []bool{false, false},
		},
		{
			name:        "big_delete_small_change",
			a:           big,
			b:           "xabcy",
			text:        "x123456789012345678901234567890-----++++++++++-----123456789012345678901234567890y",
			want:        "xabcy",
			wantApplied: []bool{true},
		},
		{
			// The deletion fails, but the insertion that was split off the same patch applies.
			name:        "big_delete_big_change",
			a:           big,
			b:           "xabcy",
			text:        "x12345678901234567890---------------++++++++++---------------12345678901234567890y",
			want:        "xabc12345678901234567890---------------++++++++++---------------12345678901234567890y",
			wantApplied: []bool{false},
		},
		{
			name:        "big_delete_big_change_loose",
			a:           big,
			b:           "xabcy",
			text:        "x12345678901234567890---------------++++++++++---------------12345678901234567890y",
			configure:   func(cfg *config.Config) { cfg.DeleteThreshold = 0.6 },
			want:        "xabcy",
			wantApplied: []bool{true},
		},
		{
			name:        "compensate_for_failed_patch",
			a:           "abcdefghijklmnopqrstuvwxyz--------------------1234567890",
			b:           "abcXXXXXXXXXXdefghijklmnopqrstuvwxyz--------------------1234567YYYYYYYYYY890",
			text:        "ABCDEFGHIJKLMNOPQRSTUVWXYZ--------------------1234567890",
			configure:   func(cfg *config.Config) { cfg.MatchThreshold, cfg.MatchDistance = 0, 0 },
			want:        "ABCDEFGHIJKLMNOPQRSTUVWXYZ--------------------1234567YYYYYYYYYY890",
			wantApplied: []bool{false, true},
		},
		{
			name:        "edge_exact_match",
			a:           "",
			b:           "test",
			text:        "",
			want:        "test",
			wantApplied: []bool{true},
		},
		{
			name:        "near_edge_exact_match",
			a:           "XY",
			b:           "XtestY",
			text:        "XY",
			want:        "XtestY",
			wantApplied: []bool{true},
		},
		{
			name:        "edge_partial_match",
			a:           "y",
			b:           "y123",
			text:        "x",
			want:        "x123",
			wantApplied: []bool{true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default
			if tt.configure != nil {
				tt.configure(&cfg)
			}
			ps := makeText(t, tt.a, tt.b, config.Default)
			got, applied := Apply(ps, []rune(tt.text), cfg)
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("Apply(...) text is different [-want,+got]:\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantApplied, applied); diff != "" {
				t.Errorf("Apply(...) results are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestApplyDoesNotModifyPatches(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		text string
	}{
		{name: "insertion", a: "", b: "test", text: ""},
		{name: "major_delete", a: "The quick brown fox jumps over the lazy dog.", b: "Woof", text: "The quick brown fox jumps over the lazy dog."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := makeText(t, tt.a, tt.b, config.Default)
			want := Format(ps)
			Apply(ps, []rune(tt.text), config.Default)
			if diff := cmp.Diff(want, Format(ps)); diff != "" {
				t.Errorf("Apply(...) modified the patches [-want,+got]:\n%s", diff)
			}
		})
	}
}

func FuzzMakeApply(f *testing.F) {
	f.Add("The quick brown fox jumps over the lazy dog.", "That quick brown fox jumped over a lazy dog.")
	f.Add("", "test")
	f.Add("abcdefghijklmnopqrstuvwxyz01234567890", "XabXcdXefXghXijXklXmnXopXqrXstXuvXwxXyzX01X23X45X67X89X0")
	f.Fuzz(func(t *testing.T, a, b string) {
		cfg := config.Default
		cfg.Timeout = 0
		ra, rb := []rune(a), []rune(b)
		for _, r := range ra {
			if r >= 1 && r <= rune(cfg.Margin) {
				t.Skip("text contains padding runes")
			}
		}

		ps := MakeFromTexts(ra, rb, cfg)
		// Applying the patches to the text they were created from is exact.
		got, applied := Apply(ps, ra, cfg)
		for i, ok := range applied {
			if !ok {
				t.Errorf("patch %d failed to apply", i)
			}
		}
		if string(got) != string(rb) {
			t.Errorf("Apply(MakeFromTexts(%q, %q), %q) = %q", a, b, a, string(got))
		}

		// The text form round trips.
		text := Format(ps)
		parsed, err := Parse(text)
		if err != nil {
			t.Fatalf("Parse(Format(...)) failed: %v", err)
		}
		if diff := cmp.Diff(text, Format(parsed)); diff != "" {
			t.Errorf("Format(Parse(Format(...))) is different [-want,+got]:\n%s", diff)
		}
	})
}

func BenchmarkApply(b *testing.B) {
	text1 := []rune(strings.Repeat("The quick brown fox jumps over the lazy dog.\n", 100))
	text2 := []rune(strings.ReplaceAll(string(text1), "lazy", "sleepy"))
	ps := MakeFromTexts(text1, text2, config.Default)
	for b.Loop() {
		Apply(ps, text1, config.Default)
	}
}
