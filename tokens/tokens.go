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

// Package tokens splits text into units for diffing at a coarser granularity than characters.
//
// Every tokenizer is lossless: concatenating the tokens reproduces the input. This makes it
// possible to diff token slices with [znkr.io/dmp.DiffSlices] and join the result back into text.
package tokens

import (
	"slices"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/clipperhouse/uax29/v2/words"
)

// Lines splits s into lines. Every line but the last one includes its terminating newline.
func Lines(s string) []string {
	return slices.Collect(strings.Lines(s))
}

// Words splits s into words as defined by Unicode text segmentation (UAX #29). Whitespace and
// punctuation between words are tokens of their own.
func Words(s string) []string {
	var out []string
	iter := words.FromString(s)
	for iter.Next() {
		out = append(out, iter.Value())
	}
	return out
}

// Graphemes splits s into grapheme clusters as defined by Unicode text segmentation (UAX #29),
// i.e. into user-perceived characters.
func Graphemes(s string) []string {
	var out []string
	iter := graphemes.FromString(s)
	for iter.Next() {
		out = append(out, iter.Value())
	}
	return out
}

// Join concatenates tokens. It's the inverse of all tokenizers in this package.
func Join(tokens []string) string {
	return strings.Join(tokens, "")
}
