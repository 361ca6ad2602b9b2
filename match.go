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
	"znkr.io/dmp/internal/bitap"
	"znkr.io/dmp/internal/config"
)

// Match finds the best fuzzy match of pattern in text near the rune offset loc and returns its
// rune offset, or -1 if there's no match.
//
// A match is scored by the number of errors in it and by its distance to loc, see
// [MatchThreshold] and [MatchDistance]. An empty pattern matches at loc. Patterns longer than
// [MaxBits] runes are rejected with [ErrPatternTooLong], unless they occur verbatim at loc.
//
// Like in [DiffMain], every byte of invalid UTF-8 in text or pattern counts as one
// [unicode/utf8.RuneError] rune.
//
// The following options are supported: [dmp.MatchThreshold], [dmp.MatchDistance], [dmp.MaxBits]
func Match(text, pattern string, loc int, opts ...Option) (int, error) {
	return match(text, pattern, loc, config.FromOptions(opts, config.Match))
}

// MatchSlices is the generic counterpart to [Match].
//
// The following options are supported: [dmp.MatchThreshold], [dmp.MatchDistance], [dmp.MaxBits]
func MatchSlices[T comparable](text, pattern []T, loc int, opts ...Option) (int, error) {
	return bitap.Locate(text, pattern, loc, config.FromOptions(opts, config.Match))
}

func match(text, pattern string, loc int, cfg config.Config) (int, error) {
	return bitap.Locate([]rune(text), []rune(pattern), loc, cfg)
}
