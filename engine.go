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
	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/impl"
	"znkr.io/dmp/tokens"
)

// Engine bundles a configuration for repeated use. The methods of an engine behave like the
// package level functions of the same name, with the engine's options applied before the options
// passed to the method.
//
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	cfg config.Config
}

// New creates an engine with the given options. All options are supported.
func New(opts ...Option) *Engine {
	return &Engine{cfg: config.FromOptions(opts, config.All)}
}

func (e *Engine) apply(opts []Option, allowed config.Flag) config.Config {
	return config.Apply(e.cfg, opts, allowed)
}

// DiffMain is like [DiffMain].
func (e *Engine) DiffMain(a, b string, opts ...Option) []Diff {
	return diffMain(a, b, e.apply(opts, config.Diff))
}

// DiffLines is like [DiffLines].
func (e *Engine) DiffLines(a, b string, opts ...Option) []Diff {
	return diffTokens(tokens.Lines(a), tokens.Lines(b), e.apply(opts, config.Timeout))
}

// DiffWords is like [DiffWords].
func (e *Engine) DiffWords(a, b string, opts ...Option) []Diff {
	return diffTokens(tokens.Words(a), tokens.Words(b), e.apply(opts, config.Timeout))
}

// DiffGraphemes is like [DiffGraphemes].
func (e *Engine) DiffGraphemes(a, b string, opts ...Option) []Diff {
	return diffTokens(tokens.Graphemes(a), tokens.Graphemes(b), e.apply(opts, config.Timeout))
}

// CleanupEfficiency is like [CleanupEfficiency].
func (e *Engine) CleanupEfficiency(diffs []Diff, opts ...Option) []Diff {
	cfg := e.apply(opts, config.EditCost)
	return fromEdits(impl.Efficiency(toEdits(diffs), cfg.EditCost))
}

// Match is like [Match].
func (e *Engine) Match(text, pattern string, loc int, opts ...Option) (int, error) {
	return match(text, pattern, loc, e.apply(opts, config.Match))
}

// MakePatches is like [MakePatches].
func (e *Engine) MakePatches(a, b string, opts ...Option) []Patch {
	return makePatches(a, b, e.apply(opts, config.Patch))
}

// MakePatchesFromDiffs is like [MakePatchesFromDiffs].
func (e *Engine) MakePatchesFromDiffs(diffs []Diff, opts ...Option) []Patch {
	return makePatchesFromTextAndDiffs(Text1(diffs), diffs, e.apply(opts, config.Margin|config.MaxBits))
}

// MakePatchesFromTextAndDiffs is like [MakePatchesFromTextAndDiffs].
func (e *Engine) MakePatchesFromTextAndDiffs(a string, diffs []Diff, opts ...Option) []Patch {
	return makePatchesFromTextAndDiffs(a, diffs, e.apply(opts, config.Margin|config.MaxBits))
}

// ApplyPatches is like [ApplyPatches].
func (e *Engine) ApplyPatches(patches []Patch, text string, opts ...Option) (string, []bool) {
	return applyPatches(patches, text, e.apply(opts, config.Patch))
}
