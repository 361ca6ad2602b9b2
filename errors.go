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
	"errors"
	"fmt"

	"znkr.io/dmp/internal/bitap"
	"znkr.io/dmp/internal/patch"
)

var (
	// ErrInvalidInput is returned for structurally inconsistent input, e.g. a patch whose
	// header doesn't agree with its diffs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPatternTooLong is returned by [Match] if the pattern is longer than [MaxBits] allows.
	ErrPatternTooLong = bitap.ErrPatternTooLong

	// ErrFormat is wrapped by all errors returned from [FromDelta].
	ErrFormat = errors.New("invalid delta")

	// ErrParse is wrapped by all errors returned from [PatchesFromText].
	ErrParse = patch.ErrParse
)

// FormatError describes a problem with a delta.
type FormatError struct {
	Token string // The offending token, empty if the delta as a whole is the problem
	Msg   string
}

func (e *FormatError) Error() string {
	if e.Token == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Token)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// ParseError describes a problem with a line of patch text.
type ParseError = patch.ParseError
