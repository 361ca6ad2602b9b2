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
	"time"

	"znkr.io/dmp/internal/config"
)

// Option configures the behavior of the functions in this package.
//
// Not every option is supported by every function; passing an unsupported option panics. The
// documentation of each function lists the options it supports.
type Option = config.Option

// Timeout sets the time budget for computing a diff. When the budget is exhausted, the remaining
// differences are reported as a coarse deletion and insertion. A timeout of zero or less disables
// the limit and makes diffs optimal. The default is one second.
func Timeout(d time.Duration) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Timeout = d
		return config.Timeout
	}
}

// CheckLines enables or disables the line-level pre-pass for large texts. The pre-pass is a lot
// faster for texts with many lines, but the result may not be minimal. The default is true.
func CheckLines(enabled bool) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.CheckLines = enabled
		return config.CheckLines
	}
}

// EditCost sets the cost of an edit operation, in terms of characters, for
// [CleanupEfficiency]. Larger values collapse more short equalities into the surrounding edits.
// The default is 4.
func EditCost(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.EditCost = max(0, n)
		return config.EditCost
	}
}

// MatchThreshold sets the score above which [Match] gives up. A threshold of 0 only accepts
// exact matches at the expected location, a threshold of 1 accepts almost anything. The default
// is 0.5.
func MatchThreshold(f float64) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MatchThreshold = clamp01(f)
		return config.MatchThreshold
	}
}

// MatchDistance sets how far from the expected location a match may be found. A match
// MatchDistance characters away from the expected location costs as much as a completely
// mismatched pattern. A distance of 0 requires the exact location. The default is 1000.
func MatchDistance(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MatchDistance = max(0, n)
		return config.MatchDistance
	}
}

// DeleteThreshold sets how closely the text of a large deletion has to match the expected text
// when applying a patch. A threshold of 0 requires a perfect match, a threshold of 1 accepts
// anything. The default is 0.5.
func DeleteThreshold(f float64) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.DeleteThreshold = clamp01(f)
		return config.DeleteThreshold
	}
}

// Margin sets the number of characters of context that are added around the edits of a patch.
// The default is 4. The margin is at least 1 and is reduced to leave room for at least one
// character of content in a patch [MaxBits] characters wide.
func Margin(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Margin = max(1, n)
		return config.Margin
	}
}

// MaxBits sets the maximum length of a pattern for [Match]. Patches are split into pieces no
// longer than this. The value is clamped to the range [4, 64]. The default is 32.
func MaxBits(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxBits = min(max(config.MinBits, n), config.MaxWord)
		return config.MaxBits
	}
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
