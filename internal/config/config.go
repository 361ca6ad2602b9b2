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

// Package config provides shared configuration mechanisms for packages this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// dmp.Option.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config collects all configurable parameters for the functions in this module.
type Config struct {
	// Timeout is the time budget for a single diff. A diff that runs out of time degrades to a
	// coarser result. Zero or less means no limit, this also disables the half-match heuristic.
	Timeout time.Duration

	// CheckLines enables the line-level pre-pass for large texts.
	CheckLines bool

	// EditCost is the cost of an empty edit operation in terms of edit units. Used by the
	// efficiency cleanup.
	EditCost int

	// MatchThreshold is the score at which no match is declared (0.0 = perfection, 1.0 = very
	// loose).
	MatchThreshold float64

	// MatchDistance is the distance from the expected location at which a match adds 1.0 to its
	// score. Zero requires an exact location.
	MatchDistance int

	// DeleteThreshold controls how closely the contents of a large deletion have to match the
	// expected contents when applying a patch (0.0 = perfection, 1.0 = very loose).
	DeleteThreshold float64

	// Margin is the chunk size for patch context.
	Margin int

	// MaxBits is the maximum pattern length of the fuzzy locator.
	MaxBits int
}

// Default is the default configuration.
var Default = Config{
	Timeout:         time.Second,
	CheckLines:      true,
	EditCost:        4,
	MatchThreshold:  0.5,
	MatchDistance:   1000,
	DeleteThreshold: 0.5,
	Margin:          4,
	MaxBits:         32,
}

// Bounds for MaxBits. Bit vectors are uint64.
const (
	MinBits = 4
	MaxWord = 64
)

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	Timeout Flag = 1 << iota
	CheckLines
	EditCost
	MatchThreshold
	MatchDistance
	DeleteThreshold
	Margin
	MaxBits

	// Diff is the set of flags understood by diff functions.
	Diff = Timeout | CheckLines
	// Match is the set of flags understood by the fuzzy locator.
	Match = MatchThreshold | MatchDistance | MaxBits
	// Patch is the set of flags understood by patch functions. Patches diff, match and
	// clean up internally.
	Patch = Diff | EditCost | Match | DeleteThreshold | Margin
	// All is the set of all flags.
	All = Patch
)

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options.
func FromOptions(opts []Option, allowed Flag) Config {
	return Apply(Default, opts, allowed)
}

// Apply applies a set of options on top of a base configuration.
func Apply(cfg Config, opts []Option, allowed Flag) Config {
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	// The margin has to leave room for at least one unit of content in a patch of MaxBits units.
	cfg.Margin = min(cfg.Margin, (cfg.MaxBits-1)/2)
	return cfg
}

// Deadline returns the point in time at which a diff started now has to be complete. The zero
// time means there is no deadline.
func (c Config) Deadline() time.Time {
	if c.Timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.Timeout)
}

// Validate reports values that are out of range. Options clamp their arguments, Validate is used
// for configurations that are populated from outside of the option API.
func (c Config) Validate() error {
	var errs []error
	if c.EditCost < 0 {
		errs = append(errs, fmt.Errorf("edit cost %d is negative", c.EditCost))
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 1 {
		errs = append(errs, fmt.Errorf("match threshold %v is outside of [0, 1]", c.MatchThreshold))
	}
	if c.MatchDistance < 0 {
		errs = append(errs, fmt.Errorf("match distance %d is negative", c.MatchDistance))
	}
	if c.DeleteThreshold < 0 || c.DeleteThreshold > 1 {
		errs = append(errs, fmt.Errorf("delete threshold %v is outside of [0, 1]", c.DeleteThreshold))
	}
	if c.MaxBits < MinBits || c.MaxBits > MaxWord {
		errs = append(errs, fmt.Errorf("max bits %d is outside of [%d, %d]", c.MaxBits, MinBits, MaxWord))
	}
	if c.Margin < 1 || 2*c.Margin >= c.MaxBits {
		errs = append(errs, fmt.Errorf("margin %d must be positive and less than half of max bits", c.Margin))
	}
	return errors.Join(errs...)
}

var flagNames = []struct {
	flag Flag
	name string
}{
	{Timeout, "dmp.Timeout"},
	{CheckLines, "dmp.CheckLines"},
	{EditCost, "dmp.EditCost"},
	{MatchThreshold, "dmp.MatchThreshold"},
	{MatchDistance, "dmp.MatchDistance"},
	{DeleteThreshold, "dmp.DeleteThreshold"},
	{Margin, "dmp.Margin"},
	{MaxBits, "dmp.MaxBits"},
}

func printFlag(flag Flag) string {
	var names []string
	for _, fn := range flagNames {
		if flag&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		panic("never reached")
	}
	return strings.Join(names, "|")
}
