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

package patchio

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"znkr.io/dmp"
	"znkr.io/dmp/internal/config"
	"znkr.io/dmp/internal/render"
)

// Config is the content of a configuration file.
type Config struct {
	Options []dmp.Option    // Engine parameters
	Colors  []render.Option // Terminal colors, applied on top of [render.Terminal]
}

// file is the TOML representation of the configuration. A key that is absent keeps its default.
type file struct {
	Timeout         duration `toml:"timeout"`
	CheckLines      bool     `toml:"check_lines"`
	EditCost        int      `toml:"edit_cost"`
	MatchThreshold  float64  `toml:"match_threshold"`
	MatchDistance   int      `toml:"match_distance"`
	DeleteThreshold float64  `toml:"delete_threshold"`
	Margin          int      `toml:"margin"`
	MaxBits         int      `toml:"max_bits"`
	Colors          colors   `toml:"colors"`
}

// colors holds Select Graphic Rendition parameters, e.g. delete = [1, 31] for bold red.
type colors struct {
	Header []int `toml:"header"`
	Equal  []int `toml:"equal"`
	Delete []int `toml:"delete"`
	Insert []int `toml:"insert"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := parseConfig(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseConfig(data string) (Config, error) {
	var f file
	md, err := toml.Decode(data, &f)
	if err != nil {
		return Config{}, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return Config{}, fmt.Errorf("%w: unknown keys %s", dmp.ErrInvalidInput, strings.Join(keys, ", "))
	}
	opts, err := options(f, md)
	if err != nil {
		return Config{}, err
	}
	cs, err := colorOptions(f.Colors, md)
	if err != nil {
		return Config{}, err
	}
	return Config{Options: opts, Colors: cs}, nil
}

func options(f file, md toml.MetaData) ([]dmp.Option, error) {
	// Out of range values are reported, not clamped.
	cfg := config.Default
	var opts []dmp.Option
	if md.IsDefined("timeout") {
		cfg.Timeout = f.Timeout.Duration
		opts = append(opts, dmp.Timeout(f.Timeout.Duration))
	}
	if md.IsDefined("check_lines") {
		cfg.CheckLines = f.CheckLines
		opts = append(opts, dmp.CheckLines(f.CheckLines))
	}
	if md.IsDefined("edit_cost") {
		cfg.EditCost = f.EditCost
		opts = append(opts, dmp.EditCost(f.EditCost))
	}
	if md.IsDefined("match_threshold") {
		cfg.MatchThreshold = f.MatchThreshold
		opts = append(opts, dmp.MatchThreshold(f.MatchThreshold))
	}
	if md.IsDefined("match_distance") {
		cfg.MatchDistance = f.MatchDistance
		opts = append(opts, dmp.MatchDistance(f.MatchDistance))
	}
	if md.IsDefined("delete_threshold") {
		cfg.DeleteThreshold = f.DeleteThreshold
		opts = append(opts, dmp.DeleteThreshold(f.DeleteThreshold))
	}
	if md.IsDefined("margin") {
		cfg.Margin = f.Margin
		opts = append(opts, dmp.Margin(f.Margin))
	}
	if md.IsDefined("max_bits") {
		cfg.MaxBits = f.MaxBits
		opts = append(opts, dmp.MaxBits(f.MaxBits))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", dmp.ErrInvalidInput, err)
	}
	return opts, nil
}

func colorOptions(c colors, md toml.MetaData) ([]render.Option, error) {
	parts := []struct {
		key    string
		params []int
		option func(...int) render.Option
	}{
		{"header", c.Header, render.Headers},
		{"equal", c.Equal, render.Equals},
		{"delete", c.Delete, render.Deletes},
		{"insert", c.Insert, render.Inserts},
	}
	var opts []render.Option
	for _, p := range parts {
		if !md.IsDefined("colors", p.key) {
			continue
		}
		for _, v := range p.params {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: colors.%s: invalid parameter %d", dmp.ErrInvalidInput, p.key, v)
			}
		}
		opts = append(opts, p.option(p.params...))
	}
	return opts, nil
}
