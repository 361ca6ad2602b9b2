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

package config_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"znkr.io/dmp"
	"znkr.io/dmp/internal/config"
)

func TestFromOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []config.Option
		want func(cfg *config.Config)
	}{
		{
			name: "default",
			opts: nil,
			want: func(cfg *config.Config) {},
		},
		{
			name: "timeout",
			opts: []config.Option{
				dmp.Timeout(0),
			},
			want: func(cfg *config.Config) {
				cfg.Timeout = 0
			},
		},
		{
			name: "match",
			opts: []config.Option{
				dmp.MatchThreshold(0.25),
				dmp.MatchDistance(10),
			},
			want: func(cfg *config.Config) {
				cfg.MatchThreshold = 0.25
				cfg.MatchDistance = 10
			},
		},
		{
			name: "override",
			opts: []config.Option{
				dmp.EditCost(5),
				dmp.CheckLines(false),
				dmp.EditCost(1),
			},
			want: func(cfg *config.Config) {
				cfg.EditCost = 1
				cfg.CheckLines = false
			},
		},
		{
			name: "margin_clamped_by_bits",
			opts: []config.Option{
				dmp.Margin(8),
				dmp.MaxBits(16),
			},
			want: func(cfg *config.Config) {
				cfg.Margin = 7
				cfg.MaxBits = 16
			},
		},
		{
			name: "everything",
			opts: []config.Option{
				dmp.Timeout(time.Minute),
				dmp.CheckLines(false),
				dmp.EditCost(6),
				dmp.MatchThreshold(0.1),
				dmp.MatchDistance(100),
				dmp.DeleteThreshold(0.9),
				dmp.Margin(16),
				dmp.MaxBits(64),
			},
			want: func(cfg *config.Config) {
				*cfg = config.Config{
					Timeout:         time.Minute,
					CheckLines:      false,
					EditCost:        6,
					MatchThreshold:  0.1,
					MatchDistance:   100,
					DeleteThreshold: 0.9,
					Margin:          16,
					MaxBits:         64,
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := config.Default
			tt.want(&want)
			got := config.FromOptions(tt.opts, config.All)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("FromOptions(...) result are different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestFromOptionsNotAllowed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("FromOptions(...) didn't panic for an option that isn't allowed")
		}
	}()
	config.FromOptions([]config.Option{dmp.MatchThreshold(0.1)}, config.Diff)
}

func TestApply(t *testing.T) {
	base := config.FromOptions([]config.Option{dmp.MatchThreshold(0.1), dmp.Margin(2)}, config.All)
	got := config.Apply(base, []config.Option{dmp.Margin(6)}, config.Margin)
	want := base
	want.Margin = 6
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Apply(...) result are different [-want,+got]:\n%s", diff)
	}
	if base.Margin != 2 {
		t.Errorf("Apply(...) modified its input")
	}
}

func TestDeadline(t *testing.T) {
	if got := (config.Config{Timeout: 0}).Deadline(); !got.IsZero() {
		t.Errorf("Deadline() = %v without timeout, want zero time", got)
	}
	before := time.Now()
	got := (config.Config{Timeout: time.Hour}).Deadline()
	if got.Before(before.Add(time.Hour)) || got.After(time.Now().Add(time.Hour)) {
		t.Errorf("Deadline() = %v, want about an hour from now", got)
	}
}

func TestValidate(t *testing.T) {
	if err := config.Default.Validate(); err != nil {
		t.Errorf("Default.Validate() = %v, want nil", err)
	}

	tests := []struct {
		name   string
		modify func(cfg *config.Config)
	}{
		{name: "edit_cost", modify: func(cfg *config.Config) { cfg.EditCost = -1 }},
		{name: "match_threshold", modify: func(cfg *config.Config) { cfg.MatchThreshold = 1.5 }},
		{name: "match_distance", modify: func(cfg *config.Config) { cfg.MatchDistance = -1 }},
		{name: "delete_threshold", modify: func(cfg *config.Config) { cfg.DeleteThreshold = -0.1 }},
		{name: "max_bits_small", modify: func(cfg *config.Config) { cfg.MaxBits = 2 }},
		{name: "max_bits_large", modify: func(cfg *config.Config) { cfg.MaxBits = 65 }},
		{name: "margin_zero", modify: func(cfg *config.Config) { cfg.Margin = 0 }},
		{name: "margin_large", modify: func(cfg *config.Config) { cfg.Margin = 16 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}
