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

// eval validates the patch engine on the history of a git repository. For every file changed by a
// commit, it makes patches from the old to the new version, writes them as text, parses them
// again and checks that applying them to the old version produces the new version. Patches are
// also applied to a copy of the old version with an extra line at the top, to check that they
// still apply after the text moved.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"znkr.io/dmp"
	"znkr.io/dmp/internal/cmd/eval/internal/git"
	"znkr.io/dmp/internal/patchio"
)

type config struct {
	repo     string
	sample   int
	parallel int
	stats    string
	config   string
	validate bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.repo, "repo", "", "repository to use for evaluation")
	flag.IntVar(&cfg.sample, "sample", 0, "if >0, sample commits to the value of the flag")
	flag.IntVar(&cfg.parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	flag.StringVar(&cfg.stats, "stats", "", "file to store stats in")
	flag.StringVar(&cfg.config, "config", "", "TOML file with engine parameters")
	flag.BoolVar(&cfg.validate, "validate", true, "if validation should be performed")
	flag.Parse()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(1)
	}

	if err := run(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

type note struct {
	prefix string
	msg    string
}

type result struct {
	commitID string
	file     string
	variant  string
	N, M     int
	D        int
	patches  int
	duration time.Duration
}

type variant struct {
	name string
	diff func(e *dmp.Engine, old, new string) []dmp.Diff
}

var variants = []variant{
	{"chars", func(e *dmp.Engine, old, new string) []dmp.Diff { return e.DiffMain(old, new) }},
	{"lines", func(e *dmp.Engine, old, new string) []dmp.Diff { return e.DiffLines(old, new) }},
	{"words", func(e *dmp.Engine, old, new string) []dmp.Diff { return e.DiffWords(old, new) }},
}

// drift is inserted at the top of the old version to move all patches.
const drift = "A line that wasn't there when the patches were made.\n"

func run(cfg *config) error {
	start := time.Now()
	notes := make(chan note)
	done := make(chan struct{})
	var commitsDone atomic.Int64
	var processed atomic.Int64
	var failed atomic.Int64

	var opts []dmp.Option
	if cfg.config != "" {
		c, err := patchio.LoadConfig(cfg.config)
		if err != nil {
			return fmt.Errorf("loading config: %v", err)
		}
		opts = c.Options
	}
	engine := dmp.New(opts...)

	var stats *os.File
	if cfg.stats != "" {
		var err error
		stats, err = os.Create(cfg.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %v", err)
		}
		defer stats.Close()
	}

	git, err := git.Open(cfg.repo)
	if err != nil {
		return fmt.Errorf("opening git repository: %v", err)
	}

	commitIDs, err := git.RevList()
	if err != nil {
		return fmt.Errorf("reading rev-list: %v", err)
	}

	// Sample commits
	if cfg.sample > 0 && cfg.sample < len(commitIDs) {
		picked := make(map[int]struct{}, cfg.sample)
		sample := make([]string, 0, cfg.sample)
		for len(sample) < cfg.sample {
			i := rand.IntN(len(commitIDs))
			if _, ok := picked[i]; ok {
				continue
			}
			sample = append(sample, commitIDs[i])
			picked[i] = struct{}{}
		}
		commitIDs = sample
	}

	// Process commits.
	type change struct {
		commitID string
		filename string
		old, new string
	}
	changes := make(chan change)
	var producers errgroup.Group
	chunkSize := max(1, len(commitIDs)/(4*runtime.GOMAXPROCS(0)))
	for chunk := range slices.Chunk(commitIDs, chunkSize) {
		producers.Go(func() error {
			for _, commitID := range chunk {
				files, err := git.DiffTree(commitID)
				if err != nil {
					notes <- note{
						prefix: commitID,
						msg:    fmt.Sprintf("error proccesing commit: %v", err),
					}
				}
				for _, file := range files {
					git.Read([]string{file.OldID, file.NewID}, func(res []string) {
						// Patches are made of runes, invalid UTF-8 doesn't survive the round trip.
						if !utf8.ValidString(res[0]) || !utf8.ValidString(res[1]) {
							return
						}
						changes <- change{
							commitID: commitID,
							filename: file.Name,
							old:      res[0],
							new:      res[1],
						}
					})
				}
				commitsDone.Add(1)
			}
			return nil
		})
	}

	// Process patches.
	var workers errgroup.Group
	var results chan result
	if cfg.stats != "" {
		results = make(chan result)
	}
	for range cfg.parallel {
		workers.Go(func() error {
			for change := range changes {
				prefix := change.commitID + ":" + change.filename
				N, M := utf8.RuneCountInString(change.old), utf8.RuneCountInString(change.new)
				for _, v := range variants {
					start := time.Now()
					diffs := v.diff(engine, change.old, change.new)
					diffs = engine.CleanupEfficiency(dmp.CleanupSemantic(diffs))
					patches := engine.MakePatchesFromTextAndDiffs(change.old, diffs)
					duration := time.Since(start)

					if results != nil {
						results <- result{
							commitID: change.commitID,
							file:     change.filename,
							variant:  v.name,
							N:        N,
							M:        M,
							D:        dmp.Levenshtein(diffs),
							patches:  len(patches),
							duration: duration,
						}
					}

					if cfg.validate {
						for _, msg := range validate(engine, change.old, change.new, diffs, patches) {
							failed.Add(1)
							notes <- note{prefix: prefix + " (" + v.name + ")", msg: msg}
						}
					}
				}
				processed.Add(1)
			}
			return nil
		})
	}

	// Render progress
	var printer errgroup.Group
	render := func() {
		const width = 60
		commits := commitsDone.Load()
		processed := processed.Load()
		progress := float64(commits) / float64(max(1, len(commitIDs)))
		whole := int(progress * width)
		remainder := math.Mod(progress*width, 1)
		last := bars[max(0, min(len(bars)-1, int(remainder*float64(len(bars)))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		var commitsPerSec, procPerSec int
		if commits > 0 {
			commitsPerSec = int((time.Duration(commits) * time.Second) / time.Since(start))
		}
		if processed > 0 {
			procPerSec = int((time.Duration(processed) * time.Second) / time.Since(start))
		}
		fmt.Printf("\r[%-*s] % 3.1f%% (%d commits/s, %d evals/s, %d failures) ", width, bar, 100*progress, commitsPerSec, procPerSec, failed.Load())
	}
	printer.Go(func() error {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case note := <-notes:
				fmt.Printf("\r%s: %s\n", note.prefix, note.msg)
				render()

			case <-ticker.C:
				render()

			case <-done:
				render()
				fmt.Printf("\n")
				return nil
			}
		}
	})
	var statsWriter errgroup.Group
	if cfg.stats != "" {
		statsWriter.Go(func() error {
			w := bufio.NewWriter(stats)
			w.WriteString("commit_id,file,variant,N,M,D,patches,duration_ns\n")
			var werr error
			for result := range results {
				if werr != nil {
					continue // Drain the channel
				}
				_, werr = fmt.Fprintf(w, "%s,%s,%s,%d,%d,%d,%d,%d\n", result.commitID, result.file, result.variant, result.N, result.M, result.D, result.patches, result.duration.Nanoseconds())
			}
			if werr != nil {
				return fmt.Errorf("writing stats: %v", werr)
			}
			if err := w.Flush(); err != nil {
				return fmt.Errorf("flushing stats: %v", err)
			}
			return nil
		})
	}

	// Shutdown
	producers.Wait()
	gitErr := git.Close()
	close(changes)
	workers.Wait()
	if results != nil {
		close(results)
	}
	err = statsWriter.Wait()
	close(done)
	printer.Wait()

	if err != nil {
		return err
	}
	if gitErr != nil {
		return fmt.Errorf("reading from git repository: %v", gitErr)
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d validations failed", n)
	}
	return nil
}

// validate checks the round trip of a change through patches and returns a message for every
// problem found.
func validate(engine *dmp.Engine, old, new string, diffs []dmp.Diff, patches []dmp.Patch) []string {
	var msgs []string
	if dmp.Text1(diffs) != old || dmp.Text2(diffs) != new {
		msgs = append(msgs, "diffs don't reproduce the inputs")
	}

	text := dmp.PatchesToText(patches)
	parsed, err := dmp.PatchesFromText(text)
	if err != nil {
		return append(msgs, fmt.Sprintf("failed to parse patches: %v", err))
	}
	if got := dmp.PatchesToText(parsed); got != text {
		msgs = append(msgs, fmt.Sprintf("patch text changed after parsing:\n%s", dmp.PrettyText(dmp.DiffLines(text, got), false)))
	}
	for _, p := range parsed {
		if err := p.Validate(); err != nil {
			msgs = append(msgs, err.Error())
		}
	}

	for _, prefix := range []string{"", drift} {
		patched, applied := engine.ApplyPatches(parsed, prefix+old)
		for i, ok := range applied {
			if !ok {
				msgs = append(msgs, fmt.Sprintf("patch %s failed to apply (drift=%v)", parsed[i].Header(), prefix != ""))
			}
		}
		if patched != prefix+new {
			msgs = append(msgs, fmt.Sprintf("file is different after applying patches (drift=%v):\n%s", prefix != "", dmp.PrettyText(dmp.DiffLines(prefix+new, patched), false)))
		}
	}
	return msgs
}
