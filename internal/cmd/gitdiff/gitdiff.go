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

// gitdiff is a tool that can be used with git using GIT_EXTERNAL_DIFF. Instead of a unified diff,
// it prints the patches that dmp would make for every changed file:
//
//	GIT_EXTERNAL_DIFF=gitdiff git diff HEAD~1
//
// Engine parameters can be set with a TOML file named by the DMP_CONFIG environment variable.
package main

import (
	"fmt"
	"io"
	"os"

	"znkr.io/dmp"
	"znkr.io/dmp/internal/patchio"
)

func main() {
	if err := run(os.Args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	if len(args) < 8 {
		return fmt.Errorf("expected at least 8 args, got %v: %v", len(args), args)
	}

	path, oldFile, oldHex, _, newFile, newHex, newMode := args[1], args[2], args[3], args[4], args[5], args[6], args[7]

	old, err := readFile(oldFile)
	if err != nil {
		return fmt.Errorf("reading old file: %v", err)
	}
	new, err := readFile(newFile)
	if err != nil {
		return fmt.Errorf("reading new file: %v", err)
	}

	var opts []dmp.Option
	if name := os.Getenv("DMP_CONFIG"); name != "" {
		c, err := patchio.LoadConfig(name)
		if err != nil {
			return err
		}
		opts = c.Options
	}
	patches := dmp.MakePatches(old, new, opts...)

	fmt.Fprintf(w, "diff --git a/%s b/%s\n", path, path)
	fmt.Fprintf(w, "index %s..%s %s\n", short(oldHex), short(newHex), newMode)
	fmt.Fprintf(w, "--- a/%s\n", path)
	fmt.Fprintf(w, "+++ b/%s\n", path)
	_, err = io.WriteString(w, dmp.PatchesToText(patches))
	return err
}

func readFile(name string) (string, error) {
	if name == "/dev/null" {
		return "", nil
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

func short(hex string) string {
	return hex[:min(len(hex), 10)]
}
