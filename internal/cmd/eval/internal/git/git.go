// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package git provides a simplified git interface for reading the history of a repository.
package git

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// zeroID is the object id git uses for a file that doesn't exist on one side of a change.
const zeroID = "0000000000000000000000000000000000000000"

type Repo struct {
	dir  string
	reqs chan<- request
	done chan struct{}

	mu  sync.Mutex
	err error
}

// Open starts reading from the repository in dir. Close must be called to release the git
// process.
func Open(dir string) (*Repo, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	r := &Repo{dir: dir}
	if err := r.start(); err != nil {
		return nil, err
	}
	return r, nil
}

// Close waits for all pending reads and stops the git process. It returns the first error that
// occurred while reading.
func (r *Repo) Close() error {
	close(r.reqs)
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// RevList returns the ids of all non-merge commits reachable from HEAD.
func (r *Repo) RevList() ([]string, error) {
	out, err := git("-C", r.dir, "rev-list", "--no-merges", "HEAD")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

// FileDiff is a file changed by a commit.
type FileDiff struct {
	Name  string
	OldID string
	NewID string
}

// DiffTree returns the files changed by a commit.
func (r *Repo) DiffTree(commit string) ([]FileDiff, error) {
	out, err := git("-C", r.dir, "diff-tree", "-r", "--no-renames", commit)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(out, "\n")[1:]
	ret := make([]FileDiff, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if line[0] != ':' {
			return nil, fmt.Errorf("diff-tree file not starting with ':': %q", line)
		}
		fields := strings.Fields(line[1:])
		if len(fields) < 6 {
			return nil, fmt.Errorf("diff-tree line with %d fields, expected 6: %q", len(fields), line)
		}
		ret = append(ret, FileDiff{
			Name:  fields[5],
			OldID: fields[2],
			NewID: fields[3],
		})
	}
	return ret, nil
}

// Read reads the contents of a list of blobs and calls cb with the contents in the same order.
// The zero id reads as an empty blob. Reads are batched, cb is called from a different goroutine.
// If reading fails, cb is not called and the error is reported by Close.
func (r *Repo) Read(blobIDs []string, cb func([]string)) {
	r.reqs <- request{blobIDs, cb}
}

func (r *Repo) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}

func git(args ...string) (string, error) {
	var wout, werr strings.Builder
	cmd := exec.Command("git", args...)
	cmd.Stdout = &wout
	cmd.Stderr = &werr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running git command %v: %v\n%s", cmd, err, werr.String())
	}
	return wout.String(), nil
}

type request struct {
	blobIDs []string
	cb      func([]string)
}

// start runs git cat-file in batch mode. One goroutine writes batches of requests to git, another
// one reads the responses in the same order.
func (r *Repo) start() error {
	reqs := make(chan request)
	batches := make(chan []request, runtime.GOMAXPROCS(0))
	r.reqs = reqs
	r.done = make(chan struct{})

	cmd := exec.Command("git", "-C", r.dir, "cat-file", "--batch-command", "--buffer")
	in, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("connecting stdin: %v", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("connecting stdout: %v", err)
	}
	var werr bytes.Buffer
	cmd.Stderr = &werr
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		defer close(batches)
		defer in.Close()
		write := func(req request) {
			for _, id := range req.blobIDs {
				if id == zeroID {
					continue
				}
				if _, err := fmt.Fprintf(in, "contents %s\n", id); err != nil {
					r.fail(fmt.Errorf("writing to git: %v", err))
				}
			}
		}
		const N = 32
		for {
			req, ok := <-reqs
			if !ok {
				return
			}
			write(req)
			batch := []request{req}
			closed := false
		Collect:
			for len(batch) < N {
				select {
				case req, ok := <-reqs:
					if !ok {
						closed = true
						break Collect
					}
					write(req)
					batch = append(batch, req)
				default:
					break Collect
				}
			}
			if _, err := fmt.Fprintf(in, "flush\n"); err != nil {
				r.fail(fmt.Errorf("writing to git: %v", err))
			}
			batches <- batch
			if closed {
				return
			}
		}
	}()

	go func() {
		defer close(r.done)
		br := bufio.NewReader(out)
		for batch := range batches {
			for _, req := range batch {
				contents, err := readBlobs(br, req.blobIDs)
				if err != nil {
					r.fail(err)
					continue
				}
				req.cb(contents)
			}
		}
		if err := cmd.Wait(); err != nil {
			r.fail(fmt.Errorf("git cat-file: %v\n%s", err, werr.String()))
		}
	}()

	return nil
}

// readBlobs reads the responses for a list of blobs from git cat-file.
func readBlobs(r *bufio.Reader, ids []string) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		if id == zeroID {
			continue
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading from git: %v", err)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("found %v fields, expected 3: %q", len(fields), line)
		}
		if fields[0] != id {
			return nil, fmt.Errorf("ids don't match %s vs %s", fields[0], id)
		}
		n, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, n+1) // contents followed by a newline
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading from git: %v", err)
		}
		out[i] = string(buf[:n])
	}
	return out, nil
}
