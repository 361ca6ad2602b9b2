// Package benchmarks compares dmp with other diff libraries.
package benchmarks

import (
	"bytes"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	godebug "github.com/kylelemons/godebug/diff"
	mb0 "github.com/mb0/diff"
	gointernal "github.com/rogpeppe/go-internal/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/dmp"
)

type Impl struct {
	Name string
	Diff func(x, y []byte) []byte
}

// Impls are line diffs, or close enough to be comparable. Every implementation writes one line
// per line of input, prefixed with " ", "-" or "+".
var Impls = []Impl{
	{
		Name: "dmp",
		Diff: func(x, y []byte) []byte {
			var buf bytes.Buffer
			for _, d := range dmp.DiffLines(string(x), string(y)) {
				writeLines(&buf, prefixes[d.Op], d.Text)
			}
			return buf.Bytes()
		},
	},
	{
		Name: "dmp-chars",
		Diff: func(x, y []byte) []byte {
			// Character diffs don't align with lines, this measures the line pre-pass and the
			// cleanup on top of it.
			var buf bytes.Buffer
			for _, d := range dmp.CleanupSemantic(dmp.DiffMain(string(x), string(y))) {
				writeLines(&buf, prefixes[d.Op], d.Text)
			}
			return buf.Bytes()
		},
	},
	{
		Name: "go-internal",
		Diff: func(x, y []byte) []byte {
			return gointernal.Diff("x", x, "y", y)
		},
	},
	{
		Name: "diffmatchpatch",
		Diff: func(x, y []byte) []byte {
			dmp := diffmatchpatch.New()
			rx, ry, lines := dmp.DiffLinesToRunes(string(x), string(y))
			diffs := dmp.DiffMainRunes(rx, ry, false)
			diffs = dmp.DiffCharsToLines(diffs, lines)

			var buf bytes.Buffer
			for _, diff := range diffs {
				switch diff.Type {
				case diffmatchpatch.DiffInsert:
					writeLines(&buf, "+", diff.Text)
				case diffmatchpatch.DiffDelete:
					writeLines(&buf, "-", diff.Text)
				case diffmatchpatch.DiffEqual:
					writeLines(&buf, " ", diff.Text)
				}
			}
			return buf.Bytes()
		},
	},
	{
		Name: "godebug",
		Diff: func(x, y []byte) []byte {
			return []byte(godebug.Diff(string(x), string(y)))
		},
	},
	{
		Name: "mb0",
		Diff: func(x, y []byte) []byte {
			d := mb0lines{
				x: bytes.SplitAfter(x, []byte("\n")),
				y: bytes.SplitAfter(y, []byte("\n")),
			}
			changes := mb0.Diff(len(d.x), len(d.y), d)
			var buf bytes.Buffer
			a := 0
			for _, ch := range changes {
				for a < ch.A {
					buf.WriteString(" ")
					buf.Write(d.x[a])
					a++
				}
				for i := range ch.Del {
					buf.WriteString("-")
					buf.Write(d.x[ch.A+i])
					a++
				}
				for i := range ch.Ins {
					buf.WriteString("+")
					buf.Write(d.y[ch.B+i])
				}
			}
			for a < len(d.x) {
				buf.WriteString(" ")
				buf.Write(d.x[a])
				a++
			}
			return buf.Bytes()
		},
	},
	{
		Name: "udiff",
		Diff: func(x, y []byte) []byte {
			return []byte(udiff.Unified("x", "y", string(x), string(y)))
		},
	},
}

var prefixes = map[dmp.Op]string{
	dmp.Equal:  " ",
	dmp.Delete: "-",
	dmp.Insert: "+",
}

func writeLines(buf *bytes.Buffer, prefix, text string) {
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		buf.WriteString(prefix)
		buf.WriteString(line)
	}
}

type mb0lines struct {
	x [][]byte
	y [][]byte
}

func (d mb0lines) Equal(i, j int) bool { return bytes.Equal(d.x[i], d.y[j]) }

// Patcher makes patches from x to y and applies them to a text.
type Patcher struct {
	Name  string
	Patch func(x, y, text string) (string, bool)
}

// Patchers compare the patch engines. Patches are made, serialized, parsed and applied like they
// would be when sent to a different process.
var Patchers = []Patcher{
	{
		Name: "dmp",
		Patch: func(x, y, text string) (string, bool) {
			patches, err := dmp.PatchesFromText(dmp.PatchesToText(dmp.MakePatches(x, y)))
			if err != nil {
				return "", false
			}
			patched, applied := dmp.ApplyPatches(patches, text)
			return patched, all(applied)
		},
	},
	{
		Name: "diffmatchpatch",
		Patch: func(x, y, text string) (string, bool) {
			dmp := diffmatchpatch.New()
			patches, err := dmp.PatchFromText(dmp.PatchToText(dmp.PatchMake(x, y)))
			if err != nil {
				return "", false
			}
			patched, applied := dmp.PatchApply(patches, text)
			return patched, all(applied)
		},
	},
}

func all(applied []bool) bool {
	for _, ok := range applied {
		if !ok {
			return false
		}
	}
	return true
}
