// diff is a small CLI to manually run the implementations used for benchmarking.
//
// By default, it prints the line diff of one of the libraries. With -patch, it makes patches from
// x to y instead and prints the result of applying them to x with an extra line at the top.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/tools/txtar"
	"znkr.io/dmp/internal/benchmarks"
)

type config struct {
	lib   string
	patch bool
	list  bool
	x, y  string
	txtar string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.lib, "lib", "dmp", "library to use")
	flag.BoolVar(&cfg.patch, "patch", false, "make and apply patches instead of diffing")
	flag.BoolVar(&cfg.list, "list", false, "list the available libraries")
	flag.StringVar(&cfg.txtar, "txtar", "", "use testdata txtar file instead of two input files")
	flag.Parse()

	switch {
	case cfg.list:
	case cfg.txtar != "":
		if flag.CommandLine.NArg() != 0 {
			fmt.Fprintf(os.Stderr, "error: usage: diff -txtar <file>\n")
			os.Exit(1)
		}
	default:
		if flag.CommandLine.NArg() != 2 {
			fmt.Fprintf(os.Stderr, "error: usage: diff <x> <y>\n")
			os.Exit(1)
		}
		cfg.x = flag.CommandLine.Arg(0)
		cfg.y = flag.CommandLine.Arg(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	if cfg.list {
		for _, impl := range benchmarks.Impls {
			fmt.Println("diff ", impl.Name)
		}
		for _, p := range benchmarks.Patchers {
			fmt.Println("patch", p.Name)
		}
		return nil
	}

	x, y, err := inputs(cfg)
	if err != nil {
		return err
	}

	if cfg.patch {
		for _, p := range benchmarks.Patchers {
			if p.Name != cfg.lib {
				continue
			}
			patched, ok := p.Patch(string(x), string(y), "An extra line at the top.\n"+string(x))
			os.Stdout.WriteString(patched)
			if !ok {
				return fmt.Errorf("some patches failed to apply")
			}
			return nil
		}
		return fmt.Errorf("lib not found %q", cfg.lib)
	}

	for _, impl := range benchmarks.Impls {
		if impl.Name == cfg.lib {
			os.Stdout.Write(impl.Diff(x, y))
			return nil
		}
	}
	return fmt.Errorf("lib not found %q", cfg.lib)
}

func inputs(cfg config) (x, y []byte, err error) {
	if cfg.txtar == "" {
		x, err = os.ReadFile(cfg.x)
		if err != nil {
			return nil, nil, err
		}
		y, err = os.ReadFile(cfg.y)
		return x, y, err
	}
	ar, err := txtar.ParseFile(cfg.txtar)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range ar.Files {
		switch f.Name {
		case "x":
			x = f.Data
		case "y":
			y = f.Data
		}
	}
	return x, y, nil
}
