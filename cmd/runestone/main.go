// Package main is the entry point for the runestone CLI, which applies
// link edits to documents in the JSON interchange form.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/runestone-text/runestone/internal/codec"
	"github.com/runestone-text/runestone/internal/command"
	"github.com/runestone-text/runestone/internal/editor"
)

// Version information (set via ldflags during build).
var version = "dev"

type options struct {
	input     string
	rulesPath string
	href      string
	extra     map[string]any
	unlink    bool
	query     bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	data, err := readInput(opts.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading document: %v\n", err)
		return 1
	}

	doc, err := codec.Unmarshal(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ed := editor.New(doc)
	defer ed.Close()

	if opts.rulesPath != "" {
		if err := ed.LoadRules(opts.rulesPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.query {
		state := ed.LinkState()
		fmt.Printf("value=%q set=%v enabled=%v\n", state.Value, state.ValueSet, state.Enabled)
		return 0
	}

	switch {
	case opts.unlink:
		err = ed.Unlink()
	default:
		err = ed.Link(&command.LinkEdit{Href: opts.href, Extra: opts.extra})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	out, err := codec.Marshal(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding document: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func parseFlags() options {
	opts := options{extra: make(map[string]any)}
	var showVersion bool

	flag.StringVar(&opts.input, "in", "-", "Document JSON file (- for stdin)")
	flag.StringVar(&opts.rulesPath, "rules", "", "Schema rule file (.toml, .yaml, .yml)")
	flag.StringVar(&opts.href, "href", "", "Link destination to apply")
	flag.BoolVar(&opts.unlink, "unlink", false, "Remove the link from the selection")
	flag.BoolVar(&opts.query, "query", false, "Print link command state without editing")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Func("attr", "Extra link payload entry as key=value (repeatable)", func(s string) error {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return fmt.Errorf("expected key=value, got %q", s)
		}
		opts.extra[key] = value
		return nil
	})

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Runestone - structured attribute range editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: runestone [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  runestone -in doc.json -href https://example.com\n")
		fmt.Fprintf(os.Stderr, "  runestone -in doc.json -href https://example.com -attr rel=nofollow\n")
		fmt.Fprintf(os.Stderr, "  runestone -in doc.json -unlink\n")
		fmt.Fprintf(os.Stderr, "  runestone -in doc.json -query\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Runestone %s\n", version)
		os.Exit(0)
	}

	return opts
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
