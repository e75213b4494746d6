// Package config parses the mqlite command line into a validated Config,
// using a flag.FlagSet paired with an *exit.Result return instead of
// calling os.Exit directly, so callers stay testable.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/Beluki/MQLite/internal/exit"
	"github.com/Beluki/MQLite/internal/format"
)

var (
	ErrNoArguments = errors.New("no arguments provided")
	ErrNoPattern   = errors.New("no pattern provided")
)

// Config holds one mqlite invocation's parsed flags.
type Config struct {
	// Pattern is the JSON query text, the first positional argument.
	Pattern string

	// Strict makes a no-match exit with status 1 and an error message
	// instead of status 0 and silent output.
	Strict bool

	Format format.Options
	Debug  bool
}

// Parse parses args (os.Args) into a Config. A nil Config paired with a
// non-nil exit.Result means the caller should print the result and
// return its ExitCode without running anything else.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.UsageErrorf("mqlite: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		strict   = fs.Bool("strict", false, "exit with an error message and status 1 when no match")
		ascii    = fs.Bool("ascii", false, "escape non-ascii characters")
		indent   = fs.Int("indent", 4, "use N spaces of indentation (-1 to disable)")
		sortKeys = fs.Bool("sort-keys", false, "sort object keys before printing")
		newline  = fs.String("newline", "system", "newline mode: dos, mac, unix or system")
		debug    = fs.Bool("debug", false, "tag this invocation with a correlation id and print compile/match diagnostics to stderr")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.UsageErrorf("mqlite: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	positional := fs.Args()
	if len(positional) == 0 {
		return nil, exit.UsageErrorf("mqlite: %v\n\n%s", ErrNoPattern, Usage())
	}

	nl, err := format.ParseNewline(*newline)
	if err != nil {
		return nil, exit.UsageErrorf("mqlite: %v\n\n%s", err, Usage())
	}

	cfg := &Config{
		Pattern: positional[0],
		Strict:  *strict,
		Debug:   *debug,
		Format: format.Options{
			ASCII:    *ascii,
			Indent:   *indent,
			SortKeys: *sortKeys,
			Newline:  nl,
		},
	}

	return cfg, nil
}

// Usage returns the CLI's help text.
func Usage() string {
	return fmt.Sprintf(`mqlite - JSON pattern matching over stdin

Usage: mqlite [options] pattern

The JSON pattern is matched against the JSON document read from stdin;
the matched projection (if any) is printed to stdout.

Options:
  --strict            exit with an error message and status 1 on no match
  --ascii             escape non-ascii characters
  --indent N          use N spaces of indentation, -1 to disable (default: 4)
  --sort-keys         sort object keys before printing
  --newline MODE      dos, mac, unix or system (default: system)
  --debug             print a correlation id and diagnostics to stderr
  -h, --help          show this help message
`)
}
