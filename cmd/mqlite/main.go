package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/Beluki/MQLite/internal/compile"
	"github.com/Beluki/MQLite/internal/config"
	"github.com/Beluki/MQLite/internal/evaluate"
	"github.com/Beluki/MQLite/internal/format"
	"github.com/Beluki/MQLite/internal/value"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, exitResult := config.Parse(args)
	if exitResult != nil {
		fmt.Fprint(exitResult.Output, exitResult.Message)
		return exitResult.ExitCode
	}

	correlationID := ""
	if cfg.Debug {
		correlationID = uuid.New().String()
		fmt.Fprintf(stderr, "mqlite[%s]: pattern: %s\n", correlationID, cfg.Pattern)
	}

	patternValue, err := value.Decode([]byte(cfg.Pattern))
	if err != nil {
		return fail(stderr, correlationID, fmt.Errorf("invalid pattern: %w", err))
	}

	matcher, err := compile.Compile(patternValue)
	if err != nil {
		return fail(stderr, correlationID, fmt.Errorf("failed to compile pattern: %w", err))
	}

	input, err := readAllUTF8(stdin)
	if err != nil {
		return fail(stderr, correlationID, fmt.Errorf("failed to read stdin: %w", err))
	}

	dataValue, err := value.Decode(input)
	if err != nil {
		return fail(stderr, correlationID, fmt.Errorf("invalid input: %w", err))
	}

	projection, ok, err := evaluate.Match(matcher, dataValue)
	if err != nil {
		return fail(stderr, correlationID, fmt.Errorf("match failed: %w", err))
	}

	if !ok {
		if cfg.Debug {
			fmt.Fprintf(stderr, "mqlite[%s]: no match\n", correlationID)
		}
		if cfg.Strict {
			fmt.Fprintln(stderr, "mqlite: error: no match")
			return 1
		}
		return 0
	}

	if cfg.Debug {
		fmt.Fprintf(stderr, "mqlite[%s]: matched\n", correlationID)
	}

	fmt.Fprint(stdout, format.Dump(projection, cfg.Format))
	return 0
}

// readAllUTF8 reads stdin fully, stripping a leading UTF-8 BOM if present.
func readAllUTF8(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(content, utf8BOM), nil
}

func fail(stderr io.Writer, correlationID string, err error) int {
	if correlationID != "" {
		fmt.Fprintf(stderr, "mqlite[%s]: error: %v\n", correlationID, err)
	} else {
		fmt.Fprintf(stderr, "mqlite: error: %v\n", err)
	}
	return 2
}
