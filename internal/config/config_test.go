package config

import (
	"testing"

	"github.com/Beluki/MQLite/internal/format"
)

func TestParseDefaults(t *testing.T) {
	cfg, exitResult := Parse([]string{"mqlite", `{"age >": 18}`})
	if exitResult != nil {
		t.Fatalf("Parse returned exit result: %v", exitResult.Message)
	}
	if cfg.Pattern != `{"age >": 18}` {
		t.Errorf("Pattern = %q", cfg.Pattern)
	}
	if cfg.Strict || cfg.Debug || cfg.Format.ASCII || cfg.Format.SortKeys {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Format.Indent != 4 {
		t.Errorf("Indent = %d, want 4", cfg.Format.Indent)
	}
	if cfg.Format.Newline != format.NewlineSystem {
		t.Errorf("Newline = %v, want NewlineSystem", cfg.Format.Newline)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, exitResult := Parse([]string{
		"mqlite",
		"--strict", "--ascii", "--sort-keys", "--debug",
		"--indent", "-1", "--newline", "unix",
		`{"name": null}`,
	})
	if exitResult != nil {
		t.Fatalf("Parse returned exit result: %v", exitResult.Message)
	}
	if !cfg.Strict || !cfg.Debug || !cfg.Format.ASCII || !cfg.Format.SortKeys {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Format.Indent != -1 {
		t.Errorf("Indent = %d, want -1", cfg.Format.Indent)
	}
	if cfg.Format.Newline != format.NewlineUnix {
		t.Errorf("Newline = %v, want NewlineUnix", cfg.Format.Newline)
	}
}

func TestParseNoPatternIsExitError(t *testing.T) {
	cfg, exitResult := Parse([]string{"mqlite", "--strict"})
	if cfg != nil {
		t.Fatalf("cfg = %+v, want nil", cfg)
	}
	if exitResult == nil || exitResult.ExitCode != 2 {
		t.Fatalf("exitResult = %+v, want exit code 2", exitResult)
	}
}

func TestParseNoArgumentsIsExitError(t *testing.T) {
	_, exitResult := Parse(nil)
	if exitResult == nil || exitResult.ExitCode != 2 {
		t.Fatalf("exitResult = %+v, want exit code 2", exitResult)
	}
}

func TestParseBadNewlineIsExitError(t *testing.T) {
	_, exitResult := Parse([]string{"mqlite", "--newline", "bogus", `{"a": 1}`})
	if exitResult == nil || exitResult.ExitCode != 2 {
		t.Fatalf("exitResult = %+v, want exit code 2", exitResult)
	}
}

func TestParseHelpIsSuccess(t *testing.T) {
	_, exitResult := Parse([]string{"mqlite", "--help"})
	if exitResult == nil || exitResult.ExitCode != 0 {
		t.Fatalf("exitResult = %+v, want exit code 0", exitResult)
	}
}

func TestParseUnknownFlagIsExitError(t *testing.T) {
	_, exitResult := Parse([]string{"mqlite", "--bogus-flag", `{"a": 1}`})
	if exitResult == nil || exitResult.ExitCode != 2 {
		t.Fatalf("exitResult = %+v, want exit code 2", exitResult)
	}
}
