package key

import (
	"errors"
	"testing"
)

func TestParsePlainKey(t *testing.T) {
	k, err := Parse("name")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !k.Projecting || k.Optional || k.Wildcard || k.Directive != DirectiveNone {
		t.Errorf("Parse(%q) = %+v, want plain projecting key", "name", k)
	}
	if k.Name != "name" {
		t.Errorf("Name = %q, want %q", k.Name, "name")
	}
}

func TestParseOptionalKey(t *testing.T) {
	k, err := Parse("name?")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !k.Projecting || !k.Optional {
		t.Errorf("Parse(%q) = %+v, want optional projecting key", "name?", k)
	}
	if k.Name != "name" {
		t.Errorf("Name = %q, want %q", k.Name, "name")
	}
}

func TestParseWildcard(t *testing.T) {
	k, err := Parse("*")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !k.Wildcard {
		t.Errorf("Parse(%q) = %+v, want wildcard key", "*", k)
	}
}

func TestParseDirectives(t *testing.T) {
	tests := []struct {
		raw  string
		want Directive
	}{
		{"__limit__", DirectiveLimit},
		{"__sort__", DirectiveSort},
		{"__order__", DirectiveOrder},
	}

	for _, tt := range tests {
		k, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.raw, err)
		}
		if k.Directive != tt.want {
			t.Errorf("Parse(%q).Directive = %v, want %v", tt.raw, k.Directive, tt.want)
		}
	}
}

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		raw            string
		wantName       string
		wantOp         Op
		wantNegate     bool
		wantQuantifier Quantifier
	}{
		{"age >", "age", OpGT, false, QuantifierSingle},
		{"age not ==", "age", OpEQ, true, QuantifierSingle},
		{"hobbies contain any", "hobbies", OpContain, false, QuantifierAny},
		{"hobbies contain one", "hobbies", OpContain, false, QuantifierOne},
		{"tags not in all", "tags", OpIn, true, QuantifierAll},
		{"grades match", "grades", OpMatch, false, QuantifierSingle},
	}

	for _, tt := range tests {
		k, err := Parse(tt.raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.raw, err)
		}
		if k.Projecting || k.Name != tt.wantName || len(k.Constraints) != 1 {
			t.Fatalf("Parse(%q) = %+v", tt.raw, k)
		}
		got := k.Constraints[0]
		if got.Op != tt.wantOp || got.Negate != tt.wantNegate || got.Quantifier != tt.wantQuantifier {
			t.Errorf("Parse(%q).Constraints[0] = %+v, want {%v %v %v}", tt.raw, got, tt.wantOp, tt.wantNegate, tt.wantQuantifier)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{
		"age bogus",
		"age not",
		"age > extra stuff",
		"* extra",
		"__limit__ extra",
		"age >  one two",
	}

	for _, raw := range tests {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) = nil error, want error", raw)
		}
	}
}

func TestParseUnknownOperator(t *testing.T) {
	_, err := Parse("age bogus")
	if !errors.Is(err, ErrInvalidKeySyntax) && !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("Parse unknown operator error = %v, want wrapped ErrInvalidKeySyntax/ErrUnknownOperator", err)
	}
}
