// Package key parses MQLite's augmented object-key grammar: a plain
// projection name optionally followed by a constraint expression of the
// shape "[not] <op> [all|any|one]", or one of the special forms (`?`
// suffix, `*` wildcard, `__directive__`).
package key

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKeySyntax reports a key string that does not match any of
// the recognized shapes in §4.1.
var ErrInvalidKeySyntax = errors.New("key: invalid key syntax")

// ErrUnknownOperator reports a constraint token that is not one of the
// recognized operators.
var ErrUnknownOperator = errors.New("key: unknown operator")

// Op identifies a constraint operator.
type Op int

const (
	OpGT Op = iota
	OpGE
	OpLT
	OpLE
	OpEQ
	OpNE
	OpRegex
	OpIn
	OpContain
	OpIs
	OpMatch
)

func (op Op) String() string {
	for token, o := range operatorTokens {
		if o == op {
			return token
		}
	}
	return "unknown"
}

var operatorTokens = map[string]Op{
	">":       OpGT,
	">=":      OpGE,
	"<":       OpLT,
	"<=":      OpLE,
	"==":      OpEQ,
	"!=":      OpNE,
	"regex":   OpRegex,
	"in":      OpIn,
	"contain": OpContain,
	"is":      OpIs,
	"match":   OpMatch,
}

// Quantifier selects how many of a constraint's right-hand list values
// must satisfy the base predicate against the (unchanged) datum: all of
// them, at least one, or exactly one. It does not lift the predicate
// over elements of the datum itself.
type Quantifier int

const (
	QuantifierSingle Quantifier = iota
	QuantifierAll
	QuantifierAny
	QuantifierOne
)

func (q Quantifier) String() string {
	switch q {
	case QuantifierAll:
		return "all"
	case QuantifierAny:
		return "any"
	case QuantifierOne:
		return "one"
	default:
		return "single"
	}
}

var quantifierTokens = map[string]Quantifier{
	"all": QuantifierAll,
	"any": QuantifierAny,
	"one": QuantifierOne,
}

// ConstraintSpec is one parsed "[not] <op> [all|any|one]" token group.
type ConstraintSpec struct {
	Op         Op
	Negate     bool
	Quantifier Quantifier
}

// Directive identifies one of the three special directive keys.
type Directive int

const (
	DirectiveNone Directive = iota
	DirectiveLimit
	DirectiveSort
	DirectiveOrder
)

const (
	directiveLimitToken = "__limit__"
	directiveSortToken  = "__sort__"
	directiveOrderToken = "__order__"
	wildcardToken       = "*"
)

var directiveTokens = map[string]Directive{
	directiveLimitToken: DirectiveLimit,
	directiveSortToken:  DirectiveSort,
	directiveOrderToken: DirectiveOrder,
}

// Key is the parsed form of one raw object key.
type Key struct {
	// Name is the base key name: the wildcard token, the directive
	// token, or the projection/constraint field name (with any trailing
	// "?" already stripped when Optional is true).
	Name string

	// Projecting is true for a plain "name" key with no constraint
	// tokens: its JSON value compiles into a sub-matcher that
	// contributes to the projection.
	Projecting bool

	// Optional is true when Name ended in "?" with no other tokens: a
	// missing key in data is not a match failure, it is simply omitted
	// from the projection.
	Optional bool

	// Wildcard is true for the literal "*" key.
	Wildcard bool

	// Directive is non-zero for one of the three directive keys.
	Directive Directive

	// Constraints holds every constraint token group attached to Name.
	// Parse never returns more than one; the compiler AND-combines
	// repeated same-name constraint keys across separate Parse calls.
	Constraints []ConstraintSpec
}

// Parse parses one raw object key string.
func Parse(raw string) (Key, error) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return Key{}, fmt.Errorf("%w: empty key", ErrInvalidKeySyntax)
	}

	name := tokens[0]

	if name == wildcardToken {
		if len(tokens) != 1 {
			return Key{}, fmt.Errorf("%w: %q: wildcard key takes no suffix tokens", ErrInvalidKeySyntax, raw)
		}
		return Key{Name: name, Wildcard: true}, nil
	}

	if directive, ok := directiveTokens[name]; ok {
		if len(tokens) != 1 {
			return Key{}, fmt.Errorf("%w: %q: directive key takes no suffix tokens", ErrInvalidKeySyntax, raw)
		}
		return Key{Name: name, Directive: directive}, nil
	}

	if len(tokens) == 1 {
		if strings.HasSuffix(name, "?") && len(name) > 1 {
			return Key{Name: strings.TrimSuffix(name, "?"), Projecting: true, Optional: true}, nil
		}
		return Key{Name: name, Projecting: true}, nil
	}

	spec, err := parseConstraintExpr(tokens[1:])
	if err != nil {
		return Key{}, fmt.Errorf("%q: %w", raw, err)
	}

	return Key{Name: name, Constraints: []ConstraintSpec{spec}}, nil
}

// parseConstraintExpr parses "[not] <op> [all|any|one]".
func parseConstraintExpr(tokens []string) (ConstraintSpec, error) {
	idx := 0

	negate := false
	if tokens[idx] == "not" {
		negate = true
		idx++
	}

	if idx >= len(tokens) {
		return ConstraintSpec{}, fmt.Errorf("%w: missing operator after %q", ErrInvalidKeySyntax, "not")
	}

	op, ok := operatorTokens[tokens[idx]]
	if !ok {
		return ConstraintSpec{}, fmt.Errorf("%w: %q", ErrUnknownOperator, tokens[idx])
	}
	idx++

	quantifier := QuantifierSingle
	if idx < len(tokens) {
		q, ok := quantifierTokens[tokens[idx]]
		if !ok {
			return ConstraintSpec{}, fmt.Errorf("%w: %q", ErrInvalidKeySyntax, tokens[idx])
		}
		quantifier = q
		idx++
	}

	if idx != len(tokens) {
		return ConstraintSpec{}, fmt.Errorf("%w: unexpected trailing token %q", ErrInvalidKeySyntax, strings.Join(tokens[idx:], " "))
	}

	return ConstraintSpec{Op: op, Negate: negate, Quantifier: quantifier}, nil
}
