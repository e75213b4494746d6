// Package compile converts a parsed query value.Value into a
// matcher.Node tree, resolving directives, wildcards, and constraints
// along the way.
package compile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Beluki/MQLite/internal/key"
	"github.com/Beluki/MQLite/internal/matcher"
	"github.com/Beluki/MQLite/internal/value"
)

// ErrInvalidKeySyntax reports a malformed augmented object key.
var ErrInvalidKeySyntax = errors.New("compile: invalid key syntax")

// ErrUnknownOperator reports a constraint token that isn't a recognized
// operator.
var ErrUnknownOperator = errors.New("compile: unknown operator")

// ErrInvalidDirectiveValue reports a directive (__limit__, __sort__,
// __order__, or `*`) with a value of the wrong shape.
var ErrInvalidDirectiveValue = errors.New("compile: invalid directive value")

// Compile compiles a query document into a matcher tree.
func Compile(query value.Value) (matcher.Node, error) {
	return compileAt(query, "$")
}

func compileAt(query value.Value, path string) (matcher.Node, error) {
	switch v := query.(type) {
	case nil:
		return matcher.Any{}, nil
	case value.Null:
		return matcher.Any{}, nil
	case value.Bool, value.Number, value.String:
		return matcher.Equal{Value: v}, nil
	case value.Array:
		return compileArray(v, path)
	case *value.Object:
		return compileObject(v, path)
	default:
		// Not a JSON-native type: treat as an opaque literal comparand.
		return matcher.Equal{Value: v}, nil
	}
}

func compileArray(arr value.Array, path string) (matcher.Node, error) {
	elements := make([]matcher.Node, 0, len(arr))
	for i, item := range arr {
		elem, err := compileAt(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
	}
	return matcher.List{Elements: elements}, nil
}

func compileObject(obj *value.Object, path string) (matcher.Node, error) {
	result := matcher.Object{}

	// Base names that already have a projecting field, so a second
	// projecting key under the same name is rejected
	// (invariant: at most one projecting entry per base name).
	projectingSeen := make(map[string]bool)

	// Position in result.Fields of the constraining field for each
	// base name, so repeated same-name constraint keys AND-combine into
	// one field instead of creating duplicates.
	constrainIndex := make(map[string]int)

	orderSeen := false

	for _, rawKey := range obj.Keys() {
		subValue, _ := obj.Get(rawKey)
		keyPath := path + "." + rawKey

		parsed, err := key.Parse(rawKey)
		if err != nil {
			return nil, translateKeyError(err, keyPath)
		}

		switch {
		case parsed.Directive != key.DirectiveNone:
			directives, err := compileDirective(parsed.Directive, subValue, keyPath, &orderSeen)
			if err != nil {
				return nil, err
			}
			result.Directives = append(result.Directives, directives...)

		case parsed.Wildcard:
			spec, err := compileWildcard(subValue, keyPath)
			if err != nil {
				return nil, err
			}
			result.Fields = append(result.Fields, matcher.Field{
				Name:     rawKey,
				Kind:     matcher.FieldWildcard,
				Wildcard: spec,
			})

		case parsed.Projecting:
			if projectingSeen[parsed.Name] {
				return nil, fmt.Errorf("%w: %s: duplicate projecting field %q", ErrInvalidKeySyntax, keyPath, parsed.Name)
			}
			projectingSeen[parsed.Name] = true

			sub, err := compileAt(subValue, keyPath)
			if err != nil {
				return nil, err
			}

			result.Fields = append(result.Fields, matcher.Field{
				Name:     parsed.Name,
				Kind:     matcher.FieldProject,
				Optional: parsed.Optional,
				Sub:      sub,
			})

		default:
			fc, err := compileConstraint(parsed.Constraints[0], subValue, keyPath)
			if err != nil {
				return nil, err
			}

			if idx, ok := constrainIndex[parsed.Name]; ok {
				result.Fields[idx].Constraints = append(result.Fields[idx].Constraints, fc)
			} else {
				constrainIndex[parsed.Name] = len(result.Fields)
				result.Fields = append(result.Fields, matcher.Field{
					Name:        parsed.Name,
					Kind:        matcher.FieldConstrain,
					Constraints: []matcher.FieldConstraint{fc},
				})
			}
		}
	}

	return result, nil
}

// compileConstraint compiles a constraint's right-hand value. A
// quantifier of all/any/one requires rhs to be a list and expands it
// into one predicate element per list entry; quantifier single wraps
// rhs as a one-element list so the evaluator has a single uniform shape
// to walk.
func compileConstraint(spec key.ConstraintSpec, rhs value.Value, path string) (matcher.FieldConstraint, error) {
	items := []value.Value{rhs}
	if spec.Quantifier != key.QuantifierSingle {
		arr, ok := rhs.(value.Array)
		if !ok {
			return matcher.FieldConstraint{}, fmt.Errorf("%w: %s: %s quantifier requires a list of values", ErrInvalidKeySyntax, path, spec.Quantifier)
		}
		items = arr
	}

	if spec.Op == key.OpMatch {
		matches := make([]matcher.Node, 0, len(items))
		for i, item := range items {
			sub, err := compileAt(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return matcher.FieldConstraint{}, err
			}
			matches = append(matches, sub)
		}
		return matcher.FieldConstraint{Spec: spec, Matches: matches}, nil
	}

	return matcher.FieldConstraint{Spec: spec, Literals: items}, nil
}

func compileWildcard(v value.Value, path string) (matcher.WildcardSpec, error) {
	if s, ok := v.(value.String); ok && s == "*" {
		return matcher.WildcardSpec{Kind: matcher.WildcardAllKeys}, nil
	}

	arr, ok := v.(value.Array)
	if !ok {
		return matcher.WildcardSpec{}, fmt.Errorf(`%w: %s: "*" value must be "*" or a list of key names`, ErrInvalidDirectiveValue, path)
	}

	names := make([]string, 0, len(arr))
	for i, item := range arr {
		s, ok := item.(value.String)
		if !ok {
			return matcher.WildcardSpec{}, fmt.Errorf("%w: %s[%d]: wildcard key name must be a string", ErrInvalidDirectiveValue, path, i)
		}
		names = append(names, string(s))
	}
	return matcher.WildcardSpec{Kind: matcher.WildcardNamedKeys, Names: names}, nil
}

// compileDirective compiles __limit__/__sort__/__order__ into one or two
// matcher.Directive entries (a "-"-prefixed __sort__ with no preceding
// __order__ implicitly appends a Reverse order step right after it).
func compileDirective(kind key.Directive, v value.Value, path string, orderSeen *bool) ([]matcher.Directive, error) {
	switch kind {
	case key.DirectiveLimit:
		limit, err := directiveLimitValue(v, path)
		if err != nil {
			return nil, err
		}
		return []matcher.Directive{{Kind: matcher.DirectiveLimit, Limit: limit}}, nil

	case key.DirectiveOrder:
		order, err := directiveOrderValue(v, path)
		if err != nil {
			return nil, err
		}
		*orderSeen = true
		return []matcher.Directive{{Kind: matcher.DirectiveOrder, Order: order}}, nil

	case key.DirectiveSort:
		sortKey, reverse, err := directiveSortValue(v, path)
		if err != nil {
			return nil, err
		}
		out := []matcher.Directive{{Kind: matcher.DirectiveSort, SortKey: sortKey}}
		if reverse && !*orderSeen {
			out = append(out, matcher.Directive{Kind: matcher.DirectiveOrder, Order: matcher.OrderReverse})
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %s: unknown directive", ErrInvalidDirectiveValue, path)
	}
}

func directiveLimitValue(v value.Value, path string) (int, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, fmt.Errorf("%w: %s: __limit__ requires a non-negative integer", ErrInvalidDirectiveValue, path)
	}
	f := float64(n)
	if f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %s: __limit__ requires a non-negative integer, got %v", ErrInvalidDirectiveValue, path, f)
	}
	return int(f), nil
}

func directiveOrderValue(v value.Value, path string) (matcher.Order, error) {
	s, ok := v.(value.String)
	if !ok {
		return 0, fmt.Errorf("%w: %s: __order__ requires a string", ErrInvalidDirectiveValue, path)
	}
	switch string(s) {
	case "ascending":
		return matcher.OrderAscending, nil
	case "reverse":
		return matcher.OrderReverse, nil
	case "random":
		return matcher.OrderRandom, nil
	default:
		return 0, fmt.Errorf(`%w: %s: __order__ must be "ascending", "reverse" or "random", got %q`, ErrInvalidDirectiveValue, path, s)
	}
}

func directiveSortValue(v value.Value, path string) (sortKey string, reverse bool, err error) {
	s, ok := v.(value.String)
	if !ok {
		return "", false, fmt.Errorf("%w: %s: __sort__ requires a string", ErrInvalidDirectiveValue, path)
	}
	str := string(s)
	if strings.HasPrefix(str, "-") {
		return strings.TrimPrefix(str, "-"), true, nil
	}
	return str, false, nil
}

func translateKeyError(err error, path string) error {
	switch {
	case errors.Is(err, key.ErrUnknownOperator):
		return fmt.Errorf("%w: %s: %v", ErrUnknownOperator, path, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrInvalidKeySyntax, path, err)
	}
}
