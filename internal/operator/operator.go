// Package operator evaluates the constraint operators a compiled
// FieldConstraint carries: comparison, equality, regex, set membership,
// substring/element containment, type testing, and recursive sub-matcher
// matching, each optionally negated and quantified over a list of
// right-hand values.
package operator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Beluki/MQLite/internal/key"
	"github.com/Beluki/MQLite/internal/matcher"
	"github.com/Beluki/MQLite/internal/number"
	"github.com/Beluki/MQLite/internal/value"
)

// ErrInvalidOperand reports a compiled constraint carrying an operator
// or quantifier this package does not recognize. A type-mismatched
// right-hand operand (e.g. `in` against a non-array, `is` against an
// unrecognized type name) is not an error: predicateAt's callers treat
// it as an ordinary predicate failure, so the whole evaluation reports
// no match instead of aborting.
var ErrInvalidOperand = errors.New("operator: invalid operand")

// ErrBadRegex reports a `regex` constraint whose pattern fails to
// compile; distinct from an ordinary no-match.
var ErrBadRegex = errors.New("operator: invalid regular expression")

var typeNames = map[string]bool{
	"null": true, "bool": true, "number": true,
	"string": true, "array": true, "object": true,
}

// MatchFunc evaluates a compiled sub-matcher against data the same way
// the evaluator does. It lets the `match` operator recurse into the
// evaluator without this package importing it back.
type MatchFunc func(m matcher.Node, d value.Value) (value.Value, bool, error)

type regexCompiler interface {
	Compile(pattern string) (*regexp.Regexp, error)
}

type cachedRegexCompiler struct {
	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

func newCachedRegexCompiler() *cachedRegexCompiler {
	return &cachedRegexCompiler{patterns: make(map[string]*regexp.Regexp)}
}

func (c *cachedRegexCompiler) Compile(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	if re, ok := c.patterns[pattern]; ok {
		c.mu.RUnlock()
		return re, nil
	}
	c.mu.RUnlock()

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadRegex, pattern, err)
	}

	c.mu.Lock()
	c.patterns[pattern] = re
	c.mu.Unlock()
	return re, nil
}

// Evaluator evaluates constraint operators against data values.
type Evaluator struct {
	regex regexCompiler
	match MatchFunc
}

// NewEvaluator returns an Evaluator that recurses into sub-matchers
// through match for the `match` operator.
func NewEvaluator(match MatchFunc) *Evaluator {
	return &Evaluator{regex: newCachedRegexCompiler(), match: match}
}

// Evaluate runs fc's operator, quantifier, and negation against d.
//
// A quantifier of all/any/one does not lift the predicate over d's
// elements: it walks fc's list of right-hand values (or sub-matchers,
// for `match`), applying the base predicate P(d, r_i) once per entry
// and combining with AND/OR/exactly-one. "hobbies contain any":
// ["reading","painting"] means "hobbies contains reading, or hobbies
// contains painting" — d stays the whole hobbies array throughout.
func (e *Evaluator) Evaluate(fc matcher.FieldConstraint, d value.Value) (bool, error) {
	result, err := e.evaluateQuantified(fc, d)
	if err != nil {
		return false, err
	}
	if fc.Spec.Negate {
		result = !result
	}
	return result, nil
}

func (e *Evaluator) evaluateQuantified(fc matcher.FieldConstraint, d value.Value) (bool, error) {
	n := len(fc.Literals)
	if fc.Spec.Op == key.OpMatch {
		n = len(fc.Matches)
	}

	switch fc.Spec.Quantifier {
	case key.QuantifierSingle:
		return e.predicateAt(fc, d, 0)

	case key.QuantifierAll:
		for i := 0; i < n; i++ {
			ok, err := e.predicateAt(fc, d, i)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case key.QuantifierAny:
		for i := 0; i < n; i++ {
			ok, err := e.predicateAt(fc, d, i)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case key.QuantifierOne:
		count := 0
		for i := 0; i < n; i++ {
			ok, err := e.predicateAt(fc, d, i)
			if err != nil {
				return false, err
			}
			if ok {
				count++
			}
		}
		return count == 1, nil

	default:
		return false, fmt.Errorf("%w: unknown quantifier", ErrInvalidOperand)
	}
}

// predicateAt evaluates fc's base operator against d using the i-th
// right-hand value (or sub-matcher, for `match`).
func (e *Evaluator) predicateAt(fc matcher.FieldConstraint, d value.Value, i int) (bool, error) {
	if fc.Spec.Op == key.OpMatch {
		_, ok, err := e.match(fc.Matches[i], d)
		return ok, err
	}

	r := fc.Literals[i]
	switch fc.Spec.Op {
	case key.OpGT, key.OpGE, key.OpLT, key.OpLE:
		return compareOp(fc.Spec.Op, d, r)
	case key.OpEQ:
		return value.Equal(d, r), nil
	case key.OpNE:
		return !value.Equal(d, r), nil
	case key.OpRegex:
		return e.regexOp(d, r)
	case key.OpIn:
		return inOp(d, r)
	case key.OpContain:
		return containOp(d, r)
	case key.OpIs:
		return isOp(d, r)
	default:
		return false, fmt.Errorf("%w: unsupported operator %v", ErrInvalidOperand, fc.Spec.Op)
	}
}

func compareOp(op key.Op, d, r value.Value) (bool, error) {
	if dn, ok := number.ToFloat64(d); ok {
		if rn, ok := number.ToFloat64(r); ok {
			return compareOrdered(op, dn, rn), nil
		}
		return false, nil
	}
	if ds, ok := d.(value.String); ok {
		if rs, ok := r.(value.String); ok {
			return compareOrdered(op, string(ds), string(rs)), nil
		}
		return false, nil
	}
	return false, nil
}

func compareOrdered[T int | float64 | string](op key.Op, a, b T) bool {
	switch op {
	case key.OpGT:
		return a > b
	case key.OpGE:
		return a >= b
	case key.OpLT:
		return a < b
	case key.OpLE:
		return a <= b
	default:
		return false
	}
}

func (e *Evaluator) regexOp(d, r value.Value) (bool, error) {
	ds, ok := d.(value.String)
	if !ok {
		return false, nil
	}
	rs, ok := r.(value.String)
	if !ok {
		return false, nil
	}

	re, err := e.regex.Compile(string(rs))
	if err != nil {
		return false, err
	}
	return re.MatchString(string(ds)), nil
}

func inOp(d, r value.Value) (bool, error) {
	arr, ok := r.(value.Array)
	if !ok {
		return false, nil
	}
	for _, item := range arr {
		if value.Equal(d, item) {
			return true, nil
		}
	}
	return false, nil
}

func containOp(d, r value.Value) (bool, error) {
	switch dv := d.(type) {
	case value.Array:
		for _, item := range dv {
			if value.Equal(item, r) {
				return true, nil
			}
		}
		return false, nil
	case value.String:
		rs, ok := r.(value.String)
		if !ok {
			return false, nil
		}
		return strings.Contains(string(dv), string(rs)), nil
	default:
		return false, nil
	}
}

func isOp(d, r value.Value) (bool, error) {
	rs, ok := r.(value.String)
	if !ok {
		return false, nil
	}
	name := string(rs)
	if !typeNames[name] {
		return false, nil
	}
	return value.TypeName(d) == name, nil
}
