// Package evaluate walks a compiled matcher tree against a data value,
// producing a projection or a no-match verdict. It is MQLite's single
// entry point: compile once, then call Match for each data document.
package evaluate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Beluki/MQLite/internal/matcher"
	"github.com/Beluki/MQLite/internal/operator"
	"github.com/Beluki/MQLite/internal/random"
	"github.com/Beluki/MQLite/internal/value"
)

// ErrDepthExceeded reports that the query and data nested deeper than
// the engine tolerates. The engine is stack-recursive by design (§5);
// this bound exists only to turn unbounded recursion into a reported
// error instead of a process crash.
var ErrDepthExceeded = errors.New("evaluate: maximum nesting depth exceeded")

// maxDepth comfortably exceeds the 100-level minimum the engine must
// tolerate without overflowing the goroutine stack.
const maxDepth = 512

// Evaluator applies a matcher tree to data values. It is not safe for
// concurrent use by multiple goroutines on the same instance; create one
// Evaluator per goroutine.
type Evaluator struct {
	ops   *operator.Evaluator
	depth int
}

// New returns an Evaluator ready to match.
func New() *Evaluator {
	e := &Evaluator{}
	e.ops = operator.NewEvaluator(e.evalAsOperatorMatch)
	return e
}

// Match evaluates m against d and reports whether it matched along with
// the resulting projection.
func (e *Evaluator) Match(m matcher.Node, d value.Value) (value.Value, bool, error) {
	e.depth = 0
	return e.eval(m, d)
}

// Match compiles nothing; it's a convenience wrapper around a fresh
// Evaluator for one-off calls.
func Match(m matcher.Node, d value.Value) (value.Value, bool, error) {
	return New().Match(m, d)
}

func (e *Evaluator) evalAsOperatorMatch(m matcher.Node, d value.Value) (value.Value, bool, error) {
	return e.eval(m, d)
}

func (e *Evaluator) eval(m matcher.Node, d value.Value) (value.Value, bool, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > maxDepth {
		return nil, false, ErrDepthExceeded
	}

	switch mt := m.(type) {
	case matcher.Any:
		return value.Clone(d), true, nil

	case matcher.Equal:
		if value.Equal(d, mt.Value) {
			return value.Clone(d), true, nil
		}
		return nil, false, nil

	case matcher.List:
		return e.evalList(mt, d)

	case matcher.Object:
		return e.evalObject(mt, d)

	default:
		return nil, false, fmt.Errorf("evaluate: unrecognized matcher node %T", m)
	}
}

func (e *Evaluator) evalList(l matcher.List, d value.Value) (value.Value, bool, error) {
	arr, ok := d.(value.Array)
	if !ok {
		return nil, false, nil
	}

	if len(l.Elements) == 1 {
		if obj, ok := l.Elements[0].(matcher.Object); ok {
			return e.evalListOfRecords(obj, arr)
		}
	}

	out := make(value.Array, 0, len(l.Elements))
	for _, elem := range l.Elements {
		proj, found, err := e.findFirstMatch(elem, arr)
		if err != nil {
			return nil, false, err
		}
		if !found {
			return nil, false, nil
		}
		out = append(out, proj)
	}
	return out, true, nil
}

func (e *Evaluator) findFirstMatch(elem matcher.Node, arr value.Array) (value.Value, bool, error) {
	for _, x := range arr {
		proj, ok, err := e.eval(elem, x)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return proj, true, nil
		}
	}
	return nil, false, nil
}

// evalListOfRecords implements the list-of-records rule (§4.3): obj is
// replicated element-wise over arr, and its directives are applied once
// to the collected projections rather than per element.
func (e *Evaluator) evalListOfRecords(obj matcher.Object, arr value.Array) (value.Value, bool, error) {
	results := make(value.Array, 0, len(arr))
	for _, x := range arr {
		proj, ok, err := e.evalObject(obj, x)
		if err != nil {
			return nil, false, err
		}
		if ok {
			results = append(results, proj)
		}
	}

	return applyDirectives(obj.Directives, results), true, nil
}

func (e *Evaluator) evalObject(obj matcher.Object, d value.Value) (value.Value, bool, error) {
	dataObj, ok := d.(*value.Object)
	if !ok {
		return nil, false, nil
	}

	out := value.NewObject()
	for _, field := range obj.Fields {
		switch field.Kind {
		case matcher.FieldProject:
			ok, err := e.evalProjectField(field, dataObj, out)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}

		case matcher.FieldConstrain:
			ok, err := e.evalConstrainField(field, dataObj)
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}

		case matcher.FieldWildcard:
			applyWildcard(field.Wildcard, dataObj, out)
		}
	}

	return out, true, nil
}

func (e *Evaluator) evalProjectField(field matcher.Field, dataObj, out *value.Object) (bool, error) {
	dv, present := dataObj.Get(field.Name)
	if !present {
		return field.Optional, nil
	}

	proj, ok, err := e.eval(field.Sub, dv)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	out.Set(field.Name, proj)
	return true, nil
}

func (e *Evaluator) evalConstrainField(field matcher.Field, dataObj *value.Object) (bool, error) {
	dv, present := dataObj.Get(field.Name)
	if !present {
		return false, nil
	}

	for _, fc := range field.Constraints {
		ok, err := e.ops.Evaluate(fc, dv)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func applyWildcard(spec matcher.WildcardSpec, data, out *value.Object) {
	switch spec.Kind {
	case matcher.WildcardAllKeys:
		for _, k := range data.Keys() {
			if out.Has(k) {
				continue
			}
			v, _ := data.Get(k)
			out.Set(k, value.Clone(v))
		}
	case matcher.WildcardNamedKeys:
		for _, k := range spec.Names {
			if v, ok := data.Get(k); ok {
				out.Set(k, value.Clone(v))
			}
		}
	}
}

// applyDirectives runs the compiled __limit__/__sort__/__order__ steps
// in the exact order the compiler recorded them (§4.3), not a fixed
// sort-then-order-then-limit default.
func applyDirectives(directives []matcher.Directive, results value.Array) value.Array {
	out := results
	for _, d := range directives {
		switch d.Kind {
		case matcher.DirectiveSort:
			out = sortByKey(out, d.SortKey)
		case matcher.DirectiveOrder:
			out = applyOrder(out, d.Order)
		case matcher.DirectiveLimit:
			if d.Limit < len(out) {
				out = out[:d.Limit]
			}
		}
	}
	return out
}

func sortByKey(records value.Array, sortKey string) value.Array {
	out := make(value.Array, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return value.Compare(fieldValue(out[i], sortKey), fieldValue(out[j], sortKey)) < 0
	})
	return out
}

func fieldValue(record value.Value, key string) value.Value {
	if obj, ok := record.(*value.Object); ok {
		if v, ok := obj.Get(key); ok {
			return v
		}
	}
	return value.Null{}
}

func applyOrder(records value.Array, order matcher.Order) value.Array {
	switch order {
	case matcher.OrderReverse:
		out := make(value.Array, len(records))
		for i, v := range records {
			out[len(records)-1-i] = v
		}
		return out

	case matcher.OrderRandom:
		out := make(value.Array, len(records))
		copy(out, records)
		for i := len(out) - 1; i > 0; i-- {
			j := random.IntN(i + 1)
			out[i], out[j] = out[j], out[i]
		}
		return out

	default:
		return records
	}
}
