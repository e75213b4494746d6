// Package matcher defines the intermediate representation the compiler
// produces and the evaluator walks: a tree of matchers, constraints,
// and projection directives.
package matcher

import (
	"github.com/Beluki/MQLite/internal/key"
	"github.com/Beluki/MQLite/internal/value"
)

// Node is one matcher tree node.
type Node interface {
	node()
}

// Any succeeds on any value (compiled from a literal JSON null).
type Any struct{}

func (Any) node() {}

// Equal succeeds iff the data is deeply equal to Value.
type Equal struct {
	Value value.Value
}

func (Equal) node() {}

// List succeeds against a data array iff every element matcher finds at
// least one satisfying data element. When it contains exactly one
// element matcher whose compiled form is an Object, the evaluator
// instead replicates that Object matcher across every data element (the
// "list-of-records" rule, §4.3) and applies the Object's directives to
// the collected results.
type List struct {
	Elements []Node
}

func (List) node() {}

// FieldKind distinguishes a projecting field, a predicate-only field,
// and the synthetic wildcard field the compiler appends for `*`.
type FieldKind int

const (
	FieldProject FieldKind = iota
	FieldConstrain
	FieldWildcard
)

// Field is one entry of an Object matcher, kept in query declaration
// order (including the synthetic wildcard field, so its output
// position matches where `*` appeared in the query).
type Field struct {
	Name string
	Kind FieldKind

	// Optional is only meaningful for FieldProject: a missing data key
	// is not a failure, the field is simply omitted from the output.
	Optional bool

	// Sub is the compiled sub-matcher for FieldProject.
	Sub Node

	// Constraints holds every AND-combined constraint attached to Name
	// for FieldConstrain (a repeated same-name constraint key appends
	// here rather than creating a second field).
	Constraints []FieldConstraint

	// Wildcard carries the `*` spec for FieldWildcard.
	Wildcard WildcardSpec
}

// FieldConstraint is one compiled "name <op> [all|any|one]": value entry.
// A quantifier of all/any/one requires its JSON value to be a list; the
// compiler expands it into one predicate per list element, each tested
// against the whole datum (not one element of the datum each — "hobbies
// contain any": ["reading","painting"] means "hobbies contains reading,
// OR hobbies contains painting", not an element-wise lift). Quantifier
// Single is represented the same way with a one-element slice.
type FieldConstraint struct {
	Spec key.ConstraintSpec

	// Literals holds the constraint's right-hand value(s), for every
	// operator except `match`.
	Literals []value.Value

	// Matches holds the recursively compiled sub-matcher(s) when Spec.Op
	// is key.OpMatch; Literals is unset in that case.
	Matches []Node
}

// WildcardKind distinguishes the two `*` forms.
type WildcardKind int

const (
	WildcardAllKeys WildcardKind = iota
	WildcardNamedKeys
)

// WildcardSpec is the `*` field's value: either every data key, or a
// named subset.
type WildcardSpec struct {
	Kind  WildcardKind
	Names []string
}

// Order is the __order__ directive's argument.
type Order int

const (
	OrderAscending Order = iota
	OrderReverse
	OrderRandom
)

// DirectiveKind identifies which of the three result-assembly
// directives a Directive value carries.
type DirectiveKind int

const (
	DirectiveLimit DirectiveKind = iota
	DirectiveSort
	DirectiveOrder
)

// Directive is one compiled __limit__ / __sort__ / __order__ entry.
// Directives are kept in query declaration order (interleaved with each
// other, not with Fields) because the evaluator applies them in that
// exact order rather than a fixed sort-then-order-then-limit default.
type Directive struct {
	Kind DirectiveKind

	Limit   int
	SortKey string
	Order   Order
}

// Object matches a JSON object: every FieldConstrain entry must pass,
// every FieldProject entry (unless Optional and absent) must match and
// contributes its projection to the output at its field position, and
// every FieldWildcard copies data keys into the output at its position.
// Directives apply only when this Object is replicated across a data
// array by the list-of-records rule.
type Object struct {
	Fields     []Field
	Directives []Directive
}

func (Object) node() {}
