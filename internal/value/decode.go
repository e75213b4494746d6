package value

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
)

// ErrDecode is the sentinel error for all value decoding failures.
var ErrDecode = errors.New("value: decode error")

// Decode parses a JSON document (query or data text) into a Value,
// preserving object key declaration order.
//
// JSON is a syntactic subset of YAML 1.2, so the text is parsed with
// goccy/go-yaml's flow-style node handling; a boxed holder implements
// UnmarshalYAML(node ast.Node) error to receive the raw AST node instead
// of a lossy map[string]any, which keeps object key order intact.
func Decode(data []byte) (Value, error) {
	var boxed boxedValue
	if err := yaml.Unmarshal(data, &boxed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if boxed.v == nil {
		return Null{}, nil
	}
	return boxed.v, nil
}

// boxedValue adapts Value (an interface, which cannot itself implement
// UnmarshalYAML against a concrete receiver) to goccy/go-yaml's custom
// unmarshaling hook.
type boxedValue struct {
	v Value
}

func (b *boxedValue) UnmarshalYAML(node ast.Node) error {
	v, err := fromNode(node)
	if err != nil {
		return err
	}
	b.v = v
	return nil
}

func fromNode(node ast.Node) (Value, error) {
	switch n := node.(type) {
	case nil:
		return Null{}, nil
	case *ast.NullNode:
		return Null{}, nil
	case *ast.BoolNode:
		return Bool(n.Value), nil
	case *ast.IntegerNode:
		switch iv := n.Value.(type) {
		case int64:
			return Number(iv), nil
		case uint64:
			return Number(iv), nil
		default:
			return nil, fmt.Errorf("%w: unexpected integer node value type %T", ErrDecode, n.Value)
		}
	case *ast.FloatNode:
		return Number(n.Value), nil
	case *ast.StringNode:
		return String(n.Value), nil
	case *ast.LiteralNode:
		return String(n.Value.Value), nil
	case *ast.TagNode:
		return fromNode(n.Value)
	case *ast.MappingValueNode:
		obj := NewObject()
		if err := addMappingValue(obj, n); err != nil {
			return nil, err
		}
		return obj, nil
	case *ast.MappingNode:
		obj := NewObject()
		for _, pair := range n.Values {
			if err := addMappingValue(obj, pair); err != nil {
				return nil, err
			}
		}
		return obj, nil
	case *ast.SequenceNode:
		arr := make(Array, 0, len(n.Values))
		for _, item := range n.Values {
			v, err := fromNode(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("%w: unsupported JSON node type %T", ErrDecode, node)
	}
}

func addMappingValue(obj *Object, pair *ast.MappingValueNode) error {
	keyNode, ok := pair.Key.(*ast.StringNode)
	if !ok {
		return fmt.Errorf("%w: object key must be a string, got %T", ErrDecode, pair.Key)
	}

	val, err := fromNode(pair.Value)
	if err != nil {
		return err
	}

	obj.Set(keyNode.Value, val)
	return nil
}
