package value

import "testing"

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null_equal", Null{}, Null{}, true},
		{"number_value_equal", Number(1), Number(1.0), true},
		{"number_string_not_equal", Number(1), String("1"), false},
		{"bool_number_not_equal", Bool(true), Number(1), false},
		{"string_equal", String("a"), String("a"), true},
		{"array_order_matters", Array{String("a"), String("b")}, Array{String("b"), String("a")}, false},
		{"array_equal", Array{Number(1), Null{}}, Array{Number(1), Null{}}, true},
		{"object_order_irrelevant", objOf("a", Number(1), "b", Number(2)), objOf("b", Number(2), "a", Number(1)), true},
		{"object_missing_key", objOf("a", Number(1)), objOf("a", Number(1), "b", Number(2)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"null_less_than_number", Null{}, Number(0), -1},
		{"false_less_than_true", Bool(false), Bool(true), -1},
		{"number_order", Number(1), Number(2), -1},
		{"string_order", String("a"), String("b"), -1},
		{"mixed_type_by_rank", Number(1), String("a"), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b)
			if (got < 0) != (tt.want < 0) || (got > 0) != (tt.want > 0) || (got == 0) != (tt.want == 0) {
				t.Errorf("Compare(%v, %v) = %d, want same sign as %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("z", Number(1))
	obj.Set("a", Number(2))
	obj.Set("m", Number(3))

	want := []string{"z", "a", "m"}
	got := obj.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDecodePreservesObjectOrder(t *testing.T) {
	v, err := Decode([]byte(`{"name": "John", "age": 30, "hobbies": ["chess"]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	obj, ok := v.(*Object)
	if !ok {
		t.Fatalf("Decode() = %T, want *Object", v)
	}

	want := []string{"name", "age", "hobbies"}
	got := obj.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	name, ok := obj.Get("name")
	if !ok || !Equal(name, String("John")) {
		t.Errorf("Get(%q) = %v, %v", "name", name, ok)
	}
}

func TestDecodeNull(t *testing.T) {
	v, err := Decode([]byte(`null`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := v.(Null); !ok {
		t.Errorf("Decode(null) = %T, want Null", v)
	}
}

func objOf(kv ...any) *Object {
	obj := NewObject()
	for i := 0; i < len(kv); i += 2 {
		obj.Set(kv[i].(string), kv[i+1].(Value))
	}
	return obj
}
