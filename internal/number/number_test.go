package number

import (
	"testing"

	"github.com/Beluki/MQLite/internal/value"
)

func TestToFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input value.Value
		ok    bool
		want  float64
	}{
		{name: "number", input: value.Number(12.5), ok: true, want: 12.5},
		{name: "negative", input: value.Number(-3), ok: true, want: -3},
		{name: "string", input: value.String("42"), ok: false, want: 0},
		{name: "bool", input: value.Bool(true), ok: false, want: 0},
		{name: "null", input: value.Null{}, ok: false, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat64(tt.input)
			if ok != tt.ok {
				t.Fatalf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if got != tt.want {
				t.Fatalf("ToFloat64(%v) value = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
