package codex

import (
	"reflect"
	"testing"
)

func TestTypeDescriptor_Raw(t *testing.T) {
	tests := []struct {
		name string
		d    TypeDescriptor
		want string
	}{
		{"slice", TypeOf[[]int](), "[]"},
		{"map", TypeOf[map[string]int](), "map"},
		{"pointer", TypeOf[*int](), "*"},
		{"builtin", TypeOf[int](), "int"},
		{"generic", TypeOf[Pair[int, string]](), "codex.Pair"},
		{"other generic", TypeOf[Pair[bool, bool]](), "codex.Pair"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Raw(); got != tt.want {
				t.Errorf("Raw() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeDescriptor_Args(t *testing.T) {
	tests := []struct {
		name string
		d    TypeDescriptor
		want []reflect.Type
	}{
		{"slice", TypeOf[[]int](), []reflect.Type{reflect.TypeFor[int]()}},
		{"map", TypeOf[map[string]bool](), []reflect.Type{reflect.TypeFor[string](), reflect.TypeFor[bool]()}},
		{"pair", TypeOf[Pair[int, string]](), []reflect.Type{reflect.TypeFor[int](), reflect.TypeFor[string]()}},
		{"either", TypeOf[Either[bool, int]](), []reflect.Type{reflect.TypeFor[bool](), reflect.TypeFor[int]()}},
		{"scalar", TypeOf[int](), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.d.Args()
			if len(args) != len(tt.want) {
				t.Fatalf("Args() = %v, want %v", args, tt.want)
			}
			for i, a := range args {
				if a.Type() != tt.want[i] {
					t.Errorf("Args()[%d] = %v, want %v", i, a.Type(), tt.want[i])
				}
			}
		})
	}
}

func TestTypeDescriptor_Equality(t *testing.T) {
	if TypeOf[[]string]() != Describe(reflect.TypeFor[[]string]()) {
		t.Error("descriptors of the same type should be equal")
	}
	if TypeOf[[]string]() == TypeOf[[]int]() {
		t.Error("descriptors of different types should differ")
	}
	if !(TypeDescriptor{}).IsZero() {
		t.Error("zero descriptor should report IsZero")
	}
	if got := TypeOf[[]int]().Arg(3); !got.IsZero() {
		t.Errorf("Arg(3) = %v, want zero", got)
	}
}

func TestStripTypeParams(t *testing.T) {
	if got := stripTypeParams("Pair[int,string]"); got != "Pair" {
		t.Errorf("stripTypeParams() = %q", got)
	}
	if got := stripTypeParams("Plain"); got != "Plain" {
		t.Errorf("stripTypeParams() = %q", got)
	}
}
